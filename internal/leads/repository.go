package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the write and read contract of the lead store.
type Repository interface {
	Insert(ctx context.Context, lead *Lead) (*Lead, error)
	GetByID(ctx context.Context, id int64, actor Actor) (*Lead, error)
	List(ctx context.Context, actor Actor) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id int64, status Status, actor Actor) (*Lead, error)
}

// InMemoryRepository implements Repository with in-memory storage. Used in
// tests and when the service runs without a database.
type InMemoryRepository struct {
	mu     sync.Mutex
	leads  map[int64]*Lead
	nextID int64
	now    func() time.Time
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[int64]*Lead),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Insert stores a new lead with status Nuevo and a creation timestamp set
// at call time.
func (r *InMemoryRepository) Insert(ctx context.Context, lead *Lead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *lead
	stored.ID = r.nextID
	stored.Status = StatusNew
	stored.CreatedAt = r.now()
	r.leads[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByID returns a lead visible to the actor. Rows assigned to other
// agents are reported as not found rather than forbidden.
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64, actor Actor) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok || !actor.canSee(lead) {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

// List returns the actor's visible leads ordered by score descending, then
// newest first.
func (r *InMemoryRepository) List(ctx context.Context, actor Actor) ([]*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if actor.canSee(lead) {
			copied := *lead
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus transitions a lead's status. The first transition into
// Contactado stamps contacted_at and first_response_minutes; later
// transitions leave both untouched. The whole read-check-write runs under
// the repository lock.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status, actor Actor) (*Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	if !actor.canSee(lead) {
		return nil, ErrForbidden
	}

	lead.Status = status
	if status == StatusContacted && lead.ContactedAt == nil {
		now := r.now()
		minutes := int(now.Sub(lead.CreatedAt).Minutes())
		lead.ContactedAt = &now
		lead.FirstResponseMinutes = &minutes
	}

	out := *lead
	return &out, nil
}
