package auth

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for user storage
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	// UpdatePassword replaces the stored hash and clears the rotation flag.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// InMemoryRepository implements Repository with in-memory storage.
type InMemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]*User
	nextID int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil, ErrUserExists
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.users[stored.Username] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = false
	return nil
}
