package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db  DB
	now func() time.Time
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const leadColumns = `id, name, age, product_type, smoker, payment_frequency,
	monthly_budget, retirement_age, dependents_count, retirement_goal, phone,
	created_at, status, agent, score, priority, contacted_at, first_response_minutes`

// Insert inserts a new row with status Nuevo; created_at is set by the
// database at insert time.
func (r *PostgresRepository) Insert(ctx context.Context, lead *Lead) (*Lead, error) {
	query := `
		INSERT INTO leads (
			name, age, product_type, smoker, payment_frequency,
			monthly_budget, retirement_age, dependents_count, retirement_goal,
			phone, created_at, status, agent, score, priority
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11, $12, $13, $14)
		RETURNING id, created_at
	`
	out := *lead
	out.Status = StatusNew
	if err := r.db.QueryRow(ctx, query,
		lead.Name,
		lead.Age,
		lead.ProductType,
		lead.Smoker,
		lead.PaymentFrequency,
		lead.MonthlyBudget,
		lead.RetirementAge,
		lead.DependentsCount,
		lead.RetirementGoal,
		lead.Phone,
		StatusNew,
		lead.Agent,
		lead.Score,
		lead.Priority,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return &out, nil
}

// GetByID fetches a lead scoped to the actor: agents only see their own
// rows, and an invisible row reads as not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64, actor Actor) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	args := []any{id}
	if !actor.Director() {
		query += ` AND agent = $2`
		args = append(args, actor.Username)
	}

	lead, err := scanLead(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns the actor's visible leads ordered by score, then recency.
func (r *PostgresRepository) List(ctx context.Context, actor Actor) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if !actor.Director() {
		query += ` WHERE agent = $1`
		args = append(args, actor.Username)
	}
	query += ` ORDER BY score DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a lead's status inside a transaction. The row is
// locked with FOR UPDATE so that two concurrent first-contact updates cannot
// both stamp the timing fields; once set, contacted_at and
// first_response_minutes are never touched again.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status, actor Actor) (*Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads: begin update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: lock row: %w", err)
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

	if _, err := tx.Exec(ctx, `
		UPDATE leads
		SET status = $2, contacted_at = $3, first_response_minutes = $4
		WHERE id = $1`,
		id, lead.Status, lead.ContactedAt, lead.FirstResponseMinutes,
	); err != nil {
		return nil, fmt.Errorf("leads: update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("leads: commit update: %w", err)
	}
	return lead, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Age,
		&lead.ProductType,
		&lead.Smoker,
		&lead.PaymentFrequency,
		&lead.MonthlyBudget,
		&lead.RetirementAge,
		&lead.DependentsCount,
		&lead.RetirementGoal,
		&lead.Phone,
		&lead.CreatedAt,
		&lead.Status,
		&lead.Agent,
		&lead.Score,
		&lead.Priority,
		&lead.ContactedAt,
		&lead.FirstResponseMinutes,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
