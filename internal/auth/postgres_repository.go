package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("auth: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, role, must_change_password, created_at
		FROM users WHERE username = $1`, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.MustChangePassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: select user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	out := *user
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, must_change_password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, created_at`,
		user.Username, user.PasswordHash, user.Role, user.MustChangePassword,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, must_change_password = FALSE
		WHERE username = $1`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
