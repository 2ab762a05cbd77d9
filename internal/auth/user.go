package auth

import "time"

const (
	RoleDirector = "director"
	RoleAgent    = "agent"
)

// User is a dashboard account: the director or one of the sales agents.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// MustChangePassword forces a credential rotation before the account
	// can use anything other than the password-change endpoint. Seeded
	// accounts always start with it set.
	MustChangePassword bool `json:"must_change_password"`
}

// Identity is the authenticated principal attached to a request context.
type Identity struct {
	Username           string
	Role               string
	MustChangePassword bool
}
