package auth

import "errors"

var (
	// ErrUserNotFound is returned when a username does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when creating a duplicate username.
	ErrUserExists = errors.New("username already taken")

	// ErrInvalidCredentials is returned for a failed login. Deliberately
	// indistinguishable between unknown user and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when a new password fails policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)
