package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/metalife/leadbot/pkg/logging"
)

// SeedConfig describes the accounts created at startup: one director plus
// the fixed agent roster. Passwords must be supplied by configuration;
// accounts without one are skipped rather than seeded with a default.
type SeedConfig struct {
	Agents           []string
	DirectorPassword string
	AgentPassword    string
}

// Seed ensures the director and roster accounts exist. Every seeded account
// starts with a pending password rotation. Existing accounts are left alone.
func Seed(ctx context.Context, repo Repository, cfg SeedConfig, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	if err := seedUser(ctx, repo, "director", RoleDirector, cfg.DirectorPassword, logger); err != nil {
		return err
	}
	for _, agent := range cfg.Agents {
		if err := seedUser(ctx, repo, agent, RoleAgent, cfg.AgentPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

func seedUser(ctx context.Context, repo Repository, username, role, password string, logger *logging.Logger) error {
	if password == "" {
		logger.Warn("no seed password configured, account not created", "username", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash seed password: %w", err)
	}

	_, err = repo.Create(ctx, &User{
		Username:           username,
		PasswordHash:       string(hash),
		Role:               role,
		MustChangePassword: true,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil
		}
		return fmt.Errorf("auth: seed %s: %w", username, err)
	}

	logger.Info("seeded account", "username", username, "role", role)
	return nil
}
