package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/metalife/leadbot/pkg/logging"
)

// Handler handles login and password rotation.
type Handler struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
	logger   *logging.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(repo Repository, secret string, tokenTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token              string `json:"token"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// Login verifies credentials and issues a JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.repo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := IssueToken(h.secret, h.tokenTTL, user)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "username", user.Username)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("login", "username", user.Username, "role", user.Role)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Token:              token,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
	})
}

// ChangePasswordRequest is the body for POST /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword rotates the caller's password and clears the forced
// rotation flag, returning a fresh token.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 8 {
		http.Error(w, ErrWeakPassword.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.repo.GetByUsername(r.Context(), identity.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.repo.UpdatePassword(r.Context(), identity.Username, string(hash)); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.Error("failed to update password", "error", err, "username", identity.Username)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user.MustChangePassword = false
	token, err := IssueToken(h.secret, h.tokenTTL, user)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "username", user.Username)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("password rotated", "username", identity.Username)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{Token: token, Role: user.Role})
}
