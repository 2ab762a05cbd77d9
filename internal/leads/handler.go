package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metalife/leadbot/internal/auth"
	"github.com/metalife/leadbot/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
}

// List handles GET /leads, scoped to the authenticated actor.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	leads, err := h.repo.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "actor", actor.Username)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ListLeadsResponse{Leads: leads, Count: len(leads)})
}

// Get handles GET /leads/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetByID(r.Context(), id, actor)
	if err != nil {
		h.writeRepoError(w, err, actor)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lead)
}

// UpdateStatusRequest is the body for PATCH /leads/{id}/status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /leads/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.UpdateStatus(r.Context(), id, req.Status, actor)
	if err != nil {
		h.writeRepoError(w, err, actor)
		return
	}

	h.logger.Info("lead status updated",
		"lead_id", lead.ID,
		"status", lead.Status,
		"actor", actor.Username,
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lead)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, actor Actor) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		http.Error(w, "lead not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, "invalid status", http.StatusBadRequest)
	default:
		h.logger.Error("lead operation failed", "error", err, "actor", actor.Username)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func actorFromRequest(r *http.Request) (Actor, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return Actor{}, false
	}
	return Actor{Username: identity.Username, Role: identity.Role}, true
}
