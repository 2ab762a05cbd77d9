package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/metalife/leadbot/internal/flow"
	"github.com/metalife/leadbot/internal/transcript"
	"github.com/metalife/leadbot/pkg/logging"
)

// Handler exposes the conversation engine over HTTP.
type Handler struct {
	engine     *flow.Engine
	transcript *transcript.Store
	logger     *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(engine *flow.Engine, transcriptStore *transcript.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:     engine,
		transcript: transcriptStore,
		logger:     logger,
	}
}

// TurnRequest is the body for POST /chat. A missing state starts a fresh
// conversation; otherwise the state is the one returned on the previous
// turn, round-tripped unchanged.
type TurnRequest struct {
	Message        string      `json:"message"`
	State          *flow.State `json:"state,omitempty"`
	ConversationID string      `json:"conversation_id,omitempty"`
}

// TurnResponse mirrors the engine's turn plus the conversation id used for
// transcript logging.
type TurnResponse struct {
	Reply          string        `json:"reply"`
	Options        []flow.Option `json:"options"`
	State          flow.State    `json:"state"`
	ConversationID string        `json:"conversation_id"`
}

// Turn handles POST /chat.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	state := flow.NewState()
	if req.State != nil {
		state = *req.State
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	turn, err := h.engine.Step(r.Context(), state, req.Message)
	if err != nil {
		if errors.Is(err, flow.ErrUnknownLevel) {
			h.logger.Warn("rejected conversation state", "level", state.Level)
			http.Error(w, "invalid conversation state", http.StatusBadRequest)
			return
		}
		// Finalization could not be persisted. The state is returned to
		// the caller unchanged, so resending the turn retries the write.
		h.logger.Error("turn failed", "error", err, "conversation_id", req.ConversationID)
		http.Error(w, "could not process your message, please try again", http.StatusBadGateway)
		return
	}

	h.logTurn(r, req, turn)

	if turn.Options == nil {
		turn.Options = []flow.Option{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TurnResponse{
		Reply:          turn.Reply,
		Options:        turn.Options,
		State:          turn.State,
		ConversationID: req.ConversationID,
	})
}

// logTurn appends both sides of the exchange to the transcript. Best
// effort: a transcript failure never fails the turn.
func (h *Handler) logTurn(r *http.Request, req TurnRequest, turn flow.Turn) {
	if h.transcript == nil {
		return
	}
	ctx := r.Context()
	if req.Message != "" {
		if err := h.transcript.Append(ctx, req.ConversationID, transcript.Message{
			Role: "user",
			Body: req.Message,
		}); err != nil {
			h.logger.Warn("transcript append failed", "error", err)
		}
	}
	if err := h.transcript.Append(ctx, req.ConversationID, transcript.Message{
		Role:  "bot",
		Body:  turn.Reply,
		Level: string(turn.State.Level),
	}); err != nil {
		h.logger.Warn("transcript append failed", "error", err)
	}
}

// HistoryResponse is the body for GET /chat/history.
type HistoryResponse struct {
	Messages []transcript.Message `json:"messages"`
}

// History handles GET /chat/history?conversation=ID.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversation")
	if conversationID == "" {
		http.Error(w, "conversation parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.transcript.List(r.Context(), conversationID, 100)
	if err != nil {
		h.logger.Error("failed to load transcript", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []transcript.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HistoryResponse{Messages: msgs})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
