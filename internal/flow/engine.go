package flow

import (
	"context"
	"fmt"

	"github.com/metalife/leadbot/internal/leads"
	"github.com/metalife/leadbot/internal/observability/metrics"
	"github.com/metalife/leadbot/pkg/logging"
)

const closingReply = "Gracias. Un asesor se pondrá en contacto contigo."

// LeadWriter is the engine's outbound port to the lead store.
type LeadWriter interface {
	Insert(ctx context.Context, lead *leads.Lead) (*leads.Lead, error)
}

// Turn is the outcome of one conversational step.
type Turn struct {
	Reply   string   `json:"reply"`
	Options []Option `json:"options"`
	State   State    `json:"state"`
}

// Engine drives the questionnaire: it validates and stores each message,
// decides the next level and prompt, and on the terminal transition scores
// the lead, assigns an agent, and writes the record exactly once.
type Engine struct {
	graph        *Graph
	assigner     Assigner
	store        LeadWriter
	whatsAppLink string
	logger       *logging.Logger
	metrics      *metrics.ChatMetrics
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithWhatsAppLink adds a deep-link quick reply to the closing turn.
func WithWhatsAppLink(url string) EngineOption {
	return func(e *Engine) { e.whatsAppLink = url }
}

// WithMetrics wires chat metrics into the engine.
func WithMetrics(m *metrics.ChatMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an engine over the given graph, assigner, and lead store.
func NewEngine(graph *Graph, assigner Assigner, store LeadWriter, logger *logging.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		graph:    graph,
		assigner: assigner,
		store:    store,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step advances the conversation by one turn. Same (state, message) always
// yields the same result; the only side effect is the lead insert on the
// single transition into the closed level. A failed insert leaves the state
// unchanged so the caller can retry the turn.
func (e *Engine) Step(ctx context.Context, state State, message string) (Turn, error) {
	if state.Closed() {
		// Terminal: a retried turn must not insert a second lead.
		return Turn{Reply: closingReply, State: state}, nil
	}

	step, ok := e.graph.steps[state.Level]
	if !ok {
		e.metrics.ObserveTurn(string(state.Level), "protocol_error")
		return Turn{}, fmt.Errorf("%w: %q", ErrUnknownLevel, state.Level)
	}

	if step.consume != nil {
		if err := step.consume(message, &state.Answers); err != nil {
			e.metrics.ObserveTurn(string(state.Level), "reprompt")
			return Turn{Reply: step.errPrompt, State: state}, nil
		}
	}

	next := step.next(message, state.Answers)
	if next == LevelClosed {
		return e.finalize(ctx, state)
	}

	state.Level = next
	reply, options := e.graph.prompt(next, state.Answers)
	e.metrics.ObserveTurn(string(next), "ok")
	return Turn{Reply: reply, Options: options, State: state}, nil
}

// finalize scores and classifies the lead, picks an agent, and submits the
// record with status Nuevo. The state only moves to closed once the write
// is confirmed.
func (e *Engine) finalize(ctx context.Context, state State) (Turn, error) {
	score := Score(state.Answers)
	priority := Classify(score)
	agent := e.assigner.Next()

	lead := &leads.Lead{
		Name:             state.Answers.Name,
		ProductType:      state.Answers.ProductType,
		Smoker:           state.Answers.Smoker,
		PaymentFrequency: state.Answers.PaymentFrequency,
		MonthlyBudget:    state.Answers.MonthlyBudget,
		RetirementAge:    state.Answers.RetirementAge,
		DependentsCount:  state.Answers.DependentsCount,
		RetirementGoal:   state.Answers.RetirementGoal,
		Phone:            state.Answers.Phone,
		Status:           leads.StatusNew,
		Agent:            agent,
		Score:            score,
		Priority:         string(priority),
	}
	if state.Answers.Age != nil {
		lead.Age = *state.Answers.Age
	}

	created, err := e.store.Insert(ctx, lead)
	if err != nil {
		e.metrics.ObserveFinalizeFailure()
		return Turn{}, fmt.Errorf("flow: finalize lead: %w", err)
	}

	e.logger.Info("conversation finalized",
		"lead_id", created.ID,
		"agent", agent,
		"score", score,
		"priority", priority,
	)
	e.metrics.ObserveTurn(string(LevelClosed), "ok")
	e.metrics.ObserveCompleted(score)

	state.Level = LevelClosed
	turn := Turn{Reply: closingReply, State: state}
	if e.whatsAppLink != "" {
		turn.Options = []Option{Link("Abrir WhatsApp", e.whatsAppLink)}
	}
	return turn, nil
}
