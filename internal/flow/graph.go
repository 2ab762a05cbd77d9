package flow

import (
	"strconv"
	"strings"
)

// Config selects which optional questions a deployment asks. The deployed
// questionnaires differ only in these switches plus the assignment strategy,
// so a variant is configuration rather than a forked flow.
type Config struct {
	// AskPaymentFrequency inserts the payment-frequency question between
	// the smoker question and the budget question.
	AskPaymentFrequency bool
	// AskRetirementAge routes the non-medical branch through a retirement
	// age question before asking about dependents.
	AskRetirementAge bool
	// AskRetirementGoal adds a retirement-goal question after the budget
	// for life-insurance products.
	AskRetirementGoal bool
}

// DefaultConfig is the union flow: every optional question enabled except
// the retirement-age detour.
func DefaultConfig() Config {
	return Config{
		AskPaymentFrequency: true,
		AskRetirementGoal:   true,
	}
}

// step describes how one level consumes the user's message: where to store
// it, what to answer when it does not validate, and which level follows.
// Guards see only the current message and the answers accumulated so far.
type step struct {
	// consume stores the message into the answers. A non-nil error keeps
	// the conversation at the same level and replies with errPrompt.
	consume   func(msg string, a *Answers) error
	errPrompt string
	next      func(msg string, a Answers) Level
}

// Graph is the data representation of the questionnaire.
type Graph struct {
	cfg   Config
	steps map[Level]step
}

// NewGraph builds the flow graph for the given configuration.
func NewGraph(cfg Config) *Graph {
	g := &Graph{cfg: cfg}
	g.steps = map[Level]step{
		LevelStart: {
			next: func(string, Answers) Level { return LevelAge },
		},
		LevelAge: {
			consume: func(msg string, a *Answers) error {
				age, err := strconv.Atoi(strings.TrimSpace(msg))
				if err != nil || age < 0 {
					return errInvalidAge
				}
				a.Age = &age
				return nil
			},
			errPrompt: "Escribe tu edad en números.",
			next:      func(string, Answers) Level { return LevelProductType },
		},
		LevelProductType: {
			consume: func(msg string, a *Answers) error {
				a.ProductType = msg
				return nil
			},
			next: func(msg string, _ Answers) Level {
				if strings.Contains(msg, "Gastos Médicos") {
					return LevelSmoker
				}
				if cfg.AskRetirementAge {
					return LevelRetirementAge
				}
				return LevelDependentsCount
			},
		},
		LevelSmoker: {
			consume: func(msg string, a *Answers) error {
				a.Smoker = msg
				return nil
			},
			next: func(string, Answers) Level {
				if cfg.AskPaymentFrequency {
					return LevelPaymentFrequency
				}
				return LevelMonthlyBudget
			},
		},
		LevelPaymentFrequency: {
			consume: func(msg string, a *Answers) error {
				a.PaymentFrequency = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelMonthlyBudget },
		},
		LevelRetirementAge: {
			consume: func(msg string, a *Answers) error {
				a.RetirementAge = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelDependentsCount },
		},
		LevelDependentsCount: {
			consume: func(msg string, a *Answers) error {
				a.DependentsCount = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelMonthlyBudget },
		},
		LevelMonthlyBudget: {
			consume: func(msg string, a *Answers) error {
				a.MonthlyBudget = msg
				return nil
			},
			next: func(_ string, a Answers) Level {
				if cfg.AskRetirementGoal && strings.Contains(a.ProductType, "Seguro de Vida") {
					return LevelRetirementGoal
				}
				return LevelAwaitingSummary
			},
		},
		LevelRetirementGoal: {
			consume: func(msg string, a *Answers) error {
				a.RetirementGoal = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelAwaitingSummary },
		},
		LevelAwaitingSummary: {
			consume: func(msg string, _ *Answers) error {
				if msg != "Generar resumen" {
					return errNotConfirmed
				}
				return nil
			},
			errPrompt: "Presiona el botón.",
			next:      func(string, Answers) Level { return LevelName },
		},
		LevelName: {
			consume: func(msg string, a *Answers) error {
				a.Name = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelPhone },
		},
		LevelPhone: {
			consume: func(msg string, a *Answers) error {
				a.Phone = msg
				return nil
			},
			next: func(string, Answers) Level { return LevelClosed },
		},
	}
	return g
}

// prompt returns the question text and quick replies shown when the
// conversation enters a level.
func (g *Graph) prompt(level Level, a Answers) (string, []Option) {
	switch level {
	case LevelAge:
		return "Hola 👋 ¿Cuántos años tienes?", nil
	case LevelProductType:
		return "¿Qué estás buscando?", texts("Gastos Médicos (MedicaLife)", "Seguro de Vida (MetaLife)")
	case LevelSmoker:
		return "¿Fumas?", texts("Sí", "No")
	case LevelPaymentFrequency:
		return "¿Cada cuánto prefieres pagar?", texts("Mensual", "Trimestral", "Anual")
	case LevelRetirementAge:
		return "¿A qué edad te gustaría retirarte?", nil
	case LevelDependentsCount:
		return "¿Cuántas personas dependen de ti?", nil
	case LevelMonthlyBudget:
		// The medical branch arrives here from the smoker questions and is
		// phrased "podrías"; the other products come from the dependents
		// question and ask "te gustaría".
		question := "¿Cuánto te gustaría invertir al mes?"
		if strings.Contains(a.ProductType, "Gastos Médicos") {
			question = "¿Cuánto podrías invertir al mes?"
		}
		return question, texts("$1,500 – $2,500", "$2,500 – $4,000", "$4,000 – $7,000", "Más de $7,000")
	case LevelRetirementGoal:
		return "¿Cuál es tu meta al retirarte?", nil
	case LevelAwaitingSummary:
		return "Presiona generar resumen para continuar.", texts("Generar resumen")
	case LevelName:
		return a.Summary() + "\nEscribe tu nombre completo.", nil
	case LevelPhone:
		return "Escribe tu número de WhatsApp.", nil
	default:
		return "", nil
	}
}
