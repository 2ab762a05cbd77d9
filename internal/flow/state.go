package flow

import (
	"fmt"
	"strings"
)

// Level identifies the current node in the conversation graph.
type Level string

const (
	LevelStart            Level = "start"
	LevelAge              Level = "age"
	LevelProductType      Level = "product_type"
	LevelSmoker           Level = "smoker"
	LevelPaymentFrequency Level = "payment_frequency"
	LevelRetirementAge    Level = "retirement_age"
	LevelDependentsCount  Level = "dependents_count"
	LevelMonthlyBudget    Level = "monthly_budget"
	LevelRetirementGoal   Level = "retirement_goal"
	LevelAwaitingSummary  Level = "awaiting_summary"
	LevelName             Level = "name"
	LevelPhone            Level = "phone"
	LevelClosed           Level = "closed"
)

// Answers accumulates the values collected during a conversation. Keys only
// ever accumulate as the flow advances; nothing is removed or rewritten.
// Only the age is type-checked; every other field is stored verbatim.
type Answers struct {
	Age              *int   `json:"age,omitempty"`
	ProductType      string `json:"product_type,omitempty"`
	Smoker           string `json:"smoker,omitempty"`
	PaymentFrequency string `json:"payment_frequency,omitempty"`
	RetirementAge    string `json:"retirement_age,omitempty"`
	DependentsCount  string `json:"dependents_count,omitempty"`
	RetirementGoal   string `json:"retirement_goal,omitempty"`
	MonthlyBudget    string `json:"monthly_budget,omitempty"`
	Name             string `json:"name,omitempty"`
	Phone            string `json:"phone,omitempty"`
}

// State is the unit of continuity between turns. The server never stores it:
// the caller receives it with every reply and sends it back on the next turn.
type State struct {
	Level   Level   `json:"level"`
	Answers Answers `json:"answers"`
}

// NewState returns the state of a fresh conversation.
func NewState() State {
	return State{Level: LevelStart}
}

// Closed reports whether the conversation reached its terminal level.
func (s State) Closed() bool {
	return s.Level == LevelClosed
}

// Summary renders the collected answers for the pre-confirmation recap,
// in flow order, keyed the same way the lead record stores them.
func (a Answers) Summary() string {
	var b strings.Builder
	b.WriteString("\nResumen:\n\n")
	if a.Age != nil {
		fmt.Fprintf(&b, "age: %d\n", *a.Age)
	}
	for _, f := range []struct{ key, value string }{
		{"product_type", a.ProductType},
		{"smoker", a.Smoker},
		{"payment_frequency", a.PaymentFrequency},
		{"retirement_age", a.RetirementAge},
		{"dependents_count", a.DependentsCount},
		{"monthly_budget", a.MonthlyBudget},
		{"retirement_goal", a.RetirementGoal},
	} {
		if f.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
		}
	}
	return b.String()
}
