package leads

import "time"

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "Nuevo"
	StatusContacted Status = "Contactado"
	StatusQuoted    Status = "Cotizado"
	StatusClosed    Status = "Cerrado"
	StatusLost      Status = "Perdido"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQuoted, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Lead is the durable output of one completed conversation.
type Lead struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	ProductType      string     `json:"product_type"`
	Smoker           string     `json:"smoker,omitempty"`
	PaymentFrequency string     `json:"payment_frequency,omitempty"`
	MonthlyBudget    string     `json:"monthly_budget"`
	RetirementAge    string     `json:"retirement_age,omitempty"`
	DependentsCount  string     `json:"dependents_count,omitempty"`
	RetirementGoal   string     `json:"retirement_goal,omitempty"`
	Phone            string     `json:"phone"`
	CreatedAt        time.Time  `json:"created_at"`
	Status           Status     `json:"status"`
	Agent            string     `json:"agent"`
	Score            int        `json:"score"`
	Priority         string     `json:"priority"`
	ContactedAt      *time.Time `json:"contacted_at,omitempty"`

	// FirstResponseMinutes is stamped on the first transition into
	// Contactado and never recomputed afterwards.
	FirstResponseMinutes *int `json:"first_response_minutes,omitempty"`
}

const (
	RoleDirector = "director"
	RoleAgent    = "agent"
)

// Actor identifies who is reading or mutating leads. The director sees
// everything; an agent is restricted to rows assigned to them.
type Actor struct {
	Username string
	Role     string
}

// Director reports whether the actor has unrestricted access.
func (a Actor) Director() bool {
	return a.Role == RoleDirector
}

func (a Actor) canSee(l *Lead) bool {
	return a.Director() || l.Agent == a.Username
}
