package flow

import "strings"

// Priority is the coarse classification derived from a lead's score.
type Priority string

const (
	PriorityHot    Priority = "Caliente"
	PriorityMedium Priority = "Medio"
	PriorityLow    Priority = "Bajo"
)

// budgetTiers are checked in this exact order and the first substring hit
// wins. The bracket labels are free text, so the ordering is part of the
// scoring contract and must not be rearranged.
var budgetTiers = []struct {
	needle string
	points int
}{
	{"Más de $7,000", 90},
	{"$4,000", 75},
	{"$2,500", 60},
	{"$1,500", 45},
}

const maxScore = 100

// Score computes the lead score from the collected answers. Deterministic
// and side-effect free; always within [0, 100].
func Score(a Answers) int {
	score := 0
	for _, tier := range budgetTiers {
		if strings.Contains(a.MonthlyBudget, tier.needle) {
			score = tier.points
			break
		}
	}

	if strings.Contains(a.ProductType, "Seguro de Vida") {
		score += 10
	}

	if a.DependentsCount != "" && a.DependentsCount != "0" {
		score += 5
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// Classify maps a score to its priority band. Pure and total.
func Classify(score int) Priority {
	switch {
	case score >= 85:
		return PriorityHot
	case score >= 65:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
