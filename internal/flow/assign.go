package flow

import (
	"math/rand"
	"sync/atomic"
)

// Assigner selects the sales agent for a finalized conversation.
type Assigner interface {
	Next() string
}

// RoundRobin cycles through the roster in order. The counter is a single
// atomic increment-and-read, so concurrent finalizations never observe the
// same slot twice and never skip one.
type RoundRobin struct {
	roster  []string
	counter atomic.Uint64
}

// NewRoundRobin builds a round-robin assigner over the given roster.
func NewRoundRobin(roster []string) (*RoundRobin, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	return &RoundRobin{roster: append([]string(nil), roster...)}, nil
}

func (r *RoundRobin) Next() string {
	n := r.counter.Add(1) - 1
	return r.roster[n%uint64(len(r.roster))]
}

// Random picks uniformly from the roster, independently per assignment.
type Random struct {
	roster []string
}

// NewRandom builds a random assigner over the given roster.
func NewRandom(roster []string) (*Random, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	return &Random{roster: append([]string(nil), roster...)}, nil
}

func (r *Random) Next() string {
	return r.roster[rand.Intn(len(r.roster))]
}

// NewAssigner builds the assigner named by strategy ("round_robin" or
// "random").
func NewAssigner(strategy string, roster []string) (Assigner, error) {
	switch strategy {
	case "round_robin":
		return NewRoundRobin(roster)
	case "random":
		return NewRandom(roster)
	default:
		return nil, ErrUnknownStrategy
	}
}
