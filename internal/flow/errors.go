package flow

import "errors"

var (
	// ErrUnknownLevel is returned when a round-tripped state names a level
	// that is not part of the graph. The engine refuses to guess.
	ErrUnknownLevel = errors.New("unknown conversation level")

	// ErrEmptyRoster is returned when an assigner is built without agents.
	ErrEmptyRoster = errors.New("agent roster is empty")

	// ErrUnknownStrategy is returned for an unrecognized assignment strategy.
	ErrUnknownStrategy = errors.New("unknown assignment strategy")
)

// Validation failures recovered inside a turn. They never escape Step;
// the engine converts them into a re-prompt on the same level.
var (
	errInvalidAge   = errors.New("age is not a non-negative integer")
	errNotConfirmed = errors.New("summary not confirmed")
)
