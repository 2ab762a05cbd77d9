package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead is not found or not visible
	// to the requesting actor.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid lead status")

	// ErrForbidden is returned when an agent tries to mutate a lead
	// assigned to someone else.
	ErrForbidden = errors.New("lead belongs to another agent")
)
