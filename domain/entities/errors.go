package entities

import "errors"

// Core precondition violations. These are defensive contracts on the
// component APIs; UI-level validation is expected to prevent all of them.
var (
	// ErrInvalidRequest is returned when matching is started without both
	// a mood and a topic.
	ErrInvalidRequest = errors.New("mood and topic are required")

	// ErrInvalidRating is returned when a session rating falls outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidState is returned when a mutation is attempted on a session
	// that is not in the state the operation requires.
	ErrInvalidState = errors.New("operation not allowed in current session state")

	// ErrNotFound is returned when a handle or entity ID is unknown.
	ErrNotFound = errors.New("not found")
)
