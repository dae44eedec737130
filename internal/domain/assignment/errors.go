package assignment

import "errors"

// ErrInvalidCode indicates a confirmation code mismatch on the rider
// delivery path. No mutation is performed when it is returned.
var ErrInvalidCode = errors.New("invalid confirmation code")

// ErrStale indicates the assignment document changed between the read and
// the conditional write. Callers may retry against fresh state.
var ErrStale = errors.New("assignment was modified concurrently")

// ErrNotFound indicates a missing assignment
type ErrNotFound struct {
	AssignmentID string
}

func (e ErrNotFound) Error() string {
	return "assignment not found: " + e.AssignmentID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	// An empty target AssignmentID matches any ErrNotFound
	if t.AssignmentID == "" {
		return true
	}
	return e.AssignmentID == t.AssignmentID
}

// ErrInvalidTransition indicates a status change not reachable from the
// assignment's current state
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e ErrInvalidTransition) Error() string {
	return "invalid status transition: " + string(e.From) + " -> " + string(e.To)
}

// Is implements the errors.Is interface for ErrInvalidTransition
func (e ErrInvalidTransition) Is(target error) bool {
	t, ok := target.(ErrInvalidTransition)
	if !ok {
		return false
	}
	if t.From == "" && t.To == "" {
		return true
	}
	return e.From == t.From && e.To == t.To
}
