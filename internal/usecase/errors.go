package usecase

import "errors"

var (
	// ErrInvalidInput marks malformed request shapes: bad squad
	// composition, missing fields, unparseable values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks unknown fixture/player/team/prediction ids.
	ErrNotFound = errors.New("resource not found")
	// ErrPreconditionFailed marks operations rejected by current state:
	// selection window closed, deadline passed, team locked, no fantasy
	// team saved yet, not in queue.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrConflict marks duplicate writes racing with the matching
	// engine; callers should re-read status instead of retrying blindly.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrUnauthorized marks missing or invalid caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependencyUnavailable marks failures of external collaborators.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
