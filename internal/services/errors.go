package services

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP statuses;
// every operation either fully succeeds or fails with one of them, with no
// partial writes.
var (
	// ErrAccessDenied means the caller lacks the required role for the action.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound means a referenced project/version/proposal does not exist
	// or does not belong to the stated parent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a state transition was attempted on a record not
	// in the required state (e.g. reviewing a non-pending proposal).
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict means a uniqueness constraint was violated under
	// concurrency. Callers may retry the operation.
	ErrConflict = errors.New("conflict")
	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
)
