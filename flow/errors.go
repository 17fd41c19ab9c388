package flow

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownJourney     = errors.New("unknown journey")
	ErrJourneyNotForRole  = errors.New("journey not available to this role")
	ErrNoActiveJourney    = errors.New("no active journey")
	ErrJourneyMismatch    = errors.New("journey is not the active journey")
	ErrNotCompletable     = errors.New("journey cannot be completed from this step")
	ErrUnexpectedInput    = errors.New("input not accepted on this step")
	ErrTransitionInFlight = errors.New("another transition is in flight")
	ErrNoCompletion       = errors.New("no matching completion in flight")
	ErrResendUnavailable  = errors.New("verification code cannot be resent yet")
	ErrStaleScan          = errors.New("scan result arrived after leaving the entry step")

	// ErrTimerLeak flags a verification step that found a previous timer
	// still running. It is a programming error, not a user-facing one.
	ErrTimerLeak = errors.New("verification timer still active")
)

// ValidationError reports why captured data was refused. The controller
// stays on the current step.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BackendRejection wraps a failed submission. The journey stays on its
// completion step with the payload intact.
type BackendRejection struct {
	Journey JourneyKind
	Err     error
}

func (e *BackendRejection) Error() string {
	return fmt.Sprintf("%s rejected by backend: %v", e.Journey, e.Err)
}

func (e *BackendRejection) Unwrap() error { return e.Err }
