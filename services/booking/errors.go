package booking

import (
	"fmt"

	"bondigoo/models"
)

// ValidationError rejects malformed input before any transaction opens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// InvalidTransitionError signals a status change not permitted by the
// transition table. The booking is untouched.
type InvalidTransitionError struct {
	BookingID string
	From      models.BookingStatus
	To        models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s: transition %s -> %s not permitted", e.BookingID, e.From, e.To)
}

// SlotConflictError signals that the target interval overlaps an
// existing non-terminal booking or is not covered by availability. The
// transaction is aborted with no partial writes.
type SlotConflictError struct {
	CoachID  string
	Interval models.Interval
	Message  string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict for coach %s at %s: %s", e.CoachID, e.Interval, e.Message)
}

// PolicyViolationError signals a cancel/reschedule attempted outside the
// permitted notice window. ReasonCode is surfaced to the caller.
type PolicyViolationError struct {
	BookingID  string
	ReasonCode string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("policy violation on booking %s: %s", e.BookingID, e.ReasonCode)
}

// TransientConflictError is surfaced only after the bounded internal
// retry of write contention has been exhausted.
type TransientConflictError struct {
	Attempts int
	Last     error
}

func (e *TransientConflictError) Error() string {
	return fmt.Sprintf("calendar write contention persisted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *TransientConflictError) Unwrap() error { return e.Last }

// GatewayError records a payment gateway failure after the calendar has
// committed. The calendar state stands; the payment sub-state is marked
// for out-of-band reconciliation.
type GatewayError struct {
	Op       string
	IntentID string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed for intent %s: %v", e.Op, e.IntentID, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
