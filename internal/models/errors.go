package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrInsufficientInventory = errors.New("insufficient seats available")
	ErrTicketUnavailable     = errors.New("ticket is not available for booking")
	ErrCapacityExceeded      = errors.New("advertised ticket limit reached")
	ErrForbidden             = errors.New("forbidden")
	ErrIntentMismatch        = errors.New("gateway result does not match the payment intent for this booking")
)

// ValidationError indicates malformed input. The caller must fix the input
// before retrying.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError indicates a referenced ticket, booking or user is absent.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// InvalidTransitionError indicates an illegal booking status change. It is
// either a caller bug or the losing side of a race on the same booking.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition from %s to %s", e.From, e.To)
}

// InvalidStateError indicates an operation attempted against a booking whose
// current status does not permit it (e.g. creating a payment intent for a
// booking that is not accepted).
type InvalidStateError struct {
	Operation string
	Status    BookingStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while booking is %s", e.Operation, e.Status)
}

// GatewayError wraps a payment gateway communication failure. These are
// retryable: the caller may safely re-invoke confirmation with fresh gateway
// state because confirmation is idempotent by booking id.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
