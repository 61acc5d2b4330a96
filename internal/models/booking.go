package models

import (
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingTransitions defines the legal status transitions. The key is the
// current status, the value the set of statuses reachable from it. Rejected,
// paid and cancelled are terminal.
var BookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingAccepted, BookingRejected, BookingCancelled},
	BookingAccepted:  {BookingPaid, BookingCancelled},
	BookingRejected:  {},
	BookingPaid:      {},
	BookingCancelled: {},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range BookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking represents a traveler's reservation request against a ticket
type Booking struct {
	ID               int           `json:"id" db:"id"`
	TicketID         int           `json:"ticket_id" db:"ticket_id"`
	TravelerID       int           `json:"traveler_id" db:"traveler_id"`
	Quantity         int           `json:"quantity" db:"quantity"`
	TotalAmount      int           `json:"total_amount" db:"total_amount"` // Amount in cents, snapshotted at creation
	Status           BookingStatus `json:"status" db:"status"`
	ReservationToken string        `json:"reservation_token" db:"reservation_token"`
	PaymentRef       string        `json:"payment_ref" db:"payment_ref"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingCreateRequest represents the data needed to request a booking
type BookingCreateRequest struct {
	TicketID int `json:"ticket_id"`
	Quantity int `json:"quantity"`
}

// Validate validates booking creation data
func (req *BookingCreateRequest) Validate() error {
	if req.TicketID <= 0 {
		return &ValidationError{Field: "ticket_id", Message: "ticket id is required"}
	}

	if req.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}

	return nil
}

// BookingDecision is a vendor's or admin's verdict on a pending booking
type BookingDecision string

const (
	DecisionAccept BookingDecision = "accept"
	DecisionReject BookingDecision = "reject"
)

// Validate validates a booking decision
func (d BookingDecision) Validate() error {
	switch d {
	case DecisionAccept, DecisionReject:
		return nil
	default:
		return &ValidationError{Field: "decision", Message: "decision must be accept or reject"}
	}
}

// IsTerminal returns true if no further transition is legal from the
// booking's current status
func (b *Booking) IsTerminal() bool {
	return len(BookingTransitions[b.Status]) == 0
}

// IsPending returns true if the booking awaits a vendor decision
func (b *Booking) IsPending() bool {
	return b.Status == BookingPending
}

// IsAccepted returns true if the booking awaits payment
func (b *Booking) IsAccepted() bool {
	return b.Status == BookingAccepted
}

// IsPaid returns true if the booking has been paid for
func (b *Booking) IsPaid() bool {
	return b.Status == BookingPaid
}

// HoldsInventory returns true while the booking still owns a seat hold that
// must be released if it is rejected or cancelled
func (b *Booking) HoldsInventory() bool {
	return b.Status == BookingPending || b.Status == BookingAccepted
}

// TotalAmountInCurrency returns the total in the main currency as a float
func (b *Booking) TotalAmountInCurrency() float64 {
	return float64(b.TotalAmount) / 100.0
}
