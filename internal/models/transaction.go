package models

import (
	"strings"
	"time"
)

// TransactionStatus represents the outcome of a payment transaction
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
	TransactionPending TransactionStatus = "pending"
)

// Transaction represents a completed monetary transaction against a booking.
// The revenue ledger is append-only: rows are inserted exactly once per
// booking and never updated or deleted. A success row exists if and only if
// the booking reached paid.
type Transaction struct {
	ID            int               `json:"id" db:"id"`
	BookingID     int               `json:"booking_id" db:"booking_id"`
	Amount        int               `json:"amount" db:"amount"` // Amount in cents
	PaymentMethod string            `json:"payment_method" db:"payment_method"`
	GatewayRef    string            `json:"gateway_ref" db:"gateway_ref"`
	Status        TransactionStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// Validate validates transaction data before it is appended to the ledger
func (t *Transaction) Validate() error {
	if t.BookingID <= 0 {
		return &ValidationError{Field: "booking_id", Message: "booking id is required"}
	}

	if t.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}

	if strings.TrimSpace(t.GatewayRef) == "" {
		return &ValidationError{Field: "gateway_ref", Message: "gateway reference is required"}
	}

	switch t.Status {
	case TransactionSuccess, TransactionFailed, TransactionPending:
	default:
		return &ValidationError{Field: "status", Message: "invalid transaction status"}
	}

	return nil
}

// AmountInCurrency returns the amount in the main currency as a float
func (t *Transaction) AmountInCurrency() float64 {
	return float64(t.Amount) / 100.0
}

// RevenueSummary aggregates successful transactions for reporting
type RevenueSummary struct {
	TotalTransactions int              `json:"total_transactions"`
	TotalRevenue      int              `json:"total_revenue"` // Amount in cents
	ByVendor          []*VendorRevenue `json:"by_vendor,omitempty"`
	ByTicket          []*TicketRevenue `json:"by_ticket,omitempty"`
}

// VendorRevenue aggregates a single vendor's successful transactions
type VendorRevenue struct {
	VendorID          int `json:"vendor_id"`
	TotalTransactions int `json:"total_transactions"`
	TotalRevenue      int `json:"total_revenue"`
}

// TicketRevenue aggregates successful transactions for a single ticket
type TicketRevenue struct {
	TicketID          int    `json:"ticket_id"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	TotalTransactions int    `json:"total_transactions"`
	SeatsSold         int    `json:"seats_sold"`
	TotalRevenue      int    `json:"total_revenue"`
}
