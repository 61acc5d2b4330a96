package models

import (
	"strings"
	"time"
)

// TransportMode represents the mode of transport a ticket covers
type TransportMode string

const (
	ModeBus    TransportMode = "bus"
	ModeTrain  TransportMode = "train"
	ModeLaunch TransportMode = "launch"
	ModePlane  TransportMode = "plane"
)

// VerificationStatus represents the admin verification state of a ticket
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// MaxAdvertisedTickets is the hard cap on simultaneously advertised tickets.
const MaxAdvertisedTickets = 6

// Ticket represents a sellable trip posted by a vendor
type Ticket struct {
	ID                 int                `json:"id" db:"id"`
	VendorID           int                `json:"vendor_id" db:"vendor_id"`
	Origin             string             `json:"origin" db:"origin"`
	Destination        string             `json:"destination" db:"destination"`
	TransportMode      TransportMode      `json:"transport_mode" db:"transport_mode"`
	UnitPrice          int                `json:"unit_price" db:"unit_price"` // Amount in cents
	Quantity           int                `json:"quantity" db:"quantity"`
	Departure          time.Time          `json:"departure" db:"departure"`
	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	Advertised         bool               `json:"advertised" db:"advertised"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// TicketCreateRequest represents the data needed to post a new ticket
type TicketCreateRequest struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	TransportMode TransportMode `json:"transport_mode"`
	UnitPrice     int           `json:"unit_price"`
	Quantity      int           `json:"quantity"`
	Departure     time.Time     `json:"departure"`
}

// Validate validates ticket creation data
func (req *TicketCreateRequest) Validate() error {
	if strings.TrimSpace(req.Origin) == "" {
		return &ValidationError{Field: "origin", Message: "origin is required"}
	}

	if strings.TrimSpace(req.Destination) == "" {
		return &ValidationError{Field: "destination", Message: "destination is required"}
	}

	if err := validateTransportMode(req.TransportMode); err != nil {
		return err
	}

	if req.UnitPrice <= 0 {
		return &ValidationError{Field: "unit_price", Message: "price per seat must be positive"}
	}

	if req.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "seat quantity cannot be negative"}
	}

	if !req.Departure.After(time.Now()) {
		return &ValidationError{Field: "departure", Message: "departure must be in the future"}
	}

	return nil
}

func validateTransportMode(mode TransportMode) error {
	switch mode {
	case ModeBus, ModeTrain, ModeLaunch, ModePlane:
		return nil
	default:
		return &ValidationError{Field: "transport_mode", Message: "transport mode must be one of bus, train, launch, plane"}
	}
}

// ValidVerificationDecision reports whether a decision is a legal target for
// SetVerification. Tickets never return to pending through the admin API.
func ValidVerificationDecision(status VerificationStatus) bool {
	return status == VerificationApproved || status == VerificationRejected
}

// IsApproved returns true if an admin has approved the ticket for sale
func (t *Ticket) IsApproved() bool {
	return t.VerificationStatus == VerificationApproved
}

// IsDeparted returns true if the ticket's departure time has passed
func (t *Ticket) IsDeparted() bool {
	return !t.Departure.After(time.Now())
}

// IsBookable returns true if the ticket can accept reservations right now.
// Departure is checked server-side here and again inside the atomic reserve;
// any client-held countdown is display only.
func (t *Ticket) IsBookable() bool {
	return t.IsApproved() && !t.IsDeparted() && t.Quantity > 0
}

// UnitPriceInCurrency returns the seat price in the main currency as a float
func (t *Ticket) UnitPriceInCurrency() float64 {
	return float64(t.UnitPrice) / 100.0
}
