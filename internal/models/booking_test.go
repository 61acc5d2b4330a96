package models

import (
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to accepted", BookingPending, BookingAccepted, true},
		{"pending to rejected", BookingPending, BookingRejected, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"pending to paid skips accepted", BookingPending, BookingPaid, false},
		{"accepted to paid", BookingAccepted, BookingPaid, true},
		{"accepted to cancelled", BookingAccepted, BookingCancelled, true},
		{"accepted to rejected", BookingAccepted, BookingRejected, false},
		{"rejected is terminal", BookingRejected, BookingCancelled, false},
		{"paid is terminal", BookingPaid, BookingCancelled, false},
		{"cancelled is terminal", BookingCancelled, BookingPending, false},
		{"unknown status", BookingStatus("bogus"), BookingAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestBookingIsTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingRejected, BookingPaid, BookingCancelled}
	for _, status := range terminal {
		b := &Booking{Status: status}
		if !b.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}

	open := []BookingStatus{BookingPending, BookingAccepted}
	for _, status := range open {
		b := &Booking{Status: status}
		if b.IsTerminal() {
			t.Errorf("expected %s not to be terminal", status)
		}
	}
}

func TestBookingHoldsInventory(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingPending, true},
		{BookingAccepted, true},
		{BookingRejected, false},
		{BookingPaid, false},
		{BookingCancelled, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if got := b.HoldsInventory(); got != tt.want {
			t.Errorf("HoldsInventory() for %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestBookingCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *BookingCreateRequest
		wantErr bool
	}{
		{"valid", &BookingCreateRequest{TicketID: 1, Quantity: 2}, false},
		{"missing ticket", &BookingCreateRequest{Quantity: 2}, true},
		{"zero quantity", &BookingCreateRequest{TicketID: 1, Quantity: 0}, true},
		{"negative quantity", &BookingCreateRequest{TicketID: 1, Quantity: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBookingDecisionValidate(t *testing.T) {
	if err := DecisionAccept.Validate(); err != nil {
		t.Errorf("accept should be valid: %v", err)
	}
	if err := DecisionReject.Validate(); err != nil {
		t.Errorf("reject should be valid: %v", err)
	}
	if err := BookingDecision("approve").Validate(); err == nil {
		t.Error("expected error for unknown decision")
	}
}
