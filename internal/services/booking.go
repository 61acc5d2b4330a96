package services

import (
	"time"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"
)

// BookingService is the booking state machine. It owns a booking's lifecycle
// status and enforces legal transitions given a role and an action. Every
// transition is a compare-and-swap on the current status; the loser of a
// race sees InvalidTransition, never a corrupted intermediate state.
type BookingService struct {
	bookings   BookingRepository
	inventory  InventoryOperations
	authorizer *Authorizer
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingRepository, inventory InventoryOperations, authorizer *Authorizer) *BookingService {
	return &BookingService{
		bookings:   bookings,
		inventory:  inventory,
		authorizer: authorizer,
	}
}

// RequestBooking reserves seats and creates a pending booking. The seat hold
// happens first; if it fails the caller receives the inventory error
// verbatim and no booking is created. The total price is snapshotted from
// the ticket's current unit price and never changes afterwards.
func (s *BookingService) RequestBooking(traveler *models.User, req *models.BookingCreateRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(traveler, ActionRequestBooking, traveler.ID); err != nil {
		return nil, err
	}

	ticket, err := s.inventory.GetTicket(req.TicketID)
	if err != nil {
		return nil, err
	}

	token, err := s.inventory.Reserve(req.TicketID, req.Quantity)
	if err != nil {
		return nil, err
	}

	totalAmount := ticket.UnitPrice * req.Quantity

	booking, err := s.bookings.Create(req.TicketID, traveler.ID, req.Quantity, totalAmount, token)
	if err != nil {
		// The hold committed but the booking record did not. Hand the
		// seats back; Release is idempotent and never raises.
		s.inventory.Release(req.TicketID, req.Quantity)
		return nil, err
	}

	return booking, nil
}

// Decide records a vendor's or admin's accept/reject verdict on a pending
// booking. Only the ticket's owning vendor or an admin may decide, and only
// from pending. Rejection releases the held seats.
func (s *BookingService) Decide(actor *models.User, bookingID int, decision models.BookingDecision) (*models.Booking, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.bookings.GetByIDWithTicket(bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(actor, ActionDecideBooking, detail.VendorID); err != nil {
		return nil, err
	}

	if detail.Departure.Before(time.Now()) {
		return nil, &models.InvalidTransitionError{From: detail.Status, To: models.BookingAccepted}
	}

	target := models.BookingAccepted
	if decision == models.DecisionReject {
		target = models.BookingRejected
	}

	swapped, err := s.bookings.TransitionStatus(bookingID, models.BookingPending, target)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &models.InvalidTransitionError{From: detail.Status, To: target}
	}

	if target == models.BookingRejected {
		s.inventory.Release(detail.TicketID, detail.Quantity)
	}

	return s.bookings.GetByID(bookingID)
}

// Cancel moves a booking to cancelled on the traveler's (or an admin's)
// request. Legal only from pending or accepted and only while the ticket's
// departure is still in the future; after departure the booking stands.
// Cancellation releases the held seats.
func (s *BookingService) Cancel(actor *models.User, bookingID int) (*models.Booking, error) {
	detail, err := s.bookings.GetByIDWithTicket(bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(actor, ActionCancelBooking, detail.TravelerID); err != nil {
		return nil, err
	}

	if !detail.HoldsInventory() {
		return nil, &models.InvalidTransitionError{From: detail.Status, To: models.BookingCancelled}
	}

	if detail.Departure.Before(time.Now()) {
		return nil, &models.InvalidTransitionError{From: detail.Status, To: models.BookingCancelled}
	}

	// CAS from the status we observed. If the booking moved between the
	// read and here (vendor decided, payment confirmed), the swap misses
	// and the caller gets InvalidTransition rather than a lost update.
	swapped, err := s.bookings.TransitionStatus(bookingID, detail.Status, models.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if !swapped {
		current, readErr := s.bookings.GetByID(bookingID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, &models.InvalidTransitionError{From: current.Status, To: models.BookingCancelled}
	}

	s.inventory.Release(detail.TicketID, detail.Quantity)

	return s.bookings.GetByID(bookingID)
}

// MarkPaid moves a booking from accepted to paid. It is invoked solely by
// the payment reconciler after gateway verification, never by a role action.
// The accepted-only compare-and-swap is the guard against double payment.
func (s *BookingService) MarkPaid(bookingID int, transactionRef string) (*models.Booking, error) {
	swapped, err := s.bookings.TransitionStatus(bookingID, models.BookingAccepted, models.BookingPaid)
	if err != nil {
		return nil, err
	}
	if !swapped {
		current, readErr := s.bookings.GetByID(bookingID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, &models.InvalidTransitionError{From: current.Status, To: models.BookingPaid}
	}

	return s.bookings.GetByID(bookingID)
}

// GetBooking retrieves a booking, visible to its traveler, the ticket's
// vendor, or an admin
func (s *BookingService) GetBooking(actor *models.User, bookingID int) (*repositories.BookingWithTicket, error) {
	detail, err := s.bookings.GetByIDWithTicket(bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(actor, ActionViewBooking, detail.TravelerID); err != nil {
		// Not the traveler; the owning vendor may still view.
		if vendorErr := s.authorizer.Authorize(actor, ActionDecideBooking, detail.VendorID); vendorErr != nil {
			return nil, err
		}
	}

	return detail, nil
}

// ListBookings searches bookings scoped to what the actor may see: admins
// see everything, vendors see bookings on their tickets, travelers their own
func (s *BookingService) ListBookings(actor *models.User, filters repositories.BookingSearchFilters) ([]*models.Booking, int, error) {
	switch s.authorizer.ResolveRole(actor) {
	case models.RoleAdmin:
		// No forced scope.
	case models.RoleVendor:
		filters.VendorID = actor.ID
	default:
		filters.TravelerID = actor.ID
	}

	return s.bookings.Search(filters)
}
