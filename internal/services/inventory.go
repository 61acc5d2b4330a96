package services

import (
	"fmt"
	"log"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"

	"github.com/google/uuid"
)

// InventoryService owns every ticket's sellable seat count and its
// verification status. Reserve and Release are the only two paths that
// mutate seat quantity anywhere in the system.
type InventoryService struct {
	tickets    TicketRepository
	authorizer *Authorizer
}

// NewInventoryService creates a new inventory service
func NewInventoryService(tickets TicketRepository, authorizer *Authorizer) *InventoryService {
	return &InventoryService{
		tickets:    tickets,
		authorizer: authorizer,
	}
}

// CreateTicket posts a new ticket for the vendor with verification pending
func (s *InventoryService) CreateTicket(vendor *models.User, req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := s.authorizer.Authorize(vendor, ActionManageTicket, vendor.ID); err != nil {
		return nil, err
	}

	return s.tickets.Create(vendor.ID, req)
}

// GetTicket retrieves a ticket by ID
func (s *InventoryService) GetTicket(id int) (*models.Ticket, error) {
	return s.tickets.GetByID(id)
}

// ListTickets searches tickets with filters and pagination
func (s *InventoryService) ListTickets(filters repositories.TicketSearchFilters) ([]*models.Ticket, int, error) {
	return s.tickets.Search(filters)
}

// SetVerification records an admin's approve/reject decision. Idempotent: a
// repeated decision with the same target state is a no-op.
func (s *InventoryService) SetVerification(admin *models.User, ticketID int, decision models.VerificationStatus) (*models.Ticket, error) {
	if err := s.authorizer.Authorize(admin, ActionVerifyTicket, 0); err != nil {
		return nil, err
	}

	if !models.ValidVerificationDecision(decision) {
		return nil, &models.ValidationError{Field: "decision", Message: "decision must be approved or rejected"}
	}

	return s.tickets.SetVerification(ticketID, decision)
}

// Reserve atomically holds qty seats on the ticket and returns a reservation
// token identifying the hold. The ticket must be approved, not departed, and
// have at least qty seats; otherwise nothing is mutated and the repository's
// error says why.
func (s *InventoryService) Reserve(ticketID, qty int) (string, error) {
	if qty <= 0 {
		return "", &models.ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}

	if err := s.tickets.Reserve(ticketID, qty); err != nil {
		return "", err
	}

	return uuid.NewString(), nil
}

// Release returns qty seats to the ticket after a rejection or cancellation.
// Safe to call even if the ticket was deleted in the interim: the orphaned
// release is logged and swallowed, never raised, so a booking transition
// that already committed cannot be wedged by it.
func (s *InventoryService) Release(ticketID, qty int) {
	released, err := s.tickets.Release(ticketID, qty)
	if err != nil {
		log.Printf("inventory: release of %d seats on ticket %d failed: %v", qty, ticketID, err)
		return
	}

	if !released {
		log.Printf("inventory: orphaned release of %d seats on deleted ticket %d", qty, ticketID)
	}
}

// Advertise toggles the promoted flag on a ticket. At most
// models.MaxAdvertisedTickets tickets may be advertised at once; exceeding
// the cap fails rather than evicting another ticket.
func (s *InventoryService) Advertise(admin *models.User, ticketID int, advertised bool) (*models.Ticket, error) {
	if err := s.authorizer.Authorize(admin, ActionVerifyTicket, 0); err != nil {
		return nil, err
	}

	return s.tickets.SetAdvertised(ticketID, advertised)
}

// DeleteTicket removes a ticket while no non-terminal booking references it.
// The owning vendor or an admin may delete.
func (s *InventoryService) DeleteTicket(actor *models.User, ticketID int) error {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return err
	}

	if err := s.authorizer.Authorize(actor, ActionManageTicket, ticket.VendorID); err != nil {
		return err
	}

	if err := s.tickets.Delete(ticketID); err != nil {
		return fmt.Errorf("failed to delete ticket %d: %w", ticketID, err)
	}

	return nil
}
