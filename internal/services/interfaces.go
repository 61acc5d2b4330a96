package services

import (
	"context"
	"time"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	Create(vendorID int, req *models.TicketCreateRequest) (*models.Ticket, error)
	GetByID(id int) (*models.Ticket, error)
	SetVerification(id int, status models.VerificationStatus) (*models.Ticket, error)
	Reserve(ticketID, qty int) error
	Release(ticketID, qty int) (bool, error)
	SetAdvertised(id int, advertised bool) (*models.Ticket, error)
	Delete(id int) error
	Search(filters repositories.TicketSearchFilters) ([]*models.Ticket, int, error)
}

// BookingRepository interface for booking data operations
type BookingRepository interface {
	Create(ticketID, travelerID, quantity, totalAmount int, reservationToken string) (*models.Booking, error)
	GetByID(id int) (*models.Booking, error)
	GetByIDWithTicket(id int) (*repositories.BookingWithTicket, error)
	TransitionStatus(id int, from, to models.BookingStatus) (bool, error)
	SetPaymentRef(id int, paymentRef string) (bool, error)
	Search(filters repositories.BookingSearchFilters) ([]*models.Booking, int, error)
}

// TransactionRepository interface for the revenue ledger. Append-only by
// construction: no update or delete methods exist to call.
type TransactionRepository interface {
	Append(txn *models.Transaction) (*models.Transaction, bool, error)
	GetByBookingID(bookingID int) (*models.Transaction, error)
	Summary(filters repositories.RevenueFilters) (*models.RevenueSummary, error)
	ByVendor(filters repositories.RevenueFilters) ([]*models.VendorRevenue, error)
	ByTicket(filters repositories.RevenueFilters) ([]*models.TicketRevenue, error)
}

// UserRepository interface for user data operations
type UserRepository interface {
	Create(email, passwordHash, name string, role models.UserRole) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// InventoryOperations is the seat-accounting boundary the booking state
// machine depends on
type InventoryOperations interface {
	GetTicket(id int) (*models.Ticket, error)
	Reserve(ticketID, qty int) (string, error)
	Release(ticketID, qty int)
}

// BookingFinalizer is the single entry point the payment reconciler uses to
// move a booking to paid
type BookingFinalizer interface {
	MarkPaid(bookingID int, transactionRef string) (*models.Booking, error)
}

// PaymentIntentRequest asks the gateway for a payment handle sized to a
// booking's total
type PaymentIntentRequest struct {
	Reference string `json:"reference"`
	Amount    int    `json:"amount"` // Amount in cents
	Email     string `json:"email"`
	Currency  string `json:"currency"`
}

// PaymentIntent is the handle the gateway hands back for the client to
// complete payment against
type PaymentIntent struct {
	Reference        string    `json:"reference"`
	AuthorizationURL string    `json:"authorization_url"`
	AccessCode       string    `json:"access_code"`
	Amount           int       `json:"amount"`
	CreatedAt        time.Time `json:"created_at"`
}

// GatewayResult is the gateway's verdict on a payment attempt
type GatewayResult struct {
	Reference     string `json:"reference"`
	Status        string `json:"status"` // "success", "failed" or "pending"
	Amount        int    `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	GatewayTxnID  string `json:"gateway_txn_id"`
}

// Succeeded reports whether the gateway settled the payment
func (r *GatewayResult) Succeeded() bool {
	return r.Status == "success"
}

// PaymentGateway is the external card/mobile-wallet processor. The contract
// is intent in, success/failure result out; card capture itself happens on
// the gateway's side.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error)
	VerifyPayment(ctx context.Context, reference string) (*GatewayResult, error)
}
