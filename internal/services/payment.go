package services

import (
	"context"
	"errors"
	"log"

	"travel-ticketing-platform/internal/models"

	"github.com/google/uuid"
)

// PaymentService drives the two-phase payment protocol against the external
// gateway and guarantees each successful confirmation is applied to a
// booking and the revenue ledger exactly once.
type PaymentService struct {
	bookings     BookingRepository
	transactions TransactionRepository
	finalizer    BookingFinalizer
	gateway      PaymentGateway
	authorizer   *Authorizer
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	bookings BookingRepository,
	transactions TransactionRepository,
	finalizer BookingFinalizer,
	gateway PaymentGateway,
	authorizer *Authorizer,
) *PaymentService {
	return &PaymentService{
		bookings:     bookings,
		transactions: transactions,
		finalizer:    finalizer,
		gateway:      gateway,
		authorizer:   authorizer,
	}
}

// CreateIntent asks the gateway for a payment handle sized to the booking's
// total price. The booking must be accepted and the caller must be its
// traveler; the issued intent reference is persisted on the booking so that
// confirmation can later be matched against the exact intent.
func (s *PaymentService) CreateIntent(ctx context.Context, traveler *models.User, bookingID int) (*PaymentIntent, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(traveler, ActionViewBooking, booking.TravelerID); err != nil {
		return nil, err
	}

	if !booking.IsAccepted() {
		return nil, &models.InvalidStateError{Operation: "create payment intent", Status: booking.Status}
	}

	req := &PaymentIntentRequest{
		Reference: uuid.NewString(),
		Amount:    booking.TotalAmount,
		Email:     traveler.Email,
		Currency:  "BDT",
	}

	intent, err := s.gateway.CreateIntent(ctx, req)
	if err != nil {
		return nil, err
	}

	stored, err := s.bookings.SetPaymentRef(bookingID, intent.Reference)
	if err != nil {
		return nil, err
	}
	if !stored {
		// The booking left accepted between the read and the write.
		current, readErr := s.bookings.GetByID(bookingID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, &models.InvalidStateError{Operation: "create payment intent", Status: current.Status}
	}

	return intent, nil
}

// Confirm reconciles a gateway result against the booking. On verified
// success it marks the booking paid and appends exactly one transaction to
// the revenue ledger.
//
// Confirm is idempotent by booking id: if a transaction already exists the
// existing row is returned, so retried client confirmations and duplicate
// webhook deliveries are safe. A gateway-reported failure leaves the booking
// accepted and returns a non-persisted failed attempt so the traveler can
// retry; gateway communication errors surface as GatewayError and the caller
// may re-invoke Confirm with the same result without double-crediting.
func (s *PaymentService) Confirm(ctx context.Context, bookingID int, result *GatewayResult) (*models.Transaction, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	// A prior confirmation already settled this booking.
	if existing, err := s.transactions.GetByBookingID(bookingID); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	if booking.PaymentRef == "" || result.Reference != booking.PaymentRef {
		return nil, models.ErrIntentMismatch
	}

	// Never trust the caller's copy of the result; re-verify with the
	// gateway before crediting anything.
	verified, err := s.gateway.VerifyPayment(ctx, result.Reference)
	if err != nil {
		return nil, err
	}

	if !verified.Succeeded() {
		// The booking stays accepted so payment can be retried. The
		// failed attempt is logged, not written to the ledger: ledger
		// rows exist only for bookings that reached paid.
		log.Printf("payment: confirmation for booking %d reported %s by gateway (ref %s)",
			bookingID, verified.Status, verified.Reference)
		return &models.Transaction{
			BookingID:     bookingID,
			Amount:        booking.TotalAmount,
			PaymentMethod: verified.PaymentMethod,
			GatewayRef:    verified.Reference,
			Status:        models.TransactionFailed,
		}, nil
	}

	if _, err := s.finalizer.MarkPaid(bookingID, verified.Reference); err != nil {
		// If a concurrent confirmation raced us to paid the transaction
		// row is the source of truth; fall through to it. Anything else
		// is a genuine illegal transition.
		var transitionErr *models.InvalidTransitionError
		if !errors.As(err, &transitionErr) || transitionErr.From != models.BookingPaid {
			return nil, err
		}
	}

	txn := &models.Transaction{
		BookingID:     bookingID,
		Amount:        booking.TotalAmount,
		PaymentMethod: verified.PaymentMethod,
		GatewayRef:    verified.Reference,
		Status:        models.TransactionSuccess,
	}

	stored, created, err := s.transactions.Append(txn)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Printf("payment: duplicate confirmation for booking %d returned existing transaction %d", bookingID, stored.ID)
	}

	return stored, nil
}

func isNotFound(err error) bool {
	var notFound *models.NotFoundError
	return errors.As(err, &notFound)
}
