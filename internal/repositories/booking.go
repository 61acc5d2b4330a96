package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"travel-ticketing-platform/internal/models"
)

// BookingRepository handles booking data operations. Status changes are
// compare-and-swap updates keyed on the current status: when two callers race
// on the same booking, exactly one UPDATE matches and the loser sees no rows
// affected.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, ticket_id, traveler_id, quantity, total_amount, status, reservation_token, payment_ref, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*models.Booking, error) {
	booking := &models.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.TicketID,
		&booking.TravelerID,
		&booking.Quantity,
		&booking.TotalAmount,
		&booking.Status,
		&booking.ReservationToken,
		&booking.PaymentRef,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Create inserts a new pending booking with the total amount snapshotted from
// the ticket price at request time; the snapshot never changes afterwards.
func (r *BookingRepository) Create(ticketID, travelerID, quantity, totalAmount int, reservationToken string) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (ticket_id, traveler_id, quantity, total_amount, status, reservation_token, payment_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', $7, $7)
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(
		query,
		ticketID,
		travelerID,
		quantity,
		totalAmount,
		models.BookingPending,
		reservationToken,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(id int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "booking", ID: id}
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// BookingWithTicket carries the ticket fields a transition decision needs:
// who owns the ticket and when it departs.
type BookingWithTicket struct {
	*models.Booking
	VendorID    int       `json:"vendor_id" db:"vendor_id"`
	Origin      string    `json:"origin" db:"origin"`
	Destination string    `json:"destination" db:"destination"`
	Departure   time.Time `json:"departure" db:"departure"`
}

// GetByIDWithTicket retrieves a booking joined with its ticket's ownership
// and departure data
func (r *BookingRepository) GetByIDWithTicket(id int) (*BookingWithTicket, error) {
	query := `
		SELECT b.id, b.ticket_id, b.traveler_id, b.quantity, b.total_amount, b.status, b.reservation_token, b.payment_ref, b.created_at, b.updated_at,
		       t.vendor_id, t.origin, t.destination, t.departure
		FROM bookings b
		JOIN tickets t ON b.ticket_id = t.id
		WHERE b.id = $1`

	detail := &BookingWithTicket{Booking: &models.Booking{}}
	err := r.db.QueryRow(query, id).Scan(
		&detail.Booking.ID,
		&detail.Booking.TicketID,
		&detail.Booking.TravelerID,
		&detail.Booking.Quantity,
		&detail.Booking.TotalAmount,
		&detail.Booking.Status,
		&detail.Booking.ReservationToken,
		&detail.Booking.PaymentRef,
		&detail.Booking.CreatedAt,
		&detail.Booking.UpdatedAt,
		&detail.VendorID,
		&detail.Origin,
		&detail.Destination,
		&detail.Departure,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "booking", ID: id}
		}
		return nil, fmt.Errorf("failed to get booking with ticket: %w", err)
	}

	return detail, nil
}

// TransitionStatus moves a booking from one status to another as a
// compare-and-swap on the current status. Returns false without error when
// the booking was not in the expected source status, which is how a race
// loser finds out.
func (r *BookingRepository) TransitionStatus(id int, from, to models.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, from, to, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to transition booking status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SetPaymentRef records the gateway intent reference issued for the booking.
// Only legal while the booking is accepted.
func (r *BookingRepository) SetPaymentRef(id int, paymentRef string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_ref = $2, updated_at = $3
		WHERE id = $1 AND status = $4`

	result, err := r.db.Exec(query, id, paymentRef, time.Now(), models.BookingAccepted)
	if err != nil {
		return false, fmt.Errorf("failed to set payment reference: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// BookingSearchFilters represents filters for booking listings
type BookingSearchFilters struct {
	TravelerID int
	TicketID   int
	VendorID   int // bookings on any of the vendor's tickets
	Status     models.BookingStatus
	Limit      int
	Offset     int
}

// Search searches for bookings with filters and pagination, newest first
func (r *BookingRepository) Search(filters BookingSearchFilters) ([]*models.Booking, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.TravelerID > 0 {
		conditions = append(conditions, fmt.Sprintf("b.traveler_id = $%d", argIndex))
		args = append(args, filters.TravelerID)
		argIndex++
	}

	if filters.TicketID > 0 {
		conditions = append(conditions, fmt.Sprintf("b.ticket_id = $%d", argIndex))
		args = append(args, filters.TicketID)
		argIndex++
	}

	if filters.VendorID > 0 {
		conditions = append(conditions, fmt.Sprintf("t.vendor_id = $%d", argIndex))
		args = append(args, filters.VendorID)
		argIndex++
	}

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argIndex))
		args = append(args, filters.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM bookings b
		JOIN tickets t ON b.ticket_id = t.id
		%s`, whereClause)

	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get booking count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.ticket_id, b.traveler_id, b.quantity, b.total_amount, b.status, b.reservation_token, b.payment_ref, b.created_at, b.updated_at
		FROM bookings b
		JOIN tickets t ON b.ticket_id = t.id
		%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1)

	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, total, nil
}
