package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"travel-ticketing-platform/internal/models"
)

// TicketRepository handles ticket data operations. All seat-quantity writes
// go through Reserve and Release; no other code path touches quantity.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, vendor_id, origin, destination, transport_mode, unit_price, quantity, departure, verification_status, advertised, created_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.VendorID,
		&ticket.Origin,
		&ticket.Destination,
		&ticket.TransportMode,
		&ticket.UnitPrice,
		&ticket.Quantity,
		&ticket.Departure,
		&ticket.VerificationStatus,
		&ticket.Advertised,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Create inserts a new ticket with verification pending
func (r *TicketRepository) Create(vendorID int, req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tickets (vendor_id, origin, destination, transport_mode, unit_price, quantity, departure, verification_status, advertised, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $9)
		RETURNING ` + ticketColumns

	now := time.Now()
	ticket, err := scanTicket(r.db.QueryRow(
		query,
		vendorID,
		req.Origin,
		req.Destination,
		req.TransportMode,
		req.UnitPrice,
		req.Quantity,
		req.Departure,
		models.VerificationPending,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id int) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "ticket", ID: id}
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// SetVerification sets the admin verification status. Idempotent: repeating
// the same decision affects the row again without changing anything.
func (r *TicketRepository) SetVerification(id int, status models.VerificationStatus) (*models.Ticket, error) {
	query := `
		UPDATE tickets
		SET verification_status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(r.db.QueryRow(query, id, status, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "ticket", ID: id}
		}
		return nil, fmt.Errorf("failed to set verification status: %w", err)
	}

	return ticket, nil
}

// Reserve atomically decrements the seat quantity. The availability check
// and the decrement are a single UPDATE so concurrent callers on the same
// ticket cannot interleave between check and write. On failure nothing is
// mutated and the returned error distinguishes why.
func (r *TicketRepository) Reserve(ticketID, qty int) error {
	query := `
		UPDATE tickets
		SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1
		  AND quantity >= $2
		  AND verification_status = $4
		  AND departure > $3`

	result, err := r.db.Exec(query, ticketID, qty, time.Now(), models.VerificationApproved)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		return nil
	}

	// Nothing was decremented. Re-read the row to report the precise reason.
	ticket, err := r.GetByID(ticketID)
	if err != nil {
		return err
	}

	if !ticket.IsApproved() || ticket.IsDeparted() {
		return models.ErrTicketUnavailable
	}

	return models.ErrInsufficientInventory
}

// Release atomically increments the seat quantity back after a rejection or
// cancellation. Returns false when the ticket no longer exists; the caller
// logs that as an orphaned release, it is never an error.
func (r *TicketRepository) Release(ticketID, qty int) (bool, error) {
	query := `
		UPDATE tickets
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(query, ticketID, qty, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to release seats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SetAdvertised toggles the promoted flag. Turning it on is capped at
// models.MaxAdvertisedTickets simultaneously advertised tickets; the count
// and the flip happen in one transaction so the cap cannot be raced past.
func (r *TicketRepository) SetAdvertised(id int, advertised bool) (*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if advertised {
		// Lock the currently advertised rows so two admins cannot both
		// squeeze under the cap at the same time.
		rows, err := tx.Query(`SELECT id FROM tickets WHERE advertised AND id <> $1 FOR UPDATE`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lock advertised tickets: %w", err)
		}

		count := 0
		for rows.Next() {
			var ignored int
			if err := rows.Scan(&ignored); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan advertised ticket: %w", err)
			}
			count++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to count advertised tickets: %w", err)
		}
		rows.Close()

		if count >= models.MaxAdvertisedTickets {
			return nil, models.ErrCapacityExceeded
		}
	}

	query := `
		UPDATE tickets
		SET advertised = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(query, id, advertised, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "ticket", ID: id}
		}
		return nil, fmt.Errorf("failed to update advertised flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit advertised update: %w", err)
	}

	return ticket, nil
}

// Delete removes a ticket, but only while no non-terminal booking still
// references it
func (r *TicketRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var openBookings int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM bookings
		WHERE ticket_id = $1 AND status IN ($2, $3)`,
		id, models.BookingPending, models.BookingAccepted).Scan(&openBookings)
	if err != nil {
		return fmt.Errorf("failed to check open bookings: %w", err)
	}

	if openBookings > 0 {
		return &models.ValidationError{Field: "ticket_id", Message: "ticket has open bookings and cannot be deleted"}
	}

	result, err := tx.Exec("DELETE FROM tickets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &models.NotFoundError{Resource: "ticket", ID: id}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket deletion: %w", err)
	}

	return nil
}

// TicketSearchFilters represents filters for the public ticket listing
type TicketSearchFilters struct {
	VendorID      int
	Origin        string
	Destination   string
	TransportMode models.TransportMode
	DepartFrom    *time.Time
	DepartTo      *time.Time
	OnlyBookable  bool // approved, future departure
	Advertised    bool
	Limit         int
	Offset        int
}

// Search searches for tickets with filters and pagination
func (r *TicketRepository) Search(filters TicketSearchFilters) ([]*models.Ticket, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.VendorID > 0 {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argIndex))
		args = append(args, filters.VendorID)
		argIndex++
	}

	if filters.Origin != "" {
		conditions = append(conditions, fmt.Sprintf("origin ILIKE $%d", argIndex))
		args = append(args, filters.Origin)
		argIndex++
	}

	if filters.Destination != "" {
		conditions = append(conditions, fmt.Sprintf("destination ILIKE $%d", argIndex))
		args = append(args, filters.Destination)
		argIndex++
	}

	if filters.TransportMode != "" {
		conditions = append(conditions, fmt.Sprintf("transport_mode = $%d", argIndex))
		args = append(args, filters.TransportMode)
		argIndex++
	}

	if filters.DepartFrom != nil {
		conditions = append(conditions, fmt.Sprintf("departure >= $%d", argIndex))
		args = append(args, *filters.DepartFrom)
		argIndex++
	}

	if filters.DepartTo != nil {
		conditions = append(conditions, fmt.Sprintf("departure <= $%d", argIndex))
		args = append(args, *filters.DepartTo)
		argIndex++
	}

	if filters.OnlyBookable {
		conditions = append(conditions, fmt.Sprintf("verification_status = $%d", argIndex))
		args = append(args, models.VerificationApproved)
		argIndex++
		conditions = append(conditions, fmt.Sprintf("departure > $%d", argIndex))
		args = append(args, time.Now())
		argIndex++
	}

	if filters.Advertised {
		conditions = append(conditions, "advertised")
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tickets %s", whereClause)
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get ticket count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tickets
		%s
		ORDER BY departure ASC
		LIMIT $%d OFFSET $%d`,
		ticketColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, total, nil
}
