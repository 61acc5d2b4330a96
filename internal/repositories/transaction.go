package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"travel-ticketing-platform/internal/models"
)

// TransactionRepository is the revenue ledger's persistence. Append is the
// only write; there is deliberately no update or delete method on this type.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, booking_id, amount, payment_method, gateway_ref, status, created_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(
		&txn.ID,
		&txn.BookingID,
		&txn.Amount,
		&txn.PaymentMethod,
		&txn.GatewayRef,
		&txn.Status,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Append inserts a transaction if none exists for the booking yet. The unique
// index on booking_id makes this insert-if-absent, not check-then-insert:
// concurrent appends for the same booking resolve in the database and both
// callers end up holding the same single row. Returns the stored transaction
// and whether this call created it.
func (r *TransactionRepository) Append(txn *models.Transaction) (*models.Transaction, bool, error) {
	if err := txn.Validate(); err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO transactions (booking_id, amount, payment_method, gateway_ref, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING ` + transactionColumns

	stored, err := scanTransaction(r.db.QueryRow(
		query,
		txn.BookingID,
		txn.Amount,
		txn.PaymentMethod,
		txn.GatewayRef,
		txn.Status,
		time.Now(),
	))
	if err == nil {
		return stored, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to append transaction: %w", err)
	}

	// Conflict: a transaction already exists for this booking.
	existing, err := r.GetByBookingID(txn.BookingID)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// GetByBookingID retrieves the transaction recorded for a booking
func (r *TransactionRepository) GetByBookingID(bookingID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE booking_id = $1`

	txn, err := scanTransaction(r.db.QueryRow(query, bookingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Resource: "transaction for booking", ID: bookingID}
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// RevenueFilters bounds revenue aggregation queries
type RevenueFilters struct {
	VendorID int
	TicketID int
	From     *time.Time
	To       *time.Time
}

func (f RevenueFilters) clauses(argIndex int) ([]string, []interface{}, int) {
	conditions := []string{"tx.status = 'success'"}
	var args []interface{}

	if f.VendorID > 0 {
		conditions = append(conditions, fmt.Sprintf("t.vendor_id = $%d", argIndex))
		args = append(args, f.VendorID)
		argIndex++
	}

	if f.TicketID > 0 {
		conditions = append(conditions, fmt.Sprintf("b.ticket_id = $%d", argIndex))
		args = append(args, f.TicketID)
		argIndex++
	}

	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("tx.created_at >= $%d", argIndex))
		args = append(args, *f.From)
		argIndex++
	}

	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("tx.created_at <= $%d", argIndex))
		args = append(args, *f.To)
		argIndex++
	}

	return conditions, args, argIndex
}

// Summary aggregates successful transactions matching the filters
func (r *TransactionRepository) Summary(filters RevenueFilters) (*models.RevenueSummary, error) {
	conditions, args, _ := filters.clauses(1)

	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(tx.amount), 0)
		FROM transactions tx
		JOIN bookings b ON tx.booking_id = b.id
		JOIN tickets t ON b.ticket_id = t.id
		WHERE %s`, strings.Join(conditions, " AND "))

	summary := &models.RevenueSummary{}
	err := r.db.QueryRow(query, args...).Scan(&summary.TotalTransactions, &summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue summary: %w", err)
	}

	return summary, nil
}

// ByVendor aggregates successful transactions per vendor
func (r *TransactionRepository) ByVendor(filters RevenueFilters) ([]*models.VendorRevenue, error) {
	conditions, args, _ := filters.clauses(1)

	query := fmt.Sprintf(`
		SELECT t.vendor_id, COUNT(*), COALESCE(SUM(tx.amount), 0)
		FROM transactions tx
		JOIN bookings b ON tx.booking_id = b.id
		JOIN tickets t ON b.ticket_id = t.id
		WHERE %s
		GROUP BY t.vendor_id
		ORDER BY SUM(tx.amount) DESC`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by vendor: %w", err)
	}
	defer rows.Close()

	var results []*models.VendorRevenue
	for rows.Next() {
		entry := &models.VendorRevenue{}
		if err := rows.Scan(&entry.VendorID, &entry.TotalTransactions, &entry.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan vendor revenue: %w", err)
		}
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor revenue: %w", err)
	}

	return results, nil
}

// ByTicket aggregates successful transactions per ticket
func (r *TransactionRepository) ByTicket(filters RevenueFilters) ([]*models.TicketRevenue, error) {
	conditions, args, _ := filters.clauses(1)

	query := fmt.Sprintf(`
		SELECT b.ticket_id, t.origin, t.destination, COUNT(*), COALESCE(SUM(b.quantity), 0), COALESCE(SUM(tx.amount), 0)
		FROM transactions tx
		JOIN bookings b ON tx.booking_id = b.id
		JOIN tickets t ON b.ticket_id = t.id
		WHERE %s
		GROUP BY b.ticket_id, t.origin, t.destination
		ORDER BY SUM(tx.amount) DESC`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by ticket: %w", err)
	}
	defer rows.Close()

	var results []*models.TicketRevenue
	for rows.Next() {
		entry := &models.TicketRevenue{}
		if err := rows.Scan(&entry.TicketID, &entry.Origin, &entry.Destination, &entry.TotalTransactions, &entry.SeatsSold, &entry.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan ticket revenue: %w", err)
		}
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket revenue: %w", err)
	}

	return results, nil
}
