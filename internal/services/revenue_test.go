package services

import (
	"context"
	"testing"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedger(t *testing.T, txns *mockTransactionRepo, bookingID, amount int) {
	t.Helper()
	_, created, err := txns.Append(&models.Transaction{
		BookingID:  bookingID,
		Amount:     amount,
		GatewayRef: "ref",
		Status:     models.TransactionSuccess,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestRevenueReportAdminSeesAll(t *testing.T) {
	txns := newMockTransactionRepo()
	service := NewRevenueService(txns, NewAuthorizer(nil), nil)
	seedLedger(t, txns, 1, 500)
	seedLedger(t, txns, 2, 1500)

	summary, err := service.Report(context.Background(), testAdmin(), repositories.RevenueFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalTransactions)
	assert.Equal(t, 2000, summary.TotalRevenue)
}

func TestRevenueReportTravelerForbidden(t *testing.T) {
	service := NewRevenueService(newMockTransactionRepo(), NewAuthorizer(nil), nil)

	_, err := service.Report(context.Background(), testTraveler(), repositories.RevenueFilters{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRevenueReportVendorPinnedToOwnScope(t *testing.T) {
	txns := newMockTransactionRepo()
	service := NewRevenueService(txns, NewAuthorizer(nil), nil)
	vendor := testVendor()

	// Asking for another vendor's scope is rewritten, not rejected.
	filters := repositories.RevenueFilters{VendorID: 999}
	_, err := service.Report(context.Background(), vendor, filters)
	require.NoError(t, err)
}

func TestRevenueLedgerAppendOnly(t *testing.T) {
	txns := newMockTransactionRepo()
	seedLedger(t, txns, 1, 500)

	// A second append for the same booking returns the original row.
	dup, created, err := txns.Append(&models.Transaction{
		BookingID:  1,
		Amount:     9999,
		GatewayRef: "other",
		Status:     models.TransactionSuccess,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 500, dup.Amount)
}
