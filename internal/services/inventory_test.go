package services

import (
	"testing"
	"time"

	"travel-ticketing-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*InventoryService, *mockTicketRepo) {
	tickets := newMockTicketRepo()
	return NewInventoryService(tickets, NewAuthorizer(nil)), tickets
}

func validTicketRequest() *models.TicketCreateRequest {
	return &models.TicketCreateRequest{
		Origin:        "Dhaka",
		Destination:   "Sylhet",
		TransportMode: models.ModeTrain,
		UnitPrice:     45000,
		Quantity:      40,
		Departure:     time.Now().Add(48 * time.Hour),
	}
}

func TestCreateTicketStartsPendingVerification(t *testing.T) {
	service, _ := newInventoryFixture()

	ticket, err := service.CreateTicket(testVendor(), validTicketRequest())
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, ticket.VerificationStatus)
	assert.False(t, ticket.IsBookable())
}

func TestCreateTicketByTravelerForbidden(t *testing.T) {
	service, _ := newInventoryFixture()

	_, err := service.CreateTicket(testTraveler(), validTicketRequest())
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSetVerificationAdminOnly(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))

	_, err := service.SetVerification(testVendor(), ticket.ID, models.VerificationApproved)
	assert.ErrorIs(t, err, models.ErrForbidden)

	approved, err := service.SetVerification(testAdmin(), ticket.ID, models.VerificationApproved)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved())
}

func TestSetVerificationRejectsPendingTarget(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))

	_, err := service.SetVerification(testAdmin(), ticket.ID, models.VerificationPending)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSetVerificationIdempotent(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))
	admin := testAdmin()

	first, err := service.SetVerification(admin, ticket.ID, models.VerificationApproved)
	require.NoError(t, err)
	second, err := service.SetVerification(admin, ticket.ID, models.VerificationApproved)
	require.NoError(t, err)
	assert.Equal(t, first.VerificationStatus, second.VerificationStatus)
}

func TestReserveValidatesQuantity(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))

	for _, qty := range []int{0, -1} {
		_, err := service.Reserve(ticket.ID, qty)
		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr, "qty %d", qty)
	}
	assert.Equal(t, 5, tickets.quantity(ticket.ID))
}

func TestReserveReleaseConservation(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 12, time.Now().Add(24*time.Hour)))

	token, err := service.Reserve(ticket.ID, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 7, tickets.quantity(ticket.ID))

	service.Release(ticket.ID, 5)
	assert.Equal(t, 12, tickets.quantity(ticket.ID))
}

func TestReleaseOfDeletedTicketIsSwallowed(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))
	require.NoError(t, tickets.Delete(ticket.ID))

	// Must not panic or error: the booking transition already committed.
	service.Release(ticket.ID, 5)
}

func TestAdvertiseCap(t *testing.T) {
	service, tickets := newInventoryFixture()
	admin := testAdmin()

	var ids []int
	for i := 0; i < models.MaxAdvertisedTickets+1; i++ {
		ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))
		ids = append(ids, ticket.ID)
	}

	for _, id := range ids[:models.MaxAdvertisedTickets] {
		_, err := service.Advertise(admin, id, true)
		require.NoError(t, err)
	}

	// The seventh is over the cap and must fail, not evict.
	_, err := service.Advertise(admin, ids[models.MaxAdvertisedTickets], true)
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)

	// Un-advertising one frees a slot.
	_, err = service.Advertise(admin, ids[0], false)
	require.NoError(t, err)
	_, err = service.Advertise(admin, ids[models.MaxAdvertisedTickets], true)
	assert.NoError(t, err)
}

func TestAdvertiseAdminOnly(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))

	_, err := service.Advertise(testVendor(), ticket.ID, true)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteTicketOwnership(t *testing.T) {
	service, tickets := newInventoryFixture()
	ticket := tickets.put(approvedTicket(20, 50000, 5, time.Now().Add(24*time.Hour)))

	other := &models.User{ID: 99, Email: "other@example.com", Role: models.RoleVendor, IsActive: true}
	err := service.DeleteTicket(other, ticket.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = service.DeleteTicket(testVendor(), ticket.ID)
	require.NoError(t, err)

	_, err = service.GetTicket(ticket.ID)
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
