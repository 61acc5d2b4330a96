package services

import (
	"sync"
	"time"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"
)

// In-memory repository fakes mirroring the real repositories' semantics,
// including the atomicity contracts: guarded reserve, compare-and-swap
// status transitions and insert-if-absent ledger appends.

type mockTicketRepo struct {
	mu      sync.Mutex
	tickets map[int]*models.Ticket
	nextID  int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[int]*models.Ticket), nextID: 1}
}

func (m *mockTicketRepo) put(t *models.Ticket) *models.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	} else if t.ID >= m.nextID {
		m.nextID = t.ID + 1
	}
	m.tickets[t.ID] = t
	return t
}

func (m *mockTicketRepo) Create(vendorID int, req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.put(&models.Ticket{
		VendorID:           vendorID,
		Origin:             req.Origin,
		Destination:        req.Destination,
		TransportMode:      req.TransportMode,
		UnitPrice:          req.UnitPrice,
		Quantity:           req.Quantity,
		Departure:          req.Departure,
		VerificationStatus: models.VerificationPending,
		CreatedAt:          time.Now(),
	}), nil
}

func (m *mockTicketRepo) GetByID(id int) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "ticket", ID: id}
	}
	copied := *t
	return &copied, nil
}

func (m *mockTicketRepo) SetVerification(id int, status models.VerificationStatus) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "ticket", ID: id}
	}
	t.VerificationStatus = status
	copied := *t
	return &copied, nil
}

func (m *mockTicketRepo) Reserve(ticketID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[ticketID]
	if !ok {
		return &models.NotFoundError{Resource: "ticket", ID: ticketID}
	}
	if !t.IsApproved() || t.IsDeparted() {
		return models.ErrTicketUnavailable
	}
	if t.Quantity < qty {
		return models.ErrInsufficientInventory
	}
	t.Quantity -= qty
	return nil
}

func (m *mockTicketRepo) Release(ticketID, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[ticketID]
	if !ok {
		return false, nil
	}
	t.Quantity += qty
	return true, nil
}

func (m *mockTicketRepo) SetAdvertised(id int, advertised bool) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "ticket", ID: id}
	}
	if advertised && !t.Advertised {
		count := 0
		for _, other := range m.tickets {
			if other.Advertised && other.ID != id {
				count++
			}
		}
		if count >= models.MaxAdvertisedTickets {
			return nil, models.ErrCapacityExceeded
		}
	}
	t.Advertised = advertised
	copied := *t
	return &copied, nil
}

func (m *mockTicketRepo) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[id]; !ok {
		return &models.NotFoundError{Resource: "ticket", ID: id}
	}
	delete(m.tickets, id)
	return nil
}

func (m *mockTicketRepo) Search(filters repositories.TicketSearchFilters) ([]*models.Ticket, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ticket
	for _, t := range m.tickets {
		if filters.VendorID > 0 && t.VendorID != filters.VendorID {
			continue
		}
		if filters.Advertised && !t.Advertised {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, len(out), nil
}

// quantity reads the current seat count without copying, for conservation
// assertions.
func (m *mockTicketRepo) quantity(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets[id].Quantity
}

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[int]*models.Booking
	tickets  *mockTicketRepo
	nextID   int

	createErr error // forced failure for compensation tests
}

func newMockBookingRepo(tickets *mockTicketRepo) *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[int]*models.Booking), tickets: tickets, nextID: 1}
}

func (m *mockBookingRepo) Create(ticketID, travelerID, quantity, totalAmount int, reservationToken string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	b := &models.Booking{
		ID:               m.nextID,
		TicketID:         ticketID,
		TravelerID:       travelerID,
		Quantity:         quantity,
		TotalAmount:      totalAmount,
		Status:           models.BookingPending,
		ReservationToken: reservationToken,
		CreatedAt:        time.Now(),
	}
	m.nextID++
	m.bookings[b.ID] = b
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) GetByID(id int) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "booking", ID: id}
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) GetByIDWithTicket(id int) (*repositories.BookingWithTicket, error) {
	booking, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	ticket, err := m.tickets.GetByID(booking.TicketID)
	if err != nil {
		return nil, err
	}
	return &repositories.BookingWithTicket{
		Booking:     booking,
		VendorID:    ticket.VendorID,
		Origin:      ticket.Origin,
		Destination: ticket.Destination,
		Departure:   ticket.Departure,
	}, nil
}

func (m *mockBookingRepo) TransitionStatus(id int, from, to models.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return false, &models.NotFoundError{Resource: "booking", ID: id}
	}
	if !models.CanTransition(from, to) {
		return false, &models.InvalidTransitionError{From: from, To: to}
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *mockBookingRepo) SetPaymentRef(id int, paymentRef string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return false, &models.NotFoundError{Resource: "booking", ID: id}
	}
	if b.Status != models.BookingAccepted {
		return false, nil
	}
	b.PaymentRef = paymentRef
	return true, nil
}

func (m *mockBookingRepo) Search(filters repositories.BookingSearchFilters) ([]*models.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		if filters.TravelerID > 0 && b.TravelerID != filters.TravelerID {
			continue
		}
		if filters.TicketID > 0 && b.TicketID != filters.TicketID {
			continue
		}
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}
		if filters.VendorID > 0 {
			ticket, ok := m.tickets.tickets[b.TicketID]
			if !ok || ticket.VendorID != filters.VendorID {
				continue
			}
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, len(out), nil
}

type mockTransactionRepo struct {
	mu           sync.Mutex
	transactions map[int]*models.Transaction // keyed by booking id
	nextID       int
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{transactions: make(map[int]*models.Transaction), nextID: 1}
}

func (m *mockTransactionRepo) Append(txn *models.Transaction) (*models.Transaction, bool, error) {
	if err := txn.Validate(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.transactions[txn.BookingID]; ok {
		copied := *existing
		return &copied, false, nil
	}
	stored := *txn
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.nextID++
	m.transactions[txn.BookingID] = &stored
	copied := stored
	return &copied, true, nil
}

func (m *mockTransactionRepo) GetByBookingID(bookingID int) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[bookingID]
	if !ok {
		return nil, &models.NotFoundError{Resource: "transaction", ID: bookingID}
	}
	copied := *txn
	return &copied, nil
}

func (m *mockTransactionRepo) Summary(filters repositories.RevenueFilters) (*models.RevenueSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &models.RevenueSummary{}
	for _, txn := range m.transactions {
		if txn.Status != models.TransactionSuccess {
			continue
		}
		summary.TotalTransactions++
		summary.TotalRevenue += txn.Amount
	}
	return summary, nil
}

func (m *mockTransactionRepo) ByVendor(repositories.RevenueFilters) ([]*models.VendorRevenue, error) {
	return nil, nil
}

func (m *mockTransactionRepo) ByTicket(repositories.RevenueFilters) ([]*models.TicketRevenue, error) {
	return nil, nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[int]*models.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(email, passwordHash, name string, role models.UserRole) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, &models.ValidationError{Field: "email", Message: "email is already registered"}
		}
	}
	u := &models.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.nextID++
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "user", ID: id}
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "user", ID: 0}
}

// Test principals used across the service tests.
func testTraveler() *models.User {
	return &models.User{ID: 10, Email: "traveler@example.com", Role: models.RoleTraveler, IsActive: true}
}

func testVendor() *models.User {
	return &models.User{ID: 20, Email: "vendor@example.com", Role: models.RoleVendor, IsActive: true}
}

func testAdmin() *models.User {
	return &models.User{ID: 30, Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
}

func approvedTicket(vendorID, unitPrice, quantity int, departure time.Time) *models.Ticket {
	return &models.Ticket{
		VendorID:           vendorID,
		Origin:             "Dhaka",
		Destination:        "Chittagong",
		TransportMode:      models.ModeBus,
		UnitPrice:          unitPrice,
		Quantity:           quantity,
		Departure:          departure,
		VerificationStatus: models.VerificationApproved,
	}
}
