package handlers

import (
	"net/http"

	"travel-ticketing-platform/internal/middleware"
	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"
	"travel-ticketing-platform/internal/services"
)

// BookingHandler serves the booking lifecycle endpoints
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.BookingCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	booking, err := h.bookings.RequestBooking(user, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, booking)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	booking, err := h.bookings.GetBooking(user, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// List handles GET /api/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	filters := repositories.BookingSearchFilters{
		TicketID: queryInt(r, "ticket_id"),
		Status:   models.BookingStatus(r.URL.Query().Get("status")),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}

	bookings, total, err := h.bookings.ListBookings(user, filters)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{Items: bookings, Total: total})
}

type decisionRequest struct {
	Decision models.BookingDecision `json:"decision"`
}

// Decide handles PATCH /api/bookings/{id}/decision
func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	booking, err := h.bookings.Decide(user, id, req.Decision)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// Cancel handles PATCH /api/bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	booking, err := h.bookings.Cancel(user, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, booking)
}
