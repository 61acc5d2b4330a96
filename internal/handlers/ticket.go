package handlers

import (
	"net/http"
	"time"

	"travel-ticketing-platform/internal/middleware"
	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"
	"travel-ticketing-platform/internal/services"
)

// TicketHandler serves the ticket inventory endpoints
type TicketHandler struct {
	inventory *services.InventoryService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(inventory *services.InventoryService) *TicketHandler {
	return &TicketHandler{inventory: inventory}
}

// Create handles POST /api/tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.TicketCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ticket, err := h.inventory.CreateTicket(user, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ticket)
}

// Get handles GET /api/tickets/{id}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	ticket, err := h.inventory.GetTicket(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

// List handles GET /api/tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := repositories.TicketSearchFilters{
		VendorID:      queryInt(r, "vendor_id"),
		Origin:        query.Get("origin"),
		Destination:   query.Get("destination"),
		TransportMode: models.TransportMode(query.Get("transport_mode")),
		OnlyBookable:  query.Get("bookable") == "true",
		Advertised:    query.Get("advertised") == "true",
		Limit:         queryInt(r, "limit"),
		Offset:        queryInt(r, "offset"),
	}

	if from := query.Get("depart_from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DepartFrom = &parsed
		}
	}
	if to := query.Get("depart_to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DepartTo = &parsed
		}
	}

	tickets, total, err := h.inventory.ListTickets(filters)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{Items: tickets, Total: total})
}

type verificationRequest struct {
	Decision models.VerificationStatus `json:"decision"`
}

// SetVerification handles PATCH /api/tickets/{id}/verification
func (h *TicketHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req verificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ticket, err := h.inventory.SetVerification(user, id, req.Decision)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

type advertiseRequest struct {
	Advertised bool `json:"advertised"`
}

// Advertise handles PATCH /api/tickets/{id}/advertise
func (h *TicketHandler) Advertise(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req advertiseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ticket, err := h.inventory.Advertise(user, id, req.Advertised)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

// Delete handles DELETE /api/tickets/{id}
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.inventory.DeleteTicket(user, id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
