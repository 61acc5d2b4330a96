package handlers

import (
	"net/http"
	"time"

	"travel-ticketing-platform/internal/middleware"
	"travel-ticketing-platform/internal/repositories"
	"travel-ticketing-platform/internal/services"
)

// RevenueHandler serves the revenue reporting endpoint
type RevenueHandler struct {
	revenue *services.RevenueService
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(revenue *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenue: revenue}
}

// Report handles GET /api/revenue
func (h *RevenueHandler) Report(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	query := r.URL.Query()

	filters := repositories.RevenueFilters{
		VendorID: queryInt(r, "vendor_id"),
		TicketID: queryInt(r, "ticket_id"),
	}

	if from := query.Get("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filters.From = &parsed
		}
	}
	if to := query.Get("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filters.To = &parsed
		}
	}

	summary, err := h.revenue.Report(r.Context(), user, filters)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
