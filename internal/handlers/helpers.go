package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"travel-ticketing-platform/internal/models"

	"github.com/go-chi/chi/v5"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("handlers: failed to encode response: %v", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps the domain error taxonomy onto HTTP statuses:
// validation 400, missing resources 404, conflicting state 409, forbidden
// 403, gateway trouble 502. Unknown errors are logged and become opaque
// 500s.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
		return
	}

	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
		return
	}

	var transitionErr *models.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: transitionErr.Error()})
		return
	}

	var stateErr *models.InvalidStateError
	if errors.As(err, &stateErr) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: stateErr.Error()})
		return
	}

	switch {
	case errors.Is(err, models.ErrInsufficientInventory),
		errors.Is(err, models.ErrTicketUnavailable),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrIntentMismatch):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		var gatewayErr *models.GatewayError
		if errors.As(err, &gatewayErr) {
			log.Printf("handlers: gateway error: %v", err)
			respondJSON(w, http.StatusBadGateway, errorResponse{Error: "payment gateway unavailable"})
			return
		}
		log.Printf("handlers: internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}

func decodeBytes(data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}

func urlParamInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, &models.ValidationError{Field: name, Message: name + " must be a positive integer"}
	}
	return value, nil
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// listResponse wraps paginated collections
type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}
