package handlers

import (
	"io"
	"log"
	"net/http"

	"travel-ticketing-platform/internal/middleware"
	"travel-ticketing-platform/internal/services"
)

// WebhookVerifier checks the gateway's signature on webhook deliveries
type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// PaymentHandler serves payment intent creation and confirmation
type PaymentHandler struct {
	payments *services.PaymentService
	verifier WebhookVerifier // nil disables signature checks (mock gateway)
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService, verifier WebhookVerifier) *PaymentHandler {
	return &PaymentHandler{payments: payments, verifier: verifier}
}

// CreateIntent handles POST /api/bookings/{id}/payment-intent
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	intent, err := h.payments.CreateIntent(r.Context(), user, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, intent)
}

type confirmRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Confirm handles POST /api/bookings/{id}/confirm. The client reports the
// gateway's verdict; the server re-verifies with the gateway before
// crediting anything, so a forged success here buys nothing.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result := &services.GatewayResult{Reference: req.Reference, Status: req.Status}
	txn, err := h.payments.Confirm(r.Context(), id, result)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, txn)
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		BookingID int    `json:"booking_id"`
	} `json:"data"`
}

// Webhook handles POST /api/payments/webhook: asynchronous confirmation
// pushed by the gateway. Deliveries are at-least-once; Confirm's idempotence
// makes replays harmless.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}

	if h.verifier != nil {
		signature := r.Header.Get("X-Webhook-Signature")
		if !h.verifier.VerifyWebhookSignature(body, signature) {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
			return
		}
	}

	var payload webhookPayload
	if err := decodeBytes(body, &payload); err != nil {
		respondError(w, err)
		return
	}

	if payload.Event != "charge.completed" {
		// Unhandled event types are acknowledged so the gateway stops
		// redelivering them.
		respondJSON(w, http.StatusOK, nil)
		return
	}

	result := &services.GatewayResult{Reference: payload.Data.Reference, Status: payload.Data.Status}
	if _, err := h.payments.Confirm(r.Context(), payload.Data.BookingID, result); err != nil {
		log.Printf("handlers: webhook confirmation for booking %d failed: %v", payload.Data.BookingID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}
