package handlers

import (
	"net/http"

	"travel-ticketing-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterDeps bundles everything the router wires together
type RouterDeps struct {
	Auth     *AuthHandler
	Tickets  *TicketHandler
	Bookings *BookingHandler
	Payments *PaymentHandler
	Revenue  *RevenueHandler
	Verifier middleware.TokenVerifier
}

// NewRouter wires all routes and middleware
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Logging)

	authLimiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(authLimiter))
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
		})

		// Browsing tickets is public; the rest requires a token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(deps.Verifier))
			r.Get("/tickets", deps.Tickets.List)
			r.Get("/tickets/{id}", deps.Tickets.Get)
		})

		// Gateway webhooks authenticate by signature, not bearer token.
		r.Post("/payments/webhook", deps.Payments.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Verifier))

			r.Post("/tickets", deps.Tickets.Create)
			r.Patch("/tickets/{id}/verification", deps.Tickets.SetVerification)
			r.Patch("/tickets/{id}/advertise", deps.Tickets.Advertise)
			r.Delete("/tickets/{id}", deps.Tickets.Delete)

			r.Post("/bookings", deps.Bookings.Create)
			r.Get("/bookings", deps.Bookings.List)
			r.Get("/bookings/{id}", deps.Bookings.Get)
			r.Patch("/bookings/{id}/decision", deps.Bookings.Decide)
			r.Patch("/bookings/{id}/cancel", deps.Bookings.Cancel)

			r.Post("/bookings/{id}/payment-intent", deps.Payments.CreateIntent)
			r.Post("/bookings/{id}/confirm", deps.Payments.Confirm)

			r.Get("/revenue", deps.Revenue.Report)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
