package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-ticketing-platform/internal/config"
	"travel-ticketing-platform/internal/database"
	"travel-ticketing-platform/internal/handlers"
	"travel-ticketing-platform/internal/repositories"
	"travel-ticketing-platform/internal/services"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Repositories
	ticketRepo := repositories.NewTicketRepository(db.DB)
	bookingRepo := repositories.NewBookingRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)

	// Role override policy table
	overrides, err := services.ParseRoleOverrides(cfg.RoleOverrides)
	if err != nil {
		log.Fatalf("invalid ROLE_OVERRIDES: %v", err)
	}
	if len(overrides) > 0 {
		log.Printf("loaded %d role override(s)", len(overrides))
	}
	authorizer := services.NewAuthorizer(overrides)

	// Payment gateway: real client when credentials are configured, the
	// in-memory mock otherwise.
	var gateway services.PaymentGateway
	var webhookVerifier handlers.WebhookVerifier
	if cfg.GatewayConfigured() {
		client := services.NewHTTPGateway(services.GatewayConfig{
			BaseURL:       cfg.Gateway.BaseURL,
			SecretKey:     cfg.Gateway.SecretKey,
			CallbackURL:   cfg.Gateway.CallbackURL,
			WebhookSecret: cfg.Gateway.WebhookSecret,
			Environment:   cfg.Gateway.Environment,
		})
		gateway = client
		webhookVerifier = client
		log.Printf("payment gateway: %s (%s)", cfg.Gateway.BaseURL, cfg.Gateway.Environment)
	} else {
		gateway = services.NewMockGateway()
		log.Printf("payment gateway: mock (no credentials configured)")
	}

	// Optional Redis cache for revenue aggregates
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, revenue cache disabled: %v", err)
			cache = nil
		}
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	inventoryService := services.NewInventoryService(ticketRepo, authorizer)
	bookingService := services.NewBookingService(bookingRepo, inventoryService, authorizer)
	paymentService := services.NewPaymentService(bookingRepo, transactionRepo, bookingService, gateway, authorizer)
	revenueService := services.NewRevenueService(transactionRepo, authorizer, cache)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:     handlers.NewAuthHandler(authService),
		Tickets:  handlers.NewTicketHandler(inventoryService),
		Bookings: handlers.NewBookingHandler(bookingService),
		Payments: handlers.NewPaymentHandler(paymentService, webhookVerifier),
		Revenue:  handlers.NewRevenueHandler(revenueService),
		Verifier: authService,
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (%s)", addr, cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
