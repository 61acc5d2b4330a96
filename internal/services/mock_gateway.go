package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"travel-ticketing-platform/internal/models"
)

// MockGateway is an in-memory payment gateway for development and tests.
// Intents are held in memory and every verification succeeds unless the
// reference has been marked as failing.
type MockGateway struct {
	mu      sync.Mutex
	intents map[string]*PaymentIntent
	failing map[string]bool
}

// NewMockGateway creates a mock payment gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		intents: make(map[string]*PaymentIntent),
		failing: make(map[string]bool),
	}
}

// CreateIntent records the intent and returns a fake checkout URL.
func (g *MockGateway) CreateIntent(_ context.Context, req *PaymentIntentRequest) (*PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent := &PaymentIntent{
		Reference:        req.Reference,
		AuthorizationURL: fmt.Sprintf("https://checkout.mock.local/pay/%s", req.Reference),
		AccessCode:       "mock_" + req.Reference,
		Amount:           req.Amount,
		CreatedAt:        time.Now(),
	}
	g.intents[req.Reference] = intent
	return intent, nil
}

// VerifyPayment reports success for any known intent. An intent marked via
// FailNext reports failure once, then succeeds on subsequent verifications.
func (g *MockGateway) VerifyPayment(_ context.Context, reference string) (*GatewayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[reference]
	if !ok {
		return nil, &models.GatewayError{Op: "verify", Err: fmt.Errorf("unknown reference %s", reference)}
	}

	status := "success"
	if g.failing[reference] {
		status = "failed"
		delete(g.failing, reference)
	}

	return &GatewayResult{
		Reference:     reference,
		Status:        status,
		Amount:        intent.Amount,
		PaymentMethod: "mock",
	}, nil
}

// FailNext makes the next verification of the given reference report failure.
func (g *MockGateway) FailNext(reference string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing[reference] = true
}
