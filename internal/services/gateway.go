package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"travel-ticketing-platform/internal/models"
)

// GatewayConfig holds payment gateway configuration
type GatewayConfig struct {
	BaseURL       string
	SecretKey     string
	CallbackURL   string
	WebhookSecret string
	Environment   string
}

// HTTPGateway talks to the hosted payment provider over its REST API.
type HTTPGateway struct {
	config GatewayConfig
	client *http.Client
}

// NewHTTPGateway creates a gateway client from config
func NewHTTPGateway(config GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type initializeRequest struct {
	Reference   string `json:"reference"`
	Amount      int    `json:"amount"`
	Email       string `json:"email"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference        string `json:"reference"`
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int    `json:"amount"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// CreateIntent registers a pending payment with the gateway and returns the
// reference plus the checkout URL the traveler completes payment on.
func (g *HTTPGateway) CreateIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error) {
	payload := initializeRequest{
		Reference:   req.Reference,
		Amount:      req.Amount,
		Email:       req.Email,
		Currency:    req.Currency,
		CallbackURL: g.config.CallbackURL,
	}

	var resp initializeResponse
	if err := g.post(ctx, "/transaction/initialize", payload, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, &models.GatewayError{Op: "initialize", Err: fmt.Errorf("gateway rejected intent: %s", resp.Message)}
	}

	return &PaymentIntent{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Amount:           req.Amount,
		CreatedAt:        time.Now(),
	}, nil
}

// VerifyPayment fetches the authoritative state of a payment from the
// gateway. The local copy of a result is never trusted without this call.
func (g *HTTPGateway) VerifyPayment(ctx context.Context, reference string) (*GatewayResult, error) {
	var resp verifyResponse
	if err := g.get(ctx, "/transaction/verify/"+reference, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, &models.GatewayError{Op: "verify", Err: fmt.Errorf("gateway rejected verification: %s", resp.Message)}
	}

	return &GatewayResult{
		Reference:     resp.Data.Reference,
		Status:        resp.Data.Status,
		Amount:        resp.Data.Amount,
		PaymentMethod: resp.Data.Channel,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature the gateway
// attaches to webhook deliveries.
func (g *HTTPGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(g.config.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &models.GatewayError{Op: "encode request", Err: err}
	}
	return g.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

func (g *HTTPGateway) get(ctx context.Context, path string, out interface{}) error {
	return g.do(ctx, http.MethodGet, path, nil, out)
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, g.config.BaseURL+path, body)
	if err != nil {
		return &models.GatewayError{Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &models.GatewayError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.GatewayError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.GatewayError{
			Op:  method + " " + path,
			Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(data)),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &models.GatewayError{Op: "decode response", Err: err}
	}

	return nil
}
