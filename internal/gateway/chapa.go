package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ChapaConfig holds the connection details for the Chapa payment provider.
type ChapaConfig struct {
	BaseURL   string
	SecretKey string
	Currency  string // e.g. "ETB"
	ReturnURL string // frontend redirect target after checkout
	Timeout   time.Duration
}

// ChapaClient is the HTTP implementation of PaymentGateway backed by the
// Chapa API.
type ChapaClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	currency   string
	returnURL  string
}

// NewChapaClient creates a new ChapaClient.
func NewChapaClient(cfg ChapaConfig) *ChapaClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ChapaClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
		returnURL:  cfg.ReturnURL,
	}
}

type initializeRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	TxRef     string          `json:"tx_ref"`
	ReturnURL string          `json:"return_url"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// InitializeTransaction registers a transaction with Chapa and returns the
// hosted checkout URL.
func (c *ChapaClient) InitializeTransaction(ctx context.Context, txRef string, amount decimal.Decimal, email, firstName, lastName string) (string, error) {
	payload := initializeRequest{
		Amount:    amount,
		Currency:  c.currency,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		TxRef:     txRef,
		ReturnURL: c.returnURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal initialize payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway initialize call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read initialize response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gateway initialize returned %d: %s", resp.StatusCode, respBody)
	}

	var result initializeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if result.Data.CheckoutURL == "" {
		return "", fmt.Errorf("gateway initialize returned no checkout URL: %s", result.Message)
	}

	return result.Data.CheckoutURL, nil
}

// VerifyTransaction queries Chapa for the settlement state of txRef. Only a
// 2xx response whose payload affirms success counts as settled.
func (c *ChapaClient) VerifyTransaction(ctx context.Context, txRef string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("gateway verify call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read verify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("gateway verify returned %d: %s", resp.StatusCode, respBody)
	}

	var result verifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return result.Status == "success" && result.Data.Status == "success", nil
}
