package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds Chapa API configuration
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client represents Chapa payment gateway client
type Client struct {
	httpClient *http.Client
	config     Config
}

// InitializeRequest represents payment initialization request
type InitializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
}

// InitializeResponse represents payment initialization response
type InitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// VerifyResponse represents transaction verification response
type VerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string  `json:"status"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		TxRef    string  `json:"tx_ref"`
	} `json:"data"`
}

// NewClient creates new Chapa API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// Initialize creates a transaction and returns the hosted checkout URL
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if strings.TrimSpace(req.Amount) == "" {
		return nil, fmt.Errorf("validation error: amount must be non-empty")
	}
	if strings.TrimSpace(req.TxRef) == "" {
		return nil, fmt.Errorf("validation error: tx_ref must be non-empty")
	}
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("chapa client is not initialized")
	}
	if strings.TrimSpace(c.config.BaseURL) == "" {
		return nil, fmt.Errorf("chapa config error: base_url is empty")
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return nil, fmt.Errorf("chapa config error: secret_key is empty")
	}

	body, err := c.do(ctx, http.MethodPost, "/transaction/initialize", req)
	if err != nil {
		return nil, err
	}

	var out InitializeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse chapa response: %w", err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("chapa initialize failed: %s", out.Message)
	}

	return &out, nil
}

// Verify checks a transaction by its tx_ref
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	if strings.TrimSpace(txRef) == "" {
		return nil, fmt.Errorf("validation error: tx_ref must be non-empty")
	}

	body, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, err
	}

	var out VerifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse chapa response: %w", err)
	}

	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	base := strings.TrimRight(c.config.BaseURL, "/")
	url := base + path

	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode chapa request: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("chapa api call failed: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chapa api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chapa api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chapa api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
