package chapa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var gotAuth string
	var gotReq InitializeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"message": "Hosted Link",
			"data": {"checkout_url": "https://checkout.chapa.co/checkout/payment/abc123"}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, SecretKey: "CHASECK_TEST-xyz"})

	resp, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:    "400.00",
		Currency:  "ETB",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Moreira",
		TxRef:     "voyago-abc",
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if gotAuth != "Bearer CHASECK_TEST-xyz" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.TxRef != "voyago-abc" || gotReq.Amount != "400.00" {
		t.Errorf("request payload = %+v", gotReq)
	}
	if resp.Data.CheckoutURL != "https://checkout.chapa.co/checkout/payment/abc123" {
		t.Errorf("checkout URL = %q", resp.Data.CheckoutURL)
	}
}

func TestInitializeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "failed", "message": "Invalid currency"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, SecretKey: "key"})

	_, err := client.Initialize(context.Background(), InitializeRequest{Amount: "100", TxRef: "voyago-x"})
	if err == nil || !strings.Contains(err.Error(), "Invalid currency") {
		t.Fatalf("Initialize() error = %v, want gateway message", err)
	}
}

func TestInitializeNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, SecretKey: "wrong"})

	_, err := client.Initialize(context.Background(), InitializeRequest{Amount: "100", TxRef: "voyago-x"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("Initialize() error = %v, want non-2xx error", err)
	}
}

func TestInitializeValidation(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost", SecretKey: "key"})

	if _, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "voyago-x"}); err == nil {
		t.Error("empty amount must fail before any HTTP call")
	}
	if _, err := client.Initialize(context.Background(), InitializeRequest{Amount: "100"}); err == nil {
		t.Error("empty tx_ref must fail before any HTTP call")
	}
}

func TestVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/voyago-abc" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {"status": "success", "amount": 400, "currency": "ETB", "tx_ref": "voyago-abc"}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, SecretKey: "key"})

	resp, err := client.Verify(context.Background(), "voyago-abc")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if resp.Data.Status != "success" || resp.Data.Amount != 400 {
		t.Errorf("verify data = %+v", resp.Data)
	}
}
