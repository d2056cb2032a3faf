package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGateway(Config{
		BaseURL:    srv.URL,
		MerchantID: "merchant-1",
		SecretKey:  "secret",
	})
	return g, srv
}

func TestChargeApproved(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/charges" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Merchant-ID") != "merchant-1" {
			t.Errorf("missing merchant header")
		}
		if r.Header.Get("X-Signature") == "" {
			t.Errorf("missing signature header")
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["amount"] != "250.00" {
			t.Errorf("expected amount 250.00, got %v", body["amount"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"payment_id": "ext-123",
			"status":     "approved",
		})
	})

	res, err := g.Charge(context.Background(), ChargeRequest{
		Amount:      25000,
		OrderID:     "TXN-1",
		Description: "credit purchase",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExternalID != "ext-123" {
		t.Fatalf("expected external id ext-123, got %q", res.ExternalID)
	}
}

func TestChargeDeclinedStatus(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"payment_id": "ext-456",
			"status":     "declined",
			"reason":     "insufficient funds on card",
		})
	})

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, OrderID: "TXN-2"})
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
}

func TestChargeDeclined402(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card blocked", http.StatusPaymentRequired)
	})

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, OrderID: "TXN-3"})
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
}

func TestChargeServerErrorIsNotDecline(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, OrderID: "TXN-4"})
	if err == nil || errors.Is(err, ErrDeclined) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestChargeValidation(t *testing.T) {
	g := NewGateway(Config{BaseURL: "http://localhost:1", MerchantID: "m"})

	if _, err := g.Charge(context.Background(), ChargeRequest{Amount: 0, OrderID: "x"}); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, OrderID: ""}); err == nil {
		t.Fatal("expected error for empty order id")
	}
}
