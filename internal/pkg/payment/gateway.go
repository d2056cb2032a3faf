package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vbank/vbank-api/internal/pkg/money"
)

// Config holds payment gateway configuration
type Config struct {
	BaseURL    string
	MerchantID string
	SecretKey  string
	TestMode   bool
	Timeout    time.Duration
}

// Gateway is an HTTP client for the credit-purchase payment provider.
type Gateway struct {
	httpClient *http.Client
	config     Config
}

type chargeRequestBody struct {
	Amount      string `json:"amount"`
	OrderID     string `json:"order_id"`
	Description string `json:"description"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Test        bool   `json:"test,omitempty"`
}

type chargeResponseBody struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// NewGateway creates a new payment gateway client
func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Gateway{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

func (g *Gateway) Name() string { return "gateway" }

// Charge submits a charge and blocks until the provider answers. A response
// with a declined status maps to ErrDeclined; everything else non-2xx is a
// plain error the caller may treat as transient.
func (g *Gateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("validation error: order_id must be non-empty")
	}
	if strings.TrimSpace(g.config.BaseURL) == "" {
		return nil, fmt.Errorf("gateway config error: base_url is empty")
	}
	if strings.TrimSpace(g.config.MerchantID) == "" {
		return nil, fmt.Errorf("gateway config error: merchant_id is empty")
	}

	body := chargeRequestBody{
		Amount:      money.FromCents(req.Amount),
		OrderID:     req.OrderID,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		Test:        g.config.TestMode,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	base := strings.TrimRight(g.config.BaseURL, "/")
	url := base + "/api/v1/charges"

	timeout := g.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Merchant-ID", g.config.MerchantID)
	httpReq.Header.Set("X-Signature", g.sign(jsonData))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}

	// Providers answer declines as 402 with a reason; anything else non-2xx
	// is treated as transport-level failure.
	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, string(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned non-2xx status: %d, body: %s", resp.StatusCode, string(respBody))
	}

	var out chargeResponseBody
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	status := strings.ToLower(out.Status)
	switch status {
	case "approved", "success", "completed", "paid":
		return &ChargeResult{ExternalID: out.PaymentID, Status: status}, nil
	case "declined", "failed", "rejected", "cancelled":
		return nil, fmt.Errorf("%w: %s", ErrDeclined, out.Reason)
	default:
		return nil, fmt.Errorf("gateway returned unknown status %q", out.Status)
	}
}

// sign computes an HMAC-SHA256 signature over the request body
func (g *Gateway) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(g.config.SecretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
