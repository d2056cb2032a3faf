package payment

import (
	"context"
	"errors"
)

// ErrDeclined is returned when the gateway refuses the charge. Transport and
// configuration failures are returned as ordinary errors instead.
var ErrDeclined = errors.New("payment declined by provider")

// ChargeRequest is a standardized charge request for credit purchases.
type ChargeRequest struct {
	Amount      int64  // amount in minor units (cents)
	OrderID     string // internal transaction reference
	Description string
	PhoneNumber string // optional: payer's phone for mobile billing
}

// ChargeResult is the provider's answer to an approved charge.
type ChargeResult struct {
	ExternalID string // provider's transaction identifier
	Status     string // provider-reported status, normalized lowercase
}

// Provider is the external payment gateway the credit-purchase flow charges
// before any manager balance is incremented. Implementations must return
// ErrDeclined for a definitive refusal so callers can tell it apart from a
// transient transport failure.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Name() string
}
