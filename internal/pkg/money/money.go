// Package money is the single conversion boundary between decimal amount
// strings at the HTTP edge and the int64 minor units (cents) used everywhere
// inside the service. Balances and transaction amounts never exist as
// floating point.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid decimal amount")
	ErrSubCent       = errors.New("amount has sub-cent precision")
	ErrOutOfRange    = errors.New("amount out of range")
)

// ToCents parses a decimal amount string ("120.50") into integer cents.
// Values with more than two fractional digits are rejected rather than
// silently rounded, so "0.001" cannot leak value.
func ToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, ErrSubCent
	}
	if !cents.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return cents.IntPart(), nil
}

// FromCents renders integer cents as a decimal string with two places.
func FromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
