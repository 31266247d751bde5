// Package money provides the fixed-point monetary value used throughout the
// ledger. Amounts are backed by shopspring/decimal so arithmetic is exact at
// the input's decimal scale; no binary floating-point is involved at any
// point and the core never rounds (display rounding happens at the HTTP
// boundary).
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an external decimal cannot be used
	// as a monetary amount (negative input, or zero where a positive amount
	// is required).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned by Subtract when the result would be
	// negative. Balances never go below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Amount is an immutable non-negative monetary value.
// The zero value is a valid zero amount.
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount, used as the initial balance of a new account.
var Zero = Amount{value: decimal.Zero}

// FromDecimal validates d as a monetary amount. Negative values are rejected
// with ErrInvalidAmount; decimal.Decimal cannot represent NaN or infinities,
// so finiteness is guaranteed by construction.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{value: d}, nil
}

// MustFromString parses s into an Amount and panics on failure.
// Test helper; production code goes through FromDecimal.
func MustFromString(s string) Amount {
	a, err := FromDecimal(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b. The sum of two non-negative amounts is non-negative, so
// Add cannot fail.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Subtract returns a - b, or ErrInsufficientFunds if the result would be
// negative.
func (a Amount) Subtract(b Amount) (Amount, error) {
	res := a.value.Sub(b.value)
	if res.IsNegative() {
		return Amount{}, ErrInsufficientFunds
	}
	return Amount{value: res}, nil
}

// IsPositive reports whether a is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// Equal reports numeric equality, ignoring scale (1.0 equals 1.00).
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String renders the amount at its natural scale.
func (a Amount) String() string {
	return a.value.String()
}

// StringFixed renders the amount at the given display scale. Only the
// transport layer uses this; the core never rounds.
func (a Amount) StringFixed(places int32) string {
	return a.value.StringFixed(places)
}
