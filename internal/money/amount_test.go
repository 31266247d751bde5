package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimal(t *testing.T) {
	a, err := FromDecimal(decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	assert.Equal(t, "10.5", a.String())

	_, err = FromDecimal(decimal.RequireFromString("-0.01"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	zero, err := FromDecimal(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.Equal(Zero))
	assert.False(t, zero.IsPositive())
}

func TestAddIsExact(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float64 approximation.
	sum := MustFromString("0.1").Add(MustFromString("0.2"))
	assert.True(t, sum.Equal(MustFromString("0.3")), "got %s", sum)
}

func TestSubtract(t *testing.T) {
	res, err := MustFromString("100.00").Subtract(MustFromString("40.00"))
	require.NoError(t, err)
	assert.True(t, res.Equal(MustFromString("60.00")))

	// Subtracting the whole balance is allowed; balances may hit zero.
	res, err = MustFromString("100.00").Subtract(MustFromString("100.00"))
	require.NoError(t, err)
	assert.False(t, res.IsPositive())

	_, err = MustFromString("100.00").Subtract(MustFromString("100.01"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestStringFixed(t *testing.T) {
	assert.Equal(t, "100.00", MustFromString("100").StringFixed(2))
	assert.Equal(t, "0.50", MustFromString("0.5").StringFixed(2))
}
