package accounting

import (
	"testing"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTotals(t *testing.T) {
	totals, err := CalculateTotals([]LineAmount{
		{Quantity: d("12.5"), Price: d("80")},
		{Quantity: d("3"), Price: d("45.50")},
	}, d("36.50"))
	require.NoError(t, err)

	assert.True(t, totals.LineTotals[0].Equal(d("1000")))
	assert.True(t, totals.LineTotals[1].Equal(d("136.5")))
	assert.True(t, totals.Subtotal.Equal(d("1136.5")))
	assert.True(t, totals.Discount.Equal(d("36.5")))
	assert.True(t, totals.Total.Equal(d("1100")))
}

func TestCalculateTotalsValidation(t *testing.T) {
	tests := []struct {
		name     string
		lines    []LineAmount
		discount decimal.Decimal
	}{
		{"no lines", nil, decimal.Zero},
		{"zero quantity", []LineAmount{{Quantity: decimal.Zero, Price: d("1")}}, decimal.Zero},
		{"negative price", []LineAmount{{Quantity: d("1"), Price: d("-1")}}, decimal.Zero},
		{"negative discount", []LineAmount{{Quantity: d("1"), Price: d("10")}}, d("-1")},
		{"discount above subtotal", []LineAmount{{Quantity: d("1"), Price: d("10")}}, d("10.01")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateTotals(tt.lines, tt.discount)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestDiscountEqualToSubtotalIsAllowed(t *testing.T) {
	totals, err := CalculateTotals([]LineAmount{{Quantity: d("2"), Price: d("5")}}, d("10"))
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}

func TestValidatePaidAmount(t *testing.T) {
	assert.NoError(t, ValidatePaidAmount(decimal.Zero, d("100")))
	assert.NoError(t, ValidatePaidAmount(d("100"), d("100")))
	assert.ErrorIs(t, ValidatePaidAmount(d("100.01"), d("100")), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidatePaidAmount(d("-1"), d("100")), apperrors.ErrValidation)
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 units at 50 + 30 units at 70 => 2600 / 40 = 65
	assert.True(t, WeightedAverageCost(d("10"), d("50"), d("30"), d("70")).Equal(d("65")))
	// empty stock takes the purchase cost
	assert.True(t, WeightedAverageCost(decimal.Zero, d("50"), d("5"), d("61.25")).Equal(d("61.25")))
	assert.True(t, WeightedAverageCost(d("-2"), d("50"), d("5"), d("40")).Equal(d("40")))
}

func TestRoundingMatchesColumnScale(t *testing.T) {
	assert.Equal(t, "10.1235", RoundCost(d("10.12345")).String())
	assert.Equal(t, "0", RoundMoney(d("0.001")).String())
	assert.Equal(t, "19.99", RoundMoney(d("19.994")).String())
}
