package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name                          string
		qty                           int
		price, pct                    string
		lineTotal, discount, finalAmt string
	}{
		{"no discount", 10, "5.00", "0", "50.00", "0.00", "50.00"},
		{"rounded discount", 3, "9.99", "25", "29.97", "7.49", "22.48"},
		{"full discount", 2, "12.50", "100", "25.00", "25.00", "0.00"},
		{"fractional pct", 1, "200.00", "12.5", "200.00", "25.00", "175.00"},
		{"zero price", 4, "0", "50", "0.00", "0.00", "0.00"},
		{"half cent rounds up", 1, "0.05", "10", "0.05", "0.01", "0.04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.qty, d(tt.price), d(tt.pct))
			require.NoError(t, err)
			assertMoney(t, tt.lineTotal, got.LineTotal)
			assertMoney(t, tt.discount, got.DiscountAmount)
			assertMoney(t, tt.finalAmt, got.FinalLineTotal)
		})
	}
}

func TestComputeLine_InvalidDiscount(t *testing.T) {
	for _, pct := range []string{"-0.01", "100.01", "250"} {
		_, err := ComputeLine(1, d("10"), d(pct))
		assert.True(t, errors.Is(err, ErrInvalidDiscount), pct)
	}
}

func TestComputeLine_InvalidLine(t *testing.T) {
	_, err := ComputeLine(-1, d("10"), decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidLine))

	_, err = ComputeLine(1, d("-10"), decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidLine))
}

func TestComputeLine_SubCentInputs(t *testing.T) {
	// 3 × 1.005 would price at 3.02 while the stored unit price reads 1.01.
	_, err := ComputeLine(3, d("1.005"), decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidLine))

	_, err = ComputeLine(3, d("1.01"), d("12.345"))
	assert.True(t, errors.Is(err, ErrInvalidDiscount))

	got, err := ComputeLine(3, d("1.01"), d("12.34"))
	require.NoError(t, err)
	assertMoney(t, "3.03", got.LineTotal)
	assert.True(t, got.LineTotal.Equal(d("1.01").Mul(decimal.NewFromInt(3))))
}

func TestComputeSaleTotals(t *testing.T) {
	a, err := ComputeLine(10, d("5.00"), decimal.Zero)
	require.NoError(t, err)
	b, err := ComputeLine(3, d("9.99"), d("25"))
	require.NoError(t, err)

	totals := ComputeSaleTotals([]LineAmounts{a, b})
	assertMoney(t, "79.97", totals.TotalSalePrice)
	assertMoney(t, "7.49", totals.TotalDiscountAmount)
	assertMoney(t, "72.48", totals.FinalTotalPrice)

	// final total always reconciles with the line finals
	assert.True(t, totals.FinalTotalPrice.Equal(a.FinalLineTotal.Add(b.FinalLineTotal)))
	assert.True(t, totals.FinalTotalPrice.Equal(totals.TotalSalePrice.Sub(totals.TotalDiscountAmount)))
}

func TestComputeSaleTotals_Empty(t *testing.T) {
	totals := ComputeSaleTotals(nil)
	assert.True(t, totals.TotalSalePrice.IsZero())
	assert.True(t, totals.TotalDiscountAmount.IsZero())
	assert.True(t, totals.FinalTotalPrice.IsZero())
}
