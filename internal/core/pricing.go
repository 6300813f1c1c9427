package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the number of fraction digits kept on every money amount.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LineAmounts is the priced result of one sale line.
type LineAmounts struct {
	LineTotal      decimal.Decimal `json:"line_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalLineTotal decimal.Decimal `json:"final_line_total"`
}

// SaleTotals is the aggregate of all line amounts on a sale.
type SaleTotals struct {
	TotalSalePrice      decimal.Decimal `json:"total_sale_price"`
	TotalDiscountAmount decimal.Decimal `json:"total_discount_amount"`
	FinalTotalPrice     decimal.Decimal `json:"final_total_price"`
}

// ComputeLine prices a single line:
//
//	line_total       = quantity × unit_price
//	discount_amount  = round(line_total × discount_pct / 100, 2)
//	final_line_total = line_total − discount_amount
//
// discountPct must lie in [0, 100] and unitPrice must fit in whole cents.
func ComputeLine(quantity int, unitPrice, discountPct decimal.Decimal) (LineAmounts, error) {
	if err := ValidateDiscount(discountPct); err != nil {
		return LineAmounts{}, err
	}
	if quantity < 0 {
		return LineAmounts{}, fmt.Errorf("%w: quantity %d is negative", ErrInvalidLine, quantity)
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, fmt.Errorf("%w: unit price %s is negative", ErrInvalidLine, unitPrice)
	}
	if !isMoney(unitPrice) {
		return LineAmounts{}, fmt.Errorf("%w: unit price %s has more than %d decimals", ErrInvalidLine, unitPrice, moneyPlaces)
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces)
	discount := lineTotal.Mul(discountPct).Div(hundred).Round(moneyPlaces)

	return LineAmounts{
		LineTotal:      lineTotal,
		DiscountAmount: discount,
		FinalLineTotal: lineTotal.Sub(discount),
	}, nil
}

// ComputeSaleTotals sums each field across lines. An empty slice yields zeros;
// callers reject empty sales before pricing.
func ComputeSaleTotals(lines []LineAmounts) SaleTotals {
	totals := SaleTotals{
		TotalSalePrice:      decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		FinalTotalPrice:     decimal.Zero,
	}
	for _, l := range lines {
		totals.TotalSalePrice = totals.TotalSalePrice.Add(l.LineTotal)
		totals.TotalDiscountAmount = totals.TotalDiscountAmount.Add(l.DiscountAmount)
		totals.FinalTotalPrice = totals.FinalTotalPrice.Add(l.FinalLineTotal)
	}
	return totals
}

// ValidateDiscount rejects percentages outside [0, 100] and any with more
// than two decimals.
func ValidateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrInvalidDiscount, pct)
	}
	if !isMoney(pct) {
		return fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidDiscount, pct, moneyPlaces)
	}
	return nil
}

// isMoney reports whether v is stored exactly in a NUMERIC(_, 2) column.
func isMoney(v decimal.Decimal) bool {
	return v.Equal(v.Round(moneyPlaces))
}
