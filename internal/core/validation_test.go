package core

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSale() CreateSaleInput {
	return CreateSaleInput{
		CustomerID:      1,
		PaymentMethod:   PaymentCash,
		PaymentReceiver: "Front desk",
		Lines: []SaleLineInput{
			{InventoryItemID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}
}

func TestValidateSaleInput(t *testing.T) {
	require.NoError(t, validateSaleInput(validSale()))

	tests := []struct {
		name   string
		mutate func(*CreateSaleInput)
		want   error
	}{
		{"no lines", func(in *CreateSaleInput) { in.Lines = nil }, ErrEmptySale},
		{"no customer", func(in *CreateSaleInput) { in.CustomerID = 0 }, ErrInvalidCustomer},
		{"both customers", func(in *CreateSaleInput) { in.NewCustomer = &NewCustomerInput{Name: "A"} }, ErrInvalidCustomer},
		{"unnamed new customer", func(in *CreateSaleInput) {
			in.CustomerID = 0
			in.NewCustomer = &NewCustomerInput{Name: "  "}
		}, ErrInvalidCustomer},
		{"unknown method", func(in *CreateSaleInput) { in.PaymentMethod = "iou" }, ErrInvalidPayment},
		{"blank receiver", func(in *CreateSaleInput) { in.PaymentReceiver = " " }, ErrInvalidPayment},
		{"zero quantity", func(in *CreateSaleInput) { in.Lines[0].Quantity = 0 }, ErrInvalidLine},
		{"missing item", func(in *CreateSaleInput) { in.Lines[0].InventoryItemID = 0 }, ErrInvalidLine},
		{"negative price", func(in *CreateSaleInput) { in.Lines[0].UnitPrice = decimal.NewFromInt(-1) }, ErrInvalidLine},
		{"discount above 100", func(in *CreateSaleInput) { in.Lines[0].DiscountPercentage = decimal.NewFromInt(101) }, ErrInvalidDiscount},
		{"sub-cent price", func(in *CreateSaleInput) { in.Lines[0].UnitPrice = decimal.RequireFromString("1.005") }, ErrInvalidLine},
		{"three-decimal discount", func(in *CreateSaleInput) {
			in.Lines[0].DiscountPercentage = decimal.RequireFromString("12.345")
		}, ErrInvalidDiscount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSale()
			tt.mutate(&in)
			err := validateSaleInput(in)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestValidateItemFields_Cents(t *testing.T) {
	price := decimal.RequireFromString("4.99")
	require.NoError(t, validateItemFields("Lamp", price, price, &price, decimal.RequireFromString("12.5")))

	fine := decimal.RequireFromString("4.999")
	assert.ErrorIs(t, validateItemFields("Lamp", fine, price, nil, decimal.Zero), ErrInvalidItem)
	assert.ErrorIs(t, validateItemFields("Lamp", price, fine, nil, decimal.Zero), ErrInvalidItem)
	assert.ErrorIs(t, validateItemFields("Lamp", price, price, &fine, decimal.Zero), ErrInvalidItem)
	assert.ErrorIs(t, validateItemFields("Lamp", price, price, nil, decimal.RequireFromString("0.001")), ErrInvalidDiscount)
}

func TestStatusAfterChange(t *testing.T) {
	assert.Equal(t, ItemSold, statusAfterChange(ItemAvailable, 0))
	assert.Equal(t, ItemAvailable, statusAfterChange(ItemSold, 3))
	assert.Equal(t, ItemAvailable, statusAfterChange(ItemAvailable, 3))
	assert.Equal(t, ItemReserved, statusAfterChange(ItemReserved, 1))
	assert.Equal(t, ItemSold, statusAfterChange(ItemReserved, 0))
}

func TestStatusAfterReturn(t *testing.T) {
	reserved, sold := ItemReserved, ItemSold
	assert.Equal(t, ItemReserved, statusAfterReturn(ItemSold, &reserved, 2))
	assert.Equal(t, ItemAvailable, statusAfterReturn(ItemSold, nil, 2))
	assert.Equal(t, ItemAvailable, statusAfterReturn(ItemSold, &sold, 2))
	// restocked after the sale emptied it: the newer status wins
	assert.Equal(t, ItemAvailable, statusAfterReturn(ItemAvailable, &reserved, 5))
	assert.Equal(t, ItemReserved, statusAfterReturn(ItemReserved, &reserved, 4))
}

func TestAggregateLineQuantities(t *testing.T) {
	got := aggregateLineQuantities([]SaleLine{
		{InventoryItemID: 7, Quantity: 2},
		{InventoryItemID: 3, Quantity: 1},
		{InventoryItemID: 7, Quantity: 5},
	})
	assert.Equal(t, []itemQuantity{{itemID: 7, quantity: 7}, {itemID: 3, quantity: 1}}, got)
	assert.Empty(t, aggregateLineQuantities(nil))
}

func TestAppendConfirmationNote(t *testing.T) {
	at := time.Date(2026, 3, 14, 16, 5, 0, 0, time.UTC)

	assert.Equal(t, "walk-in", appendConfirmationNote("walk-in", "  ", 4, at))
	assert.Equal(t, "[Payment confirmed by user 4 on 2026-03-14 16:05]: check cleared",
		appendConfirmationNote("", "check cleared", 4, at))

	got := appendConfirmationNote("walk-in", "check cleared", 4, at)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "walk-in", lines[0])
}

func TestBuildHistoryQuery(t *testing.T) {
	query, args := buildHistoryQuery(HistoryFilter{})
	assert.Contains(t, query, "s.payment_status = 'received'")
	assert.Empty(t, args)

	to := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	query, args = buildHistoryQuery(HistoryFilter{Search: "lamp", PaymentMethod: PaymentCard, To: to})
	require.Len(t, args, 3)
	assert.Equal(t, "%lamp%", args[0])
	assert.Equal(t, PaymentCard, args[1])
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), args[2])
	assert.Contains(t, query, "s.sale_date < $3")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.NotNil(t, o.Logger)
	assert.NotNil(t, o.Audit)
	assert.NotNil(t, o.Clock)
	assert.Equal(t, DefaultTxRetries, o.MaxTxRetries)

	o = Options{MaxTxRetries: 7}.withDefaults()
	assert.Equal(t, 7, o.MaxTxRetries)
}
