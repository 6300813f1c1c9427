package cli

import (
	"bytes"
	"context"
	"testing"

	"salesledger/internal/app"
	"salesledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	app.ApplicationService

	voidRef    string
	voidReason string
	voidActor  int
	adjust     app.AdjustStockRequest
	confirm    app.ConfirmPaymentRequest
}

func (f *fakeApp) VoidSale(_ context.Context, ref, reason string, actorID int) (*app.SaleResult, error) {
	f.voidRef, f.voidReason, f.voidActor = ref, reason, actorID
	return &app.SaleResult{Sale: &core.Sale{InvoiceNumber: "INV20260314-0002", Lines: make([]core.SaleLine, 2)}}, nil
}

func (f *fakeApp) ConfirmPayment(_ context.Context, ref string, req app.ConfirmPaymentRequest) (*app.SaleResult, error) {
	f.confirm = req
	return &app.SaleResult{Sale: &core.Sale{InvoiceNumber: ref, FinalTotalPrice: decimal.RequireFromString("12.5")}}, nil
}

func (f *fakeApp) AdjustStock(_ context.Context, req app.AdjustStockRequest) (*app.ItemResult, error) {
	f.adjust = req
	return &app.ItemResult{Item: &core.InventoryItem{ID: req.ItemID, Quantity: 4, Status: core.ItemAvailable}}, nil
}

func (f *fakeApp) ListSales(_ context.Context, req app.ListSalesRequest) (*app.SaleListResult, error) {
	return &app.SaleListResult{Sales: []core.Sale{{
		InvoiceNumber: "INV20260314-0001", CustomerName: "Walk-in Customer",
		PaymentMethod: core.PaymentCash, PaymentStatus: core.PaymentPending,
		FinalTotalPrice: decimal.RequireFromString("50"),
	}}}, nil
}

func TestRun_Void(t *testing.T) {
	f := &fakeApp{}
	var out bytes.Buffer

	err := Run(context.Background(), f, []string{"void", "inv20260314-0002", "wrong", "customer"}, 3, &out)
	require.NoError(t, err)
	assert.Equal(t, "inv20260314-0002", f.voidRef)
	assert.Equal(t, "wrong customer", f.voidReason)
	assert.Equal(t, 3, f.voidActor)
	assert.Contains(t, out.String(), "INV20260314-0002 VOIDED")
}

func TestRun_ConfirmAndAdjust(t *testing.T) {
	f := &fakeApp{}
	var out bytes.Buffer

	require.NoError(t, Run(context.Background(), f, []string{"confirm", "7", "ZL-991"}, 3, &out))
	assert.Equal(t, "ZL-991", f.confirm.ProofReference)
	assert.Equal(t, 3, f.confirm.ActorID)
	assert.Contains(t, out.String(), "12.50")

	out.Reset()
	require.NoError(t, Run(context.Background(), f, []string{"adjust", "5", "-2"}, 3, &out))
	assert.Equal(t, app.AdjustStockRequest{ItemID: 5, Delta: -2, ActorID: 3}, f.adjust)
	assert.Contains(t, out.String(), "Item 5 now has 4 on hand")
}

func TestRun_SalesTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &fakeApp{}, []string{"sales", "pending"}, 1, &out))
	assert.Contains(t, out.String(), "INV20260314-0001")
	assert.Contains(t, out.String(), "50.00")
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		nil,
		{"bogus"},
		{"void", "7"},
		{"sale"},
		{"adjust", "x", "1"},
		{"adjust", "1", "many"},
	}
	for _, args := range tests {
		err := Run(context.Background(), &fakeApp{}, args, 1, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrUsage, "args %v", args)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd~", truncate("abcdefgh", 5))
}
