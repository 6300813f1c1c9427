package core_test

import (
	"testing"
	"time"

	"salesledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporting_DashboardAndReconciliation(t *testing.T) {
	env := setupTestDB(t)

	first, err := env.sales.CreateSale(env.ctx, saleInput(line(widgetID, 2, "5.00", "0")))
	require.NoError(t, err)
	_, err = env.sales.CreateSale(env.ctx, saleInput(line(gizmoID, 1, "100.00", "10")))
	require.NoError(t, err)
	_, err = env.sales.ConfirmPayment(env.ctx, first.ID, core.ConfirmPaymentInput{ActorID: seedUserID})
	require.NoError(t, err)

	dash, err := env.reports.Dashboard(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.AvailableItems, "gizmo sold out")
	assert.Equal(t, 2, dash.TotalSales)
	assert.Equal(t, 1, dash.PendingSales)
	assert.Len(t, dash.RecentSales, 2)
	assert.Len(t, dash.RecentItems, 3)

	rec, err := env.reports.Reconciliation(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.PendingCount)
	assert.True(t, rec.PendingTotal.Equal(decimal.RequireFromString("90.00")), "got %s", rec.PendingTotal)
}

func TestReporting_HistoryFilters(t *testing.T) {
	env := setupTestDB(t)

	cash, err := env.sales.CreateSale(env.ctx, saleInput(line(widgetID, 2, "5.00", "0")))
	require.NoError(t, err)
	in := saleInput(line(gadgetID, 1, "9.99", "0"))
	in.PaymentMethod = core.PaymentZelle
	zelle, err := env.sales.CreateSale(env.ctx, in)
	require.NoError(t, err)
	_, err = env.sales.CreateSale(env.ctx, saleInput(line(gizmoID, 1, "100.00", "0"))) // stays pending
	require.NoError(t, err)

	for _, id := range []int{cash.ID, zelle.ID} {
		_, err := env.sales.ConfirmPayment(env.ctx, id, core.ConfirmPaymentInput{ActorID: seedUserID})
		require.NoError(t, err)
	}

	all, err := env.reports.History(env.ctx, core.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.True(t, all.Total.Equal(decimal.RequireFromString("19.99")))
	assert.ElementsMatch(t, []core.PaymentMethod{core.PaymentCash, core.PaymentZelle}, all.PaymentMethods)

	byMethod, err := env.reports.History(env.ctx, core.HistoryFilter{PaymentMethod: core.PaymentZelle})
	require.NoError(t, err)
	require.Equal(t, 1, byMethod.Count)
	assert.Equal(t, zelle.ID, byMethod.Sales[0].ID)

	byItem, err := env.reports.History(env.ctx, core.HistoryFilter{Search: "widg"})
	require.NoError(t, err)
	require.Equal(t, 1, byItem.Count)
	assert.Equal(t, cash.ID, byItem.Sales[0].ID)

	// To covers the whole day even though sales are at 10:30.
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	sameDay, err := env.reports.History(env.ctx, core.HistoryFilter{From: day, To: day})
	require.NoError(t, err)
	assert.Equal(t, 2, sameDay.Count)

	before, err := env.reports.History(env.ctx, core.HistoryFilter{To: day.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Zero(t, before.Count)
	assert.True(t, before.Total.IsZero())
}

func TestReporting_InventoryValuation(t *testing.T) {
	env := setupTestDB(t)

	v, err := env.reports.InventoryValuation(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Items)
	assert.Equal(t, 14, v.Units)
	// 10×2.00 + 3×4.00 + 1×40.00
	assert.True(t, v.TotalCost.Equal(decimal.RequireFromString("72.00")), "got %s", v.TotalCost)
	// 10×5.00 + 3×9.99 + 1×100.00
	assert.True(t, v.TotalSellingValue.Equal(decimal.RequireFromString("179.97")), "got %s", v.TotalSellingValue)
}
