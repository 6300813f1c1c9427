package core_test

import (
	"testing"

	"salesledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_CreateItemJournalsIntake(t *testing.T) {
	env := setupTestDB(t)

	item, err := env.inventory.CreateItem(env.ctx, core.NewItemInput{
		ItemType:          "Lamp",
		SourceLocation:    "Garage sale",
		Quantity:          4,
		PurchaseCost:      decimal.RequireFromString("3.50"),
		SellingPrice:      decimal.RequireFromString("12.00"),
		ExternalReference: "LMP-1",
		ActorID:           seedUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.ItemAvailable, item.Status)
	assert.Equal(t, 4, item.Quantity)
	assert.Nil(t, item.RetailPrice)

	movements, err := env.inventory.GetMovements(env.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, core.MovementIntake, movements[0].Type)
	assert.Equal(t, 4, movements[0].Quantity)
	assert.Nil(t, movements[0].SaleID)
}

func TestInventory_CreateItemValidation(t *testing.T) {
	env := setupTestDB(t)

	cases := map[string]core.NewItemInput{
		"missing type":     {Quantity: 1},
		"zero quantity":    {ItemType: "Lamp"},
		"negative cost":    {ItemType: "Lamp", Quantity: 1, PurchaseCost: decimal.NewFromInt(-1)},
		"discount too big": {ItemType: "Lamp", Quantity: 1, DiscountPercentage: decimal.NewFromInt(101)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.inventory.CreateItem(env.ctx, in)
			require.Error(t, err)
			assert.True(t, core.IsValidation(err), "got %v", err)
		})
	}
}

func TestInventory_UpdateQuantityKeepsStatusRule(t *testing.T) {
	env := setupTestDB(t)

	update := func(qty int) *core.InventoryItem {
		t.Helper()
		item, err := env.inventory.UpdateItem(env.ctx, gizmoID, core.UpdateItemInput{
			ItemType:     "Gizmo",
			Quantity:     &qty,
			PurchaseCost: decimal.RequireFromString("40.00"),
			SellingPrice: decimal.RequireFromString("100.00"),
			ActorID:      seedUserID,
		})
		require.NoError(t, err)
		return item
	}

	assert.Equal(t, core.ItemSold, update(0).Status)
	assert.Equal(t, core.ItemAvailable, update(2).Status)

	movements, err := env.inventory.GetMovements(env.ctx, gizmoID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, core.MovementAdjustment, movements[0].Type)
	assert.Equal(t, -1, movements[0].Quantity)
	assert.Equal(t, 2, movements[1].Quantity)

	negative := -1
	_, err = env.inventory.UpdateItem(env.ctx, gizmoID, core.UpdateItemInput{ItemType: "Gizmo", Quantity: &negative})
	assert.ErrorIs(t, err, core.ErrInvalidItem)
}

func TestInventory_StandaloneReserveAndRelease(t *testing.T) {
	env := setupTestDB(t)

	item, err := env.inventory.ReserveStock(env.ctx, gadgetID, 3, seedUserID)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, core.ItemSold, item.Status)

	_, err = env.inventory.ReserveStock(env.ctx, gadgetID, 1, seedUserID)
	assert.ErrorIs(t, err, core.ErrInsufficientStock)

	item, err = env.inventory.ReleaseStock(env.ctx, gadgetID, 2, seedUserID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, core.ItemAvailable, item.Status)

	_, err = env.inventory.ReserveStock(env.ctx, 999, 1, seedUserID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInventory_ReleaseTwiceForSameSaleFails(t *testing.T) {
	env := setupTestDB(t)

	sale, err := env.sales.CreateSale(env.ctx, saleInput(line(widgetID, 2, "5.00", "0")))
	require.NoError(t, err)

	tx, err := env.pool.Begin(env.ctx)
	require.NoError(t, err)
	defer tx.Rollback(env.ctx)

	require.NoError(t, env.inventory.ReleaseStockTx(env.ctx, tx, widgetID, 2, sale.ID))
	err = env.inventory.ReleaseStockTx(env.ctx, tx, widgetID, 2, sale.ID)
	assert.ErrorIs(t, err, core.ErrAlreadyReleased)
}

func TestInventory_ListItemsByStatus(t *testing.T) {
	env := setupTestDB(t)

	_, err := env.sales.CreateSale(env.ctx, saleInput(line(gizmoID, 1, "100.00", "0")))
	require.NoError(t, err)

	sold := core.ItemSold
	items, err := env.inventory.ListItems(env.ctx, &sold)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, gizmoID, items[0].ID)

	all, err := env.inventory.ListItems(env.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.inventory.GetMovements(env.ctx, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
