package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	"salesledger/internal/core"
	"salesledger/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testDay is the pinned business day for every sale created in these tests.
var testDay = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	inventory core.InventoryService
	sales     core.SaleService
	customers core.CustomerService
	reports   core.ReportingService
	users     core.UserService
}

// Seeded rows (ids are stable because identities are reset):
//
//	user 1      alice
//	customer 1  Walk-in Customer
//	item 1      Widget  qty 10 @ 5.00
//	item 2      Gadget  qty 3  @ 9.99
//	item 3      Gizmo   qty 1  @ 100.00
const (
	seedUserID     = 1
	seedCustomerID = 1
	widgetID       = 1
	gadgetID       = 2
	gizmoID        = 3
)

func setupTestDB(t *testing.T) *testEnv {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	require.NoError(t, db.Migrate(dbURL), "failed to migrate test database")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE audit_log, stock_movements, sale_lines, sales, inventory_items, customers, users
		RESTART IDENTITY CASCADE;

		INSERT INTO users (username, email, password_hash, role)
		VALUES ('alice', 'alice@example.com', 'x', 'admin');

		INSERT INTO customers (name, email, phone) VALUES ('Walk-in Customer', '', '');

		INSERT INTO inventory_items (item_type, source_location, quantity, purchase_cost, selling_price, status, created_by) VALUES
		('Widget', 'Estate sale', 10,  2.00,   5.00, 'available', 1),
		('Gadget', 'Auction',      3,  4.00,   9.99, 'available', 1),
		('Gizmo',  'Consignment',  1, 40.00, 100.00, 'available', 1);
	`)
	require.NoError(t, err, "failed to seed test database")

	opts := core.Options{Clock: func() time.Time { return testDay }}
	inventory := core.NewInventoryService(pool, opts)
	return &testEnv{
		ctx:       ctx,
		pool:      pool,
		inventory: inventory,
		sales:     core.NewSaleService(pool, inventory, opts),
		customers: core.NewCustomerService(pool, opts),
		reports:   core.NewReportingService(pool),
		users:     core.NewUserService(pool),
	}
}

// stockOf returns the current quantity and status of an item.
func (e *testEnv) stockOf(t *testing.T, itemID int) (int, core.ItemStatus) {
	t.Helper()
	item, err := e.inventory.GetItem(e.ctx, itemID)
	require.NoError(t, err)
	return item.Quantity, item.Status
}

func line(itemID, qty int, price, pct string) core.SaleLineInput {
	return core.SaleLineInput{
		InventoryItemID:    itemID,
		Quantity:           qty,
		UnitPrice:          decimal.RequireFromString(price),
		DiscountPercentage: decimal.RequireFromString(pct),
	}
}

func saleInput(lines ...core.SaleLineInput) core.CreateSaleInput {
	return core.CreateSaleInput{
		CustomerID:      seedCustomerID,
		Lines:           lines,
		PaymentMethod:   core.PaymentCash,
		PaymentReceiver: "Front desk",
		ActorID:         seedUserID,
	}
}
