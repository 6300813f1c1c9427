package app

import (
	"context"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// ListItems returns inventory items. status may be empty or "all" for no filter.
	ListItems(ctx context.Context, status string) (*ItemListResult, error)

	// GetItem returns a single inventory item.
	GetItem(ctx context.Context, itemID int) (*ItemResult, error)

	// CreateItem records an intake of new stock.
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error)

	// UpdateItem edits an item. A changed quantity is journaled as an adjustment.
	UpdateItem(ctx context.Context, itemID int, req UpdateItemRequest) (*ItemResult, error)

	// AdjustStock takes units out of stock (negative delta) or puts them back
	// (positive delta) outside of any sale.
	AdjustStock(ctx context.Context, req AdjustStockRequest) (*ItemResult, error)

	// GetMovements returns the stock movement journal for one item, oldest first.
	GetMovements(ctx context.Context, itemID int) (*MovementListResult, error)

	// ListCustomers returns every customer ordered by name.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// CreateCustomer adds a customer to the directory.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)

	// ListSales returns sale headers, newest first, optionally filtered by payment status.
	ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error)

	// GetSale returns a sale with its lines. ref may be a numeric ID or an invoice number.
	GetSale(ctx context.Context, ref string) (*SaleResult, error)

	// CreateSale atomically records a multi-item sale, reserving stock and
	// allocating the invoice number.
	CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error)

	// UpdateSale edits the customer, payment details and notes of a non-voided sale.
	UpdateSale(ctx context.Context, ref string, req UpdateSaleRequest) (*SaleResult, error)

	// VoidSale voids a sale and returns its stock. reason is required.
	VoidSale(ctx context.Context, ref, reason string, actorID int) (*SaleResult, error)

	// ConfirmPayment moves a pending sale to received.
	ConfirmPayment(ctx context.Context, ref string, req ConfirmPaymentRequest) (*SaleResult, error)

	// GetSaleAudit returns the audit trail recorded for a sale.
	GetSaleAudit(ctx context.Context, ref string) (*AuditTrailResult, error)

	// Dashboard returns headline counts and the most recent sales and items.
	Dashboard(ctx context.Context) (*DashboardResult, error)

	// Reconciliation returns the pending sales awaiting payment confirmation.
	Reconciliation(ctx context.Context) (*ReconciliationResult, error)

	// History returns received sales matching the request filters.
	History(ctx context.Context, req HistoryRequest) (*HistoryResult, error)

	// InventoryValuation values the available stock at cost and at selling price.
	InventoryValuation(ctx context.Context) (*ValuationResult, error)
}
