package app

import "salesledger/internal/core"

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserResult is returned by GetUser.
type UserResult struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ItemResult is returned by item operations.
type ItemResult struct {
	Item *core.InventoryItem `json:"item"`
}

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.InventoryItem `json:"items"`
}

// MovementListResult is returned by GetMovements.
type MovementListResult struct {
	ItemID    int                  `json:"item_id"`
	Movements []core.StockMovement `json:"movements"`
}

// CustomerResult is returned by CreateCustomer.
type CustomerResult struct {
	Customer *core.Customer `json:"customer"`
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
}

// SaleResult is returned by sale lifecycle operations.
type SaleResult struct {
	Sale *core.Sale `json:"sale"`
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale `json:"sales"`
}

// AuditTrailResult is returned by GetSaleAudit.
type AuditTrailResult struct {
	InvoiceNumber string            `json:"invoice_number"`
	Entries       []core.AuditEntry `json:"entries"`
}

// DashboardResult is returned by Dashboard.
type DashboardResult struct {
	*core.DashboardStats
}

// ReconciliationResult is returned by Reconciliation.
type ReconciliationResult struct {
	*core.ReconciliationSummary
}

// HistoryResult is returned by History.
type HistoryResult struct {
	*core.PaymentHistory
}

// ValuationResult is returned by InventoryValuation.
type ValuationResult struct {
	*core.InventoryValuation
}
