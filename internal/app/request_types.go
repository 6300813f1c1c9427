package app

import (
	"github.com/shopspring/decimal"
)

// CreateItemRequest is the input for an inventory intake.
type CreateItemRequest struct {
	ItemType           string           `json:"item_type"`
	SourceLocation     string           `json:"source_location"`
	Quantity           int              `json:"quantity"`
	PurchaseCost       decimal.Decimal  `json:"purchase_cost"`
	RetailPrice        *decimal.Decimal `json:"retail_price"`
	SellingPrice       decimal.Decimal  `json:"selling_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	ExternalReference  string           `json:"external_reference"`
	ActorID            int              `json:"-"`
}

// UpdateItemRequest is the input for editing an item. Quantity, when set, is
// the new absolute on-hand quantity.
type UpdateItemRequest struct {
	ItemType           string           `json:"item_type"`
	SourceLocation     string           `json:"source_location"`
	Quantity           *int             `json:"quantity"`
	PurchaseCost       decimal.Decimal  `json:"purchase_cost"`
	RetailPrice        *decimal.Decimal `json:"retail_price"`
	SellingPrice       decimal.Decimal  `json:"selling_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	ExternalReference  string           `json:"external_reference"`
	ActorID            int              `json:"-"`
}

// AdjustStockRequest moves units out of (Delta < 0) or back into (Delta > 0) stock.
type AdjustStockRequest struct {
	ItemID  int `json:"item_id"`
	Delta   int `json:"delta"`
	ActorID int `json:"-"`
}

// CreateCustomerRequest is the input for a new customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	ActorID int    `json:"-"`
}

// ListSalesRequest filters ListSales. An empty Status (or "all") means every sale.
type ListSalesRequest struct {
	Status string
	Limit  int
	Offset int
}

// CreateSaleRequest is the input for a new multi-item sale. Exactly one of
// CustomerID or NewCustomer must be given.
type CreateSaleRequest struct {
	CustomerID      int                    `json:"customer_id"`
	NewCustomer     *CreateCustomerRequest `json:"new_customer"`
	Lines           []SaleLineRequest      `json:"lines"`
	PaymentMethod   string                 `json:"payment_method"`
	PaymentReceiver string                 `json:"payment_receiver"`
	Notes           string                 `json:"notes"`
	ActorID         int                    `json:"-"`
}

// SaleLineRequest is a single line within a CreateSaleRequest.
type SaleLineRequest struct {
	ItemID             int              `json:"item_id"`
	Quantity           int              `json:"quantity"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`          // nil means "use the item's selling price"
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"` // nil means "use the item's default discount"
}

// UpdateSaleRequest edits the non-financial fields of a sale.
type UpdateSaleRequest struct {
	CustomerID      int    `json:"customer_id"`
	PaymentMethod   string `json:"payment_method"`
	PaymentReceiver string `json:"payment_receiver"`
	Notes           string `json:"notes"`
	ActorID         int    `json:"-"`
}

// ConfirmPaymentRequest is the input for payment reconciliation.
type ConfirmPaymentRequest struct {
	ProofReference string `json:"proof_reference"`
	Note           string `json:"note"`
	ActorID        int    `json:"-"`
}

// HistoryRequest filters the payment history. Dates are YYYY-MM-DD; To is inclusive.
type HistoryRequest struct {
	Search        string
	PaymentMethod string
	From          string
	To            string
}
