package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus is the availability state of an inventory item.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemSold      ItemStatus = "sold"
	ItemReserved  ItemStatus = "reserved"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemSold, ItemReserved:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle state of a sale.
//
//	pending → received → voided
//	pending → voided
//
// voided is terminal.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
	PaymentVoided   PaymentStatus = "voided"
)

// PaymentMethod is how the customer pays for a sale.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCheck    PaymentMethod = "check"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentZelle    PaymentMethod = "zelle"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCheck, PaymentCard, PaymentTransfer, PaymentZelle:
		return true
	}
	return false
}

// InventoryItem is one intake line held in stock.
type InventoryItem struct {
	ID                 int              `json:"id"`
	ItemType           string           `json:"item_type"`
	SourceLocation     string           `json:"source_location"`
	Quantity           int              `json:"quantity"`
	PurchaseCost       decimal.Decimal  `json:"purchase_cost"`
	RetailPrice        *decimal.Decimal `json:"retail_price,omitempty"`
	SellingPrice       decimal.Decimal  `json:"selling_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	ExternalReference  string           `json:"external_reference,omitempty"`
	Status             ItemStatus       `json:"status"`
	CreatedBy          int              `json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// MovementType classifies a row in the stock movement journal.
type MovementType string

const (
	MovementIntake     MovementType = "INTAKE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementSale       MovementType = "SALE"
	MovementVoidReturn MovementType = "VOID_RETURN"
)

// StockMovement is an append-only record of a quantity change on an item.
// Quantity is signed: negative for stock leaving, positive for stock returning.
type StockMovement struct {
	ID              int          `json:"id"`
	InventoryItemID int          `json:"inventory_item_id"`
	SaleID          *int         `json:"sale_id,omitempty"`
	Type            MovementType `json:"movement_type"`
	Quantity        int          `json:"quantity"`
	StatusBefore    *ItemStatus  `json:"status_before,omitempty"`
	Notes           string       `json:"notes"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Customer is a buyer record.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Sale is an invoice header with its ordered lines.
type Sale struct {
	ID                    int             `json:"id"`
	InvoiceNumber         string          `json:"invoice_number"`
	CustomerID            int             `json:"customer_id"`
	CustomerName          string          `json:"customer_name"` // joined from customers
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	PaymentReceiver       string          `json:"payment_receiver"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	TotalSalePrice        decimal.Decimal `json:"total_sale_price"`
	TotalDiscountAmount   decimal.Decimal `json:"total_discount_amount"`
	FinalTotalPrice       decimal.Decimal `json:"final_total_price"`
	Notes                 string          `json:"notes"`
	SoldBy                int             `json:"sold_by"`
	SaleDate              time.Time       `json:"sale_date"`
	PaymentConfirmedAt    *time.Time      `json:"payment_confirmed_at,omitempty"`
	PaymentConfirmedBy    *int            `json:"payment_confirmed_by,omitempty"`
	PaymentProofReference string          `json:"payment_proof_reference,omitempty"`
	VoidedAt              *time.Time      `json:"voided_at,omitempty"`
	VoidedBy              *int            `json:"voided_by,omitempty"`
	VoidReason            string          `json:"void_reason,omitempty"`
	Lines                 []SaleLine      `json:"lines"`
	CreatedAt             time.Time       `json:"created_at"`
}

// SaleLine is one inventory item sold within a sale. Lines are written with
// their sale and never modified afterwards.
type SaleLine struct {
	ID                 int             `json:"id"`
	SaleID             int             `json:"sale_id"`
	LineNumber         int             `json:"line_number"`
	InventoryItemID    int             `json:"inventory_item_id"`
	ItemType           string          `json:"item_type"` // joined from inventory_items
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalLineTotal     decimal.Decimal `json:"final_line_total"`
}

// SaleLineInput is a requested line when creating a sale.
type SaleLineInput struct {
	InventoryItemID    int
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// NewCustomerInput creates a customer inline with a sale.
type NewCustomerInput struct {
	Name  string
	Email string
	Phone string
}

// CreateSaleInput is the validated request for a new sale. Exactly one of
// CustomerID (non-zero) or NewCustomer must be set.
type CreateSaleInput struct {
	CustomerID      int
	NewCustomer     *NewCustomerInput
	Lines           []SaleLineInput
	PaymentMethod   PaymentMethod
	PaymentReceiver string
	Notes           string
	ActorID         int
}

// UpdateSaleInput edits the non-financial fields of a sale.
type UpdateSaleInput struct {
	CustomerID      int
	PaymentMethod   PaymentMethod
	PaymentReceiver string
	Notes           string
	ActorID         int
}

// ConfirmPaymentInput records reconciliation of a pending sale.
type ConfirmPaymentInput struct {
	ProofReference string // optional pointer to externally stored proof
	Note           string // appended to the sale notes
	ActorID        int
}

// NewItemInput is an intake request.
type NewItemInput struct {
	ItemType           string
	SourceLocation     string
	Quantity           int
	PurchaseCost       decimal.Decimal
	RetailPrice        *decimal.Decimal
	SellingPrice       decimal.Decimal
	DiscountPercentage decimal.Decimal
	ExternalReference  string
	ActorID            int
}

// UpdateItemInput edits an existing item. Quantity, when set, is the new
// absolute on-hand quantity and is journaled as an ADJUSTMENT movement.
type UpdateItemInput struct {
	ItemType           string
	SourceLocation     string
	Quantity           *int
	PurchaseCost       decimal.Decimal
	RetailPrice        *decimal.Decimal
	SellingPrice       decimal.Decimal
	DiscountPercentage decimal.Decimal
	ExternalReference  string
	ActorID            int
}

// SaleFilter narrows ListSales. Zero values mean "no filter".
type SaleFilter struct {
	Status *PaymentStatus
	Limit  int
	Offset int
}
