package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"salesledger/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidRequest marks a malformed adapter request (bad filter, bad date).
var ErrInvalidRequest = errors.New("invalid request")

const dateLayout = "2006-01-02"

type appService struct {
	pool             *pgxpool.Pool
	inventoryService core.InventoryService
	saleService      core.SaleService
	customerService  core.CustomerService
	reportingService core.ReportingService
	userService      core.UserService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	inventoryService core.InventoryService,
	saleService core.SaleService,
	customerService core.CustomerService,
	reportingService core.ReportingService,
	userService core.UserService,
) ApplicationService {
	return &appService{
		pool:             pool,
		inventoryService: inventoryService,
		saleService:      saleService,
		customerService:  customerService,
		reportingService: reportingService,
		userService:      userService,
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.userService.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) ListItems(ctx context.Context, status string) (*ItemListResult, error) {
	var filter *core.ItemStatus
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" && status != "all" {
		st := core.ItemStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown item status %q", ErrInvalidRequest, status)
		}
		filter = &st
	}
	items, err := s.inventoryService.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items}, nil
}

func (s *appService) GetItem(ctx context.Context, itemID int) (*ItemResult, error) {
	item, err := s.inventoryService.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error) {
	item, err := s.inventoryService.CreateItem(ctx, core.NewItemInput{
		ItemType:           req.ItemType,
		SourceLocation:     req.SourceLocation,
		Quantity:           req.Quantity,
		PurchaseCost:       req.PurchaseCost,
		RetailPrice:        req.RetailPrice,
		SellingPrice:       req.SellingPrice,
		DiscountPercentage: req.DiscountPercentage,
		ExternalReference:  req.ExternalReference,
		ActorID:            req.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) UpdateItem(ctx context.Context, itemID int, req UpdateItemRequest) (*ItemResult, error) {
	item, err := s.inventoryService.UpdateItem(ctx, itemID, core.UpdateItemInput{
		ItemType:           req.ItemType,
		SourceLocation:     req.SourceLocation,
		Quantity:           req.Quantity,
		PurchaseCost:       req.PurchaseCost,
		RetailPrice:        req.RetailPrice,
		SellingPrice:       req.SellingPrice,
		DiscountPercentage: req.DiscountPercentage,
		ExternalReference:  req.ExternalReference,
		ActorID:            req.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*ItemResult, error) {
	var (
		item *core.InventoryItem
		err  error
	)
	switch {
	case req.Delta < 0:
		item, err = s.inventoryService.ReserveStock(ctx, req.ItemID, -req.Delta, req.ActorID)
	case req.Delta > 0:
		item, err = s.inventoryService.ReleaseStock(ctx, req.ItemID, req.Delta, req.ActorID)
	default:
		return nil, fmt.Errorf("%w: stock adjustment must be non-zero", ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) GetMovements(ctx context.Context, itemID int) (*MovementListResult, error) {
	movements, err := s.inventoryService.GetMovements(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{ItemID: itemID, Movements: movements}, nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customerService.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	c, err := s.customerService.CreateCustomer(ctx, core.NewCustomerInput{
		Name: req.Name, Email: req.Email, Phone: req.Phone,
	}, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *appService) ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error) {
	filter := core.SaleFilter{Limit: req.Limit, Offset: req.Offset}
	if status := strings.ToLower(strings.TrimSpace(req.Status)); status != "" && status != "all" {
		st := core.PaymentStatus(status)
		switch st {
		case core.PaymentPending, core.PaymentReceived, core.PaymentVoided:
		default:
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidRequest, status)
		}
		filter.Status = &st
	}
	sales, err := s.saleService.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) GetSale(ctx context.Context, ref string) (*SaleResult, error) {
	sale, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// CreateSale fills unpriced lines from the inventory item before handing the
// sale to the transaction engine.
func (s *appService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error) {
	in := core.CreateSaleInput{
		CustomerID:      req.CustomerID,
		PaymentMethod:   core.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		PaymentReceiver: req.PaymentReceiver,
		Notes:           req.Notes,
		ActorID:         req.ActorID,
		Lines:           make([]core.SaleLineInput, 0, len(req.Lines)),
	}
	if req.NewCustomer != nil {
		in.NewCustomer = &core.NewCustomerInput{
			Name: req.NewCustomer.Name, Email: req.NewCustomer.Email, Phone: req.NewCustomer.Phone,
		}
	}

	for _, l := range req.Lines {
		line := core.SaleLineInput{InventoryItemID: l.ItemID, Quantity: l.Quantity}
		// A line with no item id is left for the sale validation to reject.
		if l.ItemID > 0 && (l.UnitPrice == nil || l.DiscountPercentage == nil) {
			item, err := s.inventoryService.GetItem(ctx, l.ItemID)
			if err != nil {
				return nil, err
			}
			line.UnitPrice = item.SellingPrice
			line.DiscountPercentage = item.DiscountPercentage
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		if l.DiscountPercentage != nil {
			line.DiscountPercentage = *l.DiscountPercentage
		}
		in.Lines = append(in.Lines, line)
	}

	sale, err := s.saleService.CreateSale(ctx, in)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) UpdateSale(ctx context.Context, ref string, req UpdateSaleRequest) (*SaleResult, error) {
	sale, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	sale, err = s.saleService.UpdateSale(ctx, sale.ID, core.UpdateSaleInput{
		CustomerID:      req.CustomerID,
		PaymentMethod:   core.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		PaymentReceiver: req.PaymentReceiver,
		Notes:           req.Notes,
		ActorID:         req.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) VoidSale(ctx context.Context, ref, reason string, actorID int) (*SaleResult, error) {
	sale, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	sale, err = s.saleService.VoidSale(ctx, sale.ID, reason, actorID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ConfirmPayment(ctx context.Context, ref string, req ConfirmPaymentRequest) (*SaleResult, error) {
	sale, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	sale, err = s.saleService.ConfirmPayment(ctx, sale.ID, core.ConfirmPaymentInput{
		ProofReference: req.ProofReference,
		Note:           req.Note,
		ActorID:        req.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) GetSaleAudit(ctx context.Context, ref string) (*AuditTrailResult, error) {
	sale, err := s.resolveSale(ctx, ref)
	if err != nil {
		return nil, err
	}
	entries, err := core.ListAuditEntries(ctx, s.pool, "sale", sale.ID)
	if err != nil {
		return nil, err
	}
	return &AuditTrailResult{InvoiceNumber: sale.InvoiceNumber, Entries: entries}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	stats, err := s.reportingService.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardResult{stats}, nil
}

func (s *appService) Reconciliation(ctx context.Context) (*ReconciliationResult, error) {
	summary, err := s.reportingService.Reconciliation(ctx)
	if err != nil {
		return nil, err
	}
	return &ReconciliationResult{summary}, nil
}

func (s *appService) History(ctx context.Context, req HistoryRequest) (*HistoryResult, error) {
	filter := core.HistoryFilter{
		Search:        req.Search,
		PaymentMethod: core.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
	}
	if filter.PaymentMethod != "" && !filter.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, req.PaymentMethod)
	}
	var err error
	if filter.From, err = parseDate("from", req.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseDate("to", req.To); err != nil {
		return nil, err
	}

	history, err := s.reportingService.History(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{history}, nil
}

func (s *appService) InventoryValuation(ctx context.Context) (*ValuationResult, error) {
	v, err := s.reportingService.InventoryValuation(ctx)
	if err != nil {
		return nil, err
	}
	return &ValuationResult{v}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// resolveSale accepts either a numeric sale ID or an invoice number.
func (s *appService) resolveSale(ctx context.Context, ref string) (*core.Sale, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if id, err := strconv.Atoi(ref); err == nil {
		return s.saleService.GetSale(ctx, id)
	}
	if !core.LooksLikeInvoiceNumber(ref) {
		return nil, fmt.Errorf("%w: %q is neither a sale id nor an invoice number", ErrInvalidRequest, ref)
	}
	return s.saleService.GetSaleByInvoice(ctx, ref)
}

func parseDate(field, value string) (time.Time, error) {
	if value = strings.TrimSpace(value); value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s date %q must be YYYY-MM-DD", ErrInvalidRequest, field, value)
	}
	return t, nil
}
