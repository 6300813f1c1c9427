package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	AvailableItems int             `json:"available_items"`
	TotalSales     int             `json:"total_sales"`
	PendingSales   int             `json:"pending_sales"`
	RecentSales    []Sale          `json:"recent_sales"`
	RecentItems    []InventoryItem `json:"recent_items"`
}

// ReconciliationSummary lists the sales still awaiting payment confirmation.
type ReconciliationSummary struct {
	PendingSales []Sale          `json:"pending_sales"`
	PendingCount int             `json:"pending_count"`
	PendingTotal decimal.Decimal `json:"pending_total"`
}

// HistoryFilter narrows the payment history. From and To are calendar days;
// To includes the whole day. Zero values mean "no filter".
type HistoryFilter struct {
	Search        string
	PaymentMethod PaymentMethod
	From          time.Time
	To            time.Time
}

// PaymentHistory is the list of received sales matching a HistoryFilter.
type PaymentHistory struct {
	Sales          []Sale          `json:"sales"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethods []PaymentMethod `json:"payment_methods"` // every method seen on received sales
}

// InventoryValuation values the stock currently available for sale.
type InventoryValuation struct {
	Items             int             `json:"items"`
	Units             int             `json:"units"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalSellingValue decimal.Decimal `json:"total_selling_value"`
}

// ReportingService provides read-only views over sales and inventory.
type ReportingService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Reconciliation(ctx context.Context) (*ReconciliationSummary, error)
	History(ctx context.Context, filter HistoryFilter) (*PaymentHistory, error)
	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

const recentLimit = 5

func (s *reportingService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM inventory_items WHERE status = 'available'),
			(SELECT COUNT(*) FROM sales),
			(SELECT COUNT(*) FROM sales WHERE payment_status = 'pending')
	`).Scan(&stats.AvailableItems, &stats.TotalSales, &stats.PendingSales)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
	}

	stats.RecentSales, err = querySales(ctx, s.pool,
		`SELECT `+saleColumns+saleFrom+` ORDER BY s.sale_date DESC, s.id DESC LIMIT $1`, recentLimit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items ORDER BY created_at DESC, id DESC LIMIT $1`, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		stats.RecentItems = append(stats.RecentItems, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent items: %w", err)
	}
	return &stats, nil
}

func (s *reportingService) Reconciliation(ctx context.Context) (*ReconciliationSummary, error) {
	pending, err := querySales(ctx, s.pool,
		`SELECT `+saleColumns+saleFrom+` WHERE s.payment_status = 'pending' ORDER BY s.sale_date DESC, s.id DESC`)
	if err != nil {
		return nil, err
	}
	return &ReconciliationSummary{
		PendingSales: pending,
		PendingCount: len(pending),
		PendingTotal: sumFinalTotals(pending),
	}, nil
}

func (s *reportingService) History(ctx context.Context, filter HistoryFilter) (*PaymentHistory, error) {
	query, args := buildHistoryQuery(filter)
	sales, err := querySales(ctx, s.pool, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT payment_method FROM sales
		WHERE payment_status = 'received' AND payment_method <> ''
		ORDER BY payment_method
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment methods: %w", err)
	}

	return &PaymentHistory{
		Sales:          sales,
		Count:          len(sales),
		Total:          sumFinalTotals(sales),
		PaymentMethods: methods,
	}, nil
}

// buildHistoryQuery renders the received-sales query for filter.
func buildHistoryQuery(filter HistoryFilter) (string, []any) {
	var (
		conds = []string{"s.payment_status = 'received'"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := arg("%" + search + "%")
		conds = append(conds, fmt.Sprintf(`(c.name ILIKE %[1]s OR s.invoice_number ILIKE %[1]s
			OR s.payment_method ILIKE %[1]s OR s.final_total_price::text ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM sale_lines l JOIN inventory_items i ON i.id = l.inventory_item_id
			           WHERE l.sale_id = s.id AND i.item_type ILIKE %[1]s))`, p))
	}
	if filter.PaymentMethod != "" {
		conds = append(conds, "s.payment_method = "+arg(filter.PaymentMethod))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "s.sale_date >= "+arg(startOfDay(filter.From)))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "s.sale_date < "+arg(startOfDay(filter.To).AddDate(0, 0, 1)))
	}

	query := `SELECT ` + saleColumns + saleFrom +
		` WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY s.payment_confirmed_at DESC NULLS LAST, s.id DESC`
	return query, args
}

func (s *reportingService) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	var v InventoryValuation
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(quantity * purchase_cost), 0),
		       COALESCE(SUM(quantity * selling_price), 0)
		FROM inventory_items
		WHERE status = 'available'
	`).Scan(&v.Items, &v.Units, &v.TotalCost, &v.TotalSellingValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute inventory valuation: %w", err)
	}
	return &v, nil
}

func sumFinalTotals(sales []Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.FinalTotalPrice)
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
