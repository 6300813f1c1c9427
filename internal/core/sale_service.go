package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SaleService is the multi-item sale transaction engine.
//
// Every mutation runs in one serializable transaction: stock reservation,
// pricing, invoice allocation and the sale rows commit together or not at all.
type SaleService interface {
	CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error)
	UpdateSale(ctx context.Context, saleID int, in UpdateSaleInput) (*Sale, error)
	VoidSale(ctx context.Context, saleID int, reason string, actorID int) (*Sale, error)
	ConfirmPayment(ctx context.Context, saleID int, in ConfirmPaymentInput) (*Sale, error)

	GetSale(ctx context.Context, saleID int) (*Sale, error)
	GetSaleByInvoice(ctx context.Context, invoiceNumber string) (*Sale, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]Sale, error)
}

type saleService struct {
	pool      *pgxpool.Pool
	tx        *txRunner
	inventory InventoryService
	audit     AuditLogger
	logger    *zap.Logger
	clock     func() time.Time
}

func NewSaleService(pool *pgxpool.Pool, inventory InventoryService, opts Options) SaleService {
	opts = opts.withDefaults()
	return &saleService{
		pool:      pool,
		tx:        newTxRunner(pool, opts.MaxTxRetries, opts.Logger),
		inventory: inventory,
		audit:     opts.Audit,
		logger:    opts.Logger.Named("sales"),
		clock:     opts.Clock,
	}
}

const saleColumns = `
	s.id, s.invoice_number, s.customer_id, c.name, s.payment_method, s.payment_receiver,
	s.payment_status, s.total_sale_price, s.total_discount_amount, s.final_total_price,
	s.notes, s.sold_by, s.sale_date, s.payment_confirmed_at, s.payment_confirmed_by,
	s.payment_proof_reference, s.voided_at, s.voided_by, s.void_reason, s.created_at`

const saleFrom = ` FROM sales s JOIN customers c ON c.id = s.customer_id`

func scanSale(row rowScanner) (*Sale, error) {
	var s Sale
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.CustomerName, &s.PaymentMethod, &s.PaymentReceiver,
		&s.PaymentStatus, &s.TotalSalePrice, &s.TotalDiscountAmount, &s.FinalTotalPrice,
		&s.Notes, &s.SoldBy, &s.SaleDate, &s.PaymentConfirmedAt, &s.PaymentConfirmedBy,
		&s.PaymentProofReference, &s.VoidedAt, &s.VoidedBy, &s.VoidReason, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (s *saleService) CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error) {
	if err := validateSaleInput(in); err != nil {
		return nil, err
	}

	// Price every line up front: a bad line fails before the transaction opens.
	amounts := make([]LineAmounts, len(in.Lines))
	for i, l := range in.Lines {
		a, err := ComputeLine(l.Quantity, l.UnitPrice, l.DiscountPercentage)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		amounts[i] = a
	}
	totals := ComputeSaleTotals(amounts)
	saleDate := s.clock()

	var (
		saleID      int
		invoice     string
		newCustomer *Customer
	)
	err := s.tx.run(ctx, "create sale", func(tx pgx.Tx) error {
		customerID := in.CustomerID
		newCustomer = nil
		if in.NewCustomer != nil {
			c, err := insertCustomer(ctx, tx, *in.NewCustomer)
			if err != nil {
				return err
			}
			newCustomer, customerID = c, c.ID
		} else if _, err := getCustomer(ctx, tx, customerID); err != nil {
			return err
		}

		var err error
		invoice, err = NextInvoiceNumberTx(ctx, tx, saleDate)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO sales (invoice_number, customer_id, payment_method, payment_receiver, payment_status,
			                   total_sale_price, total_discount_amount, final_total_price, notes, sold_by, sale_date)
			VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, invoice, customerID, in.PaymentMethod, strings.TrimSpace(in.PaymentReceiver),
			totals.TotalSalePrice, totals.TotalDiscountAmount, totals.FinalTotalPrice,
			in.Notes, in.ActorID, saleDate,
		).Scan(&saleID)
		if err != nil {
			// The day lock was taken after this transaction's snapshot; a
			// sale committed in between can already hold the number.
			if isUniqueViolation(err, "sales_invoice_number_key") {
				return fmt.Errorf("invoice %s already allocated: %w: %w", invoice, errRetryTx, err)
			}
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		for i, l := range in.Lines {
			// Lines naming the same item reserve cumulatively: the row lock is
			// already held, and each call sees the previous decrement.
			if err := s.inventory.ReserveStockTx(ctx, tx, l.InventoryItemID, l.Quantity, saleID); err != nil {
				return err
			}
			a := amounts[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO sale_lines (sale_id, line_number, inventory_item_id, quantity, unit_price,
				                        discount_percentage, line_total, discount_amount, final_line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, saleID, i+1, l.InventoryItemID, l.Quantity, l.UnitPrice,
				l.DiscountPercentage, a.LineTotal, a.DiscountAmount, a.FinalLineTotal)
			if err != nil {
				return fmt.Errorf("failed to insert sale line %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.Int("sale_id", saleID),
		zap.String("invoice_number", invoice),
		zap.Int("lines", len(in.Lines)),
		zap.String("final_total", totals.FinalTotalPrice.StringFixed(moneyPlaces)),
	)

	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if newCustomer != nil {
		s.audit.Record(ctx, AuditEvent{
			Action: AuditCustomerCreated, EntityType: "customer", EntityID: newCustomer.ID,
			ActorID: in.ActorID, NewState: newCustomer,
		})
	}
	s.audit.Record(ctx, AuditEvent{
		Action: AuditSaleCreated, EntityType: "sale", EntityID: sale.ID,
		ActorID: in.ActorID, NewState: sale,
	})
	return sale, nil
}

func (s *saleService) UpdateSale(ctx context.Context, saleID int, in UpdateSaleInput) (*Sale, error) {
	if in.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidCustomer)
	}
	if err := validatePayment(in.PaymentMethod, in.PaymentReceiver); err != nil {
		return nil, err
	}

	var before *Sale
	err := s.tx.run(ctx, "update sale", func(tx pgx.Tx) error {
		var err error
		before, err = lockSale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if before.PaymentStatus == PaymentVoided {
			return fmt.Errorf("sale %s: cannot edit a voided sale: %w", before.InvoiceNumber, ErrInvalidTransition)
		}
		if _, err := getCustomer(ctx, tx, in.CustomerID); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE sales SET customer_id = $1, payment_method = $2, payment_receiver = $3, notes = $4
			WHERE id = $5
		`, in.CustomerID, in.PaymentMethod, strings.TrimSpace(in.PaymentReceiver), in.Notes, saleID)
		if err != nil {
			return fmt.Errorf("failed to update sale %d: %w", saleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	after, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEvent{
		Action: AuditSaleUpdated, EntityType: "sale", EntityID: saleID, ActorID: in.ActorID,
		OldState: editableFields(before), NewState: editableFields(after),
	})
	return after, nil
}

func (s *saleService) VoidSale(ctx context.Context, saleID int, reason string, actorID int) (*Sale, error) {
	reason = strings.TrimSpace(reason)

	var before *Sale
	err := s.tx.run(ctx, "void sale", func(tx pgx.Tx) error {
		var err error
		before, err = lockSale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		// A voided sale reports as such whatever reason the caller sent.
		if before.PaymentStatus == PaymentVoided {
			return fmt.Errorf("sale %s: %w", before.InvoiceNumber, ErrAlreadyVoided)
		}
		if reason == "" {
			return ErrMissingReason
		}

		before.Lines, err = loadLines(ctx, tx, saleID)
		if err != nil {
			return err
		}
		for _, r := range aggregateLineQuantities(before.Lines) {
			if err := s.inventory.ReleaseStockTx(ctx, tx, r.itemID, r.quantity, saleID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE sales SET payment_status = 'voided', voided_at = $1, voided_by = $2, void_reason = $3
			WHERE id = $4
		`, s.clock(), actorID, reason, saleID)
		if err != nil {
			return fmt.Errorf("failed to mark sale %d voided: %w", saleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale voided", zap.Int("sale_id", saleID), zap.String("invoice_number", before.InvoiceNumber))

	after, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEvent{
		Action: AuditSaleVoided, EntityType: "sale", EntityID: saleID, ActorID: actorID,
		OldState: map[string]any{"payment_status": before.PaymentStatus},
		NewState: map[string]any{"payment_status": after.PaymentStatus, "void_reason": reason},
	})
	return after, nil
}

func (s *saleService) ConfirmPayment(ctx context.Context, saleID int, in ConfirmPaymentInput) (*Sale, error) {
	var before *Sale
	err := s.tx.run(ctx, "confirm payment", func(tx pgx.Tx) error {
		var err error
		before, err = lockSale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if before.PaymentStatus != PaymentPending {
			return fmt.Errorf("sale %s: cannot confirm payment on a %s sale: %w",
				before.InvoiceNumber, before.PaymentStatus, ErrInvalidTransition)
		}

		now := s.clock()
		notes := appendConfirmationNote(before.Notes, in.Note, in.ActorID, now)
		_, err = tx.Exec(ctx, `
			UPDATE sales
			SET payment_status = 'received', payment_confirmed_at = $1, payment_confirmed_by = $2,
			    payment_proof_reference = $3, notes = $4
			WHERE id = $5
		`, now, in.ActorID, strings.TrimSpace(in.ProofReference), notes, saleID)
		if err != nil {
			return fmt.Errorf("failed to confirm payment on sale %d: %w", saleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	after, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEvent{
		Action: AuditPaymentConfirmed, EntityType: "sale", EntityID: saleID, ActorID: in.ActorID,
		OldState: map[string]any{"payment_status": before.PaymentStatus},
		NewState: map[string]any{
			"payment_status":          after.PaymentStatus,
			"payment_proof_reference": after.PaymentProofReference,
		},
	})
	return after, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, saleID int) (*Sale, error) {
	return s.getSaleWhere(ctx, "s.id = $1", saleID, saleID)
}

func (s *saleService) GetSaleByInvoice(ctx context.Context, invoiceNumber string) (*Sale, error) {
	invoiceNumber = strings.ToUpper(strings.TrimSpace(invoiceNumber))
	return s.getSaleWhere(ctx, "s.invoice_number = $1", invoiceNumber, invoiceNumber)
}

func (s *saleService) getSaleWhere(ctx context.Context, cond string, arg, key any) (*Sale, error) {
	sale, err := scanSale(s.pool.QueryRow(ctx, `SELECT `+saleColumns+saleFrom+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("sale", key)
		}
		return nil, fmt.Errorf("failed to fetch sale %v: %w", key, err)
	}
	sale.Lines, err = loadLines(ctx, s.pool, sale.ID)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales returns sale headers, newest first. Lines are not loaded.
func (s *saleService) ListSales(ctx context.Context, filter SaleFilter) ([]Sale, error) {
	query := `SELECT ` + saleColumns + saleFrom
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` WHERE s.payment_status = $%d`, len(args))
	}
	query += ` ORDER BY s.sale_date DESC, s.id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return querySales(ctx, s.pool, query, args...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func querySales(ctx context.Context, q querier, query string, args ...any) ([]Sale, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	return sales, nil
}

// lockSale reads a sale header and holds its row lock until the transaction ends.
func lockSale(ctx context.Context, tx pgx.Tx, saleID int) (*Sale, error) {
	sale, err := scanSale(tx.QueryRow(ctx, `SELECT `+saleColumns+saleFrom+` WHERE s.id = $1 FOR UPDATE OF s`, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("sale", saleID)
		}
		return nil, fmt.Errorf("failed to lock sale %d: %w", saleID, err)
	}
	return sale, nil
}

func loadLines(ctx context.Context, q querier, saleID int) ([]SaleLine, error) {
	rows, err := q.Query(ctx, `
		SELECT l.id, l.sale_id, l.line_number, l.inventory_item_id, i.item_type, l.quantity, l.unit_price,
		       l.discount_percentage, l.line_total, l.discount_amount, l.final_line_total
		FROM sale_lines l
		JOIN inventory_items i ON i.id = l.inventory_item_id
		WHERE l.sale_id = $1
		ORDER BY l.line_number
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.InventoryItemID, &l.ItemType, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercentage, &l.LineTotal, &l.DiscountAmount, &l.FinalLineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}
	return lines, nil
}

type itemQuantity struct {
	itemID   int
	quantity int
}

// aggregateLineQuantities sums line quantities per item, in order of first
// appearance, so each item is released once per sale.
func aggregateLineQuantities(lines []SaleLine) []itemQuantity {
	index := make(map[int]int, len(lines))
	var out []itemQuantity
	for _, l := range lines {
		if i, ok := index[l.InventoryItemID]; ok {
			out[i].quantity += l.Quantity
			continue
		}
		index[l.InventoryItemID] = len(out)
		out = append(out, itemQuantity{itemID: l.InventoryItemID, quantity: l.Quantity})
	}
	return out
}

func appendConfirmationNote(notes, note string, actorID int, at time.Time) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return notes
	}
	entry := fmt.Sprintf("[Payment confirmed by user %d on %s]: %s", actorID, at.UTC().Format("2006-01-02 15:04"), note)
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

func editableFields(s *Sale) map[string]any {
	return map[string]any{
		"customer_id":      s.CustomerID,
		"payment_method":   s.PaymentMethod,
		"payment_receiver": s.PaymentReceiver,
		"notes":            s.Notes,
	}
}
