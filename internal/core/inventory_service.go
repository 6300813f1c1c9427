package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// InventoryService owns stock quantities and item status. Quantities only
// change through the operations below, and every change is journaled in
// stock_movements.
type InventoryService interface {
	// Standalone operations (manage their own transactions).
	CreateItem(ctx context.Context, in NewItemInput) (*InventoryItem, error)
	UpdateItem(ctx context.Context, itemID int, in UpdateItemInput) (*InventoryItem, error)
	GetItem(ctx context.Context, itemID int) (*InventoryItem, error)
	ListItems(ctx context.Context, status *ItemStatus) ([]InventoryItem, error)
	GetMovements(ctx context.Context, itemID int) ([]StockMovement, error)
	// ReserveStock and ReleaseStock adjust stock outside of any sale.
	ReserveStock(ctx context.Context, itemID, quantity, actorID int) (*InventoryItem, error)
	ReleaseStock(ctx context.Context, itemID, quantity, actorID int) (*InventoryItem, error)

	// TX-scoped operations: work within a caller-provided transaction.
	// Used by SaleService to keep stock changes atomic with the sale.

	// ReserveStockTx decrements stock for a sale line. The item row stays
	// locked until tx ends.
	ReserveStockTx(ctx context.Context, tx pgx.Tx, itemID, quantity, saleID int) error
	// ReleaseStockTx returns stock taken by a sale. A second release of the
	// same item for the same sale fails with ErrAlreadyReleased.
	ReleaseStockTx(ctx context.Context, tx pgx.Tx, itemID, quantity, saleID int) error
}

type inventoryService struct {
	pool   *pgxpool.Pool
	tx     *txRunner
	audit  AuditLogger
	logger *zap.Logger
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool, opts Options) InventoryService {
	opts = opts.withDefaults()
	return &inventoryService{
		pool:   pool,
		tx:     newTxRunner(pool, opts.MaxTxRetries, opts.Logger),
		audit:  opts.Audit,
		logger: opts.Logger.Named("inventory"),
	}
}

const itemColumns = `
	id, item_type, source_location, quantity, purchase_cost, retail_price,
	selling_price, discount_percentage, external_reference, status,
	created_by, created_at, updated_at`

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*InventoryItem, error) {
	var it InventoryItem
	err := row.Scan(
		&it.ID, &it.ItemType, &it.SourceLocation, &it.Quantity, &it.PurchaseCost, &it.RetailPrice,
		&it.SellingPrice, &it.DiscountPercentage, &it.ExternalReference, &it.Status,
		&it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) CreateItem(ctx context.Context, in NewItemInput) (*InventoryItem, error) {
	if err := validateItemFields(in.ItemType, in.PurchaseCost, in.SellingPrice, in.RetailPrice, in.DiscountPercentage); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: intake quantity must be at least 1, got %d", ErrInvalidItem, in.Quantity)
	}

	var item *InventoryItem
	err := s.tx.run(ctx, "create item", func(tx pgx.Tx) error {
		var err error
		item, err = scanItem(tx.QueryRow(ctx, `
			INSERT INTO inventory_items (item_type, source_location, quantity, purchase_cost, retail_price,
			                             selling_price, discount_percentage, external_reference, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'available', $9)
			RETURNING `+itemColumns,
			strings.TrimSpace(in.ItemType), in.SourceLocation, in.Quantity, in.PurchaseCost, in.RetailPrice,
			in.SellingPrice, in.DiscountPercentage, in.ExternalReference, in.ActorID,
		))
		if err != nil {
			return fmt.Errorf("failed to insert inventory item: %w", err)
		}
		return insertMovement(ctx, tx, item.ID, nil, MovementIntake, in.Quantity,
			fmt.Sprintf("Intake of %d × %s", in.Quantity, item.ItemType))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int("item_id", item.ID), zap.Int("quantity", item.Quantity))
	s.audit.Record(ctx, AuditEvent{
		Action: AuditItemCreated, EntityType: "inventory_item", EntityID: item.ID,
		ActorID: in.ActorID, NewState: item,
	})
	return item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, itemID int, in UpdateItemInput) (*InventoryItem, error) {
	if err := validateItemFields(in.ItemType, in.PurchaseCost, in.SellingPrice, in.RetailPrice, in.DiscountPercentage); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidItem, *in.Quantity)
	}

	var before, after *InventoryItem
	err := s.tx.run(ctx, "update item", func(tx pgx.Tx) error {
		var err error
		before, err = lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}

		quantity, status := before.Quantity, before.Status
		if in.Quantity != nil && *in.Quantity != before.Quantity {
			quantity = *in.Quantity
			status = statusAfterChange(before.Status, quantity)
			if err := insertMovement(ctx, tx, itemID, nil, MovementAdjustment, quantity-before.Quantity,
				fmt.Sprintf("Quantity adjusted from %d to %d", before.Quantity, quantity)); err != nil {
				return err
			}
		}

		after, err = scanItem(tx.QueryRow(ctx, `
			UPDATE inventory_items
			SET item_type = $1, source_location = $2, quantity = $3, purchase_cost = $4, retail_price = $5,
			    selling_price = $6, discount_percentage = $7, external_reference = $8, status = $9,
			    updated_at = NOW()
			WHERE id = $10
			RETURNING `+itemColumns,
			strings.TrimSpace(in.ItemType), in.SourceLocation, quantity, in.PurchaseCost, in.RetailPrice,
			in.SellingPrice, in.DiscountPercentage, in.ExternalReference, status, itemID,
		))
		if err != nil {
			return fmt.Errorf("failed to update inventory item %d: %w", itemID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEvent{
		Action: AuditItemUpdated, EntityType: "inventory_item", EntityID: itemID,
		ActorID: in.ActorID, OldState: before, NewState: after,
	})
	return after, nil
}

func (s *inventoryService) GetItem(ctx context.Context, itemID int) (*InventoryItem, error) {
	item, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("inventory item", itemID)
		}
		return nil, fmt.Errorf("failed to fetch inventory item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, status *ItemStatus) ([]InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY item_type, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetMovements(ctx context.Context, itemID int) ([]StockMovement, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, inventory_item_id, sale_id, movement_type, quantity, status_before, notes, created_at
		FROM stock_movements
		WHERE inventory_item_id = $1
		ORDER BY id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.InventoryItemID, &m.SaleID, &m.Type, &m.Quantity, &m.StatusBefore, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}
	return movements, nil
}

func (s *inventoryService) ReserveStock(ctx context.Context, itemID, quantity, actorID int) (*InventoryItem, error) {
	return s.adjustStandalone(ctx, itemID, -quantity, quantity, actorID)
}

func (s *inventoryService) ReleaseStock(ctx context.Context, itemID, quantity, actorID int) (*InventoryItem, error) {
	return s.adjustStandalone(ctx, itemID, quantity, quantity, actorID)
}

func (s *inventoryService) adjustStandalone(ctx context.Context, itemID, delta, quantity, actorID int) (*InventoryItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidLine, quantity)
	}

	var before, after *InventoryItem
	err := s.tx.run(ctx, "adjust stock", func(tx pgx.Tx) error {
		var err error
		before, err = lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if before.Quantity+delta < 0 {
			return &StockError{ItemID: itemID, ItemType: before.ItemType, Requested: quantity, Available: before.Quantity}
		}
		if err := insertMovement(ctx, tx, itemID, nil, MovementAdjustment, delta, "Manual stock adjustment"); err != nil {
			return err
		}
		after, err = applyDelta(ctx, tx, before, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEvent{
		Action: AuditItemUpdated, EntityType: "inventory_item", EntityID: itemID, ActorID: actorID,
		OldState: map[string]any{"quantity": before.Quantity, "status": before.Status},
		NewState: map[string]any{"quantity": after.Quantity, "status": after.Status},
	})
	return after, nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) ReserveStockTx(ctx context.Context, tx pgx.Tx, itemID, quantity, saleID int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidLine, quantity)
	}

	item, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if quantity > item.Quantity {
		return &StockError{ItemID: itemID, ItemType: item.ItemType, Requested: quantity, Available: item.Quantity}
	}

	if _, err := applyDelta(ctx, tx, item, -quantity); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (inventory_item_id, sale_id, movement_type, quantity, status_before, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, itemID, saleID, MovementSale, -quantity, item.Status,
		fmt.Sprintf("Sold %d × %s on sale %d", quantity, item.ItemType, saleID))
	if err != nil {
		return fmt.Errorf("failed to insert %s movement for item %d: %w", MovementSale, itemID, err)
	}
	return nil
}

func (s *inventoryService) ReleaseStockTx(ctx context.Context, tx pgx.Tx, itemID, quantity, saleID int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidLine, quantity)
	}

	item, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return err
	}

	// The partial unique index on (sale_id, inventory_item_id) rejects a second return.
	err = insertMovement(ctx, tx, itemID, &saleID, MovementVoidReturn, quantity,
		fmt.Sprintf("Returned %d × %s from voided sale %d", quantity, item.ItemType, saleID))
	if err != nil {
		if isUniqueViolation(err, "uq_stock_movements_void_return") {
			return fmt.Errorf("item %d, sale %d: %w", itemID, saleID, ErrAlreadyReleased)
		}
		return err
	}

	// The earliest SALE movement holds the status the item had before this sale.
	var prior *ItemStatus
	err = tx.QueryRow(ctx, `
		SELECT status_before FROM stock_movements
		WHERE sale_id = $1 AND inventory_item_id = $2 AND movement_type = 'SALE'
		ORDER BY id LIMIT 1
	`, saleID, itemID).Scan(&prior)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read sale movement for item %d: %w", itemID, err)
	}

	_, err = setStock(ctx, tx, item.ID, item.Quantity+quantity, statusAfterReturn(item.Status, prior, item.Quantity+quantity))
	return err
}

// ── helpers ───────────────────────────────────────────────────────────────────

// lockItem reads an item with a row lock held until the transaction ends.
func lockItem(ctx context.Context, tx pgx.Tx, itemID int) (*InventoryItem, error) {
	item, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("inventory item", itemID)
		}
		return nil, fmt.Errorf("failed to lock inventory item %d: %w", itemID, err)
	}
	return item, nil
}

// applyDelta writes quantity+delta and the status that follows from it.
// The caller has already checked the result is non-negative.
func applyDelta(ctx context.Context, tx pgx.Tx, item *InventoryItem, delta int) (*InventoryItem, error) {
	quantity := item.Quantity + delta
	return setStock(ctx, tx, item.ID, quantity, statusAfterChange(item.Status, quantity))
}

func setStock(ctx context.Context, tx pgx.Tx, itemID, quantity int, status ItemStatus) (*InventoryItem, error) {
	updated, err := scanItem(tx.QueryRow(ctx, `
		UPDATE inventory_items SET quantity = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+itemColumns, quantity, status, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to update stock for item %d: %w", itemID, err)
	}
	return updated, nil
}

// statusAfterChange applies the stock status rule: an item with no units
// left is sold, and a sold item that gets units back is available again.
// Reserved items keep their status while they still have stock.
func statusAfterChange(current ItemStatus, quantity int) ItemStatus {
	switch {
	case quantity == 0:
		return ItemSold
	case current == ItemSold:
		return ItemAvailable
	default:
		return current
	}
}

// statusAfterReturn is statusAfterChange for stock coming back from a void.
// An item the sale emptied goes back to the status recorded before the sale,
// so a reserved item is reserved again rather than available.
func statusAfterReturn(current ItemStatus, prior *ItemStatus, quantity int) ItemStatus {
	if current == ItemSold && quantity > 0 && prior != nil && *prior != ItemSold {
		return *prior
	}
	return statusAfterChange(current, quantity)
}

func insertMovement(ctx context.Context, q querier, itemID int, saleID *int, typ MovementType, quantity int, notes string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO stock_movements (inventory_item_id, sale_id, movement_type, quantity, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, itemID, saleID, typ, quantity, notes)
	if err != nil {
		return fmt.Errorf("failed to insert %s movement for item %d: %w", typ, itemID, err)
	}
	return nil
}
