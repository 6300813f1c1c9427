package core

import (
	"context"
	"fmt"
)

// IntegrityIssue is one inconsistency found by CheckIntegrity.
type IntegrityIssue struct {
	Check    string `json:"check"`
	EntityID int    `json:"entity_id"`
	Detail   string `json:"detail"`
}

// Integrity check names.
const (
	CheckJournalMismatch  = "journal_mismatch"
	CheckStatusMismatch   = "status_mismatch"
	CheckMissingReturn    = "missing_void_return"
	CheckUnexpectedReturn = "unexpected_void_return"
	CheckTotalsMismatch   = "totals_mismatch"
	CheckLineMismatch     = "line_mismatch"
)

type integrityCheck struct {
	name  string
	query string
}

// Each query returns (entity id, detail) for every offending row.
var integrityChecks = []integrityCheck{
	{
		// Items created before the movement journal existed have no INTAKE row
		// and cannot be reconciled against it.
		name: CheckJournalMismatch,
		query: `
			SELECT i.id, format('quantity %s, journal sum %s', i.quantity, SUM(m.quantity))
			FROM inventory_items i
			JOIN stock_movements m ON m.inventory_item_id = i.id
			WHERE EXISTS (SELECT 1 FROM stock_movements x
			              WHERE x.inventory_item_id = i.id AND x.movement_type = 'INTAKE')
			GROUP BY i.id, i.quantity
			HAVING SUM(m.quantity) <> i.quantity
			ORDER BY i.id`,
	},
	{
		name: CheckStatusMismatch,
		query: `
			SELECT id, format('status %s with quantity %s', status, quantity)
			FROM inventory_items
			WHERE (quantity = 0 AND status = 'available')
			   OR (quantity > 0 AND status = 'sold')
			ORDER BY id`,
	},
	{
		name: CheckMissingReturn,
		query: `
			SELECT DISTINCT s.id, format('item %s not returned', l.inventory_item_id)
			FROM sales s
			JOIN sale_lines l ON l.sale_id = s.id
			WHERE s.payment_status = 'voided'
			  AND EXISTS (SELECT 1 FROM stock_movements r
			              WHERE r.sale_id = s.id AND r.movement_type = 'SALE')
			  AND NOT EXISTS (SELECT 1 FROM stock_movements r
			                  WHERE r.sale_id = s.id
			                    AND r.inventory_item_id = l.inventory_item_id
			                    AND r.movement_type = 'VOID_RETURN')
			ORDER BY s.id`,
	},
	{
		name: CheckUnexpectedReturn,
		query: `
			SELECT s.id, format('%s sale has %s stock return(s)', s.payment_status, COUNT(*))
			FROM sales s
			JOIN stock_movements r ON r.sale_id = s.id AND r.movement_type = 'VOID_RETURN'
			WHERE s.payment_status <> 'voided'
			GROUP BY s.id, s.payment_status
			ORDER BY s.id`,
	},
	{
		name: CheckLineMismatch,
		query: `
			SELECT sale_id, format('line %s: %s × %s priced at %s', line_number, quantity, unit_price, line_total)
			FROM sale_lines
			WHERE line_total <> quantity * unit_price
			   OR final_line_total <> line_total - discount_amount
			ORDER BY sale_id, line_number`,
	},
	{
		name: CheckTotalsMismatch,
		query: `
			SELECT s.id, format('final total %s, lines sum %s', s.final_total_price, SUM(l.final_line_total))
			FROM sales s
			JOIN sale_lines l ON l.sale_id = s.id
			GROUP BY s.id, s.final_total_price
			HAVING SUM(l.final_line_total) <> s.final_total_price
			ORDER BY s.id`,
	},
}

// CheckIntegrity scans the ledger for stock and totals inconsistencies. An
// empty result means every check passed.
func CheckIntegrity(ctx context.Context, q querier) ([]IntegrityIssue, error) {
	var issues []IntegrityIssue
	for _, c := range integrityChecks {
		rows, err := q.Query(ctx, c.query)
		if err != nil {
			return nil, fmt.Errorf("integrity check %s: %w", c.name, err)
		}
		for rows.Next() {
			issue := IntegrityIssue{Check: c.name}
			if err := rows.Scan(&issue.EntityID, &issue.Detail); err != nil {
				rows.Close()
				return nil, fmt.Errorf("integrity check %s: %w", c.name, err)
			}
			issues = append(issues, issue)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("integrity check %s: %w", c.name, err)
		}
	}
	return issues, nil
}
