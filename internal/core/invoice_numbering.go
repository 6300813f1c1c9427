package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	invoicePrefix = "INV"
	invoiceLayout = "20060102"

	// invoiceLockSpace namespaces the per-day advisory lock keys ("INV").
	invoiceLockSpace int64 = 0x494E56
)

// sequenceQuerier is the subset of pgx.Tx the numbering service needs.
type sequenceQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NextInvoiceNumberTx allocates the next invoice number for date's calendar day.
// It must run inside the transaction that inserts the sale: the advisory lock
// is held until that transaction ends, so two concurrent sales on the same
// day cannot read the same highest sequence.
func NextInvoiceNumberTx(ctx context.Context, q sequenceQuerier, date time.Time) (string, error) {
	day := date.Format(invoiceLayout)
	dayKey, _ := strconv.ParseInt(day, 10, 64)

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", invoiceLockSpace<<32|dayKey); err != nil {
		return "", fmt.Errorf("failed to lock invoice sequence for %s: %w", day, err)
	}

	var last int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(split_part(invoice_number, '-', 2) AS INTEGER)), 0)
		FROM sales
		WHERE invoice_number LIKE $1
	`, invoicePrefix+day+"-%").Scan(&last)
	if err != nil {
		return "", fmt.Errorf("failed to read invoice sequence for %s: %w", day, err)
	}

	return FormatInvoiceNumber(date, last+1), nil
}

// FormatInvoiceNumber renders INV{YYYYMMDD}-{NNNN}.
func FormatInvoiceNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%04d", invoicePrefix, date.Format(invoiceLayout), seq)
}

// ParseInvoiceNumber splits an invoice number into its day and sequence.
func ParseInvoiceNumber(number string) (time.Time, int, error) {
	head, tail, ok := strings.Cut(number, "-")
	if !ok || !strings.HasPrefix(head, invoicePrefix) {
		return time.Time{}, 0, fmt.Errorf("malformed invoice number %q", number)
	}
	day, err := time.Parse(invoiceLayout, strings.TrimPrefix(head, invoicePrefix))
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed invoice date in %q: %w", number, err)
	}
	seq, err := strconv.Atoi(tail)
	if err != nil || seq < 1 {
		return time.Time{}, 0, fmt.Errorf("malformed invoice sequence in %q", number)
	}
	return day, seq, nil
}

// LooksLikeInvoiceNumber reports whether ref has the invoice number shape.
func LooksLikeInvoiceNumber(ref string) bool {
	_, _, err := ParseInvoiceNumber(ref)
	return err == nil
}
