package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesledger/internal/app"
	"salesledger/internal/core"
)

// ErrUsage is returned when the command line is malformed.
var ErrUsage = errors.New("usage")

const usage = `Available commands:
  stock [available|sold|reserved|all]
  sales [pending|received|voided|all]
  sale <id|invoice>
  void <id|invoice> <reason...>
  confirm <id|invoice> [proof-reference]
  reconcile
  adjust <item-id> <delta>
  valuation`

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, actorID int, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "stock", "inv":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListItems(ctx, status)
		if err != nil {
			return err
		}
		printItems(out, result.Items)

	case "sales":
		req := app.ListSalesRequest{}
		if len(args) > 1 {
			req.Status = args[1]
		}
		result, err := svc.ListSales(ctx, req)
		if err != nil {
			return err
		}
		printSales(out, result.Sales)

	case "sale", "show":
		if len(args) < 2 {
			return fmt.Errorf("%w: sale <id|invoice>", ErrUsage)
		}
		result, err := svc.GetSale(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(out, result.Sale)

	case "void":
		if len(args) < 3 {
			return fmt.Errorf("%w: void <id|invoice> <reason...>", ErrUsage)
		}
		result, err := svc.VoidSale(ctx, args[1], strings.Join(args[2:], " "), actorID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sale %s VOIDED. Stock returned for %d line(s).\n", result.Sale.InvoiceNumber, len(result.Sale.Lines))

	case "confirm":
		if len(args) < 2 {
			return fmt.Errorf("%w: confirm <id|invoice> [proof-reference]", ErrUsage)
		}
		req := app.ConfirmPaymentRequest{ActorID: actorID}
		if len(args) > 2 {
			req.ProofReference = args[2]
		}
		result, err := svc.ConfirmPayment(ctx, args[1], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Payment for %s RECEIVED (%s).\n", result.Sale.InvoiceNumber, result.Sale.FinalTotalPrice.StringFixed(2))

	case "reconcile", "rec":
		result, err := svc.Reconciliation(ctx)
		if err != nil {
			return err
		}
		printSales(out, result.PendingSales)
		fmt.Fprintf(out, "  %d pending, %s outstanding\n", result.PendingCount, result.PendingTotal.StringFixed(2))

	case "adjust":
		if len(args) < 3 {
			return fmt.Errorf("%w: adjust <item-id> <delta>", ErrUsage)
		}
		itemID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: item id must be a number", ErrUsage)
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: delta must be a signed integer", ErrUsage)
		}
		result, err := svc.AdjustStock(ctx, app.AdjustStockRequest{ItemID: itemID, Delta: delta, ActorID: actorID})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Item %d now has %d on hand (%s).\n", result.Item.ID, result.Item.Quantity, result.Item.Status)

	case "valuation", "val":
		result, err := svc.InventoryValuation(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, result)

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, args[0], usage)
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printItems(out io.Writer, items []core.InventoryItem) {
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %-6s %-30s %6s %-10s %12s %8s\n", "ID", "ITEM", "QTY", "STATUS", "PRICE", "DISC %")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, it := range items {
		fmt.Fprintf(out, "  %-6d %-30s %6d %-10s %12s %8s\n",
			it.ID, truncate(it.ItemType, 30), it.Quantity, it.Status,
			it.SellingPrice.StringFixed(2), it.DiscountPercentage.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printSales(out io.Writer, sales []core.Sale) {
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %-18s %-24s %-10s %-10s %12s\n", "INVOICE", "CUSTOMER", "METHOD", "STATUS", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	if len(sales) == 0 {
		fmt.Fprintln(out, "  No sales found.")
	}
	for _, s := range sales {
		fmt.Fprintf(out, "  %-18s %-24s %-10s %-10s %12s\n",
			s.InvoiceNumber, truncate(s.CustomerName, 24), s.PaymentMethod, s.PaymentStatus, s.FinalTotalPrice.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
