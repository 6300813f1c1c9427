package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesledger/internal/app"

	"github.com/shopspring/decimal"
)

var errExit = errors.New("exit")

// Run starts the interactive sales desk loop. Every line starting with "/" is
// a command; actorID is recorded as the operator on every write.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, actorID int) {
	fmt.Fprintln(out, "Sales Ledger")
	fmt.Fprintln(out, "Record sales, void them, and reconcile payments. Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	dispatch := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "stock", "inv":
			status := ""
			if len(args) > 0 {
				status = args[0]
			}
			result, err := svc.ListItems(ctx, status)
			if err != nil {
				return err
			}
			printItems(out, result)

		case "customers":
			result, err := svc.ListCustomers(ctx)
			if err != nil {
				return err
			}
			printCustomers(out, result)

		case "sales":
			req := app.ListSalesRequest{Limit: 50}
			if len(args) > 0 {
				req.Status = args[0]
			}
			result, err := svc.ListSales(ctx, req)
			if err != nil {
				return err
			}
			printSales(out, result.Sales)

		case "sale", "show":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /sale <id|invoice>")
				return nil
			}
			result, err := svc.GetSale(ctx, args[0])
			if err != nil {
				return err
			}
			printSaleDetail(out, result.Sale)

		case "new-sale", "sell":
			handleNewSale(ctx, reader, out, svc, actorID, args)

		case "receive":
			// /receive <qty> <unit-cost> <selling-price> <item type...>
			if len(args) < 4 {
				fmt.Fprintln(out, "Usage: /receive <qty> <unit-cost> <selling-price> <item type...>")
				return nil
			}
			qty, err := strconv.Atoi(args[0])
			if err != nil || qty < 0 {
				fmt.Fprintf(out, "Invalid quantity: %s\n", args[0])
				return nil
			}
			cost, err := decimal.NewFromString(args[1])
			if err != nil {
				fmt.Fprintf(out, "Invalid unit cost: %s\n", args[1])
				return nil
			}
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				fmt.Fprintf(out, "Invalid selling price: %s\n", args[2])
				return nil
			}
			result, err := svc.CreateItem(ctx, app.CreateItemRequest{
				ItemType:     strings.Join(args[3:], " "),
				Quantity:     qty,
				PurchaseCost: cost,
				SellingPrice: price,
				ActorID:      actorID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Received %d x %s (item %d) @ %s.\n",
				result.Item.Quantity, result.Item.ItemType, result.Item.ID, result.Item.SellingPrice.StringFixed(2))

		case "adjust":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /adjust <item-id> <delta>")
				return nil
			}
			itemID, err1 := strconv.Atoi(args[0])
			delta, err2 := strconv.Atoi(args[1])
			if err1 != nil || err2 != nil {
				fmt.Fprintln(out, "Item id and delta must be integers.")
				return nil
			}
			result, err := svc.AdjustStock(ctx, app.AdjustStockRequest{ItemID: itemID, Delta: delta, ActorID: actorID})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Item %d now has %d on hand (%s).\n", result.Item.ID, result.Item.Quantity, result.Item.Status)

		case "void":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /void <id|invoice> <reason...>")
				return nil
			}
			result, err := svc.VoidSale(ctx, args[0], strings.Join(args[1:], " "), actorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Sale %s VOIDED. Stock returned.\n", result.Sale.InvoiceNumber)

		case "confirm":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /confirm <id|invoice> [proof-reference]")
				return nil
			}
			req := app.ConfirmPaymentRequest{ActorID: actorID}
			if len(args) > 1 {
				req.ProofReference = args[1]
			}
			result, err := svc.ConfirmPayment(ctx, args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Payment for %s RECEIVED.\n", result.Sale.InvoiceNumber)

		case "reconcile", "rec":
			result, err := svc.Reconciliation(ctx)
			if err != nil {
				return err
			}
			printSales(out, result.PendingSales)
			fmt.Fprintf(out, "  %d pending, %s outstanding\n", result.PendingCount, result.PendingTotal.StringFixed(2))

		case "dashboard", "dash":
			result, err := svc.Dashboard(ctx)
			if err != nil {
				return err
			}
			printDashboard(out, result)

		case "help", "h":
			printHelp(out)

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if derr := dispatch(input); derr != nil {
			if errors.Is(derr, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", derr)
		}
		if err != nil {
			return
		}
	}
}
