package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesledger/internal/app"

	"github.com/shopspring/decimal"
)

func prompt(reader *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	s, _ := reader.ReadString('\n')
	return strings.TrimSpace(s)
}

// handleNewSale runs an interactive sale entry session. With no customer id
// argument the operator is asked for a new customer's name.
func handleNewSale(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService, actorID int, args []string) {
	req := app.CreateSaleRequest{ActorID: actorID}
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			fmt.Fprintf(out, "Invalid customer id: %s\n", args[0])
			return
		}
		req.CustomerID = id
	} else {
		name := prompt(reader, out, "New customer name: ")
		if name == "" {
			fmt.Fprintln(out, "Sale entry cancelled.")
			return
		}
		req.NewCustomer = &app.CreateCustomerRequest{
			Name:  name,
			Email: prompt(reader, out, "Email (optional): "),
			Phone: prompt(reader, out, "Phone (optional): "),
		}
	}

	fmt.Fprintln(out, "Enter sale lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(out, "Format per line: <item-id> <quantity> [unit-price] [discount-%]")
	fmt.Fprintln(out, "  Example: 12 2")
	fmt.Fprintln(out, "  Example: 12 1 45.00 10   (overrides the item's price and discount)")

	lineNum := 1
	for {
		raw := prompt(reader, out, fmt.Sprintf("  Line %d: ", lineNum))
		switch strings.ToLower(raw) {
		case "cancel":
			fmt.Fprintln(out, "Sale entry cancelled.")
			return
		case "done":
		case "":
			continue
		default:
			line, err := parseLine(raw)
			if err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			req.Lines = append(req.Lines, line)
			lineNum++
			continue
		}
		break
	}

	if len(req.Lines) == 0 {
		fmt.Fprintln(out, "No lines entered. Sale not created.")
		return
	}

	req.PaymentMethod = strings.ToLower(prompt(reader, out, "Payment method (cash, check, card, transfer, zelle): "))
	req.PaymentReceiver = prompt(reader, out, "Received by: ")
	req.Notes = prompt(reader, out, "Notes (optional): ")

	result, err := svc.CreateSale(ctx, req)
	if err != nil {
		fmt.Fprintf(out, "Error creating sale: %v\n", err)
		return
	}

	fmt.Fprintf(out, "\nSale recorded. Invoice %s, status PENDING.\n", result.Sale.InvoiceNumber)
	printSaleDetail(out, result.Sale)
	fmt.Fprintf(out, "Use '/confirm %s' once payment arrives.\n", result.Sale.InvoiceNumber)
}

// parseLine reads "<item-id> <quantity> [unit-price] [discount-%]".
func parseLine(raw string) (app.SaleLineRequest, error) {
	parts := strings.Fields(raw)
	if len(parts) < 2 || len(parts) > 4 {
		return app.SaleLineRequest{}, fmt.Errorf("invalid format, use: <item-id> <quantity> [unit-price] [discount-%%]")
	}
	itemID, err := strconv.Atoi(parts[0])
	if err != nil || itemID <= 0 {
		return app.SaleLineRequest{}, fmt.Errorf("invalid item id %q", parts[0])
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return app.SaleLineRequest{}, fmt.Errorf("invalid quantity %q", parts[1])
	}
	line := app.SaleLineRequest{ItemID: itemID, Quantity: qty}
	if len(parts) >= 3 {
		price, err := decimal.NewFromString(parts[2])
		if err != nil || price.IsNegative() {
			return app.SaleLineRequest{}, fmt.Errorf("invalid price %q", parts[2])
		}
		line.UnitPrice = &price
	}
	if len(parts) == 4 {
		disc, err := decimal.NewFromString(parts[3])
		if err != nil {
			return app.SaleLineRequest{}, fmt.Errorf("invalid discount %q", parts[3])
		}
		line.DiscountPercentage = &disc
	}
	return line, nil
}
