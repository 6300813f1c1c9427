package repl

import (
	"fmt"
	"io"
	"strings"

	"salesledger/internal/app"
	"salesledger/internal/core"
)

func printItems(out io.Writer, result *app.ItemListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "  %-6s %-28s %-14s %6s %-10s %10s\n", "ID", "ITEM", "SOURCE", "QTY", "STATUS", "PRICE")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	if len(result.Items) == 0 {
		fmt.Fprintln(out, "  No items found.")
	}
	for _, it := range result.Items {
		fmt.Fprintf(out, "  %-6d %-28s %-14s %6d %-10s %10s\n",
			it.ID, it.ItemType, it.SourceLocation, it.Quantity, it.Status, it.SellingPrice.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
}

func printCustomers(out io.Writer, result *app.CustomerListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "  %-6s %-28s %-22s %s\n", "ID", "NAME", "EMAIL", "PHONE")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	if len(result.Customers) == 0 {
		fmt.Fprintln(out, "  No customers found.")
	}
	for _, c := range result.Customers {
		fmt.Fprintf(out, "  %-6d %-28s %-22s %s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
}

func printSales(out io.Writer, sales []core.Sale) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "  %-18s %-12s %-22s %-9s %-9s %10s\n", "INVOICE", "DATE", "CUSTOMER", "METHOD", "STATUS", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	if len(sales) == 0 {
		fmt.Fprintln(out, "  No sales found.")
	}
	for _, s := range sales {
		fmt.Fprintf(out, "  %-18s %-12s %-22s %-9s %-9s %10s\n",
			s.InvoiceNumber, s.SaleDate.Format("2006-01-02"), s.CustomerName,
			s.PaymentMethod, s.PaymentStatus, s.FinalTotalPrice.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
}

func printSaleDetail(out io.Writer, s *core.Sale) {
	fmt.Fprintf(out, "\nInvoice  : %s\n", s.InvoiceNumber)
	fmt.Fprintf(out, "Date     : %s\n", s.SaleDate.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Customer : %s (id %d)\n", s.CustomerName, s.CustomerID)
	fmt.Fprintf(out, "Payment  : %s to %s [%s]\n", s.PaymentMethod, s.PaymentReceiver, s.PaymentStatus)
	if s.VoidReason != "" {
		fmt.Fprintf(out, "Voided   : %s\n", s.VoidReason)
	}
	fmt.Fprintln(out, strings.Repeat("-", 76))
	fmt.Fprintf(out, "  %-3s %-28s %5s %10s %7s %12s\n", "#", "ITEM", "QTY", "PRICE", "DISC %", "TOTAL")
	for _, l := range s.Lines {
		fmt.Fprintf(out, "  %-3d %-28s %5d %10s %7s %12s\n",
			l.LineNumber, l.ItemType, l.Quantity, l.UnitPrice.StringFixed(2),
			l.DiscountPercentage.StringFixed(2), l.FinalLineTotal.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("-", 76))
	fmt.Fprintf(out, "  %-60s %12s\n", "Subtotal", s.TotalSalePrice.StringFixed(2))
	fmt.Fprintf(out, "  %-60s %12s\n", "Discount", s.TotalDiscountAmount.Neg().StringFixed(2))
	fmt.Fprintf(out, "  %-60s %12s\n", "TOTAL", s.FinalTotalPrice.StringFixed(2))
	if s.Notes != "" {
		fmt.Fprintf(out, "\nNotes:\n%s\n", s.Notes)
	}
}

func printDashboard(out io.Writer, d *app.DashboardResult) {
	fmt.Fprintf(out, "\nAvailable items: %d   Sales: %d   Pending payment: %d\n",
		d.AvailableItems, d.TotalSales, d.PendingSales)
	printSales(out, d.RecentSales)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `
Inventory
  /stock [status]                         list items (available, sold, reserved, all)
  /receive <qty> <cost> <price> <type...> record an intake
  /adjust <item-id> <delta>               take out (-) or put back (+) stock

Sales
  /new-sale [customer-id]                 record a multi-item sale
  /sales [status]                         list sales (pending, received, voided)
  /sale <id|invoice>                      show one sale with its lines
  /void <id|invoice> <reason...>          void a sale and return its stock
  /confirm <id|invoice> [proof-ref]       mark a pending sale as received
  /reconcile                              pending sales awaiting payment

Other
  /customers, /dashboard, /help, /exit`)
}
