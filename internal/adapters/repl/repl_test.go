package repl

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"salesledger/internal/app"
	"salesledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	app.ApplicationService

	created *app.CreateSaleRequest
	voided  string
}

func (f *fakeApp) CreateSale(_ context.Context, req app.CreateSaleRequest) (*app.SaleResult, error) {
	f.created = &req
	return &app.SaleResult{Sale: &core.Sale{
		InvoiceNumber: "INV20260314-0003",
		CustomerName:  "Dana",
		Lines: []core.SaleLine{{
			LineNumber: 1, ItemType: "Widget", Quantity: 2,
			UnitPrice: decimal.RequireFromString("5"), FinalLineTotal: decimal.RequireFromString("10"),
		}},
		TotalSalePrice:  decimal.RequireFromString("10"),
		FinalTotalPrice: decimal.RequireFromString("10"),
	}}, nil
}

func (f *fakeApp) VoidSale(_ context.Context, ref, reason string, actorID int) (*app.SaleResult, error) {
	f.voided = ref + ":" + reason
	return nil, core.ErrAlreadyVoided
}

func run(t *testing.T, f *fakeApp, input string) string {
	t.Helper()
	var out bytes.Buffer
	Run(context.Background(), f, bufio.NewReader(strings.NewReader(input)), &out, 9)
	return out.String()
}

func TestNewSaleWizard(t *testing.T) {
	f := &fakeApp{}
	input := strings.Join([]string{
		"/new-sale",
		"Dana",
		"dana@example.com",
		"",
		"1 2",
		"bad line",
		"2 1 4.50 10",
		"done",
		"cash",
		"Front desk",
		"",
		"/exit",
	}, "\n") + "\n"

	out := run(t, f, input)

	require.NotNil(t, f.created)
	assert.Equal(t, 9, f.created.ActorID)
	require.NotNil(t, f.created.NewCustomer)
	assert.Equal(t, "Dana", f.created.NewCustomer.Name)
	require.Len(t, f.created.Lines, 2)
	assert.Nil(t, f.created.Lines[0].UnitPrice)
	require.NotNil(t, f.created.Lines[1].DiscountPercentage)
	assert.True(t, f.created.Lines[1].DiscountPercentage.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "cash", f.created.PaymentMethod)
	assert.Contains(t, out, "Invoice INV20260314-0003")
	assert.Contains(t, out, "Goodbye!")
}

func TestNewSaleWizard_Cancel(t *testing.T) {
	f := &fakeApp{}
	out := run(t, f, "/new-sale 4\n1 1\ncancel\n/q\n")
	assert.Nil(t, f.created)
	assert.Contains(t, out, "Sale entry cancelled.")
}

func TestVoidErrorIsReported(t *testing.T) {
	f := &fakeApp{}
	out := run(t, f, "/void INV20260314-0001 duplicate entry\n")
	assert.Equal(t, "INV20260314-0001:duplicate entry", f.voided)
	assert.Contains(t, out, "Error: sale is already voided")
}

func TestNonCommandInput(t *testing.T) {
	out := run(t, &fakeApp{}, "sell me a widget\n/unknown\n")
	assert.Contains(t, out, "Commands start with '/'")
	assert.Contains(t, out, "Unknown command: /unknown")
}

func TestParseLine(t *testing.T) {
	line, err := parseLine("12 3 9.99")
	require.NoError(t, err)
	assert.Equal(t, 12, line.ItemID)
	assert.Equal(t, 3, line.Quantity)
	require.NotNil(t, line.UnitPrice)
	assert.Equal(t, "9.99", line.UnitPrice.String())
	assert.Nil(t, line.DiscountPercentage)

	for _, bad := range []string{"12", "x 1", "12 0", "12 1 -3", "12 1 5 abc", "1 2 3 4 5"} {
		_, err := parseLine(bad)
		assert.Error(t, err, bad)
	}
}
