package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(desc, qty, rate string) entity.InvoiceItem {
	return entity.InvoiceItem{Description: desc, Quantity: dec(qty), Rate: dec(rate)}
}

// ──────────────────────────────────────────────────────────────────────────────
// CalculateTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateTotals_Identidades(t *testing.T) {
	cases := []struct {
		name    string
		items   []entity.InvoiceItem
		taxRate string
	}{
		{"un ítem", []entity.InvoiceItem{item("Widget", "2", "10.00")}, "10"},
		{"varios ítems", []entity.InvoiceItem{item("A", "3", "19.99"), item("B", "1", "0.01"), item("C", "7", "1250")}, "19"},
		{"tasa decimal", []entity.InvoiceItem{item("A", "1.5", "33.33")}, "7.25"},
		{"tasa máxima", []entity.InvoiceItem{item("A", "1", "100")}, "100"},
		{"tasa cero", []entity.InvoiceItem{item("A", "4", "2.5")}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate := dec(tc.taxRate)
			got := invoice.CalculateTotals(tc.items, rate)

			sum := decimal.Zero
			for _, it := range tc.items {
				sum = sum.Add(it.Quantity.Mul(it.Rate))
			}
			assert.True(t, sum.Equal(got.Subtotal), "subtotal = Σ quantity*rate")
			assert.True(t, got.Subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Equal(got.TaxAmount), "taxAmount = subtotal*taxRate/100")
			assert.True(t, got.Subtotal.Add(got.TaxAmount).Equal(got.Total), "total = subtotal + taxAmount")
		})
	}
}

func TestCalculateTotals_EscenarioWidget(t *testing.T) {
	got := invoice.CalculateTotals([]entity.InvoiceItem{item("Widget", "2", "10.00")}, dec("10"))

	assert.Equal(t, "20.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "2.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "22.00", got.Total.StringFixed(2))
}

func TestCalculateTotals_TasaCeroNoGeneraImpuesto(t *testing.T) {
	got := invoice.CalculateTotals([]entity.InvoiceItem{item("A", "3", "12.40")}, decimal.Zero)

	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.Total.Equal(got.Subtotal))
}

// El Amount almacenado se ignora: los totales salen siempre de quantity*rate.
func TestCalculateTotals_IgnoraAmountDesactualizado(t *testing.T) {
	stale := item("A", "2", "5")
	stale.Amount = dec("999")

	got := invoice.CalculateTotals([]entity.InvoiceItem{stale}, decimal.Zero)
	assert.Equal(t, "10", got.Subtotal.String())
}

func TestLineAmount_CantidadUnoTarifaCero(t *testing.T) {
	assert.True(t, invoice.LineAmount(dec("1"), decimal.Zero).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyTotals_RefrescaItemsYTotales(t *testing.T) {
	inv := &entity.Invoice{
		Items:   []entity.InvoiceItem{item("A", "2", "10"), item("B", "3", "1.5")},
		TaxRate: dec("10"),
	}
	inv.Items[0].Amount = dec("1")

	invoice.ApplyTotals(inv)

	assert.Equal(t, "20", inv.Items[0].Amount.String())
	assert.Equal(t, "4.5", inv.Items[1].Amount.String())
	assert.Equal(t, "24.50", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "2.45", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "26.95", inv.Total.StringFixed(2))
}

func TestApplyTotals_NilNoPanica(t *testing.T) {
	assert.NotPanics(t, func() { invoice.ApplyTotals(nil) })
}
