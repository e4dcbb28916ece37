// Package invoice contiene las reglas de dominio de la factura: cálculo de
// totales derivados, fechas de calendario y validación exhaustiva.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agrupa los tres valores derivados de una factura.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// LineAmount = Quantity * Rate.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}

// CalculateTotals recalcula los totales desde cantidad y tarifa de cada ítem.
// No confía en Amount almacenado: puede estar desactualizado durante la edición.
//
//	Subtotal  = Σ Quantity*Rate
//	TaxAmount = Subtotal * TaxRate / 100
//	Total     = Subtotal + TaxAmount
func CalculateTotals(items []entity.InvoiceItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineAmount(it.Quantity, it.Rate))
	}
	tax := subtotal.Mul(taxRate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// ApplyTotals refresca en un solo paso el Amount de cada ítem y los totales de
// la factura. Debe llamarse después de cualquier cambio en ítems o TaxRate.
func ApplyTotals(inv *entity.Invoice) {
	if inv == nil {
		return
	}
	for i := range inv.Items {
		inv.Items[i].Amount = LineAmount(inv.Items[i].Quantity, inv.Items[i].Rate)
	}
	t := CalculateTotals(inv.Items, inv.TaxRate)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}
