package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condiciones de pago ofrecidas por defecto en el formulario. El modelo acepta
// cualquier texto no vacío; esta lista es solo la sugerencia inicial.
const (
	PaymentTermsNet15        = "Net 15"
	PaymentTermsNet30        = "Net 30"
	PaymentTermsNet60        = "Net 60"
	PaymentTermsDueOnReceipt = "Due on Receipt"
)

// DefaultPaymentTerms lista de condiciones sugeridas, en el orden del formulario.
var DefaultPaymentTerms = []string{
	PaymentTermsNet15,
	PaymentTermsNet30,
	PaymentTermsNet60,
	PaymentTermsDueOnReceipt,
}

// Party bloque de datos de una de las partes (emisor o cliente).
type Party struct {
	Name    string
	Email   string
	Address string
	City    string
	State   string
	Zip     string
}

// InvoiceItem representa una línea facturable.
// Amount es un valor derivado: siempre Quantity * Rate.
type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Invoice representa la factura completa con sus totales derivados.
// InvoiceDate y DueDate son fechas de calendario (medianoche UTC, sin zona).
type Invoice struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       time.Time
	From          Party
	To            Party
	Items         []InvoiceItem
	TaxRate       decimal.Decimal // porcentaje 0..100
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	PaymentTerms  string
	Notes         string
}

// HasNotes indica si la factura lleva bloque de notas.
func (i *Invoice) HasNotes() bool {
	for _, r := range i.Notes {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
