package pdf

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

// Options parámetros de presentación comunes a todos los motores.
type Options struct {
	Locale         string // BCP 47; define el formato corto de fecha
	CurrencySymbol string // por defecto "$"
	Compress       bool   // compresión de streams PDF
}

func (o Options) withDefaults() Options {
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = "$"
	}
	if o.Locale == "" {
		o.Locale = "en-US"
	}
	return o
}

// Layout contenido textual del documento, de arriba a abajo. Es el paso puro
// que comparten los motores: cada motor solo decide cómo pintarlo.
type Layout struct {
	Title      string
	HeaderInfo []string // alineado a la derecha: número, fecha, vencimiento
	From       AddressBlock
	To         AddressBlock
	Table      ItemsTable
	Totals     []TotalLine
	Footer     Footer
}

// AddressBlock bloque "From:" / "To:".
type AddressBlock struct {
	Heading string
	Lines   []string
}

// ItemsTable tabla de ítems: una fila de cabecera y una por ítem, en orden.
type ItemsTable struct {
	Headers [4]string
	Rows    [][4]string
}

// TotalLine fila del bloque de totales. Emphasized marca el total general.
type TotalLine struct {
	Label      string
	Value      string
	Emphasized bool
}

// Footer condiciones de pago y, opcionalmente, notas.
type Footer struct {
	PaymentTerms string
	NotesHeading string // vacío si la factura no tiene notas
	Notes        []string
}

// Columnas de la tabla de ítems.
var itemHeaders = [4]string{"Description", "Qty", "Rate", "Amount"}

// BuildLayout arma el contenido del documento a partir de una factura válida.
func BuildLayout(inv *entity.Invoice, opts Options) Layout {
	opts = opts.withDefaults()
	dateLayout := DateLayout(opts.Locale)
	money := func(d decimal.Decimal) string { return opts.CurrencySymbol + d.StringFixed(2) }

	l := Layout{
		Title: "INVOICE",
		HeaderInfo: []string{
			"Invoice #: " + inv.InvoiceNumber,
			"Date: " + formatDate(inv.InvoiceDate, dateLayout),
			"Due Date: " + formatDate(inv.DueDate, dateLayout),
		},
		From:  addressBlock("From:", inv.From),
		To:    addressBlock("To:", inv.To),
		Table: ItemsTable{Headers: itemHeaders, Rows: make([][4]string, 0, len(inv.Items))},
		Totals: []TotalLine{
			{Label: "Subtotal:", Value: money(inv.Subtotal)},
			{Label: "Tax (" + inv.TaxRate.String() + "%):", Value: money(inv.TaxAmount)},
			{Label: "Total:", Value: money(inv.Total), Emphasized: true},
		},
		Footer: Footer{PaymentTerms: "Payment Terms: " + inv.PaymentTerms},
	}

	for _, it := range inv.Items {
		l.Table.Rows = append(l.Table.Rows, [4]string{
			it.Description,
			it.Quantity.String(),
			money(it.Rate),
			money(it.Amount),
		})
	}

	if inv.HasNotes() {
		l.Footer.NotesHeading = "Notes:"
		l.Footer.Notes = splitLines(inv.Notes)
	}
	return l
}

func addressBlock(heading string, p entity.Party) AddressBlock {
	return AddressBlock{
		Heading: heading,
		Lines: []string{
			p.Name,
			p.Email,
			p.Address,
			p.City + ", " + p.State + " " + p.Zip,
		},
	}
}

// Lines aplana el layout a líneas de texto. Dos renders de la misma factura
// producen exactamente las mismas líneas.
func (l Layout) Lines() []string {
	out := []string{l.Title}
	out = append(out, l.HeaderInfo...)
	out = append(out, l.From.Heading)
	out = append(out, l.From.Lines...)
	out = append(out, l.To.Heading)
	out = append(out, l.To.Lines...)
	out = append(out, strings.Join(l.Table.Headers[:], " | "))
	for _, r := range l.Table.Rows {
		out = append(out, strings.Join(r[:], " | "))
	}
	for _, t := range l.Totals {
		out = append(out, t.Label+" "+t.Value)
	}
	out = append(out, l.Footer.PaymentTerms)
	if l.Footer.NotesHeading != "" {
		out = append(out, l.Footer.NotesHeading)
		out = append(out, l.Footer.Notes...)
	}
	return out
}

// Text devuelve Lines unidas por saltos de línea.
func (l Layout) Text() string {
	return strings.Join(l.Lines(), "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
	return strings.Split(s, "\n")
}
