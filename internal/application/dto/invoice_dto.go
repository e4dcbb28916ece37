package dto

import (
	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

// DefaultsResponse borrador inicial del formulario y opciones disponibles.
type DefaultsResponse struct {
	Draft        *billing.InvoiceDraft `json:"draft"`
	PaymentTerms []string              `json:"payment_terms"`
	Formats      []string              `json:"formats"`
}

// TotalsResponse totales con dos decimales, listos para mostrar.
type TotalsResponse struct {
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"tax_amount"`
	Total     string `json:"total"`
}

// NewTotalsResponse formatea los totales.
func NewTotalsResponse(t invoice.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:  t.Subtotal.StringFixed(2),
		TaxAmount: t.TaxAmount.StringFixed(2),
		Total:     t.Total.StringFixed(2),
	}
}

// ValidationResponse respuesta de POST /api/invoices/validate cuando el borrador es válido.
type ValidationResponse struct {
	Valid         bool           `json:"valid"`
	InvoiceNumber string         `json:"invoice_number"`
	Totals        TotalsResponse `json:"totals"`
}

// ArchiveResponse respuesta de POST /api/invoices/archive.
type ArchiveResponse struct {
	InvoiceNumber string         `json:"invoice_number"`
	Format        string         `json:"format"`
	Filename      string         `json:"filename"`
	Location      string         `json:"location"`
	Size          int            `json:"size"`
	Digest        string         `json:"digest"`
	Totals        TotalsResponse `json:"totals"`
}

// NewArchiveResponse arma la respuesta a partir del resultado del caso de uso.
func NewArchiveResponse(r *billing.GenerateResult) ArchiveResponse {
	return ArchiveResponse{
		InvoiceNumber: r.InvoiceNumber,
		Format:        string(r.Format),
		Filename:      r.Filename,
		Location:      r.Receipt.Location,
		Size:          r.Receipt.Size,
		Digest:        r.Digest,
		Totals:        NewTotalsResponse(r.Totals),
	}
}
