package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

// Medidas de la página en mm (A4 con márgenes de 15).
const (
	pageMargin   = 15.0
	contentWidth = 210.0 - 2*pageMargin
)

// Anchos de la tabla de ítems en mm.
var gofpdfColWidths = [4]float64{90, 25, 30, 35}

// GofpdfGenerator motor alternativo basado en gofpdf. Pinta el mismo Layout
// que MarotoPDFGenerator con primitivas de celda.
type GofpdfGenerator struct {
	opts Options
}

// NewGofpdfGenerator construye el generador.
func NewGofpdfGenerator(opts Options) *GofpdfGenerator {
	return &GofpdfGenerator{opts: opts.withDefaults()}
}

// Render implementa billing.InvoiceRenderer.
func (g *GofpdfGenerator) Render(ctx context.Context, inv *entity.Invoice) (*billing.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := BuildLayout(inv, g.opts)
	if err := checkCharset(l); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.opts.Compress)
	pdf.SetCreationDate(inv.InvoiceDate)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Invoice "+inv.InvoiceNumber), false)
	pdf.SetAuthor(tr(inv.From.Name), false)
	pdf.AddPage()

	// Encabezado
	pdf.SetTextColor(0, 70, 127)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth/2, 10, tr(l.Title), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	y := pdf.GetY()
	for _, s := range l.HeaderInfo {
		pdf.SetXY(pageMargin+contentWidth/2, y)
		pdf.CellFormat(contentWidth/2, 5, tr(s), "", 0, "R", false, 0, "")
		y += 5
	}
	pdf.SetY(y + 2)
	rule(pdf)

	// From / To
	top := pdf.GetY()
	addressColumn(pdf, tr, l.From, pageMargin, top)
	bottom := pdf.GetY()
	addressColumn(pdf, tr, l.To, pageMargin+contentWidth/2, top)
	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(3)
	rule(pdf)

	// Tabla de ítems
	pdf.SetFillColor(0, 70, 127)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range l.Table.Headers {
		pdf.CellFormat(gofpdfColWidths[i], 8, tr(h), "1", 0, gofpdfAlign(i), true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range l.Table.Rows {
		for i, v := range r {
			pdf.CellFormat(gofpdfColWidths[i], 7, tr(v), "1", 0, gofpdfAlign(i), false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	// Totales
	for _, t := range l.Totals {
		size := 9.0
		if t.Emphasized {
			size = 11
			pdf.SetTextColor(0, 70, 127)
		}
		pdf.SetFont("Helvetica", "B", size)
		pdf.CellFormat(contentWidth-65, 7, tr(t.Label), "", 0, "R", false, 0, "")
		if !t.Emphasized {
			pdf.SetFont("Helvetica", "", size)
		}
		pdf.CellFormat(65, 7, tr(t.Value), "", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)
	rule(pdf)

	// Footer
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentWidth, 6, tr(l.Footer.PaymentTerms), "", 1, "L", false, 0, "")
	if l.Footer.NotesHeading != "" {
		pdf.SetTextColor(0, 70, 127)
		pdf.CellFormat(contentWidth, 6, tr(l.Footer.NotesHeading), "", 1, "L", false, 0, "")
		pdf.SetTextColor(100, 100, 100)
		pdf.SetFont("Helvetica", "", 8)
		for _, n := range l.Footer.Notes {
			pdf.MultiCell(contentWidth, 4.5, tr(n), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: gofpdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: gofpdf output: %w", err)
	}
	return &billing.Artifact{
		Content:     buf.Bytes(),
		ContentType: ContentType,
		Extension:   "pdf",
		Digest:      billing.ContentDigest([]byte(l.Text())),
	}, nil
}

func addressColumn(pdf *gofpdf.Fpdf, tr func(string) string, b AddressBlock, x, y float64) {
	pdf.SetXY(x, y)
	pdf.SetTextColor(0, 70, 127)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentWidth/2, 5, tr(b.Heading), "", 2, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	for i, s := range b.Lines {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 8)
		}
		pdf.CellFormat(contentWidth/2, 4.5, tr(s), "", 2, "L", false, 0, "")
	}
}

func rule(pdf *gofpdf.Fpdf) {
	y := pdf.GetY()
	pdf.SetDrawColor(0, 70, 127)
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.SetY(y + 3)
}

func gofpdfAlign(col int) string {
	switch col {
	case 0:
		return "L"
	case 1:
		return "C"
	default:
		return "R"
	}
}
