// Package pdf genera la representación imprimible de la factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  INVOICE                    │  Invoice # / Date / Due Date   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  From: emisor               │  To: cliente                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Description | Qty | Rate | Amount                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Tax (rate%) / Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Payment Terms + Notes (opcional)                    │
//	└─────────────────────────────────────────────────────────────┘
//
// Ambos motores (Maroto y gofpdf) pintan el mismo Layout.
package pdf

import (
	"context"
	"fmt"
	"sync"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	marotofpdf "github.com/phpdave11/gofpdf"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

// ContentType tipo MIME del artefacto.
const ContentType = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoiceRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	opts Options
}

var catalogSortOnce sync.Once

// NewMarotoPDFGenerator construye el generador. Activa el orden estable de los
// catálogos (fuentes, imágenes) del backend de Maroto: sin él, el diccionario
// /Font sale en orden de mapa y dos renders difieren en bytes.
func NewMarotoPDFGenerator(opts Options) *MarotoPDFGenerator {
	catalogSortOnce.Do(func() { marotofpdf.SetDefaultCatalogSort(true) })
	return &MarotoPDFGenerator{opts: opts.withDefaults()}
}

// Render genera el PDF. La fecha de creación embebida es la fecha de la
// factura, así dos renders del mismo registro no difieren por reloj.
func (g *MarotoPDFGenerator) Render(ctx context.Context, inv *entity.Invoice) (*billing.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := BuildLayout(inv, g.opts)
	if err := checkCharset(l); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(inv.From.Name, true).
		WithCreationDate(inv.InvoiceDate).
		WithCompression(g.opts.Compress).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(l))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(l.From, l.To))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(l.Table.Headers))
	m.AddRows(tableItemRows(l.Table.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(l.Totals)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(l.Footer)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	content := doc.GetBytes()
	if len(content) == 0 {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	return &billing.Artifact{
		Content:     content,
		ContentType: ContentType,
		Extension:   "pdf",
		Digest:      billing.ContentDigest([]byte(l.Text())),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número/fechas (der).
func headerRow(l Layout) core.Row {
	info := col.New(6)
	for i, s := range l.HeaderInfo {
		style := props.Text{Size: 9, Align: align.Right, Top: float64(2 + i*5), Color: colorGray}
		if i == 0 {
			style.Style = fontstyle.Bold
			style.Color = nil
		}
		info.Add(text.New(s, style))
	}
	return row.New(20).Add(
		col.New(6).Add(text.New(l.Title, props.Text{
			Style: fontstyle.Bold, Size: 20, Color: colorPrimary, Top: 2,
		})),
		info,
	)
}

// partiesRow: bloques From / To en dos columnas.
func partiesRow(from, to AddressBlock) core.Row {
	block := func(b AddressBlock) core.Col {
		c := col.New(6).Add(text.New(b.Heading, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
		for i, s := range b.Lines {
			style := props.Text{Size: 8, Top: float64(6 + i*4), Color: colorGray}
			if i == 0 {
				style.Style = fontstyle.Bold
				style.Size = 10
				style.Color = nil
			}
			c.Add(text.New(s, style))
		}
		return c
	}
	return row.New(26).Add(block(from), block(to))
}

// Anchos de columna de la tabla (suman 12).
var (
	colSizes  = [4]int{6, 2, 2, 2}
	colAligns = [4]align.Type{align.Left, align.Center, align.Right, align.Right}
)

// tableHeaderRow: cabecera con fondo del color primario.
func tableHeaderRow(headers [4]string) core.Row {
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	for i, h := range headers {
		r.Add(col.New(colSizes[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: colAligns[i],
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

// tableItemRows: una fila por ítem, en orden.
func tableItemRows(rows [][4]string) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, cells := range rows {
		r := row.New(7)
		for i, v := range cells {
			r.Add(col.New(colSizes[i]).Add(text.New(v, props.Text{
				Size: 8, Align: colAligns[i], Top: 1, Left: 1, Right: 1,
			})))
		}
		result = append(result, r)
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha.
func totalsRows(totals []TotalLine) []core.Row {
	result := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		style := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if t.Emphasized {
			style.Style = fontstyle.Bold
			style.Size = 11
			style.Color = colorPrimary
		}
		labelStyle := style
		labelStyle.Style = fontstyle.Bold
		labelStyle.Right = 2
		result = append(result, row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New(t.Label, labelStyle)),
			col.New(3).Add(text.New(t.Value, style)),
		))
	}
	return result
}

// footerRows: condiciones de pago y, si hay, notas.
func footerRows(f Footer) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(f.PaymentTerms, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 1,
		}))),
	}
	if f.NotesHeading == "" {
		return rows
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(text.New(f.NotesHeading, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))))
	for _, n := range f.Notes {
		rows = append(rows, row.New(5).Add(col.New(12).Add(text.New(n, props.Text{
			Size: 8, Color: colorGray, Top: 0.5,
		}))))
	}
	return rows
}
