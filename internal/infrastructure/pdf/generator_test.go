package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/pdf"
)

func TestRenderers_ProducePDF(t *testing.T) {
	renderers := map[string]billing.InvoiceRenderer{
		"maroto": pdf.NewMarotoPDFGenerator(pdf.Options{}),
		"gofpdf": pdf.NewGofpdfGenerator(pdf.Options{}),
	}
	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			art, err := r.Render(context.Background(), widgetInvoice("Pay via wire"))
			require.NoError(t, err)
			require.NotNil(t, art)
			assert.True(t, bytes.HasPrefix(art.Content, []byte("%PDF")))
			assert.Equal(t, pdf.ContentType, art.ContentType)
			assert.Equal(t, "pdf", art.Extension)
		})
	}
}

func TestGofpdfGenerator_TextContent(t *testing.T) {
	g := pdf.NewGofpdfGenerator(pdf.Options{Compress: false})

	art, err := g.Render(context.Background(), widgetInvoice("Pay via wire"))
	require.NoError(t, err)
	for _, s := range []string{"Widget", "Subtotal:", "Total:", "Payment Terms: Net 30", "Notes:", "Pay via wire"} {
		assert.True(t, bytes.Contains(art.Content, []byte(s)), "falta %q", s)
	}

	art, err = g.Render(context.Background(), widgetInvoice(""))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(art.Content, []byte("Notes:")))
}

func TestRenderers_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	art, err := pdf.NewMarotoPDFGenerator(pdf.Options{}).Render(ctx, widgetInvoice(""))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, art)
}

// El mismo registro produce los mismos bytes, no solo el mismo Digest.
func TestRenderers_SameBytesTwice(t *testing.T) {
	inv := widgetInvoice("Pay via wire")
	for _, compress := range []bool{true, false} {
		renderers := map[string]billing.InvoiceRenderer{
			"maroto": pdf.NewMarotoPDFGenerator(pdf.Options{Compress: compress}),
			"gofpdf": pdf.NewGofpdfGenerator(pdf.Options{Compress: compress}),
		}
		for name, r := range renderers {
			t.Run(fmt.Sprintf("%s/compress=%t", name, compress), func(t *testing.T) {
				first, err := r.Render(context.Background(), inv)
				require.NoError(t, err)
				for i := 0; i < 10; i++ {
					again, err := r.Render(context.Background(), inv)
					require.NoError(t, err)
					require.Equal(t, first.Content, again.Content, "render %d difiere", i)
					require.Equal(t, first.Digest, again.Digest)
				}
			})
		}
	}
}

func TestMarotoPDFGenerator_TextContent(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator(pdf.Options{Compress: false})

	art, err := g.Render(context.Background(), widgetInvoice("Pay via wire"))
	require.NoError(t, err)
	for _, s := range []string{"INVOICE", "Widget", "Total:", "$22.00", "Payment Terms: Net 30", "Pay via wire"} {
		assert.True(t, bytes.Contains(art.Content, []byte(s)), "falta %q", s)
	}
}

func TestRenderers_DigestDependsOnContent(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator(pdf.Options{Compress: true})

	a, err := g.Render(context.Background(), widgetInvoice("Pay via wire"))
	require.NoError(t, err)
	other, err := g.Render(context.Background(), widgetInvoice(""))
	require.NoError(t, err)

	assert.NotEmpty(t, a.Digest)
	assert.NotEqual(t, a.Digest, other.Digest)
	assert.NotEqual(t, a.Content, other.Content)
}

// Las fuentes base solo cubren Windows-1252: el texto fuera de ese juego es un
// fallo de render, no un carácter perdido en silencio.
func TestRenderers_RechazanTextoFueraDeWindows1252(t *testing.T) {
	renderers := map[string]billing.InvoiceRenderer{
		"maroto": pdf.NewMarotoPDFGenerator(pdf.Options{}),
		"gofpdf": pdf.NewGofpdfGenerator(pdf.Options{}),
	}
	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			inv := widgetInvoice("")
			inv.Items[0].Description = "Łódź ξ 日本"
			art, err := r.Render(context.Background(), inv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Windows-1252")
			assert.Nil(t, art)

			inv.Items[0].Description = "Café crème"
			_, err = r.Render(context.Background(), inv)
			assert.NoError(t, err)
		})
	}
}
