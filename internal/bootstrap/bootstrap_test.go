package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/bootstrap"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/delivery"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/metrics"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-builder/pkg/config"
)

var renderCfg = config.RenderConfig{Engine: "maroto", Locale: "en-US", CurrencySymbol: "$", CurrencyCode: "USD"}

func TestRenderers_Engine(t *testing.T) {
	rs := bootstrap.Renderers(renderCfg, "", nil)
	require.Len(t, rs, 3)
	assert.IsType(t, &pdf.MarotoPDFGenerator{}, rs[billing.FormatPDF])

	rs = bootstrap.Renderers(renderCfg, "gofpdf", nil)
	assert.IsType(t, &pdf.GofpdfGenerator{}, rs[billing.FormatPDF])
}

func TestRenderers_Instrumented(t *testing.T) {
	rs := bootstrap.Renderers(renderCfg, "", metrics.New())
	_, isRaw := rs[billing.FormatPDF].(*pdf.MarotoPDFGenerator)
	assert.False(t, isRaw)
	assert.NotNil(t, rs[billing.FormatXML])
	assert.NotNil(t, rs[billing.FormatZIP])
}

func TestArchiveDeliverer(t *testing.T) {
	d, err := bootstrap.ArchiveDeliverer(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = bootstrap.ArchiveDeliverer(context.Background(), config.StorageConfig{
		Bucket: "invoices", Region: "auto", Endpoint: "http://localhost:9000",
		AccessKeyID: "key", SecretAccessKey: "secret", Prefix: "archive/",
	})
	require.NoError(t, err)
	require.IsType(t, &delivery.S3Deliverer{}, d)
	assert.Equal(t, "archive/x.pdf", d.(*delivery.S3Deliverer).Key("x.pdf"))
}

func TestRenderers_MismosBytesPorFormato(t *testing.T) {
	draft := &billing.InvoiceDraft{
		InvoiceNumber: "INV-1", InvoiceDate: "2025-01-15", DueDate: "2025-02-14",
		FromName: "Acme Corp", FromEmail: "billing@acme.test", FromAddress: "1 Main St",
		FromCity: "Springfield", FromState: "IL", FromZip: "62701",
		ToName: "Globex", ToEmail: "ap@globex.test", ToAddress: "9 Elm Ave",
		ToCity: "Shelbyville", ToState: "IL", ToZip: "62565",
		Items:        []billing.DraftItem{{Description: "Widget", Quantity: "2", Rate: "10"}},
		TaxRate:      "10",
		PaymentTerms: "Net 30",
	}
	inv, err := draft.Finalize()
	require.NoError(t, err)

	cfg := renderCfg
	cfg.Compress = true
	for format, r := range bootstrap.Renderers(cfg, "", nil) {
		t.Run(string(format), func(t *testing.T) {
			a, err := r.Render(context.Background(), inv)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				b, err := r.Render(context.Background(), inv)
				require.NoError(t, err)
				require.Equal(t, a.Content, b.Content)
				require.Equal(t, a.Digest, b.Digest)
			}
		})
	}
}
