// Package bootstrap arma las dependencias compartidas por la API y la CLI a
// partir de la configuración.
package bootstrap

import (
	"context"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/bundle"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/delivery"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/metrics"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-builder/internal/infrastructure/ubl"
	"github.com/jhoicas/invoice-builder/pkg/config"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

// Renderers devuelve un motor por formato. engine vacío usa cfg.Engine.
// Con m != nil cada motor queda instrumentado.
func Renderers(cfg config.RenderConfig, engine string, m *metrics.Metrics) map[billing.Format]billing.InvoiceRenderer {
	opts := pdf.Options{
		Locale:         cfg.Locale,
		CurrencySymbol: cfg.CurrencySymbol,
		Compress:       cfg.Compress,
	}
	if engine == "" {
		engine = cfg.Engine
	}

	var pdfRenderer billing.InvoiceRenderer
	switch engine {
	case "gofpdf":
		pdfRenderer = pdf.NewGofpdfGenerator(opts)
	default:
		pdfRenderer = pdf.NewMarotoPDFGenerator(opts)
	}

	xmlRenderer := ubl.NewXMLGenerator(cfg.CurrencyCode)
	rs := map[billing.Format]billing.InvoiceRenderer{
		billing.FormatPDF: pdfRenderer,
		billing.FormatXML: xmlRenderer,
		billing.FormatZIP: bundle.NewZipRenderer(
			bundle.Part{Format: billing.FormatPDF, Renderer: pdfRenderer},
			bundle.Part{Format: billing.FormatXML, Renderer: xmlRenderer},
		),
	}
	if m != nil {
		for f, r := range rs {
			rs[f] = m.InstrumentRenderer(f, r)
		}
	}
	return rs
}

// NewUseCase construye el caso de uso de facturación.
func NewUseCase(cfg *config.Config, engine string, m *metrics.Metrics, log *logger.Logger) *billing.GenerateInvoiceUseCase {
	return billing.NewGenerateInvoiceUseCase(Renderers(cfg.Render, engine, m), log)
}

// S3Config traduce la sección Storage.
func S3Config(cfg config.StorageConfig) delivery.S3Config {
	return delivery.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		Prefix:          cfg.Prefix,
	}
}

// ArchiveDeliverer devuelve el deliverer S3 o nil si no hay bucket configurado.
func ArchiveDeliverer(ctx context.Context, cfg config.StorageConfig) (billing.ArtifactDeliverer, error) {
	s3cfg := S3Config(cfg)
	if !s3cfg.Enabled() {
		return nil, nil
	}
	client, err := delivery.NewS3Client(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return delivery.NewS3Deliverer(client, s3cfg.Bucket, s3cfg.Prefix), nil
}
