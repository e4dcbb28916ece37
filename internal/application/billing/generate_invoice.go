package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder/pkg/logger"
)

// GenerateInvoiceUseCase orquesta el ciclo completo de una factura:
// borrador → validación → totales → render → entrega.
// No guarda estado entre llamadas; cada invocación trabaja sobre su propio registro.
type GenerateInvoiceUseCase struct {
	renderers map[Format]InvoiceRenderer
	log       *logger.Logger
}

// GenerateResult resultado de una generación entregada.
type GenerateResult struct {
	InvoiceNumber string
	Format        Format
	Filename      string
	Digest        string
	Totals        invoice.Totals
	Receipt       Receipt
}

// NewGenerateInvoiceUseCase construye el caso de uso con un motor por formato.
func NewGenerateInvoiceUseCase(renderers map[Format]InvoiceRenderer, log *logger.Logger) *GenerateInvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	rs := make(map[Format]InvoiceRenderer, len(renderers))
	for f, r := range renderers {
		if r != nil {
			rs[f] = r
		}
	}
	return &GenerateInvoiceUseCase{renderers: rs, log: log.Component("billing")}
}

// Formats formatos disponibles, ordenados.
func (uc *GenerateInvoiceUseCase) Formats() []Format {
	out := make([]Format, 0, len(uc.renderers))
	for f := range uc.renderers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PreviewTotals totales en vivo de un borrador (política permisiva).
func (uc *GenerateInvoiceUseCase) PreviewTotals(draft *InvoiceDraft) invoice.Totals {
	return draft.LiveTotals()
}

// Validate convierte el borrador en factura o devuelve *invoice.ValidationError.
func (uc *GenerateInvoiceUseCase) Validate(draft *InvoiceDraft) (*entity.Invoice, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: borrador nulo", domain.ErrInvalidInput)
	}
	return draft.Finalize()
}

// RenderInvoice genera el artefacto de una factura ya tipada y el nombre sugerido.
// Vuelve a aplicar totales y validar: el motor nunca recibe un registro inválido.
//
// Retorna:
//   - (artifact, filename, nil)  si todo sale bien.
//   - domain.ErrInvalidInput     si el formato no existe o la factura no valida.
//   - *RenderError               si el motor falla (domain.ErrRenderFailure).
func (uc *GenerateInvoiceUseCase) RenderInvoice(
	ctx context.Context,
	inv *entity.Invoice,
	format Format,
) (*Artifact, string, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
	invoice.ApplyTotals(inv)
	if err := invoice.Validate(inv); err != nil {
		return nil, "", err
	}

	artifact, err := renderer.Render(ctx, inv)
	if err == nil && (artifact == nil || len(artifact.Content) == 0) {
		err = errors.New("el motor devolvió un documento vacío")
	}
	if err != nil {
		uc.log.Error().Err(err).
			Str("invoice", inv.InvoiceNumber).
			Str("format", string(format)).
			Msg("fallo al renderizar factura")
		return nil, "", &RenderError{Format: format, Err: err}
	}
	return artifact, ArtifactFilename(inv.InvoiceNumber, artifact.Extension), nil
}

// Generate valida el borrador, lo renderiza en el formato pedido y entrega el
// artefacto al deliverer del host. Si la validación falla el motor no se invoca.
func (uc *GenerateInvoiceUseCase) Generate(
	ctx context.Context,
	draft *InvoiceDraft,
	format Format,
	deliverer ArtifactDeliverer,
) (*GenerateResult, error) {
	if _, ok := uc.renderers[format]; !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
	if deliverer == nil {
		return nil, fmt.Errorf("%w: sin deliverer", domain.ErrNotConfigured)
	}

	// ── 1. Validar y tipar ───────────────────────────────────────────────────
	inv, err := uc.Validate(draft)
	if err != nil {
		uc.log.Debug().Err(err).Msg("borrador rechazado")
		return nil, err
	}

	// ── 2. Render ────────────────────────────────────────────────────────────
	artifact, filename, err := uc.RenderInvoice(ctx, inv, format)
	if err != nil {
		return nil, err
	}

	// ── 3. Entrega ───────────────────────────────────────────────────────────
	receipt, err := deliverer.Deliver(ctx, *artifact, filename)
	if err != nil {
		uc.log.Error().Err(err).Str("filename", filename).Msg("fallo al entregar factura")
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, err)
	}

	uc.log.Info().
		Str("invoice", inv.InvoiceNumber).
		Str("format", string(format)).
		Str("location", receipt.Location).
		Int("bytes", receipt.Size).
		Msg("factura generada")

	return &GenerateResult{
		InvoiceNumber: inv.InvoiceNumber,
		Format:        format,
		Filename:      filename,
		Digest:        artifact.Digest,
		Totals:        invoice.Totals{Subtotal: inv.Subtotal, TaxAmount: inv.TaxAmount, Total: inv.Total},
		Receipt:       receipt,
	}, nil
}
