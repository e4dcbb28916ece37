package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/application/dto"
	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
	"github.com/jhoicas/invoice-builder/internal/domain/invoice"
)

// InvoiceHandler expone el formulario de facturas: defaults, totales en vivo,
// validación, descarga y archivo.
type InvoiceHandler struct {
	uc      *billing.GenerateInvoiceUseCase
	archive billing.ArtifactDeliverer // nil = archivo no configurado
	now     func() time.Time
}

// NewInvoiceHandler construye el handler. now nil = time.Now.
func NewInvoiceHandler(uc *billing.GenerateInvoiceUseCase, archive billing.ArtifactDeliverer, now func() time.Time) *InvoiceHandler {
	if now == nil {
		now = time.Now
	}
	return &InvoiceHandler{uc: uc, archive: archive, now: now}
}

// Defaults devuelve un borrador nuevo con los valores iniciales del formulario.
// GET /api/invoices/defaults
func (h *InvoiceHandler) Defaults(c *fiber.Ctx) error {
	formats := make([]string, 0, 3)
	for _, f := range h.uc.Formats() {
		formats = append(formats, string(f))
	}
	return c.JSON(dto.DefaultsResponse{
		Draft:        billing.NewDraft(h.now()),
		PaymentTerms: entity.DefaultPaymentTerms,
		Formats:      formats,
	})
}

// Totals calcula totales en vivo; valores no numéricos cuentan como 0.
// POST /api/invoices/totals
func (h *InvoiceHandler) Totals(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return invalidBody(c)
	}
	return c.JSON(dto.NewTotalsResponse(h.uc.PreviewTotals(draft)))
}

// Validate valida el borrador completo y devuelve todas las violaciones juntas.
// POST /api/invoices/validate
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.Validate(draft)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidationResponse{
		Valid:         true,
		InvoiceNumber: inv.InvoiceNumber,
		Totals: dto.NewTotalsResponse(invoice.Totals{
			Subtotal: inv.Subtotal, TaxAmount: inv.TaxAmount, Total: inv.Total,
		}),
	})
}

// Render genera el documento y lo devuelve como descarga.
// POST /api/invoices/render?format=pdf|xml|zip
func (h *InvoiceHandler) Render(c *fiber.Ctx) error {
	draft, err := parseDraft(c)
	if err != nil {
		return invalidBody(c)
	}
	format := billing.ParseFormat(c.Query("format"))
	if _, err := h.uc.Generate(c.UserContext(), draft, format, downloadDeliverer{c: c}); err != nil {
		return writeError(c, err)
	}
	return nil
}

// Archive genera el documento y lo guarda en el bucket configurado.
// POST /api/invoices/archive?format=pdf|xml|zip
func (h *InvoiceHandler) Archive(c *fiber.Ctx) error {
	if h.archive == nil {
		return writeError(c, domain.ErrNotConfigured)
	}
	draft, err := parseDraft(c)
	if err != nil {
		return invalidBody(c)
	}
	format := billing.ParseFormat(c.Query("format"))
	res, err := h.uc.Generate(c.UserContext(), draft, format, h.archive)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewArchiveResponse(res))
}

func parseDraft(c *fiber.Ctx) (*billing.InvoiceDraft, error) {
	var draft billing.InvoiceDraft
	if err := c.BodyParser(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo inválido", RequestID: GetRequestID(c),
	})
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	reqID := GetRequestID(c)
	var verr *invoice.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Violations: verr.Violations, RequestID: reqID,
		})
	case errors.Is(err, domain.ErrRenderFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "RENDER_FAILED", Message: "no se pudo generar el documento, intente de nuevo", RequestID: reqID,
		})
	case errors.Is(err, domain.ErrDeliveryFailure):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "DELIVERY_FAILED", Message: "no se pudo entregar el documento", RequestID: reqID,
		})
	case errors.Is(err, domain.ErrNotConfigured):
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{
			Code: "NOT_CONFIGURED", Message: "almacenamiento de archivo no configurado", RequestID: reqID,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_INPUT", Message: err.Error(), RequestID: reqID,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "error interno", RequestID: reqID,
		})
	}
}

// downloadDeliverer entrega el artefacto como descarga en la respuesta HTTP.
type downloadDeliverer struct {
	c *fiber.Ctx
}

func (d downloadDeliverer) Deliver(_ context.Context, a billing.Artifact, filename string) (billing.Receipt, error) {
	d.c.Attachment(filename)
	d.c.Set(fiber.HeaderContentType, a.ContentType)
	if a.Digest != "" {
		d.c.Set("X-Content-Digest", a.Digest)
	}
	if err := d.c.Send(a.Content); err != nil {
		return billing.Receipt{}, err
	}
	return billing.Receipt{Location: filename, Size: len(a.Content)}, nil
}
