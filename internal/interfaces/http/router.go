package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices  *billing.GenerateInvoiceUseCase
	Archive   billing.ArtifactDeliverer // opcional
	JWTSecret string                    // vacío = API sin autenticación
	JWTIssuer string
	Now       func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	}

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Archive, deps.Now)
	invoices.Get("/defaults", invoiceHandler.Defaults)
	invoices.Post("/totals", invoiceHandler.Totals)
	invoices.Post("/validate", invoiceHandler.Validate)
	invoices.Post("/render", invoiceHandler.Render)
	invoices.Post("/archive", invoiceHandler.Archive)
}
