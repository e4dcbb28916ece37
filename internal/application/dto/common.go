package dto

import "github.com/jhoicas/invoice-builder/internal/domain/invoice"

// ErrorResponse cuerpo de error HTTP. Violations solo viene en errores de validación.
type ErrorResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Violations []invoice.Violation `json:"violations,omitempty"`
	RequestID  string              `json:"request_id,omitempty"`
}
