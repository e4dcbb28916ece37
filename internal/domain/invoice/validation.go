package invoice

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder/internal/domain"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

var (
	minQuantity = decimal.NewFromInt(1)
	minRate     = decimal.Zero
	minTaxRate  = decimal.Zero
	maxTaxRate  = decimal.NewFromInt(100)
)

// Violation una regla incumplida sobre un campo concreto.
// Field usa la ruta del formulario: "fromName", "items[0].quantity", "taxRate".
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todas las violaciones de una factura candidata.
// errors.Is(err, domain.ErrInvalidInput) es verdadero.
type ValidationError struct {
	Violations []Violation
}

// Error implementa error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("%s: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Has indica si existe al menos una violación para field.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields devuelve field → mensaje (primer mensaje por campo).
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.Message
		}
	}
	return out
}

// Violations acumulador de violaciones; no corta en la primera.
type Violations []Violation

// Add registra una violación.
func (vs *Violations) Add(field, message string) {
	*vs = append(*vs, Violation{Field: field, Message: message})
}

// Merge añade las violaciones de other cuyo campo aún no esté reportado.
func (vs *Violations) Merge(other []Violation) {
	seen := make(map[string]bool, len(*vs))
	for _, v := range *vs {
		seen[v.Field] = true
	}
	for _, v := range other {
		if !seen[v.Field] {
			*vs = append(*vs, v)
		}
	}
}

// Err devuelve nil si no hay violaciones, o un *ValidationError.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	out := make([]Violation, len(vs))
	copy(out, vs)
	return &ValidationError{Violations: out}
}

// Validate revisa la factura completa y reporta todas las violaciones a la vez.
func Validate(inv *entity.Invoice) error {
	if inv == nil {
		return &ValidationError{Violations: []Violation{{Field: "invoice", Message: "Invoice is required"}}}
	}
	var vs Violations

	requireText(&vs, "invoiceNumber", inv.InvoiceNumber, "Invoice number is required")
	if inv.InvoiceDate.IsZero() {
		vs.Add("invoiceDate", "Invoice date is required")
	}
	if inv.DueDate.IsZero() {
		vs.Add("dueDate", "Due date is required")
	}

	validateParty(&vs, "from", "Business name is required", inv.From)
	validateParty(&vs, "to", "Client name is required", inv.To)

	if len(inv.Items) == 0 {
		vs.Add("items", "At least one item is required")
	}
	for i, it := range inv.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		requireText(&vs, prefix+"description", it.Description, "Description is required")
		if it.Quantity.LessThan(minQuantity) {
			vs.Add(prefix+"quantity", "Quantity must be at least 1")
		}
		if it.Rate.LessThan(minRate) {
			vs.Add(prefix+"rate", "Rate cannot be negative")
		}
	}

	if inv.TaxRate.LessThan(minTaxRate) || inv.TaxRate.GreaterThan(maxTaxRate) {
		vs.Add("taxRate", "Tax rate must be between 0 and 100")
	}
	requireText(&vs, "paymentTerms", inv.PaymentTerms, "Payment terms are required")

	return vs.Err()
}

func validateParty(vs *Violations, prefix, nameMessage string, p entity.Party) {
	requireText(vs, prefix+"Name", p.Name, nameMessage)
	if !IsEmail(p.Email) {
		vs.Add(prefix+"Email", "Valid email is required")
	}
	requireText(vs, prefix+"Address", p.Address, "Address is required")
	requireText(vs, prefix+"City", p.City, "City is required")
	requireText(vs, prefix+"State", p.State, "State is required")
	requireText(vs, prefix+"Zip", p.Zip, "ZIP code is required")
}

func requireText(vs *Violations, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		vs.Add(field, message)
	}
}

// IsEmail valida la sintaxis de un correo.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && govalidator.IsEmail(s)
}
