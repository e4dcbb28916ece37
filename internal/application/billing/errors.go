package billing

import (
	"fmt"

	"github.com/jhoicas/invoice-builder/internal/domain"
)

// RenderError fallo interno de un motor de render. Para el usuario es opaco:
// solo se le informa que la generación falló y que puede reintentar.
type RenderError struct {
	Format Format
	Err    error
}

// Error implementa error.
func (e *RenderError) Error() string {
	return fmt.Sprintf("billing: render %s: %v", e.Format, e.Err)
}

// Unwrap expone domain.ErrRenderFailure y la causa original.
func (e *RenderError) Unwrap() []error {
	return []error{domain.ErrRenderFailure, e.Err}
}
