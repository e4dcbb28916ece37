package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrRenderFailure   = errors.New("fallo al generar el documento")
	ErrDeliveryFailure = errors.New("fallo al entregar el documento")
	ErrNotConfigured   = errors.New("capacidad no configurada")
)
