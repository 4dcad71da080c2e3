package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDocumentImmutable = errors.New("documento emitido es inmutable")
	ErrNoDefaultSeries   = errors.New("no existe serie por defecto para el tipo de documento")

	// ErrSequenceAllocation: se agotaron los reintentos del incremento atómico
	// del consecutivo. Seguro reintentar la emisión completa: no quedó estado
	// parcial persistido.
	ErrSequenceAllocation = errors.New("no se pudo asignar el consecutivo de la serie")
)

// ValidationError campo requerido ausente o inválido (ej: descuento sin razón).
// Nunca se persiste nada cuando se retorna.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validación: campo %q requerido", e.Field)
	}
	return fmt.Sprintf("validación: campo %q: %s", e.Field, e.Reason)
}

// NewValidationError construye un ValidationError para un campo faltante.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConsistencyError los totales recalculados en Validate no coinciden con el
// snapshot congelado. Indica estado stale del cliente, no entrada inválida:
// el caller debe re-consultar y reintentar, no corregir un campo.
type ConsistencyError struct {
	Expected string
	Actual   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistencia: total congelado %s vs recalculado %s", e.Expected, e.Actual)
}
