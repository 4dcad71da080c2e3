package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/facturacion-api/internal/application/dto"
	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

// respondError mapea errores de dominio a códigos HTTP. Cualquier error no
// clasificado es un 500 sin detalle interno hacia el cliente.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Error(), Field: verr.Field,
		})
	}
	var cerr *domain.ConsistencyError
	if errors.As(err, &cerr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "STALE_TOTALS", Message: cerr.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDocumentImmutable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE", Message: "documento emitido es inmutable"})
	case errors.Is(err, domain.ErrNoDefaultSeries):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_DEFAULT_SERIES", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrSequenceAllocation):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SEQUENCE_UNAVAILABLE", Message: "no se pudo asignar el consecutivo, reintente"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, money.ErrCurrencyMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
