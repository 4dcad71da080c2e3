package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/application/dto"
)

// SeriesHandler administración de series de numeración fiscal (protegido,
// solo admin).
type SeriesHandler struct {
	uc *billing.SeriesUseCase
}

// NewSeriesHandler construye el handler.
func NewSeriesHandler(uc *billing.SeriesUseCase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// Create crea una serie nueva.
// POST /api/series
func (h *SeriesHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSeriesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	series, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSeriesResponse(series))
}

// List lista las series de la empresa.
// GET /api/series
func (h *SeriesHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.uc.List(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SeriesResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewSeriesResponse(s))
	}
	return c.JSON(out)
}

// SetDefault marca la serie como por defecto de su tipo.
// POST /api/series/:id/default
func (h *SeriesHandler) SetDefault(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.SetDefault(c.Context(), companyID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
