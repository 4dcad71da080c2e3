package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartkubik/facturacion-api/internal/application/dto"
	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

// SeriesUseCase administración de series de numeración fiscal.
type SeriesUseCase struct {
	seriesRepo repository.FiscalSeriesRepository
}

// NewSeriesUseCase construye el caso de uso.
func NewSeriesUseCase(seriesRepo repository.FiscalSeriesRepository) *SeriesUseCase {
	return &SeriesUseCase{seriesRepo: seriesRepo}
}

// Create crea una serie. Si viene marcada por defecto, desplaza a la anterior
// del mismo tipo: a lo sumo una serie por defecto por (empresa, tipo).
func (uc *SeriesUseCase) Create(ctx context.Context, companyID string, in dto.CreateSeriesRequest) (*entity.FiscalSeries, error) {
	switch in.Type {
	case entity.DocTypeInvoice, entity.DocTypeCreditNote, entity.DocTypeDebitNote, entity.DocTypeDeliveryNote:
	default:
		return nil, domain.NewValidationError("type", "tipo de documento desconocido: "+in.Type)
	}
	if in.Prefix == "" {
		return nil, domain.NewValidationError("prefix", "")
	}

	now := time.Now()
	series := &entity.FiscalSeries{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Type:      in.Type,
		Name:      in.Name,
		Prefix:    in.Prefix,
		IsDefault: in.IsDefault,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.seriesRepo.Create(ctx, series); err != nil {
		return nil, err
	}
	if in.IsDefault {
		if err := uc.seriesRepo.SetDefault(ctx, companyID, in.Type, series.ID); err != nil {
			return nil, err
		}
	}
	return series, nil
}

// List lista las series de la empresa.
func (uc *SeriesUseCase) List(ctx context.Context, companyID string) ([]*entity.FiscalSeries, error) {
	return uc.seriesRepo.ListByCompany(ctx, companyID)
}

// SetDefault marca la serie como por defecto de su tipo.
func (uc *SeriesUseCase) SetDefault(ctx context.Context, companyID, seriesID string) error {
	series, err := uc.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return err
	}
	if series == nil {
		return domain.ErrNotFound
	}
	if series.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.seriesRepo.SetDefault(ctx, companyID, series.Type, seriesID)
}
