package repository

import (
	"context"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

// FiscalSeriesRepository persistencia de series de numeración fiscal.
type FiscalSeriesRepository interface {
	Create(ctx context.Context, series *entity.FiscalSeries) error
	GetByID(ctx context.Context, id string) (*entity.FiscalSeries, error)
	// GetDefaultByType devuelve la serie por defecto activa del tipo, o nil
	// si no existe (el caller decide si eso es error de validación).
	GetDefaultByType(ctx context.Context, companyID, docType string) (*entity.FiscalSeries, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.FiscalSeries, error)
	// SetDefault marca la serie como por defecto de su tipo y desmarca las
	// demás del mismo (companyID, tipo): a lo sumo una por defecto.
	SetDefault(ctx context.Context, companyID, docType, seriesID string) error

	// IncrementAndGet es la primitiva atómica de asignación: incrementa el
	// contador de la serie y devuelve el valor nuevo en una sola operación
	// read-modify-write durable. Nunca devuelve un número sin haber
	// persistido el incremento.
	IncrementAndGet(ctx context.Context, seriesID string) (int64, error)
	// CurrentNumber lee el contador sin incrementar (peek).
	CurrentNumber(ctx context.Context, seriesID string) (int64, error)
}
