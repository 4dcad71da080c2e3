package repository

import (
	"context"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

// CatalogRepository lectura de snapshots de catálogo. Solo se consulta en el
// momento de agregar un ítem al carrito; la línea conserva el snapshot y no
// ve cambios posteriores del catálogo.
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CatalogEntry, error)
}
