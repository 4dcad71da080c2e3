package repository

import (
	"context"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

// FiscalDocumentRepository persistencia de documentos fiscales. GetByID y
// GetByOrderID devuelven nil, nil cuando no existe el registro.
type FiscalDocumentRepository interface {
	Create(ctx context.Context, doc *entity.FiscalDocument) error
	Update(ctx context.Context, doc *entity.FiscalDocument) error
	GetByID(ctx context.Context, id string) (*entity.FiscalDocument, error)
	// GetByIDForUpdate lee el documento bloqueando la fila (SELECT ... FOR
	// UPDATE); solo tiene sentido dentro de una transacción, en el paso de
	// emisión.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.FiscalDocument, error)
	// GetByOrderID busca la factura asociada a una orden (una orden lleva a
	// lo sumo una factura no anulada).
	GetByOrderID(ctx context.Context, companyID, orderID string) (*entity.FiscalDocument, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.FiscalDocument, error)
}
