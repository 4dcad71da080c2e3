package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo acceso de lectura al catálogo de productos. El precio base se
// guarda como BIGINT de unidades menores más moneda; unidades de venta y
// promoción como JSONB.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetByID obtiene el snapshot del producto, nil si no existe.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.CatalogEntry, error) {
	query := `
		SELECT id, company_id, sku, name, base_price_units, base_price_currency,
		       selling_units, promotion, iva_applicable, igtf_exempt, sold_by_weight
		FROM catalog_entries WHERE id = $1`
	var e entity.CatalogEntry
	var units int64
	var currency string
	var sellingUnits, promotion []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CompanyID, &e.SKU, &e.Name, &units, &currency,
		&sellingUnits, &promotion, &e.IVAApplicable, &e.IGTFExempt, &e.SoldByWeight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	e.BasePrice = money.New(units, currency)
	if len(sellingUnits) > 0 {
		if err := json.Unmarshal(sellingUnits, &e.SellingUnits); err != nil {
			return nil, fmt.Errorf("unmarshal selling units: %w", err)
		}
	}
	if len(promotion) > 0 {
		e.Promotion = &entity.Promotion{}
		if err := json.Unmarshal(promotion, e.Promotion); err != nil {
			return nil, fmt.Errorf("unmarshal promotion: %w", err)
		}
	}
	return &e, nil
}
