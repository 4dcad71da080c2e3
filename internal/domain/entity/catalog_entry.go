package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

// SellingUnit unidad de venta alternativa de un producto multi-unidad
// (ej: kg, caja, docena). Cada unidad tiene su propio precio.
type SellingUnit struct {
	Abbreviation     string          `json:"abbreviation"`
	Name             string          `json:"name"`
	PricePerUnit     money.Money     `json:"pricePerUnit"`
	MinimumQuantity  decimal.Decimal `json:"minimumQuantity"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"` // hacia la unidad base
}

// Promotion rebaja porcentual con ventana de vigencia adjunta al producto.
type Promotion struct {
	DiscountPct decimal.Decimal `json:"discountPct"`
	ValidFrom   time.Time       `json:"validFrom"`
	ValidUntil  time.Time       `json:"validUntil"`
}

// ActiveAt reporta si la promoción está vigente en el instante dado.
func (p *Promotion) ActiveAt(t time.Time) bool {
	if p == nil {
		return false
	}
	return !t.Before(p.ValidFrom) && !t.After(p.ValidUntil)
}

// CatalogEntry snapshot inmutable de un producto del catálogo en el momento en
// que se agrega al carrito. Cambios posteriores del catálogo no alteran
// líneas ya agregadas ni documentos emitidos.
type CatalogEntry struct {
	ID            string        `json:"id"`
	CompanyID     string        `json:"companyId"`
	SKU           string        `json:"sku"`
	Name          string        `json:"name"`
	BasePrice     money.Money   `json:"basePrice"`
	SellingUnits  []SellingUnit `json:"sellingUnits,omitempty"`
	Promotion     *Promotion    `json:"promotion,omitempty"`
	IVAApplicable bool          `json:"ivaApplicable"`
	IGTFExempt    bool          `json:"igtfExempt"`
	SoldByWeight  bool          `json:"soldByWeight"`
}

// UnitByAbbreviation busca una unidad de venta por su abreviatura.
func (e *CatalogEntry) UnitByAbbreviation(abbr string) *SellingUnit {
	for i := range e.SellingUnits {
		if e.SellingUnits[i].Abbreviation == abbr {
			return &e.SellingUnits[i]
		}
	}
	return nil
}
