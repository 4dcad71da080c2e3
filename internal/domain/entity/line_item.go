package entity

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

// Modo de entrada para productos pesados: el usuario digita cantidad física
// o un monto objetivo, y el otro valor se deriva al precio efectivo vigente.
const (
	EntryModeQuantity = "quantity"
	EntryModeAmount   = "amount"
)

// LineItem línea de carrito ya resuelta: snapshot del producto más cantidad,
// unidad seleccionada y precios calculados. Invariante:
//
//	EffectiveUnitPrice = precio base (tras promoción) + Σ ajustes de
//	modificadores − descuento de ítem
type LineItem struct {
	EntryID      string          `json:"entryId"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	SelectedUnit string          `json:"selectedUnit,omitempty"`
	EntryMode    string          `json:"entryMode"`

	// OriginalUnitPrice precio de lista antes de promoción y descuento; se
	// conserva para display y auditoría.
	OriginalUnitPrice  money.Money `json:"originalUnitPrice"`
	EffectiveUnitPrice money.Money `json:"effectiveUnitPrice"`

	Modifiers      []Modifier      `json:"modifiers,omitempty"`
	PromotionPct   decimal.Decimal `json:"promotionPct"`
	DiscountPct    decimal.Decimal `json:"discountPct"`
	DiscountReason string          `json:"discountReason,omitempty"`

	IVAApplicable bool `json:"ivaApplicable"`
	IGTFExempt    bool `json:"igtfExempt"`
	SoldByWeight  bool `json:"soldByWeight"`
}

// Total monto de la línea: precio efectivo × cantidad, redondeo half-up.
func (li LineItem) Total() money.Money {
	return li.EffectiveUnitPrice.MulQuantity(li.Quantity)
}
