package entity

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

// Modifier ajuste de precio adjunto a una línea (ej: "extra queso", "sin hielo"
// con rebaja). Contribuye aditivamente al precio unitario efectivo:
// ajuste × cantidad del modificador.
type Modifier struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PriceAdjustment money.Money     `json:"priceAdjustment"` // con signo
	Quantity        decimal.Decimal `json:"quantity"`
}
