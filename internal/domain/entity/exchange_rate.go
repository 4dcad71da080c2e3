package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate tasa spot base→quote con su instante de captura. Se refresca
// por intervalo desde la fuente externa (BCV), nunca por cálculo de línea.
type ExchangeRate struct {
	Base  string          `json:"base"`  // ej: "USD"
	Quote string          `json:"quote"` // ej: "VES"
	Rate  decimal.Decimal `json:"rate"`
	AsOf  time.Time       `json:"asOf"`
}
