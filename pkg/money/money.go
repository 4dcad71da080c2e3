// Package money implementa aritmética monetaria en unidades menores enteras
// (centavos) etiquetadas con moneda. Toda la agregación del carrito y de los
// documentos fiscales se hace aquí en int64 para evitar deriva de punto
// flotante; decimal solo aparece en los bordes (entrada, display, DB).
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch indica aritmética entre monedas distintas sin conversión
// explícita. Es una violación de contrato del integrador, no un error de datos.
var ErrCurrencyMismatch = fmt.Errorf("money: monedas distintas en operación aritmética")

// Exponent dígitos fraccionarios de las monedas soportadas (USD y VES usan 2).
const Exponent = 2

var centFactor = decimal.New(1, Exponent) // 10^2

// Money es un monto en unidades menores (ej: 3480 = 34.80) con código ISO 4217.
type Money struct {
	units    int64
	currency string
}

// New construye un Money desde unidades menores.
func New(units int64, currency string) Money {
	return Money{units: units, currency: currency}
}

// Zero es el monto cero de una moneda.
func Zero(currency string) Money {
	return Money{currency: currency}
}

// FromDecimal convierte un decimal a Money redondeando half-up al exponente.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{units: d.Mul(centFactor).Round(0).IntPart(), currency: currency}
}

// RequireFromString parsea un monto decimal ("34.80"). Panic si el string es
// inválido; pensado para constantes y tests, igual que decimal.RequireFromString.
func RequireFromString(s, currency string) Money {
	return FromDecimal(decimal.RequireFromString(s), currency)
}

// Units devuelve las unidades menores.
func (m Money) Units() int64 { return m.units }

// Currency devuelve el código de moneda.
func (m Money) Currency() string { return m.currency }

// Decimal devuelve el monto como decimal (34.80).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -Exponent)
}

// IsZero reporta si el monto es cero.
func (m Money) IsZero() bool { return m.units == 0 }

// IsNegative reporta si el monto es negativo.
func (m Money) IsNegative() bool { return m.units < 0 }

// String formatea "34.80 USD".
func (m Money) String() string {
	return m.Decimal().StringFixed(Exponent) + " " + m.currency
}

// StringFixed formatea solo la cifra ("34.80").
func (m Money) StringFixed() string {
	return m.Decimal().StringFixed(Exponent)
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}

// Add suma dos montos de la misma moneda.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{units: m.units + o.units, currency: m.currency}, nil
}

// Sub resta dos montos de la misma moneda.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{units: m.units - o.units, currency: m.currency}, nil
}

// Neg devuelve el monto con signo invertido.
func (m Money) Neg() Money {
	return Money{units: -m.units, currency: m.currency}
}

// Cmp compara dos montos de la misma moneda (-1, 0, 1).
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.units < o.units:
		return -1, nil
	case m.units > o.units:
		return 1, nil
	}
	return 0, nil
}

// MulQuantity multiplica por una cantidad decimal (ej: 2.500 kg) y redondea
// half-up al exponente. Regla canónica única: la misma en ambos sentidos del
// modo de entrada cantidad/monto.
func (m Money) MulQuantity(qty decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(qty), m.currency)
}

// Percent calcula pct% del monto (pct expresado como 16, no 0.16), half-up.
func (m Money) Percent(pct decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(pct).Div(decimal.NewFromInt(100)), m.currency)
}

// Convert re-expresa el monto en otra moneda con la tasa dada (quote/base).
// Es la única vía entre monedas; Add/Sub nunca cruzan monedas.
func (m Money) Convert(rate decimal.Decimal, quoteCurrency string) Money {
	return FromDecimal(m.Decimal().Mul(rate), quoteCurrency)
}

// moneyJSON forma serializada: unidades menores + moneda, sin pérdida.
type moneyJSON struct {
	Units    int64  `json:"units"`
	Currency string `json:"currency"`
	Display  string `json:"display,omitempty"`
}

// MarshalJSON serializa {"units":3480,"currency":"USD","display":"34.80"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Units: m.units, Currency: m.currency, Display: m.StringFixed()})
}

// UnmarshalJSON acepta la forma serializada por MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("money: unmarshal: %w", err)
	}
	m.units = v.Units
	m.currency = v.Currency
	return nil
}

// Sum suma una lista de montos (misma moneda). Lista vacía devuelve cero de la
// moneda indicada.
func Sum(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
