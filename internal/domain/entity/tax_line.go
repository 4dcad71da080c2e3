package entity

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

// Códigos de impuesto del régimen venezolano.
const (
	TaxCodeIVA  = "IVA"  // Impuesto al Valor Agregado (16%)
	TaxCodeIGTF = "IGTF" // Impuesto a las Grandes Transacciones Financieras (3%)
)

// TaxRule regla de impuesto aplicable devuelta por el proveedor de reglas
// del país. Surcharge distingue el recargo por método de pago (IGTF), cuya
// base es subtotal-con-descuento + IVA, de los impuestos por línea (IVA).
type TaxRule struct {
	Code      string          `json:"code"`
	Rate      decimal.Decimal `json:"rate"` // porcentaje: 16, no 0.16
	Surcharge bool            `json:"surcharge"`
}

// TaxLine impuesto calculado de un documento: base y monto ya resueltos.
type TaxLine struct {
	Code   string          `json:"code"`
	Rate   decimal.Decimal `json:"rate"`
	Base   money.Money     `json:"base"`
	Amount money.Money     `json:"amount"`
}

// Totals figuras agregadas de un carrito, congeladas después en el documento.
type Totals struct {
	Subtotal              money.Money `json:"subtotal"`
	GeneralDiscountPct    decimal.Decimal `json:"generalDiscountPct"`
	GeneralDiscountReason string          `json:"generalDiscountReason,omitempty"`
	GeneralDiscount       money.Money `json:"generalDiscount"`
	SubtotalAfterDiscount money.Money `json:"subtotalAfterDiscount"`
	Taxes                 []TaxLine   `json:"taxes"`
	ShippingCost          money.Money `json:"shippingCost"`
	GrandTotal            money.Money `json:"grandTotal"`

	// ConvertedTotal total re-expresado en la moneda secundaria con la tasa
	// snapshot del carrito (operación de display, nunca de cálculo).
	ConvertedTotal *money.Money `json:"convertedTotal,omitempty"`
}

// TaxTotal suma de todos los montos de impuesto.
func (t Totals) TaxTotal() money.Money {
	total := money.Zero(t.Subtotal.Currency())
	for _, line := range t.Taxes {
		total, _ = total.Add(line.Amount)
	}
	return total
}
