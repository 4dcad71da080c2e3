package entity

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/pkg/money"
)

// Cart carrito mutable propiedad exclusiva de la sesión que lo edita. No es un
// registro fiscal: se consume exactamente una vez al crear el borrador del
// documento y se descarta. Un documento nuevo requiere un carrito nuevo.
type Cart struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Currency  string `json:"currency"`

	Items []LineItem `json:"items"`

	GeneralDiscountPct    decimal.Decimal `json:"generalDiscountPct"`
	GeneralDiscountReason string          `json:"generalDiscountReason,omitempty"`

	// ShippingCost insumo externo pre-calculado; el agregador no lo recalcula.
	ShippingCost money.Money `json:"shippingCost"`

	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`

	// ExchangeRate último snapshot de tasa consumido por el agregador. El
	// orquestador lo re-snapshotea en Validate; desde ahí el valor es estable.
	ExchangeRate *ExchangeRate `json:"exchangeRate,omitempty"`
}

// AddItem agrega una línea al final (el orden se preserva en el documento).
func (c *Cart) AddItem(item LineItem) {
	c.Items = append(c.Items, item)
}

// RemoveItem elimina la línea en la posición dada. Retorna false si el índice
// está fuera de rango.
func (c *Cart) RemoveItem(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return true
}
