package entity

// PaymentMethod método de pago seleccionado para la transacción. IGTFApplicable
// lo decide la política del país (ej: efectivo o Zelle en USD lo causan,
// pago móvil en VES no).
type PaymentMethod struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	IGTFApplicable bool   `json:"igtfApplicable"`
}
