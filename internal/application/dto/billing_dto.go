package dto

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

// ModifierRequest modificador adjunto a una línea.
type ModifierRequest struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// AddLineItemRequest alta de línea en el carrito. En modo "amount" se envía
// Amount y la cantidad se deriva; en modo "quantity" (default) se envía
// Quantity.
type AddLineItemRequest struct {
	ProductID      string            `json:"productId"`
	SelectedUnit   string            `json:"selectedUnit,omitempty"`
	EntryMode      string            `json:"entryMode,omitempty"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Amount         decimal.Decimal   `json:"amount"`
	Modifiers      []ModifierRequest `json:"modifiers,omitempty"`
	DiscountPct    decimal.Decimal   `json:"discountPct"`
	DiscountReason string            `json:"discountReason,omitempty"`
}

// PaymentMethodRequest método de pago seleccionado.
type PaymentMethodRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	IGTFApplicable bool   `json:"igtfApplicable"`
}

// CartRequest carrito completo enviado por el cliente para cotizar totales o
// crear un borrador. El servidor re-resuelve cada línea contra el catálogo:
// los precios del cliente nunca se aceptan a ciegas.
type CartRequest struct {
	Currency              string                `json:"currency"`
	Items                 []AddLineItemRequest  `json:"items"`
	GeneralDiscountPct    decimal.Decimal       `json:"generalDiscountPct"`
	GeneralDiscountReason string                `json:"generalDiscountReason,omitempty"`
	ShippingCost          decimal.Decimal       `json:"shippingCost"`
	PaymentMethod         *PaymentMethodRequest `json:"paymentMethod,omitempty"`
}

// CustomerRequest identidad fiscal del cliente para el documento.
type CustomerRequest struct {
	LegalName string `json:"legalName"`
	TaxID     string `json:"taxId"`
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CreateDocumentRequest creación de borrador de documento fiscal.
type CreateDocumentRequest struct {
	Type               string          `json:"type"` // invoice por defecto
	SeriesID           string          `json:"seriesId,omitempty"`
	OrderID            string          `json:"orderId,omitempty"`
	OriginalDocumentID string          `json:"originalDocumentId,omitempty"`
	Cart               CartRequest     `json:"cart"`
	Customer           CustomerRequest `json:"customer"`
}

// DocumentResponse documento fiscal serializado hacia el cliente.
type DocumentResponse struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Status        string                  `json:"status"`
	SeriesID      string                  `json:"seriesId"`
	FullNumber    string                  `json:"fullNumber,omitempty"`
	ControlNumber string                  `json:"controlNumber,omitempty"`
	Customer      entity.CustomerSnapshot `json:"customer"`
	Items         []entity.LineItem       `json:"items"`
	Totals        entity.Totals           `json:"totals"`
	Currency      string                  `json:"currency"`
	ExchangeRate  decimal.Decimal         `json:"exchangeRate"`
	OrderID       string                  `json:"orderId,omitempty"`
	OriginalID    string                  `json:"originalDocumentId,omitempty"`
	CreatedAt     string                  `json:"createdAt"`
	IssuedAt      string                  `json:"issuedAt,omitempty"`
}

// NewDocumentResponse mapea la entidad a la respuesta.
func NewDocumentResponse(doc *entity.FiscalDocument) *DocumentResponse {
	resp := &DocumentResponse{
		ID:            doc.ID,
		Type:          doc.Type,
		Status:        doc.Status,
		SeriesID:      doc.SeriesID,
		FullNumber:    doc.FullNumber,
		ControlNumber: doc.ControlNumber,
		Customer:      doc.Customer,
		Items:         doc.Items,
		Totals:        doc.Totals,
		Currency:      doc.Currency,
		ExchangeRate:  doc.ExchangeRate,
		OrderID:       doc.OrderID,
		OriginalID:    doc.OriginalDocumentID,
		CreatedAt:     doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if doc.IssuedAt != nil {
		resp.IssuedAt = doc.IssuedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// CreateSeriesRequest alta de serie de numeración.
type CreateSeriesRequest struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Prefix    string `json:"prefix"`
	IsDefault bool   `json:"isDefault"`
}

// SeriesResponse serie serializada hacia el cliente.
type SeriesResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Prefix        string `json:"prefix"`
	CurrentNumber int64  `json:"currentNumber"`
	IsDefault     bool   `json:"isDefault"`
	IsActive      bool   `json:"isActive"`
}

// NewSeriesResponse mapea la entidad a la respuesta.
func NewSeriesResponse(s *entity.FiscalSeries) SeriesResponse {
	return SeriesResponse{
		ID:            s.ID,
		Type:          s.Type,
		Name:          s.Name,
		Prefix:        s.Prefix,
		CurrentNumber: s.CurrentNumber,
		IsDefault:     s.IsDefault,
		IsActive:      s.IsActive,
	}
}
