package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento fiscal.
const (
	DocTypeInvoice      = "invoice"
	DocTypeCreditNote   = "credit_note"
	DocTypeDebitNote    = "debit_note"
	DocTypeDeliveryNote = "delivery_note"
)

// Estados del ciclo de vida. void solo es alcanzable desde draft o validated;
// un documento emitido jamás se anula ni se muta: se corrige con una nota de
// crédito o débito que lo referencia.
const (
	DocStatusDraft     = "draft"
	DocStatusValidated = "validated"
	DocStatusIssued    = "issued"
	DocStatusVoid      = "void"
)

// CustomerSnapshot identidad fiscal del cliente congelada en el documento.
type CustomerSnapshot struct {
	LegalName string `json:"legalName"`
	TaxID     string `json:"taxId"` // RIF
	Address   string `json:"address,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// FiscalDocument documento fiscal numerado (factura, nota de crédito/débito,
// nota de entrega). Una vez emitido, el documento y su consecutivo son
// inmutables.
type FiscalDocument struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Type      string `json:"type"`
	SeriesID  string `json:"seriesId"`

	// Number consecutivo asignado en Issue; cero mientras no esté emitido.
	Number     int64  `json:"number"`
	FullNumber string `json:"fullNumber"` // prefijo + consecutivo, ej: "FAC-00000101"

	// ControlNumber número de control fiscal asignado por la imprenta digital.
	ControlNumber string `json:"controlNumber,omitempty"`

	Status   string           `json:"status"`
	Customer CustomerSnapshot `json:"customer"`
	Items    []LineItem       `json:"items"`
	Totals   Totals           `json:"totals"`

	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`

	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // tasa estampada en la emisión

	// OrderID referencia a la orden de origen: una orden lleva a lo sumo una
	// factura. OriginalDocumentID referencia de las notas al documento corregido.
	OrderID            string `json:"orderId,omitempty"`
	OriginalDocumentID string `json:"originalDocumentId,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	VoidedAt  *time.Time `json:"voidedAt,omitempty"`
}

// IsIssued reporta si el documento ya fue emitido.
func (d *FiscalDocument) IsIssued() bool { return d.Status == DocStatusIssued }

// CanVoid reporta si la transición a void es legal desde el estado actual.
func (d *FiscalDocument) CanVoid() bool {
	return d.Status == DocStatusDraft || d.Status == DocStatusValidated
}

// IsNote reporta si el tipo requiere documento original referenciado.
func (d *FiscalDocument) IsNote() bool {
	return d.Type == DocTypeCreditNote || d.Type == DocTypeDebitNote
}

// FormatFullNumber compone el número completo con el prefijo de la serie.
func FormatFullNumber(prefix string, number int64) string {
	return fmt.Sprintf("%s-%08d", prefix, number)
}
