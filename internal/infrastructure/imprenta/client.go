// Package imprenta integra la imprenta digital autorizada que asigna los
// números de control fiscal. La llamada ocurre después del commit de la
// emisión: el documento es válido sin número de control y se completa
// cuando la imprenta responde.
package imprenta

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

var _ billing.ControlNumberProvider = (*Client)(nil)

// Client cliente HTTP de la imprenta digital.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente con la URL y credencial del proveedor.
func NewClient(baseURL, apiKey string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		SetHeader("X-Api-Key", apiKey)
	return &Client{http: httpClient}
}

type controlRequest struct {
	DocumentID string `json:"documentId"`
	Type       string `json:"type"`
	FullNumber string `json:"fullNumber"`
	IssuedAt   string `json:"issuedAt"`
	TaxID      string `json:"taxId"`
	GrandTotal string `json:"grandTotal"`
	Currency   string `json:"currency"`
}

type controlResponse struct {
	ControlNumber string `json:"controlNumber"`
}

// RequestControlNumber solicita el número de control de un documento emitido.
func (c *Client) RequestControlNumber(ctx context.Context, doc *entity.FiscalDocument) (string, error) {
	req := controlRequest{
		DocumentID: doc.ID,
		Type:       doc.Type,
		FullNumber: doc.FullNumber,
		TaxID:      doc.Customer.TaxID,
		GrandTotal: doc.Totals.GrandTotal.String(),
		Currency:   doc.Currency,
	}
	if doc.IssuedAt != nil {
		req.IssuedAt = doc.IssuedAt.UTC().Format(time.RFC3339)
	}

	var body controlResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/control-numbers")
	if err != nil {
		return "", fmt.Errorf("imprenta: solicitar número de control: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("imprenta: solicitar número de control: status %d", resp.StatusCode())
	}
	if body.ControlNumber == "" {
		return "", fmt.Errorf("imprenta: respuesta sin número de control")
	}
	return body.ControlNumber, nil
}
