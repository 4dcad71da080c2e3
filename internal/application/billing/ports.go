package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

// TaxRuleProvider capacidad del "plugin de país": decide qué impuestos aplican
// a una combinación de líneas, método de pago y moneda. Se selecciona por
// tenant vía configuración, no por shape-matching en runtime.
type TaxRuleProvider interface {
	ApplicableTaxes(items []entity.LineItem, paymentMethod *entity.PaymentMethod, currency string) []entity.TaxRule
	DefaultRate(taxCode string) decimal.Decimal
}

// ExchangeRateSource fuente de tasa de cambio. Se consulta por intervalo (la
// implementación cachea), jamás por cálculo de línea.
type ExchangeRateSource interface {
	CurrentRate(ctx context.Context, base, quote string) (entity.ExchangeRate, error)
}

// ControlNumberProvider imprenta digital: asigna el número de control fiscal
// de un documento ya emitido. Opcional (nil en dev).
type ControlNumberProvider interface {
	RequestControlNumber(ctx context.Context, doc *entity.FiscalDocument) (string, error)
}

// DocumentPDFGenerator genera la representación gráfica del documento fiscal.
type DocumentPDFGenerator interface {
	Generate(ctx context.Context, doc *entity.FiscalDocument, issuer IssuerInfo) ([]byte, error)
}

// IssuerInfo datos del emisor para la representación gráfica.
type IssuerInfo struct {
	Name    string
	RIF     string
	Address string
	Phone   string
	Email   string
}

// IssuanceTxRunner ejecuta fn dentro de una transacción con los repositorios
// de serie y documento atados a la tx. Es el único límite transaccional del
// subsistema: incremento del consecutivo + flip de estado, nada más lento.
type IssuanceTxRunner interface {
	RunIssuance(ctx context.Context, fn func(
		seriesRepo repository.FiscalSeriesRepository,
		docRepo repository.FiscalDocumentRepository,
	) error) error
}
