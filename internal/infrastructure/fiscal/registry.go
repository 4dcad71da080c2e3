// Package fiscal implementa los proveedores de reglas de impuesto por país.
// El país del tenant se fija por configuración en el despliegue; el registro
// existe para que agregar un segundo régimen no toque el agregador.
package fiscal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/pkg/config"
)

// ProviderFor devuelve el proveedor de reglas del país configurado. Las tasas
// de la configuración pisan las vigentes por defecto (una reforma tributaria
// cambia variables de entorno, no código).
func ProviderFor(cfg config.FiscalConfig) (billing.TaxRuleProvider, error) {
	switch strings.ToUpper(cfg.CountryCode) {
	case "VE":
		iva := rateOrDefault(cfg.IVARate, defaultIVARate)
		igtf := rateOrDefault(cfg.IGTFRate, defaultIGTFRate)
		return NewVenezuelaProviderWithRates(iva, igtf), nil
	default:
		return nil, fmt.Errorf("fiscal: país no soportado: %s", cfg.CountryCode)
	}
}

func rateOrDefault(s string, def decimal.Decimal) decimal.Decimal {
	if s == "" {
		return def
	}
	rate, err := decimal.NewFromString(s)
	if err != nil || rate.IsNegative() {
		return def
	}
	return rate
}
