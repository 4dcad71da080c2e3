package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

var _ billing.TaxRuleProvider = (*VenezuelaProvider)(nil)

// Tasas vigentes del régimen venezolano (Gaceta Oficial). Se pueden pisar por
// configuración al construir el proveedor.
var (
	defaultIVARate  = decimal.NewFromInt(16)
	defaultIGTFRate = decimal.NewFromInt(3)
)

// VenezuelaProvider reglas de impuesto venezolanas: IVA por línea (16%) e
// IGTF (3%) como recargo cuando el método de pago es en divisa.
type VenezuelaProvider struct {
	ivaRate  decimal.Decimal
	igtfRate decimal.Decimal
}

// NewVenezuelaProvider construye el proveedor con las tasas vigentes.
func NewVenezuelaProvider() *VenezuelaProvider {
	return &VenezuelaProvider{ivaRate: defaultIVARate, igtfRate: defaultIGTFRate}
}

// NewVenezuelaProviderWithRates construye el proveedor con tasas explícitas
// (una reforma tributaria cambia configuración, no código).
func NewVenezuelaProviderWithRates(ivaRate, igtfRate decimal.Decimal) *VenezuelaProvider {
	return &VenezuelaProvider{ivaRate: ivaRate, igtfRate: igtfRate}
}

// ApplicableTaxes decide qué impuestos aplican a la combinación dada. El IVA
// entra si alguna línea es gravable (las líneas exentas quedan fuera de la
// base, eso lo resuelve el agregador). El IGTF entra solo si el método de
// pago lo amerita: es un recargo sobre el total, no un impuesto por línea.
func (p *VenezuelaProvider) ApplicableTaxes(items []entity.LineItem, paymentMethod *entity.PaymentMethod, _ string) []entity.TaxRule {
	var rules []entity.TaxRule
	for _, it := range items {
		if it.IVAApplicable {
			rules = append(rules, entity.TaxRule{Code: entity.TaxCodeIVA, Rate: p.ivaRate})
			break
		}
	}
	if paymentMethod != nil && paymentMethod.IGTFApplicable {
		rules = append(rules, entity.TaxRule{Code: entity.TaxCodeIGTF, Rate: p.igtfRate, Surcharge: true})
	}
	return rules
}

// DefaultRate devuelve la tasa vigente del código dado (cero si no existe).
func (p *VenezuelaProvider) DefaultRate(taxCode string) decimal.Decimal {
	switch taxCode {
	case entity.TaxCodeIVA:
		return p.ivaRate
	case entity.TaxCodeIGTF:
		return p.igtfRate
	default:
		return decimal.Zero
	}
}
