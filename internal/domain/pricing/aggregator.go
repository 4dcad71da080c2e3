package pricing

import (
	"fmt"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

// Aggregate pliega las líneas del carrito más el descuento general en las
// figuras del documento. Todo en unidades menores enteras:
//
//	subtotal              = Σ(precio efectivo × cantidad)
//	descuento general     = subtotal × pct/100 (razón obligatoria si pct > 0)
//	base de cada impuesto = Σ líneas gravables, reducida proporcionalmente
//	                        por el descuento general
//	IGTF (recargo)        = (subtotal no exento con descuento + IVA) × tasa,
//	                        solo si la regla viene del proveedor del país; se
//	                        recalcula desde cero en cada agregación, de modo
//	                        que re-seleccionar el mismo método de pago nunca
//	                        lo aplica dos veces
//	total                 = subtotal con descuento + Σ impuestos + envío
//
// El orden descuento-antes-de-impuestos sigue la regla del formulario de
// órdenes; confirmar contra la normativa del SENIAT ante cualquier cambio.
func Aggregate(cart entity.Cart, rules []entity.TaxRule) (entity.Totals, error) {
	if cart.Currency == "" {
		return entity.Totals{}, domain.NewValidationError("currency", "el carrito no tiene moneda")
	}
	if err := checkDiscount(cart.GeneralDiscountPct, cart.GeneralDiscountReason); err != nil {
		return entity.Totals{}, err
	}

	currency := cart.Currency
	subtotal := money.Zero(currency)
	taxable := money.Zero(currency)   // líneas gravables con IVA
	nonExempt := money.Zero(currency) // líneas no exentas de IGTF
	var err error
	for i, item := range cart.Items {
		lineTotal := item.Total()
		if subtotal, err = subtotal.Add(lineTotal); err != nil {
			return entity.Totals{}, fmt.Errorf("línea %d: %w", i, err)
		}
		if item.IVAApplicable {
			if taxable, err = taxable.Add(lineTotal); err != nil {
				return entity.Totals{}, err
			}
		}
		if !item.IGTFExempt {
			if nonExempt, err = nonExempt.Add(lineTotal); err != nil {
				return entity.Totals{}, err
			}
		}
	}

	pct := cart.GeneralDiscountPct
	discount := subtotal.Percent(pct)
	afterDiscount, err := subtotal.Sub(discount)
	if err != nil {
		return entity.Totals{}, err
	}

	// Impuestos por línea (IVA): base reducida proporcionalmente por el
	// descuento general.
	var taxes []entity.TaxLine
	lineTaxTotal := money.Zero(currency)
	for _, rule := range rules {
		if rule.Surcharge {
			continue
		}
		base, err := taxable.Sub(taxable.Percent(pct))
		if err != nil {
			return entity.Totals{}, err
		}
		if base.IsZero() {
			continue
		}
		amount := base.Percent(rule.Rate)
		taxes = append(taxes, entity.TaxLine{Code: rule.Code, Rate: rule.Rate, Base: base, Amount: amount})
		if lineTaxTotal, err = lineTaxTotal.Add(amount); err != nil {
			return entity.Totals{}, err
		}
	}

	// Recargo por método de pago (IGTF): sobre el subtotal con descuento de
	// las líneas no exentas más el impuesto ya calculado.
	for _, rule := range rules {
		if !rule.Surcharge {
			continue
		}
		nonExemptAfter, err := nonExempt.Sub(nonExempt.Percent(pct))
		if err != nil {
			return entity.Totals{}, err
		}
		base, err := nonExemptAfter.Add(lineTaxTotal)
		if err != nil {
			return entity.Totals{}, err
		}
		if base.IsZero() {
			continue
		}
		taxes = append(taxes, entity.TaxLine{Code: rule.Code, Rate: rule.Rate, Base: base, Amount: base.Percent(rule.Rate)})
	}

	taxTotal := money.Zero(currency)
	for _, line := range taxes {
		if taxTotal, err = taxTotal.Add(line.Amount); err != nil {
			return entity.Totals{}, err
		}
	}

	shipping := cart.ShippingCost
	if shipping.Currency() == "" {
		shipping = money.Zero(currency)
	}
	grand, err := afterDiscount.Add(taxTotal)
	if err != nil {
		return entity.Totals{}, err
	}
	if grand, err = grand.Add(shipping); err != nil {
		return entity.Totals{}, err
	}

	totals := entity.Totals{
		Subtotal:              subtotal,
		GeneralDiscountPct:    pct,
		GeneralDiscountReason: cart.GeneralDiscountReason,
		GeneralDiscount:       discount,
		SubtotalAfterDiscount: afterDiscount,
		Taxes:                 taxes,
		ShippingCost:          shipping,
		GrandTotal:            grand,
	}

	// Conversión a moneda secundaria: puro display con la tasa snapshot del
	// carrito, no una tasa viva.
	if cart.ExchangeRate != nil && !cart.ExchangeRate.Rate.IsZero() {
		converted := grand.Convert(cart.ExchangeRate.Rate, cart.ExchangeRate.Quote)
		totals.ConvertedTotal = &converted
	}
	return totals, nil
}
