package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/pricing"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

func ivaRule() entity.TaxRule {
	return entity.TaxRule{Code: entity.TaxCodeIVA, Rate: decimal.NewFromInt(16)}
}

func igtfRule() entity.TaxRule {
	return entity.TaxRule{Code: entity.TaxCodeIGTF, Rate: decimal.NewFromInt(3), Surcharge: true}
}

func cartOneItem() entity.Cart {
	return entity.Cart{
		ID:        "cart-1",
		CompanyID: "co-1",
		Currency:  "USD",
		Items: []entity.LineItem{{
			EntryID:            "prod-1",
			Name:               "Harina de maíz",
			Quantity:           decimal.NewFromInt(3),
			EntryMode:          entity.EntryModeQuantity,
			OriginalUnitPrice:  money.RequireFromString("10.00", "USD"),
			EffectiveUnitPrice: money.RequireFromString("10.00", "USD"),
			IVAApplicable:      true,
		}},
	}
}

// Caso base: 1 ítem de 10.00 × 3, IVA 16% → subtotal 30.00,
// impuesto 4.80, total 34.80.
func TestAggregate_EscenarioBase(t *testing.T) {
	totals, err := pricing.Aggregate(cartOneItem(), []entity.TaxRule{ivaRule()})
	require.NoError(t, err)

	assert.Equal(t, "30.00", totals.Subtotal.StringFixed())
	require.Len(t, totals.Taxes, 1)
	assert.Equal(t, entity.TaxCodeIVA, totals.Taxes[0].Code)
	assert.Equal(t, "30.00", totals.Taxes[0].Base.StringFixed())
	assert.Equal(t, "4.80", totals.Taxes[0].Amount.StringFixed())
	assert.Equal(t, "34.80", totals.GrandTotal.StringFixed())
}

// Mismo carrito con descuento general 10% razón "promo"
// → descuento 3.00, subtotal con descuento 27.00, IVA 4.32, total 31.32.
func TestAggregate_DescuentoGeneralReduceBaseIVA(t *testing.T) {
	cart := cartOneItem()
	cart.GeneralDiscountPct = decimal.NewFromInt(10)
	cart.GeneralDiscountReason = "promo"

	totals, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule()})
	require.NoError(t, err)

	assert.Equal(t, "3.00", totals.GeneralDiscount.StringFixed())
	assert.Equal(t, "27.00", totals.SubtotalAfterDiscount.StringFixed())
	require.Len(t, totals.Taxes, 1)
	assert.Equal(t, "27.00", totals.Taxes[0].Base.StringFixed())
	assert.Equal(t, "4.32", totals.Taxes[0].Amount.StringFixed())
	assert.Equal(t, "31.32", totals.GrandTotal.StringFixed())
}

func TestAggregate_DescuentoSinRazon(t *testing.T) {
	cart := cartOneItem()
	cart.GeneralDiscountPct = decimal.NewFromInt(10)

	_, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule()})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discountReason", verr.Field)
}

// TestAggregate_IGTFSobreSubtotalMasIVA: el recargo se calcula sobre
// (subtotal con descuento + IVA), nunca dos veces aunque la regla venga en
// cada re-agregación con el mismo método de pago.
func TestAggregate_IGTFSobreSubtotalMasIVA(t *testing.T) {
	cart := cartOneItem()
	rules := []entity.TaxRule{ivaRule(), igtfRule()}

	totals, err := pricing.Aggregate(cart, rules)
	require.NoError(t, err)

	require.Len(t, totals.Taxes, 2)
	igtf := totals.Taxes[1]
	assert.Equal(t, entity.TaxCodeIGTF, igtf.Code)
	assert.Equal(t, "34.80", igtf.Base.StringFixed())
	assert.Equal(t, "1.04", igtf.Amount.StringFixed()) // 34.80 × 3% = 1.044 → 1.04
	assert.Equal(t, "35.84", totals.GrandTotal.StringFixed())

	// Re-agregar con las mismas reglas (re-selección del método) produce el
	// mismo resultado: el IGTF no se acumula.
	again, err := pricing.Aggregate(cart, rules)
	require.NoError(t, err)
	assert.Equal(t, totals.GrandTotal.Units(), again.GrandTotal.Units())
}

// TestAggregate_IGTFExcluyeItemsExentos: los ítems marcados igtfExempt no
// entran en la base del recargo.
func TestAggregate_IGTFExcluyeItemsExentos(t *testing.T) {
	cart := cartOneItem()
	cart.Items = append(cart.Items, entity.LineItem{
		EntryID:            "prod-2",
		Name:               "Medicina exenta",
		Quantity:           decimal.NewFromInt(1),
		EntryMode:          entity.EntryModeQuantity,
		EffectiveUnitPrice: money.RequireFromString("20.00", "USD"),
		IVAApplicable:      false,
		IGTFExempt:         true,
	})

	totals, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule(), igtfRule()})
	require.NoError(t, err)

	// subtotal 50.00; IVA solo sobre 30.00 = 4.80
	assert.Equal(t, "50.00", totals.Subtotal.StringFixed())
	require.Len(t, totals.Taxes, 2)
	igtf := totals.Taxes[1]
	// base IGTF = 30.00 (no exento) + 4.80 (IVA) = 34.80
	assert.Equal(t, "34.80", igtf.Base.StringFixed())
}

func TestAggregate_SinReglaIGTFNoHayRecargo(t *testing.T) {
	totals, err := pricing.Aggregate(cartOneItem(), []entity.TaxRule{ivaRule()})
	require.NoError(t, err)
	for _, tax := range totals.Taxes {
		assert.NotEqual(t, entity.TaxCodeIGTF, tax.Code)
	}
}

// Identidad de totales: subtotal − descuento + Σimpuestos + envío = total,
// exacto en unidades menores enteras.
func TestAggregate_IdentidadEnterosExacta(t *testing.T) {
	cart := cartOneItem()
	cart.GeneralDiscountPct = decimal.RequireFromString("7.5")
	cart.GeneralDiscountReason = "convenio"
	cart.ShippingCost = money.RequireFromString("2.35", "USD")
	cart.Items = append(cart.Items, entity.LineItem{
		EntryID:            "prod-3",
		Quantity:           decimal.RequireFromString("1.333"),
		EntryMode:          entity.EntryModeQuantity,
		EffectiveUnitPrice: money.RequireFromString("7.77", "USD"),
		IVAApplicable:      true,
		SoldByWeight:       true,
	})

	totals, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule(), igtfRule()})
	require.NoError(t, err)

	sum := totals.SubtotalAfterDiscount.Units()
	for _, tax := range totals.Taxes {
		sum += tax.Amount.Units()
	}
	sum += totals.ShippingCost.Units()
	assert.Equal(t, totals.GrandTotal.Units(), sum, "identidad en unidades menores sin residuo")

	afterDiscount := totals.Subtotal.Units() - totals.GeneralDiscount.Units()
	assert.Equal(t, totals.SubtotalAfterDiscount.Units(), afterDiscount)
}

// TestAggregate_ConversionConTasaSnapshot: el total convertido usa la tasa
// capturada en el carrito, no una tasa viva.
func TestAggregate_ConversionConTasaSnapshot(t *testing.T) {
	cart := cartOneItem()
	cart.ExchangeRate = &entity.ExchangeRate{
		Base:  "USD",
		Quote: "VES",
		Rate:  decimal.RequireFromString("36.50"),
	}

	totals, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule()})
	require.NoError(t, err)

	require.NotNil(t, totals.ConvertedTotal)
	assert.Equal(t, "VES", totals.ConvertedTotal.Currency())
	// 34.80 × 36.50 = 1270.20
	assert.Equal(t, "1270.20", totals.ConvertedTotal.StringFixed())
}

func TestAggregate_MonedasMezcladasEsFatal(t *testing.T) {
	cart := cartOneItem()
	cart.Items = append(cart.Items, entity.LineItem{
		EntryID:            "prod-ves",
		Quantity:           decimal.NewFromInt(1),
		EffectiveUnitPrice: money.RequireFromString("100.00", "VES"),
	})
	_, err := pricing.Aggregate(cart, []entity.TaxRule{ivaRule()})
	require.Error(t, err)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestAggregate_CarritoVacio(t *testing.T) {
	totals, err := pricing.Aggregate(entity.Cart{Currency: "USD"}, []entity.TaxRule{ivaRule()})
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.GrandTotal.Units())
	assert.Empty(t, totals.Taxes)
}
