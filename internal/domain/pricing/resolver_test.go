package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/pricing"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func baseEntry() entity.CatalogEntry {
	return entity.CatalogEntry{
		ID:            "prod-1",
		SKU:           "HAR-001",
		Name:          "Harina de maíz",
		BasePrice:     money.RequireFromString("10.00", "USD"),
		IVAApplicable: true,
	}
}

func weightEntry() entity.CatalogEntry {
	return entity.CatalogEntry{
		ID:           "prod-2",
		SKU:          "QUE-001",
		Name:         "Queso llanero",
		BasePrice:    money.RequireFromString("7.50", "USD"),
		SoldByWeight: true,
		SellingUnits: []entity.SellingUnit{
			{Abbreviation: "kg", Name: "Kilogramo", PricePerUnit: money.RequireFromString("7.50", "USD"),
				MinimumQuantity: decimal.RequireFromString("0.250"), ConversionFactor: decimal.NewFromInt(1)},
			{Abbreviation: "g", Name: "Gramo", PricePerUnit: money.RequireFromString("0.01", "USD"),
				ConversionFactor: decimal.RequireFromString("0.001")},
		},
	}
}

func TestResolve_PrecioBaseSinExtras(t *testing.T) {
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:    baseEntry(),
		Quantity: decimal.NewFromInt(3),
		Now:      testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", item.EffectiveUnitPrice.StringFixed())
	assert.Equal(t, "10.00", item.OriginalUnitPrice.StringFixed())
	assert.Equal(t, "30.00", item.Total().StringFixed())
}

// TestResolve_PromocionAntesDeModificadores: la promoción rebaja el precio
// base ANTES de sumar modificadores, y el precio original queda en la línea.
func TestResolve_PromocionAntesDeModificadores(t *testing.T) {
	entry := baseEntry()
	entry.Promotion = &entity.Promotion{
		DiscountPct: decimal.NewFromInt(20),
		ValidFrom:   testNow.Add(-24 * time.Hour),
		ValidUntil:  testNow.Add(24 * time.Hour),
	}
	mods := []entity.Modifier{
		{ID: "m1", Name: "Extra queso", PriceAdjustment: money.RequireFromString("1.50", "USD"), Quantity: decimal.NewFromInt(2)},
	}
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:     entry,
		Modifiers: mods,
		Quantity:  decimal.NewFromInt(1),
		Now:       testNow,
	})
	require.NoError(t, err)
	// 10.00 - 20% = 8.00; + (1.50 × 2) = 11.00
	assert.Equal(t, "11.00", item.EffectiveUnitPrice.StringFixed())
	assert.Equal(t, "10.00", item.OriginalUnitPrice.StringFixed(), "el precio de lista se conserva para auditoría")
	assert.True(t, item.PromotionPct.Equal(decimal.NewFromInt(20)))
}

func TestResolve_PromocionVencidaNoAplica(t *testing.T) {
	entry := baseEntry()
	entry.Promotion = &entity.Promotion{
		DiscountPct: decimal.NewFromInt(50),
		ValidFrom:   testNow.Add(-48 * time.Hour),
		ValidUntil:  testNow.Add(-24 * time.Hour),
	}
	item, err := pricing.Resolve(pricing.ResolveInput{Entry: entry, Quantity: decimal.NewFromInt(1), Now: testNow})
	require.NoError(t, err)
	assert.Equal(t, "10.00", item.EffectiveUnitPrice.StringFixed())
	assert.True(t, item.PromotionPct.IsZero())
}

// Descuento de ítem 5% con razón vacía → ValidationError.
func TestResolve_DescuentoSinRazon(t *testing.T) {
	_, err := pricing.Resolve(pricing.ResolveInput{
		Entry:       baseEntry(),
		Quantity:    decimal.NewFromInt(1),
		DiscountPct: decimal.NewFromInt(5),
		Now:         testNow,
	})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discountReason", verr.Field)
}

func TestResolve_DescuentoConRazon(t *testing.T) {
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:          baseEntry(),
		Quantity:       decimal.NewFromInt(2),
		DiscountPct:    decimal.NewFromInt(10),
		DiscountReason: "cliente frecuente",
		Now:            testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "9.00", item.EffectiveUnitPrice.StringFixed())
}

func TestResolve_UnidadSeleccionada(t *testing.T) {
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:        weightEntry(),
		SelectedUnit: "kg",
		Quantity:     decimal.RequireFromString("1.500"),
		Now:          testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "7.50", item.EffectiveUnitPrice.StringFixed())
	assert.Equal(t, "11.25", item.Total().StringFixed())
}

func TestResolve_UnidadDesconocida(t *testing.T) {
	_, err := pricing.Resolve(pricing.ResolveInput{
		Entry:        weightEntry(),
		SelectedUnit: "lb",
		Quantity:     decimal.NewFromInt(1),
		Now:          testNow,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "selectedUnit", verr.Field)
}

func TestResolve_CantidadMinimaDeUnidad(t *testing.T) {
	_, err := pricing.Resolve(pricing.ResolveInput{
		Entry:        weightEntry(),
		SelectedUnit: "kg",
		Quantity:     decimal.RequireFromString("0.100"), // mínimo 0.250
		Now:          testNow,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)
}

// TestResolve_ModoMonto: para un producto pesado, entrar por monto deriva la
// cantidad al precio efectivo con redondeo half-up a 3 decimales.
func TestResolve_ModoMonto(t *testing.T) {
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:        weightEntry(),
		SelectedUnit: "kg",
		EntryMode:    entity.EntryModeAmount,
		Amount:       money.RequireFromString("5.00", "USD"),
		Now:          testNow,
	})
	require.NoError(t, err)
	// 5.00 / 7.50 = 0.6666... -> 0.667
	assert.Equal(t, "0.667", item.Quantity.StringFixed(3))
}

// Alternar monto↔cantidad sin otras ediciones regresa
// la cantidad a menos de una unidad de redondeo del original (converge, no
// deriva).
func TestResolve_AlternarModoConverge(t *testing.T) {
	price := money.RequireFromString("7.50", "USD")
	qty0 := decimal.RequireFromString("1.333")

	amount := pricing.AmountForQuantity(qty0, price)
	qty1, err := pricing.QuantityForAmount(amount, price, true)
	require.NoError(t, err)

	diff := qty1.Sub(qty0).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.001")),
		"cantidad re-derivada %s debe estar a una unidad de redondeo de %s", qty1, qty0)

	// Una segunda vuelta ya no se mueve.
	amount2 := pricing.AmountForQuantity(qty1, price)
	qty2, err := pricing.QuantityForAmount(amount2, price, true)
	require.NoError(t, err)
	assert.True(t, qty2.Equal(qty1), "la segunda vuelta debe ser un punto fijo")
}

// TestSwitchUnit_ModoMonto: cambiar de unidad en modo monto re-deriva la
// cantidad desde el monto capturado al precio de la unidad nueva.
func TestSwitchUnit_ModoMonto(t *testing.T) {
	entry := weightEntry()
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:        entry,
		SelectedUnit: "kg",
		EntryMode:    entity.EntryModeAmount,
		Amount:       money.RequireFromString("7.50", "USD"),
		Now:          testNow,
	})
	require.NoError(t, err)
	require.Equal(t, "1.000", item.Quantity.StringFixed(3))

	require.NoError(t, pricing.SwitchUnit(&item, entry, "g", testNow))
	assert.Equal(t, "g", item.SelectedUnit)
	assert.Equal(t, "0.01", item.EffectiveUnitPrice.StringFixed())
	// 7.50 / 0.01 = 750 gramos
	assert.Equal(t, "750.000", item.Quantity.StringFixed(3))
}

func TestResolve_CantidadCero(t *testing.T) {
	_, err := pricing.Resolve(pricing.ResolveInput{Entry: baseEntry(), Quantity: decimal.Zero, Now: testNow})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)
}

// Invariante del resolutor: precio efectivo = base(tras promoción) + Σajustes −
// descuento del ítem, verificado con todas las piezas presentes a la vez.
func TestResolve_InvarianteCompleta(t *testing.T) {
	entry := baseEntry()
	entry.Promotion = &entity.Promotion{
		DiscountPct: decimal.NewFromInt(10),
		ValidFrom:   testNow.Add(-time.Hour),
		ValidUntil:  testNow.Add(time.Hour),
	}
	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry: entry,
		Modifiers: []entity.Modifier{
			{Name: "Tocineta", PriceAdjustment: money.RequireFromString("2.00", "USD"), Quantity: decimal.NewFromInt(1)},
			{Name: "Sin servilletas", PriceAdjustment: money.RequireFromString("-0.50", "USD"), Quantity: decimal.NewFromInt(1)},
		},
		Quantity:       decimal.NewFromInt(1),
		DiscountPct:    decimal.NewFromInt(5),
		DiscountReason: "promo caja",
		Now:            testNow,
	})
	require.NoError(t, err)
	// base 10.00 -10% = 9.00; +2.00 -0.50 = 10.50; -5% (0.53 half-up) = 9.97
	assert.Equal(t, "9.97", item.EffectiveUnitPrice.StringFixed())
}
