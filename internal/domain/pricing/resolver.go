// Package pricing contiene los servicios de dominio puros del motor de
// precios: resolución de líneas (unidades, promociones, modificadores,
// descuentos) y agregación de totales del carrito. Sin dependencias de
// framework ni de persistencia.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

// WeightPrecision decimales de cantidad para productos pesados (kg con gramos).
// Los productos por conteo usan cantidad entera.
const WeightPrecision = 3

// ResolveInput parámetros para resolver una línea de carrito.
type ResolveInput struct {
	Entry        entity.CatalogEntry
	SelectedUnit string
	Modifiers    []entity.Modifier
	EntryMode    string          // EntryModeQuantity (default) o EntryModeAmount
	Quantity     decimal.Decimal // modo cantidad
	Amount       money.Money     // modo monto: la cantidad se deriva

	DiscountPct    decimal.Decimal
	DiscountReason string

	Now time.Time
}

// Resolve calcula el precio unitario efectivo y la cantidad de una línea:
//
//  1. Precio base de la unidad seleccionada (o precio base del producto).
//  2. Promoción vigente: rebaja porcentual antes de modificadores; el precio
//     original se conserva en la línea para auditoría.
//  3. Modificadores: Σ(ajuste × cantidad del modificador), aditivo.
//  4. Descuento de ítem: porcentaje sobre el precio pre-descuento; pct > 0
//     exige razón no vacía.
//  5. Modo monto: cantidad = monto / precio efectivo, redondeo half-up a la
//     precisión configurada (la misma regla en ambos sentidos, para que
//     alternar de modo converja en vez de derivar).
func Resolve(in ResolveInput) (entity.LineItem, error) {
	mode := in.EntryMode
	if mode == "" {
		mode = entity.EntryModeQuantity
	}
	if mode != entity.EntryModeQuantity && mode != entity.EntryModeAmount {
		return entity.LineItem{}, domain.NewValidationError("entryMode", "modo desconocido: "+mode)
	}

	// Precio base según unidad seleccionada
	base := in.Entry.BasePrice
	var unit *entity.SellingUnit
	if in.SelectedUnit != "" {
		unit = in.Entry.UnitByAbbreviation(in.SelectedUnit)
		if unit == nil {
			return entity.LineItem{}, domain.NewValidationError("selectedUnit", "unidad no definida para el producto: "+in.SelectedUnit)
		}
		base = unit.PricePerUnit
	}
	original := base

	// Promoción vigente antes de modificadores
	promoPct := decimal.Zero
	if in.Entry.Promotion.ActiveAt(in.Now) {
		promoPct = in.Entry.Promotion.DiscountPct
		promoted, err := base.Sub(base.Percent(promoPct))
		if err != nil {
			return entity.LineItem{}, err
		}
		base = promoted
	}

	// Modificadores: ajuste × cantidad, sumados al precio (ya con promoción)
	preDiscount := base
	for _, m := range in.Modifiers {
		qty := m.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		adjusted, err := preDiscount.Add(m.PriceAdjustment.MulQuantity(qty))
		if err != nil {
			return entity.LineItem{}, fmt.Errorf("modificador %q: %w", m.Name, err)
		}
		preDiscount = adjusted
	}

	// Descuento de ítem
	if err := checkDiscount(in.DiscountPct, in.DiscountReason); err != nil {
		return entity.LineItem{}, err
	}
	effective, err := preDiscount.Sub(preDiscount.Percent(in.DiscountPct))
	if err != nil {
		return entity.LineItem{}, err
	}

	// Cantidad según modo de entrada
	qty := in.Quantity
	if mode == entity.EntryModeAmount {
		qty, err = QuantityForAmount(in.Amount, effective, in.Entry.SoldByWeight)
		if err != nil {
			return entity.LineItem{}, err
		}
	}
	if !qty.GreaterThan(decimal.Zero) {
		return entity.LineItem{}, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if unit != nil && unit.MinimumQuantity.GreaterThan(decimal.Zero) && qty.LessThan(unit.MinimumQuantity) {
		return entity.LineItem{}, domain.NewValidationError("quantity",
			fmt.Sprintf("mínimo %s para la unidad %s", unit.MinimumQuantity.String(), unit.Abbreviation))
	}

	return entity.LineItem{
		EntryID:            in.Entry.ID,
		SKU:                in.Entry.SKU,
		Name:               in.Entry.Name,
		Quantity:           qty,
		SelectedUnit:       in.SelectedUnit,
		EntryMode:          mode,
		OriginalUnitPrice:  original,
		EffectiveUnitPrice: effective,
		Modifiers:          in.Modifiers,
		PromotionPct:       promoPct,
		DiscountPct:        in.DiscountPct,
		DiscountReason:     in.DiscountReason,
		IVAApplicable:      in.Entry.IVAApplicable,
		IGTFExempt:         in.Entry.IGTFExempt,
		SoldByWeight:       in.Entry.SoldByWeight,
	}, nil
}

// QuantityForAmount deriva la cantidad desde un monto objetivo al precio
// unitario efectivo: cantidad = monto / precio, half-up a 3 decimales para
// productos pesados y a entero para productos por conteo.
func QuantityForAmount(amount, unitPrice money.Money, soldByWeight bool) (decimal.Decimal, error) {
	if unitPrice.IsZero() {
		return decimal.Zero, domain.NewValidationError("amount", "precio unitario cero: no se puede derivar cantidad")
	}
	if amount.Currency() != unitPrice.Currency() {
		return decimal.Zero, fmt.Errorf("derivar cantidad: %w", money.ErrCurrencyMismatch)
	}
	prec := int32(0)
	if soldByWeight {
		prec = WeightPrecision
	}
	return amount.Decimal().Div(unitPrice.Decimal()).Round(prec), nil
}

// AmountForQuantity deriva el monto desde la cantidad: la otra dirección del
// modo de entrada dual, con la misma regla de redondeo.
func AmountForQuantity(qty decimal.Decimal, unitPrice money.Money) money.Money {
	return unitPrice.MulQuantity(qty)
}

// SwitchUnit cambia la unidad seleccionada de una línea: recalcula el precio
// efectivo desde la lista de precios de la nueva unidad y, si la línea está en
// modo monto, re-deriva la cantidad desde el monto previamente capturado al
// precio nuevo.
func SwitchUnit(item *entity.LineItem, entry entity.CatalogEntry, newUnit string, now time.Time) error {
	in := ResolveInput{
		Entry:          entry,
		SelectedUnit:   newUnit,
		Modifiers:      item.Modifiers,
		EntryMode:      item.EntryMode,
		Quantity:       item.Quantity,
		DiscountPct:    item.DiscountPct,
		DiscountReason: item.DiscountReason,
		Now:            now,
	}
	if item.EntryMode == entity.EntryModeAmount {
		in.Amount = item.Total()
	}
	resolved, err := Resolve(in)
	if err != nil {
		return err
	}
	*item = resolved
	return nil
}

func checkDiscount(pct decimal.Decimal, reason string) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return domain.NewValidationError("discountPct", "debe estar entre 0 y 100")
	}
	if pct.GreaterThan(decimal.Zero) && reason == "" {
		return domain.NewValidationError("discountReason", "requerida cuando el descuento es mayor que cero")
	}
	return nil
}
