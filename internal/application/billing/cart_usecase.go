package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/application/dto"
	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/pricing"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
	"github.com/smartkubik/facturacion-api/pkg/money"
)

// CartUseCase operaciones de edición y cotización del carrito. El carrito es
// propiedad de la sesión que lo edita: este caso de uso es sin estado y opera
// sobre el carrito que recibe.
type CartUseCase struct {
	catalogRepo repository.CatalogRepository
	taxes       TaxRuleProvider
	rates       ExchangeRateSource
	quoteCur    string // moneda secundaria para display (ej: VES)
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(catalogRepo repository.CatalogRepository, taxes TaxRuleProvider, rates ExchangeRateSource, quoteCurrency string) *CartUseCase {
	return &CartUseCase{catalogRepo: catalogRepo, taxes: taxes, rates: rates, quoteCur: quoteCurrency}
}

// NewCart crea un carrito vacío para la empresa y moneda dadas.
func (uc *CartUseCase) NewCart(companyID, currency string) *entity.Cart {
	return &entity.Cart{ID: uuid.New().String(), CompanyID: companyID, Currency: currency}
}

// AddLineItem resuelve un ítem contra el snapshot de catálogo del momento y lo
// agrega al carrito. Los precios los decide el servidor, nunca el cliente.
func (uc *CartUseCase) AddLineItem(ctx context.Context, cart *entity.Cart, in dto.AddLineItemRequest) error {
	if in.ProductID == "" {
		return domain.NewValidationError("productId", "")
	}
	entry, err := uc.catalogRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if entry.CompanyID != "" && entry.CompanyID != cart.CompanyID {
		return domain.ErrForbidden
	}

	modifiers := make([]entity.Modifier, 0, len(in.Modifiers))
	for _, m := range in.Modifiers {
		modifiers = append(modifiers, entity.Modifier{
			ID:              m.ID,
			Name:            m.Name,
			PriceAdjustment: money.FromDecimal(m.PriceAdjustment, cart.Currency),
			Quantity:        m.Quantity,
		})
	}

	item, err := pricing.Resolve(pricing.ResolveInput{
		Entry:          *entry,
		SelectedUnit:   in.SelectedUnit,
		Modifiers:      modifiers,
		EntryMode:      in.EntryMode,
		Quantity:       in.Quantity,
		Amount:         money.FromDecimal(in.Amount, cart.Currency),
		DiscountPct:    in.DiscountPct,
		DiscountReason: in.DiscountReason,
		Now:            time.Now(),
	})
	if err != nil {
		return err
	}
	cart.AddItem(item)
	return nil
}

// RemoveLineItem elimina la línea en la posición dada.
func (uc *CartUseCase) RemoveLineItem(cart *entity.Cart, index int) error {
	if !cart.RemoveItem(index) {
		return domain.ErrNotFound
	}
	return nil
}

// SetGeneralDiscount fija el descuento general del carrito. Porcentaje mayor
// que cero exige razón.
func (uc *CartUseCase) SetGeneralDiscount(cart *entity.Cart, pct decimal.Decimal, reason string) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return domain.NewValidationError("generalDiscountPct", "debe estar entre 0 y 100")
	}
	if pct.GreaterThan(decimal.Zero) && reason == "" {
		return domain.NewValidationError("generalDiscountReason", "requerida cuando el descuento es mayor que cero")
	}
	cart.GeneralDiscountPct = pct
	cart.GeneralDiscountReason = reason
	return nil
}

// SetPaymentMethod selecciona el método de pago. El IGTF resultante se
// recalcula completo en cada GetTotals: re-seleccionar el mismo método no lo
// duplica.
func (uc *CartUseCase) SetPaymentMethod(cart *entity.Cart, pm *entity.PaymentMethod) {
	cart.PaymentMethod = pm
}

// GetTotals agrega el carrito con las reglas de impuesto del país. Si el
// carrito aún no tiene tasa snapshot, toma la última tasa cacheada de la
// fuente; un fallo de la fuente no bloquea la cotización (solo se omite la
// conversión de display).
func (uc *CartUseCase) GetTotals(ctx context.Context, cart *entity.Cart) (entity.Totals, error) {
	if cart.ExchangeRate == nil && uc.rates != nil {
		if rate, err := uc.rates.CurrentRate(ctx, cart.Currency, uc.quoteCur); err == nil {
			cart.ExchangeRate = &rate
		}
	}
	rules := uc.taxes.ApplicableTaxes(cart.Items, cart.PaymentMethod, cart.Currency)
	return pricing.Aggregate(*cart, rules)
}

// BuildCart reconstruye un carrito del lado servidor desde la petición del
// cliente: cada línea se re-resuelve contra el catálogo.
func (uc *CartUseCase) BuildCart(ctx context.Context, companyID string, req dto.CartRequest) (*entity.Cart, error) {
	if req.Currency == "" {
		return nil, domain.NewValidationError("currency", "")
	}
	cart := uc.NewCart(companyID, req.Currency)
	for _, itemReq := range req.Items {
		if err := uc.AddLineItem(ctx, cart, itemReq); err != nil {
			return nil, err
		}
	}
	if err := uc.SetGeneralDiscount(cart, req.GeneralDiscountPct, req.GeneralDiscountReason); err != nil {
		return nil, err
	}
	if !req.ShippingCost.IsZero() {
		cart.ShippingCost = money.FromDecimal(req.ShippingCost, req.Currency)
	}
	if req.PaymentMethod != nil {
		cart.PaymentMethod = &entity.PaymentMethod{
			ID:             req.PaymentMethod.ID,
			Name:           req.PaymentMethod.Name,
			Currency:       req.PaymentMethod.Currency,
			IGTFApplicable: req.PaymentMethod.IGTFApplicable,
		}
	}
	return cart, nil
}
