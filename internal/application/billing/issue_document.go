package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/pricing"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
	"github.com/smartkubik/facturacion-api/pkg/logger"
)

// IssueDocumentUseCase orquesta el ciclo de vida del documento fiscal:
// draft → validated → issued, con void alcanzable solo desde draft/validated.
// Un documento emitido es inmutable; se corrige con notas de crédito/débito.
type IssueDocumentUseCase struct {
	txRunner   IssuanceTxRunner
	docRepo    repository.FiscalDocumentRepository
	seriesRepo repository.FiscalSeriesRepository
	taxes      TaxRuleProvider
	rates      ExchangeRateSource
	control    ControlNumberProvider // nil = sin imprenta digital (dev)
	log        *logger.Logger
	quoteCur   string
}

// NewIssueDocumentUseCase construye el orquestador.
func NewIssueDocumentUseCase(
	txRunner IssuanceTxRunner,
	docRepo repository.FiscalDocumentRepository,
	seriesRepo repository.FiscalSeriesRepository,
	taxes TaxRuleProvider,
	rates ExchangeRateSource,
	control ControlNumberProvider,
	log *logger.Logger,
	quoteCurrency string,
) *IssueDocumentUseCase {
	return &IssueDocumentUseCase{
		txRunner:   txRunner,
		docRepo:    docRepo,
		seriesRepo: seriesRepo,
		taxes:      taxes,
		rates:      rates,
		control:    control,
		log:        log,
		quoteCur:   quoteCurrency,
	}
}

// DraftOptions parámetros de creación del borrador.
type DraftOptions struct {
	Type               string // invoice por defecto
	SeriesID           string // vacío = serie por defecto del tipo
	OrderID            string
	OriginalDocumentID string // obligatorio para notas de crédito/débito
}

// CreateDraft compone el borrador desde el carrito agregado: valida campos
// fiscales requeridos, resuelve la serie, congela líneas y totales. Nada se
// persiste si alguna validación falla.
func (uc *IssueDocumentUseCase) CreateDraft(ctx context.Context, cart *entity.Cart, customer entity.CustomerSnapshot, opts DraftOptions) (*entity.FiscalDocument, error) {
	docType := opts.Type
	if docType == "" {
		docType = entity.DocTypeInvoice
	}
	switch docType {
	case entity.DocTypeInvoice, entity.DocTypeCreditNote, entity.DocTypeDebitNote, entity.DocTypeDeliveryNote:
	default:
		return nil, domain.NewValidationError("type", "tipo de documento desconocido: "+docType)
	}
	if customer.LegalName == "" {
		return nil, domain.NewValidationError("customer.legalName", "")
	}
	if customer.TaxID == "" {
		return nil, domain.NewValidationError("customer.taxId", "")
	}
	if len(cart.Items) == 0 {
		return nil, domain.NewValidationError("items", "el documento requiere al menos una línea")
	}

	// Notas: siempre referencian un documento original emitido.
	if docType == entity.DocTypeCreditNote || docType == entity.DocTypeDebitNote {
		if opts.OriginalDocumentID == "" {
			return nil, domain.NewValidationError("originalDocumentId", "las notas requieren documento original referenciado")
		}
		original, err := uc.docRepo.GetByID(ctx, opts.OriginalDocumentID)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, domain.ErrNotFound
		}
		if !original.IsIssued() {
			return nil, fmt.Errorf("%w: el documento original no está emitido", domain.ErrConflict)
		}
	}

	series, err := uc.resolveSeries(ctx, cart.CompanyID, docType, opts.SeriesID)
	if err != nil {
		return nil, err
	}

	// Una orden lleva a lo sumo una factura: un borrador existente se
	// retoma (idempotencia ante reintentos); uno validado/emitido bloquea.
	if docType == entity.DocTypeInvoice && opts.OrderID != "" {
		existing, err := uc.docRepo.GetByOrderID(ctx, cart.CompanyID, opts.OrderID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status != entity.DocStatusVoid {
			if existing.Status != entity.DocStatusDraft {
				return nil, fmt.Errorf("%w: la orden %s ya tiene el documento %s", domain.ErrConflict, opts.OrderID, existing.FullNumber)
			}
			return uc.resumeDraft(ctx, existing, cart, customer)
		}
	}

	totals, err := uc.aggregate(ctx, cart)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &entity.FiscalDocument{
		ID:                 uuid.New().String(),
		CompanyID:          cart.CompanyID,
		Type:               docType,
		SeriesID:           series.ID,
		Status:             entity.DocStatusDraft,
		Customer:           customer,
		Items:              cart.Items,
		Totals:             totals,
		PaymentMethod:      cart.PaymentMethod,
		Currency:           cart.Currency,
		OrderID:            opts.OrderID,
		OriginalDocumentID: opts.OriginalDocumentID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if cart.ExchangeRate != nil {
		doc.ExchangeRate = cart.ExchangeRate.Rate
	}
	if err := uc.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate re-ejecuta la agregación contra el snapshot congelado de líneas
// (no contra un carrito vivo) para garantizar que lo que se va a emitir
// coincide con lo último que vio el usuario. Un desacuerdo es
// ConsistencyError: estado stale, no entrada inválida. Aquí se re-snapshotea
// la tasa de cambio; desde este punto el valor que estampará Issue es estable.
func (uc *IssueDocumentUseCase) Validate(ctx context.Context, companyID, docID string) (*entity.FiscalDocument, error) {
	doc, err := uc.getOwned(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status == entity.DocStatusValidated {
		return doc, nil
	}
	if doc.Status != entity.DocStatusDraft {
		return nil, fmt.Errorf("%w: no se puede validar un documento %s", domain.ErrConflict, doc.Status)
	}

	frozen := uc.cartFromSnapshot(doc)
	recomputed, err := uc.aggregate(ctx, frozen)
	if err != nil {
		return nil, err
	}
	if recomputed.GrandTotal.Units() != doc.Totals.GrandTotal.Units() {
		return nil, &domain.ConsistencyError{
			Expected: doc.Totals.GrandTotal.String(),
			Actual:   recomputed.GrandTotal.String(),
		}
	}

	if frozen.ExchangeRate != nil {
		doc.ExchangeRate = frozen.ExchangeRate.Rate
	}
	doc.Totals = recomputed
	doc.Status = entity.DocStatusValidated
	doc.UpdatedAt = time.Now()
	if err := uc.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Issue asigna el consecutivo y emite. El incremento de la serie y el flip de
// estado ocurren en una sola transacción, con la asignación como último paso
// antes del flip: o se completa todo o no queda estado parcial. Idempotente:
// un reintento de red sobre un documento ya emitido devuelve el resultado
// anterior sin consumir un segundo número.
func (uc *IssueDocumentUseCase) Issue(ctx context.Context, companyID, docID string) (*entity.FiscalDocument, error) {
	var issued *entity.FiscalDocument
	alreadyIssued := false

	err := uc.txRunner.RunIssuance(ctx, func(
		seriesRepo repository.FiscalSeriesRepository,
		docRepo repository.FiscalDocumentRepository,
	) error {
		doc, err := docRepo.GetByIDForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if doc.IsIssued() {
			issued = doc
			alreadyIssued = true
			return nil
		}
		if doc.Status != entity.DocStatusValidated {
			return fmt.Errorf("%w: solo se emite un documento validado (estado actual: %s)", domain.ErrConflict, doc.Status)
		}
		series, err := seriesRepo.GetByID(ctx, doc.SeriesID)
		if err != nil {
			return err
		}
		if series == nil {
			return domain.ErrNotFound
		}

		allocator := NewSequenceAllocator(seriesRepo)
		number, err := allocator.AllocateNext(ctx, doc.SeriesID)
		if err != nil {
			return err
		}

		now := time.Now()
		doc.Number = number
		doc.FullNumber = entity.FormatFullNumber(series.Prefix, number)
		doc.Status = entity.DocStatusIssued
		doc.IssuedAt = &now
		doc.UpdatedAt = now
		if err := docRepo.Update(ctx, doc); err != nil {
			return err
		}
		issued = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Número de control de la imprenta digital: fuera de la transacción (no
	// se sostiene un lock de fila durante una llamada de red). Best-effort:
	// el documento ya es válido y emitido sin él.
	if uc.control != nil && !alreadyIssued && issued.ControlNumber == "" {
		controlNumber, err := uc.control.RequestControlNumber(ctx, issued)
		if err != nil {
			uc.log.Warn().Err(err).Str("document_id", issued.ID).Msg("imprenta digital: no se obtuvo número de control")
		} else {
			issued.ControlNumber = controlNumber
			issued.UpdatedAt = time.Now()
			if err := uc.docRepo.Update(ctx, issued); err != nil {
				uc.log.Error().Err(err).Str("document_id", issued.ID).Msg("guardar número de control")
			}
		}
	}
	return issued, nil
}

// Void anula un borrador o documento validado. Un documento emitido jamás se
// anula: se corrige con nota de crédito.
func (uc *IssueDocumentUseCase) Void(ctx context.Context, companyID, docID string) (*entity.FiscalDocument, error) {
	doc, err := uc.getOwned(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status == entity.DocStatusVoid {
		return doc, nil
	}
	if !doc.CanVoid() {
		return nil, domain.ErrDocumentImmutable
	}
	now := time.Now()
	doc.Status = entity.DocStatusVoid
	doc.VoidedAt = &now
	doc.UpdatedAt = now
	if err := uc.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get obtiene un documento verificando pertenencia a la empresa.
func (uc *IssueDocumentUseCase) Get(ctx context.Context, companyID, docID string) (*entity.FiscalDocument, error) {
	return uc.getOwned(ctx, companyID, docID)
}

// List lista los documentos de la empresa.
func (uc *IssueDocumentUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.FiscalDocument, error) {
	return uc.docRepo.ListByCompany(ctx, companyID, limit, offset)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *IssueDocumentUseCase) getOwned(ctx context.Context, companyID, docID string) (*entity.FiscalDocument, error) {
	doc, err := uc.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func (uc *IssueDocumentUseCase) resolveSeries(ctx context.Context, companyID, docType, seriesID string) (*entity.FiscalSeries, error) {
	if seriesID == "" {
		series, err := uc.seriesRepo.GetDefaultByType(ctx, companyID, docType)
		if err != nil {
			return nil, err
		}
		if series == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoDefaultSeries, docType)
		}
		return series, nil
	}
	series, err := uc.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, domain.ErrNotFound
	}
	if series.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if series.Type != docType {
		return nil, domain.NewValidationError("seriesId", fmt.Sprintf("la serie es de tipo %s, no %s", series.Type, docType))
	}
	return series, nil
}

// resumeDraft retoma un borrador existente de la misma orden con el contenido
// nuevo del carrito (idempotencia de creación ante reintentos del cliente).
func (uc *IssueDocumentUseCase) resumeDraft(ctx context.Context, existing *entity.FiscalDocument, cart *entity.Cart, customer entity.CustomerSnapshot) (*entity.FiscalDocument, error) {
	totals, err := uc.aggregate(ctx, cart)
	if err != nil {
		return nil, err
	}
	existing.Customer = customer
	existing.Items = cart.Items
	existing.Totals = totals
	existing.PaymentMethod = cart.PaymentMethod
	existing.Currency = cart.Currency
	if cart.ExchangeRate != nil {
		existing.ExchangeRate = cart.ExchangeRate.Rate
	}
	existing.UpdatedAt = time.Now()
	if err := uc.docRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *IssueDocumentUseCase) aggregate(ctx context.Context, cart *entity.Cart) (entity.Totals, error) {
	if cart.ExchangeRate == nil && uc.rates != nil {
		if rate, err := uc.rates.CurrentRate(ctx, cart.Currency, uc.quoteCur); err == nil {
			cart.ExchangeRate = &rate
		}
	}
	rules := uc.taxes.ApplicableTaxes(cart.Items, cart.PaymentMethod, cart.Currency)
	return pricing.Aggregate(*cart, rules)
}

// cartFromSnapshot reconstruye el carrito equivalente desde el snapshot
// congelado del documento, para la re-agregación de Validate.
func (uc *IssueDocumentUseCase) cartFromSnapshot(doc *entity.FiscalDocument) *entity.Cart {
	cart := &entity.Cart{
		ID:                    doc.ID,
		CompanyID:             doc.CompanyID,
		Currency:              doc.Currency,
		Items:                 doc.Items,
		GeneralDiscountPct:    doc.Totals.GeneralDiscountPct,
		GeneralDiscountReason: doc.Totals.GeneralDiscountReason,
		ShippingCost:          doc.Totals.ShippingCost,
		PaymentMethod:         doc.PaymentMethod,
	}
	return cart
}
