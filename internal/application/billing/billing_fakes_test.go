package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type memSeriesRepo struct {
	mu     sync.Mutex
	series map[string]*entity.FiscalSeries

	// failIncrements fuerza errores transitorios en las próximas N llamadas a
	// IncrementAndGet.
	failIncrements int
}

func newMemSeriesRepo() *memSeriesRepo {
	return &memSeriesRepo{series: make(map[string]*entity.FiscalSeries)}
}

func (r *memSeriesRepo) Create(_ context.Context, s *entity.FiscalSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series[s.ID] = s
	return nil
}

func (r *memSeriesRepo) GetByID(_ context.Context, id string) (*entity.FiscalSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.series[id], nil
}

func (r *memSeriesRepo) GetDefaultByType(_ context.Context, companyID, docType string) (*entity.FiscalSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.series {
		if s.CompanyID == companyID && s.Type == docType && s.IsDefault && s.IsActive {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSeriesRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.FiscalSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FiscalSeries
	for _, s := range r.series {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSeriesRepo) SetDefault(_ context.Context, companyID, docType, seriesID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.series {
		if s.CompanyID == companyID && s.Type == docType {
			s.IsDefault = s.ID == seriesID
		}
	}
	return nil
}

func (r *memSeriesRepo) IncrementAndGet(_ context.Context, seriesID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIncrements > 0 {
		r.failIncrements--
		return 0, errors.New("deadlock detected")
	}
	s, ok := r.series[seriesID]
	if !ok || !s.IsActive {
		return 0, errors.New("serie no encontrada o inactiva")
	}
	s.CurrentNumber++
	return s.CurrentNumber, nil
}

func (r *memSeriesRepo) CurrentNumber(_ context.Context, seriesID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[seriesID]
	if !ok {
		return 0, errors.New("serie no encontrada")
	}
	return s.CurrentNumber, nil
}

type memDocRepo struct {
	mu   sync.Mutex
	docs map[string]*entity.FiscalDocument
}

func newMemDocRepo() *memDocRepo {
	return &memDocRepo{docs: make(map[string]*entity.FiscalDocument)}
}

func (r *memDocRepo) Create(_ context.Context, doc *entity.FiscalDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocRepo) Update(_ context.Context, doc *entity.FiscalDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return errors.New("documento no encontrado")
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *memDocRepo) GetByID(_ context.Context, id string) (*entity.FiscalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id], nil
}

func (r *memDocRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.FiscalDocument, error) {
	return r.GetByID(ctx, id)
}

func (r *memDocRepo) GetByOrderID(_ context.Context, companyID, orderID string) (*entity.FiscalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.CompanyID == companyID && d.OrderID == orderID &&
			d.Type == entity.DocTypeInvoice && d.Status != entity.DocStatusVoid {
			return d, nil
		}
	}
	return nil, nil
}

func (r *memDocRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.FiscalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FiscalDocument
	for _, d := range r.docs {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out, nil
}

// memTxRunner serializa la sección crítica con un mutex, equivalente al lock
// de fila que sostiene la transacción real.
type memTxRunner struct {
	mu     sync.Mutex
	series *memSeriesRepo
	docs   *memDocRepo
}

func (t *memTxRunner) RunIssuance(_ context.Context, fn func(
	seriesRepo repository.FiscalSeriesRepository,
	docRepo repository.FiscalDocumentRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.series, t.docs)
}

// fakeTaxes régimen fijo: IVA 16% por línea, IGTF 3% como recargo cuando el
// método de pago lo amerita.
type fakeTaxes struct{}

func (fakeTaxes) ApplicableTaxes(items []entity.LineItem, pm *entity.PaymentMethod, _ string) []entity.TaxRule {
	var rules []entity.TaxRule
	for _, it := range items {
		if it.IVAApplicable {
			rules = append(rules, entity.TaxRule{Code: entity.TaxCodeIVA, Rate: decimal.NewFromInt(16)})
			break
		}
	}
	if pm != nil && pm.IGTFApplicable {
		rules = append(rules, entity.TaxRule{Code: entity.TaxCodeIGTF, Rate: decimal.NewFromInt(3), Surcharge: true})
	}
	return rules
}

func (fakeTaxes) DefaultRate(code string) decimal.Decimal {
	if code == entity.TaxCodeIGTF {
		return decimal.NewFromInt(3)
	}
	return decimal.NewFromInt(16)
}

type fakeRates struct {
	rate decimal.Decimal
}

func (f fakeRates) CurrentRate(_ context.Context, base, quote string) (entity.ExchangeRate, error) {
	return entity.ExchangeRate{Base: base, Quote: quote, Rate: f.rate, AsOf: time.Now()}, nil
}

type fakeControl struct {
	mu       sync.Mutex
	assigned int
	err      error
}

func (f *fakeControl) RequestControlNumber(_ context.Context, _ *entity.FiscalDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.assigned++
	return "00-00012345", nil
}
