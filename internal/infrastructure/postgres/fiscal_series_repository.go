package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartkubik/facturacion-api/internal/domain/entity"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

var _ repository.FiscalSeriesRepository = (*FiscalSeriesRepo)(nil)

// FiscalSeriesRepo implementación de FiscalSeriesRepository (usable con pool o tx).
type FiscalSeriesRepo struct {
	q Querier
}

// NewFiscalSeriesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalSeriesRepository(q Querier) *FiscalSeriesRepo {
	return &FiscalSeriesRepo{q: q}
}

// Create persiste una serie nueva.
func (r *FiscalSeriesRepo) Create(ctx context.Context, s *entity.FiscalSeries) error {
	query := `
		INSERT INTO fiscal_series (id, company_id, type, name, prefix, current_number, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Type, s.Name, s.Prefix, s.CurrentNumber,
		s.IsDefault, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serie duplicada: %w", err)
		}
		return fmt.Errorf("insert fiscal series: %w", err)
	}
	return nil
}

const seriesColumns = `id, company_id, type, name, prefix, current_number, is_default, is_active, created_at, updated_at`

// GetByID obtiene una serie por ID, nil si no existe.
func (r *FiscalSeriesRepo) GetByID(ctx context.Context, id string) (*entity.FiscalSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM fiscal_series WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetDefaultByType devuelve la serie por defecto activa del tipo, o nil.
func (r *FiscalSeriesRepo) GetDefaultByType(ctx context.Context, companyID, docType string) (*entity.FiscalSeries, error) {
	query := `
		SELECT ` + seriesColumns + `
		FROM fiscal_series
		WHERE company_id = $1 AND type = $2 AND is_default AND is_active`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, docType))
}

// ListByCompany lista todas las series de la empresa.
func (r *FiscalSeriesRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.FiscalSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM fiscal_series WHERE company_id = $1 ORDER BY type, created_at`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal series: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalSeries
	for rows.Next() {
		var s entity.FiscalSeries
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.Type, &s.Name, &s.Prefix, &s.CurrentNumber,
			&s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fiscal series: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SetDefault marca la serie por defecto de su tipo desmarcando las demás del
// mismo (company_id, tipo). Dos statements; el caller decide el límite
// transaccional si necesita atomicidad estricta.
func (r *FiscalSeriesRepo) SetDefault(ctx context.Context, companyID, docType, seriesID string) error {
	clear := `UPDATE fiscal_series SET is_default = false, updated_at = now() WHERE company_id = $1 AND type = $2 AND id <> $3`
	if _, err := r.q.Exec(ctx, clear, companyID, docType, seriesID); err != nil {
		return fmt.Errorf("clear default series: %w", err)
	}
	set := `UPDATE fiscal_series SET is_default = true, updated_at = now() WHERE id = $1 AND company_id = $2 AND type = $3`
	tag, err := r.q.Exec(ctx, set, seriesID, companyID, docType)
	if err != nil {
		return fmt.Errorf("set default series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set default series: serie %s no encontrada", seriesID)
	}
	return nil
}

// IncrementAndGet incrementa el contador y devuelve el valor nuevo en un solo
// statement atómico. El row lock del UPDATE serializa los callers concurrentes
// sobre la misma serie: dos emisiones jamás reciben el mismo consecutivo y un
// rollback de la transacción contenedora revierte también el incremento, por
// lo que no quedan huecos.
func (r *FiscalSeriesRepo) IncrementAndGet(ctx context.Context, seriesID string) (int64, error) {
	query := `
		UPDATE fiscal_series
		SET current_number = current_number + 1, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING current_number`
	var number int64
	if err := r.q.QueryRow(ctx, query, seriesID).Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("serie %s no encontrada o inactiva", seriesID)
		}
		return 0, fmt.Errorf("increment fiscal series: %w", err)
	}
	return number, nil
}

// CurrentNumber lee el contador sin incrementar.
func (r *FiscalSeriesRepo) CurrentNumber(ctx context.Context, seriesID string) (int64, error) {
	var number int64
	err := r.q.QueryRow(ctx, `SELECT current_number FROM fiscal_series WHERE id = $1`, seriesID).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("serie %s no encontrada", seriesID)
		}
		return 0, fmt.Errorf("get fiscal series number: %w", err)
	}
	return number, nil
}

func (r *FiscalSeriesRepo) scanOne(row pgx.Row) (*entity.FiscalSeries, error) {
	var s entity.FiscalSeries
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Type, &s.Name, &s.Prefix, &s.CurrentNumber,
		&s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal series: %w", err)
	}
	return &s, nil
}
