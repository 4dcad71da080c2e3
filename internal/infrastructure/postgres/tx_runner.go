package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartkubik/facturacion-api/internal/application/billing"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

var _ billing.IssuanceTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIssuance inicia una transacción, ejecuta fn con los repos de serie y
// documento atados a la tx y hace Commit o Rollback. Un error de fn revierte
// todo: incluido el incremento del consecutivo, por lo que una emisión fallida
// no deja huecos en la serie.
func (r *TxRunner) RunIssuance(ctx context.Context, fn func(
	seriesRepo repository.FiscalSeriesRepository,
	docRepo repository.FiscalDocumentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seriesRepo := NewFiscalSeriesRepository(tx)
	docRepo := NewFiscalDocumentRepository(tx)

	if err := fn(seriesRepo, docRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
