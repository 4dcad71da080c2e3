package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/repository"
)

// Política de reintento del incremento atómico: acotada y con backoff lineal,
// luego falla rápido con ErrSequenceAllocation.
const (
	allocateMaxAttempts = 3
	allocateBackoff     = 50 * time.Millisecond
)

// SequenceAllocator asigna consecutivos de una serie fiscal. La garantía de
// no-colisión y no-hueco vive en la primitiva IncrementAndGet del repositorio
// (un solo read-modify-write atómico por fila de serie); aquí solo se acota
// el reintento ante fallas transitorias.
type SequenceAllocator struct {
	seriesRepo repository.FiscalSeriesRepository
}

// NewSequenceAllocator construye el asignador sobre el repositorio dado
// (pool para peek, repos de transacción durante la emisión).
func NewSequenceAllocator(seriesRepo repository.FiscalSeriesRepository) *SequenceAllocator {
	return &SequenceAllocator{seriesRepo: seriesRepo}
}

// AllocateNext incrementa y devuelve el siguiente consecutivo de la serie.
// Dos callers concurrentes sobre la misma serie jamás reciben el mismo
// número. Nunca devuelve un número sin incremento persistido.
func (a *SequenceAllocator) AllocateNext(ctx context.Context, seriesID string) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= allocateMaxAttempts; attempt++ {
		number, err := a.seriesRepo.IncrementAndGet(ctx, seriesID)
		if err == nil {
			return number, nil
		}
		lastErr = err
		if attempt < allocateMaxAttempts {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * allocateBackoff):
			}
		}
	}
	return 0, fmt.Errorf("%w: serie %s: %v", domain.ErrSequenceAllocation, seriesID, lastErr)
}

// PeekCurrent lee el contador actual sin consumir un número.
func (a *SequenceAllocator) PeekCurrent(ctx context.Context, seriesID string) (int64, error) {
	return a.seriesRepo.CurrentNumber(ctx, seriesID)
}
