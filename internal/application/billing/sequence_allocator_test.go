package billing

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/facturacion-api/internal/domain"
	"github.com/smartkubik/facturacion-api/internal/domain/entity"
)

func seedSeries(t *testing.T, repo *memSeriesRepo, current int64) *entity.FiscalSeries {
	t.Helper()
	s := &entity.FiscalSeries{
		ID:            "ser-1",
		CompanyID:     "co-1",
		Type:          entity.DocTypeInvoice,
		Name:          "Facturación principal",
		Prefix:        "FAC",
		CurrentNumber: current,
		IsDefault:     true,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestAllocateNextIncrementsCounter(t *testing.T) {
	repo := newMemSeriesRepo()
	seedSeries(t, repo, 100)
	alloc := NewSequenceAllocator(repo)

	n, err := alloc.AllocateNext(context.Background(), "ser-1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), n)

	current, err := alloc.PeekCurrent(context.Background(), "ser-1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), current)

	// Peek no consume números.
	n, err = alloc.AllocateNext(context.Background(), "ser-1")
	require.NoError(t, err)
	assert.Equal(t, int64(102), n)
}

func TestAllocateNextConcurrentNoGapsNoDuplicates(t *testing.T) {
	repo := newMemSeriesRepo()
	seedSeries(t, repo, 100)
	alloc := NewSequenceAllocator(repo)

	const workers = 50
	numbers := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := alloc.AllocateNext(context.Background(), "ser-1")
			assert.NoError(t, err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	got := make([]int64, 0, workers)
	for n := range numbers {
		got = append(got, n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	require.Len(t, got, workers)
	for i, n := range got {
		assert.Equal(t, int64(101+i), n, "la secuencia debe ser consecutiva y sin huecos")
	}
}

func TestAllocateNextRetriesTransientFailure(t *testing.T) {
	repo := newMemSeriesRepo()
	seedSeries(t, repo, 7)
	repo.failIncrements = 2 // fallan los dos primeros intentos

	alloc := NewSequenceAllocator(repo)
	n, err := alloc.AllocateNext(context.Background(), "ser-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}

func TestAllocateNextExhaustedRetries(t *testing.T) {
	repo := newMemSeriesRepo()
	seedSeries(t, repo, 7)
	repo.failIncrements = allocateMaxAttempts

	alloc := NewSequenceAllocator(repo)
	_, err := alloc.AllocateNext(context.Background(), "ser-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSequenceAllocation)

	// Los intentos fallidos no consumieron números.
	current, err := alloc.PeekCurrent(context.Background(), "ser-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), current)
}

func TestAllocateNextContextCancelled(t *testing.T) {
	repo := newMemSeriesRepo()
	seedSeries(t, repo, 7)
	repo.failIncrements = allocateMaxAttempts

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	alloc := NewSequenceAllocator(repo)
	_, err := alloc.AllocateNext(ctx, "ser-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
