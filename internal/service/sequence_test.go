package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andy/orionledger/internal/domain"
)

func TestSequenceGenerator_ReserveNextIncreases(t *testing.T) {
	ctx := context.Background()
	repo := &mockCounterRepo{counter: &domain.Counter{ID: domain.InvoiceCounterID}}
	seq := NewSequenceGenerator(repo, "BCMP-25", zap.NewNop())

	want := []string{"BCMP-25-0001", "BCMP-25-0002", "BCMP-25-0003", "BCMP-25-0004", "BCMP-25-0005"}
	for _, w := range want {
		got, err := seq.ReserveNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
	assert.Equal(t, int64(5), repo.counter.Value)
}

func TestSequenceGenerator_PeekNextDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	repo := &mockCounterRepo{counter: &domain.Counter{ID: domain.InvoiceCounterID, Value: 41}}
	seq := NewSequenceGenerator(repo, "BCMP-25", zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := seq.PeekNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "BCMP-25-0042", got)
	}
	assert.Equal(t, 0, repo.puts)

	reserved, err := seq.ReserveNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BCMP-25-0042", reserved)
}

func TestSequenceGenerator_PeekSeedsMissingCounter(t *testing.T) {
	ctx := context.Background()
	repo := &mockCounterRepo{}
	seq := NewSequenceGenerator(repo, "BCMP-25", zap.NewNop())

	got, err := seq.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BCMP-25-0001", got)
	assert.Equal(t, 1, repo.seedCalls)
	require.NotNil(t, repo.counter)
	assert.Equal(t, int64(0), repo.counter.Value)
}

func TestSequenceGenerator_ReserveWithMissingCounterStartsAtOne(t *testing.T) {
	repo := &mockCounterRepo{}
	seq := NewSequenceGenerator(repo, "", zap.NewNop())

	got, err := seq.ReserveNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOrderPrefix+"-0001", got)
}

func TestSequenceGenerator_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	storeErr := domain.NewStoreError("read counter", errors.New("locked"))

	seq := NewSequenceGenerator(&mockCounterRepo{getErr: storeErr}, "BCMP-25", zap.NewNop())
	_, err := seq.PeekNext(ctx)
	assert.ErrorIs(t, err, domain.ErrStore)

	repo := &mockCounterRepo{counter: &domain.Counter{ID: domain.InvoiceCounterID, Value: 7}, putErr: storeErr}
	seq = NewSequenceGenerator(repo, "BCMP-25", zap.NewNop())
	_, err = seq.ReserveNext(ctx)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Equal(t, int64(7), repo.counter.Value)
}
