package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingFetcher struct {
	calls   int
	records []domain.PredictionRecord
	err     error
}

func (m *countingFetcher) Predict(_ context.Context, _ string, _ int) ([]domain.PredictionRecord, error) {
	m.calls++
	return m.records, m.err
}

func someRecords() []domain.PredictionRecord {
	return []domain.PredictionRecord{
		{SpatialCluster: 1, Latitude: -22.9, Longitude: -47.06, ClassID: 2, Probability: 0.61},
	}
}

// --- CachedClient tests ---

func TestCachedClient_CacheHit(t *testing.T) {
	inner := &countingFetcher{records: someRecords()}
	cached := NewCachedClient(inner, 10, testMetrics())

	r1, err := cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.NoError(t, err)
	require.Len(t, r1, 1)

	r2, err := cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.NoError(t, err)
	require.Len(t, r2, 1)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedClient_DifferentQueriesMiss(t *testing.T) {
	inner := &countingFetcher{records: someRecords()}
	cached := NewCachedClient(inner, 10, testMetrics())

	_, err := cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.NoError(t, err)
	_, err = cached.Predict(context.Background(), "2025-03-14T21:30:00", 20)
	require.NoError(t, err)
	_, err = cached.Predict(context.Background(), "2025-03-15T21:30:00", 10)
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
}

func TestCachedClient_EmptyResultNotCached(t *testing.T) {
	inner := &countingFetcher{records: nil}
	cached := NewCachedClient(inner, 10, testMetrics())

	_, err := cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.NoError(t, err)
	_, err = cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "empty responses should be retried")
}

func TestCachedClient_ErrorNotCached(t *testing.T) {
	inner := &countingFetcher{err: errors.New("boom")}
	cached := NewCachedClient(inner, 10, testMetrics())

	_, err := cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.Error(t, err)
	_, err = cached.Predict(context.Background(), "2025-03-14T21:30:00", 10)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedClient_Eviction(t *testing.T) {
	inner := &countingFetcher{records: someRecords()}
	cached := NewCachedClient(inner, 2, testMetrics())

	ctx := context.Background()
	_, _ = cached.Predict(ctx, "a", 1)
	_, _ = cached.Predict(ctx, "b", 1)
	_, _ = cached.Predict(ctx, "c", 1) // evicts "a"
	require.Equal(t, 3, inner.calls)

	_, _ = cached.Predict(ctx, "a", 1)
	assert.Equal(t, 4, inner.calls, "evicted entry should refetch")

	_, _ = cached.Predict(ctx, "c", 1)
	assert.Equal(t, 4, inner.calls, "recent entry should still be cached")
}
