package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
)

func TestCacheService_GetSet(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(10, time.Minute)

	_, err := cs.Get(ctx, "v1:a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	want := &models.AddressResult{Raw: "Hà Nội", Province: "Hà Nội", DatasetVersion: "v1"}
	require.NoError(t, cs.Set(ctx, "v1:a", want))

	got, err := cs.Get(ctx, "v1:a")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	exists, err := cs.Exists(ctx, "v1:a")
	require.NoError(t, err)
	assert.True(t, exists)

	ttl, err := cs.GetTTL(ctx, "v1:a")
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	stats, err := cs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cs.Delete(ctx, "v1:a"))
	_, err = cs.Get(ctx, "v1:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheService_Eviction(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(2, time.Minute)

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cs.Set(ctx, key, &models.AddressResult{Raw: key}))
	}

	_, err := cs.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cs.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestCacheService_InvalidateByDatasetVersion(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(10, time.Minute)

	require.NoError(t, cs.Set(ctx, "old:a", &models.AddressResult{DatasetVersion: "old"}))
	require.NoError(t, cs.Set(ctx, "new:a", &models.AddressResult{DatasetVersion: "new"}))

	require.NoError(t, cs.InvalidateByDatasetVersion(ctx, "new"))

	_, err := cs.Get(ctx, "old:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cs.Get(ctx, "new:a")
	assert.NoError(t, err)

	require.NoError(t, cs.Clear(ctx))
	stats, err := cs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalItems)
	assert.Equal(t, int64(0), stats.TotalHits)
}

func TestHybridCacheService(t *testing.T) {
	ctx := context.Background()
	l1 := NewCacheService(10, time.Minute)
	l2 := NewCacheService(10, 0)
	hcs := NewHybridCacheService(l1, l2, zap.NewNop())

	result := &models.AddressResult{Province: "Đà Nẵng", DatasetVersion: "v1"}
	require.NoError(t, l2.Set(ctx, "v1:x", result))

	got, err := hcs.Get(ctx, "v1:x")
	require.NoError(t, err)
	assert.Equal(t, result, got)

	// L2 hit được ghi ngược lên L1 ở nền
	require.Eventually(t, func() bool {
		ok, _ := l1.Exists(ctx, "v1:x")
		return ok
	}, time.Second, 5*time.Millisecond)

	_, err = hcs.Get(ctx, "v1:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, hcs.Set(ctx, "v2:y", &models.AddressResult{DatasetVersion: "v2"}))
	exists, err := hcs.Exists(ctx, "v2:y")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, hcs.InvalidateByDatasetVersion(ctx, "v2"))
	for _, c := range []ICacheService{l1, l2} {
		ok, err := c.Exists(ctx, "v1:x")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	stats, err := hcs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalItems)

	require.NoError(t, hcs.Clear(ctx))
	require.NoError(t, hcs.Close())
}
