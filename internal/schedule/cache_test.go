package schedule

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajda-app/sajda/internal/model"
)

var cairo = model.GeoLocation{
	Latitude:  30.0444,
	Longitude: 31.2357,
	Timezone:  "Africa/Cairo",
	City:      "Cairo",
	Country:   "Egypt",
}

func cairoMethod(t *testing.T) model.CalculationMethod {
	t.Helper()
	m, err := model.MethodByID("egypt")
	require.NoError(t, err)
	return m
}

func TestGetComputesAndCaches(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()
	method := cairoMethod(t)

	first, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)
	second, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)

	// same immutable entry handed out, not a recomputation
	assert.Same(t, first, second)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()
	method := cairoMethod(t)

	first, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)

	cache.Invalidate(ctx, 1)

	second, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	// identical inputs still produce identical instants
	for _, p := range model.PrayerNames {
		assert.True(t, first.At(p).Equal(second.At(p)))
	}
}

func TestChangedInputsBypassStaleEntry(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()
	method := cairoMethod(t)

	standard, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)

	// an asr change must never be answered from the standard entry, even
	// without an explicit invalidation in between
	hanafi, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrHanafi)
	require.NoError(t, err)
	assert.True(t, hanafi.At(model.Asr).After(standard.At(model.Asr)))
}

func TestInvalidateScopedToUser(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()
	method := cairoMethod(t)

	mine, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)
	theirs, err := cache.Get(ctx, 2, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)

	cache.Invalidate(ctx, 2)

	stillMine, err := cache.Get(ctx, 1, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)
	assert.Same(t, mine, stillMine)

	replaced, err := cache.Get(ctx, 2, cairo, "2025-08-01", method, model.AsrStandard)
	require.NoError(t, err)
	assert.NotSame(t, theirs, replaced)
}

func TestConcurrentReadsAreSafe(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()
	method := cairoMethod(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			day := "2025-08-01"
			if n%2 == 0 {
				day = "2025-08-02"
			}
			sched, err := cache.Get(ctx, 1, cairo, day, method, model.AsrStandard)
			assert.NoError(t, err)
			assert.NotNil(t, sched)
		}(i)
	}
	wg.Wait()
}

func TestInvalidLocationPropagates(t *testing.T) {
	cache := NewCache(nil)
	bad := model.GeoLocation{Latitude: 123, Longitude: 0}
	_, err := cache.Get(context.Background(), 1, bad, "2025-08-01", cairoMethod(t), model.AsrStandard)
	assert.Error(t, err)
}
