package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/stock-signals/internal/metrics"
)

type countingObserver struct {
	results map[string]int
}

func (c *countingObserver) ObserveCache(result string) {
	if c.results == nil {
		c.results = make(map[string]int)
	}
	c.results[result]++
}

func TestCachedSource_MissThenHit(t *testing.T) {
	src := NewMockSource()
	src.SetCloses("AAPL", day0, 1, 2, 3)
	cache := NewMockCache()
	obs := &countingObserver{}

	cached := NewCachedSource(src, cache, 10*time.Minute, obs)
	end := day0.AddDate(0, 0, 5)

	first, err := cached.History(context.Background(), "AAPL", day0, end)
	require.NoError(t, err)
	second, err := cached.History(context.Background(), "AAPL", day0, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, src.Calls(), 1, "second request must be served from cache")
	assert.Equal(t, 1, obs.results["miss"])
	assert.Equal(t, 1, obs.results["hit"])
	assert.Equal(t, "mock", cached.Name())
}

func TestCachedSource_KeyBucketsEndByTTL(t *testing.T) {
	src := NewMockSource()
	src.SetCloses("AAPL", day0, 1, 2, 3)
	cache := NewMockCache()
	cached := NewCachedSource(src, cache, time.Hour, nil)

	end := day0.AddDate(0, 0, 5).Add(10 * time.Minute)
	_, err := cached.History(context.Background(), "AAPL", day0, end)
	require.NoError(t, err)
	_, err = cached.History(context.Background(), "AAPL", day0, end.Add(20*time.Minute))
	require.NoError(t, err)
	_, err = cached.History(context.Background(), "AAPL", day0, end.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Len(t, src.Calls(), 2)
	assert.Equal(t, 2, cache.Keys())

	key := cached.key("AAPL", day0, end)
	assert.Equal(t, time.Hour, cache.TTL(key))
}

func TestCachedSource_CacheErrorsFallThrough(t *testing.T) {
	src := NewMockSource()
	src.SetCloses("AAPL", day0, 4, 5)
	cache := NewMockCache()
	cache.GetErr = errors.New("redis down")
	cache.SetErr = errors.New("redis down")
	collector := metrics.NewCollector()

	cached := NewCachedSource(src, cache, time.Minute, collector)

	quotes, err := cached.History(context.Background(), "AAPL", day0, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestCachedSource_CorruptEntryRefetches(t *testing.T) {
	src := NewMockSource()
	src.SetCloses("AAPL", day0, 7)
	cache := NewMockCache()
	obs := &countingObserver{}
	cached := NewCachedSource(src, cache, time.Minute, obs)

	key := cached.key("AAPL", day0, day0)
	require.NoError(t, cache.Set(context.Background(), key, []byte("{not json"), time.Minute))

	quotes, err := cached.History(context.Background(), "AAPL", day0, day0)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 7.0, quotes[0].AdjClose)
	assert.Equal(t, 1, obs.results["error"])
}

func TestCachedSource_SourceErrorNotCached(t *testing.T) {
	src := NewMockSource()
	src.SetError("AAPL", errors.New("timeout"))
	cache := NewMockCache()
	cached := NewCachedSource(src, cache, time.Minute, nil)

	_, err := cached.History(context.Background(), "AAPL", day0, day0)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Keys())
}
