package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/stock-signals/internal/models"
)

var day0 = time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)

func TestClosingPrices_SortsByTimestamp(t *testing.T) {
	src := NewMockSource()
	src.SetQuotes("AAPL", []models.Quote{
		{Symbol: "AAPL", Timestamp: day0.AddDate(0, 0, 2), AdjClose: 3},
		{Symbol: "AAPL", Timestamp: day0, AdjClose: 1},
		{Symbol: "AAPL", Timestamp: day0.AddDate(0, 0, 1), AdjClose: 2},
	})

	series, err := ClosingPrices(context.Background(), src, "AAPL", day0, day0.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, series)
}

func TestClosingPrices_EqualTimestampsKeepOrder(t *testing.T) {
	src := NewMockSource()
	src.SetQuotes("AAPL", []models.Quote{
		{Symbol: "AAPL", Timestamp: day0.AddDate(0, 0, 1), AdjClose: 9},
		{Symbol: "AAPL", Timestamp: day0, AdjClose: 5},
		{Symbol: "AAPL", Timestamp: day0, AdjClose: 4},
	})

	series, err := ClosingPrices(context.Background(), src, "AAPL", day0, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 4, 9}, series)
}

func TestClosingPrices_EmptyIsNotNil(t *testing.T) {
	src := NewMockSource()

	series, err := ClosingPrices(context.Background(), src, "NONE", day0, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestClosingPrices_Validation(t *testing.T) {
	src := NewMockSource()

	_, err := ClosingPrices(context.Background(), src, " ", day0, day0)
	assert.ErrorIs(t, err, models.ErrInvalidSymbol)

	_, err = ClosingPrices(context.Background(), src, "AAPL", day0.AddDate(0, 0, 1), day0)
	assert.ErrorIs(t, err, models.ErrInvalidTimeRange)

	assert.Empty(t, src.Calls(), "invalid requests must not reach the source")
}

func TestClosingPrices_WrapsSourceError(t *testing.T) {
	src := NewMockSource()
	boom := errors.New("provider unavailable")
	src.SetError("AAPL", boom)

	_, err := ClosingPrices(context.Background(), src, "AAPL", day0, day0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "mock")
}

func TestMockSource_FiltersRange(t *testing.T) {
	src := NewMockSource()
	src.SetCloses("MSFT", day0, 1, 2, 3, 4, 5)

	quotes, err := src.History(context.Background(), "MSFT", day0.AddDate(0, 0, 1), day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, 2.0, quotes[0].AdjClose)
	assert.Equal(t, 4.0, quotes[2].AdjClose)
}

func TestMockSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockSource().History(ctx, "AAPL", day0, day0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	end := day0.AddDate(0, 1, 0)

	a, err := NewSyntheticSource().History(context.Background(), "GOOG", day0, end)
	require.NoError(t, err)
	b, err := NewSyntheticSource().History(context.Background(), "GOOG", day0, end)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
	for _, q := range a {
		assert.NoError(t, q.Validate())
		assert.NotEqual(t, time.Saturday, q.Timestamp.Weekday())
		assert.NotEqual(t, time.Sunday, q.Timestamp.Weekday())
		assert.False(t, q.Timestamp.Before(day0))
		assert.False(t, q.Timestamp.After(end))
	}
}
