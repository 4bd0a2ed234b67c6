package quotes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/models"
)

var (
	// ErrUnknownProvider is returned when no factory is registered for a provider name
	ErrUnknownProvider = errors.New("unknown quote provider")
	// ErrCacheMiss is returned by a Cache when the key is not present
	ErrCacheMiss = errors.New("cache miss")
)

// Source retrieves historical quotes for a security
type Source interface {
	// Name returns the provider name (e.g., "yahoo", "timescale")
	Name() string

	// History returns the quotes of symbol between start and end, inclusive.
	// Quotes may be returned in any order.
	History(ctx context.Context, symbol string, start, end time.Time) ([]models.Quote, error)
}

// ClosingPrices fetches the quotes of symbol and returns their adjusted
// closing prices ordered ascending by timestamp. A symbol without quotes
// yields an empty, non-nil series.
func ClosingPrices(ctx context.Context, src Source, symbol string, start, end time.Time) ([]float64, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, models.ErrInvalidSymbol
	}
	if start.After(end) {
		return nil, models.ErrInvalidTimeRange
	}

	quotes, err := src.History(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s quotes from %s: %w", symbol, src.Name(), err)
	}

	return toSeries(quotes), nil
}

// toSeries sorts a copy of the quotes by time and projects adjusted closes
func toSeries(quotes []models.Quote) []float64 {
	sorted := make([]models.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	series := make([]float64, len(sorted))
	for i, q := range sorted {
		series[i] = q.AdjClose
	}
	return series
}
