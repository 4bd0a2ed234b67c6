package quotes

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/mohamedkhairy/stock-signals/internal/models"
)

// barIterator is the subset of *chart.Iter used by YahooSource
type barIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// YahooSource retrieves daily adjusted closes from Yahoo Finance
type YahooSource struct {
	interval datetime.Interval
	timeout  time.Duration
	chartGet func(*chart.Params) barIterator
}

// NewYahooSource creates a Yahoo Finance source. A zero timeout disables
// the per-request deadline.
func NewYahooSource(timeout time.Duration) *YahooSource {
	return &YahooSource{
		interval: datetime.OneDay,
		timeout:  timeout,
		chartGet: func(p *chart.Params) barIterator {
			return chart.Get(p)
		},
	}
}

// Name returns the provider name
func (y *YahooSource) Name() string {
	return "yahoo"
}

type historyResult struct {
	quotes []models.Quote
	err    error
}

// History returns the daily quotes of symbol between start and end
func (y *YahooSource) History(ctx context.Context, symbol string, start, end time.Time) ([]models.Quote, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: y.interval,
	}

	// The chart client takes no context; wait for it or the deadline
	done := make(chan historyResult, 1)
	go func() {
		quotes, err := y.collect(symbol, y.chartGet(params))
		done <- historyResult{quotes: quotes, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.quotes, res.err
	}
}

func (y *YahooSource) collect(symbol string, iter barIterator) ([]models.Quote, error) {
	var quotes []models.Quote
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil {
			continue
		}
		adjClose, _ := bar.AdjClose.Float64()
		quotes = append(quotes, models.Quote{
			Symbol:    symbol,
			Timestamp: time.Unix(int64(bar.Timestamp), 0).UTC(),
			AdjClose:  adjClose,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart request failed: %w", err)
	}
	return quotes, nil
}
