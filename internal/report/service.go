package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mohamedkhairy/stock-signals/internal/metrics"
	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/internal/quotes"
	"github.com/mohamedkhairy/stock-signals/pkg/indicator"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

// ServiceConfig holds configuration for the report service
type ServiceConfig struct {
	SMAWindow   int // Moving average window (default: 30)
	Concurrency int // Symbols fetched in parallel (default: 1)
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SMAWindow:   indicator.DefaultSMAWindow,
		Concurrency: 1,
	}
}

// RunStats summarizes one report run
type RunStats struct {
	Requested int
	Reported  int
	Omitted   int
	Duration  time.Duration
}

// Service turns a list of symbols into report rows
type Service struct {
	config    ServiceConfig
	source    quotes.Source
	collector *metrics.Collector
	log       *zap.Logger
}

// NewService creates a report service. A nil collector gets a private one.
func NewService(config ServiceConfig, source quotes.Source, collector *metrics.Collector) *Service {
	if source == nil {
		panic("source cannot be nil")
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}

	return &Service{
		config:    config,
		source:    source,
		collector: collector,
		log:       logger.Named("report"),
	}
}

type symbolResult struct {
	series []float64
	err    error
}

// Run writes the header and then one row per symbol, in request order. The
// header is written even when the request is rejected.
//
// Symbols without quotes are omitted. The first retrieval failure aborts the
// run: rows for earlier symbols have been written, later symbols are not.
func (s *Service) Run(ctx context.Context, req models.ReportRequest, sink Sink) (stats RunStats, err error) {
	started := time.Now()
	stats = RunStats{Requested: len(req.Symbols)}
	defer func() {
		stats.Duration = time.Since(started)
		s.collector.ObserveRun(stats.Duration)
	}()

	if err := sink.WriteHeader(); err != nil {
		return stats, err
	}

	if err := req.Validate(); err != nil {
		return stats, fmt.Errorf("invalid report request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	next, wait := s.results(ctx, req)
	defer func() {
		cancel()
		wait()
	}()

	for i, symbol := range req.Symbols {
		res, waitErr := next(i)
		if waitErr != nil {
			return stats, waitErr
		}

		if res.err != nil {
			s.collector.ObserveSymbol(metrics.OutcomeFailed)
			s.log.Error("Quote retrieval failed, aborting report",
				zap.String("symbol", symbol),
				zap.Int("remaining", len(req.Symbols)-i-1),
				zap.Error(res.err),
			)
			return stats, res.err
		}

		row, ok := BuildRow(symbol, req.Start, res.series, s.config.SMAWindow)
		if !ok {
			stats.Omitted++
			s.collector.ObserveSymbol(metrics.OutcomeOmitted)
			s.log.Info("No quotes for symbol, omitting from report", zap.String("symbol", symbol))
			continue
		}

		if err := sink.WriteRow(row); err != nil {
			return stats, err
		}
		stats.Reported++
		s.collector.ObserveSymbol(metrics.OutcomeReported)
		s.log.Debug("Report row written",
			zap.String("symbol", symbol),
			zap.Int("prices", len(res.series)),
			zap.Float64("price", row.Price),
		)
	}

	return stats, nil
}

// results returns a function yielding the retrieval result of the i-th
// symbol, and a function that blocks until background retrieval has stopped.
// With a concurrency of one every symbol is fetched on demand, so nothing is
// retrieved after a failure.
func (s *Service) results(ctx context.Context, req models.ReportRequest) (func(i int) (symbolResult, error), func()) {
	if s.config.Concurrency <= 1 {
		next := func(i int) (symbolResult, error) {
			series, err := s.fetch(ctx, req.Symbols[i], req.Start, req.End)
			return symbolResult{series: series, err: err}, nil
		}
		return next, func() {}
	}

	pending, wait := s.fetchAll(ctx, req)
	next := func(i int) (symbolResult, error) {
		select {
		case res := <-pending[i]:
			return res, nil
		case <-ctx.Done():
			return symbolResult{}, ctx.Err()
		}
	}
	return next, wait
}

// fetchAll starts retrieval of every symbol, at most Concurrency at a time,
// and returns one single-use result channel per symbol. Retrieval starts in
// request order and stops being scheduled once ctx is done.
func (s *Service) fetchAll(ctx context.Context, req models.ReportRequest) ([]chan symbolResult, func()) {
	results := make([]chan symbolResult, len(req.Symbols))
	for i := range results {
		results[i] = make(chan symbolResult, 1)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		sem := make(chan struct{}, s.config.Concurrency)
		for i, symbol := range req.Symbols {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			wg.Add(1)
			go func(out chan<- symbolResult, symbol string) {
				defer wg.Done()
				defer func() { <-sem }()

				series, err := s.fetch(ctx, symbol, req.Start, req.End)
				out <- symbolResult{series: series, err: err}
			}(results[i], symbol)
		}
	}()

	return results, wg.Wait
}

func (s *Service) fetch(ctx context.Context, symbol string, start, end time.Time) ([]float64, error) {
	fetchStart := time.Now()
	series, err := quotes.ClosingPrices(ctx, s.source, symbol, start, end)
	s.collector.ObserveFetch(s.source.Name(), time.Since(fetchStart), err)
	if err != nil {
		return nil, err
	}

	s.collector.ObserveSeries(len(series))
	return series, nil
}
