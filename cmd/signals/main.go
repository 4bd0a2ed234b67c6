// cmd/signals prints a CSV summary of recent price action for a list of
// securities: last price, change since the period start, extrema and the
// latest moving average.
//
// Usage:
//
//	go run ./cmd/signals --from=2020-07-01T00:00:00Z --symbols=AAPL,MSFT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/metrics"
	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/internal/quotes"
	"github.com/mohamedkhairy/stock-signals/internal/report"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

var errMissingFrom = errors.New("--from is required")

// options are the command line settings of one run
type options struct {
	Symbols     []string
	From        time.Time
	SMAWindow   int
	Concurrency int
}

// parseFlags reads the command line. Defaults come from the loaded config.
func parseFlags(args []string, cfg *config.Config, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("signals", flag.ContinueOnError)
	fs.SetOutput(output)

	symbols := strings.Join(cfg.Report.Symbols, ",")
	var from string
	fs.StringVar(&symbols, "symbols", symbols, "Comma-separated stock symbols")
	fs.StringVar(&symbols, "s", symbols, "Shorthand for --symbols")
	fs.StringVar(&from, "from", "", "Start of the period, RFC 3339 (e.g. 2020-07-01T00:00:00Z)")
	fs.StringVar(&from, "f", "", "Shorthand for --from")
	window := fs.Int("window", cfg.Report.SMAWindow, "Moving average window in periods")
	concurrency := fs.Int("concurrency", cfg.Report.Concurrency, "Symbols fetched in parallel")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if from == "" {
		return options{}, errMissingFrom
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return options{}, fmt.Errorf("invalid --from %q: %w", from, err)
	}
	if *concurrency < 1 {
		return options{}, fmt.Errorf("--concurrency must be at least 1, got %d", *concurrency)
	}

	return options{
		Symbols:     models.ParseSymbols(symbols),
		From:        start.UTC(),
		SMAWindow:   *window,
		Concurrency: *concurrency,
	}, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Fatal("Invalid arguments", logger.ErrorField(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Interrupted, stopping report")
		cancel()
	}()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		logger.Error("Report failed", logger.ErrorField(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	collector := metrics.NewCollector()

	source, closeSource, err := quotes.NewProviderFactory().Create(cfg, collector)
	if err != nil {
		return fmt.Errorf("failed to create quote source: %w", err)
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("Failed to close quote source", logger.ErrorField(err))
		}
	}()

	service := report.NewService(report.ServiceConfig{
		SMAWindow:   opts.SMAWindow,
		Concurrency: opts.Concurrency,
	}, source, collector)

	req := models.ReportRequest{
		Symbols: opts.Symbols,
		Start:   opts.From,
		End:     time.Now().UTC(),
	}

	logger.Info("Generating report",
		logger.Strings("symbols", req.Symbols),
		logger.Time("from", req.Start),
		logger.String("provider", source.Name()),
		logger.Int("sma_window", opts.SMAWindow),
		logger.Int("concurrency", opts.Concurrency),
	)

	stats, runErr := service.Run(ctx, req, report.NewCSVSink(out))

	logger.Info("Report finished",
		logger.Int("requested", stats.Requested),
		logger.Int("reported", stats.Reported),
		logger.Int("omitted", stats.Omitted),
		logger.Duration("duration", stats.Duration),
	)

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, pushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pushCancel()
		if err := collector.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			logger.Warn("Failed to push metrics", logger.ErrorField(err))
		}
	}

	return runErr
}
