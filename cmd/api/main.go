package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/api"
	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/metrics"
	"github.com/mohamedkhairy/stock-signals/internal/quotes"
	"github.com/mohamedkhairy/stock-signals/internal/report"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

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

	logger.Info("Starting signals API service",
		logger.String("port", fmt.Sprintf("%d", cfg.API.Port)),
		logger.String("provider", cfg.Quotes.Provider),
		logger.Bool("cache_enabled", cfg.Cache.Enabled),
		logger.Bool("auth_enabled", cfg.API.JWTSecret != ""),
		logger.Int("rate_limit_rps", cfg.API.RateLimitRPS),
	)

	collector := metrics.NewCollector()

	// Initialize quote source
	source, closeSource, err := quotes.NewProviderFactory().Create(cfg, collector)
	if err != nil {
		logger.Fatal("Failed to initialize quote source",
			logger.ErrorField(err),
		)
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("Failed to close quote source", logger.ErrorField(err))
		}
	}()

	service := report.NewService(report.ServiceConfig{
		SMAWindow:   cfg.Report.SMAWindow,
		Concurrency: cfg.Report.Concurrency,
	}, source, collector)

	signalHandler := api.NewSignalHandler(service, source, cfg.Report)
	handler := api.NewRouter(api.RouterConfig{
		JWTSecret:    cfg.API.JWTSecret,
		RateLimitRPS: cfg.API.RateLimitRPS,
	}, signalHandler, collector.Registry())

	// Start HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down signals API service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Signals API service stopped")
}
