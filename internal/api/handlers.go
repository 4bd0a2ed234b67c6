package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/internal/quotes"
	"github.com/mohamedkhairy/stock-signals/internal/report"
	"github.com/mohamedkhairy/stock-signals/pkg/indicator"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

// SignalHandler serves reports and per-symbol signals
type SignalHandler struct {
	service  *report.Service
	source   quotes.Source
	defaults config.ReportConfig
	now      func() time.Time
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(service *report.Service, source quotes.Source, defaults config.ReportConfig) *SignalHandler {
	return &SignalHandler{
		service:  service,
		source:   source,
		defaults: defaults,
		now:      time.Now,
	}
}

type reportResponse struct {
	From      time.Time          `json:"from"`
	To        time.Time          `json:"to"`
	Rows      []models.ReportRow `json:"rows"`
	Count     int                `json:"count"`
	Requested int                `json:"requested"`
	Omitted   int                `json:"omitted"`
}

type signalsResponse struct {
	Symbol       string         `json:"symbol"`
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	SMAWindow    int            `json:"sma_window"`
	SeriesLength int            `json:"series_length"`
	Signals      map[string]any `json:"signals"`
}

// GetReport handles GET /api/v1/report?symbols=AAPL,MSFT&from=...&to=...&format=json|csv
func (h *SignalHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	symbols := h.defaults.Symbols
	if raw := query.Get("symbols"); raw != "" {
		symbols = models.ParseSymbols(raw)
	}

	from, to, err := h.parseRange(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := strings.ToLower(query.Get("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		respondWithError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	req := models.ReportRequest{Symbols: symbols, Start: from, End: to}

	if format == "csv" {
		// Buffered so a failed run never produces a partial 200 response
		var buf bytes.Buffer
		if _, err := h.service.Run(r.Context(), req, report.NewCSVSink(&buf)); err != nil {
			h.respondWithRunError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.Warn("Failed to write CSV report", logger.ErrorField(err))
		}
		return
	}

	sink := report.NewCollectSink()
	stats, err := h.service.Run(r.Context(), req, sink)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	rows := sink.Rows()
	respondWithJSON(w, http.StatusOK, reportResponse{
		From:      from,
		To:        to,
		Rows:      rows,
		Count:     len(rows),
		Requested: stats.Requested,
		Omitted:   stats.Omitted,
	})
}

// GetSignals handles GET /api/v1/signals/{symbol}?from=...&to=...&window=N
// Signals that cannot be computed for the series are returned as null.
func (h *SignalHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(mux.Vars(r)["symbol"])

	from, to, err := h.parseRange(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	window := h.defaults.SMAWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window < 0 {
			respondWithError(w, http.StatusBadRequest, "window must be a non-negative integer")
			return
		}
	}

	series, err := quotes.ClosingPrices(r.Context(), h.source, symbol, from, to)
	if err != nil {
		h.respondWithRunError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, signalsResponse{
		Symbol:       symbol,
		From:         from,
		To:           to,
		SMAWindow:    window,
		SeriesLength: len(series),
		Signals:      indicator.NewDefaultRegistry(window).EvaluateAll(series),
	})
}

// ListSignals handles GET /api/v1/signals
func (h *SignalHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	names := indicator.NewDefaultRegistry(h.defaults.SMAWindow).List()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"signals": names,
		"count":   len(names),
	})
}

// parseRange reads the required "from" and optional "to" RFC 3339 parameters
func (h *SignalHandler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()

	rawFrom := query.Get("from")
	if rawFrom == "" {
		return time.Time{}, time.Time{}, errors.New("from is required (RFC 3339)")
	}
	from, err := time.Parse(time.RFC3339, rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be an RFC 3339 timestamp")
	}

	to := h.now().UTC()
	if rawTo := query.Get("to"); rawTo != "" {
		to, err = time.Parse(time.RFC3339, rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be an RFC 3339 timestamp")
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, models.ErrInvalidTimeRange
	}
	return from.UTC(), to.UTC(), nil
}

func (h *SignalHandler) respondWithRunError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNoSymbols),
		errors.Is(err, models.ErrInvalidSymbol),
		errors.Is(err, models.ErrInvalidTimeRange),
		errors.Is(err, models.ErrInvalidTimestamp):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		logger.Error("Quote retrieval failed",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.String("provider", h.source.Name()),
			logger.ErrorField(err),
		)
		respondWithError(w, http.StatusBadGateway, "Failed to retrieve quotes")
	}
}
