package models

import (
	"strings"
	"time"
)

// Quote is a single period's adjusted closing price for a security
type Quote struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	AdjClose  float64   `json:"adj_close"`
}

// Validate validates a Quote
func (q *Quote) Validate() error {
	if q.Symbol == "" {
		return ErrInvalidSymbol
	}
	if q.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	if q.AdjClose < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ReportRow is the summary of one security over the report period
type ReportRow struct {
	PeriodStart time.Time `json:"period_start"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	ChangePct   float64   `json:"change_pct"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	SMA         float64   `json:"sma"`
}

// ReportRequest describes which securities to summarize and over which period
type ReportRequest struct {
	Symbols []string  `json:"symbols"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Validate validates a ReportRequest
func (r *ReportRequest) Validate() error {
	if len(r.Symbols) == 0 {
		return ErrNoSymbols
	}
	for _, symbol := range r.Symbols {
		if strings.TrimSpace(symbol) == "" {
			return ErrInvalidSymbol
		}
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidTimestamp
	}
	if r.Start.After(r.End) {
		return ErrInvalidTimeRange
	}
	return nil
}

// ParseSymbols splits a comma-separated symbol list, trimming whitespace
// and dropping empty entries. Order is preserved.
func ParseSymbols(list string) []string {
	parts := strings.Split(list, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
