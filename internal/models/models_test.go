package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuote_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		quote Quote
		want  error
	}{
		{"valid", Quote{Symbol: "AAPL", Timestamp: now, AdjClose: 150.25}, nil},
		{"zero price is valid", Quote{Symbol: "AAPL", Timestamp: now, AdjClose: 0}, nil},
		{"missing symbol", Quote{Timestamp: now, AdjClose: 1}, ErrInvalidSymbol},
		{"missing timestamp", Quote{Symbol: "AAPL", AdjClose: 1}, ErrInvalidTimestamp},
		{"negative price", Quote{Symbol: "AAPL", Timestamp: now, AdjClose: -1}, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.quote.Validate(), tt.want)
		})
	}
}

func TestReportRequest_Validate(t *testing.T) {
	start := time.Date(2020, 7, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		req  ReportRequest
		want error
	}{
		{"valid", ReportRequest{Symbols: []string{"AAPL"}, Start: start, End: end}, nil},
		{"same instant", ReportRequest{Symbols: []string{"AAPL"}, Start: start, End: start}, nil},
		{"no symbols", ReportRequest{Start: start, End: end}, ErrNoSymbols},
		{"blank symbol", ReportRequest{Symbols: []string{"AAPL", " "}, Start: start, End: end}, ErrInvalidSymbol},
		{"missing start", ReportRequest{Symbols: []string{"AAPL"}, End: end}, ErrInvalidTimestamp},
		{"reversed", ReportRequest{Symbols: []string{"AAPL"}, Start: end, End: start}, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.req.Validate(), tt.want)
		})
	}
}

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT", "UBER", "GOOG"}, ParseSymbols("AAPL,MSFT,UBER,GOOG"))
	assert.Equal(t, []string{"AAPL", "MSFT"}, ParseSymbols(" AAPL , ,MSFT,"))
	assert.Equal(t, []string{}, ParseSymbols(""))
}
