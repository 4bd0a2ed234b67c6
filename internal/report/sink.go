package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/models"
)

// Header is the first line of every CSV report
const Header = "period start,symbol,price,change %,min,max,30d avg"

// Period start layouts: RFC 3339 with a numeric UTC offset ("+00:00") and
// fractional seconds padded to milli, micro or nanosecond precision
const (
	timestampLayout      = "2006-01-02T15:04:05-07:00"
	timestampLayoutMilli = "2006-01-02T15:04:05.000-07:00"
	timestampLayoutMicro = "2006-01-02T15:04:05.000000-07:00"
	timestampLayoutNano  = "2006-01-02T15:04:05.000000000-07:00"
)

// Sink receives a report as it is produced
type Sink interface {
	WriteHeader() error
	WriteRow(row models.ReportRow) error
}

// CSVSink writes the report as comma-separated lines. Fields are not
// quoted or escaped.
type CSVSink struct {
	w io.Writer
}

// NewCSVSink creates a CSV sink writing to w
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

func (c *CSVSink) WriteHeader() error {
	if _, err := fmt.Fprintln(c.w, Header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	return nil
}

func (c *CSVSink) WriteRow(row models.ReportRow) error {
	if _, err := fmt.Fprintln(c.w, FormatRow(row)); err != nil {
		return fmt.Errorf("failed to write report row for %s: %w", row.Symbol, err)
	}
	return nil
}

// FormatRow renders a row as one CSV line without the trailing newline
func FormatRow(row models.ReportRow) string {
	return fmt.Sprintf("%s,%s,$%.2f,%.2f%%,$%.2f,$%.2f,$%.2f",
		formatPeriodStart(row.PeriodStart),
		row.Symbol,
		row.Price,
		row.ChangePct,
		row.Min,
		row.Max,
		row.SMA,
	)
}

// CollectSink keeps rows in memory
type CollectSink struct {
	mu     sync.Mutex
	header bool
	rows   []models.ReportRow
}

// NewCollectSink creates an empty collecting sink
func NewCollectSink() *CollectSink {
	return &CollectSink{rows: []models.ReportRow{}}
}

func (c *CollectSink) WriteHeader() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header = true
	return nil
}

func (c *CollectSink) WriteRow(row models.ReportRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
	return nil
}

// HeaderWritten reports whether WriteHeader was called
func (c *CollectSink) HeaderWritten() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header
}

// Rows returns a copy of the collected rows
func (c *CollectSink) Rows() []models.ReportRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ReportRow{}, c.rows...)
}

// formatPeriodStart renders t in UTC, omitting zero fractional seconds and
// otherwise using the shortest of 3, 6 or 9 digits that is exact
func formatPeriodStart(t time.Time) string {
	t = t.UTC()

	layout := timestampLayoutNano
	switch nanos := t.Nanosecond(); {
	case nanos == 0:
		layout = timestampLayout
	case nanos%int(time.Millisecond) == 0:
		layout = timestampLayoutMilli
	case nanos%int(time.Microsecond) == 0:
		layout = timestampLayoutMicro
	}
	return t.Format(layout)
}
