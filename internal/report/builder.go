package report

import (
	"time"

	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/pkg/indicator"
)

// BuildRow computes the report signals for one symbol. It returns false
// for an empty series; such symbols are left out of the report entirely.
func BuildRow(symbol string, start time.Time, series []float64, smaWindow int) (models.ReportRow, bool) {
	if len(series) == 0 {
		return models.ReportRow{}, false
	}

	periodMax, _ := indicator.NewMaxPrice().Calculate(series)
	periodMin, _ := indicator.NewMinPrice().Calculate(series)
	diff, _ := indicator.NewPriceDifference().Calculate(series)
	sma, _ := indicator.NewWindowedSMA(smaWindow).Calculate(series)

	// An absent or empty moving average is reported as zero
	latestSMA := 0.0
	if len(sma) > 0 {
		latestSMA = sma[len(sma)-1]
	}

	return models.ReportRow{
		PeriodStart: start,
		Symbol:      symbol,
		Price:       series[len(series)-1],
		ChangePct:   diff.Relative * 100.0,
		Min:         periodMin,
		Max:         periodMax,
		SMA:         latestSMA,
	}, true
}
