package indicator

import (
	"fmt"
)

// DefaultSMAWindow is the moving average window used in reports
const DefaultSMAWindow = 30

// WindowedSMA calculates the Simple Moving Average for every full window
// of a series
// SMA[i] = Sum(series[i:i+window]) / window
type WindowedSMA struct {
	window int
	name   string
}

// NewWindowedSMA creates a new SMA calculator with the specified window.
// Windows of 1 or less are accepted but never produce a result.
func NewWindowedSMA(window int) WindowedSMA {
	return WindowedSMA{
		window: window,
		name:   fmt.Sprintf("sma_%d", window),
	}
}

// Name returns the signal name
func (s WindowedSMA) Name() string {
	return s.name
}

// WindowSize returns the number of prices averaged per value
func (s WindowedSMA) WindowSize() int {
	return s.window
}

// Calculate returns one average per contiguous window, oldest first.
//
// The result is absent when the window is 1 or less, or when the series is
// empty. A window longer than the series yields an empty, non-nil slice.
func (s WindowedSMA) Calculate(series []float64) ([]float64, bool) {
	if s.window <= 1 || len(series) == 0 {
		return nil, false
	}

	count := len(series) - s.window + 1
	if count < 0 {
		count = 0
	}

	averages := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		averages = append(averages, mean(series[i:i+s.window]))
	}
	return averages, true
}

// mean sums left to right and divides by the window length
func mean(window []float64) float64 {
	var sum float64
	for _, price := range window {
		sum += price
	}
	return sum / float64(len(window))
}
