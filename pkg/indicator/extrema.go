package indicator

import "math"

// MinPrice finds the lowest price in a series
type MinPrice struct{}

// NewMinPrice creates a new minimum price calculator
func NewMinPrice() MinPrice {
	return MinPrice{}
}

// Name returns the signal name
func (MinPrice) Name() string {
	return "min_price"
}

// Calculate returns the minimum element, or false for an empty series.
// NaN elements are skipped; an all-NaN series yields math.MaxFloat64.
func (MinPrice) Calculate(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}

	lowest := math.MaxFloat64
	for _, price := range series {
		if math.IsNaN(price) {
			continue
		}
		lowest = math.Min(lowest, price)
	}
	return lowest, true
}

// MaxPrice finds the highest price in a series
type MaxPrice struct{}

// NewMaxPrice creates a new maximum price calculator
func NewMaxPrice() MaxPrice {
	return MaxPrice{}
}

// Name returns the signal name
func (MaxPrice) Name() string {
	return "max_price"
}

// Calculate returns the maximum element, or false for an empty series.
// NaN elements are skipped; an all-NaN series yields -math.MaxFloat64.
func (MaxPrice) Calculate(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}

	highest := -math.MaxFloat64
	for _, price := range series {
		if math.IsNaN(price) {
			continue
		}
		highest = math.Max(highest, price)
	}
	return highest, true
}
