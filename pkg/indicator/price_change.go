package indicator

// Difference is the change between the first and last element of a series
type Difference struct {
	Absolute float64 `json:"absolute"`
	Relative float64 `json:"relative"`
}

// PriceDifference calculates the absolute and relative change from the start
// to the end of a series. Interior values are ignored.
type PriceDifference struct{}

// NewPriceDifference creates a new price difference calculator
func NewPriceDifference() PriceDifference {
	return PriceDifference{}
}

// Name returns the signal name
func (PriceDifference) Name() string {
	return "price_diff"
}

// Calculate returns (last-first, (last-first)/first). A first price of
// exactly zero is replaced by 1.0 in the denominator.
func (PriceDifference) Calculate(series []float64) (Difference, bool) {
	if len(series) == 0 {
		return Difference{}, false
	}

	first, last := series[0], series[len(series)-1]
	abs := last - first

	denom := first
	if denom == 0.0 {
		denom = 1.0
	}

	return Difference{Absolute: abs, Relative: abs / denom}, true
}
