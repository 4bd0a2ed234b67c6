package indicator

// Calculator is the interface implemented by every price signal.
// A signal is a pure function of a closing-price series: it never keeps
// state between calls and never mutates the series it is given.
type Calculator[T any] interface {
	// Name returns the unique name of this signal (e.g., "min_price", "sma_30")
	Name() string

	// Calculate computes the signal over a series ordered ascending by time.
	// The boolean is false when the signal cannot be computed for the input;
	// this is distinct from a valid but empty result.
	Calculate(series []float64) (T, bool)
}

// Evaluator is a type-erased Calculator, so calculators with different
// result types can be held and evaluated together
type Evaluator interface {
	Name() string
	Evaluate(series []float64) (any, bool)
}

type erased[T any] struct {
	calc Calculator[T]
}

// Erase wraps a typed calculator as an Evaluator
func Erase[T any](calc Calculator[T]) Evaluator {
	return erased[T]{calc: calc}
}

func (e erased[T]) Name() string {
	return e.calc.Name()
}

func (e erased[T]) Evaluate(series []float64) (any, bool) {
	v, ok := e.calc.Calculate(series)
	if !ok {
		return nil, false
	}
	return v, true
}
