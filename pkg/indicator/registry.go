package indicator

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages named signal evaluators
type Registry struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewRegistry creates a new, empty signal registry
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[string]Evaluator),
	}
}

// NewDefaultRegistry creates a registry holding the four report signals,
// using the given moving average window
func NewDefaultRegistry(smaWindow int) *Registry {
	r := NewRegistry()
	// Names are distinct, so registration cannot fail
	_ = r.Register(Erase[Difference](NewPriceDifference()))
	_ = r.Register(Erase[float64](NewMinPrice()))
	_ = r.Register(Erase[float64](NewMaxPrice()))
	_ = r.Register(Erase[[]float64](NewWindowedSMA(smaWindow)))
	return r
}

// Register registers an evaluator with the registry
func (r *Registry) Register(eval Evaluator) error {
	if eval == nil {
		return fmt.Errorf("evaluator cannot be nil")
	}

	name := eval.Name()
	if name == "" {
		return fmt.Errorf("evaluator name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluators[name]; exists {
		return fmt.Errorf("evaluator with name %q already registered", name)
	}

	r.evaluators[name] = eval
	return nil
}

// Get retrieves an evaluator by name
func (r *Registry) Get(name string) (Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eval, exists := r.evaluators[name]
	if !exists {
		return nil, fmt.Errorf("evaluator %q not found", name)
	}

	return eval, nil
}

// List returns the sorted names of all registered evaluators
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// EvaluateAll runs every registered evaluator over the series.
// Absent results are reported as nil values.
func (r *Registry) EvaluateAll(series []float64) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]any, len(r.evaluators))
	for name, eval := range r.evaluators {
		v, ok := eval.Evaluate(series)
		if !ok {
			results[name] = nil
			continue
		}
		results[name] = v
	}
	return results
}
