package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constCalculator always returns the same value
type constCalculator struct {
	name  string
	value float64
}

func (c constCalculator) Name() string { return c.name }

func (c constCalculator) Calculate(series []float64) (float64, bool) {
	return c.value, len(series) > 0
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(Erase[float64](constCalculator{name: "a", value: 1})))
	require.NoError(t, registry.Register(Erase[float64](constCalculator{name: "b", value: 2})))

	err := registry.Register(Erase[float64](constCalculator{name: "a", value: 3}))
	assert.Error(t, err, "duplicate names must be rejected")

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(Erase[float64](constCalculator{})))
}

func TestRegistry_Get(t *testing.T) {
	registry := NewDefaultRegistry(3)

	eval, err := registry.Get("sma_3")
	require.NoError(t, err)
	assert.Equal(t, "sma_3", eval.Name())

	_, err = registry.Get("rsi_14")
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	registry := NewDefaultRegistry(DefaultSMAWindow)

	assert.Equal(t, []string{"max_price", "min_price", "price_diff", "sma_30"}, registry.List())
}

func TestRegistry_EvaluateAll(t *testing.T) {
	registry := NewDefaultRegistry(3)

	results := registry.EvaluateAll([]float64{2, 3, 5, 6, 1, 2, 10})
	assert.Equal(t, 10.0, results["max_price"])
	assert.Equal(t, 1.0, results["min_price"])
	assert.Equal(t, Difference{Absolute: 8, Relative: 4}, results["price_diff"])
	assert.Len(t, results["sma_3"], 5)
}

func TestRegistry_EvaluateAll_Absent(t *testing.T) {
	registry := NewDefaultRegistry(1)

	results := registry.EvaluateAll(nil)
	require.Len(t, results, 4)
	for name, v := range results {
		assert.Nil(t, v, name)
	}

	// An empty SMA sequence is a result, not an absence
	results = NewDefaultRegistry(10).EvaluateAll([]float64{1, 2})
	assert.Equal(t, []float64{}, results["sma_10"])
}
