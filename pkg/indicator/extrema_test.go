package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinPrice_Calculate(t *testing.T) {
	calc := NewMinPrice()

	_, ok := calc.Calculate([]float64{})
	assert.False(t, ok)

	tests := []struct {
		series []float64
		want   float64
	}{
		{[]float64{1.0}, 1.0},
		{[]float64{1.0, 0.0}, 0.0},
		{[]float64{2.0, 3.0, 5.0, 6.0, 1.0, 2.0, 10.0}, 1.0},
		{[]float64{0.0, 3.0, 5.0, 6.0, 1.0, 2.0, 1.0}, 0.0},
		{[]float64{-1.5, -7.25, 3.0}, -7.25},
	}

	for _, tt := range tests {
		got, ok := calc.Calculate(tt.series)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "series %v", tt.series)
	}
}

func TestMaxPrice_Calculate(t *testing.T) {
	calc := NewMaxPrice()

	_, ok := calc.Calculate(nil)
	assert.False(t, ok)

	tests := []struct {
		series []float64
		want   float64
	}{
		{[]float64{1.0}, 1.0},
		{[]float64{1.0, 0.0}, 1.0},
		{[]float64{2.0, 3.0, 5.0, 6.0, 1.0, 2.0, 10.0}, 10.0},
		{[]float64{0.0, 3.0, 5.0, 6.0, 1.0, 2.0, 1.0}, 6.0},
		{[]float64{-1.5, -7.25, -3.0}, -1.5},
	}

	for _, tt := range tests {
		got, ok := calc.Calculate(tt.series)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "series %v", tt.series)
	}
}

func TestExtrema_SkipNaN(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name    string
		series  []float64
		wantMin float64
		wantMax float64
	}{
		{name: "middle", series: []float64{1, nan, 3}, wantMin: 1, wantMax: 3},
		{name: "first", series: []float64{nan, 4, 2}, wantMin: 2, wantMax: 4},
		{name: "last", series: []float64{5, 6, nan}, wantMin: 5, wantMax: 6},
		{name: "only nan", series: []float64{nan, nan}, wantMin: math.MaxFloat64, wantMax: -math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, ok := NewMinPrice().Calculate(tt.series)
			require.True(t, ok)
			assert.Equal(t, tt.wantMin, lo)

			hi, ok := NewMaxPrice().Calculate(tt.series)
			require.True(t, ok)
			assert.Equal(t, tt.wantMax, hi)
		})
	}
}

func TestExtrema_BoundEverySeriesElement(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		series := make([]float64, 1+rng.Intn(50))
		for j := range series {
			series[j] = rng.NormFloat64() * 100
		}

		lo, ok := NewMinPrice().Calculate(series)
		require.True(t, ok)
		hi, ok := NewMaxPrice().Calculate(series)
		require.True(t, ok)

		for _, e := range series {
			assert.LessOrEqual(t, lo, e)
			assert.GreaterOrEqual(t, hi, e)
		}
	}
}
