package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 6})

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, float64(12), s.Total)
	assert.Equal(t, float64(4), s.Mean)
	assert.Equal(t, float64(2), s.Min)
	assert.Equal(t, float64(6), s.Max)
	assert.InDelta(t, 2, s.StdDev, 1e-12)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarize_SingleValue(t *testing.T) {
	s := Summarize([]float64{5})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, float64(5), s.Mean)
	assert.Equal(t, float64(0), s.StdDev)
}

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	assert.Equal(t, float64(15), Percentile(values, 0))
	assert.Equal(t, float64(20), Percentile(values, 30))
	assert.Equal(t, float64(35), Percentile(values, 50))
	assert.Equal(t, float64(50), Percentile(values, 100))
	assert.Equal(t, float64(0), Percentile(nil, 50))
}
