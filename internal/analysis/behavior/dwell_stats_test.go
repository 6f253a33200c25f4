package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlab/burrowtrack/internal/state"
)

func dwellRowFor(t *testing.T, codes []int, timeScale float64, category string) (total, mean, median float64, runs int) {
	t.Helper()

	rows, err := dwellRows(1, codes, timeScale)
	require.NoError(t, err)
	for _, r := range rows {
		if r.Category == category {
			return r.TotalSeconds, r.MeanSeconds, r.MedianSeconds, r.RunCount
		}
	}
	t.Fatalf("no dwell row for category %q", category)
	return 0, 0, 0, 0
}

func TestDwellRowsSummaries(t *testing.T) {
	// Three burrow runs of 1, 1 and 4 frames at 1 second per frame.
	codes := []int{21, 10, 21, 10, 21, 21, 21, 21, 10}

	total, mean, median, runs := dwellRowFor(t, codes, 1, state.QueryInBurrow)
	assert.Equal(t, 3, runs)
	assert.InDelta(t, 6.0, total, 1e-9)
	assert.InDelta(t, 2.0, mean, 1e-9)
	// The long run skews the mean; the median stays at the typical run.
	assert.InDelta(t, 1.0, median, 1e-9)
}

func TestDwellRowsTimeScale(t *testing.T) {
	codes := []int{11, 11, 10}

	total, mean, median, runs := dwellRowFor(t, codes, 0.5, state.QueryInAir)
	assert.Equal(t, 1, runs)
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 1.0, mean, 1e-9)
	assert.InDelta(t, 1.0, median, 1e-9)
}

func TestDwellRowsEmptyCategory(t *testing.T) {
	// A category never visited still gets a row, all zeros.
	codes := []int{10, 10}

	total, mean, median, runs := dwellRowFor(t, codes, 1, state.QueryInValley)
	assert.Zero(t, runs)
	assert.Zero(t, total)
	assert.Zero(t, mean)
	assert.Zero(t, median)
}
