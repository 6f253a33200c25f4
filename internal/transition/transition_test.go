package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Scenario(t *testing.T) {
	states := []int{10, 10, 10, 11, 11, 12}

	records := Extract(states, 1, Options{})
	require.Len(t, records, 2)

	// Three frames in state 10 before entering 11, then two frames in
	// 11 before entering 12.
	assert.Equal(t, []float64{3}, records[Pair{From: 10, To: 11}])
	assert.Equal(t, []float64{2}, records[Pair{From: 11, To: 12}])
}

func TestExtract_TimeScale(t *testing.T) {
	states := []int{10, 10, 10, 11, 11, 12}

	records := Extract(states, 0.5, Options{})
	assert.Equal(t, []float64{1.5}, records[Pair{From: 10, To: 11}])
	assert.Equal(t, []float64{1}, records[Pair{From: 11, To: 12}])
}

func TestExtract_MinDurationIsStrict(t *testing.T) {
	states := []int{10, 10, 10, 11, 11, 12}

	// The (11,12) dwell is exactly 2 and must be excluded by a
	// threshold of 2; the (10,11) dwell of 3 survives.
	records := Extract(states, 1, Options{MinDuration: 2})
	require.Len(t, records, 1)
	assert.Equal(t, []float64{3}, records[Pair{From: 10, To: 11}])
}

func TestExtract_AllowedStates(t *testing.T) {
	states := []int{10, 10, 0, 0, 11, 11, 12}

	records := Extract(states, 1, Options{Allowed: []int{10, 11, 12}})

	// Transitions touching the unknown state are dropped, but the
	// change points still advance the dwell origin.
	assert.NotContains(t, records, Pair{From: 10, To: 0})
	assert.NotContains(t, records, Pair{From: 0, To: 11})
	assert.Equal(t, []float64{2}, records[Pair{From: 11, To: 12}])
}

func TestExtract_EmptySequence(t *testing.T) {
	assert.Empty(t, Extract(nil, 1, Options{}))
	assert.Empty(t, Extract([]int{}, 1, Options{}))
}

func TestExtract_ConstantSequence(t *testing.T) {
	// A trailing dwell with no subsequent change emits nothing.
	assert.Empty(t, Extract([]int{21, 21, 21, 21}, 1, Options{}))
	assert.Empty(t, Extract([]int{21}, 1, Options{}))
}

func TestExtract_RepeatedPairAccumulates(t *testing.T) {
	states := []int{10, 11, 10, 10, 11}

	records := Extract(states, 1, Options{})
	assert.Equal(t, []float64{1, 2}, records[Pair{From: 10, To: 11}])
	assert.Equal(t, []float64{1}, records[Pair{From: 11, To: 10}])
}

func TestEvents_FrameIndices(t *testing.T) {
	states := []int{10, 10, 10, 11, 11, 12}

	events := Events(states, 1, Options{})
	require.Len(t, events, 2)

	assert.Equal(t, Event{Pair: Pair{From: 10, To: 11}, FrameIndex: 3, Duration: 3}, events[0])
	assert.Equal(t, Event{Pair: Pair{From: 11, To: 12}, FrameIndex: 5, Duration: 2}, events[1])
}

func TestEvents_FilteredChangePointStillAdvancesOrigin(t *testing.T) {
	// The short 11-dwell is filtered out, but the following dwell is
	// still measured from the filtered change point, not before it.
	states := []int{10, 11, 12, 12, 12, 13}

	events := Events(states, 1, Options{MinDuration: 1})
	require.Len(t, events, 1)
	assert.Equal(t, Pair{From: 12, To: 13}, events[0].Pair)
	assert.Equal(t, float64(3), events[0].Duration)
}
