package spatial

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
)

func TestPathLength(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}
	assert.InDelta(t, 11, PathLength(points), 1e-12)

	assert.Equal(t, float64(0), PathLength(nil))
	assert.Equal(t, float64(0), PathLength([]r2.Point{{X: 1, Y: 1}}))
}

func TestNetDisplacement(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 12}}
	assert.InDelta(t, 13, NetDisplacement(points), 1e-12)

	assert.Equal(t, float64(0), NetDisplacement([]r2.Point{{X: 2, Y: 2}}))
}

func TestMeanSpeed(t *testing.T) {
	points := []r2.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 8}}

	// 10 units over 2 frames at 0.5 s/frame.
	assert.InDelta(t, 10, MeanSpeed(points, 0.5), 1e-12)

	assert.Equal(t, float64(0), MeanSpeed(points, 0))
	assert.Equal(t, float64(0), MeanSpeed(points[:1], 0.5))
}
