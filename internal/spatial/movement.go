// Package spatial provides planar trajectory math over pixel
// coordinates.
package spatial

import "github.com/golang/geo/r2"

// PathLength returns the total length of the polyline through points,
// in the points' units.
func PathLength(points []r2.Point) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += points[i].Sub(points[i-1]).Norm()
	}
	return length
}

// NetDisplacement returns the straight-line distance between the first
// and last point.
func NetDisplacement(points []r2.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return points[len(points)-1].Sub(points[0]).Norm()
}

// MeanSpeed returns the average speed along the trajectory given the
// per-frame time scale (seconds per frame). Zero when fewer than two
// points or a non-positive time scale.
func MeanSpeed(points []r2.Point, timeScale float64) float64 {
	if len(points) < 2 || timeScale <= 0 {
		return 0
	}
	elapsed := float64(len(points)-1) * timeScale
	return PathLength(points) / elapsed
}
