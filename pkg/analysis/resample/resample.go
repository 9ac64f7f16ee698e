// Package resample provides clamped piecewise-linear interpolation over
// unevenly spaced series.
package resample

import "sort"

// Interp returns the piecewise-linear interpolation of ys over xs at x.
// xs must be ascending-ish (lap fractions may stall or repeat at low
// speed). Queries outside the series clamp to the endpoint values, an
// empty series yields 0, and equal neighbor x-values return the lower
// sample to guard the division.
func Interp(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	i := sort.SearchFloat64s(xs, x)
	if i <= 0 {
		return ys[0]
	}
	if i >= len(xs) {
		return ys[len(ys)-1]
	}
	x0, x1 := xs[i-1], xs[i]
	if x1 == x0 {
		return ys[i-1]
	}
	ratio := (x - x0) / (x1 - x0)
	return ys[i-1] + (ys[i]-ys[i-1])*ratio
}
