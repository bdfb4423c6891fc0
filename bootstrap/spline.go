package bootstrap

import "sort"

// Interpolator builds a function through the given knots. The returned
// function must pass exactly through every (x, y) pair; behavior outside the
// knot range is up to the implementation, but calibration relies on
// boundary-slope extrapolation (a linear extension from the boundary value
// and derivative) so the forward rate stays continuous past the last knot.
type Interpolator func(xs, ys []float64) func(float64) float64

// Linear interpolates piecewise-linearly through the knots and extrapolates
// along the end segments.
func Linear(xs, ys []float64) func(float64) float64 {
	n := len(xs)
	if n == 1 {
		y := ys[0]
		return func(float64) float64 { return y }
	}
	xs = append([]float64(nil), xs...)
	ys = append([]float64(nil), ys...)
	return func(x float64) float64 {
		i := segmentIndex(xs, x)
		slope := (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
		return ys[i] + slope*(x-xs[i])
	}
}

// Quadratic interpolates with a C1 piecewise-quadratic spline through the
// knots. Segment slopes satisfy z[i+1] = 2*secant[i] - z[i], seeded with the
// first secant so the initial segment is linear. Outside the knot range the
// spline extends linearly at the boundary slope.
func Quadratic(xs, ys []float64) func(float64) float64 {
	n := len(xs)
	if n == 1 {
		y := ys[0]
		return func(float64) float64 { return y }
	}
	xs = append([]float64(nil), xs...)
	ys = append([]float64(nil), ys...)

	// Knot slopes.
	z := make([]float64, n)
	z[0] = (ys[1] - ys[0]) / (xs[1] - xs[0])
	for i := 0; i < n-1; i++ {
		secant := (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
		z[i+1] = 2*secant - z[i]
	}

	return func(x float64) float64 {
		if x <= xs[0] {
			return ys[0] + z[0]*(x-xs[0])
		}
		if x >= xs[n-1] {
			return ys[n-1] + z[n-1]*(x-xs[n-1])
		}
		i := segmentIndex(xs, x)
		h := xs[i+1] - xs[i]
		dx := x - xs[i]
		return ys[i] + z[i]*dx + (z[i+1]-z[i])/(2*h)*dx*dx
	}
}

// segmentIndex returns the index i of the segment [xs[i], xs[i+1]] to use
// for x, clamping to the end segments for extrapolation.
func segmentIndex(xs []float64, x float64) int {
	n := len(xs)
	i := sort.SearchFloat64s(xs, x)
	switch {
	case i <= 0:
		return 0
	case i >= n:
		return n - 2
	default:
		return i - 1
	}
}
