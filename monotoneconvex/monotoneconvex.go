// Package monotoneconvex interpolates a zero curve with the Hagan-West
// monotone convex scheme. Unlike spline interpolation of zero rates, the
// scheme works on the instantaneous forward: it reproduces every input zero
// rate exactly, keeps the forward continuous, and never lets the forward go
// negative when the discrete forwards implied by the inputs are positive.
package monotoneconvex

import (
	"fmt"
	"math"
	"sort"

	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/rate"
)

// Curve is a calibrated monotone convex curve over the knots 0, t_1, .., t_n.
type Curve struct {
	times []float64 // t_1..t_n, strictly increasing, positive
	zeros []float64 // continuously compounded zero rates at times
	fd    []float64 // discrete forward per interval, len n
	f     []float64 // instantaneous forward at each knot, len n+1
}

// New builds a curve through the given continuously compounded zero rates.
// Times must be positive and strictly increasing.
func New(zeros, times []float64) (*Curve, error) {
	n := len(times)
	if n == 0 {
		return nil, fmt.Errorf("monotoneconvex.New: no pillars")
	}
	if len(zeros) != n {
		return nil, fmt.Errorf("monotoneconvex.New: %d zeros vs %d times", len(zeros), n)
	}
	prev := 0.0
	for i, t := range times {
		if t <= prev {
			return nil, fmt.Errorf("monotoneconvex.New: times must be positive and strictly increasing, got %v at index %d", t, i)
		}
		prev = t
	}

	c := &Curve{
		times: append([]float64(nil), times...),
		zeros: append([]float64(nil), zeros...),
		fd:    make([]float64, n),
		f:     make([]float64, n+1),
	}

	// Discrete forwards: fd[i] is the average forward over interval i, read
	// off the accrued zero rates.
	c.fd[0] = zeros[0]
	for i := 1; i < n; i++ {
		c.fd[i] = (times[i]*zeros[i] - times[i-1]*zeros[i-1]) / (times[i] - times[i-1])
	}

	// Knot forwards: interior knots take the length-weighted average of the
	// two adjacent discrete forwards, the ends extend the nearest interval.
	for j := 1; j < n; j++ {
		hj := c.knot(j) - c.knot(j-1)
		hj1 := c.knot(j+1) - c.knot(j)
		c.f[j] = (hj*c.fd[j] + hj1*c.fd[j-1]) / (hj + hj1)
	}
	if n == 1 {
		c.f[0] = c.fd[0]
		c.f[1] = c.fd[0]
	} else {
		c.f[0] = c.fd[0] - 0.5*(c.f[1]-c.fd[0])
		c.f[n] = c.fd[n-1] - 0.5*(c.f[n-1]-c.fd[n-1])
	}

	// Amelioration: collar each knot forward between zero and twice the
	// smaller adjacent discrete forward, which is what guarantees the
	// interpolated forward cannot cross zero on positive inputs.
	c.f[0] = collar(c.f[0], 2*c.fd[0])
	c.f[n] = collar(c.f[n], 2*c.fd[n-1])
	for j := 1; j < n; j++ {
		c.f[j] = collar(c.f[j], 2*math.Min(c.fd[j-1], c.fd[j]))
	}
	return c, nil
}

// knot returns the j-th knot time, with knot(0) = 0.
func (c *Curve) knot(j int) float64 {
	if j == 0 {
		return 0
	}
	return c.times[j-1]
}

func collar(v, bound float64) float64 {
	lo, hi := 0.0, bound
	if bound < 0 {
		lo, hi = bound, 0
	}
	return math.Min(math.Max(v, lo), hi)
}

// Times returns the pillar times.
func (c *Curve) Times() []float64 {
	return append([]float64(nil), c.times...)
}

// Zeros returns the continuously compounded pillar zero rates.
func (c *Curve) Zeros() []float64 {
	return append([]float64(nil), c.zeros...)
}

// Discount implements curve.Curve.
func (c *Curve) Discount(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-c.zeroValue(t) * t)
}

// Zero implements curve.Zeroer. At t = 0 it returns the instantaneous
// forward there, which is the limit of the zero rate.
func (c *Curve) Zero(t float64) rate.Rate {
	if t <= 0 {
		return rate.NewContinuous(c.f[0])
	}
	return rate.NewContinuous(c.zeroValue(t))
}

// Forward returns the instantaneous forward rate at t, continuously
// compounded. Beyond the last pillar the forward is flat at the last
// interval's discrete forward.
func (c *Curve) Forward(t float64) rate.Rate {
	return rate.NewContinuous(c.forwardValue(t))
}

func (c *Curve) forwardValue(t float64) float64 {
	n := len(c.times)
	if t <= 0 {
		return c.f[0]
	}
	if t >= c.times[n-1] {
		return c.fd[n-1]
	}
	i := sort.SearchFloat64s(c.times, t)
	x, g0, g1 := c.local(i, t)
	return c.fd[i] + gValue(x, g0, g1)
}

func (c *Curve) zeroValue(t float64) float64 {
	n := len(c.times)
	if t >= c.times[n-1] {
		return (c.times[n-1]*c.zeros[n-1] + c.fd[n-1]*(t-c.times[n-1])) / t
	}
	i := sort.SearchFloat64s(c.times, t)
	x, g0, g1 := c.local(i, t)
	accrued := 0.0
	if i > 0 {
		accrued = c.times[i-1] * c.zeros[i-1]
	}
	lo := c.knot(i)
	h := c.times[i] - lo
	return (accrued + c.fd[i]*(t-lo) + h*gIntegral(x, g0, g1)) / t
}

// local maps t into interval i's unit coordinate and forward deviations.
func (c *Curve) local(i int, t float64) (x, g0, g1 float64) {
	lo := c.knot(i)
	x = (t - lo) / (c.times[i] - lo)
	g0 = c.f[i] - c.fd[i]
	g1 = c.f[i+1] - c.fd[i]
	return x, g0, g1
}

var _ curve.Curve = (*Curve)(nil)
var _ curve.Zeroer = (*Curve)(nil)
