// Package curve defines the term-structure contract and the algebra derived
// from it.
//
// A concrete curve only has to supply Discount; accumulation, forward, zero
// and par rates are derived here once, against the interface. Curves are
// immutable after construction and safe for concurrent evaluation.
package curve

import (
	"math"

	"github.com/meenmo/termstruct/rate"
)

// Curve maps a future time (in years) to a discount factor.
//
// Implementations must satisfy Discount(0) == 1 and return a positive value
// for every t >= 0, extrapolating per their own rules beyond the calibrated
// range.
type Curve interface {
	Discount(t float64) float64
}

// Zeroer is implemented by curves with a closed-form zero rate that is
// cheaper or more accurate than extracting it from Discount. Zero dispatches
// to it when available.
type Zeroer interface {
	Zero(t float64) rate.Rate
}

// timeEpsilon keeps rate extraction total at t = 0, where the zero rate is
// otherwise undefined.
const timeEpsilon = 1e-10

// Discount returns the present value at time zero of 1 unit paid at t.
func Discount(c Curve, t float64) float64 {
	return c.Discount(t)
}

// DiscountBetween returns the discount factor from `from` to `to`.
func DiscountBetween(c Curve, from, to float64) float64 {
	return c.Discount(to) / c.Discount(from)
}

// Accumulation returns the value at t of 1 unit invested at time zero.
func Accumulation(c Curve, t float64) float64 {
	return 1 / c.Discount(t)
}

// AccumulationBetween returns the accumulation factor from `from` to `to`.
func AccumulationBetween(c Curve, from, to float64) float64 {
	return 1 / DiscountBetween(c, from, to)
}

// Zero returns the spot rate over [0, t], continuously compounded. Convert
// the result for other conventions. At t = 0 the time is nudged by a small
// epsilon so evaluation stays total.
func Zero(c Curve, t float64) rate.Rate {
	if z, ok := c.(Zeroer); ok {
		return z.Zero(t)
	}
	if t < timeEpsilon {
		t = timeEpsilon
	}
	return rate.NewContinuous(-math.Log(c.Discount(t)) / t)
}

// Forward returns the implied rate between two future times, reported as
// annually compounded (Periodic(1)); convert the result for other
// conventions.
func Forward(c Curve, from, to float64) rate.Rate {
	dt := to - from
	if dt < timeEpsilon {
		dt = timeEpsilon
	}
	acc := AccumulationBetween(c, from, to)
	return rate.NewPeriodic(math.Pow(acc, 1/dt)-1, 1)
}

// ForwardAt returns the one-year forward rate starting at `from`.
func ForwardAt(c Curve, from float64) rate.Rate {
	return Forward(c, from, from+1)
}

// CouponTimes returns the payment times of a coupon instrument maturing at t
// with the given payments per year: the decreasing sequence t, t-dt, ... in
// ascending order, where dt = min(1/frequency, t). The first payment always
// falls in (0, dt], so a maturity that is an exact multiple of the spacing
// never produces a zero or negative time. A frequency below 1 is treated
// as 1.
func CouponTimes(t float64, frequency int) []float64 {
	if frequency < 1 {
		frequency = 1
	}
	dt := math.Min(1/float64(frequency), t)
	if dt <= 0 {
		return nil
	}
	n := int(math.Ceil(t/dt - 1e-12))
	times := make([]float64, n)
	for i := 0; i < n; i++ {
		times[n-1-i] = t - float64(i)*dt
	}
	return times
}

// Par returns the coupon rate at which a bond paying `r/frequency` each
// period and 1 + r/frequency at maturity t is worth exactly par under the
// curve.
//
// The result is reported at the frequency implied by the actual coupon
// spacing (1/dt, rounded to the nearest integer), not the requested
// frequency: when t is shorter than one coupon period the single payment's
// spacing is t itself, and reporting at a finer frequency than the cashflows
// support would misstate the rate. For t >= 1/frequency the two coincide.
func Par(c Curve, t float64, frequency int) rate.Rate {
	times := CouponTimes(t, frequency)
	if len(times) == 0 {
		return rate.NewContinuous(0)
	}
	dt := times[0]
	if len(times) > 1 {
		dt = times[1] - times[0]
	}

	couponPV := 0.0
	for _, ct := range times {
		couponPV += c.Discount(ct)
	}

	// Level per-period coupon that prices the bond at par, assuming the
	// coupon frequency as the compounding basis. This is the Newton seed;
	// the exact answer is the IRR of the implied cashflow stream.
	r := (1 - c.Discount(t)) / couponPV

	cfs := make([]float64, 0, len(times)+1)
	cfTimes := make([]float64, 0, len(times)+1)
	cfs = append(cfs, -1)
	cfTimes = append(cfTimes, 0)
	for i, ct := range times {
		amount := r
		if i == len(times)-1 {
			amount = 1 + r
		}
		cfs = append(cfs, amount)
		cfTimes = append(cfTimes, ct)
	}

	irr := internalRateOfReturn(cfs, cfTimes, r/dt)

	freqOut := int(math.Round(1 / dt))
	if freqOut < 1 {
		freqOut = 1
	}
	return rate.NewContinuous(irr).Convert(rate.Periodic(freqOut))
}

const (
	irrTolerance = 1e-12
	irrMaxIter   = 100
)

// internalRateOfReturn solves sum(cf_i * exp(-x*t_i)) = 0 for the
// continuously compounded rate x via Newton-Raphson with the closed-form
// derivative. If the iteration cap is hit the last iterate is returned; the
// residual at that point is small for any realistic coupon stream, but it is
// not re-checked here.
func internalRateOfReturn(cfs, times []float64, guess float64) float64 {
	x := guess
	for iter := 0; iter < irrMaxIter; iter++ {
		var f, fPrime float64
		for i, cf := range cfs {
			disc := math.Exp(-x * times[i])
			f += cf * disc
			fPrime += -times[i] * cf * disc
		}
		if math.Abs(f) < irrTolerance {
			return x
		}
		if math.Abs(fPrime) < 1e-15 {
			return x
		}
		x -= f / fPrime
	}
	return x
}
