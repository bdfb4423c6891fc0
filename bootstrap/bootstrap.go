// Package bootstrap builds a zero curve by sequentially solving one discount
// factor per quoted maturity, then interpolating the implied continuous zero
// rates with a spline.
//
// Instruments without interim coupons imply their discount factor directly;
// coupon-bearing instruments require a Newton-Raphson solve because interior
// coupon dates discount off the partially built curve. Point i therefore
// depends on points 1..i-1: the calibration is an inherently ordered
// pipeline, although independent curves may calibrate concurrently.
package bootstrap

import (
	"fmt"
	"math"

	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/instrument"
	"github.com/meenmo/termstruct/rate"
)

// Curve is a bootstrapped zero curve: the solved (rate, maturity) pillars
// plus an interpolated continuous-zero-rate function over {0} and the
// maturities, flat below the first knot and extended at the boundary slope
// beyond the last.
type Curve struct {
	rates      []rate.Rate
	maturities []float64
	zeroFn     func(float64) float64
}

// Discount implements curve.Curve: discount(t) = exp(-zero(t)*t).
func (c *Curve) Discount(t float64) float64 {
	return math.Exp(-c.zeroFn(t) * t)
}

// Zero implements curve.Zeroer; the interpolated zero rate is the curve's
// native representation, so no extraction from Discount is needed.
func (c *Curve) Zero(t float64) rate.Rate {
	return rate.NewContinuous(c.zeroFn(t))
}

// Rates returns the quoted input rates, in maturity order.
func (c *Curve) Rates() []rate.Rate {
	return append([]rate.Rate(nil), c.rates...)
}

// Maturities returns the quoted pillar maturities, ascending.
func (c *Curve) Maturities() []float64 {
	return append([]float64(nil), c.maturities...)
}

// Option configures a bootstrap.
type Option func(*config)

type config struct {
	interp Interpolator
}

// WithInterpolator selects the spline built through the solved
// (time, continuous zero rate) points. The default is Quadratic; Linear and
// caller-supplied interpolators are also accepted.
func WithInterpolator(i Interpolator) Option {
	return func(c *config) { c.interp = i }
}

// pillar pairs one quoted instrument with its settlement frequency.
// frequency 0 marks a pure zero-coupon instrument whose discount factor is
// implied directly by the quoted rate.
type pillar struct {
	rate      rate.Rate
	maturity  float64
	frequency int
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Zero bootstraps from zero-coupon rates: every discount factor is implied
// directly, no root-finding.
func Zero(rates []rate.Rate, maturities []float64, opts ...Option) (*Curve, error) {
	pillars, err := makePillars("bootstrap.Zero", rates, maturities, func(i int) int { return 0 })
	if err != nil {
		return nil, err
	}
	return solve(pillars, opts)
}

// ZeroYields is Zero with bare yields, interpreted as annually compounded
// (Periodic(1)).
func ZeroYields(yields, maturities []float64, opts ...Option) (*Curve, error) {
	return Zero(floatRates(yields, 1), maturities, opts...)
}

// Par bootstraps from par instruments whose coupon frequency is each rate's
// own compounding frequency. A continuously compounded input has no coupon
// frequency and is treated as a zero-coupon pillar.
func Par(rates []rate.Rate, maturities []float64, opts ...Option) (*Curve, error) {
	pillars, err := makePillars("bootstrap.Par", rates, maturities, func(i int) int {
		return rates[i].Compounding().Frequency()
	})
	if err != nil {
		return nil, err
	}
	return solve(pillars, opts)
}

// ParYields is Par with bare yields, interpreted as semi-annual
// (Periodic(2)) per the usual par-instrument convention.
func ParYields(yields, maturities []float64, opts ...Option) (*Curve, error) {
	return Par(floatRates(yields, 2), maturities, opts...)
}

// CMT bootstraps from constant-maturity treasury par yields: semi-annual par
// bonds beyond one year, zero-coupon money-market instruments at or below.
// Bare yields are interpreted as Periodic(2) for the coupon pillars and at
// the money-market frequency 1/maturity for the short ones.
func CMT(yields, maturities []float64, opts ...Option) (*Curve, error) {
	if len(yields) != len(maturities) {
		return nil, fmt.Errorf("bootstrap.CMT: %d yields vs %d maturities", len(yields), len(maturities))
	}
	rates := make([]rate.Rate, len(yields))
	freqs := make([]int, len(yields))
	for i, y := range yields {
		if maturities[i] <= 1 {
			rates[i] = rate.NewPeriodic(y, moneyMarketFrequency(maturities[i]))
			freqs[i] = 0
		} else {
			rates[i] = rate.NewPeriodic(y, 2)
			freqs[i] = 2
		}
	}
	pillars, err := makePillars("bootstrap.CMT", rates, maturities, func(i int) int { return freqs[i] })
	if err != nil {
		return nil, err
	}
	return solve(pillars, opts)
}

// OIS bootstraps from overnight-index swap rates: single-settlement
// money-market instruments up to one year, quarterly-coupon swaps beyond
// (bare yields interpreted as Periodic(4)).
func OIS(yields, maturities []float64, opts ...Option) (*Curve, error) {
	if len(yields) != len(maturities) {
		return nil, fmt.Errorf("bootstrap.OIS: %d yields vs %d maturities", len(yields), len(maturities))
	}
	rates := make([]rate.Rate, len(yields))
	freqs := make([]int, len(yields))
	for i, y := range yields {
		if maturities[i] <= 1 {
			rates[i] = rate.NewPeriodic(y, moneyMarketFrequency(maturities[i]))
			freqs[i] = 0
		} else {
			rates[i] = rate.NewPeriodic(y, 4)
			freqs[i] = 4
		}
	}
	pillars, err := makePillars("bootstrap.OIS", rates, maturities, func(i int) int { return freqs[i] })
	if err != nil {
		return nil, err
	}
	return solve(pillars, opts)
}

// Forward bootstraps from forward rates over consecutive intervals by
// chaining the interval discounts into zero-coupon pillars. Bare forwards
// are interpreted as Periodic(1).
func Forward(yields, times []float64, opts ...Option) (*Curve, error) {
	if len(yields) != len(times) {
		return nil, fmt.Errorf("bootstrap.Forward: %d yields vs %d times", len(yields), len(times))
	}
	rates := make([]rate.Rate, len(yields))
	price := 1.0
	prev := 0.0
	for i, y := range yields {
		price *= rate.FromFloat(y).Discount(times[i] - prev)
		prev = times[i]
		rates[i] = rate.NewContinuous(-math.Log(price) / times[i])
	}
	pillars, err := makePillars("bootstrap.Forward", rates, times, func(i int) int { return 0 })
	if err != nil {
		return nil, err
	}
	return solve(pillars, opts)
}

// moneyMarketFrequency maps a sub-year maturity to the periodic frequency
// whose one-period discount matches the money-market convention
// 1/(1 + y*t). Exact when 1/t is a whole number (the quoted tenors).
func moneyMarketFrequency(maturity float64) int {
	f := int(math.Round(1 / maturity))
	if f < 1 {
		f = 1
	}
	return f
}

func floatRates(yields []float64, frequency int) []rate.Rate {
	rates := make([]rate.Rate, len(yields))
	for i, y := range yields {
		rates[i] = rate.NewPeriodic(y, frequency)
	}
	return rates
}

func makePillars(op string, rates []rate.Rate, maturities []float64, freq func(int) int) ([]pillar, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("%s: no quotes", op)
	}
	if len(rates) != len(maturities) {
		return nil, fmt.Errorf("%s: %d rates vs %d maturities", op, len(rates), len(maturities))
	}
	pillars := make([]pillar, len(rates))
	prev := 0.0
	for i := range rates {
		if maturities[i] <= prev {
			return nil, fmt.Errorf("%s: maturities must be positive and strictly increasing, got %v at index %d", op, maturities[i], i)
		}
		prev = maturities[i]
		pillars[i] = pillar{rate: rates[i], maturity: maturities[i], frequency: freq(i)}
	}
	return pillars, nil
}

// ---------------------------------------------------------------------------
// Sequential solve
// ---------------------------------------------------------------------------

const (
	solveTolerance = 1e-12
	solveMaxIter   = 100
	// derivStep is the relative step of the central-difference derivative in
	// the Newton iteration.
	derivStep = 1e-7
	// dfFloor keeps trial discount factors strictly positive.
	dfFloor = 1e-9
)

// solve is an explicit fold over maturities: the accumulator is the growing
// slice of solved zero rates, so the dependency of point i on points 1..i-1
// stays visible.
func solve(pillars []pillar, opts []Option) (*Curve, error) {
	cfg := config{interp: Quadratic}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(pillars)
	xs := make([]float64, 1, n+1)    // {0} then maturities
	zeros := make([]float64, 1, n+1) // zero at t=0 backfilled from the first pillar

	for i, p := range pillars {
		var df float64
		if i == 0 || p.frequency == 0 {
			// The first pillar has no solved points to discount interim
			// coupons against; its discount factor comes straight from the
			// quoted rate (exact when the first maturity has no interim
			// cashflows).
			df = p.rate.Discount(p.maturity)
		} else {
			df = solveCouponPillar(p, xs, zeros, cfg.interp)
		}
		if df <= 0 {
			return nil, fmt.Errorf("bootstrap: non-positive discount factor %v at maturity %v", df, p.maturity)
		}
		xs = append(xs, p.maturity)
		zeros = append(zeros, -math.Log(df)/p.maturity)
		if i == 0 {
			// Flat extrapolation below the first knot.
			zeros[0] = zeros[1]
		}
	}

	rates := make([]rate.Rate, n)
	maturities := make([]float64, n)
	for i, p := range pillars {
		rates[i] = p.rate
		maturities[i] = p.maturity
	}

	return &Curve{
		rates:      rates,
		maturities: maturities,
		zeroFn:     cfg.interp(xs, zeros),
	}, nil
}

// solveCouponPillar finds the discount factor at p.maturity such that the
// candidate curve (solved knots plus the trial point) reprices the
// instrument's cashflow stream at the value the quoted rate itself assigns
// to it. Newton-Raphson with a central-difference derivative; the quoted
// rate's own discount factor is the initial guess, and on hitting the
// iteration cap the last iterate is returned.
func solveCouponPillar(p pillar, solvedXs, solvedZeros []float64, interp Interpolator) float64 {
	cfs := instrument.Bond{
		Coupon:    p.rate,
		Frequency: p.frequency,
		Maturity:  p.maturity,
	}.Cashflows()

	// The target pins the root: the stream's value when the quoted
	// instrument is itself the discount curve.
	target := 0.0
	for _, cf := range cfs {
		target += cf.Amount * p.rate.Discount(cf.Time)
	}

	xs := append(append([]float64(nil), solvedXs...), p.maturity)
	ys := append([]float64(nil), solvedZeros...)

	pv := func(df float64) float64 {
		if df < dfFloor {
			df = dfFloor
		}
		zeroFn := interp(xs, append(ys, -math.Log(df)/p.maturity))
		total := 0.0
		for _, cf := range cfs {
			total += cf.Amount * math.Exp(-zeroFn(cf.Time)*cf.Time)
		}
		return total
	}

	guess := p.rate.Discount(p.maturity)
	for iter := 0; iter < solveMaxIter; iter++ {
		f := pv(guess) - target
		if math.Abs(f) < solveTolerance {
			return guess
		}
		h := derivStep * math.Max(guess, 1)
		fPrime := (pv(guess+h) - pv(guess-h)) / (2 * h)
		if math.Abs(fPrime) < 1e-15 {
			return guess
		}
		guess -= f / fPrime
		if guess < dfFloor {
			guess = dfFloor
		}
	}
	return guess
}

var _ curve.Curve = (*Curve)(nil)
var _ curve.Zeroer = (*Curve)(nil)
