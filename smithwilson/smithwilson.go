// Package smithwilson calibrates a Smith-Wilson curve: a kernel expansion
// around an ultimate forward rate (UFR) whose coefficients come from a
// single linear solve, so every calibration instrument reprices exactly.
//
// As t grows the discount factor tends to exp(-ufr*t), i.e. the zero rate
// converges to the UFR; extrapolation beyond the last calibration time is
// governed entirely by alpha, the mean-reversion speed toward the UFR.
package smithwilson

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/instrument"
	"github.com/meenmo/termstruct/rate"
)

// Sentinel errors for calibration input validation; check with errors.Is.
var (
	ErrDimensionMismatch = errors.New("smithwilson: dimension mismatch")
	ErrNonPositiveAlpha  = errors.New("smithwilson: alpha must be positive")
	ErrNoQuotes          = errors.New("smithwilson: no quotes")
)

// Curve is a calibrated Smith-Wilson curve.
type Curve struct {
	u     []float64 // calibration times
	qb    []float64 // calibrated kernel coefficients, len(qb) == len(u)
	ufr   float64   // ultimate forward rate, continuously compounded
	alpha float64
}

// New builds a curve from already-calibrated coefficients.
func New(ufr, alpha float64, u, qb []float64) (*Curve, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveAlpha, alpha)
	}
	if len(u) != len(qb) {
		return nil, fmt.Errorf("%w: %d calibration times vs %d coefficients", ErrDimensionMismatch, len(u), len(qb))
	}
	return &Curve{
		u:     append([]float64(nil), u...),
		qb:    append([]float64(nil), qb...),
		ufr:   ufr,
		alpha: alpha,
	}, nil
}

// UFR returns the ultimate forward rate as a continuously compounded rate.
func (c *Curve) UFR() rate.Rate {
	return rate.NewContinuous(c.ufr)
}

// Alpha returns the mean-reversion parameter.
func (c *Curve) Alpha() float64 {
	return c.alpha
}

// Discount implements curve.Curve:
//
//	discount(t) = exp(-ufr*t) * (1 + sum_i H(alpha, u_i, t) * qb_i)
func (c *Curve) Discount(t float64) float64 {
	return math.Exp(-c.ufr*t) * (1 + c.kernelSum(t))
}

// Zero implements curve.Zeroer with the closed form
// ufr - ln(1 + sum)/t, continuously compounded.
func (c *Curve) Zero(t float64) rate.Rate {
	if t < 1e-10 {
		t = 1e-10
	}
	return rate.NewContinuous(c.ufr - math.Log(1+c.kernelSum(t))/t)
}

func (c *Curve) kernelSum(t float64) float64 {
	sum := 0.0
	for i, u := range c.u {
		sum += wilson(c.alpha, u, t) * c.qb[i]
	}
	return sum
}

// wilson evaluates the Wilson kernel
//
//	H(alpha, t, u) = alpha*min(t,u) - exp(-alpha*max(t,u)) * sinh(alpha*min(t,u))
//
// always with the smaller time inside sinh, which avoids the catastrophic
// cancellation of exp(-a*lo)*sinh(a*hi) for widely separated times.
func wilson(alpha, t, u float64) float64 {
	lo, hi := t, u
	if lo > hi {
		lo, hi = hi, lo
	}
	return alpha*lo - math.Exp(-alpha*hi)*math.Sinh(alpha*lo)
}

// ---------------------------------------------------------------------------
// Calibration
// ---------------------------------------------------------------------------

// Calibrate solves the Smith-Wilson system for a custom calibration set:
// cashflows[i][j] is the amount instrument j pays at times[i], and prices[j]
// is instrument j's observed price. ufr is continuously compounded.
func Calibrate(times []float64, cashflows [][]float64, prices []float64, ufr, alpha float64) (*Curve, error) {
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveAlpha, alpha)
	}
	n := len(times)
	m := len(prices)
	if n == 0 || m == 0 {
		return nil, fmt.Errorf("%w: empty calibration set", ErrNoQuotes)
	}
	if len(cashflows) != n {
		return nil, fmt.Errorf("%w: %d cashflow rows vs %d times", ErrDimensionMismatch, len(cashflows), n)
	}
	for i, row := range cashflows {
		if len(row) != m {
			return nil, fmt.Errorf("%w: cashflow row %d has %d entries vs %d prices", ErrDimensionMismatch, i, len(row), m)
		}
	}

	// Q = diag(exp(-ufr*t)) * C: raw cashflows discounted to the UFR-only
	// baseline. q holds its column sums.
	q := mat.NewDense(n, m, nil)
	colSums := make([]float64, m)
	for i := 0; i < n; i++ {
		base := math.Exp(-ufr * times[i])
		for j := 0; j < m; j++ {
			v := base * cashflows[i][j]
			q.Set(i, j, v)
			colSums[j] += v
		}
	}

	h := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			h.SetSym(i, j, wilson(alpha, times[i], times[j]))
		}
	}

	// (Qt H Q) b = p - q
	var system mat.Dense
	system.Product(q.T(), h, q)
	rhs := mat.NewVecDense(m, nil)
	for j := 0; j < m; j++ {
		rhs.SetVec(j, prices[j]-colSums[j])
	}

	var b mat.VecDense
	if err := b.SolveVec(&system, rhs); err != nil {
		return nil, fmt.Errorf("smithwilson.Calibrate: singular system: %w", err)
	}

	var qb mat.VecDense
	qb.MulVec(q, &b)

	out := make([]float64, n)
	for i := range out {
		out[i] = qb.AtVec(i)
	}
	return New(ufr, alpha, times, out)
}

// FromQuotes calibrates to priced instruments. The calibration time grid is
// the union of every instrument's cashflow times, so coupon bonds and swaps
// with different schedules can share one calibration.
func FromQuotes(quotes []instrument.Quote, ufr, alpha float64) (*Curve, error) {
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}

	times := unionTimes(quotes)
	n := len(times)
	index := make(map[float64]int, n)
	for i, t := range times {
		index[t] = i
	}

	cashflows := make([][]float64, n)
	for i := range cashflows {
		cashflows[i] = make([]float64, len(quotes))
	}
	prices := make([]float64, len(quotes))
	for j, quote := range quotes {
		prices[j] = quote.Price
		for _, cf := range quote.Instrument.Cashflows() {
			cashflows[index[roundTime(cf.Time)]][j] += cf.Amount
		}
	}

	return Calibrate(times, cashflows, prices, ufr, alpha)
}

// FromZeroCoupon calibrates to zero-coupon bond prices: the cashflow matrix
// is the identity.
func FromZeroCoupon(prices, maturities []float64, ufr, alpha float64) (*Curve, error) {
	if len(prices) != len(maturities) {
		return nil, fmt.Errorf("%w: %d prices vs %d maturities", ErrDimensionMismatch, len(prices), len(maturities))
	}
	quotes := make([]instrument.Quote, len(prices))
	for i := range prices {
		quotes[i] = instrument.ZCBPrice(prices[i], maturities[i])
	}
	return FromQuotes(quotes, ufr, alpha)
}

// FromParSwaps calibrates to par swap (or par bond) rates with a shared
// payment frequency; bare yields are interpreted as Periodic(frequency).
func FromParSwaps(yields, maturities []float64, frequency int, ufr, alpha float64) (*Curve, error) {
	if len(yields) != len(maturities) {
		return nil, fmt.Errorf("%w: %d yields vs %d maturities", ErrDimensionMismatch, len(yields), len(maturities))
	}
	quotes := make([]instrument.Quote, len(yields))
	for i := range yields {
		quotes[i] = instrument.ParYieldFrequency(yields[i], maturities[i], frequency)
	}
	return FromQuotes(quotes, ufr, alpha)
}

// unionTimes collects the sorted, de-duplicated cashflow times of all
// quotes. Times are rounded to 1e-12 before comparison so schedules built
// from the same arithmetic collapse to shared grid points.
func unionTimes(quotes []instrument.Quote) []float64 {
	seen := make(map[float64]struct{})
	var times []float64
	for _, quote := range quotes {
		for _, cf := range quote.Instrument.Cashflows() {
			t := roundTime(cf.Time)
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				times = append(times, t)
			}
		}
	}
	sort.Float64s(times)
	return times
}

func roundTime(t float64) float64 {
	return math.Round(t*1e12) / 1e12
}

var _ curve.Curve = (*Curve)(nil)
var _ curve.Zeroer = (*Curve)(nil)
