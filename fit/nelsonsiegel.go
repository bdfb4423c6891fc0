// Package fit provides parametric zero-curve families (Nelson-Siegel and
// Svensson) and least-squares calibration of their parameters to priced
// instruments. Unlike the bootstrap and kernel curves, a fitted curve does
// not reprice its inputs exactly; it trades exactness for a smooth low-rank
// description of the whole curve.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/instrument"
	"github.com/meenmo/termstruct/rate"
)

var (
	ErrNonPositiveTau = errors.New("fit: tau must be positive")
	ErrNoQuotes       = errors.New("fit: no quotes")
)

// NelsonSiegel is the three-factor zero curve
//
//	zero(t) = b0 + b1*(1-exp(-t/tau))/(t/tau) + b2*((1-exp(-t/tau))/(t/tau) - exp(-t/tau))
//
// with zero rates continuously compounded. b0 is the long end, b0+b1 the
// short end, and b2 the hump.
type NelsonSiegel struct {
	Beta0 float64
	Beta1 float64
	Beta2 float64
	Tau   float64
}

// NewNelsonSiegel validates the decay parameter.
func NewNelsonSiegel(beta0, beta1, beta2, tau float64) (*NelsonSiegel, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveTau, tau)
	}
	return &NelsonSiegel{Beta0: beta0, Beta1: beta1, Beta2: beta2, Tau: tau}, nil
}

func (m *NelsonSiegel) zeroValue(t float64) float64 {
	x := t / m.Tau
	s := slopeFactor(x)
	return m.Beta0 + m.Beta1*s + m.Beta2*(s-math.Exp(-x))
}

// Discount implements curve.Curve.
func (m *NelsonSiegel) Discount(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-m.zeroValue(t) * t)
}

// Zero implements curve.Zeroer. At t = 0 the closed form tends to b0 + b1.
func (m *NelsonSiegel) Zero(t float64) rate.Rate {
	return rate.NewContinuous(m.zeroValue(t))
}

// Svensson extends Nelson-Siegel with a second hump on its own decay scale.
type Svensson struct {
	Beta0 float64
	Beta1 float64
	Beta2 float64
	Beta3 float64
	Tau1  float64
	Tau2  float64
}

// NewSvensson validates both decay parameters.
func NewSvensson(beta0, beta1, beta2, beta3, tau1, tau2 float64) (*Svensson, error) {
	if tau1 <= 0 {
		return nil, fmt.Errorf("%w: tau1 %v", ErrNonPositiveTau, tau1)
	}
	if tau2 <= 0 {
		return nil, fmt.Errorf("%w: tau2 %v", ErrNonPositiveTau, tau2)
	}
	return &Svensson{Beta0: beta0, Beta1: beta1, Beta2: beta2, Beta3: beta3, Tau1: tau1, Tau2: tau2}, nil
}

func (m *Svensson) zeroValue(t float64) float64 {
	x1 := t / m.Tau1
	x2 := t / m.Tau2
	s1 := slopeFactor(x1)
	s2 := slopeFactor(x2)
	return m.Beta0 + m.Beta1*s1 + m.Beta2*(s1-math.Exp(-x1)) + m.Beta3*(s2-math.Exp(-x2))
}

// Discount implements curve.Curve.
func (m *Svensson) Discount(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-m.zeroValue(t) * t)
}

// Zero implements curve.Zeroer.
func (m *Svensson) Zero(t float64) rate.Rate {
	return rate.NewContinuous(m.zeroValue(t))
}

// slopeFactor is (1-exp(-x))/x with its limit of 1 at x = 0. expm1 keeps the
// short end accurate where 1-exp(-x) would cancel.
func slopeFactor(x float64) float64 {
	if x < 1e-8 {
		return 1 - x/2
	}
	return -math.Expm1(-x) / x
}

// ---------------------------------------------------------------------------
// Calibration
// ---------------------------------------------------------------------------

// FitNelsonSiegel searches from the initial parameters for the set that
// minimizes the sum of squared pricing errors over the quotes. The best
// point found is returned even when the optimizer stops without converging.
func FitNelsonSiegel(quotes []instrument.Quote, initial NelsonSiegel) (*NelsonSiegel, error) {
	if initial.Tau <= 0 {
		return nil, fmt.Errorf("%w: initial tau %v", ErrNonPositiveTau, initial.Tau)
	}
	x0 := []float64{initial.Beta0, initial.Beta1, initial.Beta2, initial.Tau}
	x, err := minimize(quotes, x0, func(x []float64) (curve.Curve, error) {
		return NewNelsonSiegel(x[0], x[1], x[2], x[3])
	})
	if err != nil {
		return nil, err
	}
	return NewNelsonSiegel(x[0], x[1], x[2], x[3])
}

// FitSvensson is FitNelsonSiegel for the six-parameter family.
func FitSvensson(quotes []instrument.Quote, initial Svensson) (*Svensson, error) {
	if initial.Tau1 <= 0 || initial.Tau2 <= 0 {
		return nil, fmt.Errorf("%w: initial taus %v, %v", ErrNonPositiveTau, initial.Tau1, initial.Tau2)
	}
	x0 := []float64{initial.Beta0, initial.Beta1, initial.Beta2, initial.Beta3, initial.Tau1, initial.Tau2}
	x, err := minimize(quotes, x0, func(x []float64) (curve.Curve, error) {
		return NewSvensson(x[0], x[1], x[2], x[3], x[4], x[5])
	})
	if err != nil {
		return nil, err
	}
	return NewSvensson(x[0], x[1], x[2], x[3], x[4], x[5])
}

// minimize runs Nelder-Mead on the squared pricing error. Parameter vectors
// the family rejects (non-positive tau) price as +Inf so the simplex backs
// away from them.
func minimize(quotes []instrument.Quote, x0 []float64, build func([]float64) (curve.Curve, error)) ([]float64, error) {
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			c, err := build(x)
			if err != nil {
				return math.Inf(1)
			}
			sum := 0.0
			for _, q := range quotes {
				diff := instrument.PresentValue(c, q.Instrument) - q.Price
				sum += diff * diff
			}
			return sum
		},
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if result == nil {
		return nil, fmt.Errorf("fit.minimize: %w", err)
	}
	// Non-convergence statuses still carry the best point visited.
	return result.X, nil
}

var _ curve.Curve = (*NelsonSiegel)(nil)
var _ curve.Zeroer = (*NelsonSiegel)(nil)
var _ curve.Curve = (*Svensson)(nil)
var _ curve.Zeroer = (*Svensson)(nil)
