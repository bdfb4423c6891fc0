// Package rate provides interest rates tagged with a compounding convention.
//
// A Rate pairs a scalar with either periodic compounding at an integer
// frequency per year, or continuous compounding. Conversions between
// conventions preserve the discount factor implied over one year:
//
//	(1 + value/frequency)^frequency == exp(continuousValue)
//
// Rates are immutable value types; all operations return new values.
package rate

import (
	"fmt"
	"math"
)

// Compounding identifies how a rate compounds. The zero value is continuous
// compounding; periodic conventions carry a positive integer frequency.
type Compounding struct {
	frequency int // 0 means continuous
}

// Continuous returns the continuous compounding convention.
func Continuous() Compounding {
	return Compounding{}
}

// Periodic returns a periodic compounding convention with the given number of
// compounding periods per year.
//
// Periodic panics if frequency < 1: the frequency is part of the convention's
// definition, not market data, so an invalid value is a programmer error.
func Periodic(frequency int) Compounding {
	if frequency < 1 {
		panic(fmt.Sprintf("rate: periodic frequency must be >= 1, got %d", frequency))
	}
	return Compounding{frequency: frequency}
}

// IsContinuous reports whether the convention compounds continuously.
func (c Compounding) IsContinuous() bool {
	return c.frequency == 0
}

// Frequency returns the compounding periods per year, or 0 for continuous.
func (c Compounding) Frequency() int {
	return c.frequency
}

func (c Compounding) String() string {
	if c.IsContinuous() {
		return "Continuous"
	}
	return fmt.Sprintf("Periodic(%d)", c.frequency)
}

// Rate is a scalar interest rate together with its compounding convention.
type Rate struct {
	value       float64
	compounding Compounding
}

// New returns a rate with the given value and compounding convention.
func New(value float64, c Compounding) Rate {
	return Rate{value: value, compounding: c}
}

// NewContinuous returns a continuously compounded rate.
func NewContinuous(value float64) Rate {
	return Rate{value: value}
}

// NewPeriodic returns a periodically compounded rate. It panics if
// frequency < 1 (see Periodic).
func NewPeriodic(value float64, frequency int) Rate {
	return Rate{value: value, compounding: Periodic(frequency)}
}

// FromFloat interprets a bare number as a rate compounded once per year.
// Call sites that assume a different default (e.g. semi-annual for par-type
// instruments) must construct the rate explicitly.
func FromFloat(value float64) Rate {
	return NewPeriodic(value, 1)
}

// Value returns the scalar rate under its own convention.
func (r Rate) Value() float64 {
	return r.value
}

// Compounding returns the rate's compounding convention.
func (r Rate) Compounding() Compounding {
	return r.compounding
}

func (r Rate) String() string {
	return fmt.Sprintf("Rate(%g, %s)", r.value, r.compounding)
}

// Convert re-expresses the rate under another compounding convention so that
// the implied discount factor over any horizon is unchanged. Conversion
// round-trips through continuous compounding as the common basis.
func (r Rate) Convert(to Compounding) Rate {
	if r.compounding == to {
		return r
	}
	cc := r.toContinuousValue()
	if to.IsContinuous() {
		return Rate{value: cc}
	}
	m := float64(to.frequency)
	return Rate{value: m * (math.Exp(cc/m) - 1), compounding: to}
}

// toContinuousValue returns the continuously compounded equivalent value.
func (r Rate) toContinuousValue() float64 {
	if r.compounding.IsContinuous() {
		return r.value
	}
	m := float64(r.compounding.frequency)
	return m * math.Log(1+r.value/m)
}

// Discount returns the present value of 1 unit paid at time t (in years)
// under this rate.
func (r Rate) Discount(t float64) float64 {
	if r.compounding.IsContinuous() {
		return math.Exp(-r.value * t)
	}
	m := float64(r.compounding.frequency)
	return math.Pow(1+r.value/m, -m*t)
}

// Accumulation returns the accumulated value at time t of 1 unit invested at
// time zero, the reciprocal of Discount.
func (r Rate) Accumulation(t float64) float64 {
	return 1 / r.Discount(t)
}

// ---------------------------------------------------------------------------
// Arithmetic and comparison
// ---------------------------------------------------------------------------

// Arithmetic operates on the scalar values only and keeps the left operand's
// convention; a right operand under a different convention is converted first.

// Add returns r + o under r's convention.
func (r Rate) Add(o Rate) Rate {
	return Rate{value: r.value + o.Convert(r.compounding).value, compounding: r.compounding}
}

// Sub returns r - o under r's convention.
func (r Rate) Sub(o Rate) Rate {
	return Rate{value: r.value - o.Convert(r.compounding).value, compounding: r.compounding}
}

// Mul returns r * o under r's convention.
func (r Rate) Mul(o Rate) Rate {
	return Rate{value: r.value * o.Convert(r.compounding).value, compounding: r.compounding}
}

// Div returns r / o under r's convention.
func (r Rate) Div(o Rate) Rate {
	return Rate{value: r.value / o.Convert(r.compounding).value, compounding: r.compounding}
}

// AddScalar shifts the rate's value by k without touching the convention.
func (r Rate) AddScalar(k float64) Rate {
	return Rate{value: r.value + k, compounding: r.compounding}
}

// MulScalar scales the rate's value by k without touching the convention.
func (r Rate) MulScalar(k float64) Rate {
	return Rate{value: r.value * k, compounding: r.compounding}
}

// Less reports whether r < o after converting o to r's convention.
func (r Rate) Less(o Rate) bool {
	return r.value < o.Convert(r.compounding).value
}

// Greater reports whether r > o after converting o to r's convention.
func (r Rate) Greater(o Rate) bool {
	return r.value > o.Convert(r.compounding).value
}
