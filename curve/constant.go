package curve

import "github.com/meenmo/termstruct/rate"

// Constant is a flat curve: every horizon discounts at the same rate.
type Constant struct {
	rate rate.Rate
}

// NewConstant returns a flat curve at the given rate.
func NewConstant(r rate.Rate) Constant {
	return Constant{rate: r}
}

// NewConstantFromFloat interprets a bare number as an annually compounded
// (Periodic(1)) flat curve.
func NewConstantFromFloat(v float64) Constant {
	return Constant{rate: rate.FromFloat(v)}
}

// Rate returns the underlying flat rate.
func (c Constant) Rate() rate.Rate {
	return c.rate
}

// Discount implements Curve.
func (c Constant) Discount(t float64) float64 {
	return c.rate.Discount(t)
}

// Zero implements Zeroer: the spot rate of a flat curve is the flat rate
// itself, re-expressed continuously.
func (c Constant) Zero(t float64) rate.Rate {
	return c.rate.Convert(rate.Continuous())
}
