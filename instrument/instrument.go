// Package instrument defines the priced instruments that feed curve
// calibration: a quote pairs an observed price with a cashflow-bearing
// instrument, and adapter functions translate common market conventions
// (zero-coupon, par, CMT, OIS, forward quotes) into that standard form.
//
// Times are year fractions from the valuation date; amounts are per unit
// face. Quotes are immutable and owned by the caller.
package instrument

import (
	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/rate"
)

// Cashflow is a single payment of Amount at Time (years). A lone cashflow is
// itself an instrument.
type Cashflow struct {
	Amount float64
	Time   float64
}

// Cashflows implements Instrument.
func (c Cashflow) Cashflows() []Cashflow {
	return []Cashflow{c}
}

// Bond is a level-coupon instrument: it pays Coupon/Frequency at each coupon
// time up to and including Maturity, plus 1 unit of principal at Maturity.
// Coupon times run backward from maturity at 1/Frequency spacing, with the
// first payment in (0, 1/Frequency]; see curve.CouponTimes.
type Bond struct {
	Coupon    rate.Rate
	Frequency int
	Maturity  float64
}

// Cashflows implements Instrument.
func (b Bond) Cashflows() []Cashflow {
	times := curve.CouponTimes(b.Maturity, b.Frequency)
	coupon := b.Coupon.Value() / float64(b.Frequency)
	cfs := make([]Cashflow, len(times))
	for i, t := range times {
		amount := coupon
		if i == len(times)-1 {
			amount += 1
		}
		cfs[i] = Cashflow{Amount: amount, Time: t}
	}
	return cfs
}

// Instrument is anything that resolves to an ordered sequence of dated
// cashflows.
type Instrument interface {
	Cashflows() []Cashflow
}

// Quote is an observed price for an instrument. Calibration methods consume
// quotes and must reprice each one within numerical tolerance.
type Quote struct {
	Price      float64
	Instrument Instrument
}

// PresentValue discounts every cashflow of the instrument on the curve.
func PresentValue(c curve.Curve, inst Instrument) float64 {
	pv := 0.0
	for _, cf := range inst.Cashflows() {
		pv += cf.Amount * c.Discount(cf.Time)
	}
	return pv
}
