package instrument

import "github.com/meenmo/termstruct/rate"

// Adapters translate a market quoting convention into a standard
// (price, instrument) pair. Bare yields are interpreted under the convention
// each adapter documents; the assumed frequency matters, so it is stated per
// adapter rather than left implicit.

// ZCBPrice quotes a zero-coupon bond by its observed price for 1 unit paid
// at maturity.
func ZCBPrice(price, maturity float64) Quote {
	return Quote{Price: price, Instrument: Cashflow{Amount: 1, Time: maturity}}
}

// ZCBYield quotes a zero-coupon bond by its yield, interpreted as annually
// compounded (Periodic(1)).
func ZCBYield(yield, maturity float64) Quote {
	return ZCBYieldRate(rate.FromFloat(yield), maturity)
}

// ZCBYieldRate quotes a zero-coupon bond by a yield with an explicit
// convention.
func ZCBYieldRate(yield rate.Rate, maturity float64) Quote {
	return Quote{
		Price:      yield.Discount(maturity),
		Instrument: Cashflow{Amount: 1, Time: maturity},
	}
}

// ParYield quotes a bond trading at par with semi-annual coupons, the usual
// convention for par-type instruments. The bare yield is interpreted as
// Periodic(2).
func ParYield(yield, maturity float64) Quote {
	return ParYieldFrequency(yield, maturity, 2)
}

// ParYieldFrequency is ParYield with an explicit coupon frequency; the bare
// yield is interpreted as Periodic(frequency).
func ParYieldFrequency(yield, maturity float64, frequency int) Quote {
	return Quote{
		Price: 1,
		Instrument: Bond{
			Coupon:    rate.NewPeriodic(yield, frequency),
			Frequency: frequency,
			Maturity:  maturity,
		},
	}
}

// CMTYield quotes a constant-maturity treasury par yield. Maturities beyond
// one year are semi-annual par bonds (yield interpreted as Periodic(2));
// shorter maturities are zero-coupon money-market instruments paying
// 1 + yield*maturity at maturity for a price of 1.
func CMTYield(yield, maturity float64) Quote {
	if maturity <= 1 {
		return Quote{
			Price:      1,
			Instrument: Cashflow{Amount: 1 + yield*maturity, Time: maturity},
		}
	}
	return ParYield(yield, maturity)
}

// OISYield quotes an overnight-index swap rate. Maturities up to one year
// settle once at maturity (price 1/(1 + yield*maturity) for 1 unit);
// longer maturities pay quarterly, so the bare yield is interpreted as
// Periodic(4).
func OISYield(yield, maturity float64) Quote {
	if maturity <= 1 {
		return Quote{
			Price:      1 / (1 + yield*maturity),
			Instrument: Cashflow{Amount: 1, Time: maturity},
		}
	}
	return Quote{
		Price: 1,
		Instrument: Bond{
			Coupon:    rate.NewPeriodic(yield, 4),
			Frequency: 4,
			Maturity:  maturity,
		},
	}
}

// ForwardYields converts a sequence of forward rates over consecutive
// intervals (0, t1], (t1, t2], ... into zero-coupon price quotes by chaining
// the interval discounts. Each bare forward is interpreted as Periodic(1).
func ForwardYields(yields, times []float64) []Quote {
	quotes := make([]Quote, len(yields))
	price := 1.0
	prev := 0.0
	for i, y := range yields {
		price *= rate.FromFloat(y).Discount(times[i] - prev)
		prev = times[i]
		quotes[i] = ZCBPrice(price, times[i])
	}
	return quotes
}
