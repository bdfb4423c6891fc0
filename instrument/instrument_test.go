package instrument_test

import (
	"math"
	"testing"

	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/instrument"
	"github.com/meenmo/termstruct/rate"
)

const tol = 1e-12

func TestBondCashflows(t *testing.T) {
	t.Parallel()

	b := instrument.Bond{
		Coupon:    rate.NewPeriodic(0.04, 2),
		Frequency: 2,
		Maturity:  1.5,
	}
	cfs := b.Cashflows()
	wantTimes := []float64{0.5, 1, 1.5}
	if len(cfs) != len(wantTimes) {
		t.Fatalf("cashflow count: got %d want %d", len(cfs), len(wantTimes))
	}
	for i, cf := range cfs {
		if math.Abs(cf.Time-wantTimes[i]) > tol {
			t.Errorf("time[%d]: got %v want %v", i, cf.Time, wantTimes[i])
		}
		want := 0.02
		if i == len(cfs)-1 {
			want = 1.02
		}
		if math.Abs(cf.Amount-want) > tol {
			t.Errorf("amount[%d]: got %v want %v", i, cf.Amount, want)
		}
	}
}

func TestZCBAdapters(t *testing.T) {
	t.Parallel()

	q := instrument.ZCBPrice(0.94, 2)
	cfs := q.Instrument.Cashflows()
	if q.Price != 0.94 || len(cfs) != 1 || cfs[0].Amount != 1 || cfs[0].Time != 2 {
		t.Fatalf("ZCBPrice quote: %+v", q)
	}

	// A 5% annually compounded yield over 2 years prices at 1.05^-2.
	q = instrument.ZCBYield(0.05, 2)
	if want := math.Pow(1.05, -2); math.Abs(q.Price-want) > tol {
		t.Fatalf("ZCBYield price: got %v want %v", q.Price, want)
	}
}

func TestParYieldRepricesOnMatchingFlatCurve(t *testing.T) {
	t.Parallel()

	q := instrument.ParYield(0.04, 5)
	flat := curve.NewConstant(rate.NewPeriodic(0.04, 2))
	pv := instrument.PresentValue(flat, q.Instrument)
	if math.Abs(pv-q.Price) > 1e-12 {
		t.Fatalf("par bond PV on its own flat curve: got %v want %v", pv, q.Price)
	}
}

func TestCMTYieldShortMaturityIsZeroCoupon(t *testing.T) {
	t.Parallel()

	q := instrument.CMTYield(0.03, 0.5)
	cfs := q.Instrument.Cashflows()
	if len(cfs) != 1 {
		t.Fatalf("expected single cashflow, got %d", len(cfs))
	}
	if math.Abs(cfs[0].Amount-1.015) > tol || cfs[0].Time != 0.5 {
		t.Fatalf("cashflow: %+v", cfs[0])
	}
	if q.Price != 1 {
		t.Fatalf("price: got %v want 1", q.Price)
	}

	long := instrument.CMTYield(0.03, 5)
	if _, ok := long.Instrument.(instrument.Bond); !ok {
		t.Fatalf("long CMT should be a coupon bond, got %T", long.Instrument)
	}
}

func TestOISYieldConventions(t *testing.T) {
	t.Parallel()

	short := instrument.OISYield(0.02, 0.75)
	if want := 1 / (1 + 0.02*0.75); math.Abs(short.Price-want) > tol {
		t.Fatalf("short OIS price: got %v want %v", short.Price, want)
	}

	long := instrument.OISYield(0.02, 3)
	b, ok := long.Instrument.(instrument.Bond)
	if !ok {
		t.Fatalf("long OIS should be a coupon bond, got %T", long.Instrument)
	}
	if b.Frequency != 4 {
		t.Fatalf("long OIS frequency: got %d want 4", b.Frequency)
	}
}

func TestForwardYieldsChainDiscounts(t *testing.T) {
	t.Parallel()

	quotes := instrument.ForwardYields([]float64{0.05, 0.06}, []float64{1, 2})
	if len(quotes) != 2 {
		t.Fatalf("quote count: got %d", len(quotes))
	}
	if want := 1 / 1.05; math.Abs(quotes[0].Price-want) > tol {
		t.Errorf("first price: got %v want %v", quotes[0].Price, want)
	}
	if want := 1 / (1.05 * 1.06); math.Abs(quotes[1].Price-want) > tol {
		t.Errorf("second price: got %v want %v", quotes[1].Price, want)
	}
}
