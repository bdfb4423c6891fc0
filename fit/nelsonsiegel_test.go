package fit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/termstruct/fit"
	"github.com/meenmo/termstruct/instrument"
)

func TestNelsonSiegelClosedForm(t *testing.T) {
	t.Parallel()

	m, err := fit.NewNelsonSiegel(0.05, -0.02, 0.01, 1.5)
	if err != nil {
		t.Fatalf("NewNelsonSiegel: %v", err)
	}

	// Short end: b0 + b1.
	if got, want := m.Zero(0).Value(), 0.03; math.Abs(got-want) > 1e-12 {
		t.Errorf("Zero(0): got %v want %v", got, want)
	}
	// Long end: b0.
	if got := m.Zero(1e6).Value(); math.Abs(got-0.05) > 1e-6 {
		t.Errorf("Zero(1e6): got %v want ~0.05", got)
	}
	// At t = tau the loadings are explicit.
	s := 1 - math.Exp(-1)
	want := 0.05 - 0.02*s + 0.01*(s-math.Exp(-1))
	if got := m.Zero(1.5).Value(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Zero(tau): got %v want %v", got, want)
	}
	// Discount is consistent with the zero rate.
	for _, x := range []float64{0.25, 1, 7} {
		if got, want := m.Discount(x), math.Exp(-m.Zero(x).Value()*x); math.Abs(got-want) > 1e-15 {
			t.Errorf("Discount(%v): got %v want %v", x, got, want)
		}
	}
}

func TestSvenssonReducesToNelsonSiegel(t *testing.T) {
	t.Parallel()

	ns, err := fit.NewNelsonSiegel(0.04, -0.01, 0.02, 2)
	if err != nil {
		t.Fatalf("NewNelsonSiegel: %v", err)
	}
	sv, err := fit.NewSvensson(0.04, -0.01, 0.02, 0, 2, 5)
	if err != nil {
		t.Fatalf("NewSvensson: %v", err)
	}
	for _, x := range []float64{0, 0.5, 2, 10, 30} {
		if got, want := sv.Zero(x).Value(), ns.Zero(x).Value(); math.Abs(got-want) > 1e-14 {
			t.Errorf("Zero(%v): svensson %v nelson-siegel %v", x, got, want)
		}
	}
}

func TestTauValidation(t *testing.T) {
	t.Parallel()

	if _, err := fit.NewNelsonSiegel(0.05, 0, 0, 0); !errors.Is(err, fit.ErrNonPositiveTau) {
		t.Errorf("tau=0: got %v", err)
	}
	if _, err := fit.NewSvensson(0.05, 0, 0, 0, 1, -1); !errors.Is(err, fit.ErrNonPositiveTau) {
		t.Errorf("tau2<0: got %v", err)
	}
	if _, err := fit.FitNelsonSiegel(nil, fit.NelsonSiegel{Tau: -1}); !errors.Is(err, fit.ErrNonPositiveTau) {
		t.Errorf("initial tau<0: got %v", err)
	}
	if _, err := fit.FitNelsonSiegel(nil, fit.NelsonSiegel{Beta0: 0.05, Tau: 1}); !errors.Is(err, fit.ErrNoQuotes) {
		t.Errorf("no quotes: got %v", err)
	}
}

func TestFitRecoversPricing(t *testing.T) {
	t.Parallel()

	truth, err := fit.NewNelsonSiegel(0.05, -0.02, 0.01, 1.5)
	if err != nil {
		t.Fatalf("truth: %v", err)
	}
	maturities := []float64{0.5, 1, 2, 3, 5, 7, 10, 20}
	quotes := make([]instrument.Quote, len(maturities))
	for i, m := range maturities {
		quotes[i] = instrument.ZCBPrice(truth.Discount(m), m)
	}

	initial := fit.NelsonSiegel{Beta0: 0.045, Beta1: -0.015, Beta2: 0, Tau: 1.2}
	fitted, err := fit.FitNelsonSiegel(quotes, initial)
	if err != nil {
		t.Fatalf("FitNelsonSiegel: %v", err)
	}

	sseInitial := 0.0
	sseFitted := 0.0
	for _, q := range quotes {
		d0 := instrument.PresentValue(&initial, q.Instrument) - q.Price
		d1 := instrument.PresentValue(fitted, q.Instrument) - q.Price
		sseInitial += d0 * d0
		sseFitted += d1 * d1
		if math.Abs(d1) > 1e-3 {
			t.Errorf("fitted mispricing %v at %v", d1, q.Instrument.Cashflows()[0].Time)
		}
	}
	if sseFitted > 1e-4*sseInitial {
		t.Fatalf("fit barely improved: initial SSE %v, fitted SSE %v", sseInitial, sseFitted)
	}
	if fitted.Tau <= 0 {
		t.Fatalf("fitted tau %v", fitted.Tau)
	}
}
