package monotoneconvex_test

import (
	"math"
	"testing"

	"github.com/meenmo/termstruct/monotoneconvex"
)

// The worked example from Hagan & West: annual pillars with a hump.
var (
	exampleTimes = []float64{1, 2, 3, 4, 5}
	exampleZeros = []float64{0.03, 0.04, 0.047, 0.06, 0.06}
)

func exampleCurve(t *testing.T) *monotoneconvex.Curve {
	t.Helper()
	c, err := monotoneconvex.New(exampleZeros, exampleTimes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestKnotsAreExact(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	if got := c.Discount(0); got != 1 {
		t.Fatalf("Discount(0): got %v want 1", got)
	}
	for i, m := range exampleTimes {
		if got := c.Zero(m).Value(); math.Abs(got-exampleZeros[i]) > 1e-13 {
			t.Errorf("Zero(%v): got %v want %v", m, got, exampleZeros[i])
		}
		want := math.Exp(-exampleZeros[i] * m)
		if got := c.Discount(m); math.Abs(got-want) > 1e-13 {
			t.Errorf("Discount(%v): got %v want %v", m, got, want)
		}
	}
}

func TestForwardIsContinuousAtKnots(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	const h = 1e-9
	for _, m := range exampleTimes[:len(exampleTimes)-1] {
		at := c.Forward(m).Value()
		before := c.Forward(m - h).Value()
		after := c.Forward(m + h).Value()
		if math.Abs(at-before) > 1e-6 || math.Abs(at-after) > 1e-6 {
			t.Errorf("forward jump at %v: %v / %v / %v", m, before, at, after)
		}
	}
}

func TestForwardStaysPositive(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	for x := 0.0; x <= 6; x += 0.01 {
		if got := c.Forward(x).Value(); got <= 0 {
			t.Fatalf("Forward(%v) = %v, want > 0", x, got)
		}
	}
}

func TestZeroAtOriginIsInstantaneousForward(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	if z, f := c.Zero(0).Value(), c.Forward(0).Value(); z != f {
		t.Fatalf("Zero(0) = %v, Forward(0) = %v", z, f)
	}
}

func TestFlatExtrapolationBeyondLastPillar(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	// The last interval's discrete forward is (5*0.06 - 4*0.06) / 1.
	for _, x := range []float64{5, 7, 30} {
		if got := c.Forward(x).Value(); math.Abs(got-0.06) > 1e-13 {
			t.Errorf("Forward(%v): got %v want 0.06", x, got)
		}
	}
	if got := c.Zero(30).Value(); math.Abs(got-0.06) > 1e-13 {
		t.Errorf("Zero(30): got %v want 0.06", got)
	}
}

// The zero rate must be the running average of the instantaneous forward.
// Compare against a trapezoid integration of Forward on a fine grid.
func TestZeroIntegratesForward(t *testing.T) {
	t.Parallel()

	c := exampleCurve(t)
	const (
		upto = 2.5
		step = 1e-3
	)
	sum := 0.0
	prev := c.Forward(0).Value()
	for x := step; x <= upto+step/2; x += step {
		cur := c.Forward(x).Value()
		sum += 0.5 * (prev + cur) * step
		prev = cur
	}
	if got, want := c.Zero(upto).Value()*upto, sum; math.Abs(got-want) > 1e-5 {
		t.Fatalf("integrated forward: got %v want %v", got, want)
	}
}

func TestSinglePillarIsFlat(t *testing.T) {
	t.Parallel()

	c, err := monotoneconvex.New([]float64{0.04}, []float64{2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, x := range []float64{0, 0.5, 2, 5} {
		if got := c.Forward(x).Value(); got != 0.04 {
			t.Errorf("Forward(%v): got %v want 0.04", x, got)
		}
	}
	if got, want := c.Discount(2), math.Exp(-0.08); math.Abs(got-want) > 1e-15 {
		t.Errorf("Discount(2): got %v want %v", got, want)
	}
}

func TestConstructionValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		zeros []float64
		times []float64
	}{
		{"empty", nil, nil},
		{"mismatched_lengths", []float64{0.03}, []float64{1, 2}},
		{"non_increasing", []float64{0.03, 0.04}, []float64{2, 1}},
		{"zero_time", []float64{0.03}, []float64{0}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := monotoneconvex.New(tc.zeros, tc.times); err == nil {
				t.Fatal("expected a construction error")
			}
		})
	}
}
