package monotoneconvex

// The interpolant on each interval is a forward-rate deviation g(x) around
// the interval's discrete forward, with x the local coordinate in [0, 1].
// The pair (g0, g1) = (f_left - fd, f_right - fd) selects one of four closed
// forms; each sector below carries both g and its antiderivative, which the
// zero rate needs exactly.
//
// The classification follows Hagan & West: same-sign pairs blend two
// quadratics around an interior extremum (sector IV); opposite-sign pairs
// split into three sub-cases by comparing g1 against -2*g0 and -g0/2.

type sector int

const (
	sectorZero sector = iota // g0 == g1 == 0, forward is flat at fd
	sectorI                  // single quadratic through both endpoints
	sectorII                 // flat then quadratic, bend at eta
	sectorIII                // quadratic then flat, bend at eta
	sectorIV                 // two quadratics around an interior extremum
)

func classify(g0, g1 float64) sector {
	switch {
	case g0 == 0 && g1 == 0:
		return sectorZero
	case (g0 < 0 && -0.5*g0 <= g1 && g1 <= -2*g0) ||
		(g0 > 0 && -0.5*g0 >= g1 && g1 >= -2*g0):
		return sectorI
	case (g0 < 0 && g1 > -2*g0) || (g0 > 0 && g1 < -2*g0):
		return sectorII
	case (g0 > 0 && 0 > g1 && g1 > -0.5*g0) ||
		(g0 < 0 && 0 < g1 && g1 < -0.5*g0):
		return sectorIII
	default:
		return sectorIV
	}
}

// gValue evaluates the forward deviation at local coordinate x in [0, 1].
// Every sector satisfies g(0) = g0 and g(1) = g1, which is what makes the
// forward continuous across knots.
func gValue(x, g0, g1 float64) float64 {
	switch classify(g0, g1) {
	case sectorZero:
		return 0
	case sectorI:
		return g0*(1-4*x+3*x*x) + g1*(-2*x+3*x*x)
	case sectorII:
		eta := (g1 + 2*g0) / (g1 - g0)
		if x <= eta {
			return g0
		}
		r := (x - eta) / (1 - eta)
		return g0 + (g1-g0)*r*r
	case sectorIII:
		eta := 3 * g1 / (g1 - g0)
		if x >= eta {
			return g1
		}
		r := (eta - x) / eta
		return g1 + (g0-g1)*r*r
	default: // sectorIV
		// eta == 0 happens when g1 == 0; the first branch would divide by
		// zero there, and the interpolant is flat anyway.
		eta := g1 / (g1 + g0)
		a := -g0 * g1 / (g0 + g1)
		if x <= eta && eta > 0 {
			r := (eta - x) / eta
			return a + (g0-a)*r*r
		}
		r := (x - eta) / (1 - eta)
		return a + (g1-a)*r*r
	}
}

// gIntegral evaluates the antiderivative of g from 0 to x. Every sector
// integrates to zero over the full interval, which is what makes the zero
// rate exact at the knots.
func gIntegral(x, g0, g1 float64) float64 {
	switch classify(g0, g1) {
	case sectorZero:
		return 0
	case sectorI:
		return g0*(x-2*x*x+x*x*x) + g1*(x*x*x-x*x)
	case sectorII:
		eta := (g1 + 2*g0) / (g1 - g0)
		if x <= eta {
			return g0 * x
		}
		r := (x - eta) / (1 - eta)
		return g0*x + (g1-g0)*(1-eta)*r*r*r/3
	case sectorIII:
		eta := 3 * g1 / (g1 - g0)
		if x >= eta {
			return g1*x + (g0-g1)*eta/3
		}
		r := (eta - x) / eta
		return g1*x + (g0-g1)*(eta/3)*(1-r*r*r)
	default: // sectorIV
		eta := g1 / (g1 + g0)
		a := -g0 * g1 / (g0 + g1)
		if x <= eta && eta > 0 {
			r := (eta - x) / eta
			return a*x + (g0-a)*(eta/3)*(1-r*r*r)
		}
		r := (x - eta) / (1 - eta)
		return a*x + (g0-a)*eta/3 + (g1-a)*(1-eta)*r*r*r/3
	}
}
