package curve

import "math"

// Op is an arithmetic operator applied pointwise to two curves' spot rates.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

func (op Op) apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	default:
		return a / b
	}
}

// Composite wraps two curves and an operator; evaluation is lazy, on every
// call, with no re-fitting.
//
// Combination operates on simple annual spot rates: each side's rate is
// extracted as discount(t)^(-1/t) - 1, the operator is applied, and the
// result is re-discounted as 1/(1+r)^t. Because the rates combined are spot
// rates, combining two par-quoted curves is NOT the same as fitting the sum
// of their par rates; see the package tests for the non-equivalence.
type Composite struct {
	Left  Curve
	Right Curve
	Op    Op
}

// Combine returns a curve whose spot rates are op(left, right).
//
// Two Constant curves fold directly into a single Constant (the right rate
// converted to the left's convention first) instead of a lazy wrapper.
func Combine(left, right Curve, op Op) Curve {
	if lc, ok := left.(Constant); ok {
		if rc, ok := right.(Constant); ok {
			return combineConstants(lc, rc, op)
		}
	}
	return Composite{Left: left, Right: right, Op: op}
}

// Add returns the curve with spot rates a + b.
func Add(a, b Curve) Curve { return Combine(a, b, OpAdd) }

// Sub returns the curve with spot rates a - b.
func Sub(a, b Curve) Curve { return Combine(a, b, OpSub) }

// Mul returns the curve with spot rates a * b.
func Mul(a, b Curve) Curve { return Combine(a, b, OpMul) }

// Div returns the curve with spot rates a / b.
func Div(a, b Curve) Curve { return Combine(a, b, OpDiv) }

func combineConstants(a, b Constant, op Op) Constant {
	switch op {
	case OpAdd:
		return NewConstant(a.Rate().Add(b.Rate()))
	case OpSub:
		return NewConstant(a.Rate().Sub(b.Rate()))
	case OpMul:
		return NewConstant(a.Rate().Mul(b.Rate()))
	default:
		return NewConstant(a.Rate().Div(b.Rate()))
	}
}

// Discount implements Curve.
func (c Composite) Discount(t float64) float64 {
	if t < timeEpsilon {
		t = timeEpsilon
	}
	left := impliedAnnualRate(c.Left, t)
	right := impliedAnnualRate(c.Right, t)
	return math.Pow(1+c.Op.apply(left, right), -t)
}

// impliedAnnualRate extracts the simple annually compounded spot rate at t.
func impliedAnnualRate(c Curve, t float64) float64 {
	return math.Pow(c.Discount(t), -1/t) - 1
}
