package sym

import (
	"math"
	"math/big"
)

// Func is an elementary function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

// SinOf returns sin(arg).
func SinOf(arg Expr) Expr { return funcOf("sin", arg).Simplify() }

// CosOf returns cos(arg).
func CosOf(arg Expr) Expr { return funcOf("cos", arg).Simplify() }

// TanOf returns tan(arg).
func TanOf(arg Expr) Expr { return funcOf("tan", arg).Simplify() }

// ExpOf returns the exponential e^arg.
func ExpOf(arg Expr) Expr { return funcOf("exp", arg).Simplify() }

// LnOf returns the natural logarithm.
func LnOf(arg Expr) Expr { return funcOf("ln", arg).Simplify() }

// AbsOf returns the absolute value.
func AbsOf(arg Expr) Expr { return funcOf("abs", arg).Simplify() }

// SignOf returns the sign function, valued in {-1, 0, 1}.
func SignOf(arg Expr) Expr { return funcOf("sign", arg).Simplify() }

// AsinOf returns the inverse sine.
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }

// AcosOf returns the inverse cosine.
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }

// AtanOf returns the inverse tangent.
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }

// SinhOf returns the hyperbolic sine.
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }

// CoshOf returns the hyperbolic cosine.
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }

// TanhOf returns the hyperbolic tangent.
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// FuncName returns the function's name.
func (f *Func) FuncName() string { return f.name }

// Arg returns the function's argument.
func (f *Func) Arg() Expr { return f.arg }

// piMultiple reports k when e equals k*pi for rational k.
func piMultiple(e Expr) (*Num, bool) {
	if e.Equal(Pi) {
		return N(1), true
	}
	if m, ok := e.(*Mul); ok {
		coeff, rest := splitCoefficient(m)
		if rest.Equal(Pi) {
			return coeff, true
		}
	}

	return nil, false
}

// ratMod2 reduces a rational into [0, 2) modulo 2.
func ratMod2(k *Num) *Num {
	two := big.NewRat(2, 1)
	r := new(big.Rat).Set(k.val)
	q := new(big.Rat).Quo(r, two)
	// Floor of q.
	fl := new(big.Int).Div(q.Num(), q.Denom())
	r.Sub(r, new(big.Rat).Mul(two, new(big.Rat).SetInt(fl)))

	return &Num{val: r}
}

// Simplify applies the exact special values of each function and leaves
// every other application symbolic. Numeric arguments never collapse to
// floating point.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()

	if n, ok := arg.(*Num); ok {
		if out, done := f.exactAt(n); done {
			return out
		}
	}
	if k, ok := piMultiple(arg); ok {
		if out, done := f.exactAtPi(k); done {
			return out
		}
	}

	switch f.name {
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "sin", "cos", "tan":
		if at, ok := arg.(*Atan2); ok {
			return trigOfAtan2(f.name, at)
		}
	case "abs":
		if inner, ok := arg.(*Func); ok && inner.name == "abs" {
			return inner
		}
		if arg.Equal(Pi) {
			return Pi
		}
		if m, ok := arg.(*Mul); ok {
			if coeff, rest := splitCoefficient(m); coeff.IsNegative() {
				return AbsOf(MulOf(numNeg(coeff), rest))
			}
		}
	case "sign":
		if arg.Equal(Pi) {
			return N(1)
		}
	}

	return &Func{name: f.name, arg: arg}
}

// trigOfAtan2 rewrites sin, cos and tan of atan2(y, x) into algebraic form:
// the point (x, y) lies at distance sqrt(x^2 + y^2) from the origin, so the
// cosine is x over that distance and the sine is y over it.
func trigOfAtan2(name string, at *Atan2) Expr {
	switch name {
	case "sin":
		return DivOf(at.y, SqrtOf(AddOf(PowOf(at.x, N(2)), PowOf(at.y, N(2)))))
	case "cos":
		return DivOf(at.x, SqrtOf(AddOf(PowOf(at.x, N(2)), PowOf(at.y, N(2)))))
	default:
		return DivOf(at.y, at.x)
	}
}

// exactAt evaluates the function at an exact rational argument when the
// result is itself exact.
func (f *Func) exactAt(n *Num) (Expr, bool) {
	zero := n.IsZero()
	one := n.IsOne()
	negOne := n.IsNegOne()
	switch f.name {
	case "sin", "tan", "sinh", "tanh", "atan", "asin":
		if zero {
			return N(0), true
		}
	case "cos", "cosh":
		if zero {
			return N(1), true
		}
	case "exp":
		if zero {
			return N(1), true
		}
	case "ln":
		if one {
			return N(0), true
		}
	case "abs":
		if n.IsNegative() {
			return numNeg(n), true
		}

		return n, true
	case "sign":
		switch {
		case n.IsPositive():
			return N(1), true
		case n.IsNegative():
			return N(-1), true
		default:
			return N(0), true
		}
	case "acos":
		if one {
			return N(0), true
		}
		if zero {
			return MulOf(NRat(1, 2), Pi), true
		}
		if negOne {
			return Pi, true
		}
	}
	if f.name == "asin" {
		if one {
			return MulOf(NRat(1, 2), Pi), true
		}
		if negOne {
			return MulOf(NRat(-1, 2), Pi), true
		}
	}
	if f.name == "atan" {
		if one {
			return MulOf(NRat(1, 4), Pi), true
		}
		if negOne {
			return MulOf(NRat(-1, 4), Pi), true
		}
	}

	return nil, false
}

// exactAtPi evaluates trig functions at rational multiples of pi.
func (f *Func) exactAtPi(k *Num) (Expr, bool) {
	r := ratMod2(k)
	switch f.name {
	case "sin":
		switch {
		case r.IsZero() || numCmp(r, N(1)) == 0:
			return N(0), true
		case numCmp(r, NRat(1, 2)) == 0:
			return N(1), true
		case numCmp(r, NRat(3, 2)) == 0:
			return N(-1), true
		}
	case "cos":
		switch {
		case r.IsZero():
			return N(1), true
		case numCmp(r, N(1)) == 0:
			return N(-1), true
		case numCmp(r, NRat(1, 2)) == 0 || numCmp(r, NRat(3, 2)) == 0:
			return N(0), true
		}
	case "tan":
		if r.IsZero() || numCmp(r, N(1)) == 0 {
			return N(0), true
		}
	}

	return nil, false
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

// Diff applies the chain rule with the table of elementary derivatives.
func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	u := f.arg
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = NegOf(SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "exp":
		outer = ExpOf(u)
	case "ln":
		outer = PowOf(u, N(-1))
	case "abs":
		outer = SignOf(u)
	case "sign":
		return N(0)
	case "asin":
		outer = PowOf(AddOf(N(1), NegOf(PowOf(u, N(2)))), NRat(-1, 2))
	case "acos":
		outer = NegOf(PowOf(AddOf(N(1), NegOf(PowOf(u, N(2)))), NRat(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = AddOf(N(1), NegOf(PowOf(TanhOf(u), N(2))))
	default:
		panic("sym: unknown function " + f.name)
	}

	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	out, done := f.exactAt(n)
	if !done {
		return nil, false
	}
	if v, isNum := out.(*Num); isNum {
		return v, true
	}

	return nil, false
}

func (f *Func) EvalFloat() (float64, bool) {
	v, ok := f.arg.EvalFloat()
	if !ok {
		return 0, false
	}
	var out float64
	switch f.name {
	case "sin":
		out = math.Sin(v)
	case "cos":
		out = math.Cos(v)
	case "tan":
		out = math.Tan(v)
	case "exp":
		out = math.Exp(v)
	case "ln":
		if v <= 0 {
			return 0, false
		}
		out = math.Log(v)
	case "abs":
		out = math.Abs(v)
	case "sign":
		switch {
		case v > 0:
			out = 1
		case v < 0:
			out = -1
		default:
			out = 0
		}
	case "asin":
		if v < -1 || v > 1 {
			return 0, false
		}
		out = math.Asin(v)
	case "acos":
		if v < -1 || v > 1 {
			return 0, false
		}
		out = math.Acos(v)
	case "atan":
		out = math.Atan(v)
	case "sinh":
		out = math.Sinh(v)
	case "cosh":
		out = math.Cosh(v)
	case "tanh":
		out = math.Tanh(v)
	default:
		return 0, false
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}

	return out, true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)

	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) subst(m map[string]Expr) Expr {
	return funcOf(f.name, f.arg.subst(m)).Simplify()
}

func (f *Func) free(set map[string]struct{}) { f.arg.free(set) }

// Atan2 is the two-argument arctangent atan2(y, x): the angle of the point
// (x, y), valued in (-pi, pi].
type Atan2 struct{ y, x Expr }

// Atan2Of returns atan2(y, x).
func Atan2Of(y, x Expr) Expr { return (&Atan2{y: y, x: x}).Simplify() }

// Simplify resolves the axis and diagonal directions exactly and leaves
// every other application symbolic.
func (a *Atan2) Simplify() Expr {
	y := a.y.Simplify()
	x := a.x.Simplify()

	yn, yok := y.(*Num)
	xn, xok := x.(*Num)
	if yok && xok {
		switch {
		case yn.IsZero() && xn.IsPositive():
			return N(0)
		case yn.IsZero() && xn.IsNegative():
			return Pi
		case xn.IsZero() && yn.IsPositive():
			return MulOf(NRat(1, 2), Pi)
		case xn.IsZero() && yn.IsNegative():
			return MulOf(NRat(-1, 2), Pi)
		}
		if !yn.IsZero() && !xn.IsZero() {
			ay, ax := new(big.Rat).Abs(yn.val), new(big.Rat).Abs(xn.val)
			if ay.Cmp(ax) == 0 {
				switch {
				case yn.IsPositive() && xn.IsPositive():
					return MulOf(NRat(1, 4), Pi)
				case yn.IsPositive() && xn.IsNegative():
					return MulOf(NRat(3, 4), Pi)
				case yn.IsNegative() && xn.IsNegative():
					return MulOf(NRat(-3, 4), Pi)
				default:
					return MulOf(NRat(-1, 4), Pi)
				}
			}
		}
	}

	return &Atan2{y: y, x: x}
}

func (a *Atan2) String() string {
	return "atan2(" + a.y.String() + ", " + a.x.String() + ")"
}

// Diff differentiates the angle: (x*dy - y*dx) / (x^2 + y^2).
func (a *Atan2) Diff(name string) Expr {
	dy := a.y.Diff(name)
	dx := a.x.Diff(name)
	num := AddOf(MulOf(a.x, dy), NegOf(MulOf(a.y, dx)))
	den := AddOf(PowOf(a.x, N(2)), PowOf(a.y, N(2)))

	return MulOf(num, PowOf(den, N(-1)))
}

func (a *Atan2) Eval() (*Num, bool) {
	yn, yok := a.y.Eval()
	xn, xok := a.x.Eval()
	if yok && xok && yn.IsZero() && xn.IsPositive() {
		return N(0), true
	}

	return nil, false
}

func (a *Atan2) EvalFloat() (float64, bool) {
	yv, yok := a.y.EvalFloat()
	xv, xok := a.x.EvalFloat()
	if !yok || !xok {
		return 0, false
	}
	if yv == 0 && xv == 0 {
		return 0, false
	}

	return math.Atan2(yv, xv), true
}

func (a *Atan2) Equal(other Expr) bool {
	o, ok := other.(*Atan2)

	return ok && a.y.Equal(o.y) && a.x.Equal(o.x)
}

func (a *Atan2) subst(m map[string]Expr) Expr {
	return (&Atan2{y: a.y.subst(m), x: a.x.subst(m)}).Simplify()
}

func (a *Atan2) free(set map[string]struct{}) {
	a.y.free(set)
	a.x.free(set)
}
