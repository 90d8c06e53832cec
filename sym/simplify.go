package sym

// Expand distributes products over sums and unrolls small integer powers,
// then re-simplifies. Combined with the like-term collection in Add this
// cancels the cross terms that block equality checks.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			a, ok := f.(*Add)
			if !ok {
				continue
			}
			rest := make([]Expr, 0, len(expanded)-1)
			for j, ef := range expanded {
				if j != i {
					rest = append(rest, ef)
				}
			}
			terms := make([]Expr, len(a.terms))
			for k, t := range a.terms {
				terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
			}

			return expandExpr(AddOf(terms...))
		}

		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}

		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			if exp := n.val.Num().Int64(); exp >= 2 && exp <= 10 {
				if _, isAdd := v.base.(*Add); isAdd {
					result := Expr(N(1))
					base := expandExpr(v.base)
					for i := int64(0); i < exp; i++ {
						result = expandExpr(MulOf(result, base))
					}

					return result
				}
			}
		}

		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}

	return e
}

// TrigSimplify rewrites sums containing matching sin² and cos² pairs with
// the Pythagorean identity. Coefficients may be arbitrary expressions, so
// r²·sin²(t) + r²·cos²(t) reduces to r².
func TrigSimplify(e Expr) Expr {
	return trigWalk(e.Simplify()).Simplify()
}

func trigWalk(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigWalk(t)
		}

		return pythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigWalk(f)
		}

		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigWalk(v.base), trigWalk(v.exp))
	case *Func:
		return funcOf(v.name, trigWalk(v.arg)).Simplify()
	case *Atan2:
		return (&Atan2{y: trigWalk(v.y), x: trigWalk(v.x)}).Simplify()
	}

	return e
}

// trigSquare describes one summand of the form coeff * {sin|cos}²(arg).
type trigSquare struct {
	fn       string
	argKey   string
	coeffKey string
	coeff    Expr
	idx      int
}

func pythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	var squares []trigSquare
	for idx, t := range add.terms {
		var factors []Expr
		if m, isMul := t.(*Mul); isMul {
			factors = m.factors
		} else {
			factors = []Expr{t}
		}
		for fi, f := range factors {
			p, isPow := f.(*Pow)
			if !isPow {
				continue
			}
			fn, isFn := p.base.(*Func)
			if !isFn || (fn.name != "sin" && fn.name != "cos") {
				continue
			}
			en, isNum := p.exp.(*Num)
			if !isNum || !en.IsInteger() || numCmp(en, N(2)) != 0 {
				continue
			}
			rest := make([]Expr, 0, len(factors)-1)
			for fj, other := range factors {
				if fj != fi {
					rest = append(rest, other)
				}
			}
			var coeff Expr = N(1)
			if len(rest) == 1 {
				coeff = rest[0]
			} else if len(rest) > 1 {
				coeff = &Mul{factors: rest}
			}
			squares = append(squares, trigSquare{
				fn:       fn.name,
				argKey:   fn.arg.String(),
				coeffKey: coeff.String(),
				coeff:    coeff,
				idx:      idx,
			})

			break
		}
	}
	for i := 0; i < len(squares); i++ {
		for j := i + 1; j < len(squares); j++ {
			si, sj := squares[i], squares[j]
			if si.argKey != sj.argKey || si.fn == sj.fn || si.coeffKey != sj.coeffKey {
				continue
			}
			newTerms := make([]Expr, 0, len(add.terms)-1)
			for idx, t := range add.terms {
				if idx != si.idx && idx != sj.idx {
					newTerms = append(newTerms, t)
				}
			}
			newTerms = append(newTerms, si.coeff)

			return pythagorean(AddOf(newTerms...))
		}
	}

	return add
}

// reduceAbs eliminates abs and sign applications whose argument has a
// provable sign under the given assumptions.
func reduceAbs(e Expr, a *Assumptions) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = reduceAbs(t, a)
		}

		return AddOf(newTerms...)
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = reduceAbs(f, a)
		}

		return MulOf(newFactors...)
	case *Pow:
		return PowOf(reduceAbs(v.base, a), reduceAbs(v.exp, a))
	case *Func:
		arg := reduceAbs(v.arg, a)
		switch v.name {
		case "abs":
			switch a.Sign(arg) {
			case SignPositive, SignNonNegative, SignZero:
				return arg
			case SignNegative, SignNonPositive:
				return NegOf(arg)
			}
		case "sign":
			switch a.Sign(arg) {
			case SignPositive:
				return N(1)
			case SignNegative:
				return N(-1)
			case SignZero:
				return N(0)
			}
		}

		return funcOf(v.name, arg).Simplify()
	case *Atan2:
		return (&Atan2{y: reduceAbs(v.y, a), x: reduceAbs(v.x, a)}).Simplify()
	}

	return e
}

// SimplifyChain runs the full simplification pipeline without assumptions.
func SimplifyChain(e Expr) Expr { return SimplifyChainWith(nil, e) }

// SimplifyChainWith runs repeated trig and abs reduction passes until the
// expression is stable, mirroring the simplification chain the coordinate
// layer applies after compositions and Jacobians.
func SimplifyChainWith(a *Assumptions, e Expr) Expr {
	cur := e.Simplify()
	prev := ""
	for i := 0; i < 8; i++ {
		s := cur.String()
		if s == prev {
			break
		}
		prev = s
		cur = TrigSimplify(cur)
		cur = reduceAbs(cur, a).Simplify()
	}

	return cur
}
