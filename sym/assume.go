package sym

import (
	"math"
	"sync"
)

// Sign classifies the sign of a real expression under a set of assumptions.
type Sign int8

const (
	// SignUnknown means the analysis could not decide.
	SignUnknown Sign = iota
	// SignZero means the expression is exactly zero.
	SignZero
	// SignPositive means strictly positive.
	SignPositive
	// SignNegative means strictly negative.
	SignNegative
	// SignNonNegative means zero or positive.
	SignNonNegative
	// SignNonPositive means zero or negative.
	SignNonPositive
)

// interval is the assumed real range of a symbol.
type interval struct {
	lo, hi         float64
	loOpen, hiOpen bool
}

func unboundedInterval() interval {
	return interval{lo: math.Inf(-1), hi: math.Inf(1), loOpen: true, hiOpen: true}
}

// Assumptions is a registry of facts about symbols: per-symbol real
// intervals plus arbitrary assumed relations. It backs the sign analysis
// used for bound checks and inverse-candidate filtering.
//
// All methods are safe for concurrent use; mu guards both maps.
type Assumptions struct {
	mu        sync.RWMutex
	intervals map[string]interval
	rels      []Rel
}

// NewAssumptions returns an empty assumption registry.
func NewAssumptions() *Assumptions {
	return &Assumptions{intervals: make(map[string]interval)}
}

// Declare registers a symbol as a real variable with no further facts.
// Declaring twice is harmless.
func (a *Assumptions) Declare(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.intervals[name]; !ok {
		a.intervals[name] = unboundedInterval()
	}
}

// AssumeInterval narrows the assumed range of a symbol. The new range is
// intersected with whatever was assumed before.
func (a *Assumptions) AssumeInterval(name string, lo, hi float64, loOpen, hiOpen bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	iv, ok := a.intervals[name]
	if !ok {
		iv = unboundedInterval()
	}
	if lo > iv.lo || (lo == iv.lo && loOpen) {
		iv.lo, iv.loOpen = lo, loOpen
	}
	if hi < iv.hi || (hi == iv.hi && hiOpen) {
		iv.hi, iv.hiOpen = hi, hiOpen
	}
	a.intervals[name] = iv
}

// Assume records a relation. Relations of the form symbol-versus-constant
// fold into the symbol's interval; everything else is kept verbatim and
// consulted by Decide.
func (a *Assumptions) Assume(r Rel) {
	if s, ok := r.L.(*Sym); ok {
		if c, numeric := r.R.EvalFloat(); numeric {
			a.assumeBound(s.name, r.Op, c)

			return
		}
	}
	if s, ok := r.R.(*Sym); ok {
		if c, numeric := r.L.EvalFloat(); numeric {
			a.assumeBound(s.name, flipOp(r.Op), c)

			return
		}
	}
	a.mu.Lock()
	a.rels = append(a.rels, r)
	a.mu.Unlock()
}

func flipOp(op RelOp) RelOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	default:
		return op
	}
}

// assumeBound folds "name op c" into the symbol's interval.
func (a *Assumptions) assumeBound(name string, op RelOp, c float64) {
	switch op {
	case OpLt:
		a.AssumeInterval(name, math.Inf(-1), c, true, true)
	case OpLe:
		a.AssumeInterval(name, math.Inf(-1), c, true, false)
	case OpGt:
		a.AssumeInterval(name, c, math.Inf(1), true, true)
	case OpGe:
		a.AssumeInterval(name, c, math.Inf(1), false, true)
	case OpEq:
		a.AssumeInterval(name, c, c, false, false)
	case OpNe:
		a.mu.Lock()
		a.rels = append(a.rels, Ne(Var(name), NFloat(c)))
		a.mu.Unlock()
	}
}

func (a *Assumptions) lookup(name string) interval {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if iv, ok := a.intervals[name]; ok {
		return iv
	}

	return unboundedInterval()
}

// Sign analyses the sign of an expression using exact values where
// available and the assumed intervals elsewhere. A nil receiver behaves
// like an empty registry.
func (a *Assumptions) Sign(e Expr) Sign {
	if n, ok := e.(*Num); ok {
		switch {
		case n.IsZero():
			return SignZero
		case n.IsPositive():
			return SignPositive
		default:
			return SignNegative
		}
	}

	switch v := e.(type) {
	case *Const:
		if v.val > 0 {
			return SignPositive
		}
		if v.val < 0 {
			return SignNegative
		}

		return SignZero
	case *Sym:
		return a.symSign(v.name)
	case *Add:
		return a.addSign(v)
	case *Mul:
		return a.mulSign(v)
	case *Pow:
		return a.powSign(v)
	case *Func:
		return a.funcSign(v)
	case *Atan2:
		ys := a.Sign(v.y)
		if ys == SignPositive {
			// atan2 with positive ordinate lands in (0, pi).
			return SignPositive
		}
		if ys == SignZero && a.Sign(v.x) == SignPositive {
			return SignZero
		}

		return SignUnknown
	}

	return SignUnknown
}

func (a *Assumptions) symSign(name string) Sign {
	if a == nil {
		return SignUnknown
	}
	iv := a.lookup(name)
	switch {
	case iv.lo == iv.hi && !iv.loOpen && !iv.hiOpen && iv.lo == 0:
		return SignZero
	case iv.lo > 0 || (iv.lo == 0 && iv.loOpen):
		return SignPositive
	case iv.lo >= 0:
		return SignNonNegative
	case iv.hi < 0 || (iv.hi == 0 && iv.hiOpen):
		return SignNegative
	case iv.hi <= 0:
		return SignNonPositive
	}

	return SignUnknown
}

func (a *Assumptions) addSign(v *Add) Sign {
	pos, neg, zero, nonneg, nonpos := 0, 0, 0, 0, 0
	for _, t := range v.terms {
		switch a.Sign(t) {
		case SignPositive:
			pos++
		case SignNegative:
			neg++
		case SignZero:
			zero++
		case SignNonNegative:
			nonneg++
		case SignNonPositive:
			nonpos++
		default:
			return SignUnknown
		}
	}
	n := len(v.terms)
	switch {
	case zero == n:
		return SignZero
	case neg == 0 && nonpos == 0:
		if pos > 0 {
			return SignPositive
		}

		return SignNonNegative
	case pos == 0 && nonneg == 0:
		if neg > 0 {
			return SignNegative
		}

		return SignNonPositive
	}

	return SignUnknown
}

func (a *Assumptions) mulSign(v *Mul) Sign {
	sign := SignPositive
	for _, f := range v.factors {
		fs := a.Sign(f)
		switch fs {
		case SignZero:
			return SignZero
		case SignUnknown:
			return SignUnknown
		}
		sign = combineMulSign(sign, fs)
	}

	return sign
}

// combineMulSign multiplies two sign classifications.
func combineMulSign(s1, s2 Sign) Sign {
	neg1 := s1 == SignNegative || s1 == SignNonPositive
	neg2 := s2 == SignNegative || s2 == SignNonPositive
	weak := s1 == SignNonNegative || s1 == SignNonPositive ||
		s2 == SignNonNegative || s2 == SignNonPositive
	negOut := neg1 != neg2
	switch {
	case negOut && weak:
		return SignNonPositive
	case negOut:
		return SignNegative
	case weak:
		return SignNonNegative
	default:
		return SignPositive
	}
}

func (a *Assumptions) powSign(v *Pow) Sign {
	bs := a.Sign(v.base)
	if bs == SignPositive {
		return SignPositive
	}
	en, numeric := v.exp.(*Num)
	if !numeric {
		if bs == SignNonNegative {
			return SignNonNegative
		}

		return SignUnknown
	}
	if en.IsInteger() {
		even := en.val.Num().Bit(0) == 0
		if even {
			switch bs {
			case SignNegative:
				return SignPositive
			case SignZero:
				return SignZero
			default:
				return SignNonNegative
			}
		}
		// Odd integer power preserves sign; negative exponents flip
		// nothing but exclude zero.
		switch bs {
		case SignNegative:
			return SignNegative
		case SignZero:
			return SignZero
		case SignNonNegative:
			if en.IsNegative() {
				return SignUnknown
			}

			return SignNonNegative
		case SignNonPositive:
			if en.IsNegative() {
				return SignUnknown
			}

			return SignNonPositive
		}

		return SignUnknown
	}
	// Fractional exponents are defined on non-negative bases.
	switch bs {
	case SignZero:
		return SignZero
	case SignNonNegative:
		return SignNonNegative
	}

	return SignUnknown
}

func (a *Assumptions) funcSign(v *Func) Sign {
	switch v.name {
	case "exp", "cosh":
		return SignPositive
	case "abs":
		switch a.Sign(v.arg) {
		case SignPositive, SignNegative:
			return SignPositive
		case SignZero:
			return SignZero
		default:
			return SignNonNegative
		}
	case "sign", "sinh", "tanh", "asin", "atan":
		s := a.Sign(v.arg)
		switch s {
		case SignPositive, SignNegative, SignZero:
			return s
		case SignNonNegative:
			return SignNonNegative
		case SignNonPositive:
			return SignNonPositive
		}
	case "acos":
		return SignNonNegative
	}

	return SignUnknown
}

// Decide evaluates a relation to a verdict. The second result reports
// whether the kernel could decide at all; an undecided relation is
// conventionally treated as unsatisfied by the callers.
func (a *Assumptions) Decide(r Rel) (holds, known bool) {
	// Exact rational comparison.
	if ln, lok := r.L.Eval(); lok {
		if rn, rok := r.R.Eval(); rok {
			return applyOpCmp(r.Op, numCmp(ln, rn)), true
		}
	}
	// Numeric comparison covering irrational constants.
	if lf, lok := r.L.EvalFloat(); lok {
		if rf, rok := r.R.EvalFloat(); rok {
			switch {
			case lf < rf:
				return applyOpCmp(r.Op, -1), true
			case lf > rf:
				return applyOpCmp(r.Op, 1), true
			default:
				return applyOpCmp(r.Op, 0), true
			}
		}
	}
	// Literal match against assumed relations.
	if a != nil {
		a.mu.RLock()
		for _, ar := range a.rels {
			if ar.Op == r.Op && ar.L.Equal(r.L) && ar.R.Equal(r.R) {
				a.mu.RUnlock()

				return true, true
			}
		}
		a.mu.RUnlock()
	}
	// Sign analysis of the residual.
	diff := SubOf(r.L, r.R)
	sign := a.Sign(diff)
	if sign == SignUnknown {
		sign = a.Sign(SimplifyChain(diff))
	}
	switch sign {
	case SignUnknown:
		return false, false
	case SignPositive:
		return r.Op == OpGt || r.Op == OpGe || r.Op == OpNe, true
	case SignNegative:
		return r.Op == OpLt || r.Op == OpLe || r.Op == OpNe, true
	case SignZero:
		return r.Op == OpEq || r.Op == OpLe || r.Op == OpGe, true
	case SignNonNegative:
		if r.Op == OpGe {
			return true, true
		}
		if r.Op == OpLt {
			return false, true
		}
	case SignNonPositive:
		if r.Op == OpLe {
			return true, true
		}
		if r.Op == OpGt {
			return false, true
		}
	}

	return false, false
}

// Holds reports whether the relation provably holds; undecidable
// relations report false.
func (a *Assumptions) Holds(r Rel) bool {
	holds, known := a.Decide(r)

	return known && holds
}

func applyOpCmp(op RelOp, cmp int) bool {
	switch op {
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpEq:
		return cmp == 0
	default:
		return cmp != 0
	}
}
