package sym

import (
	"math"
	"sort"
	"strings"
)

// Add is a sum of terms.
type Add struct{ terms []Expr }

// AddOf returns the simplified sum of the given terms.
func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf returns -e.
func NegOf(e Expr) Expr { return MulOf(N(-1), e) }

// Terms returns the ordered summands.
func (a *Add) Terms() []Expr { return a.terms }

// Simplify flattens nested sums, folds the numeric part and collects like
// terms by their non-numeric factor, so 2*x + 3*x becomes 5*x. Terms are
// ordered by their string key, numeric part last, which keeps every normal
// form deterministic.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)

			continue
		}
		coeff, rest := splitCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}

	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}

	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}

	return &Add{terms: result}
}

// splitCoefficient separates a term into its leading numeric coefficient and
// the remaining factor.
func splitCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}

			return coeff, &Mul{factors: rest}
		}
	}

	return N(1), e
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		coeff, rest := splitCoefficient(t)
		neg := false
		if n, ok := t.(*Num); ok {
			neg = n.IsNegative()
		} else if coeff.IsNegative() {
			neg = true
		}
		switch {
		case i == 0:
			b.WriteString(t.String())
		case neg:
			b.WriteString(" - ")
			b.WriteString(negatedTermString(t, coeff, rest))
		default:
			b.WriteString(" + ")
			b.WriteString(t.String())
		}
	}

	return b.String()
}

// negatedTermString renders |t| for a term known to be negative.
func negatedTermString(t Expr, coeff *Num, rest Expr) string {
	if n, ok := t.(*Num); ok {
		return numNeg(n).String()
	}
	pos := numNeg(coeff)
	if pos.IsOne() {
		return rest.String()
	}

	return (&Mul{factors: []Expr{pos, rest}}).String()
}

func (a *Add) Diff(name string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(name)
	}

	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}

	return acc, true
}

func (a *Add) EvalFloat() (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		v, ok := t.EvalFloat()
		if !ok {
			return 0, false
		}
		acc += v
	}

	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}

	return true
}

func (a *Add) subst(m map[string]Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.subst(m)
	}

	return AddOf(newTerms...)
}

func (a *Add) free(set map[string]struct{}) {
	for _, t := range a.terms {
		t.free(set)
	}
}

// Mul is a product of factors.
type Mul struct{ factors []Expr }

// MulOf returns the simplified product of the given factors.
func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Factors returns the ordered factors.
func (m *Mul) Factors() []Expr { return m.factors }

// Simplify flattens nested products, folds the numeric coefficient to the
// front, merges factors sharing a base into one power (x*x^2 becomes x^3)
// and orders the remaining factors by their string form.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)

			continue
		}
		base, exp := splitPower(f)
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	for _, key := range order {
		var merged Expr
		if es := exps[key]; len(es) == 1 {
			merged = rebuildPower(bases[key], es[0])
		} else {
			merged = PowOf(bases[key], AddOf(es...))
		}
		if v, ok := merged.(*Num); ok {
			coeff = numMul(coeff, v)

			continue
		}
		if inner, ok := merged.(*Mul); ok {
			others = append(others, inner.factors...)

			continue
		}
		others = append(others, merged)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	type keyed struct {
		e    Expr
		rank int
		key  string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, rank: factorRank(e), key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}

		return ks[i].key < ks[j].key
	})
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}

		return &Mul{factors: others}
	}

	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// factorRank orders product factors for display: plain symbols and constants
// first, then powers of symbols, then function applications, then everything
// else. Ties fall back to the rendered string, so the order stays total.
func factorRank(e Expr) int {
	switch v := e.(type) {
	case *Sym, *Const:
		return 0
	case *Pow:
		switch v.base.(type) {
		case *Sym, *Const, *Num:
			return 1
		}

		return 3
	case *Func, *Atan2:
		return 2
	case *Add:
		return 4
	}

	return 5
}

// splitPower views a factor as base^exp.
func splitPower(f Expr) (base, exp Expr) {
	if p, ok := f.(*Pow); ok {
		return p.base, p.exp
	}

	return f, N(1)
}

// rebuildPower restores a single factor from its base/exp view without
// re-running the power merge.
func rebuildPower(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok && n.IsOne() {
		return base
	}

	return PowOf(base, exp)
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, 0, len(m.factors))
	rest := m.factors
	prefix := ""
	if n, ok := rest[0].(*Num); ok && n.IsNegOne() && len(rest) > 1 {
		prefix = "-"
		rest = rest[1:]
	}
	for _, f := range rest {
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}

	return prefix + strings.Join(parts, "*")
}

// Diff applies the product rule across all factors.
func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(name)
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}

	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}

	return acc, true
}

func (m *Mul) EvalFloat() (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.EvalFloat()
		if !ok {
			return 0, false
		}
		acc *= v
	}

	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}

	return true
}

func (m *Mul) subst(sub map[string]Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.subst(sub)
	}

	return MulOf(newFactors...)
}

func (m *Mul) free(set map[string]struct{}) {
	for _, f := range m.factors {
		f.free(set)
	}
}

// Pow is base raised to exp.
type Pow struct{ base, exp Expr }

// PowOf returns the simplified power base^exp.
func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf returns the principal square root, represented as a half power.
func SqrtOf(arg Expr) Expr { return PowOf(arg, NRat(1, 2)) }

// Base returns the base operand.
func (p *Pow) Base() Expr { return p.base }

// Exp returns the exponent operand.
func (p *Pow) Exp() Expr { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if bn, bok := base.(*Num); bok && bn.IsZero() && !en.IsPositive() {
			// 0^0 and 0^negative stay unevaluated.
			return &Pow{base: base, exp: exp}
		}
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
	}

	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			if en, ok2 := exp.(*Num); ok2 && en.IsPositive() {
				return N(0)
			}
		}
		if bn.IsOne() {
			return N(1)
		}
		if en, ok2 := exp.(*Num); ok2 {
			if en.IsInteger() {
				if e := en.val.Num().Int64(); e >= -20 && e <= 20 {
					return numPowInt(bn, e)
				}
			}
			if half := NRat(1, 2); numCmp(en, half) == 0 {
				if root, exact := numSqrt(bn); exact {
					return root
				}
			}
			if negHalf := NRat(-1, 2); numCmp(en, negHalf) == 0 {
				if root, exact := numSqrt(bn); exact && !root.IsZero() {
					return numRecip(root)
				}
			}
		}
	}

	if inner, ok := base.(*Mul); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			// Integer powers distribute over products, keeping the
			// normal form flat for the trig and like-term rewrites.
			parts := make([]Expr, len(inner.factors))
			for i, f := range inner.factors {
				parts[i] = PowOf(f, en)
			}

			return MulOf(parts...)
		}
	}

	if inner, ok := base.(*Pow); ok {
		if combined, done := combinePow(inner, exp); done {
			return combined
		}
	}

	return &Pow{base: base, exp: exp}
}

// combinePow merges (x^a)^b into x^(a*b) only where the identity holds for
// real arguments; even inner exponents route through abs so that
// (x^2)^(1/2) becomes abs(x), not x.
func combinePow(inner *Pow, exp Expr) (Expr, bool) {
	an, aok := inner.exp.(*Num)
	bn, bok := exp.(*Num)
	if !aok || !bok {
		if bok && bn.IsInteger() {
			return PowOf(inner.base, MulOf(inner.exp, exp)), true
		}

		return nil, false
	}
	prod := numMul(an, bn)
	if an.IsInteger() && an.val.Num().Bit(0) == 0 {
		// Even inner exponent: the combined power sees only |base|.
		if prod.IsInteger() && prod.val.Num().Bit(0) == 0 {
			return PowOf(inner.base, prod), true
		}

		return PowOf(AbsOf(inner.base), prod), true
	}

	return PowOf(inner.base, prod), true
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	default:
		if n, ok := p.base.(*Num); ok && (n.IsNegative() || !n.IsInteger()) {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch p.exp.(type) {
	case *Add, *Mul, *Pow:
		expStr = "(" + expStr + ")"
	default:
		if n, ok := p.exp.(*Num); ok && (n.IsNegative() || !n.IsInteger()) {
			expStr = "(" + expStr + ")"
		}
	}

	return baseStr + "^" + expStr
}

func (p *Pow) Diff(name string) Expr {
	baseHas := ContainsSymbol(p.base, name)
	expHas := ContainsSymbol(p.exp, name)
	switch {
	case !baseHas && !expHas:
		return N(0)
	case baseHas && !expHas:
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), p.base.Diff(name))
	case !baseHas && expHas:
		return MulOf(p, LnOf(p.base), p.exp.Diff(name))
	default:
		// u^v with both varying: u^v * (v' ln u + v u'/u).
		return MulOf(p, AddOf(
			MulOf(p.exp.Diff(name), LnOf(p.base)),
			MulOf(p.exp, p.base.Diff(name), PowOf(p.base, N(-1))),
		))
	}
}

func (p *Pow) Eval() (*Num, bool) {
	bn, bok := p.base.Eval()
	en, eok := p.exp.Eval()
	if !bok || !eok {
		return nil, false
	}
	if en.IsInteger() {
		e := en.val.Num().Int64()
		if e < -20 || e > 20 {
			return nil, false
		}
		if bn.IsZero() && e <= 0 {
			return nil, false
		}

		return numPowInt(bn, e), true
	}
	if numCmp(en, NRat(1, 2)) == 0 {
		if root, exact := numSqrt(bn); exact {
			return root, true
		}
	}

	return nil, false
}

func (p *Pow) EvalFloat() (float64, bool) {
	bf, bok := p.base.EvalFloat()
	ef, eok := p.exp.EvalFloat()
	if !bok || !eok {
		return 0, false
	}
	v := math.Pow(bf, ef)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)

	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) subst(m map[string]Expr) Expr {
	return PowOf(p.base.subst(m), p.exp.subst(m))
}

func (p *Pow) free(set map[string]struct{}) {
	p.base.free(set)
	p.exp.free(set)
}
