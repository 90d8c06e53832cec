package sym

import "fmt"

// Equation is the assertion LHS == RHS.
type Equation struct{ LHS, RHS Expr }

// Eq returns the equation lhs == rhs.
func Eq(lhs, rhs Expr) Equation { return Equation{LHS: lhs, RHS: rhs} }

// Residual returns LHS - RHS simplified.
func (e Equation) Residual() Expr { return SubOf(e.LHS, e.RHS) }

func (e Equation) String() string {
	return e.LHS.String() + " == " + e.RHS.String()
}

// maxPolyDegree caps the polynomial degree polyCoeffs will expand.
const maxPolyDegree = 6

// Solve finds every real candidate assignment of the unknowns satisfying
// all equations. Two strategies are implemented: equation-by-equation
// univariate solving (degree ≤ 2, candidates combined across equations)
// when each equation involves exactly one unknown, and Gaussian
// elimination when the system is linear in all unknowns. Anything else
// reports ErrUnsolvable. An empty result with a nil error means the
// system is decidably without real solutions.
func Solve(eqs []Equation, unknowns []string, a *Assumptions) ([]map[string]Expr, error) {
	if len(eqs) == 0 || len(unknowns) == 0 {
		return nil, fmt.Errorf("solving %d equations for %d unknowns: %w", len(eqs), len(unknowns), ErrUnsolvable)
	}

	residuals := make([]Expr, len(eqs))
	present := make([][]string, len(eqs))
	allSingle := true
	for i, eq := range eqs {
		residuals[i] = Expand(eq.Residual())
		for _, u := range unknowns {
			if ContainsSymbol(residuals[i], u) {
				present[i] = append(present[i], u)
			}
		}
		if len(present[i]) != 1 {
			allSingle = false
		}
	}

	if allSingle {
		return solveDecomposed(residuals, present, unknowns)
	}

	if len(eqs) == len(unknowns) {
		if sol, ok, err := solveLinearSystem(residuals, unknowns, a); err != nil {
			return nil, err
		} else if ok {
			return []map[string]Expr{sol}, nil
		}
	}

	return nil, fmt.Errorf("system is neither decomposable nor linear: %w", ErrUnsolvable)
}

// solveDecomposed handles systems where every equation constrains exactly
// one unknown: each equation is solved on its own and the candidate sets
// are combined by cartesian product.
func solveDecomposed(residuals []Expr, present [][]string, unknowns []string) ([]map[string]Expr, error) {
	candidates := map[string][]Expr{}
	for i, res := range residuals {
		u := present[i][0]
		sols, err := solveUnivariate(res, u)
		if err != nil {
			return nil, err
		}
		if prev, seen := candidates[u]; seen {
			candidates[u] = intersectCandidates(prev, sols)
		} else {
			candidates[u] = sols
		}
	}
	for _, u := range unknowns {
		if _, ok := candidates[u]; !ok {
			return nil, fmt.Errorf("no equation constrains %q: %w", u, ErrUnsolvable)
		}
	}

	out := []map[string]Expr{{}}
	for _, u := range unknowns {
		next := make([]map[string]Expr, 0, len(out)*len(candidates[u]))
		for _, partial := range out {
			for _, c := range candidates[u] {
				entry := make(map[string]Expr, len(partial)+1)
				for k, v := range partial {
					entry[k] = v
				}
				entry[u] = c
				next = append(next, entry)
			}
		}
		out = next
	}

	return out, nil
}

func intersectCandidates(a, b []Expr) []Expr {
	keep := make([]Expr, 0, len(a))
	for _, x := range a {
		for _, y := range b {
			if Equivalent(x, y) {
				keep = append(keep, x)

				break
			}
		}
	}

	return keep
}

// solveUnivariate returns the real roots of a polynomial residual in one
// unknown, degree ≤ 2. A decidably negative discriminant yields an empty
// root list, not an error.
func solveUnivariate(res Expr, u string) ([]Expr, error) {
	coeffs, ok := polyCoeffs(res, u)
	if !ok {
		return nil, fmt.Errorf("equation is not polynomial in %q: %w", u, ErrUnsolvable)
	}
	deg := 0
	for d, c := range coeffs {
		if d > deg && !IsZero(c) {
			deg = d
		}
	}
	c0 := coeffAt(coeffs, 0)
	c1 := coeffAt(coeffs, 1)
	c2 := coeffAt(coeffs, 2)
	switch deg {
	case 1:
		return []Expr{SimplifyChain(DivOf(NegOf(c0), c1))}, nil
	case 2:
		disc := SimplifyChain(AddOf(PowOf(c1, N(2)), MulOf(N(-4), c2, c0)))
		if dn, numeric := disc.Eval(); numeric && dn.IsNegative() {
			return []Expr{}, nil
		}
		root := SqrtOf(disc)
		denom := MulOf(N(2), c2)
		plus := SimplifyChain(DivOf(AddOf(NegOf(c1), root), denom))
		minus := SimplifyChain(DivOf(SubOf(NegOf(c1), root), denom))

		return []Expr{plus, minus}, nil
	default:
		return nil, fmt.Errorf("degree %d in %q: %w", deg, u, ErrUnsolvable)
	}
}

func coeffAt(coeffs map[int]Expr, d int) Expr {
	if c, ok := coeffs[d]; ok {
		return c
	}

	return N(0)
}

// polyCoeffs decomposes e as a polynomial in the named symbol, reporting
// false when e is not polynomial in it (the symbol under a function, a
// fractional power, or degree beyond maxPolyDegree).
func polyCoeffs(e Expr, name string) (map[int]Expr, bool) {
	if !ContainsSymbol(e, name) {
		return map[int]Expr{0: e}, true
	}
	switch v := e.(type) {
	case *Sym:
		return map[int]Expr{1: N(1)}, true
	case *Add:
		out := map[int]Expr{}
		for _, t := range v.terms {
			tc, ok := polyCoeffs(t, name)
			if !ok {
				return nil, false
			}
			for d, c := range tc {
				out[d] = AddOf(coeffAt(out, d), c)
			}
		}

		return out, true
	case *Mul:
		out := map[int]Expr{0: N(1)}
		for _, f := range v.factors {
			fc, ok := polyCoeffs(f, name)
			if !ok {
				return nil, false
			}
			out = convolveCoeffs(out, fc)
			if out == nil {
				return nil, false
			}
		}

		return out, true
	case *Pow:
		en, isNum := v.exp.(*Num)
		if !isNum || !en.IsInteger() || en.IsNegative() {
			return nil, false
		}
		exp := en.val.Num().Int64()
		if exp > maxPolyDegree {
			return nil, false
		}
		base, ok := polyCoeffs(v.base, name)
		if !ok {
			return nil, false
		}
		out := map[int]Expr{0: N(1)}
		for i := int64(0); i < exp; i++ {
			out = convolveCoeffs(out, base)
			if out == nil {
				return nil, false
			}
		}

		return out, true
	}

	return nil, false
}

func convolveCoeffs(a, b map[int]Expr) map[int]Expr {
	out := map[int]Expr{}
	for da, ca := range a {
		for db, cb := range b {
			d := da + db
			if d > maxPolyDegree {
				return nil
			}
			out[d] = AddOf(coeffAt(out, d), MulOf(ca, cb))
		}
	}

	return out
}

// solveLinearSystem attempts Gauss-Jordan elimination on a system linear
// in all unknowns. The boolean result reports whether the system was
// linear at all; failure to find usable pivots is an error.
func solveLinearSystem(residuals []Expr, unknowns []string, a *Assumptions) (map[string]Expr, bool, error) {
	n := len(unknowns)
	zeros := make(map[string]Expr, n)
	for _, u := range unknowns {
		zeros[u] = N(0)
	}

	mat := make([][]Expr, n)
	rhs := make([]Expr, n)
	for i, res := range residuals {
		row := make([]Expr, n)
		terms := make([]Expr, 0, n+1)
		for j, u := range unknowns {
			c := Expand(Diff(res, u))
			for _, w := range unknowns {
				if ContainsSymbol(c, w) {
					return nil, false, nil
				}
			}
			row[j] = c
			terms = append(terms, MulOf(c, Var(u)))
		}
		d := SubMap(res, zeros)
		terms = append(terms, d)
		if !IsZero(Expand(SubOf(res, AddOf(terms...)))) {
			return nil, false, nil
		}
		mat[i] = row
		rhs[i] = NegOf(d)
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			entry := SimplifyChain(mat[r][col])
			if num, numeric := entry.Eval(); numeric {
				if !num.IsZero() {
					pivot = r
				}
			} else if s := a.Sign(entry); s == SignPositive || s == SignNegative {
				pivot = r
			}
			if pivot >= 0 {
				break
			}
		}
		if pivot < 0 {
			return nil, false, fmt.Errorf("no usable pivot in column %d: %w", col, ErrUnsolvable)
		}
		mat[col], mat[pivot] = mat[pivot], mat[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		for r := 0; r < n; r++ {
			if r == col || IsZero(mat[r][col]) {
				continue
			}
			factor := DivOf(mat[r][col], mat[col][col])
			for c := col; c < n; c++ {
				mat[r][c] = Expand(SubOf(mat[r][c], MulOf(factor, mat[col][c])))
			}
			rhs[r] = Expand(SubOf(rhs[r], MulOf(factor, rhs[col])))
		}
	}

	sol := make(map[string]Expr, n)
	for i, u := range unknowns {
		sol[u] = SimplifyChain(DivOf(rhs[i], mat[i][i]))
	}

	return sol, true, nil
}
