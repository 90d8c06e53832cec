package sym

import "sort"

// Expr is an immutable symbolic expression tree node.
//
// The node set is closed: only this package implements Expr. Callers build
// expressions through the *Of constructors and treat the results as opaque
// values; structural inspection happens via type switches inside the kernel.
type Expr interface {
	// Simplify returns the normal form of the expression. Constructors
	// already simplify, so calling it again is idempotent.
	Simplify() Expr

	// String renders the expression in a stable, parseable text form.
	String() string

	// Diff returns the partial derivative with respect to the named symbol.
	Diff(name string) Expr

	// Eval reports the exact rational value, when the expression has one.
	Eval() (*Num, bool)

	// EvalFloat reports the numeric value, including irrational constants.
	EvalFloat() (float64, bool)

	// Equal reports structural equality with another expression.
	Equal(other Expr) bool

	subst(m map[string]Expr) Expr
	free(set map[string]struct{})
}

// Sub substitutes a single symbol and re-simplifies.
func Sub(e Expr, name string, value Expr) Expr {
	return SubMap(e, map[string]Expr{name: value})
}

// SubMap substitutes every mapped symbol simultaneously: replacement values
// are never re-scanned, so swapping two symbols in one call is safe.
func SubMap(e Expr, m map[string]Expr) Expr {
	if len(m) == 0 {
		return e
	}
	return e.subst(m).Simplify()
}

// Diff differentiates and simplifies.
func Diff(e Expr, name string) Expr {
	return e.Diff(name).Simplify()
}

// FreeSymbols returns the sorted names of the free symbols in e.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	e.free(set)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// ContainsSymbol reports whether the named symbol occurs in e.
func ContainsSymbol(e Expr, name string) bool {
	set := map[string]struct{}{}
	e.free(set)
	_, ok := set[name]

	return ok
}

// IsZero reports whether e simplifies to the exact number zero.
// Undecidable expressions report false.
func IsZero(e Expr) bool {
	if n, ok := SimplifyChain(e).Eval(); ok {
		return n.IsZero()
	}

	return false
}

// Equivalent reports whether a-b vanishes after expansion and the full
// simplification chain. It is stronger than Equal, which is structural.
func Equivalent(a, b Expr) bool {
	if a.Equal(b) {
		return true
	}

	return IsZero(Expand(AddOf(a, NegOf(b))))
}
