// Package sym implements the exact symbolic expression kernel used by the
// atlas layer: expression trees with rational-number arithmetic, substitution,
// differentiation, equation solving, and interval-based sign reasoning.
//
// Expressions are immutable trees built from Num (exact big.Rat values), Sym
// (free symbols), Const (pi), Add, Mul, Pow, Func (elementary functions) and
// Atan2 nodes. Constructors such as AddOf, MulOf, PowOf and SinOf simplify on
// construction, so every Expr held by a caller is already in normal form.
//
// The package favours exactness over numeric collapse: sin(1) stays symbolic,
// sqrt(4) becomes 2, and 0.5 is the rational 1/2. EvalFloat exists for the
// callers that need a numeric verdict (bound checks, candidate filtering).
//
// Complexity:
//
//	– Simplify: O(n log n) in the node count (term sorting dominates).
//	– Diff: O(n) nodes visited, output may grow by the usual calculus factors.
//	– Solve: linear systems via Gaussian elimination O(n³) matrix ops;
//	  univariate polynomials up to degree 2 in closed form.
//	– Matrix Det/Inverse: Laplace cofactor expansion, O(n!), intended for
//	  the small dimensions of coordinate geometry.
//
// Errors (sentinel):
//
//	– ErrUnsolvable    if Solve cannot isolate the unknowns.
//	– ErrNonInvertible if a matrix inverse does not exist.
//	– ErrShape         if matrix dimensions disagree.
//	– ErrParse         if Parse rejects its input.
package sym
