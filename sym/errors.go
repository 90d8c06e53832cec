package sym

import "errors"

// Sentinel errors for the symbolic kernel.
var (
	// ErrUnsolvable indicates that Solve could not isolate the requested
	// unknowns with the methods it implements (univariate degree ≤ 2,
	// systems linear in all unknowns).
	ErrUnsolvable = errors.New("sym: system not solvable by this kernel")

	// ErrNonInvertible indicates a singular matrix in Inverse.
	ErrNonInvertible = errors.New("sym: matrix is not invertible")

	// ErrShape indicates mismatched matrix dimensions.
	ErrShape = errors.New("sym: matrix shape mismatch")

	// ErrParse indicates malformed input text in Parse.
	ErrParse = errors.New("sym: parse error")
)
