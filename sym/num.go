package sym

import "math/big"

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

// N returns the integer constant n.
func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// NRat returns the exact fraction p/q. q must be non-zero.
func NRat(p, q int64) *Num {
	if q == 0 {
		panic("sym: NRat with zero denominator")
	}

	return &Num{val: big.NewRat(p, q)}
}

// NFloat returns the rational holding the exact binary value of f.
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func (n *Num) Simplify() Expr             { return n }
func (n *Num) Diff(string) Expr           { return N(0) }
func (n *Num) Eval() (*Num, bool)         { return n, true }
func (n *Num) subst(map[string]Expr) Expr { return n }
func (n *Num) free(map[string]struct{})   {}

func (n *Num) EvalFloat() (float64, bool) {
	f, _ := n.val.Float64()

	return f, true
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)

	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}

	return n.val.RatString()
}

// Rat returns a copy of the underlying rational.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool   { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("sym: division by zero")
	}

	return &Num{val: new(big.Rat).Inv(a.val)}
}

func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// numPowInt raises a to an integer power by repeated multiplication.
// The exponent magnitude is capped by the callers.
func numPowInt(a *Num, e int64) *Num {
	if e < 0 {
		return numRecip(numPowInt(a, -e))
	}
	result := N(1)
	for i := int64(0); i < e; i++ {
		result = numMul(result, a)
	}

	return result
}

// numSqrt returns the exact square root when the rational is a perfect
// square of non-negative sign.
func numSqrt(a *Num) (*Num, bool) {
	if a.IsNegative() {
		return nil, false
	}
	num := new(big.Int).Sqrt(a.val.Num())
	den := new(big.Int).Sqrt(a.val.Denom())
	if new(big.Int).Mul(num, num).Cmp(a.val.Num()) != 0 {
		return nil, false
	}
	if new(big.Int).Mul(den, den).Cmp(a.val.Denom()) != 0 {
		return nil, false
	}

	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}
