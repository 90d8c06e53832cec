package sym

// RelOp enumerates the relational operators.
type RelOp int

const (
	// OpLt is strict less-than.
	OpLt RelOp = iota
	// OpLe is less-than-or-equal.
	OpLe
	// OpGt is strict greater-than.
	OpGt
	// OpGe is greater-than-or-equal.
	OpGe
	// OpEq is equality.
	OpEq
	// OpNe is inequality.
	OpNe
)

func (op RelOp) String() string {
	switch op {
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	default:
		return "!="
	}
}

// Rel is a relation between two expressions, used for chart restrictions
// and assumption predicates.
type Rel struct {
	L  Expr
	R  Expr
	Op RelOp
}

// Lt returns the relation l < r.
func Lt(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpLt} }

// Le returns the relation l <= r.
func Le(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpLe} }

// Gt returns the relation l > r.
func Gt(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpGt} }

// Ge returns the relation l >= r.
func Ge(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpGe} }

// EqRel returns the relation l == r.
func EqRel(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpEq} }

// Ne returns the relation l != r.
func Ne(l, r Expr) Rel { return Rel{L: l, R: r, Op: OpNe} }

func (r Rel) String() string {
	return r.L.String() + " " + r.Op.String() + " " + r.R.String()
}

// Sub substitutes symbols on both sides simultaneously.
func (r Rel) Sub(m map[string]Expr) Rel {
	return Rel{L: SubMap(r.L, m), R: SubMap(r.R, m), Op: r.Op}
}

// Residual returns L - R simplified.
func (r Rel) Residual() Expr { return SubOf(r.L, r.R) }
