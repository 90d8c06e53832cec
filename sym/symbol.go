package sym

import "math"

// Sym is a free symbol, identified by name.
type Sym struct{ name string }

// Var returns the symbol with the given name.
func Var(name string) *Sym {
	if name == "" {
		panic("sym: empty symbol name")
	}

	return &Sym{name: name}
}

func (s *Sym) Simplify() Expr             { return s }
func (s *Sym) String() string             { return s.name }
func (s *Sym) Eval() (*Num, bool)         { return nil, false }
func (s *Sym) EvalFloat() (float64, bool) { return 0, false }

// Name returns the symbol's identifier.
func (s *Sym) Name() string { return s.name }

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}

	return N(0)
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)

	return ok && s.name == o.name
}

func (s *Sym) subst(m map[string]Expr) Expr {
	if repl, ok := m[s.name]; ok {
		return repl
	}

	return s
}

func (s *Sym) free(set map[string]struct{}) { set[s.name] = struct{}{} }

// Const is a named irrational constant with a known numeric value.
type Const struct {
	name string
	val  float64
}

// Pi is the circle constant.
var Pi Expr = &Const{name: "pi", val: math.Pi}

func (c *Const) Simplify() Expr             { return c }
func (c *Const) String() string             { return c.name }
func (c *Const) Diff(string) Expr           { return N(0) }
func (c *Const) Eval() (*Num, bool)         { return nil, false }
func (c *Const) EvalFloat() (float64, bool) { return c.val, true }
func (c *Const) subst(map[string]Expr) Expr { return c }
func (c *Const) free(map[string]struct{})   {}

func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)

	return ok && c.name == o.name
}
