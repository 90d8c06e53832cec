package atlas

import (
	"strings"

	"github.com/avelineau/manifold/sym"
)

// Restriction is an extra boolean condition narrowing a chart's valid
// coordinate region beyond its per-coordinate bounds. The three forms are
// Cond (a single relation), AllOf (conjunction) and AnyOf (disjunction);
// they nest arbitrarily.
//
// Deciding a restriction is delegated to the symbolic engine. A condition
// the engine cannot decide for a given tuple counts as not satisfied, so an
// undecidable tuple is rejected rather than accepted.
type Restriction interface {
	// Holds reports whether the restriction is satisfied once the coordinate
	// values are substituted, under the given assumptions.
	Holds(a *sym.Assumptions, values map[string]sym.Expr) bool

	String() string
}

// Cond wraps a single relation, e.g. Cond(sym.Gt(x, sym.N(0))).
func Cond(rel sym.Rel) Restriction { return condRestriction{rel: rel} }

// AllOf groups restrictions that must all hold.
func AllOf(rs ...Restriction) Restriction { return allRestriction{members: rs} }

// AnyOf groups restrictions of which at least one must hold.
func AnyOf(rs ...Restriction) Restriction { return anyRestriction{members: rs} }

type condRestriction struct {
	rel sym.Rel
}

func (c condRestriction) Holds(a *sym.Assumptions, values map[string]sym.Expr) bool {
	return a.Holds(c.rel.Sub(values))
}

func (c condRestriction) String() string { return c.rel.String() }

type allRestriction struct {
	members []Restriction
}

func (g allRestriction) Holds(a *sym.Assumptions, values map[string]sym.Expr) bool {
	for _, m := range g.members {
		if !m.Holds(a, values) {
			return false
		}
	}

	return true
}

func (g allRestriction) String() string { return joinRestrictions(g.members, " and ") }

type anyRestriction struct {
	members []Restriction
}

func (g anyRestriction) Holds(a *sym.Assumptions, values map[string]sym.Expr) bool {
	for _, m := range g.members {
		if m.Holds(a, values) {
			return true
		}
	}

	return false
}

func (g anyRestriction) String() string { return joinRestrictions(g.members, " or ") }

func joinRestrictions(rs []Restriction, sep string) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}

	return "(" + strings.Join(parts, sep) + ")"
}
