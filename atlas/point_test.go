package atlas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avelineau/manifold/atlas"
	"github.com/avelineau/manifold/sym"
)

// linearCharts builds a 2-dimensional manifold carrying three charts
// linked by registered linear changes: cart -> uv and uv -> st.
func linearCharts(t *testing.T) (*atlas.Manifold, *atlas.Chart, *atlas.Chart, *atlas.Chart, *atlas.CoordChange) {
	t.Helper()
	m := atlas.NewManifold("M", 2)
	cart, err := m.NewChart("x y")
	require.NoError(t, err)
	uv, err := m.NewChart("u v")
	require.NoError(t, err)
	st, err := m.NewChart("s q")
	require.NoError(t, err)

	x, y := cart.Coordinate(0), cart.Coordinate(1)
	cc, err := atlas.NewCoordChange(cart, uv, sym.AddOf(x, y), sym.SubOf(x, y))
	require.NoError(t, err)
	u, v := uv.Coordinate(0), uv.Coordinate(1)
	_, err = atlas.NewCoordChange(uv, st, sym.MulOf(sym.N(2), u), sym.MulOf(sym.N(3), v))
	require.NoError(t, err)

	return m, cart, uv, st, cc
}

// requireTuple compares a coordinate tuple against exact integers.
func requireTuple(t *testing.T, got []sym.Expr, want ...int64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		require.True(t, sym.Equivalent(got[i], sym.N(w)), "component %d = %s; want %d", i, got[i], w)
	}
}

// TestPoint_DefaultChartAndAccessors creates a point in the default chart
// and reads it back.
func TestPoint_DefaultChartAndAccessors(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	cart, err := m.NewChart("x y")
	require.NoError(t, err)

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, nil, atlas.WithPointName("p"))
	require.NoError(t, err)
	require.Same(t, m.Domain, p.Domain())
	require.Equal(t, "p", p.Name())
	require.Equal(t, "point p on 2-dimensional manifold M", p.String())
	require.Equal(t, []*atlas.Chart{cart}, p.Charts())

	got, err := p.Coord(nil)
	require.NoError(t, err)
	requireTuple(t, got, 1, 2)

	got, err = p.Coord(cart)
	require.NoError(t, err)
	requireTuple(t, got, 1, 2)

	anon, err := m.Point([]sym.Expr{sym.N(0), sym.N(0)}, cart)
	require.NoError(t, err)
	require.Equal(t, "point on 2-dimensional manifold M", anon.String())
}

// TestPoint_ConstructionErrors covers the constructor's failure modes.
func TestPoint_ConstructionErrors(t *testing.T) {
	bare := atlas.NewManifold("B", 2)
	_, err := bare.Point([]sym.Expr{sym.N(1), sym.N(2)}, nil)
	require.ErrorIs(t, err, atlas.ErrChartNotInAtlas)

	m := atlas.NewManifold("M", 2)
	pol, err := m.NewChart("r:(0,+oo) ph:(0,2*pi)")
	require.NoError(t, err)

	_, err = m.Point([]sym.Expr{sym.N(1)}, pol)
	require.ErrorIs(t, err, atlas.ErrDimensionMismatch)

	n := atlas.NewManifold("N", 2)
	foreign, err := n.NewChart("a b")
	require.NoError(t, err)
	_, err = m.Point([]sym.Expr{sym.N(1), sym.N(2)}, foreign)
	require.ErrorIs(t, err, atlas.ErrChartNotInAtlas)

	_, err = m.Point([]sym.Expr{sym.N(-1), sym.N(1)}, pol)
	require.ErrorIs(t, err, atlas.ErrInvalidCoordinates)

	// A free symbol cannot be placed inside the bounds, so the check must
	// be skipped explicitly.
	_, err = m.Point([]sym.Expr{sym.Var("t0"), sym.N(1)}, pol)
	require.ErrorIs(t, err, atlas.ErrInvalidCoordinates)
	p, err := m.Point([]sym.Expr{sym.Var("t0"), sym.N(1)}, pol, atlas.WithoutCoordCheck())
	require.NoError(t, err)
	require.Equal(t, []*atlas.Chart{pol}, p.Charts())
}

// TestPoint_StoresAcrossChartRelations checks the constructor's fan-out:
// the tuple lands in every superchart and in the subcharts that accept it.
func TestPoint_StoresAcrossChartRelations(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	w, err := u.OpenSubdomain("W")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	x, y := c.Coordinate(0), c.Coordinate(1)

	rU, err := c.Restrict(u, atlas.Cond(sym.Gt(x, sym.N(0))))
	require.NoError(t, err)
	rW, err := rU.Restrict(w, atlas.Cond(sym.Lt(y, sym.N(10))))
	require.NoError(t, err)

	p, err := u.Point([]sym.Expr{sym.N(1), sym.N(2)}, rU)
	require.NoError(t, err)
	require.Contains(t, p.Charts(), rU)
	require.Contains(t, p.Charts(), c)
	require.Contains(t, p.Charts(), rW)

	// A tuple outside the subchart's restriction is not propagated down.
	far, err := u.Point([]sym.Expr{sym.N(1), sym.N(20)}, rU)
	require.NoError(t, err)
	require.Contains(t, far.Charts(), c)
	require.NotContains(t, far.Charts(), rW)
}

// TestPoint_Coord_DomainContainment rejects resolution against a chart
// whose domain is not known to contain the point.
func TestPoint_Coord_DomainContainment(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	rU, err := c.Restrict(u)
	require.NoError(t, err)

	p, err := m.Point([]sym.Expr{sym.N(-1), sym.N(2)}, c)
	require.NoError(t, err)
	_, err = p.Coord(rU)
	require.ErrorIs(t, err, atlas.ErrNotSubdomain)
}

// TestPoint_OnUnionDomain creates a point of a union in an operand's
// chart: the default-chart route serves it, while resolving against the
// operand chart directly fails the containment test.
func TestPoint_OnUnionDomain(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	a, err := m.OpenSubdomain("A")
	require.NoError(t, err)
	b, err := m.OpenSubdomain("B")
	require.NoError(t, err)
	ca, err := a.NewChart("x y")
	require.NoError(t, err)
	ab, err := a.Union(b)
	require.NoError(t, err)

	p, err := ab.Point([]sym.Expr{sym.N(1), sym.N(2)}, ca)
	require.NoError(t, err)
	require.Contains(t, p.Charts(), ca)

	// The union inherited ca as its default chart.
	got, err := p.Coord(nil)
	require.NoError(t, err)
	requireTuple(t, got, 1, 2)

	// ca covers only A, and the union is not inside A.
	_, err = p.Coord(ca)
	require.ErrorIs(t, err, atlas.ErrNotSubdomain)
}

// TestPoint_Coord_DefaultChartRoute computes a missing representation
// through the registered change out of the default chart.
func TestPoint_Coord_DefaultChartRoute(t *testing.T) {
	m, _, uv, _, _ := linearCharts(t)

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, nil)
	require.NoError(t, err)

	got, err := p.Coord(uv)
	require.NoError(t, err)
	requireTuple(t, got, 3, -1)
	require.Contains(t, p.Charts(), uv)

	// Cached, not recomputed.
	again, err := p.Coord(uv)
	require.NoError(t, err)
	requireTuple(t, again, 3, -1)
}

// TestPoint_Coord_OneHopSearch resolves through a known chart's change
// when the default chart has no direct route, and refuses chains of two.
func TestPoint_Coord_OneHopSearch(t *testing.T) {
	m, _, uv, st, _ := linearCharts(t)

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, nil)
	require.NoError(t, err)

	// cart -> st is not registered, and two-hop chains are not searched.
	_, err = p.Coord(st)
	require.ErrorIs(t, err, atlas.ErrCoordResolution)

	// Materializing the middle representation opens the route.
	_, err = p.Coord(uv)
	require.NoError(t, err)
	got, err := p.Coord(st)
	require.NoError(t, err)
	requireTuple(t, got, 6, -3)
}

// TestPoint_Coord_ReverseNeedsInverse cannot step against an unregistered
// direction until the inverse change is materialized.
func TestPoint_Coord_ReverseNeedsInverse(t *testing.T) {
	m, cart, uv, _, cc := linearCharts(t)

	q, err := m.Point([]sym.Expr{sym.N(3), sym.N(-1)}, uv)
	require.NoError(t, err)

	_, err = q.Coord(cart)
	require.ErrorIs(t, err, atlas.ErrCoordResolution)

	_, err = cc.Inverse()
	require.NoError(t, err)

	got, err := q.Coord(cart)
	require.NoError(t, err)
	requireTuple(t, got, 1, 2)
}

// TestPoint_Coord_VerbatimSuperchart copies a tuple into a superchart
// without any coordinate change: restriction never renames coordinates.
func TestPoint_Coord_VerbatimSuperchart(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	rU, err := c.Restrict(u, atlas.Cond(sym.Gt(c.Coordinate(0), sym.N(0))))
	require.NoError(t, err)

	p, err := u.Point([]sym.Expr{sym.N(1), sym.N(2)}, rU)
	require.NoError(t, err)
	require.NoError(t, p.SetCoord([]sym.Expr{sym.N(5), sym.N(6)}, rU))
	require.Equal(t, []*atlas.Chart{rU}, p.Charts())

	got, err := p.Coord(c)
	require.NoError(t, err)
	requireTuple(t, got, 5, 6)
	require.Contains(t, p.Charts(), c)
}

// TestPoint_CoordVia forces the resolution source instead of searching.
func TestPoint_CoordVia(t *testing.T) {
	m, cart, uv, st, _ := linearCharts(t)

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, nil)
	require.NoError(t, err)

	_, err = p.CoordVia(nil, st)
	require.ErrorIs(t, err, atlas.ErrCoordResolution)

	// The via chart's tuple must already be known.
	_, err = p.CoordVia(uv, st)
	require.ErrorIs(t, err, atlas.ErrCoordResolution)

	// No change registered from cart straight to st.
	_, err = p.CoordVia(cart, st)
	require.ErrorIs(t, err, atlas.ErrUnknownCoordChange)

	_, err = p.Coord(uv)
	require.NoError(t, err)
	got, err := p.CoordVia(uv, st)
	require.NoError(t, err)
	requireTuple(t, got, 6, -3)
}

// TestPoint_SetCoordAndAddCoord contrasts the destructive and the
// additive coordinate setters.
func TestPoint_SetCoordAndAddCoord(t *testing.T) {
	m, cart, uv, _, _ := linearCharts(t)

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, cart)
	require.NoError(t, err)
	_, err = p.Coord(uv)
	require.NoError(t, err)
	require.Len(t, p.Charts(), 2)

	// SetCoord drops every other representation.
	require.NoError(t, p.SetCoord([]sym.Expr{sym.N(10), sym.N(20)}, cart))
	require.Equal(t, []*atlas.Chart{cart}, p.Charts())
	got, err := p.Coord(uv)
	require.NoError(t, err)
	requireTuple(t, got, 30, -10)

	// AddCoord keeps them, trusting the caller about consistency.
	require.NoError(t, p.AddCoord([]sym.Expr{sym.N(0), sym.N(0)}, uv))
	require.Contains(t, p.Charts(), cart)
	got, err = p.Coord(uv)
	require.NoError(t, err)
	requireTuple(t, got, 0, 0)

	err = p.SetCoord([]sym.Expr{sym.N(1)}, cart)
	require.ErrorIs(t, err, atlas.ErrDimensionMismatch)
}

// TestPoint_Equal compares points in a shared chart and reports the
// undecidable cases as errors.
func TestPoint_Equal(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	cart, err := m.NewChart("x y")
	require.NoError(t, err)
	uv, err := m.NewChart("u v")
	require.NoError(t, err)

	p1, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, cart)
	require.NoError(t, err)
	p2, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, cart)
	require.NoError(t, err)
	p3, err := m.Point([]sym.Expr{sym.N(2), sym.N(1)}, cart)
	require.NoError(t, err)

	eq, err := p1.Equal(p2)
	require.NoError(t, err)
	require.True(t, eq)
	eq, err = p1.Equal(p3)
	require.NoError(t, err)
	require.False(t, eq)

	eq, err = p1.Equal(nil)
	require.NoError(t, err)
	require.False(t, eq)

	// Without a registered change the uv point shares no chart with p1.
	q, err := m.Point([]sym.Expr{sym.N(3), sym.N(-1)}, uv)
	require.NoError(t, err)
	_, err = p1.Equal(q)
	require.ErrorIs(t, err, atlas.ErrNoCommonChart)

	n := atlas.NewManifold("N", 2)
	nc, err := n.NewChart("a b")
	require.NoError(t, err)
	fp, err := n.Point([]sym.Expr{sym.N(1), sym.N(2)}, nc)
	require.NoError(t, err)
	_, err = p1.Equal(fp)
	require.ErrorIs(t, err, atlas.ErrManifoldMismatch)
}
