package atlas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avelineau/manifold/atlas"
	"github.com/avelineau/manifold/sym"
)

// TestNewChart_RegistersUpTheLattice checks that a chart declared on a
// subdomain appears in the atlas of the subdomain and of every domain
// above it, covers only its own domain, and seeds the default chart of
// any domain that had none.
func TestNewChart_RegistersUpTheLattice(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)

	c, err := u.NewChart("x y")
	require.NoError(t, err)

	require.Same(t, u, c.Domain())
	require.Equal(t, "Chart (U, (x, y))", c.String())

	require.Contains(t, u.Atlas(), c)
	require.Contains(t, m.Atlas(), c)
	require.Equal(t, []*atlas.Chart{c}, u.CoveringCharts())
	require.Empty(t, m.CoveringCharts())
	require.Same(t, c, u.DefaultChart())
	require.Same(t, c, m.DefaultChart())

	f := c.Frame()
	require.Same(t, c, f.Chart())
	require.Same(t, u, f.Domain())
	require.Equal(t, "coordinate frame (U, (d/dx, d/dy))", f.String())
	require.Contains(t, u.Frames(), f)
	require.Contains(t, m.Frames(), f)
}

// TestValidCoordinates_FullLine accepts any numeric tuple on a chart
// without ranges and rejects tuples of the wrong arity.
func TestValidCoordinates_FullLine(t *testing.T) {
	m := atlas.NewManifold("M", 3)
	c, err := m.NewChart("x y z")
	require.NoError(t, err)

	ok, err := c.ValidCoordinates(sym.N(1), sym.N(2), sym.N(3))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.ValidCoordinates(sym.N(1), sym.N(2))
	require.ErrorIs(t, err, atlas.ErrTransformArity)
	require.False(t, ok)
}

// TestValidCoordinates_SphericalBounds checks numeric tuples against
// ranges with a transcendental endpoint.
func TestValidCoordinates_SphericalBounds(t *testing.T) {
	m := atlas.NewManifold("M", 3)
	c, err := m.NewChart("r:(0,+oo) th:(0,pi) ph:(0,2*pi)")
	require.NoError(t, err)

	cases := []struct {
		r, th, ph sym.Expr
		want      bool
	}{
		{sym.N(1), sym.N(3), sym.N(1), true},
		{sym.N(1), sym.NFloat(3.5), sym.N(1), false},
		{sym.N(-1), sym.N(1), sym.N(1), false},
		{sym.N(1), sym.N(1), sym.N(7), false},
		{sym.N(1), sym.N(0), sym.N(1), false},
	}
	for _, tc := range cases {
		ok, err := c.ValidCoordinates(tc.r, tc.th, tc.ph)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "tuple (%s, %s, %s)", tc.r, tc.th, tc.ph)
	}
}

// TestValidCoordinates_ClosedEndpoint distinguishes closed from open
// endpoints.
func TestValidCoordinates_ClosedEndpoint(t *testing.T) {
	m := atlas.NewManifold("M", 1)
	c, err := m.NewChart("x:[0,1)")
	require.NoError(t, err)

	for _, tc := range []struct {
		v    sym.Expr
		want bool
	}{
		{sym.N(0), true},
		{sym.NRat(1, 2), true},
		{sym.N(1), false},
		{sym.N(-1), false},
	} {
		ok, err := c.ValidCoordinates(tc.v)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "value %s", tc.v)
	}
}

// TestValidCoordinates_Disjunction models the punctured half-line of the
// polar overlap: valid wherever y is nonzero or x is negative.
func TestValidCoordinates_Disjunction(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	x, y := c.Coordinate(0), c.Coordinate(1)
	c.AddRestrictions(atlas.AnyOf(
		atlas.Cond(sym.Ne(y, sym.N(0))),
		atlas.Cond(sym.Lt(x, sym.N(0))),
	))

	ok, err := c.ValidCoordinates(sym.N(-1), sym.N(0))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.ValidCoordinates(sym.N(1), sym.N(0))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.ValidCoordinates(sym.N(1), sym.N(1))
	require.NoError(t, err)
	require.True(t, ok)
}

// TestValidCoordinates_NestedRestrictions nests a disjunction inside a
// conjunction and treats an undecidable condition as failed.
func TestValidCoordinates_NestedRestrictions(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	x, y := c.Coordinate(0), c.Coordinate(1)
	c.AddRestrictions(atlas.AllOf(
		atlas.Cond(sym.Gt(x, sym.N(0))),
		atlas.AnyOf(
			atlas.Cond(sym.Gt(y, sym.N(0))),
			atlas.Cond(sym.Lt(y, sym.N(-1))),
		),
	))
	require.Len(t, c.Restrictions(), 1)

	for _, tc := range []struct {
		x, y sym.Expr
		want bool
	}{
		{sym.N(1), sym.N(1), true},
		{sym.N(1), sym.N(-2), true},
		{sym.N(1), sym.NRat(-1, 2), false},
		{sym.N(-1), sym.N(1), false},
		// The engine knows nothing about a free symbol, so the
		// conjunction cannot be confirmed.
		{sym.Var("a"), sym.N(1), false},
	} {
		ok, err := c.ValidCoordinates(tc.x, tc.y)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "tuple (%s, %s)", tc.x, tc.y)
	}
}

// TestRestrict_IdentityAndMemo restricts a chart to its own domain and
// twice to the same subdomain.
func TestRestrict_IdentityAndMemo(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)

	same, err := c.Restrict(m.Domain)
	require.NoError(t, err)
	require.Same(t, c, same)

	r1, err := c.Restrict(u)
	require.NoError(t, err)
	require.Same(t, u, r1.Domain())
	// The restriction shares the parent's coordinate symbols and bounds.
	require.Same(t, c.Coordinate(0), r1.Coordinate(0))
	require.Equal(t, c.Bounds(1), r1.Bounds(1))

	again, err := c.Restrict(u)
	require.NoError(t, err)
	require.Same(t, r1, again)
}

// TestRestrict_AncestorMemo checks the flat subchart relation: after
// restricting a restriction, the grandparent resolves the grandchild
// directly.
func TestRestrict_AncestorMemo(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	v, err := u.OpenSubdomain("V")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)

	r1, err := c.Restrict(u)
	require.NoError(t, err)
	r2, err := r1.Restrict(v)
	require.NoError(t, err)

	// The grandparent holds the memo too.
	viaTop, err := c.Restrict(v)
	require.NoError(t, err)
	require.Same(t, r2, viaTop)

	require.Contains(t, c.Subcharts(), r1)
	require.Contains(t, c.Subcharts(), r2)
	require.Contains(t, r2.Supercharts(), r1)
	require.Contains(t, r2.Supercharts(), c)

	// The restricted chart registers on its domain and everything above.
	require.Contains(t, v.Atlas(), r2)
	require.Contains(t, u.Atlas(), r2)
	require.Contains(t, m.Atlas(), r2)
	require.Equal(t, []*atlas.Chart{r2}, v.CoveringCharts())
}

// TestRestrict_Errors rejects domains outside the chart's own and
// non-open subdomains.
func TestRestrict_Errors(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	w, err := m.OpenSubdomain("W")
	require.NoError(t, err)
	s, err := u.Subdomain("S")
	require.NoError(t, err)

	c, err := u.NewChart("x y")
	require.NoError(t, err)

	_, err = c.Restrict(w)
	require.ErrorIs(t, err, atlas.ErrNotSubdomain)

	_, err = c.Restrict(s)
	require.ErrorIs(t, err, atlas.ErrNotOpen)
}

// TestRestrict_ExtendsRestrictions keeps the parent untouched while the
// child carries the parent's conditions plus the extra ones.
func TestRestrict_ExtendsRestrictions(t *testing.T) {
	m := atlas.NewManifold("M", 2)
	u, err := m.OpenSubdomain("U")
	require.NoError(t, err)
	c, err := m.NewChart("x y")
	require.NoError(t, err)
	x := c.Coordinate(0)

	r, err := c.Restrict(u, atlas.Cond(sym.Gt(x, sym.N(0))))
	require.NoError(t, err)
	require.Len(t, r.Restrictions(), 1)
	require.Empty(t, c.Restrictions())

	ok, err := r.ValidCoordinates(sym.N(1), sym.N(1))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(t, err)
	require.False(t, ok)

	// The parent still accepts what the child rejects.
	ok, err = c.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(t, err)
	require.True(t, ok)
}
