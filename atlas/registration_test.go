package atlas_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/avelineau/manifold/atlas"
	"github.com/avelineau/manifold/sym"
)

// RegistrationSuite exercises chart bookkeeping over a three-level domain
// lattice rebuilt for every test: V inside U inside M, with one global
// chart on M.
type RegistrationSuite struct {
	suite.Suite

	m    *atlas.Manifold
	u, v *atlas.Domain
	cart *atlas.Chart
}

func (s *RegistrationSuite) SetupTest() {
	s.m = atlas.NewManifold("M", 2)
	var err error
	s.u, err = s.m.OpenSubdomain("U")
	require.NoError(s.T(), err)
	s.v, err = s.u.OpenSubdomain("V")
	require.NoError(s.T(), err)
	s.cart, err = s.m.NewChart("x y")
	require.NoError(s.T(), err)
}

// TestDeepChartReachesEveryAncestorAtlas verifies that a chart declared on
// the innermost domain lands in each ancestor's atlas, covers only its own
// domain, and seeds default charts without displacing existing ones.
func (s *RegistrationSuite) TestDeepChartReachesEveryAncestorAtlas() {
	pq, err := s.v.NewChart("p q")
	require.NoError(s.T(), err)

	require.True(s.T(), containsChart(s.v.Atlas(), pq))
	require.True(s.T(), containsChart(s.u.Atlas(), pq))
	require.True(s.T(), containsChart(s.m.Atlas(), pq))

	require.Equal(s.T(), []*atlas.Chart{pq}, s.v.CoveringCharts())
	require.Empty(s.T(), s.u.CoveringCharts())

	require.Same(s.T(), pq, s.v.DefaultChart())
	require.Same(s.T(), pq, s.u.DefaultChart())
	require.Same(s.T(), s.cart, s.m.DefaultChart())
}

// TestExplicitDefaultSurvivesLaterCharts verifies that only the first chart
// seeds a domain's default and that an explicitly chosen default stays put.
func (s *RegistrationSuite) TestExplicitDefaultSurvivesLaterCharts() {
	first, err := s.u.NewChart("a b")
	require.NoError(s.T(), err)
	require.Same(s.T(), first, s.u.DefaultChart())

	second, err := s.u.NewChart("c d")
	require.NoError(s.T(), err)
	require.Same(s.T(), first, s.u.DefaultChart())

	require.NoError(s.T(), s.u.SetDefaultChart(second))
	require.Same(s.T(), second, s.u.DefaultChart())

	_, err = s.u.NewChart("e f")
	require.NoError(s.T(), err)
	require.Same(s.T(), second, s.u.DefaultChart())
}

// TestAddRestrictionsStayWithTheChart verifies that restrictions added
// after a restriction was built affect the parent and later children only.
func (s *RegistrationSuite) TestAddRestrictionsStayWithTheChart() {
	rU, err := s.cart.Restrict(s.u)
	require.NoError(s.T(), err)

	ok, err := rU.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(s.T(), err)
	require.True(s.T(), ok)

	x := s.cart.Coordinate(0)
	s.cart.AddRestrictions(atlas.Cond(sym.Gt(x, sym.N(0))))

	ok, err = s.cart.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(s.T(), err)
	require.False(s.T(), ok)

	// The earlier restriction snapshotted an empty list.
	ok, err = rU.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(s.T(), err)
	require.True(s.T(), ok)

	rV, err := s.cart.Restrict(s.v)
	require.NoError(s.T(), err)
	ok, err = rV.ValidCoordinates(sym.N(-1), sym.N(1))
	require.NoError(s.T(), err)
	require.False(s.T(), ok)

	require.Len(s.T(), s.cart.Restrictions(), 1)
	require.Empty(s.T(), rU.Restrictions())
	require.Len(s.T(), rV.Restrictions(), 1)
}

// TestFrameBookkeeping verifies that each chart contributes one coordinate
// frame to its domain and every superdomain, and that frame changes only
// exist once a coordinate change registered them.
func (s *RegistrationSuite) TestFrameBookkeeping() {
	require.Len(s.T(), s.m.Frames(), 1)
	require.Empty(s.T(), s.u.Frames())

	pq, err := s.v.NewChart("p q")
	require.NoError(s.T(), err)

	require.Len(s.T(), s.v.Frames(), 1)
	require.Len(s.T(), s.u.Frames(), 1)
	require.Len(s.T(), s.m.Frames(), 2)

	_, err = s.m.FrameChange(s.cart.Frame(), pq.Frame())
	require.ErrorIs(s.T(), err, atlas.ErrUnknownFrameChange)
}

// TestRealLineBoundsStillPoliceValues verifies that the bootstrap
// manifold's charts keep rejecting out-of-range numeric values even
// though their bounds never reach the assumption registry, unlike charts
// of an ordinary manifold.
func (s *RegistrationSuite) TestRealLineBoundsStillPoliceValues() {
	rl := atlas.RealLine()
	require.Equal(s.T(), 1, rl.Dimension())

	ch, err := rl.NewChart("t:(0,+oo)")
	require.NoError(s.T(), err)

	// The same bound on an ordinary manifold becomes an assumption.
	_, err = s.u.NewChart("w:(0,+oo) z")
	require.NoError(s.T(), err)
	require.True(s.T(), s.m.Assumptions().Holds(sym.Gt(sym.Var("w"), sym.N(0))))

	ok, err := ch.ValidCoordinates(sym.N(1))
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	ok, err = ch.ValidCoordinates(sym.N(-1))
	require.NoError(s.T(), err)
	require.False(s.T(), ok)
}

func TestRegistrationSuite(t *testing.T) {
	suite.Run(t, new(RegistrationSuite))
}
