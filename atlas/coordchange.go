package atlas

import (
	"fmt"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// CoordChange is a transition map between two charts: one expression per
// target coordinate, written in the source chart's coordinates. The
// Jacobian is computed at construction, the determinant too when source
// and target dimensions agree.
//
// When both charts live on the same domain the change registers itself,
// keyed by the chart pair, on that domain and all its superdomains, and
// its Jacobian seeds the change of frame between the two induced frames
// in both directions where the matrix inverts.
type CoordChange struct {
	from, to *Chart
	fn       *MultiCoordFunction
	jac      *sym.Matrix
	jacDet   sym.Expr

	// mu guards inv and serializes inversion, so the solve runs once.
	mu  sync.Mutex
	inv *CoordChange
}

// NewCoordChange builds the transition map taking the source chart's
// coordinates to the target chart's. transforms must hold exactly one
// expression per target coordinate.
func NewCoordChange(from, to *Chart, transforms ...sym.Expr) (*CoordChange, error) {
	if from.domain.manifold != to.domain.manifold {
		return nil, fmt.Errorf("%w: charts %s and %s", ErrManifoldMismatch, from, to)
	}
	if len(transforms) != len(to.coords) {
		return nil, fmt.Errorf("%w: %d expressions for %d target coordinates",
			ErrTransformArity, len(transforms), len(to.coords))
	}

	cc := &CoordChange{from: from, to: to, fn: from.MultiFunction(transforms...)}
	cc.jac = cc.fn.Jacobian()
	if len(transforms) == len(from.coords) {
		if det, err := cc.fn.JacobianDet(); err == nil {
			cc.jacDet = det
		}
	}

	if from.domain == to.domain {
		cc.register()
	}

	return cc, nil
}

// register writes the change into its domain's and every superdomain's
// transition dictionaries and seeds the frame changes.
func (cc *CoordChange) register() {
	var reverse *sym.Matrix
	if cc.jac.Rows() == cc.jac.Cols() {
		if inv, err := cc.jac.Inverse(); err == nil {
			reverse = inv
		}
	}
	for _, dom := range cc.from.domain.superdomainSnapshot() {
		dom.registerCoordChange(cc)
		dom.registerFrameChange(cc.from.frame, cc.to.frame, cc.jac)
		if reverse != nil {
			dom.seedFrameChange(cc.to.frame, cc.from.frame, reverse)
		}
	}
}

// From returns the source chart.
func (cc *CoordChange) From() *Chart { return cc.from }

// To returns the target chart.
func (cc *CoordChange) To() *Chart { return cc.to }

// Transforms returns a copy of the transform expressions, one per target
// coordinate.
func (cc *CoordChange) Transforms() []sym.Expr { return cc.fn.Exprs() }

// Apply evaluates the change on a source-coordinate tuple.
func (cc *CoordChange) Apply(values ...sym.Expr) ([]sym.Expr, error) {
	return cc.fn.Apply(values...)
}

// Jacobian returns the matrix of partial derivatives of the transform
// with respect to the source coordinates. Treat it as read-only.
func (cc *CoordChange) Jacobian() *sym.Matrix { return cc.jac }

// JacobianDet returns the Jacobian determinant, or ErrNotSquare when the
// charts' dimensions differ.
func (cc *CoordChange) JacobianDet() (sym.Expr, error) {
	if cc.jacDet == nil {
		return nil, fmt.Errorf("%w: from %s to %s", ErrNotSquare, cc.from, cc.to)
	}

	return cc.jacDet, nil
}

func (cc *CoordChange) String() string {
	return fmt.Sprintf("Change of coordinates from %s to %s", cc.from, cc.to)
}

// Inverse returns the inverse coordinate change, solving the transform
// equations for the source coordinates on first use.
//
// The solver works on fresh placeholder symbols standing for the target
// coordinates, each carrying the target coordinate's range as an interval
// assumption, so a self-map between one chart's coordinates inverts
// correctly. Every algebraic candidate is then filtered through the
// source chart's ValidCoordinates with the candidate tuple as the
// proposed source coordinates; exactly one candidate must survive.
// Anything else fails with ErrNoInverse, pointing the caller to
// SetInverse. The inverse of the inverse is the original change, without
// re-solving.
func (cc *CoordChange) Inverse() (*CoordChange, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.inv != nil {
		return cc.inv, nil
	}

	if len(cc.from.coords) != len(cc.to.coords) {
		return nil, fmt.Errorf("%w: %d source and %d target coordinates; use SetInverse",
			ErrNoInverse, len(cc.from.coords), len(cc.to.coords))
	}

	m := cc.from.domain.manifold
	a := m.assume
	placeholders := make([]string, len(cc.to.coords))
	eqs := make([]sym.Equation, len(cc.to.coords))
	for i, tc := range cc.to.coords {
		name := m.placeholderName(tc.name)
		placeholders[i] = name
		if !m.realLine {
			assumeCoordinate(a, name, tc.iv)
		}
		eqs[i] = sym.Eq(cc.fn.Expr(i), sym.Var(name))
	}

	unknowns := cc.from.coordNames()
	sols, err := sym.Solve(eqs, unknowns, a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v; use SetInverse", ErrNoInverse, err)
	}

	var survivors [][]sym.Expr
	for _, sol := range sols {
		tuple := make([]sym.Expr, len(unknowns))
		complete := true
		for i, u := range unknowns {
			v, ok := sol[u]
			if !ok {
				complete = false

				break
			}
			tuple[i] = sym.SimplifyChainWith(a, v)
		}
		if !complete {
			continue
		}
		if ok, _ := cc.from.ValidCoordinates(tuple...); ok {
			survivors = append(survivors, tuple)
		}
	}
	if len(survivors) != 1 {
		return nil, fmt.Errorf("%w: %d of %d candidate solutions lie in the source chart's range; use SetInverse",
			ErrNoInverse, len(survivors), len(sols))
	}

	backs := make(map[string]sym.Expr, len(placeholders))
	for i, name := range placeholders {
		backs[name] = cc.to.coords[i].sym
	}
	transforms := make([]sym.Expr, len(survivors[0]))
	for i, e := range survivors[0] {
		transforms[i] = sym.SimplifyChainWith(a, sym.SubMap(e, backs))
	}

	inv, err := NewCoordChange(cc.to, cc.from, transforms...)
	if err != nil {
		return nil, err
	}
	cc.inv = inv
	inv.setInverseBacklink(cc)

	return inv, nil
}

// SetInverse overrides the inverse with caller-supplied transforms, one
// expression per source coordinate. Unless WithoutCheck is given, both
// compositions are simplified and reported through the manifold's logger;
// a mismatch is logged, never returned, since symbolic equality of
// arbitrary expressions is not decidable.
func (cc *CoordChange) SetInverse(transforms []sym.Expr, opts ...InverseOption) (*CoordChange, error) {
	cfg := inverseConfig{check: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(transforms) != len(cc.from.coords) {
		return nil, fmt.Errorf("%w: %d expressions for %d source coordinates",
			ErrTransformArity, len(transforms), len(cc.from.coords))
	}

	inv, err := NewCoordChange(cc.to, cc.from, transforms...)
	if err != nil {
		return nil, err
	}
	cc.mu.Lock()
	cc.inv = inv
	cc.mu.Unlock()
	inv.setInverseBacklink(cc)

	if cfg.check {
		cc.logRoundTrip(inv)
	}

	return inv, nil
}

func (cc *CoordChange) setInverseBacklink(orig *CoordChange) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.inv == nil {
		cc.inv = orig
	}
}

// logRoundTrip composes the change with its inverse in both directions
// and reports each coordinate's verdict.
func (cc *CoordChange) logRoundTrip(inv *CoordChange) {
	logger := cc.from.domain.manifold.logger
	a := cc.from.domain.manifold.assume

	report := func(fwd, back *CoordChange) {
		toNames := fwd.to.coordNames()
		subs := make(map[string]sym.Expr, len(toNames))
		for i, n := range toNames {
			subs[n] = fwd.fn.Expr(i)
		}
		for i, coord := range back.to.coords {
			composed := sym.SimplifyChainWith(a, sym.SubMap(back.fn.Expr(i), subs))
			if sym.IsZero(sym.SimplifyChainWith(a, sym.SubOf(composed, coord.sym))) {
				logger.Info("coordinate transformation check",
					"relation", fmt.Sprintf("%s == %s", coord.name, composed))
			} else {
				logger.Warn("coordinate transformation check failed",
					"relation", fmt.Sprintf("%s != %s", coord.name, composed))
			}
		}
	}

	report(cc, inv)
	report(inv, cc)
}
