package atlas

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// Chart is a coordinate system on an open domain: an ordered tuple of
// coordinate symbols, one per manifold dimension, each carrying a range
// with open or closed endpoints, plus a list of extra restrictions
// narrowing the valid region. Charts form their own containment relation
// through Restrict: a restricted chart shares its parent's symbols and
// bounds and extends its restrictions.
//
// The chart-to-chart relation is deliberately flat: every ancestor knows
// every descendant directly, so a chain of restrictions never needs
// walking.
type Chart struct {
	domain *Domain
	coords []coordinate
	frame  *CoordFrame

	zeroOnce sync.Once
	zero     *CoordFunction

	mu           sync.RWMutex
	restrictions []Restriction
	subcharts    map[*Chart]struct{}
	supercharts  map[*Chart]struct{}
	domRestrict  map[*Domain]*Chart
}

// coordinate is one chart coordinate: its symbol, optional display name
// and range.
type coordinate struct {
	name    string
	display string
	iv      Interval
	sym     *sym.Sym
}

// NewChart creates a chart on the domain from a specification string such
// as "r:(0,+oo) th:(0,2*pi) z". Each whitespace-separated token is
// symbol[:range][:display] with the optional fields in either order; the
// default range is the full line.
//
// The coordinate count must equal the manifold dimension, and the domain
// must be open. Every coordinate symbol is declared to the symbolic
// engine with its range as an interval assumption, except on the
// real-line bootstrap manifold. The chart is appended to the atlas of the
// domain and of every superdomain, becoming the default chart of any of
// them that has none yet.
func (d *Domain) NewChart(spec string) (*Chart, error) {
	if !d.open {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, d.name)
	}
	specs, err := parseChartSpec(spec)
	if err != nil {
		return nil, err
	}
	m := d.manifold
	if len(specs) != m.dim {
		return nil, fmt.Errorf("%w: %d coordinates on %s", ErrDimensionMismatch, len(specs), m.Domain)
	}

	c := &Chart{
		domain:      d,
		coords:      make([]coordinate, len(specs)),
		subcharts:   make(map[*Chart]struct{}),
		supercharts: make(map[*Chart]struct{}),
		domRestrict: make(map[*Domain]*Chart),
	}
	for i, cs := range specs {
		c.coords[i] = coordinate{name: cs.name, display: cs.display, iv: cs.iv, sym: sym.Var(cs.name)}
		if !m.realLine {
			assumeCoordinate(m.assume, cs.name, cs.iv)
		}
	}
	c.frame = &CoordFrame{chart: c}
	c.subcharts[c] = struct{}{}
	c.supercharts[c] = struct{}{}

	for _, dom := range d.superdomainSnapshot() {
		dom.registerChart(c)
	}

	return c, nil
}

// assumeCoordinate feeds a coordinate's range into the engine assumptions.
// Ends whose expressions do not evaluate numerically stay unconstrained;
// ValidCoordinates still checks them symbolically.
func assumeCoordinate(a *sym.Assumptions, name string, iv Interval) {
	a.Declare(name)
	lo, hi, loOpen, hiOpen, any := intervalFloats(iv)
	if any {
		a.AssumeInterval(name, lo, hi, loOpen, hiOpen)
	}
}

func intervalFloats(iv Interval) (lo, hi float64, loOpen, hiOpen, any bool) {
	lo, hi = math.Inf(-1), math.Inf(1)
	loOpen, hiOpen = true, true
	if !iv.Min.Infinite {
		if v, ok := iv.Min.Value.EvalFloat(); ok {
			lo, loOpen, any = v, !iv.Min.Closed, true
		}
	}
	if !iv.Max.Infinite {
		if v, ok := iv.Max.Value.EvalFloat(); ok {
			hi, hiOpen, any = v, !iv.Max.Closed, true
		}
	}

	return lo, hi, loOpen, hiOpen, any
}

// Domain returns the domain the chart is defined on.
func (c *Chart) Domain() *Domain { return c.domain }

// Dimension returns the number of coordinates.
func (c *Chart) Dimension() int { return len(c.coords) }

// Coordinates returns the coordinate symbols in declaration order.
func (c *Chart) Coordinates() []*sym.Sym {
	out := make([]*sym.Sym, len(c.coords))
	for i := range c.coords {
		out[i] = c.coords[i].sym
	}

	return out
}

// Coordinate returns the i-th coordinate symbol. It panics when i is out
// of range.
func (c *Chart) Coordinate(i int) *sym.Sym {
	c.checkIndex(i)

	return c.coords[i].sym
}

// Bounds returns the i-th coordinate's range. It panics when i is out of
// range.
func (c *Chart) Bounds(i int) Interval {
	c.checkIndex(i)

	return c.coords[i].iv
}

// DisplayName returns the i-th coordinate's display form, falling back to
// the symbol name. It panics when i is out of range.
func (c *Chart) DisplayName(i int) string {
	c.checkIndex(i)
	if d := c.coords[i].display; d != "" {
		return d
	}

	return c.coords[i].name
}

func (c *Chart) checkIndex(i int) {
	if i < 0 || i >= len(c.coords) {
		panic(fmt.Sprintf("atlas: coordinate index %d out of range [0,%d)", i, len(c.coords)))
	}
}

func (c *Chart) String() string {
	names := make([]string, len(c.coords))
	for i := range c.coords {
		names[i] = c.coords[i].name
	}

	return "Chart (" + c.domain.name + ", (" + strings.Join(names, ", ") + "))"
}

func (c *Chart) coordNames() []string {
	names := make([]string, len(c.coords))
	for i := range c.coords {
		names[i] = c.coords[i].name
	}

	return names
}

func (c *Chart) assumptions() *sym.Assumptions { return c.domain.manifold.assume }

// AddRestrictions appends conditions to the chart's conjunction list. The
// conditions are not checked for satisfiability.
func (c *Chart) AddRestrictions(rs ...Restriction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restrictions = append(c.restrictions, rs...)
}

// Restrictions returns the chart's restriction list in declaration order.
func (c *Chart) Restrictions() []Restriction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]Restriction(nil), c.restrictions...)
}

// Subcharts returns the charts obtained from c by restriction, c included.
func (c *Chart) Subcharts() []*Chart { return c.subchartSnapshot() }

// Supercharts returns the charts c was obtained from by restriction, c
// included.
func (c *Chart) Supercharts() []*Chart { return c.superchartSnapshot() }

func (c *Chart) subchartSnapshot() []*Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Chart, 0, len(c.subcharts))
	for s := range c.subcharts {
		out = append(out, s)
	}

	return out
}

func (c *Chart) superchartSnapshot() []*Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Chart, 0, len(c.supercharts))
	for s := range c.supercharts {
		out = append(out, s)
	}

	return out
}

func (c *Chart) hasSubchart(other *Chart) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subcharts[other]

	return ok
}

// ValidCoordinates reports whether the tuple lies in the chart's range:
// the arity must match, every value must satisfy its coordinate's bounds
// with the declared open/closed endpoints, and every restriction must
// hold. A comparison the engine cannot decide counts as failed. The check
// short-circuits on the first failure.
func (c *Chart) ValidCoordinates(values ...sym.Expr) (bool, error) {
	if len(values) != len(c.coords) {
		return false, fmt.Errorf("%w: got %d values for %d coordinates",
			ErrTransformArity, len(values), len(c.coords))
	}
	a := c.assumptions()
	for i, v := range values {
		if !boundHolds(a, v, c.coords[i].iv) {
			return false, nil
		}
	}
	if rs := c.Restrictions(); len(rs) > 0 {
		subs := make(map[string]sym.Expr, len(c.coords))
		for i := range c.coords {
			subs[c.coords[i].name] = values[i]
		}
		for _, r := range rs {
			if !r.Holds(a, subs) {
				return false, nil
			}
		}
	}

	return true, nil
}

func boundHolds(a *sym.Assumptions, v sym.Expr, iv Interval) bool {
	if !iv.Min.Infinite {
		rel := sym.Gt(v, iv.Min.Value)
		if iv.Min.Closed {
			rel = sym.Ge(v, iv.Min.Value)
		}
		if !a.Holds(rel) {
			return false
		}
	}
	if !iv.Max.Infinite {
		rel := sym.Lt(v, iv.Max.Value)
		if iv.Max.Closed {
			rel = sym.Le(v, iv.Max.Value)
		}
		if !a.Holds(rel) {
			return false
		}
	}

	return true
}

// Restrict returns the chart induced on a subdomain of the chart's
// domain: same coordinate symbols, same bounds, the parent's restrictions
// extended with extra. Restricting a chart to its own domain returns the
// chart itself, and repeated calls with the same subdomain return the
// same object.
//
// After a restriction, every ancestor of c (c's supercharts, c included)
// lists the new chart among its subcharts, holds it in its restriction
// memo for sub, and conversely appears among the new chart's supercharts,
// keeping the many-to-many relation flat across chains of restrictions.
func (c *Chart) Restrict(sub *Domain, extra ...Restriction) (*Chart, error) {
	if sub == c.domain {
		return c, nil
	}
	if !sub.IsSubdomainOf(c.domain) {
		return nil, fmt.Errorf("%w: %s is not inside %s", ErrNotSubdomain, sub.name, c.domain.name)
	}
	if !sub.open {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, sub.name)
	}
	if child := c.lookupRestrict(sub); child != nil {
		return child, nil
	}

	m := c.domain.manifold
	m.latticeMu.Lock()
	defer m.latticeMu.Unlock()
	if child := c.lookupRestrict(sub); child != nil {
		return child, nil
	}

	child := &Chart{
		domain:      sub,
		coords:      c.coords,
		subcharts:   make(map[*Chart]struct{}),
		supercharts: make(map[*Chart]struct{}),
		domRestrict: make(map[*Domain]*Chart),
	}
	child.frame = &CoordFrame{chart: child}
	child.subcharts[child] = struct{}{}
	child.supercharts[child] = struct{}{}
	child.restrictions = append(append([]Restriction(nil), c.Restrictions()...), extra...)

	for _, anc := range c.superchartSnapshot() {
		child.supercharts[anc] = struct{}{}
		anc.mu.Lock()
		anc.subcharts[child] = struct{}{}
		anc.domRestrict[sub] = child
		anc.mu.Unlock()
	}

	for _, dom := range sub.superdomainSnapshot() {
		dom.registerChart(child)
	}

	return child, nil
}

func (c *Chart) lookupRestrict(sub *Domain) *Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.domRestrict[sub]
}

// TransitionMap links c to another chart across their overlap: it
// intersects the two domains, restricts each chart to the overlap when it
// differs from the chart's own domain (applying the per-side restriction
// options), and builds the coordinate change between the restricted
// charts. transforms gives each of other's coordinates as an expression
// in c's coordinates.
func (c *Chart) TransitionMap(other *Chart, transforms []sym.Expr, opts ...TransitionOption) (*CoordChange, error) {
	var cfg transitionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var lopts []LatticeOption
	if cfg.intersectionName != "" {
		lopts = append(lopts, WithName(cfg.intersectionName))
	}
	overlap, err := c.domain.Intersection(other.domain, lopts...)
	if err != nil {
		return nil, err
	}

	src := c
	if overlap != c.domain {
		if src, err = c.Restrict(overlap, cfg.srcRestrictions...); err != nil {
			return nil, err
		}
	}
	dst := other
	if overlap != other.domain {
		if dst, err = other.Restrict(overlap, cfg.dstRestrictions...); err != nil {
			return nil, err
		}
	}

	return NewCoordChange(src, dst, transforms...)
}
