package atlas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// Point is a point of the manifold, held in a coordinate-independent way:
// a map from charts to coordinate tuples, filled lazily as representations
// are requested. All stored tuples describe the same point; construction
// and resolution keep them consistent through the registered coordinate
// changes.
type Point struct {
	domain *Domain
	name   string

	mu     sync.RWMutex
	coords map[*Chart][]sym.Expr
	order  []*Chart
}

// Point creates a point of the domain from its coordinates in the given
// chart, or in the domain's default chart when chart is nil. The tuple
// length must equal the manifold dimension and the chart must belong to
// the domain's atlas.
//
// Unless WithoutCoordCheck is given, the tuple must pass the chart's
// ValidCoordinates; tuples holding free symbols usually need the check
// skipped, since the engine cannot place an unconstrained symbol inside a
// bound. The tuple is stored under the chart, under every superchart, and
// under every subchart on which it is valid.
func (d *Domain) Point(coords []sym.Expr, chart *Chart, opts ...PointOption) (*Point, error) {
	cfg := pointConfig{check: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := d.manifold
	if len(coords) != m.dim {
		return nil, fmt.Errorf("%w: %d coordinates on %s", ErrDimensionMismatch, len(coords), m.Domain)
	}
	chart, err := d.resolveChart(chart)
	if err != nil {
		return nil, err
	}
	if cfg.check {
		ok, err := chart.ValidCoordinates(coords...)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrInvalidCoordinates, tupleString(coords), chart)
		}
	}

	p := &Point{domain: d, name: cfg.name, coords: make(map[*Chart][]sym.Expr)}
	tuple := append([]sym.Expr(nil), coords...)
	p.coords[chart] = tuple
	p.order = append(p.order, chart)
	for _, sc := range chart.superchartSnapshot() {
		if sc == chart {
			continue
		}
		p.coords[sc] = tuple
		p.order = append(p.order, sc)
	}
	for _, sc := range chart.subchartSnapshot() {
		if sc == chart {
			continue
		}
		if ok, _ := sc.ValidCoordinates(coords...); ok {
			p.coords[sc] = tuple
			p.order = append(p.order, sc)
		}
	}

	return p, nil
}

// resolveChart substitutes the domain's default chart for nil and checks
// atlas membership otherwise.
func (d *Domain) resolveChart(chart *Chart) (*Chart, error) {
	if chart == nil {
		if def := d.DefaultChart(); def != nil {
			return def, nil
		}

		return nil, fmt.Errorf("%w: domain %s has no chart", ErrChartNotInAtlas, d.name)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !chartIn(d.atlas, chart) {
		return nil, fmt.Errorf("%w: %s on domain %s", ErrChartNotInAtlas, chart, d.name)
	}

	return chart, nil
}

// Domain returns the domain the point was created on.
func (p *Point) Domain() *Domain { return p.domain }

// Name returns the point's display name, possibly empty.
func (p *Point) Name() string { return p.name }

func (p *Point) String() string {
	if p.name != "" {
		return fmt.Sprintf("point %s on %s", p.name, p.domain.manifold.Domain)
	}

	return fmt.Sprintf("point on %s", p.domain.manifold.Domain)
}

// Charts returns the charts the point currently has coordinates in, oldest
// first.
func (p *Point) Charts() []*Chart { return p.knownCharts() }

// Coord returns the point's coordinates in the given chart, or in the
// point's domain's default chart when chart is nil.
//
// A representation not yet stored is computed from a known one. The search
// runs in a fixed order: a known chart the request is a superchart of
// (tuples carry over verbatim, restriction never renames coordinates);
// then the chart's domain's default chart, when its tuple is known and a
// direct coordinate change to the request is registered; then one
// substitution step, scanning every known chart's subcharts for a direct
// change to the request. There is no deeper search: a chain of two or more
// changes must be materialized chart by chart, or forced with CoordVia.
// Computed tuples are cached on the point.
func (p *Point) Coord(chart *Chart) ([]sym.Expr, error) {
	tuple, err := p.resolve(chart, nil)
	if err != nil {
		return nil, err
	}

	return append([]sym.Expr(nil), tuple...), nil
}

// CoordVia computes the point's coordinates in chart by applying the
// registered coordinate change from via, whose tuple must already be
// known. It skips Coord's search order but shares its cache.
func (p *Point) CoordVia(via, chart *Chart) ([]sym.Expr, error) {
	if via == nil {
		return nil, fmt.Errorf("%w: nil source chart", ErrCoordResolution)
	}
	tuple, err := p.resolve(chart, via)
	if err != nil {
		return nil, err
	}

	return append([]sym.Expr(nil), tuple...), nil
}

func (p *Point) resolve(chart, via *Chart) ([]sym.Expr, error) {
	dom := p.domain
	if chart == nil {
		chart = dom.DefaultChart()
		if chart == nil {
			return nil, fmt.Errorf("%w: domain %s has no chart", ErrCoordResolution, dom.name)
		}
	} else {
		dom = chart.domain
		if !dom.Contains(p) {
			return nil, fmt.Errorf("%w: %s against a chart on %s",
				ErrNotSubdomain, p, dom.name)
		}
	}

	if tuple := p.lookup(chart); tuple != nil {
		return tuple, nil
	}

	known := p.knownCharts()
	for _, k := range known {
		if !chart.hasSubchart(k) {
			continue
		}
		tuple := p.lookup(k)
		if tuple == nil {
			continue
		}
		p.put(chart, tuple)

		return tuple, nil
	}

	var (
		src *Chart
		cc  *CoordChange
	)
	if via != nil {
		got, err := dom.CoordChange(via, chart)
		if err != nil {
			return nil, err
		}
		src, cc = via, got
	} else {
		if def := dom.DefaultChart(); def != nil && p.lookup(def) != nil {
			if got, err := dom.CoordChange(def, chart); err == nil {
				src, cc = def, got
			}
		}
		if cc == nil {
		search:
			for _, k := range known {
				for _, sub := range k.subchartSnapshot() {
					if got, err := dom.CoordChange(sub, chart); err == nil {
						src, cc = k, got

						break search
					}
				}
			}
		}
		if cc == nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrCoordResolution, p, chart)
		}
	}

	tuple := p.lookup(src)
	if tuple == nil {
		return nil, fmt.Errorf("%w: no known coordinates in %s", ErrCoordResolution, src)
	}
	out, err := cc.Apply(tuple...)
	if err != nil {
		return nil, err
	}
	p.put(chart, out)

	return out, nil
}

// SetCoord replaces every stored representation with the given tuple: all
// coordinates in other charts are dropped, so no stale representation can
// survive the overwrite. The chart defaults to the domain's default chart;
// validation matches the constructor's.
func (p *Point) SetCoord(coords []sym.Expr, chart *Chart, opts ...PointOption) error {
	chart, tuple, err := p.prepareCoord(coords, chart, opts)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coords = map[*Chart][]sym.Expr{chart: tuple}
	p.order = []*Chart{chart}

	return nil
}

// AddCoord stores the tuple under the chart, keeping representations in
// other charts. Consistency with them is the caller's responsibility;
// nothing propagates to super or subcharts.
func (p *Point) AddCoord(coords []sym.Expr, chart *Chart, opts ...PointOption) error {
	chart, tuple, err := p.prepareCoord(coords, chart, opts)
	if err != nil {
		return err
	}
	p.put(chart, tuple)

	return nil
}

func (p *Point) prepareCoord(coords []sym.Expr, chart *Chart, opts []PointOption) (*Chart, []sym.Expr, error) {
	cfg := pointConfig{check: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(coords) != p.domain.manifold.dim {
		return nil, nil, fmt.Errorf("%w: %d coordinates on %s",
			ErrDimensionMismatch, len(coords), p.domain.manifold.Domain)
	}
	chart, err := p.domain.resolveChart(chart)
	if err != nil {
		return nil, nil, err
	}
	if cfg.check {
		ok, err := chart.ValidCoordinates(coords...)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s on %s", ErrInvalidCoordinates, tupleString(coords), chart)
		}
	}

	return chart, append([]sym.Expr(nil), coords...), nil
}

// Equal compares the two points in a shared chart, preferring the domain's
// default chart. Components are compared with sym.Equivalent. When the
// points have no chart in common the comparison is undecidable and fails
// with ErrNoCommonChart rather than answering false.
func (p *Point) Equal(other *Point) (bool, error) {
	if other == nil {
		return false, nil
	}
	if err := p.domain.checkSameManifold(other.domain); err != nil {
		return false, err
	}

	var (
		shared       *Chart
		mine, theirs []sym.Expr
	)
	if def := p.domain.DefaultChart(); def != nil {
		if mt := p.lookup(def); mt != nil {
			if ot := other.lookup(def); ot != nil {
				shared, mine, theirs = def, mt, ot
			}
		}
	}
	if shared == nil {
		for _, k := range p.knownCharts() {
			mt := p.lookup(k)
			if mt == nil {
				continue
			}
			if ot := other.lookup(k); ot != nil {
				shared, mine, theirs = k, mt, ot

				break
			}
		}
	}
	if shared == nil {
		return false, fmt.Errorf("%w: %s and %s", ErrNoCommonChart, p, other)
	}

	for i := range mine {
		if !sym.Equivalent(mine[i], theirs[i]) {
			return false, nil
		}
	}

	return true, nil
}

func (p *Point) lookup(chart *Chart) []sym.Expr {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.coords[chart]
}

func (p *Point) put(chart *Chart, tuple []sym.Expr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, known := p.coords[chart]; !known {
		p.order = append(p.order, chart)
	}
	p.coords[chart] = tuple
}

func (p *Point) knownCharts() []*Chart {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]*Chart(nil), p.order...)
}

func tupleString(values []sym.Expr) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
