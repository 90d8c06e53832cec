package atlas

import (
	"fmt"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// chartPair keys a registered coordinate change by its endpoints.
type chartPair struct {
	from, to *Chart
}

// framePair keys a registered frame change by its endpoints.
type framePair struct {
	from, to *CoordFrame
}

// Domain is a named subset of a manifold. It tracks its position in the
// containment lattice (superdomains and subdomains, both including the
// domain itself), the charts known on it, the coordinate and frame changes
// registered on it, and the memoized results of Intersection and Union.
//
// All mutable state sits behind a single RWMutex; a domain never holds its
// own lock while taking another domain's.
type Domain struct {
	name     string
	manifold *Manifold
	open     bool

	mu            sync.RWMutex
	superdomains  map[*Domain]struct{}
	subdomains    map[*Domain]struct{}
	atlas         []*Chart
	covering      []*Chart
	defChart      *Chart
	coordChanges  map[chartPair]*CoordChange
	frames        []*CoordFrame
	frameChanges  map[framePair]*sym.Matrix
	intersections map[string]*Domain
	unions        map[string]*Domain
}

func newDomain(m *Manifold, name string, open bool) *Domain {
	d := &Domain{
		name:          name,
		manifold:      m,
		open:          open,
		superdomains:  make(map[*Domain]struct{}),
		subdomains:    make(map[*Domain]struct{}),
		coordChanges:  make(map[chartPair]*CoordChange),
		frameChanges:  make(map[framePair]*sym.Matrix),
		intersections: make(map[string]*Domain),
		unions:        make(map[string]*Domain),
	}
	d.superdomains[d] = struct{}{}
	d.subdomains[d] = struct{}{}

	return d
}

// Name returns the domain name, unique within the manifold.
func (d *Domain) Name() string { return d.name }

// Manifold returns the owning manifold.
func (d *Domain) Manifold() *Manifold { return d.manifold }

// IsOpen reports whether the domain is open.
func (d *Domain) IsOpen() bool { return d.open }

func (d *Domain) String() string {
	switch {
	case d == d.manifold.Domain:
		return fmt.Sprintf("%d-dimensional manifold %s", d.manifold.dim, d.name)
	case d.open:
		return fmt.Sprintf("open subset %s of the %d-dimensional manifold %s",
			d.name, d.manifold.dim, d.manifold.name)
	default:
		return fmt.Sprintf("subset %s of the %d-dimensional manifold %s",
			d.name, d.manifold.dim, d.manifold.name)
	}
}

// Subdomain registers a new subset of d under the given name.
func (d *Domain) Subdomain(name string) (*Domain, error) {
	return d.newSubdomain(name, false)
}

// OpenSubdomain registers a new open subset of d under the given name.
// Only open domains can carry charts.
func (d *Domain) OpenSubdomain(name string) (*Domain, error) {
	return d.newSubdomain(name, true)
}

func (d *Domain) newSubdomain(name string, open bool) (*Domain, error) {
	child := newDomain(d.manifold, name, open)
	if err := d.manifold.registerDomain(name, child); err != nil {
		return nil, err
	}
	linkSubdomain(child, d.superdomainSnapshot())

	return child, nil
}

/// linkSubdomain wires child under every given ancestor: the ancestors all
// become superdomains of child, and child becomes a subdomain of each.
// The child is not yet visible to other goroutines at this point.
func linkSubdomain(child *Domain, ancestors []*Domain) {
	for _, anc := range ancestors {
		if anc == child {
			continue
		}
		child.superdomains[anc] = struct{}{}
		anc.mu.Lock()
		anc.subdomains[child] = struct{}{}
		anc.mu.Unlock()
	}
}

// IsSubdomainOf reports whether d is a subset of other. Every domain is a
// subdomain of itself.
func (d *Domain) IsSubdomainOf(other *Domain) bool {
	other.mu.RLock()
	defer other.mu.RUnlock()
	_, ok := other.subdomains[d]

	return ok
}

// Contains reports whether the point lives on d or one of its subdomains.
func (d *Domain) Contains(p *Point) bool {
	return p != nil && p.domain.IsSubdomainOf(d)
}

func (d *Domain) superdomainSnapshot() []*Domain {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Domain, 0, len(d.superdomains))
	for s := range d.superdomains {
		out = append(out, s)
	}

	return out
}

func (d *Domain) subdomainSnapshot() []*Domain {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Domain, 0, len(d.subdomains))
	for s := range d.subdomains {
		out = append(out, s)
	}

	return out
}

// Intersection returns the subset common to d and other.
//
// Fast paths return existing domains without touching the memo: the whole
// manifold is the identity operand, and when one domain already contains
// the other the smaller one is the intersection. Otherwise the result is
// memoized symmetrically on both operands keyed by the peer's name, so
// A.Intersection(B) and B.Intersection(A) return the same *Domain.
//
// Complexity: O(1) on the fast paths and memo hits, O(|superdomains|) on
// first construction.
func (d *Domain) Intersection(other *Domain, opts ...LatticeOption) (*Domain, error) {
	if err := d.checkSameManifold(other); err != nil {
		return nil, err
	}
	root := d.manifold.Domain
	switch {
	case other == root:
		return d, nil
	case d == root:
		return other, nil
	case d == other:
		return d, nil
	case d.IsSubdomainOf(other):
		return d, nil
	case other.IsSubdomainOf(d):
		return other, nil
	}
	if got := d.lookupIntersection(other.name); got != nil {
		return got, nil
	}

	var cfg latticeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m := d.manifold
	m.latticeMu.Lock()
	defer m.latticeMu.Unlock()
	if got := d.lookupIntersection(other.name); got != nil {
		return got, nil
	}

	name := cfg.name
	if name == "" {
		name = d.name + "_inter_" + other.name
	}
	inter := newDomain(m, name, d.open && other.open)
	if err := m.registerDomain(name, inter); err != nil {
		return nil, err
	}
	linkSubdomain(inter, mergeDomains(d.superdomainSnapshot(), other.superdomainSnapshot()))

	d.storeIntersection(other.name, inter)
	other.storeIntersection(d.name, inter)

	return inter, nil
}

// Union returns the smallest registered domain containing both d and
// other.
//
/// Fast paths mirror Intersection: the manifold absorbs everything, and a
// domain containing the other is their union. A freshly built union
// inherits the charts, coordinate changes, frames, frame changes and
// default chart of the first operand and then merges the second's, so
// points expressed in either operand's charts stay resolvable on the
// union.
func (d *Domain) Union(other *Domain, opts ...LatticeOption) (*Domain, error) {
	if err := d.checkSameManifold(other); err != nil {
		return nil, err
	}
	root := d.manifold.Domain
	switch {
	case other == root || d == root:
		return root, nil
	case d == other:
		return d, nil
	case d.IsSubdomainOf(other):
		return other, nil
	case other.IsSubdomainOf(d):
		return d, nil
	}
	if got := d.lookupUnion(other.name); got != nil {
		return got, nil
	}

	var cfg latticeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m := d.manifold
	m.latticeMu.Lock()
	defer m.latticeMu.Unlock()
	if got := d.lookupUnion(other.name); got != nil {
		return got, nil
	}

	name := cfg.name
	if name == "" {
		name = d.name + "_union_" + other.name
	}
	u := newDomain(m, name, d.open && other.open)
	if err := m.registerDomain(name, u); err != nil {
		return nil, err
	}

	// A common superdomain of both operands contains all their points, so
	// it contains the union; every subdomain of either operand sits below
	// the union.
	linkSubdomain(u, intersectDomains(d.superdomainSnapshot(), other.superdomainSnapshot()))
	for _, sub := range mergeDomains(d.subdomainSnapshot(), other.subdomainSnapshot()) {
		if sub == u {
			continue
		}
		sub.mu.Lock()
		sub.superdomains[u] = struct{}{}
		sub.mu.Unlock()
		u.mu.Lock()
		u.subdomains[sub] = struct{}{}
		u.mu.Unlock()
	}

	u.absorb(d)
	u.absorb(other)

	d.storeUnion(other.name, u)
	other.storeUnion(d.name, u)

	return u, nil
}

func (d *Domain) checkSameManifold(other *Domain) error {
	if other == nil {
		return fmt.Errorf("%w: nil domain", ErrManifoldMismatch)
	}
	if d.manifold != other.manifold {
		return fmt.Errorf("%w: %s is on %s, %s is on %s",
			ErrManifoldMismatch, d.name, d.manifold.name, other.name, other.manifold.name)
	}

	return nil
}

func (d *Domain) lookupIntersection(peer string) *Domain {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.intersections[peer]
}

func (d *Domain) storeIntersection(peer string, result *Domain) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.intersections[peer]; !taken {
		d.intersections[peer] = result
	}
}

func (d *Domain) lookupUnion(peer string) *Domain {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.unions[peer]
}

func (d *Domain) storeUnion(peer string, result *Domain) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.unions[peer]; !taken {
		d.unions[peer] = result
	}
}

// absorb copies src's chart and change metadata into d, keeping entries d
// already has. Covering charts stay put: a chart covers only the domain it
// was declared on, never a union built above it. Snapshot and write are two
// phases so no two domain locks are held together.
func (d *Domain) absorb(src *Domain) {
	src.mu.RLock()
	atlas := append([]*Chart(nil), src.atlas...)
	def := src.defChart
	changes := make(map[chartPair]*CoordChange, len(src.coordChanges))
	for k, v := range src.coordChanges {
		changes[k] = v
	}
	frames := append([]*CoordFrame(nil), src.frames...)
	frameChanges := make(map[framePair]*sym.Matrix, len(src.frameChanges))
	for k, v := range src.frameChanges {
		frameChanges[k] = v
	}
	src.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range atlas {
		if !chartIn(d.atlas, c) {
			d.atlas = append(d.atlas, c)
		}
	}
	if d.defChart == nil {
		d.defChart = def
	}
	for k, v := range changes {
		if _, ok := d.coordChanges[k]; !ok {
			d.coordChanges[k] = v
		}
	}
	for _, f := range frames {
		if !frameIn(d.frames, f) {
			d.frames = append(d.frames, f)
		}
	}
	for k, v := range frameChanges {
		if _, ok := d.frameChanges[k]; !ok {
			d.frameChanges[k] = v
		}
	}
}

// Atlas returns the charts known on d or any of its subdomains, in
// registration order.
func (d *Domain) Atlas() []*Chart {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]*Chart(nil), d.atlas...)
}

// CoveringCharts returns the charts defined on d itself.
func (d *Domain) CoveringCharts() []*Chart {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]*Chart(nil), d.covering...)
}

// Frames returns the coordinate frames known on d, in registration order.
func (d *Domain) Frames() []*CoordFrame {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]*CoordFrame(nil), d.frames...)
}

// DefaultChart returns the domain's default chart, or nil when the domain
// has no chart yet. The first chart registered on a domain becomes its
// default.
func (d *Domain) DefaultChart() *Chart {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.defChart
}

// SetDefaultChart overrides the default chart; the chart must already be
// in the domain's atlas.
func (d *Domain) SetDefaultChart(c *Chart) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !chartIn(d.atlas, c) {
		return fmt.Errorf("%w: %s on domain %s", ErrChartNotInAtlas, c, d.name)
	}
	d.defChart = c

	return nil
}

// CoordChange returns the registered coordinate change from c1 to c2.
func (d *Domain) CoordChange(c1, c2 *Chart) (*CoordChange, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if cc, ok := d.coordChanges[chartPair{from: c1, to: c2}]; ok {
		return cc, nil
	}

	return nil, fmt.Errorf("%w: from %s to %s", ErrUnknownCoordChange, c1, c2)
}

// FrameChange returns the registered change-of-frame matrix from f1 to f2:
// the matrix turning vector components in f1 into components in f2. Treat
// the result as read-only.
func (d *Domain) FrameChange(f1, f2 *CoordFrame) (*sym.Matrix, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if mat, ok := d.frameChanges[framePair{from: f1, to: f2}]; ok {
		return mat, nil
	}

	return nil, fmt.Errorf("%w: from %s to %s", ErrUnknownFrameChange, f1, f2)
}

// registerChart adds c to the domain's atlas and frame list, marks it as
// covering when the domain is the chart's own, and seeds the default
// chart slot when empty.
func (d *Domain) registerChart(c *Chart) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.domain == d && !chartIn(d.covering, c) {
		d.covering = append(d.covering, c)
	}
	if !chartIn(d.atlas, c) {
		d.atlas = append(d.atlas, c)
	}
	if d.defChart == nil {
		d.defChart = c
	}
	if !frameIn(d.frames, c.frame) {
		d.frames = append(d.frames, c.frame)
	}
}

// registerCoordChange records cc under its chart pair; a later
// registration for the same pair replaces the earlier one.
func (d *Domain) registerCoordChange(cc *CoordChange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.coordChanges[chartPair{from: cc.from, to: cc.to}] = cc
}

// registerFrameChange records the matrix under its frame pair; a later
// registration replaces the earlier one.
func (d *Domain) registerFrameChange(f1, f2 *CoordFrame, mat *sym.Matrix) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frameChanges[framePair{from: f1, to: f2}] = mat
}

// seedFrameChange records the matrix under its frame pair unless the pair
// is already present. Derived matrices use this so they never clobber an
// explicitly registered direction.
func (d *Domain) seedFrameChange(f1, f2 *CoordFrame, mat *sym.Matrix) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := framePair{from: f1, to: f2}
	if _, ok := d.frameChanges[key]; !ok {
		d.frameChanges[key] = mat
	}
}

func chartIn(list []*Chart, c *Chart) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}

	return false
}

func frameIn(list []*CoordFrame, f *CoordFrame) bool {
	for _, x := range list {
		if x == f {
			return true
		}
	}

	return false
}

func mergeDomains(a, b []*Domain) []*Domain {
	seen := make(map[*Domain]struct{}, len(a)+len(b))
	out := make([]*Domain, 0, len(a)+len(b))
	for _, list := range [][]*Domain{a, b} {
		for _, d := range list {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}

	return out
}

func intersectDomains(a, b []*Domain) []*Domain {
	inB := make(map[*Domain]struct{}, len(b))
	for _, d := range b {
		inB[d] = struct{}{}
	}
	out := make([]*Domain, 0, len(a))
	for _, d := range a {
		if _, ok := inB[d]; ok {
			out = append(out, d)
		}
	}

	return out
}
