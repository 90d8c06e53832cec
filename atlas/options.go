package atlas

import "log/slog"

// Option configures a Manifold at construction time.
type Option func(*Manifold)

// WithLogger installs the logger used for diagnostic output, most notably
// the SetInverse self-check report. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manifold) {
		if l != nil {
			m.logger = l
		}
	}
}

// latticeConfig collects the options of Intersection and Union.
type latticeConfig struct {
	name string
}

// LatticeOption configures a derived domain built by Intersection or Union.
type LatticeOption func(*latticeConfig)

// WithName overrides the generated name of the derived domain
// ("A_inter_B", "A_union_B").
func WithName(name string) LatticeOption {
	return func(c *latticeConfig) { c.name = name }
}

// transitionConfig collects the options of Chart.TransitionMap.
type transitionConfig struct {
	intersectionName string
	srcRestrictions  []Restriction
	dstRestrictions  []Restriction
}

// TransitionOption configures how TransitionMap builds the overlap domain
// and the restricted charts on it.
type TransitionOption func(*transitionConfig)

// WithIntersectionName names the overlap domain created for the transition.
func WithIntersectionName(name string) TransitionOption {
	return func(c *transitionConfig) { c.intersectionName = name }
}

// WithSourceRestrictions adds restrictions to the source chart's
// restriction to the overlap domain.
func WithSourceRestrictions(rs ...Restriction) TransitionOption {
	return func(c *transitionConfig) { c.srcRestrictions = append(c.srcRestrictions, rs...) }
}

// WithTargetRestrictions adds restrictions to the target chart's
// restriction to the overlap domain.
func WithTargetRestrictions(rs ...Restriction) TransitionOption {
	return func(c *transitionConfig) { c.dstRestrictions = append(c.dstRestrictions, rs...) }
}

// pointConfig collects the options of point construction and of the
// coordinate setters.
type pointConfig struct {
	name  string
	check bool
}

// PointOption configures Domain.Point, Point.SetCoord and Point.AddCoord.
type PointOption func(*pointConfig)

// WithPointName attaches a display name to the point.
func WithPointName(name string) PointOption {
	return func(c *pointConfig) { c.name = name }
}

// WithoutCoordCheck skips the range check on the supplied coordinate
// tuple. Needed when the tuple holds free symbols the engine cannot place
// inside the chart's bounds.
func WithoutCoordCheck() PointOption {
	return func(c *pointConfig) { c.check = false }
}

// inverseConfig collects the options of CoordChange.SetInverse.
type inverseConfig struct {
	check bool
}

// InverseOption configures CoordChange.SetInverse.
type InverseOption func(*inverseConfig)

// WithoutCheck disables the round-trip self-check that SetInverse logs by
// default.
func WithoutCheck() InverseOption {
	return func(c *inverseConfig) { c.check = false }
}
