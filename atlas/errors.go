package atlas

import "errors"

// Sentinel errors returned by the atlas types. Callers match them with
// errors.Is; messages at the call sites add the offending names via %w
// wrapping.
var (
	// ErrDimensionMismatch indicates a chart specification whose coordinate
	// count differs from the manifold dimension.
	ErrDimensionMismatch = errors.New("atlas: coordinate count differs from manifold dimension")

	// ErrTransformArity indicates a coordinate tuple or transform list whose
	// length differs from the expected coordinate count.
	ErrTransformArity = errors.New("atlas: wrong number of coordinate expressions")

	// ErrManifoldMismatch indicates a lattice or point operation across two
	// distinct manifolds.
	ErrManifoldMismatch = errors.New("atlas: domains belong to different manifolds")

	// ErrDuplicateName indicates a domain name or chart-spec symbol that is
	// already taken.
	ErrDuplicateName = errors.New("atlas: name already in use")

	// ErrNotOpen indicates a chart requested on a domain that is not open.
	ErrNotOpen = errors.New("atlas: domain is not open")

	// ErrNotSubdomain indicates a chart restriction onto a domain that is
	// not a subdomain of the chart's own domain, or a point resolved
	// against a chart whose domain does not contain it.
	ErrNotSubdomain = errors.New("atlas: not a subdomain of the chart's domain")

	// ErrChartSpec indicates a malformed chart specification string.
	ErrChartSpec = errors.New("atlas: malformed chart specification")

	// ErrInvalidCoordinates indicates a coordinate tuple rejected by the
	// chart's bounds or restrictions.
	ErrInvalidCoordinates = errors.New("atlas: coordinates are not valid on the chart")

	// ErrUnknownCoordChange indicates that no coordinate change is registered
	// between the two charts.
	ErrUnknownCoordChange = errors.New("atlas: no coordinate change registered between the charts")

	// ErrUnknownFrameChange indicates that no frame change is registered
	// between the two frames.
	ErrUnknownFrameChange = errors.New("atlas: no frame change registered between the frames")

	// ErrChartNotInAtlas indicates an operation referencing a chart outside
	// the relevant atlas.
	ErrChartNotInAtlas = errors.New("atlas: chart is not in the atlas")

	// ErrNoInverse indicates that the automatic inversion of a coordinate
	// change failed; the caller can supply the inverse with SetInverse.
	ErrNoInverse = errors.New("atlas: coordinate change could not be inverted")

	// ErrCoordResolution indicates that a point has no registered way to
	// produce coordinates in the requested chart.
	ErrCoordResolution = errors.New("atlas: cannot resolve point coordinates in the requested chart")

	// ErrNoCommonChart indicates a point comparison with no chart shared by
	// both points, which leaves equality undecidable.
	ErrNoCommonChart = errors.New("atlas: points share no chart")

	// ErrNotSquare indicates a Jacobian determinant requested for a map whose
	// source and target dimensions differ.
	ErrNotSquare = errors.New("atlas: transformation is not square")
)
