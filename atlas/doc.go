// Package atlas maintains the atlas of coordinate charts on a manifold:
// the domain-containment lattice, the charts with their coordinate ranges
// and restrictions, the coordinate changes linking charts across overlaps,
// and multi-chart points whose coordinates materialize on demand.
//
// Core objects:
//
//	– Manifold: the arena owning every registry the atlas needs (domain
//	  names, coordinate assumptions, diagnostic logger); embeds its root
//	  Domain, so domain operations apply to the manifold directly.
//	– Domain: a named subset, open or not; tracks superdomains and
//	  subdomains (each set including the domain itself), the charts known
//	  on it, registered coordinate and frame changes, and the memoized
//	  results of Intersection and Union.
//	– Chart: a coordinate system on an open domain; one symbol per
//	  manifold dimension, each with a range honouring open and closed
//	  endpoints, plus extra restrictions; restricts to subdomains.
//	– CoordChange: a transition map between two charts with its Jacobian;
//	  inverts automatically through the engine's solver, or manually via
//	  SetInverse with a logged round-trip check.
//	– Point: a chart-to-tuple map; missing representations are computed
//	  through registered coordinate changes and cached.
//
// Chart specification grammar:
//
//	spec      = token {" " token}
//	token     = symbol [":" field] [":" field]
//	field     = range | display
//	range     = ("(" | "[") bound "," bound (")" | "]")
//	bound     = expression | infinity
//	infinity  = "-oo" | "+oo" | "inf" | "Infinity" | ...
//
// For example "r:(0,+oo) th:(0,2*pi):theta" declares a positive radial
// coordinate and an angular coordinate displayed as theta. Bounds are fed
// to the symbolic engine as interval assumptions, so range checks and
// solution filtering can decide signs exactly.
//
// Concurrency:
//
//	– Every exported type is safe for concurrent use; each domain, chart
//	  and point guards its mutable maps with a mutex.
//	– Intersection, Union, Restrict and Inverse are memoized and compute
//	  their result once even under concurrent first use.
//
// Complexity:
//
//	– Lattice queries (IsSubdomainOf, memo hits): O(1).
//	– Intersection/Union construction: O(|superdomains| + |subdomains|).
//	– Point.Coord: O(known charts × subcharts) lookups on a cache miss,
//	  never a multi-hop graph search; one coordinate change at most.
//	– CoordChange.Inverse: one engine solve over the transform equations.
//
// Errors (sentinel):
//
//	– ErrDimensionMismatch   if a coordinate count differs from the dimension.
//	– ErrTransformArity      if an expression or value count is wrong.
//	– ErrManifoldMismatch    if operands belong to different manifolds.
//	– ErrDuplicateName       if a domain name is already registered.
//	– ErrNotOpen             if a chart is requested on a non-open domain.
//	– ErrNotSubdomain        if a restriction target is not a subdomain.
//	– ErrChartSpec           if a chart specification fails to parse.
//	– ErrInvalidCoordinates  if a tuple falls outside the chart's region.
//	– ErrUnknownCoordChange  if no coordinate change links two charts.
//	– ErrUnknownFrameChange  if no frame change links two frames.
//	– ErrChartNotInAtlas     if a chart is foreign to the domain.
//	– ErrNoInverse           if inversion fails; SetInverse is the way out.
//	– ErrCoordResolution     if a point cannot reach the requested chart.
//	– ErrNoCommonChart       if two points share no chart to compare in.
//	– ErrNotSquare           if a determinant needs a square Jacobian.
package atlas
