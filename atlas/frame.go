package atlas

import "strings"

// CoordFrame is the vector-space basis a chart induces on its domain. The
// atlas layer treats it as an opaque handle: frame component algebra lives
// with the tensor layer, while registration of frames and of the
// Jacobian-derived changes between them happens here, alongside the
// coordinate changes that produce those Jacobians.
type CoordFrame struct {
	chart *Chart
}

// Frame returns the coordinate frame induced by the chart.
func (c *Chart) Frame() *CoordFrame { return c.frame }

// Chart returns the chart that induces the frame.
func (f *CoordFrame) Chart() *Chart { return f.chart }

// Domain returns the domain the frame lives on.
func (f *CoordFrame) Domain() *Domain { return f.chart.domain }

func (f *CoordFrame) String() string {
	names := f.chart.coordNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "d/d" + n
	}

	return "coordinate frame (" + f.chart.domain.name + ", (" + strings.Join(parts, ", ") + "))"
}
