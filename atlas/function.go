package atlas

import (
	"fmt"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// CoordFunction is a symbolic function of one chart's coordinates. It is
// the scalar building block of coordinate changes and is handed to the
// tensor layer as the component type of fields expressed in a chart.
//
// Derivatives with respect to each coordinate are computed once and cached.
type CoordFunction struct {
	chart *Chart
	expr  sym.Expr

	mu     sync.Mutex
	derivs []*CoordFunction
}

// Function wraps an expression as a function of the chart's coordinates.
func (c *Chart) Function(e sym.Expr) *CoordFunction {
	return &CoordFunction{chart: c, expr: e}
}

// ZeroFunction returns the chart's cached null function.
func (c *Chart) ZeroFunction() *CoordFunction {
	c.zeroOnce.Do(func() { c.zero = c.Function(sym.N(0)) })

	return c.zero
}

// Chart returns the chart whose coordinates the function is written in.
func (f *CoordFunction) Chart() *Chart { return f.chart }

// Expr returns the underlying expression.
func (f *CoordFunction) Expr() sym.Expr { return f.expr }

func (f *CoordFunction) String() string { return f.expr.String() }

// Diff returns the partial derivative with respect to the i-th coordinate.
// It panics when i is out of range.
func (f *CoordFunction) Diff(i int) *CoordFunction {
	names := f.chart.coordNames()
	if i < 0 || i >= len(names) {
		panic(fmt.Sprintf("atlas: coordinate index %d out of range [0,%d)", i, len(names)))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.derivs == nil {
		f.derivs = make([]*CoordFunction, len(names))
	}
	if f.derivs[i] == nil {
		d := sym.SimplifyChainWith(f.chart.assumptions(), sym.Diff(f.expr, names[i]))
		f.derivs[i] = f.chart.Function(d)
	}

	return f.derivs[i]
}

// IsZero reports whether the function simplifies to zero.
func (f *CoordFunction) IsZero() bool {
	return sym.IsZero(sym.SimplifyChainWith(f.chart.assumptions(), f.expr))
}

// Add returns f + other. Both operands must live on the same chart.
func (f *CoordFunction) Add(other *CoordFunction) *CoordFunction {
	f.requireSameChart(other)

	return f.chart.Function(sym.AddOf(f.expr, other.expr))
}

// Mul returns f * other. Both operands must live on the same chart.
func (f *CoordFunction) Mul(other *CoordFunction) *CoordFunction {
	f.requireSameChart(other)

	return f.chart.Function(sym.MulOf(f.expr, other.expr))
}

// Neg returns -f.
func (f *CoordFunction) Neg() *CoordFunction {
	return f.chart.Function(sym.NegOf(f.expr))
}

// ScalarMul returns k * f for a coefficient expression k.
func (f *CoordFunction) ScalarMul(k sym.Expr) *CoordFunction {
	return f.chart.Function(sym.MulOf(k, f.expr))
}

func (f *CoordFunction) requireSameChart(other *CoordFunction) {
	if f.chart != other.chart {
		panic("atlas: coordinate functions on different charts")
	}
}

// MultiCoordFunction is a tuple of expressions in one chart's coordinates,
// with a lazily computed Jacobian. Coordinate changes hold their transform
// as one of these.
type MultiCoordFunction struct {
	chart *Chart
	exprs []sym.Expr

	mu  sync.Mutex
	jac *sym.Matrix
	det sym.Expr
}

// MultiFunction wraps a tuple of expressions as functions of the chart's
// coordinates. The component count is free; it is not tied to the manifold
// dimension.
func (c *Chart) MultiFunction(exprs ...sym.Expr) *MultiCoordFunction {
	return &MultiCoordFunction{chart: c, exprs: append([]sym.Expr(nil), exprs...)}
}

// Chart returns the chart whose coordinates the components are written in.
func (mf *MultiCoordFunction) Chart() *Chart { return mf.chart }

// Len returns the number of component functions.
func (mf *MultiCoordFunction) Len() int { return len(mf.exprs) }

// Exprs returns a copy of the component expressions.
func (mf *MultiCoordFunction) Exprs() []sym.Expr {
	return append([]sym.Expr(nil), mf.exprs...)
}

// Expr returns the i-th component. It panics when i is out of range.
func (mf *MultiCoordFunction) Expr(i int) sym.Expr {
	if i < 0 || i >= len(mf.exprs) {
		panic(fmt.Sprintf("atlas: component index %d out of range [0,%d)", i, len(mf.exprs)))
	}

	return mf.exprs[i]
}

func (mf *MultiCoordFunction) String() string { return tupleString(mf.exprs) }

// Apply substitutes the given values for the chart's coordinates in every
// component and simplifies the results.
func (mf *MultiCoordFunction) Apply(values ...sym.Expr) ([]sym.Expr, error) {
	names := mf.chart.coordNames()
	if len(values) != len(names) {
		return nil, fmt.Errorf("%w: got %d values for %d coordinates",
			ErrTransformArity, len(values), len(names))
	}
	subs := make(map[string]sym.Expr, len(names))
	for i, n := range names {
		subs[n] = values[i]
	}

	a := mf.chart.assumptions()
	out := make([]sym.Expr, len(mf.exprs))
	for i, e := range mf.exprs {
		out[i] = sym.SimplifyChainWith(a, sym.SubMap(e, subs))
	}

	return out, nil
}

// Jacobian returns the matrix of partial derivatives of every component
// with respect to every chart coordinate. The result is computed once and
// shared; treat it as read-only.
func (mf *MultiCoordFunction) Jacobian() *sym.Matrix {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	if mf.jac == nil {
		a := mf.chart.assumptions()
		raw := sym.Jacobian(mf.exprs, mf.chart.coordNames())
		mf.jac = raw.Map(func(e sym.Expr) sym.Expr { return sym.SimplifyChainWith(a, e) })
	}

	return mf.jac
}

// JacobianDet returns the Jacobian determinant. It fails with ErrNotSquare
// when the component count differs from the coordinate count.
func (mf *MultiCoordFunction) JacobianDet() (sym.Expr, error) {
	if len(mf.exprs) != len(mf.chart.coordNames()) {
		return nil, fmt.Errorf("%w: %d components over %d coordinates",
			ErrNotSquare, len(mf.exprs), len(mf.chart.coordNames()))
	}
	jac := mf.Jacobian()

	mf.mu.Lock()
	defer mf.mu.Unlock()
	if mf.det == nil {
		det, err := jac.Det()
		if err != nil {
			return nil, err
		}
		mf.det = sym.SimplifyChainWith(mf.chart.assumptions(), det)
	}

	return mf.det, nil
}
