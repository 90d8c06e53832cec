package sym

import (
	"fmt"
	"strings"
)

// Matrix is a dense matrix of symbolic expressions.
type Matrix struct {
	rows, cols int
	data       [][]Expr
}

// NewMatrix returns a rows×cols matrix filled with zeros.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic("sym: matrix dimensions must be positive")
	}
	data := make([][]Expr, rows)
	for i := range data {
		data[i] = make([]Expr, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}

	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromRows builds a matrix from row slices of equal length.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("building matrix from empty rows: %w", ErrShape)
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(r), cols, ErrShape)
		}
		for j, e := range r {
			m.data[i][j] = e.Simplify()
		}
	}

	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = N(1)
	}

	return m
}

// Jacobian returns the matrix of partial derivatives d exprs[i] / d vars[j].
func Jacobian(exprs []Expr, vars []string) *Matrix {
	m := NewMatrix(len(exprs), len(vars))
	for i, e := range exprs {
		for j, v := range vars {
			m.data[i][j] = Diff(e, v)
		}
	}

	return m
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) Expr {
	m.checkBounds(i, j)

	return m.data[i][j]
}

// Set stores the entry at row i, column j.
func (m *Matrix) Set(i, j int, v Expr) {
	m.checkBounds(i, j)
	m.data[i][j] = v.Simplify()
}

func (m *Matrix) checkBounds(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sym: matrix index (%d,%d) out of range %dx%d", i, j, m.rows, m.cols))
	}
}

// Transpose returns the transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j][i] = m.data[i][j]
		}
	}

	return t
}

// Scale multiplies every entry by the scalar.
func (m *Matrix) Scale(s Expr) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[i][j] = MulOf(s, m.data[i][j])
		}
	}

	return out
}

// Mul returns the matrix product m·other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, fmt.Errorf("multiplying %dx%d by %dx%d: %w",
			m.rows, m.cols, other.rows, other.cols, ErrShape)
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i][k], other.data[k][j])
			}
			out.data[i][j] = AddOf(terms...)
		}
	}

	return out, nil
}

// Map applies f to every entry and returns the resulting matrix.
func (m *Matrix) Map(f func(Expr) Expr) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[i][j] = f(m.data[i][j]).Simplify()
		}
	}

	return out
}

// ApplySubMap substitutes symbols in every entry.
func (m *Matrix) ApplySubMap(sub map[string]Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return SubMap(e, sub) })
}

// Det returns the determinant by Laplace cofactor expansion along the
// first row. Intended for the small matrices of coordinate geometry.
func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("determinant of %dx%d matrix: %w", m.rows, m.cols, ErrShape)
	}

	return matDet(m.data, m.rows), nil
}

func matDet(data [][]Expr, n int) Expr {
	if n == 1 {
		return data[0][0].Simplify()
	}
	if n == 2 {
		return SubOf(
			MulOf(data[0][0], data[1][1]),
			MulOf(data[0][1], data[1][0]),
		)
	}
	terms := make([]Expr, n)
	for j := 0; j < n; j++ {
		minor := makeMinor(data, n, 0, j)
		cof := MulOf(data[0][j], matDet(minor, n-1))
		if j%2 == 1 {
			cof = NegOf(cof)
		}
		terms[j] = cof
	}

	return AddOf(terms...)
}

func makeMinor(data [][]Expr, n, skipRow, skipCol int) [][]Expr {
	minor := make([][]Expr, 0, n-1)
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		row := make([]Expr, 0, n-1)
		for j := 0; j < n; j++ {
			if j == skipCol {
				continue
			}
			row = append(row, data[i][j])
		}
		minor = append(minor, row)
	}

	return minor
}

// Inverse returns the adjugate-over-determinant inverse. A determinant
// that evaluates to exactly zero reports ErrNonInvertible; symbolically
// undecidable determinants are inverted formally.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("inverting %dx%d matrix: %w", m.rows, m.cols, ErrShape)
	}
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	if dn, ok := SimplifyChain(det).Eval(); ok && dn.IsZero() {
		return nil, ErrNonInvertible
	}
	n := m.rows
	cof := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			minor := makeMinor(m.data, n, i, j)
			entry := matDet(minor, n-1)
			if (i+j)%2 == 1 {
				entry = NegOf(entry)
			}
			cof.data[i][j] = entry
		}
	}

	return cof.Transpose().Scale(PowOf(det, N(-1))).Map(SimplifyChain), nil
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		parts := make([]string, m.cols)
		for j := 0; j < m.cols; j++ {
			parts[j] = m.data[i][j].String()
		}
		b.WriteString("[" + strings.Join(parts, ", ") + "]")
		if i+1 < m.rows {
			b.WriteString("\n")
		}
	}

	return b.String()
}
