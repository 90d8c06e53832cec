package atlas

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/avelineau/manifold/sym"
)

// Manifold is the arena owning every registry its atlas needs: the
// manifold-wide domain-name registry, the symbolic assumptions attached to
// chart coordinates, and the diagnostic logger. It embeds its root domain
// (the manifold seen as an open subset of itself), so every Domain
// operation is available on the manifold directly.
//
// All registries live on the arena or on its domains, never in package
// globals; two manifolds in one process do not observe each other.
type Manifold struct {
	*Domain

	dim    int
	logger *slog.Logger
	assume *sym.Assumptions

	// realLine suppresses engine assumptions for chart coordinates, so the
	// 1-dimensional bootstrap manifold does not constrain the symbols of
	// the arithmetic field it models.
	realLine bool

	// mu guards the name registry and the placeholder sequence.
	mu      sync.Mutex
	domains map[string]*Domain
	seq     int

	// latticeMu serializes construction of derived lattice objects
	// (intersections, unions, chart restrictions) so each memoized result
	// is built once even under concurrent first use.
	latticeMu sync.Mutex
}

// NewManifold creates a manifold of the given dimension together with its
// root domain. It panics when name is empty or dim < 1; both are
// programmer errors, not data.
func NewManifold(name string, dim int, opts ...Option) *Manifold {
	if name == "" {
		panic("atlas: empty manifold name")
	}
	if dim < 1 {
		panic(fmt.Sprintf("atlas: manifold dimension must be positive, got %d", dim))
	}

	m := &Manifold{
		dim:     dim,
		logger:  slog.Default(),
		assume:  sym.NewAssumptions(),
		domains: make(map[string]*Domain),
	}
	m.Domain = newDomain(m, name, true)
	m.domains[name] = m.Domain
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RealLine returns the 1-dimensional manifold named R whose chart
// coordinates are registered without engine assumptions.
func RealLine(opts ...Option) *Manifold {
	m := NewManifold("R", 1, opts...)
	m.realLine = true

	return m
}

// Dimension returns the manifold dimension.
func (m *Manifold) Dimension() int { return m.dim }

// Assumptions exposes the engine assumption registry of the manifold.
// Chart construction feeds coordinate bounds into it; callers may add
// further facts of their own.
func (m *Manifold) Assumptions() *sym.Assumptions { return m.assume }

// registerDomain claims a name in the manifold-wide registry.
func (m *Manifold) registerDomain(name string, d *Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.domains[name]; taken {
		return fmt.Errorf("%w: domain %q", ErrDuplicateName, name)
	}
	m.domains[name] = d

	return nil
}

// placeholderName mints a symbol name that no earlier mint produced, used
// for the solve placeholders of coordinate-change inversion.
func (m *Manifold) placeholderName(base string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++

	return fmt.Sprintf("%s_sol%d", base, m.seq)
}
