// Package atlas_test provides benchmarks for the atlas hot paths.
package atlas_test

import (
	"testing"

	"github.com/avelineau/manifold/atlas"
	"github.com/avelineau/manifold/sym"
)

// BenchmarkRestrict_MemoHit measures a repeated chart restriction answered
// from the memo.
func BenchmarkRestrict_MemoHit(b *testing.B) {
	m := atlas.NewManifold("M", 2)
	c, err := m.NewChart("x y")
	if err != nil {
		b.Fatal(err)
	}
	u, err := m.OpenSubdomain("U")
	if err != nil {
		b.Fatal(err)
	}
	if _, err = c.Restrict(u); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Restrict(u)
	}
}

// BenchmarkIntersection_MemoHit measures a repeated lattice intersection
// answered from the memo.
func BenchmarkIntersection_MemoHit(b *testing.B) {
	m := atlas.NewManifold("M", 2)
	h1, err := m.OpenSubdomain("H1")
	if err != nil {
		b.Fatal(err)
	}
	h2, err := m.OpenSubdomain("H2")
	if err != nil {
		b.Fatal(err)
	}
	if _, err = h1.Intersection(h2); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h1.Intersection(h2)
	}
}

// BenchmarkValidCoordinates_Spherical measures numeric validation against
// three bounded coordinates, all checks passing.
func BenchmarkValidCoordinates_Spherical(b *testing.B) {
	m := atlas.NewManifold("R3", 3)
	sph, err := m.NewChart("r:(0,+oo) th:(0,pi) ph:(0,2*pi)")
	if err != nil {
		b.Fatal(err)
	}
	r, th, ph := sym.N(1), sym.N(2), sym.N(3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sph.ValidCoordinates(r, th, ph)
	}
}

// BenchmarkCoordChange_Apply measures a polar-to-cartesian transition
// applied to exact values, substitution plus simplification included.
func BenchmarkCoordChange_Apply(b *testing.B) {
	m := atlas.NewManifold("R2", 2)
	cart, err := m.NewChart("x y")
	if err != nil {
		b.Fatal(err)
	}
	pol, err := m.NewChart("r:(0,+oo) ph:(0,2*pi)")
	if err != nil {
		b.Fatal(err)
	}
	r, ph := pol.Coordinate(0), pol.Coordinate(1)
	cc, err := atlas.NewCoordChange(pol, cart,
		sym.MulOf(r, sym.CosOf(ph)),
		sym.MulOf(r, sym.SinOf(ph)),
	)
	if err != nil {
		b.Fatal(err)
	}
	rv, pv := sym.N(2), sym.DivOf(sym.Pi, sym.N(2))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cc.Apply(rv, pv)
	}
}
