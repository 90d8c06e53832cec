package atlas_test

import (
	"fmt"

	"github.com/avelineau/manifold/atlas"
	"github.com/avelineau/manifold/sym"
)

func ExampleDomain_NewChart() {
	m := atlas.NewManifold("M", 2)
	c, err := m.NewChart("x y")
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(c)
	// Output: Chart (M, (x, y))
}

func ExampleChart_ValidCoordinates() {
	m := atlas.NewManifold("M", 3)
	sph, err := m.NewChart("r:(0,+oo) th:(0,pi) ph:(0,2*pi)")
	if err != nil {
		fmt.Println(err)

		return
	}
	inside, _ := sph.ValidCoordinates(sym.N(1), sym.N(3), sym.N(1))
	outside, _ := sph.ValidCoordinates(sym.N(1), sym.NFloat(3.5), sym.N(1))
	fmt.Println(inside, outside)
	// Output: true false
}

func ExampleCoordChange_Apply() {
	m := atlas.NewManifold("M", 2)
	cart, _ := m.NewChart("x y")
	pol, _ := m.NewChart("r:(0,+oo) ph:(0,2*pi)")

	r, ph := pol.Coordinate(0), pol.Coordinate(1)
	cc, err := atlas.NewCoordChange(pol, cart,
		sym.MulOf(r, sym.CosOf(ph)),
		sym.MulOf(r, sym.SinOf(ph)),
	)
	if err != nil {
		fmt.Println(err)

		return
	}
	out, err := cc.Apply(sym.N(2), sym.DivOf(sym.Pi, sym.N(2)))
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(out[0], out[1])
	// Output: 0 2
}

func ExamplePoint_Coord() {
	m := atlas.NewManifold("M", 2)
	cart, _ := m.NewChart("x y")
	uv, _ := m.NewChart("u v")
	x, y := cart.Coordinate(0), cart.Coordinate(1)
	if _, err := atlas.NewCoordChange(cart, uv, sym.AddOf(x, y), sym.SubOf(x, y)); err != nil {
		fmt.Println(err)

		return
	}

	p, err := m.Point([]sym.Expr{sym.N(1), sym.N(2)}, cart)
	if err != nil {
		fmt.Println(err)

		return
	}
	out, err := p.Coord(uv)
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(out[0], out[1])
	// Output: 3 -1
}
