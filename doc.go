// Package manifold is your in-memory playground for differential
// geometry on smooth manifolds — coordinate charts, transition maps and
// points that travel between coordinate systems.
//
// 🚀 What is manifold?
//
//	A thread-safe symbolic toolkit that brings together:
//		• Domains: manifolds and open subsets with a memoized
//		  intersection/union lattice
//		• Charts: bounded coordinate systems parsed from compact
//		  declarations like "r:(0,+oo) ph:(0,2*pi)"
//		• Transitions: coordinate changes with symbolic Jacobians,
//		  automatic polynomial inversion and verified hand-made inverses
//		• Points: one point, many coordinate tuples, resolved lazily
//		  through whatever changes of coordinates the atlas knows
//		• Symbols: an exact expression kernel (sym/) with rational
//		  arithmetic, trigonometric simplification and sign analysis
//
// ✨ Why choose manifold?
//
//   - Exact by default – rationals and symbols, floats only on demand
//   - Rock-solid guarantees – R/W locks, memoized lattice, cached inverses
//   - Pure Go – no cgo, no external computer-algebra system
//   - Honest answers – three-valued decisions; the undecidable never
//     passes for true
//
// Under the hood, everything is organized under two subpackages:
//
//	sym/   — expressions, relations, assumptions, solving, matrices
//	atlas/ — manifolds, domains, charts, coordinate changes, points
//
// Quick ASCII example:
//
//	    ┌───────── M ─────────┐
//	    │   U ╔═══╗           │
//	    │     ║ W ║  V        │
//	    │     ╚═══╝           │
//	    └─────────────────────┘
//
//	two charted subsets U and V overlap in W, where a transition map
//	translates coordinates between them.
//
// Next up: vector frames beyond coordinate ones, scalar-field algebra and
// tensor calculus on parallelizable manifolds. Dive into the examples/
// directory for worked scenarios on the plane and the 2-sphere.
//
//	go get github.com/avelineau/manifold
package manifold
