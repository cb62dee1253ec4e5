package fit

import (
	"math"

	"github.com/chazu/patternhub/pkg/geom"
)

// Through describes a curve-through-point problem. P0, P1 and P3 are
// fixed; P2 = P3 + L·Dir where the handle length L and the curve parameter
// t at which the curve meets Target are solved for jointly.
type Through struct {
	P0, P1, P3 geom.Point
	Dir        geom.Point
	Target     geom.Point

	Handle    float64 // initial handle length
	T         float64 // initial parameter; 0.5 when zero
	MaxIter   int     // 30 when zero
	Tol       float64 // per-axis position tolerance; 0.0005 when zero
	DetEps    float64 // singular Jacobian threshold; 1e-6 when zero
	MinT      float64 // 0.05 when zero
	MaxT      float64 // 0.95 when zero
	MinHandle float64 // 0.05 when zero
}

// Solution is the outcome of Solve. Converged is false when the iteration
// budget ran out or the Jacobian became singular; the curve is then the
// last estimate.
type Solution struct {
	Curve      Cubic
	T          float64
	Handle     float64
	Iterations int
	Converged  bool
	Residual   float64
}

func (p Through) defaults() Through {
	if p.T == 0 {
		p.T = 0.5
	}
	if p.MaxIter <= 0 {
		p.MaxIter = 30
	}
	if p.Tol <= 0 {
		p.Tol = 0.0005
	}
	if p.DetEps <= 0 {
		p.DetEps = 1e-6
	}
	if p.MinT <= 0 {
		p.MinT = 0.05
	}
	if p.MaxT <= 0 {
		p.MaxT = 0.95
	}
	if p.MinHandle <= 0 {
		p.MinHandle = 0.05
	}
	p.Dir = p.Dir.Normalize()
	return p
}

// Solve runs a bounded Newton iteration on (t, L). It never fails: the
// best estimate is returned whatever happens.
func Solve(p Through) Solution {
	p = p.defaults()
	t, l := p.T, p.Handle
	build := func(l float64) Cubic {
		return Cubic{P0: p.P0, P1: p.P1, P2: p.P3.Add(p.Dir.Scale(l)), P3: p.P3}
	}

	sol := Solution{}
	for sol.Iterations = 0; sol.Iterations < p.MaxIter; sol.Iterations++ {
		c := build(l)
		diff := c.Eval(t).Sub(p.Target)
		if math.Abs(diff.X) < p.Tol && math.Abs(diff.Y) < p.Tol {
			sol.Converged = true
			break
		}
		dBdt := c.Deriv(t)
		dBdL := p.Dir.Scale(3 * (1 - t) * t * t)
		det := dBdt.X*dBdL.Y - dBdt.Y*dBdL.X
		if math.Abs(det) < p.DetEps {
			break
		}
		dt := (-diff.X*dBdL.Y + dBdL.X*diff.Y) / det
		dl := (-dBdt.X*diff.Y + dBdt.Y*diff.X) / det
		t = geom.Clamp(t+dt, p.MinT, p.MaxT)
		l = math.Max(l+dl, p.MinHandle)
	}
	sol.Curve = build(l)
	sol.T = t
	sol.Handle = l
	sol.Residual = sol.Curve.Eval(t).Distance(p.Target)
	return sol
}
