// Package fit builds the cubic bezier curves used by the drafting methods:
// circular arcs fitted to a target length, chord-relative control handles,
// and curves forced through a guide point by a bounded Newton solve.
package fit

import (
	"honnef.co/go/curve"

	"github.com/chazu/patternhub/pkg/geom"
)

// arclenAccuracy is the accuracy passed to the curve library when
// measuring a cubic.
const arclenAccuracy = 1e-7

// Cubic is a cubic bezier segment.
type Cubic struct {
	P0 geom.Point `json:"p0" yaml:"p0"`
	P1 geom.Point `json:"p1" yaml:"p1"`
	P2 geom.Point `json:"p2" yaml:"p2"`
	P3 geom.Point `json:"p3" yaml:"p3"`
}

func (c Cubic) bez() curve.CubicBez {
	return curve.CubicBez{P0: c.P0.Curve(), P1: c.P1.Curve(), P2: c.P2.Curve(), P3: c.P3.Curve()}
}

// Eval returns the point at parameter t.
func (c Cubic) Eval(t float64) geom.Point {
	p := c.bez().Eval(t)
	return geom.Pt(p.X, p.Y)
}

// Deriv returns the first derivative at parameter t.
func (c Cubic) Deriv(t float64) geom.Point {
	mt := 1 - t
	a := c.P1.Sub(c.P0).Scale(3 * mt * mt)
	b := c.P2.Sub(c.P1).Scale(6 * mt * t)
	d := c.P3.Sub(c.P2).Scale(3 * t * t)
	return a.Add(b).Add(d)
}

// Arclen returns the arc length of the segment.
func (c Cubic) Arclen() float64 {
	return c.bez().Arclen(arclenAccuracy)
}

// Points returns the four control points in order.
func (c Cubic) Points() [4]geom.Point {
	return [4]geom.Point{c.P0, c.P1, c.P2, c.P3}
}

// IsFinite reports whether every control point is finite.
func (c Cubic) IsFinite() bool {
	return c.P0.IsFinite() && c.P1.IsFinite() && c.P2.IsFinite() && c.P3.IsFinite()
}

// Line returns the degenerate cubic for the straight segment a→b.
func Line(a, b geom.Point) Cubic {
	return Cubic{P0: a, P1: a.Lerp(b, 1.0/3), P2: a.Lerp(b, 2.0/3), P3: b}
}

// Flatten samples the segment into n+1 points, endpoints included.
func (c Cubic) Flatten(n int) []geom.Point {
	if n < 1 {
		n = 1
	}
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.Eval(float64(i)/float64(n)))
	}
	return pts
}

// ParamAtLength returns the parameter at which the arc length from P0
// reaches s. Lengths beyond the ends clamp to 0 and 1.
func (c Cubic) ParamAtLength(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= c.Arclen() {
		return 1
	}
	return curve.SolveForArclen(c.bez(), s, arclenAccuracy)
}

// CrossY returns the first point, by parameter, where the segment crosses
// the horizontal line y.
func (c Cubic) CrossY(y float64) (geom.Point, bool) {
	bb := c.bez().BoundingBox()
	if y < bb.Y0 || y > bb.Y1 {
		return geom.Point{}, false
	}
	probe := curve.Line{P0: curve.Pt(bb.X0-1, y), P1: curve.Pt(bb.X1+1, y)}
	hits, n := c.bez().IntersectLine(probe)
	if n == 0 {
		return geom.Point{}, false
	}
	t := hits[0].SegmentT
	for _, h := range hits[1:n] {
		t = min(t, h.SegmentT)
	}
	return c.Eval(t), true
}
