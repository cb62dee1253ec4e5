package geom

import (
	"math"

	"honnef.co/go/curve"
)

// Tolerances used by the solvers.
const (
	ParallelEps     = 1e-6
	FineParallelEps = 1e-8
	CircleTolerance = 0.01
)

// LineIntersection returns the crossing point of the infinite lines p1p2
// and p3p4. Lines whose direction cross product is below eps are treated
// as parallel and report false.
func LineIntersection(p1, p2, p3, p4 Point, eps float64) (Point, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	if math.Abs(d1.Cross(d2)) < eps {
		return Point{}, false
	}
	l1 := curve.Line{P0: p1.c(), P1: p2.c()}
	l2 := curve.Line{P0: p3.c(), P1: p4.c()}
	cp, ok := l1.CrossingPoint(l2)
	if !ok {
		return Point{}, false
	}
	return fromCurve(cp), true
}

// CircleIntersections returns the 0, 1 or 2 intersection points of two
// circles. Distances within CircleTolerance outside the band
// |r1-r2| <= d <= r1+r2 are treated as tangent.
func CircleIntersections(c1 Point, r1 float64, c2 Point, r2 float64) []Point {
	d := c1.Distance(c2)
	if d == 0 || !isFinite(d) || !isFinite(r1) || !isFinite(r2) {
		return nil
	}
	if d > r1+r2+CircleTolerance || d < math.Abs(r1-r2)-CircleTolerance {
		return nil
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h := math.Sqrt(math.Max(0, r1*r1-a*a))
	u := c1.Dir(c2)
	base := c1.Add(u.Scale(a))
	if h < 1e-9 {
		return []Point{base}
	}
	off := u.Perp().Scale(h)
	return []Point{base.Add(off), base.Sub(off)}
}

// Nearest returns the candidate closest to target. It returns false for an
// empty candidate list.
func Nearest(candidates []Point, target Point) (Point, bool) {
	if len(candidates) == 0 {
		return Point{}, false
	}
	best := candidates[0]
	bestD := best.Distance(target)
	for _, c := range candidates[1:] {
		if d := c.Distance(target); d < bestD {
			best, bestD = c, d
		}
	}
	return best, true
}

// ProjectOntoSegment projects p onto segment ab, clamping the parameter to
// [0,1]. A degenerate segment projects to a.
func ProjectOntoSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a, 0
	}
	t := Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Scale(t)), t
}

// FootOnLine returns the perpendicular foot of p on the infinite line ab.
func FootOnLine(p, a, b Point) Point {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	return a.Add(ab.Scale(p.Sub(a).Dot(ab) / l2))
}

// Guide bounds the parameter of a chord solve and names the preferred
// parameter used to break ties between two in-range roots.
type Guide struct {
	Lo, Hi, Prefer float64
}

// QuadraticOnChord finds the point origin + t·dir lying at distance radius
// from center. Roots inside the guide range win, ties going to the root
// nearest guide.Prefer. When no root is in range the larger root is clamped
// into the range and ok is false. A negative discriminant is clamped to zero.
func QuadraticOnChord(origin, dir, center Point, radius float64, guide Guide) (p Point, t float64, ok bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return origin, Clamp(0, guide.Lo, guide.Hi), false
	}
	w := origin.Sub(center)
	b := 2 * w.Dot(dir)
	c := w.Dot(w) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)
	in1 := t1 >= guide.Lo && t1 <= guide.Hi
	in2 := t2 >= guide.Lo && t2 <= guide.Hi
	switch {
	case in1 && in2:
		t = t1
		if math.Abs(t2-guide.Prefer) < math.Abs(t1-guide.Prefer) {
			t = t2
		}
		ok = true
	case in1:
		t, ok = t1, true
	case in2:
		t, ok = t2, true
	default:
		t = Clamp(t1, guide.Lo, guide.Hi)
	}
	if !isFinite(t) {
		t, ok = guide.Lo, false
	}
	return origin.Add(dir.Scale(t)), t, ok
}

// IntersectVertical intersects segment ab with the vertical line x. The
// segment parameter may overshoot [0,1] by 1e-4.
func IntersectVertical(a, b Point, x float64) (Point, bool) {
	dx := b.X - a.X
	if !isFinite(x) || math.Abs(dx) < ParallelEps {
		return Point{}, false
	}
	t := (x - a.X) / dx
	if t < -0.0001 || t > 1.0001 {
		return Point{}, false
	}
	return Point{x, a.Y + t*(b.Y-a.Y)}, true
}

// IntersectHorizontal intersects the infinite line ab with the horizontal
// line y.
func IntersectHorizontal(a, b Point, y float64) (Point, bool) {
	dy := b.Y - a.Y
	if !isFinite(y) || math.Abs(dy) < ParallelEps {
		return Point{}, false
	}
	t := (y - a.Y) / dy
	return Point{a.X + t*(b.X-a.X), y}, true
}

// VerticalDrop returns the point on the vertical line x at distance radius
// from p, below p (larger y) when down is set and above it otherwise. ok is
// false when |x - p.X| exceeds radius; the vertical offset is then zero.
func VerticalDrop(p Point, x, radius float64, down bool) (Point, bool) {
	dx := x - p.X
	sq := radius*radius - dx*dx
	ok := sq >= 0
	dy := math.Sqrt(math.Max(0, sq))
	if !down {
		dy = -dy
	}
	return Point{x, p.Y + dy}, ok
}
