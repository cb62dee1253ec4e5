// Package geom is the 2-D construction kernel shared by every drafting
// method: point and vector arithmetic, line and circle intersections,
// constrained placements and running bounds.
//
// Solvers never fail loudly. A negative discriminant is clamped to zero,
// a zero-length direction falls back to (1,0), and callers are told via a
// boolean when a fallback was taken so they can record a warning.
package geom

import (
	"fmt"
	"math"

	"honnef.co/go/curve"
)

// Point is a 2-D point or vector in a method's own unit (inch or cm).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}

func (p Point) c() curve.Point { return curve.Pt(p.X, p.Y) }

func fromCurve(cp curve.Point) Point { return Point{X: cp.X, Y: cp.Y} }

// Curve converts p to the curve library's point type.
func (p Point) Curve() curve.Point { return p.c() }

// Add returns p + o.
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }

// Sub returns p - o.
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// Scale returns p * f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Move returns p offset by (dx, dy).
func (p Point) Move(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Dot returns the dot product of p and o.
func (p Point) Dot(o Point) float64 { return p.X*o.X + p.Y*o.Y }

// Cross returns the z component of the cross product p × o.
func (p Point) Cross(o Point) float64 { return p.X*o.Y - p.Y*o.X }

// Len returns the length of p treated as a vector.
func (p Point) Len() float64 { return curve.Vec(p.X, p.Y).Hypot() }

// Distance returns |p - o|.
func (p Point) Distance(o Point) float64 { return p.c().Distance(o.c()) }

// Midpoint returns the point halfway between p and o.
func (p Point) Midpoint(o Point) Point { return fromCurve(p.c().Midpoint(o.c())) }

// Lerp interpolates from p (t=0) to o (t=1).
func (p Point) Lerp(o Point, t float64) Point { return fromCurve(p.c().Lerp(o.c(), t)) }

// Perp returns p rotated by +90°.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Normalize returns the unit vector of p. Vectors shorter than 1e-6
// normalize to the zero vector.
func (p Point) Normalize() Point {
	l := p.Len()
	if l < 1e-6 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Dir returns the unit direction from p to o, or (1,0) when the points
// coincide.
func (p Point) Dir(o Point) Point {
	d := o.Sub(p)
	l := d.Len()
	if l == 0 || !isFinite(l) {
		return Point{1, 0}
	}
	return d.Scale(1 / l)
}

// Rotate rotates p about the origin by angle radians.
func (p Point) Rotate(angle float64) Point {
	s, c := math.Sincos(angle)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Angle returns the direction of p in radians.
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// FromAngle returns the unit vector at angle radians.
func FromAngle(angle float64) Point {
	v := curve.VecFromAngle(angle)
	return Point{v.X, v.Y}
}

// IsFinite reports whether both coordinates are finite.
func (p Point) IsFinite() bool { return isFinite(p.X) && isFinite(p.Y) }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Toward returns the point dist along the direction from p to o.
func (p Point) Toward(o Point, dist float64) Point {
	return p.Add(p.Dir(o).Scale(dist))
}

// Extend returns target pushed extra further along the ray origin→target.
// Coincident points return target unchanged.
func Extend(origin, target Point, extra float64) Point {
	v := target.Sub(origin)
	l := v.Len()
	if l == 0 {
		return target
	}
	return origin.Add(v.Scale((l + extra) / l))
}

// Resize returns the point on the ray origin→target at distance length
// from origin. Coincident points return target unchanged.
func Resize(origin, target Point, length float64) Point {
	v := target.Sub(origin)
	l := v.Len()
	if l == 0 {
		return target
	}
	return origin.Add(v.Scale(length / l))
}

// Between reports whether v lies between a and b, widened by tol.
func Between(v, a, b, tol float64) bool {
	return v >= math.Min(a, b)-tol && v <= math.Max(a, b)+tol
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Finite returns v, or def when v is NaN or infinite.
func Finite(v, def float64) float64 {
	if isFinite(v) {
		return v
	}
	return def
}

// FirstFinite returns the first finite value, or 0.
func FirstFinite(vals ...float64) float64 {
	for _, v := range vals {
		if isFinite(v) {
			return v
		}
	}
	return 0
}

// ClampHandle scales handle h down so it is no longer than ratio times the
// chord. A non-positive chord collapses the handle to zero.
func ClampHandle(h Point, chord, ratio float64) Point {
	if !isFinite(chord) || chord <= 0 {
		return Point{}
	}
	l := h.Len()
	if !isFinite(l) || l < 0.0001 {
		return h
	}
	maxLen := chord * ratio
	if maxLen >= l {
		return h
	}
	return h.Scale(maxLen / l)
}
