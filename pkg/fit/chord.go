package fit

import "github.com/chazu/patternhub/pkg/geom"

// Ratio places a control point relative to the chord of a segment, in
// multiples of the chord length along the chord (Tangent) and along its
// left normal (Normal).
type Ratio struct {
	Tangent float64 `yaml:"tangent"`
	Normal  float64 `yaml:"normal"`
}

// Handle describes how one control point of a chord segment is derived.
// Precedence: Absolute, then Ratio, then the quadratic control fallback,
// then the endpoint itself. Offset is added afterwards in every case.
type Handle struct {
	Absolute *geom.Point
	Ratio    *Ratio
	Offset   geom.Point
}

// ChordSegment builds a cubic from start to end whose controls are placed
// by the two handle rules. control, when non-nil, is a quadratic control
// point whose degree-elevated controls serve as the fallback.
func ChordSegment(start, end geom.Point, control *geom.Point, h0, h1 Handle) Cubic {
	chord := end.Sub(start)
	length := chord.Len()
	tangent := geom.Pt(1, 0)
	if length > 0 {
		tangent = chord.Scale(1 / length)
	}
	normal := tangent.Perp()

	build := func(base geom.Point, fallback *geom.Point, h Handle) geom.Point {
		var p geom.Point
		switch {
		case h.Absolute != nil:
			p = *h.Absolute
		case h.Ratio != nil && length > 0:
			off := tangent.Scale(h.Ratio.Tangent).Add(normal.Scale(h.Ratio.Normal))
			p = base.Add(off.Scale(length))
		case fallback != nil:
			p = *fallback
		default:
			p = base
		}
		return p.Add(h.Offset)
	}

	var f0, f1 *geom.Point
	if control != nil {
		a := start.Lerp(*control, 2.0/3)
		b := end.Lerp(*control, 2.0/3)
		f0, f1 = &a, &b
	}
	return Cubic{
		P0: start,
		P1: build(start, f0, h0),
		P2: build(end, f1, h1),
		P3: end,
	}
}

// InwardSegment bulges the segment start→end by depth along the chord's
// left normal, using the displaced midpoint as a quadratic control. A zero
// depth uses 0.5; outward flips the side.
func InwardSegment(start, end geom.Point, depth float64, outward bool, h0, h1 Handle) (Cubic, bool) {
	d := end.Sub(start)
	if d.Len() == 0 {
		return Cubic{}, false
	}
	if depth == 0 {
		depth = 0.5
	}
	n := d.Normalize().Perp().Scale(depth)
	mid := start.Midpoint(end)
	ctrl := mid.Add(n)
	if outward {
		ctrl = mid.Sub(n)
	}
	return ChordSegment(start, end, &ctrl, h0, h1), true
}

// HandleCurve builds a cubic from explicit handle vectors at each end.
func HandleCurve(start, end, h0, h1 geom.Point) Cubic {
	return Cubic{P0: start, P1: start.Add(h0), P2: end.Add(h1), P3: end}
}
