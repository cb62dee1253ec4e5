// Package sleeve drafts the wide basic sleeve in centimetres with +y up.
//
// The cap line runs from 1 to 2. A construction arc around 1 locates the
// cap height 4 where the front and back armhole circles meet; the sleeve
// hangs below it and the cap is shaped from four markers on the cap and
// 4 levels.
package sleeve

import (
	"math"
	"strconv"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
)

// Key identifies the method.
const Key = "wideSleeve"

// Layer ids.
const (
	LayerFrame   = "sleeve-basic-frame"
	LayerCap     = "sleeve-cap-shaping"
	LayerBlock   = "sleeve-block"
	LayerLabels  = "sleeve-numbers-markers-and-labels"
	LayerMarkers = "sleeve-markers"
	LayerText    = "sleeve-labels"
)

const (
	arcTarget     = 20.0
	arcMinAngle   = -math.Pi / 2
	arcMaxAngle   = math.Pi / 2
	ratioUp       = 3.0
	ratioDown     = 2.0
	elbowFraction = 0.6
	seamHandle    = 12.47
	hemLift       = 5.0
	notchHalf     = 0.25
	labelOffset   = 0.5
	backNotchStep = 1.0
)

var (
	arcLimits = fit.Limits{MinSweep: 0.01, MaxSweep: math.Pi}
	arcWindow = fit.Window{Min: arcMinAngle, Max: arcMaxAngle}

	solid  = draft.Structural
	dashed = draft.Stroke{Style: draft.Dashed, Color: draft.ColorInk, Width: draft.LineWidth, Dash: "8.8 4.2"}

	markerStyle = draft.MarkerStyle{Radius: 2.5, Fill: draft.ColorMarker, Text: draft.ColorWhite, FontSize: 3}
)

// Method drafts the wide basic sleeve.
type Method struct{}

var _ draft.Method = Method{}

func (Method) Key() string   { return Key }
func (Method) Title() string { return "Wide Basic Sleeve" }
func (Method) Unit() string  { return "cm" }

func (Method) NewInput() draft.Input {
	in := Defaults()
	return &in
}

// Draft implements draft.Method.
func (m Method) Draft(di draft.Input) (*draft.Drawing, error) {
	in, err := draft.Cast[*Input](m, di)
	if err != nil {
		return nil, err
	}
	p := *in
	replaced := p.Normalize()
	d := p.Resolve()

	b := draft.NewBuilder(Key, "cm", draft.Frame{
		Origin: geom.Pt(draft.PageMargin, draft.PageMargin+d.R3*draft.MMPerCM),
		Scale:  draft.MMPerCM,
		FlipY:  true,
	}, p.Visibility)
	b.SetMarkerStyle(markerStyle)
	draft.Normalized(b, replaced)

	b.AddLayer(draft.Layer{ID: LayerFrame, Name: "Basic Frame", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: LayerCap, Name: "Cap Shaping", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: LayerBlock, Name: "Sleeve Block"})
	b.AddLayer(draft.Layer{ID: LayerLabels, Name: "Numbers, Markers & Labels", Toggle: draft.HiddenWithMarkers})
	b.AddLayer(draft.Layer{ID: LayerMarkers, Name: "Markers", Parent: LayerLabels, Numbers: true})
	b.AddLayer(draft.Layer{ID: LayerText, Name: "Labels", Parent: LayerLabels})

	s := &sleeve{b: b, in: &p, d: d}
	s.capLine()
	s.capHeight()
	s.body()
	s.capMarkers()
	s.frontCap()
	s.backCap()
	s.report()
	return b.Drawing(), nil
}

type sleeve struct {
	b  *draft.Builder
	in *Input
	d  Derived

	arc        fit.Arc
	p1, p2, p4 geom.Point

	front, back []fit.Cubic
}

func (s *sleeve) mark(key string, p geom.Point) geom.Point {
	return s.b.Mark(LayerMarkers, key, p, "")
}

// label names segment ae with its measured length.
func (s *sleeve) label(name string, a, e geom.Point, offset float64) {
	text := name + " (" + cm(a.Distance(e)) + " cm)"
	s.b.On(LayerText).LineLabel(text, a, e, offset, 1, draft.ColorInk)
}

func cm(v float64) string {
	if !(v > 0) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func (s *sleeve) capLine() {
	s.p1 = s.mark("1", geom.Pt(0, 0))
	s.p2 = s.mark("2", geom.Pt(s.d.CapLine, 0))
	s.b.On(LayerFrame).Line(s.p1, s.p2, dashed, "Cap Line")
	s.b.On(LayerBlock).Line(s.p1, s.p2, dashed, "Cap Line")
	s.label("Cap Line", s.p1, s.p2, labelOffset)
}

// upperArc fits the construction arc around 1 so that it ends at 90°.
func upperArc(center geom.Point, radius float64) fit.Arc {
	a := fit.FitArc(center, radius, 0, arcTarget, 1, arcLimits)
	a.Start = arcMaxAngle - a.Sweep
	if a.Start < arcMinAngle {
		a.Start = arcMinAngle
		a.Sweep = arcMaxAngle - arcMinAngle
	}
	return a
}

func onArc(a fit.Arc, angle float64) bool {
	const tol = 1e-6
	return angle >= a.Start-tol && angle <= a.End()+tol
}

// pickCapHeight returns the candidate on the arc with the largest angle,
// or the largest angle overall.
func pickCapHeight(a fit.Arc, cands []geom.Point) (geom.Point, bool) {
	var best geom.Point
	bestAngle, found := math.Inf(-1), false
	for _, onlyArc := range []bool{true, false} {
		for _, c := range cands {
			ang := fit.AngleOf(a.Center, c)
			if onlyArc && !onArc(a, ang) {
				continue
			}
			if ang > bestAngle {
				best, bestAngle, found = c, ang, true
			}
		}
		if found {
			return best, true
		}
	}
	return geom.Point{}, false
}

func (s *sleeve) capHeight() {
	s.arc = upperArc(s.p1, s.d.R3)
	cand, ok := pickCapHeight(s.arc, geom.CircleIntersections(s.p1, s.d.R3, s.p2, s.d.R4))
	fallback := s.arc.PointAt(s.arc.Start + s.arc.Sweep*ratioDown/(ratioUp+ratioDown))
	s.p4 = s.b.Resolve("4", cand, ok, fallback, "armhole circles do not meet")
	if ok {
		s.arc = fit.Rebalance(s.arc, fit.AngleOf(s.p1, s.p4), ratioDown, ratioUp, arcLimits, arcWindow)
	}
	s.mark("4", s.p4)
	s.mark("3", s.arc.PointAt(s.arc.End()))

	s.b.On(LayerFrame).Curve(s.arc.Cubic(), dashed, "Arc")
	s.b.On(LayerFrame).Line(s.p2, s.p4, dashed, "Back Line")
	s.b.On(LayerFrame).Line(s.p1, s.p4, dashed, "Front Line")
}

// crossing finds where seam c meets height y, falling back to its chord.
func crossing(c fit.Cubic, y float64) geom.Point {
	if p, ok := c.CrossY(y); ok {
		return p
	}
	if p, ok := geom.IntersectHorizontal(c.P0, c.P3, y); ok {
		return p
	}
	return geom.Pt(c.P0.X, y)
}

func seam(hem, top geom.Point) fit.Cubic {
	return fit.Cubic{
		P0: hem,
		P1: hem.Move(0, hemLift),
		P2: top.Toward(hem, seamHandle),
		P3: top,
	}
}

func (s *sleeve) body() {
	p1, p2, p4 := s.p1, s.p2, s.p4
	p5 := s.mark("5", p4.Move(0, -s.d.SlL))
	p6 := s.mark("6", p4.Move(0, -elbowFraction*s.d.SlL))
	p7 := s.mark("7", geom.Pt(p1.X, p5.Y))
	p8 := s.mark("8", geom.Pt(p2.X, p5.Y))
	p9 := s.mark("9", geom.Pt(p1.X, p6.Y))
	p10 := s.mark("10", geom.Pt(p2.X, p6.Y))

	s.b.On(LayerFrame).Line(p4, p5, dashed, "Sleeve Length")
	s.b.On(LayerBlock).Line(p4, p5, dashed, "Sleeve Length")
	s.label("Sleeve Length", p4, p5, labelOffset)
	s.b.On(LayerFrame).Line(p1, p7, dashed, "Front Square")
	s.b.On(LayerFrame).Line(p2, p8, dashed, "Back Square")
	s.b.On(LayerFrame).Line(p7, p8, dashed, "Hem Square")
	s.b.On(LayerFrame).Line(p9, p10, dashed, "Elbow Square")

	p15 := s.mark("15", p7.Midpoint(p8))
	half := s.d.HeW / 2
	ok := half > 0
	p16 := s.b.Resolve("16", p15.Move(-half, 0), ok, p7, "hem width is not positive")
	p17 := s.b.Resolve("17", p15.Move(half, 0), ok, p8, "hem width is not positive")
	s.mark("16", p16)
	s.mark("17", p17)
	s.b.On(LayerFrame).Line(p16, p1, dashed, "Left Sleeve Length")
	s.b.On(LayerFrame).Line(p17, p2, dashed, "Right Sleeve Length")

	left := seam(p16, p1)
	right := seam(p17, p2)
	s.b.On(LayerBlock).Curve(left, solid, "Left Sleeve Line")
	s.b.On(LayerBlock).Curve(right, solid, "Right Sleeve Line")
	s.b.On(LayerBlock).Line(p16, p17, solid, "Hem Line")
	s.b.On(LayerText).LineLabel("Hem Line", p16, p17, 2*labelOffset, 1, draft.ColorInk)

	elbowL, elbowR := crossing(left, p6.Y), crossing(right, p6.Y)
	s.b.On(LayerBlock).Line(elbowL, elbowR, dashed, "Elbow Line")
	s.label("Elbow Line", elbowL, elbowR, labelOffset)

	wy := p6.Midpoint(p4).Y
	widthL, widthR := crossing(left, wy), crossing(right, wy)
	s.b.On(LayerBlock).Line(widthL, widthR, dashed, "Sleeve Width")
	s.label("Sleeve Width", widthL, widthR, labelOffset)

	s.b.Derive("ElbowWidth", elbowL.Distance(elbowR))
	s.b.Derive("SleeveWidth", widthL.Distance(widthR))
}

func (s *sleeve) capMarkers() {
	c := s.d.CapLine
	p11 := s.mark("11", s.p4.Move(-c/8, 0))
	p12 := s.mark("12", s.p4.Move(c/5, 0))
	p13 := s.mark("13", s.p2.Move(-c/14, 0))
	p14 := s.mark("14", s.p1.Move(c/12, 0))

	on := s.b.On(LayerCap)
	on.Line(s.p4, p11, dashed, "4-11")
	on.Line(s.p4, p12, dashed, "4-12")
	on.Line(p11, p14, dashed, "11-14")
	on.Line(p12, p13, dashed, "12-13")

	a, _ := geom.ProjectOntoSegment(p11, s.p1, s.p4)
	bb, _ := geom.ProjectOntoSegment(p12, s.p2, s.p4)
	s.b.Mark(LayerMarkers, "a", a, "a")
	s.b.Mark(LayerMarkers, "b", bb, "b")
	on.Line(a, p11, dashed, "a-11")
	on.Line(p12, bb, dashed, "12-b")
}

func (s *sleeve) capCurve(c fit.Cubic, name string) {
	s.b.On(LayerCap).Curve(c, solid, name)
	s.b.On(LayerBlock).Curve(c, solid, name)
}

func (s *sleeve) frontCap() {
	p11, p12, p14 := s.b.Get("11"), s.b.Get("12"), s.b.Get("14")
	fwd := s.p1.Dir(s.p2)
	m := s.b.Set("mid1114", p11.Midpoint(p14))

	first := fit.Cubic{P0: s.p1, P1: s.p1.Add(fwd.Scale(3)), P2: m.Toward(p14, 4), P3: m}
	second := fit.Cubic{P0: m, P1: m.Toward(p11, 3), P2: s.p4.Add(p12.Dir(s.p4).Scale(3.3)), P3: s.p4}
	s.front = []fit.Cubic{first, second}
	s.capCurve(first, "Front Cap Lower")
	s.capCurve(second, "Front Cap Upper")
	s.notch(s.front, s.in.FAP, "Front Cap Notch")
}

func (s *sleeve) backCap() {
	p12, p13 := s.b.Get("12"), s.b.Get("13")
	fwd := s.p1.Dir(s.p2)
	x, ok := geom.LineIntersection(p12, p13, s.p2, s.p4, geom.ParallelEps)
	x = s.b.Resolve("X", x, ok, p12.Midpoint(p13), "back cap guides are parallel")

	d := p12.Dir(p13)
	switch {
	case math.Abs(d.Y) < 1e-6:
		d = geom.Pt(0, 1)
	case d.Y < 0:
		d = d.Scale(-1)
	}
	lower := fit.Cubic{P0: s.p2, P1: s.p2.Sub(fwd.Scale(3.5)), P2: x.Sub(d.Scale(1.5)), P3: x}
	upper := fit.Cubic{P0: x, P1: x.Add(d.Scale(2.95)), P2: s.p4.Add(fwd.Scale(6.6)), P3: s.p4}
	s.back = []fit.Cubic{lower, upper}
	s.capCurve(lower, "Back Cap Lower")
	s.capCurve(upper, "Back Cap Upper")
	s.notch(s.back, s.in.BAP, "Back Cap Notch")
	s.notch(s.back, s.in.BAP+backNotchStep, "Back Cap Notch Upper")
}

// notch marks the point dist along chain with a short tick across it.
// Distances past the end of a segment carry into the next; a distance
// beyond the whole chain places nothing.
func (s *sleeve) notch(chain []fit.Cubic, dist float64, name string) {
	if !(dist > 0) {
		return
	}
	for _, c := range chain {
		l := c.Arclen()
		if !(l > 0) {
			continue
		}
		if dist > l {
			dist -= l
			continue
		}
		t := c.ParamAtLength(dist)
		at := c.Eval(t)
		n := c.Deriv(t).Perp().Normalize().Scale(notchHalf)
		s.b.Set(name, at)
		s.b.On(LayerCap).Line(at.Sub(n), at.Add(n), dashed, name)
		s.b.On(LayerBlock).Line(at.Sub(n), at.Add(n), dashed, name)
		return
	}
}

func chainLength(chain []fit.Cubic) float64 {
	var l float64
	for _, c := range chain {
		l += c.Arclen()
	}
	return l
}

func (s *sleeve) report() {
	d := s.d
	s.b.Derive("AhH", d.AhH)
	s.b.Derive("AhC", d.AhC)
	s.b.Derive("AhCConstruction", d.AhCC)
	s.b.Derive("SlL", d.SlL)
	s.b.Derive("SlW", d.SlW)
	s.b.Derive("HeW", d.HeW)
	s.b.Derive("CapEaseCm", d.CapEase)
	s.b.Derive("CapC", d.CapC)
	s.b.Derive("CapLine", d.CapLine)
	s.b.Derive("r3", d.R3)
	s.b.Derive("r4", d.R4)
	s.b.Derive("arcStart", s.arc.Start)
	s.b.Derive("arcEnd", s.arc.End())

	front, back := chainLength(s.front), chainLength(s.back)
	s.b.Derive("frontCapLength", front)
	s.b.Derive("backCapLength", back)
	s.b.Derive("capLength", front+back)
	s.b.Derive("capEaseRealized", front+back-d.AhCC)
}
