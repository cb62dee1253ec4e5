package hofenbitzer

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/measure"
)

// SkirtKey identifies the basic skirt method.
const SkirtKey = "hofenbitzerBasicSkirt"

// Skirt layer ids.
const (
	SkirtLayerFrame   = "hofskirt-basic-frame"
	SkirtLayerPattern = "hofskirt-skirt-pattern"
	SkirtLayerShaping = "hofskirt-darts-and-shaping"
	SkirtLayerDarts   = "hofskirt-darts"
	SkirtLayerCurves  = "hofskirt-shaping"
	SkirtLayerLabels  = "hofskirt-labels-markers-and-numbers"
	SkirtLayerText    = "hofskirt-labels"
	SkirtLayerMarkers = "hofskirt-markers"
)

const (
	dartGuideHalf  = 2.5
	labelOffsetCM  = 0.5
	minFrontDartCM = 10
	secondDartMin  = 0.05
)

// Skirt drafts the basic skirt: front on the left, back on the right, waist
// at y=0 with +y up.
type Skirt struct{}

var _ draft.Method = Skirt{}

func (Skirt) Key() string   { return SkirtKey }
func (Skirt) Title() string { return "Hofenbitzer's Basic Skirt" }
func (Skirt) Unit() string  { return "cm" }

func (Skirt) NewInput() draft.Input {
	in := SkirtDefaults()
	return &in
}

// Draft implements draft.Method.
func (m Skirt) Draft(di draft.Input) (*draft.Drawing, error) {
	in, err := draft.Cast[*SkirtInput](m, di)
	if err != nil {
		return nil, err
	}
	p := *in
	replaced := p.Normalize()

	b := draft.NewBuilder(SkirtKey, "cm", draft.Frame{
		Origin: geom.Pt(50, 50),
		Scale:  draft.MMPerCM,
		FlipY:  true,
	}, p.Visibility)
	b.SetMarkerStyle(numberMarker)
	draft.Normalized(b, replaced)

	b.AddLayer(draft.Layer{ID: SkirtLayerFrame, Name: "Basic Frame", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: SkirtLayerPattern, Name: "Skirt Pattern"})
	b.AddLayer(draft.Layer{ID: SkirtLayerShaping, Name: "Darts & Shaping"})
	b.AddLayer(draft.Layer{ID: SkirtLayerDarts, Name: "Darts", Parent: SkirtLayerShaping})
	b.AddLayer(draft.Layer{ID: SkirtLayerCurves, Name: "Shaping", Parent: SkirtLayerShaping})
	b.AddLayer(draft.Layer{ID: SkirtLayerLabels, Name: "Labels, Markers & Numbers", Toggle: draft.HiddenWithMarkers})
	b.AddLayer(draft.Layer{ID: SkirtLayerText, Name: "Labels", Parent: SkirtLayerLabels})
	b.AddLayer(draft.Layer{ID: SkirtLayerMarkers, Name: "Markers", Parent: SkirtLayerLabels, Numbers: true})

	s := &skirt{b: b, in: &p, darts: p.Darts()}
	s.frame()
	s.dartLines()
	s.waist()
	s.markers()
	s.report()
	return b.Drawing(), nil
}

type skirt struct {
	b     *draft.Builder
	in    *SkirtInput
	darts measure.SkirtDarts

	curvy    bool
	secondOK bool
	halfSide float64

	p            map[string]geom.Point
	p13TL, p13TR geom.Point
	p14UL, p14UR geom.Point
	p15L, p15R   geom.Point
}

func (s *skirt) set(key string, p geom.Point) geom.Point {
	if s.p == nil {
		s.p = map[string]geom.Point{}
	}
	s.p[key] = p
	return s.b.Set(key, p)
}

// onPattern draws a segment on layer and copies it onto the pattern layer.
func (s *skirt) onPattern(layer string, a, e geom.Point, st draft.Stroke, name string) {
	s.b.On(layer).Line(a, e, st, name)
	s.b.On(SkirtLayerPattern).Line(a, e, st, name)
}

func (s *skirt) curveOnPattern(c fit.Cubic, name string) {
	s.b.On(SkirtLayerCurves).Curve(c, solid, name)
	s.b.On(SkirtLayerPattern).Curve(c, solid, name)
}

func (s *skirt) label(text string, a, e geom.Point, side float64) {
	s.b.On(SkirtLayerText).LineLabel(text, a, e, labelOffsetCM, side, frameColor)
}

// horizontal intersects line ab with y, keeping a's x for a flat line.
func horizontal(a, e geom.Point, y float64) geom.Point {
	if p, ok := geom.IntersectHorizontal(a, e, y); ok {
		return p
	}
	return geom.Pt(a.X, y)
}

func (s *skirt) frame() {
	in := s.in
	s.curvy = in.HipProfile == measure.HipCurvy
	hiW := s.darts.HiW
	half := hiW / 2

	p1 := s.set("1", geom.Pt(0, 0))
	p2 := s.set("2", geom.Pt(0, -in.MoL))
	p3 := s.set("3", geom.Pt(0, -in.HiD))
	p4 := s.set("4", geom.Pt(hiW, 0))
	p5 := s.set("5", geom.Pt(hiW, -in.MoL))
	p6 := s.set("6", geom.Pt(hiW, -in.HiD))
	p7 := s.set("7", geom.Pt(half, 0))
	p8 := s.set("8", geom.Pt(half, -in.MoL))
	p9 := s.set("9", geom.Pt(half, -in.HiD))
	p10 := s.set("10", geom.Pt(half, s.darts.WaistShaping))

	s.onPattern(SkirtLayerFrame, p1, p2, solid, "Centre Front Line")
	s.label("Centre Front (CF)", p1, p2, 1)
	s.b.On(SkirtLayerFrame).Line(p1, p4, solid, "Waist Line")
	s.label("Waist Line", p1, p4, 1)
	s.onPattern(SkirtLayerFrame, p4, p5, solid, "Centre Back Line")
	s.label("Centre Back (CB)", p4, p5, -1)
	s.onPattern(SkirtLayerFrame, p5, p2, solid, "Hem Line")
	s.label("Hem Line", p5, p2, -1)
	s.b.On(SkirtLayerFrame).Line(p7, p8, solid, "Side Line")
	s.label("Side Line", p7, p8, 1)

	s.onPattern(SkirtLayerFrame, p3, p6, dashed, "Hip Line")
	s.b.On(SkirtLayerPattern).Line(p9, p8, solid, "Side Line")
	s.b.On(SkirtLayerFrame).Line(p7, p10, solid, "Waist Shaping Guide")
	s.b.On(SkirtLayerFrame).Line(p10.Move(-6, 0), p10.Move(6, 0), dashed, "Upper Waist Shaping Guide")

	s.halfSide = math.Max(0, s.darts.Side) / 2
	s.set("11", p10.Move(-s.halfSide, 0))
	s.set("12", p10.Move(s.halfSide, 0))
}

func (s *skirt) dartLines() {
	in := s.in
	p4, p9, p10 := s.p["4"], s.p["9"], s.p["10"]
	p11, p12 := s.p["11"], s.p["12"]

	if s.halfSide > 0 {
		s.b.On(SkirtLayerDarts).Line(p10, p11, solid, "Side Dart Left")
		s.b.On(SkirtLayerDarts).Line(p10, p12, solid, "Side Dart Right")
		hip := geom.Pt(s.p["7"].X, p9.Y+10.5)
		s.curveOnPattern(fit.Cubic{P0: p11, P1: p11, P2: hip, P3: p9}, "Front Hip Curve")
		s.curveOnPattern(fit.Cubic{P0: p12, P1: p12, P2: hip, P3: p9}, "Back Hip Curve")
	}

	// front dart
	raise := 0.5
	if s.curvy {
		raise = 0.7
	}
	p13 := s.set("13", geom.Pt(horizontal(p11, p9, 0).X-in.WaC/10, 0))
	top := p13.Y + raise
	base := p13.Move(0, -math.Max(minFrontDartCM, in.FrontDart.Length))
	halfFront := math.Max(0, s.darts.Front) / 2
	s.p13TL = s.set("13TL", geom.Pt(p13.X-halfFront, top))
	s.p13TR = s.set("13TR", geom.Pt(p13.X+halfFront, top))
	s.b.On(SkirtLayerDarts).Line(geom.Pt(p13.X-dartGuideHalf, top), geom.Pt(p13.X+dartGuideHalf, top), dashed, "Front Dart Guide")
	s.b.On(SkirtLayerDarts).Line(p13, base, dashed, "Front Dart Centre")
	if halfFront > 0 {
		s.onPattern(SkirtLayerDarts, s.p13TL, base, solid, "Front Dart Left")
		s.onPattern(SkirtLayerDarts, s.p13TR, base, solid, "Front Dart Right")
		s.label("Front Dart", s.p13TL, s.p13TR, 1)
	}

	// back darts
	back1 := math.Max(0, s.darts.Back1)
	back2 := math.Max(0, s.darts.Back2)
	s.secondOK = back2 > secondDartMin
	t := 0.5
	if s.secondOK {
		t = 1.0 / 3
	}
	p14 := s.set("14", geom.Pt(p4.X, 0).Lerp(horizontal(p12, p9, 0), t))
	base1 := p14.Move(0, -math.Max(0, in.BackDart1.Length))
	s.p14UL = geom.Pt(p14.X-back1/2, p14.Y)
	s.p14UR = geom.Pt(p14.X+back1/2, p14.Y)
	if !s.secondOK {
		y := p14.Y + 0.3
		if s.curvy {
			y = p14.Y + 0.5
		}
		s.b.On(SkirtLayerDarts).Line(geom.Pt(p14.X-dartGuideHalf, y), geom.Pt(p14.X+dartGuideHalf, y), dashed, "Back Waist Raise")
		s.p14UL.Y, s.p14UR.Y = y, y
	}
	s.set("14UL", s.p14UL)
	s.set("14UR", s.p14UR)

	if s.secondOK {
		p15 := s.set("15", geom.Pt((s.p14UL.X+p12.X)/2, 0))
		base2 := p15.Move(0, -math.Max(0, in.BackDart2.Length))
		y := p15.Y + 0.3
		if s.curvy {
			y = p15.Y + 0.5
		}
		s.p15L = s.set("15L", geom.Pt(p15.X-back2/2, y))
		s.p15R = s.set("15R", geom.Pt(p15.X+back2/2, y))
		s.b.On(SkirtLayerDarts).Line(geom.Pt(p15.X-dartGuideHalf, y), geom.Pt(p15.X+dartGuideHalf, y), dashed, "Back Waist Raise")
		s.b.On(SkirtLayerDarts).Line(p15, base2, dashed, "2nd Back Dart Centre")
		s.onPattern(SkirtLayerDarts, s.p15L, base2, solid, "Second Back Dart Left")
		s.onPattern(SkirtLayerDarts, s.p15R, base2, solid, "Second Back Dart Right")
		s.label("2nd Back Dart", s.p15L, s.p15R, 1)
	}

	s.b.On(SkirtLayerDarts).Line(p14, base1, dashed, "1st Back Dart Centre")
	s.onPattern(SkirtLayerDarts, s.p14UL, base1, solid, "First Back Dart Left")
	s.onPattern(SkirtLayerDarts, s.p14UR, base1, solid, "First Back Dart Right")
	s.label("1st Back Dart", s.p14UL, s.p14UR, 1)
}

func (s *skirt) waist() {
	p1, p4, p11, p12 := s.p["1"], s.p["4"], s.p["11"], s.p["12"]

	s.curveOnPattern(fit.Cubic{
		P0: p1, P1: p1.Move(10.6, 0.3), P2: s.p13TL.Move(-0.54, 0), P3: s.p13TL,
	}, "Front Waist Curve")
	s.curveOnPattern(fit.Cubic{
		P0: s.p13TR, P1: s.p13TR, P2: p11.Move(-0.6, -0.5), P3: p11,
	}, "Front Hip Transition")

	if !s.secondOK {
		s.curveOnPattern(fit.Cubic{
			P0: p12, P1: p12.Move(0.4, -0.4), P2: s.p14UL.Move(-2.95, 0), P3: s.p14UL,
		}, "Back Waist Curve")
		s.curveOnPattern(fit.Cubic{
			P0: s.p14UR, P1: s.p14UR.Move(0.5, 0), P2: p4.Move(-4.25, 0), P3: p4,
		}, "Back Waist Transition")
		return
	}
	s.curveOnPattern(fit.Cubic{
		P0: p12, P1: p12.Move(0.4, -0.4), P2: s.p15L.Move(-0.6, 0), P3: s.p15L,
	}, "Back Waist Curve")
	s.curveOnPattern(fit.Cubic{
		P0: s.p15R, P1: s.p15R.Move(0.6, 0), P2: s.p14UL.Move(-2.4, 0), P3: s.p14UL,
	}, "Back Waist Transition")
	s.b.On(SkirtLayerPattern).Line(p4, s.p14UR, solid, "Back Waist CB Segment")
}

func (s *skirt) markers() {
	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		s.b.Mark(SkirtLayerMarkers, k, s.p[k], "")
	}
	if s.halfSide > 0 {
		s.b.Mark(SkirtLayerMarkers, "11", s.p["11"], "")
		s.b.Mark(SkirtLayerMarkers, "12", s.p["12"], "")
	}
	s.b.Mark(SkirtLayerMarkers, "13", s.p["13"], "")
	s.b.Mark(SkirtLayerMarkers, "14", s.p["14"], "")
	if s.secondOK {
		s.b.Mark(SkirtLayerMarkers, "15", s.p["15"], "")
	}
}

func (s *skirt) report() {
	d := s.darts
	s.b.Derive("HiW", d.HiW)
	s.b.Derive("WaW", d.WaW)
	s.b.Derive("Target", d.Target)
	s.b.Derive("SideDart", d.Side)
	s.b.Derive("FrontDart", d.Front)
	s.b.Derive("BackDart1", d.Back1)
	s.b.Derive("BackDart2", d.Back2)
	s.b.Derive("Transferred", d.Transferred)
	s.b.Derive("DartSum", d.DartSum)
	s.b.Derive("ManualDartSum", d.ManualDartSum)
	s.b.Derive("WaDif", d.WaDif)
	s.b.Derive("DartCount", float64(d.Count()))
	s.b.Derive("WaistShaping", d.WaistShaping)
}
