// Package aldrich drafts the Aldrich close-fitting bodice block in
// centimetres, front and back side by side with waist shaping darts.
package aldrich

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/measure"
)

// Key identifies the method.
const Key = "aldrich"

// HandleRatioCap bounds every curve handle to this multiple of its chord.
const HandleRatioCap = 1.6

const (
	colorPrimary     = "#111111"
	colorGuide       = "#000000"
	shoulderDartHalf = 0.5
)

// Layer ids.
const (
	LayerGuides  = "aldrich-guides"
	LayerFront   = "aldrich-front-bodice"
	LayerBack    = "aldrich-back-bodice"
	LayerDarts   = "aldrich-darts"
	LayerLabels  = "aldrich-labels-and-markers"
	LayerMarkers = "aldrich-markers"
	LayerLetters = "aldrich-letters"
)

var (
	line  = draft.Structural.WithColor(colorPrimary)
	guide = draft.Guide.WithColor(colorGuide)
)

// Method drafts the Aldrich bodice.
type Method struct{}

var _ draft.Method = Method{}

func (Method) Key() string   { return Key }
func (Method) Title() string { return "Aldrich's Close Fitting Bodice" }
func (Method) Unit() string  { return "cm" }

// NewInput returns the default measurements.
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
	p := in.clone()
	replaced := p.Normalize()

	b := draft.NewBuilder(Key, "cm", draft.Frame{
		Origin: geom.Pt(draft.PageMargin, draft.PageMargin),
		Scale:  draft.MMPerCM,
	}, p.Visibility)
	b.SetMarkerStyle(draft.MarkerStyle{
		Radius:   draft.MarkerRadius * 1.05,
		Fill:     colorPrimary,
		Text:     draft.ColorWhite,
		FontSize: draft.LabelFontSize * 0.8,
	})
	draft.Normalized(b, replaced)
	layers(b)

	c := &construction{b: b, in: &p}
	c.foundation()
	c.shoulders()
	c.necklines()
	c.armholes()
	c.waist()
	c.report()
	return b.Drawing(), nil
}

func layers(b *draft.Builder) {
	b.AddLayer(draft.Layer{ID: LayerGuides, Name: "Aldrich Guides", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: LayerFront, Name: "Aldrich Front Bodice"})
	b.AddLayer(draft.Layer{ID: LayerBack, Name: "Aldrich Back Bodice"})
	b.AddLayer(draft.Layer{ID: LayerDarts, Name: "Aldrich Darts"})
	b.AddLayer(draft.Layer{ID: LayerLabels, Name: "Aldrich Labels & Markers", Toggle: draft.HiddenWithMarkers})
	b.AddLayer(draft.Layer{ID: LayerMarkers, Name: "Markers", Parent: LayerLabels})
	b.AddLayer(draft.Layer{ID: LayerLetters, Name: "Letters", Parent: LayerLabels})
}

// construction carries the shared state of one drafting pass.
type construction struct {
	b  *draft.Builder
	in *Input
}

func (c *construction) pt(key string) geom.Point { return c.b.Get(key) }

func (c *construction) num(key string, p geom.Point) geom.Point {
	return c.b.Mark(LayerMarkers, key, p, "")
}

func (c *construction) letter(key string, p geom.Point) geom.Point {
	p = c.b.Set(key, p)
	c.b.On(LayerLetters).Letter(p, key, colorPrimary)
	return p
}

func (c *construction) line(layer string, a, e geom.Point, st draft.Stroke, name string) {
	c.b.On(layer).Line(a, e, st, name)
}

// handle applies a handle given in art-board orientation (y up) to p.
func handle(p, h geom.Point, sx, sy float64) geom.Point {
	return geom.Pt(p.X+sx*h.X, p.Y-sy*h.Y)
}

// curve draws start-end with art-board handles h0 and h1, signed by s0 and s1
// and clamped to the chord.
func (c *construction) curve(layer string, start, end, h0, h1, s0, s1 geom.Point, name string) {
	chord := start.Distance(end)
	h0 = geom.ClampHandle(h0, chord, HandleRatioCap)
	h1 = geom.ClampHandle(h1, chord, HandleRatioCap)
	cu := fit.Cubic{P0: start, P1: handle(start, h0, s0.X, s0.Y), P2: handle(end, h1, s1.X, s1.Y), P3: end}
	c.b.On(layer).Curve(cu, line, name)
}

func (c *construction) foundation() {
	in := c.in
	depth01 := 1.5
	vertical02 := depth01 + in.ArmscyeDepth + 0.5
	w := in.Bust/2 + in.BustEase

	p0 := c.num("0", geom.Pt(0, 0))
	p1 := c.num("1", geom.Pt(0, depth01))
	p2 := c.num("2", geom.Pt(0, vertical02))
	p3 := c.num("3", geom.Pt(w, vertical02))
	p4 := c.num("4", geom.Pt(w, 0))
	p5 := c.num("5", geom.Pt(0, depth01+in.NapeToWaist))
	p6 := c.num("6", geom.Pt(w, depth01+in.NapeToWaist))
	pc := c.letter("c", p6.Move(0, 1))

	c.num("9", geom.Pt(in.NeckSize/5-0.2, p0.Y))
	p10 := c.num("10", geom.Pt(p1.X, p1.Y+in.ArmscyeDepth/5-0.7))
	c.num("20", geom.Pt(p4.X-(in.NeckSize/5-0.7), p4.Y))
	p21 := c.num("21", geom.Pt(p4.X, p4.Y+in.NeckSize/5-0.2))
	p22 := c.num("22", geom.Pt(p3.X-in.Chest/2-in.Darts.FrontNeck/2, p3.Y))

	if dist := measure.AldrichPointB(in.Bust); dist > 0 {
		diag := dist / math.Sqrt2
		pb := c.letter("b", p22.Move(-diag, -diag))
		c.line(LayerGuides, p22, pb, guide, "Front Armhole Guideline")
	}

	p23 := c.num("23", p3.Midpoint(p22))
	c.b.Set("24", geom.Pt(p23.X, p5.Y))
	c.num("26", p23.Move(0, 2.5))
	p20 := c.pt("20")
	c.num("27", geom.Pt(p20.X-in.Darts.FrontNeck, p20.Y))
	p31 := c.num("31", geom.Pt(p22.X, p22.Y+(p21.Y-p3.Y)/3))

	c.line(LayerGuides, p5, pc, line, "Waist Drop Guide")
	c.line(LayerGuides, p2, p3, guide, "Bust Line")
	c.line(LayerGuides, p5, p6, guide, "Waistline")
	c.line(LayerBack, p1, p5, line, "Centre Back (CB)")
	c.line(LayerGuides, p4, pc, line, "CF Line")
	c.line(LayerFront, p21, pc, line, "Centre Front (CF)")
	c.line(LayerGuides, p0, p4, line, "0 - 4")
	c.line(LayerGuides, p0, p5, line, "Foundation Centre Back")
	c.line(LayerGuides, p22, p31, guide, "Chest Line")

	c.line(LayerGuides, p10, p1, line, "Back Blade")
	c.line(LayerGuides, p10, p10.Move(w/2, 0), guide, "Back Blade Guide")
}

func (c *construction) shoulders() {
	in := c.in
	p9, p10 := c.pt("9"), c.pt("10")

	// 11: shoulder+1 from 9, level with 10.
	dy := math.Abs(p10.Y - p9.Y)
	reach := in.Shoulder + 1
	var horiz float64
	ok := reach > dy
	if ok {
		horiz = math.Sqrt(math.Max(reach*reach-dy*dy, 0))
	}
	p11 := geom.Pt(p9.X+horiz, p10.Y)
	p11 = c.b.Resolve("11", p11, ok, p11, "back shoulder shorter than the shoulder drop")
	c.num("11", p11)

	p12 := c.num("12", p9.Midpoint(p11))
	down := p12.Move(0, 5)
	c.line(LayerGuides, p12, down, guide, "Back Shoulder Guide")
	p13 := c.num("13", down.Move(-1, 0))
	c.line(LayerGuides, down, p13, guide, "Back Shoulder Guide Foot")

	if p9.Distance(p11) > 0.0001 {
		u := p9.Dir(p11)
		left := c.b.Set("SD-L", p12.Sub(u.Scale(shoulderDartHalf)))
		right := p12.Add(u.Scale(shoulderDartHalf))
		if leg, rv := left.Distance(p13), right.Sub(p13); rv.Len() > 0.0001 && leg > 0.0001 {
			right = p13.Add(rv.Scale(leg / rv.Len()))
		}
		right = c.b.Set("SD-R", right)
		c.b.On(LayerDarts).Polyline(line, "Back Shoulder Dart", left, p13, right)
		c.line(LayerBack, p9, left, line, "Back Shoulder Line")
		c.line(LayerBack, right, p11, line, "Back Shoulder Dart Right to 11")
	} else {
		c.line(LayerBack, p9, p11, line, "Back Shoulder Line")
	}

	// 30: shoulder length from 27 on the balance line 28-29.
	p28 := c.num("28", p11.Move(0, 1.5))
	p29 := c.num("29", p28.Move(10, 0))
	c.line(LayerGuides, p11, p28, guide, "Back Shoulder Drop")
	c.line(LayerGuides, p28, p29, guide, "Shoulder Balance Line")

	p27 := c.pt("27")
	fdy := math.Abs(p28.Y - p27.Y)
	sq := in.Shoulder*in.Shoulder - fdy*fdy
	x30 := p27.X - math.Sqrt(math.Max(sq, 0))
	lo, hi := math.Min(p28.X, p29.X), math.Max(p28.X, p29.X)
	p30 := geom.Pt(geom.Clamp(x30, lo, hi), p28.Y)
	p30 = c.b.Resolve("30", p30, sq > 0 && x30 >= lo && x30 <= hi, p30, "front shoulder misses the balance line")
	c.num("30", p30)
	c.line(LayerFront, p27, p30, line, "Front Shoulder Line")

	p14 := c.num("14", geom.Pt(c.pt("2").X+in.BackWidth/2+0.5, c.pt("2").Y))
	if dist := measure.AldrichPointA(in.Bust); dist > 0 {
		diag := dist / math.Sqrt2
		pa := c.letter("a", p14.Move(diag, -diag))
		c.line(LayerGuides, p14, pa, guide, "Back Armhole Guideline")
	}
	p15 := c.num("15", geom.Pt(p14.X, p10.Y))
	c.num("16", p14.Midpoint(p15))
	c.num("17", c.pt("2").Midpoint(p14))
	c.num("32", p14.Midpoint(c.pt("22")))
	c.line(LayerGuides, p14, p15, guide, "Back Width Line")
}

func (c *construction) necklines() {
	p1, p9 := c.pt("1"), c.pt("9")
	c.curve(LayerBack, p1, p9, geom.Pt(4.3, 0), geom.Pt(-1, -1), geom.Pt(1, 1), geom.Pt(1, 1), "Back Neck Curve")

	p20, p21 := c.pt("20"), c.pt("21")
	c.curve(LayerFront, p20, p21, geom.Pt(0, -4), geom.Pt(-4, 0), geom.Pt(1, 1), geom.Pt(1, 1), "Front Neck Curve")

	p26, p27 := c.pt("26"), c.pt("27")
	c.line(LayerDarts, p20, p26, line, "Front Neck Dart Left Leg")
	c.line(LayerDarts, p27, p26, line, "Front Neck Dart Right Leg")
}

func (c *construction) armholes() {
	p11, p30, p32 := c.pt("11"), c.pt("30"), c.pt("32")
	c.curve(LayerBack, p11, p32, geom.Pt(3.2, 9.79), geom.Pt(6.15, 0), geom.Pt(-1, -1), geom.Pt(-1, -1), "Back Armhole Curve")
	c.curve(LayerFront, p30, p32, geom.Pt(7, 11.25), geom.Pt(6.47, 0), geom.Pt(1, -1), geom.Pt(1, -1), "Front Armhole Curve")
}

func (c *construction) waist() {
	in := c.in
	darts := in.Darts.Darts
	p5, pc := c.pt("5"), c.pt("c")
	c.num("33", geom.Pt(c.pt("23").X, p5.Y))

	// d, e, f: where the sloped waist line crosses the verticals through 17, 23 and 32.
	for _, s := range []struct{ key, from string }{{"d", "17"}, {"e", "23"}, {"f", "32"}} {
		top := c.pt(s.from)
		at, ok := geom.IntersectVertical(p5, pc, top.X)
		if ok && geom.Between(at.Y, top.Y, pc.Y, 0.001) {
			c.letter(s.key, at)
		}
	}

	if c.b.Has("e") && positive(darts.Front) {
		e := c.pt("e")
		half := darts.Front / 2
		apex := c.b.Set("FWD-apex", geom.Pt(e.X, c.pt("26").Y+in.FrontWaistDartBackOff))
		left := c.b.Set("FWD-L", e.Move(-half, 0))
		right := c.b.Set("FWD-R", e.Move(half, 0))
		c.line(LayerDarts, left, apex, line, "Front Waist Dart Left Leg")
		c.line(LayerDarts, right, apex, line, "Front Waist Dart Right Leg")
		c.line(LayerGuides, apex, e, guide, "Front Waist Dart Bisector")
	} else if positive(darts.Front) {
		c.b.Warn(draft.Degenerate, "e", "front waist dart position is off the waist line")
	}

	if c.b.Has("d") && positive(darts.Back) {
		d := c.pt("d")
		half := darts.Back / 2
		apex := c.pt("17")
		left := c.b.Set("BWD-L", d.Move(-half, 0))
		right := c.b.Set("BWD-R", d.Move(half, 0))
		c.line(LayerDarts, left, apex, line, "Back Waist Dart Left Leg")
		c.line(LayerDarts, right, apex, line, "Back Waist Dart Right Leg")
		c.line(LayerGuides, apex, d, guide, "Back Waist Dart Bisector")
	} else if positive(darts.Back) {
		c.b.Warn(draft.Degenerate, "d", "back waist dart position is off the waist line")
	}

	lo, hi := math.Min(p5.X, pc.X), math.Max(p5.X, pc.X)
	onWaist := func(x float64) geom.Point {
		x = geom.Clamp(x, lo, hi)
		if dx := pc.X - p5.X; math.Abs(dx) >= 0.0001 {
			return geom.Pt(x, p5.Y+(pc.Y-p5.Y)/dx*(x-p5.X))
		}
		return geom.Pt(x, p5.Y)
	}

	p32 := c.pt("32")
	axis := onWaist(p32.X)
	if c.b.Has("f") {
		axis = c.pt("f")
	}
	c.line(LayerGuides, p32, axis, guide, "Side")

	back := axis
	if positive(darts.BackSide) {
		back = c.b.Set("BSD", onWaist(axis.X-darts.BackSide))
		c.line(LayerDarts, back, p32, line, "Back Side Waist Dart")
	}
	c.line(LayerBack, p5, back, line, "Back Waist Line")

	front := axis
	if positive(darts.FrontSide) {
		front = c.b.Set("FSD", onWaist(axis.X+darts.FrontSide))
		c.line(LayerDarts, front, p32, line, "Front Side Waist Dart")
	}
	c.line(LayerFront, pc, front, line, "Front Waist Line")
}

func (c *construction) report() {
	d := c.in.Darts
	c.b.Derive("bustWaistDiff", d.Diff)
	c.b.Derive("frontNeckDart", d.FrontNeck)
	c.b.Derive("frontWaistDart", d.Darts.Front)
	c.b.Derive("backWaistDart", d.Darts.Back)
	c.b.Derive("frontSideWaistDart", d.Darts.FrontSide)
	c.b.Derive("backSideWaistDart", d.Darts.BackSide)
	c.b.Derive("totalSuppression", d.Darts.Sum())
}

func positive(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 }
