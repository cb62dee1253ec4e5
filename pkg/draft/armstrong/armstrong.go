// Package armstrong drafts the Armstrong bodice front and back in inches.
package armstrong

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/measure"
)

// Key identifies the method.
const Key = "armstrong"

const (
	backGapCM  = 10.0
	backOffset = backGapCM / 2.54
	dartIntake = 1.5
)

// Layer ids.
const (
	LayerFoundation  = "foundation"
	LayerGuidesFront = "foundation-front-guides"
	LayerGuidesBack  = "foundation-back-guides"
	LayerFront       = "front-bodice"
	LayerBack        = "back-bodice"
	LayerLabels      = "labels-and-markers"
	LayerMarkers     = "labels-markers"
)

var (
	seam  = draft.Structural.WithColor(draft.ColorCurve)
	ink   = draft.Structural
	guide = draft.Guide
)

// Method drafts the Armstrong bodice.
type Method struct{}

var _ draft.Method = Method{}

func (Method) Key() string   { return Key }
func (Method) Title() string { return "Armstrong's Bodice" }
func (Method) Unit() string  { return "in" }

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
	p := *in
	replaced := p.Normalize()

	b := draft.NewBuilder(Key, "in", draft.Frame{
		Origin:  geom.Pt(draft.PageWidth-draft.PageMargin, draft.PageMargin),
		Scale:   draft.MMPerInch,
		MirrorX: true,
	}, p.Visibility)
	draft.Normalized(b, replaced)
	layers(b)

	front(b, &p)
	back(b, &p)
	return b.Drawing(), nil
}

func layers(b *draft.Builder) {
	b.AddLayer(draft.Layer{ID: LayerFoundation, Name: "Foundation", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: LayerGuidesFront, Name: "Front Guides", Parent: LayerFoundation})
	b.AddLayer(draft.Layer{ID: LayerGuidesBack, Name: "Back Guides", Parent: LayerFoundation})
	b.AddLayer(draft.Layer{ID: LayerFront, Name: "Front Bodice"})
	b.AddLayer(draft.Layer{ID: LayerBack, Name: "Back Bodice"})
	b.AddLayer(draft.Layer{ID: LayerLabels, Name: "Labels & Markers", Toggle: draft.HiddenWithMarkers})
	b.AddLayer(draft.Layer{ID: LayerMarkers, Name: "Markers", Parent: LayerLabels})
}

func front(b *draft.Builder, p *Input) {
	mark := func(key string, pt geom.Point) geom.Point { return b.Mark(LayerMarkers, key, pt, "") }
	fg := func(a, c geom.Point, st draft.Stroke, name string) { b.On(LayerGuidesFront).Line(a, c, st, name) }
	fs := func(a, c geom.Point, name string) { b.On(LayerFront).Line(a, c, seam, name) }

	a := mark("A", geom.Pt(0, 0))
	bb := mark("B", geom.Pt(0, p.FullLength+0.125))
	fg(a, bb, ink, "Full Length")

	c := mark("C", geom.Pt(a.X+p.AcrossShoulder-0.125, a.Y))
	fg(a, c, ink, "Front Across Shoulder")

	d := mark("D", geom.Pt(bb.X, bb.Y-p.CentreFrontLength))
	fs(bb, d, "B-D")
	fg(d, d.Move(4, 0), guide, "Front Neck Guide 1")

	e := mark("E", geom.Pt(bb.X+p.BustArc+0.25, bb.Y))
	fg(bb, e, ink, "Bust Arc")
	eUp := e.Move(0, -11)
	fg(e, eUp, ink, "Side Guide Line")

	cGuide := c.Move(0, 4)
	fg(c, cGuide, guide, "Shoulder Slope Guide")

	// G: on the shoulder slope guide below C at ShoulderSlope from B.
	run := math.Abs(c.X - bb.X)
	sq := p.ShoulderSlope*p.ShoulderSlope - run*run
	gy := bb.Y - math.Sqrt(math.Max(0, sq))
	gOK := sq > 0 && gy >= c.Y && gy <= cGuide.Y
	gp := geom.Pt(c.X, geom.Clamp(gy, c.Y, cGuide.Y))
	g := b.Resolve("G", gp, gOK, gp, "shoulder slope does not reach the slope guide")
	b.Mark(LayerMarkers, "G", g, "")
	fg(bb, g, ink, "Shoulder Slope")

	h := mark("H", g.Toward(bb, p.BustDepth))

	// I: on A-C at ShoulderLength from G, preferring the root nearest C.
	ip, _, iOK := geom.QuadraticOnChord(a, c.Sub(a), g, p.ShoulderLength, geom.Guide{Lo: 0, Hi: 1, Prefer: 1})
	i := b.Resolve("I", ip, iOK, ip, "shoulder length does not meet the across-shoulder line")
	b.Mark(LayerMarkers, "I", i, "")
	fs(g, i, "Shoulder Length")

	b.On(LayerFront).Curve(fit.HandleCurve(d, i, geom.Pt(1.8, 0), geom.Pt(0, 1.8)), seam, "D-I Arc")

	perp := i.Sub(g).Normalize().Perp()
	iDrop, ok := geom.IntersectHorizontal(i, i.Add(perp), d.Y)
	if !ok {
		iDrop = i
	}
	fg(i, iDrop, guide, "Front Neck Guide 2")

	j := mark("J", geom.Pt(bb.X, h.Y))
	l := mark("L", geom.Pt(bb.X, d.Y+(j.Y-d.Y)*0.5))
	k := mark("K", geom.Pt(j.X+p.BustSpan+0.25, j.Y))
	kDrop := k.Move(0, 0.625)
	fg(k, kDrop, guide, "Dart Reduction")
	fg(j, k, ink, "Bust Span")

	m := mark("M", geom.Pt(l.X+p.AcrossChest+0.25, l.Y))
	fg(l, m, ink, "Across Chest")
	fg(m.Move(0, -2), m.Move(0, 1), guide, "Front Armhole Guide Line")

	fTop := geom.Pt(bb.X+p.DartPlacement, bb.Y)
	f := mark("F", fTop.Move(0, 0.1875))
	fg(fTop, f, ink, "Dart Placement Guide")
	fs(bb, f, "Front Waist Line 2")
	fs(kDrop, f, "K-F")

	n := mark("N", strapPoint(b, i, e, p.NewStrap+0.125))
	fg(i, n, ink, "New Strap")

	o := mark("O", geom.Pt(e.X, n.Y-p.SideLength))
	fg(n, o, ink, "Provisional Side Length")
	arc, ok := fit.InwardSegment(g, o, 0, false,
		fit.Handle{Ratio: &fit.Ratio{Tangent: 0.5295, Normal: 0.494}, Offset: geom.Pt(-0.15, 0)},
		fit.Handle{Ratio: &fit.Ratio{Tangent: -0.1495, Normal: 0.3325}},
	)
	if ok {
		b.On(LayerFront).Curve(arc, seam, "G-O Arc")
	} else {
		b.Warn(draft.Degenerate, "O", "armhole G-O has zero length")
	}

	// P: SideLength from O and the cup offset from N, nearest N shifted by the cup.
	cup := measure.CupOffset(p.BustCup)
	b.Derive("cupOffset", cup)
	pBase := n.Move(cup, 0)
	var pp geom.Point
	pOK := false
	if p.SideLength > 0 && o.Distance(n) > 0 {
		pp, pOK = geom.Nearest(geom.CircleIntersections(o, p.SideLength, n, cup), pBase)
	}
	pFallback := pBase
	if o.Distance(pBase) > 0 && p.SideLength > 0 {
		pFallback = geom.Resize(o, pBase, p.SideLength)
	}
	pt := b.Resolve("P", pp, pOK, pFallback, "side length and cup offset circles do not meet")
	fs(o, pt, "Side Length OP")
	b.Mark(LayerMarkers, "P", pt, "")

	// Q: waist arc remainder along P→F, then rescaled so K-Q matches K-F.
	q := geom.Resize(pt, f, p.WaistArc+0.25-math.Abs(fTop.X-bb.X))
	if kf := kDrop.Distance(f); kf > 0 {
		q = geom.Resize(kDrop, q, kf)
	}
	fs(kDrop, q, "KQ Equivalent")
	q = mark("Q", q)
	fs(pt, q, "Front Waist Line 1")

	b.Derive("frontWaist", bb.Distance(f)+pt.Distance(q))
}

// strapPoint finds N on the side guide (x = e.X, within 11in above e) at
// length from i, preferring the root nearest the waist.
func strapPoint(b *draft.Builder, i, e geom.Point, length float64) geom.Point {
	lo, hi := e.Y-11, e.Y
	within := func(y float64) bool { return y >= lo && y <= hi }
	dx := e.X - i.X
	sq := length*length - dx*dx
	dy := math.Sqrt(math.Max(0, sq))
	c1, c2 := i.Y+dy, i.Y-dy

	var y float64
	ok := sq >= 0
	switch {
	case within(c1) && within(c2):
		y = c1
		if math.Abs(c2-hi) < math.Abs(c1-hi) {
			y = c2
		}
	case within(c1):
		y = c1
	case within(c2):
		y = c2
	default:
		y = geom.Clamp(c2, lo, hi)
		ok = false
	}
	pt := geom.Pt(e.X, y)
	return b.Resolve("N", pt, ok, pt, "new strap does not reach the side guide")
}

func back(b *draft.Builder, p *Input) {
	mark := func(key, label string, pt geom.Point) geom.Point { return b.Mark(LayerMarkers, key, pt, label) }
	bg := func(a, c geom.Point, st draft.Stroke, name string) { b.On(LayerGuidesBack).Line(a, c, st, name) }
	bs := func(a, c geom.Point, name string) { b.On(LayerBack).Line(a, c, seam, name) }

	fl := p.FullLengthBack
	jOffset := p.WaistArcBack + 1.5 + 0.25
	origin := geom.Pt(-backOffset, 0)
	at := func(dx, dy float64) geom.Point { return geom.Pt(origin.X+dx, origin.Y+dy) }

	ba := mark("BA", "A", at(0, 0))
	bb := mark("BB", "B", at(0, fl))
	bg(ba, bb, ink, "Back Full Length")

	mark("BJ", "J", at(-jOffset, fl))
	bl := mark("BL", "L", at(-(p.DartPlacementBack+dartIntake/2), fl))
	bm := mark("BM", "M", at(-jOffset, fl+0.1875))
	bd := mark("BD", "D", at(0, fl-p.CentreBackLength))
	bs(bd, bb, "Centre Back")

	bc := mark("BC", "C", at(-p.AcrossShoulderBack, 0))
	bg(ba, bc, ink, "Back Across Shoulder")
	bg(bd, bd.Move(-4, 0), guide, "Back Neck Guide")
	bg(bc, bc.Move(0, 6), guide, "Back Shoulder Slope Guide")

	be := mark("BE", "E", at(-(p.BustArcBack+0.75), fl))
	bg(bb, be, ink, "Back Arc")
	eUp := at(-(p.BustArcBack + 0.75), fl-10)
	bg(be, eUp, ink, "Back Side Guide Line")

	bf := mark("BF", "F", at(-(p.BackNeck+0.125), 0))
	b.On(LayerBack).Curve(fit.ChordSegment(bd, bf, &bd,
		fit.Handle{Ratio: &fit.Ratio{Tangent: 0.5164137931, Normal: -0.1390344828}},
		fit.Handle{Ratio: &fit.Ratio{Tangent: -0.1807448276, Normal: -0.191337931}},
	), seam, "Back Neck Curve")

	// G: down the shoulder slope guide at ShoulderSlopeBack+1/8 from B,
	// preferring the lower root.
	gp, _, gOK := geom.QuadraticOnChord(bc, geom.Pt(0, 1), bb, p.ShoulderSlopeBack+0.125, geom.Guide{Lo: 0, Hi: 6, Prefer: 6})
	g := b.Resolve("BG", gp, gOK, gp, "back shoulder slope misses the slope guide")
	mark("BG", "G", g)
	bg(bb, g, ink, "Back Shoulder Slope")

	h := mark("BH", "H", bf.Toward(g, p.ShoulderLengthBack+0.5).Move(0.3, 0))
	bg(bf, h, ink, "Back Shoulder Length")

	bp := mark("BP", "", bf.Midpoint(h))
	u := bf.Dir(h)
	rBase := bp.Sub(u.Scale(0.25))
	aBase := bp.Add(u.Scale(0.25))

	np, nOK := geom.VerticalDrop(bm, be.X, p.SideLengthBack, false)
	if np.Y < eUp.Y {
		np.Y = eUp.Y
		nOK = false
	}
	n := b.Resolve("BN", np, nOK, np, "back side length does not reach the side guide")
	mark("BN", "N", n)
	bs(bm, n, "Back Side Length")
	b.On(LayerBack).Curve(fit.ChordSegment(h, n, &h,
		fit.Handle{Ratio: &fit.Ratio{Tangent: 0.5836719092, Normal: -0.3423131657}},
		fit.Handle{Ratio: &fit.Ratio{Tangent: -0.1240008345, Normal: -0.3063856393}},
	), seam, "Back Armhole Curve")

	o := mark("BO", "O", geom.Pt(bl.X, bl.Y-math.Max(0, n.Distance(bm)-1)))
	bg(bl, o, guide, "Back Dart Leg Guide")

	s := mark("BS", "S", at(0, fl-p.CentreBackLength+bb.Distance(bd)/4))
	tx := -(p.AcrossBack + 0.25)
	t := mark("BT", "T", at(tx, s.Y))
	bg(s, t, ink, "Across Back")
	bg(at(tx, t.Y-1), at(tx, t.Y+4), guide, "Back Armhole Guideline")

	i := mark("BI", "I", geom.Extend(o, at(-p.DartPlacementBack, fl), 0.125))
	k := mark("BK", "K", geom.Extend(o, at(-(p.DartPlacementBack+dartIntake), fl), 0.125))
	bs(bb, i, "Back Waist Line 1")
	bs(k, bm, "Back Waist Line 2")
	bg(bp, o, guide, "Back Dart Center Guide")
	bs(o, i, "Back Waist Dart Left Leg")
	bs(o, k, "Back Waist Dart Right Leg")

	q := mark("BQ", "Q", bp.Toward(o, 3))
	r := mark("BR", "R", geom.Extend(q, rBase, 0.125))
	a := mark("Ba", "a", geom.Extend(q, aBase, 0.125))
	bs(q, r, "Back Shoulder Dart Left Leg")
	bs(q, a, "Back Shoulder Dart Right Leg")
	bs(a, h, "Back Shoulder Line 2")
	bs(bf, r, "Back Shoulder Line 1")

	b.Derive("backWaist", bb.Distance(i)+k.Distance(bm))
	b.Derive("backShoulderDart", r.Distance(a))
}
