package hofenbitzer

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
)

// CasualKey identifies the casual bodice method.
const CasualKey = "hofenbitzerCasual"

// Casual bodice layer ids.
const (
	LayerFrame       = "hofenbitzer-basic-frame"
	LayerFrontGuides = "hofenbitzer-front-guides"
	LayerBackGuides  = "hofenbitzer-back-guides"
	LayerBodiceLines = "hofenbitzer-casual-bodice-lines"
	LayerFront       = "hofenbitzer-front-bodice"
	LayerBack        = "hofenbitzer-back-bodice"
	LayerLabels      = "hofenbitzer-labels-and-markers"
	LayerMarkers     = "hofenbitzer-markers"
)

// Casual drafts the casual bodice, back on the right and front on the left
// of the centre-back line.
type Casual struct{}

var _ draft.Method = Casual{}

func (Casual) Key() string   { return CasualKey }
func (Casual) Title() string { return "Hofenbitzer's Casual Bodice" }
func (Casual) Unit() string  { return "cm" }

func (Casual) NewInput() draft.Input {
	in := CasualDefaults()
	return &in
}

// Draft implements draft.Method.
func (m Casual) Draft(di draft.Input) (*draft.Drawing, error) {
	in, err := draft.Cast[*CasualInput](m, di)
	if err != nil {
		return nil, err
	}
	p := *in
	replaced := p.Normalize()

	b := draft.NewBuilder(CasualKey, "cm", draft.Frame{
		Origin: geom.Pt(75, 50),
		Scale:  draft.MMPerCM,
	}, p.Visibility)
	b.SetMarkerStyle(numberMarker)
	draft.Normalized(b, replaced)

	b.AddLayer(draft.Layer{ID: LayerFrame, Name: "Hofenbitzer Basic Frame", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: LayerFrontGuides, Name: "Front Guides", Parent: LayerFrame})
	b.AddLayer(draft.Layer{ID: LayerBackGuides, Name: "Back Guides", Parent: LayerFrame})
	b.AddLayer(draft.Layer{ID: LayerBodiceLines, Name: "Hofenbitzer Casual Bodice Lines"})
	b.AddLayer(draft.Layer{ID: LayerFront, Name: "Hofenbitzer Front Bodice"})
	b.AddLayer(draft.Layer{ID: LayerBack, Name: "Hofenbitzer Back Bodice"})
	b.AddLayer(draft.Layer{ID: LayerLabels, Name: "Hofenbitzer Labels & Markers", Toggle: draft.HiddenWithMarkers})
	b.AddLayer(draft.Layer{ID: LayerMarkers, Name: "Markers", Parent: LayerLabels})

	c := &casual{b: b, in: &p}
	c.frame()
	c.across()
	c.backShoulder()
	c.hips()
	c.front()
	c.armholes()
	c.lines()
	c.report()
	return b.Drawing(), nil
}

// casual carries the state of one casual bodice pass. Method y grows
// downward and the front lies at negative x.
type casual struct {
	b  *draft.Builder
	in *CasualInput

	hemY, waistY, hipY float64
	backShoulderEnd    geom.Point
	frontArmhole       fit.Solution
	backArmhole        fit.Solution
	hipShortage        float64
}

func (c *casual) pt(key string) geom.Point { return c.b.Get(key) }

func (c *casual) num(key string, p geom.Point) geom.Point {
	return c.b.Mark(LayerMarkers, key, p, "")
}

func (c *casual) line(layer string, a, e geom.Point, st draft.Stroke, name string) {
	c.b.On(layer).Line(a, e, st, name)
}

// horizontal intersects line ab with y, falling back to a's x.
func (c *casual) horizontal(key string, a, e geom.Point, y float64) geom.Point {
	p, ok := geom.IntersectHorizontal(a, e, y)
	return c.b.Resolve(key, p, ok, geom.Pt(a.X, y), "line is horizontal")
}

func (c *casual) frame() {
	in := c.in
	neck := math.Max(minHandleCM, in.NeG/2)

	p1 := c.num("1", geom.Pt(0, 0))
	p1a := c.num("1a", geom.Pt(-(in.NeG + 0.5), 0))
	p2 := c.num("2", geom.Pt(0, in.NeG/3+1))
	c.b.On(LayerBack).Curve(fit.Cubic{
		P0: p1a,
		P1: p1a.Move(0.6, neck),
		P2: p2.Move(-neck, 0),
		P3: p2,
	}, solid, "Back Neckline")

	p3 := c.num("3", p2.Move(0, in.MoL))
	p4 := c.num("4", p2.Move(0, in.AhD.Final()))
	p5 := c.num("5", p2.Move(0, in.BL.Final()))
	p6 := c.num("6", geom.Pt(0, p5.Y+in.HiD))
	p6a := c.num("6a", p6.Move(-hipLeftOffsetCM, 0))
	c.hemY, c.waistY, c.hipY = p3.Y, p5.Y, p6.Y

	c.num("9", c.horizontal("9", p2, p6a, p4.Y))
	c.num("7", c.horizontal("7", p2, p6a, p5.Y))
	c.num("8", c.horizontal("8", p2, p6a, p3.Y))

	c.line(LayerFrame, p1, p3, dashed, "Frame Centre")
	c.line(LayerFrame, p4.Move(-100, 0), p4, dashed, "Armhole Depth Line")
	c.line(LayerFrame, p5.Move(-100, 0), p5, dashed, "Waist Line")
	c.line(LayerFrame, p6.Move(-100, 0), p6, dashed, "Hip Line")
	c.line(LayerFrame, p3.Move(-100, 0), p3, dashed, "Hem Line")
}

func (c *casual) across() {
	in := c.in
	p9 := c.pt("9")
	ag := in.AG.Final()

	p10 := c.num("10", p9.Move(-in.BG.Final(), 0))
	p11 := c.num("11", p10.Move(-2*ag/3, 0))
	p12 := c.num("12", p11.Move(-15, 0))
	p13 := c.num("13", p12.Move(-ag/3, 0))
	c.num("13a", p13.Move(0, -ag/4))
	p14 := c.num("14", p13.Move(-in.BrG.Final(), 0))

	c.line(LayerBackGuides, geom.Pt(p10.X, 0), p10, dashed, "Back Width Line")
	c.line(LayerBackGuides, geom.Pt(p11.X, 0), p11, dashed, "Back Armhole Line")
	c.line(LayerFrontGuides, geom.Pt(p13.X, 0), p13, dashed, "Front Armhole Line")
	c.line(LayerFrontGuides, geom.Pt(p14.X, 0), geom.Pt(p14.X, c.hemY), dashed, "Front Centre Guide")
}

func (c *casual) backShoulder() {
	in := c.in
	p1a, p10 := c.pt("1a"), c.pt("10")
	angle := (in.ShA - in.ShoulderDifference) * math.Pi / 180
	dir := geom.Pt(-math.Cos(angle), math.Sin(angle))

	length := in.ShG.Final() + in.BackShoulderEase
	reach := length
	if math.Abs(dir.X) > geom.ParallelEps {
		reach = (p10.X - p1a.X) / dir.X
	}
	c.backShoulderEnd = c.b.Set("backShoulderEnd", p1a.Add(dir.Scale(math.Max(length, reach))))
	c.b.On(LayerBack).Line(p1a, c.backShoulderEnd, solid, "Back Shoulder")

	// 16 needs the shoulder line to reach the back width line ahead of 1a.
	p16 := p10
	if reach >= 0 {
		p16 = c.num("16", geom.Pt(p10.X, p1a.Y+dir.Y*reach))
	} else {
		c.b.Warn(draft.Degenerate, "16", "back shoulder slopes away from the back width line")
	}
	p17 := c.num("17", p16.Midpoint(p10).Move(-1, 0))
	p17a := c.num("17a", p17.Midpoint(p10).Move(-1.5, 0))
	c.num("18", geom.Pt(c.pt("13").X, p17a.Y))
}

func (c *casual) hips() {
	in := c.in
	p2, p6a, p11, p12, p14 := c.pt("2"), c.pt("6a"), c.pt("11"), c.pt("12"), c.pt("14")
	slant := p11.Add(p6a.Sub(p2))

	c.num("25", c.horizontal("25", p11, slant, c.hemY))
	p28 := c.num("28", c.horizontal("28", p11, slant, c.hipY))
	p26 := c.num("26", geom.Pt(p11.X, c.hipY))
	p27 := c.num("27", geom.Pt(p12.X, c.hipY))
	p19a := c.num("19a", geom.Pt(p14.X, c.hipY))
	c.num("19", geom.Pt(p14.X, c.waistY))

	spanBack := p6a.Distance(p26)
	spanFront := p19a.Distance(p27)
	hiG := spanBack + spanFront
	halfHiW := in.HiC.Final() / 2
	c.hipShortage = hiG - halfHiW
	c.b.Derive("hipSpanBack", spanBack)
	c.b.Derive("hipSpanFront", spanFront)
	c.b.Derive("hiG", hiG)
	c.b.Derive("halfHiW", halfHiW)
	c.b.Derive("hipShortage", c.hipShortage)

	shift := math.Abs(c.hipShortage / 2)
	c.num("29", geom.Pt(p27.X+sign(p27.X-p14.X, -1)*shift, c.hipY))
	c.num("30", geom.Pt(p28.X+sign(p28.X-p11.X, 1)*shift, c.hipY))
}

func sign(v, def float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return def
}

func (c *casual) front() {
	in := c.in
	neck := math.Max(minHandleCM, in.NeG/2)

	p19 := c.pt("19")
	p20 := c.num("20", p19.Move(0, -(in.FL.Final() - 1)))
	p20a := c.num("20a", p20.Move(in.NeG, 0))
	p23 := c.num("23", p20.Move(0, in.NeG+0.5))

	d := p23.Sub(p20a)
	n := geom.Pt(-d.Y, d.X).Normalize()
	ctrl1 := p20a.Add(d.Scale(1.0 / 3)).Add(n.Scale(-neck)).Move(-0.4, 0)
	c.b.On(LayerFront).Curve(fit.Cubic{P0: p20a, P1: ctrl1, P2: p23.Move(neck, 0), P3: p23}, solid, "Front Neckline")

	angle := (in.ShA + in.ShoulderDifference) * math.Pi / 180
	p24 := c.num("24", p20a.Add(geom.Pt(math.Cos(angle), math.Sin(angle)).Scale(in.ShG.Final())))
	c.b.On(LayerFront).Line(p20a, p24, solid, "Front Shoulder")

	p21 := c.num("21", geom.Pt(p20.X, p20.Y+in.BrD-1))
	c.num("22", p21.Move(in.BrG.Final()/2-0.3, 0))
}

func (c *casual) armholes() {
	p4, p11, p12, p13a, p14 := c.pt("4"), c.pt("11"), c.pt("12"), c.pt("13a"), c.pt("14")
	p17, p17a, p20a, p24 := c.pt("17"), c.pt("17a"), c.pt("20a"), c.pt("24")

	perp := p24.Sub(p20a).Perp().Normalize()
	if p13a.Sub(p24).Dot(perp) < 0 {
		perp = perp.Scale(-1)
	}
	c.frontArmhole = fit.Solve(fit.Through{
		P0:      p24,
		P1:      p24.Add(perp.Scale(math.Max(p12.Distance(p24)*0.45, 1.2))),
		P3:      p12,
		Dir:     p14.Sub(p12),
		Target:  p13a,
		Handle:  math.Max(p14.Distance(p12)*0.5, minHandleCM),
		MaxIter: 25,
		Tol:     0.0005,
		DetEps:  1e-6,
	})
	c.b.On(LayerFront).Curve(c.b.Solved("13a", c.frontArmhole), solid, "Front Armhole")

	bse := c.backShoulderEnd
	start := bse.Sub(c.pt("1a")).Perp().Normalize()
	if p17.Sub(bse).Dot(start) < 0 {
		start = start.Scale(-1)
	}
	reach := geom.Clamp(math.Min(bse.Distance(p17)*0.35, 5), minHandleCM, 5)
	midOut := p17a.Move(1, 0)
	midIn := p17.Scale(2).Sub(midOut)
	c.b.On(LayerBack).Curve(fit.Cubic{P0: bse, P1: bse.Add(start.Scale(reach)), P2: midIn, P3: p17}, solid, "Back Armhole Upper")

	c.backArmhole = fit.Solve(fit.Through{
		P0:      p17,
		P1:      midOut,
		P3:      p11,
		Dir:     p4.Sub(p11),
		Target:  p17a,
		Handle:  math.Max(p17a.Distance(p11), minHandleCM),
		MaxIter: 30,
		Tol:     0.0003,
		DetEps:  1e-8,
	})
	c.b.On(LayerBack).Curve(c.b.Solved("17a", c.backArmhole), solid, "Back Armhole Lower")
}

func (c *casual) lines() {
	p2, p6a, p7, p8 := c.pt("2"), c.pt("6a"), c.pt("7"), c.pt("8")
	p9, p11, p12, p14 := c.pt("9"), c.pt("11"), c.pt("12"), c.pt("14")
	p17, p19, p19a, p22 := c.pt("17"), c.pt("19"), c.pt("19a"), c.pt("22")
	p23, p29, p30 := c.pt("23"), c.pt("29"), c.pt("30")

	// back
	c.b.On(LayerBack).Polyline(solid, "Centre Back (CB)", p2, p7, p8)
	if g, ok := geom.LineIntersection(p17, p17.Move(1, 0), p2, p6a, geom.ParallelEps); ok {
		c.line(LayerBackGuides, p17, g, dashed, "Back Blade Line")
	}
	c.line(LayerBackGuides, p11, p9, dashed, "Back Bust Line")
	if c.b.Has("16") {
		c.line(LayerBackGuides, c.pt("16"), p17, dashed, "Back Arm Line")
	}

	backHem := c.horizontal("30Hem", p11, p30, c.hemY)
	backWaist := c.horizontal("30Waist", p11, p30, c.waistY)
	c.line(LayerBack, p11, backHem, solid, "Back Side Line")
	c.line(LayerBodiceLines, p30, geom.FootOnLine(p30, p2, p6a), dashed, "Back Hip Line")
	c.line(LayerBack, backHem, geom.FootOnLine(backHem, p2, p6a), solid, "Back Hem Line")
	c.line(LayerBodiceLines, backWaist, geom.FootOnLine(backWaist, p2, p6a), dashed, "Back Waist Line")

	// front
	frontHem := c.horizontal("29Hem", p12, p29, c.hemY)
	frontWaist := c.horizontal("29Waist", p12, p29, c.waistY)
	c.line(LayerFront, p12, frontHem, solid, "Front Side Line")
	c.line(LayerFront, p23, geom.Pt(p14.X, c.hemY), solid, "Centre Front (CF)")
	c.line(LayerFront, geom.Pt(p14.X, c.hemY), frontHem, solid, "Front Hem Line")
	c.line(LayerBodiceLines, p19, frontWaist, dashed, "Front Waist Line")
	c.line(LayerBodiceLines, p19a, p29, dashed, "Front Hip Width")
	c.line(LayerFrontGuides, geom.Pt(p22.X, c.pt("24").Y), geom.Pt(p22.X, c.hemY), dashed, "Front Dart Line")
	c.line(LayerFrame, geom.Pt(p14.X, c.hemY), geom.Pt(0, c.hemY), dashed, "Full Hem Line")
}

func (c *casual) report() {
	c.b.Derive("frontArmholeResidual", c.frontArmhole.Residual)
	c.b.Derive("backArmholeResidual", c.backArmhole.Residual)
	c.b.Derive("frontArmholeHandle", c.frontArmhole.Handle)
	c.b.Derive("backArmholeHandle", c.backArmhole.Handle)
}
