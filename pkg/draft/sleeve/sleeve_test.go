package sleeve

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/measure"
)

func drawSleeve(t *testing.T, mutate func(*Input)) *draft.Drawing {
	t.Helper()
	in := Defaults()
	if mutate != nil {
		mutate(&in)
	}
	d, err := Method{}.Draft(&in)
	require.NoError(t, err)
	return d
}

func opNamed(d *draft.Drawing, layer, name string) (draft.Op, bool) {
	for _, o := range d.OpsOn(layer) {
		if o.Name == name {
			return o, true
		}
	}
	return draft.Op{}, false
}

func TestSleeveDerivedLengths(t *testing.T) {
	in := Defaults()
	d := in.Resolve()
	assert.InDelta(t, 43.5, d.AhC, 1e-12)
	assert.InDelta(t, 1.305, d.CapEase, 1e-12)
	assert.InDelta(t, 44.805, d.CapC, 1e-12)
	assert.InDelta(t, 37, d.CapLine, 1e-12)
	assert.InDelta(t, 22, d.HeW, 1e-12)
	assert.InDelta(t, 19.33825, d.R3, 1e-9)
	assert.InDelta(t, 24.16175, d.R4, 1e-9)

	in.AhC = measure.F(50, 2)
	d = in.Resolve()
	assert.InDelta(t, 52, d.AhCC, 1e-12)
	assert.InDelta(t, 1.56, d.CapEase, 1e-12)

	in.CapLineEase = -40
	assert.Equal(t, 1.0, in.Resolve().CapLine)
}

func TestSleeveCapHeight(t *testing.T) {
	d := drawSleeve(t, nil)
	assert.Empty(t, d.Warnings)
	assert.True(t, draft.Validate(d).OK())

	p4 := d.Points["4"]
	assert.InDelta(t, 15.66456, p4.X, 1e-4)
	assert.InDelta(t, 11.33972, p4.Y, 1e-4)
	assert.InDelta(t, d.Derived["r3"], p4.Distance(d.Points["1"]), 1e-6)
	assert.InDelta(t, d.Derived["r4"], p4.Distance(d.Points["2"]), 1e-6)

	// The arc keeps its length and splits 3:2 about 4.
	anchor := math.Atan2(p4.Y, p4.X)
	start, end := d.Derived["arcStart"], d.Derived["arcEnd"]
	assert.InDelta(t, 0.212905, start, 1e-5)
	assert.InDelta(t, 1.247125, end, 1e-5)
	assert.InDelta(t, 1.5, (end-anchor)/(anchor-start), 1e-9)
	assert.InDelta(t, 20, (end-start)*d.Derived["r3"], 1e-9)
	assert.InDelta(t, d.Derived["r3"], d.Points["3"].Len(), 1e-9)
}

func TestSleeveBody(t *testing.T) {
	d := drawSleeve(t, nil)
	pt := d.Points
	p4 := pt["4"]

	assert.InDelta(t, p4.Y-60, pt["5"].Y, 1e-9)
	assert.InDelta(t, p4.Y-36, pt["6"].Y, 1e-9)
	assert.Equal(t, geom.Pt(0, pt["5"].Y), pt["7"])
	assert.Equal(t, geom.Pt(37, pt["6"].Y), pt["10"])
	assert.InDelta(t, 7.5, pt["16"].X, 1e-9)
	assert.InDelta(t, 29.5, pt["17"].X, 1e-9)

	hem, ok := opNamed(d, LayerBlock, "Hem Line")
	require.True(t, ok)
	assert.Equal(t, draft.Solid, hem.Stroke.Style)

	// Elbow and width lines end on the seams at their heights.
	top := draft.PageMargin + d.Derived["r3"]*draft.MMPerCM
	for name, y := range map[string]float64{
		"Elbow Line":   pt["6"].Y,
		"Sleeve Width": (pt["6"].Y + p4.Y) / 2,
	} {
		o, ok := opNamed(d, LayerBlock, name)
		require.True(t, ok, name)
		assert.Less(t, o.P[0].X, o.P[1].X, name)
		assert.InDelta(t, top-y*draft.MMPerCM, o.P[0].Y, 1e-6, name)
		assert.InDelta(t, top-y*draft.MMPerCM, o.P[1].Y, 1e-6, name)
	}
	assert.Greater(t, d.Derived["SleeveWidth"], d.Derived["ElbowWidth"])
	assert.Less(t, d.Derived["ElbowWidth"], 37.0)
}

func TestSleeveCapMarkers(t *testing.T) {
	d := drawSleeve(t, nil)
	pt := d.Points
	p4 := pt["4"]
	assert.InDelta(t, p4.X-37.0/8, pt["11"].X, 1e-9)
	assert.InDelta(t, p4.X+37.0/5, pt["12"].X, 1e-9)
	assert.InDelta(t, 37-37.0/14, pt["13"].X, 1e-9)
	assert.InDelta(t, 37.0/12, pt["14"].X, 1e-9)

	// a and b are the feet of 11 and 12 on the front and back lines.
	assert.InDelta(t, 0, p4.Cross(pt["a"]), 1e-9)
	assert.InDelta(t, 0, pt["11"].Sub(pt["a"]).Dot(p4), 1e-9)

	x := pt["X"]
	assert.InDelta(t, 31.3854, x.X, 1e-4)
	assert.InDelta(t, 2.9841, x.Y, 1e-4)
	assert.InDelta(t, 0, p4.Sub(pt["2"]).Cross(x.Sub(pt["2"])), 1e-9)
}

func TestSleeveCapCurves(t *testing.T) {
	d := drawSleeve(t, nil)
	for _, name := range []string{"Front Cap Lower", "Front Cap Upper", "Back Cap Lower", "Back Cap Upper"} {
		_, onCap := opNamed(d, LayerCap, name)
		_, onBlock := opNamed(d, LayerBlock, name)
		assert.True(t, onCap && onBlock, name)
	}
	upper, _ := opNamed(d, LayerBlock, "Front Cap Upper")
	back, _ := opNamed(d, LayerBlock, "Back Cap Upper")
	// Both caps arrive at 4 horizontally from their own side.
	assert.InDelta(t, upper.P[3].Y, upper.P[2].Y, 1e-9)
	assert.Less(t, upper.P[2].X, upper.P[3].X)
	assert.InDelta(t, back.P[3].Y, back.P[2].Y, 1e-9)
	assert.Greater(t, back.P[2].X, back.P[3].X)

	front, rear := d.Derived["frontCapLength"], d.Derived["backCapLength"]
	assert.Greater(t, rear, front)
	assert.InDelta(t, front+rear-43.5, d.Derived["capEaseRealized"], 1e-9)
}

func TestSleeveNotches(t *testing.T) {
	d := drawSleeve(t, nil)
	pt := d.Points
	require.Contains(t, pt, "Front Cap Notch")
	require.Contains(t, pt, "Back Cap Notch")
	require.Contains(t, pt, "Back Cap Notch Upper")

	// The chord never exceeds the distance along the curve.
	f := pt["Front Cap Notch"].Len()
	assert.LessOrEqual(t, f, 4.5+1e-9)
	assert.Greater(t, f, 4.0)
	b := pt["Back Cap Notch"].Distance(pt["2"])
	assert.LessOrEqual(t, b, 8.6+1e-9)
	assert.Greater(t, pt["Back Cap Notch Upper"].Distance(pt["2"]), b)

	o, ok := opNamed(d, LayerBlock, "Front Cap Notch")
	require.True(t, ok)
	assert.InDelta(t, 0.5, o.P[0].Distance(o.P[1])/draft.MMPerCM, 1e-9)

	none := drawSleeve(t, func(in *Input) { in.FAP = 0 })
	assert.NotContains(t, none.Points, "Front Cap Notch")
}

func TestSleeveCirclesMiss(t *testing.T) {
	d := drawSleeve(t, func(in *Input) { in.BAh = measure.F(80, 0) })
	require.NotEmpty(t, d.Warnings)
	assert.Equal(t, draft.Degenerate, d.Warnings[0].Kind)
	assert.Equal(t, "4", d.Warnings[0].Point)
	assert.Contains(t, d.Points, "4")
	assert.True(t, draft.Validate(d).OK())
}

func TestSleeveHemFallback(t *testing.T) {
	d := drawSleeve(t, func(in *Input) { in.WrC = measure.F(-6, 0) })
	assert.Len(t, d.Warnings, 2)
	assert.Equal(t, d.Points["7"], d.Points["16"])
	assert.Equal(t, d.Points["8"], d.Points["17"])
}

func TestSleeveNormalize(t *testing.T) {
	ref := drawSleeve(t, nil)
	d := drawSleeve(t, func(in *Input) {
		in.AL.Measurement = math.NaN()
		in.BAP = math.Inf(-1)
	})
	assert.Equal(t, ref.Points, d.Points)
	require.Len(t, d.Warnings, 2)
	for _, w := range d.Warnings {
		assert.Equal(t, draft.NonFinite, w.Kind)
	}
}

func TestSleeveDeterministicAndVisibility(t *testing.T) {
	a := drawSleeve(t, nil)
	b := drawSleeve(t, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("drafts differ (-first +second):\n%s", diff)
	}

	hidden := drawSleeve(t, func(in *Input) { in.ShowMarkers = false; in.ShowGuides = false })
	assert.True(t, hidden.LayerHidden(LayerMarkers, hidden.Visibility))
	assert.True(t, hidden.LayerHidden(LayerText, hidden.Visibility))
	assert.True(t, hidden.LayerHidden(LayerFrame, hidden.Visibility))
	assert.True(t, hidden.LayerHidden(LayerCap, hidden.Visibility))
	assert.False(t, hidden.LayerHidden(LayerBlock, hidden.Visibility))
}

func TestSleeveRejectsForeignInput(t *testing.T) {
	_, err := Method{}.Draft(&measureless{})
	assert.ErrorIs(t, err, draft.ErrInputType)
}

type measureless struct{}

func (*measureless) Normalize() []string    { return nil }
func (*measureless) View() draft.Visibility { return draft.ShowAll }
