package draft

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
)

func TestFramePage(t *testing.T) {
	f := Frame{Origin: geom.Pt(575, 25), Scale: MMPerInch, MirrorX: true}
	p := f.Page(geom.Pt(1, 2))
	assert.InDelta(t, 549.6, p.X, 1e-9)
	assert.InDelta(t, 75.8, p.Y, 1e-9)

	f = Frame{Origin: geom.Pt(100, 500), Scale: MMPerCM, FlipY: true}
	assert.Equal(t, geom.Pt(110, 480), f.Page(geom.Pt(1, 2)))

	s := f.Shift(geom.Pt(5, 0))
	assert.Equal(t, geom.Pt(160, 480), s.Page(geom.Pt(1, 2)))
	assert.Equal(t, 50.0, f.Length(5))
}

func TestBuilderRecordsPointsAndBounds(t *testing.T) {
	b := NewBuilder("test", "cm", Frame{Scale: MMPerCM}, ShowAll)
	b.AddLayer(Layer{Name: "Frame", Toggle: HiddenWithGuides})
	labels := b.AddLayer(Layer{Name: "Labels", Toggle: HiddenWithMarkers})

	a := b.Set("A", geom.Pt(0, 0))
	c := b.Set("C", geom.Pt(3, 4))
	b.Line(a, c, Guide, "A-C")
	b.On(labels).Marker(c, "1")
	b.Set("A", geom.Pt(1, 1))

	d := b.Drawing()
	assert.Equal(t, []string{"A", "C"}, d.Order)
	assert.Equal(t, geom.Pt(1, 1), d.Points["A"])
	require.Len(t, d.Ops, 2)
	assert.Equal(t, "frame", d.Ops[0].Layer)
	assert.Equal(t, OpMarker, d.Ops[1].Kind)
	assert.Equal(t, "labels", d.Ops[1].Layer)

	assert.Equal(t, 0.0, d.Bounds.MinX)
	assert.InDelta(t, 40+MarkerRadius, d.Bounds.MaxY, 1e-9)
	assert.Empty(t, d.Warnings)
	assert.True(t, Validate(d).OK())
}

func TestBuilderNonFinite(t *testing.T) {
	b := NewBuilder("test", "cm", Frame{Scale: 1}, ShowAll)
	b.AddLayer(Layer{ID: "l", Name: "L"})
	bad := geom.Pt(math.NaN(), 0)
	b.Set("X", bad)
	b.Line(geom.Pt(0, 0), bad, Structural, "seam")
	b.Curve(fit.Line(geom.Pt(0, 0), geom.Pt(math.Inf(1), 0)), Structural, "curve")

	p := b.Resolve("Y", geom.Pt(0, 0), false, geom.Pt(2, 2), "no root")

	d := b.Drawing()
	assert.Equal(t, geom.Pt(2, 2), p)
	assert.NotContains(t, d.Points, "X")
	assert.Empty(t, d.Ops)
	kinds := make([]WarningKind, len(d.Warnings))
	for i, w := range d.Warnings {
		kinds[i] = w.Kind
	}
	assert.Equal(t, []WarningKind{NonFinite, NonFinite, NonFinite, Degenerate}, kinds)
	assert.Equal(t, "[degenerate] point Y: no root", d.Warnings[3].String())
}

func TestBuilderSetKeepsLastFinitePoint(t *testing.T) {
	b := NewBuilder("test", "cm", Frame{Scale: 1}, ShowAll)
	b.AddLayer(Layer{ID: "l", Name: "L"})

	assert.Equal(t, geom.Pt(0, 0), b.Set("X", geom.Pt(math.Inf(1), 1)))
	assert.Equal(t, geom.Pt(3, 4), b.Set("Y", geom.Pt(3, 4)))
	got := b.Set("Y", geom.Pt(math.NaN(), 0))
	assert.Equal(t, geom.Pt(3, 4), got)
	assert.True(t, got.IsFinite())

	m := b.Mark("l", "Z", geom.Pt(0, math.NaN()), "")
	assert.True(t, m.IsFinite())

	d := b.Drawing()
	assert.Equal(t, geom.Pt(3, 4), d.Points["Y"])
	assert.NotContains(t, d.Points, "X")
	assert.NotContains(t, d.Points, "Z")
	assert.Empty(t, d.Ops)
	require.Len(t, d.Warnings, 3)
	for _, w := range d.Warnings {
		assert.Equal(t, NonFinite, w.Kind)
	}
}

func TestBuilderSolvedWarnsOnConvergence(t *testing.T) {
	b := NewBuilder("test", "cm", Frame{Scale: 1}, ShowAll)
	c := b.Solved("armhole", fit.Solution{Curve: fit.Line(geom.Pt(0, 0), geom.Pt(1, 0)), Iterations: 30})
	assert.Equal(t, geom.Pt(1, 0), c.P3)
	d := b.Drawing()
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, Convergence, d.Warnings[0].Kind)
}

func TestLayerVisibility(t *testing.T) {
	d := &Drawing{Layers: []Layer{
		{ID: "foundation", Toggle: HiddenWithGuides},
		{ID: "foundation-front", Parent: "foundation"},
		{ID: "front"},
		{ID: "labels", Toggle: HiddenWithMarkers},
		{ID: "numbers", Parent: "labels", Numbers: true},
	}}
	noGuides := Visibility{ShowGuides: false, ShowMarkers: true}
	assert.True(t, d.LayerHidden("foundation-front", noGuides))
	assert.False(t, d.LayerHidden("front", noGuides))
	assert.False(t, d.LayerHidden("numbers", noGuides))
	assert.True(t, d.LayerHidden("numbers", Visibility{ShowGuides: true}))
	assert.False(t, d.LayerHidden("numbers", ShowAll))
	assert.Len(t, d.Children(""), 3)
	assert.Len(t, d.Children("labels"), 1)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "labels-and-markers", Slug("Labels & Markers", ""))
	assert.Equal(t, "aldrich-front-bodice", Slug("Front Bodice", "aldrich"))
	assert.Equal(t, "x", Slug("!!", "x"))
	assert.Equal(t, "layer", Slug("", ""))
}

func TestValidateFindings(t *testing.T) {
	d := &Drawing{
		Layers: []Layer{{ID: "a"}, {ID: "a"}, {ID: "b", Parent: "zzz"}},
		Ops: []Op{
			{Kind: OpSegment, Layer: "missing", P: [4]geom.Point{{X: 1}, {X: 2}}},
			{Kind: OpSegment, Layer: "a"},
			{Kind: OpMarker, Layer: "a", P: [4]geom.Point{{X: math.NaN()}}},
		},
		Warnings: []Warning{{Kind: Convergence, Message: "slow"}},
	}
	r := Validate(d)
	assert.False(t, r.OK())

	var msgs []string
	for _, f := range r.Errors {
		msgs = append(msgs, f.Error())
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "duplicate layer id")
	assert.Contains(t, joined, `unknown parent "zzz"`)
	assert.Contains(t, joined, "undeclared layer")
	assert.Contains(t, joined, "marker has non-finite coordinates")
	assert.Contains(t, joined, "no finite geometry")
	require.Len(t, r.Warnings, 2)
	assert.Equal(t, "zero-length segment", r.Warnings[0].Message)
}

type fakeInput struct{ vis Visibility }

func (f *fakeInput) Normalize() []string { return nil }
func (f *fakeInput) View() Visibility    { return f.vis }

type otherInput struct{ fakeInput }

type fakeMethod struct{}

func (fakeMethod) Key() string     { return "fake" }
func (fakeMethod) Title() string   { return "Fake" }
func (fakeMethod) Unit() string    { return "cm" }
func (fakeMethod) NewInput() Input { return &fakeInput{vis: ShowAll} }
func (m fakeMethod) Draft(in Input) (*Drawing, error) {
	if _, err := Cast[*fakeInput](m, in); err != nil {
		return nil, err
	}
	return &Drawing{}, nil
}

func TestCast(t *testing.T) {
	m := fakeMethod{}
	_, err := m.Draft(m.NewInput())
	require.NoError(t, err)

	_, err = m.Draft(&otherInput{})
	assert.ErrorIs(t, err, ErrInputType)
	assert.Contains(t, err.Error(), "fake: got *draft.otherInput")
}
