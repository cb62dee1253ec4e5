package hofenbitzer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

func drawCasual(t *testing.T, mutate func(*CasualInput)) *draft.Drawing {
	t.Helper()
	in := CasualDefaults()
	if mutate != nil {
		mutate(&in)
	}
	d, err := Casual{}.Draft(&in)
	require.NoError(t, err)
	return d
}

func TestCasualDefaultsUseFit3(t *testing.T) {
	in := CasualDefaults()
	assert.Equal(t, "Fit 3", in.Profile)
	assert.InDelta(t, 21.4, in.AhD.Final(), 1e-12)
	assert.InDelta(t, 94, in.BrC.Final(), 1e-12)
	assert.Equal(t, 0.0, in.BL.Ease)
	assert.Equal(t, 0.0, in.FL.Ease)
}

func TestCasualUseProfile(t *testing.T) {
	in := CasualDefaults()
	require.NoError(t, in.UseProfile(measure.DefaultProfiles(), "Fit 0"))
	assert.InDelta(t, 20.35, in.AhD.Final(), 1e-12)
	assert.Equal(t, "Fit 0", in.Profile)

	err := in.UseProfile(measure.DefaultProfiles(), "Fit 9")
	assert.ErrorIs(t, err, measure.ErrUnknownProfile)
	assert.Equal(t, "Fit 0", in.Profile)
}

func TestCasualFrame(t *testing.T) {
	d := drawCasual(t, nil)
	pt := d.Points

	assert.Equal(t, -7.0, pt["1a"].X)
	assert.InDelta(t, -0.6948, pt["9"].X, 1e-4)
	assert.InDelta(t, -17.6948, pt["10"].X, 1e-4)
	assert.InDelta(t, -24.8948, pt["11"].X, 1e-4)
	assert.InDelta(t, -39.8948, pt["12"].X, 1e-4)
	assert.InDelta(t, -43.4948, pt["13a"].X, 1e-4)
	assert.InDelta(t, 21.8667, pt["13a"].Y, 1e-4)
	assert.InDelta(t, -62.6948, pt["14"].X, 1e-4)

	assert.InDelta(t, -62.6948, pt["20"].X, 1e-4)
	assert.InDelta(t, 0.4667, pt["20"].Y, 1e-4)
	assert.InDelta(t, -44.605, pt["24"].X, 1e-3)
	assert.InDelta(t, 5.149, pt["24"].Y, 1e-3)

	// 9, 7 and 8 lie on the slanted centre back.
	for _, k := range []string{"9", "7", "8"} {
		p := pt[k]
		assert.InDelta(t, -2*(p.Y-pt["2"].Y)/(pt["6a"].Y-pt["2"].Y), p.X, 1e-9, k)
	}
}

func TestCasualHipBalance(t *testing.T) {
	d := drawCasual(t, nil)
	assert.InDelta(t, 22.8948, d.Derived["hipSpanBack"], 1e-4)
	assert.InDelta(t, 22.8, d.Derived["hipSpanFront"], 1e-9)
	assert.InDelta(t, 51, d.Derived["halfHiW"], 1e-12)
	assert.InDelta(t, -5.3052, d.Derived["hipShortage"], 1e-4)

	// Both side points move outward by half the shortage.
	half := math.Abs(d.Derived["hipShortage"]) / 2
	assert.InDelta(t, half, d.Points["29"].X-d.Points["27"].X, 1e-9)
	assert.InDelta(t, -half, d.Points["30"].X-d.Points["28"].X, 1e-9)
}

func TestCasualArmholesPassThroughTargets(t *testing.T) {
	d := drawCasual(t, nil)
	assert.Empty(t, d.Warnings)
	assert.Less(t, d.Derived["frontArmholeResidual"], 1e-3)
	assert.Less(t, d.Derived["backArmholeResidual"], 1e-3)
	assert.InDelta(t, 4.3, d.Derived["frontArmholeHandle"], 0.1)
	assert.InDelta(t, 3.07, d.Derived["backArmholeHandle"], 0.1)

	var found int
	for _, o := range d.Ops {
		switch o.Name {
		case "Front Armhole":
			found++
			// arrives at 12 horizontally from the centre front side
			assert.InDelta(t, o.P[3].Y, o.P[2].Y, 1e-9)
			assert.Less(t, o.P[2].X, o.P[3].X)
		case "Back Armhole Lower":
			found++
			assert.InDelta(t, o.P[3].Y, o.P[2].Y, 1e-9)
			assert.Greater(t, o.P[2].X, o.P[3].X)
		}
	}
	assert.Equal(t, 2, found)
}

func TestCasualBackArmholeIsSmoothAt17(t *testing.T) {
	d := drawCasual(t, nil)
	var upper, lower draft.Op
	for _, o := range d.Ops {
		switch o.Name {
		case "Back Armhole Upper":
			upper = o
		case "Back Armhole Lower":
			lower = o
		}
	}
	require.Equal(t, draft.OpCurve, upper.Kind)
	require.Equal(t, draft.OpCurve, lower.Kind)
	assert.Equal(t, upper.P[3], lower.P[0])
	in := upper.P[3].Sub(upper.P[2])
	out := lower.P[1].Sub(lower.P[0])
	assert.InDelta(t, 0, in.Cross(out), 1e-6)
}

func TestCasualNonFiniteFallsBack(t *testing.T) {
	ref := drawCasual(t, nil)
	d := drawCasual(t, func(in *CasualInput) {
		in.NeG = math.Inf(1)
		in.AhD.Ease = math.NaN()
	})
	assert.Equal(t, ref.Points, d.Points)
	require.Len(t, d.Warnings, 2)
	for _, w := range d.Warnings {
		assert.Equal(t, draft.NonFinite, w.Kind)
	}
}

func TestCasualBackShoulderPastWidthLine(t *testing.T) {
	d := drawCasual(t, func(in *CasualInput) { in.ShA = 120 })
	assert.NotContains(t, d.Points, "16")
	assert.Contains(t, d.Points, "17")
	var found bool
	for _, w := range d.Warnings {
		if w.Point == "16" {
			found = true
			assert.Equal(t, draft.Degenerate, w.Kind)
		}
	}
	assert.True(t, found, "warnings: %v", d.Warnings)
	for _, op := range d.Ops {
		assert.NotEqual(t, "Back Arm Line", op.Name)
	}
}

func TestCasualLayersAndVisibility(t *testing.T) {
	a := drawCasual(t, nil)
	b := drawCasual(t, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("drafts differ (-first +second):\n%s", diff)
	}

	hidden := drawCasual(t, func(in *CasualInput) { in.ShowGuides = false })
	assert.Equal(t, a.Ops, hidden.Ops)
	assert.True(t, hidden.LayerHidden(LayerFrontGuides, hidden.Visibility))
	assert.True(t, hidden.LayerHidden(LayerBackGuides, hidden.Visibility))
	assert.False(t, hidden.LayerHidden(LayerMarkers, hidden.Visibility))
	assert.False(t, hidden.LayerHidden(LayerFront, hidden.Visibility))
	assert.True(t, draft.Validate(a).OK())
}

func TestCasualRejectsForeignInput(t *testing.T) {
	_, err := Casual{}.Draft(&SkirtInput{})
	assert.ErrorIs(t, err, draft.ErrInputType)
}
