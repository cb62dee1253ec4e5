package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft/aldrich"
	"github.com/chazu/patternhub/pkg/draft/hofenbitzer"
	"github.com/chazu/patternhub/pkg/draft/sleeve"
	"github.com/chazu/patternhub/pkg/measure"
)

func patch(t *testing.T, src string) *Patch {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(src)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	return p
}

func TestApplyPlainFields(t *testing.T) {
	in := aldrich.Defaults()
	p := patch(t, `(value :bust 96) (value :reducedDarting true) (value :showMarkers false)`)
	require.NoError(t, p.Apply(&in, nil))
	assert.Equal(t, 96.0, in.Bust)
	assert.True(t, in.ReducedDarting)
	assert.False(t, in.ShowMarkers)
	assert.True(t, in.ShowGuides)
	assert.Equal(t, 68.0, in.Waist)
}

func TestApplyMeasurementAndEase(t *testing.T) {
	in := sleeve.Defaults()
	p := patch(t, `(measurement :upAC 30) (ease :WrC 4.5) (value "fAh.ease" 1)`)
	require.NoError(t, p.Apply(&in, nil))
	assert.Equal(t, measure.F(30, 9), in.UpAC)
	assert.Equal(t, measure.F(16, 4.5), in.WrC)
	assert.Equal(t, 1.0, in.FAh.Ease)
	assert.Equal(t, 19.6, in.FAh.Measurement)
}

func TestApplyProfileThenEase(t *testing.T) {
	in := hofenbitzer.CasualDefaults()
	require.Equal(t, 6.0, in.BrC.Ease)

	p := patch(t, `(measurement :BrC 88) (profile "Fit 1") (ease :WaC 4)`)
	require.NoError(t, p.Apply(&in, measure.DefaultProfiles()))
	assert.Equal(t, "Fit 1", in.Profile)
	assert.Equal(t, 2.0, in.BrC.Ease)
	assert.Equal(t, 90.0, in.BrC.Final())
	assert.Equal(t, 4.0, in.WaC.Ease)
}

func TestApplyDartOverride(t *testing.T) {
	in := hofenbitzer.SkirtDefaults()
	require.NoError(t, patch(t, `(override :frontDart 1.5)`).Apply(&in, nil))
	assert.True(t, in.FrontDart.Override)
	assert.Equal(t, 1.5, in.FrontDart.Width)

	require.NoError(t, patch(t, `(auto :frontDart)`).Apply(&in, nil))
	assert.False(t, in.FrontDart.Override)
	assert.Equal(t, 1.5, in.FrontDart.Width)
}

func TestApplyErrors(t *testing.T) {
	in := hofenbitzer.SkirtDefaults()

	err := patch(t, `(value :chest 90)`).Apply(&in, nil)
	assert.ErrorIs(t, err, ErrUnknownField)

	err = patch(t, `(ease :nothing 1)`).Apply(&in, nil)
	assert.ErrorIs(t, err, ErrUnknownField)

	err = patch(t, `(profile "Fit 2")`).Apply(&in, nil)
	assert.ErrorIs(t, err, ErrNoProfiles)

	err = patch(t, `(value :WaC "wide")`).Apply(&in, nil)
	assert.Error(t, err)

	casual := hofenbitzer.CasualDefaults()
	err = patch(t, `(profile "Fit 99")`).Apply(&casual, nil)
	assert.ErrorIs(t, err, measure.ErrUnknownProfile)
}

func TestApplyNilPatch(t *testing.T) {
	var p *Patch
	in := aldrich.Defaults()
	assert.NoError(t, p.Apply(&in, nil))
	assert.Equal(t, 0, p.Len())
}
