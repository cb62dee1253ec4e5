package dxf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdxf "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/render"
)

type fakeWriter struct {
	lines  []sdf.Line2
	points []v2.Vec
	saved  bool
}

func (f *fakeWriter) Line(l *sdf.Line2) { f.lines = append(f.lines, *l) }
func (f *fakeWriter) Points(s v2.VecSet, _ float64) {
	f.points = append(f.points, s...)
}
func (f *fakeWriter) Save() error { f.saved = true; return nil }

func sample(vis draft.Visibility) *draft.Drawing {
	b := draft.NewBuilder("sample", "cm", draft.Frame{Scale: draft.MMPerCM}, vis)
	b.AddLayer(draft.Layer{ID: "frame", Name: "Frame", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: "block", Name: "Block"})
	b.AddLayer(draft.Layer{ID: "labels", Name: "Labels", Toggle: draft.HiddenWithMarkers})
	a := b.Set("A", geom.Pt(0, 0))
	c := b.Set("C", geom.Pt(3, 4))
	b.On("frame").Line(a, c, draft.Guide, "guide")
	b.On("block").Curve(fit.Line(a, c), draft.Structural, "seam")
	b.Mark("labels", "A", a, "")
	b.On("labels").Letter(c, "C", draft.ColorInk)
	return b.Drawing()
}

func TestSinkExportsVisibleGeometry(t *testing.T) {
	f := &fakeWriter{}
	require.NoError(t, render.Emit(&Sink{w: f}, sample(draft.ShowAll)))
	assert.True(t, f.saved)
	assert.Len(t, f.lines, 1+curveSteps)
	assert.Len(t, f.points, 1)

	first := f.lines[0]
	assert.Equal(t, v2.Vec{X: 0, Y: 0}, first[0])
	assert.Equal(t, v2.Vec{X: 30, Y: -40}, first[1])

	last := f.lines[len(f.lines)-1][1]
	assert.InDelta(t, 30, last.X, 1e-9)
	assert.InDelta(t, -40, last.Y, 1e-9)
}

func TestSinkSkipsHiddenLayers(t *testing.T) {
	f := &fakeWriter{}
	require.NoError(t, render.Emit(&Sink{w: f}, sample(draft.Visibility{})))
	assert.Len(t, f.lines, curveSteps)
	assert.Empty(t, f.points)
}

func TestSinkSkipsHiddenSheets(t *testing.T) {
	f := &fakeWriter{}
	require.NoError(t, render.EmitStack(&Sink{w: f}, []render.Sheet{
		{ID: "a", Drawing: sample(draft.ShowAll)},
		{ID: "b", Drawing: sample(draft.ShowAll), Hidden: true},
	}))
	assert.Len(t, f.lines, 1+curveSteps)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.dxf")
	require.NoError(t, WriteFile(path, sample(draft.ShowAll)))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(got), "LINE"))
}

func TestSDFXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "direct.dxf")
	s := &Sink{w: sdxf.NewDXF(path)}
	require.NoError(t, render.Emit(s, sample(draft.Visibility{})))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, curveSteps, strings.Count(string(got), "0\nLINE\n"))
}
