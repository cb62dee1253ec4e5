package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/render"
)

func sample(vis draft.Visibility) *draft.Drawing {
	b := draft.NewBuilder("sample", "cm", draft.Frame{Scale: draft.MMPerCM}, vis)
	b.AddLayer(draft.Layer{ID: "frame", Name: "Frame & Guides", Toggle: draft.HiddenWithGuides})
	b.AddLayer(draft.Layer{ID: "labels", Name: "Labels", Toggle: draft.HiddenWithMarkers})
	a := b.Set("A", geom.Pt(0, 0))
	c := b.Set("C", geom.Pt(3, 4))
	b.On("frame").Line(a, c, draft.Guide, "A-C")
	b.On("frame").Curve(fit.Line(a, c), draft.Structural, "seam")
	b.Mark("labels", "A", a, "")
	b.On("labels").LineLabel("5 cm", a, c, 2, 1, draft.ColorInk)
	return b.Drawing()
}

// elements counts start elements by local name and fails on malformed XML.
func elements(t *testing.T, doc []byte) map[string]int {
	t.Helper()
	out := map[string]int{}
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok {
			out[se.Name.Local]++
		}
	}
}

func TestEncodeDrawing(t *testing.T) {
	doc, err := Encode(sample(draft.ShowAll), "Sample")
	require.NoError(t, err)
	s := string(doc)

	n := elements(t, doc)
	assert.Equal(t, 1, n["svg"])
	assert.Equal(t, 1, n["line"])
	assert.Equal(t, 1, n["path"])
	assert.Equal(t, 1, n["circle"])
	assert.Equal(t, 2, n["text"])
	assert.Equal(t, 2, n["g"])

	assert.Contains(t, s, `width="600.00mm"`)
	assert.Contains(t, s, `viewBox="-62.60 -12.60 600.00 600.00"`)
	assert.Contains(t, s, `<title>Sample</title>`)
	assert.Contains(t, s, `data-layer="Frame &amp; Guides"`)
	assert.Contains(t, s, `stroke-dasharray="6 4"`)
	assert.Contains(t, s, `transform="rotate(`)
	assert.NotContains(t, s, `display="none"`)
}

func TestHiddenLayersStayInDocument(t *testing.T) {
	doc, err := Encode(sample(draft.Visibility{}), "")
	require.NoError(t, err)
	s := string(doc)
	assert.Equal(t, 2, strings.Count(s, `display="none"`))
	assert.Equal(t, 1, elements(t, doc)["circle"])
	assert.NotContains(t, s, "<title>")
}

func TestLargeDrawingKeepsViewport(t *testing.T) {
	b := draft.NewBuilder("big", "cm", draft.Frame{Scale: 1}, draft.ShowAll)
	b.AddLayer(draft.Layer{ID: "l", Name: "L"})
	b.On("l").Line(geom.Pt(0, 0), geom.Pt(800, 700), draft.Structural, "diag")
	doc, err := Encode(b.Drawing(), "")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `viewBox="-60.00 -10.00 920.00 770.00"`)
}

func TestEncodeStack(t *testing.T) {
	a := sample(draft.ShowAll)
	a.Opacity = .95
	doc, err := EncodeStack([]render.Sheet{
		{ID: "sample-draft-1", Name: "Draft 1", Color: "#111111", Drawing: a},
		{ID: "sample-draft-2", Name: "Draft 2", Color: "#b91c1c", Drawing: sample(draft.ShowAll), Hidden: true},
	}, "Drafts")
	require.NoError(t, err)
	s := string(doc)
	assert.Equal(t, 6, elements(t, doc)["g"])
	assert.Contains(t, s, `id="sample-draft-1"`)
	assert.Contains(t, s, `data-color="#b91c1c"`)
	assert.Contains(t, s, `opacity="0.95"`)
	assert.Equal(t, 1, strings.Count(s, `display="none"`))
}

func TestEmptyDrawing(t *testing.T) {
	d := draft.NewBuilder("empty", "cm", draft.Frame{Scale: 1}, draft.ShowAll).Drawing()
	_, err := Encode(d, "")
	assert.ErrorIs(t, err, render.ErrEmptyBounds)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.svg")
	require.NoError(t, WriteFile(path, sample(draft.ShowAll), "Sample"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "<?xml"))
	assert.Equal(t, 1, elements(t, got)["path"])

	stack := filepath.Join(t.TempDir(), "stack.svg")
	require.NoError(t, WriteStackFile(stack, []render.Sheet{{ID: "x", Drawing: sample(draft.ShowAll)}}, ""))
	_, err = os.Stat(stack)
	assert.NoError(t, err)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorSurfaces(t *testing.T) {
	err := render.Emit(New(failWriter{}), sample(draft.ShowAll))
	assert.ErrorContains(t, err, "disk full")
}
