// Package render defines the render sink interface. Implementations (svg,
// dxf) turn the abstract ops of a draft.Drawing into a document format;
// Emit and EmitStack walk drawings in layer order so every sink sees the
// same sequence of calls.
package render

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/geom"
)

// ErrEmptyBounds is returned when a drawing has no finite content to fit a
// viewport around.
var ErrEmptyBounds = errors.New("drawing has empty bounds")

// Sink receives a drawing's ops grouped by layer. Coordinates are page
// millimetres.
type Sink interface {
	// Begin starts a document covering viewport.
	Begin(viewport geom.Rect) error

	// Layer groups. Hidden layers are still emitted so that a viewer can
	// toggle them back on.
	BeginLayer(l draft.Layer, hidden bool)
	EndLayer()

	// Ops
	Segment(o draft.Op)
	Curve(o draft.Op)
	Marker(o draft.Op)
	Label(o draft.Op)

	// End finishes the document.
	End() error
}

// Sheet is one drawing placed in a combined document.
type Sheet struct {
	ID      string
	Name    string
	Color   string
	Drawing *draft.Drawing
	Hidden  bool
}

// StackSink is a Sink that can group several drawings in one document.
type StackSink interface {
	Sink
	BeginSheet(s Sheet)
	EndSheet()
}

// Emit writes one drawing to s.
func Emit(s Sink, d *draft.Drawing) error {
	vp, ok := d.Viewport()
	if !ok {
		return fmt.Errorf("%s: %w", d.Method, ErrEmptyBounds)
	}
	if err := s.Begin(vp); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	walk(s, d)
	return s.End()
}

// EmitStack writes sheets into one document whose viewport covers every
// sheet with content. Sheets with empty bounds are skipped.
func EmitStack(s StackSink, sheets []Sheet) error {
	sheets = lo.Filter(sheets, func(sh Sheet, _ int) bool {
		return sh.Drawing != nil && !sh.Drawing.Bounds.Empty()
	})
	if len(sheets) == 0 {
		return fmt.Errorf("stack: %w", ErrEmptyBounds)
	}
	var b geom.Bounds
	for _, sh := range sheets {
		b.Union(sh.Drawing.Bounds)
	}
	if err := s.Begin(b.Pad(draft.Padding, draft.TopPadding)); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, sh := range sheets {
		s.BeginSheet(sh)
		walk(s, sh.Drawing)
		s.EndSheet()
	}
	return s.End()
}

// walk emits unlayered ops first, then the layer tree depth-first in
// declaration order.
func walk(s Sink, d *draft.Drawing) {
	byLayer := lo.GroupBy(d.Ops, func(o draft.Op) string { return o.Layer })
	declared := lo.SliceToMap(d.Layers, func(l draft.Layer) (string, bool) { return l.ID, true })
	for _, o := range d.Ops {
		if !declared[o.Layer] {
			op(s, o)
		}
	}
	var layer func(l draft.Layer)
	layer = func(l draft.Layer) {
		s.BeginLayer(l, d.LayerHidden(l.ID, d.Visibility))
		for _, o := range byLayer[l.ID] {
			op(s, o)
		}
		for _, c := range d.Children(l.ID) {
			layer(c)
		}
		s.EndLayer()
	}
	for _, l := range d.Children("") {
		layer(l)
	}
}

func op(s Sink, o draft.Op) {
	switch o.Kind {
	case draft.OpSegment:
		s.Segment(o)
	case draft.OpCurve:
		s.Curve(o)
	case draft.OpMarker:
		s.Marker(o)
	case draft.OpLabel:
		s.Label(o)
	}
}
