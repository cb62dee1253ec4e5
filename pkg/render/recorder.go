package render

import (
	"fmt"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/geom"
)

// Recorder is a StackSink that records calls as text lines.
type Recorder struct {
	Viewport geom.Rect
	Calls    []string
	Ops      []draft.Op
	Ended    bool
}

var _ StackSink = (*Recorder)(nil)

func (r *Recorder) Begin(vp geom.Rect) error {
	r.Viewport = vp
	r.Calls = append(r.Calls, fmt.Sprintf("begin %.2f %.2f %.2f %.2f", vp.X, vp.Y, vp.W, vp.H))
	return nil
}

func (r *Recorder) BeginSheet(s Sheet) {
	r.Calls = append(r.Calls, fmt.Sprintf("sheet %s hidden=%t", s.ID, s.Hidden))
}

func (r *Recorder) EndSheet() { r.Calls = append(r.Calls, "endsheet") }

func (r *Recorder) BeginLayer(l draft.Layer, hidden bool) {
	r.Calls = append(r.Calls, fmt.Sprintf("layer %s hidden=%t", l.ID, hidden))
}

func (r *Recorder) EndLayer() { r.Calls = append(r.Calls, "endlayer") }

func (r *Recorder) record(o draft.Op) {
	r.Ops = append(r.Ops, o)
	r.Calls = append(r.Calls, o.Kind.String()+" "+o.Name+o.Text)
}

func (r *Recorder) Segment(o draft.Op) { r.record(o) }
func (r *Recorder) Curve(o draft.Op)   { r.record(o) }
func (r *Recorder) Marker(o draft.Op)  { r.record(o) }
func (r *Recorder) Label(o draft.Op)   { r.record(o) }

func (r *Recorder) End() error {
	r.Ended = true
	r.Calls = append(r.Calls, "end")
	return nil
}
