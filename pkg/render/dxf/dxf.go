// Package dxf implements render.Sink as a DXF export for plotters and
// cutting tables, using the DXF writer from github.com/deadsy/sdfx.
//
// DXF has no grouping in this writer, so hidden layers and hidden sheets are
// left out instead of toggled. Labels are not exported. Y is flipped so the
// pattern reads the right way up in CAD tools.
package dxf

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	prender "github.com/chazu/patternhub/pkg/render"
)

// Compile-time interface check.
var _ prender.StackSink = (*Sink)(nil)

// curveSteps is the number of chords per cubic segment.
const curveSteps = 24

// writer is the subset of *render.DXF the sink draws with.
type writer interface {
	Line(l *sdf.Line2)
	Points(s v2.VecSet, r float64)
	Save() error
}

// Sink writes one DXF file.
type Sink struct {
	w      writer
	hidden []bool
}

// New returns a sink that saves to path when End is called.
func New(path string) *Sink {
	return &Sink{w: render.NewDXF(path)}
}

func vec(p geom.Point) v2.Vec { return v2.Vec{X: p.X, Y: -p.Y} }

func (s *Sink) line(a, b geom.Point) {
	l := sdf.Line2{vec(a), vec(b)}
	s.w.Line(&l)
}

func (s *Sink) skipping() bool {
	return len(s.hidden) > 0 && s.hidden[len(s.hidden)-1]
}

func (s *Sink) push(hidden bool) {
	s.hidden = append(s.hidden, hidden || s.skipping())
}

func (s *Sink) pop() {
	if len(s.hidden) > 0 {
		s.hidden = s.hidden[:len(s.hidden)-1]
	}
}

func (s *Sink) Begin(geom.Rect) error { return nil }

func (s *Sink) BeginSheet(sh prender.Sheet) { s.push(sh.Hidden) }
func (s *Sink) EndSheet()                   { s.pop() }

func (s *Sink) BeginLayer(_ draft.Layer, hidden bool) { s.push(hidden) }
func (s *Sink) EndLayer()                             { s.pop() }

func (s *Sink) Segment(o draft.Op) {
	if s.skipping() {
		return
	}
	s.line(o.P[0], o.P[1])
}

func (s *Sink) Curve(o draft.Op) {
	if s.skipping() {
		return
	}
	c := fit.Cubic{P0: o.P[0], P1: o.P[1], P2: o.P[2], P3: o.P[3]}
	pts := c.Flatten(curveSteps)
	for i := 1; i < len(pts); i++ {
		s.line(pts[i-1], pts[i])
	}
}

func (s *Sink) Marker(o draft.Op) {
	if s.skipping() {
		return
	}
	s.w.Points(v2.VecSet{vec(o.P[0])}, o.Radius)
}

func (s *Sink) Label(draft.Op) {}

func (s *Sink) End() error {
	if err := s.w.Save(); err != nil {
		return fmt.Errorf("dxf: %w", err)
	}
	return nil
}

// WriteFile exports d to path.
func WriteFile(path string, d *draft.Drawing) error {
	return prender.Emit(New(path), d)
}

// WriteStackFile exports the visible sheets to path.
func WriteStackFile(path string, sheets []prender.Sheet) error {
	return prender.EmitStack(New(path), sheets)
}
