// Package svg implements render.Sink with github.com/ajstarks/svgo. One
// user unit is one page millimetre; layers and drafts become groups.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"strconv"

	svgo "github.com/ajstarks/svgo/float"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/render"
)

// Compile-time interface check.
var _ render.StackSink = (*Sink)(nil)

// Sink writes an SVG document.
type Sink struct {
	w *errWriter
	c *svgo.SVG
	// Title is written as the document title when set.
	Title string
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// New returns a sink writing to w.
func New(w io.Writer) *Sink {
	ew := &errWriter{w: w}
	return &Sink{w: ew, c: svgo.New(ew)}
}

func attr(k, v string) string { return k + `="` + html.EscapeString(v) + `"` }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// fitPage grows the viewport to at least the minimum page, keeping its
// top-left corner.
func fitPage(vp geom.Rect) geom.Rect {
	vp.W = math.Max(vp.W, draft.PageWidth)
	vp.H = math.Max(vp.H, draft.PageHeight)
	return vp
}

func (s *Sink) Begin(vp geom.Rect) error {
	vp = fitPage(vp)
	s.c.StartviewUnit(vp.W, vp.H, "mm", vp.X, vp.Y, vp.W, vp.H)
	if s.Title != "" {
		s.c.Title(s.Title)
	}
	return s.w.err
}

func (s *Sink) BeginSheet(sh render.Sheet) {
	attrs := []string{attr("id", sh.ID), attr("data-draft", sh.Name)}
	if sh.Color != "" {
		attrs = append(attrs, attr("data-color", sh.Color))
	}
	if sh.Drawing != nil && sh.Drawing.Opacity > 0 && sh.Drawing.Opacity < 1 {
		attrs = append(attrs, attr("opacity", num(sh.Drawing.Opacity)))
	}
	if sh.Hidden {
		attrs = append(attrs, attr("display", "none"))
	}
	s.c.Group(attrs...)
}

func (s *Sink) EndSheet() { s.c.Gend() }

func (s *Sink) BeginLayer(l draft.Layer, hidden bool) {
	attrs := []string{attr("id", l.ID), attr("data-layer", l.Name)}
	if hidden {
		attrs = append(attrs, attr("display", "none"))
	}
	s.c.Group(attrs...)
}

func (s *Sink) EndLayer() { s.c.Gend() }

func strokeAttrs(o draft.Op) []string {
	out := []string{
		attr("stroke", o.Stroke.Color),
		attr("stroke-width", num(o.Stroke.Width)),
		attr("fill", "none"),
	}
	if o.Stroke.Style == draft.Dashed && o.Stroke.Dash != "" {
		out = append(out, attr("stroke-dasharray", o.Stroke.Dash))
	}
	if o.Name != "" {
		out = append(out, attr("data-name", o.Name))
	}
	return out
}

func (s *Sink) Segment(o draft.Op) {
	a, b := o.P[0], o.P[1]
	s.c.Line(a.X, a.Y, b.X, b.Y, strokeAttrs(o)...)
}

func (s *Sink) Curve(o draft.Op) {
	p := o.P
	s.c.Bezier(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, p[3].X, p[3].Y, strokeAttrs(o)...)
}

func (s *Sink) Marker(o draft.Op) {
	at := o.P[0]
	s.c.Circle(at.X, at.Y, o.Radius, attr("fill", o.Fill), attr("stroke", "none"))
	if o.Text == "" {
		return
	}
	s.c.Text(at.X, at.Y, o.Text,
		attr("fill", o.Stroke.Color),
		attr("font-size", num(o.FontSize)),
		attr("text-anchor", "middle"),
		attr("dominant-baseline", "central"),
	)
}

func (s *Sink) Label(o draft.Op) {
	at := o.P[0]
	anchor := o.Anchor
	if anchor == "" {
		anchor = "start"
	}
	attrs := []string{
		attr("fill", o.Fill),
		attr("font-size", num(o.FontSize)),
		attr("text-anchor", anchor),
	}
	if o.Rotate != 0 {
		attrs = append(attrs, attr("transform", fmt.Sprintf("rotate(%s %s %s)", num(o.Rotate), num(at.X), num(at.Y))))
	}
	s.c.Text(at.X, at.Y, o.Text, attrs...)
}

func (s *Sink) End() error {
	s.c.End()
	return s.w.err
}

// Encode renders one drawing to SVG bytes.
func Encode(d *draft.Drawing, title string) ([]byte, error) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Title = title
	if err := render.Emit(s, d); err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeStack renders several drafts into one document, one group each.
func EncodeStack(sheets []render.Sheet, title string) ([]byte, error) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Title = title
	if err := render.EmitStack(s, sheets); err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders d to path.
func WriteFile(path string, d *draft.Drawing, title string) error {
	out, err := Encode(d, title)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// WriteStackFile renders sheets to path.
func WriteStackFile(path string, sheets []render.Sheet, title string) error {
	out, err := EncodeStack(sheets, title)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
