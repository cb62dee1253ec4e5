package draft

import (
	"fmt"
	"math"

	"github.com/chazu/patternhub/pkg/fit"
	"github.com/chazu/patternhub/pkg/geom"
	"github.com/chazu/patternhub/pkg/logging"
)

// Frame maps method coordinates onto the page.
type Frame struct {
	Origin geom.Point // page position of the method origin, mm
	Scale  float64    // mm per method unit
	// MirrorX draws +x leftward from Origin.
	MirrorX bool
	// FlipY draws +y upward from Origin.
	FlipY bool
}

// Page maps a method-unit point to page millimetres.
func (f Frame) Page(p geom.Point) geom.Point {
	sx, sy := f.Scale, f.Scale
	if f.MirrorX {
		sx = -sx
	}
	if f.FlipY {
		sy = -sy
	}
	return geom.Pt(f.Origin.X+p.X*sx, f.Origin.Y+p.Y*sy)
}

// Length converts a method-unit length to millimetres.
func (f Frame) Length(v float64) float64 { return v * math.Abs(f.Scale) }

// Shift returns a frame whose origin is offset by d method units.
func (f Frame) Shift(d geom.Point) Frame {
	f.Origin = f.Page(d)
	return f
}

// MarkerStyle controls how Marker renders.
type MarkerStyle struct {
	Radius   float64 // mm
	Fill     string
	Text     string // label colour
	FontSize float64
}

// DefaultMarker is the filled numbered dot used by most methods.
var DefaultMarker = MarkerStyle{Radius: MarkerRadius, Fill: ColorMarker, Text: ColorWhite, FontSize: MarkerRadius}

// Builder accumulates a Drawing. It is not safe for concurrent use.
type Builder struct {
	d      *Drawing
	frame  Frame
	layer  string
	marker MarkerStyle
}

// NewBuilder starts a drawing for method in unit, mapped through frame.
func NewBuilder(method, unit string, frame Frame, vis Visibility) *Builder {
	return &Builder{
		d: &Drawing{
			Method:     method,
			Unit:       unit,
			Points:     map[string]geom.Point{},
			Derived:    map[string]float64{},
			Visibility: vis,
			Opacity:    1,
		},
		frame:  frame,
		marker: DefaultMarker,
	}
}

// Frame returns the current frame.
func (b *Builder) Frame() Frame { return b.frame }

// SetFrame replaces the frame for subsequent ops. Points already placed keep
// their method coordinates.
func (b *Builder) SetFrame(f Frame) { b.frame = f }

// SetMarkerStyle replaces the marker style for subsequent markers.
func (b *Builder) SetMarkerStyle(s MarkerStyle) { b.marker = s }

// AddLayer declares a layer. The first declared layer becomes current.
func (b *Builder) AddLayer(l Layer) string {
	if l.ID == "" {
		l.ID = Slug(l.Name, "")
	}
	b.d.Layers = append(b.d.Layers, l)
	if b.layer == "" {
		b.layer = l.ID
	}
	return l.ID
}

// On selects the layer for subsequent ops.
func (b *Builder) On(layer string) *Builder {
	b.layer = layer
	return b
}

// Set records a construction point. A non-finite point is not recorded;
// Set warns and returns the last point recorded under key, or the origin.
func (b *Builder) Set(key string, p geom.Point) geom.Point {
	if !p.IsFinite() {
		b.Warn(NonFinite, key, "non-finite coordinates %v", p)
		return b.d.Points[key]
	}
	if _, ok := b.d.Points[key]; !ok {
		b.d.Order = append(b.d.Order, key)
	}
	b.d.Points[key] = p
	return p
}

// Resolve records p under key when ok and finite, otherwise records the
// fallback and notes the degenerate construction.
func (b *Builder) Resolve(key string, p geom.Point, ok bool, fallback geom.Point, reason string) geom.Point {
	if ok && p.IsFinite() {
		return b.Set(key, p)
	}
	b.Warn(Degenerate, key, "%s", reason)
	return b.Set(key, fallback)
}

// Get returns a recorded point, or the zero point.
func (b *Builder) Get(key string) geom.Point { return b.d.Points[key] }

// Has reports whether key was recorded.
func (b *Builder) Has(key string) bool {
	_, ok := b.d.Points[key]
	return ok
}

// Solved records a through-point solve, warning when it did not converge.
func (b *Builder) Solved(key string, s fit.Solution) fit.Cubic {
	if !s.Converged {
		b.Warn(Convergence, key, "stopped after %d iterations, residual %.4g", s.Iterations, s.Residual)
	}
	return s.Curve
}

// Derive records a derived scalar for reporting.
func (b *Builder) Derive(name string, v float64) {
	b.d.Derived[name] = v
}

// Warn appends a warning and logs it at debug level.
func (b *Builder) Warn(kind WarningKind, point, format string, args ...any) {
	w := Warning{Kind: kind, Point: point, Message: fmt.Sprintf(format, args...)}
	b.d.Warnings = append(b.d.Warnings, w)
	logging.Logger().Debug("construction fallback",
		"method", b.d.Method, "kind", kind.String(), "point", point, "reason", w.Message)
}

// Line emits a straight segment between two method-unit points.
func (b *Builder) Line(a, c geom.Point, st Stroke, name string) {
	if !a.IsFinite() || !c.IsFinite() {
		b.Warn(NonFinite, name, "segment skipped")
		return
	}
	b.emit(Op{Kind: OpSegment, Name: name, Stroke: st, P: [4]geom.Point{b.frame.Page(a), b.frame.Page(c)}})
}

// Polyline emits consecutive segments through pts.
func (b *Builder) Polyline(st Stroke, name string, pts ...geom.Point) {
	for i := 1; i < len(pts); i++ {
		b.Line(pts[i-1], pts[i], st, name)
	}
}

// Curve emits a cubic given in method units.
func (b *Builder) Curve(c fit.Cubic, st Stroke, name string) {
	if !c.IsFinite() {
		b.Warn(NonFinite, name, "curve skipped")
		return
	}
	var p [4]geom.Point
	for i, q := range c.Points() {
		p[i] = b.frame.Page(q)
	}
	b.emit(Op{Kind: OpCurve, Name: name, Stroke: st, P: p})
}

// Marker places a labelled marker at a method-unit point.
func (b *Builder) Marker(at geom.Point, label string) {
	if !at.IsFinite() {
		return
	}
	b.emit(Op{
		Kind:     OpMarker,
		P:        [4]geom.Point{b.frame.Page(at)},
		Text:     label,
		Radius:   b.marker.Radius,
		Fill:     b.marker.Fill,
		FontSize: b.marker.FontSize,
		Stroke:   Stroke{Color: b.marker.Text},
	})
}

// Mark records a point and places its marker on layer, leaving the current
// layer unchanged. An empty label uses the key. A non-finite point gets no
// marker.
func (b *Builder) Mark(layer, key string, p geom.Point, label string) geom.Point {
	finite := p.IsFinite()
	p = b.Set(key, p)
	if !finite {
		return p
	}
	if label == "" {
		label = key
	}
	cur := b.layer
	b.layer = layer
	b.Marker(p, label)
	b.layer = cur
	return p
}

// Label places text at a method-unit point, offset by (dx, dy) mm.
func (b *Builder) Label(at geom.Point, text string, dx, dy float64, color string) {
	if !at.IsFinite() {
		return
	}
	p := b.frame.Page(at).Move(dx, dy)
	b.emit(Op{Kind: OpLabel, P: [4]geom.Point{p}, Text: text, FontSize: LabelFontSize, Fill: color, Anchor: "start"})
}

// Letter places centred text at a method-unit point.
func (b *Builder) Letter(at geom.Point, text, color string) {
	if !at.IsFinite() {
		return
	}
	b.emit(Op{Kind: OpLabel, P: [4]geom.Point{b.frame.Page(at)}, Text: text, FontSize: LabelFontSize, Fill: color, Anchor: "middle"})
}

// LineLabel places text beside segment ac, offset along its normal by
// offset method units on side (+1 or -1) and turned to read along it.
func (b *Builder) LineLabel(text string, a, c geom.Point, offset, side float64, color string) {
	if !a.IsFinite() || !c.IsFinite() {
		return
	}
	d := c.Sub(a)
	n := geom.Pt(-d.Y, d.X).Normalize().Scale(offset * side)
	at := b.frame.Page(a.Midpoint(c).Add(n))
	pd := b.frame.Page(c).Sub(b.frame.Page(a))
	deg := pd.Angle() * 180 / math.Pi
	switch {
	case deg < -90:
		deg += 180
	case deg > 90:
		deg -= 180
	}
	b.emit(Op{Kind: OpLabel, P: [4]geom.Point{at}, Text: text, FontSize: 3.2, Fill: color, Anchor: "middle", Rotate: deg})
}

func (b *Builder) emit(o Op) {
	o.Layer = b.layer
	switch o.Kind {
	case OpMarker:
		b.d.Bounds.IncludeRadius(o.P[0], o.Radius)
	default:
		for _, p := range o.Points() {
			b.d.Bounds.Include(p)
		}
	}
	b.d.Ops = append(b.d.Ops, o)
}

// Drawing returns the finished drawing. The builder must not be used after.
func (b *Builder) Drawing() *Drawing {
	d := b.d
	b.d = nil
	return d
}
