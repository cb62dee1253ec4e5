package draft

import (
	"fmt"

	"github.com/chazu/patternhub/pkg/geom"
)

// Page constants in millimetres.
const (
	MMPerInch     = 25.4
	MMPerCM       = 10.0
	PageWidth     = 600.0
	PageHeight    = 600.0
	PageMargin    = 25.0
	Padding       = 60.0
	TopPadding    = 10.0
	MarkerRadius  = 2.6
	LabelFontSize = 4.0
	LineWidth     = 0.45
)

// Default colours.
const (
	ColorInk    = "#111111"
	ColorCurve  = "#2563eb"
	ColorMarker = "#0f172a"
	ColorWhite  = "#ffffff"
)

// OpKind identifies a draw operation.
type OpKind int

const (
	OpSegment OpKind = iota
	OpCurve
	OpMarker
	OpLabel
)

func (k OpKind) String() string {
	switch k {
	case OpSegment:
		return "segment"
	case OpCurve:
		return "curve"
	case OpMarker:
		return "marker"
	case OpLabel:
		return "label"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// LineStyle is the semantic style of a stroke.
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
)

func (s LineStyle) String() string {
	if s == Dashed {
		return "dashed"
	}
	return "solid"
}

// Stroke is a style hint for the render sink.
type Stroke struct {
	Style LineStyle `yaml:"style"`
	Color string    `yaml:"color"`
	Width float64   `yaml:"width"`
	Dash  string    `yaml:"dash,omitempty"`
}

// Structural is the default solid outline stroke.
var Structural = Stroke{Style: Solid, Color: ColorInk, Width: LineWidth}

// Guide is the default dashed construction stroke.
var Guide = Stroke{Style: Dashed, Color: ColorInk, Width: LineWidth, Dash: "6 4"}

// WithColor returns s with a different colour.
func (s Stroke) WithColor(c string) Stroke {
	s.Color = c
	return s
}

// WithWidth returns s with a different width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// Op is one draw operation. Coordinates are page millimetres.
//
// Segment uses P[0..1], Curve uses P[0..3], Marker and Label use P[0].
type Op struct {
	Kind   OpKind        `yaml:"kind"`
	Layer  string        `yaml:"layer"`
	Name   string        `yaml:"name,omitempty"`
	P      [4]geom.Point `yaml:"p"`
	Stroke Stroke        `yaml:"stroke"`

	// Markers and labels.
	Text     string  `yaml:"text,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Fill     string  `yaml:"fill,omitempty"`
	FontSize float64 `yaml:"fontSize,omitempty"`
	Anchor   string  `yaml:"anchor,omitempty"`
	// Rotate turns label text about P[0], in degrees.
	Rotate float64 `yaml:"rotate,omitempty"`
}

// Points returns the coordinates the op actually uses.
func (o Op) Points() []geom.Point {
	switch o.Kind {
	case OpSegment:
		return o.P[:2]
	case OpCurve:
		return o.P[:4]
	default:
		return o.P[:1]
	}
}

// Drawing is the complete output of one drafting pass.
type Drawing struct {
	Method string `yaml:"method"`
	// Unit of Points: "in" or "cm".
	Unit string `yaml:"unit"`

	Points map[string]geom.Point `yaml:"points"`
	// Order lists point keys in placement order.
	Order []string `yaml:"order"`

	Layers   []Layer            `yaml:"layers"`
	Ops      []Op               `yaml:"ops"`
	Bounds   geom.Bounds        `yaml:"bounds"`
	Warnings []Warning          `yaml:"warnings,omitempty"`
	Derived  map[string]float64 `yaml:"derived,omitempty"`

	// Visibility the drawing was produced with.
	Visibility Visibility `yaml:"visibility"`
	// Opacity is 1 for the active draft, slightly less for recoloured copies.
	Opacity float64 `yaml:"opacity"`
}

// Point returns a named construction point.
func (d *Drawing) Point(key string) (geom.Point, bool) {
	p, ok := d.Points[key]
	return p, ok
}

// Layer looks up a layer by id.
func (d *Drawing) Layer(id string) (Layer, bool) {
	for _, l := range d.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// OpsOn returns the ops emitted directly on a layer.
func (d *Drawing) OpsOn(layer string) []Op {
	var out []Op
	for _, o := range d.Ops {
		if o.Layer == layer {
			out = append(out, o)
		}
	}
	return out
}

// Viewport returns the page rectangle the drawing should be fitted to.
func (d *Drawing) Viewport() (geom.Rect, bool) {
	if d.Bounds.Empty() {
		return geom.Rect{}, false
	}
	return d.Bounds.Pad(Padding, TopPadding), true
}
