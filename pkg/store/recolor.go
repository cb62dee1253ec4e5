package store

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/chazu/patternhub/pkg/draft"
)

// Palette is the fixed draft colour cycle. Draft n takes Palette[(n-1) mod len].
var Palette = []string{
	"#111111", "#b91c1c", "#0f766e", "#c026d3",
	"#eab308", "#0ea5e9", "#16a34a", "#f97316",
}

// PaletteColor returns the colour for draft number n (1-based).
func PaletteColor(n int) string {
	i := (n - 1) % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// tint mixes c towards white by t in [0,1].
func tint(c colorful.Color, t float64) string {
	return c.BlendRgb(white, t).Clamped().Hex()
}

// Recolor returns a deep copy of d restyled in color. The emphasized drawing
// strokes in the colour itself; the others are lightened and slightly
// transparent so the active draft reads on top.
func Recolor(d *draft.Drawing, color string, emphasized bool) (*draft.Drawing, error) {
	base, err := colorful.Hex(color)
	if err != nil {
		return nil, fmt.Errorf("recolor %q: %w", color, err)
	}
	stroke, fill, opacity := base.Hex(), tint(base, .10), 1.0
	if !emphasized {
		stroke, fill, opacity = tint(base, .20), tint(base, .45), .95
	}

	out, err := cloneDrawing(d)
	if err != nil {
		return nil, err
	}
	numbers := map[string]bool{}
	for _, l := range out.Layers {
		numbers[l.ID] = l.Numbers
	}
	text := func(layer string) string {
		if numbers[layer] {
			return draft.ColorWhite
		}
		return stroke
	}
	for i := range out.Ops {
		o := &out.Ops[i]
		switch o.Kind {
		case draft.OpSegment:
			o.Stroke.Color = stroke
		case draft.OpCurve:
			o.Stroke.Color = stroke
			o.Fill = ""
		case draft.OpMarker:
			o.Fill = fill
			if numbers[o.Layer] {
				o.Fill = stroke
			}
			o.Stroke.Color = text(o.Layer)
		case draft.OpLabel:
			o.Fill = text(o.Layer)
		}
	}
	out.Opacity = opacity
	return out, nil
}

func cloneDrawing(d *draft.Drawing) (*draft.Drawing, error) {
	var out draft.Drawing
	if err := copier.CopyWithOption(&out, d, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy drawing: %w", err)
	}
	return &out, nil
}
