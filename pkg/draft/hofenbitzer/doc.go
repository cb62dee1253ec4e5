// Package hofenbitzer drafts the Hofenbitzer casual bodice and basic skirt
// blocks in centimetres.
//
// Both methods share the same frame styling: a 0.6mm ink stroke, a long
// "12 6" dash for guides and small filled numbered markers.
package hofenbitzer

import "github.com/chazu/patternhub/pkg/draft"

const (
	markerRadiusCM  = 0.25
	minHandleCM     = 0.5
	hipLeftOffsetCM = 2.0
	dashPattern     = "12 6"
	frameColor      = "#111111"
	lineWidth       = 0.6
)

var (
	solid  = draft.Stroke{Style: draft.Solid, Color: frameColor, Width: lineWidth}
	dashed = draft.Stroke{Style: draft.Dashed, Color: frameColor, Width: lineWidth, Dash: dashPattern}

	numberMarker = draft.MarkerStyle{
		Radius:   markerRadiusCM * draft.MMPerCM,
		Fill:     draft.ColorMarker,
		Text:     draft.ColorWhite,
		FontSize: 3,
	}
)
