package armstrong

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
)

// Input holds the Armstrong bodice measurements in inches. Back fields fall
// back to their front counterpart when missing or non-finite.
type Input struct {
	FullLength        float64 `yaml:"fullLength"`
	AcrossShoulder    float64 `yaml:"acrossShoulder"`
	CentreFrontLength float64 `yaml:"centreFrontLength"`
	BustArc           float64 `yaml:"bustArc"`
	ShoulderSlope     float64 `yaml:"shoulderSlope"`
	BustDepth         float64 `yaml:"bustDepth"`
	ShoulderLength    float64 `yaml:"shoulderLength"`
	BustSpan          float64 `yaml:"bustSpan"`
	AcrossChest       float64 `yaml:"acrossChest"`
	DartPlacement     float64 `yaml:"dartPlacement"`
	NewStrap          float64 `yaml:"newStrap"`
	SideLength        float64 `yaml:"sideLength"`
	WaistArc          float64 `yaml:"waistArc"`
	BustCup           string  `yaml:"bustCup"`

	FullLengthBack     float64 `yaml:"fullLengthBack"`
	AcrossShoulderBack float64 `yaml:"acrossShoulderBack"`
	CentreBackLength   float64 `yaml:"centreBackLength"`
	BustArcBack        float64 `yaml:"bustArcBack"`
	ShoulderSlopeBack  float64 `yaml:"shoulderSlopeBack"`
	ShoulderLengthBack float64 `yaml:"shoulderLengthBack"`
	AcrossBack         float64 `yaml:"acrossBack"`
	DartPlacementBack  float64 `yaml:"dartPlacementBack"`
	SideLengthBack     float64 `yaml:"sideLengthBack"`
	WaistArcBack       float64 `yaml:"waistArcBack"`
	BackNeck           float64 `yaml:"backNeck"`

	draft.Visibility `yaml:",inline"`
}

// Defaults returns the standard size-10 measurement set.
func Defaults() Input {
	return Input{
		FullLength:        18,
		AcrossShoulder:    7.9375,
		CentreFrontLength: 14.875,
		BustArc:           10.375,
		ShoulderSlope:     18.125,
		BustDepth:         9.6875,
		ShoulderLength:    5.375,
		BustSpan:          4.0625,
		AcrossChest:       6.9375,
		DartPlacement:     3.4375,
		NewStrap:          18.1875,
		SideLength:        8.5,
		WaistArc:          7.375,
		BustCup:           "B Cup",

		FullLengthBack:     17.875,
		AcrossShoulderBack: 8.1875,
		CentreBackLength:   17,
		BustArcBack:        9,
		ShoulderSlopeBack:  17.375,
		ShoulderLengthBack: 5.375,
		AcrossBack:         7.1875,
		DartPlacementBack:  3.4375,
		SideLengthBack:     8.5,
		WaistArcBack:       7,
		BackNeck:           3.125,

		Visibility: draft.ShowAll,
	}
}

// View implements draft.Input.
func (in *Input) View() draft.Visibility { return in.Visibility }

// Normalize implements draft.Input.
func (in *Input) Normalize() []string {
	def := Defaults()
	var replaced []string
	fix := func(name string, v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			replaced = append(replaced, name)
		}
	}
	fix("fullLength", &in.FullLength, def.FullLength)
	fix("acrossShoulder", &in.AcrossShoulder, def.AcrossShoulder)
	fix("centreFrontLength", &in.CentreFrontLength, def.CentreFrontLength)
	fix("bustArc", &in.BustArc, def.BustArc)
	fix("shoulderSlope", &in.ShoulderSlope, def.ShoulderSlope)
	fix("bustDepth", &in.BustDepth, def.BustDepth)
	fix("shoulderLength", &in.ShoulderLength, def.ShoulderLength)
	fix("bustSpan", &in.BustSpan, def.BustSpan)
	fix("acrossChest", &in.AcrossChest, def.AcrossChest)
	fix("dartPlacement", &in.DartPlacement, def.DartPlacement)
	fix("newStrap", &in.NewStrap, def.NewStrap)
	fix("sideLength", &in.SideLength, def.SideLength)
	fix("waistArc", &in.WaistArc, def.WaistArc)

	fix("fullLengthBack", &in.FullLengthBack, in.FullLength)
	fix("acrossShoulderBack", &in.AcrossShoulderBack, in.AcrossShoulder)
	fix("centreBackLength", &in.CentreBackLength, in.CentreFrontLength)
	fix("bustArcBack", &in.BustArcBack, in.BustArc)
	fix("shoulderSlopeBack", &in.ShoulderSlopeBack, in.ShoulderSlope)
	fix("shoulderLengthBack", &in.ShoulderLengthBack, in.ShoulderLength)
	fix("acrossBack", &in.AcrossBack, in.AcrossChest)
	fix("dartPlacementBack", &in.DartPlacementBack, in.DartPlacement)
	fix("sideLengthBack", &in.SideLengthBack, in.SideLength)
	fix("waistArcBack", &in.WaistArcBack, in.WaistArc)
	fix("backNeck", &in.BackNeck, def.BackNeck)
	if in.BustCup == "" {
		in.BustCup = def.BustCup
	}
	return replaced
}
