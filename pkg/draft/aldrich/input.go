package aldrich

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

// Input holds the Aldrich measurements in centimetres.
type Input struct {
	Bust         float64 `yaml:"bust"`
	BustEase     float64 `yaml:"bustEase"`
	Waist        float64 `yaml:"waist"`
	WaistEase    float64 `yaml:"waistEase"`
	Hip          float64 `yaml:"hip"`
	WaistToHip   float64 `yaml:"waistToHip"`
	NapeToWaist  float64 `yaml:"napeToWaist"`
	Shoulder     float64 `yaml:"shoulder"`
	BackWidth    float64 `yaml:"backWidth"`
	Chest        float64 `yaml:"chest"`
	ArmscyeDepth float64 `yaml:"armscyeDepth"`
	NeckSize     float64 `yaml:"neckSize"`

	// FrontWaistDartBackOff drops the front waist dart apex below point 26.
	FrontWaistDartBackOff float64 `yaml:"frontWaistDartBackOff"`
	// ReducedDarting switches from close waist shaping to the reduced
	// distribution. The two modes are exclusive.
	ReducedDarting bool `yaml:"reducedDarting"`

	// Darts carries derived dart widths and which of them were edited.
	// Nil derives everything from the measurements.
	Darts *measure.AldrichAuto `yaml:"darts,omitempty"`

	draft.Visibility `yaml:",inline"`
}

// Defaults returns the size-12 measurement set.
func Defaults() Input {
	return Input{
		Bust:                  88,
		BustEase:              5,
		Waist:                 68,
		WaistEase:             3,
		Hip:                   94,
		WaistToHip:            20.6,
		NapeToWaist:           41,
		Shoulder:              12.25,
		BackWidth:             34.4,
		Chest:                 32.4,
		ArmscyeDepth:          21,
		NeckSize:              37,
		FrontWaistDartBackOff: 2.5,
		Visibility:            draft.ShowAll,
	}
}

// CloseWaistShaping reports the standard darting mode.
func (in *Input) CloseWaistShaping() bool { return !in.ReducedDarting }

// View implements draft.Input.
func (in *Input) View() draft.Visibility { return in.Visibility }

// Normalize implements draft.Input. It also brings Darts up to date with the
// measurements, keeping any edited widths.
func (in *Input) Normalize() []string {
	def := Defaults()
	var replaced []string
	fix := func(name string, v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			replaced = append(replaced, name)
		}
	}
	fix("bust", &in.Bust, def.Bust)
	fix("bustEase", &in.BustEase, def.BustEase)
	fix("waist", &in.Waist, def.Waist)
	fix("waistEase", &in.WaistEase, def.WaistEase)
	fix("hip", &in.Hip, def.Hip)
	fix("waistToHip", &in.WaistToHip, def.WaistToHip)
	fix("napeToWaist", &in.NapeToWaist, def.NapeToWaist)
	fix("shoulder", &in.Shoulder, def.Shoulder)
	fix("backWidth", &in.BackWidth, def.BackWidth)
	fix("chest", &in.Chest, def.Chest)
	fix("armscyeDepth", &in.ArmscyeDepth, def.ArmscyeDepth)
	fix("neckSize", &in.NeckSize, def.NeckSize)
	fix("frontWaistDartBackOff", &in.FrontWaistDartBackOff, def.FrontWaistDartBackOff)

	switch {
	case in.Darts == nil:
		in.Darts = measure.NewAldrichAuto(in.Bust, in.Waist, in.BustEase, in.WaistEase, in.ReducedDarting)
	case in.Darts.Reduced != in.ReducedDarting:
		in.Darts.SetReduced(in.ReducedDarting, in.Bust, in.Waist, in.BustEase, in.WaistEase)
	default:
		in.Darts.Update(in.Bust, in.Waist, in.BustEase, in.WaistEase)
	}
	return replaced
}

// clone copies the input so drafting never touches the caller's dart state.
func (in *Input) clone() Input {
	p := *in
	if in.Darts != nil {
		d := *in.Darts
		p.Darts = &d
	}
	return p
}
