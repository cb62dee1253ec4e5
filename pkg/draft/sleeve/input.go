package sleeve

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

// Input holds the sleeve measurements in centimetres.
type Input struct {
	AhH measure.Field `yaml:"AhH"` // armhole height, reported only
	FAh measure.Field `yaml:"fAh"` // front armhole length
	BAh measure.Field `yaml:"bAh"` // back armhole length
	// AhC overrides the armhole circumference when its measurement is
	// positive; otherwise fAh + bAh is used.
	AhC  measure.Field `yaml:"AhC"`
	AL   measure.Field `yaml:"AL"`   // arm length
	UpAC measure.Field `yaml:"upAC"` // upper-arm circumference
	WrC  measure.Field `yaml:"WrC"`  // wrist circumference

	CapEasePct  measure.Field `yaml:"capEasePct"`
	CapCEase    float64       `yaml:"capCEase"`
	CapLineEase float64       `yaml:"capLineEase"`

	FAP float64 `yaml:"fAP"` // front pitch along the cap
	BAP float64 `yaml:"bAP"` // back pitch along the cap

	draft.Visibility `yaml:",inline"`
}

// Defaults returns the standard sleeve measurements.
func Defaults() Input {
	return Input{
		FAh:        measure.F(19.6, 0),
		BAh:        measure.F(23.9, 0),
		AL:         measure.F(60, 0),
		UpAC:       measure.F(28, 9),
		WrC:        measure.F(16, 6),
		CapEasePct: measure.F(3, 0),
		FAP:        4.5,
		BAP:        8.6,
		Visibility: draft.ShowAll,
	}
}

// View implements draft.Input.
func (in *Input) View() draft.Visibility { return in.Visibility }

// Normalize implements draft.Input.
func (in *Input) Normalize() []string {
	def := Defaults()
	var replaced []string
	fields := []struct {
		name string
		f    *measure.Field
		def  measure.Field
	}{
		{"AhH", &in.AhH, def.AhH},
		{"fAh", &in.FAh, def.FAh},
		{"bAh", &in.BAh, def.BAh},
		{"AhC", &in.AhC, def.AhC},
		{"AL", &in.AL, def.AL},
		{"upAC", &in.UpAC, def.UpAC},
		{"WrC", &in.WrC, def.WrC},
		{"capEasePct", &in.CapEasePct, def.CapEasePct},
	}
	for _, f := range fields {
		if f.f.Normalize(f.def) {
			replaced = append(replaced, f.name)
		}
	}
	fix := func(name string, v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			replaced = append(replaced, name)
		}
	}
	fix("capCEase", &in.CapCEase, def.CapCEase)
	fix("capLineEase", &in.CapLineEase, def.CapLineEase)
	fix("fAP", &in.FAP, def.FAP)
	fix("bAP", &in.BAP, def.BAP)
	return replaced
}

// Derived holds the construction lengths.
type Derived struct {
	AhH      float64
	FAh, BAh float64
	AhC      float64 // armhole circumference before ease
	AhCC     float64 // armhole circumference used for the cap
	SlL      float64 // sleeve length
	SlW      float64 // sleeve width
	HeW      float64 // hem width
	CapEase  float64 // cm
	CapC     float64 // target cap length
	CapLine  float64
	R3, R4   float64
}

// Resolve computes the derived lengths. A non-positive cap line falls back
// to 1cm.
func (in *Input) Resolve() Derived {
	d := Derived{
		AhH: in.AhH.Final(),
		FAh: in.FAh.Final(),
		BAh: in.BAh.Final(),
		SlL: in.AL.Final(),
		SlW: in.UpAC.Final(),
		HeW: in.WrC.Final(),
	}
	d.AhC = in.AhC.Measurement
	if d.AhC <= 0 {
		d.AhC = in.FAh.Measurement + in.BAh.Measurement
	}
	d.AhCC = d.AhC + in.AhC.Ease
	d.CapEase = d.AhCC * in.CapEasePct.Final() / 100
	d.CapC = d.AhCC + d.CapEase + in.CapCEase
	d.CapLine = d.SlW + in.CapLineEase
	if d.CapLine <= 0 {
		d.CapLine = 1
	}
	d.R3 = 0.97*d.FAh + 0.25*d.CapEase
	d.R4 = 0.97*d.BAh + 0.75*d.CapEase
	return d
}
