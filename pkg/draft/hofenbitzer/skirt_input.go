package hofenbitzer

import (
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

// SkirtInput holds the basic skirt measurements in centimetres. Dart widths
// are computed unless a DartSpec is marked Override.
type SkirtInput struct {
	HiC       float64 `yaml:"HiC"` // hip circumference
	WaC       float64 `yaml:"WaC"` // waist circumference
	HiD       float64 `yaml:"HiD"` // hip depth
	MoL       float64 `yaml:"MoL"` // skirt length
	HipEase   float64 `yaml:"hipEase"`
	WaistEase float64 `yaml:"waistEase"`

	HipProfile measure.HipProfile `yaml:"hipProfile"`

	SideDart  measure.DartSpec `yaml:"sideDart"`
	FrontDart measure.DartSpec `yaml:"frontDart"`
	BackDart1 measure.DartSpec `yaml:"backDart1"`
	BackDart2 measure.DartSpec `yaml:"backDart2"`

	draft.Visibility `yaml:",inline"`
}

// SkirtDefaults returns the standard skirt measurements.
func SkirtDefaults() SkirtInput {
	return SkirtInput{
		HiC:        97,
		WaC:        72,
		HiD:        21,
		MoL:        50,
		HipEase:    3,
		WaistEase:  2,
		HipProfile: measure.HipNormal,
		SideDart:   measure.DartSpec{Auto: true},
		FrontDart:  measure.DartSpec{Length: 10, Auto: true},
		BackDart1:  measure.DartSpec{Length: 14.5, Auto: true},
		BackDart2:  measure.DartSpec{Length: 13, Auto: true},
		Visibility: draft.ShowAll,
	}
}

// View implements draft.Input.
func (in *SkirtInput) View() draft.Visibility { return in.Visibility }

// Normalize implements draft.Input. Overridden dart widths that are not
// finite lose their override.
func (in *SkirtInput) Normalize() []string {
	def := SkirtDefaults()
	var replaced []string
	fix := func(name string, v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			replaced = append(replaced, name)
		}
	}
	fix("HiC", &in.HiC, def.HiC)
	fix("WaC", &in.WaC, def.WaC)
	fix("HiD", &in.HiD, def.HiD)
	fix("MoL", &in.MoL, def.MoL)
	fix("hipEase", &in.HipEase, def.HipEase)
	fix("waistEase", &in.WaistEase, def.WaistEase)

	in.HipProfile = measure.ParseHipProfile(string(in.HipProfile))

	darts := []struct {
		name string
		spec *measure.DartSpec
		def  measure.DartSpec
	}{
		{"sideDart", &in.SideDart, def.SideDart},
		{"frontDart", &in.FrontDart, def.FrontDart},
		{"backDart1", &in.BackDart1, def.BackDart1},
		{"backDart2", &in.BackDart2, def.BackDart2},
	}
	for _, d := range darts {
		fix(d.name+".length", &d.spec.Length, d.def.Length)
		if d.spec.Override && (math.IsNaN(d.spec.Width) || math.IsInf(d.spec.Width, 0)) {
			d.spec.Override = false
			d.spec.Width = 0
			replaced = append(replaced, d.name+".width")
		}
	}
	return replaced
}

// Darts resolves the dart distribution for the current measurements.
func (in *SkirtInput) Darts() measure.SkirtDarts {
	return measure.DistributeSkirt(measure.SkirtInput{
		HiC:       in.HiC,
		HipEase:   in.HipEase,
		WaC:       in.WaC,
		WaistEase: in.WaistEase,
		Profile:   in.HipProfile,
		Side:      in.SideDart,
		Front:     in.FrontDart,
		Back1:     in.BackDart1,
		Back2:     in.BackDart2,
	})
}
