package hofenbitzer

import (
	"fmt"
	"math"

	"github.com/chazu/patternhub/pkg/draft"
	"github.com/chazu/patternhub/pkg/measure"
)

// CasualInput holds the casual bodice measurements in centimetres. Primary
// measurements carry an ease; secondary ones are plain lengths and angles.
type CasualInput struct {
	AhD measure.Field `yaml:"AhD"` // armhole depth
	BrC measure.Field `yaml:"BrC"` // bust circumference
	WaC measure.Field `yaml:"WaC"` // waist circumference
	HiC measure.Field `yaml:"HiC"` // hip circumference
	BG  measure.Field `yaml:"BG"`  // back width
	AG  measure.Field `yaml:"AG"`  // armhole width
	BrG measure.Field `yaml:"BrG"` // bust width
	ShG measure.Field `yaml:"ShG"` // shoulder length
	BL  measure.Field `yaml:"BL"`  // back length; ease is the balance
	FL  measure.Field `yaml:"FL"`  // front length; ease is the balance

	NeG float64 `yaml:"NeG"` // neck width
	MoL float64 `yaml:"MoL"` // model length
	HiD float64 `yaml:"HiD"` // hip depth
	ShA float64 `yaml:"ShA"` // shoulder angle, degrees
	BrD float64 `yaml:"BrD"` // bust depth

	ShoulderDifference float64 `yaml:"shoulderDifference"` // degrees between front and back slope
	BackShoulderEase   float64 `yaml:"backShoulderEase"`

	// Profile names the fit profile last applied to the eases.
	Profile string `yaml:"profile,omitempty"`

	draft.Visibility `yaml:",inline"`
}

// CasualDefaults returns the standard measurements with the default fit
// profile's eases.
func CasualDefaults() CasualInput {
	in := CasualInput{
		AhD: measure.F(20.1, 0),
		BrC: measure.F(88, 0),
		WaC: measure.F(68, 0),
		HiC: measure.F(97, 0),
		BG:  measure.F(16.5, 0),
		AG:  measure.F(9.3, 0),
		BrG: measure.F(18.2, 0),
		ShG: measure.F(12.2, 0),
		BL:  measure.F(41.6, 0),
		FL:  measure.F(45.3, 0),

		NeG: 6.5,
		MoL: 75,
		HiD: 20,
		ShA: 20,
		BrD: 28.1,

		ShoulderDifference: 2,
		BackShoulderEase:   0.7,
		Visibility:         draft.ShowAll,
	}
	p := measure.DefaultProfiles().DefaultProfile()
	measure.Apply(p, &in)
	in.Profile = p.Name
	return in
}

// EaseField implements measure.EaseTarget.
func (in *CasualInput) EaseField(key string) *measure.Field {
	switch key {
	case "AhD":
		return &in.AhD
	case "BrC":
		return &in.BrC
	case "WaC":
		return &in.WaC
	case "HiC":
		return &in.HiC
	case "BG":
		return &in.BG
	case "AG":
		return &in.AG
	case "BrG":
		return &in.BrG
	case "ShG":
		return &in.ShG
	case "BL":
		return &in.BL
	case "FL":
		return &in.FL
	}
	return nil
}

// UseProfile applies the eases of a named profile from t.
func (in *CasualInput) UseProfile(t *measure.ProfileTable, name string) error {
	p, err := t.Lookup(name)
	if err != nil {
		return fmt.Errorf("casual bodice: %w", err)
	}
	measure.Apply(p, in)
	in.Profile = p.Name
	return nil
}

// View implements draft.Input.
func (in *CasualInput) View() draft.Visibility { return in.Visibility }

// Normalize implements draft.Input.
func (in *CasualInput) Normalize() []string {
	def := CasualDefaults()
	var replaced []string
	for _, k := range []string{"AhD", "BrC", "WaC", "HiC", "BG", "AG", "BrG", "ShG", "BL", "FL"} {
		if in.EaseField(k).Normalize(*def.EaseField(k)) {
			replaced = append(replaced, k)
		}
	}
	fix := func(name string, v *float64, fallback float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = fallback
			replaced = append(replaced, name)
		}
	}
	fix("NeG", &in.NeG, def.NeG)
	fix("MoL", &in.MoL, def.MoL)
	fix("HiD", &in.HiD, def.HiD)
	fix("ShA", &in.ShA, def.ShA)
	fix("BrD", &in.BrD, def.BrD)
	fix("shoulderDifference", &in.ShoulderDifference, def.ShoulderDifference)
	fix("backShoulderEase", &in.BackShoulderEase, def.BackShoulderEase)
	return replaced
}
