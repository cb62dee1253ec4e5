// Package measure resolves raw body measurements into construction
// lengths: measurement plus ease, fit-profile presets, and the dart
// distribution rules shared by the drafting methods.
package measure

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Field is one measurement row. Final is always derived, never stored.
type Field struct {
	Measurement float64 `yaml:"measurement" json:"measurement"`
	Ease        float64 `yaml:"ease" json:"ease"`
}

// F builds a Field.
func F(measurement, ease float64) Field {
	return Field{Measurement: measurement, Ease: ease}
}

// Final returns measurement + ease.
func (f Field) Final() float64 { return f.Measurement + f.Ease }

// Normalize replaces non-finite parts with the corresponding part of def.
// It reports whether anything was substituted.
func (f *Field) Normalize(def Field) bool {
	changed := false
	if !finite(f.Measurement) {
		f.Measurement = def.Measurement
		changed = true
	}
	if !finite(f.Ease) {
		f.Ease = def.Ease
		changed = true
	}
	return changed
}

// Or returns v when finite, def otherwise.
func Or(v, def float64) float64 {
	if finite(v) {
		return v
	}
	return def
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// UnmarshalYAML accepts either a mapping or a bare number. A bare number
// sets the measurement and keeps the current ease.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("measurement: %w", err)
		}
		f.Measurement = v
		return nil
	}
	type plain Field
	p := plain(*f)
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	return nil
}
