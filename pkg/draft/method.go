package draft

import (
	"errors"
	"fmt"
)

// ErrInputType is returned when a method receives another method's input.
var ErrInputType = errors.New("input does not belong to this method")

// Input is a method's typed measurement record.
type Input interface {
	// Normalize substitutes documented defaults for absent or non-finite
	// fields and returns the names it replaced.
	Normalize() []string
	// View returns the presentation toggles.
	View() Visibility
}

// Method is one drafting algorithm. Draft must be deterministic and must
// return a drawing for any input of the right type.
type Method interface {
	Key() string
	Title() string
	// Unit is "in" or "cm".
	Unit() string
	NewInput() Input
	Draft(in Input) (*Drawing, error)
}

// Cast asserts in to the concrete input type T.
func Cast[T Input](m Method, in Input) (T, error) {
	v, ok := in.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: got %T: %w", m.Key(), in, ErrInputType)
	}
	return v, nil
}

// Normalized reports each replaced field as a NonFinite warning on b.
func Normalized(b *Builder, fields []string) {
	for _, f := range fields {
		b.Warn(NonFinite, "", "%s replaced by default", f)
	}
}
