package draft

import "fmt"

// WarningKind classifies a recovered construction failure.
type WarningKind int

const (
	// Degenerate: an intersection or quadratic solve had no usable root
	// and the point fell back to its default construction.
	Degenerate WarningKind = iota
	// NonFinite: an input or computed value was NaN or infinite.
	NonFinite
	// Convergence: the through-point solver ran out of iterations.
	Convergence
)

func (k WarningKind) String() string {
	switch k {
	case Degenerate:
		return "degenerate"
	case NonFinite:
		return "nonfinite"
	case Convergence:
		return "convergence"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning describes a recovered problem. Warnings never abort a draft.
type Warning struct {
	Kind    WarningKind `yaml:"kind"`
	Point   string      `yaml:"point,omitempty"` // construction point key, if any
	Message string      `yaml:"message"`
}

func (w Warning) String() string {
	if w.Point == "" {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] point %s: %s", w.Kind, w.Point, w.Message)
}
