package draft

import "fmt"

// Severity indicates whether a validation finding makes a drawing unusable
// for export or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // drawing cannot be rendered faithfully
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding is one validation result.
type Finding struct {
	Layer    string
	Op       int // index into Drawing.Ops, -1 for drawing-level findings
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Op < 0 {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] op %d on %q: %s", f.Severity, f.Op, f.Layer, f.Message)
}

// Result bundles blocking errors and advisory warnings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether there are no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate checks a drawing before it is handed to a sink. It is read-only.
func Validate(d *Drawing) Result {
	var r Result
	add := func(f Finding) {
		if f.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, f)
		} else {
			r.Errors = append(r.Errors, f)
		}
	}
	for _, f := range validateLayers(d) {
		add(f)
	}
	for _, f := range validateOps(d) {
		add(f)
	}
	if d.Bounds.Empty() {
		add(Finding{Op: -1, Message: "drawing has no finite geometry", Severity: SeverityError})
	}
	for _, key := range d.Order {
		if p, ok := d.Points[key]; !ok || !p.IsFinite() {
			add(Finding{Op: -1, Message: fmt.Sprintf("point %s is not finite", key), Severity: SeverityError})
		}
	}
	for _, w := range d.Warnings {
		add(Finding{Op: -1, Message: w.String(), Severity: SeverityWarning})
	}
	return r
}

// validateLayers checks ids are unique and parents exist.
func validateLayers(d *Drawing) []Finding {
	var out []Finding
	seen := map[string]bool{}
	for _, l := range d.Layers {
		if seen[l.ID] {
			out = append(out, Finding{Layer: l.ID, Op: -1, Message: "duplicate layer id", Severity: SeverityError})
		}
		seen[l.ID] = true
	}
	for _, l := range d.Layers {
		if l.Parent != "" && !seen[l.Parent] {
			out = append(out, Finding{Layer: l.ID, Op: -1, Message: fmt.Sprintf("unknown parent %q", l.Parent), Severity: SeverityError})
		}
	}
	return out
}

// validateOps checks every op references a declared layer and has finite
// coordinates.
func validateOps(d *Drawing) []Finding {
	var out []Finding
	layers := map[string]bool{}
	for _, l := range d.Layers {
		layers[l.ID] = true
	}
	for i, o := range d.Ops {
		if !layers[o.Layer] {
			out = append(out, Finding{Layer: o.Layer, Op: i, Message: "undeclared layer", Severity: SeverityError})
		}
		for _, p := range o.Points() {
			if !p.IsFinite() {
				out = append(out, Finding{Layer: o.Layer, Op: i, Message: fmt.Sprintf("%s has non-finite coordinates", o.Kind), Severity: SeverityError})
				break
			}
		}
		if o.Kind == OpSegment && o.P[0] == o.P[1] {
			out = append(out, Finding{Layer: o.Layer, Op: i, Message: "zero-length segment", Severity: SeverityWarning})
		}
	}
	return out
}
