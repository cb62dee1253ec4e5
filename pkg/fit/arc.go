package fit

import (
	"math"

	"github.com/chazu/patternhub/pkg/geom"
)

// Sweep limits in radians. The maximum is a half turn.
const (
	DefaultMinSweep = 0.05
	MaxSweep        = math.Pi
)

// Limits bounds the absolute sweep of a fitted arc.
type Limits struct {
	MinSweep float64
	MaxSweep float64
}

// DefaultLimits are the limits used when none are given.
var DefaultLimits = Limits{MinSweep: DefaultMinSweep, MaxSweep: MaxSweep}

func (l Limits) norm() Limits {
	if l.MinSweep <= 0 {
		l.MinSweep = DefaultMinSweep
	}
	if l.MaxSweep <= 0 || l.MaxSweep > MaxSweep {
		l.MaxSweep = MaxSweep
	}
	if l.MinSweep > l.MaxSweep {
		l.MinSweep = l.MaxSweep
	}
	return l
}

// Arc is a circular arc. Sweep is signed: positive runs counter-clockwise
// in a y-up frame.
type Arc struct {
	Center  geom.Point `json:"center" yaml:"center"`
	Radius  float64    `json:"radius" yaml:"radius"`
	Start   float64    `json:"start" yaml:"start"`
	Sweep   float64    `json:"sweep" yaml:"sweep"`
	Clamped bool       `json:"clamped" yaml:"clamped"`
}

// FitArc builds the arc around center starting at angle start whose length
// is target. The sweep target/radius is clamped to the limits; when that
// happens Clamped is set and the realized length differs from target. A
// negative direction sweeps clockwise.
func FitArc(center geom.Point, radius, start, target float64, direction int, lim Limits) Arc {
	lim = lim.norm()
	a := Arc{Center: center, Radius: math.Abs(radius), Start: start}
	sweep := lim.MinSweep
	if a.Radius > 0 && target > 0 {
		sweep = target / a.Radius
	}
	if c := geom.Clamp(sweep, lim.MinSweep, lim.MaxSweep); c != sweep || math.IsNaN(sweep) {
		a.Clamped = true
		sweep = geom.Finite(c, lim.MinSweep)
	}
	if direction < 0 {
		sweep = -sweep
	}
	a.Sweep = sweep
	return a
}

// End returns the angle where the arc ends.
func (a Arc) End() float64 { return a.Start + a.Sweep }

// Length returns the exact circular length r·|sweep|.
func (a Arc) Length() float64 { return a.Radius * math.Abs(a.Sweep) }

// PointAt returns the point on the circle at angle.
func (a Arc) PointAt(angle float64) geom.Point {
	return a.Center.Add(geom.FromAngle(angle).Scale(a.Radius))
}

// HandleLength returns the cubic handle length for the arc's sweep,
// (4/3)·r·tan(sweep/4).
func (a Arc) HandleLength() float64 {
	return HandleLength(a.Radius, math.Abs(a.Sweep))
}

// HandleLength is the standard circular-arc cubic handle length.
func HandleLength(radius, sweep float64) float64 {
	return 4.0 / 3.0 * radius * math.Tan(sweep/4)
}

// Cubic approximates the arc with a single cubic.
func (a Arc) Cubic() Cubic {
	p0 := a.PointAt(a.Start)
	p3 := a.PointAt(a.End())
	h := a.HandleLength()
	sign := 1.0
	if a.Sweep < 0 {
		sign = -1
	}
	t0 := geom.FromAngle(a.Start).Perp().Scale(sign * h)
	t1 := geom.FromAngle(a.End()).Perp().Scale(sign * h)
	return Cubic{P0: p0, P1: p0.Add(t0), P2: p3.Sub(t1), P3: p3}
}

// RealizedLength measures the fitted cubic rather than the ideal arc.
func (a Arc) RealizedLength() float64 {
	return a.Cubic().Arclen()
}

// Window is an angular range an arc must stay inside. The zero Window is
// unbounded.
type Window struct {
	Min, Max float64
}

func (w Window) bounded() bool { return w.Max > w.Min }

// Rebalance moves the arc along its circle so that anchor splits the sweep
// in the ratio before:after, keeping the total length. The total sweep is
// clamped to the limits. The arc is then shifted into w and clamped to it;
// if clamping leaves less than the minimum sweep the arc is centred on its
// remaining midpoint with the minimum sweep.
func Rebalance(a Arc, anchor, before, after float64, lim Limits, w Window) Arc {
	lim = lim.norm()
	out := a
	total := math.Abs(a.Sweep)
	if c := geom.Clamp(total, lim.MinSweep, lim.MaxSweep); c != total {
		total = c
		out.Clamped = true
	}
	frac := 0.5
	if before > 0 && after > 0 {
		frac = before / (before + after)
	}

	// lo and hi are the angular bounds regardless of direction.
	var lo float64
	if a.Sweep < 0 {
		lo = anchor - (1-frac)*total
	} else {
		lo = anchor - frac*total
	}
	hi := lo + total
	if w.bounded() {
		if lo < w.Min {
			lo, hi = w.Min, hi+w.Min-lo
		}
		if hi > w.Max {
			lo, hi = lo-(hi-w.Max), w.Max
		}
		lo, hi = math.Max(lo, w.Min), math.Min(hi, w.Max)
		if hi-lo < lim.MinSweep {
			mid := (lo + hi) / 2
			lo, hi = mid-lim.MinSweep/2, mid+lim.MinSweep/2
		}
	}

	if a.Sweep < 0 {
		out.Start, out.Sweep = hi, lo-hi
	} else {
		out.Start, out.Sweep = lo, hi-lo
	}
	return out
}

// AngleOf returns the angle of p about center.
func AngleOf(center, p geom.Point) float64 {
	return p.Sub(center).Angle()
}
