package measure

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// Skirt dart limits, in centimetres.
const (
	FirstBackDartMax   = 4.5
	MinSecondBackDart  = 1.0
	FrontDartMax       = 2.5
	frontDartShare     = 0.2
	firstBackDartShare = 0.3
)

// DartSpec is one dart's width and length. Override pins Width against
// automatic recomputation.
type DartSpec struct {
	Width    float64 `yaml:"width" json:"width"`
	Length   float64 `yaml:"length" json:"length"`
	Auto     bool    `yaml:"auto,omitempty" json:"auto,omitempty"`
	Override bool    `yaml:"override,omitempty" json:"override,omitempty"`
}

func (d DartSpec) manual() (float64, bool) {
	if d.Override && finite(d.Width) {
		return math.Max(0, d.Width), true
	}
	return 0, false
}

// HipProfile shapes the side dart and waist curve of the skirt.
type HipProfile string

const (
	HipFlat   HipProfile = "Flat"
	HipNormal HipProfile = "Normal"
	HipCurvy  HipProfile = "Curvy"
)

// ParseHipProfile matches "flat" or "curvy" anywhere in s; anything else is Normal.
func ParseHipProfile(s string) HipProfile {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "flat"):
		return HipFlat
	case strings.Contains(v, "curvy"):
		return HipCurvy
	}
	return HipNormal
}

// WaistShaping is the extra side-seam rise for the profile.
func (p HipProfile) WaistShaping() float64 {
	if ParseHipProfile(string(p)) == HipCurvy {
		return 1.5
	}
	return 1
}

func (p HipProfile) sideBase(target float64) float64 {
	switch ParseHipProfile(string(p)) {
	case HipCurvy:
		return math.Max(0, target/2+1)
	case HipFlat:
		return math.Max(0, target/2-1)
	}
	return math.Max(0, target/2)
}

// SkirtInput is what the skirt dart distribution needs.
type SkirtInput struct {
	HiC, HipEase   float64
	WaC, WaistEase float64
	Profile        HipProfile

	Side, Front, Back1, Back2 DartSpec
}

// SkirtDarts is the resolved skirt dart distribution.
type SkirtDarts struct {
	HiW, WaW, Target float64

	Side, Front, Back1, Back2 float64

	// Transferred is the width moved from the second back dart to the first.
	Transferred   float64
	DartSum       float64
	ManualDartSum float64
	WaistShaping  float64
	WaDif         float64
}

// Count returns the number of darts wider than zero.
func (s SkirtDarts) Count() int {
	return lo.CountBy([]float64{s.Side, s.Front, s.Back1, s.Back2}, func(w float64) bool { return w > 0 })
}

// DistributeSkirt splits the hip/waist differential across the side, front
// and two back darts. Manually overridden widths are kept and still consume
// their share of the differential. A second back dart narrower than
// MinSecondBackDart is folded into the first while the first has room.
func DistributeSkirt(in SkirtInput) SkirtDarts {
	hiW := (Or(in.HiC, 0) + Or(in.HipEase, 0)) / 2
	waW := (Or(in.WaC, 0) + Or(in.WaistEase, 0)) / 2
	target := math.Max(0, hiW-waW)
	out := SkirtDarts{HiW: hiW, WaW: waW, Target: target}

	side, sideManual := in.Side.manual()
	if !sideManual {
		side = in.Profile.sideBase(target)
	}
	front, frontManual := in.Front.manual()
	if !frontManual {
		front = math.Max(0, math.Min(target*frontDartShare, FrontDartMax))
	}
	back1, back1Manual := in.Back1.manual()
	if !back1Manual {
		back1 = math.Min(target*firstBackDartShare, FirstBackDartMax)
	}
	remainder := math.Max(0, target-side-front-back1)
	back2, back2Manual := in.Back2.manual()
	if !back2Manual {
		back2 = remainder
	}

	if !back1Manual && !back2Manual && back2 > 0 && back2 < MinSecondBackDart && back1 < FirstBackDartMax {
		if moved := math.Min(back2, FirstBackDartMax-back1); moved > 0 {
			back1 += moved
			remainder = math.Max(0, remainder-moved)
			back2 = remainder
			out.Transferred = moved
		}
	}

	out.Side, out.Front, out.Back1, out.Back2 = side, front, back1, back2
	out.DartSum = math.Max(0, side+front+back1+back2)
	out.ManualDartSum = lo.SumBy([]DartSpec{in.Side, in.Front, in.Back1, in.Back2}, func(d DartSpec) float64 {
		if !d.Override {
			return 0
		}
		w, _ := d.manual()
		return w
	})
	out.WaistShaping = in.Profile.WaistShaping()
	out.WaDif = target - out.ManualDartSum
	return out
}
