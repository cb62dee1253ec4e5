package measure

import "math"

// WaistDarts holds the four Aldrich waist dart widths in centimetres.
type WaistDarts struct {
	Front     float64 `yaml:"front"`
	Back      float64 `yaml:"back"`
	FrontSide float64 `yaml:"frontSide"`
	BackSide  float64 `yaml:"backSide"`
}

// Sum returns the total suppression.
func (d WaistDarts) Sum() float64 { return d.Front + d.Back + d.FrontSide + d.BackSide }

// AldrichWaistDiff is (bust/2 + bustEase) - (waist/2 + waistEase).
// It is NaN when bust or waist is not finite; a non-finite ease counts as 0.
func AldrichWaistDiff(bust, waist, bustEase, waistEase float64) float64 {
	if !finite(bust) || !finite(waist) {
		return math.NaN()
	}
	return bust/2 + Or(bustEase, 0) - (waist/2 + Or(waistEase, 0))
}

// AldrichDarts distributes a bust/waist differential over the four darts.
// Standard mode uses x=(|diff|-6)/4 stacked 0, 1, 2, 3; reduced mode scales
// the differential by 0.75 first and uses x=(d-5)/4 stacked 0, 1, 1.5, 2.5.
func AldrichDarts(diff float64, reduced bool) WaistDarts {
	if !finite(diff) {
		return WaistDarts{}
	}
	d := math.Abs(diff)
	sub := 6.0
	if reduced {
		d *= 0.75
		sub = 5
	}
	x := (d - sub) / 4
	if !finite(x) || x < 0 {
		x = 0
	}
	if reduced {
		return WaistDarts{BackSide: x, FrontSide: x + 1, Back: x + 1.5, Front: x + 2.5}
	}
	return WaistDarts{BackSide: x, FrontSide: x + 1, Back: x + 2, Front: x + 3}
}

// AldrichFrontNeckDart returns the front neck dart width for a bust.
func AldrichFrontNeckDart(bust float64) float64 {
	const (
		lowBust, highBust = 88.0, 110.0
		lowVal, highVal   = 7.0, 10.0
	)
	switch {
	case !finite(bust):
		return lowVal
	case bust < lowBust:
		return lowVal - (lowBust-bust)/4*0.6
	case bust <= 104:
		return lowVal + (bust-lowBust)/4*0.6
	case bust <= highBust:
		return highVal - (highBust-bust)/6*0.6
	default:
		return highVal + (bust-highBust)/6*0.6
	}
}

// AldrichPointA returns the bust band distance for point A.
func AldrichPointA(bust float64) float64 {
	switch {
	case !finite(bust):
		return 2.5
	case bust <= 80:
		return 2.25
	case bust >= 96 && bust <= 106:
		return 3
	case bust > 106 && bust <= 128:
		return 3.5
	case bust > 80 && bust <= 99:
		return 2.5
	}
	return 3.5
}

// AldrichPointB returns the bust band distance for point B.
func AldrichPointB(bust float64) float64 {
	switch {
	case !finite(bust):
		return 2
	case bust <= 80:
		return 1.75
	case bust >= 96 && bust <= 106:
		return 2.5
	case bust > 106 && bust <= 128:
		return 3
	case bust > 80 && bust <= 99:
		return 2
	}
	return 3
}

// Dart names the editable Aldrich dart fields.
type Dart int

const (
	FrontDart Dart = iota
	BackDart
	FrontSideDart
	BackSideDart
)

// AldrichAuto tracks which derived Aldrich fields the user has edited so
// recomputation leaves them alone.
type AldrichAuto struct {
	Darts     WaistDarts `yaml:"darts"`
	Diff      float64    `yaml:"diff"`
	FrontNeck float64    `yaml:"frontNeck"`
	Reduced   bool       `yaml:"reduced"`

	DartEdited      [4]bool `yaml:"dartEdited"`
	DiffEdited      bool    `yaml:"diffEdited"`
	FrontNeckEdited bool    `yaml:"frontNeckEdited"`
}

// NewAldrichAuto computes every derived field from scratch.
func NewAldrichAuto(bust, waist, bustEase, waistEase float64, reduced bool) *AldrichAuto {
	a := &AldrichAuto{Reduced: reduced}
	a.update(bust, waist, bustEase, waistEase, true, true)
	return a
}

// Update recomputes the derived fields after a base measurement changed.
// Edited darts and an edited differential are kept.
func (a *AldrichAuto) Update(bust, waist, bustEase, waistEase float64) {
	a.update(bust, waist, bustEase, waistEase, false, false)
}

// SetReduced switches darting mode, discarding manual edits.
func (a *AldrichAuto) SetReduced(reduced bool, bust, waist, bustEase, waistEase float64) {
	a.Reduced = reduced
	a.update(bust, waist, bustEase, waistEase, true, true)
}

// EditDart records a manual dart width. The differential returns to automatic.
func (a *AldrichAuto) EditDart(d Dart, width float64) {
	switch d {
	case FrontDart:
		a.Darts.Front = width
	case BackDart:
		a.Darts.Back = width
	case FrontSideDart:
		a.Darts.FrontSide = width
	case BackSideDart:
		a.Darts.BackSide = width
	default:
		return
	}
	a.DartEdited[d] = true
	a.DiffEdited = false
}

// SetDiff redistributes every dart from a manually entered differential.
func (a *AldrichAuto) SetDiff(diff float64) {
	if !finite(diff) {
		return
	}
	a.Darts = AldrichDarts(diff, a.Reduced)
	a.DartEdited = [4]bool{}
	a.Diff = diff
	a.DiffEdited = true
}

// EditFrontNeck records a manual front neck dart.
func (a *AldrichAuto) EditFrontNeck(width float64) {
	a.FrontNeck = width
	a.FrontNeckEdited = true
}

func (a *AldrichAuto) update(bust, waist, bustEase, waistEase float64, force, reset bool) {
	if reset {
		a.FrontNeckEdited = false
		a.DiffEdited = false
	}
	if neck := AldrichFrontNeckDart(bust); force || !a.FrontNeckEdited {
		a.FrontNeck = neck
	}
	diff := AldrichWaistDiff(bust, waist, bustEase, waistEase)
	if !finite(diff) || a.DiffEdited {
		return
	}
	darts := AldrichDarts(diff, a.Reduced)
	set := func(d Dart, dst *float64, v float64) {
		if force || !a.DartEdited[d] {
			*dst = v
		}
	}
	set(FrontDart, &a.Darts.Front, darts.Front)
	set(BackDart, &a.Darts.Back, darts.Back)
	set(FrontSideDart, &a.Darts.FrontSide, darts.FrontSide)
	set(BackSideDart, &a.Darts.BackSide, darts.BackSide)
	a.Diff = math.Abs(diff)
	if reset {
		a.DartEdited = [4]bool{}
	}
}
