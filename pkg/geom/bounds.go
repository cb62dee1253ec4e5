package geom

import "math"

// Bounds accumulates the extent of emitted coordinates. The zero value is
// empty; non-finite points are ignored.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	Valid                  bool
}

// Include grows b to contain p.
func (b *Bounds) Include(p Point) {
	if !p.IsFinite() {
		return
	}
	if !b.Valid {
		b.MinX, b.MaxX, b.MinY, b.MaxY = p.X, p.X, p.Y, p.Y
		b.Valid = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// IncludeRadius grows b to contain a disc of radius r around p.
func (b *Bounds) IncludeRadius(p Point, r float64) {
	b.Include(p.Move(-r, -r))
	b.Include(p.Move(r, r))
}

// Union grows b to contain o.
func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Include(Point{o.MinX, o.MinY})
	b.Include(Point{o.MaxX, o.MaxY})
}

// Empty reports whether no finite point has been included.
func (b Bounds) Empty() bool { return !b.Valid }

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Pad returns the rectangle covering b expanded by side on the left, right
// and bottom and by top above. Each extent is at least 1 before padding.
func (b Bounds) Pad(side, top float64) Rect {
	w := math.Max(1, b.Width())
	h := math.Max(1, b.Height())
	return Rect{
		X: b.MinX - side,
		Y: b.MinY - top,
		W: w + 2*side,
		H: h + top + side,
	}
}
