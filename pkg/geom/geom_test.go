package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Pt(0, 0), Pt(2, 2), Pt(0, 2), Pt(2, 0), ParallelEps)
	if !ok {
		t.Fatal("expected crossing")
	}
	if !near(p.X, 1, eps) || !near(p.Y, 1, eps) {
		t.Errorf("got %v, want (1,1)", p)
	}
}

func TestLineIntersectionParallel(t *testing.T) {
	if _, ok := LineIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 1), Pt(1, 1+1e-9), ParallelEps); ok {
		t.Error("near-parallel lines should not intersect")
	}
}

func TestCircleIntersectionsBand(t *testing.T) {
	c1, c2 := Pt(0, 0), Pt(5, 0)
	cases := []struct {
		r1, r2 float64
		want   int
	}{
		{3, 4, 2},      // 3-4-5 triangle
		{2, 3, 1},      // externally tangent
		{8, 3, 1},      // internally tangent
		{4, 3, 2},      // inside band
		{1, 1, 0},      // too far apart
		{10, 2, 0},     // nested
		{2, 2.995, 1},  // just short, within tolerance
		{2, 2.98, 0},   // beyond tolerance
		{8.005, 3, 1},  // nested within tolerance
		{20, 0.5, 0},   // nested far
		{2.5, 2.5, 1},  // touching at midpoint
		{2.6, 2.6, 2},  // overlapping
	}
	for _, tc := range cases {
		got := CircleIntersections(c1, tc.r1, c2, tc.r2)
		if len(got) != tc.want {
			t.Errorf("r1=%v r2=%v: got %d solutions, want %d", tc.r1, tc.r2, len(got), tc.want)
			continue
		}
		for _, p := range got {
			if tc.want == 2 {
				if !near(p.Distance(c1), tc.r1, 1e-9) || !near(p.Distance(c2), tc.r2, 1e-9) {
					t.Errorf("r1=%v r2=%v: point %v off the circles", tc.r1, tc.r2, p)
				}
			}
		}
	}
}

func TestCircleIntersectionsConcentric(t *testing.T) {
	if got := CircleIntersections(Pt(1, 1), 2, Pt(1, 1), 2); got != nil {
		t.Errorf("concentric circles should yield nil, got %v", got)
	}
}

func TestProjectOntoSegmentClamps(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	p, tt := ProjectOntoSegment(Pt(-5, 3), a, b)
	if tt != 0 || p != a {
		t.Errorf("before start: got %v t=%v", p, tt)
	}
	p, tt = ProjectOntoSegment(Pt(15, -3), a, b)
	if tt != 1 || p != b {
		t.Errorf("past end: got %v t=%v", p, tt)
	}
	p, tt = ProjectOntoSegment(Pt(4, 7), a, b)
	if !near(tt, 0.4, eps) || !near(p.X, 4, eps) || p.Y != 0 {
		t.Errorf("interior: got %v t=%v", p, tt)
	}
	p, _ = ProjectOntoSegment(Pt(4, 7), a, a)
	if p != a {
		t.Errorf("degenerate segment should project to a, got %v", p)
	}
}

func TestQuadraticOnChordPrefersGuideEnd(t *testing.T) {
	// Both roots of |P - center| = 5 along the x axis lie in [0,10]; the
	// one nearer t=1 wins.
	p, tt, ok := QuadraticOnChord(Pt(0, 0), Pt(10, 0), Pt(5, 3), 5, Guide{Lo: 0, Hi: 1, Prefer: 1})
	if !ok {
		t.Fatal("expected in-range root")
	}
	if !near(tt, 0.9, 1e-9) || !near(p.X, 9, 1e-9) {
		t.Errorf("got t=%v p=%v, want t=0.9", tt, p)
	}
}

func TestQuadraticOnChordClampsNegativeDiscriminant(t *testing.T) {
	// Circle never reaches the x axis; the discriminant is clamped and the
	// closest approach is returned.
	p, _, ok := QuadraticOnChord(Pt(0, 0), Pt(1, 0), Pt(5, 3), 1, Guide{Lo: 0, Hi: 10, Prefer: 10})
	if !ok {
		t.Fatal("clamped root at t=5 is within the guide")
	}
	if !near(p.X, 5, 1e-9) || p.Y != 0 {
		t.Errorf("got %v, want (5,0)", p)
	}
}

func TestQuadraticOnChordFallback(t *testing.T) {
	_, tt, ok := QuadraticOnChord(Pt(0, 0), Pt(1, 0), Pt(0, 0), 20, Guide{Lo: 0, Hi: 6, Prefer: 6})
	if ok {
		t.Error("no root inside the guide; expected fallback")
	}
	if tt != 6 {
		t.Errorf("fallback should clamp the larger root to 6, got %v", tt)
	}
}

func TestQuadraticOnChordZeroDirection(t *testing.T) {
	p, _, ok := QuadraticOnChord(Pt(2, 2), Pt(0, 0), Pt(0, 0), 1, Guide{Lo: 0, Hi: 1})
	if ok || p != Pt(2, 2) {
		t.Errorf("zero direction should return origin with fallback, got %v ok=%v", p, ok)
	}
}

func TestDirDefaultsToUnitX(t *testing.T) {
	if d := Pt(3, 3).Dir(Pt(3, 3)); d != Pt(1, 0) {
		t.Errorf("got %v, want (1,0)", d)
	}
}

func TestIntersectVertical(t *testing.T) {
	p, ok := IntersectVertical(Pt(0, 0), Pt(10, 5), 4)
	if !ok || !near(p.Y, 2, eps) {
		t.Errorf("got %v ok=%v", p, ok)
	}
	if _, ok := IntersectVertical(Pt(0, 0), Pt(10, 5), 11); ok {
		t.Error("x beyond the segment should not intersect")
	}
	if _, ok := IntersectVertical(Pt(1, 0), Pt(1, 5), 1); ok {
		t.Error("vertical segment should not intersect")
	}
}

func TestExtendAndResize(t *testing.T) {
	p := Extend(Pt(0, 0), Pt(3, 4), 5)
	if !near(p.X, 6, eps) || !near(p.Y, 8, eps) {
		t.Errorf("Extend got %v", p)
	}
	p = Resize(Pt(0, 0), Pt(3, 4), 10)
	if !near(p.X, 6, eps) || !near(p.Y, 8, eps) {
		t.Errorf("Resize got %v", p)
	}
	if p := Extend(Pt(1, 1), Pt(1, 1), 3); p != Pt(1, 1) {
		t.Errorf("coincident Extend got %v", p)
	}
}

func TestClampHandle(t *testing.T) {
	h := ClampHandle(Pt(3, 4), 2, 1.6)
	if !near(h.Len(), 3.2, eps) {
		t.Errorf("expected handle scaled to 3.2, got %v", h.Len())
	}
	if h := ClampHandle(Pt(3, 4), 10, 1.6); h != Pt(3, 4) {
		t.Errorf("short handle should be unchanged, got %v", h)
	}
	if h := ClampHandle(Pt(3, 4), 0, 1.6); h != (Point{}) {
		t.Errorf("zero chord should collapse handle, got %v", h)
	}
}

func TestBoundsSkipsNonFinite(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds should be empty")
	}
	b.Include(Pt(math.NaN(), 1))
	b.Include(Pt(math.Inf(1), 1))
	if !b.Empty() {
		t.Fatal("non-finite points must not make bounds valid")
	}
	b.Include(Pt(1, 2))
	b.Include(Pt(-3, 5))
	if b.Empty() || b.MinX != -3 || b.MaxX != 1 || b.MinY != 2 || b.MaxY != 5 {
		t.Errorf("unexpected bounds %+v", b)
	}
	r := b.Pad(60, 10)
	if r.X != -63 || r.Y != -8 || r.W != 124 || r.H != 73 {
		t.Errorf("unexpected padded rect %+v", r)
	}
}

func TestFirstFinite(t *testing.T) {
	if v := FirstFinite(math.NaN(), math.Inf(-1), 4, 5); v != 4 {
		t.Errorf("got %v", v)
	}
	if v := FirstFinite(math.NaN()); v != 0 {
		t.Errorf("got %v", v)
	}
}
