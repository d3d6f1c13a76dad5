package path

import (
	"errors"
	"math"
	"testing"
)

// triangleArea sums the unsigned area of the triangles referenced by indices.
func triangleArea(points []Point, indices []uint32) float64 {
	var area float64
	for i := 0; i+2 < len(indices); i += 3 {
		a := points[indices[i]]
		b := points[indices[i+1]]
		c := points[indices[i+2]]
		area += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	return area
}

func subFor(points []Point, closed bool) Subpath {
	return Subpath{Start: 0, End: len(points), Closed: closed}
}

func TestTriangulateConvexQuad(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	idx, err := Triangulate(pts, subFor(pts, true))
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 6 {
		t.Fatalf("indices = %d, want 6 (two triangles)", len(idx))
	}
	if got := triangleArea(pts, idx); math.Abs(got-100) > 1e-9 {
		t.Errorf("area = %v, want 100", got)
	}
}

func TestTriangulateClosingDuplicateDropped(t *testing.T) {
	// Flatten appends a duplicate of the first point on Close; the
	// triangulator must not treat it as a distinct vertex.
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	idx, err := Triangulate(pts, subFor(pts, true))
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 6 {
		t.Fatalf("indices = %d, want 6", len(idx))
	}
}

func TestTriangulateConcave(t *testing.T) {
	// An L shape: concave at (5, 5).
	pts := []Point{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	idx, err := Triangulate(pts, subFor(pts, true))
	if err != nil {
		t.Fatal(err)
	}
	if got := triangleArea(pts, idx); math.Abs(got-75) > 1e-9 {
		t.Errorf("area = %v, want 75", got)
	}
	// n-gon ear clipping always yields n-2 triangles.
	if len(idx) != 3*(len(pts)-2) {
		t.Errorf("indices = %d, want %d", len(idx), 3*(len(pts)-2))
	}
}

func TestTriangulateWindingIndependent(t *testing.T) {
	ccw := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cw := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}

	for _, pts := range [][]Point{ccw, cw} {
		idx, err := Triangulate(pts, subFor(pts, true))
		if err != nil {
			t.Fatal(err)
		}
		if got := triangleArea(pts, idx); math.Abs(got-100) > 1e-9 {
			t.Errorf("area = %v, want 100", got)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	cases := map[string][]Point{
		"two points": {{0, 0}, {10, 0}},
		"collinear":  {{0, 0}, {5, 0}, {10, 0}},
		"all same":   {{3, 3}, {3, 3}, {3, 3}},
		"zero area":  {{0, 0}, {10, 0}, {0, 0}, {10, 0}},
	}
	for name, pts := range cases {
		if _, err := Triangulate(pts, subFor(pts, true)); !errors.Is(err, ErrDegeneratePath) {
			t.Errorf("%s: err = %v, want ErrDegeneratePath", name, err)
		}
	}
}

func TestTriangulateFillWithHole(t *testing.T) {
	// Outer 20x20 square CCW, inner 10x10 hole CW. Filled area 300.
	pts := []Point{
		{0, 0}, {20, 0}, {20, 20}, {0, 20},
		{5, 5}, {5, 15}, {15, 15}, {15, 5},
	}
	subs := []Subpath{
		{Start: 0, End: 4, Closed: true},
		{Start: 4, End: 8, Closed: true},
	}
	idx, err := TriangulateFill(pts, subs)
	if err != nil {
		t.Fatal(err)
	}
	if got := triangleArea(pts, idx); math.Abs(got-300) > 1e-6 {
		t.Errorf("area = %v, want 300", got)
	}

	// No triangle's centroid may fall inside the hole.
	for i := 0; i+2 < len(idx); i += 3 {
		a := pts[idx[i]]
		b := pts[idx[i+1]]
		c := pts[idx[i+2]]
		cx := (a.X + b.X + c.X) / 3
		cy := (a.Y + b.Y + c.Y) / 3
		if cx > 5 && cx < 15 && cy > 5 && cy < 15 {
			t.Fatalf("triangle centroid (%v, %v) inside hole", cx, cy)
		}
	}
}

func TestTriangulateFillTwoOuterContours(t *testing.T) {
	// Two disjoint squares wound the same way: both fill.
	pts := []Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{20, 0}, {30, 0}, {30, 10}, {20, 10},
	}
	subs := []Subpath{
		{Start: 0, End: 4, Closed: true},
		{Start: 4, End: 8, Closed: true},
	}
	idx, err := TriangulateFill(pts, subs)
	if err != nil {
		t.Fatal(err)
	}
	if got := triangleArea(pts, idx); math.Abs(got-200) > 1e-9 {
		t.Errorf("area = %v, want 200", got)
	}
}

func TestTriangulateFillSkipsDegenerateSubpath(t *testing.T) {
	// A zero-area subpath between two valid squares is skipped, not fatal.
	pts := []Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{50, 50}, {50, 50}, {50, 50},
		{20, 0}, {30, 0}, {30, 10}, {20, 10},
	}
	subs := []Subpath{
		{Start: 0, End: 4, Closed: true},
		{Start: 4, End: 7, Closed: true},
		{Start: 7, End: 11, Closed: true},
	}
	idx, err := TriangulateFill(pts, subs)
	if err != nil {
		t.Fatal(err)
	}
	if got := triangleArea(pts, idx); math.Abs(got-200) > 1e-9 {
		t.Errorf("area = %v, want 200", got)
	}
}

func TestTriangulateFillAllDegenerate(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}, {2, 0}}
	subs := []Subpath{{Start: 0, End: 3, Closed: true}}
	if _, err := TriangulateFill(pts, subs); !errors.Is(err, ErrDegeneratePath) {
		t.Errorf("err = %v, want ErrDegeneratePath", err)
	}
}

func TestIsConvexRingFanFastPath(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {15, 8}, {10, 16}, {0, 16}, {-5, 8}}
	ring := []int{0, 1, 2, 3, 4, 5}
	if !isConvexRing(pts, ring) {
		t.Fatal("hexagon not detected as convex")
	}
	idx, err := earClip(pts, ring)
	if err != nil {
		t.Fatal(err)
	}
	// Fan from vertex 0: every triangle shares index 0.
	for i := 0; i < len(idx); i += 3 {
		if idx[i] != 0 {
			t.Fatalf("triangle %d does not fan from vertex 0: %v", i/3, idx[i:i+3])
		}
	}
}
