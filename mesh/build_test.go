package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/quillgfx/quill"
)

func meshArea(m *Mesh) float64 {
	var area float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Pos
		b := m.Vertices[m.Indices[i+1]].Pos
		c := m.Vertices[m.Indices[i+2]].Pos
		abx := float64(b.X - a.X)
		aby := float64(b.Y - a.Y)
		acx := float64(c.X - a.X)
		acy := float64(c.Y - a.Y)
		area += math.Abs(abx*acy-aby*acx) / 2
	}
	return area
}

func TestFillPathRect(t *testing.T) {
	var b quill.PathBuilder
	b.Rect(quill.R(0, 0, 100, 100))

	m, err := FillPath(b.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 {
		t.Errorf("vertices = %d, want 4 (closing duplicate compacted away)", len(m.Vertices))
	}
	if len(m.Indices) != 6 {
		t.Errorf("indices = %d, want 6", len(m.Indices))
	}
	if got := m.Bounds; got != quill.R(0, 0, 100, 100) {
		t.Errorf("bounds = %v, want (0,0)-(100,100)", got)
	}

	// Every corner carries the matching unit UV.
	for _, v := range m.Vertices {
		wantU := v.Pos.X / 100
		wantV := v.Pos.Y / 100
		if v.UV.X != wantU || v.UV.Y != wantV {
			t.Errorf("vertex %v has UV %v, want (%v, %v)", v.Pos, v.UV, wantU, wantV)
		}
	}
}

func TestFillPathCircleArea(t *testing.T) {
	var b quill.PathBuilder
	b.Circle(50, 50, 40)

	m, err := FillPath(b.Elements(), 0.25)
	if err != nil {
		t.Fatal(err)
	}
	exact := math.Pi * 40 * 40
	got := meshArea(m)
	if math.Abs(got-exact) > exact*0.01 {
		t.Errorf("area = %v, want about %v", got, exact)
	}
}

func TestFillPathDonutHole(t *testing.T) {
	var b quill.PathBuilder
	b.Rect(quill.R(0, 0, 30, 30))
	// Inner contour wound the opposite way becomes a hole.
	b.MoveTo(10, 10).LineTo(10, 20).LineTo(20, 20).LineTo(20, 10).Close()

	m, err := FillPath(b.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := meshArea(m); math.Abs(got-800) > 1e-3 {
		t.Errorf("area = %v, want 800", got)
	}
}

func TestFillPathDegenerate(t *testing.T) {
	var b quill.PathBuilder
	b.MoveTo(0, 0).LineTo(10, 0).Close()

	if _, err := FillPath(b.Elements(), 0); !errors.Is(err, ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestStrokePathRect(t *testing.T) {
	var b quill.PathBuilder
	b.Rect(quill.R(0, 0, 100, 100))

	style := DefaultStrokeStyle()
	style.Width = 10
	m, err := StrokePath(b.Elements(), style, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Ring area 4000 plus the corner quad overlap of 4*(w/2)^2.
	if got := meshArea(m); math.Abs(got-4100) > 0.01 {
		t.Errorf("summed area = %v, want 4100", got)
	}
	if got := m.Bounds; got != quill.R(-5, -5, 105, 105) {
		t.Errorf("bounds = %v, want (-5,-5)-(105,105)", got)
	}
}

func TestStrokePathSkipsDegenerateSubpath(t *testing.T) {
	var b quill.PathBuilder
	b.MoveTo(50, 50) // lone point, nothing to stroke
	b.MoveTo(0, 0).LineTo(100, 0)

	style := DefaultStrokeStyle()
	style.Width = 10
	m, err := StrokePath(b.Elements(), style, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := meshArea(m); math.Abs(got-1000) > 1e-6 {
		t.Errorf("area = %v, want 1000", got)
	}
}

func TestStrokePathZeroWidth(t *testing.T) {
	var b quill.PathBuilder
	b.MoveTo(0, 0).LineTo(100, 0)

	style := DefaultStrokeStyle()
	style.Width = 0
	if _, err := StrokePath(b.Elements(), style, 0); !errors.Is(err, ErrDegenerate) {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestMeshHashStable(t *testing.T) {
	var b quill.PathBuilder
	b.Rect(quill.R(0, 0, 100, 100))

	m1, err := FillPath(b.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := FillPath(b.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if m1.Hash() != m2.Hash() {
		t.Error("identical geometry hashed differently")
	}

	var b2 quill.PathBuilder
	b2.Rect(quill.R(0, 0, 100, 101))
	m3, err := FillPath(b2.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if m1.Hash() == m3.Hash() {
		t.Error("different geometry hashed identically")
	}
}

func TestMeshHashNeverZero(t *testing.T) {
	m := &Mesh{}
	if m.Hash() == 0 {
		t.Error("empty mesh hashed to the unset sentinel")
	}
}
