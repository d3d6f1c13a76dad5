package quill

// PathElement is one command in a vector path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath at a point.
type MoveTo struct{ Point Point }

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct{ Point Point }

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct{ Control, Point Point }

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isPathElement() {}

// ArcTo draws an elliptical arc from the current point, in SVG endpoint
// parameterization: radii, x-axis rotation in radians, large-arc and sweep
// flags, and the end point.
type ArcTo struct {
	Radii    Point
	Rotation float32
	LargeArc bool
	Sweep    bool
	Point    Point
}

func (ArcTo) isPathElement() {}

// Close closes the current subpath back to its starting point.
type Close struct{}

func (Close) isPathElement() {}

// PathBuilder accumulates path elements with a chaining API.
// The zero value is an empty path ready for use.
type PathBuilder struct {
	elements []PathElement
}

// MoveTo starts a new subpath at (x, y).
func (b *PathBuilder) MoveTo(x, y float32) *PathBuilder {
	b.elements = append(b.elements, MoveTo{Point: Pt(x, y)})
	return b
}

// LineTo draws a line to (x, y).
func (b *PathBuilder) LineTo(x, y float32) *PathBuilder {
	b.elements = append(b.elements, LineTo{Point: Pt(x, y)})
	return b
}

// QuadTo draws a quadratic Bezier through control (cx, cy) to (x, y).
func (b *PathBuilder) QuadTo(cx, cy, x, y float32) *PathBuilder {
	b.elements = append(b.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	return b
}

// CubicTo draws a cubic Bezier with controls (c1x, c1y) and (c2x, c2y)
// to (x, y).
func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float32) *PathBuilder {
	b.elements = append(b.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	return b
}

// ArcTo draws an elliptical arc to (x, y) with radii (rx, ry), x-axis
// rotation in radians, and the SVG large-arc and sweep flags.
func (b *PathBuilder) ArcTo(rx, ry, rotation float32, largeArc, sweep bool, x, y float32) *PathBuilder {
	b.elements = append(b.elements, ArcTo{
		Radii:    Pt(rx, ry),
		Rotation: rotation,
		LargeArc: largeArc,
		Sweep:    sweep,
		Point:    Pt(x, y),
	})
	return b
}

// Close closes the current subpath.
func (b *PathBuilder) Close() *PathBuilder {
	b.elements = append(b.elements, Close{})
	return b
}

// Rect appends a closed rectangular subpath.
func (b *PathBuilder) Rect(r Rect) *PathBuilder {
	return b.MoveTo(r.Min.X, r.Min.Y).
		LineTo(r.Max.X, r.Min.Y).
		LineTo(r.Max.X, r.Max.Y).
		LineTo(r.Min.X, r.Max.Y).
		Close()
}

// Circle appends a closed circular subpath of the given center and radius,
// built from two half arcs.
func (b *PathBuilder) Circle(cx, cy, r float32) *PathBuilder {
	return b.MoveTo(cx-r, cy).
		ArcTo(r, r, 0, false, true, cx+r, cy).
		ArcTo(r, r, 0, false, true, cx-r, cy).
		Close()
}

// Elements returns the accumulated path elements. The returned slice is
// owned by the builder; callers must not retain it across further building.
func (b *PathBuilder) Elements() []PathElement {
	return b.elements
}

// Reset clears the builder for reuse without releasing memory.
func (b *PathBuilder) Reset() {
	b.elements = b.elements[:0]
}
