package quill

import "github.com/chewxy/math32"

// Rect is an axis-aligned rectangle.
//
// Rect doubles as the clip-bounds value attached to primitive records; clip
// batching compares rects with ==, so producers must not introduce NaNs.
type Rect struct {
	Min, Max Point
}

// R constructs a rectangle from its edge coordinates.
func R(x0, y0, x1, y1 float32) Rect {
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// EmptyRect returns the empty rectangle, positioned so that any Union
// replaces it.
func EmptyRect() Rect {
	return Rect{
		Min: Point{X: math32.Inf(1), Y: math32.Inf(1)},
		Max: Point{X: math32.Inf(-1), Y: math32.Inf(-1)},
	}
}

// InfiniteRect returns a rectangle covering the whole plane. It is the
// identity element for Intersect and the clip applied when no clip is
// pushed.
func InfiniteRect() Rect {
	return Rect{
		Min: Point{X: math32.Inf(-1), Y: math32.Inf(-1)},
		Max: Point{X: math32.Inf(1), Y: math32.Inf(1)},
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Width returns the width of the rectangle.
func (r Rect) Width() float32 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float32 {
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		Min: Point{X: math32.Min(r.Min.X, other.Min.X), Y: math32.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math32.Max(r.Max.X, other.Max.X), Y: math32.Max(r.Max.Y, other.Max.Y)},
	}
}

// Intersect returns the overlap of r and other. The result may be empty.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		Min: Point{X: math32.Max(r.Min.X, other.Min.X), Y: math32.Max(r.Min.Y, other.Min.Y)},
		Max: Point{X: math32.Min(r.Max.X, other.Max.X), Y: math32.Min(r.Max.Y, other.Max.Y)},
	}
}

// Contains reports whether p lies inside the rectangle (inclusive of Min,
// exclusive of Max).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// UnionPoint grows the rectangle to include the given point.
func (r Rect) UnionPoint(p Point) Rect {
	return Rect{
		Min: Point{X: math32.Min(r.Min.X, p.X), Y: math32.Min(r.Min.Y, p.Y)},
		Max: Point{X: math32.Max(r.Max.X, p.X), Y: math32.Max(r.Max.Y, p.Y)},
	}
}
