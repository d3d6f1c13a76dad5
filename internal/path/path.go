// Package path provides the internal path geometry engine: curve
// flattening, fill triangulation, and the shared float64 point type the
// geometry code computes with. GPU-facing code converts the results to
// float32 at packing time.
package path

import (
	"math"

	"github.com/quillgfx/quill"
)

// DefaultTolerance is the maximum distance from a curve to its linear
// approximation, in pixels, when the caller passes a non-positive tolerance.
const DefaultTolerance = 0.25

// maxRecursionDepth bounds the adaptive subdivision of curves. Flattening
// terminates at this depth even if the tolerance is not met, guaranteeing
// termination for pathological control points.
const maxRecursionDepth = 16

// Point is a 2D point with float64 components. Geometry runs in float64 so
// that offsetting and intersection stay stable for small shapes.
type Point struct {
	X, Y float64
}

// Pt64 converts a toolkit point to the geometry representation.
func Pt64(p quill.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// Lerp performs linear interpolation between two points.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the vector length.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Normalize returns a unit vector in the same direction. The zero vector
// normalizes to itself.
func (p Point) Normalize() Point {
	l := p.Length()
	if l < 1e-12 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Subpath is a half-open range [Start, End) into the flattened point slice.
// For closed subpaths the last point duplicates the first; triangulation and
// stroke expansion drop the duplicate.
type Subpath struct {
	Start, End int
	Closed     bool
}

// Len returns the number of points in the subpath.
func (s Subpath) Len() int {
	return s.End - s.Start
}

// Flatten converts a path with curves into line segments, returning the
// flattened points and the subpath ranges within them.
//
// Curves are flattened by adaptive recursive subdivision: a curve is bisected
// until the perpendicular deviation of its control points from the chord is
// below tolerance, bounded by maxRecursionDepth. Arcs are converted to center
// parameterization and sampled at a count proportional to the swept angle and
// the larger radius.
func Flatten(elements []quill.PathElement, tolerance float64) ([]Point, []Subpath) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var (
		pts   []Point
		subs  []Subpath
		start = -1 // index of current subpath start, -1 when none open
		cur   Point
	)

	endSub := func(closed bool) {
		if start >= 0 && len(pts) > start {
			subs = append(subs, Subpath{Start: start, End: len(pts), Closed: closed})
		}
		start = -1
	}
	// A drawing command with no preceding MoveTo starts a subpath at the
	// current point.
	ensureSub := func() {
		if start < 0 {
			start = len(pts)
			pts = append(pts, cur)
		}
	}

	for _, el := range elements {
		switch e := el.(type) {
		case quill.MoveTo:
			endSub(false)
			cur = Pt64(e.Point)
			start = len(pts)
			pts = append(pts, cur)

		case quill.LineTo:
			ensureSub()
			cur = Pt64(e.Point)
			pts = append(pts, cur)

		case quill.QuadTo:
			ensureSub()
			end := Pt64(e.Point)
			flattenQuad(cur, Pt64(e.Control), end, tolerance, 0, &pts)
			cur = end

		case quill.CubicTo:
			ensureSub()
			end := Pt64(e.Point)
			flattenCubic(cur, Pt64(e.Control1), Pt64(e.Control2), end, tolerance, 0, &pts)
			cur = end

		case quill.ArcTo:
			ensureSub()
			end := Pt64(e.Point)
			flattenArc(cur, e, tolerance, &pts)
			cur = end

		case quill.Close:
			if start >= 0 {
				first := pts[start]
				if cur != first {
					pts = append(pts, first)
				}
				endSub(true)
				cur = first
			}
		}
	}
	endSub(false)

	return pts, subs
}

// flattenQuad recursively subdivides a quadratic Bezier, appending the
// flattened points (excluding p0).
func flattenQuad(p0, p1, p2 Point, tolerance float64, depth int, out *[]Point) {
	if depth >= maxRecursionDepth || distanceToLine(p1, p0, p2) < tolerance {
		*out = append(*out, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)

	flattenQuad(p0, q0, mid, tolerance, depth+1, out)
	flattenQuad(mid, q1, p2, tolerance, depth+1, out)
}

// flattenCubic recursively subdivides a cubic Bezier using de Casteljau's
// algorithm, appending the flattened points (excluding p0).
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64, depth int, out *[]Point) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	if depth >= maxRecursionDepth || math.Max(d1, d2) < tolerance {
		*out = append(*out, p3)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)

	flattenCubic(p0, q0, r0, mid, tolerance, depth+1, out)
	flattenCubic(mid, r1, q2, p3, tolerance, depth+1, out)
}

// distanceToLine returns the perpendicular distance from p to the segment
// (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 < 1e-20 {
		return p.Distance(a)
	}

	t := p.Sub(a).Dot(ab) / abLen2
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
