package path

import (
	"errors"
	"math"
)

// ErrDegeneratePath reports a subpath that cannot be triangulated: fewer
// than three distinct points, or zero area. The error is local to the
// subpath; callers fall back or skip the one path.
var ErrDegeneratePath = errors.New("path: degenerate subpath")

// areaEpsilon is the signed-area threshold below which a ring counts as
// degenerate.
const areaEpsilon = 1e-12

// Triangulate triangulates a single subpath as a simple (possibly concave)
// polygon, returning triangle indices into the flattened point slice.
// A duplicated closing point is dropped before clipping.
func Triangulate(points []Point, sub Subpath) ([]uint32, error) {
	ring := ringIndices(points, sub)
	if len(ring) < 3 || math.Abs(signedArea(points, ring)) < areaEpsilon {
		return nil, ErrDegeneratePath
	}
	return earClip(points, ring)
}

// TriangulateFill triangulates a multi-subpath fill. Subpaths wound the same
// way as the first are outer contours; opposite-wound subpaths are holes of
// the most recent outer contour and are bridged into its ring before ear
// clipping.
//
// A degenerate subpath fails locally: it is skipped, and the error is
// returned only if no subpath produced any triangles.
func TriangulateFill(points []Point, subs []Subpath) ([]uint32, error) {
	type contour struct {
		ring []int
		area float64
	}

	var contours []contour
	for _, sub := range subs {
		ring := ringIndices(points, sub)
		if len(ring) < 3 {
			continue
		}
		area := signedArea(points, ring)
		if math.Abs(area) < areaEpsilon {
			continue
		}
		contours = append(contours, contour{ring: ring, area: area})
	}
	if len(contours) == 0 {
		return nil, ErrDegeneratePath
	}

	outerSign := contours[0].area > 0

	var indices []uint32
	var outer []int
	flush := func() {
		if outer == nil {
			return
		}
		if tris, err := earClip(points, outer); err == nil {
			indices = append(indices, tris...)
		}
		outer = nil
	}

	for _, c := range contours {
		if (c.area > 0) == outerSign {
			flush()
			outer = orientRing(points, c.ring, true)
		} else if outer != nil {
			hole := orientRing(points, c.ring, false)
			outer = bridgeHole(points, outer, hole)
		}
	}
	flush()

	if len(indices) == 0 {
		return nil, ErrDegeneratePath
	}
	return indices, nil
}

// ringIndices returns the subpath's point indices with the duplicated
// closing point and consecutive duplicates removed.
func ringIndices(points []Point, sub Subpath) []int {
	ring := make([]int, 0, sub.Len())
	for i := sub.Start; i < sub.End; i++ {
		if len(ring) > 0 && points[i].Distance(points[ring[len(ring)-1]]) < 1e-12 {
			continue
		}
		ring = append(ring, i)
	}
	// Drop the closing duplicate of the first point.
	for len(ring) > 1 && points[ring[len(ring)-1]].Distance(points[ring[0]]) < 1e-12 {
		ring = ring[:len(ring)-1]
	}
	return ring
}

// signedArea returns twice the signed area of the ring (shoelace formula).
// Positive means counter-clockwise in a Y-up frame.
func signedArea(points []Point, ring []int) float64 {
	var area float64
	for i := range ring {
		a := points[ring[i]]
		b := points[ring[(i+1)%len(ring)]]
		area += a.Cross(b)
	}
	return area
}

// orientRing returns the ring wound counter-clockwise if ccw is true,
// clockwise otherwise, copying so the caller's ring is untouched.
func orientRing(points []Point, ring []int, ccw bool) []int {
	out := make([]int, len(ring))
	copy(out, ring)
	if (signedArea(points, ring) > 0) != ccw {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// isConvexRing reports whether every turn of the CCW ring is non-clockwise,
// allowing the O(n) fan fast path.
func isConvexRing(points []Point, ring []int) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := points[ring[i]]
		b := points[ring[(i+1)%n]]
		c := points[ring[(i+2)%n]]
		if b.Sub(a).Cross(c.Sub(b)) < -areaEpsilon {
			return false
		}
	}
	return true
}

// earClip triangulates a simple polygon ring by ear clipping. The ring is
// re-wound counter-clockwise first. Convex rings take a direct fan.
func earClip(points []Point, ring []int) ([]uint32, error) {
	ring = orientRing(points, ring, true)
	n := len(ring)
	if n < 3 {
		return nil, ErrDegeneratePath
	}

	indices := make([]uint32, 0, 3*(n-2))

	if isConvexRing(points, ring) {
		for i := 1; i < n-1; i++ {
			indices = append(indices, uint32(ring[0]), uint32(ring[i]), uint32(ring[i+1]))
		}
		return indices, nil
	}

	work := make([]int, n)
	copy(work, ring)

	for len(work) > 3 {
		clipped := false
		for i := 0; i < len(work); i++ {
			if isEar(points, work, i) {
				prev := work[(i+len(work)-1)%len(work)]
				next := work[(i+1)%len(work)]
				indices = append(indices, uint32(prev), uint32(work[i]), uint32(next))
				work = append(work[:i], work[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			// No strict ear: the ring is self-touching or numerically
			// degenerate. Clip the most convex vertex to guarantee progress.
			best, bestCross := -1, -math.MaxFloat64
			for i := 0; i < len(work); i++ {
				a := points[work[(i+len(work)-1)%len(work)]]
				b := points[work[i]]
				c := points[work[(i+1)%len(work)]]
				if cr := b.Sub(a).Cross(c.Sub(b)); cr > bestCross {
					best, bestCross = i, cr
				}
			}
			if best < 0 {
				return nil, ErrDegeneratePath
			}
			prev := work[(best+len(work)-1)%len(work)]
			next := work[(best+1)%len(work)]
			indices = append(indices, uint32(prev), uint32(work[best]), uint32(next))
			work = append(work[:best], work[best+1:]...)
		}
	}
	indices = append(indices, uint32(work[0]), uint32(work[1]), uint32(work[2]))

	return indices, nil
}

// isEar reports whether vertex i of the CCW ring forms an ear: a convex
// corner whose triangle contains no other ring vertex.
func isEar(points []Point, ring []int, i int) bool {
	n := len(ring)
	ia := ring[(i+n-1)%n]
	ib := ring[i]
	ic := ring[(i+1)%n]
	a, b, c := points[ia], points[ib], points[ic]

	if b.Sub(a).Cross(c.Sub(b)) <= areaEpsilon {
		return false // reflex or collinear corner
	}

	for _, idx := range ring {
		if idx == ia || idx == ib || idx == ic {
			continue
		}
		if pointInTriangle(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle reports whether p lies strictly inside triangle (a, b, c),
// which must be wound counter-clockwise.
func pointInTriangle(p, a, b, c Point) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 > 0 && d2 > 0 && d3 > 0
}

// bridgeHole splices a clockwise hole ring into a counter-clockwise outer
// ring through a bridge edge, producing a single ring ear clipping can
// consume. The bridge runs from the hole's rightmost vertex to a visible
// vertex on the outer ring.
func bridgeHole(points []Point, outer, hole []int) []int {
	// Rightmost hole vertex.
	m := 0
	for i := 1; i < len(hole); i++ {
		if points[hole[i]].X > points[hole[m]].X {
			m = i
		}
	}
	hp := points[hole[m]]

	// Cast a ray toward +X and find the outer edge it hits first; connect
	// to that edge's endpoint with the larger X, a standard approximation
	// of the visible-vertex search that holds for simple inputs.
	bridge := -1
	bestX := math.Inf(1)
	for i := range outer {
		a := points[outer[i]]
		b := points[outer[(i+1)%len(outer)]]
		if (a.Y <= hp.Y) == (b.Y <= hp.Y) {
			continue
		}
		t := (hp.Y - a.Y) / (b.Y - a.Y)
		x := a.X + t*(b.X-a.X)
		if x >= hp.X && x < bestX {
			bestX = x
			if a.X > b.X {
				bridge = i
			} else {
				bridge = (i + 1) % len(outer)
			}
		}
	}
	if bridge < 0 {
		// Hole outside the outer ring; drop it rather than corrupt the fill.
		return outer
	}

	// outer[:bridge+1] + hole[m:] + hole[:m] + hole[m] + outer[bridge:].
	merged := make([]int, 0, len(outer)+len(hole)+2)
	merged = append(merged, outer[:bridge+1]...)
	merged = append(merged, hole[m:]...)
	merged = append(merged, hole[:m]...)
	merged = append(merged, hole[m], outer[bridge])
	merged = append(merged, outer[bridge+1:]...)
	return merged
}
