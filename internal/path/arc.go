package path

import (
	"math"

	"github.com/quillgfx/quill"
)

// minArcSamples is the lower bound on the number of line segments an arc
// flattens to, so that even a tiny arc keeps a curved silhouette.
const minArcSamples = 4

// flattenArc converts an SVG endpoint-parameterized arc to center
// parameterization and samples it into line segments, appending the points
// (excluding the start point). The final sample is the exact end point so
// subpath closing sees no drift.
func flattenArc(from Point, e quill.ArcTo, tolerance float64, out *[]Point) {
	to := Pt64(e.Point)
	rx := math.Abs(float64(e.Radii.X))
	ry := math.Abs(float64(e.Radii.Y))
	if from == to {
		return
	}
	if rx < 1e-12 || ry < 1e-12 {
		// Zero radius degenerates to a line, per the SVG arc rules.
		*out = append(*out, to)
		return
	}

	phi := float64(e.Rotation)
	sinPhi, cosPhi := math.Sincos(phi)

	// Transform the midpoint into the ellipse's axis-aligned frame.
	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Radius correction: if the requested radii cannot span the chord,
	// scale both up uniformly until they just fit.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Center in the transformed frame.
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	if num < 0 {
		num = 0 // rounding after the radius correction
	}
	coef := math.Sqrt(num / den)
	if e.LargeArc == e.Sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	// Center in the original frame.
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	if !e.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if e.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	// Sample count proportional to arc length over tolerance.
	n := int(math.Ceil(math.Abs(delta) * math.Max(rx, ry) / tolerance))
	if n < minArcSamples {
		n = minArcSamples
	}

	for i := 1; i < n; i++ {
		theta := theta1 + delta*float64(i)/float64(n)
		sinT, cosT := math.Sincos(theta)
		px := rx * cosT
		py := ry * sinT
		*out = append(*out, Point{
			X: cosPhi*px - sinPhi*py + cx,
			Y: sinPhi*px + cosPhi*py + cy,
		})
	}
	*out = append(*out, to)
}
