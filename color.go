package quill

// Color is a premultiplied RGBA color with float32 components in [0, 1].
// The layout matches the vec4<f32> colors the shaders expect, so records can
// copy colors into vertex data without conversion.
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from straight-alpha components, premultiplying them.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r * a, G: g * a, B: b * a, A: a}
}

// IsOpaque reports whether the color is fully opaque.
func (c Color) IsOpaque() bool {
	return c.A >= 1
}

// Scale returns the color with all components (including alpha) scaled by s.
// Because colors are premultiplied this is a correct opacity multiply.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// LinearGradient describes a two-stop linear gradient. From and To are in
// the same pixel coordinate space as the rendered geometry, after any
// instance offset; positions are projected onto the From→To axis and the
// colors mixed with the clamped projection.
//
// Instances carrying a gradient cannot share a draw call: the stops travel
// as per-instance uniform bytes.
type LinearGradient struct {
	From, To  Point
	FromColor Color
	ToColor   Color
}

// IsZero reports whether the gradient is unset, meaning the instance is a
// solid fill.
func (g LinearGradient) IsZero() bool {
	return g == LinearGradient{}
}
