// Package quill is the rendering core of the Quill GUI toolkit.
//
// It turns declarative drawing primitives (quads, glyphs, shadows, vector
// paths, polylines, point clouds) into GPU-ready draw batches while
// preserving painter's-algorithm ordering and minimizing pipeline state
// changes.
//
// The pipeline has three stages:
//
//  1. A frame's primitives are inserted into a scene.Scene. Every insert
//     stamps a monotonically increasing draw order, so the scene records the
//     exact stacking the widget layer asked for.
//  2. A scene.BatchIterator merges the per-kind primitive arrays back into
//     global draw order, yielding maximal contiguous same-kind runs so the
//     renderer switches pipelines as rarely as possible.
//  3. Per-kind GPU pipelines in package gpu pack the batch geometry into
//     triple-buffered, dynamically growing vertex/index buffers and issue
//     indexed draws, coalescing consecutive instances that share clip bounds
//     into single draw calls.
//
// Vector paths are flattened, triangulated, and stroke-expanded by the mesh
// builders in package mesh, which also owns the two-tier (persistent +
// per-frame) mesh cache.
//
// This package holds the small value types shared by all stages: [Point],
// [Rect], [Color], and [LinearGradient], plus the toolkit-wide logger.
//
// Out of scope: window management, the graphics-API binding (implemented by
// backend/native or supplied by the host), text shaping and glyph atlasing,
// and layout. Those feed inputs to, or consume outputs from, this core.
package quill
