package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/quillgfx/quill"
	"github.com/quillgfx/quill/mesh"
	"github.com/quillgfx/quill/scene"
)

type drawCall struct {
	indexCount uint32
	firstIndex uint32
	uniforms   []byte
}

// mockPass records pipeline state and draws.
type mockPass struct {
	pipelines   []PipelineKind
	lastUniform []byte
	draws       []drawCall
}

func (p *mockPass) SetPipeline(kind PipelineKind)                    { p.pipelines = append(p.pipelines, kind) }
func (p *mockPass) SetVertexBuffer(slot int, id BufferID, off int)   {}
func (p *mockPass) SetIndexBuffer(id BufferID, f IndexFormat, o int) {}
func (p *mockPass) SetUniformBytes(data []byte) {
	p.lastUniform = append([]byte(nil), data...)
}
func (p *mockPass) DrawIndexed(indexCount, firstIndex uint32) {
	p.draws = append(p.draws, drawCall{indexCount, firstIndex, p.lastUniform})
}

func rectPathRecord(t *testing.T, pool *mesh.Pool, w, h float32, clip quill.Rect) scene.Path {
	t.Helper()
	var b quill.PathBuilder
	b.Rect(quill.R(0, 0, w, h))
	m, err := mesh.FillPath(b.Elements(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := pool.GetOrCreatePersistent(m.Hash(), func() (*mesh.Mesh, error) { return m, nil })
	if err != nil {
		t.Fatal(err)
	}
	return scene.Path{Mesh: ref, Color: quill.RGB(1, 0, 0), Clip: clip}
}

func TestMeshPipelineCoalescesSolidSameClip(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}
	clip := quill.R(0, 0, 100, 100)

	records := []scene.Path{
		rectPathRecord(t, pool, 10, 10, clip),
		rectPathRecord(t, pool, 20, 20, clip),
		rectPathRecord(t, pool, 30, 30, clip),
	}
	if err := p.UploadAndDraw(pass, vp, records, pool); err != nil {
		t.Fatal(err)
	}

	if len(pass.draws) != 1 {
		t.Fatalf("draw calls = %d, want 1 (three solid paths, one clip)", len(pass.draws))
	}
	if got := pass.draws[0].indexCount; got != 18 {
		t.Errorf("index count = %d, want 18 (three rects)", got)
	}
	if got := pass.draws[0].firstIndex; got != 0 {
		t.Errorf("first index = %d, want 0", got)
	}
}

func TestMeshPipelineSplitsOnClipChange(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	clipA := quill.R(0, 0, 100, 100)
	clipB := quill.R(0, 0, 50, 50)
	records := []scene.Path{
		rectPathRecord(t, pool, 10, 10, clipA),
		rectPathRecord(t, pool, 20, 20, clipB),
		rectPathRecord(t, pool, 30, 30, clipA),
	}
	if err := p.UploadAndDraw(pass, vp, records, pool); err != nil {
		t.Fatal(err)
	}

	// Grouping must never reorder across differing clips: A, B, A stays
	// three draws even though the two A records share a clip.
	if len(pass.draws) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(pass.draws))
	}
	for i, d := range pass.draws {
		if d.indexCount != 6 {
			t.Errorf("draw %d index count = %d, want 6", i, d.indexCount)
		}
		if want := uint32(i * 6); d.firstIndex != want {
			t.Errorf("draw %d first index = %d, want %d (order preserved)", i, d.firstIndex, want)
		}
	}
}

func TestMeshPipelineGradientDrawsIndividually(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}
	clip := quill.R(0, 0, 100, 100)

	grad := quill.LinearGradient{
		From:      quill.Pt(0, 0),
		To:        quill.Pt(0, 100),
		FromColor: quill.RGB(1, 0, 0),
		ToColor:   quill.RGB(0, 0, 1),
	}
	a := rectPathRecord(t, pool, 10, 10, clip)
	b := rectPathRecord(t, pool, 20, 20, clip)
	b.Gradient = grad
	c := rectPathRecord(t, pool, 30, 30, clip)

	if err := p.UploadAndDraw(pass, vp, []scene.Path{a, b, c}, pool); err != nil {
		t.Fatal(err)
	}

	// The gradient in the middle breaks the run: solid, gradient, solid.
	if len(pass.draws) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(pass.draws))
	}
	// UseGradient flag sits at byte offset 80 of the uniform block.
	for i, wantGrad := range []uint32{0, 1, 0} {
		got := binary.LittleEndian.Uint32(pass.draws[i].uniforms[80:])
		if got != wantGrad {
			t.Errorf("draw %d UseGradient = %d, want %d", i, got, wantGrad)
		}
	}
}

func TestMeshPipelineIndexRebasing(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}
	clip := quill.R(0, 0, 100, 100)

	records := []scene.Path{
		rectPathRecord(t, pool, 10, 10, clip),
		rectPathRecord(t, pool, 20, 20, clip),
	}
	if err := p.UploadAndDraw(pass, vp, records, pool); err != nil {
		t.Fatal(err)
	}

	// Each rect has 4 vertices; the second mesh's indices must be shifted
	// by 4 in the shared buffer.
	raw := mb.data[p.Buffers().IndexBuffer()]
	indices := make([]uint32, 12)
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	for i := 0; i < 6; i++ {
		if indices[i] > 3 {
			t.Errorf("first mesh index %d = %d, want < 4", i, indices[i])
		}
		if indices[6+i] < 4 || indices[6+i] > 7 {
			t.Errorf("second mesh index %d = %d, want in [4, 7]", i, indices[6+i])
		}
	}

	// A second upload in the same frame appends and rebases further.
	if err := p.UploadAndDraw(pass, vp, records[:1], pool); err != nil {
		t.Fatal(err)
	}
	raw = mb.data[p.Buffers().IndexBuffer()]
	third := binary.LittleEndian.Uint32(raw[12*4:])
	if third < 8 {
		t.Errorf("appended upload index = %d, want rebased past 8", third)
	}
	if got := pass.draws[len(pass.draws)-1].firstIndex; got != 12 {
		t.Errorf("appended draw first index = %d, want 12", got)
	}
}

func TestMeshPipelineVertexPacking(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	rec := rectPathRecord(t, pool, 100, 100, quill.InfiniteRect())
	rec.Offset = quill.Pt(7, 9)
	if err := p.UploadAndDraw(pass, vp, []scene.Path{rec}, pool); err != nil {
		t.Fatal(err)
	}

	if got := p.Buffers().VertexCursor(); got != 4*MeshVertexSize {
		t.Fatalf("vertex bytes = %d, want %d", got, 4*MeshVertexSize)
	}
	// The record offset is baked into positions at pack time.
	raw := mb.data[p.Buffers().VertexBuffer()]
	f32at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
	}
	foundCorner := false
	for v := 0; v < 4; v++ {
		off := v * MeshVertexSize
		if f32at(off) == 107 && f32at(off+4) == 109 {
			foundCorner = true
		}
	}
	if !foundCorner {
		t.Error("offset corner (107, 109) not found in packed vertices")
	}
}

func TestMeshPipelineSkipsInvalidRef(t *testing.T) {
	mb := newMockBackend()
	pool := mesh.NewPool(mesh.Config{})
	p := NewMeshPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}
	clip := quill.R(0, 0, 100, 100)

	records := []scene.Path{
		{Clip: clip}, // zero ref never resolves
		rectPathRecord(t, pool, 10, 10, clip),
	}
	if err := p.UploadAndDraw(pass, vp, records, pool); err != nil {
		t.Fatal(err)
	}
	if len(pass.draws) != 1 || pass.draws[0].indexCount != 6 {
		t.Errorf("draws = %+v, want one 6-index draw for the valid record", pass.draws)
	}
}

func TestPolylinePipelineSegmentsAndClipRuns(t *testing.T) {
	mb := newMockBackend()
	p := NewPolylinePipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	clipA := quill.R(0, 0, 100, 100)
	clipB := quill.R(0, 0, 50, 50)
	strip := []quill.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 5}}
	records := []scene.Polyline{
		{Points: strip, Width: 2, Color: quill.RGB(0, 1, 0), Clip: clipA},
		{Points: strip[:2], Width: 2, Color: quill.RGB(0, 0, 1), Clip: clipA},
		{Points: strip, Width: 2, Color: quill.RGB(1, 0, 0), Clip: clipB},
	}
	if err := p.UploadAndDraw(pass, vp, records); err != nil {
		t.Fatal(err)
	}

	if len(pass.draws) != 2 {
		t.Fatalf("draw calls = %d, want 2 (clip change splits)", len(pass.draws))
	}
	// First run: 2 segments + 1 segment = 18 indices; second: 12.
	if pass.draws[0].indexCount != 18 || pass.draws[1].indexCount != 12 {
		t.Errorf("index counts = %d, %d, want 18, 12",
			pass.draws[0].indexCount, pass.draws[1].indexCount)
	}
	if pass.draws[1].firstIndex != 18 {
		t.Errorf("second run first index = %d, want 18", pass.draws[1].firstIndex)
	}
	if len(pass.pipelines) == 0 || pass.pipelines[0] != PipelinePolyline {
		t.Errorf("pipeline = %v, want PipelinePolyline", pass.pipelines)
	}
}

func TestPolylinePipelineSkipsDegenerate(t *testing.T) {
	mb := newMockBackend()
	p := NewPolylinePipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	records := []scene.Polyline{
		{Points: []quill.Point{{X: 1, Y: 1}}, Width: 2},
		{Points: []quill.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, Width: 0},
	}
	if err := p.UploadAndDraw(pass, vp, records); err != nil {
		t.Fatal(err)
	}
	if len(pass.draws) != 0 {
		t.Errorf("draws = %d, want 0", len(pass.draws))
	}
}

func TestPointPipelineQuadExpansion(t *testing.T) {
	mb := newMockBackend()
	p := NewPointPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}
	clip := quill.R(0, 0, 100, 100)

	records := []scene.PointCloud{
		{Points: []quill.Point{{X: 10, Y: 10}, {X: 20, Y: 20}}, Size: 4, Color: quill.RGB(1, 1, 0), Clip: clip},
		{Points: []quill.Point{{X: 30, Y: 30}}, Size: 4, Color: quill.RGB(0, 1, 1), Clip: clip},
	}
	if err := p.UploadAndDraw(pass, vp, records); err != nil {
		t.Fatal(err)
	}

	if len(pass.draws) != 1 {
		t.Fatalf("draw calls = %d, want 1 (same clip coalesces)", len(pass.draws))
	}
	if got := pass.draws[0].indexCount; got != 18 {
		t.Errorf("index count = %d, want 18 (three points)", got)
	}
	if got := p.Buffers().VertexCursor(); got != 3*4*PointVertexSize {
		t.Errorf("vertex bytes = %d, want %d", got, 3*4*PointVertexSize)
	}
}

func TestColoredPointPipelinePerPointColors(t *testing.T) {
	mb := newMockBackend()
	p := NewColoredPointPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	records := []scene.ColoredPointCloud{{
		Points: []quill.Point{{X: 10, Y: 10}, {X: 20, Y: 20}},
		Colors: []quill.Color{quill.RGB(1, 0, 0), quill.RGB(0, 1, 0)},
		Size:   6,
	}}
	if err := p.UploadAndDraw(pass, vp, records); err != nil {
		t.Fatal(err)
	}

	raw := mb.data[p.Buffers().VertexBuffer()]
	// Color lives at byte offset 24 of each 40-byte vertex; the second
	// point's first vertex starts at 4*40.
	red := binary.LittleEndian.Uint32(raw[24:])
	green := binary.LittleEndian.Uint32(raw[4*PointVertexSize+24+4:])
	if math.Float32frombits(red) != 1 {
		t.Error("first point's red channel not 1")
	}
	if math.Float32frombits(green) != 1 {
		t.Error("second point's green channel not 1")
	}
}

func TestColoredPointPipelineShortColorSlice(t *testing.T) {
	mb := newMockBackend()
	p := NewColoredPointPipeline(mb, 0)
	pass := &mockPass{}
	vp := Viewport{Width: 800, Height: 600}

	records := []scene.ColoredPointCloud{{
		Points: []quill.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		Colors: []quill.Color{quill.RGB(1, 0, 0)},
		Size:   6,
	}}
	if err := p.UploadAndDraw(pass, vp, records); err != nil {
		t.Fatal(err)
	}
	if got := pass.draws[0].indexCount; got != 6 {
		t.Errorf("index count = %d, want 6 (only the colored prefix draws)", got)
	}
}
