package native

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/quillgfx/quill/gpu"
)

func TestConvertUsage(t *testing.T) {
	tests := []struct {
		usage gpu.BufferUsage
		want  gputypes.BufferUsage
	}{
		{gpu.BufferUsageVertex, gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst},
		{gpu.BufferUsageIndex, gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst},
		{gpu.BufferUsageUniform, gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
	}
	for _, tt := range tests {
		if got := convertUsage(tt.usage); got != tt.want {
			t.Errorf("convertUsage(%d) = %v, want %v", tt.usage, got, tt.want)
		}
		// Every usage must allow queue writes.
		if got := convertUsage(tt.usage); got&gputypes.BufferUsageCopyDst == 0 {
			t.Errorf("convertUsage(%d) missing CopyDst", tt.usage)
		}
	}
}

func TestVertexLayoutStrides(t *testing.T) {
	tests := []struct {
		name   string
		layout []gputypes.VertexBufferLayout
		stride uint64
		attrs  int
	}{
		{"mesh", meshVertexLayout(), gpu.MeshVertexSize, 3},
		{"polyline", lineVertexLayout(), gpu.LineVertexSize, 2},
		{"point", pointVertexLayout(), gpu.PointVertexSize, 4},
	}
	for _, tt := range tests {
		if len(tt.layout) != 1 {
			t.Fatalf("%s: %d buffers, want 1", tt.name, len(tt.layout))
		}
		buf := tt.layout[0]
		if uint64(buf.ArrayStride) != tt.stride {
			t.Errorf("%s stride = %d, want %d", tt.name, buf.ArrayStride, tt.stride)
		}
		if len(buf.Attributes) != tt.attrs {
			t.Errorf("%s has %d attributes, want %d", tt.name, len(buf.Attributes), tt.attrs)
		}
		// Locations are dense from 0 and offsets strictly increase.
		for i, attr := range buf.Attributes {
			if int(attr.ShaderLocation) != i {
				t.Errorf("%s attribute %d at location %d", tt.name, i, attr.ShaderLocation)
			}
			if i > 0 && attr.Offset <= buf.Attributes[i-1].Offset {
				t.Errorf("%s attribute %d offset %d not increasing", tt.name, i, attr.Offset)
			}
			if uint64(attr.Offset) >= tt.stride {
				t.Errorf("%s attribute %d offset %d past stride", tt.name, i, attr.Offset)
			}
		}
	}
}

func TestShaderSourcesEmbedded(t *testing.T) {
	sources := map[string]string{
		"mesh":     meshShaderSource,
		"polyline": polylineShaderSource,
		"point":    pointShaderSource,
	}
	for name, src := range sources {
		if src == "" {
			t.Errorf("%s shader source is empty", name)
			continue
		}
		for _, entry := range []string{"vs_main", "fs_main", "DrawUniforms"} {
			if !strings.Contains(src, entry) {
				t.Errorf("%s shader missing %q", name, entry)
			}
		}
	}
}

func TestPipelineKindMapping(t *testing.T) {
	// The zero Pipelines maps every known kind to its (nil) slot and
	// unknown kinds to nil without panicking.
	var p Pipelines
	for _, kind := range []gpu.PipelineKind{gpu.PipelineMesh, gpu.PipelinePolyline, gpu.PipelinePoint} {
		if got := p.pipeline(kind); got != nil {
			t.Errorf("pipeline(%d) = %v on empty set, want nil", kind, got)
		}
	}
	if got := p.pipeline(gpu.PipelineKind(99)); got != nil {
		t.Errorf("pipeline(99) = %v, want nil", got)
	}
}

func TestUniformAlignmentFitsBlock(t *testing.T) {
	if gpu.DrawUniformsSize > uniformAlign {
		t.Fatalf("uniform block %d exceeds ring slot %d", gpu.DrawUniformsSize, uniformAlign)
	}
	if defaultRingCapacity%uniformAlign != 0 {
		t.Fatalf("ring capacity %d not slot aligned", defaultRingCapacity)
	}
}
