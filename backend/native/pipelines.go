package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quillgfx/quill/gpu"
)

//go:embed shaders/mesh.wgsl
var meshShaderSource string

//go:embed shaders/polyline.wgsl
var polylineShaderSource string

//go:embed shaders/point.wgsl
var pointShaderSource string

// Pipelines holds the three render pipelines and their shared layout. All
// pipelines bind the per-draw uniform block at group 0 binding 0 and
// render with premultiplied alpha blending.
type Pipelines struct {
	device hal.Device

	meshShader     hal.ShaderModule
	polylineShader hal.ShaderModule
	pointShader    hal.ShaderModule

	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout

	mesh     hal.RenderPipeline
	polyline hal.RenderPipeline
	point    hal.RenderPipeline
}

// NewPipelines compiles the shaders and builds the render pipelines for
// the given target format and sample count.
func NewPipelines(device hal.Device, format gputypes.TextureFormat, sampleCount uint32) (*Pipelines, error) {
	p := &Pipelines{device: device}
	if err := p.create(format, sampleCount); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipelines) create(format gputypes.TextureFormat, sampleCount uint32) error {
	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "quill_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quill_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	p.meshShader, err = p.compileShader("quill_mesh_shader", meshShaderSource)
	if err != nil {
		return err
	}
	p.polylineShader, err = p.compileShader("quill_polyline_shader", polylineShaderSource)
	if err != nil {
		return err
	}
	p.pointShader, err = p.compileShader("quill_point_shader", pointShaderSource)
	if err != nil {
		return err
	}

	p.mesh, err = p.buildPipeline("quill_mesh_pipeline", p.meshShader, meshVertexLayout(), format, sampleCount)
	if err != nil {
		return err
	}
	p.polyline, err = p.buildPipeline("quill_polyline_pipeline", p.polylineShader, lineVertexLayout(), format, sampleCount)
	if err != nil {
		return err
	}
	p.point, err = p.buildPipeline("quill_point_pipeline", p.pointShader, pointVertexLayout(), format, sampleCount)
	if err != nil {
		return err
	}
	return nil
}

func (p *Pipelines) compileShader(label, source string) (hal.ShaderModule, error) {
	if source == "" {
		return nil, fmt.Errorf("%s: empty shader source", label)
	}
	spirv, wgsl := shaderSource(label, source)
	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv, WGSL: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return module, nil
}

func (p *Pipelines) buildPipeline(label string, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout, format gputypes.TextureFormat, sampleCount uint32) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// pipeline maps a gpu.PipelineKind to its HAL pipeline.
func (p *Pipelines) pipeline(kind gpu.PipelineKind) hal.RenderPipeline {
	switch kind {
	case gpu.PipelineMesh:
		return p.mesh
	case gpu.PipelinePolyline:
		return p.polyline
	case gpu.PipelinePoint:
		return p.point
	default:
		return nil
	}
}

// Destroy releases all pipeline resources in reverse creation order. Safe
// to call multiple times.
func (p *Pipelines) Destroy() {
	if p.device == nil {
		return
	}
	for _, pl := range []*hal.RenderPipeline{&p.point, &p.polyline, &p.mesh} {
		if *pl != nil {
			p.device.DestroyRenderPipeline(*pl)
			*pl = nil
		}
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	for _, sh := range []*hal.ShaderModule{&p.pointShader, &p.polylineShader, &p.meshShader} {
		if *sh != nil {
			p.device.DestroyShaderModule(*sh)
			*sh = nil
		}
	}
}

func meshVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpu.MeshVertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

func lineVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpu.LineVertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

func pointVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpu.PointVertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // center
				{Format: gputypes.VertexFormatFloat32, Offset: 16, ShaderLocation: 2},   // size
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 3}, // color
			},
		},
	}
}
