package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/quillgfx/quill/gpu"
)

// uniformAlign is the dynamic uniform offset alignment required by most
// hardware. Every uniform block occupies one aligned slot.
const uniformAlign = 256

// defaultRingCapacity holds 64 draws before the ring grows.
const defaultRingCapacity = 64 * uniformAlign

// uniformRing stages per-draw uniform blocks, one frame slot per in-flight
// frame. Each push writes the block into the current slot's buffer and
// builds a bind group pointing at it. Bind groups recorded into a pass
// stay valid until the slot comes around again, so reset destroys them
// and retires any outgrown buffers only then.
type uniformRing struct {
	device hal.Device
	queue  hal.Queue
	layout hal.BindGroupLayout

	slot  int
	slots [gpu.NumFrames]uniformSlot
}

type uniformSlot struct {
	// retired buffers wait here until the slot resets; recorded bind
	// groups may still reference them.
	retired    []hal.Buffer
	buffer     hal.Buffer
	capacity   int
	cursor     int
	bindGroups []hal.BindGroup
}

func newUniformRing(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout) *uniformRing {
	return &uniformRing{device: device, queue: queue, layout: layout}
}

// nextFrame advances to the next slot and recycles its previous contents.
func (r *uniformRing) nextFrame() {
	r.slot = (r.slot + 1) % gpu.NumFrames
	s := &r.slots[r.slot]
	for _, bg := range s.bindGroups {
		r.device.DestroyBindGroup(bg)
	}
	s.bindGroups = s.bindGroups[:0]
	for _, buf := range s.retired {
		r.device.DestroyBuffer(buf)
	}
	s.retired = s.retired[:0]
	s.cursor = 0
}

// push stages one uniform block and returns a bind group for it.
func (r *uniformRing) push(data []byte) (hal.BindGroup, error) {
	if len(data) == 0 || len(data) > uniformAlign {
		return nil, fmt.Errorf("uniform block size %d out of range", len(data))
	}
	s := &r.slots[r.slot]

	if s.buffer == nil || s.cursor+uniformAlign > s.capacity {
		newCap := s.capacity * 2
		if newCap < defaultRingCapacity {
			newCap = defaultRingCapacity
		}
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "quill_uniform_ring",
			Size:  uint64(newCap),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("grow uniform ring: %w", err)
		}
		if s.buffer != nil {
			s.retired = append(s.retired, s.buffer)
		}
		s.buffer = buf
		s.capacity = newCap
		s.cursor = 0
	}

	offset := s.cursor
	r.queue.WriteBuffer(s.buffer, uint64(offset), data)

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "quill_draw_uniforms",
		Layout: r.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: s.buffer.NativeHandle(), Offset: uint64(offset), Size: uint64(len(data)),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform bind group: %w", err)
	}
	s.bindGroups = append(s.bindGroups, bindGroup)
	s.cursor += uniformAlign
	return bindGroup, nil
}

// destroy releases every slot's buffers and bind groups.
func (r *uniformRing) destroy() {
	for i := range r.slots {
		s := &r.slots[i]
		for _, bg := range s.bindGroups {
			r.device.DestroyBindGroup(bg)
		}
		s.bindGroups = nil
		for _, buf := range s.retired {
			r.device.DestroyBuffer(buf)
		}
		s.retired = nil
		if s.buffer != nil {
			r.device.DestroyBuffer(s.buffer)
			s.buffer = nil
		}
		s.capacity = 0
		s.cursor = 0
	}
}
