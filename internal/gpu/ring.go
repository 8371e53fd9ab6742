//go:build !nogpu

package gpu

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ringSlot holds the per-frame buffers of one ring position.
type ringSlot struct {
	vertex, index, uniform hal.Buffer
	vertexCap, indexCap    uint64

	// groups are bind groups referencing this slot's buffers and cmds the
	// command buffers that read them. Both are released with the buffers.
	groups []hal.BindGroup
	cmds   []hal.CommandBuffer

	// submission is the queue submission that last read the slot, 0 when
	// none did.
	submission uint64
}

// retiredSet is a group of resources waiting for a submission to complete.
type retiredSet struct {
	buffers    []hal.Buffer
	groups     []hal.BindGroup
	cmds       []hal.CommandBuffer
	submission uint64
}

// frameRing rotates per-frame buffers over a fixed number of slots indexed
// by an explicit frame counter. A slot still read by an incomplete
// submission is never written: its buffers are retired until that
// submission completes and the frame gets freshly allocated ones.
type frameRing struct {
	device hal.Device
	queue  hal.Queue
	label  string

	slots   []ringSlot
	retired []retiredSet

	minVertexBytes uint64

	// reallocations counts frames that found their slot in flight.
	reallocations int
}

func newFrameRing(device hal.Device, queue hal.Queue, label string, size, initialQuads int) *frameRing {
	return &frameRing{
		device:         device,
		queue:          queue,
		label:          label,
		slots:          make([]ringSlot, max(size, 1)),
		minVertexBytes: uint64(max(initialQuads, 1)) * VerticesPerQuad * VertexStride,
	}
}

// acquire returns the slot for frame with room for the given byte counts.
// Bind groups and command buffers of a reused slot are released; the caller
// records new ones with track and trackCommands.
func (r *frameRing) acquire(frame uint64, vertexBytes, indexBytes uint64) (*ringSlot, error) {
	r.collect()

	idx := int(frame % uint64(len(r.slots)))
	s := &r.slots[idx]
	if s.submission != 0 && s.submission > r.queue.PollCompleted() {
		slogger().Warn("gpu: ring slot in flight, allocating fresh buffers",
			"ring", r.label, "frame", frame, "slot", idx, "submission", s.submission)
		r.retire(s)
		r.reallocations++
	} else {
		r.releaseGroups(s)
	}

	var err error
	if s.vertex == nil || s.vertexCap < vertexBytes {
		s.vertex, s.vertexCap, err = r.replace(s.vertex, "vertex", max(vertexBytes, r.minVertexBytes),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, err
		}
	}
	if s.index == nil || s.indexCap < indexBytes {
		minIndex := r.minVertexBytes / (VerticesPerQuad * VertexStride) * IndicesPerQuad * IndexSize
		s.index, s.indexCap, err = r.replace(s.index, "index", max(indexBytes, minIndex),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, err
		}
	}
	if s.uniform == nil {
		s.uniform, _, err = r.replace(nil, "uniform", globalsSize,
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// replace destroys old, which must not be in flight, and creates a buffer
// of at least size bytes rounded up to a power of two.
func (r *frameRing) replace(old hal.Buffer, kind string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, uint64, error) {
	if old != nil {
		r.device.DestroyBuffer(old)
	}
	size = ceilPow2(size)
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: r.label + "_" + kind,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create %s %s buffer (%d bytes): %w", r.label, kind, size, err)
	}
	return buf, size, nil
}

// track records a bind group created for slot s.
func (r *frameRing) track(s *ringSlot, g hal.BindGroup) {
	s.groups = append(s.groups, g)
}

// trackCommands records a command buffer submitted with slot s.
func (r *frameRing) trackCommands(s *ringSlot, cb hal.CommandBuffer) {
	s.cmds = append(s.cmds, cb)
}

// commit marks s as read by submission.
func (r *frameRing) commit(s *ringSlot, submission uint64) {
	s.submission = submission
}

// retire moves the resources of s to the retired list and clears it.
func (r *frameRing) retire(s *ringSlot) {
	set := retiredSet{groups: s.groups, cmds: s.cmds, submission: s.submission}
	for _, b := range []hal.Buffer{s.vertex, s.index, s.uniform} {
		if b != nil {
			set.buffers = append(set.buffers, b)
		}
	}
	r.retired = append(r.retired, set)
	*s = ringSlot{}
}

func (r *frameRing) releaseGroups(s *ringSlot) {
	for _, cb := range s.cmds {
		r.device.FreeCommandBuffer(cb)
	}
	for _, g := range s.groups {
		r.device.DestroyBindGroup(g)
	}
	s.cmds = s.cmds[:0]
	s.groups = s.groups[:0]
}

// collect destroys retired resources whose submission has completed.
func (r *frameRing) collect() {
	if len(r.retired) == 0 {
		return
	}
	done := r.queue.PollCompleted()
	kept := r.retired[:0]
	for _, set := range r.retired {
		if set.submission > done {
			kept = append(kept, set)
			continue
		}
		r.destroySet(set)
	}
	r.retired = kept
}

func (r *frameRing) destroySet(set retiredSet) {
	for _, cb := range set.cmds {
		r.device.FreeCommandBuffer(cb)
	}
	for _, g := range set.groups {
		r.device.DestroyBindGroup(g)
	}
	for _, b := range set.buffers {
		r.device.DestroyBuffer(b)
	}
}

// pending returns the number of retired sets still waiting.
func (r *frameRing) pending() int { return len(r.retired) }

// destroy releases every resource. The caller must have waited for the
// device to go idle.
func (r *frameRing) destroy() {
	for i := range r.slots {
		r.retire(&r.slots[i])
	}
	for _, set := range r.retired {
		r.destroySet(set)
	}
	r.retired = nil
}

func ceilPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}
