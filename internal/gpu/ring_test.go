//go:build !nogpu

package gpu

import "testing"

func TestFrameRingReuse(t *testing.T) {
	dev, q := newNoopDevice(t)
	r := newFrameRing(dev, q, "test", 2, 4)
	defer r.destroy()

	s, err := r.acquire(0, 100, 24)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if s.vertexCap != 2048 {
		t.Errorf("vertex capacity = %d, want 2048 (4 quads rounded up)", s.vertexCap)
	}
	if s.uniform == nil || s.index == nil {
		t.Fatal("slot buffers missing")
	}
	v := s.vertex
	idx, err := q.Submit(nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	r.commit(s, idx)

	// Noop completes every submission, so the slot is reused in place.
	s2, err := r.acquire(2, 100, 24)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if s2.vertex != v {
		t.Error("completed slot should keep its buffers")
	}
	if r.reallocations != 0 {
		t.Errorf("reallocations = %d, want 0", r.reallocations)
	}
}

func TestFrameRingInFlight(t *testing.T) {
	dev, q := newNoopDevice(t)
	lq := &lagQueue{Queue: q}
	r := newFrameRing(dev, lq, "test", 2, 4)
	defer r.destroy()

	s0, _ := r.acquire(0, 100, 24)
	v0, u0 := s0.vertex, s0.uniform
	r.commit(s0, 1)
	s1, _ := r.acquire(1, 100, 24)
	v1 := s1.vertex
	r.commit(s1, 2)

	// Frame 2 maps to slot 0, whose submission 1 is still running.
	s2, err := r.acquire(2, 100, 24)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if s2.vertex == v0 || s2.uniform == u0 {
		t.Error("in-flight slot buffers were handed out again")
	}
	if r.reallocations != 1 || r.pending() != 1 {
		t.Errorf("reallocations %d pending %d, want 1 and 1", r.reallocations, r.pending())
	}
	r.commit(s2, 3)

	// Once both complete, the retired set is freed and slot 1 is reused.
	lq.completed = 2
	s3, err := r.acquire(3, 100, 24)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if s3.vertex != v1 {
		t.Error("completed slot 1 should be reused")
	}
	if r.pending() != 0 {
		t.Errorf("pending = %d after completion, want 0", r.pending())
	}
}

func TestFrameRingGrows(t *testing.T) {
	dev, q := newNoopDevice(t)
	r := newFrameRing(dev, q, "test", 1, 1)
	defer r.destroy()

	s, _ := r.acquire(0, 10, 10)
	small := s.vertexCap
	s, err := r.acquire(1, 5000, 3000)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if s.vertexCap < 5000 || s.vertexCap == small || s.indexCap < 3000 {
		t.Errorf("capacities %d/%d after growth", s.vertexCap, s.indexCap)
	}
	if s.vertexCap&(s.vertexCap-1) != 0 {
		t.Errorf("capacity %d not a power of two", s.vertexCap)
	}
}

func TestCeilPow2(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {1024, 1024}, {1025, 2048},
	}
	for _, tt := range tests {
		if got := ceilPow2(tt.in); got != tt.want {
			t.Errorf("ceilPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
