package baker

import "github.com/signalforge/graphengine/signal"

// ringBuffer is a fixed-capacity, single-writer/single-reader history of
// an input connection point's recent values, addressed by how many ticks
// ago a value was written (0 = the value written this tick).
type ringBuffer struct {
	data []signal.Signal
	head int
}

func newRingBuffer(size int) *ringBuffer {
	if size < 1 {
		size = 1
	}
	return &ringBuffer{data: make([]signal.Signal, size)}
}

func (rb *ringBuffer) write(v signal.Signal) {
	rb.data[rb.head] = v
	rb.head = (rb.head + 1) % len(rb.data)
}

// readAt returns the value written offset ticks before the most recent
// write. offset must be within [0, len(rb.data)).
func (rb *ringBuffer) readAt(offset int) signal.Signal {
	n := len(rb.data)
	idx := ((rb.head-1-offset)%n + n) % n
	return rb.data[idx]
}
