package analyzer

// History maintains a bounded sliding window of frame results for the
// temporal criteria. Fixed-capacity ring: the oldest entry is evicted
// first once full. Owned exclusively by the analyzer; callers read it
// through copies.
type History struct {
	frames   []*FrameResult
	capacity int
	head     int // next write position
	size     int // current number of frames stored
}

// DefaultHistoryCapacity keeps roughly ten seconds at 30 fps.
const DefaultHistoryCapacity = 300

// NewHistory creates a history ring with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		frames:   make([]*FrameResult, capacity),
		capacity: capacity,
	}
}

// Add stores a frame result, overwriting the oldest entry at capacity.
func (h *History) Add(fr *FrameResult) {
	h.frames[h.head] = fr
	h.head = (h.head + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}
}

// Previous returns the frame n steps back from the most recent.
// Previous(1) is the most recently added frame. Returns nil when the
// requested frame does not exist.
func (h *History) Previous(n int) *FrameResult {
	if n < 1 || n > h.size {
		return nil
	}
	idx := (h.head - n + h.capacity) % h.capacity
	return h.frames[idx]
}

// Recent returns up to n frames ending at the newest, oldest first.
func (h *History) Recent(n int) []*FrameResult {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]*FrameResult, n)
	for i := 0; i < n; i++ {
		out[i] = h.Previous(n - i)
	}
	return out
}

// All returns every stored frame, oldest first.
func (h *History) All() []*FrameResult {
	return h.Recent(h.size)
}

// Size returns the current number of stored frames.
func (h *History) Size() int { return h.size }

// Capacity returns the fixed maximum number of frames.
func (h *History) Capacity() int { return h.capacity }

// Clear drops all stored frames.
func (h *History) Clear() {
	for i := range h.frames {
		h.frames[i] = nil
	}
	h.head = 0
	h.size = 0
}
