package lap

// ring is a fixed-capacity drop-oldest buffer of tracked samples. Appends
// stay O(1); the oldest entry is overwritten once the capacity is reached.
type ring struct {
	buf  []trackedSample
	head int
	size int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{buf: make([]trackedSample, capacity)}
}

func (r *ring) push(s trackedSample) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = s
		r.size++
		return
	}
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring) len() int { return r.size }

func (r *ring) reset() {
	r.head = 0
	r.size = 0
}

// snapshot copies the buffered samples oldest first.
func (r *ring) snapshot() []trackedSample {
	out := make([]trackedSample, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
