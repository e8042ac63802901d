package ringbuffer

import "sync"

// RingBuffer holds the most recent entries written to it, overwriting the
// oldest once full. It is safe for concurrent use.
type RingBuffer[T any] struct {
	mu       sync.Mutex
	buf      []T
	writePos int
	capacity int
	written  uint64 // total entries ever written
}

// New creates a ring buffer that holds up to capacity entries.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
}

// Write appends entries, overwriting the oldest when full.
func (rb *RingBuffer[T]) Write(entries ...T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, e := range entries {
		rb.buf[rb.writePos] = e
		rb.writePos = (rb.writePos + 1) % rb.capacity
		rb.written++
	}
}

// Snapshot returns a copy of the last n entries, oldest first.
// If fewer entries are stored than requested, only the available ones are returned.
// n <= 0 returns everything stored.
func (rb *RingBuffer[T]) Snapshot(n int) []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	available := rb.len()
	if n <= 0 || n > available {
		n = available
	}
	if n == 0 {
		return nil
	}

	out := make([]T, n)
	start := (rb.writePos - n + rb.capacity) % rb.capacity

	if start+n <= rb.capacity {
		copy(out, rb.buf[start:start+n])
	} else {
		first := rb.capacity - start
		copy(out[:first], rb.buf[start:])
		copy(out[first:], rb.buf[:n-first])
	}

	return out
}

// Len returns the number of entries currently stored.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len()
}

// Written returns the total number of entries ever written.
func (rb *RingBuffer[T]) Written() uint64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.written
}

// Cap returns the buffer capacity.
func (rb *RingBuffer[T]) Cap() int {
	return rb.capacity
}

func (rb *RingBuffer[T]) len() int {
	if rb.written > uint64(rb.capacity) {
		return rb.capacity
	}
	return int(rb.written)
}
