// Package ring provides a lock-free single-producer single-consumer
// circular buffer. It decouples the matching path from background
// publishers: the service enqueues fill events under its own
// serialization, a single job goroutine drains them.
package ring

import "sync/atomic"

// Ring is an SPSC ring buffer of fixed power-of-two capacity.
type Ring[T any] struct {
	// head and tail sit on separate cache lines
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte

	buf  []T
	mask uint64
}

// New allocates a ring with the given capacity, which must be a power
// of two.
func New[T any](size uint64) *Ring[T] {
	if size == 0 || size&(size-1) != 0 {
		panic("ring: size must be a power of two")
	}
	return &Ring[T]{buf: make([]T, size), mask: size - 1}
}

// Enqueue pushes v, returning false when the ring is full.
func (r *Ring[T]) Enqueue(v T) bool {
	h := r.head
	t := atomic.LoadUint64(&r.tail)
	if h-t == uint64(len(r.buf)) {
		return false
	}
	r.buf[h&r.mask] = v
	atomic.StoreUint64(&r.head, h+1)
	return true
}

// Dequeue pops the oldest element; ok is false when the ring is empty.
func (r *Ring[T]) Dequeue() (v T, ok bool) {
	t := r.tail
	h := atomic.LoadUint64(&r.head)
	if t == h {
		return v, false
	}
	v = r.buf[t&r.mask]
	var zero T
	r.buf[t&r.mask] = zero
	atomic.StoreUint64(&r.tail, t+1)
	return v, true
}

// Len returns the number of elements currently buffered.
func (r *Ring[T]) Len() int {
	h := atomic.LoadUint64(&r.head)
	t := atomic.LoadUint64(&r.tail)
	return int(h - t)
}

// Cap returns the fixed capacity of the ring.
func (r *Ring[T]) Cap() int { return len(r.buf) }
