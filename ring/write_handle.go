package ring

// WriteHandle is the unique producer capability for a Ring. At most one
// exists per Ring at any instant: it is obtained via Ring.TryAcquireWriter
// and, once Close is called, a later TryAcquireWriter may succeed again.
type WriteHandle[T any] struct {
	ring *Ring[T]
}

// Push publishes value as the next sequence number. It is infallible and
// never blocks: if the ring is full, the oldest slot is silently
// overwritten and any reader still holding that sequence will detect the
// overrun on its next read.
//
// Push must only be called by the holder of this WriteHandle; the Ring
// enforces that at most one WriteHandle exists, but does not itself
// serialize concurrent calls on the same handle.
func (w *WriteHandle[T]) Push(value T) {
	r := w.ring
	n := r.writeIndex.Load() // relaxed: we are the sole writer
	i := n & r.mask
	v := expectedVersion(n, r.shift)

	s := &r.slots[i]
	s.beginWrite(v - 2)  // stamp odd: write in progress
	s.payload = value    // unsynchronized; bracketed by the version stamps
	s.finishWrite(v - 2) // stamp even: write published

	// Release: pairs with readers' acquire-load of writeIndex, which must
	// not observe n+1 before the slot store above is visible.
	r.writeIndex.Store(n + 1)
}

// Close releases the writer-exclusivity lock. A subsequent
// Ring.TryAcquireWriter may then succeed. Close is idempotent.
func (w *WriteHandle[T]) Close() {
	w.ring.writerLocked.Store(false)
}
