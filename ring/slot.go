// Package ring implements a fixed-capacity, single-producer / multi-consumer
// ring buffer. A lone WriteHandle publishes values into Slots using a
// seqlock protocol; any number of ReadHandles observe them without a mutex.
// The writer never blocks: once the ring is full, a push overwrites the
// oldest slot and readers that fall behind are detected and recover by
// skipping to the current write head.
package ring

import "sync/atomic"

// slot holds one payload plus the seqlock version guarding it.
//
// version is even when the slot is quiescent (unwritten, or fully
// published) and odd only while a write is in progress. A reader that
// observes the same even version before and after copying the payload
// knows the copy is torn-free.
type slot[T any] struct {
	version atomic.Uint64
	payload T
}

// beginWrite stamps the slot odd, marking a write as in progress for the
// sequence in lap expectedEven/2 (the sequence n with n/capacity equal to
// expectedEven/2). Must be called before the payload is touched.
func (s *slot[T]) beginWrite(expectedEven uint64) {
	s.version.Store(expectedEven + 1)
}

// finishWrite stamps the slot even again. The payload must already be
// written; this store is what makes it visible to readers.
func (s *slot[T]) finishWrite(expectedEven uint64) {
	s.version.Store(expectedEven + 2)
}

// snapshotRead copies the payload out, bracketing the copy with two
// version loads. ok is true iff both loads agree on the same nonzero even
// version, proving the copy was not torn by a concurrent writer. version
// is the observed (stable, when ok) version, returned so the caller can
// compare it against the sequence it expected and detect a lap.
func (s *slot[T]) snapshotRead() (value T, version uint64, ok bool) {
	v1 := s.version.Load()
	if v1&1 != 0 {
		return value, v1, false // write in progress
	}
	value = s.payload
	v2 := s.version.Load()
	if v1 != v2 || v1 == 0 {
		return value, v2, false
	}
	return value, v1, true
}
