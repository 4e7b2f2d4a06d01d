package ring

import (
	"sync"
	"sync/atomic"
	"testing"
)

func mustRing[T any](t *testing.T, capacity uint64) *Ring[T] {
	t.Helper()
	r, err := NewRing[T](capacity)
	if err != nil {
		t.Fatalf("NewRing(%d): %v", capacity, err)
	}
	return r
}

func TestNewRing_RejectsNonPowerOfTwo(t *testing.T) {
	for _, cap := range []uint64{0, 3, 5, 6, 100} {
		if _, err := NewRing[int](cap); err == nil {
			t.Fatalf("NewRing(%d): expected error, got nil", cap)
		}
	}
}

func TestSingleThreaded_BasicPushPop(t *testing.T) {
	r := mustRing[int](t, 8)
	w, ok := r.TryAcquireWriter()
	if !ok {
		t.Fatal("expected to acquire writer")
	}
	rh := r.Reader()

	w.Push(1)
	w.Push(2)
	w.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := rh.PopFront()
		if !ok || got != want {
			t.Fatalf("PopFront() = (%v, %v), want (%v, true)", got, ok, want)
		}
	}
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected PopFront to be empty after draining")
	}
}

func TestEmptyRing_PopFrontIsNone(t *testing.T) {
	r := mustRing[string](t, 4)
	rh := r.Reader()
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected empty ring to yield no value")
	}
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected repeated pops on empty ring to keep yielding no value")
	}
}

func TestEmptyThenProduce(t *testing.T) {
	r := mustRing[int](t, 4)
	rh := r.Reader()
	w, _ := r.TryAcquireWriter()

	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected no value before any push")
	}
	w.Push(42)
	got, ok := rh.PopFront()
	if !ok || got != 42 {
		t.Fatalf("PopFront() = (%v, %v), want (42, true)", got, ok)
	}
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected no value after draining the single push")
	}
}

func TestFreshReader_StartsAtHead(t *testing.T) {
	r := mustRing[int](t, 16)
	w, _ := r.TryAcquireWriter()
	for i := 0; i < 5; i++ {
		w.Push(i)
	}

	rh := r.Reader() // created after the first 5 pushes
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected a fresh reader to observe none of the prior pushes")
	}

	w.Push(100)
	got, ok := rh.PopFront()
	if !ok || got != 100 {
		t.Fatalf("PopFront() = (%v, %v), want (100, true)", got, ok)
	}
}

func TestClonedReaders_AreIndependent(t *testing.T) {
	r := mustRing[int](t, 16)
	w, _ := r.TryAcquireWriter()
	a := r.Reader()

	for i := 1; i <= 10; i++ {
		w.Push(i)
	}

	b := a.Clone()

	var gotA, gotB []int
	for {
		v, ok := a.PopFront()
		if !ok {
			break
		}
		gotA = append(gotA, v)
	}
	for {
		v, ok := b.PopFront()
		if !ok {
			break
		}
		gotB = append(gotB, v)
	}

	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if !intSliceEqual(gotA, want) {
		t.Fatalf("reader A = %v, want %v", gotA, want)
	}
	if !intSliceEqual(gotB, want) {
		t.Fatalf("reader B = %v, want %v", gotB, want)
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWriterExclusivity(t *testing.T) {
	r := mustRing[int](t, 4)

	first, ok := r.TryAcquireWriter()
	if !ok {
		t.Fatal("expected first TryAcquireWriter to succeed")
	}
	if _, ok := r.TryAcquireWriter(); ok {
		t.Fatal("expected second TryAcquireWriter to fail while the first is held")
	}

	first.Close()

	if _, ok := r.TryAcquireWriter(); !ok {
		t.Fatal("expected TryAcquireWriter to succeed after Close")
	}
}

func TestLapOver_ExactlyCapacity(t *testing.T) {
	const capacity = 4
	r := mustRing[int](t, capacity)
	w, _ := r.TryAcquireWriter()
	rh := r.Reader()

	// Push exactly capacity+1 values with no pops: the (capacity+1)-th push
	// overwrites slot 0, the slot our reader's cursor still points at.
	for i := 0; i <= capacity; i++ {
		w.Push(i)
	}

	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected the first pop after an exact-capacity overrun to report no value")
	}
	if got := rh.Skipped(); got == 0 {
		t.Fatal("expected Skipped() to record the lap")
	}

	// Recovery skips to the write head; no further lap is pending.
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected no value immediately after lap recovery (reader is now at the write head)")
	}

	w.Push(999)
	got, ok := rh.PopFront()
	if !ok || got != 999 {
		t.Fatalf("PopFront() after lap recovery = (%v, %v), want (999, true)", got, ok)
	}
}

func TestLapOver_NinePushesCapacityFour(t *testing.T) {
	const capacity = 4
	r := mustRing[int](t, capacity)
	w, _ := r.TryAcquireWriter()
	rh := r.Reader()

	for i := 0; i < 9; i++ { // 9 pushes, no pops
		w.Push(i)
	}

	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected lap-skip recovery to report no value on first pop")
	}
	if _, ok := rh.PopFront(); ok {
		t.Fatal("expected no value on the following pop (reader is at the write head, ring is quiescent)")
	}
}

func TestSharedReader_StealingHasNoDuplicatesAndUnionIsSubsequence(t *testing.T) {
	const (
		capacity  = 256
		numPushes = 1000
		numReader = 4
	)
	r := mustRing[int](t, capacity)
	w, _ := r.TryAcquireWriter()
	shared := r.Reader()

	for i := 0; i < numPushes; i++ {
		w.Push(i)
	}

	var mu sync.Mutex
	seen := make(map[int]int) // value -> count, to assert no duplicates
	var wg sync.WaitGroup
	var totalPops atomic.Int64

	for g := 0; g < numReader; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := shared.PopFront()
				if !ok {
					if totalPops.Load() >= numPushes-int64(shared.Skipped()) {
						return
					}
					continue
				}
				totalPops.Add(1)
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for v, count := range seen {
		if count != 1 {
			t.Fatalf("value %d was observed %d times, want at most 1", v, count)
		}
		if v < 0 || v >= numPushes {
			t.Fatalf("observed value %d outside the pushed range [0,%d)", v, numPushes)
		}
	}
	if uint64(len(seen))+shared.Skipped() < numPushes {
		t.Fatalf("accounted for %d returned + %d skipped, want >= %d pushed",
			len(seen), shared.Skipped(), numPushes)
	}
}

func TestClonedReaders_SeeOverlappingSubsequencesConcurrently(t *testing.T) {
	const capacity = 1024
	r := mustRing[int](t, capacity)
	w, _ := r.TryAcquireWriter()
	a := r.Reader()
	b := a.Clone()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			w.Push(i)
		}
	}()
	wg.Wait()

	drain := func(rh *ReadHandle[int]) []int {
		var out []int
		for {
			v, ok := rh.PopFront()
			if !ok {
				break
			}
			out = append(out, v)
		}
		return out
	}

	var gotA, gotB []int
	var readers sync.WaitGroup
	readers.Add(2)
	go func() { defer readers.Done(); gotA = drain(a) }()
	go func() { defer readers.Done(); gotB = drain(b) }()
	readers.Wait()

	isSubsequence := func(seq []int) bool {
		last := -1
		for _, v := range seq {
			if v <= last {
				return false
			}
			last = v
		}
		return true
	}
	if !isSubsequence(gotA) {
		t.Fatalf("reader A's values are not an increasing subsequence: %v", gotA)
	}
	if !isSubsequence(gotB) {
		t.Fatalf("reader B's values are not an increasing subsequence: %v", gotB)
	}
}
