package hashbin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunChunkedCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, minChunkSize - 1, minChunkSize, minChunkSize + 1, 50_000} {
		for _, workers := range []int{0, 1, 3, 8} {
			seen := make([]int32, n)
			err := runChunked(context.Background(), n, workers, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			if err != nil {
				t.Fatalf("n=%d workers=%d: %v", n, workers, err)
			}
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("n=%d workers=%d: index %d visited %d times", n, workers, i, c)
				}
			}
		}
	}
}

func TestRunChunkedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		err := runChunked(ctx, 100_000, workers, func(lo, hi int) {})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestHashColumnContextMatchesSequential(t *testing.T) {
	rng := newTestRNG(t)
	vals := randomScalars(rng, 20_000)
	for _, workers := range []int{0, 1, 2, 7} {
		h := mustNew(t, 997, WithWorkers(workers), WithMask(vals[3]))
		got, err := h.HashColumnContext(context.Background(), vals)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		assertBuckets(t, "parallel column", got, h.HashColumn(vals))
	}
}

func TestHashColumnContextCancelled(t *testing.T) {
	h := mustNew(t, 10, WithWorkers(4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := h.HashColumnContext(ctx, Strings("a", "b"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if out != nil {
		t.Error("expected no output after cancellation")
	}
}

func BenchmarkHashColumnContext(b *testing.B) {
	rng := newTestRNG(b)
	vals := randomScalars(rng, 200_000)
	h := mustNew(b, 1<<20, WithWorkers(4))
	ctx := context.Background()
	b.ResetTimer()
	for range b.N {
		if _, err := h.HashColumnContext(ctx, vals); err != nil {
			b.Fatal(err)
		}
	}
}
