package hashbin

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// minChunkSize is the smallest number of rows handed to one worker.
	// Hashing a row costs tens of nanoseconds, so smaller chunks spend more
	// time on scheduling than on hashing.
	minChunkSize = 1024

	// chunksPerWorker splits the input finer than one chunk per worker so a
	// slow goroutine does not hold up the whole call.
	chunksPerWorker = 4
)

// runChunked calls fn over consecutive [lo, hi) ranges covering [0, n).
// With workers > 1 the ranges run on an errgroup; each range writes only to
// its own output positions, so results come back in input order without
// further coordination. Cancellation is checked between ranges; a cancelled
// ctx returns ctx.Err() and the partial output must be discarded.
func runChunked(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if workers <= 1 || n <= minChunkSize {
		for lo := 0; lo < n; lo += minChunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, min(lo+minChunkSize, n))
		}
		return ctx.Err()
	}

	chunk := max(minChunkSize, (n+workers*chunksPerWorker-1)/(workers*chunksPerWorker))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// HashColumnContext is HashColumn with values partitioned across WithWorkers
// goroutines. Each value is hashed independently, so the output is identical
// to HashColumn. It returns ctx.Err() and no output if ctx is cancelled first.
func (h *Hasher) HashColumnContext(ctx context.Context, vals []Scalar) ([]uint32, error) {
	out := make([]uint32, len(vals))
	err := runChunked(ctx, len(vals), h.workers, func(lo, hi int) {
		h.hashRange(out[lo:hi], vals[lo:hi])
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
