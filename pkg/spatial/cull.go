package spatial

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the smallest key count CullParallel splits across
// goroutines. Below it the sequential path is faster.
const ParallelThreshold = 2048

// Cull returns the items whose key is inside f, keeping their relative
// order. items and keys are parallel: keys[i] describes items[i]. It panics
// when their lengths differ.
func Cull[T any, K Key](f *Frustum, items []T, keys []K) []T {
	mustMatch(len(items), len(keys))

	out := make([]T, 0, len(items))
	for i := range keys {
		if IsInside(f, keys[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// CullIndices returns the ascending indices of the keys inside f. Apply the
// result to every parallel array with Select so they stay index-aligned.
func CullIndices[K Key](f *Frustum, keys []K) []int {
	out := make([]int, 0, len(keys))
	for i := range keys {
		if IsInside(f, keys[i]) {
			out = append(out, i)
		}
	}
	return out
}

// Select returns items[i] for every i in indices, in that order.
func Select[T any](items []T, indices []int) []T {
	out := make([]T, len(indices))
	for j, i := range indices {
		out[j] = items[i]
	}
	return out
}

// CullParallel is Cull with the visibility tests spread over up to workers
// goroutines. Keys are split into contiguous chunks, each chunk fills its
// part of a shared mask, and the survivors are compacted in index order
// once every chunk is done, so the result always equals Cull. workers <= 0
// means GOMAXPROCS.
func CullParallel[T any, K Key](ctx context.Context, f *Frustum, items []T, keys []K, workers int) ([]T, error) {
	mustMatch(len(items), len(keys))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(keys) < ParallelThreshold {
		return Cull(f, items, keys), nil
	}

	mask := make([]bool, len(keys))
	chunk := (len(keys) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(keys); start += chunk {
		end := min(start+chunk, len(keys))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				mask[i] = IsInside(f, keys[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cull: %w", err)
	}

	out := make([]T, 0, len(items))
	for i, visible := range mask {
		if visible {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// Stats counts culling outcomes for one frame.
type Stats struct {
	Tested int
	Culled int
	Drawn  int
}

// Add records a pass that tested n keys of which visible survived.
func (s *Stats) Add(n, visible int) {
	s.Tested += n
	s.Drawn += visible
	s.Culled += n - visible
}

func mustMatch(items, keys int) {
	if items != keys {
		panic(fmt.Sprintf("spatial: cull length mismatch %d items != %d keys", items, keys))
	}
}
