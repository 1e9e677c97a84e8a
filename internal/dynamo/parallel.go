package dynamo

import (
	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn over contiguous chunks of [0, n) on up to workers
// goroutines and returns the first error. Small inputs run inline.
func ParallelFor(n, workers, minChunk int, fn func(start, end int) error) error {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers <= 1 || n <= minChunk {
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			return fn(s, e)
		})
	}

	return g.Wait()
}
