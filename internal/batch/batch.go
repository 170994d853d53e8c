// internal/batch/batch.go
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"gaslib-catalog/internal/ratelimit"
)

// Chunked runs fn over items in fixed-size chunks. Items inside a chunk run
// concurrently; chunks run strictly one after another with delay between them.
// fn reports its own outcome through R, so one failing item never aborts the
// batch.
//
// When ctx is done no further chunk is scheduled; the returned slice then
// holds results only for the items that were processed, in input order, and
// the context error is returned alongside.
func Chunked[T, R any](ctx context.Context, items []T, size int, delay time.Duration, fn func(ctx context.Context, item T) R) ([]R, error) {
	if size < 1 {
		size = 1
	}

	results := make([]R, 0, len(items))
	for start := 0; start < len(items); start += size {
		if start > 0 {
			if err := ratelimit.Sleep(ctx, delay); err != nil {
				return results, err
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := min(start+size, len(items))
		chunk := make([]R, end-start)

		var g errgroup.Group
		for i, item := range items[start:end] {
			g.Go(func() error {
				chunk[i] = fn(ctx, item)
				return nil
			})
		}
		_ = g.Wait()

		results = append(results, chunk...)
	}
	return results, nil
}
