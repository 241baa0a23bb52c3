package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult is the outcome of one item of a bulk run. Index is the item's
// position in the input.
type BulkResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`

	err error
}

// runBulkOperation runs operation for every key with bounded parallelism.
// Results come back in input order; failures don't stop the run.
func runBulkOperation[T any](
	ctx context.Context,
	keys []string,
	concurrency int64,
	progress io.Writer,
	operation func(ctx context.Context, key string) (T, error),
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult, len(keys))
	var (
		mu   sync.Mutex
		done int
	)

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			results[i] = BulkResult{Index: i, ID: key}
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].err = err
				results[i].Error = err.Error()
				return nil
			}
			defer sem.Release(1)

			data, err := operation(ctx, key)
			if err != nil {
				results[i].err = err
				results[i].Error = err.Error()
			} else {
				results[i].Success = true
				results[i].Data = data
			}

			if progress != nil {
				mu.Lock()
				done++
				_, _ = fmt.Fprintf(progress, "\rProcessed %d/%d", done, len(keys))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil && len(keys) > 0 {
		_, _ = fmt.Fprintln(progress)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// firstBulkError returns the first failure, used for the exit code.
func firstBulkError(results []BulkResult) error {
	for _, r := range results {
		if !r.Success && r.err != nil {
			return r.err
		}
	}
	return nil
}
