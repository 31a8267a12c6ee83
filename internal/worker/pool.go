// Package worker runs batch analysis jobs concurrently. Each job is an
// independent dump file; the pipeline itself stays single-threaded.
package worker

import (
	"context"
	"sync"
)

// Result reports the outcome of one batch job
type Result struct {
	Path string
	Err  error
}

// Pool fans paths out to a fixed number of workers
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run processes every path with fn and collects the results in
// completion order. Cancelling the context stops new work; in-flight
// jobs finish.
func (p *Pool) Run(ctx context.Context, paths []string, fn func(ctx context.Context, path string) error) []Result {
	jobs := make(chan string)
	results := make(chan Result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					results <- Result{Path: path, Err: ctx.Err()}
					continue
				default:
				}
				results <- Result{Path: path, Err: fn(ctx, path)}
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]Result, 0, len(paths))
	for r := range results {
		out = append(out, r)
	}
	return out
}
