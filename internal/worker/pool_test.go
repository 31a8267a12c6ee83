package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPool_RunsAllJobs(t *testing.T) {
	p := NewPool(4)

	paths := []string{"a", "b", "c", "d", "e", "f"}
	var count int64
	results := p.Run(context.Background(), paths, func(ctx context.Context, path string) error {
		atomic.AddInt64(&count, 1)
		return nil
	})

	if len(results) != len(paths) {
		t.Fatalf("Expected %d results, got %d", len(paths), len(results))
	}
	if count != int64(len(paths)) {
		t.Errorf("Expected every job executed once, got %d", count)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("Expected no error for %s, got %v", r.Path, r.Err)
		}
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	p := NewPool(2)

	boom := errors.New("boom")
	results := p.Run(context.Background(), []string{"good", "bad"}, func(ctx context.Context, path string) error {
		if path == "bad" {
			return boom
		}
		return nil
	})

	byPath := make(map[string]error, len(results))
	for _, r := range results {
		byPath[r.Path] = r.Err
	}
	if byPath["good"] != nil {
		t.Errorf("Expected good path to succeed, got %v", byPath["good"])
	}
	if !errors.Is(byPath["bad"], boom) {
		t.Errorf("Expected boom error for bad path, got %v", byPath["bad"])
	}
}

func TestPool_ZeroWorkersStillRuns(t *testing.T) {
	p := NewPool(0)

	results := p.Run(context.Background(), []string{"only"}, func(ctx context.Context, path string) error {
		return nil
	})
	if len(results) != 1 || results[0].Err != nil {
		t.Errorf("Expected single successful result, got %+v", results)
	}
}

func TestPool_CancelledContextSkipsWork(t *testing.T) {
	p := NewPool(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	results := p.Run(ctx, []string{"a", "b", "c"}, func(ctx context.Context, path string) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	if len(results) != 3 {
		t.Fatalf("Expected a result per path, got %d", len(results))
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("Expected context.Canceled for %s, got %v", r.Path, r.Err)
		}
	}
	if ran != 0 {
		t.Errorf("Expected no job bodies to run after cancel, got %d", ran)
	}
}
