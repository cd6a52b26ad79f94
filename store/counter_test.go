package store

import (
	"sync"
	"testing"
)

func TestNextReportIDSequential(t *testing.T) {
	s, ctx := testStore(t)

	first, err := s.NextReportID(ctx)
	if err != nil {
		t.Fatalf("NextReportID: %v", err)
	}
	if first != 1 {
		t.Fatalf("first id = %d, want 1", first)
	}

	second, err := s.NextReportID(ctx)
	if err != nil {
		t.Fatalf("NextReportID: %v", err)
	}
	if second != 2 {
		t.Fatalf("second id = %d, want 2", second)
	}
}

// Concurrent allocations must never hand out the same id twice.
func TestNextReportIDConcurrent(t *testing.T) {
	s, ctx := testStore(t)

	const n = 25
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.NextReportID(ctx)
			if err != nil {
				t.Errorf("NextReportID: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d allocated twice", id)
		}
		seen[id] = true
		if id < 1 || id > n {
			t.Fatalf("id %d out of range [1,%d]", id, n)
		}
	}
}
