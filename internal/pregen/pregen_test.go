package pregen

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akarpov/slideaway/internal/puzzle"
)

func testParams(level int) puzzle.Parameters {
	p := puzzle.ForLevel(level)
	p.TimeBudget = 0
	p.QuickFilterAttempts = 0
	return p
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	s := New(puzzle.DefaultBoardSpec(), testParams, cfg)
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func TestRequestGenerates(t *testing.T) {
	s := newTestService(t, Config{Seed: func() uint32 { return 42 }})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r, err := s.Request(ctx, 3)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if r.Empty() {
		t.Fatal("empty board for level 3")
	}
	if r.Seed != 42 {
		t.Errorf("seed = %d, want 42", r.Seed)
	}
	if r.Level != 3 {
		t.Errorf("level = %d, want 3", r.Level)
	}
}

func TestPrefetchIsConsumedOnce(t *testing.T) {
	var seq atomic.Uint32
	s := newTestService(t, Config{Seed: func() uint32 { return seq.Add(1) }})

	s.Prefetch(5)
	deadline := time.Now().Add(30 * time.Second)
	for !s.Cached(5) {
		if time.Now().After(deadline) {
			t.Fatal("prefetch never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, err := s.Request(ctx, 5)
	if err != nil {
		t.Fatalf("first Request: %v", err)
	}
	if s.Cached(5) {
		t.Error("cached board not consumed by Request")
	}

	second, err := s.Request(ctx, 5)
	if err != nil {
		t.Fatalf("second Request: %v", err)
	}
	if first == second {
		t.Error("two requests received the same board")
	}
	if first.Seed == second.Seed {
		t.Error("replay reused the seed of the consumed board")
	}
}

func TestConcurrentRequestsGetDistinctBoards(t *testing.T) {
	var seq atomic.Uint32
	s := newTestService(t, Config{Seed: func() uint32 { return seq.Add(1) }})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const n = 4
	results := make([]*puzzle.Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := s.Request(ctx, 2)
			if err != nil {
				t.Errorf("Request %d: %v", i, err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	seen := make(map[*puzzle.Result]bool)
	for i, r := range results {
		if r == nil {
			t.Fatalf("request %d got no board", i)
		}
		if seen[r] {
			t.Fatal("a board was delivered to two requesters")
		}
		seen[r] = true
	}
}

func TestRequestHonorsContext(t *testing.T) {
	s := New(puzzle.DefaultBoardSpec(), testParams, Config{})
	// Not started: the request can never be served.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Request(ctx, 1); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRequestAfterStop(t *testing.T) {
	s := New(puzzle.DefaultBoardSpec(), testParams, Config{})
	s.Start()
	s.Stop()

	if _, err := s.Request(context.Background(), 1); err != ErrStopped {
		t.Errorf("err = %v, want ErrStopped", err)
	}
}

func TestTakeIsNonBlocking(t *testing.T) {
	s := newTestService(t, Config{Seed: func() uint32 { return 9 }})

	if r := s.Take(7); r != nil {
		t.Fatal("Take on a cold cache returned a board")
	}

	s.Prefetch(7)
	deadline := time.Now().Add(30 * time.Second)
	for !s.Cached(7) {
		if time.Now().After(deadline) {
			t.Fatal("prefetch never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if r := s.Take(7); r == nil || r.Level != 7 {
		t.Fatalf("Take returned %v, want a level 7 board", r)
	}
	if s.Cached(7) {
		t.Error("Take left the board in the cache")
	}
}

func TestCacheEviction(t *testing.T) {
	var seq atomic.Uint32
	s := newTestService(t, Config{CacheSize: 2, Seed: func() uint32 { return seq.Add(1) }})

	for _, level := range []int{1, 2, 3} {
		s.Prefetch(level)
	}
	deadline := time.Now().Add(60 * time.Second)
	for s.Cached(1) || !s.Cached(2) || !s.Cached(3) {
		if time.Now().After(deadline) {
			t.Fatalf("eviction state wrong: cached(1)=%v cached(2)=%v cached(3)=%v",
				s.Cached(1), s.Cached(2), s.Cached(3))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
