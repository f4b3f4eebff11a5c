// Package pregen generates levels ahead of play. The menu prefetches the
// next level while the current one is on screen, so entering a level is
// instant even when the generator needs many attempts.
package pregen

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/akarpov/slideaway/internal/puzzle"
)

// ErrStopped is returned by Request after the service shut down.
var ErrStopped = errors.New("pregen: service stopped")

// ParamsFunc maps a level index to generation parameters.
type ParamsFunc func(level int) puzzle.Parameters

// Config holds service tuning.
type Config struct {
	// CacheSize bounds how many prefetched levels are kept. Oldest entries
	// are evicted first.
	CacheSize int
	// Seed produces the seed for each generated board. Defaults to a
	// crypto/rand source; tests inject a deterministic one.
	Seed func() uint32
	// Logger receives generation telemetry. Defaults to the standard
	// logger.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{CacheSize: 4}
}

// Service owns a background worker that generates levels one at a time.
// Boards are handed out exactly once: a cached board is consumed by the
// request that takes it, so replaying a level always yields a fresh seed.
type Service struct {
	cfg    Config
	board  puzzle.BoardSpec
	params ParamsFunc

	mu      sync.Mutex
	cache   map[int]*puzzle.Result
	order   []int // cache keys, oldest first
	waiters map[int][]chan *puzzle.Result
	queued  map[int]bool

	reqChan chan int
	done    chan struct{}
	stopped sync.Once
}

// New creates a service. Call Start before requesting levels.
func New(board puzzle.BoardSpec, params ParamsFunc, cfg Config) *Service {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if cfg.Seed == nil {
		cfg.Seed = randomSeed
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Service{
		cfg:     cfg,
		board:   board,
		params:  params,
		cache:   make(map[int]*puzzle.Result),
		waiters: make(map[int][]chan *puzzle.Result),
		queued:  make(map[int]bool),
		reqChan: make(chan int, 64),
		done:    make(chan struct{}),
	}
}

// Start begins the background worker.
func (s *Service) Start() {
	go s.run()
}

// Stop shuts the service down. Pending Request calls return ErrStopped.
func (s *Service) Stop() {
	s.stopped.Do(func() { close(s.done) })
}

// Prefetch queues a level for background generation. No-op when the level
// is already cached or queued.
func (s *Service) Prefetch(level int) {
	s.mu.Lock()
	_, cached := s.cache[level]
	s.mu.Unlock()
	if cached {
		return
	}
	s.enqueue(level)
}

// Request returns a board for the level, consuming a cached one when
// available and generating otherwise. Concurrent requests for the same
// level each receive their own board.
func (s *Service) Request(ctx context.Context, level int) (*puzzle.Result, error) {
	s.mu.Lock()
	if r := s.takeCached(level); r != nil {
		s.mu.Unlock()
		return r, nil
	}
	ch := make(chan *puzzle.Result, 1)
	s.waiters[level] = append(s.waiters[level], ch)
	s.mu.Unlock()

	s.enqueue(level)

	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		s.dropWaiter(level, ch)
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrStopped
	}
}

// Take pops a cached board without waiting, nil when none is ready. The
// play loop uses it so entering a level never blocks on the worker.
func (s *Service) Take(level int) *puzzle.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeCached(level)
}

// Cached reports whether a board for the level is ready to take.
func (s *Service) Cached(level int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cache[level]
	return ok
}

// run is the worker loop. Generation is serialized so prefetching never
// competes with itself for CPU.
func (s *Service) run() {
	for {
		select {
		case level := <-s.reqChan:
			s.generate(level)
		case <-s.done:
			return
		}
	}
}

func (s *Service) enqueue(level int) {
	s.mu.Lock()
	if s.queued[level] {
		s.mu.Unlock()
		return
	}
	s.queued[level] = true
	s.mu.Unlock()

	select {
	case s.reqChan <- level:
	case <-s.done:
	}
}

func (s *Service) generate(level int) {
	s.mu.Lock()
	delete(s.queued, level)
	if _, cached := s.cache[level]; cached && len(s.waiters[level]) == 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	seed := s.cfg.Seed()
	start := time.Now()
	r := puzzle.GenerateWithParams(s.params(level), s.board, seed)
	s.cfg.Logger.Debug("level generated",
		"level", level,
		"seed", seed,
		"pieces", r.Count,
		"attempts", r.Diag.Attempts,
		"difficulty", r.Difficulty,
		"took", time.Since(start),
	)
	s.deliver(level, r)
}

// deliver hands the board to the oldest waiter, or caches it when nobody
// is waiting. Remaining waiters trigger another generation pass so no two
// callers share a board.
func (s *Service) deliver(level int, r *puzzle.Result) {
	s.mu.Lock()
	waiters := s.waiters[level]
	if len(waiters) == 0 {
		delete(s.waiters, level)
		s.store(level, r)
		s.mu.Unlock()
		return
	}
	first := waiters[0]
	if rest := waiters[1:]; len(rest) == 0 {
		delete(s.waiters, level)
	} else {
		s.waiters[level] = rest
	}
	more := len(s.waiters[level]) > 0
	s.mu.Unlock()

	first <- r
	if more {
		s.enqueue(level)
	}
}

// takeCached pops and returns the cached board. Caller holds the lock.
func (s *Service) takeCached(level int) *puzzle.Result {
	r, ok := s.cache[level]
	if !ok {
		return nil
	}
	delete(s.cache, level)
	for i, l := range s.order {
		if l == level {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return r
}

// store caches a board, evicting the oldest entry at capacity. Caller
// holds the lock.
func (s *Service) store(level int, r *puzzle.Result) {
	if _, exists := s.cache[level]; exists {
		return
	}
	for len(s.order) >= s.cfg.CacheSize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
	s.cache[level] = r
	s.order = append(s.order, level)
}

func (s *Service) dropWaiter(level int, ch chan *puzzle.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.waiters[level]
	for i, w := range ws {
		if w == ch {
			s.waiters[level] = append(ws[:i], ws[i+1:]...)
			break
		}
	}
	if len(s.waiters[level]) == 0 {
		delete(s.waiters, level)
	}
	// A board may already be in flight for this waiter; if it lands with
	// nobody waiting, deliver routes it into the cache.
}

func randomSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint32(b[:])
}
