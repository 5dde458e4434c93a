// Package livesearch drives search-as-you-type: keystrokes are debounced,
// a newer query cancels the one in flight, and only the response to the
// latest query is ever applied.
package livesearch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the quiet period before a query is sent.
const DefaultDebounce = 150 * time.Millisecond

// Sequencer issues increasing tokens so that out-of-order responses can
// be recognised as stale.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new token, which becomes the latest.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// IsLatest reports whether tok is the most recently issued token.
func (s *Sequencer) IsLatest(tok uint64) bool {
	return s.last.Load() == tok
}

// Session debounces one input stream. R is the search result type.
type Session[R any] struct {
	base   context.Context
	search func(ctx context.Context, q string) R
	apply  func(q string, r R)
	delay  time.Duration

	seq Sequencer
	wg  sync.WaitGroup

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewSession creates a session. apply is called with the session lock
// held and must not call Input.
func NewSession[R any](ctx context.Context, delay time.Duration,
	search func(ctx context.Context, q string) R, apply func(q string, r R)) *Session[R] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Session[R]{base: ctx, search: search, apply: apply, delay: delay}
}

// Input records a keystroke. The query runs once input has been quiet for
// the debounce delay; any earlier pending or in-flight query is abandoned.
func (s *Session[R]) Input(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopLocked()
	tok := s.seq.Next()

	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run(tok, q)
	})
}

func (s *Session[R]) run(tok uint64, q string) {
	s.mu.Lock()
	if !s.seq.IsLatest(tok) || s.closed {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	r := s.search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() == nil && s.seq.IsLatest(tok) && !s.closed {
		s.apply(q, r)
	}
}

// stopLocked abandons the pending timer and cancels the in-flight query.
func (s *Session[R]) stopLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Wait blocks until the pending query, if any, has run. It must not be
// called concurrently with Input.
func (s *Session[R]) Wait() {
	s.wg.Wait()
}

// Close abandons pending work and waits for running queries to return.
func (s *Session[R]) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()
	s.wg.Wait()
}
