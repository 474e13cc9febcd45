package http

import (
	"sync"
	"time"
)

// rateLimiter allows limit calls per reset period. Each stats request fans out into
// up to max_messages/100 upstream calls, so the budget is kept on this side.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	counter int
	reset   *time.Ticker
	done    chan struct{} // closed when the reset loop exits
}

func newRateLimiter(limit int, period time.Duration) *rateLimiter {
	if limit <= 0 || period <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit: limit,
		reset: time.NewTicker(period),
		done:  make(chan struct{}),
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter <= r.limit
}

func (r *rateLimiter) resetCounter() {
	r.mu.Lock()
	r.counter = 0
	r.mu.Unlock()
}

func (r *rateLimiter) startReset(stop <-chan struct{}) {
	if r == nil || r.reset == nil {
		return
	}
	go func() {
		defer close(r.done)
		for {
			select {
			case <-r.reset.C:
				r.resetCounter()
			case <-stop:
				r.reset.Stop()
				return
			}
		}
	}()
}
