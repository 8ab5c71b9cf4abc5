// Package hero rotates the featured title of the browse view on a timer.
package hero

import (
	"sync"
	"time"
)

const DefaultInterval = 8 * time.Second

// Rotator advances an index over a list of n items every interval, wrapping
// to 0. Reset re-arms it for a new list; ticks belonging to a previous arming
// are ignored.
type Rotator struct {
	mu       sync.Mutex
	interval time.Duration
	onTick   func(index int)

	n     int
	index int
	gen   uint64
	stop  chan struct{}
}

// New creates a stopped rotator. onTick, when set, is called with the new
// index after every advance.
func New(interval time.Duration, onTick func(index int)) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{interval: interval, onTick: onTick}
}

// Reset rewinds to index 0 for a list of n items and restarts the timer.
// n == 0 leaves the rotator stopped.
func (r *Rotator) Reset(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.n = n
	r.index = 0
	if n <= 0 {
		return
	}

	stop := make(chan struct{})
	r.stop = stop
	go r.run(r.gen, stop)
}

func (r *Rotator) run(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.advance(gen)
		}
	}
}

func (r *Rotator) advance(gen uint64) {
	r.mu.Lock()
	if gen != r.gen || r.n <= 0 {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + 1) % r.n
	index := r.index
	onTick := r.onTick
	r.mu.Unlock()

	if onTick != nil {
		onTick(index)
	}
}

// Stop tears the timer down; the current index is kept.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Rotator) stopLocked() {
	r.gen++
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}
