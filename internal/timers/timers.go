// internal/timers/timers.go
//
// Cancellable one-shot scheduling for game state machines.
// The memory game's settle delay and the reaction game's ready delay are
// scheduled transitions: a callback that must NOT fire once the session has
// moved on (early click, restart, close). Handles make that cancellation
// explicit and idempotent instead of relying on ambient callbacks.
//
// Implementations:
//   - Wall clock (time.AfterFunc) for production.
//   - Manual, for tests: pending callbacks fire only when the test says so.

package timers

import (
	"sync"
	"time"
)

// Handle refers to a single scheduled callback.
type Handle interface {
	// Cancel stops the callback from firing. Safe to call more than once,
	// and after the callback has already run; reports whether this call
	// prevented the fire.
	Cancel() bool
}

// Scheduler schedules a callback to run once after d.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

// ---------------------------- wall clock -----------------------------------

type wallClock struct{}

// Wall returns a Scheduler backed by time.AfterFunc.
func Wall() Scheduler { return wallClock{} }

type wallHandle struct {
	once sync.Once
	t    *time.Timer
	hit  bool
}

func (w wallClock) After(d time.Duration, fn func()) Handle {
	h := &wallHandle{}
	h.t = time.AfterFunc(d, fn)
	return h
}

func (h *wallHandle) Cancel() bool {
	h.once.Do(func() { h.hit = h.t.Stop() })
	return h.hit
}

// ------------------------------ manual -------------------------------------

// Manual is a Scheduler for tests. Nothing fires until Fire/FireAll is called.
type Manual struct {
	mu      sync.Mutex
	pending []*manualHandle
}

func NewManual() *Manual { return &Manual{} }

type manualHandle struct {
	mu        sync.Mutex
	fn        func()
	cancelled bool
	fired     bool
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	h := &manualHandle{fn: fn}
	m.mu.Lock()
	m.pending = append(m.pending, h)
	m.mu.Unlock()
	return h
}

func (h *manualHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired || h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

func (h *manualHandle) fire() {
	h.mu.Lock()
	if h.cancelled || h.fired {
		h.mu.Unlock()
		return
	}
	h.fired = true
	fn := h.fn
	h.mu.Unlock()
	fn()
}

// Pending reports how many callbacks are scheduled and not yet fired or
// cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.pending {
		h.mu.Lock()
		if !h.fired && !h.cancelled {
			n++
		}
		h.mu.Unlock()
	}
	return n
}

// FireAll runs every pending callback in scheduling order. Cancelled handles
// stay silent, mirroring a stopped time.Timer.
func (m *Manual) FireAll() {
	m.mu.Lock()
	hs := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, h := range hs {
		h.fire()
	}
}
