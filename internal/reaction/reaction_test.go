package reaction

import (
	"testing"
	"time"

	"github.com/periopal/arcade-server/internal/timers"
)

// fakeClock returns a now func that advances only when told to.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock               { return &fakeClock{t: time.Unix(1000, 0)} }
func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRoundLifecycle(t *testing.T) {
	sched := timers.NewManual()
	clock := newFakeClock()
	g := New(sched, clock.now)

	if s := g.Snapshot(); s.State != StateIdle {
		t.Fatalf("initial state = %q, want idle", s.State)
	}

	snap := g.Arm()
	if snap.State != StateWaiting {
		t.Fatalf("state after Arm = %q, want waiting", snap.State)
	}
	if sched.Pending() != 1 {
		t.Fatalf("pending = %d after Arm, want 1", sched.Pending())
	}

	sched.FireAll()
	if s := g.Snapshot(); s.State != StateReady {
		t.Fatalf("state after ready fire = %q, want ready", s.State)
	}

	clock.advance(200 * time.Millisecond)
	snap = g.Click()
	if snap.State != StateClicked {
		t.Fatalf("state after click = %q, want clicked", snap.State)
	}
	if snap.LastMs != 200 || snap.BestMs != 200 || snap.Rounds != 1 {
		t.Fatalf("lastMs=%d bestMs=%d rounds=%d, want 200/200/1", snap.LastMs, snap.BestMs, snap.Rounds)
	}
	if snap.Accrued != 15 {
		t.Fatalf("accrued = %d for a 200ms round, want 15", snap.Accrued)
	}
}

func TestEarlyClick(t *testing.T) {
	sched := timers.NewManual()
	g := New(sched, newFakeClock().now)

	g.Arm()
	snap := g.Click()
	if snap.State != StateTooEarly {
		t.Fatalf("state = %q after early click, want tooEarly", snap.State)
	}
	if snap.Rounds != 0 || snap.Accrued != 0 {
		t.Fatalf("early click scored: rounds=%d accrued=%d", snap.Rounds, snap.Accrued)
	}

	// The cancelled ready transition must not flip the state later.
	sched.FireAll()
	if s := g.Snapshot(); s.State != StateTooEarly {
		t.Fatalf("stale ready fire flipped state to %q", s.State)
	}
}

func TestStaleReadyAfterRearm(t *testing.T) {
	sched := timers.NewManual()
	clock := newFakeClock()
	g := New(sched, clock.now)

	g.Arm()
	g.Arm() // restart the round; first schedule is stale

	// Fire everything: the stale callback is cancelled or generation-guarded,
	// the live one makes the round ready exactly once.
	sched.FireAll()
	if s := g.Snapshot(); s.State != StateReady {
		t.Fatalf("state = %q, want ready", s.State)
	}

	clock.advance(400 * time.Millisecond)
	snap := g.Click()
	if snap.Rounds != 1 || snap.Accrued != 8 {
		t.Fatalf("rounds=%d accrued=%d, want 1 round at 8 coins", snap.Rounds, snap.Accrued)
	}
}

func TestAccrualAcrossRounds(t *testing.T) {
	sched := timers.NewManual()
	clock := newFakeClock()
	g := New(sched, clock.now)

	times := []time.Duration{300 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond}
	for _, d := range times {
		g.Arm()
		sched.FireAll()
		clock.advance(d)
		g.Click()
	}

	snap := g.Snapshot()
	if snap.Rounds != 3 {
		t.Fatalf("rounds = %d, want 3", snap.Rounds)
	}
	if snap.BestMs != 200 {
		t.Fatalf("bestMs = %d, want 200", snap.BestMs)
	}
	if want := 12 + 15 + 5; snap.Accrued != want {
		t.Fatalf("accrued = %d, want %d", snap.Accrued, want)
	}

	total, ok := g.Finish()
	if !ok || total != snap.Accrued {
		t.Fatalf("Finish = (%d, %v), want (%d, true)", total, ok, snap.Accrued)
	}

	// Finish is one-shot and the session accepts no further input.
	if _, ok := g.Finish(); ok {
		t.Fatal("second Finish reported ok")
	}
	if s := g.Arm(); s.State != StateClicked {
		t.Fatalf("Arm after finish changed state to %q", s.State)
	}
}

func TestCloseForfeits(t *testing.T) {
	sched := timers.NewManual()
	clock := newFakeClock()
	g := New(sched, clock.now)

	g.Arm()
	sched.FireAll()
	clock.advance(100 * time.Millisecond)
	g.Click()
	g.Close()

	if total, ok := g.Finish(); ok || total != 0 {
		t.Fatalf("Finish after Close = (%d, %v), want (0, false)", total, ok)
	}
}
