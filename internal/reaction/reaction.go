// internal/reaction/reaction.go
//
// Reaction-time game: idle → waiting → ready → clicked, with an early-click
// branch waiting → tooEarly. Arming a round schedules a randomized 1–4s
// delay before the "ready" transition; the pending handle is cancelled on an
// early click, on re-arm and on close, and an arming-generation counter makes
// any stale fire a no-op even if cancellation loses the race.
//
// Round rewards accrue inside the session and are only committed to the
// wallet when the player explicitly finishes; closing without finishing
// forfeits whatever accrued.

package reaction

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"sync"
	"time"

	"github.com/periopal/arcade-server/internal/reward"
	"github.com/periopal/arcade-server/internal/timers"
)

// State is the round phase.
type State string

const (
	StateIdle     State = "idle"
	StateWaiting        = "waiting"
	StateReady          = "ready"
	StateClicked        = "clicked"
	StateTooEarly       = "tooEarly"
)

const (
	minDelay = 1 * time.Second
	maxDelay = 4 * time.Second
)

// Game is one reaction session spanning multiple rounds.
type Game struct {
	mu    sync.Mutex
	ID    string
	state State

	sched timers.Scheduler
	now   func() time.Time

	pending timers.Handle // pending ready transition
	arming  int           // generation guard for stale fires

	readyAt  time.Time
	lastMs   int
	bestMs   int // 0 until a round completes
	rounds   int
	accrued  int
	finished bool
	closed   bool
}

// New constructs an idle session. now may be nil for the wall clock.
func New(sched timers.Scheduler, now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	return &Game{ID: randomID(), state: StateIdle, sched: sched, now: now}
}

// Arm starts a round: waiting, with the ready transition scheduled after a
// uniform random 1–4s delay. Arming while a round is pending restarts it.
// No-op once the session is finished or closed.
func (g *Game) Arm() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished || g.closed {
		return g.snapshotLocked()
	}
	g.cancelPendingLocked()
	g.arming++
	gen := g.arming
	g.state = StateWaiting
	g.lastMs = 0
	g.pending = g.sched.After(randomDelay(), func() { g.becomeReady(gen) })
	return g.snapshotLocked()
}

// becomeReady flips waiting → ready. A stale fire (cancelled round, session
// moved on) is rejected by the generation check.
func (g *Game) becomeReady(gen int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.finished || g.state != StateWaiting || gen != g.arming {
		return
	}
	g.state = StateReady
	g.readyAt = g.now()
}

// Click resolves the player's click.
//   - waiting: too early — the pending ready transition is cancelled and no
//     reaction time is recorded.
//   - ready: records elapsed ms, bumps the round counter and best time, and
//     accrues the tier reward.
//   - anything else: silent no-op.
func (g *Game) Click() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished || g.closed {
		return g.snapshotLocked()
	}
	switch g.state {
	case StateWaiting:
		g.cancelPendingLocked()
		g.arming++
		g.state = StateTooEarly
	case StateReady:
		ms := int(g.now().Sub(g.readyAt).Milliseconds())
		g.state = StateClicked
		g.lastMs = ms
		g.rounds++
		if g.bestMs == 0 || ms < g.bestMs {
			g.bestMs = ms
		}
		g.accrued += reward.Reaction(ms)
	}
	return g.snapshotLocked()
}

// Finish ends the session and returns the accrued total for settlement.
// Only the first call reports ok; the session accepts no input afterwards.
func (g *Game) Finish() (total int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished || g.closed {
		return 0, false
	}
	g.cancelPendingLocked()
	g.finished = true
	return g.accrued, true
}

// Close abandons the session. Accrued-but-uncommitted coins are forfeited.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelPendingLocked()
	g.closed = true
}

func (g *Game) cancelPendingLocked() {
	if g.pending != nil {
		g.pending.Cancel()
		g.pending = nil
	}
}

// ------------------------------ snapshot -----------------------------------

// Snapshot is the player-visible session state.
type Snapshot struct {
	ID      string `json:"id"`
	State   State  `json:"state"`
	LastMs  int    `json:"lastMs,omitempty"`
	BestMs  int    `json:"bestMs,omitempty"`
	Rounds  int    `json:"rounds"`
	Accrued int    `json:"accrued"`
}

// Snapshot returns the current player-visible state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	return Snapshot{
		ID:      g.ID,
		State:   g.state,
		LastMs:  g.lastMs,
		BestMs:  g.bestMs,
		Rounds:  g.rounds,
		Accrued: g.accrued,
	}
}

// randomDelay draws uniformly from [minDelay, maxDelay).
func randomDelay() time.Duration {
	span := int64(maxDelay - minDelay)
	nBig, _ := rand.Int(rand.Reader, big.NewInt(span))
	return minDelay + time.Duration(nBig.Int64())
}

func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
