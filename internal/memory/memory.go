// internal/memory/memory.go
//
// Tile-matching memory game: 8 symbol pairs shuffled into 16 face-down
// tiles. At most two unmatched tiles are revealed at once; a mismatched
// pair stays visible for a settle delay before flipping back, and any
// selection made during that window is ignored.
//
// The settle flip-back is a scheduled transition with a cancellable handle:
// Restart and Close cancel it so a stale callback can never mutate a session
// that has moved on.

package memory

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"sync"
	"time"

	"github.com/periopal/arcade-server/internal/timers"
)

// TileState is the visibility of a single tile.
type TileState string

const (
	TileHidden   TileState = "hidden"
	TileRevealed           = "revealed"
	TileMatched            = "matched"
)

// comfort symbol set; one pair per symbol.
var symbols = []string{"💕", "🌸", "🍫", "☕", "🛁", "💐", "🎵", "📖"}

const settleDelay = 900 * time.Millisecond

type tile struct {
	symbol string
	state  TileState
}

// Game is one memory-match session.
type Game struct {
	mu       sync.Mutex
	ID       string
	tiles    []tile
	revealed []int // indexes of revealed-but-unmatched tiles (0..2)
	matches  int
	mistakes int
	closed   bool

	sched  timers.Scheduler
	settle timers.Handle // pending flip-back, nil when no pair is settling
}

// New constructs a shuffled game using the given scheduler.
func New(sched timers.Scheduler) *Game {
	g := &Game{ID: randomID(), sched: sched}
	g.shuffle()
	return g
}

// shuffle deals a fresh randomized board. Caller holds no locks or g.mu.
func (g *Game) shuffle() {
	deck := make([]tile, 0, len(symbols)*2)
	for _, s := range symbols {
		deck = append(deck, tile{symbol: s, state: TileHidden}, tile{symbol: s, state: TileHidden})
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	g.tiles = deck
	g.revealed = nil
	g.matches = 0
	g.mistakes = 0
}

// Select flips the tile at index i. Invalid selections (out of range, already
// revealed or matched, a pair still settling, game over) are silent no-ops.
// Returns the post-selection snapshot.
func (g *Game) Select(i int) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.won() || i < 0 || i >= len(g.tiles) {
		return g.snapshotLocked()
	}
	if g.settle != nil || len(g.revealed) >= 2 {
		return g.snapshotLocked()
	}
	if g.tiles[i].state != TileHidden {
		return g.snapshotLocked()
	}

	g.tiles[i].state = TileRevealed
	g.revealed = append(g.revealed, i)
	if len(g.revealed) < 2 {
		return g.snapshotLocked()
	}

	a, b := g.revealed[0], g.revealed[1]
	if g.tiles[a].symbol == g.tiles[b].symbol {
		g.tiles[a].state = TileMatched
		g.tiles[b].state = TileMatched
		g.matches++
		g.revealed = nil
		return g.snapshotLocked()
	}

	// Mismatch: count it now, flip back after the settle delay.
	g.mistakes++
	g.settle = g.sched.After(settleDelay, func() { g.settleMismatch(a, b) })
	return g.snapshotLocked()
}

// settleMismatch reverts a mismatched pair. Fires from the scheduler; the
// closed check guards against a handle that was racing Close.
func (g *Game) settleMismatch(a, b int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if g.tiles[a].state == TileRevealed {
		g.tiles[a].state = TileHidden
	}
	if g.tiles[b].state == TileRevealed {
		g.tiles[b].state = TileHidden
	}
	g.revealed = nil
	g.settle = nil
}

// Restart reshuffles the board and resets counters, cancelling any pending
// settle transition.
func (g *Game) Restart() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelSettleLocked()
	g.shuffle()
	return g.snapshotLocked()
}

// Close tears the session down; pending transitions are cancelled and any
// late fire becomes a no-op.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelSettleLocked()
	g.closed = true
}

func (g *Game) cancelSettleLocked() {
	if g.settle != nil {
		g.settle.Cancel()
		g.settle = nil
	}
	g.revealed = nil
}

func (g *Game) won() bool { return g.matches == len(symbols) }

// Mistakes reports the mismatch count.
func (g *Game) Mistakes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mistakes
}

// ------------------------------ snapshot -----------------------------------

// TileView is the player-visible form of one tile: hidden tiles do not leak
// their symbol.
type TileView struct {
	Symbol string    `json:"symbol"` // "" while hidden
	State  TileState `json:"state"`
}

// Snapshot is the player-visible game state.
type Snapshot struct {
	ID       string     `json:"id"`
	Tiles    []TileView `json:"tiles"`
	Matches  int        `json:"matches"`
	Mistakes int        `json:"mistakes"`
	State    string     `json:"state"` // "playing" | "won"
}

// Snapshot returns the current player-visible state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{ID: g.ID, Matches: g.matches, Mistakes: g.mistakes, State: "playing"}
	if g.won() {
		s.State = "won"
	}
	s.Tiles = make([]TileView, len(g.tiles))
	for i, t := range g.tiles {
		v := TileView{State: t.state}
		if t.state != TileHidden {
			v.Symbol = t.symbol
		}
		s.Tiles[i] = v
	}
	return s
}

// Won reports whether every pair has been matched.
func (g *Game) Won() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.won()
}

func randIndex(n int) int {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
