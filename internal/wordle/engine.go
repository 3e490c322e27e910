// internal/wordle/engine.go
//
// Core game engine for a single word-guessing session.
// Responsibilities:
//   - Create new games with deterministic dimensions (6x5).
//   - Validate and apply guesses (length, alphabetic).
//   - Score guesses using the classic two-pass algorithm.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Targets come from the generator with a silent fallback to the local
//     words package; New falls back itself when handed a bad target, so a
//     malformed generation can never produce an unplayable game.
//   - An invalid guess is rejected with no state change.

package wordle

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/periopal/arcade-server/internal/words"
)

const (
	defaultRows = 6
	defaultCols = 5
)

// ErrInvalidGuess is returned for guesses that are not exactly five letters.
var ErrInvalidGuess = errors.New("invalid guess")

// ErrFinished is returned for guesses against a terminal game.
var ErrFinished = errors.New("game finished")

// New constructs a new game instance.
// If target is empty or not a valid 5-letter word, a random word is chosen
// from the local list instead.
func New(target string) *Game {
	t := strings.ToUpper(strings.TrimSpace(target))
	if !words.Valid(t) {
		t = words.Random()
	}
	return &Game{
		ID:      randomID(),
		Target:  t,
		Rows:    defaultRows,
		Cols:    defaultCols,
		Guesses: []string{},
	}
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns: the per-letter marks, the new state string ("playing"/"won"/"lost"),
// or an error.
//
// State transitions:
//   - If all marks are correct → Finished = true, Won = true.
//   - Else if the number of guesses reaches g.Rows → Finished = true (loss).
func (g *Game) ApplyGuess(guess string) ([]Mark, string, error) {
	if g.Finished {
		return nil, g.State(), ErrFinished
	}
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != g.Cols || !words.Valid(guess) {
		return nil, g.State(), ErrInvalidGuess
	}

	marks := scoreGuess(g.Target, guess)
	g.Guesses = append(g.Guesses, guess)

	if guess == g.Target {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return marks, g.State(), nil
}

// Attempts reports the number of guesses used so far.
func (g *Game) Attempts() int { return len(g.Guesses) }

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return "won"
		}
		return "lost"
	}
	return "playing"
}

// scoreGuess implements the standard two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) target letters by letter index.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark present and decrement the count; otherwise mark absent.
//
// This ensures each target letter is claimable exactly once, giving correct
// behavior with repeated letters in both target and guess.
func scoreGuess(target, guess string) []Mark {
	n := len(guess)
	res := make([]Mark, n)
	targetRunes := []rune(target)
	guessRunes := []rune(guess)

	// Letter frequency for the non-correct positions (A–Z).
	var counts [26]int

	// First pass: mark exact matches and collect counts for the rest.
	for i := 0; i < n; i++ {
		if guessRunes[i] == targetRunes[i] {
			res[i] = MarkCorrect
		} else {
			counts[idx(targetRunes[i])]++
		}
	}

	// Second pass: resolve present/absent for the remaining tiles.
	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		j := idx(guessRunes[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// idx maps an uppercase ASCII letter rune to 0..25.
// Assumes inputs are validated to A–Z elsewhere.
func idx(r rune) int { return int(r - 'A') }

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
