// internal/wordle/types.go
//
// Core type definitions for the word-guessing game engine.
// Defines:
//   - Mark: per-letter result of a guess (correct/present/absent).
//   - Game: state for a single in-progress or finished game.

package wordle

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is correct and in the correct position.
//   - "present": letter exists in the target but in a different position.
//   - "absent":  letter does not exist in the target at all.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent      = "present"
	MarkAbsent       = "absent"
)

// Game holds the state of a single word-guessing session.
type Game struct {
	ID       string   // Unique game identifier (random hex string).
	Target   string   // The solution word (always uppercase).
	Rows     int      // Maximum number of guesses allowed (typically 6).
	Cols     int      // Number of letters per word (typically 5).
	Guesses  []string // List of guesses made so far (uppercased).
	Finished bool     // True once the game is over (won or lost).
	Won      bool     // True if the game was finished with a win.
}
