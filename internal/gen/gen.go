// internal/gen/gen.go
//
// Text-generation collaborator for the puzzle generators and the guessing
// game. The rest of the codebase only sees the Generator interface; the
// Gemini client, the prompts, and the fuzzy verdict parsing all live here so
// callers can swap in fakes and own their fallback policy.
//
// Every method can fail (network, quota, malformed output). Callers must
// degrade gracefully: the word game falls back to the local list, the
// guessing game reports a conversational message and leaves its question
// budget untouched.

package gen

import (
	"context"
	"errors"
	"strings"
)

// Generator produces the secret state game sessions need.
type Generator interface {
	// PuzzleWord returns a 5-letter word for the word-guessing game.
	// Output is not guaranteed valid; callers validate and fall back.
	PuzzleWord(ctx context.Context) (string, error)

	// Secret returns a well-known thing in the given category for the
	// guessing game. The secret never reaches the player.
	Secret(ctx context.Context, category string) (string, error)

	// Answer replies to a yes/no question about the secret, with a
	// counter-question in the companion's voice.
	Answer(ctx context.Context, category, secret, question string) (string, error)

	// Verdict judges whether guess names the secret (synonyms and spelling
	// variations count). The message is shown to the player on a miss.
	Verdict(ctx context.Context, secret, guess string) (correct bool, message string, err error)
}

// ErrUnavailable is returned by the disabled generator; it signals that
// callers should take their local fallback path.
var ErrUnavailable = errors.New("gen: no generator configured")

// VerdictFromText is the fuzzy-oracle policy: the collaborator's free-form
// verdict counts as correct when it contains "CORRECT" (case-insensitive).
// Kept as a standalone function so the policy is swappable.
func VerdictFromText(s string) bool {
	return strings.Contains(strings.ToUpper(s), "CORRECT")
}

// Disabled returns a Generator whose every call fails with ErrUnavailable.
// Used when no API key is configured; the games run on local fallbacks.
func Disabled() Generator { return disabled{} }

type disabled struct{}

func (disabled) PuzzleWord(context.Context) (string, error) { return "", ErrUnavailable }
func (disabled) Secret(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
func (disabled) Answer(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}
func (disabled) Verdict(context.Context, string, string) (bool, string, error) {
	return false, "", ErrUnavailable
}
