// internal/guessing/guessing.go
//
// Interactive 20-questions game against the text-generation collaborator.
// Three-phase protocol: Start picks a hidden secret for a category, Ask
// spends one of ten questions per successful round-trip, Guess defers to the
// collaborator's fuzzy verdict.
//
// Collaborator failures never kill a session: Start falls back to a local
// secret, Ask answers with a conversational stall and leaves the budget
// untouched, and Guess falls back to a plain case-insensitive comparison.

package guessing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/gen"
	"github.com/periopal/arcade-server/internal/reward"
)

const questionBudget = 10

// ErrUnknownCategory is returned by Start for categories outside the set.
var ErrUnknownCategory = errors.New("unknown category")

// fallbackSecrets keeps each category playable when the collaborator is
// unreachable. Entries match the register of the generation prompt examples.
var fallbackSecrets = map[string][]string{
	"food":   {"Pizza", "Chocolate", "Sushi", "Pancakes"},
	"animal": {"Dolphin", "Penguin", "Koala", "Octopus"},
	"movie":  {"The Matrix", "Finding Nemo", "Frozen", "Toy Story"},
	"place":  {"Paris", "Tokyo", "The Beach", "New York"},
}

// Categories lists the playable categories in display order.
func Categories() []string { return []string{"food", "animal", "movie", "place"} }

// Game is one guessing session. The secret never appears in snapshots.
type Game struct {
	mu            sync.Mutex
	ID            string
	Category      string
	secret        string
	questionsLeft int
	state         string // "playing" | "won" | "lost"
	coins         int
	gen           gen.Generator
}

// Start opens a session: the collaborator provides the secret, with a silent
// local fallback on failure or empty output.
func Start(ctx context.Context, g gen.Generator, category string) (*Game, string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if _, ok := fallbackSecrets[category]; !ok {
		return nil, "", ErrUnknownCategory
	}
	secret, err := g.Secret(ctx, category)
	if err != nil || strings.TrimSpace(secret) == "" {
		if err != nil {
			log.Warn().Err(err).Str("category", category).Msg("secret generation failed, using fallback")
		}
		secret = pickFallback(category)
	}
	s := &Game{
		ID:            uuid.NewString(),
		Category:      category,
		secret:        strings.TrimSpace(secret),
		questionsLeft: questionBudget,
		state:         "playing",
		gen:           g,
	}
	intro := fmt.Sprintf("I've thought of a %s! Ask me yes/no questions to figure out what it is. When you think you know, make your final guess!", category)
	return s, intro, nil
}

// Ask spends one question on a successful collaborator round-trip and
// returns the reply. Failed calls cost nothing and return a stall message.
func (s *Game) Ask(ctx context.Context, question string) (reply string, questionsLeft int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != "playing" {
		return "The game is over — start a new one!", s.questionsLeft
	}
	if s.questionsLeft <= 0 {
		return "No questions left — time to make your guess!", 0
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "Ask me a yes/no question!", s.questionsLeft
	}
	answer, err := s.gen.Answer(ctx, s.Category, s.secret, question)
	if err != nil {
		log.Warn().Err(err).Msg("ask round-trip failed")
		return "Oops, I got distracted for a second — ask me that again?", s.questionsLeft
	}
	s.questionsLeft--
	return answer, s.questionsLeft
}

// Guess judges the candidate against the secret. A correct guess wins and
// returns the coin reward; a wrong guess with no questions remaining loses
// the session. Guesses never consume the question budget.
func (s *Game) Guess(ctx context.Context, candidate string) (correct bool, message string, coins int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != "playing" {
		return false, "The game is over — start a new one!", 0
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, "Tell me your guess first!", 0
	}

	ok, verdictMsg, err := s.gen.Verdict(ctx, s.secret, candidate)
	if err != nil {
		log.Warn().Err(err).Msg("verdict round-trip failed")
		// The collaborator is the authority, but a plain match is beyond
		// doubt; anything else stays undecided rather than punishing the
		// player for an outage.
		if !strings.EqualFold(candidate, s.secret) {
			return false, "Hmm, I couldn't quite check that one — try guessing again!", 0
		}
		ok = true
	}

	if ok {
		s.state = "won"
		s.coins = reward.Guess(s.questionsLeft)
		return true, fmt.Sprintf("🎉 Yes! You guessed it! You earned %d coins!", s.coins), s.coins
	}
	if s.questionsLeft <= 0 {
		s.state = "lost"
		return false, fmt.Sprintf("So close! It was %q. Better luck next time!", s.secret), 0
	}
	if verdictMsg == "" {
		verdictMsg = "Nope! Keep trying!"
	}
	return false, verdictMsg, 0
}

// QuestionsLeft reports the remaining budget.
func (s *Game) QuestionsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionsLeft
}

// State reports "playing", "won" or "lost".
func (s *Game) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func pickFallback(category string) string {
	opts := fallbackSecrets[category]
	return opts[randIndex(len(opts))]
}
