// internal/httpserver/routes_wordle.go
//
// HTTP routes for the word-guessing game.
//   - POST /game/wordle/new    → start a game (generator target, local fallback)
//   - POST /game/wordle/guess  → submit a guess
//   - POST /game/wordle/close  → abandon the session
//
// The target word is resolved server-side when the game is created: the
// text-generation collaborator is asked first, and any failure or malformed
// output falls back silently to the local word list, so the player always
// lands in "playing".

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/reward"
	"github.com/periopal/arcade-server/internal/words"
	"github.com/periopal/arcade-server/internal/wordle"
)

// mountWordle registers all /game/wordle routes.
func (s *Server) mountWordle(r chi.Router) {
	r.Route("/game/wordle", func(r chi.Router) {
		r.Post("/new", s.handleWordleNew)
		r.Post("/guess", s.handleWordleGuess)
		r.Post("/close", s.handleWordleClose)
	})
}

type wordleNewRes struct {
	GameID string `json:"gameId"`
	State  string `json:"state"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}

// handleWordleNew asks the generator for a target and creates the session.
// Generator failures are logged, never surfaced: wordle.New substitutes a
// local word for anything that is not a clean 5-letter word.
func (s *Server) handleWordleNew(w http.ResponseWriter, r *http.Request) {
	target, err := s.gen.PuzzleWord(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("word generation failed, using fallback")
	} else if !words.Valid(strings.ToUpper(strings.TrimSpace(target))) {
		log.Warn().Str("word", target).Msg("malformed generated word, using fallback")
		target = ""
	}
	g := wordle.New(target)
	s.wordleGames.Put(g.ID, g)
	_ = json.NewEncoder(w).Encode(wordleNewRes{GameID: g.ID, State: g.State(), Rows: g.Rows, Cols: g.Cols})
}

type wordleGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type wordleGuessRes struct {
	Marks    []wordle.Mark `json:"marks"`
	State    string        `json:"state"` // "playing" | "won" | "lost"
	Attempts int           `json:"attempts"`
	Coins    int           `json:"coins,omitempty"`
	Target   string        `json:"target,omitempty"` // revealed on loss
}

// handleWordleGuess applies a guess and, on a terminal state, settles the
// reward and destroys the session.
func (s *Server) handleWordleGuess(w http.ResponseWriter, r *http.Request) {
	var req wordleGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.wordleGames.Get(req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	marks, state, err := g.ApplyGuess(req.Guess)
	if err != nil {
		// Wrong-length or non-alphabetic input is a no-op, not a fault.
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	res := wordleGuessRes{Marks: marks, State: state, Attempts: g.Attempts()}
	if g.Finished {
		coins := reward.Wordle(g.Attempts(), g.Won)
		if err := s.settler.Settle(r.Context(), s.ownerID(w, r), "wordle", coins); err != nil {
			log.Error().Err(err).Msg("settle wordle reward")
			http.Error(w, `{"error":"settle_failed"}`, http.StatusInternalServerError)
			return
		}
		res.Coins = coins
		if !g.Won {
			res.Target = g.Target
		}
		_, _ = s.wordleGames.Delete(g.ID)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleWordleClose abandons a session without settlement.
func (s *Server) handleWordleClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	_, _ = s.wordleGames.Delete(req.GameID)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
