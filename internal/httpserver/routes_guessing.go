// internal/httpserver/routes_guessing.go
//
// HTTP routes for the interactive 20-questions game.
//   - GET  /game/guessing/categories → playable categories
//   - POST /game/guessing/start      → obtain a secret for a category
//   - POST /game/guessing/ask        → spend one of ten questions
//   - POST /game/guessing/guess      → submit a final guess
//   - POST /game/guessing/close      → abandon the session
//
// Collaborator failures surface as conversational messages; the question
// budget only moves on successful ask round-trips.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/guessing"
)

// mountGuessing registers all /game/guessing routes.
func (s *Server) mountGuessing(r chi.Router) {
	r.Route("/game/guessing", func(r chi.Router) {
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(guessing.Categories())
		})
		r.Post("/start", s.handleGuessingStart)
		r.Post("/ask", s.handleGuessingAsk)
		r.Post("/guess", s.handleGuessingGuess)
		r.Post("/close", s.handleGuessingClose)
	})
}

type guessingStartReq struct {
	Category string `json:"category"`
}
type guessingStartRes struct {
	SessionID     string `json:"sessionId"`
	Message       string `json:"message"`
	QuestionsLeft int    `json:"questionsLeft"`
}

func (s *Server) handleGuessingStart(w http.ResponseWriter, r *http.Request) {
	var req guessingStartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, intro, err := guessing.Start(r.Context(), s.gen, req.Category)
	if err != nil {
		if errors.Is(err, guessing.ErrUnknownCategory) {
			http.Error(w, `{"error":"unknown_category"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}
	s.guessingGames.Put(g.ID, g)
	_ = json.NewEncoder(w).Encode(guessingStartRes{
		SessionID:     g.ID,
		Message:       intro,
		QuestionsLeft: g.QuestionsLeft(),
	})
}

type guessingAskReq struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}
type guessingAskRes struct {
	Reply         string `json:"reply"`
	QuestionsLeft int    `json:"questionsLeft"`
}

func (s *Server) handleGuessingAsk(w http.ResponseWriter, r *http.Request) {
	var req guessingAskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.guessingGames.Get(req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	reply, left := g.Ask(r.Context(), req.Question)
	_ = json.NewEncoder(w).Encode(guessingAskRes{Reply: reply, QuestionsLeft: left})
}

type guessingGuessReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"`
}
type guessingGuessRes struct {
	Correct       bool   `json:"correct"`
	Message       string `json:"message"`
	State         string `json:"state"`
	QuestionsLeft int    `json:"questionsLeft"`
	Coins         int    `json:"coins,omitempty"`
}

func (s *Server) handleGuessingGuess(w http.ResponseWriter, r *http.Request) {
	var req guessingGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.guessingGames.Get(req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	correct, message, coins := g.Guess(r.Context(), req.Guess)
	if correct {
		if err := s.settler.Settle(r.Context(), s.ownerID(w, r), "guessing", coins); err != nil {
			log.Error().Err(err).Msg("settle guessing reward")
			http.Error(w, `{"error":"settle_failed"}`, http.StatusInternalServerError)
			return
		}
	}
	state := g.State()
	if state != "playing" {
		_, _ = s.guessingGames.Delete(g.ID)
	}
	_ = json.NewEncoder(w).Encode(guessingGuessRes{
		Correct:       correct,
		Message:       message,
		State:         state,
		QuestionsLeft: g.QuestionsLeft(),
		Coins:         coins,
	})
}

func (s *Server) handleGuessingClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	_, _ = s.guessingGames.Delete(req.SessionID)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
