// internal/httpserver/routes_reaction.go
//
// HTTP routes for the reaction-time game.
//   - POST /game/reaction/new     → open a session
//   - POST /game/reaction/arm     → start a round (randomized ready delay)
//   - POST /game/reaction/click   → resolve a click (tooEarly or clicked)
//   - POST /game/reaction/finish  → commit accrued coins to the wallet
//   - POST /game/reaction/close   → abandon, forfeiting uncommitted coins
//
// Rewards accrue per round inside the session; only /finish settles them.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/reaction"
)

// mountReaction registers all /game/reaction routes.
func (s *Server) mountReaction(r chi.Router) {
	r.Route("/game/reaction", func(r chi.Router) {
		r.Post("/new", s.handleReactionNew)
		r.Post("/arm", s.handleReactionArm)
		r.Post("/click", s.handleReactionClick)
		r.Post("/finish", s.handleReactionFinish)
		r.Post("/close", s.handleReactionClose)
	})
}

func (s *Server) handleReactionNew(w http.ResponseWriter, r *http.Request) {
	g := reaction.New(s.sched, nil)
	s.reactionGames.Put(g.ID, g)
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// reactionGame resolves the session from a {"gameId":...} body.
func (s *Server) reactionGame(w http.ResponseWriter, r *http.Request) (*reaction.Game, bool) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return nil, false
	}
	g, err := s.reactionGames.Get(req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return g, true
}

func (s *Server) handleReactionArm(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.reactionGame(w, r); ok {
		_ = json.NewEncoder(w).Encode(g.Arm())
	}
}

func (s *Server) handleReactionClick(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.reactionGame(w, r); ok {
		_ = json.NewEncoder(w).Encode(g.Click())
	}
}

type reactionFinishRes struct {
	Coins  int `json:"coins"`
	Rounds int `json:"rounds"`
	BestMs int `json:"bestMs,omitempty"`
}

func (s *Server) handleReactionFinish(w http.ResponseWriter, r *http.Request) {
	g, ok := s.reactionGame(w, r)
	if !ok {
		return
	}
	snap := g.Snapshot()
	total, ok := g.Finish()
	if !ok {
		http.Error(w, `{"error":"already_finished"}`, http.StatusBadRequest)
		return
	}
	if err := s.settler.Settle(r.Context(), s.ownerID(w, r), "reaction", total); err != nil {
		log.Error().Err(err).Msg("settle reaction reward")
		http.Error(w, `{"error":"settle_failed"}`, http.StatusInternalServerError)
		return
	}
	_, _ = s.reactionGames.Delete(g.ID)
	_ = json.NewEncoder(w).Encode(reactionFinishRes{Coins: total, Rounds: snap.Rounds, BestMs: snap.BestMs})
}

func (s *Server) handleReactionClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if g, err := s.reactionGames.Delete(req.GameID); err == nil {
		g.Close() // accrued-but-uncommitted coins are forfeited
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
