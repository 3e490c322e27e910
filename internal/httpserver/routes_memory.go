// internal/httpserver/routes_memory.go
//
// HTTP routes for the tile-matching memory game.
//   - POST /game/memory/new      → deal a shuffled 16-tile board
//   - POST /game/memory/select   → flip a tile (no-op when invalid)
//   - POST /game/memory/restart  → reshuffle, reset counters
//   - POST /game/memory/close    → abandon the session
//
// Board snapshots never include hidden tiles' symbols. The win settles
// max(40, 80 − mistakes×10) and destroys the session.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/memory"
	"github.com/periopal/arcade-server/internal/reward"
)

// mountMemory registers all /game/memory routes.
func (s *Server) mountMemory(r chi.Router) {
	r.Route("/game/memory", func(r chi.Router) {
		r.Post("/new", s.handleMemoryNew)
		r.Post("/select", s.handleMemorySelect)
		r.Post("/restart", s.handleMemoryRestart)
		r.Post("/close", s.handleMemoryClose)
	})
}

func (s *Server) handleMemoryNew(w http.ResponseWriter, r *http.Request) {
	g := memory.New(s.sched)
	s.memoryGames.Put(g.ID, g)
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

type memorySelectReq struct {
	GameID string `json:"gameId"`
	Index  int    `json:"index"`
}
type memorySelectRes struct {
	memory.Snapshot
	Coins int `json:"coins,omitempty"`
}

func (s *Server) handleMemorySelect(w http.ResponseWriter, r *http.Request) {
	var req memorySelectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.memoryGames.Get(req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	snap := g.Select(req.Index)
	res := memorySelectRes{Snapshot: snap}
	if snap.State == "won" {
		coins := reward.Memory(snap.Mistakes)
		if err := s.settler.Settle(r.Context(), s.ownerID(w, r), "memory", coins); err != nil {
			log.Error().Err(err).Msg("settle memory reward")
			http.Error(w, `{"error":"settle_failed"}`, http.StatusInternalServerError)
			return
		}
		res.Coins = coins
		g.Close()
		_, _ = s.memoryGames.Delete(g.ID)
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleMemoryRestart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.memoryGames.Get(req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Restart())
}

func (s *Server) handleMemoryClose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if g, err := s.memoryGames.Delete(req.GameID); err == nil {
		g.Close()
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
