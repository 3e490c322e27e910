// internal/httpserver/routes_shop.go
//
// HTTP routes for the shop and collection.
//   - GET  /shop/catalog     → merged built-in + custom catalog
//   - POST /shop/purchase    → buy an item (debit + record ownership)
//   - POST /shop/favorite    → toggle an owned item's favorite flag
//   - GET  /shop/collection  → owned items with favorite flags
//   - /admin/items (gated)   → CRUD for the custom catalog
//
// Purchase failures (unknown item, already owned, not enough coins) are
// expected-path outcomes reported as 4xx with a machine-readable error.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/shop"
)

// mountShop registers the player-facing shop routes.
func (s *Server) mountShop(r chi.Router) {
	r.Route("/shop", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/purchase", s.handlePurchase)
		r.Post("/favorite", s.handleFavorite)
		r.Get("/collection", s.handleCollection)
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Items(r.Context())
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

type purchaseReq struct {
	ItemID string `json:"itemId"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)
	snap, err := shop.Purchase(r.Context(), s.wallets, s.catalog, owner, req.ItemID)
	switch {
	case errors.Is(err, shop.ErrUnknownItem):
		http.Error(w, `{"error":"unknown_item"}`, http.StatusNotFound)
		return
	case errors.Is(err, shop.ErrAlreadyOwned):
		http.Error(w, `{"error":"already_owned"}`, http.StatusBadRequest)
		return
	case errors.Is(err, shop.ErrInsufficientFunds):
		http.Error(w, `{"error":"insufficient_funds"}`, http.StatusBadRequest)
		return
	case err != nil:
		log.Error().Err(err).Str("item", req.ItemID).Msg("purchase failed")
		http.Error(w, `{"error":"purchase_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("item", req.ItemID).Msg("item purchased")
	_ = json.NewEncoder(w).Encode(snap)
}

type favoriteReq struct {
	ItemID string `json:"itemId"`
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	owner := s.ownerID(w, r)
	snap, err := shop.ToggleFavorite(r.Context(), s.wallets, owner, req.ItemID)
	if errors.Is(err, shop.ErrNotOwned) {
		http.Error(w, `{"error":"not_owned"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"favorite_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// collectionItem is a catalog item annotated with the owner's favorite flag.
type collectionItem struct {
	shop.Item
	Favorite bool `json:"favorite"`
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	wal, err := s.wallets.Load(r.Context(), owner)
	if err != nil {
		http.Error(w, `{"error":"wallet_load_failed"}`, http.StatusInternalServerError)
		return
	}
	items, err := s.catalog.Items(r.Context())
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	out := []collectionItem{}
	for _, it := range items {
		if wal.Owns(it.ID) {
			out = append(out, collectionItem{Item: it, Favorite: wal.IsFavorite(it.ID)})
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

// ------------------------------- admin -------------------------------------

// mountAdmin registers the auth-gated custom-catalog CRUD.
func (s *Server) mountAdmin() {
	s.r.With(s.requireAuth()).Route("/admin/items", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := s.catalog.Items(r.Context())
			if err != nil {
				http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
				return
			}
			custom := []shop.Item{}
			for _, it := range items {
				if it.Custom {
					custom = append(custom, it)
				}
			}
			_ = json.NewEncoder(w).Encode(custom)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var it shop.Item
			if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
				http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
				return
			}
			if err := s.catalog.SaveCustom(r.Context(), it); err != nil {
				if errors.Is(err, shop.ErrBadItem) {
					http.Error(w, `{"error":"invalid_item"}`, http.StatusBadRequest)
					return
				}
				http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := s.catalog.DeleteCustom(r.Context(), chi.URLParam(r, "id")); err != nil {
				http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		})
	})
}
