// internal/wallet/store.go
//
// Persistence for wallets, keyed by owner id (user id or anonymous cookie
// id). Every mutation path goes load → mutate → save with the save completing
// before the HTTP response, so a crash or navigation never loses coins.
//
// Storage format mirrors the three original keys (balance, purchased items,
// favorite items): one row per owner with the item sets as serialized JSON
// arrays. Absent rows mean a fresh zero wallet; rows that fail to parse
// degrade to empty sets rather than erroring.

package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
)

// Store loads and saves wallet snapshots.
// Implementations may be backed by SQLite (this package), memory, etc.
type Store interface {
	// Load returns the owner's wallet, or a fresh empty wallet if none is
	// stored yet.
	Load(ctx context.Context, owner string) (*Wallet, error)

	// Save durably persists the full wallet snapshot before returning.
	Save(ctx context.Context, owner string, w *Wallet) error

	// Delete removes the owner's stored wallet.
	Delete(ctx context.Context, owner string) error
}

// Merge folds the wallet stored under from into the wallet under to, then
// deletes from. Used to claim an anonymous wallet at signup/login.
func Merge(ctx context.Context, s Store, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	src, err := s.Load(ctx, from)
	if err != nil {
		return err
	}
	if src.Balance == 0 && len(src.Purchased) == 0 {
		return nil
	}
	dst, err := s.Load(ctx, to)
	if err != nil {
		return err
	}
	dst.Credit(src.Balance)
	for id := range src.Purchased {
		dst.RecordPurchase(id)
	}
	for id := range src.Favorites {
		if !dst.IsFavorite(id) {
			dst.ToggleFavorite(id)
		}
	}
	if err := s.Save(ctx, to, dst); err != nil {
		return err
	}
	return s.Delete(ctx, from)
}

// ------------------------------ SQLite -------------------------------------

// sqlStore persists wallets in the wallets table.
type sqlStore struct {
	db *sql.DB
}

// NewSQLStore constructs a Store backed by the given database.
func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Load(ctx context.Context, owner string) (*Wallet, error) {
	var balance int
	var purchased, favorites string
	err := s.db.QueryRowContext(ctx,
		`SELECT balance, purchased, favorites FROM wallets WHERE owner_id=?`,
		owner,
	).Scan(&balance, &purchased, &favorites)
	if errors.Is(err, sql.ErrNoRows) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return FromSnapshot(Snapshot{
		Coins:     balance,
		Purchased: decodeIDs(purchased),
		Favorites: decodeIDs(favorites),
	}), nil
}

func (s *sqlStore) Save(ctx context.Context, owner string, w *Wallet) error {
	snap := w.Snapshot()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO wallets (owner_id, balance, purchased, favorites)
        VALUES (?,?,?,?)
        ON CONFLICT(owner_id) DO UPDATE SET
            balance=excluded.balance,
            purchased=excluded.purchased,
            favorites=excluded.favorites,
            updated_at=datetime('now')`,
		owner, snap.Coins, encodeIDs(snap.Purchased), encodeIDs(snap.Favorites),
	)
	return err
}

func (s *sqlStore) Delete(ctx context.Context, owner string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE owner_id=?`, owner)
	return err
}

// decodeIDs parses a serialized id array; malformed text degrades to empty.
func decodeIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeIDs(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// ------------------------------ memory -------------------------------------

// memStore is an in-memory Store for tests.
type memStore struct {
	mu      sync.Mutex
	wallets map[string]Snapshot
}

// NewMemStore constructs an in-memory Store. State is lost on restart.
func NewMemStore() Store {
	return &memStore{wallets: make(map[string]Snapshot)}
}

func (m *memStore) Load(ctx context.Context, owner string) (*Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.wallets[owner]; ok {
		return FromSnapshot(s), nil
	}
	return New(), nil
}

func (m *memStore) Save(ctx context.Context, owner string, w *Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[owner] = w.Snapshot()
	return nil
}

func (m *memStore) Delete(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wallets, owner)
	return nil
}
