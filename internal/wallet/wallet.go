// internal/wallet/wallet.go
//
// The wallet value: coin balance plus purchased and favorite item sets.
// This is the economy's single mutable record. Methods implement the
// mutation contract directly; persistence lives in store.go so tests can
// work with isolated in-memory wallets.
//
// Invariants:
//   - Balance never goes negative: Debit checks before mutating.
//   - Favorites is always a subset of Purchased; ToggleFavorite rejects ids
//     the wallet does not own.

package wallet

import "sort"

// Wallet holds one owner's balance and inventory.
type Wallet struct {
	Balance   int
	Purchased map[string]struct{}
	Favorites map[string]struct{}
}

// New returns an empty wallet (zero balance, nothing owned).
func New() *Wallet {
	return &Wallet{
		Purchased: make(map[string]struct{}),
		Favorites: make(map[string]struct{}),
	}
}

// Credit increases the balance by amount.
// Non-positive amounts are ignored.
func (w *Wallet) Credit(amount int) {
	if amount <= 0 {
		return
	}
	w.Balance += amount
}

// Debit decreases the balance by amount if funds suffice.
// Returns false (and mutates nothing) on insufficient funds or a
// non-positive amount.
func (w *Wallet) Debit(amount int) bool {
	if amount <= 0 || w.Balance < amount {
		return false
	}
	w.Balance -= amount
	return true
}

// RecordPurchase adds itemID to the purchased set.
// Returns whether the set changed: a re-purchase is a no-op reported as
// failure so callers can warn the user.
func (w *Wallet) RecordPurchase(itemID string) bool {
	if _, ok := w.Purchased[itemID]; ok {
		return false
	}
	w.Purchased[itemID] = struct{}{}
	return true
}

// Owns reports whether itemID has been purchased.
func (w *Wallet) Owns(itemID string) bool {
	_, ok := w.Purchased[itemID]
	return ok
}

// ToggleFavorite flips itemID's membership in the favorites set.
// Returns false without mutating if the item is not owned, keeping
// favorites ⊆ purchased.
func (w *Wallet) ToggleFavorite(itemID string) bool {
	if !w.Owns(itemID) {
		return false
	}
	if _, ok := w.Favorites[itemID]; ok {
		delete(w.Favorites, itemID)
	} else {
		w.Favorites[itemID] = struct{}{}
	}
	return true
}

// IsFavorite reports whether itemID is currently favorited.
func (w *Wallet) IsFavorite(itemID string) bool {
	_, ok := w.Favorites[itemID]
	return ok
}

// Snapshot is the wire/persistence form of a wallet.
type Snapshot struct {
	Coins     int      `json:"coins"`
	Purchased []string `json:"purchased"`
	Favorites []string `json:"favorites"`
}

// Snapshot returns a sorted, copy-safe view of the wallet.
func (w *Wallet) Snapshot() Snapshot {
	return Snapshot{
		Coins:     w.Balance,
		Purchased: sortedKeys(w.Purchased),
		Favorites: sortedKeys(w.Favorites),
	}
}

// FromSnapshot rebuilds a wallet, pruning favorites that are not purchased
// (tolerates snapshots written before the subset rule was enforced).
func FromSnapshot(s Snapshot) *Wallet {
	w := New()
	if s.Coins > 0 {
		w.Balance = s.Coins
	}
	for _, id := range s.Purchased {
		w.Purchased[id] = struct{}{}
	}
	for _, id := range s.Favorites {
		if w.Owns(id) {
			w.Favorites[id] = struct{}{}
		}
	}
	return w
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
