// internal/shop/shop.go
//
// Shop catalog and purchase flow. The built-in catalog is static
// configuration; a custom-items table (maintained through the admin surface)
// is merged in additively, with built-in ids taking precedence. The economy
// only trusts id, price and category; the asset fields are passed through
// for the client.

package shop

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/periopal/arcade-server/internal/wallet"
)

// Category groups what a purchase unlocks.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVoice          = "voice"
	CategoryCombo          = "combo"
)

// Item is one catalog entry.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Category    Category `json:"category"`
	Preview     string   `json:"preview"`
	Audio       string   `json:"audio,omitempty"`
	Custom      bool     `json:"custom,omitempty"`
}

// builtin is the static catalog shipped with the app.
var builtin = []Item{
	{
		ID:          "photo-cartoon",
		Name:        "Cute Cartoon",
		Description: "A heartwarming photo just for you",
		Price:       100,
		Category:    CategoryImage,
		Preview:     "/assets/shop/photos/first-image.png",
	},
	{
		ID:          "voice-korean",
		Name:        "Korean Song",
		Description: "Soothing Korean melody to relax",
		Price:       300,
		Category:    CategoryVoice,
		Preview:     "/assets/shop/audio-preview.png",
		Audio:       "/assets/shop/audio/Korean-song.mp3",
	},
	{
		ID:          "bundle-zootopia",
		Name:        "Zootopia Bundle",
		Description: "Zootopia image + Try Everything song",
		Price:       350,
		Category:    CategoryCombo,
		Preview:     "/assets/shop/zootopia.jpg",
		Audio:       "/assets/shop/audio/tryeverything.mp3",
	},
}

// Purchase/favorite failure conditions. All are expected-path booleans at the
// API surface, not faults.
var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrAlreadyOwned      = errors.New("already owned")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotOwned          = errors.New("item not owned")
	ErrBadItem           = errors.New("invalid item")
)

// Catalog merges the built-in items with the custom-items table.
// A nil db serves the built-in catalog alone.
type Catalog struct {
	db *sql.DB
}

// NewCatalog constructs a catalog backed by the given database.
func NewCatalog(db *sql.DB) *Catalog { return &Catalog{db: db} }

// Items returns the merged catalog, built-in items first.
func (c *Catalog) Items(ctx context.Context) ([]Item, error) {
	out := make([]Item, len(builtin))
	copy(out, builtin)
	custom, err := c.customItems(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(out))
	for _, it := range out {
		seen[it.ID] = struct{}{}
	}
	for _, it := range custom {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Find looks an item up by id across both sources.
func (c *Catalog) Find(ctx context.Context, id string) (Item, bool, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return Item{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}

func (c *Catalog) customItems(ctx context.Context) ([]Item, error) {
	if c.db == nil {
		return nil, nil
	}
	rows, err := c.db.QueryContext(ctx, `
        SELECT id, name, description, price, category, preview, COALESCE(audio,'')
        FROM custom_items ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var cat string
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &cat, &it.Preview, &it.Audio); err != nil {
			return nil, err
		}
		it.Category = Category(cat)
		it.Custom = true
		out = append(out, it)
	}
	return out, rows.Err()
}

// SaveCustom inserts or replaces a custom item.
func (c *Catalog) SaveCustom(ctx context.Context, it Item) error {
	it.ID = strings.TrimSpace(it.ID)
	if it.ID == "" || it.Name == "" || it.Price <= 0 {
		return ErrBadItem
	}
	switch it.Category {
	case CategoryImage, CategoryVoice, CategoryCombo:
	default:
		return ErrBadItem
	}
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO custom_items (id, name, description, price, category, preview, audio)
        VALUES (?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
            name=excluded.name, description=excluded.description,
            price=excluded.price, category=excluded.category,
            preview=excluded.preview, audio=excluded.audio`,
		it.ID, it.Name, it.Description, it.Price, string(it.Category), it.Preview, it.Audio,
	)
	return err
}

// DeleteCustom removes a custom item by id.
func (c *Catalog) DeleteCustom(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM custom_items WHERE id=?`, id)
	return err
}

// Purchase debits the item's price and records ownership in one synchronous
// wallet snapshot write. Returns the updated snapshot, or one of
// ErrUnknownItem / ErrAlreadyOwned / ErrInsufficientFunds with the wallet
// untouched.
func Purchase(ctx context.Context, wallets wallet.Store, c *Catalog, owner, itemID string) (wallet.Snapshot, error) {
	item, found, err := c.Find(ctx, itemID)
	if err != nil {
		return wallet.Snapshot{}, err
	}
	if !found {
		return wallet.Snapshot{}, ErrUnknownItem
	}
	w, err := wallets.Load(ctx, owner)
	if err != nil {
		return wallet.Snapshot{}, err
	}
	if w.Owns(item.ID) {
		return w.Snapshot(), ErrAlreadyOwned
	}
	if !w.Debit(item.Price) {
		return w.Snapshot(), ErrInsufficientFunds
	}
	w.RecordPurchase(item.ID)
	if err := wallets.Save(ctx, owner, w); err != nil {
		return wallet.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// ToggleFavorite flips an owned item's favorite flag and persists the
// snapshot. Returns ErrNotOwned for items outside the purchased set.
func ToggleFavorite(ctx context.Context, wallets wallet.Store, owner, itemID string) (wallet.Snapshot, error) {
	w, err := wallets.Load(ctx, owner)
	if err != nil {
		return wallet.Snapshot{}, err
	}
	if !w.ToggleFavorite(itemID) {
		return w.Snapshot(), ErrNotOwned
	}
	if err := wallets.Save(ctx, owner, w); err != nil {
		return wallet.Snapshot{}, err
	}
	return w.Snapshot(), nil
}
