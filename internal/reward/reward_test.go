package reward

import (
	"context"
	"testing"

	"github.com/periopal/arcade-server/internal/wallet"
)

func TestWordle(t *testing.T) {
	tests := []struct {
		attempts int
		won      bool
		want     int
	}{
		{1, true, 200},
		{2, true, 175},
		{3, true, 150},
		{6, true, 75},
		{0, true, 200},  // clamped to 1
		{9, true, 75},   // clamped to 6
		{3, false, 10},
		{6, false, 10},
	}
	for _, tt := range tests {
		if got := Wordle(tt.attempts, tt.won); got != tt.want {
			t.Errorf("Wordle(%d, %v) = %d, want %d", tt.attempts, tt.won, got, tt.want)
		}
	}
}

func TestMemory(t *testing.T) {
	tests := []struct {
		mistakes int
		want     int
	}{
		{0, 80},
		{1, 70},
		{4, 40},
		{5, 40},  // floor
		{20, 40}, // floor
	}
	for _, tt := range tests {
		if got := Memory(tt.mistakes); got != tt.want {
			t.Errorf("Memory(%d) = %d, want %d", tt.mistakes, got, tt.want)
		}
	}
}

func TestReaction(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{180, 15},
		{249, 15},
		{250, 12},
		{349, 12},
		{350, 8},
		{449, 8},
		{450, 5},
		{900, 5},
	}
	for _, tt := range tests {
		if got := Reaction(tt.ms); got != tt.want {
			t.Errorf("Reaction(%d) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestGuess(t *testing.T) {
	tests := []struct {
		remaining int
		want      int
	}{
		{0, 50},
		{3, 65},
		{9, 95},
		{-2, 50}, // clamped
	}
	for _, tt := range tests {
		if got := Guess(tt.remaining); got != tt.want {
			t.Errorf("Guess(%d) = %d, want %d", tt.remaining, got, tt.want)
		}
	}
}

func TestSettlerCreditsWallet(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()
	s := &Settler{Wallets: store}

	if err := s.Settle(ctx, "owner-1", "wordle", 150); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if err := s.Settle(ctx, "owner-1", "reaction", 15); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	w, err := store.Load(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Balance != 165 {
		t.Errorf("balance = %d, want 165", w.Balance)
	}
}

func TestSettlerIgnoresNonPositive(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()
	s := &Settler{Wallets: store}

	if err := s.Settle(ctx, "owner-1", "guessing", 0); err != nil {
		t.Fatalf("Settle(0): %v", err)
	}
	if err := s.Settle(ctx, "owner-1", "guessing", -5); err != nil {
		t.Fatalf("Settle(-5): %v", err)
	}
	w, _ := store.Load(ctx, "owner-1")
	if w.Balance != 0 {
		t.Errorf("balance = %d, want 0", w.Balance)
	}
}

func TestHistoryWithoutLedger(t *testing.T) {
	s := &Settler{Wallets: wallet.NewMemStore()}
	got, err := s.History(context.Background(), "owner-1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("History = %v, want empty", got)
	}
}
