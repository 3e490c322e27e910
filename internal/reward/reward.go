// internal/reward/reward.go
//
// Reward settlement: the policy layer translating each game's terminal
// outcome into coins, and the Settler that credits the wallet and records
// the earning in the ledger.
//
// Tariffs (coins):
//   - Word game win:    75 + (6 − attempts) × 25   (attempt 1 → 200, attempt 6 → 75)
//   - Word game loss:   10 flat participation reward
//   - Memory match:     max(40, 80 − mistakes × 10)
//   - Reaction round:   <250ms → 15, <350ms → 12, <450ms → 8, else → 5
//   - Guessing win:     50 + remaining × 5
//   - Guessing loss:    0

package reward

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/periopal/arcade-server/internal/wallet"
)

const (
	wordleMaxAttempts   = 6
	wordleWinBase       = 75
	wordleAttemptBonus  = 25
	wordleLossReward    = 10
	memoryBase          = 80
	memoryMistakeCost   = 10
	memoryFloor         = 40
	guessWinBase        = 50
	guessQuestionBonus  = 5
)

// Wordle returns the payout for a finished word game.
func Wordle(attempts int, won bool) int {
	if !won {
		return wordleLossReward
	}
	if attempts < 1 {
		attempts = 1
	}
	if attempts > wordleMaxAttempts {
		attempts = wordleMaxAttempts
	}
	return wordleWinBase + (wordleMaxAttempts-attempts)*wordleAttemptBonus
}

// Memory returns the payout for a completed memory game.
// Monotonically non-increasing with mistakes, floored at 40.
func Memory(mistakes int) int {
	coins := memoryBase - mistakes*memoryMistakeCost
	if coins < memoryFloor {
		return memoryFloor
	}
	return coins
}

// Reaction returns the per-round payout for a reaction time in milliseconds.
func Reaction(ms int) int {
	switch {
	case ms < 250:
		return 15
	case ms < 350:
		return 12
	case ms < 450:
		return 8
	default:
		return 5
	}
}

// Guess returns the payout for a correct guess with r questions remaining.
func Guess(remaining int) int {
	if remaining < 0 {
		remaining = 0
	}
	return guessWinBase + remaining*guessQuestionBonus
}

// ---------------------------- settlement -----------------------------------

// Settler commits coin rewards to a wallet and appends earnings rows.
// The ledger insert is best effort; the wallet credit is not.
type Settler struct {
	Wallets wallet.Store
	DB      *sql.DB // nil disables the ledger (tests)
}

// Settle credits the owner's wallet with amount for game and persists the
// snapshot before returning. Zero or negative amounts settle nothing.
func (s *Settler) Settle(ctx context.Context, owner, game string, amount int) error {
	if amount <= 0 {
		return nil
	}
	w, err := s.Wallets.Load(ctx, owner)
	if err != nil {
		return err
	}
	w.Credit(amount)
	if err := s.Wallets.Save(ctx, owner, w); err != nil {
		return err
	}
	if s.DB != nil {
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := s.DB.ExecContext(ctx,
			`INSERT INTO earnings (owner_id, game, amount, created_at) VALUES (?,?,?,?)`,
			owner, game, amount, now,
		); err != nil {
			log.Warn().Err(err).Str("game", game).Msg("record earning")
		}
	}
	log.Info().Str("game", game).Int("coins", amount).Msg("reward settled")
	return nil
}

// Earning is one settled reward, newest first in History.
type Earning struct {
	Game      string `json:"game"`
	Amount    int    `json:"amount"`
	CreatedAt string `json:"createdAt"`
}

// History returns the owner's most recent earnings (up to limit, default 20).
func (s *Settler) History(ctx context.Context, owner string, limit int) ([]Earning, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.DB == nil {
		return []Earning{}, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
        SELECT game, amount, created_at
        FROM earnings
        WHERE owner_id=?
        ORDER BY id DESC
        LIMIT ?`, owner, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Earning{}
	for rows.Next() {
		var e Earning
		if err := rows.Scan(&e.Game, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
