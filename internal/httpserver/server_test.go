package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/periopal/arcade-server/internal/gen"
	"github.com/periopal/arcade-server/internal/timers"
	"github.com/periopal/arcade-server/internal/wallet"
	"github.com/periopal/arcade-server/internal/words"
)

const testSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);
CREATE TABLE wallets (
    owner_id   TEXT PRIMARY KEY,
    balance    INTEGER NOT NULL DEFAULT 0,
    purchased  TEXT NOT NULL DEFAULT '[]',
    favorites  TEXT NOT NULL DEFAULT '[]',
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE earnings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id   TEXT NOT NULL,
    game       TEXT NOT NULL,
    amount     INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE custom_items (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price       INTEGER NOT NULL,
    category    TEXT NOT NULL,
    preview     TEXT NOT NULL DEFAULT '',
    audio       TEXT
);`

type testEnv struct {
	srv    *Server
	ts     *httptest.Server
	client *http.Client
	sched  *timers.Manual
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if err := words.Init(); err != nil {
		t.Fatalf("words.Init: %v", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "arcade.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	sched := timers.NewManual()
	srv := New(db, wallet.NewSQLStore(db), gen.Disabled(), sched)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{srv: srv, ts: ts, client: &http.Client{Jar: jar}, sched: sched}
}

// post sends a JSON body and decodes the JSON response into out (if non-nil).
func (e *testEnv) post(t *testing.T, path string, body, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	res, err := e.client.Post(e.ts.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return res
}

func (e *testEnv) get(t *testing.T, path string, out any) *http.Response {
	t.Helper()
	res, err := e.client.Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return res
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	var body map[string]bool
	res := e.get(t, "/health", &body)
	if res.StatusCode != http.StatusOK || !body["ok"] {
		t.Fatalf("health = %d %v", res.StatusCode, body)
	}
}

func TestWordleWinSettlesIntoAnonWallet(t *testing.T) {
	e := newTestEnv(t)

	var started wordleNewRes
	e.post(t, "/game/wordle/new", nil, &started)
	if started.State != "playing" || started.Rows != 6 || started.Cols != 5 {
		t.Fatalf("new game = %+v", started)
	}

	// The generator is disabled, so the target came from the local list.
	g, err := e.srv.wordleGames.Get(started.GameID)
	if err != nil {
		t.Fatalf("session missing: %v", err)
	}

	var guessed wordleGuessRes
	e.post(t, "/game/wordle/guess", wordleGuessReq{GameID: started.GameID, Guess: g.Target}, &guessed)
	if guessed.State != "won" {
		t.Fatalf("state = %q, want won", guessed.State)
	}
	if guessed.Coins != 200 { // first-attempt win
		t.Fatalf("coins = %d, want 200", guessed.Coins)
	}

	// Session destroyed on settlement.
	if _, err := e.srv.wordleGames.Get(started.GameID); err == nil {
		t.Fatal("won session still live")
	}

	// The anon cookie wallet holds the reward.
	var snap wallet.Snapshot
	e.get(t, "/wallet", &snap)
	if snap.Coins != 200 {
		t.Fatalf("wallet coins = %d, want 200", snap.Coins)
	}

	// And the earning is in the history.
	var history []map[string]any
	e.get(t, "/wallet/history", &history)
	if len(history) != 1 || history[0]["game"] != "wordle" {
		t.Fatalf("history = %v", history)
	}
}

func TestWordleLossRevealsTarget(t *testing.T) {
	e := newTestEnv(t)

	var started wordleNewRes
	e.post(t, "/game/wordle/new", nil, &started)
	g, err := e.srv.wordleGames.Get(started.GameID)
	if err != nil {
		t.Fatal(err)
	}

	miss := "QQQQQ"
	if g.Target == miss {
		t.Fatal("unexpected target")
	}
	var last wordleGuessRes
	for i := 0; i < 6; i++ {
		e.post(t, "/game/wordle/guess", wordleGuessReq{GameID: started.GameID, Guess: miss}, &last)
	}
	if last.State != "lost" {
		t.Fatalf("state = %q, want lost", last.State)
	}
	if last.Target != g.Target {
		t.Fatalf("loss response target = %q, want %q", last.Target, g.Target)
	}
	if last.Coins != 10 {
		t.Fatalf("participation coins = %d, want 10", last.Coins)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	e := newTestEnv(t)
	res := e.post(t, "/game/wordle/guess", wordleGuessReq{GameID: "nope", Guess: "BREAD"}, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}

func TestSignupClaimsAnonWallet(t *testing.T) {
	e := newTestEnv(t)

	// Earn some coins as a guest first.
	var started wordleNewRes
	e.post(t, "/game/wordle/new", nil, &started)
	g, _ := e.srv.wordleGames.Get(started.GameID)
	e.post(t, "/game/wordle/guess", wordleGuessReq{GameID: started.GameID, Guess: g.Target}, nil)

	res := e.post(t, "/auth/signup", map[string]string{
		"username": "player_one",
		"password": "hunter2hunter2",
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", res.StatusCode)
	}

	// /auth/me works off the cookie.
	var me authUser
	if res := e.get(t, "/auth/me", &me); res.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", res.StatusCode)
	}
	if me.Username != "player_one" {
		t.Fatalf("me = %+v", me)
	}

	// The guest coins moved to the account wallet.
	var snap wallet.Snapshot
	e.get(t, "/wallet", &snap)
	if snap.Coins != 200 {
		t.Fatalf("account wallet coins = %d, want 200", snap.Coins)
	}
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv(t)
	res := e.post(t, "/auth/signup", map[string]string{"username": "ab", "password": "short"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}

	// Duplicate usernames conflict.
	ok := e.post(t, "/auth/signup", map[string]string{"username": "dupuser", "password": "longenough1"}, nil)
	if ok.StatusCode != http.StatusOK {
		t.Fatalf("first signup = %d", ok.StatusCode)
	}
	dup := e.post(t, "/auth/signup", map[string]string{"username": "DupUser", "password": "longenough1"}, nil)
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("dup signup = %d, want 409", dup.StatusCode)
	}
}

func TestShopPurchaseFlow(t *testing.T) {
	e := newTestEnv(t)

	var items []map[string]any
	e.get(t, "/shop/catalog", &items)
	if len(items) != 3 {
		t.Fatalf("catalog = %d items, want 3", len(items))
	}

	// Broke guest cannot buy.
	res := e.post(t, "/shop/purchase", map[string]string{"itemId": "photo-cartoon"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("broke purchase = %d, want 400", res.StatusCode)
	}

	// Win a game, then buy.
	var started wordleNewRes
	e.post(t, "/game/wordle/new", nil, &started)
	g, _ := e.srv.wordleGames.Get(started.GameID)
	e.post(t, "/game/wordle/guess", wordleGuessReq{GameID: started.GameID, Guess: g.Target}, nil)

	var snap wallet.Snapshot
	e.post(t, "/shop/purchase", map[string]string{"itemId": "photo-cartoon"}, &snap)
	if snap.Coins != 100 || len(snap.Purchased) != 1 {
		t.Fatalf("post-purchase snapshot = %+v", snap)
	}

	// Favorite it and read the collection back.
	e.post(t, "/shop/favorite", map[string]string{"itemId": "photo-cartoon"}, &snap)
	if len(snap.Favorites) != 1 {
		t.Fatalf("favorites = %v", snap.Favorites)
	}
	var coll []collectionItem
	e.get(t, "/shop/collection", &coll)
	if len(coll) != 1 || !coll[0].Favorite || coll[0].ID != "photo-cartoon" {
		t.Fatalf("collection = %+v", coll)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	e := newTestEnv(t)
	res := e.get(t, "/admin/items/", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}

	e.post(t, "/auth/signup", map[string]string{"username": "shopkeeper", "password": "longenough1"}, nil)
	res = e.get(t, "/admin/items/", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status after signup = %d, want 200", res.StatusCode)
	}
}

func TestGuessingFlowWithFallbackSecret(t *testing.T) {
	e := newTestEnv(t)

	var cats []string
	e.get(t, "/game/guessing/categories", &cats)
	if len(cats) != 4 {
		t.Fatalf("categories = %v", cats)
	}

	var started guessingStartRes
	e.post(t, "/game/guessing/start", guessingStartReq{Category: "food"}, &started)
	if started.QuestionsLeft != 10 || started.SessionID == "" {
		t.Fatalf("start = %+v", started)
	}

	// The generator is disabled: asks stall without spending the budget.
	var asked guessingAskRes
	e.post(t, "/game/guessing/ask", guessingAskReq{SessionID: started.SessionID, Question: "Is it sweet?"}, &asked)
	if asked.QuestionsLeft != 10 {
		t.Fatalf("stalled ask spent a question: %+v", asked)
	}

	// Guess every food fallback; exactly one is the secret, judged by the
	// exact-match fallback path. Wrong guesses keep the session alive.
	candidates := []string{"Pizza", "Chocolate", "Sushi", "Pancakes"}
	var won *guessingGuessRes
	for _, c := range candidates {
		var res guessingGuessRes
		e.post(t, "/game/guessing/guess", guessingGuessReq{SessionID: started.SessionID, Guess: c}, &res)
		if res.Correct {
			won = &res
			break
		}
	}
	if won == nil {
		t.Fatal("no fallback candidate won")
	}
	if won.State != "won" || won.Coins != 100 {
		t.Fatalf("win = %+v, want won at 100 coins", won)
	}

	// The won session is destroyed.
	res := e.post(t, "/game/guessing/ask", guessingAskReq{SessionID: started.SessionID, Question: "?"}, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("ask after win = %d, want 404", res.StatusCode)
	}

	var snap wallet.Snapshot
	e.get(t, "/wallet", &snap)
	if snap.Coins != 100 {
		t.Fatalf("wallet coins = %d, want 100", snap.Coins)
	}
}

func TestReactionFinishCommitsAccrued(t *testing.T) {
	e := newTestEnv(t)

	var snap map[string]any
	e.post(t, "/game/reaction/new", nil, &snap)
	id, _ := snap["id"].(string)
	if id == "" {
		t.Fatalf("new = %v", snap)
	}

	body := map[string]string{"gameId": id}
	e.post(t, "/game/reaction/arm", body, &snap)
	if snap["state"] != "waiting" {
		t.Fatalf("state after arm = %v", snap["state"])
	}

	// Early click: no reward, then finish with zero coins.
	e.post(t, "/game/reaction/click", body, &snap)
	if snap["state"] != "tooEarly" {
		t.Fatalf("state after early click = %v", snap["state"])
	}

	var fin reactionFinishRes
	e.post(t, "/game/reaction/finish", body, &fin)
	if fin.Coins != 0 || fin.Rounds != 0 {
		t.Fatalf("finish = %+v, want zero", fin)
	}

	// Finished sessions are gone.
	res := e.post(t, "/game/reaction/arm", body, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("arm after finish = %d, want 404", res.StatusCode)
	}
}

func TestMemoryNewHidesSymbols(t *testing.T) {
	e := newTestEnv(t)
	var snap struct {
		ID    string `json:"id"`
		Tiles []struct {
			Symbol string `json:"symbol"`
			State  string `json:"state"`
		} `json:"tiles"`
		State string `json:"state"`
	}
	e.post(t, "/game/memory/new", nil, &snap)
	if len(snap.Tiles) != 16 || snap.State != "playing" {
		t.Fatalf("new board = %+v", snap)
	}
	for i, tile := range snap.Tiles {
		if tile.Symbol != "" || tile.State != "hidden" {
			t.Fatalf("tile %d leaks: %+v", i, tile)
		}
	}
}
