// internal/words/words.go
//
// Local word list backing the word-guessing game.
//
// Responsibilities:
//   - Load the fallback list from an environment-provided file or fall back
//     to the embedded default.
//   - Supply Random() for silent generator-failure fallback and Valid() for
//     guess/target validation.
//
// The generator (internal/gen) is the preferred source of targets; this list
// is the deterministic local fallback required for every generation call.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt   (one word per line)
//
// Constraints:
//   • Words must be 5 alphabetic letters.
//   • Lists are normalized to uppercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"
)

//go:embed fallback.txt
var embeddedFallback string

var (
	initOnce   sync.Once
	list       []string
	initialErr error
)

// Init loads the word list exactly once.
// Returns an error if the resulting list is empty.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			var err error
			list, err = readWordFile(path)
			if err != nil {
				initialErr = err
				return
			}
		} else {
			list = normalizeLines(embeddedFallback)
		}
		if len(list) == 0 {
			initialErr = errors.New("words: list is empty")
		}
	})
	return initialErr
}

// readWordFile loads one word per line from a file,
// uppercases, trims, and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalize(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalizeLines processes an embedded multiline string
// into a slice of valid uppercase 5-letter words.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := normalize(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// normalize returns the uppercased word, or "" if it is not a valid target.
func normalize(s string) string {
	w := strings.ToUpper(strings.TrimSpace(s))
	if Valid(w) {
		return w
	}
	return ""
}

// Valid reports whether w is exactly 5 uppercase ASCII letters.
func Valid(w string) bool {
	if len(w) != 5 {
		return false
	}
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Random returns a cryptographically random word from the list.
// If the list is not loaded yet or empty, falls back to "BREAD".
func Random() string {
	if len(list) == 0 {
		return "BREAD"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[nBig.Int64()]
}

// Count returns the number of loaded words.
func Count() int { return len(list) }
