package guessing

import (
	"crypto/rand"
	"math/big"
)

// randIndex returns a crypto-random index in [0, n).
func randIndex(n int) int {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}
