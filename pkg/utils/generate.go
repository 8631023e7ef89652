package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderNumber returns a tracking number of the form
// ORD-<unix millis>-<9 random base36 chars>.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), randomString(9))
}

func randomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		b[i] = base36[idx.Int64()]
	}
	return string(b)
}
