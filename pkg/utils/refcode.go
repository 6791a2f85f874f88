package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReferenceCode builds a human-readable tracking code like
// REQ-20260115-K7M2. The prefix identifies the request kind (REQ for item
// requests, SVR for vehicle requests).
func NewReferenceCode(prefix string) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(refAlphabet))))
		if err != nil {
			// crypto/rand should never fail; fall back to a time-derived index
			n = big.NewInt(time.Now().UnixNano() % int64(len(refAlphabet)))
		}
		suffix[i] = refAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), string(suffix))
}
