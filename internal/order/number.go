package order

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber builds the customer-facing order label: an "ORD" prefix, a
// millisecond timestamp, and a 5-character random base36 suffix, uppercased.
// The timestamp component makes numbers time-ordered and collision-resistant
// without a uniqueness check.
func NewOrderNumber(now time.Time) string {
	var b strings.Builder
	b.WriteString("ORD")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	for i := 0; i < 5; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform's entropy source is
			// broken; fall back to the low bits of the clock.
			b.WriteByte(suffixAlphabet[time.Now().UnixNano()%int64(len(suffixAlphabet))])
			continue
		}
		b.WriteByte(suffixAlphabet[n.Int64()])
	}
	return b.String()
}
