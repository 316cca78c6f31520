package booking

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateCode builds a human readable code such as BK202506011234.
// Uniqueness is probabilistic and not enforced by storage.
func GenerateCode(now time.Time) string {
	return fmt.Sprintf("BK%s%04d", now.Format("20060102"), 1000+rand.IntN(9000))
}

func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d", now.UnixMilli())
}
