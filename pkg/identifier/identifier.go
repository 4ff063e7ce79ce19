// Package identifier produces short human-readable IDs for clients and invoices.
package identifier

import (
	"fmt"
	"math/rand"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New returns an ID of the form "PREFIX-YYMMDD-XXXX" where XXXX is a random
// draw from the 36-symbol uppercase alphanumeric alphabet. Uniqueness is
// probabilistic; the stores' uniqueness constraints are the authoritative
// check.
func New(prefix string) string {
	return newAt(prefix, time.Now())
}

func newAt(prefix string, now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("060102"), suffix)
}
