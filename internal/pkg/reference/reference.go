// Package reference generates unique, human-readable transaction references.
package reference

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	prefix       = "TXN"
	randomLength = 8
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// New returns a fresh reference of the form TXN-<base36 unix-milli>-<random>.
// The timestamp keeps references roughly sortable; the random suffix makes
// collisions within one millisecond vanishingly unlikely. The transactions
// table still carries a unique constraint as the hard guarantee.
func New() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	b := make([]byte, randomLength)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, strings.ToUpper(ts), strings.ToUpper(string(b)))
}
