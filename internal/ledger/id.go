package ledger

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	withdrawalPrefix = "WD"
	transferPrefix   = "TR"
)

// newLocalID returns a prefixed, time-ordered identifier for ledger operations
// that have no bank reference of their own.
func newLocalID(prefix string, now time.Time) string {
	return prefix + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}
