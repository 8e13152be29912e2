// Package docid mints identifiers for parse sessions. Atom tables and input
// buffers do not use these; they are bound by atom.Table's own numeric id.
package docid

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID, time-ordered so log correlation across a session's
// lifetime sorts naturally.
func New() ulid.ULID {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy)
}

// String mints a new id and returns its canonical string form.
func String() string {
	return New().String()
}
