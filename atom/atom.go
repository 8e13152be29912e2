// Package atom implements the interned-name table described in spec.md §4.1:
// ASCII-folded tag/attribute names are canonicalized and identified by a small
// integer id, so downstream comparisons are id equality rather than string
// compares.
package atom

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	wellknown "golang.org/x/net/html/atom"
)

// ID is an opaque, per-Table atom identifier. Comparison is by value equality;
// ids from different Tables are not comparable to each other.
type ID uint32

// ErrOutOfIDs is returned by Intern when the id space is exhausted.
var ErrOutOfIDs = errors.New("atom: out of ids")

// ErrInvalidUTF8 is returned when interning raw bytes that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("atom: invalid utf-8")

var nextTableID uint64

// Table is a document-scoped atom table. The zero value is not usable; use New.
//
// Intern first checks golang.org/x/net/html/atom's precomputed table of
// well-known HTML tag/attribute names (the "all-lowercase fast path"): a name
// found there is already canonical, so it skips the uppercase scan and the
// folded copy. Every name, well-known or not, is assigned its id on its first
// Intern call and stored in the table's map; New assigns no ids.
type Table struct {
	id uint64

	mu     sync.Mutex
	names  []string      // id -> canonical name
	byName map[string]ID // canonical name -> id
}

// New creates an empty atom table bound to a fresh document-scoped id.
func New() *Table {
	return &Table{
		id:     atomic.AddUint64(&nextTableID, 1),
		byName: make(map[string]ID),
	}
}

// ID returns the stable per-instance identifier used to assert that a
// tokenizer and tree builder are bound to the same document (spec §4.1).
func (t *Table) ID() uint64 {
	return t.id
}

// Intern interns name, applying ASCII-lowercase folding for HTML-namespace
// matching (non-ASCII bytes are preserved as-is). Repeated calls with names
// that fold to the same canonical form return the same ID.
func (t *Table) Intern(name string) (ID, error) {
	// Fast path: name is already canonical ASCII-lowercase (the common case
	// for well-known HTML tag/attribute names looked up via
	// golang.org/x/net/html/atom, which only recognizes lowercase spellings).
	// Only names containing ASCII uppercase pay for a folded copy.
	folded := name
	if wellknown.Lookup([]byte(name)) == 0 && hasASCIIUpper(name) {
		folded = foldASCII(name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byName[folded]; ok {
		return id, nil
	}
	return t.allocateLocked(folded)
}

// InternUTF8Bytes interns a tag/attribute name from raw UTF-8 bytes, as the
// tokenizer does when a name has just been scanned out of the decoded input
// buffer. Returns ErrInvalidUTF8 if b is not valid UTF-8.
func (t *Table) InternUTF8Bytes(b []byte) (ID, error) {
	if !utf8.Valid(b) {
		return 0, ErrInvalidUTF8
	}
	return t.Intern(string(b))
}

func (t *Table) allocateLocked(folded string) (ID, error) {
	idx := len(t.names)
	if idx > int(^ID(0)) {
		return 0, ErrOutOfIDs
	}
	id := ID(idx)
	t.names = append(t.names, folded)
	t.byName[folded] = id
	return id, nil
}

// Resolve returns the canonical name for id, or ("", false) if id was never
// interned in this table.
func (t *Table) Resolve(id ID) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) < 0 || int(id) >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// ResolveString is like Resolve but returns "" instead of a second value;
// convenient for formatting/debug output where a missing id is already an
// engine bug reported elsewhere.
func (t *Table) ResolveString(id ID) string {
	s, _ := t.Resolve(id)
	return s
}

// MustIntern interns name and panics on error; it exists for call sites that
// intern fixed, known-good literal names (e.g. "html", "body") where failure
// can only mean a prior invariant violation.
func (t *Table) MustIntern(name string) ID {
	id, err := t.Intern(name)
	if err != nil {
		panic(fmt.Sprintf("atom: MustIntern(%q): %v", name, err))
	}
	return id
}

func hasASCIIUpper(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			return true
		}
	}
	return false
}

func foldASCII(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
