// Package forms implements the UI-agnostic form-control input state store
// of spec.md §4.7: per-input text/caret/selection/scroll state, seeded from
// the materialized DOM and mutated by input routing.
package forms

// SelectionRange is a normalized byte-offset range into an input's value.
type SelectionRange struct {
	Start, End int
}

// NewSelectionRange normalizes a, b into Start <= End.
func NewSelectionRange(a, b int) SelectionRange {
	if a > b {
		a, b = b, a
	}
	return SelectionRange{Start: a, End: b}
}

// IsEmpty reports a zero-width selection.
func (r SelectionRange) IsEmpty() bool { return r.Start == r.End }

// Len returns the selection length in bytes.
func (r SelectionRange) Len() int { return r.End - r.Start }

// Slice returns the selected substring of value.
func (r SelectionRange) Slice(value string) string { return value[r.Start:r.End] }
