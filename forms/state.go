package forms

import "github.com/jorisjansen/borrowser-core/dompatch"

// ID identifies one input element. Node identity in this engine is already
// the materialized DOM's PatchKey, so the input store keys directly off it
// rather than maintaining a parallel id space.
type ID = dompatch.PatchKey

// inputState is the per-input record of spec.md §4.7 ("InputState").
type inputState struct {
	value           string
	valueRev        uint64
	checked         bool
	caret           int
	selectionAnchor *int
	scrollX         float64
	scrollY         float64
}

func newInputState() inputState {
	return inputState{}
}
