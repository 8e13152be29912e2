package forms

// ValueStore is the central store of input values, carets, and selections
// (spec.md §4.7). It is UI-agnostic: it knows nothing about layout or paint,
// only byte-offset editing semantics over UTF-8 strings.
type ValueStore struct {
	entries map[ID]*inputState
}

// NewValueStore returns an empty store.
func NewValueStore() *ValueStore {
	return &ValueStore{entries: make(map[ID]*inputState)}
}

// Has reports whether id already has an entry.
func (s *ValueStore) Has(id ID) bool {
	_, ok := s.entries[id]
	return ok
}

func (s *ValueStore) entry(id ID) *inputState {
	st, ok := s.entries[id]
	if !ok {
		v := newInputState()
		st = &v
		s.entries[id] = st
	}
	return st
}

// EnsureInitial inserts an empty-or-seeded text entry if id is missing; a
// no-op if id is already present (seeding must never clobber live state).
func (s *ValueStore) EnsureInitial(id ID, initial string) {
	if s.Has(id) {
		return
	}
	st := s.entry(id)
	st.value = initial
	st.caret = len(initial)
}

// EnsureInitialChecked inserts a checkbox/radio entry if id is missing.
func (s *ValueStore) EnsureInitialChecked(id ID, initialChecked bool) {
	if s.Has(id) {
		return
	}
	s.entry(id).checked = initialChecked
}

// Focus clamps caret/selection to valid boundaries on focus gain.
func (s *ValueStore) Focus(id ID) { s.clampCaret(id) }

// Blur clamps caret/selection to valid boundaries on focus loss.
func (s *ValueStore) Blur(id ID) { s.clampCaret(id) }

func (s *ValueStore) clampCaret(id ID) {
	st, ok := s.entries[id]
	if !ok {
		return
	}
	st.caret = ClampToCharBoundary(st.value, st.caret)
	if st.selectionAnchor != nil {
		a := ClampToCharBoundary(st.value, *st.selectionAnchor)
		st.selectionAnchor = &a
	}
}

// replaceSelectionOrInsert is the shared body of InsertText/InsertTextMultiline:
// replace the active selection (if any) with s, else insert s at the caret.
func (s *ValueStore) replaceSelectionOrInsert(id ID, text string) {
	st := s.entry(id)
	start, end := st.caret, st.caret
	if st.selectionAnchor != nil {
		sel := NewSelectionRange(*st.selectionAnchor, st.caret)
		start, end = sel.Start, sel.End
	}
	st.value = st.value[:start] + text + st.value[end:]
	st.caret = start + len(text)
	st.selectionAnchor = nil
	st.valueRev++
}

// InsertText inserts s at the caret (single-line mode: newlines stripped).
func (s *ValueStore) InsertText(id ID, text string) {
	s.replaceSelectionOrInsert(id, FilterSingleLine(text))
}

// InsertTextMultiline inserts s at the caret (multi-line mode: newlines
// normalized to LF).
func (s *ValueStore) InsertTextMultiline(id ID, text string) {
	s.replaceSelectionOrInsert(id, NormalizeNewlines(text))
}

// Backspace deletes the character before the caret, or the selection if any.
func (s *ValueStore) Backspace(id ID) {
	st := s.entry(id)
	if st.selectionAnchor != nil {
		s.deleteSelection(id)
		return
	}
	if st.caret == 0 {
		return
	}
	start := PrevCursorBoundary(st.value, st.caret)
	st.value = st.value[:start] + st.value[st.caret:]
	st.caret = start
	st.valueRev++
}

// Delete deletes the character after the caret, or the selection if any.
func (s *ValueStore) Delete(id ID) {
	st := s.entry(id)
	if st.selectionAnchor != nil {
		s.deleteSelection(id)
		return
	}
	if st.caret >= len(st.value) {
		return
	}
	end := NextCursorBoundary(st.value, st.caret)
	st.value = st.value[:st.caret] + st.value[end:]
	st.valueRev++
}

func (s *ValueStore) deleteSelection(id ID) {
	st := s.entry(id)
	sel := NewSelectionRange(*st.selectionAnchor, st.caret)
	st.value = st.value[:sel.Start] + st.value[sel.End:]
	st.caret = sel.Start
	st.selectionAnchor = nil
	st.valueRev++
}

// MoveCaretLeft moves the caret left one character; extends selection if
// selecting is true.
func (s *ValueStore) MoveCaretLeft(id ID, selecting bool) {
	st := s.entry(id)
	s.setCaret(id, PrevCursorBoundary(st.value, st.caret), selecting)
}

// MoveCaretRight moves the caret right one character; extends selection if
// selecting is true.
func (s *ValueStore) MoveCaretRight(id ID, selecting bool) {
	st := s.entry(id)
	s.setCaret(id, NextCursorBoundary(st.value, st.caret), selecting)
}

// MoveCaretToStart moves the caret to byte 0.
func (s *ValueStore) MoveCaretToStart(id ID, selecting bool) {
	s.setCaret(id, 0, selecting)
}

// MoveCaretToEnd moves the caret to the end of the value.
func (s *ValueStore) MoveCaretToEnd(id ID, selecting bool) {
	st := s.entry(id)
	s.setCaret(id, len(st.value), selecting)
}

// SelectAll selects the entire value.
func (s *ValueStore) SelectAll(id ID) {
	st := s.entry(id)
	zero := 0
	st.selectionAnchor = &zero
	st.caret = len(st.value)
}

func (s *ValueStore) setCaret(id ID, caret int, selecting bool) {
	st := s.entry(id)
	caret = ClampToCharBoundary(st.value, caret)
	if selecting {
		if st.selectionAnchor == nil {
			anchor := st.caret
			st.selectionAnchor = &anchor
		}
	} else {
		st.selectionAnchor = nil
	}
	st.caret = caret
}

// SetCaret sets the caret to an explicit byte position.
func (s *ValueStore) SetCaret(id ID, caret int, selecting bool) {
	s.setCaret(id, caret, selecting)
}

// SetCaretFromViewportX resolves x (in pixels, relative to the input's
// viewport) to the nearest caret boundary using measurePrefix, and applies
// it. Returns the resolved byte offset.
func (s *ValueStore) SetCaretFromViewportX(id ID, x float64, selecting bool, measurePrefix func(string) float64) int {
	st := s.entry(id)
	boundaries := RebuildCursorBoundaries(st.value)
	caret := CaretFromX(st.value, boundaries, 0, x, measurePrefix)
	s.setCaret(id, caret, selecting)
	return caret
}

// Get returns the stored value, if any.
func (s *ValueStore) Get(id ID) (string, bool) {
	st, ok := s.entries[id]
	if !ok {
		return "", false
	}
	return st.value, true
}

// State is the full read-only state tuple for one input.
type State struct {
	Value     string
	Caret     int
	Selection *SelectionRange
	ScrollX   float64
	ScrollY   float64
}

// GetState returns the full state tuple for id, if present.
func (s *ValueStore) GetState(id ID) (State, bool) {
	st, ok := s.entries[id]
	if !ok {
		return State{}, false
	}
	out := State{Value: st.value, Caret: st.caret, ScrollX: st.scrollX, ScrollY: st.scrollY}
	if st.selectionAnchor != nil {
		sel := NewSelectionRange(*st.selectionAnchor, st.caret)
		out.Selection = &sel
	}
	return out, true
}

// ValueRevision returns the monotonic change counter for id's value.
func (s *ValueStore) ValueRevision(id ID) uint64 {
	st, ok := s.entries[id]
	if !ok {
		return 0
	}
	return st.valueRev
}

// IsChecked reports the checked state for id.
func (s *ValueStore) IsChecked(id ID) bool {
	st, ok := s.entries[id]
	return ok && st.checked
}

// ToggleChecked flips the checked state; returns whether it changed (always
// true, kept for interface symmetry with SetChecked).
func (s *ValueStore) ToggleChecked(id ID) bool {
	st := s.entry(id)
	st.checked = !st.checked
	return true
}

// SetChecked sets the checked state; returns whether it changed.
func (s *ValueStore) SetChecked(id ID, checked bool) bool {
	st := s.entry(id)
	if st.checked == checked {
		return false
	}
	st.checked = checked
	return true
}

// UpdateScrollForCaret adjusts horizontal scroll to keep the caret visible
// given the caret's pixel offset, total text width, and available width.
func (s *ValueStore) UpdateScrollForCaret(id ID, caretPx, textW, availableW float64) {
	st := s.entry(id)
	st.scrollX = clampScroll(st.scrollX, caretPx, textW, availableW)
}

// UpdateScrollForCaretY adjusts vertical scroll to keep the caret's line
// visible, given its y offset, line height, total text height, and available
// viewport height.
func (s *ValueStore) UpdateScrollForCaretY(id ID, caretY, caretH, textH, availableH float64) {
	st := s.entry(id)
	st.scrollY = clampScroll(st.scrollY, caretY+caretH, textH, availableH)
	if caretY < st.scrollY {
		st.scrollY = caretY
	}
}

func clampScroll(scroll, caretEdge, contentSize, availableSize float64) float64 {
	if caretEdge-scroll > availableSize {
		scroll = caretEdge - availableSize
	}
	if caretEdge < scroll {
		scroll = caretEdge
	}
	if scroll < 0 {
		scroll = 0
	}
	if max := contentSize - availableSize; max > 0 && scroll > max {
		scroll = max
	} else if max <= 0 {
		scroll = 0
	}
	return scroll
}
