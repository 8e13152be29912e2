package html5

import (
	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/input"
)

// state is the tokenizer's position within the (reduced) HTML5 tokenization
// state machine of spec.md §4.3.
type state int

const (
	stData state = iota
	stTagOpen
	stEndTagOpen
	stTagName
	stBeforeAttrName
	stAttrName
	stAfterAttrName
	stBeforeAttrValue
	stAttrValueDQ
	stAttrValueSQ
	stAttrValueUnquoted
	stAfterAttrValueQuoted
	stSelfClosingStartTag
	stBogusComment
	stMarkupDeclOpen
	stCommentStart
	stComment
	stDoctype
	stBeforeDoctypeName
	stDoctypeName
	stAfterDoctypeName
	stBogusDoctype
	stRawText
)

// Progress reports what a tokenizer Push/Finish call accomplished.
type Progress int

const (
	// Advanced indicates the tokenizer consumed input or changed state; any
	// tokens completed along the way were appended to Tokenizer.Tokens.
	Advanced Progress = iota
	// NeedMoreInput indicates the tokenizer consumed nothing further and is
	// waiting on more decoded bytes (not returned once Finish has been
	// called).
	NeedMoreInput
	// Done indicates the EOF token has been emitted; no further progress is
	// possible.
	Done
)

// buildingAttr accumulates the current attribute while scanning a tag; it is
// cleared into Token.Attrs once the attribute's value (or its absence) is
// settled.
type buildingAttr struct {
	nameStart int
	nameEnd   int
	valStart  int
	valEnd    int
	hasValue  bool
}

// Tokenizer is a streaming, resumable HTML5 tokenizer bound to one
// input.Buffer. It never rewinds past content it has already committed to an
// emitted token, which keeps total work linear in the number of decoded bytes
// even under adversarial chunking (spec.md §8, property 10).
type Tokenizer struct {
	atoms    *atom.Table
	bufferID uint64

	state state

	// cursor is the commit point: bytes before it have already been folded
	// into an emitted token (or a token still pending flush, e.g. a growing
	// text run). It only ever moves forward.
	cursor int

	// scanPos is an incremental high-water mark used by long scans (Data,
	// RawText, Comment) so that repeated Push calls never re-examine bytes
	// already known not to contain what the scan is looking for.
	scanPos int

	finished bool
	eofSent  bool

	// current tag under construction
	tagStart     int // offset of the opening '<'
	tagIsEnd     bool
	tagNameStart int
	tagNameEnd   int
	tagAttrs     []buildingAttr
	curAttr      buildingAttr
	selfClosing  bool

	// raw-text mode bookkeeping
	rawTextEndAtom atom.ID
	rawTextStart   int

	// comment/doctype text bookkeeping
	textStart int

	doctypeNameStart int
	doctypeNameEnd   int
	forceQuirks      bool

	Tokens []Token
}

// NewTokenizer returns a Tokenizer bound to buf's id and to the given atom
// table (shared with the tree builder, per spec.md §4.1).
func NewTokenizer(atoms *atom.Table, bufferID uint64) *Tokenizer {
	return &Tokenizer{atoms: atoms, bufferID: bufferID, state: stData}
}

// Push attempts to tokenize as much of buf's content (from the last commit
// point onward) as is currently decidable, appending completed tokens to
// Tokens. buf must be the same buffer (by id) across the Tokenizer's
// lifetime.
func (tz *Tokenizer) Push(buf *input.Buffer) Progress {
	if tz.eofSent {
		return Done
	}
	return tz.run(buf, false)
}

// Finish signals that no further bytes will ever arrive. Any pending
// construct is resolved using the rules in spec.md §4.3 (unterminated
// comments flush their accumulated text; a dangling tag is emitted as text),
// and a trailing EOFToken is appended exactly once.
func (tz *Tokenizer) Finish(buf *input.Buffer) {
	tz.finished = true
	tz.run(buf, true)
	if !tz.eofSent {
		tz.Tokens = append(tz.Tokens, Token{Type: EOFToken})
		tz.eofSent = true
	}
}

func (tz *Tokenizer) run(buf *input.Buffer, finishing bool) Progress {
	data := buf.Bytes()
	progressed := false
	for {
		ok, needMore := tz.step(data, finishing)
		if ok {
			progressed = true
			continue
		}
		if needMore && !finishing {
			if progressed {
				return Advanced
			}
			return NeedMoreInput
		}
		break
	}
	if progressed {
		return Advanced
	}
	if tz.eofSent {
		return Done
	}
	return NeedMoreInput
}

// step attempts a single state transition. It returns (true, false) if it
// made progress, (false, true) if it is blocked on more input, and (false,
// false) if it is at EOF (the caller, in finishing mode, has already forced
// truncated constructs to resolve by this point — so (false,false) only
// happens at true end-of-document with no pending work).
func (tz *Tokenizer) step(data []byte, finishing bool) (advanced bool, needMore bool) {
	switch tz.state {
	case stData:
		return tz.stepData(data, finishing)
	case stTagOpen:
		return tz.stepTagOpen(data, finishing)
	case stEndTagOpen:
		return tz.stepEndTagOpen(data, finishing)
	case stTagName:
		return tz.stepTagName(data, finishing)
	case stBeforeAttrName:
		return tz.stepBeforeAttrName(data, finishing)
	case stAttrName:
		return tz.stepAttrName(data, finishing)
	case stAfterAttrName:
		return tz.stepAfterAttrName(data, finishing)
	case stBeforeAttrValue:
		return tz.stepBeforeAttrValue(data, finishing)
	case stAttrValueDQ:
		return tz.stepAttrValueQuoted(data, finishing, '"')
	case stAttrValueSQ:
		return tz.stepAttrValueQuoted(data, finishing, '\'')
	case stAttrValueUnquoted:
		return tz.stepAttrValueUnquoted(data, finishing)
	case stAfterAttrValueQuoted:
		return tz.stepAfterAttrValueQuoted(data, finishing)
	case stSelfClosingStartTag:
		return tz.stepSelfClosingStartTag(data, finishing)
	case stMarkupDeclOpen:
		return tz.stepMarkupDeclOpen(data, finishing)
	case stBogusComment:
		return tz.stepBogusComment(data, finishing)
	case stCommentStart:
		return tz.stepCommentStart(data, finishing)
	case stComment:
		return tz.stepComment(data, finishing)
	case stDoctype:
		return tz.stepDoctype(data, finishing)
	case stBeforeDoctypeName:
		return tz.stepBeforeDoctypeName(data, finishing)
	case stDoctypeName:
		return tz.stepDoctypeName(data, finishing)
	case stAfterDoctypeName:
		return tz.stepAfterDoctypeName(data, finishing)
	case stBogusDoctype:
		return tz.stepBogusDoctype(data, finishing)
	case stRawText:
		return tz.stepRawText(data, finishing)
	}
	return false, false
}

// --- Data state: scan forward for the next '<' ---

func (tz *Tokenizer) stepData(data []byte, finishing bool) (bool, bool) {
	if tz.scanPos < tz.cursor {
		tz.scanPos = tz.cursor
	}
	for tz.scanPos < len(data) {
		if data[tz.scanPos] == '<' {
			tz.emitTextIfAny(data, tz.cursor, tz.scanPos)
			tz.cursor = tz.scanPos
			tz.state = stTagOpen
			return true, false
		}
		tz.scanPos++
	}
	// Reached end of available data without finding '<'.
	if finishing {
		tz.emitTextIfAny(data, tz.cursor, len(data))
		tz.cursor = len(data)
		return false, false
	}
	return false, true
}

func (tz *Tokenizer) emitTextIfAny(data []byte, start, end int) {
	if end <= start {
		return
	}
	decoded := decodeCharacterReferences(string(data[start:end]))
	tz.Tokens = append(tz.Tokens, Token{Type: TextToken, Text: OwnedText(decoded)})
}

// --- TagOpen: just consumed '<' ---

func (tz *Tokenizer) stepTagOpen(data []byte, finishing bool) (bool, bool) {
	tz.tagStart = tz.cursor
	pos := tz.cursor + 1
	if pos >= len(data) {
		if finishing {
			tz.emitTextIfAny(data, tz.cursor, len(data))
			tz.cursor = len(data)
			return false, false
		}
		return false, true
	}
	c := data[pos]
	switch {
	case c == '!':
		tz.cursor = pos + 1
		tz.state = stMarkupDeclOpen
		return true, false
	case c == '/':
		tz.cursor = pos + 1
		tz.state = stEndTagOpen
		return true, false
	case isASCIIAlpha(c):
		tz.tagIsEnd = false
		tz.tagNameStart = pos
		tz.tagAttrs = tz.tagAttrs[:0]
		tz.selfClosing = false
		tz.state = stTagName
		return true, false
	case c == '?':
		// Bogus comment (processing-instruction-like markup); spec.md §4.3
		// does not require faithful handling of XML PIs.
		tz.textStart = pos
		tz.state = stBogusComment
		return true, false
	default:
		// Not a valid tag start: the '<' is literal text.
		tz.Tokens = append(tz.Tokens, Token{Type: TextToken, Text: OwnedText("<")})
		tz.cursor = pos
		tz.state = stData
		tz.scanPos = pos
		return true, false
	}
}

func (tz *Tokenizer) stepEndTagOpen(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	if pos >= len(data) {
		if finishing {
			return false, false
		}
		return false, true
	}
	c := data[pos]
	if isASCIIAlpha(c) {
		tz.tagIsEnd = true
		tz.tagNameStart = pos
		tz.tagAttrs = tz.tagAttrs[:0]
		tz.selfClosing = false
		tz.state = stTagName
		return true, false
	}
	if c == '>' {
		// "</>" : parse error, no token; just skip it.
		tz.cursor = pos + 1
		tz.state = stData
		tz.scanPos = tz.cursor
		return true, false
	}
	// Anything else: bogus comment.
	tz.textStart = pos
	tz.state = stBogusComment
	return true, false
}

func findTagNameEnd(data []byte, from int) (end int, found bool) {
	for i := from; i < len(data); i++ {
		c := data[i]
		if isWhitespace(c) || c == '/' || c == '>' {
			return i, true
		}
	}
	return len(data), false
}

func (tz *Tokenizer) stepTagName(data []byte, finishing bool) (bool, bool) {
	end, found := findTagNameEnd(data, tz.tagNameStart)
	if !found {
		if finishing {
			end = len(data)
		} else {
			return false, true
		}
	}
	tz.tagNameEnd = end
	tz.cursor = end
	tz.state = stBeforeAttrName
	return true, false
}

func (tz *Tokenizer) stepBeforeAttrName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	tz.cursor = pos
	if pos >= len(data) {
		if finishing {
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	c := data[pos]
	switch {
	case c == '/' || c == '>':
		tz.state = stAfterAttrName
		return true, false
	default:
		tz.curAttr = buildingAttr{nameStart: pos}
		tz.state = stAttrName
		return true, false
	}
}

func (tz *Tokenizer) stepAttrName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) {
		c := data[pos]
		if isWhitespace(c) || c == '/' || c == '>' || c == '=' {
			break
		}
		pos++
	}
	if pos >= len(data) && !finishing {
		return false, true
	}
	tz.curAttr.nameEnd = pos
	tz.cursor = pos
	tz.state = stAfterAttrName
	return true, false
}

func (tz *Tokenizer) stepAfterAttrName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	tz.cursor = pos
	if pos >= len(data) {
		if finishing {
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	c := data[pos]
	switch c {
	case '=':
		tz.cursor = pos + 1
		tz.state = stBeforeAttrValue
		return true, false
	case '/':
		tz.commitPendingAttr()
		tz.cursor = pos
		tz.state = stSelfClosingStartTag
		return true, false
	case '>':
		tz.commitPendingAttr()
		tz.cursor = pos + 1
		tz.emitTag(data)
		return true, false
	default:
		tz.commitPendingAttr()
		tz.curAttr = buildingAttr{nameStart: pos}
		tz.state = stAttrName
		return true, false
	}
}

// commitPendingAttr flushes tz.curAttr (name only, no value) into tagAttrs if
// it names a real attribute (nameEnd was set by stepAttrName).
func (tz *Tokenizer) commitPendingAttr() {
	if tz.curAttr.nameEnd > tz.curAttr.nameStart {
		tz.tagAttrs = append(tz.tagAttrs, tz.curAttr)
	}
	tz.curAttr = buildingAttr{}
}

func (tz *Tokenizer) stepBeforeAttrValue(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	tz.cursor = pos
	if pos >= len(data) {
		if finishing {
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	c := data[pos]
	switch c {
	case '"':
		tz.curAttr.valStart = pos + 1
		tz.cursor = pos + 1
		tz.state = stAttrValueDQ
		return true, false
	case '\'':
		tz.curAttr.valStart = pos + 1
		tz.cursor = pos + 1
		tz.state = stAttrValueSQ
		return true, false
	default:
		tz.curAttr.valStart = pos
		tz.state = stAttrValueUnquoted
		return true, false
	}
}

func (tz *Tokenizer) stepAttrValueQuoted(data []byte, finishing bool, quote byte) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && data[pos] != quote {
		pos++
	}
	if pos >= len(data) {
		if finishing {
			tz.curAttr.valEnd = pos
			tz.curAttr.hasValue = true
			tz.tagAttrs = append(tz.tagAttrs, tz.curAttr)
			tz.curAttr = buildingAttr{}
			tz.cursor = pos
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	tz.curAttr.valEnd = pos
	tz.curAttr.hasValue = true
	tz.tagAttrs = append(tz.tagAttrs, tz.curAttr)
	tz.curAttr = buildingAttr{}
	tz.cursor = pos + 1
	tz.state = stAfterAttrValueQuoted
	return true, false
}

func (tz *Tokenizer) stepAttrValueUnquoted(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) {
		c := data[pos]
		if isWhitespace(c) || c == '>' {
			break
		}
		pos++
	}
	if pos >= len(data) && !finishing {
		return false, true
	}
	tz.curAttr.valEnd = pos
	tz.curAttr.hasValue = true
	tz.tagAttrs = append(tz.tagAttrs, tz.curAttr)
	tz.curAttr = buildingAttr{}
	tz.cursor = pos
	tz.state = stBeforeAttrName
	return true, false
}

func (tz *Tokenizer) stepAfterAttrValueQuoted(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	if pos >= len(data) {
		if finishing {
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	c := data[pos]
	if isWhitespace(c) {
		tz.state = stBeforeAttrName
		tz.cursor = pos
		return true, false
	}
	if c == '/' {
		tz.cursor = pos
		tz.state = stSelfClosingStartTag
		return true, false
	}
	if c == '>' {
		tz.cursor = pos + 1
		tz.emitTag(data)
		return true, false
	}
	// Missing whitespace between attributes: treat as a new attribute start.
	tz.state = stBeforeAttrName
	return true, false
}

func (tz *Tokenizer) stepSelfClosingStartTag(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	if pos >= len(data) {
		if finishing {
			return tz.finishTagAbrupt(data)
		}
		return false, true
	}
	if data[pos] == '>' {
		tz.selfClosing = true
		tz.cursor = pos + 1
		tz.emitTag(data)
		return true, false
	}
	// '/' without a following '>': ignore and resume attribute scanning.
	tz.state = stBeforeAttrName
	return true, false
}

// finishTagAbrupt handles end-of-input while a tag is still open: per
// spec.md §4.3 fallback rules, the unterminated construct is emitted as
// literal text rather than silently dropped.
func (tz *Tokenizer) finishTagAbrupt(data []byte) (bool, bool) {
	if len(data) > tz.tagStart {
		tz.Tokens = append(tz.Tokens, Token{Type: TextToken, Text: OwnedText(string(data[tz.tagStart:]))})
	}
	tz.cursor = len(data)
	return false, false
}

func (tz *Tokenizer) emitTag(data []byte) {
	name := string(data[tz.tagNameStart:tz.tagNameEnd])
	id, _ := tz.atoms.Intern(name)
	canon := tz.atoms.ResolveString(id) // ASCII-folded, for the void/raw-text sets

	tok := Token{
		Name:        id,
		SelfClosing: tz.selfClosing,
	}
	if tz.tagIsEnd {
		tok.Type = EndTagToken
	} else {
		tok.Type = StartTagToken
		if voidElements[canon] {
			tok.SelfClosing = true
		}
	}

	if len(tz.tagAttrs) > 0 {
		seen := make(map[atom.ID]bool, len(tz.tagAttrs))
		attrs := make([]Attribute, 0, len(tz.tagAttrs))
		for _, ba := range tz.tagAttrs {
			aname := string(data[ba.nameStart:ba.nameEnd])
			aid, _ := tz.atoms.Intern(aname)
			if seen[aid] {
				// Duplicate attribute: first occurrence wins (spec.md §9).
				continue
			}
			seen[aid] = true
			attr := Attribute{Name: aid, HasValue: ba.hasValue}
			if ba.hasValue {
				val := decodeCharacterReferences(string(data[ba.valStart:ba.valEnd]))
				attr.Value = OwnedText(val)
			}
			attrs = append(attrs, attr)
		}
		tok.Attrs = attrs
	}
	tz.tagAttrs = tz.tagAttrs[:0]

	tz.Tokens = append(tz.Tokens, tok)
	tz.scanPos = tz.cursor
	tz.state = stData

	if !tz.tagIsEnd && rawTextElements[canon] {
		tz.rawTextEndAtom = id
		tz.rawTextStart = tz.cursor
		tz.state = stRawText
	}
}

// --- Comments / bogus comments / markup declarations ---

func (tz *Tokenizer) stepMarkupDeclOpen(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	rest := data[pos:]

	if len(rest) >= 2 && rest[0] == '-' && rest[1] == '-' {
		tz.cursor = pos + 2
		tz.textStart = tz.cursor
		tz.state = stCommentStart
		return true, false
	}
	if matchFoldPrefix(rest, "DOCTYPE") {
		tz.cursor = pos + len("DOCTYPE")
		tz.forceQuirks = false
		tz.doctypeNameStart, tz.doctypeNameEnd = 0, 0
		tz.state = stDoctype
		return true, false
	}
	if !finishing && (couldStillMatch(rest, "--") || couldStillMatch(rest, "DOCTYPE")) {
		// Not enough bytes yet to rule out either a comment or a doctype.
		return false, true
	}
	// Anything else (including "[CDATA[") becomes a bogus comment.
	tz.textStart = pos
	tz.state = stBogusComment
	return true, false
}

func couldStillMatch(have []byte, want string) bool {
	n := len(have)
	if n > len(want) {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if lowerASCII(have[i]) != lowerASCII(want[i]) {
			return false
		}
	}
	return true
}

func matchFoldPrefix(have []byte, want string) bool {
	if len(have) < len(want) {
		return false
	}
	for i := 0; i < len(want); i++ {
		if lowerASCII(have[i]) != lowerASCII(want[i]) {
			return false
		}
	}
	return true
}

func (tz *Tokenizer) stepBogusComment(data []byte, finishing bool) (bool, bool) {
	if tz.scanPos < tz.textStart {
		tz.scanPos = tz.textStart
	}
	for tz.scanPos < len(data) {
		if data[tz.scanPos] == '>' {
			text := string(data[tz.textStart:tz.scanPos])
			tz.Tokens = append(tz.Tokens, Token{Type: CommentToken, Text: OwnedText(text)})
			tz.cursor = tz.scanPos + 1
			tz.scanPos = tz.cursor
			tz.state = stData
			return true, false
		}
		tz.scanPos++
	}
	if finishing {
		text := string(data[tz.textStart:len(data)])
		tz.Tokens = append(tz.Tokens, Token{Type: CommentToken, Text: OwnedText(text)})
		tz.cursor = len(data)
		return false, false
	}
	return false, true
}

func (tz *Tokenizer) stepCommentStart(data []byte, finishing bool) (bool, bool) {
	tz.state = stComment
	tz.scanPos = tz.cursor
	return true, false
}

func (tz *Tokenizer) stepComment(data []byte, finishing bool) (bool, bool) {
	if tz.scanPos < tz.textStart {
		tz.scanPos = tz.textStart
	}
	for tz.scanPos+2 < len(data) {
		if data[tz.scanPos] == '-' && data[tz.scanPos+1] == '-' && data[tz.scanPos+2] == '>' {
			text := string(data[tz.textStart:tz.scanPos])
			tz.Tokens = append(tz.Tokens, Token{Type: CommentToken, Text: OwnedText(text)})
			tz.cursor = tz.scanPos + 3
			tz.scanPos = tz.cursor
			tz.state = stData
			return true, false
		}
		tz.scanPos++
	}
	if finishing {
		// Unterminated comment: flush accumulated text as a single comment
		// (spec.md §4.3 EOF fallback).
		text := string(data[tz.textStart:len(data)])
		tz.Tokens = append(tz.Tokens, Token{Type: CommentToken, Text: OwnedText(text)})
		tz.cursor = len(data)
		return false, false
	}
	return false, true
}

// --- Doctype ---

func (tz *Tokenizer) stepDoctype(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	if pos >= len(data) {
		if finishing {
			tz.forceQuirks = true
			tz.emitDoctype(data)
			return false, false
		}
		return false, true
	}
	if isWhitespace(data[pos]) {
		tz.cursor = pos + 1
		tz.state = stBeforeDoctypeName
		return true, false
	}
	tz.state = stBeforeDoctypeName
	return true, false
}

func (tz *Tokenizer) stepBeforeDoctypeName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	tz.cursor = pos
	if pos >= len(data) {
		if finishing {
			tz.forceQuirks = true
			tz.emitDoctype(data)
			return false, false
		}
		return false, true
	}
	if data[pos] == '>' {
		tz.forceQuirks = true
		tz.cursor = pos + 1
		tz.emitDoctype(data)
		return true, false
	}
	tz.doctypeNameStart = pos
	tz.state = stDoctypeName
	return true, false
}

func (tz *Tokenizer) stepDoctypeName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	if pos < tz.doctypeNameStart {
		pos = tz.doctypeNameStart
	}
	for pos < len(data) {
		c := data[pos]
		if isWhitespace(c) || c == '>' {
			break
		}
		pos++
	}
	if pos >= len(data) && !finishing {
		tz.cursor = pos
		return false, true
	}
	tz.doctypeNameEnd = pos
	tz.cursor = pos
	tz.state = stAfterDoctypeName
	return true, false
}

func (tz *Tokenizer) stepAfterDoctypeName(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	tz.cursor = pos
	if pos >= len(data) {
		if finishing {
			tz.emitDoctype(data)
			return false, false
		}
		return false, true
	}
	if data[pos] == '>' {
		tz.cursor = pos + 1
		tz.emitDoctype(data)
		return true, false
	}
	// Trailing PUBLIC/SYSTEM identifiers are not modeled; skip to '>' as a
	// bogus doctype tail (out of scope per spec.md §1 Non-goals).
	tz.state = stBogusDoctype
	return true, false
}

func (tz *Tokenizer) stepBogusDoctype(data []byte, finishing bool) (bool, bool) {
	pos := tz.cursor
	for pos < len(data) && data[pos] != '>' {
		pos++
	}
	if pos >= len(data) {
		if finishing {
			tz.emitDoctype(data)
			return false, false
		}
		tz.cursor = pos
		return false, true
	}
	tz.cursor = pos + 1
	tz.emitDoctype(data)
	return true, false
}

func (tz *Tokenizer) emitDoctype(data []byte) {
	tok := Token{Type: DoctypeToken, ForceQuirks: tz.forceQuirks}
	if tz.doctypeNameEnd > tz.doctypeNameStart {
		name := string(data[tz.doctypeNameStart:tz.doctypeNameEnd])
		id, _ := tz.atoms.Intern(name)
		tok.DoctypeName = &id
	}
	tz.Tokens = append(tz.Tokens, tok)
	tz.scanPos = tz.cursor
	tz.state = stData
}

// --- Raw text (script/style) ---

func (tz *Tokenizer) stepRawText(data []byte, finishing bool) (bool, bool) {
	if tz.scanPos < tz.rawTextStart {
		tz.scanPos = tz.rawTextStart
	}
	for tz.scanPos < len(data) {
		if data[tz.scanPos] != '<' {
			tz.scanPos++
			continue
		}
		// Candidate close tag: try to confirm "</" + name + boundary without
		// consuming past what's currently available (tri-state match, per
		// the tokenizer's chunk-invariance contract).
		closeName := tz.atoms.ResolveString(tz.rawTextEndAtom)
		need := 2 + len(closeName)
		if tz.scanPos+need > len(data) {
			if finishing {
				break // treat trailing partial match as literal text below
			}
			return false, true
		}
		if data[tz.scanPos+1] == '/' && equalFoldASCII(data[tz.scanPos+2:tz.scanPos+need], []byte(closeName)) {
			boundaryPos := tz.scanPos + need
			if boundaryPos < len(data) {
				b := data[boundaryPos]
				if !(isWhitespace(b) || b == '>' || b == '/') {
					tz.scanPos++
					continue
				}
			} else if !finishing {
				return false, true
			}
			text := string(data[tz.rawTextStart:tz.scanPos])
			if len(text) > 0 {
				tz.Tokens = append(tz.Tokens, Token{Type: TextToken, Text: OwnedText(text)})
			}
			tz.tagStart = tz.scanPos
			tz.cursor = tz.scanPos + 2 // consumed "</"
			tz.tagIsEnd = true
			tz.tagNameStart = tz.cursor
			tz.tagNameEnd = tz.cursor + len(closeName)
			tz.cursor = tz.tagNameEnd
			tz.tagAttrs = tz.tagAttrs[:0]
			tz.selfClosing = false
			tz.state = stBeforeAttrName
			return true, false
		}
		tz.scanPos++
	}
	if finishing {
		text := string(data[tz.rawTextStart:len(data)])
		if len(text) > 0 {
			tz.Tokens = append(tz.Tokens, Token{Type: TextToken, Text: OwnedText(text)})
		}
		tz.cursor = len(data)
		return false, false
	}
	return false, true
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
