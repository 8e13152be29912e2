// Package html5 implements the streaming HTML5 tokenizer (spec.md §4.3) and
// the incremental DOM patch tree builder (spec.md §4.4).
package html5

import (
	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/input"
)

// TokenType discriminates the Token variants of spec.md §3.
type TokenType int

const (
	DoctypeToken TokenType = iota
	StartTagToken
	EndTagToken
	CommentToken
	TextToken
	EOFToken
)

func (t TokenType) String() string {
	switch t {
	case DoctypeToken:
		return "Doctype"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case CommentToken:
		return "Comment"
	case TextToken:
		return "Text"
	case EOFToken:
		return "EOF"
	default:
		return "Unknown"
	}
}

// TextValue is the payload of a text/comment token or an attribute value. It
// may be a borrowed span into the decoded input buffer, or an owned string
// (e.g. after entity decoding). Which representation is used is an
// implementation detail: resolved content must be identical across
// equivalent runs (spec.md §3, §4.3 determinism contract).
type TextValue struct {
	owned    string
	span     input.Span
	isOwned  bool
}

// OwnedText wraps a string as an owned TextValue.
func OwnedText(s string) TextValue { return TextValue{owned: s, isOwned: true} }

// SpanText wraps a buffer span as a borrowed TextValue.
func SpanText(s input.Span) TextValue { return TextValue{span: s} }

// Resolve returns the text this value denotes, reading from buf if it is a
// borrowed span. Returns ("", false) if a borrowed span cannot be resolved
// against buf (an engine invariant violation per spec.md §7).
func (v TextValue) Resolve(buf *input.Buffer) (string, bool) {
	if v.isOwned {
		return v.owned, true
	}
	return buf.Slice(v.span)
}

// Attribute is a StartTag attribute. Attributes preserve source encounter
// order; duplicate names within one start tag keep only the first occurrence
// (spec.md §3, §9).
type Attribute struct {
	Name     atom.ID
	Value    TextValue
	HasValue bool
}

// Token is the tagged union described in spec.md §3.
type Token struct {
	Type TokenType

	// StartTag / EndTag
	Name        atom.ID
	Attrs       []Attribute
	SelfClosing bool

	// Comment / Text
	Text TextValue

	// Doctype
	DoctypeName  *atom.ID
	PublicID     *string
	SystemID     *string
	ForceQuirks  bool
}
