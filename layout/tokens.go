package layout

import (
	"strings"

	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/dompatch"
)

// inlineContext carries state that flows down through nested inline
// elements without needing its own box (currently: the nearest enclosing
// hyperlink).
type inlineContext struct {
	linkTarget ID
	linkHref   string
	hasLink    bool
}

// tokenKind discriminates inlineToken's payload (spec.md §4.8 pass 1).
type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokHardBreak
	tokBox
	tokReplaced
)

// inlineToken is the intermediate representation between tokenization and
// line assembly. Token invariants (carried from the teacher's own doc
// comment): Space never appears twice consecutively; Box/Replaced sizes are
// margin-box; HardBreak clears the pending-space slot.
type inlineToken struct {
	kind tokenKind

	text string
	node *dompatch.Node
	ctx  inlineContext

	width, height float64
	replaced      ReplacedKind

	style       css.ComputedStyle
	sourceRange *[2]int
}

func isCollapsibleHTMLWhitespace(r rune) bool {
	switch r {
	case ' ', '\n', '\t', '\r', '\f':
		return true
	}
	return false
}

// replacedKindOf classifies an element node as a replaced/box kind, if any.
func replacedKindOf(n *dompatch.Node) (ReplacedKind, bool) {
	switch {
	case strings.EqualFold(n.Name, "img"):
		return ReplacedImg, true
	case strings.EqualFold(n.Name, "textarea"):
		return ReplacedTextarea, true
	case strings.EqualFold(n.Name, "button"):
		return ReplacedButton, true
	case strings.EqualFold(n.Name, "input"):
		typ, _ := n.Attr("type")
		if typ != nil {
			switch strings.ToLower(strings.TrimSpace(*typ)) {
			case "checkbox":
				return ReplacedCheckbox, true
			case "radio":
				return ReplacedRadio, true
			}
		}
		return ReplacedInputText, true
	}
	return 0, false
}

// tokenCollector accumulates inlineTokens while walking a styled subtree,
// applying HTML whitespace-collapsing semantics (spec.md §4.8 pass 1).
type tokenCollector struct {
	tokens       []inlineToken
	pendingSpace *inlineToken
	emitted      bool
	sizer        Sizer
}

func (c *tokenCollector) pushWord(text string, style css.ComputedStyle, ctx inlineContext) {
	c.tokens = append(c.tokens, inlineToken{kind: tokWord, text: text, style: style, ctx: ctx})
	c.emitted = true
}

func (c *tokenCollector) noteWhitespace(style css.ComputedStyle, ctx inlineContext) {
	if c.pendingSpace == nil {
		c.pendingSpace = &inlineToken{kind: tokSpace, style: style, ctx: ctx}
	}
}

func (c *tokenCollector) flushPendingSpace() {
	if c.pendingSpace == nil {
		return
	}
	sp := *c.pendingSpace
	c.pendingSpace = nil
	if !c.emitted {
		return
	}
	if n := len(c.tokens); n > 0 && c.tokens[n-1].kind == tokSpace {
		return
	}
	c.tokens = append(c.tokens, sp)
}

func (c *tokenCollector) resetPendingSpace() {
	c.pendingSpace = nil
}

func (c *tokenCollector) pushText(text string, style css.ComputedStyle, ctx inlineContext) {
	var word strings.Builder
	for _, r := range text {
		if isCollapsibleHTMLWhitespace(r) {
			if word.Len() > 0 {
				c.pushWord(word.String(), style, ctx)
				word.Reset()
			}
			c.noteWhitespace(style, ctx)
		} else {
			c.flushPendingSpace()
			word.WriteRune(r)
		}
	}
	if word.Len() > 0 {
		c.pushWord(word.String(), style, ctx)
	}
}

// tokenizeInline walks root's children in DOM order, producing an
// inlineToken stream with HTML whitespace collapsing (spec.md §4.8 pass 1).
// sizer may be nil if root's subtree has no replaced/inline-block content.
func tokenizeInline(root *css.StyledNode, sizer Sizer) []inlineToken {
	c := &tokenCollector{sizer: sizer}
	for _, child := range root.Children {
		walkInline(c, child, inlineContext{})
	}
	c.resetPendingSpace() // trailing collapsible whitespace is never rendered
	return c.tokens
}

func walkInline(c *tokenCollector, sn *css.StyledNode, ctx inlineContext) {
	n := sn.Node
	switch n.Kind {
	case dompatch.TextNode:
		if n.Text == "" {
			return
		}
		c.pushText(n.Text, sn.Style, ctx)

	case dompatch.CommentNode:
		// not rendered

	case dompatch.ElementNode, dompatch.DocumentNode:
		nextCtx := ctx
		if n.Kind == dompatch.ElementNode && strings.EqualFold(n.Name, "a") {
			nextCtx.hasLink = true
			nextCtx.linkTarget = n.Key
			if href, ok := n.Attr("href"); ok && href != nil {
				nextCtx.linkHref = *href
			}
		}

		if sn.Style.Display == css.DisplayNone {
			return
		}

		if kind, ok := replacedKindOf(n); ok {
			c.flushPendingSpace()
			w, h := 0.0, 0.0
			if c.sizer != nil {
				w, h = c.sizer.MeasureReplaced(kind, n, sn.Style)
			}
			c.tokens = append(c.tokens, inlineToken{
				kind: tokReplaced, node: n, ctx: nextCtx,
				width: w, height: h, replaced: kind, style: sn.Style,
			})
			c.emitted = true
			return
		}

		if sn.Style.Display == css.DisplayInlineBlock {
			c.flushPendingSpace()
			w, h := 0.0, 0.0
			if c.sizer != nil {
				w, h = c.sizer.MeasureInlineBlock(n, sn.Style)
			}
			c.tokens = append(c.tokens, inlineToken{
				kind: tokBox, node: n, ctx: nextCtx, width: w, height: h, style: sn.Style,
			})
			c.emitted = true
			return
		}

		if sn.Style.Display == css.DisplayBlock {
			// Block descendants form a separate formatting context; they do
			// not contribute inline content here (spec.md §4.8 pass 1).
			c.resetPendingSpace()
			return
		}

		for _, child := range sn.Children {
			walkInline(c, child, nextCtx)
		}
	}
}

// tokenizeTextareaValue tokenizes a textarea's stored value in preserved
// mode: explicit newlines become HardBreak, spaces are never collapsed, and
// every token carries a source range into value (spec.md §4.8: "Textarea
// mode variant").
func tokenizeTextareaValue(value string, style css.ComputedStyle) []inlineToken {
	var tokens []inlineToken
	var word strings.Builder
	wordStart := -1

	flushWord := func(end int) {
		if wordStart < 0 || word.Len() == 0 {
			wordStart = -1
			word.Reset()
			return
		}
		sr := [2]int{wordStart, end}
		tokens = append(tokens, inlineToken{kind: tokWord, text: word.String(), style: style, sourceRange: &sr})
		word.Reset()
		wordStart = -1
	}

	runes := []rune(value)
	byteIdx := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		byteIdx[i] = pos
		pos += len(string(r))
	}
	byteIdx[len(runes)] = len(value)

	i := 0
	for i < len(runes) {
		r := runes[i]
		start := byteIdx[i]
		switch r {
		case '\n':
			flushWord(start)
			end := byteIdx[i+1]
			sr := [2]int{start, end}
			tokens = append(tokens, inlineToken{kind: tokHardBreak, sourceRange: &sr})
			i++
		case '\r':
			flushWord(start)
			end := byteIdx[i+1]
			if i+1 < len(runes) && runes[i+1] == '\n' {
				end = byteIdx[i+2]
				i++
			}
			sr := [2]int{start, end}
			tokens = append(tokens, inlineToken{kind: tokHardBreak, sourceRange: &sr})
			i++
		case ' ', '\t':
			flushWord(start)
			end := byteIdx[i+1]
			sr := [2]int{start, end}
			tokens = append(tokens, inlineToken{kind: tokSpace, style: style, sourceRange: &sr})
			i++
		default:
			if wordStart < 0 {
				wordStart = start
			}
			word.WriteRune(r)
			i++
		}
	}
	flushWord(len(value))

	return tokens
}
