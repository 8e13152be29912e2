package layout

import (
	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/dompatch"
)

// LayoutInline runs both passes of spec.md §4.8: tokenize root's inline content (in
// DOM order) and assemble it into baseline-aligned line boxes within rect.
// blockStyle supplies the containing block's font for the line strut.
func LayoutInline(measurer TextMeasurer, sizer Sizer, rect Rectangle, blockStyle css.ComputedStyle, root *css.StyledNode, opts Options) []LineBox {
	tokens := tokenizeInline(root, sizer)
	return layoutTokens(measurer, rect, blockStyle, tokens, opts)
}

// LayoutTextareaValue lays out value (a textarea's stored, already
// newline-normalized value) in preserved mode: explicit newlines, no
// whitespace collapsing, break-word enabled (spec.md §4.8, S6).
func LayoutTextareaValue(measurer TextMeasurer, rect Rectangle, style css.ComputedStyle, value string) []LineBox {
	tokens := tokenizeTextareaValue(value, style)
	return layoutTokens(measurer, rect, style, tokens, TextareaDefaults())
}

type lineBuilder struct {
	fragments []LineFragment
	width     float64 // visual cursor width, including any trailing space
	core      float64 // width up to and including the last non-space token
	started   bool    // has any non-empty-line-placeholder content been placed
}

func layoutTokens(measurer TextMeasurer, rect Rectangle, blockStyle css.ComputedStyle, tokens []inlineToken, opts Options) []LineBox {
	contentW := rect.Width - 2*opts.Padding
	if contentW < 0 {
		contentW = 0
	}

	var lines []LineBox
	cursorY := rect.Y
	cur := &lineBuilder{}
	lineStartIdx := 0 // source-range bookkeeping: first token index on this line

	closeLine := func(endIdx int) {
		availableH := rect.Y + rect.Height - cursorY
		lines = append(lines, finishLine(measurer, blockStyle, rect.X+opts.Padding, cursorY, contentW, availableH, cur.fragments, tokens, lineStartIdx, endIdx))
		cursorY += lines[len(lines)-1].Rect.Height
		cur = &lineBuilder{}
		lineStartIdx = endIdx
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.kind {
		case tokSpace:
			if !opts.PreserveLeadingSpaces && !cur.started {
				continue // HTML mode: no leading whitespace on a fresh line
			}
			w := measurer.Measure(" ", tok.style)
			placeToken(cur, tok, w, measurer)
			continue

		case tokHardBreak:
			closeLine(i + 1)
			continue
		}

		w := tok.width
		if tok.kind == tokWord {
			w = measurer.Measure(tok.text, tok.style)
		}

		if cur.started && cur.core+w > contentW {
			closeLine(i)
			i-- // retry this token at the start of the new line
			continue
		}

		if w > contentW && opts.BreakLongWords && tok.kind == tokWord {
			remaining := tok.text
			base := 0
			if tok.sourceRange != nil {
				base = tok.sourceRange[0]
			}
			for len(remaining) > 0 {
				cut := breakWordPrefixEnd(measurer, tok.style, remaining, contentW-cur.core)
				if cut == 0 {
					cut = breakWordPrefixEnd(measurer, tok.style, remaining, contentW)
				}
				if cut == 0 {
					cut = len(remaining)
				}
				piece := remaining[:cut]
				pieceW := measurer.Measure(piece, tok.style)
				var sr *[2]int
				if tok.sourceRange != nil {
					s := [2]int{base, base + cut}
					sr = &s
				}
				placeToken(cur, inlineToken{kind: tokWord, text: piece, style: tok.style, ctx: tok.ctx, sourceRange: sr}, pieceW, measurer)
				remaining = remaining[cut:]
				base += cut
				if len(remaining) > 0 {
					closeLine(i) // source range of the closed line still covers up to i (fall-through token)
				}
			}
			continue
		}

		placeToken(cur, tok, w, measurer)
	}

	if cur.started || opts.PreserveEmptyLines {
		closeLine(len(tokens))
	}

	return lines
}

func placeToken(cur *lineBuilder, tok inlineToken, width float64, measurer TextMeasurer) {
	var m fragmentMetrics
	var kind InlineFragmentKind
	var replaced ReplacedKind
	height := tok.height

	switch tok.kind {
	case tokWord, tokSpace:
		kind = FragmentText
		m = computeTextMetrics(measurer, tok.style)
		height = m.height()
	case tokBox:
		kind = FragmentBox
		m = inlineBlockBaselineMetrics(tok.height)
	case tokReplaced:
		kind = FragmentReplaced
		replaced = tok.replaced
		m = replacedBaselineMetrics(tok.height)
	}

	var action *InlineAction
	if tok.ctx.hasLink {
		action = &InlineAction{Target: tok.ctx.linkTarget, Kind: ActionLink, Href: tok.ctx.linkHref}
	}

	cur.fragments = append(cur.fragments, LineFragment{
		Kind:        kind,
		Text:        tok.text,
		Node:        tok.node,
		Replaced:    replaced,
		Style:       tok.style,
		Action:      action,
		AdvanceRect: Rectangle{Width: width, Height: height},
		SourceRange: tok.sourceRange,
		Ascent:      m.ascent,
		Descent:     m.descent,
	})
	cur.width += width
	if tok.kind != tokSpace {
		cur.core = cur.width
	}
	cur.started = true
}

// finishLine positions fragments horizontally and vertically, computing the
// line's baseline as the max fragment ascent (including the block's strut),
// per spec.md §4.8 "Baseline alignment per line".
func finishLine(measurer TextMeasurer, blockStyle css.ComputedStyle, x, y, availableW, availableH float64, fragments []LineFragment, tokens []inlineToken, startIdx, endIdx int) LineBox {
	_, strut := computeStrutMetrics(measurer, blockStyle, availableH)

	baseline := strut.ascent
	maxDescent := strut.descent
	for _, f := range fragments {
		if f.Ascent > baseline {
			baseline = f.Ascent
		}
		if f.Descent > maxDescent {
			maxDescent = f.Descent
		}
	}
	height := baseline + maxDescent

	cursorX := x
	for i := range fragments {
		fragments[i].AdvanceRect.X = cursorX
		fragments[i].AdvanceRect.Y = y + (baseline - fragments[i].Ascent) + fragments[i].BaselineShift

		cursor := pos{x: fragments[i].AdvanceRect.X, y: fragments[i].AdvanceRect.Y}
		_, paint := splitMarginAndPaintRect(cursor, fragments[i].AdvanceRect.Width, fragments[i].AdvanceRect.Height, marginsOf(fragments[i].Style))
		fragments[i].PaintRect = paint

		cursorX += fragments[i].AdvanceRect.Width
	}

	var sourceRange *[2]int
	if startIdx < endIdx && startIdx >= 0 && endIdx <= len(tokens) {
		if s := firstSourceRangeStart(tokens[startIdx:endIdx]); s != nil {
			if e := lastSourceRangeEnd(tokens[startIdx:endIdx]); e != nil {
				sr := [2]int{*s, *e}
				sourceRange = &sr
			}
		}
	}

	return LineBox{
		Fragments:   fragments,
		Rect:        Rectangle{X: x, Y: y, Width: availableW, Height: height},
		Baseline:    y + baseline,
		SourceRange: sourceRange,
	}
}

func firstSourceRangeStart(tokens []inlineToken) *int {
	for _, t := range tokens {
		if t.sourceRange != nil {
			v := t.sourceRange[0]
			return &v
		}
	}
	return nil
}

func lastSourceRangeEnd(tokens []inlineToken) *int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].sourceRange != nil {
			v := tokens[i].sourceRange[1]
			return &v
		}
	}
	return nil
}

// HitTest finds the topmost line-box fragment containing point, across
// lines in paint order (later fragments within a line, and later lines,
// represent later-painted content and win ties per spec.md §4.8).
func HitTest(lines []LineBox, x, y float64) *HitResult {
	for li := len(lines) - 1; li >= 0; li-- {
		line := lines[li]
		if !line.Rect.Contains(x, y) {
			continue
		}
		for fi := len(line.Fragments) - 1; fi >= 0; fi-- {
			f := line.Fragments[fi]
			if !f.PaintRect.Contains(x, y) {
				continue
			}
			return &HitResult{
				NodeID:       hitNodeID(f),
				Kind:         hitKindOf(f),
				FragmentRect: f.PaintRect,
				LocalX:       x - f.PaintRect.X,
				LocalY:       y - f.PaintRect.Y,
			}
		}
	}
	return nil
}

func hitNodeID(f LineFragment) ID {
	if f.Action != nil {
		return f.Action.Target
	}
	if f.Node != nil {
		return f.Node.Key
	}
	return dompatch.Invalid
}

func hitKindOf(f LineFragment) HitKind {
	switch f.Kind {
	case FragmentReplaced:
		switch f.Replaced {
		case ReplacedImg:
			return HitImage
		case ReplacedInputText, ReplacedCheckbox, ReplacedRadio, ReplacedTextarea:
			return HitInput
		case ReplacedButton:
			return HitBlockBox
		}
		return HitInput
	case FragmentBox:
		return HitInlineBlockBox
	default:
		if f.Action != nil && f.Action.Kind == ActionLink {
			return HitLink
		}
		return HitText
	}
}
