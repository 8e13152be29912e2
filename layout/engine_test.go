package layout

import (
	"testing"

	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/dompatch"
)

// fakeMeasurer charges a fixed width per rune, independent of style, so
// layout math in tests is exact and easy to hand-check.
type fakeMeasurer struct {
	perChar    float64
	lineHeight float64
}

func (f fakeMeasurer) Measure(text string, style css.ComputedStyle) float64 {
	return float64(len([]rune(text))) * f.perChar
}

func (f fakeMeasurer) LineHeight(style css.ComputedStyle) float64 {
	if f.lineHeight > 0 {
		return f.lineHeight
	}
	return style.FontSize.Px() * 1.2
}

type fakeSizer struct {
	replacedW, replacedH float64
	boxW, boxH           float64
}

func (f fakeSizer) MeasureReplaced(kind ReplacedKind, n *dompatch.Node, style css.ComputedStyle) (float64, float64) {
	return f.replacedW, f.replacedH
}

func (f fakeSizer) MeasureInlineBlock(n *dompatch.Node, style css.ComputedStyle) (float64, float64) {
	return f.boxW, f.boxH
}

func TestLayoutInlineWrapsOnWordBoundary(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	text := textNode(2, "aa bb cc")
	tree := sn(root, style, sn(text, style))

	measurer := fakeMeasurer{perChar: 10}
	rect := Rectangle{X: 0, Y: 0, Width: 60, Height: 1000}
	opts := HTMLDefaults()
	opts.Padding = 0

	lines := LayoutInline(measurer, nil, rect, style, tree, opts)

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	line0Words := wordsOf(lines[0])
	line1Words := wordsOf(lines[1])
	if !equalStrs(line0Words, []string{"aa", "bb"}) {
		t.Fatalf("line 0 = %v, want [aa bb]", line0Words)
	}
	if !equalStrs(line1Words, []string{"cc"}) {
		t.Fatalf("line 1 = %v, want [cc]", line1Words)
	}
}

func wordsOf(line LineBox) []string {
	var out []string
	for _, f := range line.Fragments {
		if f.Kind == FragmentText && f.Text != "" {
			out = append(out, f.Text)
		}
	}
	return out
}

func TestLayoutInlineBaselineAlignsReplacedToBottomEdge(t *testing.T) {
	style := css.InitialStyle()
	style.FontSize = css.Length{Value: 10}
	root := elNode(1, "p")
	text := textNode(2, "x")
	img := elNode(3, "img")
	tree := sn(root, style, sn(text, style), sn(img, style))

	measurer := fakeMeasurer{perChar: 5, lineHeight: 12}
	sizer := fakeSizer{replacedW: 20, replacedH: 30}
	rect := Rectangle{X: 0, Y: 0, Width: 200, Height: 1000}
	opts := HTMLDefaults()
	opts.Padding = 0

	lines := LayoutInline(measurer, sizer, rect, style, tree, opts)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]
	if line.Rect.Height < 30 {
		t.Fatalf("line height = %v, want >= replaced height 30", line.Rect.Height)
	}

	var textFrag, imgFrag *LineFragment
	for i := range line.Fragments {
		if line.Fragments[i].Kind == FragmentReplaced {
			imgFrag = &line.Fragments[i]
		}
		if line.Fragments[i].Kind == FragmentText {
			textFrag = &line.Fragments[i]
		}
	}
	if imgFrag == nil || textFrag == nil {
		t.Fatalf("expected both a text and replaced fragment: %+v", line.Fragments)
	}
	if imgFrag.AdvanceRect.Y+imgFrag.AdvanceRect.Height != line.Baseline {
		t.Fatalf("replaced bottom margin edge (%v) != line baseline (%v)", imgFrag.AdvanceRect.Y+imgFrag.AdvanceRect.Height, line.Baseline)
	}
}

func TestLayoutInlinePaintRectShrinksByMargin(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	imgStyle := style
	imgStyle.Box = css.BoxMetrics{MarginTop: 2, MarginRight: 3, MarginBottom: 4, MarginLeft: 5}
	img := elNode(2, "img")
	tree := sn(root, style, sn(img, imgStyle))

	measurer := fakeMeasurer{perChar: 10, lineHeight: 20}
	sizer := fakeSizer{replacedW: 20, replacedH: 20}
	rect := Rectangle{X: 0, Y: 0, Width: 200, Height: 1000}
	opts := HTMLDefaults()
	opts.Padding = 0

	lines := LayoutInline(measurer, sizer, rect, style, tree, opts)
	if len(lines) != 1 || len(lines[0].Fragments) != 1 {
		t.Fatalf("got %d lines: %+v", len(lines), lines)
	}
	f := lines[0].Fragments[0]

	if f.AdvanceRect.Width != 20 || f.AdvanceRect.Height != 20 {
		t.Fatalf("advance rect = %+v, want 20x20 margin-box", f.AdvanceRect)
	}
	wantPaint := Rectangle{
		X:      f.AdvanceRect.X + 5,
		Y:      f.AdvanceRect.Y + 2,
		Width:  20 - 5 - 3,
		Height: 20 - 2 - 4,
	}
	if f.PaintRect != wantPaint {
		t.Fatalf("paint rect = %+v, want %+v", f.PaintRect, wantPaint)
	}
}

func TestLayoutInlineHardBreakStartsNewLine(t *testing.T) {
	style := css.InitialStyle()

	// tokenizeInline has no <br> handling (a future box-generation concern);
	// exercise the hard-break path directly via the textarea tokenizer instead.
	tokens := tokenizeTextareaValue("line one\nline two", style)
	measurer := fakeMeasurer{perChar: 10}
	lines := layoutTokens(measurer, Rectangle{Width: 1000, Height: 1000}, style, tokens, TextareaDefaults())
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if !equalStrs(wordsOf(lines[0]), []string{"line", "one"}) {
		t.Fatalf("line 0 = %v", wordsOf(lines[0]))
	}
	if !equalStrs(wordsOf(lines[1]), []string{"line", "two"}) {
		t.Fatalf("line 1 = %v", wordsOf(lines[1]))
	}
}

// TestLayoutTextareaBreaksLongWord matches the break-word scenario: the value
// "aaaaa" in a textarea with a 25px-wide content box and a 10px-per-char
// measurer must wrap as "aa"/"aa"/"a", each carrying its exact source range.
func TestLayoutTextareaBreaksLongWord(t *testing.T) {
	style := css.InitialStyle()
	measurer := fakeMeasurer{perChar: 10, lineHeight: 16}
	rect := Rectangle{X: 0, Y: 0, Width: 25, Height: 1000}

	lines := LayoutTextareaValue(measurer, rect, style, "aaaaa")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %+v", len(lines), lines)
	}
	wantTexts := []string{"aa", "aa", "a"}
	wantRanges := [][2]int{{0, 2}, {2, 4}, {4, 5}}
	for i, line := range lines {
		if len(line.Fragments) != 1 {
			t.Fatalf("line %d has %d fragments, want 1: %+v", i, len(line.Fragments), line.Fragments)
		}
		f := line.Fragments[0]
		if f.Text != wantTexts[i] {
			t.Fatalf("line %d text = %q, want %q", i, f.Text, wantTexts[i])
		}
		if f.SourceRange == nil || *f.SourceRange != wantRanges[i] {
			t.Fatalf("line %d source range = %v, want %v", i, f.SourceRange, wantRanges[i])
		}
	}
}

func TestHitTestFindsTopmostFragmentInPaintOrder(t *testing.T) {
	lines := []LineBox{
		{
			Rect: Rectangle{X: 0, Y: 0, Width: 100, Height: 20},
			Fragments: []LineFragment{
				{Kind: FragmentText, Text: "a", PaintRect: Rectangle{X: 0, Y: 0, Width: 10, Height: 20}},
				{Kind: FragmentText, Text: "b", PaintRect: Rectangle{X: 10, Y: 0, Width: 10, Height: 20}},
			},
		},
	}
	res := HitTest(lines, 15, 5)
	if res == nil || res.Kind != HitText {
		t.Fatalf("res = %+v, want a text hit", res)
	}
	if res.LocalX != 5 {
		t.Fatalf("LocalX = %v, want 5", res.LocalX)
	}
}

func TestHitTestReturnsNilOutsideAllLines(t *testing.T) {
	lines := []LineBox{
		{Rect: Rectangle{X: 0, Y: 0, Width: 10, Height: 10}},
	}
	if res := HitTest(lines, 100, 100); res != nil {
		t.Fatalf("res = %+v, want nil", res)
	}
}

func TestHitTestClassifiesLinkFragment(t *testing.T) {
	lines := []LineBox{
		{
			Rect: Rectangle{X: 0, Y: 0, Width: 10, Height: 10},
			Fragments: []LineFragment{
				{
					Kind:      FragmentText,
					PaintRect: Rectangle{X: 0, Y: 0, Width: 10, Height: 10},
					Action:    &InlineAction{Kind: ActionLink, Target: 7, Href: "https://x"},
				},
			},
		},
	}
	res := HitTest(lines, 5, 5)
	if res == nil || res.Kind != HitLink || res.NodeID != 7 {
		t.Fatalf("res = %+v, want link hit targeting node 7", res)
	}
}
