package layout

import (
	"testing"

	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/dompatch"
)

func textNode(key dompatch.PatchKey, text string) *dompatch.Node {
	return &dompatch.Node{Key: key, Kind: dompatch.TextNode, Text: text}
}

func elNode(key dompatch.PatchKey, name string, attrs ...dompatch.AttrPair) *dompatch.Node {
	return &dompatch.Node{Key: key, Kind: dompatch.ElementNode, Name: name, Attrs: attrs}
}

// link attaches children to parent via the exported sibling/parent fields
// directly (insertBefore/appendChild are package-private to dompatch).
func link(parent *dompatch.Node, children ...*dompatch.Node) {
	var prev *dompatch.Node
	for _, c := range children {
		c.Parent = parent
		c.PrevSibling = prev
		if prev != nil {
			prev.NextSibling = c
		} else {
			parent.FirstChild = c
		}
		parent.LastChild = c
	}
}

func sn(n *dompatch.Node, style css.ComputedStyle, children ...*css.StyledNode) *css.StyledNode {
	return &css.StyledNode{Node: n, Style: style, Children: children}
}

func TestTokenizeInlineCollapsesWhitespace(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	text := textNode(2, "hello   world\n\tfoo")
	tree := sn(root, style, sn(text, style))

	tokens := tokenizeInline(tree, nil)

	var kinds []tokenKind
	var words []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.kind)
		if tok.kind == tokWord {
			words = append(words, tok.text)
		}
	}

	want := []tokenKind{tokWord, tokSpace, tokWord, tokSpace, tokWord}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want shape %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], k)
		}
	}
	if got, want := words, []string{"hello", "world", "foo"}; !equalStrs(got, want) {
		t.Fatalf("words = %v, want %v", got, want)
	}
}

func TestTokenizeInlineDropsLeadingAndTrailingWhitespace(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	text := textNode(2, "   hi   ")
	tree := sn(root, style, sn(text, style))

	tokens := tokenizeInline(tree, nil)
	if len(tokens) != 1 || tokens[0].kind != tokWord || tokens[0].text != "hi" {
		t.Fatalf("tokens = %+v, want a single Word(hi)", tokens)
	}
}

func TestTokenizeInlineSkipsDisplayNone(t *testing.T) {
	style := css.InitialStyle()
	hidden := style
	hidden.Display = css.DisplayNone

	root := elNode(1, "p")
	span := elNode(2, "span")
	hiddenText := textNode(3, "invisible")
	visibleText := textNode(4, "visible")

	tree := sn(root, style,
		sn(span, hidden, sn(hiddenText, hidden)),
		sn(visibleText, style),
	)

	tokens := tokenizeInline(tree, nil)
	if len(tokens) != 1 || tokens[0].text != "visible" {
		t.Fatalf("tokens = %+v, want only the visible word", tokens)
	}
}

func TestTokenizeInlineProducesReplacedToken(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	img := elNode(2, "img")
	tree := sn(root, style, sn(img, style))

	tokens := tokenizeInline(tree, fakeSizer{replacedW: 40, replacedH: 30})
	if len(tokens) != 1 || tokens[0].kind != tokReplaced {
		t.Fatalf("tokens = %+v, want a single Replaced token", tokens)
	}
	if tokens[0].width != 40 || tokens[0].height != 30 {
		t.Fatalf("replaced size = %vx%v, want 40x30", tokens[0].width, tokens[0].height)
	}
	if tokens[0].replaced != ReplacedImg {
		t.Fatalf("replaced kind = %v, want ReplacedImg", tokens[0].replaced)
	}
}

func TestTokenizeInlineBlockStopsInlineRecursion(t *testing.T) {
	style := css.InitialStyle()
	blockStyle := style
	blockStyle.Display = css.DisplayBlock

	root := elNode(1, "p")
	before := textNode(2, "before")
	div := elNode(3, "div")
	inside := textNode(4, "inside")
	after := textNode(5, "after")

	tree := sn(root, style,
		sn(before, style),
		sn(div, blockStyle, sn(inside, blockStyle)),
		sn(after, style),
	)

	tokens := tokenizeInline(tree, nil)
	var words []string
	for _, tok := range tokens {
		if tok.kind == tokWord {
			words = append(words, tok.text)
		}
	}
	if !equalStrs(words, []string{"before", "after"}) {
		t.Fatalf("words = %v, want [before after], block content must not leak into this inline stream", words)
	}
}

func TestTokenizeInlinePropagatesLinkContext(t *testing.T) {
	style := css.InitialStyle()
	root := elNode(1, "p")
	href := "https://example.com"
	a := elNode(2, "a", dompatch.AttrPair{Name: "href", Value: &href})
	text := textNode(3, "click")
	tree := sn(root, style, sn(a, style, sn(text, style)))

	tokens := tokenizeInline(tree, nil)
	if len(tokens) != 1 {
		t.Fatalf("tokens = %+v", tokens)
	}
	if !tokens[0].ctx.hasLink || tokens[0].ctx.linkHref != href || tokens[0].ctx.linkTarget != 2 {
		t.Fatalf("ctx = %+v, want link to node 2 href %q", tokens[0].ctx, href)
	}
}

func TestTokenizeTextareaValuePreservesNewlinesAndSpaces(t *testing.T) {
	style := css.InitialStyle()
	tokens := tokenizeTextareaValue("ab  cd\ne\r\nf", style)

	var kinds []tokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.kind)
	}
	want := []tokenKind{tokWord, tokSpace, tokSpace, tokWord, tokHardBreak, tokWord, tokHardBreak, tokWord}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want shape %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestTokenizeTextareaValueSourceRanges(t *testing.T) {
	style := css.InitialStyle()
	value := "hi\nbye"
	tokens := tokenizeTextareaValue(value, style)

	for _, tok := range tokens {
		if tok.sourceRange == nil {
			t.Fatalf("token %+v missing source range", tok)
		}
		s, e := tok.sourceRange[0], tok.sourceRange[1]
		if s < 0 || e > len(value) || s > e {
			t.Fatalf("token %+v has invalid range [%d,%d) into %q", tok, s, e, value)
		}
	}

	if tokens[0].text != "hi" || *tokens[0].sourceRange != [2]int{0, 2} {
		t.Fatalf("tokens[0] = %+v, want Word(hi) at [0,2)", tokens[0])
	}
	if tokens[1].kind != tokHardBreak || *tokens[1].sourceRange != [2]int{2, 3} {
		t.Fatalf("tokens[1] = %+v, want HardBreak at [2,3)", tokens[1])
	}
	if tokens[2].text != "bye" || *tokens[2].sourceRange != [2]int{3, 6} {
		t.Fatalf("tokens[2] = %+v, want Word(bye) at [3,6)", tokens[2])
	}
}

func equalStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
