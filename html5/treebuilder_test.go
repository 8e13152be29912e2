package html5

import (
	"testing"

	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/dompatch"
	"github.com/jorisjansen/borrowser-core/input"
)

func parseToDOM(t *testing.T, html string) (*dompatch.Node, *TreeBuilder) {
	t.Helper()
	atoms := atom.New()
	buf := input.NewBuffer(1)
	dec := input.NewDecoder()
	dec.Write([]byte(html), buf)
	dec.Finish(buf)

	tz := NewTokenizer(atoms, buf.ID())
	tz.Push(buf)
	tz.Finish(buf)

	tb := NewTreeBuilder(atoms, buf)
	for _, tok := range tz.Tokens {
		tb.Feed(tok)
	}

	m := dompatch.NewMaterializer()
	if err := m.Apply(tb.Patches); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return m.Root(), tb
}

func findElement(n *dompatch.Node, name string) *dompatch.Node {
	if n.Kind == dompatch.ElementNode && n.Name == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func TestTreeBuilderImpliesHtmlHeadBody(t *testing.T) {
	root, _ := parseToDOM(t, "<p>hi</p>")
	if root.Kind != dompatch.DocumentNode {
		t.Fatalf("root kind = %v", root.Kind)
	}
	html := findElement(root, "html")
	if html == nil {
		t.Fatalf("expected an implied <html> element")
	}
	body := findElement(root, "body")
	if body == nil {
		t.Fatalf("expected an implied <body> element")
	}
	p := findElement(root, "p")
	if p == nil || p.Parent != body {
		t.Fatalf("expected <p> to be a child of <body>, got %+v", p)
	}
	if p.FirstChild == nil || p.FirstChild.Text != "hi" {
		t.Fatalf("p content = %+v", p.FirstChild)
	}
}

func TestTreeBuilderDoctype(t *testing.T) {
	root, _ := parseToDOM(t, "<!DOCTYPE html><html><body>x</body></html>")
	if !root.HasDoctype || root.Doctype != "html" {
		t.Fatalf("doctype = %q, %v", root.Doctype, root.HasDoctype)
	}
}

func TestTreeBuilderScriptContentIsTextNotParsed(t *testing.T) {
	root, _ := parseToDOM(t, "<script>var x = 1 < 2;</script>")
	script := findElement(root, "script")
	if script == nil {
		t.Fatalf("expected a <script> element")
	}
	if script.FirstChild == nil || script.FirstChild.Kind != dompatch.TextNode {
		t.Fatalf("script children = %+v", script.Children())
	}
	if script.FirstChild.Text != "var x = 1 < 2;" {
		t.Fatalf("script text = %q", script.FirstChild.Text)
	}
}

func TestTreeBuilderMismatchedEndTagIsTolerant(t *testing.T) {
	root, tb := parseToDOM(t, "<div><span>a</div>")
	div := findElement(root, "div")
	if div == nil {
		t.Fatalf("expected <div>")
	}
	span := findElement(root, "span")
	if span == nil || span.Parent != div {
		t.Fatalf("expected <span> inside <div>")
	}
	if tb.ParseErrors != 0 {
		// A mismatched-but-in-scope close should pop tolerantly, not count
		// as a dropped/ignored end tag.
		t.Fatalf("ParseErrors = %d, want 0 for a resolvable mismatched close", tb.ParseErrors)
	}
}

func TestTreeBuilderAttributesAndVoidElement(t *testing.T) {
	root, _ := parseToDOM(t, `<div id="x"><br></div>`)
	div := findElement(root, "div")
	if v, ok := div.Attr("id"); !ok || v == nil || *v != "x" {
		t.Fatalf("id attr = %v %v", v, ok)
	}
	br := findElement(root, "br")
	if br == nil || br.Parent != div {
		t.Fatalf("expected <br> child of <div>")
	}
	if len(br.Children()) != 0 {
		t.Fatalf("void element should have no children")
	}
}

func TestTreeBuilderPeakDepthTracksNesting(t *testing.T) {
	_, tb := parseToDOM(t, "<div><div><div>x</div></div></div>")
	if tb.PeakOpenElementDepth() < 3 {
		t.Fatalf("peak depth = %d, want >= 3", tb.PeakOpenElementDepth())
	}
}

func TestTreeBuilderTitleContentIsTextNotParsed(t *testing.T) {
	root, _ := parseToDOM(t, "<title>1 < 2</title>")
	title := findElement(root, "title")
	if title == nil {
		t.Fatalf("expected a <title> element")
	}
	if title.FirstChild == nil || title.FirstChild.Kind != dompatch.TextNode {
		t.Fatalf("title children = %+v", title.Children())
	}
	if title.FirstChild.Text != "1 < 2" {
		t.Fatalf("title text = %q", title.FirstChild.Text)
	}
}

func TestTreeBuilderMergesAdjacentTextIntoOneNode(t *testing.T) {
	root, _ := parseToDOM(t, "<p>ab</p>")
	p := findElement(root, "p")
	if p == nil {
		t.Fatalf("expected <p>")
	}
	if p.FirstChild == nil || p.FirstChild.Text != "ab" {
		t.Fatalf("p content = %+v", p.FirstChild)
	}
	if p.FirstChild.NextSibling != nil {
		t.Fatalf("expected a single merged text child, got a sibling: %+v", p.FirstChild.NextSibling)
	}

	// Two text tokens feeding the same parent (a '<' that does not open a tag,
	// which the tokenizer emits as its own text token, is one common source)
	// must merge into that one node
	// via SetText rather than producing two text siblings.
	tb := NewTreeBuilder(atom.New(), input.NewBuffer(1))
	tb.mode = modeInBody
	tb.bodyKey = 1
	tb.docKey = 1
	tb.Feed(Token{Type: TextToken, Text: OwnedText("a")})
	tb.Feed(Token{Type: TextToken, Text: OwnedText("b")})

	setTextCount := 0
	createTextCount := 0
	for _, patch := range tb.Patches {
		switch patch.Kind {
		case dompatch.OpSetText:
			setTextCount++
		case dompatch.OpCreateText:
			createTextCount++
		}
	}
	if createTextCount != 1 || setTextCount != 1 {
		t.Fatalf("createText=%d setText=%d, want 1 and 1", createTextCount, setTextCount)
	}
}
