package html5

import (
	"testing"

	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/input"
)

func tokenizeAll(t *testing.T, chunks []string) ([]Token, *atom.Table) {
	t.Helper()
	atoms := atom.New()
	buf := input.NewBuffer(1)
	dec := input.NewDecoder()
	tz := NewTokenizer(atoms, buf.ID())

	for _, c := range chunks {
		dec.Write([]byte(c), buf)
		tz.Push(buf)
	}
	dec.Finish(buf)
	tz.Finish(buf)
	return tz.Tokens, atoms
}

// S1 from spec.md §8: splitting "<div" across every byte boundary must
// produce the same number of tokens, of the same types, as pushing it whole.
func TestChunkInvarianceAcrossTagSplit(t *testing.T) {
	full := "<div id=\"x\">hi</div>"
	want, _ := tokenizeAll(t, []string{full})

	for split := 0; split <= len(full); split++ {
		got, _ := tokenizeAll(t, []string{full[:split], full[split:]})
		if len(got) != len(want) {
			t.Fatalf("split=%d: got %d tokens, want %d", split, len(got), len(want))
		}
		for i := range got {
			if got[i].Type != want[i].Type {
				t.Fatalf("split=%d token[%d]: type %v != %v", split, i, got[i].Type, want[i].Type)
			}
		}
	}
}

// S2 from spec.md §8: adversarial raw-text content containing a false
// close-tag prefix must not terminate the script element early. The input is
// pushed whole here; TestRawTextChunkInvariance covers chunk splits.
func TestRawTextAdversarialFalseCloseTag(t *testing.T) {
	full := "<script>a</scri<pt</script>"
	toks, atoms := tokenizeAll(t, []string{full})

	if len(toks) < 3 {
		t.Fatalf("expected at least StartTag, Text, EndTag; got %d tokens", len(toks))
	}
	if toks[0].Type != StartTagToken || atoms.ResolveString(toks[0].Name) != "script" {
		t.Fatalf("token[0] = %+v, want <script> start tag", toks[0])
	}

	var text string
	sawEnd := false
	for _, tok := range toks[1:] {
		if tok.Type == TextToken {
			text += tok.Text.owned
		}
		if tok.Type == EndTagToken && atoms.ResolveString(tok.Name) == "script" {
			sawEnd = true
		}
	}
	if text != "a</scri<pt" {
		t.Fatalf("raw text = %q, want %q", text, "a</scri<pt")
	}
	if !sawEnd {
		t.Fatalf("expected a closing </script> tag, tokens: %+v", toks)
	}
}

func TestRawTextChunkInvariance(t *testing.T) {
	full := "<script>a</scri<pt</script>"
	want, _ := tokenizeAll(t, []string{full})

	for split := 0; split <= len(full); split++ {
		got, _ := tokenizeAll(t, []string{full[:split], full[split:]})
		if len(got) != len(want) {
			t.Fatalf("split=%d: got %d tokens, want %d", split, len(got), len(want))
		}
	}
}

func TestStartTagWithAttributes(t *testing.T) {
	toks, atoms := tokenizeAll(t, []string{`<a href="/x" class='y' disabled>`})
	if len(toks) != 2 { // start tag + EOF
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	tag := toks[0]
	if tag.Type != StartTagToken || atoms.ResolveString(tag.Name) != "a" {
		t.Fatalf("tag = %+v", tag)
	}
	if len(tag.Attrs) != 3 {
		t.Fatalf("got %d attrs, want 3: %+v", len(tag.Attrs), tag.Attrs)
	}
	href, _ := tag.Attrs[0].Value.Resolve(nil)
	if atoms.ResolveString(tag.Attrs[0].Name) != "href" || href != "/x" {
		t.Fatalf("attr[0] = %+v", tag.Attrs[0])
	}
	if tag.Attrs[2].HasValue {
		t.Fatalf("boolean attribute should have HasValue=false: %+v", tag.Attrs[2])
	}
}

func TestDuplicateAttributeKeepsFirst(t *testing.T) {
	toks, atoms := tokenizeAll(t, []string{`<div class="a" class="b">`})
	tag := toks[0]
	if len(tag.Attrs) != 1 {
		t.Fatalf("got %d attrs, want 1 (dedup): %+v", len(tag.Attrs), tag.Attrs)
	}
	val, _ := tag.Attrs[0].Value.Resolve(nil)
	if val != "a" {
		t.Fatalf("value = %q, want %q (first occurrence wins)", val, "a")
	}
	_ = atoms
}

func TestVoidElementIsSelfClosing(t *testing.T) {
	toks, atoms := tokenizeAll(t, []string{`<br>`})
	if !toks[0].SelfClosing {
		t.Fatalf("void element should be self-closing: %+v", toks[0])
	}
	if atoms.ResolveString(toks[0].Name) != "br" {
		t.Fatalf("wrong name: %+v", toks[0])
	}
}

func TestCommentToken(t *testing.T) {
	toks, _ := tokenizeAll(t, []string{"<!-- hello -->"})
	if toks[0].Type != CommentToken {
		t.Fatalf("got %+v", toks[0])
	}
	text, _ := toks[0].Text.Resolve(nil)
	if text != " hello " {
		t.Fatalf("comment text = %q", text)
	}
}

func TestCommentSplitAcrossDashes(t *testing.T) {
	full := "<!-- hi -->"
	want, _ := tokenizeAll(t, []string{full})
	for split := 0; split <= len(full); split++ {
		got, _ := tokenizeAll(t, []string{full[:split], full[split:]})
		if len(got) != len(want) || got[0].Type != CommentToken {
			t.Fatalf("split=%d: got %+v", split, got)
		}
	}
}

func TestDoctypeToken(t *testing.T) {
	toks, atoms := tokenizeAll(t, []string{"<!DOCTYPE html>"})
	if toks[0].Type != DoctypeToken {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[0].DoctypeName == nil || atoms.ResolveString(*toks[0].DoctypeName) != "html" {
		t.Fatalf("doctype name = %+v", toks[0].DoctypeName)
	}
}

func TestEntityDecodingInTextAndAttributes(t *testing.T) {
	toks, _ := tokenizeAll(t, []string{`<a title="x &amp; y">a &lt; b</a>`})
	title, _ := toks[0].Attrs[0].Value.Resolve(nil)
	if title != "x & y" {
		t.Fatalf("title = %q", title)
	}
	text, _ := toks[1].Text.Resolve(nil)
	if text != "a < b" {
		t.Fatalf("text = %q", text)
	}
}

func TestEOFTokenTerminatesStream(t *testing.T) {
	toks, _ := tokenizeAll(t, []string{"hi"})
	last := toks[len(toks)-1]
	if last.Type != EOFToken {
		t.Fatalf("last token = %+v, want EOF", last)
	}
}

func TestUnterminatedTagAtEOFBecomesText(t *testing.T) {
	toks, _ := tokenizeAll(t, []string{"<div id="})
	found := false
	for _, tok := range toks {
		if tok.Type == TextToken {
			if v, _ := tok.Text.Resolve(nil); v == "<div id=" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected the dangling tag to surface as text, got %+v", toks)
	}
}

func TestByteAtATimeChunking(t *testing.T) {
	full := `<p class="x">Hello, <b>world</b>!</p>`
	chunks := make([]string, len(full))
	for i, b := range []byte(full) {
		chunks[i] = string([]byte{b})
	}
	want, _ := tokenizeAll(t, []string{full})
	got, _ := tokenizeAll(t, chunks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i].Type {
			t.Fatalf("token[%d]: %v != %v", i, got[i].Type, want[i].Type)
		}
	}
}
