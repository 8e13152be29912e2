package html5

import (
	"github.com/jorisjansen/borrowser-core/atom"
	"github.com/jorisjansen/borrowser-core/dompatch"
	"github.com/jorisjansen/borrowser-core/input"
)

// insertionMode is the tree builder's coarse state, per spec.md §4.4's
// documented subset: the full WHATWG mode list is not implemented.
type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeAfterHead
	modeInBody
	modeText
)

// ScopeKind selects the tag-name boundary set used by findInScope
// (spec.md §4.4).
type ScopeKind int

const (
	InScope ScopeKind = iota
	ButtonScope
	ListItemScope
	TableScope
)

type openElement struct {
	key  dompatch.PatchKey
	name atom.ID
}

// scopeTags caches the atom ids that bound scope searches, so the hot path
// never interns strings.
type scopeTags struct {
	html, table, template, td, th, caption, marquee, object, applet, button, ol, ul atom.ID
}

// TreeBuilder consumes tokens and emits an ordered dompatch.Patch stream,
// maintaining the stack of open elements described in spec.md §4.4. It keeps
// no active formatting list: formatting elements are handled like any other
// element.
type TreeBuilder struct {
	atoms *atom.Table
	buf   *input.Buffer

	mode        insertionMode
	textEndMode insertionMode // mode to restore after a Text-mode element closes

	oe        []openElement
	peakDepth int

	// lastTextKey/lastTextParent/lastTextValue track the most recently
	// inserted text node, so adjacent text tokens merge via SetText instead
	// of each allocating a new sibling (spec.md §4.4). Any non-text
	// insertion under the same parent invalidates this via appendChild.
	lastTextKey    dompatch.PatchKey
	lastTextParent dompatch.PatchKey
	lastTextValue  string

	nextKey dompatch.PatchKey
	docKey  dompatch.PatchKey
	headKey dompatch.PatchKey
	bodyKey dompatch.PatchKey

	tags scopeTags

	Patches []dompatch.Patch

	// ParseErrors counts recoverable HTML-spec violations (spec.md §4.4:
	// "do not halt processing"), e.g. a stray end tag with no matching open
	// element.
	ParseErrors int
}

// NewTreeBuilder returns a tree builder bound to atoms and buf. It
// immediately emits the stream-opening Clear patch.
func NewTreeBuilder(atoms *atom.Table, buf *input.Buffer) *TreeBuilder {
	tb := &TreeBuilder{
		atoms:   atoms,
		buf:     buf,
		mode:    modeInitial,
		nextKey: 1,
		tags: scopeTags{
			html:     atoms.MustIntern("html"),
			table:    atoms.MustIntern("table"),
			template: atoms.MustIntern("template"),
			td:       atoms.MustIntern("td"),
			th:       atoms.MustIntern("th"),
			caption:  atoms.MustIntern("caption"),
			marquee:  atoms.MustIntern("marquee"),
			object:   atoms.MustIntern("object"),
			applet:   atoms.MustIntern("applet"),
			button:   atoms.MustIntern("button"),
			ol:       atoms.MustIntern("ol"),
			ul:       atoms.MustIntern("ul"),
		},
	}
	tb.Patches = append(tb.Patches, dompatch.Clear())
	return tb
}

// Feed processes a single token, appending to Patches as it goes.
func (tb *TreeBuilder) Feed(tok Token) {
	for {
		reprocess := tb.step(tok)
		if !reprocess {
			return
		}
	}
}

func (tb *TreeBuilder) allocKey() dompatch.PatchKey {
	k := tb.nextKey
	tb.nextKey++
	return k
}

// PeakOpenElementDepth reports the largest the stack of open elements ever
// grew to, per spec.md §4.4's backpressure counters.
func (tb *TreeBuilder) PeakOpenElementDepth() int { return tb.peakDepth }

func (tb *TreeBuilder) pushOpen(e openElement) {
	tb.oe = append(tb.oe, e)
	if len(tb.oe) > tb.peakDepth {
		tb.peakDepth = len(tb.oe)
	}
}

func (tb *TreeBuilder) currentParent() dompatch.PatchKey {
	if n := len(tb.oe); n > 0 {
		return tb.oe[n-1].key
	}
	if tb.bodyKey != 0 {
		return tb.bodyKey
	}
	if tb.headKey != 0 {
		return tb.headKey
	}
	return tb.docKey
}

func (tb *TreeBuilder) resolveText(v TextValue) string {
	s, ok := v.Resolve(tb.buf)
	if !ok {
		return ""
	}
	return s
}

// appendChild emits the AppendChild patch and invalidates the pending
// text-merge run, since any non-text insertion breaks the "last child is a
// text node" condition insertText relies on.
func (tb *TreeBuilder) appendChild(parent, child dompatch.PatchKey) {
	tb.Patches = append(tb.Patches, dompatch.AppendChild(parent, child))
	tb.lastTextParent = 0
	tb.lastTextKey = 0
}

// insertText appends text to the current parent, merging into the
// preceding text node via SetText when one is already pending there
// (matches the teacher's addText merge-into-last-text-child behavior).
func (tb *TreeBuilder) insertText(tok Token) {
	text := tb.resolveText(tok.Text)
	if text == "" {
		return
	}
	parent := tb.currentParent()
	if tb.lastTextKey != 0 && tb.lastTextParent == parent {
		tb.lastTextValue += text
		tb.Patches = append(tb.Patches, dompatch.SetText(tb.lastTextKey, tb.lastTextValue))
		return
	}
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateText(key, text))
	tb.appendChild(parent, key)
	tb.lastTextParent = parent
	tb.lastTextKey = key
	tb.lastTextValue = text
}

func (tb *TreeBuilder) insertComment(tok Token) {
	text := tb.resolveText(tok.Text)
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateComment(key, text))
	tb.appendChild(tb.currentParent(), key)
}

func (tb *TreeBuilder) tokenAttrsToPatchAttrs(tok Token) []dompatch.AttrPair {
	if len(tok.Attrs) == 0 {
		return nil
	}
	out := make([]dompatch.AttrPair, 0, len(tok.Attrs))
	for _, a := range tok.Attrs {
		name := tb.atoms.ResolveString(a.Name)
		pair := dompatch.AttrPair{Name: name}
		if a.HasValue {
			v := tb.resolveText(a.Value)
			pair.Value = &v
		}
		out = append(out, pair)
	}
	return out
}

// insertElement emits CreateElement + AppendChild for a start tag, pushing it
// to the open-elements stack unless it is void/self-closing. It returns the
// allocated key.
func (tb *TreeBuilder) insertElement(tok Token) dompatch.PatchKey {
	name := tb.atoms.ResolveString(tok.Name)
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateElement(key, name, tb.tokenAttrsToPatchAttrs(tok)))
	tb.appendChild(tb.currentParent(), key)
	if !tok.SelfClosing {
		tb.pushOpen(openElement{key: key, name: tok.Name})
	}
	return key
}

func isWhitespaceOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWhitespace(s[i]) {
			return false
		}
	}
	return true
}

// step processes tok under the current mode. It returns true if tok must be
// reprocessed (the mode changed without consuming the token).
func (tb *TreeBuilder) step(tok Token) bool {
	switch tb.mode {
	case modeInitial:
		return tb.stepInitial(tok)
	case modeBeforeHTML:
		return tb.stepBeforeHTML(tok)
	case modeBeforeHead:
		return tb.stepBeforeHead(tok)
	case modeInHead:
		return tb.stepInHead(tok)
	case modeAfterHead:
		return tb.stepAfterHead(tok)
	case modeInBody:
		return tb.stepInBody(tok)
	case modeText:
		return tb.stepText(tok)
	}
	return false
}

func (tb *TreeBuilder) emitCreateDocument(doctypeName string, hasDoctype bool) {
	tb.docKey = tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateDocument(tb.docKey, doctypeName, hasDoctype))
}

func (tb *TreeBuilder) stepInitial(tok Token) bool {
	switch tok.Type {
	case DoctypeToken:
		name := ""
		if tok.DoctypeName != nil {
			name = tb.atoms.ResolveString(*tok.DoctypeName)
		}
		tb.emitCreateDocument(name, name != "")
		tb.mode = modeBeforeHTML
		return false
	case CommentToken:
		// Top-level comments before <html> are dropped: the materialized
		// document has no slot for them in this reduced subset.
		return false
	case TextToken:
		if isWhitespaceOnly(tb.resolveText(tok.Text)) {
			return false
		}
	}
	tb.emitCreateDocument("", false)
	tb.mode = modeBeforeHTML
	return true
}

func (tb *TreeBuilder) stepBeforeHTML(tok Token) bool {
	switch tok.Type {
	case CommentToken:
		return false
	case TextToken:
		if isWhitespaceOnly(tb.resolveText(tok.Text)) {
			return false
		}
	case StartTagToken:
		if tb.atoms.ResolveString(tok.Name) == "html" {
			tb.insertElement(tok)
			tb.mode = modeBeforeHead
			return false
		}
	case EndTagToken:
		name := tb.atoms.ResolveString(tok.Name)
		if name != "head" && name != "body" && name != "html" && name != "br" {
			tb.ParseErrors++
			return false
		}
	}
	// Implied <html>.
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateElement(key, "html", nil))
	tb.appendChild(tb.docKey, key)
	tb.pushOpen(openElement{key: key, name: tb.tags.html})
	tb.mode = modeBeforeHead
	return true
}

func (tb *TreeBuilder) stepBeforeHead(tok Token) bool {
	switch tok.Type {
	case CommentToken:
		tb.insertComment(tok)
		return false
	case TextToken:
		if isWhitespaceOnly(tb.resolveText(tok.Text)) {
			return false
		}
	case StartTagToken:
		if tb.atoms.ResolveString(tok.Name) == "head" {
			tb.headKey = tb.insertElement(tok)
			tb.mode = modeInHead
			return false
		}
	case EndTagToken:
		name := tb.atoms.ResolveString(tok.Name)
		if name != "head" && name != "body" && name != "html" && name != "br" {
			tb.ParseErrors++
			return false
		}
	}
	// Implied <head>.
	headName := tb.atoms.MustIntern("head")
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateElement(key, "head", nil))
	tb.appendChild(tb.currentParent(), key)
	tb.pushOpen(openElement{key: key, name: headName})
	tb.headKey = key
	tb.mode = modeInHead
	return true
}

func (tb *TreeBuilder) stepInHead(tok Token) bool {
	switch tok.Type {
	case CommentToken:
		tb.insertComment(tok)
		return false
	case TextToken:
		if isWhitespaceOnly(tb.resolveText(tok.Text)) {
			tb.insertText(tok)
			return false
		}
	case StartTagToken:
		name := tb.atoms.ResolveString(tok.Name)
		switch name {
		case "meta", "link", "base":
			tb.insertElement(tok)
			return false
		case "title", "script", "style":
			tb.insertElement(tok)
			tb.textEndMode = modeInHead
			tb.mode = modeText
			return false
		}
	case EndTagToken:
		if tb.atoms.ResolveString(tok.Name) == "head" {
			tb.popOpen()
			tb.mode = modeAfterHead
			return false
		}
		tb.ParseErrors++
		return false
	}
	// Anything else: close head implicitly and reprocess.
	tb.popOpen()
	tb.mode = modeAfterHead
	return true
}

func (tb *TreeBuilder) stepAfterHead(tok Token) bool {
	switch tok.Type {
	case CommentToken:
		tb.insertComment(tok)
		return false
	case TextToken:
		if isWhitespaceOnly(tb.resolveText(tok.Text)) {
			tb.insertText(tok)
			return false
		}
	case StartTagToken:
		name := tb.atoms.ResolveString(tok.Name)
		if name == "body" {
			tb.bodyKey = tb.insertElement(tok)
			tb.mode = modeInBody
			return false
		}
		if name == "head" {
			tb.ParseErrors++
			return false
		}
	}
	// Implied <body>.
	bodyName := tb.atoms.MustIntern("body")
	key := tb.allocKey()
	tb.Patches = append(tb.Patches, dompatch.CreateElement(key, "body", nil))
	tb.appendChild(tb.currentParent(), key)
	tb.pushOpen(openElement{key: key, name: bodyName})
	tb.bodyKey = key
	tb.mode = modeInBody
	return true
}

func (tb *TreeBuilder) stepInBody(tok Token) bool {
	switch tok.Type {
	case TextToken:
		tb.insertText(tok)
		return false
	case CommentToken:
		tb.insertComment(tok)
		return false
	case StartTagToken:
		name := tb.atoms.ResolveString(tok.Name)
		tb.insertElement(tok)
		if rawTextElements[name] {
			tb.textEndMode = modeInBody
			tb.mode = modeText
		}
		return false
	case EndTagToken:
		tb.endTagInBody(tok)
		return false
	case EOFToken:
		return false
	}
	return false
}

func (tb *TreeBuilder) stepText(tok Token) bool {
	switch tok.Type {
	case TextToken:
		tb.insertText(tok)
		return false
	case EndTagToken, EOFToken:
		// A script/style element's content ends its text run on any end tag
		// (normally the matching one, emitted by the tokenizer's raw-text
		// scanner) or at EOF.
		tb.popOpen()
		tb.mode = tb.textEndMode
		return false
	}
	return false
}

// endTagInBody implements the essential subset of spec.md §4.4's end-tag
// handling: walk the stack for a matching element in scope and pop through
// it, tolerating unclosed intervening elements.
func (tb *TreeBuilder) endTagInBody(tok Token) {
	idx := tb.findInScope(tok.Name, InScope)
	if idx < 0 {
		tb.ParseErrors++
		return
	}
	tb.oe = tb.oe[:idx]
}

func (tb *TreeBuilder) popOpen() {
	if len(tb.oe) == 0 {
		return
	}
	tb.oe = tb.oe[:len(tb.oe)-1]
}

// findInScope returns the index of the matching element if target is
// reachable within kind's scope boundary, or -1 otherwise.
func (tb *TreeBuilder) findInScope(target atom.ID, kind ScopeKind) int {
	for i := len(tb.oe) - 1; i >= 0; i-- {
		name := tb.oe[i].name
		if name == target {
			return i
		}
		if tb.isScopeBoundary(name, kind) {
			return -1
		}
	}
	return -1
}

func (tb *TreeBuilder) isScopeBoundary(name atom.ID, kind ScopeKind) bool {
	t := tb.tags
	base := name == t.html || name == t.table || name == t.template ||
		name == t.td || name == t.th || name == t.caption || name == t.marquee ||
		name == t.object || name == t.applet
	switch kind {
	case InScope:
		return base
	case ButtonScope:
		return base || name == t.button
	case ListItemScope:
		return base || name == t.ol || name == t.ul
	case TableScope:
		return name == t.html || name == t.table || name == t.template
	}
	return base
}
