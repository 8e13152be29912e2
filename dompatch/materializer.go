package dompatch

// Materializer applies a stream of Patch operations to a live Node arena,
// keyed by PatchKey. It is the "DOM materializer" of spec.md §4.5: a thin,
// order-dependent interpreter with no knowledge of HTML semantics.
type Materializer struct {
	nodes map[PatchKey]*Node
	root  *Node
}

// NewMaterializer returns an empty materializer. Nodes is not usable until an
// initial Clear + CreateDocument patch has been applied.
func NewMaterializer() *Materializer {
	return &Materializer{nodes: make(map[PatchKey]*Node)}
}

// Root returns the document node created by the most recent CreateDocument
// patch, or nil if none has been applied yet.
func (m *Materializer) Root() *Node { return m.root }

// Lookup returns the live node for key, if any.
func (m *Materializer) Lookup(key PatchKey) (*Node, bool) {
	n, ok := m.nodes[key]
	return n, ok
}

// Apply applies a batch of patches in order. On error, the materializer's
// state reflects every patch successfully applied before the failing one;
// callers treat a returned error as fatal to the stream (spec.md §7: patch
// protocol violations are not recoverable mid-batch).
func (m *Materializer) Apply(batch []Patch) error {
	for i, p := range batch {
		if p.Kind == OpClear && i != 0 {
			return ErrMidStreamClear
		}
		if err := m.applyOne(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Materializer) applyOne(p Patch) error {
	switch p.Kind {
	case OpClear:
		m.nodes = make(map[PatchKey]*Node)
		m.root = nil
		return nil

	case OpCreateDocument:
		if _, exists := m.nodes[p.Key]; exists {
			return &DuplicateKeyError{Key: p.Key}
		}
		n := &Node{Key: p.Key, Kind: DocumentNode, Doctype: p.Doctype, HasDoctype: p.HasDoctype}
		m.nodes[p.Key] = n
		m.root = n
		return nil

	case OpCreateElement:
		if _, exists := m.nodes[p.Key]; exists {
			return &DuplicateKeyError{Key: p.Key}
		}
		m.nodes[p.Key] = &Node{Key: p.Key, Kind: ElementNode, Name: p.Name, Attrs: p.Attributes}
		return nil

	case OpCreateText:
		if _, exists := m.nodes[p.Key]; exists {
			return &DuplicateKeyError{Key: p.Key}
		}
		m.nodes[p.Key] = &Node{Key: p.Key, Kind: TextNode, Text: p.Text}
		return nil

	case OpCreateComment:
		if _, exists := m.nodes[p.Key]; exists {
			return &DuplicateKeyError{Key: p.Key}
		}
		m.nodes[p.Key] = &Node{Key: p.Key, Kind: CommentNode, Text: p.Text}
		return nil

	case OpAppendChild:
		parent, ok := m.nodes[p.Parent]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Parent}
		}
		child, ok := m.nodes[p.Child]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Child}
		}
		parent.appendChild(child)
		return nil

	case OpInsertBefore:
		parent, ok := m.nodes[p.Parent]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Parent}
		}
		child, ok := m.nodes[p.Child]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Child}
		}
		before, ok := m.nodes[p.Before]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Before}
		}
		parent.insertBefore(child, before)
		return nil

	case OpRemoveNode:
		n, ok := m.nodes[p.Key]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Key}
		}
		if n.Parent != nil {
			n.Parent.removeChild(n)
		}
		m.forgetSubtree(n)
		return nil

	case OpSetAttributes:
		n, ok := m.nodes[p.Key]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Key}
		}
		if n.Kind != ElementNode {
			return &KindMismatchError{Op: p.Kind, Key: p.Key, NodeKind: n.Kind}
		}
		n.Attrs = p.Attributes
		return nil

	case OpSetText:
		n, ok := m.nodes[p.Key]
		if !ok {
			return &UnknownKeyError{Op: p.Kind, Key: p.Key}
		}
		if n.Kind != TextNode && n.Kind != CommentNode {
			return &KindMismatchError{Op: p.Kind, Key: p.Key, NodeKind: n.Kind}
		}
		n.Text = p.Text
		return nil
	}
	return nil
}

// forgetSubtree removes n and its descendants from the key table; their keys
// become invalid for the remainder of the stream (spec.md §4.5).
func (m *Materializer) forgetSubtree(n *Node) {
	delete(m.nodes, n.Key)
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		m.forgetSubtree(c)
		c = next
	}
}
