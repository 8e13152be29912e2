package forms

import (
	"strings"

	"github.com/jorisjansen/borrowser-core/dompatch"
)

// radioSelection records, during seeding, whether a group's current checked
// member came from stored (user) state or merely from an HTML default.
type radioSelectionKind int

const (
	radioLocked radioSelectionKind = iota // from prior stored state; HTML defaults must yield to it
	radioSeeded                           // from an HTML `checked` default; another later default can still win
)

type radioSelection struct {
	kind radioSelectionKind
	id   ID
}

// SeedFromDOM walks root and seeds store with every unregistered input's
// initial value/checked state, registering radio group membership along the
// way (spec.md §4.7). Already-present entries are left untouched except for
// radio-group exclusivity conflict resolution (stored-checked state wins
// over a conflicting HTML default; see S3/S4 in spec.md §8).
func SeedFromDOM(store *ValueStore, root *dompatch.Node) *FormControlIndex {
	index := newFormControlIndex()
	groupByKey := make(map[radioGroupKey]int)
	selections := make(map[int]radioSelection)

	var documentScope ID
	if root.Kind == dompatch.DocumentNode {
		documentScope = root.Key
	}

	walkSeed(store, root, documentScope, groupByKey, index, selections)
	return index
}

func walkSeed(
	store *ValueStore,
	n *dompatch.Node,
	scopeID ID,
	groupByKey map[radioGroupKey]int,
	index *FormControlIndex,
	selections map[int]radioSelection,
) {
	switch n.Kind {
	case dompatch.ElementNode:
		switch {
		case strings.EqualFold(n.Name, "input"):
			seedInput(store, n, scopeID, groupByKey, index, selections)
		case strings.EqualFold(n.Name, "textarea"):
			seedTextarea(store, n)
		}

		childScope := scopeID
		if strings.EqualFold(n.Name, "form") {
			childScope = n.Key
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkSeed(store, c, childScope, groupByKey, index, selections)
		}

	case dompatch.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkSeed(store, c, scopeID, groupByKey, index, selections)
		}

	default: // text, comment: no form controls, no children worth walking
	}
}

func attrString(n *dompatch.Node, name string) (string, bool) {
	v, ok := n.Attr(name)
	if !ok || v == nil {
		return "", ok
	}
	return *v, true
}

func hasAttr(n *dompatch.Node, name string) bool {
	_, ok := n.Attr(name)
	return ok
}

func radioGroupKeyFor(n *dompatch.Node, scopeID ID) (radioGroupKey, bool) {
	name, ok := attrString(n, "name")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return radioGroupKey{}, false
	}
	return radioGroupKey{scopeID: scopeID, name: name}, true
}

func seedInput(
	store *ValueStore,
	n *dompatch.Node,
	scopeID ID,
	groupByKey map[radioGroupKey]int,
	index *FormControlIndex,
	selections map[int]radioSelection,
) {
	id := n.Key
	present := store.Has(id)

	switch InputControlType(n) {
	case ControlText:
		if present {
			return
		}
		initial, _ := attrString(n, "value")
		store.EnsureInitial(id, initial)

	case ControlCheckbox:
		if present {
			return
		}
		store.EnsureInitialChecked(id, hasAttr(n, "checked"))

	case ControlRadio:
		key, hasKey := radioGroupKeyFor(n, scopeID)
		var groupID int
		if hasKey {
			groupID = index.Radio.ensureGroupID(groupByKey, key)
			index.Radio.addRadioToGroup(groupID, id)
		}

		if present {
			if !hasKey || !store.IsChecked(id) {
				return
			}
			resolveSeedConflict(store, selections, groupID, radioSelection{kind: radioLocked, id: id})
			return
		}

		wantsChecked := hasAttr(n, "checked")
		store.EnsureInitialChecked(id, wantsChecked)
		if !hasKey {
			return
		}

		switch prev, ok := selections[groupID]; {
		case ok && prev.kind == radioLocked:
			// Preserve existing (user) group selection over HTML defaults.
			store.SetChecked(id, false)
		case ok && prev.kind == radioSeeded:
			if wantsChecked {
				store.SetChecked(prev.id, false)
				selections[groupID] = radioSelection{kind: radioSeeded, id: id}
			}
		default:
			if wantsChecked {
				selections[groupID] = radioSelection{kind: radioSeeded, id: id}
			}
		}

	case ControlOther:
	}
}

// resolveSeedConflict reconciles an already-checked-and-stored radio against
// whatever this seeding pass has already chosen for its group: stored state
// always wins, so a previously seeded HTML-default member is unchecked.
func resolveSeedConflict(store *ValueStore, selections map[int]radioSelection, groupID int, cur radioSelection) {
	prev, ok := selections[groupID]
	switch {
	case !ok:
		selections[groupID] = cur
	case prev.kind == radioSeeded:
		store.SetChecked(prev.id, false)
		selections[groupID] = cur
	case prev.kind == radioLocked && prev.id != cur.id:
		// Keep the first observed locked selection to maintain exclusivity.
		store.SetChecked(cur.id, false)
	}
}

func seedTextarea(store *ValueStore, n *dompatch.Node) {
	id := n.Key
	if store.Has(id) {
		return
	}
	var text strings.Builder
	collectText(n, &text)
	initial := NormalizeNewlines(text.String())
	// HTML textarea parsing: a single leading LF in the source is stripped.
	initial = strings.TrimPrefix(initial, "\n")
	store.EnsureInitial(id, initial)
}

func collectText(n *dompatch.Node, out *strings.Builder) {
	switch n.Kind {
	case dompatch.TextNode:
		out.WriteString(n.Text)
	case dompatch.ElementNode, dompatch.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(c, out)
		}
	}
}
