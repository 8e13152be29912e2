package css

import (
	"sort"
	"strings"

	"github.com/jorisjansen/borrowser-core/dompatch"
)

// Specificity is the (id, class, type) tuple compared lexicographically
// (spec.md §4.6).
type Specificity struct {
	ID, Class, Type int
}

// Less reports whether s sorts before other (lower specificity).
func (s Specificity) Less(other Specificity) bool {
	if s.ID != other.ID {
		return s.ID < other.ID
	}
	if s.Class != other.Class {
		return s.Class < other.Class
	}
	return s.Type < other.Type
}

func specificityOf(sel Selector) Specificity {
	switch sel.Kind {
	case IDSelector:
		return Specificity{ID: 1}
	case ClassSelector:
		return Specificity{Class: 1}
	case TypeSelector:
		return Specificity{Type: 1}
	default: // Universal
		return Specificity{}
	}
}

// inlineSpecificity is higher than any selector-based specificity can reach
// (spec.md §4.6: "inline wins all rule conflicts").
var inlineSpecificity = Specificity{ID: 2}

type candidate struct {
	property    string
	value       string
	specificity Specificity
	order       int
}

func attrValue(attrs []dompatch.AttrPair, name string) (string, bool) {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			if a.Value == nil {
				return "", true
			}
			return *a.Value, true
		}
	}
	return "", false
}

func matchesSelector(name string, attrs []dompatch.AttrPair, sel Selector) bool {
	switch sel.Kind {
	case Universal:
		return true
	case TypeSelector:
		return strings.EqualFold(name, sel.Value)
	case IDSelector:
		v, ok := attrValue(attrs, "id")
		return ok && v == sel.Value
	case ClassSelector:
		v, ok := attrValue(attrs, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == sel.Value {
				return true
			}
		}
		return false
	}
	return false
}

// MatchedStyle maps property name to the winning declared value for one
// element, for callers that want the raw cascade result before computing
// inherited values.
type MatchedStyle map[string]string

// Match runs the cascade algorithm of spec.md §4.6 step 1-4 for one element
// against sheet, folding in its inline `style` attribute.
func Match(sheet Stylesheet, name string, attrs []dompatch.AttrPair) MatchedStyle {
	var candidates []candidate

	if inline, ok := attrValue(attrs, "style"); ok {
		for _, d := range ParseDeclarations(inline) {
			candidates = append(candidates, candidate{
				property:    d.Name,
				value:       d.Value,
				specificity: inlineSpecificity,
				order:       1 << 30, // document order cannot exceed a real stylesheet's rule count
			})
		}
	}

	for order, rule := range sheet.Rules {
		matched := false
		best := Specificity{}
		for _, sel := range rule.Selectors {
			if matchesSelector(name, attrs, sel) {
				matched = true
				sp := specificityOf(sel)
				if best.Less(sp) {
					best = sp
				}
			}
		}
		if !matched {
			continue
		}
		for _, d := range rule.Declarations {
			candidates = append(candidates, candidate{
				property:    d.Name,
				value:       d.Value,
				specificity: best,
				order:       order,
			})
		}
	}

	// Highest (specificity, order) wins per property; stable sort then take
	// the last candidate per property (spec.md §4.6 steps 2-3).
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})

	result := make(MatchedStyle)
	for _, c := range candidates {
		result[c.property] = c.value
	}
	return result
}
