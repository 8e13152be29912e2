// Package css implements the simple selector/cascade subset of spec.md §4.6:
// a stylesheet parser, specificity-based cascade, and computed-style
// resolution over a dompatch.Node tree.
package css

import "strings"

// Declaration is a single "property: value" pair.
type Declaration struct {
	Name  string
	Value string
}

// SelectorKind discriminates the supported selector shapes.
type SelectorKind int

const (
	Universal SelectorKind = iota
	TypeSelector
	IDSelector
	ClassSelector
)

// Selector is one simple selector (no combinators, no compounds).
type Selector struct {
	Kind  SelectorKind
	Value string // tag name / id / class; unused for Universal
}

// Rule is "selectors { declarations }".
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is a parsed sequence of rules, in document order (Rules[i]'s
// index is its cascade order).
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses the reduced grammar of spec.md §4.6. Malformed rules
// (no declarations, no selectors, unmatched braces) are skipped rather than
// erroring, matching CSS's error-tolerant parsing tradition.
func ParseStylesheet(input string) Stylesheet {
	var sheet Stylesheet
	for _, block := range strings.Split(input, "}") {
		selectorStr, declStr, ok := cutOnce(block, '{')
		if !ok {
			continue
		}
		var selectors []Selector
		for _, s := range strings.Split(selectorStr, ",") {
			if sel, ok := parseSelectorOne(s); ok {
				selectors = append(selectors, sel)
			}
		}
		if len(selectors) == 0 {
			continue
		}
		decls := ParseDeclarations(declStr)
		if len(decls) == 0 {
			continue
		}
		sheet.Rules = append(sheet.Rules, Rule{Selectors: selectors, Declarations: decls})
	}
	return sheet
}

// ParseDeclarations parses "prop: value; prop2: value2" into Declarations,
// lower-casing property names (spec.md §4.6: "lowercase property name").
func ParseDeclarations(input string) []Declaration {
	var out []Declaration
	for _, pair := range strings.Split(input, ";") {
		name, value, ok := cutOnce(pair, ':')
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out = append(out, Declaration{Name: name, Value: strings.TrimSpace(value)})
	}
	return out
}

func cutOnce(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func parseSelectorOne(s string) (Selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, false
	}
	if s == "*" {
		return Selector{Kind: Universal}, true
	}
	if id, ok := strings.CutPrefix(s, "#"); ok {
		return Selector{Kind: IDSelector, Value: strings.TrimSpace(id)}, true
	}
	if class, ok := strings.CutPrefix(s, "."); ok {
		return Selector{Kind: ClassSelector, Value: strings.TrimSpace(class)}, true
	}
	if isSimpleIdent(s) {
		return Selector{Kind: TypeSelector, Value: strings.ToLower(s)}, true
	}
	return Selector{}, false
}

func isSimpleIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		alnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !alnum && c != '-' && c != '_' {
			return false
		}
	}
	return true
}
