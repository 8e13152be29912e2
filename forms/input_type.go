package forms

import (
	"strings"

	"github.com/jorisjansen/borrowser-core/dompatch"
)

// ControlType discriminates the `<input>` kinds the store treats specially.
type ControlType int

const (
	ControlText ControlType = iota
	ControlCheckbox
	ControlRadio
	ControlOther
)

// InputControlType classifies an <input> element by its `type` attribute.
// A missing, valueless or empty type attribute, or "text", gives ControlText;
// "checkbox" and "radio" give their own kinds; any other type gives
// ControlOther.
func InputControlType(n *dompatch.Node) ControlType {
	if n.Kind != dompatch.ElementNode || !strings.EqualFold(n.Name, "input") {
		return ControlOther
	}
	v, ok := n.Attr("type")
	if !ok || v == nil {
		return ControlText
	}
	switch strings.ToLower(strings.TrimSpace(*v)) {
	case "", "text":
		return ControlText
	case "checkbox":
		return ControlCheckbox
	case "radio":
		return ControlRadio
	default:
		return ControlOther
	}
}
