package css

import "github.com/jorisjansen/borrowser-core/dompatch"

// BoxMetrics holds the resolved padding and margin widths on all four sides
// of an element's box (spec.md:57). Not inherited; initial value is 0 on
// every side.
type BoxMetrics struct {
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft float64
	MarginTop, MarginRight, MarginBottom, MarginLeft     float64
}

// ComputedStyle is the resolved, inherited style of one element (spec.md
// §4.6 "Computed style resolution").
type ComputedStyle struct {
	// Color is inherited. Initial: black.
	Color RGBA
	// BackgroundColor is not inherited. Initial: transparent.
	BackgroundColor RGBA
	// FontSize is inherited. Initial: 16px.
	FontSize Length
	// Display is not inherited. Initial: inline.
	Display Display

	// Width, Height are not inherited. Initial: auto (nil).
	Width, Height *Length
	// MinWidth is not inherited. Initial: no constraint (nil, treated as 0).
	MinWidth *Length
	// MaxWidth is not inherited. Initial: no constraint (nil, "none").
	MaxWidth *Length

	// Box carries the resolved padding/margin on all four sides. Not
	// inherited. Initial: 0 on every side.
	Box BoxMetrics
}

// InitialStyle returns the CSS initial values used at the root of the
// cascade (no parent to inherit from).
func InitialStyle() ComputedStyle {
	return ComputedStyle{
		Color:           RGBA{0, 0, 0, 255},
		BackgroundColor: RGBA{0, 0, 0, 0},
		FontSize:        Length{Value: 16, Unit: UnitPx},
		Display:         DisplayInline,
	}
}

// Compute resolves matched into a ComputedStyle, inheriting from parent where
// parent is non-nil.
func Compute(matched MatchedStyle, parent *ComputedStyle) ComputedStyle {
	result := InitialStyle()
	if parent != nil {
		result.Color = parent.Color
		result.FontSize = parent.FontSize
		// BackgroundColor, Display, Width/Height/MinWidth/MaxWidth, Box: not
		// inherited; stay at initial.
	}

	for name, value := range matched {
		switch name {
		case "color":
			if c, ok := ParseColor(value); ok {
				result.Color = c
			}
		case "background-color":
			if c, ok := ParseColor(value); ok {
				result.BackgroundColor = c
			}
		case "font-size":
			if l, ok := ParseLength(value); ok {
				result.FontSize = l
			}
		case "display":
			if d, ok := ParseDisplay(value); ok {
				result.Display = d
			}
		case "width":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Width = &l
			}
		case "height":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Height = &l
			}
		case "min-width":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.MinWidth = &l
			}
		case "max-width":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.MaxWidth = &l
			}
		case "padding-top":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Box.PaddingTop = l.Px()
			}
		case "padding-right":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Box.PaddingRight = l.Px()
			}
		case "padding-bottom":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Box.PaddingBottom = l.Px()
			}
		case "padding-left":
			if l, ok := ParseNonNegativeLength(value); ok {
				result.Box.PaddingLeft = l.Px()
			}
		case "margin-top":
			if l, ok := ParseMarginLength(value); ok {
				result.Box.MarginTop = l.Px()
			}
		case "margin-right":
			if l, ok := ParseMarginLength(value); ok {
				result.Box.MarginRight = l.Px()
			}
		case "margin-bottom":
			if l, ok := ParseMarginLength(value); ok {
				result.Box.MarginBottom = l.Px()
			}
		case "margin-left":
			if l, ok := ParseMarginLength(value); ok {
				result.Box.MarginLeft = l.Px()
			}
		}
	}
	return result
}

// StyledNode pairs a dompatch.Node with its computed style, mirroring the DOM
// shape for element nodes (text/comment nodes are not independently styled;
// they inherit their parent element's computed style during layout).
type StyledNode struct {
	Node     *dompatch.Node
	Style    ComputedStyle
	Children []*StyledNode
}

// BuildStyleTree walks root (normally the document node) depth-first,
// matching and computing styles for every element node.
func BuildStyleTree(root *dompatch.Node, sheet Stylesheet) *StyledNode {
	return buildStyleTree(root, sheet, nil)
}

func buildStyleTree(n *dompatch.Node, sheet Stylesheet, parent *ComputedStyle) *StyledNode {
	var style ComputedStyle
	switch n.Kind {
	case dompatch.ElementNode:
		matched := Match(sheet, n.Name, n.Attrs)
		style = Compute(matched, parent)
	case dompatch.DocumentNode:
		style = InitialStyle()
	default:
		// Text/comment nodes inherit directly; they have no selectors to
		// match against.
		if parent != nil {
			style = *parent
		} else {
			style = InitialStyle()
		}
	}

	sn := &StyledNode{Node: n, Style: style}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sn.Children = append(sn.Children, buildStyleTree(c, sheet, &style))
	}
	return sn
}
