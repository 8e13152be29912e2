// Package layout implements the inline layout engine of spec.md §4.8: a
// two-pass pipeline (tokenize → assemble line boxes) over a styled DOM
// subtree, plus the hit-testing that maps a point back to a fragment.
package layout

import (
	"github.com/jorisjansen/borrowser-core/css"
	"github.com/jorisjansen/borrowser-core/dompatch"
)

// Rectangle is a layout-coordinate rectangle in CSS px.
type Rectangle struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies within r (inclusive of the far edges, to
// match the teacher's half-open-on-neither-side hit-test convention).
func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// ReplacedKind discriminates the replaced/form-control element kinds that
// can appear as inline content (spec.md §4.8: "image, input, textarea,
// button, checkbox, radio").
type ReplacedKind int

const (
	ReplacedImg ReplacedKind = iota
	ReplacedInputText
	ReplacedCheckbox
	ReplacedRadio
	ReplacedTextarea
	ReplacedButton
)

// TextMeasurer abstracts font metrics so the layout engine stays UI-agnostic.
type TextMeasurer interface {
	// Measure returns the width of text in CSS px under style.
	Measure(text string, style css.ComputedStyle) float64
	// LineHeight returns the line-height in CSS px for style.
	LineHeight(style css.ComputedStyle) float64
}

// Sizer supplies intrinsic margin-box sizes for non-text inline content,
// which this package otherwise has no way to measure on its own.
type Sizer interface {
	// MeasureReplaced returns the margin-box size of a replaced element.
	MeasureReplaced(kind ReplacedKind, node *dompatch.Node, style css.ComputedStyle) (width, height float64)
	// MeasureInlineBlock returns the margin-box size of a generic
	// display:inline-block element.
	MeasureInlineBlock(node *dompatch.Node, style css.ComputedStyle) (width, height float64)
}

// InlineActionKind discriminates the kinds of action a fragment can carry.
type InlineActionKind int

const (
	ActionLink InlineActionKind = iota
)

// InlineAction attaches interactive behavior to a fragment (currently only
// hyperlinks).
type InlineAction struct {
	Target ID
	Kind   InlineActionKind
	Href   string
}

// ID is the node identity used throughout layout and hit-testing; it is the
// same key space the materialized DOM and form-control store use.
type ID = dompatch.PatchKey

// InlineFragmentKind discriminates LineFragment's payload.
type InlineFragmentKind int

const (
	FragmentText InlineFragmentKind = iota
	FragmentBox
	FragmentReplaced
)

// LineFragment is one piece of content placed within a LineBox.
type LineFragment struct {
	Kind InlineFragmentKind

	// Text is populated when Kind == FragmentText.
	Text string
	// Node is the originating element for Box/Replaced fragments (used for
	// hit-test node identity when no more specific action target applies).
	// It is nil for FragmentText: text fragments do not record their text
	// node, so a hit on plain text reports no node id.
	Node *dompatch.Node
	// Replaced is populated when Kind == FragmentReplaced.
	Replaced ReplacedKind
	Style    css.ComputedStyle
	Action   *InlineAction

	// AdvanceRect is the fragment's margin-box rect in layout coordinates,
	// used for inline advance (how much horizontal space this fragment
	// consumes on its line) (spec.md:63).
	AdvanceRect Rectangle
	// PaintRect is the fragment's border-box rect (AdvanceRect shrunk by its
	// style's margins), used for rendering and hit-testing (spec.md:63).
	PaintRect Rectangle

	// SourceRange maps back into a textarea's stored value, when this
	// fragment originated from preserved-mode layout. Nil for ordinary DOM
	// inline layout.
	SourceRange *[2]int

	Ascent       float64
	Descent      float64
	BaselineShift float64
}

// LineBox is one horizontal slice of inline content.
type LineBox struct {
	Fragments   []LineFragment
	Rect        Rectangle
	Baseline    float64
	SourceRange *[2]int
}

// Options configures one inline-layout pass (spec.md §4.8: "Textarea mode
// variant").
type Options struct {
	Padding               float64
	PreserveLeadingSpaces bool
	PreserveEmptyLines    bool
	BreakLongWords        bool
}

// HTMLDefaults are the options used for ordinary DOM-driven inline content.
func HTMLDefaults() Options {
	return Options{Padding: 4}
}

// TextareaDefaults are the options used to lay out a <textarea>'s stored
// value (spec.md §4.8: "Textarea mode variant").
func TextareaDefaults() Options {
	return Options{PreserveLeadingSpaces: true, PreserveEmptyLines: true, BreakLongWords: true}
}

// HitKind discriminates what a hit-test landed on.
type HitKind int

const (
	HitText HitKind = iota
	HitLink
	HitInput
	HitImage
	HitInlineBlockBox
	HitBlockBox
)

// HitResult is the outcome of a point-in-layout query.
type HitResult struct {
	NodeID       ID
	Kind         HitKind
	FragmentRect Rectangle
	LocalX       float64
	LocalY       float64
}
