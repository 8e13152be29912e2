package layout

import "github.com/jorisjansen/borrowser-core/css"

// pos is a layout cursor position.
type pos struct{ x, y float64 }

// margins holds a box's margin widths in CSS px.
type margins struct{ left, right, top, bottom float64 }

// marginsOf reads a fragment's resolved margins out of its computed style
// (spec.md:57's BoxMetrics).
func marginsOf(style css.ComputedStyle) margins {
	return margins{
		left:   style.Box.MarginLeft,
		right:  style.Box.MarginRight,
		top:    style.Box.MarginTop,
		bottom: style.Box.MarginBottom,
	}
}

// splitMarginAndPaintRect turns a cursor position, a margin-box size, and
// margins into the margin-box rect (used for inline advance) and the
// border-box rect (used for painting/hit-testing). Negative margins are
// allowed; the paint rect may extend outside the advance rect.
func splitMarginAndPaintRect(cursor pos, marginBoxW, marginBoxH float64, m margins) (advance, paint Rectangle) {
	advance = Rectangle{X: cursor.x, Y: cursor.y, Width: marginBoxW, Height: marginBoxH}

	paintW := marginBoxW - m.left - m.right
	paintH := marginBoxH - m.top - m.bottom
	if paintW < 0 {
		paintW = 0
	}
	if paintH < 0 {
		paintH = 0
	}
	paint = Rectangle{X: cursor.x + m.left, Y: cursor.y + m.top, Width: paintW, Height: paintH}
	return advance, paint
}
