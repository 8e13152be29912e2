package layout

import "github.com/jorisjansen/borrowser-core/css"

// breakWordPrefixEnd returns the byte index at which to cut text so its
// prefix fits within maxW CSS px, via binary search over UTF-8 char
// boundaries (spec.md §4.8: "break-word: repeatedly cut a prefix sized to
// fit via binary search on char boundaries").
func breakWordPrefixEnd(measurer TextMeasurer, style css.ComputedStyle, text string, maxW float64) int {
	if text == "" {
		return 0
	}
	if maxW < 0 {
		maxW = 0
	}

	var ends []int
	for i := range text {
		ends = append(ends, i)
	}
	ends = ends[1:] // drop the 0 index; we want end offsets, not starts
	ends = append(ends, len(text))

	fallbackOneChar := len(text)
	if len(ends) > 0 {
		fallbackOneChar = ends[0]
	}

	lo, hi := 0, len(ends)
	best := -1
	for lo < hi {
		mid := (lo + hi) / 2
		end := ends[mid]
		w := measurer.Measure(text[:end], style)
		if w <= maxW {
			best = end
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if best < 0 {
		best = fallbackOneChar
	}
	if best > len(text) {
		best = len(text)
	}
	return best
}
