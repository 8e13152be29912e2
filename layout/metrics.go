package layout

import "github.com/jorisjansen/borrowser-core/css"

// fragmentMetrics is a fragment's ascent/descent split in CSS px.
type fragmentMetrics struct {
	ascent, descent float64
}

func (m fragmentMetrics) height() float64 { return m.ascent + m.descent }

// computeFontMetricsFrom approximates a font's ascent/descent split (spec.md
// §4.8: "ascent = 0.8 × font-size, descent = 0.2 × font-size") and
// distributes any extra line-height as half-leading above and below.
func computeFontMetricsFrom(fontPx, lineHeight float64) fragmentMetrics {
	if fontPx < 0 {
		fontPx = 0
	}
	if lineHeight < 0 {
		lineHeight = 0
	}

	fontAscent := fontPx * 0.8
	fontDescent := fontPx - fontAscent

	emHeight := fontAscent + fontDescent
	leading := lineHeight - emHeight
	if leading < 0 {
		leading = 0
	}
	halfLeading := leading * 0.5

	ascent := halfLeading + fontAscent
	if ascent > lineHeight {
		ascent = lineHeight
	}
	descent := lineHeight - ascent
	if descent < 0 {
		descent = 0
	}
	return fragmentMetrics{ascent: ascent, descent: descent}
}

func computeTextMetrics(measurer TextMeasurer, style css.ComputedStyle) fragmentMetrics {
	lineHeight := measurer.LineHeight(style)
	return computeFontMetricsFrom(style.FontSize.Px(), lineHeight)
}

// computeStrutMetrics returns the minimum line-box height/metrics derived
// from the containing block's font, even for lines with only replaced
// content (spec.md §4.8: "the line strut").
func computeStrutMetrics(measurer TextMeasurer, blockStyle css.ComputedStyle, availableHeight float64) (float64, fragmentMetrics) {
	strutFontPx := blockStyle.FontSize.Px()
	baseLineHeight := measurer.LineHeight(blockStyle)

	if baseLineHeight > availableHeight && availableHeight > 0 {
		strutFontPx = availableHeight / 1.2
		if strutFontPx < 8 {
			strutFontPx = 8
		}
		fake := blockStyle
		fake.FontSize.Value = strutFontPx
		baseLineHeight = measurer.LineHeight(fake)
	}

	return baseLineHeight, computeFontMetricsFrom(strutFontPx, baseLineHeight)
}

// replacedBaselineMetrics treats a replaced element's bottom margin edge as
// its baseline (CSS2.1 replaced-element baseline convention).
func replacedBaselineMetrics(height float64) fragmentMetrics {
	if height < 0 {
		height = 0
	}
	return fragmentMetrics{ascent: height, descent: 0}
}

// inlineBlockBaselineMetrics is the same bottom-edge placeholder, pending a
// future extension that descends into an inline-block's own line boxes to
// find its true last-line baseline.
func inlineBlockBaselineMetrics(height float64) fragmentMetrics {
	return replacedBaselineMetrics(height)
}
