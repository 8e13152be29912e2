package css

import "testing"

func TestComputeInitialValues(t *testing.T) {
	style := Compute(MatchedStyle{}, nil)
	if style.Color != (RGBA{0, 0, 0, 255}) {
		t.Fatalf("initial color = %+v", style.Color)
	}
	if style.BackgroundColor != (RGBA{0, 0, 0, 0}) {
		t.Fatalf("initial background-color = %+v", style.BackgroundColor)
	}
	if style.FontSize.Px() != 16 {
		t.Fatalf("initial font-size = %v", style.FontSize.Px())
	}
}

func TestComputeInheritsColorAndFontSizeNotBackground(t *testing.T) {
	parent := Compute(MatchedStyle{"color": "red", "font-size": "20px", "background-color": "blue"}, nil)
	child := Compute(MatchedStyle{}, &parent)

	if child.Color != parent.Color {
		t.Fatalf("color not inherited: child=%+v parent=%+v", child.Color, parent.Color)
	}
	if child.FontSize.Px() != parent.FontSize.Px() {
		t.Fatalf("font-size not inherited: child=%v parent=%v", child.FontSize.Px(), parent.FontSize.Px())
	}
	if child.BackgroundColor == parent.BackgroundColor {
		t.Fatalf("background-color should not be inherited, got %+v", child.BackgroundColor)
	}
}

func TestComputeSpecifiedOverridesInherited(t *testing.T) {
	parent := Compute(MatchedStyle{"color": "red"}, nil)
	child := Compute(MatchedStyle{"color": "blue"}, &parent)
	if child.Color != (RGBA{0, 0, 255, 255}) {
		t.Fatalf("color = %+v, want blue", child.Color)
	}
}

func TestComputeInvalidValueKeepsInheritedOrInitial(t *testing.T) {
	style := Compute(MatchedStyle{"color": "not-a-color"}, nil)
	if style.Color != (RGBA{0, 0, 0, 255}) {
		t.Fatalf("color = %+v, want initial black when value is invalid", style.Color)
	}
}

func TestComputeBoxMetricsAndSizeConstraints(t *testing.T) {
	style := Compute(MatchedStyle{
		"width":          "100px",
		"height":         "50px",
		"min-width":      "10px",
		"max-width":      "200px",
		"padding-top":    "4px",
		"padding-right":  "4px",
		"padding-bottom": "4px",
		"padding-left":   "4px",
		"margin-top":     "-2px",
		"margin-left":    "0px",
	}, nil)

	if style.Width == nil || style.Width.Px() != 100 {
		t.Fatalf("width = %+v, want 100px", style.Width)
	}
	if style.Height == nil || style.Height.Px() != 50 {
		t.Fatalf("height = %+v, want 50px", style.Height)
	}
	if style.MinWidth == nil || style.MinWidth.Px() != 10 {
		t.Fatalf("min-width = %+v, want 10px", style.MinWidth)
	}
	if style.MaxWidth == nil || style.MaxWidth.Px() != 200 {
		t.Fatalf("max-width = %+v, want 200px", style.MaxWidth)
	}
	want := BoxMetrics{
		PaddingTop: 4, PaddingRight: 4, PaddingBottom: 4, PaddingLeft: 4,
		MarginTop: -2, MarginRight: 0, MarginBottom: 0, MarginLeft: 0,
	}
	if style.Box != want {
		t.Fatalf("box = %+v, want %+v", style.Box, want)
	}
}

func TestComputeSizeAndBoxMetricsNotInherited(t *testing.T) {
	parent := Compute(MatchedStyle{"width": "100px", "padding-top": "4px", "margin-left": "8px"}, nil)
	child := Compute(MatchedStyle{}, &parent)

	if child.Width != nil {
		t.Fatalf("width should not be inherited, got %+v", child.Width)
	}
	if child.Box != (BoxMetrics{}) {
		t.Fatalf("box metrics should not be inherited, got %+v", child.Box)
	}
}

func TestParseNonNegativeLengthRejectsNegativeAllowsZero(t *testing.T) {
	if _, ok := ParseNonNegativeLength("-1px"); ok {
		t.Fatalf("ParseNonNegativeLength(-1px) unexpectedly succeeded")
	}
	if l, ok := ParseNonNegativeLength("0px"); !ok || l.Px() != 0 {
		t.Fatalf("ParseNonNegativeLength(0px) = %+v, %v", l, ok)
	}
}

func TestParseMarginLengthAllowsNegative(t *testing.T) {
	l, ok := ParseMarginLength("-5px")
	if !ok || l.Px() != -5 {
		t.Fatalf("ParseMarginLength(-5px) = %+v, %v", l, ok)
	}
}
