package layout

import (
	"reflect"
	"strings"
	"testing"
)

// fixedMeasurer is a minimal Measurer for tests: every rune is a fixed
// fraction of the font size wide, independent of the family group.
type fixedMeasurer struct{ perRune float64 }

func (m fixedMeasurer) TextWidth(text string, _ FontStyle, sizePx float64) float64 {
	n := 0
	for range text {
		n++
	}
	per := m.perRune
	if per <= 0 {
		per = 0.5
	}
	return float64(n) * per * sizePx
}

func baseStyle() Style {
	return Style{
		FontStyle:    FontModern,
		TextColor:    "#ffffff",
		TextPosition: PositionCenter,
		OutlineWidth: 8,
		FontSize:     40,
	}
}

func TestLayoutWrapWidth(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	style := baseStyle()
	text := strings.TrimSpace(strings.Repeat("carousel slide words ", 12))

	res := Layout(text, style, CanvasWidth, CanvasHeight, m)
	limit := CanvasWidth - 160
	for i, line := range res.Lines {
		if w := m.TextWidth(line, style.FontStyle, float64(style.FontSize)); w > limit {
			t.Errorf("line %d measures %.1f, want <= %.1f: %q", i, w, limit, line)
		}
	}
	if got := strings.Fields(strings.Join(res.Lines, " ")); !reflect.DeepEqual(got, strings.Fields(text)) {
		t.Error("wrapping changed the word sequence")
	}
}

func TestLayoutAlwaysAtLeastOneLine(t *testing.T) {
	m := fixedMeasurer{}
	for _, text := range []string{"", "   ", "word"} {
		res := Layout(text, baseStyle(), CanvasWidth, CanvasHeight, m)
		if len(res.Lines) == 0 {
			t.Errorf("Layout(%q) produced no lines", text)
		}
	}
}

func TestLayoutUnbreakableWordKeptWhole(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	long := strings.Repeat("x", 200) // 200*0.5*40 = 4000 > limit
	res := Layout("tiny "+long+" tail", baseStyle(), CanvasWidth, CanvasHeight, m)
	found := false
	for _, line := range res.Lines {
		if line == long {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized word was shortened or merged: %v", res.Lines)
	}
}

func TestLayoutVerticalAnchor(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	style := baseStyle()
	text := "two words here to make a couple of lines for the block geometry"

	center := Layout(text, style, CanvasWidth, CanvasHeight, m)
	if center.AnchorY != CanvasHeight/2 {
		t.Errorf("center anchor = %g, want %g", center.AnchorY, CanvasHeight/2)
	}

	style.TextPosition = PositionTop
	top := Layout(text, style, CanvasWidth, CanvasHeight, m)
	textHeight := float64(len(top.Lines)) * top.LineHeight
	wantTop := 80 + textHeight/2 + float64(style.OutlineWidth)/2 + 20
	if top.AnchorY != wantTop {
		t.Errorf("top anchor = %g, want %g", top.AnchorY, wantTop)
	}

	style.TextPosition = PositionBottom
	bottom := Layout(text, style, CanvasWidth, CanvasHeight, m)
	wantBottom := CanvasHeight - 80 - textHeight/2 - float64(style.OutlineWidth)/2 - 20
	if bottom.AnchorY != wantBottom {
		t.Errorf("bottom anchor = %g, want %g", bottom.AnchorY, wantBottom)
	}
}

func TestLayoutClampShiftsBlockAsUnit(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	style := baseStyle()
	style.FontSize = 120
	style.TextPosition = PositionTop
	// Enough text that the block overflows the canvas top-down.
	text := strings.TrimSpace(strings.Repeat("overflowing block line ", 20))

	res := Layout(text, style, CanvasWidth, CanvasHeight, m)
	minY := float64(style.FontSize)/2 + float64(style.OutlineWidth)/2 + 10
	if res.StartY < minY {
		t.Errorf("first line center %g violates top bound %g", res.StartY, minY)
	}
	// Line spacing must survive the shift: positions stay an exact
	// LineHeight apart.
	lastY := res.StartY + float64(len(res.Lines)-1)*res.LineHeight
	if lastY <= res.StartY {
		t.Errorf("block collapsed: start %g last %g", res.StartY, lastY)
	}

	// A short bottom-anchored block must respect the bottom bound.
	style.TextPosition = PositionBottom
	short := Layout("one line", style, CanvasWidth, CanvasHeight, m)
	maxY := CanvasHeight - float64(style.FontSize)/2 - float64(style.OutlineWidth)/2 - 10
	if short.StartY > maxY {
		t.Errorf("last line center %g violates bottom bound %g", short.StartY, maxY)
	}
}

func TestLayoutOversizedBlockPinsToTopBound(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	style := baseStyle()
	style.FontSize = 120
	style.TextPosition = PositionTop
	// Far taller than the canvas: the bottom-edge shift alone would
	// push the first line above the top edge, so the top bound must
	// re-clamp afterwards.
	text := strings.TrimSpace(strings.Repeat("towering column of text ", 60))

	res := Layout(text, style, CanvasWidth, CanvasHeight, m)
	minY := float64(style.FontSize)/2 + float64(style.OutlineWidth)/2 + 10
	if res.StartY != minY {
		t.Errorf("first line center = %g, want pinned to top bound %g", res.StartY, minY)
	}
}

func TestStrokeCount(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{5, 1},
		{10, 1},
		{11, 2},
		{16, 2},
		{17, 3},
		{25, 4}, // ceil(25/8)
		{30, 4},
	}
	m := fixedMeasurer{}
	style := baseStyle()
	for _, tt := range tests {
		style.OutlineWidth = tt.width
		res := Layout("text", style, CanvasWidth, CanvasHeight, m)
		if res.StrokeCount != tt.want {
			t.Errorf("outlineWidth %d: strokeCount = %d, want %d", tt.width, res.StrokeCount, tt.want)
		}
	}
}

func TestOutlineColorSelection(t *testing.T) {
	tests := []struct {
		color string
		want  Color
	}{
		{"#ffffff", Color{0, 0, 0}},       // light -> black outline
		{"white", Color{0, 0, 0}},
		{"#fff", Color{0, 0, 0}},
		{"#101010", Color{255, 255, 255}}, // average 16 -> white outline
		{"black", Color{255, 255, 255}},
		{"rgb(201, 201, 201)", Color{0, 0, 0}},
		{"rgb(200, 200, 200)", Color{255, 255, 255}}, // threshold is strict
		{"not-a-color", Color{255, 255, 255}},        // unrecognized -> dark branch
		{"", Color{255, 255, 255}},
	}
	m := fixedMeasurer{}
	style := baseStyle()
	for _, tt := range tests {
		style.TextColor = tt.color
		res := Layout("text", style, CanvasWidth, CanvasHeight, m)
		if res.OutlineColor != tt.want {
			t.Errorf("textColor %q: outline = %v, want %v", tt.color, res.OutlineColor, tt.want)
		}
	}
}

func TestLayoutParamsOverridable(t *testing.T) {
	m := fixedMeasurer{perRune: 0.5}
	p := DefaultParams()
	p.StrokeDivisor = 5
	p.StrokeSingleMax = 4
	style := baseStyle()
	style.OutlineWidth = 12
	res := LayoutWith("text", style, CanvasWidth, CanvasHeight, m, p)
	if res.StrokeCount != 3 { // ceil(12/5)
		t.Errorf("strokeCount = %d, want 3 with divisor 5", res.StrokeCount)
	}
}
