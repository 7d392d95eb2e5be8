// Package layout computes wrapped lines, vertical placement and
// outline parameters for one slide's text. It performs no drawing:
// text measurement is delegated to a Measurer and the output Result is
// consumed by the compositor.
package layout

import (
	"math"
	"strings"
)

// Layout wraps text for the slide canvas with the default parameters.
func Layout(text string, style Style, canvasW, canvasH float64, m Measurer) Result {
	return LayoutWith(text, style, canvasW, canvasH, m, DefaultParams())
}

// LayoutWith is Layout with explicit engine parameters. It is pure and
// always produces at least one line.
func LayoutWith(text string, style Style, canvasW, canvasH float64, m Measurer, p Params) Result {
	fontSize := float64(style.FontSize)
	lineHeight := fontSize * p.LineHeightFactor
	lines := wrapLines(text, style, canvasW-2*p.Margin, m)

	textHeight := float64(len(lines)) * lineHeight
	outlinePad := float64(style.OutlineWidth) / 2

	var anchorY float64
	switch style.TextPosition {
	case PositionTop:
		anchorY = p.Padding + textHeight/2 + outlinePad + p.AnchorNudge
	case PositionBottom:
		anchorY = canvasH - p.Padding - textHeight/2 - outlinePad - p.AnchorNudge
	default:
		anchorY = canvasH / 2
	}

	// First line center from the block anchor, then clamp the whole
	// block inside the canvas without re-wrapping. The bottom shift
	// runs first; the top bound wins when a block taller than the
	// canvas cannot satisfy both.
	startY := anchorY - textHeight/2 + lineHeight/2
	minY := fontSize/2 + float64(style.OutlineWidth)/2 + p.EdgeInset
	maxY := canvasH - fontSize/2 - float64(style.OutlineWidth)/2 - p.EdgeInset
	if lastY := startY + float64(len(lines)-1)*lineHeight; lastY > maxY {
		startY -= lastY - maxY
	}
	if startY < minY {
		startY = minY
	}

	return Result{
		Lines:        lines,
		AnchorY:      anchorY,
		StartY:       startY,
		LineHeight:   lineHeight,
		OutlineColor: outlineColor(style.TextColor, p.LightThreshold),
		StrokeCount:  strokeCount(style.OutlineWidth, p),
	}
}

// wrapLines packs words greedily against the measured width limit. A
// single word wider than the limit stays on its own line unshortened,
// and empty input still yields one line.
func wrapLines(text string, style Style, maxWidth float64, m Measurer) []string {
	size := float64(style.FontSize)
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if m.TextWidth(cur+" "+w, style.FontStyle, size) <= maxWidth {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	lines = append(lines, cur)
	return lines
}

// outlineColor classifies the text color: light text gets a black
// outline, everything else, including unparseable values, gets white.
func outlineColor(textColor string, lightThreshold float64) Color {
	c, err := ParseColor(textColor)
	if err == nil && c.Average() > lightThreshold {
		return Color{R: 0, G: 0, B: 0}
	}
	return Color{R: 255, G: 255, B: 255}
}

// strokeCount repeats the outline pass for wide outlines so the
// coverage stays solid under the fill.
func strokeCount(outlineWidth int, p Params) int {
	if outlineWidth <= p.StrokeSingleMax {
		return 1
	}
	return int(math.Ceil(float64(outlineWidth) / float64(p.StrokeDivisor)))
}
