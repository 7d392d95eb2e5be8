package layout

// This file defines the style inputs and layout outputs shared by the
// layout engine, the compositor and the pipeline.

// Canvas dimensions of every slide, in pixels.
const (
	CanvasWidth  = 1080.0
	CanvasHeight = 1350.0
)

// FontStyle selects one of the configured font-family groups.
type FontStyle string

const (
	FontModern  FontStyle = "modern"
	FontClassic FontStyle = "classic"
	FontBold    FontStyle = "bold"
)

// Position is the vertical placement of the text block.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Color holds 0-255 RGB channels.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Average returns the mean of the three channels, used to classify a
// color as light or dark.
func (c Color) Average() float64 {
	return float64(c.R+c.G+c.B) / 3.0
}

// Style describes how one slide's text is drawn. TextColor is kept as
// the raw user string; ParseColor resolves it with a documented
// default-to-dark fallback.
type Style struct {
	FontStyle      FontStyle `json:"fontStyle"`
	TextColor      string    `json:"textColor"`
	TextPosition   Position  `json:"textPosition"`
	Overlay        bool      `json:"backgroundOverlay"`
	OverlayOpacity float64   `json:"overlayOpacity"`
	OutlineWidth   int       `json:"outlineWidth"` // px, 5-30
	FontSize       int       `json:"fontSize"`     // px
}

// Result is the layout engine's output for one segment: the wrapped
// lines, the vertical geometry and the outline parameters the
// compositor draws with.
type Result struct {
	Lines        []string `json:"lines"`
	AnchorY      float64  `json:"anchorY"` // block center before clamping
	StartY       float64  `json:"startY"`  // first line center after clamping
	LineHeight   float64  `json:"lineHeight"`
	OutlineColor Color    `json:"outlineColor"`
	StrokeCount  int      `json:"strokeCount"`
}

// Measurer reports the rendered width of text for a font-family group
// at a pixel size. The canvas renderer implements it; tests use stubs.
type Measurer interface {
	TextWidth(text string, style FontStyle, sizePx float64) float64
}

// Params holds the geometry and classification constants of the
// engine. They are configuration defaults, not hardcoded: callers may
// override any field before calling LayoutWith.
type Params struct {
	Margin           float64 // horizontal margin on each side
	Padding          float64 // vertical padding for top/bottom anchors
	AnchorNudge      float64 // extra inset applied to top/bottom anchors
	EdgeInset        float64 // hard clamp distance from canvas edges
	LineHeightFactor float64 // line height = FontSize * factor
	LightThreshold   float64 // RGB average above this counts as light
	StrokeDivisor    int     // strokeCount = ceil(outlineWidth/divisor) when wide
	StrokeSingleMax  int     // outline widths up to this use one stroke pass
}

// DefaultParams returns the engine's default geometry.
func DefaultParams() Params {
	return Params{
		Margin:           80,
		Padding:          80,
		AnchorNudge:      20,
		EdgeInset:        10,
		LineHeightFactor: 1.4,
		LightThreshold:   200,
		StrokeDivisor:    8,
		StrokeSingleMax:  10,
	}
}
