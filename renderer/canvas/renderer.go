// Package canvasrenderer composes slides via github.com/tdewolff/canvas:
// cover-fitted background, optional overlay, repeated outline strokes
// and a fill pass per text line, rasterized and encoded as JPEG.
package canvasrenderer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/d33gardner/listeningcarousel/layout"
	"github.com/d33gardner/listeningcarousel/renderer"
)

// jpegQuality matches the reference encoder setting of 0.92.
const jpegQuality = 92

// fallbackOrder decides which loaded family stands in when the
// requested font-style group has no usable font.
var fallbackOrder = []layout.FontStyle{layout.FontModern, layout.FontClassic, layout.FontBold}

// Renderer is a canvas-backed Compositor. It also measures text for
// the layout engine so wrapping and drawing share one set of font
// metrics.
type Renderer struct {
	fontBlobs map[layout.FontStyle][]byte

	fontMu   sync.Mutex
	families map[layout.FontStyle]*canvas.FontFamily

	decoded *gocache.Cache // background bytes hash -> image.Image
}

var (
	_ renderer.Compositor = (*Renderer)(nil)
	_ layout.Measurer     = (*Renderer)(nil)
)

// Resource provides a font either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// Options configures the renderer with one font resource per
// font-style group. Groups without a resource fall back to the first
// group that loaded.
type Options struct {
	Fonts map[layout.FontStyle]Resource

	// DecodedTTL bounds how long decoded backgrounds stay cached for
	// selective re-renders. Zero keeps the default of five minutes.
	DecodedTTL time.Duration
}

// NewRenderer creates a renderer with the given font resources.
func NewRenderer(opts Options) *Renderer {
	ttl := opts.DecodedTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	r := &Renderer{
		fontBlobs: map[layout.FontStyle][]byte{},
		families:  map[layout.FontStyle]*canvas.FontFamily{},
		decoded:   gocache.New(ttl, 2*ttl),
	}
	for style, res := range opts.Fonts {
		if len(res.Bytes) > 0 {
			r.fontBlobs[style] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // missing files surface later as ErrSurfaceUnavailable
			if len(data) > 0 {
				r.fontBlobs[style] = data
			}
		}
	}
	return r
}

// TextWidth implements layout.Measurer. When no font can be obtained
// it falls back to a rough per-rune estimate so layout stays total.
func (r *Renderer) TextWidth(text string, style layout.FontStyle, sizePx float64) float64 {
	face, err := r.fontFace(style, sizePx, canvas.Black)
	if err != nil {
		return estimateTextWidth(text, sizePx)
	}
	return face.TextWidth(text)
}

// Compose renders one slide and encodes it as JPEG.
func (r *Renderer) Compose(ctx context.Context, background []byte, lay layout.Result, style layout.Style) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bg, err := r.decodeBackground(background)
	if err != nil {
		return nil, err
	}

	c := canvas.New(layout.CanvasWidth, layout.CanvasHeight)
	cc := canvas.NewContext(c)

	drawCoverFit(cc, bg, layout.CanvasWidth, layout.CanvasHeight)

	if style.Overlay {
		opacity := style.OverlayOpacity
		if opacity < 0 {
			opacity = 0
		} else if opacity > 1 {
			opacity = 1
		}
		cc.SetFillColor(canvas.RGBA(0, 0, 0, opacity))
		cc.DrawPath(0, 0, canvas.Rectangle(layout.CanvasWidth, layout.CanvasHeight))
	}

	if err := r.drawText(cc, lay, style); err != nil {
		return nil, err
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode slide: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCoverFit scales the background to fully cover the canvas and
// center-crops the overflow on the other axis. The image is never
// stretched non-uniformly and never letterboxed.
func drawCoverFit(cc *canvas.Context, img image.Image, dstW, dstH float64) {
	x, y, res := coverFit(img.Bounds().Dx(), img.Bounds().Dy(), dstW, dstH)
	cc.DrawImage(x, y, img, canvas.DPMM(res))
}

// coverFit returns the draw origin and the resolution (source pixels
// per canvas unit) that cover a dstW x dstH canvas with a srcW x srcH
// image, cropping centered overflow.
func coverFit(srcW, srcH int, dstW, dstH float64) (x, y, res float64) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, 1
	}
	scale := dstW / float64(srcW)
	if s := dstH / float64(srcH); s > scale {
		scale = s
	}
	x = (dstW - float64(srcW)*scale) / 2
	y = (dstH - float64(srcH)*scale) / 2
	return x, y, 1 / scale
}

// drawText paints every line: strokeCount outline passes with round
// joins and caps, then the fill on top, centered horizontally. The
// canvas origin is bottom-left, so layout's top-down line positions
// are flipped here at the boundary.
func (r *Renderer) drawText(cc *canvas.Context, lay layout.Result, style layout.Style) error {
	fill := fillColor(style.TextColor)
	face, err := r.fontFace(style.FontStyle, float64(style.FontSize), fill)
	if err != nil {
		return err
	}
	outline := canvas.RGBA(
		float64(lay.OutlineColor.R)/255.0,
		float64(lay.OutlineColor.G)/255.0,
		float64(lay.OutlineColor.B)/255.0,
		1.0,
	)

	metrics := face.Metrics()
	cc.SetStrokeJoiner(canvas.RoundJoin)
	cc.SetStrokeCapper(canvas.RoundCap)

	for i, line := range lay.Lines {
		if line == "" {
			continue
		}
		path, advance, err := face.ToPath(line)
		if err != nil {
			return fmt.Errorf("shape line %d: %w", i, err)
		}
		x := (layout.CanvasWidth - advance) / 2
		centerY := lay.StartY + float64(i)*lay.LineHeight
		baseline := layout.CanvasHeight - centerY - metrics.CapHeight/2

		cc.SetStrokeWidth(float64(style.OutlineWidth))
		cc.SetStrokeColor(outline)
		cc.SetFillColor(canvas.Transparent)
		for pass := 0; pass < lay.StrokeCount; pass++ {
			cc.DrawPath(x, baseline, path)
		}

		cc.SetStrokeColor(canvas.Transparent)
		cc.SetStrokeWidth(0)
		cc.SetFillColor(fill)
		cc.DrawPath(x, baseline, path)
	}
	return nil
}

func (r *Renderer) decodeBackground(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty background", renderer.ErrImageDecode)
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if cached, ok := r.decoded.Get(key); ok {
		return cached.(image.Image), nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", renderer.ErrImageDecode, err)
	}
	r.decoded.Set(key, img, gocache.DefaultExpiration)
	return img, nil
}

func (r *Renderer) fontFace(style layout.FontStyle, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFamily(style)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*layout.PxToPt, col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFamily(style layout.FontStyle) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[style]; ok {
		return family, nil
	}
	if data, ok := r.fontBlobs[style]; ok {
		family := canvas.NewFontFamily(string(style))
		if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
			r.families[style] = family
			return family, nil
		}
	}
	for _, fb := range fallbackOrder {
		if fb == style {
			continue
		}
		if family, ok := r.families[fb]; ok {
			r.families[style] = family
			return family, nil
		}
		data, ok := r.fontBlobs[fb]
		if !ok {
			continue
		}
		family := canvas.NewFontFamily(string(fb))
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			continue
		}
		r.families[fb] = family
		r.families[style] = family
		return family, nil
	}
	return nil, fmt.Errorf("%w: no font loaded for style %q", renderer.ErrSurfaceUnavailable, style)
}

// fillColor resolves the user's text color; unparseable values fall
// back to black, the same dark branch the outline classifier uses.
func fillColor(value string) color.Color {
	c, err := layout.ParseColor(value)
	if err != nil {
		return canvas.Black
	}
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func estimateTextWidth(text string, sizePx float64) float64 {
	n := 0
	for range text {
		n++
	}
	return sizePx * 0.55 * float64(n)
}
