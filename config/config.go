// Package config loads and validates the TOML configuration the CLI
// feeds into the pipeline: split bounds, style settings, font file
// paths per font-style group, and output options.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/d33gardner/listeningcarousel/layout"
	"github.com/d33gardner/listeningcarousel/segment"
)

const (
	defaultOutputDir      = "slides"
	defaultWorkers        = 4
	defaultFontStyle      = string(layout.FontModern)
	defaultTextColor      = "#ffffff"
	defaultTextPosition   = string(layout.PositionCenter)
	defaultOverlayOpacity = 0.3
	defaultOutlineWidth   = 8
	defaultFontSize       = 64
)

// Split mirrors segment.Config in TOML form.
type Split struct {
	MaxCharsPerSlide int `toml:"max_chars_per_slide"`
	MinSlides        int `toml:"min_slides"`
	MaxSlides        int `toml:"max_slides"`
}

// Style holds the slide styling settings.
type Style struct {
	FontStyle         string  `toml:"font_style"`
	TextColor         string  `toml:"text_color"`
	TextPosition      string  `toml:"text_position"`
	BackgroundOverlay bool    `toml:"background_overlay"`
	OverlayOpacity    float64 `toml:"overlay_opacity"`
	OutlineWidth      int     `toml:"outline_width"`
	FontSize          int     `toml:"font_size"`
}

// Fonts maps each font-style group to a TTF/OTF file path.
type Fonts struct {
	Modern  string `toml:"modern"`
	Classic string `toml:"classic"`
	Bold    string `toml:"bold"`
}

// Output controls where and how slides are written.
type Output struct {
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
}

// Config is the root configuration document.
type Config struct {
	Split  Split  `toml:"split"`
	Style  Style  `toml:"style"`
	Fonts  Fonts  `toml:"fonts"`
	Output Output `toml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	split := segment.DefaultConfig()
	return Config{
		Split: Split{
			MaxCharsPerSlide: split.MaxCharsPerSlide,
			MinSlides:        split.MinSlides,
			MaxSlides:        split.MaxSlides,
		},
		Style: Style{
			FontStyle:      defaultFontStyle,
			TextColor:      defaultTextColor,
			TextPosition:   defaultTextPosition,
			OverlayOpacity: defaultOverlayOpacity,
			OutlineWidth:   defaultOutlineWidth,
			FontSize:       defaultFontSize,
		},
		Output: Output{
			Dir:     defaultOutputDir,
			Workers: defaultWorkers,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error;
// the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Split.MaxCharsPerSlide <= 0 {
		return fmt.Errorf("split.max_chars_per_slide must be positive, got %d", c.Split.MaxCharsPerSlide)
	}
	if c.Split.MinSlides <= 0 || c.Split.MaxSlides <= 0 {
		return errors.New("split.min_slides and split.max_slides must be positive")
	}
	if c.Split.MinSlides > c.Split.MaxSlides {
		return fmt.Errorf("split.min_slides (%d) must not exceed split.max_slides (%d)", c.Split.MinSlides, c.Split.MaxSlides)
	}
	switch layout.FontStyle(c.Style.FontStyle) {
	case layout.FontModern, layout.FontClassic, layout.FontBold:
	default:
		return fmt.Errorf("style.font_style must be one of modern/classic/bold, got %q", c.Style.FontStyle)
	}
	switch layout.Position(c.Style.TextPosition) {
	case layout.PositionTop, layout.PositionCenter, layout.PositionBottom:
	default:
		return fmt.Errorf("style.text_position must be one of top/center/bottom, got %q", c.Style.TextPosition)
	}
	if c.Style.OverlayOpacity < 0 || c.Style.OverlayOpacity > 1 {
		return fmt.Errorf("style.overlay_opacity must be within [0,1], got %g", c.Style.OverlayOpacity)
	}
	if c.Style.OutlineWidth < 5 || c.Style.OutlineWidth > 30 {
		return fmt.Errorf("style.outline_width must be within [5,30], got %d", c.Style.OutlineWidth)
	}
	if c.Style.FontSize <= 0 {
		return fmt.Errorf("style.font_size must be positive, got %d", c.Style.FontSize)
	}
	if c.Output.Workers <= 0 {
		return fmt.Errorf("output.workers must be positive, got %d", c.Output.Workers)
	}
	return nil
}

// SplitConfig converts the TOML split section to the segmenter's form.
func (c *Config) SplitConfig() segment.Config {
	cfg := segment.DefaultConfig()
	cfg.MaxCharsPerSlide = c.Split.MaxCharsPerSlide
	cfg.MinSlides = c.Split.MinSlides
	cfg.MaxSlides = c.Split.MaxSlides
	return cfg
}

// LayoutStyle converts the TOML style section to the layout engine's
// form.
func (c *Config) LayoutStyle() layout.Style {
	return layout.Style{
		FontStyle:      layout.FontStyle(c.Style.FontStyle),
		TextColor:      c.Style.TextColor,
		TextPosition:   layout.Position(c.Style.TextPosition),
		Overlay:        c.Style.BackgroundOverlay,
		OverlayOpacity: c.Style.OverlayOpacity,
		OutlineWidth:   c.Style.OutlineWidth,
		FontSize:       c.Style.FontSize,
	}
}
