package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/d33gardner/listeningcarousel/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carousel.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Split.MaxCharsPerSlide != 125 || cfg.Split.MinSlides != 8 || cfg.Split.MaxSlides != 20 {
		t.Errorf("default split = %+v", cfg.Split)
	}
	if cfg.Style.FontStyle != "modern" || cfg.Style.TextPosition != "center" {
		t.Errorf("default style = %+v", cfg.Style)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[split]
max_chars_per_slide = 90
min_slides = 4
max_slides = 10

[style]
font_style = "bold"
text_color = "rgb(10, 20, 30)"
text_position = "bottom"
background_overlay = true
overlay_opacity = 0.5
outline_width = 12
font_size = 72

[fonts]
bold = "testdata/Bold.ttf"

[output]
dir = "out"
workers = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Split.MaxCharsPerSlide != 90 || cfg.Split.MinSlides != 4 {
		t.Errorf("split = %+v", cfg.Split)
	}
	split := cfg.SplitConfig()
	if split.MaxCharsPerSlide != 90 || split.MinSlides != 4 || split.MaxSlides != 10 {
		t.Errorf("SplitConfig = %+v", split)
	}
	style := cfg.LayoutStyle()
	if style.FontStyle != layout.FontBold || style.TextPosition != layout.PositionBottom {
		t.Errorf("LayoutStyle = %+v", style)
	}
	if !style.Overlay || style.OverlayOpacity != 0.5 || style.OutlineWidth != 12 || style.FontSize != 72 {
		t.Errorf("LayoutStyle = %+v", style)
	}
	if cfg.Fonts.Bold != "testdata/Bold.ttf" || cfg.Output.Workers != 2 {
		t.Errorf("fonts/output = %+v %+v", cfg.Fonts, cfg.Output)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"min over max", func(c *Config) { c.Split.MinSlides = 21 }, "min_slides"},
		{"zero budget", func(c *Config) { c.Split.MaxCharsPerSlide = 0 }, "max_chars_per_slide"},
		{"bad font style", func(c *Config) { c.Style.FontStyle = "comic" }, "font_style"},
		{"bad position", func(c *Config) { c.Style.TextPosition = "left" }, "text_position"},
		{"opacity range", func(c *Config) { c.Style.OverlayOpacity = 1.2 }, "overlay_opacity"},
		{"outline low", func(c *Config) { c.Style.OutlineWidth = 4 }, "outline_width"},
		{"outline high", func(c *Config) { c.Style.OutlineWidth = 31 }, "outline_width"},
		{"font size", func(c *Config) { c.Style.FontSize = 0 }, "font_size"},
		{"workers", func(c *Config) { c.Output.Workers = 0 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "split = not toml")
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}
