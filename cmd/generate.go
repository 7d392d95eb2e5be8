package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/d33gardner/listeningcarousel/config"
	"github.com/d33gardner/listeningcarousel/layout"
	"github.com/d33gardner/listeningcarousel/pipeline"
	canvasrenderer "github.com/d33gardner/listeningcarousel/renderer/canvas"
)

var (
	storyPath string
	photoPath string
	title     string
	outDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the slide carousel for a story",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		story, err := os.ReadFile(storyPath)
		if err != nil {
			return fmt.Errorf("read story %s: %w", storyPath, err)
		}
		photo, err := os.ReadFile(photoPath)
		if err != nil {
			return fmt.Errorf("read photo %s: %w", photoPath, err)
		}

		r := canvasrenderer.NewRenderer(canvasrenderer.Options{
			Fonts: map[layout.FontStyle]canvasrenderer.Resource{
				layout.FontModern:  {Path: cfg.Fonts.Modern},
				layout.FontClassic: {Path: cfg.Fonts.Classic},
				layout.FontBold:    {Path: cfg.Fonts.Bold},
			},
		})
		p := pipeline.New(r, r,
			pipeline.WithLogger(log),
			pipeline.WithWorkers(cfg.Output.Workers),
		)

		slides, err := p.Generate(cmd.Context(), pipeline.Request{
			Photo: photo,
			Story: string(story),
			Title: title,
			Split: cfg.SplitConfig(),
			Style: cfg.LayoutStyle(),
		})
		if err != nil {
			return err
		}
		if len(slides) == 0 {
			log.Warn().Msg("story is empty, nothing to render")
			return nil
		}

		dir := outDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
		slug := slugify(title)
		if slug == "" {
			first, _ := cmd.Flags().GetString("story")
			slug = slugify(strings.TrimSuffix(filepath.Base(first), filepath.Ext(first)))
		}
		if slug == "" {
			slug = "slide"
		}
		for _, s := range slides {
			name := fmt.Sprintf("%02d-%s.jpg", s.Index, slug)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, s.Bytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Info().Str("path", path).Int("bytes", len(s.Bytes)).Msg("slide written")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&storyPath, "story", "", "path to the story text file")
	generateCmd.Flags().StringVar(&photoPath, "photo", "", "path to the background photo")
	generateCmd.Flags().StringVar(&title, "title", "", "optional title shown on the first slide")
	generateCmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides output.dir)")
	_ = generateCmd.MarkFlagRequired("story")
	_ = generateCmd.MarkFlagRequired("photo")
	rootCmd.AddCommand(generateCmd)
}

// slugify derives a filesystem-friendly slug from a title.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
