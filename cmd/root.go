// Package cmd wires the command line interface.
package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Render a story over a photo as a slide carousel",
	Long: "carousel splits a story into slide-sized segments and renders each one\n" +
		"over a background photo as a 1080x1350 JPEG.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().Timestamp().Logger()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "carousel.toml", "path to the TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
