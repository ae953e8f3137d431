package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/mediascout/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mediascout",
	Short: "Catalog page scraper and link monitor",
	Long:  "Previews third-party anime, comic and movie catalog pages, resolves chapter images and episode players, and tracks source link health.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logCloser = initLogger(cfg.Log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser()
		}
	},
}

// logCloser flushes the rotating log file, if any.
var logCloser func() error

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(serveCmd, previewCmd, probeCmd, checkLinksCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
