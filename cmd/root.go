package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "archdoc",
	Short: "Static analysis and design documents for multi-language projects",
	Long: `archdoc walks a project, extracts structure from stylesheets, markup
and source files, and writes design documents: an architecture overview,
one page per module and one page per file, with mermaid diagrams.`,
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the running analysis.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFileName, "config file path (.yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

