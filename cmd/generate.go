package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/engine"
	"github.com/ziadkadry99/archdoc/internal/progress"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Analyze a project and write its design documents",
	Long: `Walks the project (the current directory by default), analyzes every
supported file and writes the markdown design documents, plus an HTML site
when enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output directory (overrides config)")
	generateCmd.Flags().StringSlice("include", nil, "include globs for this run (override config)")
	generateCmd.Flags().StringSlice("exclude", nil, "exclude globs for this run (override config)")
	generateCmd.Flags().StringSlice("analyzers", nil, "analyzers to enable (overrides config)")
	generateCmd.Flags().Int("depth", -1, "architecture diagram depth limit, 0 for unlimited (overrides config)")
	generateCmd.Flags().Int("concurrency", 0, "parallel file analyses (overrides config)")
	generateCmd.Flags().Bool("html", false, "also render a static HTML site")
	generateCmd.Flags().Bool("no-progress", false, "disable the progress display")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("analyzers") {
		cfg.EnabledAnalyzers, _ = flags.GetStringSlice("analyzers")
	}
	if flags.Changed("depth") {
		cfg.DiagramDepthLimit, _ = flags.GetInt("depth")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("html") {
		cfg.HTML, _ = flags.GetBool("html")
	}

	var patterns *engine.Patterns
	if flags.Changed("include") || flags.Changed("exclude") {
		patterns = &engine.Patterns{}
		if flags.Changed("include") {
			patterns.Include, _ = flags.GetStringSlice("include")
		}
		if flags.Changed("exclude") {
			patterns.Exclude, _ = flags.GetStringSlice("exclude")
		}
	}

	opts := []engine.Option{engine.WithLogger(newLogger(os.Stderr))}
	var reporter progress.Reporter
	if noProgress, _ := flags.GetBool("no-progress"); !noProgress {
		reporter = progress.NewReporter(os.Stderr)
		opts = append(opts, engine.WithProgress(progress.Track(reporter)))
	}

	eng, err := engine.New(cfg, opts...)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %s with %d analyzers...\n", dir, len(eng.Analyzers()))
	}

	res, err := eng.GenerateDesign(cmd.Context(), dir, patterns)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		return fmt.Errorf("generating design: %w", err)
	}

	if verbose {
		for _, p := range res.Skipped {
			fmt.Fprintf(os.Stderr, "  skipped (no analyzer): %s\n", p)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(res, eng.OutputDir(res.Root)))
	return nil
}
