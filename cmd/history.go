package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/engine"
	"github.com/ziadkadry99/archdoc/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [dir]",
	Short: "List recent generation runs",
	Long: `Lists runs recorded for a project (the current directory by default).
history_db is resolved against the project directory, as generate does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}
		root, err := projectDir(args)
		if err != nil {
			return err
		}

		path := eng.HistoryPath(root)
		if path == "" {
			return fmt.Errorf("history is disabled; set history_db in %s", cfgFile)
		}
		out := cmd.OutOrStdout()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %s  %d files, %d skipped, %d warnings, %d pages, %s  %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), shortID(r.ID),
				r.FilesAnalyzed, r.FilesSkipped, r.Warnings, r.Outputs, r.Duration, r.Root)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

// projectDir returns the absolute project directory named by the optional
// [dir] argument.
func projectDir(args []string) (string, error) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
