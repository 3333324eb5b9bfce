package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/docs"
	"github.com/ziadkadry99/archdoc/internal/engine"
)

var showCmd = &cobra.Command{
	Use:   "show [page] [dir]",
	Short: "Render a generated page in the terminal",
	Long: `Renders a generated markdown page, _index.md by default, with terminal
styling. The page path is relative to the output directory, e.g.
web/_module.md. The output directory is resolved against the project
directory dir (the current directory by default), as generate does.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}
		page := docs.IndexPage
		if len(args) > 0 {
			page = args[0]
		}
		root, err := projectDir(args[min(len(args), 1):])
		if err != nil {
			return err
		}
		path := filepath.Join(eng.OutputDir(root), filepath.FromSlash(page))
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w\nRun `archdoc generate` first", path, err)
		}

		width, _ := cmd.Flags().GetInt("width")
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("creating glamour renderer: %w", err)
		}
		out, err := r.Render(string(content))
		if err != nil {
			return fmt.Errorf("rendering %s: %w", page, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	showCmd.Flags().Int("width", 100, "word wrap width")
	rootCmd.AddCommand(showCmd)
}
