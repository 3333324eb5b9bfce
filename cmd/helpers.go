package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/archdoc/internal/config"
	"github.com/ziadkadry99/archdoc/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#58a6ff"})
	labelStyle = lipgloss.NewStyle().Width(22).Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b35900", Dark: "#f0883e"})
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// loadConfig loads the config file, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `archdoc init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger returns the engine logger: debug records with --verbose,
// warnings only otherwise.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// renderSummary formats the outcome of a generate run.
func renderSummary(res *engine.Result, outDir string) string {
	row := func(label string, value any) string {
		return labelStyle.Render(label) + fmt.Sprint(value)
	}
	lines := []string{
		titleStyle.Render("Design generated"),
		"",
		row("Root", res.Root),
		row("Kind", fmt.Sprintf("%s %s", res.Kind.Icon(), res.Kind)),
		row("Modules", res.Modules),
		row("Files analyzed", res.FilesAnalyzed),
		row("Files skipped", res.FilesSkipped),
		row("Lines", res.Metrics.Lines),
		row("Classes / functions", fmt.Sprintf("%d / %d", res.Metrics.Classes, res.Metrics.Functions)),
	}
	warnings := row("Warnings", fmt.Sprintf("%d in %d files", res.Warnings, res.FilesWithWarnings))
	if res.Warnings > 0 {
		warnings = warnStyle.Render(warnings)
	}
	lines = append(lines,
		warnings,
		row("Pages written", len(res.OutputPaths)),
		row("Output", outDir),
		row("Duration", res.Duration.Round(1e6)),
	)
	if res.RunID != "" {
		lines = append(lines, row("Run", res.RunID))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

