package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectMarkers maps marker files to a human-readable project type and the
// analyzers that suit it.
var projectMarkers = []struct {
	Marker    string
	Name      string
	Analyzers []string
}{
	{"go.mod", "Go", []string{"source", "markup", "stylesheet"}},
	{"package.json", "Node.js/TypeScript", []string{"script", "markup", "stylesheet"}},
	{"pyproject.toml", "Python", []string{"source", "markup", "stylesheet"}},
	{"requirements.txt", "Python", []string{"source", "markup", "stylesheet"}},
	{"index.html", "Static site", []string{"markup", "stylesheet", "script"}},
}

// DetectProject checks dir for well-known project markers. It returns an
// empty name and nil analyzers (meaning all) when nothing matches.
func DetectProject(dir string) (name string, analyzers []string) {
	for _, m := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, m.Marker)); err == nil {
			return m.Name, append([]string(nil), m.Analyzers...)
		}
	}
	return "", nil
}

// RunWizard runs an interactive configuration wizard in dir and saves the
// result to dir/.archdoc.yml.
func RunWizard(dir string, available []string) (*Config, error) {
	fmt.Println("Welcome to archdoc! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	projType, suggested := DetectProject(dir)
	if projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	// 1. Analyzers.
	analyzerPrompt := promptui.Prompt{
		Label:   fmt.Sprintf("Analyzers to enable (comma-separated, blank for all: %s)", strings.Join(available, ", ")),
		Default: strings.Join(suggested, ","),
	}
	analyzerStr, err := analyzerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("analyzer selection: %w", err)
	}
	cfg.EnabledAnalyzers = splitAndTrim(analyzerStr)

	// 2. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for generated design docs",
		Default: DefaultOutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 3. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs, blank for everything)",
		Default: "",
		Validate: func(s string) error {
			return ValidatePatterns(splitAndTrim(s), nil)
		},
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Include = splitAndTrim(includeStr)

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label: "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Validate: func(s string) error {
			return ValidatePatterns(nil, splitAndTrim(s))
		},
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	// 5. Diagram depth.
	depthPrompt := promptui.Prompt{
		Label:   "Architecture diagram depth limit (0 for unlimited)",
		Default: strconv.Itoa(DefaultDiagramDepthLimit),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	depthStr, err := depthPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("depth limit: %w", err)
	}
	cfg.DiagramDepthLimit, _ = strconv.Atoi(depthStr)

	// 6. HTML site.
	htmlPrompt := promptui.Select{
		Label: "Also render a static HTML site?",
		Items: []string{"no", "yes"},
	}
	htmlIdx, _, err := htmlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("html selection: %w", err)
	}
	cfg.HTML = htmlIdx == 1

	if _, err := cfg.Normalize(available); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, DefaultFileName)
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, token := range strings.Split(s, ",") {
		if token = strings.TrimSpace(token); token != "" {
			result = append(result, token)
		}
	}
	return result
}
