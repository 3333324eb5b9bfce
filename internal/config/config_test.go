package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var available = []string{"stylesheet", "markup", "script", "source"}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("expected default output_dir %q, got %q", DefaultOutputDir, cfg.OutputDir)
	}
	if cfg.DiagramDepthLimit != 3 {
		t.Errorf("expected default diagram_depth_limit 3, got %d", cfg.DiagramDepthLimit)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Concurrency)
	}
	if !cfg.RespectGitignore {
		t.Error("respect_gitignore should default to true")
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"test.archdoc.yml", "archdoc.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			original := DefaultConfig()
			original.Include = []string{"**/*.go", "web/**"}
			original.OutputDir = "out"
			original.EnabledAnalyzers = []string{"source", "markup"}
			original.DiagramDepthLimit = 5
			original.HTML = true
			original.MaxFileSize = 2048

			if err := original.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if loaded.OutputDir != "out" {
				t.Errorf("output_dir: got %q", loaded.OutputDir)
			}
			if loaded.DiagramDepthLimit != 5 {
				t.Errorf("diagram_depth_limit: got %d", loaded.DiagramDepthLimit)
			}
			if !loaded.HTML {
				t.Error("html: got false")
			}
			if loaded.MaxFileSize != 2048 {
				t.Errorf("max_file_size: got %d", loaded.MaxFileSize)
			}
			if len(loaded.Include) != 2 || loaded.Include[1] != "web/**" {
				t.Errorf("include: got %v", loaded.Include)
			}
			if len(loaded.EnabledAnalyzers) != 2 || loaded.EnabledAnalyzers[0] != "source" {
				t.Errorf("enabled_analyzers: got %v", loaded.EnabledAnalyzers)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("expected default output dir, got %q", cfg.OutputDir)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archdoc.toml")
	data := "output_dir = \"docs/design\"\nexclude = [\"**/gen/**\"]\ndiagram_depth_limit = 0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "docs/design" || cfg.DiagramDepthLimit != 0 {
		t.Errorf("got output_dir %q depth %d", cfg.OutputDir, cfg.DiagramDepthLimit)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "**/gen/**" {
		t.Errorf("exclude: got %v", cfg.Exclude)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ARCHDOC_OUTPUT_DIR", "from-env")
	t.Setenv("ARCHDOC_CONCURRENCY", "9")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "from-env" {
		t.Errorf("env override failed: got %q", loaded.OutputDir)
	}
	if loaded.Concurrency != 9 {
		t.Errorf("concurrency override failed: got %d", loaded.Concurrency)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"subset", func(c *Config) { c.EnabledAnalyzers = []string{"markup"} }, false},
		{"unknown analyzer", func(c *Config) { c.EnabledAnalyzers = []string{"cobol"} }, true},
		{"duplicate analyzer", func(c *Config) { c.EnabledAnalyzers = []string{"markup", "markup"} }, true},
		{"negative depth", func(c *Config) { c.DiagramDepthLimit = -1 }, true},
		{"negative concurrency", func(c *Config) { c.Concurrency = -2 }, true},
		{"negative size", func(c *Config) { c.MaxFileSize = -1 }, true},
		{"bad include", func(c *Config) { c.Include = []string{"[abc"} }, true},
		{"bad exclude", func(c *Config) { c.Exclude = []string{"{a,b"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := cfg.Normalize(available)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v should wrap ErrInvalid", err)
			}
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	n, err := cfg.Normalize(available)
	if err != nil {
		t.Fatal(err)
	}
	if n.OutputDir != DefaultOutputDir || n.Concurrency != DefaultConcurrency {
		t.Errorf("defaults not filled: %+v", n)
	}
	if len(n.EnabledAnalyzers) != len(available) {
		t.Errorf("empty enabled list should enable all, got %v", n.EnabledAnalyzers)
	}
	if n.DiagramDepthLimit != 0 {
		t.Errorf("zero depth limit means unlimited and must be kept, got %d", n.DiagramDepthLimit)
	}
}

func TestNormalizeReturnsIndependentCopy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"a/**"}
	n, err := cfg.Normalize(available)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Include[0] = "changed"
	if n.Include[0] != "a/**" {
		t.Error("normalized config must not share slices with the input")
	}
}

func TestDetectProject(t *testing.T) {
	dir := t.TempDir()
	if name, analyzers := DetectProject(dir); name != "" || analyzers != nil {
		t.Errorf("empty dir detected %q %v", name, analyzers)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	name, analyzers := DetectProject(dir)
	if name != "Node.js/TypeScript" || analyzers[0] != "script" {
		t.Errorf("got %q %v", name, analyzers)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.go", []string{"**/*.go"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
