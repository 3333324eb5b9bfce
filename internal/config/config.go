// Package config loads, saves and validates archdoc configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/archdoc/internal/walker"
)

// ErrInvalid marks configuration errors. They are reported before any file
// is analyzed or written.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix of environment overrides, e.g. ARCHDOC_OUTPUT_DIR.
const EnvPrefix = "ARCHDOC_"

// Load reads configuration from the given YAML or TOML file, then overlays
// environment variable overrides (ARCHDOC_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlParser{}
	}
	return yaml.Parser()
}

// Save writes the configuration to path, as TOML for .toml files and YAML
// otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yamlv3.Marshal(c); err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Normalize fills unset values with defaults and validates the result
// against the available analyzer names. The returned Config shares no
// memory with c.
func (c *Config) Normalize(available []string) (Config, error) {
	n := c.Clone()

	if n.OutputDir == "" {
		n.OutputDir = DefaultOutputDir
	}
	if n.DiagramDepthLimit < 0 {
		return Config{}, fmt.Errorf("%w: diagram_depth_limit must be non-negative, got %d", ErrInvalid, n.DiagramDepthLimit)
	}
	if n.Concurrency < 0 {
		return Config{}, fmt.Errorf("%w: concurrency must be non-negative, got %d", ErrInvalid, n.Concurrency)
	}
	if n.Concurrency == 0 {
		n.Concurrency = DefaultConcurrency
	}
	if n.MaxFileSize < 0 {
		return Config{}, fmt.Errorf("%w: max_file_size must be non-negative, got %d", ErrInvalid, n.MaxFileSize)
	}
	if err := ValidatePatterns(n.Include, n.Exclude); err != nil {
		return Config{}, err
	}

	if len(n.EnabledAnalyzers) == 0 {
		n.EnabledAnalyzers = cloneStrings(available)
		return n, nil
	}
	known := make(map[string]bool, len(available))
	for _, name := range available {
		known[name] = true
	}
	seen := make(map[string]bool, len(n.EnabledAnalyzers))
	for _, name := range n.EnabledAnalyzers {
		if !known[name] {
			return Config{}, fmt.Errorf("%w: unknown analyzer %q (available: %s)", ErrInvalid, name, strings.Join(available, ", "))
		}
		if seen[name] {
			return Config{}, fmt.Errorf("%w: analyzer %q enabled twice", ErrInvalid, name)
		}
		seen[name] = true
	}
	return n, nil
}

// ValidatePatterns checks include and exclude glob syntax.
func ValidatePatterns(include, exclude []string) error {
	if p, ok := walker.ValidatePatterns(include); !ok {
		return fmt.Errorf("%w: bad include pattern %q", ErrInvalid, p)
	}
	if p, ok := walker.ValidatePatterns(exclude); !ok {
		return fmt.Errorf("%w: bad exclude pattern %q", ErrInvalid, p)
	}
	return nil
}

// tomlParser adapts BurntSushi/toml to the koanf.Parser interface.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
