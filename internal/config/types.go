package config

// Config is the top-level archdoc configuration, corresponding to .archdoc.yml.
type Config struct {
	Include           []string `yaml:"include" koanf:"include" toml:"include"`
	Exclude           []string `yaml:"exclude" koanf:"exclude" toml:"exclude"`
	OutputDir         string   `yaml:"output_dir" koanf:"output_dir" toml:"output_dir"`
	EnabledAnalyzers  []string `yaml:"enabled_analyzers" koanf:"enabled_analyzers" toml:"enabled_analyzers"`
	DiagramDepthLimit int      `yaml:"diagram_depth_limit" koanf:"diagram_depth_limit" toml:"diagram_depth_limit"`

	Concurrency           int    `yaml:"concurrency" koanf:"concurrency" toml:"concurrency"`
	MaxFileSize           int64  `yaml:"max_file_size" koanf:"max_file_size" toml:"max_file_size"`
	RespectGitignore      bool   `yaml:"respect_gitignore" koanf:"respect_gitignore" toml:"respect_gitignore"`
	HTML                  bool   `yaml:"html" koanf:"html" toml:"html"`
	HistoryDB             string `yaml:"history_db" koanf:"history_db" toml:"history_db"`
	AllowExtensionOverlap bool   `yaml:"allow_extension_overlap" koanf:"allow_extension_overlap" toml:"allow_extension_overlap"`
}

// Clone returns a deep copy so that callers can hold an immutable value.
func (c Config) Clone() Config {
	c.Include = cloneStrings(c.Include)
	c.Exclude = cloneStrings(c.Exclude)
	c.EnabledAnalyzers = cloneStrings(c.EnabledAnalyzers)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
