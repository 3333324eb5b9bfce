package config

// Default values.
const (
	DefaultOutputDir         = "design"
	DefaultDiagramDepthLimit = 3
	DefaultConcurrency       = 4
	DefaultMaxFileSize       = 1 << 20
	DefaultFileName          = ".archdoc.yml"
)

// DefaultExcludes are glob patterns excluded from analysis by default.
var DefaultExcludes = []string{
	"**/*.min.js",
	"**/*.min.css",
	"**/dist/**",
	"**/build/**",
}

// DefaultConfig returns a Config with sensible defaults. An empty
// EnabledAnalyzers list enables every registered analyzer.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:         DefaultOutputDir,
		Exclude:           cloneStrings(DefaultExcludes),
		DiagramDepthLimit: DefaultDiagramDepthLimit,
		Concurrency:       DefaultConcurrency,
		MaxFileSize:       DefaultMaxFileSize,
		RespectGitignore:  true,
	}
}
