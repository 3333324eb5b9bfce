// Package engine is the single entry point that turns a project directory
// into design documents: it normalizes configuration, runs the analyzers
// through the aggregator, renders every page in memory and only then writes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/archdoc/internal/aggregator"
	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/analyzer/code"
	"github.com/ziadkadry99/archdoc/internal/analyzer/css"
	"github.com/ziadkadry99/archdoc/internal/analyzer/markup"
	"github.com/ziadkadry99/archdoc/internal/config"
	"github.com/ziadkadry99/archdoc/internal/docs"
	"github.com/ziadkadry99/archdoc/internal/history"
	"github.com/ziadkadry99/archdoc/internal/modtree"
	"github.com/ziadkadry99/archdoc/internal/site"
)

// ErrRender marks failures while producing documents, such as a diagram
// with duplicate node ids. Nothing is written when it is returned.
var ErrRender = errors.New("rendering failed")

// HTMLDir is the subdirectory of the output directory holding the static site.
const HTMLDir = "html"

// Builtin returns a registry with every built-in analyzer, in dispatch
// priority order.
func Builtin() *analyzer.Registry {
	return analyzer.NewRegistry(css.New(), markup.New(), code.NewScript(), code.NewSource())
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn aggregator.ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithRegistry replaces the built-in analyzers. enabled_analyzers is then
// validated against this registry.
func WithRegistry(r *analyzer.Registry) Option {
	return func(e *Engine) { e.available = r }
}

// Engine holds a normalized configuration and the analyzers it selected.
type Engine struct {
	cfg       config.Config
	available *analyzer.Registry
	registry  *analyzer.Registry
	logger    *slog.Logger
	progress  aggregator.ProgressFunc
}

// New normalizes cfg and selects the enabled analyzers. A nil cfg means the
// defaults. Configuration problems wrap config.ErrInvalid.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	if e.available == nil {
		e.available = Builtin()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	n, err := cfg.Normalize(e.available.Names())
	if err != nil {
		return nil, err
	}
	reg, err := e.available.Select(n.EnabledAnalyzers, n.AllowExtensionOverlap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	e.cfg = n
	e.registry = reg
	return e, nil
}

// Config returns a copy of the normalized configuration.
func (e *Engine) Config() config.Config { return e.cfg.Clone() }

// Analyzers describes the enabled analyzers in dispatch order.
func (e *Engine) Analyzers() []analyzer.Info { return e.registry.Analyzers() }

// GeneratorInfo describes one output generator.
type GeneratorInfo struct {
	Name        string
	Description string
	Enabled     bool
}

// Generators lists the document generators and whether this configuration
// runs them.
func (e *Engine) Generators() []GeneratorInfo {
	return []GeneratorInfo{
		{Name: "mermaid", Description: "architecture, import and class diagrams embedded in pages", Enabled: true},
		{Name: "markdown", Description: "_index.md, _module.md and _items.md pages", Enabled: true},
		{Name: "html", Description: "static HTML rendering of every page under " + HTMLDir + "/", Enabled: e.cfg.HTML},
	}
}

// maxFileSize maps the configured limit to the aggregator's: 0 disables it.
func (e *Engine) maxFileSize() int64 {
	if e.cfg.MaxFileSize == 0 {
		return math.MaxInt64
	}
	return e.cfg.MaxFileSize
}

// HistoryPath resolves the configured history database against dir. It is
// empty when history is disabled.
func (e *Engine) HistoryPath(dir string) string {
	if e.cfg.HistoryDB == "" {
		return ""
	}
	if filepath.IsAbs(e.cfg.HistoryDB) {
		return filepath.Clean(e.cfg.HistoryDB)
	}
	return filepath.Join(dir, e.cfg.HistoryDB)
}

// OutputDir resolves the configured output directory against dir.
func (e *Engine) OutputDir(dir string) string {
	if filepath.IsAbs(e.cfg.OutputDir) {
		return filepath.Clean(e.cfg.OutputDir)
	}
	return filepath.Join(dir, e.cfg.OutputDir)
}

// Patterns overrides the configured include/exclude globs for one call. A
// nil field keeps the configured value.
type Patterns struct {
	Include []string
	Exclude []string
}

// Result summarizes one GenerateDesign call.
type Result struct {
	Root              string
	Tree              *modtree.Node
	Modules           int
	Metrics           modtree.Metrics
	Kind              modtree.Kind
	FilesAnalyzed     int
	FilesSkipped      int
	Skipped           []string
	Warnings          int
	FilesWithWarnings int
	OutputPaths       []string
	RunID             string
	Duration          time.Duration
}

// GenerateDesign analyzes dir and writes the design documents. Pattern and
// output problems are reported as config.ErrInvalid before any file is
// analyzed; rendering problems as ErrRender before any file is written. When
// writing fails partway the Result is still returned, listing the pages
// written so far, together with the error.
func (e *Engine) GenerateDesign(ctx context.Context, dir string, patterns *Patterns) (*Result, error) {
	start := time.Now()

	include, exclude := e.cfg.Include, e.cfg.Exclude
	if patterns != nil {
		if patterns.Include != nil {
			include = patterns.Include
		}
		if patterns.Exclude != nil {
			exclude = patterns.Exclude
		}
	}
	if err := config.ValidatePatterns(include, exclude); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	outDir := e.OutputDir(root)
	if err := checkWritable(outDir); err != nil {
		return nil, fmt.Errorf("%w: output_dir %s: %w", config.ErrInvalid, outDir, err)
	}

	agg, err := aggregator.Run(ctx, e.registry, aggregator.Options{
		Root:             root,
		Include:          include,
		Exclude:          exclude,
		ExcludeDirs:      []string{outDir},
		MaxFileSize:      e.maxFileSize(),
		RespectGitignore: e.cfg.RespectGitignore,
		Concurrency:      e.cfg.Concurrency,
		OnProgress:       e.progress,
		Logger:           e.logger,
	})
	if err != nil {
		return nil, err
	}

	pages, err := e.render(agg.Tree)
	if err != nil {
		return nil, err
	}

	written, writeErr := writePages(outDir, pages)

	res := &Result{
		Root:              root,
		Tree:              agg.Tree,
		Modules:           agg.Tree.Count(),
		Metrics:           agg.Tree.Metrics(),
		Kind:              agg.Tree.Kind(),
		FilesAnalyzed:     agg.Analyzed,
		FilesSkipped:      len(agg.Skipped),
		Skipped:           agg.Skipped,
		Warnings:          agg.Warnings,
		FilesWithWarnings: agg.FilesWithWarnings,
		OutputPaths:       written,
		Duration:          time.Since(start),
	}
	if writeErr != nil {
		return res, writeErr
	}
	e.record(ctx, root, start, res)

	e.logger.Info("design generated",
		"root", root,
		"output_dir", outDir,
		"pages", len(written),
		"warnings", res.Warnings,
		"duration", res.Duration,
	)
	return res, nil
}

// render produces every page in memory.
func (e *Engine) render(tree *modtree.Node) ([]docs.Page, error) {
	if err := tree.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	pages, err := docs.Render(tree, docs.Options{Project: tree.Name, DepthLimit: e.cfg.DiagramDepthLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if !e.cfg.HTML {
		return pages, nil
	}
	htmlPages, err := site.Render(pages, tree.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	for _, p := range htmlPages {
		pages = append(pages, docs.Page{Path: HTMLDir + "/" + p.Path, Content: p.Content})
	}
	return pages, nil
}

// record appends the run to the history ledger. Ledger failures are logged
// and never fail a run whose documents were already written.
func (e *Engine) record(ctx context.Context, root string, start time.Time, res *Result) {
	path := e.HistoryPath(root)
	if path == "" {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		e.logger.Warn("history unavailable", "path", path, "error", err)
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, history.Run{
		StartedAt:         start,
		Duration:          res.Duration,
		Root:              root,
		FilesAnalyzed:     res.FilesAnalyzed,
		FilesSkipped:      res.FilesSkipped,
		Warnings:          res.Warnings,
		FilesWithWarnings: res.FilesWithWarnings,
		Outputs:           len(res.OutputPaths),
	})
	if err != nil {
		e.logger.Warn("recording run failed", "error", err)
		return
	}
	res.RunID = id
}

// checkWritable verifies that dir exists as a writable directory or can be
// created under its nearest existing ancestor. It leaves nothing behind.
func checkWritable(dir string) error {
	target := dir
	for {
		info, err := os.Stat(target)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", target)
			}
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(target)
		if parent == target {
			return err
		}
		target = parent
	}
	f, err := os.CreateTemp(target, ".archdoc-write-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// writePages writes every page under outDir and returns the written paths.
func writePages(outDir string, pages []docs.Page) ([]string, error) {
	written := make([]string, 0, len(pages))
	for _, p := range pages {
		target := filepath.Join(outDir, filepath.FromSlash(p.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, p.Content, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
