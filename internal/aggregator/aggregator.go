// Package aggregator walks a project, dispatches every matched file to its
// analyzer and assembles the results into a module tree.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/modtree"
	"github.com/ziadkadry99/archdoc/internal/walker"
)

// ProgressFunc is called as files finish analysis.
type ProgressFunc func(processed int, total int, currentFile string)

// Options controls one aggregation run.
type Options struct {
	Root             string
	Include          []string
	Exclude          []string
	ExcludeDirs      []string
	MaxFileSize      int64
	RespectGitignore bool
	Concurrency      int
	OnProgress       ProgressFunc
	Logger           *slog.Logger
}

// Aggregate is the outcome of a run.
type Aggregate struct {
	Tree              *modtree.Node
	Analyzed          int
	Skipped           []string // matched files no analyzer claims
	Warnings          int
	FilesWithWarnings int
}

type job struct {
	file     walker.FileInfo
	analyzer analyzer.Analyzer
}

// Run walks opts.Root and analyzes every file the registry can resolve.
// Files are analyzed on a bounded pool but merged into the tree in walk
// order, so the tree is identical for any concurrency setting.
func Run(ctx context.Context, reg *analyzer.Registry, opts Options) (*Aggregate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("aggregator: resolve root: %w", err)
	}

	files, err := walker.Walk(ctx, walker.WalkerConfig{
		RootDir:          root,
		Include:          opts.Include,
		Exclude:          opts.Exclude,
		ExcludeDirs:      opts.ExcludeDirs,
		MaxFileSize:      opts.MaxFileSize,
		RespectGitignore: opts.RespectGitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	agg := &Aggregate{Tree: modtree.New(filepath.Base(root))}
	var jobs []job
	for _, f := range files {
		a, ok := reg.Resolve(filepath.Ext(f.RelPath))
		if !ok {
			agg.Skipped = append(agg.Skipped, f.RelPath)
			logger.Debug("unsupported file", "path", f.RelPath)
			continue
		}
		jobs = append(jobs, job{file: f, analyzer: a})
	}

	results := analyzeAll(ctx, jobs, opts, logger)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	for i, j := range jobs {
		res := results[i]
		res.Path = j.file.RelPath
		enforceVocabulary(res, j.analyzer)

		agg.Analyzed++
		if n := len(res.Warnings); n > 0 {
			agg.Warnings += n
			agg.FilesWithWarnings++
		}
		agg.Tree.Add(j.file.RelPath, &modtree.Leaf{
			Family:   j.file.Language.Family,
			Analyzer: j.analyzer.Name(),
			Result:   res,
		})
	}
	agg.Tree.Recompute()

	logger.Info("aggregation complete",
		"root", root,
		"analyzed", agg.Analyzed,
		"skipped", len(agg.Skipped),
		"warnings", agg.Warnings,
	)
	return agg, nil
}

// analyzeAll runs every job and returns the results indexed like jobs.
func analyzeAll(ctx context.Context, jobs []job, opts Options, logger *slog.Logger) []*model.AnalysisResult {
	results := make([]*model.AnalysisResult, len(jobs))
	total := len(jobs)
	if total == 0 {
		return results
	}

	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers)
	var processed int64

	for i, j := range jobs {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			results[i] = analyzeOne(j, logger)
			count := atomic.AddInt64(&processed, 1)
			if opts.OnProgress != nil {
				opts.OnProgress(int(count), total, j.file.RelPath)
			}
		})
	}
	p.Wait()
	return results
}

// analyzeOne never fails: read errors, oversize files and even analyzer
// panics become warnings on the returned result.
func analyzeOne(j job, logger *slog.Logger) (res *model.AnalysisResult) {
	fileType := strings.ToLower(j.file.Language.Name)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analyzer panicked", "analyzer", j.analyzer.Name(), "path", j.file.RelPath, "panic", r)
			res = model.NewResult(j.file.RelPath, fileType)
			res.Warn(0, "analyzer %s failed: %v", j.analyzer.Name(), r)
		}
	}()

	if j.file.Oversize {
		res = model.NewResult(j.file.RelPath, fileType)
		res.Warn(0, "file is %d bytes, over the size limit; not analyzed", j.file.Size)
		return res
	}

	res = j.analyzer.AnalyzeFile(j.file.Path)
	if res == nil {
		res = model.NewResult(j.file.RelPath, fileType)
		res.Warn(0, "analyzer %s returned no result", j.analyzer.Name())
	}
	logger.Debug("analyzed file",
		"path", j.file.RelPath,
		"analyzer", j.analyzer.Name(),
		"entities", len(res.Entities),
		"warnings", len(res.Warnings),
	)
	return res
}

// enforceVocabulary drops entities whose kind the analyzer did not declare.
func enforceVocabulary(res *model.AnalysisResult, a analyzer.Analyzer) {
	allowed := make(map[model.Kind]bool)
	for _, k := range a.Kinds() {
		allowed[k] = true
	}
	res.Entities = filterKinds(res, res.Entities, allowed)
}

func filterKinds(res *model.AnalysisResult, entities []model.Entity, allowed map[model.Kind]bool) []model.Entity {
	if len(entities) == 0 {
		return entities
	}
	kept := entities[:0]
	for _, e := range entities {
		if !allowed[e.Kind] {
			res.Warn(e.Location.Line, "dropped %q: kind %q is not declared by the analyzer", e.Name, e.Kind)
			continue
		}
		e.Children = filterKinds(res, e.Children, allowed)
		kept = append(kept, e)
	}
	return kept
}
