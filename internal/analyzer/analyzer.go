// Package analyzer defines the capability contract every format analyzer
// implements and the registry that dispatches files to them by extension.
package analyzer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/model"
)

// Analyzer extracts structural entities from one kind of file.
//
// Implementations must be stateless across calls so that one instance can be
// shared by concurrent workers, and AnalyzeFile must never panic or fail on
// malformed input: problems are reported as warnings on the result.
type Analyzer interface {
	// Name is the identifier used by enabled_analyzers.
	Name() string
	// Extensions lists the lower-case file extensions, with leading dot.
	Extensions() []string
	// Kinds is the closed entity vocabulary this analyzer may emit.
	Kinds() []model.Kind
	// AnalyzeFile reads and analyzes the file at path.
	AnalyzeFile(path string) *model.AnalysisResult
}

// Info describes a registered analyzer for capability discovery.
type Info struct {
	Name       string
	Extensions []string
	Kinds      []model.Kind
}

// Describe returns the Info for a.
func Describe(a Analyzer) Info {
	return Info{
		Name:       a.Name(),
		Extensions: append([]string(nil), a.Extensions()...),
		Kinds:      append([]model.Kind(nil), a.Kinds()...),
	}
}

// ReadSource loads a file for analysis. When the file cannot be read it
// returns a result carrying the read failure as a warning and ok=false.
func ReadSource(path, fileType string) (src []byte, res *model.AnalysisResult, ok bool) {
	res = model.NewResult(filepath.ToSlash(path), fileType)
	src, err := os.ReadFile(path)
	if err != nil {
		res.Warn(0, "read failed: %v", err)
		return nil, res, false
	}
	res.Lines = model.CountLines(src)
	return src, res, true
}

// NormalizeExt lower-cases an extension and ensures the leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// LineIndex maps byte offsets to 1-based line numbers.
type LineIndex []int

// NewLineIndex records the offset of every newline in src.
func NewLineIndex(src []byte) LineIndex {
	var idx LineIndex
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

// Line returns the 1-based line that contains offset.
func (li LineIndex) Line(offset int) int {
	lo, hi := 0, len(li)
	for lo < hi {
		mid := (lo + hi) / 2
		if li[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo + 1
}
