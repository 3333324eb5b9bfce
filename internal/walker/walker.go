// Package walker discovers the files a run should analyze. Traversal is
// depth-first in lexical order so that every run over the same tree yields
// the same file sequence.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the largest file analyzed in full (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path     string   // Absolute path on disk.
	RelPath  string   // Slash-separated path relative to the root directory.
	Size     int64    // File size in bytes.
	Language Language // Detected language.
	Oversize bool     // Larger than MaxFileSize; analyzed as a warning only.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir          string   // Root directory to walk.
	Include          []string // Glob patterns; only matching files are included.
	Exclude          []string // Glob patterns; matching files and directories are excluded.
	ExcludeDirs      []string // Directories pruned by path, e.g. the output directory.
	MaxFileSize      int64    // Files larger than this are flagged (0 = use default).
	RespectGitignore bool     // Honour the root .gitignore.
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// metadata for every regular file that passes filtering. Unreadable entries
// are skipped rather than aborting the walk.
func Walk(ctx context.Context, config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	pruned := make(map[string]bool, len(config.ExcludeDirs))
	for _, d := range config.ExcludeDirs {
		if abs, err := filepath.Abs(d); err == nil {
			pruned[abs] = true
		}
	}

	var gitignorePatterns []string
	if config.RespectGitignore {
		gitignorePatterns = loadGitignore(filepath.Join(root, ".gitignore"))
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if pruned[path] || shouldExcludeDir(d.Name()) ||
				excludesDir(relPath, config.Exclude) ||
				matchesGitignore(relPath, gitignorePatterns, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if matchesGitignore(relPath, gitignorePatterns, false) {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) || MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  relPath,
			Size:     info.Size(),
			Language: DetectLanguage(d.Name()),
			Oversize: info.Size() > maxSize,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment, non-negated lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
// Directory-only patterns (trailing slash) apply only when isDir is set.
func matchesGitignore(relPath string, patterns []string, isDir bool) bool {
	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		if dirOnly && !isDir {
			continue
		}
		pattern = strings.TrimPrefix(strings.TrimSuffix(pattern, "/"), "/")

		if !strings.Contains(pattern, "/") {
			// Without a slash the pattern matches the entry's own name.
			if matched, _ := filepath.Match(pattern, filepath.Base(relPath)); matched {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
