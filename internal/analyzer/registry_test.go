package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/archdoc/internal/model"
)

type stubAnalyzer struct {
	name string
	exts []string
}

func (s stubAnalyzer) Name() string         { return s.name }
func (s stubAnalyzer) Extensions() []string { return s.exts }
func (s stubAnalyzer) Kinds() []model.Kind  { return []model.Kind{model.KindRule} }
func (s stubAnalyzer) AnalyzeFile(path string) *model.AnalysisResult {
	return model.NewResult(path, s.name)
}

func TestResolveFirstRegisteredWins(t *testing.T) {
	r := NewRegistry(
		stubAnalyzer{name: "first", exts: []string{".css", ".scss"}},
		stubAnalyzer{name: "second", exts: []string{".scss", ".less"}},
	)

	for i := 0; i < 3; i++ {
		a, ok := r.Resolve(".scss")
		if !ok || a.Name() != "first" {
			t.Fatalf("Resolve(.scss) = %v, want first", a)
		}
	}
	if a, ok := r.Resolve(".less"); !ok || a.Name() != "second" {
		t.Errorf("Resolve(.less) = %v, want second", a)
	}
	if _, ok := r.Resolve(".xyz"); ok {
		t.Error("Resolve(.xyz) should find nothing")
	}

	overlaps := r.Overlaps()
	if len(overlaps) != 1 || overlaps[0].Ext != ".scss" || overlaps[0].Winner != "first" {
		t.Errorf("unexpected overlaps: %+v", overlaps)
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	r := NewRegistry(stubAnalyzer{name: "css", exts: []string{".css"}})
	if _, ok := r.Resolve(".CSS"); !ok {
		t.Error("expected .CSS to resolve")
	}
	if _, ok := r.Resolve("css"); !ok {
		t.Error("expected css without dot to resolve")
	}
}

func TestSelect(t *testing.T) {
	r := NewRegistry(
		stubAnalyzer{name: "a", exts: []string{".a"}},
		stubAnalyzer{name: "b", exts: []string{".b", ".shared"}},
		stubAnalyzer{name: "c", exts: []string{".shared"}},
	)

	sel, err := r.Select([]string{"c", "a"}, false)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := sel.Names(); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("Names() = %v, want [c a]", got)
	}

	if _, err := r.Select([]string{"nope"}, false); err == nil {
		t.Error("expected error for unknown analyzer")
	}

	if _, err := r.Select([]string{"b", "c"}, false); !errors.Is(err, ErrOverlap) {
		t.Errorf("expected ErrOverlap, got %v", err)
	}

	sel, err = r.Select([]string{"c", "b"}, true)
	if err != nil {
		t.Fatalf("Select with overlap allowed: %v", err)
	}
	if a, _ := sel.Resolve(".shared"); a.Name() != "c" {
		t.Errorf("Resolve(.shared) = %s, want c", a.Name())
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.css")
	os.WriteFile(path, []byte("a{}\nb{}\n"), 0o644)

	src, res, ok := ReadSource(path, "css")
	if !ok || len(src) == 0 || res.Lines != 2 {
		t.Errorf("ReadSource = ok %v, lines %d", ok, res.Lines)
	}

	_, res, ok = ReadSource(filepath.Join(dir, "missing.css"), "css")
	if ok || len(res.Warnings) != 1 {
		t.Errorf("expected a read warning, got ok=%v warnings=%v", ok, res.Warnings)
	}
}

func TestLineIndex(t *testing.T) {
	idx := NewLineIndex([]byte("ab\ncd\n\nef"))
	tests := []struct {
		offset, want int
	}{
		{0, 1}, {2, 1}, {3, 2}, {6, 3}, {7, 4}, {8, 4},
	}
	for _, tt := range tests {
		if got := idx.Line(tt.offset); got != tt.want {
			t.Errorf("Line(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
