// Package css implements the stylesheet analyzer. It is a brace-delimited
// block scanner rather than a grammar parser: it extracts rules, selectors,
// custom properties, media queries and imports well enough to document a
// stylesheet. Braces inside strings or comments that span blocks are a known
// limitation.
package css

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/model"
)

const fileType = "css"

// Analyzer is the stylesheet analyzer. It holds no state.
type Analyzer struct{}

// New returns a stylesheet analyzer.
func New() *Analyzer { return &Analyzer{} }

func (*Analyzer) Name() string { return "stylesheet" }

func (*Analyzer) Extensions() []string { return []string{".css", ".scss", ".less"} }

func (*Analyzer) Kinds() []model.Kind {
	return []model.Kind{
		model.KindRule,
		model.KindSelector,
		model.KindMediaQuery,
		model.KindVariable,
		model.KindImport,
	}
}

// AnalyzeFile reads and analyzes a stylesheet.
func (a *Analyzer) AnalyzeFile(path string) *model.AnalysisResult {
	src, res, ok := analyzer.ReadSource(path, fileType)
	if !ok {
		return res
	}
	a.analyze(res, src, lineCommentsAllowed(path))
	return res
}

// AnalyzeSource analyzes stylesheet text that is already in memory. name is
// recorded as the result path; its extension decides whether // comments are
// recognised.
func (a *Analyzer) AnalyzeSource(name string, src []byte) *model.AnalysisResult {
	res := model.NewResult(filepath.ToSlash(name), fileType)
	res.Lines = model.CountLines(src)
	a.analyze(res, src, lineCommentsAllowed(name))
	return res
}

func (a *Analyzer) analyze(res *model.AnalysisResult, src []byte, lineComments bool) {
	s := &scanner{
		src:   stripComments(src, lineComments),
		lines: analyzer.NewLineIndex(src),
		res:   res,
	}
	items, _ := s.parseItems(false)
	res.Entities = items
	res.SortEntities()
	addFacts(res)
}

func lineCommentsAllowed(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".scss", ".less":
		return true
	}
	return false
}

func addFacts(res *model.AnalysisResult) {
	var rules, selectors, variables, media int
	var max model.Specificity
	model.Walk(res.Entities, func(e *model.Entity) {
		switch e.Kind {
		case model.KindRule:
			rules++
		case model.KindSelector:
			selectors++
			if e.Specificity != nil && e.Specificity.Compare(max) > 0 {
				max = *e.Specificity
			}
		case model.KindVariable:
			variables++
		case model.KindMediaQuery:
			media++
		}
	})
	res.Fact("rules", rules)
	res.Fact("selectors", selectors)
	res.Fact("variables", variables)
	res.Fact("media_queries", media)
	res.Fact("max_specificity", max.String())
}

// stripComments blanks out comments while keeping newlines so byte offsets
// and line numbers stay aligned with the original source.
func stripComments(src []byte, lineComments bool) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	var quote byte
	depth := 0
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			stop := len(src)
			if end := bytes.Index(src[i+2:], []byte("*/")); end >= 0 {
				stop = i + 2 + end + 2
			}
			for j := i; j < stop; j++ {
				if out[j] != '\n' {
					out[j] = ' '
				}
			}
			i = stop - 1
		case lineComments && depth == 0 && c == '/' && i+1 < len(out) && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		}
	}
	return out
}
