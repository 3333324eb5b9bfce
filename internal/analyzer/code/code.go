// Package code implements the source code analyzers on top of tree-sitter:
// "script" for JavaScript and TypeScript and "source" for Python and Go.
// They record classes with their members, top-level functions, imports and
// inheritance or composition edges. Parsing is purely syntactic.
package code

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/model"
)

// language binds a grammar to the extraction pass for it.
type language struct {
	fileType string
	grammar  func() *sitter.Language
	extract  func(*extractor, *sitter.Node)
}

var (
	javascriptLang = language{"javascript", javascript.GetLanguage, extractScript}
	typescriptLang = language{"typescript", typescript.GetLanguage, extractScript}
	tsxLang        = language{"tsx", tsx.GetLanguage, extractScript}
	pythonLang     = language{"python", python.GetLanguage, extractPython}
	goLang         = language{"go", golang.GetLanguage, extractGo}
)

// Analyzer is a tree-sitter backed analyzer for a family of languages.
// It keeps no parser between calls.
type Analyzer struct {
	name      string
	languages map[string]language
	exts      []string
}

// NewScript returns the JavaScript/TypeScript analyzer.
func NewScript() *Analyzer {
	return newAnalyzer("script", []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}, map[string]language{
		".js":  javascriptLang,
		".jsx": javascriptLang,
		".mjs": javascriptLang,
		".cjs": javascriptLang,
		".ts":  typescriptLang,
		".tsx": tsxLang,
	})
}

// NewSource returns the Python and Go analyzer.
func NewSource() *Analyzer {
	return newAnalyzer("source", []string{".py", ".go"}, map[string]language{
		".py": pythonLang,
		".go": goLang,
	})
}

func newAnalyzer(name string, exts []string, langs map[string]language) *Analyzer {
	return &Analyzer{name: name, languages: langs, exts: exts}
}

func (a *Analyzer) Name() string { return a.name }

func (a *Analyzer) Extensions() []string { return a.exts }

func (a *Analyzer) Kinds() []model.Kind {
	return []model.Kind{model.KindClass, model.KindFunction, model.KindMethod, model.KindImport}
}

// AnalyzeFile reads and analyzes one source file.
func (a *Analyzer) AnalyzeFile(path string) *model.AnalysisResult {
	lang, ok := a.languages[analyzer.NormalizeExt(filepath.Ext(path))]
	if !ok {
		res := model.NewResult(filepath.ToSlash(path), "unknown")
		res.Warn(0, "no grammar for extension %q", filepath.Ext(path))
		return res
	}
	src, res, ok := analyzer.ReadSource(path, lang.fileType)
	if !ok {
		return res
	}
	run(res, lang, src)
	return res
}

// AnalyzeSource analyzes in-memory source. The language is chosen from the
// extension of name.
func (a *Analyzer) AnalyzeSource(name string, src []byte) *model.AnalysisResult {
	lang, ok := a.languages[analyzer.NormalizeExt(filepath.Ext(name))]
	if !ok {
		res := model.NewResult(filepath.ToSlash(name), "unknown")
		res.Warn(0, "no grammar for extension %q", filepath.Ext(name))
		return res
	}
	res := model.NewResult(filepath.ToSlash(name), lang.fileType)
	res.Lines = model.CountLines(src)
	run(res, lang, src)
	return res
}

func run(res *model.AnalysisResult, lang language, src []byte) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		res.Warn(0, "parse failed: %v", err)
		return
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if n := firstError(root); n != nil {
			res.Warn(line(n), "syntax error; extraction may be partial")
		} else {
			res.Warn(0, "syntax error; extraction may be partial")
		}
	}

	x := &extractor{src: src, res: res}
	lang.extract(x, root)
	x.finish()

	classes, functions := res.Counts()
	res.Fact("language", lang.fileType)
	res.Fact("classes", classes)
	res.Fact("functions", functions)
	res.Fact("imports", len(res.Imports))
}

// extractor accumulates entities for one file.
type extractor struct {
	src     []byte
	res     *model.AnalysisResult
	classes []model.Entity
	byName  map[string]int
	orphans []model.Entity
}

func (x *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(x.src)
}

func (x *extractor) addImport(n *sitter.Node, path string) {
	path = strings.Trim(strings.TrimSpace(path), "\"'`")
	if path == "" {
		return
	}
	x.res.Imports = append(x.res.Imports, path)
	x.res.Entities = append(x.res.Entities, model.Entity{
		Kind:     model.KindImport,
		Name:     path,
		Location: span(n),
	})
}

func (x *extractor) addFunction(n *sitter.Node, name, signature string, vis model.Visibility) {
	if name == "" {
		return
	}
	x.res.Entities = append(x.res.Entities, model.Entity{
		Kind:     model.KindFunction,
		Name:     name,
		Location: span(n),
		Category: string(vis),
		Attributes: []model.Attr{
			{Key: "signature", Value: signature},
			{Key: "visibility", Value: string(vis)},
		},
	})
}

func (x *extractor) addClass(e model.Entity) {
	if x.byName == nil {
		x.byName = make(map[string]int)
	}
	x.byName[e.Name] = len(x.classes)
	x.classes = append(x.classes, e)
}

// addMethod records a method on its class, or as a free-standing method
// entity when the owning class is declared elsewhere.
func (x *extractor) addMethod(owner string, n *sitter.Node, name, signature string, vis model.Visibility) {
	if name == "" {
		return
	}
	m := model.Entity{
		Kind:     model.KindMethod,
		Name:     name,
		Location: span(n),
		Category: string(vis),
		Attributes: []model.Attr{
			{Key: "signature", Value: signature},
			{Key: "visibility", Value: string(vis)},
		},
	}
	if i, ok := x.byName[owner]; ok {
		c := &x.classes[i]
		c.Members = append(c.Members, model.Member{Name: name, Signature: signature, Visibility: vis, Line: line(n)})
		c.Children = append(c.Children, m)
		return
	}
	m.Attributes = append(m.Attributes, model.Attr{Key: "receiver", Value: owner})
	x.orphans = append(x.orphans, m)
}

func (x *extractor) finish() {
	for _, c := range x.classes {
		sortByLine(c.Children)
		sortMembers(c.Members)
		x.res.Entities = append(x.res.Entities, c)
	}
	x.res.Entities = append(x.res.Entities, x.orphans...)
	x.res.SortEntities()
}

func line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

func span(n *sitter.Node) model.Location {
	return model.Span(line(n), int(n.EndPoint().Row)+1)
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// firstError returns the earliest ERROR or MISSING node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if e := firstError(c); e != nil {
			return e
		}
	}
	return nil
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }

func sortByLine(items []model.Entity) {
	r := model.AnalysisResult{Entities: items}
	r.SortEntities()
}

func sortMembers(ms []model.Member) {
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j].Line < ms[j-1].Line; j-- {
			ms[j], ms[j-1] = ms[j-1], ms[j]
		}
	}
}

// leadingVisibility applies the underscore convention shared by Python and
// JavaScript: a leading underscore marks a member private, except dunders.
func leadingVisibility(name string) model.Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		return model.Public
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, "#") {
		return model.Private
	}
	return model.Public
}
