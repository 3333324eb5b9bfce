// Package docs renders a module tree into markdown pages. Rendering is pure:
// pages are returned in memory and the caller decides when to write them.
package docs

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ziadkadry99/archdoc/internal/diagrams"
	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/modtree"
)

// Page names.
const (
	IndexPage   = "_index.md"
	ModulePage  = "_module.md"
	ItemsSuffix = "_items.md"
)

// Page is one rendered document, addressed by a slash-separated path
// relative to the output directory.
type Page struct {
	Path    string
	Content []byte
}

// Options controls rendering.
type Options struct {
	Project    string
	DepthLimit int
}

var (
	indexTmpl  = template.Must(template.New("index").Funcs(templateFuncs).Parse(indexTemplate))
	moduleTmpl = template.Must(template.New("module").Funcs(templateFuncs).Parse(moduleTemplate))
	itemsTmpl  = template.Must(template.New("items").Funcs(templateFuncs).Parse(itemsTemplate))
)

// Render produces the index page, one page per module and one items page per
// analyzed file, in tree pre-order. Identical trees render byte-identical
// pages.
func Render(root *modtree.Node, opts Options) ([]Page, error) {
	project := opts.Project
	if project == "" {
		project = root.Name
	}

	arch, err := diagrams.Architecture(root, opts.DepthLimit)
	if err != nil {
		return nil, fmt.Errorf("docs: architecture diagram: %w", err)
	}

	idx := indexView{Project: project, Diagram: arch}
	var pages []Page
	var renderErr error

	root.Walk(func(path string, _ int, n *modtree.Node) bool {
		if renderErr != nil {
			return false
		}
		mv := newModuleView(path, n)
		idx.Modules = append(idx.Modules, mv)
		idx.Totals.Modules++

		page, err := execute(moduleTmpl, Join(path, ModulePage), mv)
		if err != nil {
			renderErr = err
			return false
		}
		pages = append(pages, page)

		for _, l := range n.Leaves {
			view, err := newItemsView(l)
			if err != nil {
				renderErr = err
				return false
			}
			page, err := execute(itemsTmpl, Join(path, l.Name+ItemsSuffix), view)
			if err != nil {
				renderErr = err
				return false
			}
			pages = append(pages, page)
		}
		return true
	})
	if renderErr != nil {
		return nil, renderErr
	}
	idx.Totals.Metrics = root.Metrics()

	index, err := execute(indexTmpl, IndexPage, idx)
	if err != nil {
		return nil, err
	}
	return append([]Page{index}, pages...), nil
}

func execute(t *template.Template, path string, data any) (Page, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Page{}, fmt.Errorf("docs: render %s: %w", path, err)
	}
	return Page{Path: path, Content: buf.Bytes()}, nil
}

// Join appends a page name to a module path.
func Join(dir, name string) string { return modtree.Join(dir, name) }

type totals struct {
	Modules int
	modtree.Metrics
}

type indexView struct {
	Project string
	Diagram string
	Totals  totals
	Modules []moduleView
}

type moduleView struct {
	Title    string
	Name     string
	Link     string // relative to the output root or, for children, to the parent
	Kind     modtree.Kind
	Icon     string
	Metrics  modtree.Metrics
	Children []moduleView
	Files    []fileView
}

type fileView struct {
	Name     string
	Link     string
	FileType string
	Lines    int
	Entities int
	Warnings int
}

func newModuleView(path string, n *modtree.Node) moduleView {
	mv := moduleView{
		Title:   path,
		Name:    n.Name,
		Link:    Join(path, ModulePage),
		Kind:    n.Kind(),
		Icon:    n.Kind().Icon(),
		Metrics: n.Metrics(),
	}
	if path == "" {
		mv.Title = n.Name + " (root)"
	}
	for _, c := range n.Children {
		mv.Children = append(mv.Children, moduleView{
			Name:    c.Name,
			Link:    Join(c.Name, ModulePage),
			Kind:    c.Kind(),
			Icon:    c.Kind().Icon(),
			Metrics: c.Metrics(),
		})
	}
	for _, l := range n.Leaves {
		mv.Files = append(mv.Files, fileView{
			Name:     l.Name,
			Link:     l.Name + ItemsSuffix,
			FileType: l.Result.FileType,
			Lines:    l.Result.Lines,
			Entities: len(l.Result.Entities),
			Warnings: len(l.Result.Warnings),
		})
	}
	return mv
}

type itemsView struct {
	Path          string
	Analyzer      string
	FileType      string
	Lines         int
	Facts         []model.Attr
	Imports       []string
	ImportDiagram string
	Warnings      []model.Warning
	ClassDiagram  string
	Entities      []entityView
}

type entityView struct {
	Kind    model.Kind
	Name    string
	Rows    []model.Attr
	Diagram string
}

func newItemsView(l *modtree.Leaf) (itemsView, error) {
	res := l.Result
	v := itemsView{
		Path:     res.Path,
		Analyzer: l.Analyzer,
		FileType: res.FileType,
		Lines:    res.Lines,
		Facts:    res.Facts,
		Imports:  res.Imports,
		Warnings: res.Warnings,
	}
	if len(res.Imports) > 0 {
		d, err := diagrams.Imports(l.Name, res.Imports)
		if err != nil {
			return v, fmt.Errorf("docs: imports diagram for %s: %w", res.Path, err)
		}
		v.ImportDiagram = d
	}
	if d, ok := diagrams.FileClasses(res); ok {
		v.ClassDiagram = d
	}
	for i := range res.Entities {
		e := &res.Entities[i]
		ev := entityView{Kind: e.Kind, Name: e.Name, Rows: attributeRows(e)}
		if e.Kind == model.KindClass {
			ev.Diagram = diagrams.Class(e)
		}
		v.Entities = append(v.Entities, ev)
	}
	return v, nil
}

// attributeRows flattens an entity into a table with a fixed row order so
// that pages are stable across runs.
func attributeRows(e *model.Entity) []model.Attr {
	rows := []model.Attr{
		{Key: "kind", Value: string(e.Kind)},
		{Key: "location", Value: e.Location.String()},
	}
	add := func(key, value string) {
		if value != "" {
			rows = append(rows, model.Attr{Key: key, Value: value})
		}
	}
	add("category", e.Category)
	add("tag", e.Tag)
	if e.Specificity != nil {
		add("specificity", e.Specificity.String())
	}
	for _, a := range e.Attributes {
		rows = append(rows, model.Attr{Key: "attr " + a.Key, Value: a.Value})
	}
	for _, p := range e.Properties {
		rows = append(rows, model.Attr{Key: "property " + p.Name, Value: fmt.Sprintf("%s (%s)", p.Value, p.Category)})
	}
	for _, m := range e.Members {
		rows = append(rows, model.Attr{Key: "member", Value: m.Visibility.Marker() + m.Signature})
	}
	for _, r := range e.Relations {
		rows = append(rows, model.Attr{Key: "relation", Value: fmt.Sprintf("%s: %s → %s", r.Kind, r.From, r.To)})
	}
	for _, c := range e.Children {
		rows = append(rows, model.Attr{Key: "child", Value: fmt.Sprintf("%s %s (%s)", c.Kind, c.Name, c.Location)})
	}
	return rows
}

// templateFuncs provides helper functions for the markdown templates.
var templateFuncs = template.FuncMap{
	"code": func(s string) string {
		if s == "" {
			return ""
		}
		return "`" + s + "`"
	},
	"oneline": oneline,
	"cell": func(s string) string {
		return strings.ReplaceAll(oneline(s), "|", `\|`)
	},
}

func oneline(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}
