// Package markup implements the markup analyzer. Documents are tokenized
// with golang.org/x/net/html and assembled into an element tree by a small
// repairing builder that keeps line numbers, which the standard tree
// constructor does not expose.
package markup

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/archdoc/internal/analyzer"
	"github.com/ziadkadry99/archdoc/internal/model"
)

const fileType = "html"

// Analyzer is the markup analyzer. It holds no state.
type Analyzer struct{}

// New returns a markup analyzer.
func New() *Analyzer { return &Analyzer{} }

func (*Analyzer) Name() string { return "markup" }

func (*Analyzer) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (*Analyzer) Kinds() []model.Kind {
	return []model.Kind{
		model.KindElement,
		model.KindCustomElement,
		model.KindFormElement,
		model.KindScriptReference,
		model.KindLink,
		model.KindRelationship,
	}
}

// AnalyzeFile reads and analyzes a markup document.
func (a *Analyzer) AnalyzeFile(path string) *model.AnalysisResult {
	src, res, ok := analyzer.ReadSource(path, fileType)
	if !ok {
		return res
	}
	analyze(res, src)
	return res
}

// AnalyzeSource analyzes markup that is already in memory.
func (a *Analyzer) AnalyzeSource(name string, src []byte) *model.AnalysisResult {
	res := model.NewResult(filepath.ToSlash(name), fileType)
	res.Lines = model.CountLines(src)
	analyze(res, src)
	return res
}

// Script reference categories.
const (
	ScriptInline   = "inline"
	ScriptExternal = "external"
)

var formTags = map[string]bool{
	"form": true, "input": true, "select": true, "textarea": true,
	"button": true, "label": true, "fieldset": true, "optgroup": true,
}

type counts struct {
	elements, custom, forms, scripts, links, relations int
}

func analyze(res *model.AnalysisResult, src []byte) {
	roots := build(src, res.Warn)

	var c counts
	for _, r := range roots {
		res.Entities = append(res.Entities, elementEntity(r, &c))
	}
	var visit func(n *node, parent *node)
	visit = func(n *node, parent *node) {
		derived(res, n, &c)
		if parent != nil {
			c.relations++
			res.Entities = append(res.Entities, model.Entity{
				Kind:      model.KindRelationship,
				Name:      fmt.Sprintf("%s > %s", label(parent), label(n)),
				Location:  n.location(),
				Relations: []model.Relation{{Kind: model.Containment, From: label(parent), To: label(n)}},
			})
		}
		for _, ch := range n.children {
			visit(ch, n)
		}
	}
	for _, r := range roots {
		visit(r, nil)
	}
	res.SortEntities()

	res.Fact("dom_depth", depth(roots))
	res.Fact("elements", c.elements)
	res.Fact("custom_elements", c.custom)
	res.Fact("form_elements", c.forms)
	res.Fact("scripts", c.scripts)
	res.Fact("links", c.links)
	res.Fact("relationships", c.relations)
}

func elementEntity(n *node, c *counts) model.Entity {
	c.elements++
	e := model.Entity{
		Kind:       model.KindElement,
		Name:       label(n),
		Tag:        n.tag,
		Location:   n.location(),
		Attributes: attrs(n.attrs),
	}
	for _, ch := range n.children {
		e.Children = append(e.Children, elementEntity(ch, c))
	}
	return e
}

// derived emits the custom, form, script and link entities for one element.
func derived(res *model.AnalysisResult, n *node, c *counts) {
	if category, ok := customCategory(n.tag); ok {
		c.custom++
		res.Entities = append(res.Entities, model.Entity{
			Kind:       model.KindCustomElement,
			Name:       n.tag,
			Tag:        n.tag,
			Category:   category,
			Location:   n.location(),
			Attributes: attrs(n.attrs),
		})
	}

	if formTags[n.tag] {
		c.forms++
		e := model.Entity{
			Kind:     model.KindFormElement,
			Name:     label(n),
			Tag:      n.tag,
			Category: n.tag,
			Location: n.location(),
		}
		for _, key := range []string{"type", "name"} {
			if v, ok := n.attr(key); ok {
				e.Attributes = append(e.Attributes, model.Attr{Key: key, Value: v})
			}
		}
		res.Entities = append(res.Entities, e)
	}

	switch n.tag {
	case "script":
		c.scripts++
		e := model.Entity{Kind: model.KindScriptReference, Tag: n.tag, Location: n.location()}
		if src, ok := n.attr("src"); ok && strings.TrimSpace(src) != "" {
			src = strings.TrimSpace(src)
			e.Name = src
			e.Category = ScriptExternal
			e.Attributes = append(e.Attributes, model.Attr{Key: "src", Value: src})
			res.Imports = append(res.Imports, src)
		} else {
			e.Name = "inline script"
			e.Category = ScriptInline
			if !n.text {
				e.Attributes = append(e.Attributes, model.Attr{Key: "body", Value: "empty"})
			}
		}
		if t, ok := n.attr("type"); ok {
			e.Attributes = append(e.Attributes, model.Attr{Key: "type", Value: t})
		}
		res.Entities = append(res.Entities, e)
	case "link", "a":
		href, ok := n.attr("href")
		if !ok {
			return
		}
		c.links++
		rel, _ := n.attr("rel")
		category := rel
		if category == "" {
			category = "anchor"
			if n.tag == "link" {
				category = "link"
			}
		}
		res.Entities = append(res.Entities, model.Entity{
			Kind:     model.KindLink,
			Name:     href,
			Tag:      n.tag,
			Category: category,
			Location: n.location(),
			Attributes: []model.Attr{
				{Key: "href", Value: href},
				{Key: "rel", Value: rel},
			},
		})
		if n.tag == "link" && strings.EqualFold(rel, "stylesheet") {
			res.Imports = append(res.Imports, href)
		}
	}
}

// customCategory reports whether tag is a custom element and why.
func customCategory(tag string) (string, bool) {
	if strings.Contains(tag, "-") {
		return "hyphenated", true
	}
	if !standardTags[tag] {
		return "unknown-tag", true
	}
	return "", false
}

// label renders an element as tag#id.class for names and relationship ends.
func label(n *node) string {
	var b strings.Builder
	b.WriteString(n.tag)
	if id, ok := n.attr("id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	if class, ok := n.attr("class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			b.WriteString("." + fields[0])
		}
	}
	return b.String()
}

func attrs(in []html.Attribute) []model.Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Attr, 0, len(in))
	for _, a := range in {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		out = append(out, model.Attr{Key: key, Value: a.Val})
	}
	return out
}

// Depth reports the DOM depth recorded on a markup result.
func Depth(res *model.AnalysisResult) int {
	v, ok := res.LookupFact("dom_depth")
	if !ok {
		return 0
	}
	var d int
	fmt.Sscanf(v, "%d", &d)
	return d
}
