// Package diagrams renders mermaid source for module trees, imports and
// classes. Output is plain text; callers wrap it in fenced blocks.
package diagrams

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/modtree"
)

// ErrDuplicateID is returned when two diagram nodes would share an id.
var ErrDuplicateID = errors.New("diagrams: duplicate node id")

// graph accumulates one mermaid diagram and the ids it has declared.
type graph struct {
	b    strings.Builder
	seen map[string]bool
	err  error
}

func newGraph(header string) *graph {
	g := &graph{seen: make(map[string]bool)}
	g.b.WriteString(header + "\n")
	return g
}

// declare emits a node definition. A repeated id is recorded as an error.
func (g *graph) declare(id, label string) {
	if g.seen[id] {
		if g.err == nil {
			g.err = fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		return
	}
	g.seen[id] = true
	fmt.Fprintf(&g.b, "    %s[\"%s\"]\n", id, escapeMermaid(label))
}

func (g *graph) edge(from, to string) {
	fmt.Fprintf(&g.b, "    %s --> %s\n", from, to)
}

func (g *graph) result() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.b.String(), nil
}

// Architecture renders the module tree as a top-down graph with one node per
// module and one edge per parent/child pair. Ids are n0, n1, ... in
// pre-order. Modules deeper than depthLimit collapse into a single
// "…and N more" node; a zero limit renders everything.
func Architecture(root *modtree.Node, depthLimit int) (string, error) {
	g := newGraph("graph TD")
	g.module(root, 0, 0, depthLimit)
	return g.result()
}

// module emits n and its subtree starting at id next and returns the next
// unused id.
func (g *graph) module(n *modtree.Node, depth, next, limit int) int {
	id := nodeID(next)
	next++
	g.declare(id, moduleLabel(n))

	if limit > 0 && depth >= limit && len(n.Children) > 0 {
		more := nodeID(next)
		next++
		g.declare(more, fmt.Sprintf("…and %d more", n.Count()-1))
		g.edge(id, more)
		return next
	}
	for _, c := range n.Children {
		childID := nodeID(next)
		next = g.module(c, depth+1, next, limit)
		g.edge(id, childID)
	}
	return next
}

func nodeID(i int) string { return fmt.Sprintf("n%d", i) }

func moduleLabel(n *modtree.Node) string {
	m := n.Metrics()
	name := n.Name
	if name == "" {
		name = "."
	}
	return fmt.Sprintf("%s %s<br/>%d files · %d lines", n.Kind().Icon(), name, m.Files, m.Lines)
}

// Imports renders a left-to-right graph from a file to each of its imports.
func Imports(file string, imports []string) (string, error) {
	g := newGraph("graph LR")
	g.declare("f0", file)
	for i, imp := range imports {
		id := fmt.Sprintf("i%d", i)
		g.declare(id, imp)
		g.edge("f0", id)
	}
	return g.result()
}

// FileClasses renders every class in a result with its members and relation
// edges. It reports false when the file declares no classes.
func FileClasses(res *model.AnalysisResult) (string, bool) {
	classes := res.Classes()
	if len(classes) == 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString("classDiagram\n")
	for _, c := range classes {
		writeClass(&b, c)
	}
	for _, c := range classes {
		writeRelations(&b, c)
	}
	return b.String(), true
}

// Class renders a single class entity.
func Class(c *model.Entity) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")
	writeClass(&b, c)
	writeRelations(&b, c)
	return b.String()
}

func writeClass(b *strings.Builder, c *model.Entity) {
	name := sanitizeID(c.Name)
	if len(c.Members) == 0 && c.Category != "interface" {
		fmt.Fprintf(b, "    class %s\n", name)
		return
	}
	fmt.Fprintf(b, "    class %s {\n", name)
	if c.Category == "interface" {
		b.WriteString("        <<interface>>\n")
	}
	for _, m := range c.Members {
		fmt.Fprintf(b, "        %s%s\n", m.Visibility.Marker(), escapeMember(m.Signature))
	}
	b.WriteString("    }\n")
}

func writeRelations(b *strings.Builder, c *model.Entity) {
	for _, r := range c.Relations {
		switch r.Kind {
		case model.Inheritance:
			fmt.Fprintf(b, "    %s <|-- %s\n", sanitizeID(r.To), sanitizeID(r.From))
		case model.Composition:
			fmt.Fprintf(b, "    %s *-- %s\n", sanitizeID(r.From), sanitizeID(r.To))
		}
	}
}

// sanitizeID converts a name into a safe mermaid identifier.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	return s
}

// memberReplacer maps generics to mermaid's ~T~ form and drops braces that
// would end the class body.
var memberReplacer = strings.NewReplacer("<", "~", ">", "~", "{", "", "}", "", "\"", "'")

func escapeMember(sig string) string { return memberReplacer.Replace(sig) }
