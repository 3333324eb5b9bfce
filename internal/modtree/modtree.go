// Package modtree holds the hierarchical module view of an analyzed project.
// Nodes own their children and leaf results; there are no parent pointers,
// so traversals thread the path down explicitly.
package modtree

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/walker"
)

// Kind classifies a module by the languages found beneath it.
type Kind string

const (
	KindPython Kind = "python"
	KindWeb    Kind = "web"
	KindGo     Kind = "go"
	KindOther  Kind = "other"
	KindMixed  Kind = "mixed"
)

// Icon returns the diagram glyph for a module kind.
func (k Kind) Icon() string {
	switch k {
	case KindPython:
		return "🐍"
	case KindWeb:
		return "🌐"
	case KindGo:
		return "🐹"
	case KindMixed:
		return "🧩"
	}
	return "📦"
}

// Metrics are the rolled-up counts of a subtree.
type Metrics struct {
	Files     int `json:"files"`
	Lines     int `json:"lines"`
	Classes   int `json:"classes"`
	Functions int `json:"functions"`
}

func (m Metrics) add(o Metrics) Metrics {
	return Metrics{
		Files:     m.Files + o.Files,
		Lines:     m.Lines + o.Lines,
		Classes:   m.Classes + o.Classes,
		Functions: m.Functions + o.Functions,
	}
}

// Leaf is one analyzed file attached to a module.
type Leaf struct {
	Name     string
	Family   string
	Analyzer string
	Result   *model.AnalysisResult
}

// Metrics of a single file.
func (l *Leaf) Metrics() Metrics {
	classes, functions := l.Result.Counts()
	return Metrics{Files: 1, Lines: l.Result.Lines, Classes: classes, Functions: functions}
}

// Node is a directory in the module tree. Metrics and Kind are derived and
// only set by Recompute.
type Node struct {
	Name     string
	Children []*Node
	Leaves   []*Leaf

	metrics Metrics
	kind    Kind
}

// New returns an empty root node.
func New(name string) *Node { return &Node{Name: name} }

// Metrics returns the metrics computed by the last Recompute.
func (n *Node) Metrics() Metrics { return n.metrics }

// Kind returns the classification computed by the last Recompute.
func (n *Node) Kind() Kind { return n.kind }

// child returns the named child, creating it at the end when missing so that
// insertion order follows traversal order.
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// Add attaches a file result under the directories of its slash-separated
// relative path.
func (n *Node) Add(relPath string, leaf *Leaf) {
	parts := strings.Split(relPath, "/")
	cur := n
	for _, dir := range parts[:len(parts)-1] {
		if dir == "" || dir == "." {
			continue
		}
		cur = cur.child(dir)
	}
	if leaf.Name == "" {
		leaf.Name = parts[len(parts)-1]
	}
	cur.Leaves = append(cur.Leaves, leaf)
}

// Recompute sets metrics and kinds bottom-up for the whole subtree.
func (n *Node) Recompute() {
	n.recompute()
}

func (n *Node) recompute() map[string]bool {
	var m Metrics
	families := make(map[string]bool)
	for _, c := range n.Children {
		for f := range c.recompute() {
			families[f] = true
		}
		m = m.add(c.metrics)
	}
	for _, l := range n.Leaves {
		m = m.add(l.Metrics())
		families[l.Family] = true
	}
	n.metrics = m
	n.kind = classify(families)
	return families
}

func classify(families map[string]bool) Kind {
	switch len(families) {
	case 0:
		return KindOther
	case 1:
		for f := range families {
			switch f {
			case walker.FamilyPython:
				return KindPython
			case walker.FamilyWeb:
				return KindWeb
			case walker.FamilyGo:
				return KindGo
			}
		}
		return KindOther
	}
	return KindMixed
}

// Count returns the number of nodes in the subtree, including n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits the subtree in pre-order. The path is the slash-joined chain
// of names below the root; the root itself has the empty path. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(path string, depth int, node *Node) bool) {
	n.walk("", 0, fn)
}

func (n *Node) walk(path string, depth int, fn func(string, int, *Node) bool) {
	if !fn(path, depth, n) {
		return
	}
	for _, c := range n.Children {
		c.walk(Join(path, c.Name), depth+1, fn)
	}
}

// Join appends a name to a module path.
func Join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}

// Verify checks the aggregation invariant over the whole subtree: every
// node's metrics equal the sum of its children and its own leaves.
func (n *Node) Verify() error {
	var err error
	n.Walk(func(path string, _ int, node *Node) bool {
		if err != nil {
			return false
		}
		var want Metrics
		for _, c := range node.Children {
			want = want.add(c.metrics)
		}
		for _, l := range node.Leaves {
			want = want.add(l.Metrics())
		}
		if want != node.metrics {
			err = fmt.Errorf("modtree: metrics of %q are %+v, children and leaves sum to %+v", path, node.metrics, want)
			return false
		}
		return err == nil
	})
	return err
}
