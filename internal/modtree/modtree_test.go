package modtree

import (
	"testing"

	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/walker"
)

func leaf(family string, lines, classes, functions int) *Leaf {
	res := model.NewResult("x", "test")
	res.Lines = lines
	for i := 0; i < classes; i++ {
		res.Entities = append(res.Entities, model.Entity{Kind: model.KindClass})
	}
	for i := 0; i < functions; i++ {
		res.Entities = append(res.Entities, model.Entity{Kind: model.KindFunction})
	}
	return &Leaf{Family: family, Result: res}
}

func TestAggregationScenario(t *testing.T) {
	root := New("project")
	root.Add("pkg/a.py", leaf(walker.FamilyPython, 50, 1, 2))
	root.Add("pkg/b.py", leaf(walker.FamilyPython, 30, 0, 1))
	root.Recompute()

	if got := root.Metrics().Lines; got != 80 {
		t.Errorf("root lines = %d, want 80", got)
	}
	pkg := root.Children[0]
	if pkg.Name != "pkg" || pkg.Metrics().Lines != 80 || pkg.Metrics().Files != 2 {
		t.Errorf("pkg = %s %+v", pkg.Name, pkg.Metrics())
	}
	if pkg.Kind() != KindPython || root.Kind() != KindPython {
		t.Errorf("kinds = %s/%s, want python", root.Kind(), pkg.Kind())
	}
	if err := root.Verify(); err != nil {
		t.Error(err)
	}
}

func TestSiblingSubtreesSum(t *testing.T) {
	root := New("project")
	root.Add("a/one.py", leaf(walker.FamilyPython, 20, 0, 1))
	root.Add("a/two.py", leaf(walker.FamilyPython, 20, 1, 0))
	root.Add("a/three.py", leaf(walker.FamilyPython, 10, 0, 0))
	root.Add("b/one.py", leaf(walker.FamilyPython, 15, 0, 2))
	root.Add("b/two.py", leaf(walker.FamilyPython, 15, 0, 0))
	root.Recompute()

	tests := []struct {
		node  *Node
		files int
		lines int
	}{
		{root.Children[0], 3, 50},
		{root.Children[1], 2, 30},
		{root, 5, 80},
	}
	for _, tt := range tests {
		if m := tt.node.Metrics(); m.Files != tt.files || m.Lines != tt.lines {
			t.Errorf("%s metrics = %+v, want %d files and %d lines", tt.node.Name, m, tt.files, tt.lines)
		}
	}
	if m := root.Metrics(); m.Classes != 1 || m.Functions != 3 {
		t.Errorf("root counts = %+v", m)
	}
	if err := root.Verify(); err != nil {
		t.Error(err)
	}
}

func TestInsertionOrderAndPaths(t *testing.T) {
	root := New("")
	root.Add("web/b.css", leaf(walker.FamilyWeb, 1, 0, 0))
	root.Add("api/x.go", leaf(walker.FamilyGo, 1, 0, 0))
	root.Add("web/deep/c.html", leaf(walker.FamilyWeb, 1, 0, 0))
	root.Add("top.py", leaf(walker.FamilyPython, 1, 0, 0))
	root.Recompute()

	var paths []string
	root.Walk(func(path string, depth int, n *Node) bool {
		paths = append(paths, path)
		return true
	})
	want := []string{"", "web", "web/deep", "api"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %q, want %q", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
	if root.Kind() != KindMixed || root.Children[0].Kind() != KindWeb || root.Children[1].Kind() != KindGo {
		t.Errorf("kinds = %s %s %s", root.Kind(), root.Children[0].Kind(), root.Children[1].Kind())
	}
	if root.Count() != 4 {
		t.Errorf("Count = %d", root.Count())
	}
	if root.Leaves[0].Name != "top.py" {
		t.Errorf("leaf name = %q", root.Leaves[0].Name)
	}
}

func TestVerifyDetectsStaleMetrics(t *testing.T) {
	root := New("r")
	root.Add("a/x.css", leaf(walker.FamilyWeb, 10, 0, 0))
	root.Recompute()
	root.Add("a/y.css", leaf(walker.FamilyWeb, 5, 0, 0))
	if err := root.Verify(); err == nil {
		t.Error("expected Verify to fail before Recompute")
	}
	root.Recompute()
	if err := root.Verify(); err != nil {
		t.Error(err)
	}
}

func TestEmptyTree(t *testing.T) {
	root := New("r")
	root.Recompute()
	if root.Metrics() != (Metrics{}) || root.Kind() != KindOther {
		t.Errorf("empty tree = %+v %s", root.Metrics(), root.Kind())
	}
}
