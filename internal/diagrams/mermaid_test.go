package diagrams

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/ziadkadry99/archdoc/internal/model"
	"github.com/ziadkadry99/archdoc/internal/modtree"
	"github.com/ziadkadry99/archdoc/internal/walker"
)

var nodeDecl = regexp.MustCompile(`(?m)^    (n\d+)\["`)

func tree(paths ...string) *modtree.Node {
	root := modtree.New("proj")
	for _, p := range paths {
		res := model.NewResult(p, "css")
		res.Lines = 10
		root.Add(p, &modtree.Leaf{Family: walker.FamilyWeb, Result: res})
	}
	root.Recompute()
	return root
}

func TestArchitectureDistinctIDs(t *testing.T) {
	root := tree("a/x.css", "a/b/y.css", "c/z.css", "c/d/e/w.css")
	k := root.Count()

	out, err := Architecture(root, 0)
	if err != nil {
		t.Fatalf("Architecture() error: %v", err)
	}
	ids := nodeDecl.FindAllStringSubmatch(out, -1)
	if len(ids) != k {
		t.Fatalf("expected %d nodes, got %d:\n%s", k, len(ids), out)
	}
	seen := make(map[string]bool)
	for i, m := range ids {
		if seen[m[1]] {
			t.Errorf("duplicate id %s", m[1])
		}
		seen[m[1]] = true
		if m[1] != nodeID(i) {
			t.Errorf("id %d = %s, want pre-order %s", i, m[1], nodeID(i))
		}
	}
	if edges := strings.Count(out, " --> "); edges != k-1 {
		t.Errorf("expected %d edges, got %d", k-1, edges)
	}
	if !strings.HasPrefix(out, "graph TD\n") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "🌐 proj<br/>4 files · 40 lines") {
		t.Errorf("root label missing:\n%s", out)
	}
}

func TestArchitectureDepthLimit(t *testing.T) {
	root := tree("a/b/c/x.css", "a/b/d/y.css", "e/z.css")

	out, err := Architecture(root, 1)
	if err != nil {
		t.Fatal(err)
	}
	// proj, a, "…and 3 more" for b/c/d, e.
	ids := nodeDecl.FindAllStringSubmatch(out, -1)
	if len(ids) != 4 {
		t.Fatalf("expected 4 nodes, got %d:\n%s", len(ids), out)
	}
	if !strings.Contains(out, "…and 3 more") {
		t.Errorf("collapsed node missing:\n%s", out)
	}
	if strings.Contains(out, "🌐 e<br/>") == false {
		t.Errorf("sibling at the limit should still render:\n%s", out)
	}
}

func TestDuplicateIDDetected(t *testing.T) {
	g := newGraph("graph TD")
	g.declare("n0", "a")
	g.declare("n0", "b")
	if _, err := g.result(); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestImports(t *testing.T) {
	out, err := Imports("app.js", []string{"./render.js", "react"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph LR", `f0["app.js"]`, `i1["react"]`, "f0 --> i0"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestClassDiagrams(t *testing.T) {
	res := model.NewResult("shapes.py", "python")
	res.Entities = []model.Entity{
		{
			Kind: model.KindClass,
			Name: "Shape",
			Members: []model.Member{
				{Name: "area", Signature: "area(self)", Visibility: model.Public},
				{Name: "_cache", Signature: "_cache(self)", Visibility: model.Private},
			},
		},
		{
			Kind:      model.KindClass,
			Name:      "Circle",
			Relations: []model.Relation{{Kind: model.Inheritance, From: "Circle", To: "Shape"}},
		},
		{
			Kind:      model.KindClass,
			Name:      "Box",
			Category:  "struct",
			Relations: []model.Relation{{Kind: model.Composition, From: "Box", To: "Base"}},
		},
		{Kind: model.KindFunction, Name: "helper"},
	}

	out, ok := FileClasses(res)
	if !ok {
		t.Fatal("expected a class diagram")
	}
	for _, want := range []string{
		"classDiagram\n",
		"    class Shape {\n        +area(self)\n        -_cache(self)\n    }\n",
		"    class Circle\n",
		"    Shape <|-- Circle\n",
		"    Box *-- Base\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	single := Class(&res.Entities[1])
	if !strings.Contains(single, "Shape <|-- Circle") {
		t.Errorf("single class diagram:\n%s", single)
	}

	if _, ok := FileClasses(model.NewResult("a.css", "css")); ok {
		t.Error("no diagram expected without classes")
	}
}

func TestSanitizeAndEscape(t *testing.T) {
	if got := sanitizeID("React.Component"); got != "React_Component" {
		t.Errorf("sanitizeID = %q", got)
	}
	if got := escapeMember("get(): Promise<User>"); got != "get(): Promise~User~" {
		t.Errorf("escapeMember = %q", got)
	}
	if got := escapeMermaid(`a "b" [c]`); got != "a #quot;b#quot; #lsqb;c#rsqb;" {
		t.Errorf("escapeMermaid = %q", got)
	}
}
