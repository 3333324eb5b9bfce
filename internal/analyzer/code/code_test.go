package code

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/archdoc/internal/model"
)

func classNamed(t *testing.T, res *model.AnalysisResult, name string) *model.Entity {
	t.Helper()
	for _, c := range res.Classes() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %q not found in %+v", name, res.Entities)
	return nil
}

func memberVisibility(c *model.Entity) map[string]model.Visibility {
	out := make(map[string]model.Visibility)
	for _, m := range c.Members {
		out[m.Name] = m.Visibility
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const pythonSample = `import os
from collections import OrderedDict


class Shape:
    def area(self):
        return 0

    def _cache(self):
        pass

    def __init__(self):
        pass


class Circle(Shape):
    def area(self):
        return 3


def helper(x):
    return x
`

func TestPython(t *testing.T) {
	res := NewSource().AnalyzeSource("shapes.py", []byte(pythonSample))

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if !equalStrings(res.Imports, []string{"os", "collections"}) {
		t.Errorf("imports = %q", res.Imports)
	}
	classes, functions := res.Counts()
	if classes != 2 || functions != 5 {
		t.Errorf("counts = %d classes, %d functions; want 2, 5", classes, functions)
	}

	shape := classNamed(t, res, "Shape")
	if shape.Location.Line != 5 {
		t.Errorf("Shape line = %d, want 5", shape.Location.Line)
	}
	vis := memberVisibility(shape)
	if vis["area"] != model.Public || vis["_cache"] != model.Private || vis["__init__"] != model.Public {
		t.Errorf("visibility = %v", vis)
	}

	circle := classNamed(t, res, "Circle")
	if len(circle.Relations) != 1 || circle.Relations[0].Kind != model.Inheritance || circle.Relations[0].To != "Shape" {
		t.Errorf("Circle relations = %+v", circle.Relations)
	}
	if res.FileType != "python" {
		t.Errorf("file type = %q", res.FileType)
	}
}

const goSample = `package shapes

import (
	"fmt"
	"io"
)

type Base struct{}

type Circle struct {
	Base
	*io.PipeReader
	r float64
}

func (c *Circle) Area() float64 { return 0 }

func (c Circle) scale(f float64) {}

func New() *Circle { return &Circle{} }

func (o *Other) Detached() {}
`

func TestGo(t *testing.T) {
	res := NewSource().AnalyzeSource("shapes.go", []byte(goSample))

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if !equalStrings(res.Imports, []string{"fmt", "io"}) {
		t.Errorf("imports = %q", res.Imports)
	}

	circle := classNamed(t, res, "Circle")
	if circle.Category != "struct" {
		t.Errorf("Circle category = %q", circle.Category)
	}
	var composed []string
	for _, r := range circle.Relations {
		if r.Kind == model.Composition {
			composed = append(composed, r.To)
		}
	}
	if !equalStrings(composed, []string{"Base", "PipeReader"}) {
		t.Errorf("composition = %q", composed)
	}
	vis := memberVisibility(circle)
	if len(vis) != 2 || vis["Area"] != model.Public || vis["scale"] != model.Private {
		t.Errorf("members = %v", vis)
	}
	if circle.Members[0].Signature != "Area() float64" {
		t.Errorf("signature = %q", circle.Members[0].Signature)
	}

	var detached *model.Entity
	for i := range res.Entities {
		if res.Entities[i].Kind == model.KindMethod {
			detached = &res.Entities[i]
		}
	}
	if detached == nil || detached.Name != "Detached" {
		t.Errorf("expected free-standing method for a receiver declared elsewhere, got %+v", detached)
	}

	classes, functions := res.Counts()
	if classes != 2 || functions != 4 {
		t.Errorf("counts = %d, %d; want 2, 4", classes, functions)
	}
}

const scriptSample = `import React from 'react';
import { x } from "./util.js";

export class Widget extends Base {
  #secret() {}
  _internal() {}
  render(props) { return null; }
}

function helper(a, b) {}

const arrow = (x) => x * 2;
`

func TestJavaScript(t *testing.T) {
	res := NewScript().AnalyzeSource("widget.js", []byte(scriptSample))

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if !equalStrings(res.Imports, []string{"react", "./util.js"}) {
		t.Errorf("imports = %q", res.Imports)
	}
	widget := classNamed(t, res, "Widget")
	if len(widget.Relations) != 1 || widget.Relations[0].To != "Base" {
		t.Errorf("Widget relations = %+v", widget.Relations)
	}
	vis := memberVisibility(widget)
	if vis["#secret"] != model.Private || vis["_internal"] != model.Private || vis["render"] != model.Public {
		t.Errorf("visibility = %v", vis)
	}

	var funcs []string
	for _, e := range res.Entities {
		if e.Kind == model.KindFunction {
			funcs = append(funcs, e.Name)
		}
	}
	if !equalStrings(funcs, []string{"helper", "arrow"}) {
		t.Errorf("functions = %q", funcs)
	}
}

const tsSample = `class Service implements Api {
  private token(): string { return ""; }
  protected load() {}
  public run() {}
}

interface Api {
  run(): void;
}
`

func TestTypeScript(t *testing.T) {
	res := NewScript().AnalyzeSource("service.ts", []byte(tsSample))

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	svc := classNamed(t, res, "Service")
	if len(svc.Relations) != 1 || svc.Relations[0].To != "Api" {
		t.Errorf("Service relations = %+v", svc.Relations)
	}
	vis := memberVisibility(svc)
	if vis["token"] != model.Private || vis["load"] != model.Private || vis["run"] != model.Public {
		t.Errorf("visibility = %v", vis)
	}
	api := classNamed(t, res, "Api")
	if api.Category != "interface" || len(api.Members) != 1 {
		t.Errorf("Api = %+v", api)
	}
}

func TestSyntaxErrorBecomesWarning(t *testing.T) {
	res := NewSource().AnalyzeSource("bad.py", []byte("class Fine:\n    pass\n\ndef broken(:\n    pass\n"))
	if len(res.Warnings) == 0 {
		t.Fatal("expected a syntax warning")
	}
	if res.Warnings[0].Line < 1 {
		t.Errorf("warning line = %d", res.Warnings[0].Line)
	}
}

func TestHeritage(t *testing.T) {
	tests := []struct {
		clause string
		want   []string
	}{
		{"extends Base", []string{"Base"}},
		{"extends Base<T> implements A, B", []string{"Base", "A", "B"}},
		{"extends mixin(A, B)", []string{"mixin"}},
		{"extends React.Component", []string{"React.Component"}},
	}
	for _, tt := range tests {
		if got := heritage(tt.clause); !equalStrings(got, tt.want) {
			t.Errorf("heritage(%q) = %q, want %q", tt.clause, got, tt.want)
		}
	}
}

func TestVisibilityRules(t *testing.T) {
	tests := []struct {
		name string
		want model.Visibility
	}{
		{"run", model.Public},
		{"_run", model.Private},
		{"__run", model.Private},
		{"__init__", model.Public},
		{"#run", model.Private},
	}
	for _, tt := range tests {
		if got := leadingVisibility(tt.name); got != tt.want {
			t.Errorf("leadingVisibility(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if goVisibility("Area") != model.Public || goVisibility("area") != model.Private {
		t.Error("go visibility follows the export rule")
	}
}

func TestAnalyzeFileDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.PY")
	if err := os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := NewSource().AnalyzeFile(path)
	if res.FileType != "python" || res.Lines != 2 {
		t.Errorf("result = %+v", res)
	}

	unknown := NewSource().AnalyzeFile(filepath.Join(dir, "x.rb"))
	if len(unknown.Warnings) != 1 {
		t.Errorf("expected a warning for an unknown extension, got %v", unknown.Warnings)
	}
}
