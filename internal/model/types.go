// Package model holds the data shapes every analyzer produces and every
// renderer consumes.
package model

import (
	"fmt"
	"sort"
)

// Kind tags an extracted entity.
type Kind string

const (
	KindClass           Kind = "class"
	KindFunction        Kind = "function"
	KindMethod          Kind = "method"
	KindRule            Kind = "rule"
	KindSelector        Kind = "selector"
	KindMediaQuery      Kind = "media-query"
	KindVariable        Kind = "variable"
	KindElement         Kind = "element"
	KindCustomElement   Kind = "custom-element"
	KindFormElement     Kind = "form-element"
	KindScriptReference Kind = "script-reference"
	KindLink            Kind = "link"
	KindImport          Kind = "import"
	KindRelationship    Kind = "relationship"
)

// Location is a 1-based start line plus a length in lines.
type Location struct {
	Line  int `json:"line"`
	Lines int `json:"lines"`
}

// Span builds a Location from inclusive start and end lines.
func Span(start, end int) Location {
	if end < start {
		end = start
	}
	return Location{Line: start, Lines: end - start + 1}
}

// End returns the last line covered by the location.
func (l Location) End() int {
	if l.Lines <= 1 {
		return l.Line
	}
	return l.Line + l.Lines - 1
}

func (l Location) String() string {
	if l.Lines <= 1 {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("lines %d-%d", l.Line, l.End())
}

// Attr is one ordered key/value pair.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Specificity is the (id, class/attribute/pseudo-class, type/pseudo-element)
// weight of a selector.
type Specificity struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// Add returns the component-wise sum.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{A: s.A + o.A, B: s.B + o.B, C: s.C + o.C}
}

// Compare orders specificities lexicographically: -1, 0 or 1.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.A != o.A:
		return sign(s.A - o.A)
	case s.B != o.B:
		return sign(s.B - o.B)
	default:
		return sign(s.C - o.C)
	}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.A, s.B, s.C)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Property is one declaration inside a style rule.
type Property struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// Visibility of a class member. Only code analyzers set it.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// Marker returns the diagram prefix for the visibility.
func (v Visibility) Marker() string {
	switch v {
	case Public:
		return "+"
	case Private:
		return "-"
	}
	return ""
}

// Member is a method signature recorded on a class.
type Member struct {
	Name       string     `json:"name"`
	Signature  string     `json:"signature"`
	Visibility Visibility `json:"visibility,omitempty"`
	Line       int        `json:"line"`
}

// RelationKind classifies a Relation edge.
type RelationKind string

const (
	Inheritance RelationKind = "inheritance"
	Composition RelationKind = "composition"
	Containment RelationKind = "containment"
)

// Relation is a directed edge recorded by an analyzer, e.g. Circle
// inherits Shape or div contains span.
type Relation struct {
	Kind RelationKind `json:"kind"`
	From string       `json:"from"`
	To   string       `json:"to"`
}

// Entity is one extracted structural item.
type Entity struct {
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name"`
	Location Location `json:"location"`

	// Category is the heuristic classification for selectors, variables,
	// media queries and script references.
	Category    string       `json:"category,omitempty"`
	Specificity *Specificity `json:"specificity,omitempty"`
	Properties  []Property   `json:"properties,omitempty"`
	Members     []Member     `json:"members,omitempty"`
	Relations   []Relation   `json:"relations,omitempty"`
	Tag         string       `json:"tag,omitempty"`
	Attributes  []Attr       `json:"attributes,omitempty"`
	Children    []Entity     `json:"children,omitempty"`
}

// Warning is a non-fatal extraction problem.
type Warning struct {
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return w.Message
}

// AnalysisResult is the full extraction output for one file.
type AnalysisResult struct {
	Path     string    `json:"path"`
	FileType string    `json:"file_type"`
	Lines    int       `json:"lines"`
	Entities []Entity  `json:"entities"`
	Imports  []string  `json:"imports,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
	Facts    []Attr    `json:"facts,omitempty"`
}

// NewResult returns an empty result for the given file.
func NewResult(path, fileType string) *AnalysisResult {
	return &AnalysisResult{Path: path, FileType: fileType}
}

// Warn appends a warning.
func (r *AnalysisResult) Warn(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Fact appends a file-level fact.
func (r *AnalysisResult) Fact(key string, value any) {
	r.Facts = append(r.Facts, Attr{Key: key, Value: fmt.Sprint(value)})
}

// LookupFact returns the value of a named fact.
func (r *AnalysisResult) LookupFact(key string) (string, bool) {
	for _, f := range r.Facts {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// SortEntities orders top-level entities by ascending start line. The sort is
// stable so entities sharing a line keep their extraction order.
func (r *AnalysisResult) SortEntities() {
	sort.SliceStable(r.Entities, func(i, j int) bool {
		return r.Entities[i].Location.Line < r.Entities[j].Location.Line
	})
}

// Counts returns the number of class entities and function/method entities,
// including nested children.
func (r *AnalysisResult) Counts() (classes, functions int) {
	Walk(r.Entities, func(e *Entity) {
		switch e.Kind {
		case KindClass:
			classes++
		case KindFunction, KindMethod:
			functions++
		}
	})
	return classes, functions
}

// Classes returns the top-level and nested class entities in file order.
func (r *AnalysisResult) Classes() []*Entity {
	var out []*Entity
	Walk(r.Entities, func(e *Entity) {
		if e.Kind == KindClass {
			out = append(out, e)
		}
	})
	return out
}

// Walk visits entities depth-first in order.
func Walk(entities []Entity, fn func(*Entity)) {
	for i := range entities {
		fn(&entities[i])
		Walk(entities[i].Children, fn)
	}
}

// CountLines returns the number of lines in src. A trailing newline does not
// start a new line; an empty source has zero lines.
func CountLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := 0
	for _, b := range src {
		if b == '\n' {
			n++
		}
	}
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}
