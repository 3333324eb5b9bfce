package model

import "testing"

func TestSpecificityCompare(t *testing.T) {
	tests := []struct {
		a, b Specificity
		want int
	}{
		{Specificity{1, 0, 0}, Specificity{0, 9, 9}, 1},
		{Specificity{0, 1, 0}, Specificity{0, 0, 5}, 1},
		{Specificity{0, 1, 1}, Specificity{0, 1, 2}, -1},
		{Specificity{1, 1, 1}, Specificity{1, 1, 1}, 0},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n\n", 3},
	}
	for _, tt := range tests {
		if got := CountLines([]byte(tt.src)); got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestCountsIncludesNestedMethods(t *testing.T) {
	r := &AnalysisResult{
		Entities: []Entity{
			{Kind: KindClass, Name: "Shape", Location: Location{Line: 1, Lines: 5}, Children: []Entity{
				{Kind: KindMethod, Name: "area", Location: Location{Line: 2, Lines: 1}},
				{Kind: KindMethod, Name: "_cache", Location: Location{Line: 4, Lines: 1}},
			}},
			{Kind: KindFunction, Name: "main", Location: Location{Line: 7, Lines: 3}},
		},
	}
	classes, functions := r.Counts()
	if classes != 1 || functions != 3 {
		t.Errorf("Counts() = (%d, %d), want (1, 3)", classes, functions)
	}
}

func TestSortEntitiesIsStable(t *testing.T) {
	r := &AnalysisResult{
		Entities: []Entity{
			{Name: "c", Location: Location{Line: 5}},
			{Name: "a", Location: Location{Line: 1}},
			{Name: "b", Location: Location{Line: 1}},
		},
	}
	r.SortEntities()
	got := r.Entities[0].Name + r.Entities[1].Name + r.Entities[2].Name
	if got != "abc" {
		t.Errorf("order = %q, want %q", got, "abc")
	}
}

func TestLocationString(t *testing.T) {
	if got := Span(3, 3).String(); got != "line 3" {
		t.Errorf("got %q", got)
	}
	if got := Span(3, 6).String(); got != "lines 3-6" {
		t.Errorf("got %q", got)
	}
}
