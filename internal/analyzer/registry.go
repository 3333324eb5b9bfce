package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOverlap is returned when two registered analyzers claim the same
// extension and overlaps were not explicitly allowed.
var ErrOverlap = errors.New("analyzers declare overlapping extensions")

// Overlap records an extension claimed by more than one analyzer. Winner is the
// analyzer that Resolve returns; Shadowed were registered later.
type Overlap struct {
	Ext      string
	Winner   string
	Shadowed []string
}

// Registry maps file extensions to analyzers. Registration order decides
// ties: the first analyzer to declare an extension owns it.
type Registry struct {
	analyzers []Analyzer
	byExt     map[string]Analyzer
	overlaps  []Overlap
}

// NewRegistry registers the given analyzers in order.
func NewRegistry(analyzers ...Analyzer) *Registry {
	r := &Registry{byExt: make(map[string]Analyzer)}
	for _, a := range analyzers {
		r.Register(a)
	}
	return r
}

// Register appends an analyzer. Extensions already owned by an earlier
// analyzer stay with it and are recorded as overlaps.
func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
	for _, ext := range a.Extensions() {
		ext = NormalizeExt(ext)
		if owner, ok := r.byExt[ext]; ok {
			if owner.Name() != a.Name() {
				r.addOverlap(ext, owner.Name(), a.Name())
			}
			continue
		}
		r.byExt[ext] = a
	}
}

func (r *Registry) addOverlap(ext, winner, shadowed string) {
	for i := range r.overlaps {
		if r.overlaps[i].Ext == ext {
			r.overlaps[i].Shadowed = append(r.overlaps[i].Shadowed, shadowed)
			return
		}
	}
	r.overlaps = append(r.overlaps, Overlap{Ext: ext, Winner: winner, Shadowed: []string{shadowed}})
}

// Resolve returns the analyzer that owns ext. It never analyzes anything.
func (r *Registry) Resolve(ext string) (Analyzer, bool) {
	a, ok := r.byExt[NormalizeExt(ext)]
	return a, ok
}

// Lookup returns the analyzer registered under name.
func (r *Registry) Lookup(name string) (Analyzer, bool) {
	for _, a := range r.analyzers {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Names lists analyzer names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		names = append(names, a.Name())
	}
	return names
}

// Analyzers describes every registered analyzer in registration order.
func (r *Registry) Analyzers() []Info {
	out := make([]Info, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		out = append(out, Describe(a))
	}
	return out
}

// Overlaps reports extensions declared by more than one analyzer.
func (r *Registry) Overlaps() []Overlap {
	return append([]Overlap(nil), r.overlaps...)
}

// Select builds a new registry containing only the named analyzers, in the
// order given. Unknown names are an error. Unless allowOverlap is set, any
// extension claimed by two selected analyzers is an error too.
func (r *Registry) Select(names []string, allowOverlap bool) (*Registry, error) {
	selected := make([]Analyzer, 0, len(names))
	for _, name := range names {
		a, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown analyzer %q (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		selected = append(selected, a)
	}
	out := NewRegistry(selected...)
	if !allowOverlap && len(out.overlaps) > 0 {
		var parts []string
		for _, o := range out.overlaps {
			parts = append(parts, fmt.Sprintf("%s (%s vs %s)", o.Ext, o.Winner, strings.Join(o.Shadowed, ", ")))
		}
		return nil, fmt.Errorf("%w: %s", ErrOverlap, strings.Join(parts, "; "))
	}
	return out, nil
}
