// Package variant models the variant inheritance tree.
//
// Every variant has exactly one parent. The root, "default", always exists,
// has no parent and never needs to be declared. The tree is stored as a flat
// name -> parent map; ancestor walks are plain lookups bounded by the number
// of known variants, so a malformed graph can never loop forever.
package variant

import (
	"iter"
	"sort"

	"github.com/MozillaSecurity/prefpicker/errors"
)

// Default is the implicit root variant
const Default = "default"

// Decl is one declared variant and the name of its parent
type Decl struct {
	Name   string
	Parent string
}

// Graph is the variant parent relation rooted at Default
type Graph struct {
	parents map[string]string
	// parent declared for Default, if any. Validate walks it; Ancestry never does.
	rootParent    string
	hasRootParent bool
	// declaration order, used so Validate reports the same error for the same input
	order []string
}

// New builds a graph from declarations. A declaration for Default only
// records its parent for Validate; Default stays the root.
// New does not validate; call Validate before trusting Ancestry.
func New(decls []Decl) *Graph {
	g := &Graph{
		parents: make(map[string]string, len(decls)),
		order:   make([]string, 0, len(decls)),
	}
	for _, d := range decls {
		if d.Name == Default {
			if !g.hasRootParent {
				g.order = append(g.order, Default)
			}
			g.rootParent, g.hasRootParent = d.Parent, true
			continue
		}
		if _, seen := g.parents[d.Name]; !seen {
			g.order = append(g.order, d.Name)
		}
		g.parents[d.Name] = d.Parent
	}
	return g
}

// Flat builds a graph where every name is a direct child of Default
func Flat(names ...string) *Graph {
	decls := make([]Decl, 0, len(names))
	for _, name := range names {
		decls = append(decls, Decl{Name: name, Parent: Default})
	}
	return New(decls)
}

// Validate walks every declared variant, Default included, up to Default.
// It fails if a walk revisits a variant (a cycle) or reaches a parent that
// was never declared.
func (g *Graph) Validate() error {
	for _, start := range g.order {
		visited := map[string]bool{start: true}
		parent := g.parents[start]
		if start == Default {
			parent = g.rootParent
		}
		for parent != Default {
			if visited[parent] {
				return errors.NewStructuralError("variant cannot be parent of itself")
			}
			next, ok := g.parents[parent]
			if !ok {
				return errors.NewStructuralError("variant parent '%s' is an undefined variant", parent)
			}
			visited[parent] = true
			parent = next
		}
	}
	return nil
}

// Has reports whether name is Default or a declared variant
func (g *Graph) Has(name string) bool {
	if name == Default {
		return true
	}
	_, ok := g.parents[name]
	return ok
}

// Parent returns the parent of name. Default and unknown names have none.
func (g *Graph) Parent(name string) (string, bool) {
	parent, ok := g.parents[name]
	return parent, ok
}

// Len returns the number of variants including Default
func (g *Graph) Len() int {
	return len(g.parents) + 1
}

// Names returns every variant name, Default included, sorted
func (g *Graph) Names() []string {
	names := make([]string, 0, g.Len())
	names = append(names, Default)
	for name := range g.parents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ancestry yields name, its parent, its grandparent and so on, ending with
// Default. The walk stops after Len() steps or at the first unknown name.
func (g *Graph) Ancestry(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		current := name
		for range g.Len() {
			if !yield(current) {
				return
			}
			if current == Default {
				return
			}
			parent, ok := g.parents[current]
			if !ok {
				return
			}
			current = parent
		}
	}
}
