// Package depgraph builds the package dependency graph (spec.md §4.3) from
// a frozen model.SourceModel and detects cycles among packages.
package depgraph

import (
	"sort"

	"github.com/archlint/archlint/model"
)

// Graph is the package-to-package dependency graph: for each type T in
// package P, one edge P -> Q is added for every type reference R (a
// supertype, interface, field type, method return/parameter/thrown type)
// whose package Q differs from P and is non-empty.
type Graph struct {
	edges    map[string]map[string]bool // P -> set of Q
	packages []string                   // insertion order, for deterministic cycle output
}

// New builds the dependency graph from sm's INHERITS, IMPLEMENTS, and
// REFERENCES relationships — exactly the relationship kinds the model
// builder emits for supertypes, interfaces, field/return/parameter/thrown
// types (builder/extract.go), so no separate type-reference walk is
// needed here.
func New(sm *model.SourceModel) *Graph {
	g := &Graph{edges: make(map[string]map[string]bool)}
	seenPkg := make(map[string]bool)

	addPackage := func(p string) {
		if p != "" && !seenPkg[p] {
			seenPkg[p] = true
			g.packages = append(g.packages, p)
		}
	}

	for _, t := range sm.AllTypes() {
		addPackage(t.Package)
	}

	relevant := []model.RelationshipKind{model.KindInherits, model.KindImplements, model.KindReferences}
	for _, kind := range relevant {
		for _, r := range sm.RelationshipsOfKind(kind) {
			srcType := sm.GetType(r.Source)
			if srcType == nil {
				continue
			}
			q := packageOf(r.Target)
			if q == "" || q == srcType.Package {
				continue
			}
			addPackage(q)
			if g.edges[srcType.Package] == nil {
				g.edges[srcType.Package] = make(map[string]bool)
			}
			g.edges[srcType.Package][q] = true
		}
	}

	return g
}

func packageOf(typeFQN string) string {
	idx := -1
	for i := len(typeFQN) - 1; i >= 0; i-- {
		if typeFQN[i] == '.' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	return typeFQN[:idx]
}

// DependsOn returns the packages p directly depends on.
func (g *Graph) DependsOn(p string) []string {
	return setToSortedSlice(g.edges[p])
}

// DependentsOf returns the packages that directly depend on p.
func (g *Graph) DependentsOf(p string) []string {
	var out []string
	for from, tos := range g.edges {
		if tos[p] {
			out = append(out, from)
		}
	}
	return setToSortedSlice(toSet(out))
}

func setToSortedSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
