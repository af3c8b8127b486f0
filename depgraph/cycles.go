package depgraph

import "sort"

// Cycles runs Tarjan's algorithm over the package edge set and returns one
// representative cycle per strongly-connected component with more than one
// member, plus one per self-loop, each as an ordered list of package names
// with the first element repeated at the end (spec.md §4.3). Packages are
// visited in a fixed (sorted) order so the result is deterministic across
// runs of the same graph.
func (g *Graph) Cycles() [][]string {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}

	ordered := append([]string(nil), g.packages...)
	sort.Strings(ordered)

	for _, p := range ordered {
		if _, seen := t.index[p]; !seen {
			t.strongConnect(p)
		}
	}
	return t.cycles
}

// HasCycles reports whether the graph contains at least one cycle.
func (g *Graph) HasCycles() bool {
	return len(g.Cycles()) > 0
}

type tarjan struct {
	g       *Graph
	counter int
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	cycles  [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	neighbors := setToSortedSlice(t.g.edges[v])
	for _, w := range neighbors {
		if w == v {
			t.cycles = append(t.cycles, []string{v, v})
			continue
		}
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var scc []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}

	if len(scc) > 1 {
		members := make(map[string]bool, len(scc))
		for _, p := range scc {
			members[p] = true
		}
		t.cycles = append(t.cycles, traceCycle(v, members, t.g.edges))
	}
}

// traceCycle finds a real edge-connected path from start back to itself,
// using only edges whose target is also in members (every such edge stays
// inside the strongly-connected component, since a path leaving it could
// never return). This is what makes spec.md §8's invariant hold — every
// consecutive pair in the returned cycle is an actual edge in the
// dependency graph, not just a list of co-members sorted alphabetically.
func traceCycle(start string, members map[string]bool, edges map[string]map[string]bool) []string {
	visited := make(map[string]bool, len(members))
	path := []string{start}

	var dfs func(cur string) bool
	dfs = func(cur string) bool {
		visited[cur] = true
		for _, next := range setToSortedSlice(edges[cur]) {
			if !members[next] {
				continue
			}
			if next == start {
				path = append(path, start)
				return true
			}
			if visited[next] {
				continue
			}
			path = append(path, next)
			if dfs(next) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	dfs(start)
	return path
}
