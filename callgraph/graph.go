// Package callgraph builds the call graph (spec.md §4.2) from a frozen
// model.SourceModel's CALLS relationships: bidirectional edge maps plus
// the traversal operations every rule evaluator is built on.
package callgraph

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/model"
)

// Graph is the call graph derived once from a frozen model. Edge lists
// preserve Phase-2 insertion order (source traversal order), matching
// spec.md §4.2's determinism requirement. Grounded on the teacher's
// CallGraph (Edges/ReverseEdges/AddEdge/GetCallers/GetCallees), generalized
// from bare function names to the method-signature FQNs this model uses.
type Graph struct {
	model *model.SourceModel

	outgoing map[string][]model.Relationship // caller FQN -> CALLS edges, in insertion order
	incoming map[string][]string             // callee FQN -> caller FQNs, in first-seen order

	chainCache *lru.Cache[chainCacheKey, [][]string]

	mu       sync.Mutex
	warnings []string
}

// chainCacheKey identifies one memoized Chains/Reachable computation.
type chainCacheKey struct {
	method          string
	stopAtLibraries bool
	kind            string // "chains", "reachable", "inverse"
}

// New builds the call graph from every CALLS relationship in sm.
func New(sm *model.SourceModel) *Graph {
	g := &Graph{
		model:    sm,
		outgoing: make(map[string][]model.Relationship),
		incoming: make(map[string][]string),
	}
	cache, err := lru.New[chainCacheKey, [][]string](512)
	if err != nil {
		// Only returns an error for a non-positive size, which 512 never is.
		panic(fmt.Sprintf("callgraph: building chain cache: %v", err))
	}
	g.chainCache = cache

	seenCaller := make(map[string]map[string]bool)
	for _, r := range sm.RelationshipsOfKind(model.KindCalls) {
		target := r.EffectiveTarget()
		g.outgoing[r.Source] = append(g.outgoing[r.Source], r)

		if seenCaller[target] == nil {
			seenCaller[target] = make(map[string]bool)
		}
		if !seenCaller[target][r.Source] {
			seenCaller[target][r.Source] = true
			g.incoming[target] = append(g.incoming[target], r.Source)
		}
	}
	return g
}

// IsLibrary reports whether fqn is a library boundary: not present in the
// model's own method set (spec.md §4.2).
func (g *Graph) IsLibrary(fqn string) bool {
	return !g.model.IsApplicationMethod(fqn)
}

// Callees returns the outgoing CALLS edges for m, or nil for an unknown or
// leaf method.
func (g *Graph) Callees(m string) []model.Relationship {
	return g.outgoing[m]
}

// Callers returns the FQNs of methods with a resolved or raw CALLS edge
// targeting m, or nil if none.
func (g *Graph) Callers(m string) []string {
	return g.incoming[m]
}

func (g *Graph) warn(msg string) {
	g.mu.Lock()
	g.warnings = append(g.warnings, msg)
	g.mu.Unlock()
}

// Warnings returns every depth-cap-crossing warning recorded by a
// traversal so far.
func (g *Graph) Warnings() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.warnings))
	copy(out, g.warnings)
	return out
}

// Reachable returns the breadth-first closure of m over outgoing edges. A
// node is expanded only when stopAtLibraries is false or the node is an
// application method. Traversal is capped at archconst.MaxDepth; crossing
// it drops the branch and records a warning rather than aborting.
func (g *Graph) Reachable(m string, stopAtLibraries bool) []string {
	key := chainCacheKey{method: m, stopAtLibraries: stopAtLibraries, kind: "reachable"}
	if cached, ok := g.chainCache.Get(key); ok {
		return cached[0]
	}

	visited := map[string]bool{m: true}
	var order []string
	type item struct {
		fqn   string
		depth int
	}
	queue := []item{{fqn: m, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= archconst.MaxDepth {
			g.warn(fmt.Sprintf("reachable(%s): depth cap %d reached, branch dropped", m, archconst.MaxDepth))
			continue
		}
		if cur.fqn != m && g.IsLibrary(cur.fqn) && stopAtLibraries {
			continue
		}
		for _, edge := range g.outgoing[cur.fqn] {
			next := edge.EffectiveTarget()
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			queue = append(queue, item{fqn: next, depth: cur.depth + 1})
		}
	}

	g.chainCache.Add(key, [][]string{order})
	return order
}

// Chains enumerates every distinct simple path from m, in DFS order of the
// outgoing edge list, stopping at a leaf, a library boundary (in
// boundary-stopping mode), or the depth cap. Cycles are broken silently via
// a path-local (not global) visited set.
func (g *Graph) Chains(m string, stopAtLibraries bool) [][]string {
	key := chainCacheKey{method: m, stopAtLibraries: stopAtLibraries, kind: "chains"}
	if cached, ok := g.chainCache.Get(key); ok {
		return cached
	}

	var results [][]string
	path := []string{m}
	onPath := map[string]bool{m: true}

	var dfs func(cur string)
	dfs = func(cur string) {
		if len(path) > archconst.MaxDepth {
			g.warn(fmt.Sprintf("chains(%s): depth cap %d reached, branch dropped", m, archconst.MaxDepth))
			results = append(results, append([]string(nil), path...))
			return
		}
		edges := g.outgoing[cur]
		if cur != m && stopAtLibraries && g.IsLibrary(cur) {
			results = append(results, append([]string(nil), path...))
			return
		}
		if len(edges) == 0 {
			results = append(results, append([]string(nil), path...))
			return
		}

		emitted := false
		for _, edge := range edges {
			next := edge.EffectiveTarget()
			if onPath[next] {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			dfs(next)
			path = path[:len(path)-1]
			onPath[next] = false
			emitted = true
		}
		if !emitted {
			results = append(results, append([]string(nil), path...))
		}
	}
	dfs(m)

	g.chainCache.Add(key, results)
	return results
}

// ChainsTo returns every chain from m whose last element equals target,
// trimming a path as soon as it reaches target even if target has further
// outgoing edges.
func (g *Graph) ChainsTo(m, target string, stopAtLibraries bool) [][]string {
	return g.chainsToMatching(m, stopAtLibraries, func(fqn string) bool { return fqn == target })
}

// ChainsToSink returns every chain from m whose last node's FQN begins
// with sinkPrefix (e.g. "net.HttpClient#" to match any method on that
// type).
func (g *Graph) ChainsToSink(m, sinkPrefix string) [][]string {
	return g.chainsToMatching(m, true, func(fqn string) bool { return hasPrefix(fqn, sinkPrefix) })
}

// ChainsToMatching returns every chain from m whose last node satisfies
// match, truncating a path the instant match(cur) is true even if that
// node has further outgoing edges (spec.md §4.2's chains_to_sink
// contract). Exported for evaluators whose sink test is richer than a
// single FQN prefix (type list, annotation, or regex pattern).
func (g *Graph) ChainsToMatching(m string, stopAtLibraries bool, match func(string) bool) [][]string {
	return g.chainsToMatching(m, stopAtLibraries, match)
}

func (g *Graph) chainsToMatching(m string, stopAtLibraries bool, match func(string) bool) [][]string {
	var results [][]string
	path := []string{m}
	onPath := map[string]bool{m: true}

	var dfs func(cur string, depth int)
	dfs = func(cur string, depth int) {
		if match(cur) && len(path) > 1 {
			results = append(results, append([]string(nil), path...))
			return
		}
		if depth >= archconst.MaxDepth {
			g.warn(fmt.Sprintf("chains_to(%s): depth cap %d reached, branch dropped", m, archconst.MaxDepth))
			return
		}
		if cur != m && stopAtLibraries && g.IsLibrary(cur) {
			return
		}
		for _, edge := range g.outgoing[cur] {
			next := edge.EffectiveTarget()
			if onPath[next] {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			dfs(next, depth+1)
			path = path[:len(path)-1]
			onPath[next] = false
		}
	}
	dfs(m, 0)
	return results
}

// InverseChains performs a backward DFS over incoming edges from m: each
// returned path has m at position 0 and ends at a root (no callers) or the
// depth cap.
func (g *Graph) InverseChains(m string) [][]string {
	key := chainCacheKey{method: m, kind: "inverse"}
	if cached, ok := g.chainCache.Get(key); ok {
		return cached
	}

	var results [][]string
	path := []string{m}
	onPath := map[string]bool{m: true}

	var dfs func(cur string)
	dfs = func(cur string) {
		if len(path) > archconst.MaxDepth {
			g.warn(fmt.Sprintf("inverse_chains(%s): depth cap %d reached, branch dropped", m, archconst.MaxDepth))
			results = append(results, append([]string(nil), path...))
			return
		}
		callers := g.incoming[cur]
		if len(callers) == 0 {
			results = append(results, append([]string(nil), path...))
			return
		}
		emitted := false
		for _, caller := range callers {
			if onPath[caller] {
				continue
			}
			onPath[caller] = true
			path = append(path, caller)
			dfs(caller)
			path = path[:len(path)-1]
			onPath[caller] = false
			emitted = true
		}
		if !emitted {
			results = append(results, append([]string(nil), path...))
		}
	}
	dfs(m)

	g.chainCache.Add(key, results)
	return results
}

// TransactionBoundaries computes Chains for every method FQN in markers,
// keyed by FQN. Named for its primary caller (the transaction-boundary
// evaluator) but usable by any evaluator needing chains from a marker set.
func (g *Graph) TransactionBoundaries(markers []string) map[string][][]string {
	out := make(map[string][][]string, len(markers))
	for _, m := range markers {
		out[m] = g.Chains(m, true)
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}
