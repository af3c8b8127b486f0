package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// asyncTxMixEvaluator implements spec.md §4.5.3: an async-marked method
// must not itself be transactional, nor transitively reach a transactional
// method.
type asyncTxMixEvaluator struct{}

func (e *asyncTxMixEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "ASYNC-TX-001"
}

func (e *asyncTxMixEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerAsync) {
		if entry.HasStereotype(archconst.MarkerTransactional) {
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("async method %s is itself transactional", entry.SimpleName),
				entry.Location,
				[]string{entry.FQN},
				map[string]string{"entry": entry.FQN},
				[]string{"entry"},
			))
			continue
		}

		for _, reached := range cg.Reachable(entry.FQN, true) {
			target := sm.GetMethod(reached)
			if target == nil || !target.HasStereotype(archconst.MarkerTransactional) {
				continue
			}
			chain := firstChainTo(cg, entry.FQN, reached)
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("async method %s transitively reaches transactional method %s", entry.SimpleName, target.SimpleName),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "transactional_target": reached},
				[]string{"entry", "transactional_target"},
			))
		}
	}
	return out
}

// firstChainTo returns the first chain from m to target (DFS order), or a
// two-element fallback [m, target] if ChainsTo finds none (can happen if
// Reachable and ChainsTo disagree on library-boundary stopping mode — they
// don't here, both default to stop_at_libraries=true, but the fallback
// keeps callers honest about the chain always containing at least the
// endpoints).
func firstChainTo(cg *callgraph.Graph, m, target string) []string {
	chains := cg.ChainsTo(m, target, true)
	if len(chains) > 0 {
		return chains[0]
	}
	return []string{m, target}
}
