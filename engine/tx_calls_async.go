package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// txCallsAsyncEvaluator implements spec.md §4.5.4: a transactional method
// must not reach any async-marked method.
type txCallsAsyncEvaluator struct{}

func (e *txCallsAsyncEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "TX-CALLS-ASYNC-001"
}

func (e *txCallsAsyncEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerTransactional) {
		for _, reached := range cg.Reachable(entry.FQN, true) {
			target := sm.GetMethod(reached)
			if target == nil || !target.HasStereotype(archconst.MarkerAsync) {
				continue
			}
			chain := firstChainTo(cg, entry.FQN, reached)
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("transactional method %s reaches async method %s", entry.SimpleName, target.SimpleName),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "async_target": reached},
				[]string{"entry", "async_target"},
			))
		}
	}
	return out
}
