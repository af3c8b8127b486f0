package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// nestedTransactionsEvaluator implements spec.md §4.5.6: a transactional
// method must not reach another transactional method, which would nest a
// new transaction boundary inside an open one. NESTED-TX-PROPAGATION-001
// carries the legacy alias NESTED-TRANSACTION-001 (SPEC_FULL.md §3).
type nestedTransactionsEvaluator struct{}

func (e *nestedTransactionsEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "NESTED-TX-PROPAGATION-001" || rule.ID == "NESTED-TRANSACTION-001"
}

func (e *nestedTransactionsEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerTransactional) {
		for _, reached := range cg.Reachable(entry.FQN, true) {
			if reached == entry.FQN {
				continue
			}
			target := sm.GetMethod(reached)
			if target == nil || !target.HasStereotype(archconst.MarkerTransactional) {
				continue
			}
			chain := firstChainTo(cg, entry.FQN, reached)
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("transactional method %s nests transactional method %s", entry.SimpleName, target.SimpleName),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "nested_target": reached},
				[]string{"entry", "nested_target"},
			))
		}
	}
	return out
}
