package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// transactionBoundaryEvaluator implements spec.md §4.5.2: a transactional
// method must not reach a remote-sink call. TX-BOUNDARY-001 carries the
// legacy alias TRANSACTION-DB-WRITE-001 per spec.md §9's "Open questions"
// (SPEC_FULL.md §3).
type transactionBoundaryEvaluator struct{}

func (e *transactionBoundaryEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "TX-BOUNDARY-001" || rule.ID == "TRANSACTION-DB-WRITE-001"
}

func (e *transactionBoundaryEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerTransactional) {
		for _, sink := range archconst.RemoteSinkTypeFQNs {
			for _, chain := range cg.ChainsToSink(entry.FQN, sink+"#") {
				remote := chain[len(chain)-1]
				out = append(out, newViolation(
					rule.ID,
					rule.Severity,
					fmt.Sprintf("transactional method %s reaches remote call %s", entry.SimpleName, remote),
					entry.Location,
					chain,
					map[string]string{"remote_target": remote},
					[]string{"remote_target"},
				))
			}
		}
	}
	return out
}
