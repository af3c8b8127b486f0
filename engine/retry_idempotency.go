package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// retryIdempotencyEvaluator implements spec.md §4.5.5: a retryable method
// must not reach a non-idempotent sink — either a known non-idempotent
// type's send/charge/notify-shaped method, or any reachable method whose
// simple name matches a configured non-idempotent name pattern.
type retryIdempotencyEvaluator struct{}

func (e *retryIdempotencyEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "RETRY-IDEMPOTENCY-001"
}

func (e *retryIdempotencyEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerRetryable) {
		for _, reached := range cg.Reachable(entry.FQN, true) {
			reason := nonIdempotencyReason(reached)
			if reason == "" {
				continue
			}
			chain := firstChainTo(cg, entry.FQN, reached)
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("retryable method %s reaches non-idempotent call %s (%s)", entry.SimpleName, reached, reason),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "non_idempotent_target": reached},
				[]string{"entry", "non_idempotent_target"},
			))
		}
	}
	return out
}

func nonIdempotencyReason(calleeFQN string) string {
	if isRemoteSinkCallee(calleeFQN, archconst.NonIdempotentSinkTypeFQNs) &&
		matchesAnyPattern(methodNameOf(calleeFQN), []string{archconst.NonIdempotentSinkMethodNamePattern}) {
		return "known non-idempotent sink type with a send/charge/notify-shaped method"
	}
	if matchesAnyPattern(methodNameOf(calleeFQN), archconst.NonIdempotentMethodNamePatterns) {
		return "method name matches non-idempotent pattern"
	}
	return ""
}
