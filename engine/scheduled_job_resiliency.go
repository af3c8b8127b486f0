package engine

import (
	"fmt"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// scheduledJobResiliencyEvaluator implements spec.md §4.5.7: a scheduled
// method must carry, or transitively reach a method that carries, at least
// one resilience marker (archconst.ResilienceMarkers).
type scheduledJobResiliencyEvaluator struct{}

func (e *scheduledJobResiliencyEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "SCHEDULED-JOB-RESILIENCY-001"
}

func (e *scheduledJobResiliencyEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerScheduled) {
		if hasAnyResilienceMarker(entry) {
			continue
		}
		resilient := false
		for _, reached := range cg.Reachable(entry.FQN, true) {
			target := sm.GetMethod(reached)
			if target != nil && hasAnyResilienceMarker(target) {
				resilient = true
				break
			}
		}
		if resilient {
			continue
		}
		out = append(out, newViolation(
			rule.ID, rule.Severity,
			fmt.Sprintf("scheduled method %s has no resilience marker on itself or any reachable method", entry.SimpleName),
			entry.Location,
			[]string{entry.FQN},
			map[string]string{"entry": entry.FQN},
			[]string{"entry"},
		))
	}
	return out
}

func hasAnyResilienceMarker(m *model.MethodEntity) bool {
	for _, marker := range archconst.ResilienceMarkers {
		if m.HasStereotype(marker) {
			return true
		}
	}
	return false
}
