package engine

import (
	"fmt"
	"regexp"

	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// layeredArchitectureEvaluator implements spec.md §4.5.8: entry methods
// selected by rule.Target.NamePattern (the source layer) must not reach a
// method whose containing type's package matches any of
// rule.Constraints.ForbiddenPackages (the layers it must not call into
// directly, e.g. a controller reaching a repository past its service layer).
type layeredArchitectureEvaluator struct{}

func (e *layeredArchitectureEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "LAYERING-VIOLATION-001"
}

func (e *layeredArchitectureEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	if rule.Target.NamePattern == "" || len(rule.Constraints.ForbiddenPackages) == 0 {
		return nil
	}
	sourceLayer, err := regexp.Compile(rule.Target.NamePattern)
	if err != nil {
		return nil
	}

	var out []Violation
	for _, entry := range sortedEntryMethods(sm) {
		if !sourceLayer.MatchString(entry.FQN) {
			continue
		}
		for _, reached := range cg.Reachable(entry.FQN, true) {
			target := sm.GetMethod(reached)
			if target == nil {
				continue
			}
			targetType := sm.GetType(target.ContainingType)
			if targetType == nil {
				continue
			}
			if !matchesAnyPattern(targetType.Package, rule.Constraints.ForbiddenPackages) {
				continue
			}
			chain := firstChainTo(cg, entry.FQN, reached)
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("%s reaches forbidden layer package %s via %s", entry.SimpleName, targetType.Package, target.SimpleName),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "forbidden_target": reached},
				[]string{"entry", "forbidden_target"},
			))
		}
	}
	return out
}

// sortedEntryMethods returns every method in the model sorted by FQN,
// deterministic regardless of the model's internal map iteration. Unlike
// entriesByMarker, layering rules select entries by name pattern rather
// than stereotype, so every method is a candidate.
func sortedEntryMethods(sm *model.SourceModel) []*model.MethodEntity {
	methods := sm.AllMethods()
	sortMethodsByFQN(methods)
	return methods
}
