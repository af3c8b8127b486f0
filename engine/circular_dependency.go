package engine

import (
	"fmt"
	"strings"

	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// circularDependencyEvaluator implements spec.md §4.5.9: report one
// violation per strongly-connected component in the package dependency
// graph. It has no entry-point concept (no method to anchor a location on),
// so it reports against model.PackageLocation, matching the synthetic
// placeholder spec.md reserves for package-level findings.
type circularDependencyEvaluator struct{}

func (e *circularDependencyEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "CIRCULAR-DEPENDENCY-001"
}

func (e *circularDependencyEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, cycle := range dg.Cycles() {
		out = append(out, newViolation(
			rule.ID, rule.Severity,
			fmt.Sprintf("circular package dependency: %s", strings.Join(cycle, " -> ")),
			model.PackageLocation,
			cycle,
			map[string]string{
				"cycle":  strings.Join(cycle, ","),
				"length": fmt.Sprintf("%d", len(cycle)),
			},
			[]string{"cycle"},
		))
	}
	return out
}
