package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
	"github.com/expr-lang/expr/vm"
)

// pathReachabilityEvaluator implements the generic entry-to-sink path
// evaluator (spec.md §4.5.1). It is registered last as the catch-all for
// any rule carrying a Detection block that none of the more specific,
// named evaluators claimed by rule id.
type pathReachabilityEvaluator struct{}

func (e *pathReachabilityEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.Detection != nil
}

func (e *pathReachabilityEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	d := rule.Detection
	var sinkPattern *regexp.Regexp
	if d.SinkPattern != "" {
		sinkPattern, _ = regexp.Compile(d.SinkPattern)
	}

	var out []Violation
	for _, entry := range matchingEntries(sm, d.EntryAnnotations, d.EntryTypeFQNs) {
		match := func(fqn string) bool { return isSink(sm, fqn, d.SinkTypeFQNs, d.SinkAnnotations, sinkPattern) }
		for _, chain := range cg.ChainsToMatching(entry.FQN, true, match) {
			sinkFQN := chain[len(chain)-1]
			if !satisfiesPathConstraints(chain, d.PathConstraints) {
				continue
			}
			if !passesWhen(entry, chain, sinkFQN, d.CompiledWhen()) {
				continue
			}
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("%s reaches sink %s", entry.SimpleName, sinkFQN),
				entry.Location,
				chain,
				map[string]string{"entry": entry.FQN, "sink": sinkFQN},
				[]string{"entry", "sink"},
			))
		}
	}
	return out
}

func matchingEntries(sm *model.SourceModel, annotations, typeFQNs []string) []*model.MethodEntity {
	var out []*model.MethodEntity
	seen := make(map[string]bool)
	for _, a := range annotations {
		for _, m := range sm.GetMethodsByAnnotation(a) {
			if !seen[m.FQN] {
				seen[m.FQN] = true
				out = append(out, m)
			}
		}
	}
	for _, fqn := range typeFQNs {
		for _, m := range sm.MethodsInType(fqn) {
			if !seen[m.FQN] {
				seen[m.FQN] = true
				out = append(out, m)
			}
		}
	}
	sortMethodsByFQN(out)
	return out
}

func isSink(sm *model.SourceModel, fqn string, sinkTypeFQNs, sinkAnnotations []string, sinkPattern *regexp.Regexp) bool {
	if isRemoteSinkCallee(fqn, sinkTypeFQNs) {
		return true
	}
	if sinkPattern != nil && sinkPattern.MatchString(fqn) {
		return true
	}
	if len(sinkAnnotations) > 0 {
		if m := sm.GetMethod(fqn); m != nil {
			for _, a := range sinkAnnotations {
				if m.HasStereotype(a) {
					return true
				}
			}
		}
	}
	return false
}

func satisfiesPathConstraints(chain []string, pc ruleset.PathConstraints) bool {
	if pc.MaxDepth > 0 && len(chain) > pc.MaxDepth {
		return false
	}
	joined := strings.Join(chain, "\n")
	for _, must := range pc.MustContain {
		if !strings.Contains(joined, must) {
			return false
		}
	}
	for _, forbidden := range pc.MustNotContain {
		if strings.Contains(joined, forbidden) {
			return false
		}
	}
	return true
}

func passesWhen(entry *model.MethodEntity, chain []string, sinkFQN string, prog *vm.Program) bool {
	if prog == nil {
		return true
	}
	env := ruleset.WhenEnv{}
	env.Entry.Annotations = annotationSimpleNames(entry)
	env.Entry.Modifiers = strings.Fields(entry.Modifiers.String())
	env.Chain.Length = len(chain)
	env.Sink.FQN = sinkFQN
	result, err := vm.Run(prog, env)
	if err != nil {
		return false
	}
	ok, _ := result.(bool)
	return ok
}

func annotationSimpleNames(m *model.MethodEntity) []string {
	var out []string
	for _, a := range m.Annotations {
		out = append(out, a.SimpleName)
	}
	return out
}
