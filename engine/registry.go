package engine

import (
	"fmt"

	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// Evaluator implements one anti-pattern family. Evaluators are pure with
// respect to the context they receive (spec.md §4.5): they read the model
// and both graphs and return violations as values.
type Evaluator interface {
	// Supports reports whether this evaluator handles rule, by id or
	// legacy alias (spec.md §9: two ids may map to one evaluator).
	Supports(rule ruleset.Definition) bool

	// Evaluate runs this evaluator's detection logic for rule.
	Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation
}

// Registry holds an ordered list of evaluators and dispatches each rule to
// the first one whose Supports predicate returns true, mirroring the
// teacher's StrategyRegistry.FindStrategy.
type Registry struct {
	evaluators []Evaluator
}

// NewRegistry returns a Registry with every built-in evaluator registered
// in a fixed order: the specialized evaluators first, then the generic
// path-reachability fallback.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(&transactionBoundaryEvaluator{})
	r.Register(&asyncTxMixEvaluator{})
	r.Register(&txCallsAsyncEvaluator{})
	r.Register(&retryIdempotencyEvaluator{})
	r.Register(&nestedTransactionsEvaluator{})
	r.Register(&scheduledJobResiliencyEvaluator{})
	r.Register(&layeredArchitectureEvaluator{})
	r.Register(&circularDependencyEvaluator{})
	r.Register(&duplicateTableUpdatesEvaluator{})
	// Path-reachability is the generic fallback for any rule carrying a
	// "detection" block not already claimed by a specialized evaluator
	// above, so it is registered last.
	r.Register(&pathReachabilityEvaluator{})
	return r
}

// Register appends an evaluator to the dispatch order.
func (r *Registry) Register(e Evaluator) {
	r.evaluators = append(r.evaluators, e)
}

// FindEvaluator returns the first registered evaluator supporting rule, or
// nil if none do.
func (r *Registry) FindEvaluator(rule ruleset.Definition) Evaluator {
	for _, e := range r.evaluators {
		if e.Supports(rule) {
			return e
		}
	}
	return nil
}

// Evaluate runs every rule through its supporting evaluator and returns
// the assembled, deduplicated, sorted Report. An unsupported rule id logs
// a warning and contributes zero violations (spec.md §4.5's dispatch
// contract).
func (r *Registry) Evaluate(rules []ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) Report {
	var all []Violation
	var warnings []string

	for _, rule := range rules {
		e := r.FindEvaluator(rule)
		if e == nil {
			warnings = append(warnings, fmt.Sprintf("no evaluator supports rule %s", rule.ID))
			continue
		}
		all = append(all, e.Evaluate(rule, sm, cg, dg)...)
	}

	warnings = append(warnings, cg.Warnings()...)
	return assembleReport(all, warnings)
}
