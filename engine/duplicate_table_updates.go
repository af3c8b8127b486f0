package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/archlint/archlint/archconst"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// duplicateTableUpdatesEvaluator implements spec.md §4.5.10: within one
// transactional method's reachable set, two or more distinct calls into a
// known database-template type that write the same SQL table are reported
// as a duplicate-update violation. The table name is recovered from the
// literal SQL text recorded on the CALLS edge's ArgumentLiterals (builder's
// Phase 2 capture of the raw literal argument, since resolved argument FQNs
// alone only carry types, never values), substituting parameter and
// local-variable bindings through the call chain (ArgumentBindings) so a
// literal supplied several calls back is still recoverable at the site that
// actually performs the write.
type duplicateTableUpdatesEvaluator struct{}

var sqlTableNamePattern = regexp.MustCompile(`(?i)(?:update|insert\s+into)\s+(\w+)`)

func (e *duplicateTableUpdatesEvaluator) Supports(rule ruleset.Definition) bool {
	return rule.ID == "DUPLICATE-TABLE-UPDATE-001"
}

func (e *duplicateTableUpdatesEvaluator) Evaluate(rule ruleset.Definition, sm *model.SourceModel, cg *callgraph.Graph, dg *depgraph.Graph) []Violation {
	var out []Violation
	for _, entry := range entriesByMarker(sm, archconst.MarkerTransactional) {
		byTable := make(map[string][]tableWriteSite)
		visited := map[string]bool{entry.FQN: true}
		collectTableWrites(sm, entry.FQN, visited, byTable, nil)

		var tables []string
		for t := range byTable {
			tables = append(tables, t)
		}
		sort.Strings(tables)

		for _, table := range tables {
			sites := byTable[table]
			if len(sites) < 2 {
				continue
			}
			sort.Slice(sites, func(i, j int) bool { return sites[i].calleeFQN < sites[j].calleeFQN })

			var callees []string
			for _, s := range sites {
				callees = append(callees, s.calleeFQN)
			}
			out = append(out, newViolation(
				rule.ID, rule.Severity,
				fmt.Sprintf("transactional method %s updates table %q via %d separate calls", entry.SimpleName, table, len(sites)),
				entry.Location,
				append([]string{entry.FQN}, callees...),
				map[string]string{"entry": entry.FQN, "table": table},
				[]string{"entry", "table"},
			))
		}
	}
	return out
}

type tableWriteSite struct {
	calleeFQN string
	table     string
}

// collectTableWrites walks CALLS edges from m, depth-bounded by
// archconst.MaxDepth via the visited set's size, recording one
// tableWriteSite per call into a database-template type whose literal SQL
// argument names a table. bindings maps m's own parameter names to the
// literal values they were called with on the path taken to reach m (nil at
// the transactional entry point, which has no caller). Threading this down
// the recursion one call at a time is what lets a literal supplied several
// calls back still be recovered here, per spec.md §4.5.10's call-chain
// binding-substitution requirement.
func collectTableWrites(sm *model.SourceModel, m string, visited map[string]bool, byTable map[string][]tableWriteSite, bindings map[string]string) {
	if len(visited) > archconst.MaxDepth {
		return
	}
	for _, r := range sm.RelationshipsFrom(m) {
		if r.Kind != model.KindCalls {
			continue
		}
		callee := r.EffectiveTarget()
		if table := tableFromCall(r, bindings); table != "" {
			byTable[table] = append(byTable[table], tableWriteSite{calleeFQN: callee, table: table})
		}
		if visited[callee] || !r.Resolved {
			continue
		}
		visited[callee] = true
		collectTableWrites(sm, callee, visited, byTable, calleeBindings(sm, callee, r, bindings))
	}
}

// calleeBindings computes callee's incoming parameter->literal bindings from
// the call r that reaches it: a literal argument at the call site binds
// directly; an argument that only names one of the caller's own parameters
// (r.ArgumentBindings) is resolved through the caller's own bindings map, so
// a literal keeps propagating through several layers of forwarding.
func calleeBindings(sm *model.SourceModel, callee string, r model.Relationship, callerBindings map[string]string) map[string]string {
	calleeMethod := sm.GetMethod(callee)
	if calleeMethod == nil {
		return nil
	}
	out := make(map[string]string)
	for i, p := range calleeMethod.Parameters {
		if i >= len(r.ArgumentLiterals) {
			break
		}
		if lit := r.ArgumentLiterals[i]; lit != "" {
			out[p.Name] = lit
			continue
		}
		if i < len(r.ArgumentBindings) {
			if paramName := r.ArgumentBindings[i]; paramName != "" {
				if lit, ok := callerBindings[paramName]; ok {
					out[p.Name] = lit
				}
			}
		}
	}
	return out
}

// tableFromCall extracts the target table name from a CALLS edge whose
// declaring type is one of archconst.DatabaseTemplateTypeFQNs and whose
// method name starts with update/batchUpdate/insert, by scanning its
// argument literals for SQL text. An argument position with no call-site
// literal but a caller-parameter binding (bindings, keyed by the name
// r.ArgumentBindings records for that position) is substituted in before
// the table-name pattern is tried, recovering a literal passed down through
// a parameter rather than written at this call site.
func tableFromCall(r model.Relationship, bindings map[string]string) string {
	if !r.Resolved {
		return ""
	}
	if !isRemoteSinkCallee(r.ResolvedFQN, archconst.DatabaseTemplateTypeFQNs) {
		return ""
	}
	name := methodNameOf(r.ResolvedFQN)
	if !isTableWriteMethod(name) {
		return ""
	}
	for i, lit := range r.ArgumentLiterals {
		if lit == "" && i < len(r.ArgumentBindings) {
			if paramName := r.ArgumentBindings[i]; paramName != "" {
				lit = bindings[paramName]
			}
		}
		if lit == "" {
			continue
		}
		if m := sqlTableNamePattern.FindStringSubmatch(lit); m != nil {
			return strings.ToLower(m[1])
		}
	}
	return ""
}

func methodNameOf(methodFQN string) string {
	idx := strings.IndexByte(methodFQN, '#')
	if idx < 0 {
		return methodFQN
	}
	rest := methodFQN[idx+1:]
	if p := strings.IndexByte(rest, '('); p >= 0 {
		return rest[:p]
	}
	return rest
}

func isTableWriteMethod(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "update") || strings.HasPrefix(lower, "batchupdate") || strings.HasPrefix(lower, "insert")
}
