// Package engine implements the evaluator registry and rule engine
// (spec.md §4.5): a first-match dispatcher over an ordered list of
// evaluators, each producing Violations from a rule definition, the frozen
// model, and the call/dependency graphs. Grounded on the teacher's
// StrategyRegistry/FindStrategy pattern (graph/callgraph/resolution/
// strategies/strategy.go), simplified from priority-sorted dispatch to the
// spec's plain first-match-in-registration-order rule.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

// Violation is one reported finding, matching the stable schema in
// spec.md §6.
type Violation struct {
	RuleID      string
	Severity    ruleset.Severity
	Message     string
	Location    model.Location
	CallChain   []string
	Context     map[string]string
	Fingerprint string
}

// newViolation builds a Violation and computes its fingerprint from
// (rule_id, location, salient context keys), per spec.md §4.5's
// "Violation record" contract. salientContextKeys controls which Context
// entries participate in the hash, since some context (e.g. a
// human-readable chain summary) is presentation-only and must not affect
// deduplication identity.
func newViolation(ruleID string, severity ruleset.Severity, message string, loc model.Location, chain []string, context map[string]string, salientContextKeys []string) Violation {
	v := Violation{
		RuleID:    ruleID,
		Severity:  severity,
		Message:   message,
		Location:  loc,
		CallChain: chain,
		Context:   context,
	}
	v.Fingerprint = fingerprint(ruleID, loc, context, salientContextKeys)
	return v
}

// fingerprint computes a stable sha256 hex digest from a violation's
// identity: rule id, location, and the named salient context values, in a
// fixed field order so map iteration never perturbs the hash.
func fingerprint(ruleID string, loc model.Location, context map[string]string, salientKeys []string) string {
	var b strings.Builder
	b.WriteString(ruleID)
	b.WriteByte('|')
	b.WriteString(loc.String())
	sortedKeys := append([]string(nil), salientKeys...)
	sort.Strings(sortedKeys)
	for _, k := range sortedKeys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(context[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Report is the final, deduplicated and sorted evaluation result plus a
// severity-count summary (spec.md §4.6, extended per SPEC_FULL.md §3 with
// a typed Summary instead of a caller-recomputed count).
type Report struct {
	Violations []Violation
	Summary    Summary
	Warnings   []string
	Pass       bool
}

// Summary counts violations per severity.
type Summary struct {
	BySeverity map[ruleset.Severity]int
	Total      int
}

// assembleReport deduplicates by fingerprint (keeping the first
// occurrence), sorts by (severity ascending with BLOCKER first, then file,
// then line), and computes the summary and pass/fail verdict (spec.md
// §4.6: FAIL iff blocker count > 0).
func assembleReport(violations []Violation, warnings []string) Report {
	seen := make(map[string]bool, len(violations))
	deduped := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if seen[v.Fingerprint] {
			continue
		}
		seen[v.Fingerprint] = true
		deduped = append(deduped, v)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		return a.Location.Line < b.Location.Line
	})

	summary := Summary{BySeverity: make(map[ruleset.Severity]int)}
	blockers := 0
	for _, v := range deduped {
		summary.BySeverity[v.Severity]++
		summary.Total++
		if v.Severity == ruleset.SeverityBlocker {
			blockers++
		}
	}

	return Report{
		Violations: deduped,
		Summary:    summary,
		Warnings:   warnings,
		Pass:       blockers == 0,
	}
}
