// Package output renders an engine.Report in the stable schemas spec.md
// §6 and SPEC_FULL.md §1.5 name: the fixed JSON violation schema, and an
// optional SARIF encoding for CI integration. Grounded on sast-engine's
// output/json_formatter.go (writer-injected formatter struct) and
// output/sarif_formatter.go.
package output

import (
	"encoding/json"
	"io"

	"github.com/archlint/archlint/engine"
)

// JSONLocation mirrors spec.md §6's location object.
type JSONLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// JSONViolation is one violation in the stable wire schema spec.md §6
// fixes exactly: rule_id, severity, message, location, an optional
// call_chain, optional context, and a fingerprint.
type JSONViolation struct {
	RuleID     string            `json:"rule_id"`
	Severity   string            `json:"severity"`
	Message    string            `json:"message"`
	Location   JSONLocation      `json:"location"`
	CallChain  []string          `json:"call_chain,omitempty"`
	Context    map[string]string `json:"context,omitempty"`
	Fingerprint string           `json:"fingerprint"`
}

// JSONSummary counts violations per severity plus a total.
type JSONSummary struct {
	BySeverity map[string]int `json:"by_severity"`
	Total      int            `json:"total"`
}

// JSONReport is the top-level document written to stdout for
// --format json.
type JSONReport struct {
	Violations []JSONViolation `json:"violations"`
	Summary    JSONSummary     `json:"summary"`
	Warnings   []string        `json:"warnings,omitempty"`
	Pass       bool            `json:"pass"`
}

// ToJSONReport converts an engine.Report into its wire representation.
func ToJSONReport(r engine.Report) JSONReport {
	violations := make([]JSONViolation, len(r.Violations))
	for i, v := range r.Violations {
		violations[i] = JSONViolation{
			RuleID:   v.RuleID,
			Severity: string(v.Severity),
			Message:  v.Message,
			Location: JSONLocation{
				File:   v.Location.File,
				Line:   v.Location.Line,
				Column: v.Location.Column,
			},
			CallChain:   v.CallChain,
			Context:     v.Context,
			Fingerprint: v.Fingerprint,
		}
	}
	bySeverity := make(map[string]int, len(r.Summary.BySeverity))
	for sev, count := range r.Summary.BySeverity {
		bySeverity[string(sev)] = count
	}
	return JSONReport{
		Violations: violations,
		Summary:    JSONSummary{BySeverity: bySeverity, Total: r.Summary.Total},
		Warnings:   r.Warnings,
		Pass:       r.Pass,
	}
}

// WriteJSON encodes r as indented JSON to w.
func WriteJSON(w io.Writer, r engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSONReport(r))
}

// ExitCode returns spec.md §6's exit code contract: 0 on PASS, 1 on FAIL.
func ExitCode(r engine.Report) int {
	if r.Pass {
		return 0
	}
	return 1
}
