package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/archlint/archlint/engine"
	"github.com/archlint/archlint/ruleset"
)

var severityColor = map[ruleset.Severity]*color.Color{
	ruleset.SeverityBlocker: color.New(color.FgRed, color.Bold),
	ruleset.SeverityError:   color.New(color.FgRed),
	ruleset.SeverityWarn:    color.New(color.FgYellow),
	ruleset.SeverityInfo:    color.New(color.FgCyan),
}

// WriteText renders r as a plain, human-readable report: one colored line
// per violation plus a severity-count footer. Grounded on the teacher's
// query result printing (cmd/query.go), adapted from query-match rows to
// violation rows.
func WriteText(w io.Writer, r engine.Report) error {
	if len(r.Violations) == 0 {
		fmt.Fprintln(w, "no violations found")
		return nil
	}
	for _, v := range r.Violations {
		c := severityColor[v.Severity]
		if c == nil {
			c = color.New(color.Reset)
		}
		c.Fprintf(w, "[%s] %s", v.Severity, v.RuleID) //nolint:errcheck
		fmt.Fprintf(w, " %s:%d:%d\n", v.Location.File, v.Location.Line, v.Location.Column)
		fmt.Fprintf(w, "    %s\n", v.Message)
		if len(v.CallChain) > 1 {
			fmt.Fprintf(w, "    chain: %s\n", renderChain(v.CallChain))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "total: %d\n", r.Summary.Total)
	for _, sev := range []ruleset.Severity{ruleset.SeverityBlocker, ruleset.SeverityError, ruleset.SeverityWarn, ruleset.SeverityInfo} {
		if count, ok := r.Summary.BySeverity[sev]; ok {
			fmt.Fprintf(w, "  %s: %d\n", sev, count)
		}
	}
	return nil
}

func renderChain(chain []string) string {
	out := chain[0]
	for _, step := range chain[1:] {
		out += " -> " + step
	}
	return out
}
