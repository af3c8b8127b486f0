package output

import (
	"encoding/json"
	"fmt"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/archlint/archlint/engine"
	"github.com/archlint/archlint/ruleset"
)

const toolName = "archlint"
const toolInformationURI = "https://github.com/archlint/archlint"

// WriteSARIF encodes r as a SARIF 2.1.0 log to w, for consumption by CI
// annotation tooling (e.g. GitHub code scanning). Grounded on sast-engine's
// output/sarif_formatter.go; a call chain becomes a single-threaded SARIF
// code flow instead of that formatter's taint source/sink pair, since
// archlint's violations are reachability chains, not tainted-variable flows.
func WriteSARIF(w io.Writer, r engine.Report) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	addRules(run, r.Violations)
	for _, v := range r.Violations {
		addResult(run, v)
	}
	log.AddRun(run)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func addRules(run *sarif.Run, violations []engine.Violation) {
	seen := make(map[string]bool)
	for _, v := range violations {
		if seen[v.RuleID] {
			continue
		}
		seen[v.RuleID] = true
		run.AddRule(v.RuleID).
			WithDescription(v.RuleID).
			WithHelpURI(toolInformationURI).
			WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(sarifLevel(v.Severity)))
	}
}

func sarifLevel(sev ruleset.Severity) string {
	switch sev {
	case ruleset.SeverityBlocker, ruleset.SeverityError:
		return "error"
	case ruleset.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}

func addResult(run *sarif.Run, v engine.Violation) {
	// Level comes from the rule's default reporting configuration (set in
	// addRules); go-sarif's Result has no WithLevel of its own, matching
	// how sast-engine's SARIFFormatter.buildResult never sets one either.
	result := run.CreateResultForRule(v.RuleID).
		WithMessage(sarif.NewTextMessage(v.Message))

	region := sarif.NewRegion().WithStartLine(v.Location.Line)
	if v.Location.Column > 0 {
		region.WithStartColumn(v.Location.Column)
	}
	result.AddLocation(
		sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(v.Location.File)).
				WithRegion(region),
		),
	)

	if len(v.CallChain) > 1 {
		result.WithCodeFlows([]*sarif.CodeFlow{buildCodeFlow(v)})
	}
}

func buildCodeFlow(v engine.Violation) *sarif.CodeFlow {
	locations := make([]*sarif.ThreadFlowLocation, len(v.CallChain))
	for i, fqn := range v.CallChain {
		locations[i] = sarif.NewThreadFlowLocation().WithLocation(
			sarif.NewLocation().
				WithPhysicalLocation(
					sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(v.Location.File)),
				).
				WithMessage(sarif.NewTextMessage(fqn)),
		)
	}
	threadFlow := sarif.NewThreadFlow().WithLocations(locations)
	return sarif.NewCodeFlow().
		WithThreadFlows([]*sarif.ThreadFlow{threadFlow}).
		WithMessage(sarif.NewTextMessage(fmt.Sprintf("call chain of %d steps", len(v.CallChain))))
}
