package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/archlint/archlint/analytics"
	"github.com/archlint/archlint/archlog"
	"github.com/archlint/archlint/builder"
	"github.com/archlint/archlint/callgraph"
	"github.com/archlint/archlint/config"
	"github.com/archlint/archlint/depgraph"
	"github.com/archlint/archlint/engine"
	"github.com/archlint/archlint/output"
	"github.com/archlint/archlint/parser"
	"github.com/archlint/archlint/ruleset"
)

// sourceParser is the upstream AST-producing collaborator spec.md §1
// names as an external dependency ("any specific source-language grammar"
// is explicitly out of scope). archlint has nothing to plug in here on its
// own; an integrator links a real parser.SourceParser (tree-sitter,
// ANTLR, a compiler's own AST package, ...) into this variable before the
// binary can scan anything for real. Left nil, scan fails fast with a
// clear error rather than silently producing an empty model.
var sourceParser parser.SourceParser

var scanCmd = &cobra.Command{
	Use:   "scan --project <dir> --rules <dir>",
	Short: "Build the semantic model and evaluate architecture rules against it",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("project", "", "root directory of the codebase to analyze (required)")
	scanCmd.Flags().String("rules", "", "directory of rule YAML files (required)")
	scanCmd.Flags().String("format", "text", "output format: text, json, or sarif")
	scanCmd.Flags().String("output-file", "", "write the report here instead of stdout")
	scanCmd.Flags().String("env-file", "", "optional .env file to load before reading ARCHLINT_* variables")
	_ = scanCmd.MarkFlagRequired("project")
	_ = scanCmd.MarkFlagRequired("rules")
}

func runScan(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	project, _ := cmd.Flags().GetString("project")
	ruleDir, _ := cmd.Flags().GetString("rules")
	format, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output-file")
	envFile, _ := cmd.Flags().GetString("env-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	if format != "text" && format != "json" && format != "sarif" {
		return fmt.Errorf("--format must be one of text, json, sarif (got %q)", format)
	}

	cfg := config.Load(envFile)
	verbosity := cfg.Verbosity
	if debug {
		verbosity = archlog.Debug
	} else if verbose {
		verbosity = archlog.Verbose
	}
	logger := archlog.New(verbosity)

	tracker := trackerFromContext(cmd.Context())
	tracker.Report(analytics.BuildStarted, map[string]interface{}{"format": format})

	if sourceParser == nil {
		tracker.Report(analytics.BuildFailed, map[string]interface{}{"reason": "no_parser_configured"})
		return fmt.Errorf("archlint: no source parser configured; link a parser.SourceParser into cmd/archlint before scanning")
	}

	donePhase := logger.StartPhase("discover")
	files, err := walkSourceFiles(project)
	donePhase()
	if err != nil {
		return fmt.Errorf("walking %s: %w", project, err)
	}
	logger.Progress("discovered %d candidate files", len(files))

	donePhase = logger.StartPhase("build")
	sm, _, stats, err := builder.Build(files, builder.Options{
		Parser:  sourceParser,
		Workers: cfg.MaxWorkers,
	})
	donePhase()
	if err != nil {
		tracker.Report(analytics.BuildFailed, map[string]interface{}{"reason": "build_error"})
		return fmt.Errorf("building model: %w", err)
	}
	for _, w := range stats.Warnings {
		logger.Warning("%s", w)
	}
	tracker.Report(analytics.BuildCompleted, map[string]interface{}{
		"files_processed": stats.FilesProcessed,
		"run_id":          stats.RunID,
	})

	donePhase = logger.StartPhase("graphs")
	cg := callgraph.New(sm)
	dg := depgraph.New(sm)
	donePhase()

	donePhase = logger.StartPhase("load-rules")
	loaded, err := ruleset.Load(ruleDir)
	donePhase()
	if err != nil {
		return fmt.Errorf("loading rules from %s: %w", ruleDir, err)
	}
	for _, w := range loaded.Warnings {
		logger.Warning("%s", w)
	}

	tracker.Report(analytics.EvaluateStarted, map[string]interface{}{"rule_count": len(loaded.Definitions)})
	donePhase = logger.StartPhase("evaluate")
	report := engine.NewRegistry().Evaluate(loaded.Definitions, sm, cg, dg)
	donePhase()
	for _, w := range report.Warnings {
		logger.Warning("%s", w)
	}
	tracker.Report(analytics.EvaluateCompleted, map[string]interface{}{
		"violation_count": report.Summary.Total,
		"pass":            report.Pass,
		"duration_ms":     time.Since(start).Milliseconds(),
	})
	logger.PrintTimingSummary()

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputFile, err)
		}
		defer f.Close()
		return writeReport(f, format, report)
	}
	if err := writeReport(w, format, report); err != nil {
		return err
	}
	printSummaryLine(report)

	if !report.Pass {
		os.Exit(1)
	}
	return nil
}

func writeReport(w *os.File, format string, report engine.Report) error {
	switch format {
	case "json":
		return output.WriteJSON(w, report)
	case "sarif":
		return output.WriteSARIF(w, report)
	default:
		return output.WriteText(w, report)
	}
}

func printSummaryLine(report engine.Report) {
	line := fmt.Sprintf("%d violation(s), %d blocker(s)", report.Summary.Total, report.Summary.BySeverity["BLOCKER"])
	if report.Pass {
		color.New(color.FgGreen).Fprintln(os.Stderr, "PASS: "+line)
	} else {
		color.New(color.FgRed).Fprintln(os.Stderr, "FAIL: "+line)
	}
}
