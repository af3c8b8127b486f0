package main

import (
	"fmt"
	"os"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/archlint/archlint/analytics"
	"github.com/archlint/archlint/config"
)

// Version is overwritten at release build time via -ldflags.
var Version = "0.1.0"

const analyticsPublicKey = "" // unset: Tracker.Report becomes a no-op (see analytics.Tracker)

var rootCmd = &cobra.Command{
	Use:   "archlint",
	Short: "Architectural anti-pattern detector for object-oriented codebases",
	Long: `archlint builds a semantic model of a codebase, precomputes its call
graph and package dependency graph, and evaluates declarative rules against
both to catch architectural anti-patterns: transaction-boundary leaks,
async/transaction mixing, retry-on-non-idempotent calls, nested
transactions, unguarded scheduled jobs, layering violations, circular
package dependencies, and duplicate-table updates within one transaction.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetricsFlag, _ := cmd.Flags().GetBool("disable-metrics")
		disableMetrics := disableMetricsFlag || config.Load("").DisableAnalytics
		analytics.LoadDistinctID()
		tracker := analytics.New(analyticsPublicKey, Version, disableMetrics)

		noBanner, _ := cmd.Flags().GetBool("no-banner")
		if !noBanner && isTTY(os.Stderr) {
			printBanner(os.Stderr, Version)
		}
		cmd.SetContext(withTracker(cmd.Context(), tracker))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "disable anonymous usage metrics")
	rootCmd.PersistentFlags().Bool("no-banner", false, "disable startup banner")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose diagnostic output")
	rootCmd.PersistentFlags().Bool("debug", false, "debug diagnostic output")
	rootCmd.AddCommand(scanCmd)
}

func printBanner(w *os.File, version string) {
	fig := figure.NewFigure("archlint", "standard", true)
	fmt.Fprintln(w, fig.String())
	fmt.Fprintf(w, "archlint v%s\n\n", version)
}
