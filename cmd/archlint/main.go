// Command archlint builds a semantic model of an object-oriented codebase,
// precomputes its call graph and package dependency graph, and evaluates a
// directory of declarative rules against both, reporting architectural
// anti-pattern violations. Grounded on sast-engine/main.go.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
