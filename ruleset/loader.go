package ruleset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/expr-lang/expr"
	"gopkg.in/yaml.v3"

	"github.com/archlint/archlint/archconst"
)

// WhenEnv is the fixed environment a rule's "when" predicate is compiled
// and evaluated against (SPEC_FULL.md §3): entry annotations/modifiers,
// the candidate chain's length, and the matched sink's FQN. The engine
// package builds one of these per candidate violation and runs it through
// Detection.CompiledWhen().
type WhenEnv struct {
	Entry struct {
		Annotations []string
		Modifiers   []string
	}
	Chain struct {
		Length int
	}
	Sink struct {
		FQN string
	}
}

// LoadResult is the outcome of Load: the valid definitions plus a warning
// per file that failed to parse or validate (spec.md §7: "Invalid rule
// definition... load-time fatal for that rule only; other rules load
// normally").
type LoadResult struct {
	Definitions []Definition
	Warnings    []string
}

// Load walks dir for files with a known rule extension (.yaml/.yml) and
// parses each into a Definition, skipping (with a warning) any file that
// fails to decode or fails Validate. Grounded on the teacher's
// dsl.RuleLoader.LoadRules: single-file vs. directory dispatch, and
// "log and continue" per-file error handling from loadRulesFromDirectory.
func Load(dir string) (LoadResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return LoadResult{}, fmt.Errorf("accessing rule path %s: %w", dir, err)
	}

	if !info.IsDir() {
		return loadOneFile(dir)
	}

	var result LoadResult
	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isRuleFile(path) {
			return nil
		}
		one, loadErr := loadOneFile(path)
		if loadErr != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping rule file %s: %v", path, loadErr))
			return nil
		}
		result.Definitions = append(result.Definitions, one.Definitions...)
		result.Warnings = append(result.Warnings, one.Warnings...)
		return nil
	})
	if walkErr != nil {
		return LoadResult{}, fmt.Errorf("walking rule directory %s: %w", dir, walkErr)
	}

	return result, nil
}

func isRuleFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// loadOneFile decodes one YAML file, which may contain either a single
// Definition or a top-level "rules:" list of them. A definition that fails
// Validate is reported as a warning and dropped; a file that fails to
// parse as YAML at all is a single warning for the whole file.
func loadOneFile(path string) (LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		Rules []Definition `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return LoadResult{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	defs := doc.Rules
	if len(defs) == 0 {
		var single Definition
		if err := yaml.Unmarshal(raw, &single); err != nil {
			return LoadResult{}, fmt.Errorf("decoding %s: %w", path, err)
		}
		defs = []Definition{single}
	}

	var result LoadResult
	for i := range defs {
		defs[i].SourceFile = path
		if err := rejectMaxDepthOverride(defs[i]); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: rule %s: %v", path, defs[i].ID, err))
			continue
		}
		if err := defs[i].Validate(); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if err := compileWhen(&defs[i]); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: rule %s: %v", path, defs[i].ID, err))
			continue
		}
		result.Definitions = append(result.Definitions, defs[i])
	}
	return result, nil
}

// compileWhen compiles Detection.When, if set, into the program cached on
// d.Detection so evaluation never recompiles it.
func compileWhen(d *Definition) error {
	if d.Detection == nil || d.Detection.When == "" {
		return nil
	}
	program, err := expr.Compile(d.Detection.When, expr.Env(WhenEnv{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compiling when predicate %q: %w", d.Detection.When, err)
	}
	d.Detection.compiledWhen = program
	return nil
}

// rejectMaxDepthOverride enforces spec.md §4.5's "the rule definitions
// must not override" the call graph's global depth cap: a rule setting
// either max_depth field to a value other than the process-wide constant
// is rejected rather than silently clamped, so a misconfigured rule file
// is visible as a load warning instead of quietly changing traversal
// behavior.
func rejectMaxDepthOverride(d Definition) error {
	if d.Constraints.MaxDepth != 0 && d.Constraints.MaxDepth != archconst.MaxDepth {
		return fmt.Errorf("constraints.max_depth %d overrides the global depth cap %d, which is immutable", d.Constraints.MaxDepth, archconst.MaxDepth)
	}
	if d.Detection != nil && d.Detection.PathConstraints.MaxDepth != 0 && d.Detection.PathConstraints.MaxDepth != archconst.MaxDepth {
		return fmt.Errorf("detection.path_constraints.max_depth %d overrides the global depth cap %d, which is immutable", d.Detection.PathConstraints.MaxDepth, archconst.MaxDepth)
	}
	return nil
}
