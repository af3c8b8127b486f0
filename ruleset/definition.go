// Package ruleset loads declarative rule records (spec.md §4.4) from a
// directory of YAML files. Grounded on the teacher's ruleset/types.go
// (struct-per-serialized-record) and dsl/loader.go (directory-vs-file
// dispatch, per-file failure logged as a warning rather than aborting the
// whole load).
package ruleset

import (
	"regexp"

	"github.com/expr-lang/expr/vm"
)

// Severity is a rule's violation severity, ordered BLOCKER first for
// report sorting (spec.md §4.6).
type Severity string

const (
	SeverityBlocker Severity = "BLOCKER"
	SeverityError   Severity = "ERROR"
	SeverityWarn    Severity = "WARN"
	SeverityInfo    Severity = "INFO"
)

// severityRank orders severities for report sorting: BLOCKER first.
var severityRank = map[Severity]int{
	SeverityBlocker: 0,
	SeverityError:   1,
	SeverityWarn:    2,
	SeverityInfo:    3,
}

// Rank returns s's sort position, or a value past every known severity for
// an unrecognized one so malformed input sorts last rather than first.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// Target names the entry methods/types a rule applies to: by annotation
// simple name, by a name-pattern regex, or by type FQN. Of these, only
// NamePattern is read by an evaluator (the layered-architecture one, which
// reports nothing when it is empty); Annotation and TypeFQN are decoded but
// no evaluator consults them, and the marker-based evaluators pick their
// entries by fixed marker names regardless of Target.
type Target struct {
	Annotation  string `yaml:"annotation,omitempty"`
	NamePattern string `yaml:"name_pattern,omitempty"`
	TypeFQN     string `yaml:"type_fqn,omitempty"`
}

// Constraints lists the forbidden/required relations a rule's evaluator
// checks against the entry's reachable set.
type Constraints struct {
	ForbiddenAnnotations []string `yaml:"forbidden_annotations,omitempty"`
	ForbiddenInvocations []string `yaml:"forbidden_invocations,omitempty"`
	ForbiddenPackages    []string `yaml:"forbidden_packages,omitempty"`
	MaxDepth             int      `yaml:"max_depth,omitempty"`
}

// Detection configures the generic path-reachability evaluator (spec.md
// §4.5.1): entry points, sinks, and path constraints filtering surviving
// chains. When is an optional expr-lang boolean predicate evaluated once
// per candidate violation (SPEC_FULL.md supplemental feature), additive on
// top of the fixed constraint fields below — it never changes resolution
// or adds a new evaluator family.
type Detection struct {
	EntryAnnotations []string `yaml:"entry_annotations,omitempty"`
	EntryTypeFQNs    []string `yaml:"entry_type_fqns,omitempty"`

	SinkTypeFQNs    []string `yaml:"sink_type_fqns,omitempty"`
	SinkAnnotations []string `yaml:"sink_annotations,omitempty"`
	SinkPattern     string   `yaml:"sink_pattern,omitempty"`

	PathConstraints PathConstraints `yaml:"path_constraints,omitempty"`

	When string `yaml:"when,omitempty"`

	// compiledWhen holds When's compiled expr-lang program, populated once
	// by Load so every evaluation of this rule reuses it instead of
	// recompiling per candidate violation.
	compiledWhen *vm.Program
}

// CompiledWhen returns the compiled expr-lang program for Detection.When,
// or nil if When is empty or hasn't been compiled (e.g. a Definition built
// directly by a test rather than through Load).
func (d *Detection) CompiledWhen() *vm.Program {
	return d.compiledWhen
}

// PathConstraints filters chains surviving a path-reachability evaluation
// (spec.md §4.5.1).
type PathConstraints struct {
	MaxDepth       int      `yaml:"max_depth,omitempty"`
	MustContain    []string `yaml:"must_contain,omitempty"`
	MustNotContain []string `yaml:"must_not_contain,omitempty"`
}

// Remediation is free-form guidance surfaced in the violation report.
type Remediation struct {
	Summary string `yaml:"summary,omitempty"`
	Link    string `yaml:"link,omitempty"`
}

// Definition is one declarative rule record, matching the schema in
// spec.md §4.4.
type Definition struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Severity    Severity    `yaml:"severity"`
	Category    string      `yaml:"category,omitempty"`
	Target      Target      `yaml:"target,omitempty"`
	Constraints Constraints `yaml:"constraints,omitempty"`
	Detection   *Detection  `yaml:"detection,omitempty"`
	Remediation Remediation `yaml:"remediation,omitempty"`

	// SourceFile records which file this definition was loaded from, for
	// diagnostics only; it plays no part in Fingerprint.
	SourceFile string `yaml:"-"`
}

var validSeverities = map[Severity]bool{
	SeverityBlocker: true,
	SeverityError:   true,
	SeverityWarn:    true,
	SeverityInfo:    true,
}

// Validate reports the reason a definition is malformed, or nil when it is
// load-time valid (spec.md §7: "Invalid rule definition... load-time fatal
// for that rule only").
func (d Definition) Validate() error {
	if d.ID == "" {
		return errMissingID
	}
	if !validSeverities[d.Severity] {
		return &invalidSeverityError{severity: d.Severity}
	}
	if d.Target.NamePattern != "" {
		if _, err := regexp.Compile(d.Target.NamePattern); err != nil {
			return &malformedRegexError{field: "target.name_pattern", value: d.Target.NamePattern, cause: err}
		}
	}
	for _, p := range d.Constraints.ForbiddenPackages {
		if _, err := regexp.Compile(p); err != nil {
			return &malformedRegexError{field: "constraints.forbidden_packages", value: p, cause: err}
		}
	}
	if d.Detection != nil && d.Detection.SinkPattern != "" {
		if _, err := regexp.Compile(d.Detection.SinkPattern); err != nil {
			return &malformedRegexError{field: "detection.sink_pattern", value: d.Detection.SinkPattern, cause: err}
		}
	}
	return nil
}
