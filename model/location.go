// Package model defines the frozen semantic model: types, methods, fields,
// relationships, and the indexed SourceModel aggregate that the rule engine
// queries. Entities are created once during the build and never mutated
// afterward.
package model

import "fmt"

// Location is an immutable source position used for reporting and for
// fingerprinting violations. Equality and hashing are structural.
type Location struct {
	File   string
	Line   int
	Column int
}

// String renders "file:line:column", the canonical textual form used in
// messages and chain reports.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether l is the zero Location. The synthetic
// PackageLocation below has a File and is therefore not zero.
func (l Location) IsZero() bool {
	return l == Location{}
}

// PackageLocation is the synthetic location reported for package-level
// findings that have no single source position, e.g. a dependency cycle.
var PackageLocation = Location{File: "package-level"}
