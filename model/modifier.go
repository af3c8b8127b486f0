package model

import "strings"

// Modifier is a bitmask over the declaration modifiers spec.md §3 lists.
// A bitmask (rather than a map[string]bool set) keeps Modifier
// comparisons and membership tests allocation-free.
type Modifier uint16

const (
	Public Modifier = 1 << iota
	Private
	Protected
	PackagePrivate
	Static
	Final
	Abstract
	Synchronized
	Volatile
	Transient
	Native
	Strictfp
)

var modifierNames = map[Modifier]string{
	Public:         "PUBLIC",
	Private:        "PRIVATE",
	Protected:      "PROTECTED",
	PackagePrivate: "PACKAGE_PRIVATE",
	Static:         "STATIC",
	Final:          "FINAL",
	Abstract:       "ABSTRACT",
	Synchronized:   "SYNCHRONIZED",
	Volatile:       "VOLATILE",
	Transient:      "TRANSIENT",
	Native:         "NATIVE",
	Strictfp:       "STRICTFP",
}

// Has reports whether m includes flag.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

// String renders the set as a space-joined list of canonical names, in bit
// order, for debugging and diagnostics.
func (m Modifier) String() string {
	var parts []string
	for _, flag := range []Modifier{Public, Private, Protected, PackagePrivate, Static, Final, Abstract, Synchronized, Volatile, Transient, Native, Strictfp} {
		if m.Has(flag) {
			parts = append(parts, modifierNames[flag])
		}
	}
	return strings.Join(parts, " ")
}
