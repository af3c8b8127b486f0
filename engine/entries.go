package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/archlint/archlint/model"
)

// entriesByMarker returns every method carrying the named stereotype
// marker (directly or inherited from a container-component type, per
// builder's Phase 5 enrichment), sorted by FQN for deterministic
// evaluation order regardless of the model's internal map iteration.
func entriesByMarker(sm *model.SourceModel, marker string) []*model.MethodEntity {
	var out []*model.MethodEntity
	for _, m := range sm.AllMethods() {
		if m.HasStereotype(marker) {
			out = append(out, m)
		}
	}
	sortMethodsByFQN(out)
	return out
}

func sortMethodsByFQN(methods []*model.MethodEntity) {
	sort.Slice(methods, func(i, j int) bool { return methods[i].FQN < methods[j].FQN })
}

// isRemoteSinkCallee reports whether calleeFQN names a method on one of
// the closed remote-sink types, i.e. begins with "<type FQN>#".
func isRemoteSinkCallee(calleeFQN string, sinks []string) bool {
	for _, s := range sinks {
		if strings.HasPrefix(calleeFQN, s+"#") {
			return true
		}
	}
	return false
}

// matchesAnyPattern reports whether s matches any of the given regexes.
// The patterns are compiled afresh on every call, and callers invoke it
// once per candidate; a pattern that fails to compile is skipped.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
