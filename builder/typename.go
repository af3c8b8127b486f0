package builder

import (
	"strings"

	"github.com/archlint/archlint/model"
)

// resolveTypeName resolves a raw, as-written type name (a declared
// field/parameter/return type, not a call qualifier) to a TypeRef,
// handling arrays and a single level of generic parameters. It is
// best-effort: an unresolvable name is still given a TypeRef whose FQN is
// the raw text, since a type position (unlike a call qualifier) must
// always produce something for the signature FQN to be built from.
func (ri *resolutionIndex) resolveTypeName(file, currentPackage, raw string) model.TypeRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.TypeRef{SimpleName: "void", FQN: "void", IsPrimitive: true}
	}

	if strings.HasSuffix(raw, "[]") {
		elem := ri.resolveTypeName(file, currentPackage, strings.TrimSuffix(raw, "[]"))
		return model.NewArrayTypeRef(elem)
	}

	if open := strings.IndexByte(raw, '<'); open >= 0 && strings.HasSuffix(raw, ">") {
		base := raw[:open]
		inner := raw[open+1 : len(raw)-1]
		baseRef := ri.resolveSimpleTypeName(file, currentPackage, base)
		var paramFQNs []string
		for _, p := range splitTopLevelCommas(inner) {
			paramFQNs = append(paramFQNs, ri.resolveTypeName(file, currentPackage, p).FQN)
		}
		return model.NewGenericTypeRef(baseRef.SimpleName, baseRef.FQN, paramFQNs...)
	}

	return ri.resolveSimpleTypeName(file, currentPackage, raw)
}

func (ri *resolutionIndex) resolveSimpleTypeName(file, currentPackage, raw string) model.TypeRef {
	if primitiveFQN(raw) {
		return model.NewTypeRef(raw, raw)
	}
	if imports, ok := ri.importsByFile[file]; ok {
		if fqn, ok := imports[raw]; ok {
			return model.NewTypeRef(simpleNameOf(fqn), fqn)
		}
	}
	if types, ok := ri.typesByPkgSimple[currentPackage]; ok {
		if fqn, ok := types[raw]; ok {
			return model.NewTypeRef(raw, fqn)
		}
	}
	if strings.Contains(raw, ".") {
		return model.NewTypeRef(simpleNameOf(raw), raw)
	}
	if wc, ok := ri.wildcardsByFile[file]; ok {
		return model.NewTypeRef(raw, wc+raw)
	}
	// Last resort: same-package assumption, matching step 7 of qualifier
	// resolution applied to a declared type position.
	fqn := raw
	if currentPackage != "" {
		fqn = currentPackage + "." + raw
	}
	return model.NewTypeRef(raw, fqn)
}

func simpleNameOf(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

func primitiveFQN(name string) bool {
	switch name {
	case "void", "boolean", "byte", "char", "short", "int", "long", "float", "double",
		"bool", "string", "int32", "int64", "float32", "float64":
		return true
	default:
		return false
	}
}

// splitTopLevelCommas splits s on commas that are not nested inside a
// further '<...>' generic parameter list.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
