package model

import "strings"

// primitiveFQNs is the set of primitive type names; a primitive's FQN is
// the keyword itself. Kept as a package var since Go has no map constants.
var primitiveFQNs = map[string]bool{
	"void": true, "boolean": true, "byte": true, "char": true,
	"short": true, "int": true, "long": true, "float": true,
	"double": true, "bool": true, "string": true, "int32": true,
	"int64": true, "float32": true, "float64": true,
}

// TypeRef is a symbolic reference to a type by simple name and fully
// qualified name. Generic parameters are preserved in the FQN string when
// the upstream parser resolved them (e.g. "java.util.List<Foo>" vs.
// "java.util.List<Bar>"); otherwise the raw, unresolved type text is
// stored verbatim.
type TypeRef struct {
	SimpleName string
	FQN        string
	IsPrimitive bool
	IsArray     bool
	IsGeneric   bool
}

// NewTypeRef builds a TypeRef, auto-detecting primitives by simple name.
func NewTypeRef(simpleName, fqn string) TypeRef {
	return TypeRef{
		SimpleName:  simpleName,
		FQN:         fqn,
		IsPrimitive: primitiveFQNs[simpleName],
	}
}

// NewArrayTypeRef builds a TypeRef for an array/slice of elem.
func NewArrayTypeRef(elem TypeRef) TypeRef {
	return TypeRef{
		SimpleName: elem.SimpleName + "[]",
		FQN:        elem.FQN + "[]",
		IsArray:    true,
	}
}

// NewGenericTypeRef builds a TypeRef carrying a resolved generic parameter
// in its FQN, e.g. base="java.util.List", param="test.Foo" produces FQN
// "java.util.List<test.Foo>".
func NewGenericTypeRef(baseSimple, baseFQN string, paramFQNs ...string) TypeRef {
	fqn := baseFQN
	if len(paramFQNs) > 0 {
		fqn = baseFQN + "<" + strings.Join(paramFQNs, ",") + ">"
	}
	return TypeRef{
		SimpleName: baseSimple,
		FQN:        fqn,
		IsGeneric:  len(paramFQNs) > 0,
	}
}

// UnknownFQN is the sentinel recorded when a call argument or qualifier
// cannot be resolved to a type.
const UnknownFQN = "Unknown"

// UnknownTypeRef is the canonical unresolved TypeRef.
var UnknownTypeRef = TypeRef{SimpleName: UnknownFQN, FQN: UnknownFQN}

// IsUnknown reports whether this ref is the Unknown sentinel.
func (t TypeRef) IsUnknown() bool {
	return t.FQN == UnknownFQN
}
