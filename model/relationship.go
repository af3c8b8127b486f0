package model

// RelationshipKind tags the kind of edge a Relationship carries.
type RelationshipKind string

const (
	KindContains   RelationshipKind = "CONTAINS"
	KindCalls      RelationshipKind = "CALLS"
	KindAccesses   RelationshipKind = "ACCESSES"
	KindReferences RelationshipKind = "REFERENCES"
	KindInherits   RelationshipKind = "INHERITS"
	KindImplements RelationshipKind = "IMPLEMENTS"
)

// CallKind distinguishes how a CALLS relationship's invocation was
// qualified in source.
type CallKind string

const (
	CallDirect      CallKind = "DIRECT"      // unqualified, same-instance call
	CallVirtual     CallKind = "VIRTUAL"     // qualified by an expression
	CallStatic      CallKind = "STATIC"      // qualified by a known type name
	CallConstructor CallKind = "CONSTRUCTOR" // "new T(...)"-style expression
)

// Relationship is a tagged tuple from a source entity to a target entity.
// Entity ids are FQNs (method, type, or field FQNs depending on Kind).
//
// A CALLS relationship additionally carries resolution metadata: the
// resolved callee FQN (absent when the builder couldn't identify the
// declaring type), the call kind, the call-site location, and the
// resolved argument-type FQNs used by sink-sensitive rules.
type Relationship struct {
	Kind   RelationshipKind
	Source string
	Target string

	// CALLS-only fields. Resolved is false when the target FQN could not
	// be determined; Target then holds the raw (unresolved) callee text
	// for diagnostics only and must not be treated as an FQN.
	Resolved     bool
	ResolvedFQN  string
	CallKind     CallKind
	Location     Location
	ArgumentFQNs []string

	// ArgumentLiterals holds the decoded literal text for each argument
	// position that was a literal expression, aligned index-for-index with
	// ArgumentFQNs; non-literal positions hold "". Used by the
	// duplicate-same-table-update evaluator to recover the SQL text passed
	// to a database template call.
	ArgumentLiterals []string

	// ArgumentBindings holds, for each argument position that is an
	// identifier naming one of the caller's own parameters (directly, or
	// via a chain of local-variable aliases that never resolved to a known
	// literal), that parameter's name; aligned index-for-index with
	// ArgumentFQNs. Every other position (literals, fields, unresolved
	// expressions) holds "". Lets an evaluator walking the call graph
	// substitute the literal the caller itself received for that parameter
	// at its own call site, recovering a value passed down the call chain
	// rather than supplied at this call site directly (spec.md §4.5.10).
	ArgumentBindings []string
}

// NewContains builds a CONTAINS relationship (type -> method|field).
func NewContains(source, target string) Relationship {
	return Relationship{Kind: KindContains, Source: source, Target: target}
}

// NewInherits builds an INHERITS relationship (type -> supertype).
func NewInherits(source, target string) Relationship {
	return Relationship{Kind: KindInherits, Source: source, Target: target}
}

// NewImplements builds an IMPLEMENTS relationship (type -> interface).
func NewImplements(source, target string) Relationship {
	return Relationship{Kind: KindImplements, Source: source, Target: target}
}

// NewReferences builds a REFERENCES relationship (type -> referenced
// type, via field/return/parameter/thrown-type position).
func NewReferences(source, target string) Relationship {
	return Relationship{Kind: KindReferences, Source: source, Target: target}
}

// NewCall builds a CALLS relationship. When resolvedFQN is empty the edge
// is recorded unresolved: Resolved=false, ResolvedFQN="".
func NewCall(caller, rawCallee, resolvedFQN string, kind CallKind, loc Location, argFQNs, argLiterals []string) Relationship {
	return NewCallWithBindings(caller, rawCallee, resolvedFQN, kind, loc, argFQNs, argLiterals, nil)
}

// NewCallWithBindings builds a CALLS relationship carrying ArgumentBindings
// in addition to the fields NewCall sets. Kept as a separate constructor so
// NewCall call sites (the model, callgraph and engine tests) stay untouched
// when no binding information applies; the builder itself always calls
// NewCallWithBindings.
func NewCallWithBindings(caller, rawCallee, resolvedFQN string, kind CallKind, loc Location, argFQNs, argLiterals, argBindings []string) Relationship {
	return Relationship{
		Kind:             KindCalls,
		Source:           caller,
		Target:           rawCallee,
		Resolved:         resolvedFQN != "",
		ResolvedFQN:      resolvedFQN,
		CallKind:         kind,
		Location:         loc,
		ArgumentFQNs:     argFQNs,
		ArgumentLiterals: argLiterals,
		ArgumentBindings: argBindings,
	}
}

// EffectiveTarget returns the resolved callee FQN if resolution succeeded,
// otherwise the raw target text recorded at the call site.
func (r Relationship) EffectiveTarget() string {
	if r.Resolved {
		return r.ResolvedFQN
	}
	return r.Target
}
