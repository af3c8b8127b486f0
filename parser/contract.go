// Package parser defines the collaborator contract between archlint's
// model builder and an upstream, language-specific parser. Per spec.md §1
// the grammar itself is explicitly out of scope — "any specific
// source-language grammar... the model is grammar-agnostic and assumes an
// upstream parser produces an abstract syntax tree per file". Nothing in
// this package parses source text; it only defines the shape a
// language-specific adapter must produce for builder.Build to consume.
package parser

// SourceParser parses a single file into a CompilationUnit, or reports a
// parse failure. Per spec.md §4.1, a per-file parse failure does not
// abort the build.
type SourceParser func(path string) (CompilationUnit, error)

// CompilationUnit is the parsed result of one source file.
type CompilationUnit struct {
	FilePath string
	Package  string // empty for a file with no package declaration

	// Imports maps a local alias to a fully qualified name. Wildcard
	// imports ("import foo.bar.*") contribute only the package prefix
	// under an empty-string alias set by the adapter's convention; the
	// resolution environment treats any entry whose value ends in "." as
	// a wildcard prefix rather than a single-name mapping.
	Imports map[string]string

	Types []TypeDecl
}

// TypeDecl is one declared type within a compilation unit, with nested
// members and method bodies.
type TypeDecl struct {
	SimpleName  string
	Kind        string // "CLASS", "INTERFACE", "ENUM", "ANNOTATION", "RECORD"
	Modifiers   []string
	Annotations []AnnotationDecl
	Supertypes  []string // simple or qualified names, resolved by the builder
	Interfaces  []string

	Fields  []FieldDecl
	Methods []MethodDecl

	Line, Column int
}

// FieldDecl is one declared field.
type FieldDecl struct {
	Name        string
	Type        string
	Modifiers   []string
	Annotations []AnnotationDecl
	Line, Column int
}

// MethodDecl is one declared method or constructor, plus its raw body
// node for Phase-2 call extraction.
type MethodDecl struct {
	Name          string // ConstructorName for constructors
	ReturnType    string
	Parameters    []ParameterDecl
	Modifiers     []string
	Annotations   []AnnotationDecl
	ThrownTypes   []string
	Line, Column  int

	// Body is the raw, opaque method-body node the upstream parser
	// produced. The model builder never inspects its internal shape
	// directly; it walks it exclusively through the Body.Visit callback.
	Body MethodBody
}

// ParameterDecl is one formal parameter.
type ParameterDecl struct {
	Name        string
	Type        string
	Annotations []AnnotationDecl
}

// AnnotationDecl is a parsed marker/annotation, prior to FQN resolution.
type AnnotationDecl struct {
	SimpleName string
	Attributes map[string]string
}

// MethodBody is the visitor contract a method body exposes to Phase 2.
// The upstream parser owns how "invocation expression" and "local
// variable declaration" are represented internally; it exposes them here
// in grammar-agnostic form.
type MethodBody interface {
	// Visit calls fn once for every invocation or constructor expression
	// and every local-variable declaration in the method body, in source
	// traversal order. Implementations stop early if fn returns false.
	Visit(fn func(Node) bool)
}

// Node is one visited construct within a method body: either an
// InvocationNode or a LocalVarNode, never both.
type Node struct {
	Invocation *InvocationNode
	LocalVar   *LocalVarNode
}

// InvocationNode is a call or constructor expression.
type InvocationNode struct {
	// Qualifier is the receiver expression text as written, e.g. "this",
	// "httpClient", "utils.Helper", or empty for an unqualified call.
	Qualifier string

	// MethodName is the invoked method's simple name, or ConstructorName
	// for "new T(...)" expressions.
	MethodName string

	// IsConstructor marks a "new T(...)" expression; Qualifier then names
	// the constructed type instead of a receiver.
	IsConstructor bool

	// Arguments are the raw argument expressions, in call order.
	Arguments []ArgumentExpr

	Line, Column int
}

// ArgumentExpr is one call argument, prior to type resolution.
type ArgumentExpr struct {
	// Text is the argument expression as written, for diagnostics.
	Text string

	// Kind classifies the expression shape so the builder knows which
	// resolution rule to apply: "literal-string", "literal-int",
	// "literal-other", "identifier", or "other".
	Kind string

	// LiteralValue holds the decoded literal value when Kind starts with
	// "literal-" (used by the duplicate-table-update evaluator to recover
	// SQL text passed as a call argument).
	LiteralValue string
}

// LocalVarNode is a local variable declaration, needed so the builder's
// resolution environment can track "locals declared earlier in the body"
// per spec.md §4.1 step 3.
type LocalVarNode struct {
	Name         string
	Type         string
	Line, Column int

	// Initializer is the declaration's right-hand-side expression ("T x =
	// <Initializer>;"), with the zero ArgumentExpr (Kind == "") for a
	// declaration with none. Carried so a literal assigned to a local
	// earlier in the body, or a local declared as an alias of a parameter,
	// is still recoverable when that local is later passed as a call
	// argument (spec.md §4.5.10's local-variable binding requirement).
	Initializer ArgumentExpr
}
