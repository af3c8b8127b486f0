package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/parser"
)

// fakeBody is a hand-built parser.MethodBody: a fixed slice of nodes
// replayed in order, standing in for a real parser's AST walk.
type fakeBody struct {
	nodes []parser.Node
}

func (b fakeBody) Visit(fn func(parser.Node) bool) {
	for _, n := range b.nodes {
		if !fn(n) {
			return
		}
	}
}

func call(qualifier, method string, line int, args ...parser.ArgumentExpr) parser.Node {
	return parser.Node{Invocation: &parser.InvocationNode{
		Qualifier:  qualifier,
		MethodName: method,
		Arguments:  args,
		Line:       line,
	}}
}

func localVar(name, typ string, line int) parser.Node {
	return parser.Node{LocalVar: &parser.LocalVarNode{Name: name, Type: typ, Line: line}}
}

func localVarWithInit(name, typ string, line int, init parser.ArgumentExpr) parser.Node {
	return parser.Node{LocalVar: &parser.LocalVarNode{Name: name, Type: typ, Line: line, Initializer: init}}
}

// fakeUnits builds the spec's scenario-1 fixture: svc.OrderService, a
// @Transactional createOrder method that calls out to net.HttpClient#post
// on a field declared on the service itself.
func fakeUnits() map[string]parser.CompilationUnit {
	orderService := parser.CompilationUnit{
		FilePath: "svc/OrderService.go",
		Package:  "svc",
		Imports:  map[string]string{"HttpClient": "net.HttpClient", "Order": "model.Order"},
		Types: []parser.TypeDecl{
			{
				SimpleName:  "OrderService",
				Kind:        "CLASS",
				Annotations: []parser.AnnotationDecl{{SimpleName: "Service"}},
				Fields: []parser.FieldDecl{
					{Name: "httpClient", Type: "HttpClient", Line: 5},
				},
				Methods: []parser.MethodDecl{
					{
						Name:        "createOrder",
						ReturnType:  "void",
						Parameters:  []parser.ParameterDecl{{Name: "order", Type: "Order"}},
						Annotations: []parser.AnnotationDecl{{SimpleName: "Transactional"}},
						Line:        10,
						Body: fakeBody{nodes: []parser.Node{
							call("httpClient", "post", 11, parser.ArgumentExpr{Text: "order", Kind: "identifier"}),
						}},
					},
				},
			},
		},
	}

	httpClient := parser.CompilationUnit{
		FilePath: "net/HttpClient.go",
		Package:  "net",
		Types: []parser.TypeDecl{
			{
				SimpleName: "HttpClient",
				Kind:       "CLASS",
				Methods: []parser.MethodDecl{
					{Name: "post", ReturnType: "void", Parameters: []parser.ParameterDecl{{Name: "body", Type: "model.Order"}}, Line: 20},
				},
			},
		},
	}

	return map[string]parser.CompilationUnit{
		orderService.FilePath: orderService,
		httpClient.FilePath:   httpClient,
	}
}

func fakeParser(units map[string]parser.CompilationUnit) parser.SourceParser {
	return func(path string) (parser.CompilationUnit, error) {
		u, ok := units[path]
		if !ok {
			return parser.CompilationUnit{}, fmt.Errorf("no fixture for %s", path)
		}
		return u, nil
	}
}

func TestBuildScenario1TransactionBoundary(t *testing.T) {
	units := fakeUnits()
	files := []string{"svc/OrderService.go", "net/HttpClient.go"}

	sm, calls, stats, err := Build(files, Options{Parser: fakeParser(units)})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesProcessed)
	assert.Equal(t, 2, stats.TypesExtracted)
	assert.Len(t, calls, 1)

	svc := sm.GetType("svc.OrderService")
	require.NotNil(t, svc)
	assert.True(t, svc.IsContainerComponent)

	createOrder := sm.GetMethod("svc.OrderService#createOrder(model.Order)")
	require.NotNil(t, createOrder)
	assert.True(t, createOrder.HasAnnotation("Transactional"))

	edge := calls[0]
	assert.Equal(t, "svc.OrderService#createOrder(model.Order)", edge.Source)
	assert.True(t, edge.Resolved)
	assert.Equal(t, "net.HttpClient#post(model.Order)", edge.ResolvedFQN)
	assert.Equal(t, model.CallVirtual, edge.CallKind)
}

func TestBuildReportsParseFailureWithoutAbortingRun(t *testing.T) {
	units := fakeUnits()
	files := []string{"svc/OrderService.go", "missing/Unknown.go"}

	sm, _, stats, err := Build(files, Options{Parser: fakeParser(units)})
	require.NoError(t, err)
	require.NotNil(t, sm)

	assert.Equal(t, 1, stats.FilesProcessed)
	require.Len(t, stats.Files, 2)
	assert.Contains(t, stats.Warnings[0], "missing/Unknown.go")
}

func TestLocalVariableResolvesLaterCallButNotEarlierOne(t *testing.T) {
	units := map[string]parser.CompilationUnit{
		"svc/Thing.go": {
			FilePath: "svc/Thing.go",
			Package:  "svc",
			Imports:  map[string]string{"Helper": "util.Helper"},
			Types: []parser.TypeDecl{{
				SimpleName: "Thing",
				Kind:       "CLASS",
				Methods: []parser.MethodDecl{{
					Name:       "run",
					ReturnType: "void",
					Line:       1,
					Body: fakeBody{nodes: []parser.Node{
						call("helper", "before", 2),
						localVar("helper", "Helper", 3),
						call("helper", "after", 4),
					}},
				}},
			}},
		},
	}

	sm, calls, _, err := Build([]string{"svc/Thing.go"}, Options{Parser: fakeParser(units)})
	require.NoError(t, err)
	require.NotNil(t, sm)
	require.Len(t, calls, 2)

	assert.False(t, calls[0].Resolved)
	assert.True(t, calls[1].Resolved)
	assert.Equal(t, "util.Helper#after()", calls[1].ResolvedFQN)
}

// TestArgumentBindingCapturesLocalLiteralAndParameterForwarding exercises
// spec.md §4.5.10's binding-substitution inputs: a local variable declared
// with a literal initializer is resolved into ArgumentLiterals directly,
// while forwarding a parameter verbatim as a call argument records its name
// in ArgumentBindings for the evaluator to resolve against the call chain.
func TestArgumentBindingCapturesLocalLiteralAndParameterForwarding(t *testing.T) {
	units := map[string]parser.CompilationUnit{
		"svc/Writer.go": {
			FilePath: "svc/Writer.go",
			Package:  "svc",
			Types: []parser.TypeDecl{{
				SimpleName: "Writer",
				Kind:       "CLASS",
				Methods: []parser.MethodDecl{{
					Name:       "write",
					ReturnType: "void",
					Parameters: []parser.ParameterDecl{{Name: "table", Type: "String"}},
					Line:       1,
					Body: fakeBody{nodes: []parser.Node{
						localVarWithInit("sql", "String", 2, parser.ArgumentExpr{Kind: "literal-string", LiteralValue: "UPDATE users SET name=?"}),
						call("jdbc", "update", 3,
							parser.ArgumentExpr{Text: "sql", Kind: "identifier"},
							parser.ArgumentExpr{Text: "table", Kind: "identifier"},
						),
					}},
				}},
			}},
		},
	}

	sm, calls, _, err := Build([]string{"svc/Writer.go"}, Options{Parser: fakeParser(units)})
	require.NoError(t, err)
	require.NotNil(t, sm)
	require.Len(t, calls, 1)

	edge := calls[0]
	require.Len(t, edge.ArgumentLiterals, 2)
	require.Len(t, edge.ArgumentBindings, 2)
	assert.Equal(t, "UPDATE users SET name=?", edge.ArgumentLiterals[0])
	assert.Equal(t, "", edge.ArgumentBindings[0])
	assert.Equal(t, "", edge.ArgumentLiterals[1])
	assert.Equal(t, "table", edge.ArgumentBindings[1])
}
