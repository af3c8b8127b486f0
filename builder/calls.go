package builder

import (
	"strings"

	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/parser"
)

// extractCalls runs Phase 2 for one method: walks its raw body, resolving
// every invocation/constructor expression to a CALLS relationship and
// tracking local-variable declarations as it goes so later calls in the
// same body see them (spec.md §4.1 step 3).
func (b *builderState) extractCalls(pm pendingMethod) {
	s := newScope(pm.entity.FQN, pm.entity.ContainingType, pm.entity.Parameters)
	pkg := packageOf(pm.entity.ContainingType)

	pm.body.Visit(func(n parser.Node) bool {
		switch {
		case n.LocalVar != nil:
			t := b.ri.resolveTypeName(pm.file, pkg, n.LocalVar.Type)
			s.declareLocal(n.LocalVar.Name, t, n.LocalVar.Initializer)
		case n.Invocation != nil:
			b.emitCall(pm.file, s, *n.Invocation)
		}
		return true
	})
}

func (b *builderState) emitCall(file string, s *scope, inv parser.InvocationNode) {
	loc := model.Location{File: file, Line: inv.Line, Column: inv.Column}
	argFQNs := make([]string, len(inv.Arguments))
	argLiterals := make([]string, len(inv.Arguments))
	argBindings := make([]string, len(inv.Arguments))
	for i, a := range inv.Arguments {
		argFQNs[i] = b.resolveArgumentFQN(file, s, a)
		switch {
		case strings.HasPrefix(a.Kind, "literal-"):
			argLiterals[i] = a.LiteralValue
		case a.Kind == "identifier":
			if lit, param, ok := s.literalOrBinding(a.Text); ok {
				if lit != "" {
					argLiterals[i] = lit
				} else {
					argBindings[i] = param
				}
			}
		}
	}

	var declaringFQN string
	var resolved bool
	var kind model.CallKind

	if inv.IsConstructor {
		pkg := packageOf(s.containingType)
		t := b.ri.resolveTypeName(file, pkg, inv.Qualifier)
		declaringFQN = t.FQN
		resolved = true
		kind = model.CallConstructor
	} else if inv.Qualifier == "" || inv.Qualifier == "this" {
		declaringFQN = s.containingType
		resolved = true
		kind = model.CallDirect
	} else {
		r := b.ri.resolveQualifier(file, s, inv.Qualifier)
		if r.Unresolved {
			resolved = false
			kind = model.CallVirtual
		} else {
			declaringFQN = r.FQN
			resolved = true
			if r.ViaType {
				kind = model.CallStatic
			} else {
				kind = model.CallVirtual
			}
		}
	}

	rawCallee := rawCalleeText(inv)
	var resolvedFQN string
	if resolved {
		resolvedFQN = model.BuildMethodFQN(declaringFQN, inv.MethodName, argFQNs)
	}

	b.draft.AddRelationship(model.NewCallWithBindings(s.methodFQN, rawCallee, resolvedFQN, kind, loc, argFQNs, argLiterals, argBindings))
}

// resolveArgumentFQN resolves one call argument to a type FQN: literals
// map to their canonical primitive/reference FQN, identifiers resolve via
// the same environment lookup used for call qualifiers (spec.md §4.1:
// "for identifiers, resolve via the same rules used for qualifiers"), and
// everything else is the Unknown sentinel.
func (b *builderState) resolveArgumentFQN(file string, s *scope, a parser.ArgumentExpr) string {
	switch a.Kind {
	case "literal-string":
		return "string"
	case "literal-int":
		return "int"
	case "literal-other":
		return model.UnknownFQN
	case "identifier":
		r := b.ri.resolveQualifier(file, s, a.Text)
		if r.Unresolved {
			return model.UnknownFQN
		}
		return r.FQN
	default:
		return model.UnknownFQN
	}
}

func rawCalleeText(inv parser.InvocationNode) string {
	var b strings.Builder
	if inv.Qualifier != "" {
		b.WriteString(inv.Qualifier)
		b.WriteByte('.')
	}
	b.WriteString(inv.MethodName)
	b.WriteByte('(')
	for i, a := range inv.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Text)
	}
	b.WriteByte(')')
	return b.String()
}

func startsUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}
