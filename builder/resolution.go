package builder

import (
	"strings"

	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/parser"
)

// loggerVariableNames is the designated set of logger-variable names the
// qualifier resolution's step 8 recognizes, mirroring the common
// generators of the source ecosystem (Lombok's @Slf4j -> "log", manual
// SLF4J/Log4j declarations -> "logger"/"LOG"/"LOGGER").
var loggerVariableNames = map[string]bool{
	"log": true, "logger": true, "LOG": true, "LOGGER": true, "Log": true, "Logger": true,
}

// canonicalLoggerTypeFQN is the type resolution step 8 maps a recognized
// logger variable name onto.
const canonicalLoggerTypeFQN = "org.slf4j.Logger"

// scope tracks the qualifier/environment resolution state for one method
// body traversal: its parameters, and the locals declared so far as the
// body is walked in source order. Locals are added incrementally as the
// traversal reaches each declaration, so "declared earlier in the body"
// (spec.md §4.1 step 3) falls out naturally from visiting in order rather
// than needing an explicit position comparison.
type scope struct {
	methodFQN      string
	containingType string
	parameters     map[string]model.TypeRef
	locals         map[string]model.TypeRef

	// localLiterals and localAliasParam let emitCall recover a literal
	// passed indirectly through a local variable (spec.md §4.5.10): a local
	// declared as a literal is recorded directly; one declared as a copy of
	// a parameter (or of another such alias) is recorded as an alias of
	// that parameter's name, since the parameter's own value is only known
	// once the call graph is walked from an actual call site.
	localLiterals   map[string]string
	localAliasParam map[string]string
}

func newScope(methodFQN, containingType string, params []model.Parameter) *scope {
	s := &scope{
		methodFQN:       methodFQN,
		containingType:  containingType,
		parameters:      make(map[string]model.TypeRef, len(params)),
		locals:          make(map[string]model.TypeRef),
		localLiterals:   make(map[string]string),
		localAliasParam: make(map[string]string),
	}
	for _, p := range params {
		s.parameters[p.Name] = p.Type
	}
	return s
}

func (s *scope) declareLocal(name string, t model.TypeRef, init parser.ArgumentExpr) {
	s.locals[name] = t
	switch {
	case strings.HasPrefix(init.Kind, "literal-"):
		s.localLiterals[name] = init.LiteralValue
	case init.Kind == "identifier":
		if lit, ok := s.localLiterals[init.Text]; ok {
			s.localLiterals[name] = lit
		} else if _, ok := s.parameters[init.Text]; ok {
			s.localAliasParam[name] = init.Text
		} else if p, ok := s.localAliasParam[init.Text]; ok {
			s.localAliasParam[name] = p
		}
	}
}

// literalOrBinding reports how a call argument identifier named name
// resolves: a known build-time literal (lit != "", param == ""), a
// parameter whose own literal value can only be known at call-chain
// evaluation time (lit == "", param != ""), or neither (ok == false).
func (s *scope) literalOrBinding(name string) (lit, param string, ok bool) {
	if v, exists := s.localLiterals[name]; exists {
		return v, "", true
	}
	if _, exists := s.parameters[name]; exists {
		return "", name, true
	}
	if p, exists := s.localAliasParam[name]; exists {
		return "", p, true
	}
	return "", "", false
}

// resolutionIndex is the Phase-1 side table the builder maintains to
// support qualifier resolution: per-file import maps, and a
// package/simple-name -> FQN index for the "same-package type" fallback
// (spec.md §4.1 step 7).
type resolutionIndex struct {
	importsByFile    map[string]map[string]string // file -> alias -> FQN
	wildcardsByFile  map[string]string            // file -> wildcard package prefix (last one wins; rare to have >1)
	typesByPkgSimple map[string]map[string]string // package -> simpleName -> FQN
	fieldsByType     map[string]map[string]model.TypeRef
	supertypesByType map[string][]string // type FQN -> supertype/interface FQNs
	fileOfMethod     map[string]string   // method FQN -> source file, for import lookup
}

func newResolutionIndex() *resolutionIndex {
	return &resolutionIndex{
		importsByFile:    make(map[string]map[string]string),
		wildcardsByFile:  make(map[string]string),
		typesByPkgSimple: make(map[string]map[string]string),
		fieldsByType:     make(map[string]map[string]model.TypeRef),
		supertypesByType: make(map[string][]string),
		fileOfMethod:     make(map[string]string),
	}
}

func (ri *resolutionIndex) indexImports(file string, imports map[string]string) {
	m := make(map[string]string, len(imports))
	for alias, fqn := range imports {
		if strings.HasSuffix(fqn, ".") {
			ri.wildcardsByFile[file] = fqn
			continue
		}
		m[alias] = fqn
	}
	ri.importsByFile[file] = m
}

func (ri *resolutionIndex) indexType(pkg, simpleName, fqn string) {
	m, ok := ri.typesByPkgSimple[pkg]
	if !ok {
		m = make(map[string]string)
		ri.typesByPkgSimple[pkg] = m
	}
	m[simpleName] = fqn
}

func (ri *resolutionIndex) indexField(typeFQN, fieldName string, t model.TypeRef) {
	m, ok := ri.fieldsByType[typeFQN]
	if !ok {
		m = make(map[string]model.TypeRef)
		ri.fieldsByType[typeFQN] = m
	}
	m[fieldName] = t
}

// fieldType walks typeFQN and its recorded supertypes/interfaces looking
// for a field named fieldName, per spec.md §4.1 step 4 ("a field of the
// current type, or any of its supertypes in the model").
func (ri *resolutionIndex) fieldType(typeFQN, fieldName string) (model.TypeRef, bool) {
	visited := make(map[string]bool)
	queue := []string{typeFQN}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if fields, ok := ri.fieldsByType[cur]; ok {
			if t, ok := fields[fieldName]; ok {
				return t, true
			}
		}
		queue = append(queue, ri.supertypesByType[cur]...)
	}
	return model.TypeRef{}, false
}

// qualifierResolution is the outcome of resolveQualifier: the declaring
// type FQN, and whether it was bound to a variable (parameter/local/field
// — steps 2-4) or to a type name directly (import/same-package/logger —
// steps 6-8). The distinction drives DIRECT/VIRTUAL vs. STATIC call-kind
// classification (spec.md §4.1).
type qualifierResolution struct {
	FQN        string
	ViaType    bool
	Unresolved bool
}

// resolveQualifier implements spec.md §4.1's nine-step qualifier
// resolution, returning the declaring type FQN a receiver expression
// names, or Unresolved=true when every step fails.
func (ri *resolutionIndex) resolveQualifier(file string, s *scope, qualifier string) qualifierResolution {
	// Step 1: absent qualifier -> implicit self-call.
	if qualifier == "" || qualifier == "this" {
		return qualifierResolution{FQN: s.containingType}
	}

	// A dotted chain: resolve only the leftmost segment (step 5), but try
	// every earlier step against the whole qualifier first in case it
	// names e.g. a single-segment parameter/local/field/import directly.
	head := qualifier
	if idx := strings.IndexByte(qualifier, '.'); idx >= 0 {
		head = qualifier[:idx]
	}

	for _, candidate := range []string{qualifier, head} {
		// Step 2: parameter.
		if t, ok := s.parameters[candidate]; ok {
			return qualifierResolution{FQN: t.FQN}
		}
		// Step 3: local variable declared earlier.
		if t, ok := s.locals[candidate]; ok {
			return qualifierResolution{FQN: t.FQN}
		}
		// Step 4: field of current type or a supertype.
		if t, ok := ri.fieldType(s.containingType, candidate); ok {
			return qualifierResolution{FQN: t.FQN}
		}
		// Step 6: imported simple name.
		if imports, ok := ri.importsByFile[file]; ok {
			if fqn, ok := imports[candidate]; ok {
				return qualifierResolution{FQN: fqn, ViaType: true}
			}
		}
		// Step 7: same-package type, if it starts with an upper-case letter.
		if len(candidate) > 0 && candidate[0] >= 'A' && candidate[0] <= 'Z' {
			pkg := packageOf(s.containingType)
			if types, ok := ri.typesByPkgSimple[pkg]; ok {
				if fqn, ok := types[candidate]; ok {
					return qualifierResolution{FQN: fqn, ViaType: true}
				}
			}
		}
		// Step 8: a designated logger-variable name.
		if loggerVariableNames[candidate] {
			return qualifierResolution{FQN: canonicalLoggerTypeFQN, ViaType: true}
		}
	}

	// Step 9: fall through to a wildcard import's package, if any, as a
	// last-resort same-package-style guess before giving up.
	if wc, ok := ri.wildcardsByFile[file]; ok {
		if len(head) > 0 && head[0] >= 'A' && head[0] <= 'Z' {
			return qualifierResolution{FQN: wc + head, ViaType: true}
		}
	}

	return qualifierResolution{Unresolved: true}
}

func packageOf(typeFQN string) string {
	idx := strings.LastIndexByte(typeFQN, '.')
	if idx < 0 {
		return ""
	}
	return typeFQN[:idx]
}
