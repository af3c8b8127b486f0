package builder

import (
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/parser"
)

// builderState threads the Draft being populated and the resolutionIndex
// side table through Phase 1 and Phase 2. It is never shared across
// goroutines (see builder.go's concurrency note).
type builderState struct {
	draft *model.Draft
	ri    *resolutionIndex
}

// pendingMethod carries a method's raw body forward from Phase 1 to
// Phase 2, along with the per-method scope Phase 2 needs to resolve
// qualifiers against.
type pendingMethod struct {
	file   string
	entity *model.MethodEntity
	body   parser.MethodBody
}

// extractFile runs Phase 1 entity extraction for one compilation unit:
// types, their modifiers/annotations/supertypes, methods, fields, and the
// CONTAINS relationships tying them together (Phase 3, folded in here
// since nothing later adds information a type's own declaration doesn't
// already carry). Returns the methods whose bodies Phase 2 still needs to
// walk.
func (b *builderState) extractFile(u parser.CompilationUnit) []pendingMethod {
	b.ri.indexImports(u.FilePath, u.Imports)

	// Index every type's package+simpleName -> FQN first, in a pass of
	// its own, so that forward references within the same file (a type
	// declared later in the file, referenced earlier) still resolve.
	for _, td := range u.Types {
		fqn := typeFQN(u.Package, td.SimpleName)
		b.ri.indexType(u.Package, td.SimpleName, fqn)
	}

	var pending []pendingMethod
	for _, td := range u.Types {
		pending = append(pending, b.extractType(u, td)...)
	}
	return pending
}

func typeFQN(pkg, simpleName string) string {
	if pkg == "" {
		return simpleName
	}
	return pkg + "." + simpleName
}

func (b *builderState) extractType(u parser.CompilationUnit, td parser.TypeDecl) []pendingMethod {
	fqn := typeFQN(u.Package, td.SimpleName)

	entity := &model.TypeEntity{
		FQN:        fqn,
		SimpleName: td.SimpleName,
		Package:    u.Package,
		Kind:       model.Kind(td.Kind),
		Modifiers:  parseModifiers(td.Modifiers),
		Location:   model.Location{File: u.FilePath, Line: td.Line, Column: td.Column},
	}
	for _, a := range td.Annotations {
		entity.Annotations = append(entity.Annotations, b.convertAnnotation(u.FilePath, u.Package, a))
	}
	for _, s := range td.Supertypes {
		ref := b.ri.resolveTypeName(u.FilePath, u.Package, s)
		entity.Supertypes = append(entity.Supertypes, ref)
		b.ri.supertypesByType[fqn] = append(b.ri.supertypesByType[fqn], ref.FQN)
		b.draft.AddRelationship(model.NewInherits(fqn, ref.FQN))
	}
	for _, s := range td.Interfaces {
		ref := b.ri.resolveTypeName(u.FilePath, u.Package, s)
		entity.Interfaces = append(entity.Interfaces, ref)
		b.ri.supertypesByType[fqn] = append(b.ri.supertypesByType[fqn], ref.FQN)
		b.draft.AddRelationship(model.NewImplements(fqn, ref.FQN))
	}
	b.draft.AddType(entity)

	var pending []pendingMethod
	for _, fd := range td.Fields {
		fieldEntity := b.extractField(u, fqn, fd)
		b.ri.indexField(fqn, fieldEntity.SimpleName, fieldEntity.Type)
		b.draft.AddField(fieldEntity)
		b.draft.AddRelationship(model.NewContains(fqn, fieldEntity.FQN))
		b.draft.AddRelationship(model.NewReferences(fqn, fieldEntity.Type.FQN))
	}
	for _, md := range td.Methods {
		methodEntity := b.extractMethod(u, fqn, md)
		b.draft.AddMethod(methodEntity)
		b.draft.AddRelationship(model.NewContains(fqn, methodEntity.FQN))
		b.draft.AddRelationship(model.NewReferences(fqn, methodEntity.ReturnType.FQN))
		for _, th := range methodEntity.ThrownTypes {
			b.draft.AddRelationship(model.NewReferences(fqn, th.FQN))
		}
		for _, p := range methodEntity.Parameters {
			b.draft.AddRelationship(model.NewReferences(fqn, p.Type.FQN))
		}
		if md.Body != nil {
			b.ri.fileOfMethod[methodEntity.FQN] = u.FilePath
			pending = append(pending, pendingMethod{file: u.FilePath, entity: methodEntity, body: md.Body})
		}
	}

	return pending
}

func (b *builderState) extractField(u parser.CompilationUnit, typeFQN string, fd parser.FieldDecl) *model.FieldEntity {
	t := b.ri.resolveTypeName(u.FilePath, u.Package, fd.Type)
	f := &model.FieldEntity{
		FQN:            model.BuildFieldFQN(typeFQN, fd.Name),
		ContainingType: typeFQN,
		SimpleName:     fd.Name,
		Type:           t,
		Modifiers:      parseModifiers(fd.Modifiers),
		Location:       model.Location{File: u.FilePath, Line: fd.Line, Column: fd.Column},
	}
	for _, a := range fd.Annotations {
		f.Annotations = append(f.Annotations, b.convertAnnotation(u.FilePath, u.Package, a))
	}
	return f
}

func (b *builderState) extractMethod(u parser.CompilationUnit, typeFQN string, md parser.MethodDecl) *model.MethodEntity {
	name := md.Name
	var params []model.Parameter
	var paramFQNs []string
	for _, pd := range md.Parameters {
		t := b.ri.resolveTypeName(u.FilePath, u.Package, pd.Type)
		p := model.Parameter{Name: pd.Name, Type: t}
		for _, a := range pd.Annotations {
			p.Annotations = append(p.Annotations, b.convertAnnotation(u.FilePath, u.Package, a))
		}
		params = append(params, p)
		paramFQNs = append(paramFQNs, t.FQN)
	}

	returnType := b.ri.resolveTypeName(u.FilePath, u.Package, md.ReturnType)
	if name == model.ConstructorName {
		returnType = model.NewTypeRef(simpleNameOf(typeFQN), typeFQN)
	}

	entity := &model.MethodEntity{
		FQN:            model.BuildMethodFQN(typeFQN, name, paramFQNs),
		ContainingType: typeFQN,
		SimpleName:     name,
		Parameters:     params,
		ReturnType:     returnType,
		Modifiers:      parseModifiers(md.Modifiers),
		Location:       model.Location{File: u.FilePath, Line: md.Line, Column: md.Column},
	}
	for _, a := range md.Annotations {
		entity.Annotations = append(entity.Annotations, b.convertAnnotation(u.FilePath, u.Package, a))
	}
	for _, th := range md.ThrownTypes {
		entity.ThrownTypes = append(entity.ThrownTypes, b.ri.resolveTypeName(u.FilePath, u.Package, th))
	}
	return entity
}

// convertAnnotation resolves an annotation's FQN through the same
// import-map lookup declared types use (resolveSimpleTypeName), so the
// FQN-keyed annotation indexes (source_model.go's typesByAnnotationFQN/
// methodsByAnnotationFQN) are actually populated instead of permanently
// empty.
func (b *builderState) convertAnnotation(file, currentPackage string, a parser.AnnotationDecl) model.AnnotationRef {
	resolved := b.ri.resolveSimpleTypeName(file, currentPackage, a.SimpleName)
	ref := model.NewAnnotationRef(a.SimpleName, resolved.FQN)
	for k, v := range a.Attributes {
		ref.Attributes[k] = v
	}
	return ref
}

var modifierLookup = map[string]model.Modifier{
	"public":           model.Public,
	"private":          model.Private,
	"protected":        model.Protected,
	"package-private":  model.PackagePrivate,
	"static":           model.Static,
	"final":            model.Final,
	"abstract":         model.Abstract,
	"synchronized":     model.Synchronized,
	"volatile":         model.Volatile,
	"transient":        model.Transient,
	"native":           model.Native,
	"strictfp":         model.Strictfp,
}

func parseModifiers(raw []string) model.Modifier {
	var m model.Modifier
	for _, r := range raw {
		if flag, ok := modifierLookup[r]; ok {
			m |= flag
		}
	}
	return m
}

// enrich runs Phase 5: methods on a type recognized as a container
// component (IsContainerComponent) inherit the type's own stereotype
// marker simple names, so rules that key on "a transactional service's
// methods" also catch a @Transactional class-level annotation rather
// than requiring it on every method.
func enrich(d *model.Draft) {
	for _, t := range d.TypesDuringBuild() {
		t.ComputeIsContainerComponent()
		if !t.IsContainerComponent {
			continue
		}
		var stereotypes []string
		for _, a := range t.Annotations {
			stereotypes = append(stereotypes, a.SimpleName)
		}
		if len(stereotypes) == 0 {
			continue
		}
		for _, m := range d.MethodsOfType(t.FQN) {
			m.InheritedStereotypes = append(m.InheritedStereotypes, stereotypes...)
		}
	}
}
