package model

import "fmt"

// Draft is the mutable aggregate the builder populates during Phases 1-3.
// It is never shared across goroutines; the builder's parallel workers only
// parse files, and a single goroutine then extracts every parsed unit into
// one Draft (see builder.Build). Freeze produces the
// immutable SourceModel the rest of the system consumes.
type Draft struct {
	types         map[string]*TypeEntity
	methods       map[string]*MethodEntity
	fields        map[string]*FieldEntity
	relationships []Relationship
}

// NewDraft returns an empty, ready-to-populate Draft.
func NewDraft() *Draft {
	return &Draft{
		types:   make(map[string]*TypeEntity),
		methods: make(map[string]*MethodEntity),
		fields:  make(map[string]*FieldEntity),
	}
}

// AddType registers a type entity. A second AddType for the same FQN
// overwrites the first (last declaration wins), matching how the builder
// handles duplicate partial/extension declarations.
func (d *Draft) AddType(t *TypeEntity) {
	d.types[t.FQN] = t
}

// AddMethod registers a method entity.
func (d *Draft) AddMethod(m *MethodEntity) {
	d.methods[m.FQN] = m
}

// AddField registers a field entity.
func (d *Draft) AddField(f *FieldEntity) {
	d.fields[f.FQN] = f
}

// AddRelationship appends a relationship. Relationships are never
// deduplicated at this stage; CALLS edges in particular may legitimately
// repeat (the same call expression reachable via more than one control
// path still has one call-site Location per occurrence in source, and a
// loop body calling the same callee twice emits two edges).
func (d *Draft) AddRelationship(r Relationship) {
	d.relationships = append(d.relationships, r)
}

// GetType looks up a type by FQN during construction (Phase 2 symbol
// resolution needs to see Phase-1 entities).
func (d *Draft) GetType(fqn string) (*TypeEntity, bool) {
	t, ok := d.types[fqn]
	return t, ok
}

// GetMethod looks up a method by FQN during construction.
func (d *Draft) GetMethod(fqn string) (*MethodEntity, bool) {
	m, ok := d.methods[fqn]
	return m, ok
}

// GetField looks up a field by FQN during construction.
func (d *Draft) GetField(fqn string) (*FieldEntity, bool) {
	f, ok := d.fields[fqn]
	return f, ok
}

// TypesDuringBuild returns every type registered so far. Unlike
// SourceModel.AllTypes this is callable mid-build (Phase 5 enrichment
// runs before Freeze) and returns the same live pointers Freeze will
// later index, so mutations (e.g. ComputeIsContainerComponent) are
// visible afterward.
func (d *Draft) TypesDuringBuild() []*TypeEntity {
	out := make([]*TypeEntity, 0, len(d.types))
	for _, t := range d.types {
		out = append(out, t)
	}
	return out
}

// FieldCount returns the number of fields registered so far, used for
// parse-statistics reporting during the build.
func (d *Draft) FieldCount() int {
	return len(d.fields)
}

// MethodsOfType returns the methods declared directly on typeFQN, used by
// Phase 5 enrichment to propagate stereotypes.
func (d *Draft) MethodsOfType(typeFQN string) []*MethodEntity {
	var out []*MethodEntity
	for _, m := range d.methods {
		if m.ContainingType == typeFQN {
			out = append(out, m)
		}
	}
	return out
}

// SourceModel is the frozen, fully-indexed repository model. Once returned
// from Freeze, every container is a read-only view: nothing in this
// package ever mutates a SourceModel's maps or slices again.
type SourceModel struct {
	types         map[string]*TypeEntity
	methods       map[string]*MethodEntity
	fields        map[string]*FieldEntity
	relationships []Relationship

	typesByPackage          map[string][]*TypeEntity
	methodsByAnnotationName map[string][]*MethodEntity
	methodsByAnnotationFQN  map[string][]*MethodEntity
	typesByAnnotationName   map[string][]*TypeEntity
	typesByAnnotationFQN    map[string][]*TypeEntity
	fieldsByAnnotation      map[string][]*FieldEntity
	relationshipsBySource   map[string][]Relationship
	relationshipsByTarget   map[string][]Relationship
	relationshipsByKind     map[RelationshipKind][]Relationship
}

// Freeze validates invariants, builds every index, and returns the
// immutable SourceModel. Per spec.md §3: every CALLS edge's source must be
// a method present in the model, and every method's containing type must
// resolve to a type in the model.
func (d *Draft) Freeze() (*SourceModel, error) {
	m := &SourceModel{
		types:                   d.types,
		methods:                 d.methods,
		fields:                  d.fields,
		relationships:           d.relationships,
		typesByPackage:          make(map[string][]*TypeEntity),
		methodsByAnnotationName: make(map[string][]*MethodEntity),
		methodsByAnnotationFQN:  make(map[string][]*MethodEntity),
		typesByAnnotationName:   make(map[string][]*TypeEntity),
		typesByAnnotationFQN:    make(map[string][]*TypeEntity),
		fieldsByAnnotation:      make(map[string][]*FieldEntity),
		relationshipsBySource:   make(map[string][]Relationship),
		relationshipsByTarget:   make(map[string][]Relationship),
		relationshipsByKind:     make(map[RelationshipKind][]Relationship),
	}

	for _, t := range d.types {
		t.ComputeIsContainerComponent()
		m.typesByPackage[t.Package] = append(m.typesByPackage[t.Package], t)
		for _, a := range t.Annotations {
			if a.SimpleName != "" {
				m.typesByAnnotationName[a.SimpleName] = append(m.typesByAnnotationName[a.SimpleName], t)
			}
			if a.FQN != "" {
				m.typesByAnnotationFQN[a.FQN] = append(m.typesByAnnotationFQN[a.FQN], t)
			}
		}
	}

	for _, meth := range d.methods {
		if _, ok := d.types[meth.ContainingType]; !ok {
			return nil, fmt.Errorf("model invariant violated: method %q has no containing type %q", meth.FQN, meth.ContainingType)
		}
		for _, a := range meth.Annotations {
			if a.SimpleName != "" {
				m.methodsByAnnotationName[a.SimpleName] = append(m.methodsByAnnotationName[a.SimpleName], meth)
			}
			if a.FQN != "" {
				m.methodsByAnnotationFQN[a.FQN] = append(m.methodsByAnnotationFQN[a.FQN], meth)
			}
		}
	}

	for _, f := range d.fields {
		for _, a := range f.Annotations {
			if a.SimpleName != "" {
				m.fieldsByAnnotation[a.SimpleName] = append(m.fieldsByAnnotation[a.SimpleName], f)
			}
		}
	}

	for _, r := range d.relationships {
		if r.Kind == KindCalls {
			if _, ok := d.methods[r.Source]; !ok {
				return nil, fmt.Errorf("model invariant violated: CALLS edge source %q is not a method in the model", r.Source)
			}
		}
		m.relationshipsBySource[r.Source] = append(m.relationshipsBySource[r.Source], r)
		m.relationshipsByTarget[r.Target] = append(m.relationshipsByTarget[r.Target], r)
		m.relationshipsByKind[r.Kind] = append(m.relationshipsByKind[r.Kind], r)
	}

	return m, nil
}

// GetType returns the type entity for fqn, or nil if absent.
func (m *SourceModel) GetType(fqn string) *TypeEntity { return m.types[fqn] }

// GetMethod returns the method entity for fqn, or nil if absent (e.g. for
// a library method referenced only by an unresolved/external CALLS edge).
func (m *SourceModel) GetMethod(fqn string) *MethodEntity { return m.methods[fqn] }

// GetField returns the field entity for fqn, or nil if absent.
func (m *SourceModel) GetField(fqn string) *FieldEntity { return m.fields[fqn] }

// IsApplicationMethod reports whether fqn names a method present in the
// model, i.e. is not a library method (spec.md §4.2 "library boundary").
func (m *SourceModel) IsApplicationMethod(fqn string) bool {
	_, ok := m.methods[fqn]
	return ok
}

// GetMethodsByAnnotation returns every method carrying a marker with this
// simple name. Returned slices are shared read-only views; callers must
// not mutate them.
func (m *SourceModel) GetMethodsByAnnotation(name string) []*MethodEntity {
	return m.methodsByAnnotationName[name]
}

// GetMethodsByAnnotationFQN returns every method carrying a marker with
// this fully qualified annotation name.
func (m *SourceModel) GetMethodsByAnnotationFQN(fqn string) []*MethodEntity {
	return m.methodsByAnnotationFQN[fqn]
}

// GetTypesByAnnotation returns every type carrying a marker with this
// simple name.
func (m *SourceModel) GetTypesByAnnotation(name string) []*TypeEntity {
	return m.typesByAnnotationName[name]
}

// MethodsInType returns every method declared on typeFQN.
func (m *SourceModel) MethodsInType(typeFQN string) []*MethodEntity {
	var out []*MethodEntity
	for _, meth := range m.methods {
		if meth.ContainingType == typeFQN {
			out = append(out, meth)
		}
	}
	return out
}

// TypesInPackage returns every type declared in pkg.
func (m *SourceModel) TypesInPackage(pkg string) []*TypeEntity {
	return m.typesByPackage[pkg]
}

// RelationshipsOfKind returns every relationship of the given kind, in
// Phase-2/3 insertion order.
func (m *SourceModel) RelationshipsOfKind(kind RelationshipKind) []Relationship {
	return m.relationshipsByKind[kind]
}

// RelationshipsFrom returns every relationship whose Source equals fqn.
func (m *SourceModel) RelationshipsFrom(fqn string) []Relationship {
	return m.relationshipsBySource[fqn]
}

// RelationshipsTo returns every relationship whose Target equals fqn.
func (m *SourceModel) RelationshipsTo(fqn string) []Relationship {
	return m.relationshipsByTarget[fqn]
}

// AllMethods returns every method in the model. Used where the whole method
// set must be iterated: the engine's marker-based entry selection, the
// layered-architecture evaluator, and the builder's method count.
func (m *SourceModel) AllMethods() []*MethodEntity {
	out := make([]*MethodEntity, 0, len(m.methods))
	for _, meth := range m.methods {
		out = append(out, meth)
	}
	return out
}

// AllTypes returns every type in the model.
func (m *SourceModel) AllTypes() []*TypeEntity {
	out := make([]*TypeEntity, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	return out
}

// AllRelationships returns every relationship in the model, in Phase-2/3
// insertion order.
func (m *SourceModel) AllRelationships() []Relationship {
	return m.relationships
}
