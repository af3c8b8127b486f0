package model

// Kind distinguishes the flavor of a declared type.
type Kind string

const (
	KindClass      Kind = "CLASS"
	KindInterface  Kind = "INTERFACE"
	KindEnum       Kind = "ENUM"
	KindAnnotation Kind = "ANNOTATION"
	KindRecord     Kind = "RECORD"
)

// containerStereotypes is the fixed set of marker annotation simple names
// that mark a type as a "container component" (a managed bean in the
// ecosystem sense: service, repository, controller, component). Matched
// against TypeEntity.Annotations to compute IsContainerComponent.
var containerStereotypes = map[string]bool{
	"Service":      true,
	"Repository":   true,
	"Controller":   true,
	"RestController": true,
	"Component":    true,
	"Configuration": true,
}

// TypeEntity is one record per declared type. FQN is the primary key.
type TypeEntity struct {
	FQN         string
	SimpleName  string
	Package     string
	Kind        Kind
	Modifiers   Modifier
	Annotations []AnnotationRef
	Supertypes  []TypeRef
	Interfaces  []TypeRef
	Location    Location

	// IsContainerComponent is computed at enrichment time (Phase 5) by
	// matching Annotations against containerStereotypes.
	IsContainerComponent bool
}

// ComputeIsContainerComponent derives IsContainerComponent from the
// type's annotations. Called during Phase 5 enrichment and again
// (idempotently) at Freeze time, so it is safe however the builder
// sequences the two phases.
func (t *TypeEntity) ComputeIsContainerComponent() {
	for _, a := range t.Annotations {
		if containerStereotypes[a.SimpleName] {
			t.IsContainerComponent = true
			return
		}
	}
}

// HasAnnotation reports whether the type carries a marker with this
// simple name.
func (t *TypeEntity) HasAnnotation(name string) bool {
	return HasAnnotation(t.Annotations, name)
}
