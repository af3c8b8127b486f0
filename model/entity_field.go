package model

// FieldEntity is one record per declared field. FQN takes the form
// "<containing type FQN>#<field name>".
type FieldEntity struct {
	FQN            string
	ContainingType string
	SimpleName     string
	Type           TypeRef
	Modifiers      Modifier
	Annotations    []AnnotationRef
	Location       Location
}

// BuildFieldFQN computes the canonical field FQN.
func BuildFieldFQN(containingTypeFQN, name string) string {
	return containingTypeFQN + "#" + name
}

// HasAnnotation reports whether the field carries a marker with this
// simple name.
func (f *FieldEntity) HasAnnotation(name string) bool {
	return HasAnnotation(f.Annotations, name)
}
