package model

import "strings"

// ConstructorName is the simple name recorded for constructors, mirroring
// the <init> convention of JVM bytecode that the teacher's resolution code
// already assumes in several places.
const ConstructorName = "<init>"

// Parameter is one formal parameter of a method or constructor.
type Parameter struct {
	Name        string
	Type        TypeRef
	Annotations []AnnotationRef
}

// MethodEntity is one record per declared method or constructor.
//
// FQN takes the form "<containing type FQN>#<name>(<param FQNs>)", e.g.
// "svc.OrderService#createOrder(model.Order)". Two methods with identical
// containing type and identical resolved parameter FQN sequence must not
// both exist in a frozen SourceModel (spec.md §3 invariant).
type MethodEntity struct {
	FQN            string
	ContainingType string
	SimpleName     string
	Parameters     []Parameter
	ReturnType     TypeRef
	Modifiers      Modifier
	Annotations    []AnnotationRef
	ThrownTypes    []TypeRef
	Location       Location

	// InheritedStereotypes holds marker simple names propagated from the
	// containing type during Phase 5 enrichment, for evaluators that treat
	// a stereotype on the class as applying to every method in it.
	InheritedStereotypes []string
}

// BuildMethodFQN computes the canonical method signature FQN from a
// containing type FQN, a method simple name, and the resolved parameter
// type FQNs, in declaration order.
func BuildMethodFQN(containingTypeFQN, name string, paramFQNs []string) string {
	var b strings.Builder
	b.WriteString(containingTypeFQN)
	b.WriteByte('#')
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strings.Join(paramFQNs, ","))
	b.WriteByte(')')
	return b.String()
}

// IsConstructor reports whether this method is a constructor.
func (m *MethodEntity) IsConstructor() bool {
	return m.SimpleName == ConstructorName
}

// HasAnnotation reports whether the method itself (not its containing
// type) carries a marker with this simple name.
func (m *MethodEntity) HasAnnotation(name string) bool {
	return HasAnnotation(m.Annotations, name)
}

// HasStereotype reports whether the method carries the marker directly or
// inherited it from its containing type's stereotype (Phase 5).
func (m *MethodEntity) HasStereotype(name string) bool {
	if m.HasAnnotation(name) {
		return true
	}
	for _, s := range m.InheritedStereotypes {
		if s == name {
			return true
		}
	}
	return false
}

// ParameterTypeFQNs returns the resolved parameter type FQNs in order,
// matching the sequence embedded in FQN.
func (m *MethodEntity) ParameterTypeFQNs() []string {
	fqns := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		fqns[i] = p.Type.FQN
	}
	return fqns
}
