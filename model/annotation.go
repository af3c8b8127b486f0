package model

// AnnotationRef is a reference to a marker/annotation attached to a type,
// method, field, or parameter. At minimum the simple name is populated;
// the FQN is best-effort (absent when the import map couldn't resolve it).
type AnnotationRef struct {
	SimpleName string
	FQN        string
	Attributes map[string]string // attribute name -> raw literal value
}

// NewAnnotationRef builds an AnnotationRef with a pre-allocated attribute
// map so callers never need a nil check.
func NewAnnotationRef(simpleName, fqn string) AnnotationRef {
	return AnnotationRef{
		SimpleName: simpleName,
		FQN:        fqn,
		Attributes: make(map[string]string),
	}
}

// Matches reports whether this annotation's simple name equals name.
// Stereotype markers (Transactional, Async, Retryable, Scheduled, ...) are
// always matched by simple name per spec.
func (a AnnotationRef) Matches(name string) bool {
	return a.SimpleName == name
}

// HasAnnotation reports whether any ref in refs matches the given simple
// name. Shared helper used by every evaluator that selects entry points by
// marker.
func HasAnnotation(refs []AnnotationRef, name string) bool {
	for _, r := range refs {
		if r.Matches(name) {
			return true
		}
	}
	return false
}
