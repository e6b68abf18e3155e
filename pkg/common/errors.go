package common

import "fmt"

// NotFoundError reports an unresolved node or graph reference. Lookup-style
// operations return it as a value; it never aborts a composite query.
type NotFoundError struct {
	Kind string // "node" or "graph"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NewNodeNotFound builds a NotFoundError for a node id.
func NewNodeNotFound(id string) *NotFoundError {
	return &NotFoundError{Kind: "node", ID: id}
}

// NewGraphNotFound builds a NotFoundError for a graph reference.
func NewGraphNotFound(ref string) *NotFoundError {
	return &NotFoundError{Kind: "graph", ID: ref}
}

// ValidationError reports a malformed config or argument. It is raised at the
// boundary before any graph access happens and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
