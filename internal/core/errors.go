package core

import "fmt"

// ConnectivityError is returned when the database cannot be reached or the
// session cannot be established.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "connectivity error: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// SchemaNotFoundError is returned by the schema pre-check.
type SchemaNotFoundError struct {
	Schema string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema %q doesn't exist", e.Schema)
}

// QueryError wraps a failed catalog query. Step names the load step, e.g.
// "primary keys".
type QueryError struct {
	Step string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Step, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// DataConsistencyError reports a violated model invariant: an unresolved
// foreign key target, a missing ordinal, or a probe query returning nothing.
type DataConsistencyError struct {
	Reason string
}

func (e *DataConsistencyError) Error() string {
	return "data consistency error: " + e.Reason
}

// TemplateRenderError means a built-in template failed to execute. It points at
// a packaging defect rather than bad input.
type TemplateRenderError struct {
	Template string
	Err      error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.Template, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }
