package sxgraph

import (
	"fmt"
)

// The error taxonomy splits failures by blast radius. SchemaError and
// IoError abort the run; RowError and FieldError are counted and logged but
// never abort anything.

// SchemaError reports a malformed schema declaration. It is only returned
// at startup, before any input is read.
type SchemaError struct {
	Line int
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("schema: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("schema: %s", e.Msg)
}

// IoError reports an unreadable input file or a broken output stream. The
// run is aborted and the output must be treated as a truncated partial
// artifact.
type IoError struct {
	Name string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io: %s: %v", e.Name, e.Err)
}

// RowError reports a row whose own identity could not be established - the
// id attribute is missing or not numeric (not present for tags). The row is
// dropped and counted; the stream continues.
type RowError struct {
	Kind   Kind
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row: %v: %s", e.Kind, e.Reason)
}

// FieldError reports a single value that failed type coercion. The field is
// dropped and counted; the rest of the row is unaffected.
type FieldError struct {
	Kind      Kind
	Predicate string
	Value     string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field: %s: %q: %v", e.Predicate, e.Value, e.Err)
}
