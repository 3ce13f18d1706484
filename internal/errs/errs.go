// Package errs defines the module's typed error taxonomy (spec §7). Each
// error type carries the file (and, where known, line/column) it concerns;
// the types that wrap an underlying error (ParseError, AnalyzerError,
// IOError, SchemaError) expose Unwrap so errors.Is/errors.As reach it.
package errs

import "fmt"

// ParseError reports that the lexer/parser rejected a script.
type ParseError struct {
	File    string
	Line    int
	Col     int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: parse error: %s", e.File, e.Line, e.Col, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AnalyzerError wraps the semantic analyzer's rejection of a statement,
// with the originating file attached.
type AnalyzerError struct {
	File    string
	Line    int
	Col     int
	Message string
	Err     error
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("%s:%d:%d: analyzer error: %s", e.File, e.Line, e.Col, e.Message)
}

func (e *AnalyzerError) Unwrap() error { return e.Err }

// UnsupportedStatement is the analyzer's "Statement not supported"
// response; callers downgrade it to a warning and continue.
type UnsupportedStatement struct {
	File    string
	Line    int
	Col     int
	Kind    string
}

func (e *UnsupportedStatement) Error() string {
	return fmt.Sprintf("%s:%d:%d: statement not supported: %s", e.File, e.Line, e.Col, e.Kind)
}

// DuplicateDefinition reports two files creating the same table or
// function.
type DuplicateDefinition struct {
	Name       string
	FirstFile  string
	SecondFile string
}

func (e *DuplicateDefinition) Error() string {
	return fmt.Sprintf("%q defined in both %s and %s", e.Name, e.FirstFile, e.SecondFile)
}

// MissingTemporaryCreation reports an INSERT/UPDATE target not created in
// the same file (the idempotency warning of spec §4.1).
type MissingTemporaryCreation struct {
	File  string
	Table string
}

func (e *MissingTemporaryCreation) Error() string {
	return fmt.Sprintf("%s: %q is written but not created in this script (non-idempotent)", e.File, e.Table)
}

// CycleDetected reports a DFS back-edge in the dependency DAG.
type CycleDetected struct {
	From string
	To   string
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("cycle detected: %s -> %s", e.From, e.To)
}

// IOError wraps a filesystem or schema-read failure.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SchemaError reports an unsupported BigQuery type spelling or malformed
// JSON schema document.
type SchemaError struct {
	File    string
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: schema error: %s", e.File, e.Message)
}

func (e *SchemaError) Unwrap() error { return e.Err }
