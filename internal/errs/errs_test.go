package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorFormatsLocation(t *testing.T) {
	err := &ParseError{File: "a.sql", Line: 3, Col: 7, Message: "unexpected token"}
	require.Equal(t, `a.sql:3:7: parse error: unexpected token`, err.Error())
}

func TestAnalyzerErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &AnalyzerError{File: "a.sql", Line: 1, Col: 1, Message: "bad", Err: inner}
	require.ErrorIs(t, err, inner)
}

func TestUnsupportedStatementErrorsAs(t *testing.T) {
	var target error = &UnsupportedStatement{File: "a.sql", Line: 2, Col: 4, Kind: "Merge"}
	wrapped := fmt.Errorf("context: %w", target)
	var unsupported *UnsupportedStatement
	require.ErrorAs(t, wrapped, &unsupported)
	require.Equal(t, "Merge", unsupported.Kind)
}

func TestDuplicateDefinitionMessage(t *testing.T) {
	err := &DuplicateDefinition{Name: "t1", FirstFile: "a.sql", SecondFile: "b.sql"}
	require.Contains(t, err.Error(), "a.sql")
	require.Contains(t, err.Error(), "b.sql")
}

func TestCycleDetectedMessage(t *testing.T) {
	err := &CycleDetected{From: "a.sql", To: "b.sql"}
	require.Equal(t, "cycle detected: a.sql -> b.sql", err.Error())
}

func TestIOErrorUnwraps(t *testing.T) {
	inner := errors.New("permission denied")
	err := &IOError{Path: "x.sql", Err: inner}
	require.ErrorIs(t, err, inner)
}

func TestSchemaErrorUnwraps(t *testing.T) {
	inner := errors.New("bad json")
	err := &SchemaError{File: "s.json", Message: "malformed", Err: inner}
	require.ErrorIs(t, err, inner)
}
