// Package catalog implements the pipeline's evolving schema catalog
// (spec §3 "Catalog"): a single owning map of tables and functions keyed
// by lowercase canonical name, re-modeled from the original's mixed
// owned/borrowed raw-pointer scheme per spec §9 Design Notes
// ("Ownership of catalog entries").
package catalog

import "github.com/Matts966/alphasql-go/internal/sqlast"

// Type is a logical column type as produced by internal/jsonschema and
// internal/analyzer.
type Type interface {
	typeName() string
}

type ScalarType string

const (
	TypeString    ScalarType = "string"
	TypeInt64     ScalarType = "int64"
	TypeBool      ScalarType = "bool"
	TypeFloat64   ScalarType = "float64"
	TypeNumeric   ScalarType = "numeric"
	TypeBytes     ScalarType = "bytes"
	TypeTimestamp ScalarType = "timestamp"
	TypeDate      ScalarType = "date"
	TypeTime      ScalarType = "time"
	TypeDatetime  ScalarType = "datetime"
	TypeGeography ScalarType = "geography"
)

func (t ScalarType) typeName() string { return string(t) }

// ArrayType is `mode=REPEATED` wrapped around an element type.
type ArrayType struct {
	Elem Type
}

func (a ArrayType) typeName() string { return "array<" + a.Elem.typeName() + ">" }

// StructType is a `RECORD` column's nested field list.
type StructType struct {
	Fields []Field
}

func (s StructType) typeName() string { return "struct" }

// Field is one column of a table or one field of a STRUCT/RECORD.
type Field struct {
	Name string
	Type Type
}

// Table is a schema: an ordered column list.
type Table struct {
	Name    string // lowercase canonical name
	Columns []Field
}

// FunctionKind distinguishes plain scalar functions from templated
// (polymorphic, `ANY TYPE`-parameterized) ones, per spec §4.3's
// `CREATE FUNCTION` rule.
type FunctionKind int

const (
	FunctionPlain FunctionKind = iota
	FunctionTemplated
)

// Function is a registered scalar or table-valued function signature.
type Function struct {
	Name       string
	Kind       FunctionKind
	ParamNames []string
	ReturnType Type // left nil by internal/checker for every function it registers
	BodyText   string
}

// Procedure is a registered procedure: its signature plus everything
// needed to re-enter its body on CALL (spec §3 "procedures").
//
// The original C++ source caches a raw AST pointer into parser arenas
// that may be freed; spec §9 calls that unsafe and offers two fixes —
// owned SQL text plus a re-parse on CALL, or retaining the whole run's
// parse arena keyed by procedure name. This module takes the second
// branch (a CLI process lives only as long as one alphacheck
// invocation, so the memory cost of keeping every parsed statement
// around is bounded and one-shot), so Procedure stores the already-
// parsed body alongside the original text for diagnostics.
type Procedure struct {
	Name     string
	BodyText string
	Body     *sqlast.BeginEnd
}
