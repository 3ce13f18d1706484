// Package analyzer is the narrow semantic analyzer spec §1 treats as an
// external black box: resolving one statement against a *catalog.Catalog
// and returning a Resolved value (kind, column list) or
// errs.UnsupportedStatement when it cannot type an expression — exactly
// the signal internal/checker downgrades to a warning (spec §4.3, §7).
//
// It deliberately covers only literal and catalog-column type inference
// plus simple binary arithmetic/comparison typing; anything beyond that
// (user-defined scalar functions, window functions, complex subquery
// correlation) is out of scope, matching spec §1's own black-box framing
// — a complete BigQuery type-checker is the one piece of
// alphasql/alphasql.cc's dependency surface (full zetasql::Analyzer) this
// module does not attempt to reproduce.
package analyzer

import (
	"strings"

	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/sqlast"
)

// Resolved is the result of analyzing one statement.
type Resolved struct {
	Kind    string
	Columns []catalog.Field // for CREATE TABLE [AS SELECT], CREATE TABLE FUNCTION, bare SELECT
}

// scope maps a column's lowercase name to its type, built from a
// statement's FROM clause.
type scope map[string]catalog.Type

// Analyze resolves stmt against cat. file is attached to any returned
// error for spec §7's "annotated with the source file location."
func Analyze(stmt sqlast.Statement, cat *catalog.Catalog, file string) (*Resolved, error) {
	switch v := stmt.(type) {
	case *sqlast.CreateTable:
		return analyzeCreateTable(v, cat, file)
	case *sqlast.CreateFunction:
		return analyzeCreateFunction(v, cat, file)
	case *sqlast.CreateTableFunction:
		cols, err := resolveSelect(v.Query, cat, file)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: "CreateTableFunction", Columns: cols}, nil
	case *sqlast.CreateProcedure:
		return &Resolved{Kind: "CreateProcedure"}, nil
	case *sqlast.DropTable:
		return &Resolved{Kind: "DropTable"}, nil
	case *sqlast.DropFunction:
		return &Resolved{Kind: "DropFunction"}, nil
	case *sqlast.Insert:
		return &Resolved{Kind: "Insert"}, nil
	case *sqlast.Update:
		return &Resolved{Kind: "Update"}, nil
	case *sqlast.Delete:
		return &Resolved{Kind: "Delete"}, nil
	case *sqlast.Merge:
		return &Resolved{Kind: "Merge"}, nil
	case *sqlast.Call:
		return &Resolved{Kind: "Call"}, nil
	case *sqlast.Select:
		cols, err := resolveSelect(v, cat, file)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: "Select", Columns: cols}, nil
	default:
		pos := stmt.Pos()
		return nil, &errs.UnsupportedStatement{File: file, Line: pos.Line, Col: pos.Col, Kind: stmt.Kind().String()}
	}
}

func analyzeCreateTable(v *sqlast.CreateTable, cat *catalog.Catalog, file string) (*Resolved, error) {
	if v.AsSelect != nil {
		cols, err := resolveSelect(v.AsSelect, cat, file)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: "CreateTable", Columns: cols}, nil
	}
	cols := make([]catalog.Field, 0, len(v.Columns))
	for _, c := range v.Columns {
		t, err := ParseTypeName(c.Type)
		if err != nil {
			return nil, &errs.UnsupportedStatement{File: file, Line: v.Position.Line, Col: v.Position.Col, Kind: "CreateTable:" + c.Type}
		}
		cols = append(cols, catalog.Field{Name: c.Name, Type: t})
	}
	return &Resolved{Kind: "CreateTable", Columns: cols}, nil
}

func analyzeCreateFunction(v *sqlast.CreateFunction, cat *catalog.Catalog, file string) (*Resolved, error) {
	if v.Templated() || v.Body == nil {
		return &Resolved{Kind: "CreateFunction"}, nil
	}
	sc := scope{}
	for _, p := range v.Params {
		t, err := ParseTypeName(p.Type)
		if err != nil {
			continue
		}
		sc[strings.ToLower(p.Name)] = t
	}
	if _, err := typeOf(v.Body, sc, cat, file); err != nil {
		return nil, err
	}
	return &Resolved{Kind: "CreateFunction"}, nil
}

// resolveSelect builds the FROM scope from catalog tables and types the
// SELECT list against it.
func resolveSelect(sel *sqlast.Select, cat *catalog.Catalog, file string) ([]catalog.Field, error) {
	if sel == nil {
		return nil, nil
	}
	sc := buildScope(sel, cat)
	if sel.Star {
		return starColumns(sel, cat), nil
	}
	cols := make([]catalog.Field, 0, len(sel.Columns))
	for i, c := range sel.Columns {
		t, err := typeOf(c.Expr, sc, cat, file)
		if err != nil {
			return nil, err
		}
		name := c.Alias
		if name == "" {
			name = displayName(c.Expr, i)
		}
		cols = append(cols, catalog.Field{Name: name, Type: t})
	}
	return cols, nil
}

func buildScope(sel *sqlast.Select, cat *catalog.Catalog) scope {
	sc := scope{}
	for _, f := range sel.From {
		mergeTableExprIntoScope(f, cat, sc)
	}
	return sc
}

func mergeTableExprIntoScope(te sqlast.TableExpr, cat *catalog.Catalog, sc scope) {
	switch v := te.(type) {
	case *sqlast.TableRef:
		if t, ok := cat.Table(v.Name.Key()); ok {
			for _, col := range t.Columns {
				sc[strings.ToLower(col.Name)] = col.Type
			}
		}
	case *sqlast.Subquery:
		inner := buildScope(v.Select, cat)
		for k, t := range inner {
			sc[k] = t
		}
	case *sqlast.Join:
		mergeTableExprIntoScope(v.Left, cat, sc)
		mergeTableExprIntoScope(v.Right, cat, sc)
	case *sqlast.TVFCall:
		// table-valued function result schema is not modeled; columns
		// referenced from it will simply miss the scope and fail to type,
		// which downgrades to a warning rather than a hard stop.
	}
}

func starColumns(sel *sqlast.Select, cat *catalog.Catalog) []catalog.Field {
	var cols []catalog.Field
	for _, f := range sel.From {
		if ref, ok := f.(*sqlast.TableRef); ok {
			if t, ok := cat.Table(ref.Name.Key()); ok {
				cols = append(cols, t.Columns...)
			}
		}
	}
	return cols
}

func displayName(e sqlast.Expr, index int) string {
	if cr, ok := e.(*sqlast.ColumnRef); ok && len(cr.Path) > 0 {
		return cr.Path[len(cr.Path)-1]
	}
	return "col_" + itoa(index)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// typeOf infers an expression's logical type, returning
// errs.UnsupportedStatement when it cannot — the signal that downgrades
// to a warning in internal/checker rather than aborting the run.
func typeOf(e sqlast.Expr, sc scope, cat *catalog.Catalog, file string) (catalog.Type, error) {
	switch v := e.(type) {
	case *sqlast.Literal:
		switch v.LitKind {
		case sqlast.LitInt:
			return catalog.TypeInt64, nil
		case sqlast.LitFloat:
			return catalog.TypeFloat64, nil
		case sqlast.LitString:
			return catalog.TypeString, nil
		case sqlast.LitBool:
			return catalog.TypeBool, nil
		default:
			return catalog.TypeString, nil // NULL: untyped, treated as assignable
		}
	case *sqlast.ColumnRef:
		key := strings.ToLower(v.Path[len(v.Path)-1])
		if t, ok := sc[key]; ok {
			return t, nil
		}
		pos := v.Pos()
		return nil, &errs.UnsupportedStatement{File: file, Line: pos.Line, Col: pos.Col, Kind: "ColumnRef:" + v.Path.String()}
	case *sqlast.BinaryExpr:
		left, err := typeOf(v.Left, sc, cat, file)
		if err != nil {
			return nil, err
		}
		right, err := typeOf(v.Right, sc, cat, file)
		if err != nil {
			return nil, err
		}
		return binaryResultType(v.Op, left, right), nil
	case *sqlast.UnaryExpr:
		return typeOf(v.X, sc, cat, file)
	case *sqlast.Star:
		return catalog.TypeString, nil
	case *sqlast.Subquery:
		cols, err := resolveSelect(v.Select, cat, file)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			return cols[0].Type, nil
		}
		return catalog.TypeString, nil
	default:
		pos := e.Pos()
		return nil, &errs.UnsupportedStatement{File: file, Line: pos.Line, Col: pos.Col, Kind: e.Kind().String()}
	}
}

func isNumeric(t catalog.Type) bool {
	s, ok := t.(catalog.ScalarType)
	return ok && (s == catalog.TypeInt64 || s == catalog.TypeFloat64 || s == catalog.TypeNumeric)
}

func binaryResultType(op string, left, right catalog.Type) catalog.Type {
	switch op {
	case "AND", "OR", "=", "<", ">", "<=", ">=", "<>", "!=":
		return catalog.TypeBool
	case "+", "-", "*", "/":
		if left == catalog.TypeFloat64 || right == catalog.TypeFloat64 {
			return catalog.TypeFloat64
		}
		if isNumeric(left) {
			return left
		}
		return right
	default:
		return left
	}
}

// ParseTypeName maps a BigQuery scalar type spelling (as produced by
// sqlparse's parseTypeName) to a catalog.Type. It covers the same scalar
// spellings as internal/jsonschema's bigQueryTypeToLogical and also
// accepts `ARRAY<...>`; RECORD/STRUCT types are not constructible from a bare type name
// in column-definition syntax (they require the nested field list
// internal/jsonschema handles), so they return an error here.
func ParseTypeName(spelling string) (catalog.Type, error) {
	s := strings.ToUpper(strings.TrimSpace(spelling))
	if strings.HasPrefix(s, "ARRAY<") && strings.HasSuffix(s, ">") {
		inner := s[len("ARRAY<") : len(s)-1]
		elem, err := ParseTypeName(inner)
		if err != nil {
			return nil, err
		}
		return catalog.ArrayType{Elem: elem}, nil
	}
	switch {
	case s == "STRING" || strings.HasPrefix(s, "STRING("):
		return catalog.TypeString, nil
	case s == "INT64" || s == "INTEGER":
		return catalog.TypeInt64, nil
	case s == "BOOL" || s == "BOOLEAN":
		return catalog.TypeBool, nil
	case s == "FLOAT64" || s == "FLOAT":
		return catalog.TypeFloat64, nil
	case s == "NUMERIC" || strings.HasPrefix(s, "NUMERIC("):
		return catalog.TypeNumeric, nil
	case s == "BYTES" || strings.HasPrefix(s, "BYTES("):
		return catalog.TypeBytes, nil
	case s == "TIMESTAMP":
		return catalog.TypeTimestamp, nil
	case s == "DATE":
		return catalog.TypeDate, nil
	case s == "TIME":
		return catalog.TypeTime, nil
	case s == "DATETIME":
		return catalog.TypeDatetime, nil
	case s == "GEOGRAPHY":
		return catalog.TypeGeography, nil
	default:
		return nil, errUnsupportedType{s}
	}
}

type errUnsupportedType struct{ spelling string }

func (e errUnsupportedType) Error() string { return "unsupported type spelling: " + e.spelling }
