package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/sqlparse"
)

func TestAnalyzeSelectPropagatesColumnType(t *testing.T) {
	cat := catalog.New()
	cat.PutTable(&catalog.Table{Name: "t", Columns: []catalog.Field{{Name: "a", Type: catalog.TypeInt64}}})

	stmts, err := sqlparse.ParseScript("q.sql", `SELECT a+1 AS x FROM t;`)
	require.NoError(t, err)

	resolved, err := Analyze(stmts[0], cat, "q.sql")
	require.NoError(t, err)
	require.Len(t, resolved.Columns, 1)
	require.Equal(t, "x", resolved.Columns[0].Name)
	require.Equal(t, catalog.TypeInt64, resolved.Columns[0].Type)
}

func TestAnalyzeUnresolvableColumnIsUnsupported(t *testing.T) {
	cat := catalog.New()
	cat.PutTable(&catalog.Table{Name: "t", Columns: []catalog.Field{{Name: "a", Type: catalog.TypeInt64}}})

	stmts, err := sqlparse.ParseScript("q.sql", `SELECT missing_col AS x FROM t;`)
	require.NoError(t, err)

	_, err = Analyze(stmts[0], cat, "q.sql")
	require.Error(t, err)
	var unsupported *errs.UnsupportedStatement
	require.ErrorAs(t, err, &unsupported)
}

func TestAnalyzeCreateTableAsSelect(t *testing.T) {
	cat := catalog.New()
	cat.PutTable(&catalog.Table{Name: "src", Columns: []catalog.Field{{Name: "y", Type: catalog.TypeString}}})

	stmts, err := sqlparse.ParseScript("c.sql", `CREATE TABLE out AS SELECT y FROM src;`)
	require.NoError(t, err)

	resolved, err := Analyze(stmts[0], cat, "c.sql")
	require.NoError(t, err)
	require.Equal(t, "CreateTable", resolved.Kind)
	require.Len(t, resolved.Columns, 1)
	require.Equal(t, catalog.TypeString, resolved.Columns[0].Type)
}

func TestAnalyzeCreateTableColumnList(t *testing.T) {
	stmts, err := sqlparse.ParseScript("c.sql", `CREATE TABLE t (id INT64, name STRING);`)
	require.NoError(t, err)
	resolved, err := Analyze(stmts[0], catalog.New(), "c.sql")
	require.NoError(t, err)
	require.Len(t, resolved.Columns, 2)
	require.Equal(t, catalog.TypeInt64, resolved.Columns[0].Type)
	require.Equal(t, catalog.TypeString, resolved.Columns[1].Type)
}

func TestAnalyzeBinaryExprFloatPromotion(t *testing.T) {
	cat := catalog.New()
	cat.PutTable(&catalog.Table{Name: "t", Columns: []catalog.Field{
		{Name: "i", Type: catalog.TypeInt64},
		{Name: "f", Type: catalog.TypeFloat64},
	}})
	stmts, err := sqlparse.ParseScript("q.sql", `SELECT i + f AS total FROM t;`)
	require.NoError(t, err)
	resolved, err := Analyze(stmts[0], cat, "q.sql")
	require.NoError(t, err)
	require.Equal(t, catalog.TypeFloat64, resolved.Columns[0].Type)
}

func TestParseTypeNameArray(t *testing.T) {
	typ, err := ParseTypeName("ARRAY<INT64>")
	require.NoError(t, err)
	arr, ok := typ.(catalog.ArrayType)
	require.True(t, ok)
	require.Equal(t, catalog.TypeInt64, arr.Elem)
}

func TestParseTypeNameUnsupported(t *testing.T) {
	_, err := ParseTypeName("NOT_A_TYPE")
	require.Error(t, err)
}
