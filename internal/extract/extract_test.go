package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/sqlparse"
)

func extractSrc(t *testing.T, file, src string) IdentifierInfo {
	t.Helper()
	stmts, err := sqlparse.ParseScript(file, src)
	require.NoError(t, err)
	info, warnings := Extract(file, stmts)
	require.Empty(t, warnings)
	return info
}

func TestExtractCreateAndReference(t *testing.T) {
	info := extractSrc(t, "a.sql", `CREATE TABLE B AS SELECT * FROM A;`)
	require.Contains(t, info.Tables.Created, "b")
	require.Contains(t, info.Tables.Referenced, "a")
	require.NotContains(t, info.Tables.Referenced, "b")
}

func TestExtractTemporaryIsolation(t *testing.T) {
	stmts, err := sqlparse.ParseScript("t.sql", `
		CREATE TEMP TABLE tmp AS SELECT * FROM src;
		CREATE TABLE out AS SELECT * FROM tmp;
	`)
	require.NoError(t, err)
	info, warnings := Extract("t.sql", stmts)
	require.Empty(t, warnings)
	require.NotContains(t, info.Tables.Created, "tmp")
	require.NotContains(t, info.Tables.Referenced, "tmp")
	require.Contains(t, info.Tables.Created, "out")
	require.Contains(t, info.Tables.Referenced, "src")
}

func TestExtractInsertWithoutCreateWarns(t *testing.T) {
	stmts, err := sqlparse.ParseScript("w.sql", `INSERT INTO existing VALUES (1);`)
	require.NoError(t, err)
	info, warnings := Extract("w.sql", stmts)
	require.Len(t, warnings, 1)
	require.Contains(t, info.Tables.Inserted, "existing")
}

func TestExtractFunctionDefinedAndCalled(t *testing.T) {
	stmts, err := sqlparse.ParseScript("f.sql", `
		CREATE FUNCTION add_one(x INT64) RETURNS INT64 AS (x + 1);
		CREATE TABLE out AS SELECT add_one(y) AS z FROM src;
	`)
	require.NoError(t, err)
	info, warnings := Extract("f.sql", stmts)
	require.Empty(t, warnings)
	require.Contains(t, info.Functions.Defined, "add_one")
	require.Contains(t, info.Functions.Called, "add_one")
}

func TestExtractProcedureArtifactsSurfaceOnCall(t *testing.T) {
	stmts, err := sqlparse.ParseScript("p.sql", `
		CREATE PROCEDURE p()
		BEGIN
			CREATE TABLE art AS SELECT 1 AS x;
		END;
		CALL p();
	`)
	require.NoError(t, err)
	info, warnings := Extract("p.sql", stmts)
	require.Empty(t, warnings)
	require.Contains(t, info.Functions.Defined, "p")
	require.Contains(t, info.Functions.Called, "p")
	require.Contains(t, info.Tables.Created, "art")
}

func TestExtractDropTableRecordedAsReferenceAndDropped(t *testing.T) {
	stmts, err := sqlparse.ParseScript("d.sql", `DROP TABLE IF EXISTS old;`)
	require.NoError(t, err)
	info, warnings := Extract("d.sql", stmts)
	require.Empty(t, warnings)
	require.Contains(t, info.Tables.Dropped, "old")
	require.Contains(t, info.Tables.Referenced, "old")
}

func TestSortedKeysOrder(t *testing.T) {
	info := extractSrc(t, "s.sql", `CREATE TABLE Z AS SELECT * FROM A; CREATE TABLE M AS SELECT * FROM B;`)
	keys := SortedKeys(info.Tables.Created)
	require.Equal(t, []string{"m", "z"}, keys)
}
