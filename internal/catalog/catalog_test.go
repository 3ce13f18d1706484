package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutAndDropTable(t *testing.T) {
	c := New()
	c.PutTable(&Table{Name: "t1", Columns: []Field{{Name: "x", Type: TypeInt64}}})

	tbl, ok := c.Table("t1")
	require.True(t, ok)
	require.Equal(t, "t1", tbl.Name)

	require.NoError(t, c.DropTable("t1", false))
	_, ok = c.Table("t1")
	require.False(t, ok)
}

func TestDropTableMissingWithoutIfExistsErrors(t *testing.T) {
	c := New()
	err := c.DropTable("missing", false)
	require.Error(t, err)
}

func TestDropTableMissingWithIfExistsIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.DropTable("missing", true))
}

func TestPutTableOverwritesExisting(t *testing.T) {
	c := New()
	c.PutTable(&Table{Name: "t1", Columns: []Field{{Name: "a", Type: TypeString}}})
	c.PutTable(&Table{Name: "t1", Columns: []Field{{Name: "b", Type: TypeBool}}})
	tbl, _ := c.Table("t1")
	require.Len(t, tbl.Columns, 1)
	require.Equal(t, "b", tbl.Columns[0].Name)
}

func TestProcedureRoundTrip(t *testing.T) {
	c := New()
	c.PutProcedure(&Procedure{Name: "p", BodyText: "BEGIN END"})
	proc, ok := c.Procedure("p")
	require.True(t, ok)
	require.Equal(t, "BEGIN END", proc.BodyText)
}

func TestTableNamesSorted(t *testing.T) {
	c := New()
	c.PutTable(&Table{Name: "zeta"})
	c.PutTable(&Table{Name: "alpha"})
	c.PutTable(&Table{Name: "mid"})
	require.Equal(t, []string{"alpha", "mid", "zeta"}, c.TableNames())
}

func TestDumpLogfmtIncludesRunIDAndTables(t *testing.T) {
	c := New()
	c.PutTable(&Table{Name: "t1", Columns: []Field{{Name: "x", Type: TypeInt64}}})
	var buf bytes.Buffer
	require.NoError(t, DumpLogfmt(&buf, "run-123", "a.sql", c))
	out := buf.String()
	require.Contains(t, out, "run_id=run-123")
	require.Contains(t, out, "file=a.sql")
	require.Contains(t, out, "table=t1")
	require.Contains(t, out, "x:int64")
}
