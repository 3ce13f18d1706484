package beam

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/graph"
)

func TestGenerateEmitsOneFunctionPerQueryInOrder(t *testing.T) {
	dag := graph.NewDAG()
	a := dag.AddVertex("a.sql", graph.VertexQuery)
	b := dag.AddVertex("b.sql", graph.VertexQuery)
	dag.AddEdge(a, b)

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, dag, []string{"a.sql", "b.sql"}, nil))

	out := buf.String()
	require.Contains(t, out, "package pipeline")
	require.Contains(t, out, "func RunA() error {")
	require.Contains(t, out, "func RunB() error {")
	require.Contains(t, out, "// Depends on: a.sql")
	require.True(t, indexOf(out, "func RunA") < indexOf(out, "func RunB"))
}

func TestGenerateAnnotatesSchemaHint(t *testing.T) {
	dag := graph.NewDAG()
	dag.AddVertex("orders.sql", graph.VertexQuery)
	schema := map[string]*catalog.Table{
		"orders": {Name: "orders", Columns: []catalog.Field{{Name: "id", Type: catalog.TypeInt64}}},
	}
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, dag, []string{"orders.sql"}, schema))
	require.Contains(t, buf.String(), "schema hint: orders has 1 column(s)")
}

func TestFuncNameSanitizesNonIdentChars(t *testing.T) {
	require.Equal(t, "RunFoo_bar", funcName("dir/foo-bar.sql"))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
