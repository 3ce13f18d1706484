package dot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/graph"
)

func TestWriteReadRoundTrip(t *testing.T) {
	g := graph.NewDAG()
	a := g.AddVertex("a.sql", graph.VertexQuery)
	b := g.AddVertex("b.sql", graph.VertexQuery)
	tbl := g.AddVertex("table:t1", graph.VertexTable)
	g.AddEdge(a, tbl)
	g.AddEdge(tbl, b)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	got, err := Read(&buf)
	require.NoError(t, err)

	require.Len(t, got.Vertices, 3)
	aID, ok := got.Lookup("a.sql")
	require.True(t, ok)
	bID, ok := got.Lookup("b.sql")
	require.True(t, ok)
	tblID, ok := got.Lookup("table:t1")
	require.True(t, ok)

	require.Contains(t, got.Neighbors(aID), tblID)
	require.Contains(t, got.Neighbors(tblID), bID)

	for _, v := range got.Vertices {
		if v.Label == "table:t1" {
			require.Equal(t, graph.VertexTable, v.Kind)
		}
	}
}

func TestWriteQuotesLabelsWithSpecialChars(t *testing.T) {
	g := graph.NewDAG()
	g.AddVertex(`weird "name".sql`, graph.VertexQuery)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	require.Contains(t, buf.String(), `\"name\"`)
}

func TestReadIgnoresUnknownType(t *testing.T) {
	src := `digraph alphasql {
  0 [label="a.sql", type="query"];
  1 [label="b.sql", type="mystery"];
  0 -> 1;
}`
	g, err := Read(bytes.NewBufferString(src))
	require.NoError(t, err)
	id, ok := g.Lookup("b.sql")
	require.True(t, ok)
	require.Equal(t, graph.VertexQuery, g.Vertices[id].Kind)
}
