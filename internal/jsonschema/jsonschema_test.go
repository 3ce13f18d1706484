package jsonschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/catalog"
)

func TestDecodeScalarTypes(t *testing.T) {
	doc := `{
		"orders": [
			{"name": "id", "type": "INT64"},
			{"name": "amount", "type": "NUMERIC"},
			{"name": "placed_at", "type": "TIMESTAMP"}
		]
	}`
	tables, err := Decode("orders.json", strings.NewReader(doc))
	require.NoError(t, err)
	tbl, ok := tables["orders"]
	require.True(t, ok)
	require.Len(t, tbl.Columns, 3)
	require.Equal(t, catalog.TypeInt64, tbl.Columns[0].Type)
	require.Equal(t, catalog.TypeNumeric, tbl.Columns[1].Type)
	require.Equal(t, catalog.TypeTimestamp, tbl.Columns[2].Type)
}

func TestDecodeRepeatedModeProducesArrayType(t *testing.T) {
	doc := `{"tags": [{"name": "labels", "type": "STRING", "mode": "REPEATED"}]}`
	tables, err := Decode("tags.json", strings.NewReader(doc))
	require.NoError(t, err)
	col := tables["tags"].Columns[0]
	arr, ok := col.Type.(catalog.ArrayType)
	require.True(t, ok)
	require.Equal(t, catalog.TypeString, arr.Elem)
}

func TestDecodeRecordProducesStructType(t *testing.T) {
	doc := `{
		"events": [
			{"name": "payload", "type": "RECORD", "fields": [
				{"name": "key", "type": "STRING"},
				{"name": "value", "type": "FLOAT64"}
			]}
		]
	}`
	tables, err := Decode("events.json", strings.NewReader(doc))
	require.NoError(t, err)
	col := tables["events"].Columns[0]
	st, ok := col.Type.(catalog.StructType)
	require.True(t, ok)
	require.Len(t, st.Fields, 2)
	require.Equal(t, "key", st.Fields[0].Name)
	require.Equal(t, catalog.TypeFloat64, st.Fields[1].Type)
}

func TestDecodeUnknownTypeErrors(t *testing.T) {
	doc := `{"t": [{"name": "x", "type": "NOT_A_TYPE"}]}`
	_, err := Decode("t.json", strings.NewReader(doc))
	require.Error(t, err)
}

func TestDecodeTableNameLowercased(t *testing.T) {
	doc := `{"MyTable": [{"name": "x", "type": "BOOL"}]}`
	tables, err := Decode("t.json", strings.NewReader(doc))
	require.NoError(t, err)
	_, ok := tables["mytable"]
	require.True(t, ok)
}

func TestDecodeMalformedJSONErrors(t *testing.T) {
	_, err := Decode("bad.json", strings.NewReader(`not json`))
	require.Error(t, err)
}
