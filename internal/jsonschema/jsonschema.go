// Package jsonschema seeds a catalog.Catalog from a JSON schema document
// (spec §4.4), translating BigQuery type spellings to the logical types
// internal/catalog defines. Grounded directly on
// _examples/original_source/alphasql/json_schema_reader.h's
// FromBigQueryTypeToZetaSQLTypeMap and AddColumnToTable.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/errs"
)

// field is the wire shape of one column entry in the schema document.
type field struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Mode   string   `json:"mode"`
	Fields []field  `json:"fields"`
}

// Load reads path — a JSON document of shape
// `{ table_name: [ {name, type, mode, fields?}, ... ] }` — and returns one
// catalog.Table per key.
func Load(path string) (map[string]*catalog.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer f.Close()
	return Decode(path, f)
}

// Decode is Load's body, split out so tests can feed an in-memory reader.
func Decode(path string, r io.Reader) (map[string]*catalog.Table, error) {
	var raw map[string][]field
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &errs.SchemaError{File: path, Message: "malformed JSON schema document", Err: err}
	}
	out := make(map[string]*catalog.Table, len(raw))
	for tableName, fields := range raw {
		cols := make([]catalog.Field, 0, len(fields))
		for _, f := range fields {
			col, err := toField(path, f)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
		lower := strings.ToLower(tableName)
		out[lower] = &catalog.Table{Name: lower, Columns: cols}
	}
	return out, nil
}

func toField(path string, f field) (catalog.Field, error) {
	base, err := bigQueryTypeToLogical(path, f.Type, f.Fields)
	if err != nil {
		return catalog.Field{}, err
	}
	typ := base
	if strings.EqualFold(f.Mode, "REPEATED") {
		typ = catalog.ArrayType{Elem: base}
	}
	return catalog.Field{Name: f.Name, Type: typ}, nil
}

// bigQueryTypeToLogical implements json_schema_reader.h's
// FromBigQueryTypeToZetaSQLTypeMap table.
func bigQueryTypeToLogical(path, bqType string, nested []field) (catalog.Type, error) {
	switch strings.ToUpper(bqType) {
	case "STRING":
		return catalog.TypeString, nil
	case "INT64", "INTEGER":
		return catalog.TypeInt64, nil
	case "BOOL", "BOOLEAN":
		return catalog.TypeBool, nil
	case "FLOAT64", "FLOAT":
		return catalog.TypeFloat64, nil
	case "NUMERIC":
		return catalog.TypeNumeric, nil
	case "BYTES":
		return catalog.TypeBytes, nil
	case "TIMESTAMP":
		return catalog.TypeTimestamp, nil
	case "DATE":
		return catalog.TypeDate, nil
	case "TIME":
		return catalog.TypeTime, nil
	case "DATETIME":
		return catalog.TypeDatetime, nil
	case "GEOGRAPHY":
		return catalog.TypeGeography, nil
	case "RECORD", "STRUCT":
		fields := make([]catalog.Field, 0, len(nested))
		for _, nf := range nested {
			cf, err := toField(path, nf)
			if err != nil {
				return nil, err
			}
			fields = append(fields, cf)
		}
		return catalog.StructType{Fields: fields}, nil
	default:
		return nil, &errs.SchemaError{File: path, Message: fmt.Sprintf("unsupported BigQuery type %q", bqType)}
	}
}
