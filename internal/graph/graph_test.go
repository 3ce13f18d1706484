package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Matts966/alphasql-go/internal/extract"
	"github.com/Matts966/alphasql-go/internal/names"
)

func infoWith(created, referenced []string) extract.IdentifierInfo {
	info := extract.IdentifierInfo{
		Tables: extract.TableSet{
			Created:    map[string]names.Q{},
			Referenced: map[string]names.Q{},
			Inserted:   map[string]names.Q{},
			Updated:    map[string]names.Q{},
			Dropped:    map[string]names.Q{},
		},
		Functions: extract.FunctionSet{
			Defined: map[string]names.Q{},
			Called:  map[string]names.Q{},
			Dropped: map[string]names.Q{},
		},
	}
	for _, c := range created {
		q := names.Parse(c)
		info.Tables.Created[q.Key()] = q
	}
	for _, r := range referenced {
		q := names.Parse(r)
		info.Tables.Referenced[q.Key()] = q
	}
	return info
}

// TestBuildLinearPipeline mirrors scenario S1: a.sql creates T1, b.sql
// reads T1 and creates T2; the DAG must order a.sql before b.sql.
func TestBuildLinearPipeline(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, nil)},
		{Path: "b.sql", Info: infoWith([]string{"t2"}, []string{"t1"})},
	}
	result, warnings, err := Build(files, Options{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Empty(t, result.ExternalRequiredTables)

	aID, ok := result.DAG.Lookup("a.sql")
	require.True(t, ok)
	bID, ok := result.DAG.Lookup("b.sql")
	require.True(t, ok)
	require.Contains(t, result.DAG.Neighbors(aID), bID)

	order := QueryOrder(result.DAG, result.TopologicalOrder)
	require.Equal(t, []string{"a.sql", "b.sql"}, order)
}

// TestBuildCycleDetected mirrors scenario S2: a.sql reads T2, creates T1;
// b.sql reads T1, creates T2 - a cycle.
func TestBuildCycleDetected(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, []string{"t2"})},
		{Path: "b.sql", Info: infoWith([]string{"t2"}, []string{"t1"})},
	}
	_, warnings, err := Build(files, Options{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
}

// TestBuildCycleAsError mirrors WarningAsError escalating a cycle to a
// hard Build error.
func TestBuildCycleAsError(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, []string{"t2"})},
		{Path: "b.sql", Info: infoWith([]string{"t2"}, []string{"t1"})},
	}
	_, _, err := Build(files, Options{WarningAsError: true})
	require.Error(t, err)
}

// TestBuildDuplicateDefinition mirrors scenario S3.
func TestBuildDuplicateDefinition(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, nil)},
		{Path: "b.sql", Info: infoWith([]string{"t1"}, nil)},
	}
	_, _, err := Build(files, Options{})
	require.Error(t, err)
}

// TestBuildExternalRequiredTable mirrors scenario S4.
func TestBuildExternalRequiredTable(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"out"}, []string{"ext.raw"})},
	}
	result, _, err := Build(files, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"ext.raw"}, result.ExternalRequiredTables)
}

// infoWithWrites builds an IdentifierInfo where inserted/updated name the
// table written by INSERT/UPDATE statements, as opposed to created or
// merely referenced.
func infoWithWrites(created, inserted, updated []string) extract.IdentifierInfo {
	info := infoWith(created, nil)
	for _, i := range inserted {
		q := names.Parse(i)
		info.Tables.Inserted[q.Key()] = q
	}
	for _, u := range updated {
		q := names.Parse(u)
		info.Tables.Updated[q.Key()] = q
	}
	return info
}

// TestBuildDefaultModeIgnoresInsertsAndUpdates locks in spec §4.2's default
// row: creator -> r for every r in q.others only. A file that only inserts
// into or updates a table must not be ordered after that table's creator
// under default Options, unlike with_tables/side_effect_first.
func TestBuildDefaultModeIgnoresInsertsAndUpdates(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, nil)},
		{Path: "insert_only.sql", Info: infoWithWrites(nil, []string{"t1"}, nil)},
		{Path: "update_only.sql", Info: infoWithWrites(nil, nil, []string{"t1"})},
	}
	result, _, err := Build(files, Options{})
	require.NoError(t, err)

	aID, ok := result.DAG.Lookup("a.sql")
	require.True(t, ok)
	insID, ok := result.DAG.Lookup("insert_only.sql")
	require.True(t, ok)
	updID, ok := result.DAG.Lookup("update_only.sql")
	require.True(t, ok)

	require.NotContains(t, result.DAG.Neighbors(aID), insID)
	require.NotContains(t, result.DAG.Neighbors(aID), updID)
}

func TestBuildWithTablesAddsTableVertices(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, nil)},
		{Path: "b.sql", Info: infoWith(nil, []string{"t1"})},
	}
	result, _, err := Build(files, Options{WithTables: true})
	require.NoError(t, err)
	_, ok := result.DAG.Lookup("table:t1")
	require.True(t, ok)
}

func TestDeterministicOrderingAcrossRuns(t *testing.T) {
	files := []FileInfo{
		{Path: "a.sql", Info: infoWith([]string{"t1"}, nil)},
		{Path: "b.sql", Info: infoWith([]string{"t2"}, []string{"t1"})},
		{Path: "c.sql", Info: infoWith([]string{"t3"}, []string{"t1"})},
	}
	r1, _, err := Build(files, Options{})
	require.NoError(t, err)
	r2, _, err := Build(files, Options{})
	require.NoError(t, err)
	order1 := QueryOrder(r1.DAG, r1.TopologicalOrder)
	order2 := QueryOrder(r2.DAG, r2.TopologicalOrder)
	if diff := cmp.Diff(order1, order2); diff != "" {
		t.Fatalf("topological order not deterministic across identical Build calls (-first +second):\n%s", diff)
	}
}
