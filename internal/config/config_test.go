package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlphaDAGParsesFlagsAndPaths(t *testing.T) {
	cfg, err := AlphaDAG([]string{"--with_tables", "--side_effect_first", "dir1", "dir2"})
	require.NoError(t, err)
	require.True(t, cfg.WithTables)
	require.True(t, cfg.SideEffectFirst)
	require.False(t, cfg.WithFunctions)
	require.Equal(t, []string{"dir1", "dir2"}, cfg.Paths)
}

func TestAlphaCheckParsesDAGPathPositionally(t *testing.T) {
	cfg, err := AlphaCheck([]string{"--json_schema_path=schema.json", "dag.dot"})
	require.NoError(t, err)
	require.Equal(t, "schema.json", cfg.JSONSchemaPath)
	require.Equal(t, "dag.dot", cfg.DAGPath)
}

func TestAlphaBeamDefaultsEmpty(t *testing.T) {
	cfg, err := AlphaBeam(nil)
	require.NoError(t, err)
	require.Empty(t, cfg.DAGPath)
	require.Empty(t, cfg.BeamOutputPath)
}

func TestAlphaDAGRejectsUnknownFlag(t *testing.T) {
	_, err := AlphaDAG([]string{"--not_a_real_flag"})
	require.Error(t, err)
}
