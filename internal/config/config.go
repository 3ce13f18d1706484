// Package config builds the immutable RunConfig each CLI constructs once
// in main() and threads by reference into every component, retiring the
// "mutable global flag state" problem spec §9 Design Notes calls out.
// Defaults may be supplied by a `.env` file, loaded the same way the
// teacher's internal/model/graph.go init() does (`_ = godotenv.Load()`).
package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// RunConfig is the complete, immutable configuration for one invocation
// of alphadag, alphacheck, or alphabeam.
type RunConfig struct {
	Paths []string

	// alphadag
	OutputPath                      string
	ExternalRequiredTablesOutputPath string
	WithTables                      bool
	WithFunctions                   bool
	SideEffectFirst                 bool
	WarningAsError                  bool

	// alphacheck / alphabeam (shared)
	DAGPath        string
	JSONSchemaPath string

	// alphabeam
	BeamOutputPath string
}

// envOrDefault returns the .env/OS-environment value for key if present,
// else def — used only to seed flag.StringVar default values before
// flag.Parse runs, so an explicit CLI flag always wins.
func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// AlphaDAG registers and parses the alphadag flag set (spec §6).
func AlphaDAG(args []string) (RunConfig, error) {
	fs := flag.NewFlagSet("alphadag", flag.ContinueOnError)
	cfg := RunConfig{}
	fs.StringVar(&cfg.OutputPath, "output_path", envOrDefault("ALPHASQL_OUTPUT_PATH", ""), "DAG destination (default: stdout)")
	fs.StringVar(&cfg.ExternalRequiredTablesOutputPath, "external_required_tables_output_path",
		envOrDefault("ALPHASQL_EXTERNAL_REQUIRED_TABLES_OUTPUT_PATH", ""), "external-tables list destination (default: stdout)")
	fs.BoolVar(&cfg.WithTables, "with_tables", false, "add table nodes to the DAG")
	fs.BoolVar(&cfg.WithFunctions, "with_functions", false, "add function nodes to the DAG")
	fs.BoolVar(&cfg.SideEffectFirst, "side_effect_first", false, "apply the side-effect-first edge policy")
	fs.BoolVar(&cfg.WarningAsError, "warning_as_error", false, "upgrade cycle/idempotency warnings to fatal errors")
	if err := fs.Parse(args); err != nil {
		return RunConfig{}, err
	}
	cfg.Paths = fs.Args()
	return cfg, nil
}

// AlphaCheck registers and parses the alphacheck flag set (spec §6).
func AlphaCheck(args []string) (RunConfig, error) {
	fs := flag.NewFlagSet("alphacheck", flag.ContinueOnError)
	cfg := RunConfig{}
	fs.StringVar(&cfg.JSONSchemaPath, "json_schema_path", envOrDefault("ALPHASQL_JSON_SCHEMA_PATH", ""), "JSON schema file seeding the catalog")
	if err := fs.Parse(args); err != nil {
		return RunConfig{}, err
	}
	if fs.NArg() > 0 {
		cfg.DAGPath = fs.Arg(0)
	}
	return cfg, nil
}

// AlphaBeam registers and parses the alphabeam flag set (SPEC_FULL §6).
func AlphaBeam(args []string) (RunConfig, error) {
	fs := flag.NewFlagSet("alphabeam", flag.ContinueOnError)
	cfg := RunConfig{}
	fs.StringVar(&cfg.JSONSchemaPath, "json_schema_path", envOrDefault("ALPHASQL_JSON_SCHEMA_PATH", ""), "JSON schema file")
	fs.StringVar(&cfg.BeamOutputPath, "output_path", envOrDefault("ALPHASQL_BEAM_OUTPUT_PATH", ""), "destination Go file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return RunConfig{}, err
	}
	if fs.NArg() > 0 {
		cfg.DAGPath = fs.Arg(0)
	}
	return cfg, nil
}
