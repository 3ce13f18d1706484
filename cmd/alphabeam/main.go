// Command alphabeam reads a checked DAG's topological order and an
// optional JSON schema, and writes a scaffolded Go source file containing
// one stub function per query vertex (spec §4.5; SPEC_FULL §6).
package main

import (
	"fmt"
	"os"

	"github.com/Matts966/alphasql-go/internal/beam"
	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/config"
	"github.com/Matts966/alphasql-go/internal/dot"
	"github.com/Matts966/alphasql-go/internal/graph"
	"github.com/Matts966/alphasql-go/internal/jsonschema"
)

func main() {
	cfg, err := config.AlphaBeam(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	if cfg.DAGPath == "" {
		fmt.Fprintln(os.Stderr, "usage: alphabeam [--json_schema_path=<file>] [--output_path=<file>] dag.dot")
		os.Exit(1)
	}

	f, err := os.Open(cfg.DAGPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	dag, err := dot.Read(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	if cyc := graph.DetectCycle(dag); cyc != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", cyc)
		os.Exit(1)
	}

	var schema map[string]*catalog.Table
	if cfg.JSONSchemaPath != "" {
		schema, err = jsonschema.Load(cfg.JSONSchemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
	}

	execOrder := graph.QueryOrder(dag, graph.TopologicalOrder(dag))

	out := os.Stdout
	if cfg.BeamOutputPath != "" {
		if _, err := os.Stat(cfg.BeamOutputPath); err == nil {
			fmt.Fprintf(os.Stderr, "ERROR: pipeline path already exists: %s\n", cfg.BeamOutputPath)
			os.Exit(1)
		}
		created, err := os.Create(cfg.BeamOutputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		defer created.Close()
		out = created
	}

	if err := beam.Generate(out, dag, execOrder, schema); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Successfully finished alphabeam!")
}
