// Command alphacheck consumes a DAG (DOT) produced by alphadag and runs
// the CatalogDriver over it in topological order, optionally seeded from
// a JSON schema (spec §4.5, §6). Flag names and stdout conventions follow
// _examples/original_source/alphasql/alphacheck.cc's main().
package main

import (
	"fmt"
	"os"

	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/checker"
	"github.com/Matts966/alphasql-go/internal/config"
	"github.com/Matts966/alphasql-go/internal/dot"
	"github.com/Matts966/alphasql-go/internal/jsonschema"
)

func main() {
	cfg, err := config.AlphaCheck(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	if cfg.DAGPath == "" {
		fmt.Fprintln(os.Stderr, "usage: alphacheck [--json_schema_path=<file>] dag.dot")
		os.Exit(1)
	}

	f, err := os.Open(cfg.DAGPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer f.Close()

	dag, err := dot.Read(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	cat := catalog.New()
	if cfg.JSONSchemaPath != "" {
		tables, err := jsonschema.Load(cfg.JSONSchemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		for _, t := range tables {
			cat.PutTable(t)
		}
	}

	if err := checker.Run(dag, cat, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		if diag, ok := err.(*checker.DiagnosticError); ok {
			fmt.Fprintln(os.Stderr, "catalog:")
			fmt.Fprintln(os.Stderr, diag.Dump)
		}
		os.Exit(1)
	}

	fmt.Println("SUCCESS: analysis finished!")
}
