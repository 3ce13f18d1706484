// Command alphadag discovers `.sql`/`.bq` scripts under the given paths,
// extracts identifiers from each, builds the file-level dependency DAG,
// detects cycles, and emits the DAG in DOT form plus the external
// required tables list (spec §4.5, §6). Flag names, usage, and stdout
// line prefixes follow
// _examples/original_source/alphasql/alphadag.cc's main(); the flag/file-
// discovery idiom follows the teacher's cmd/codeparser/main.go.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Matts966/alphasql-go/internal/config"
	"github.com/Matts966/alphasql-go/internal/dot"
	"github.com/Matts966/alphasql-go/internal/extract"
	"github.com/Matts966/alphasql-go/internal/graph"
	"github.com/Matts966/alphasql-go/internal/sqlparse"
)

func main() {
	cfg, err := config.AlphaDAG(os.Args[1:])
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	if len(cfg.Paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: alphadag [flags] path [path ...]")
		os.Exit(1)
	}

	// 1) Discover input files.
	files, err := discoverFiles(cfg.Paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	// 2) Extract identifiers from each file.
	var fileInfos []graph.FileInfo
	for _, f := range files {
		log.Printf("Reading %s", f)
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		stmts, err := sqlparse.ParseScript(f, string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		info, warnings := extract.Extract(f, stmts)
		for _, w := range warnings {
			if cfg.WarningAsError {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", w)
				os.Exit(1)
			}
			log.Printf("WARNING: %s", w)
		}
		fileInfos = append(fileInfos, graph.FileInfo{Path: f, Info: info})
	}

	// 3) Build the dependency graph.
	result, warnings, err := graph.Build(fileInfos, graph.Options{
		WithTables:      cfg.WithTables,
		WithFunctions:   cfg.WithFunctions,
		SideEffectFirst: cfg.SideEffectFirst,
		WarningAsError:  cfg.WarningAsError,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		msg := "WARNING: " + w.Error()
		if cfg.WarningAsError {
			fmt.Fprintln(os.Stderr, "Warning!!! "+w.Error())
			os.Exit(1)
		}
		log.Print(msg)
	}

	// 4) Emit the DAG.
	dagOut := os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()
		dagOut = f
	}
	if err := dot.Write(dagOut, result.DAG); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	// 5) Emit external required tables.
	extOut := os.Stdout
	if cfg.ExternalRequiredTablesOutputPath != "" {
		f, err := os.Create(cfg.ExternalRequiredTablesOutputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()
		extOut = f
	} else {
		fmt.Fprintln(extOut, "EXTERNAL REQUIRED TABLES:")
	}
	for _, t := range result.ExternalRequiredTables {
		fmt.Fprintln(extOut, t)
	}
}
