// Package checker implements the CatalogDriver (pipeline type-checker):
// a stateful replay of each file's statements, in the DAG's topological
// order, against a mutable catalog. Grounded line-for-line on
// _examples/original_source/alphasql/alphacheck.cc's recursive check()
// function, including its BEGIN…END/exception-handler recursion and its
// CALL/procedure re-entry.
package checker

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Matts966/alphasql-go/internal/analyzer"
	"github.com/Matts966/alphasql-go/internal/catalog"
	"github.com/Matts966/alphasql-go/internal/config"
	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/graph"
	"github.com/Matts966/alphasql-go/internal/sqlast"
	"github.com/Matts966/alphasql-go/internal/sqlparse"
)

// DiagnosticError is what Run returns on a fatal AnalyzerError: the
// originating error plus a sorted, logfmt-encoded catalog snapshot (spec
// §4.3 "Determinism") and a per-run correlation id, so the CLI can print
// both and two failing runs against the same DAG remain distinguishable
// in captured logs.
type DiagnosticError struct {
	RunID string
	File  string
	Dump  string
	Err   error
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: %s (run_id=%s)", e.File, e.Err, e.RunID)
}

func (e *DiagnosticError) Unwrap() error { return e.Err }

// tempState is the script-local "drop at end of file" bookkeeping spec
// §4.3 step 4 requires; reset for every file.
type tempState struct {
	tables    []string
	functions []string
}

// Run walks dag.TopologicalOrder's query vertices, parses each file once,
// and replays its statements against cat. cfg is accepted per the
// CatalogDriver contract's "language options" parameter (spec §4.3); this
// module's analyzer takes no options yet, so cfg only reaches Run for
// forward compatibility with a future language-options surface. It
// returns the first
// AnalyzerError (wrapped in DiagnosticError) or nil on success.
func Run(dag *graph.DAG, cat *catalog.Catalog, cfg config.RunConfig) error {
	if cyc := graph.DetectCycle(dag); cyc != nil {
		return cyc
	}
	runID := uuid.New().String()
	order := graph.QueryOrder(dag, graph.TopologicalOrder(dag))
	for _, file := range order {
		log.Printf("Analyzing %s", file)
		src, err := os.ReadFile(file)
		if err != nil {
			return &errs.IOError{Path: file, Err: err}
		}
		stmts, err := sqlparse.ParseScript(file, string(src))
		if err != nil {
			return err
		}
		temps := &tempState{}
		for _, stmt := range stmts {
			if err := checkStatement(stmt, file, cat, temps, runID); err != nil {
				return err
			}
		}
		cleanupTemps(cat, temps)
	}
	return nil
}

// checkStatement is the per-statement switch of alphacheck.cc's check(),
// recursing into BEGIN…END bodies and every exception handler (with a
// nil-check on the handler list per spec §9's explicit fix) and into a
// called procedure's cached body.
func checkStatement(stmt sqlast.Statement, file string, cat *catalog.Catalog, temps *tempState, runID string) error {
	if be, ok := stmt.(*sqlast.BeginEnd); ok {
		for _, s := range be.Body {
			if err := checkStatement(s, file, cat, temps, runID); err != nil {
				return err
			}
		}
		if be.Handlers != nil {
			for _, handler := range be.Handlers {
				for _, s := range handler {
					if err := checkStatement(s, file, cat, temps, runID); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	resolved, err := analyzer.Analyze(stmt, cat, file)
	if err != nil {
		var unsupported *errs.UnsupportedStatement
		if errors.As(err, &unsupported) {
			log.Printf("WARNING: %s", unsupported.Error())
			return nil
		}
		return fatal(err, file, cat, runID)
	}

	switch v := stmt.(type) {
	case *sqlast.CreateTable:
		key := v.Name.Key()
		if _, exists := cat.Table(key); exists {
			_ = cat.DropTable(key, true)
		}
		cat.PutTable(&catalog.Table{Name: key, Columns: resolved.Columns})
		if v.Temp {
			temps.tables = append(temps.tables, key)
		}
	case *sqlast.CreateFunction:
		kind := catalog.FunctionPlain
		if v.Templated() {
			kind = catalog.FunctionTemplated
		}
		paramNames := make([]string, len(v.Params))
		for i, p := range v.Params {
			paramNames[i] = p.Name
		}
		cat.PutFunction(&catalog.Function{
			Name: v.Name.Key(), Kind: kind, ParamNames: paramNames, BodyText: v.BodyText,
		})
		if v.Temp {
			temps.functions = append(temps.functions, v.Name.Key())
		}
	case *sqlast.CreateTableFunction:
		cat.PutFunction(&catalog.Function{Name: v.Name.Key(), Kind: catalog.FunctionPlain})
		if v.Temp {
			temps.functions = append(temps.functions, v.Name.Key())
		}
	case *sqlast.CreateProcedure:
		cat.PutProcedure(&catalog.Procedure{Name: v.Name.Key(), BodyText: v.BodyText, Body: v.Body})
	case *sqlast.Call:
		proc, ok := cat.Procedure(v.Name.Key())
		if !ok {
			pos := v.Pos()
			return fatal(&errs.AnalyzerError{
				File:    file,
				Line:    pos.Line,
				Col:     pos.Col,
				Message: fmt.Sprintf("CALL to unknown procedure %q", v.Name.String()),
			}, file, cat, runID)
		}
		return checkStatement(proc.Body, file, cat, temps, runID)
	case *sqlast.DropTable:
		if err := cat.DropTable(v.Name.Key(), v.IfExists); err != nil {
			return fatal(err, file, cat, runID)
		}
	case *sqlast.DropFunction:
		if err := cat.DropFunction(v.Name.Key(), v.IfExists); err != nil {
			return fatal(err, file, cat, runID)
		}
	}
	return nil
}

func fatal(err error, file string, cat *catalog.Catalog, runID string) error {
	var buf bytes.Buffer
	if dumpErr := catalog.DumpLogfmt(&buf, runID, file, cat); dumpErr != nil {
		log.Printf("WARNING: failed to encode diagnostic catalog dump: %s", dumpErr)
	}
	return &DiagnosticError{RunID: runID, File: file, Dump: strings.TrimRight(buf.String(), "\n"), Err: err}
}

func cleanupTemps(cat *catalog.Catalog, temps *tempState) {
	for _, name := range temps.tables {
		_ = cat.DropTable(name, true)
	}
	for _, name := range temps.functions {
		_ = cat.DropFunction(name, true)
	}
}
