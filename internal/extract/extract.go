// Package extract implements the IdentifierExtractor: a per-script walk
// that classifies every table/function reference into the sets spec §3
// defines, hiding script-local temporaries and procedure bodies from the
// exported result. Grounded on
// _examples/original_source/alphasql/identifier_resolver.cc's visitor
// methods, generalized from BigQuery's double-dispatch Visit/Accept
// hierarchy to a single Walk-driven pass per internal/sqlast's design.
package extract

import (
	"fmt"

	"github.com/Matts966/alphasql-go/internal/names"
	"github.com/Matts966/alphasql-go/internal/sqlast"
)

// TableSet is the per-script classification result for tables.
type TableSet struct {
	Created    map[string]names.Q
	Referenced map[string]names.Q
	Inserted   map[string]names.Q
	Updated    map[string]names.Q
	Dropped    map[string]names.Q
}

// FunctionSet is the per-script classification result for functions and
// procedures (spec §3 does not distinguish procedures from functions in
// the exported sets: both live in Defined/Called/Dropped).
type FunctionSet struct {
	Defined map[string]names.Q
	Called  map[string]names.Q
	Dropped map[string]names.Q
}

// IdentifierInfo is the complete per-script extraction result (spec §3).
type IdentifierInfo struct {
	Tables    TableSet
	Functions FunctionSet
}

func newTableSet() TableSet {
	return TableSet{
		Created:    map[string]names.Q{},
		Referenced: map[string]names.Q{},
		Inserted:   map[string]names.Q{},
		Updated:    map[string]names.Q{},
		Dropped:    map[string]names.Q{},
	}
}

func newFunctionSet() FunctionSet {
	return FunctionSet{
		Defined: map[string]names.Q{},
		Called:  map[string]names.Q{},
		Dropped: map[string]names.Q{},
	}
}

// state carries the script-local context spec §3 lists as "maintained
// during extraction but not exported."
type state struct {
	info               IdentifierInfo
	temporaryTables    map[string]struct{}
	procedureArtifacts map[string]map[string]names.Q // procedure key -> created table key -> Q
	insideProcedure    bool
	procedureName      string
	warnings           []error
}

// Extract runs both collection passes (collectFacts, collectReferences)
// over one script's already-parsed statement list and returns the
// combined IdentifierInfo plus any non-fatal warnings (idempotency
// warnings, spec §4.1). The two passes are pure functions over the parse
// tree and their relative order does not affect the result (spec §4.1
// "Ordering of sub-passes is irrelevant").
func Extract(file string, stmts []sqlast.Statement) (IdentifierInfo, []error) {
	st := &state{
		info:               IdentifierInfo{Tables: newTableSet(), Functions: newFunctionSet()},
		temporaryTables:    map[string]struct{}{},
		procedureArtifacts: map[string]map[string]names.Q{},
	}
	for _, s := range stmts {
		st.collectFacts(file, s)
	}
	for _, s := range stmts {
		st.collectReferences(s)
	}
	st.stripTemporaries()
	return st.info, st.warnings
}

func (st *state) warnf(format string, args ...any) {
	st.warnings = append(st.warnings, fmt.Errorf(format, args...))
}

// collectFacts is the DDL/DML/CALL side-effect pass: create/drop/insert/
// update/define/call facts, mirroring identifier_resolver.cc's
// visitASTCreateTableStatement / visitASTDropStatement / ... family.
func (st *state) collectFacts(file string, n sqlast.Node) {
	switch v := n.(type) {
	case *sqlast.CreateTable:
		st.onCreateTable(file, v)
		st.collectFacts(file, v.AsSelect)
	case *sqlast.DropTable:
		st.onDropTable(v)
	case *sqlast.Insert:
		st.onInsert(file, v)
		st.collectFacts(file, v.Source)
	case *sqlast.Update:
		st.onUpdate(file, v)
		for _, f := range v.From {
			st.collectFacts(file, f)
		}
		st.collectFacts(file, v.Where)
	case *sqlast.Delete:
		// DELETE's target is a reference for ordering purposes, recorded
		// in the referenced-pass; no create/insert/update fact here.
	case *sqlast.Merge:
		// target handled as a reference (MERGE INTO) in collectReferences.
	case *sqlast.CreateFunction:
		st.onCreateFunction(v)
	case *sqlast.CreateTableFunction:
		st.onCreateTableFunction(file, v)
	case *sqlast.DropFunction:
		st.info.Functions.Dropped[v.Name.Key()] = v.Name
	case *sqlast.CreateProcedure:
		st.onCreateProcedure(file, v)
	case *sqlast.Call:
		st.onCall(v)
		for _, a := range v.Args {
			st.collectFacts(file, a)
		}
	case *sqlast.BeginEnd:
		for _, s := range v.Body {
			st.collectFacts(file, s)
		}
		for _, h := range v.Handlers {
			for _, s := range h {
				st.collectFacts(file, s)
			}
		}
	case *sqlast.Select:
		if v == nil {
			return
		}
		for _, c := range v.Columns {
			st.collectFacts(file, c.Expr)
		}
		for _, f := range v.From {
			st.collectFacts(file, f)
		}
		st.collectFacts(file, v.Where)
	case *sqlast.Subquery:
		st.collectFacts(file, v.Select)
	case *sqlast.Join:
		st.collectFacts(file, v.Left)
		st.collectFacts(file, v.Right)
		st.collectFacts(file, v.On)
	case *sqlast.FunctionCall:
		st.info.Functions.Called[v.Name.Key()] = v.Name
		for _, a := range v.Args {
			st.collectFacts(file, a)
		}
	case *sqlast.TVFCall:
		st.info.Functions.Called[v.Name.Key()] = v.Name
		for _, a := range v.Args {
			st.collectFacts(file, a)
		}
	case *sqlast.BinaryExpr:
		st.collectFacts(file, v.Left)
		st.collectFacts(file, v.Right)
	case *sqlast.UnaryExpr:
		st.collectFacts(file, v.X)
	case nil:
		// no-op: callers pass possibly-nil optional sub-nodes directly
	}
}

func (st *state) onCreateTable(file string, v *sqlast.CreateTable) {
	key := v.Name.Key()
	switch {
	case v.Temp:
		st.temporaryTables[key] = struct{}{}
	case st.insideProcedure:
		artifacts, ok := st.procedureArtifacts[st.procedureName]
		if !ok {
			artifacts = map[string]names.Q{}
			st.procedureArtifacts[st.procedureName] = artifacts
		}
		artifacts[key] = v.Name
	default:
		st.info.Tables.Created[key] = v.Name
	}
}

func (st *state) onDropTable(v *sqlast.DropTable) {
	key := v.Name.Key()
	if _, isTemp := st.temporaryTables[key]; isTemp {
		return
	}
	st.info.Tables.Dropped[key] = v.Name
}

func (st *state) onInsert(file string, v *sqlast.Insert) {
	key := v.Target.Key()
	if _, isTemp := st.temporaryTables[key]; isTemp {
		return
	}
	st.info.Tables.Inserted[key] = v.Target
	if _, created := st.info.Tables.Created[key]; !created {
		st.warnf("%s: INSERT into %q, which this script does not CREATE (non-idempotent on re-run)", file, v.Target.String())
	}
}

func (st *state) onUpdate(file string, v *sqlast.Update) {
	key := v.Target.Key()
	if _, isTemp := st.temporaryTables[key]; isTemp {
		return
	}
	st.info.Tables.Updated[key] = v.Target
	if _, created := st.info.Tables.Created[key]; !created {
		st.warnf("%s: UPDATE of %q, which this script does not CREATE (non-idempotent on re-run)", file, v.Target.String())
	}
}

func (st *state) onCreateFunction(v *sqlast.CreateFunction) {
	if v.Temp {
		return
	}
	st.info.Functions.Defined[v.Name.Key()] = v.Name
	st.collectFactsExpr(v.Body)
}

func (st *state) onCreateTableFunction(file string, v *sqlast.CreateTableFunction) {
	if v.Temp {
		return
	}
	st.info.Functions.Defined[v.Name.Key()] = v.Name
	st.collectFacts(file, v.Query)
}

func (st *state) collectFactsExpr(e sqlast.Expr) {
	if e == nil {
		return
	}
	st.collectFacts("", e)
}

func (st *state) onCreateProcedure(file string, v *sqlast.CreateProcedure) {
	if v.Temp {
		st.collectFacts(file, v.Body)
		return
	}
	st.info.Functions.Defined[v.Name.Key()] = v.Name
	prevInside, prevName := st.insideProcedure, st.procedureName
	st.insideProcedure = true
	st.procedureName = v.Name.Key()
	st.collectFacts(file, v.Body)
	st.insideProcedure = prevInside
	st.procedureName = prevName
}

func (st *state) onCall(v *sqlast.Call) {
	st.info.Functions.Called[v.Name.Key()] = v.Name
	if artifacts, ok := st.procedureArtifacts[v.Name.Key()]; ok {
		for key, name := range artifacts {
			st.info.Tables.Created[key] = name
		}
	}
}

// collectReferences is the read-position pass: every table path occurring
// as a FROM/JOIN/subquery/TVF-table-arg source, plus DROP/DELETE/MERGE
// targets treated as references for graph-ordering purposes (spec §3
// "tables.referenced").
func (st *state) collectReferences(n sqlast.Node) {
	sqlast.Walk(n, func(node sqlast.Node) bool {
		switch v := node.(type) {
		case *sqlast.TableRef:
			st.addReference(v.Name)
		case *sqlast.TVFCall:
			// TVF table source itself is a function call, not a table
			// reference; its arguments are walked separately by Walk.
		case *sqlast.DropTable:
			st.addReference(v.Name)
		case *sqlast.Delete:
			st.addReference(v.Target)
		case *sqlast.Merge:
			st.addReference(v.Target)
			for _, s := range v.Sources {
				st.addReference(s)
			}
		}
		return true
	})
}

func (st *state) addReference(q names.Q) {
	key := q.Key()
	if _, isTemp := st.temporaryTables[key]; isTemp {
		return
	}
	st.info.Tables.Referenced[key] = q
}

// stripTemporaries enforces "Temporary isolation" (spec §8 invariant 2):
// no temp-scoped name may appear in any exported set, even if it was
// added before its CREATE TEMP was visited (statement order within a
// script need not match textual order of these two passes).
func (st *state) stripTemporaries() {
	for key := range st.temporaryTables {
		delete(st.info.Tables.Created, key)
		delete(st.info.Tables.Referenced, key)
		delete(st.info.Tables.Inserted, key)
		delete(st.info.Tables.Updated, key)
		delete(st.info.Tables.Dropped, key)
	}
}

// SortedKeys returns the map's keys in lexicographic order, used wherever
// deterministic iteration over one of these sets is required.
func SortedKeys(m map[string]names.Q) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
