// Package graph implements the DependencyGrapher: folding per-file
// identifier-extraction results into table/function reference maps and a
// file-level dependency DAG, with cycle detection and topological
// ordering. Edge construction mirrors
// _examples/original_source/alphasql/alphadag.cc's UpdateEdgesWithoutSelf
// call sequence; the graph itself uses dense integer vertex ids with a
// side name->id table rather than the original's indirection-heavy
// Boost property maps (spec §9 Design Notes).
package graph

import (
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/extract"
	"github.com/Matts966/alphasql-go/internal/names"
)

// VertexKind classifies a DAG vertex (spec §6 DOT "type" attribute).
type VertexKind int

const (
	VertexQuery VertexKind = iota
	VertexTable
	VertexFunction
)

func (k VertexKind) String() string {
	switch k {
	case VertexQuery:
		return "query"
	case VertexTable:
		return "table"
	case VertexFunction:
		return "function"
	default:
		return "unknown"
	}
}

// VertexID is a dense, zero-based vertex index.
type VertexID int

// Vertex is one DAG node: a file, or (if with_tables/with_functions was
// requested) a table or function node.
type Vertex struct {
	Label string
	Kind  VertexKind
}

// DAG is the file-level dependency graph plus optional table/function
// nodes (spec §3 "DependencyGraph").
type DAG struct {
	Vertices []Vertex
	index    map[string]VertexID // label -> id, insertion order preserved by Vertices
	adj      []map[VertexID]struct{}
	order    []VertexID // insertion order, used for topological tie-break
}

// NewDAG returns an empty graph.
func NewDAG() *DAG {
	return &DAG{index: map[string]VertexID{}}
}

// AddVertex inserts label/kind if not already present and returns its id.
func (g *DAG) AddVertex(label string, kind VertexKind) VertexID {
	if id, ok := g.index[label]; ok {
		return id
	}
	id := VertexID(len(g.Vertices))
	g.Vertices = append(g.Vertices, Vertex{Label: label, Kind: kind})
	g.adj = append(g.adj, map[VertexID]struct{}{})
	g.index[label] = id
	g.order = append(g.order, id)
	return id
}

// AddEdge adds A -> B ("B depends on A"); self-loops and duplicates are
// silently suppressed (spec §4.2).
func (g *DAG) AddEdge(a, b VertexID) {
	if a == b {
		return
	}
	g.adj[a][b] = struct{}{}
}

// Lookup returns a vertex's id, if present.
func (g *DAG) Lookup(label string) (VertexID, bool) {
	id, ok := g.index[label]
	return id, ok
}

// Options controls edge-policy selection (spec §4.2).
type Options struct {
	WithTables      bool
	WithFunctions   bool
	SideEffectFirst bool
	WarningAsError  bool
}

// tableQueries is one table's intermediate query sets: its creating file
// and the files that insert into, update, or otherwise reference it.
type tableQueries struct {
	create    string
	hasCreate bool
	inserts   []string
	updates   []string
	others    []string
}

type functionQueries struct {
	create    string
	hasCreate bool
	call      []string
}

// FileInfo pairs a file path with its extraction result, the grapher's
// sole input unit (spec §4.2 "Inputs").
type FileInfo struct {
	Path string
	Info extract.IdentifierInfo
}

// Result is everything Build produces.
type Result struct {
	DAG                    *DAG
	ExternalRequiredTables []string // sorted, de-duplicated
	TopologicalOrder       []VertexID
}

// Build folds per-file IdentifierInfo values into the table/function
// query maps (populating rules of spec §4.2) and emits the dependency DAG
// plus external-required-tables list. The only warning Build produces is a
// detected cycle; it is escalated to a hard error when opts.WarningAsError
// is set, otherwise returned in the warnings slice for the caller to log.
func Build(files []FileInfo, opts Options) (*Result, []error, error) {
	tableQ := map[string]*tableQueries{}
	tableDisplay := map[string]names.Q{}
	functionQ := map[string]*functionQueries{}
	functionDisplay := map[string]names.Q{}

	var tableOrder, functionOrder []string

	getTable := func(q names.Q) *tableQueries {
		key := q.Key()
		tq, ok := tableQ[key]
		if !ok {
			tq = &tableQueries{}
			tableQ[key] = tq
			tableDisplay[key] = q
			tableOrder = append(tableOrder, key)
		}
		return tq
	}
	getFunction := func(q names.Q) *functionQueries {
		key := q.Key()
		fq, ok := functionQ[key]
		if !ok {
			fq = &functionQueries{}
			functionQ[key] = fq
			functionDisplay[key] = q
			functionOrder = append(functionOrder, key)
		}
		return fq
	}

	for _, f := range files {
		info := f.Info

		for _, key := range extract.SortedKeys(info.Tables.Created) {
			q := info.Tables.Created[key]
			tq := getTable(q)
			if tq.hasCreate && tq.create != f.Path {
				return nil, nil, &errs.DuplicateDefinition{Name: q.String(), FirstFile: tq.create, SecondFile: f.Path}
			}
			tq.create, tq.hasCreate = f.Path, true
		}
		for _, key := range extract.SortedKeys(info.Tables.Dropped) {
			q := info.Tables.Dropped[key]
			tq := getTable(q)
			tq.others = append(tq.others, f.Path)
		}
		for _, key := range extract.SortedKeys(info.Tables.Referenced) {
			q := info.Tables.Referenced[key]
			tq := getTable(q)
			if !(tq.hasCreate && tq.create == f.Path) {
				tq.others = append(tq.others, f.Path)
			}
		}
		for _, key := range extract.SortedKeys(info.Tables.Inserted) {
			q := info.Tables.Inserted[key]
			tq := getTable(q)
			tq.inserts = append(tq.inserts, f.Path)
		}
		for _, key := range extract.SortedKeys(info.Tables.Updated) {
			q := info.Tables.Updated[key]
			tq := getTable(q)
			tq.updates = append(tq.updates, f.Path)
		}

		for _, key := range extract.SortedKeys(info.Functions.Defined) {
			q := info.Functions.Defined[key]
			fq := getFunction(q)
			if fq.hasCreate && fq.create != f.Path {
				return nil, nil, &errs.DuplicateDefinition{Name: q.String(), FirstFile: fq.create, SecondFile: f.Path}
			}
			fq.create, fq.hasCreate = f.Path, true
		}
		for _, key := range extract.SortedKeys(info.Functions.Called) {
			q := info.Functions.Called[key]
			fq := getFunction(q)
			fq.call = append(fq.call, f.Path)
		}
		for _, key := range extract.SortedKeys(info.Functions.Dropped) {
			q := info.Functions.Dropped[key]
			fq := getFunction(q)
			fq.call = append(fq.call, f.Path)
		}
	}

	g := NewDAG()
	for _, f := range files {
		g.AddVertex(f.Path, VertexQuery)
	}

	var externalRequired []string

	for _, key := range tableOrder {
		tq := tableQ[key]
		if !tq.hasCreate {
			externalRequired = append(externalRequired, tableDisplay[key].String())
		}
		addTableEdges(g, opts, tq)
	}

	for _, key := range functionOrder {
		fq := functionQ[key]
		addFunctionEdges(g, opts, fq)
	}

	if opts.WithTables {
		for _, key := range tableOrder {
			label := "table:" + tableDisplay[key].String()
			id := g.AddVertex(label, VertexTable)
			tq := tableQ[key]
			if tq.hasCreate {
				creator, _ := g.Lookup(tq.create)
				g.AddEdge(creator, id)
			}
			for _, r := range uniqueStable(append(append(append([]string{}, tq.others...), tq.inserts...), tq.updates...)) {
				rid, ok := g.Lookup(r)
				if ok {
					g.AddEdge(id, rid)
				}
			}
		}
	}

	if opts.WithFunctions {
		for _, key := range functionOrder {
			label := "function:" + functionDisplay[key].String()
			id := g.AddVertex(label, VertexFunction)
			fq := functionQ[key]
			if fq.hasCreate {
				creator, _ := g.Lookup(fq.create)
				g.AddEdge(creator, id)
			}
			for _, r := range uniqueStable(fq.call) {
				rid, ok := g.Lookup(r)
				if ok {
					g.AddEdge(id, rid)
				}
			}
		}
	}

	cyc := detectCycle(g)
	if cyc != nil {
		if opts.WarningAsError {
			return nil, nil, cyc
		}
	}
	var warnings []error
	if cyc != nil {
		warnings = append(warnings, cyc)
	}

	topo := topologicalOrder(g)

	slices.Sort(externalRequired)
	externalRequired = uniqueStableStrings(externalRequired)

	return &Result{DAG: g, ExternalRequiredTables: externalRequired, TopologicalOrder: topo}, warnings, nil
}

// addTableEdges emits the edge-policy table of spec §4.2 for one table's
// query set, mirroring alphadag.cc's per-mode branches exactly, including
// side_effect_first's erase-loop that discards a write equal to the
// table's own creator file.
func addTableEdges(g *DAG, opts Options, tq *tableQueries) {
	if !tq.hasCreate {
		return
	}
	creator, _ := g.Lookup(tq.create)

	if opts.SideEffectFirst {
		inserts := discardSelf(tq.inserts, tq.create)
		updates := discardSelf(tq.updates, tq.create)
		for _, w := range uniqueStable(append(append([]string{}, inserts...), updates...)) {
			wid, ok := g.Lookup(w)
			if !ok {
				continue
			}
			for _, r := range uniqueStable(tq.others) {
				rid, ok := g.Lookup(r)
				if ok {
					g.AddEdge(wid, rid)
				}
			}
		}
		for _, ins := range uniqueStable(inserts) {
			if id, ok := g.Lookup(ins); ok {
				g.AddEdge(creator, id)
			}
		}
		for _, upd := range uniqueStable(updates) {
			if id, ok := g.Lookup(upd); ok {
				g.AddEdge(creator, id)
			}
		}
		for _, r := range uniqueStable(tq.others) {
			if id, ok := g.Lookup(r); ok {
				g.AddEdge(creator, id)
			}
		}
		return
	}

	// default mode: creator -> every r in q.others. inserts/updates are
	// folded in only by the with_tables and side_effect_first rows.
	for _, r := range uniqueStable(tq.others) {
		if id, ok := g.Lookup(r); ok {
			g.AddEdge(creator, id)
		}
	}
}

func addFunctionEdges(g *DAG, opts Options, fq *functionQueries) {
	if !fq.hasCreate {
		return
	}
	creator, _ := g.Lookup(fq.create)
	for _, c := range uniqueStable(fq.call) {
		if id, ok := g.Lookup(c); ok {
			g.AddEdge(creator, id)
		}
	}
}

func discardSelf(files []string, self string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f != self {
			out = append(out, f)
		}
	}
	return out
}

func uniqueStable(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func uniqueStableStrings(in []string) []string {
	return uniqueStable(in)
}

// detectCycle runs a DFS with a back-edge detector (spec §4.2, §9).
func detectCycle(g *DAG) error {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.Vertices))
	var cyc error
	var visit func(v VertexID)
	visit = func(v VertexID) {
		if cyc != nil {
			return
		}
		color[v] = gray
		for _, n := range sortedNeighbors(g, v) {
			if cyc != nil {
				return
			}
			switch color[n] {
			case white:
				visit(n)
			case gray:
				cyc = &errs.CycleDetected{From: g.Vertices[v].Label, To: g.Vertices[n].Label}
			}
		}
		color[v] = black
	}
	for _, v := range g.order {
		if color[v] == white {
			visit(v)
		}
		if cyc != nil {
			break
		}
	}
	return cyc
}

// topologicalOrder is reverse-postorder DFS, ties broken by vertex
// insertion order (spec §4.2, §5, §9).
func topologicalOrder(g *DAG) []VertexID {
	visited := make([]bool, len(g.Vertices))
	var post []VertexID
	var visit func(v VertexID)
	visit = func(v VertexID) {
		visited[v] = true
		for _, n := range sortedNeighbors(g, v) {
			if !visited[n] {
				visit(n)
			}
		}
		post = append(post, v)
	}
	for _, v := range g.order {
		if !visited[v] {
			visit(v)
		}
	}
	slices.Reverse(post)
	return post
}

// Neighbors returns v's out-neighbors, ordered deterministically by the
// order their targets were first inserted as vertices. Exported so
// internal/dot can serialize edges without reaching into DAG internals.
func (g *DAG) Neighbors(v VertexID) []VertexID {
	return sortedNeighbors(g, v)
}

// sortedNeighbors returns v's out-neighbors in insertion order (the order
// their targets were first added as vertices), so traversal is
// deterministic independent of Go's map iteration order.
func sortedNeighbors(g *DAG, v VertexID) []VertexID {
	ids := maps.Keys(g.adj[v])
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TopologicalOrder computes a fresh reverse-postorder topological order
// over g, for callers (internal/checker, alphacheck) that only have a DAG
// read back from a DOT file and not a Build Result.
func TopologicalOrder(g *DAG) []VertexID {
	return topologicalOrder(g)
}

// DetectCycle reports the first DFS back-edge found in g, or nil if g is
// acyclic. Exposed so alphacheck can treat any cycle in an input DAG as
// fatal regardless of warning_as_error (spec §6 "cycle in DAG (fatal here
// always)").
func DetectCycle(g *DAG) error {
	return detectCycle(g)
}

// QueryOrder filters a topological order down to query (file) vertices
// only, in the order given (spec §4.2 "table/function nodes are filtered
// out").
func QueryOrder(g *DAG, order []VertexID) []string {
	var out []string
	for _, v := range order {
		if g.Vertices[v].Kind == VertexQuery {
			out = append(out, g.Vertices[v].Label)
		}
	}
	return out
}
