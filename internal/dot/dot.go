// Package dot reads and writes the Graphviz DOT subset this module uses
// as the sole handoff format between the graph-build phase and the check
// phase (spec §2, §6). No DOT-parsing library appears anywhere in the
// example pack (Boost's graphviz reader in the original source is a
// C++-only facility), so this is a small hand-written reader/writer
// scoped exactly to the vertex-attribute surface spec §6 names: `label`,
// `type` in {query, table, function}, optional `shape`.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/graph"
)

// Write emits g as a directed Graphviz graph readable by Read.
func Write(w io.Writer, g *graph.DAG) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph alphasql {")
	for id, v := range g.Vertices {
		fmt.Fprintf(bw, "  %d [label=%s, type=%s%s];\n",
			id, quote(v.Label), quote(v.Kind.String()), shapeAttr(v.Kind))
	}
	for a := range g.Vertices {
		for _, b := range g.Neighbors(graph.VertexID(a)) {
			fmt.Fprintf(bw, "  %d -> %d;\n", a, b)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func shapeAttr(k graph.VertexKind) string {
	switch k {
	case graph.VertexTable:
		return ", shape=box"
	case graph.VertexFunction:
		return ", shape=cds"
	default:
		return ""
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

var (
	vertexLineRE = regexp.MustCompile(`^\s*(\d+)\s*\[(.*)\]\s*;?\s*$`)
	edgeLineRE   = regexp.MustCompile(`^\s*(\d+)\s*->\s*(\d+)\s*;?\s*$`)
	attrRE       = regexp.MustCompile(`(\w+)\s*=\s*"((?:[^"\\]|\\.)*)"`)
)

// Read parses a DOT document produced by Write (or any DOT graph using
// the same attribute surface) back into a *graph.DAG.
func Read(r io.Reader) (*graph.DAG, error) {
	g := graph.NewDAG()
	idToLabel := map[int]string{}
	var pendingEdges [][2]int

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if m := vertexLineRE.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &errs.IOError{Path: "<dot>", Err: err}
			}
			attrs := parseAttrs(m[2])
			label := attrs["label"]
			kind := parseKind(attrs["type"])
			g.AddVertex(label, kind)
			idToLabel[id] = label
			continue
		}
		if m := edgeLineRE.FindStringSubmatch(line); m != nil {
			a, _ := strconv.Atoi(m[1])
			b, _ := strconv.Atoi(m[2])
			pendingEdges = append(pendingEdges, [2]int{a, b})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &errs.IOError{Path: "<dot>", Err: err}
	}
	for _, e := range pendingEdges {
		aLabel, ok := idToLabel[e[0]]
		if !ok {
			continue
		}
		bLabel, ok := idToLabel[e[1]]
		if !ok {
			continue
		}
		aID, _ := g.Lookup(aLabel)
		bID, _ := g.Lookup(bLabel)
		g.AddEdge(aID, bID)
	}
	return g, nil
}

func parseAttrs(s string) map[string]string {
	out := map[string]string{}
	for _, m := range attrRE.FindAllStringSubmatch(s, -1) {
		out[m[1]] = strings.ReplaceAll(m[2], `\"`, `"`)
	}
	return out
}

func parseKind(s string) graph.VertexKind {
	switch s {
	case "table":
		return graph.VertexTable
	case "function":
		return graph.VertexFunction
	default:
		return graph.VertexQuery
	}
}
