package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logfmt/logfmt"
	"golang.org/x/exp/maps"

	"github.com/Matts966/alphasql-go/internal/errs"
)

// Catalog is the mutable schema catalog threaded through one check run
// (spec §3, §4.3). It owns its tables and functions outright: a drop
// removes the map entry unconditionally, with no shadow "owned" vector or
// borrowed pointer to reconcile (spec §9 "Ownership of catalog entries").
type Catalog struct {
	tables     map[string]*Table
	functions  map[string]*Function
	procedures map[string]*Procedure
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		tables:     map[string]*Table{},
		functions:  map[string]*Function{},
		procedures: map[string]*Procedure{},
	}
}

// Table returns the table registered under lowercaseName, if any.
func (c *Catalog) Table(lowercaseName string) (*Table, bool) {
	t, ok := c.tables[lowercaseName]
	return t, ok
}

// PutTable registers t, overwriting any table already at that name —
// the "drop it first" half of spec §4.3's CREATE TABLE rule is the
// caller's responsibility via DropTable, so a plain Put always wins.
func (c *Catalog) PutTable(t *Table) {
	c.tables[t.Name] = t
}

// DropTable removes a table unconditionally. ifExists suppresses the
// "missing" error spec §4.3's DROP TABLE rule requires when the flag is
// absent and the table does not exist.
func (c *Catalog) DropTable(lowercaseName string, ifExists bool) error {
	if _, ok := c.tables[lowercaseName]; !ok {
		if ifExists {
			return nil
		}
		return fmt.Errorf("DROP TABLE: %q does not exist", lowercaseName)
	}
	delete(c.tables, lowercaseName)
	return nil
}

// Function returns the function registered under lowercaseName, if any.
func (c *Catalog) Function(lowercaseName string) (*Function, bool) {
	f, ok := c.functions[lowercaseName]
	return f, ok
}

// PutFunction registers f.
func (c *Catalog) PutFunction(f *Function) {
	c.functions[f.Name] = f
}

// DropFunction removes a function unconditionally.
func (c *Catalog) DropFunction(lowercaseName string, ifExists bool) error {
	if _, ok := c.functions[lowercaseName]; !ok {
		if ifExists {
			return nil
		}
		return fmt.Errorf("DROP FUNCTION: %q does not exist", lowercaseName)
	}
	delete(c.functions, lowercaseName)
	return nil
}

// Procedure returns the procedure registered under lowercaseName, if any.
func (c *Catalog) Procedure(lowercaseName string) (*Procedure, bool) {
	p, ok := c.procedures[lowercaseName]
	return p, ok
}

// PutProcedure registers a procedure body for later CALL re-entry.
func (c *Catalog) PutProcedure(p *Procedure) {
	c.procedures[p.Name] = p
}

// TableNames returns every registered table name, sorted lexicographically
// (spec §4.3 "Determinism").
func (c *Catalog) TableNames() []string {
	names := maps.Keys(c.tables)
	sortStrings(names)
	return names
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// DumpLogfmt writes a structured, sorted diagnostic dump of the catalog's
// table names to w — the one place in this module a structured-logging
// encoder earns its keep, invoked by internal/checker when a fatal
// AnalyzerError aborts a run (spec §4.3, §7).
func DumpLogfmt(w io.Writer, runID string, failingFile string, c *Catalog) error {
	enc := logfmt.NewEncoder(w)
	if err := enc.EncodeKeyval("run_id", runID); err != nil {
		return &errs.IOError{Path: "<stdout>", Err: err}
	}
	if err := enc.EncodeKeyval("file", failingFile); err != nil {
		return &errs.IOError{Path: "<stdout>", Err: err}
	}
	if err := enc.EncodeKeyval("table_count", len(c.tables)); err != nil {
		return &errs.IOError{Path: "<stdout>", Err: err}
	}
	if err := enc.EndRecord(); err != nil {
		return &errs.IOError{Path: "<stdout>", Err: err}
	}
	for _, name := range c.TableNames() {
		t := c.tables[name]
		cols := make([]string, len(t.Columns))
		for i, f := range t.Columns {
			cols[i] = f.Name + ":" + f.Type.typeName()
		}
		if err := enc.EncodeKeyval("table", name); err != nil {
			return &errs.IOError{Path: "<stdout>", Err: err}
		}
		if err := enc.EncodeKeyval("columns", strings.Join(cols, ",")); err != nil {
			return &errs.IOError{Path: "<stdout>", Err: err}
		}
		if err := enc.EndRecord(); err != nil {
			return &errs.IOError{Path: "<stdout>", Err: err}
		}
	}
	return nil
}
