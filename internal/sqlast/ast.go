// Package sqlast defines a tagged-sum AST for the BigQuery statement
// surface this module analyzes. Rather than the deep Visit/Accept class
// hierarchy a hand-rolled SQL frontend would otherwise grow, every node
// carries its own Kind and a single Walk function (walk.go) does default-
// recurse traversal with a type switch, per the "tagged sum + one walk
// function" re-architecture this project follows throughout.
package sqlast

import "github.com/Matts966/alphasql-go/internal/names"

// Kind tags every node in the tree.
type Kind int

const (
	KindSelect Kind = iota
	KindCreateTable
	KindCreateFunction
	KindCreateTableFunction
	KindCreateProcedure
	KindDropTable
	KindDropFunction
	KindInsert
	KindUpdate
	KindDelete
	KindMerge
	KindCall
	KindBeginEnd
	KindTableRef
	KindSubquery
	KindTVFCall
	KindJoin
	KindColumnRef
	KindFunctionCall
	KindBinaryExpr
	KindUnaryExpr
	KindLiteral
	KindStar
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "Select"
	case KindCreateTable:
		return "CreateTable"
	case KindCreateFunction:
		return "CreateFunction"
	case KindCreateTableFunction:
		return "CreateTableFunction"
	case KindCreateProcedure:
		return "CreateProcedure"
	case KindDropTable:
		return "DropTable"
	case KindDropFunction:
		return "DropFunction"
	case KindInsert:
		return "Insert"
	case KindUpdate:
		return "Update"
	case KindDelete:
		return "Delete"
	case KindMerge:
		return "Merge"
	case KindCall:
		return "Call"
	case KindBeginEnd:
		return "BeginEnd"
	case KindTableRef:
		return "TableRef"
	case KindSubquery:
		return "Subquery"
	case KindTVFCall:
		return "TVFCall"
	case KindJoin:
		return "Join"
	case KindColumnRef:
		return "ColumnRef"
	case KindFunctionCall:
		return "FunctionCall"
	case KindBinaryExpr:
		return "BinaryExpr"
	case KindUnaryExpr:
		return "UnaryExpr"
	case KindLiteral:
		return "Literal"
	case KindStar:
		return "Star"
	default:
		return "Unknown"
	}
}

// Position is a 1-based source location.
type Position struct {
	Line int
	Col  int
}

// Node is any AST node: statements, table expressions and scalar
// expressions all implement it.
type Node interface {
	Kind() Kind
	Pos() Position
}

// Statement is a top-level or nested statement node. It is just Node: Go
// has no sealed interfaces, so the distinction is documentary.
type Statement = Node

// Expr is a scalar-valued expression node.
type Expr = Node

// TableExpr is a FROM-clause source.
type TableExpr = Node

// ColumnDef is an explicit column declaration, e.g. in `CREATE TABLE t (a
// INT64)`.
type ColumnDef struct {
	Name string
	Type string
}

// Param is a function or procedure parameter. Type == "ANY TYPE" marks a
// templated (polymorphic) parameter.
type Param struct {
	Name string
	Type string
}

// SelectColumn is one projected expression in a SELECT list.
type SelectColumn struct {
	Expr  Expr
	Alias string
}

// Select is both a standalone SELECT statement and the query embedded in
// CREATE TABLE ... AS SELECT / CREATE TABLE FUNCTION ... / subqueries.
type Select struct {
	Position
	Columns []SelectColumn
	Star    bool
	From    []TableExpr
	Where   Expr
}

func (s *Select) Kind() Kind    { return KindSelect }
func (s *Select) Pos() Position { return s.Position }

// TableRef is a bare table-name reference in a FROM clause or JOIN. DROP
// and DELETE targets and MERGE sources are stored as plain names.Q values.
type TableRef struct {
	Position
	Name names.Q
}

func (t *TableRef) Kind() Kind    { return KindTableRef }
func (t *TableRef) Pos() Position { return t.Position }

// Subquery is a parenthesized SELECT used as a FROM source.
type Subquery struct {
	Position
	Select *Select
	Alias  string
}

func (s *Subquery) Kind() Kind    { return KindSubquery }
func (s *Subquery) Pos() Position { return s.Position }

// TVFCall is a table-valued function invocation used as a FROM source.
type TVFCall struct {
	Position
	Name  names.Q
	Args  []Expr
	Alias string
}

func (t *TVFCall) Kind() Kind    { return KindTVFCall }
func (t *TVFCall) Pos() Position { return t.Position }

// Join is a two-sided FROM-clause join.
type Join struct {
	Position
	Left, Right TableExpr
	On          Expr
}

func (j *Join) Kind() Kind    { return KindJoin }
func (j *Join) Pos() Position { return j.Position }

// ColumnRef is a (possibly qualified) column reference.
type ColumnRef struct {
	Position
	Path names.Q
}

func (c *ColumnRef) Kind() Kind    { return KindColumnRef }
func (c *ColumnRef) Pos() Position { return c.Position }

// FunctionCall is a scalar function invocation.
type FunctionCall struct {
	Position
	Name names.Q
	Args []Expr
}

func (f *FunctionCall) Kind() Kind    { return KindFunctionCall }
func (f *FunctionCall) Pos() Position { return f.Position }

// BinaryExpr is a binary operator expression (arithmetic, comparison,
// boolean).
type BinaryExpr struct {
	Position
	Op          string
	Left, Right Expr
}

func (b *BinaryExpr) Kind() Kind    { return KindBinaryExpr }
func (b *BinaryExpr) Pos() Position { return b.Position }

// UnaryExpr is a unary operator expression.
type UnaryExpr struct {
	Position
	Op string
	X  Expr
}

func (u *UnaryExpr) Kind() Kind    { return KindUnaryExpr }
func (u *UnaryExpr) Pos() Position { return u.Position }

// LitKind classifies a Literal's value.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

// Literal is a constant scalar value.
type Literal struct {
	Position
	LitKind LitKind
	Value   string
}

func (l *Literal) Kind() Kind    { return KindLiteral }
func (l *Literal) Pos() Position { return l.Position }

// Star is the `*` projection in `SELECT *`.
type Star struct {
	Position
}

func (s *Star) Kind() Kind    { return KindStar }
func (s *Star) Pos() Position { return s.Position }

// CreateTable is `CREATE [TEMP] TABLE [IF NOT EXISTS] name (...) [AS SELECT ...]`.
type CreateTable struct {
	Position
	Name        names.Q
	Temp        bool
	IfNotExists bool
	Columns     []ColumnDef
	AsSelect    *Select
}

func (c *CreateTable) Kind() Kind    { return KindCreateTable }
func (c *CreateTable) Pos() Position { return c.Position }

// CreateFunction is `CREATE [TEMP] FUNCTION name(...) [RETURNS type] AS (expr)`.
type CreateFunction struct {
	Position
	Name       names.Q
	Temp       bool
	Params     []Param
	ReturnType string
	Body       Expr
	BodyText   string
}

func (c *CreateFunction) Kind() Kind    { return KindCreateFunction }
func (c *CreateFunction) Pos() Position { return c.Position }

// Templated reports whether any parameter is declared `ANY TYPE`.
func (c *CreateFunction) Templated() bool {
	for _, p := range c.Params {
		if p.Type == "ANY TYPE" {
			return true
		}
	}
	return false
}

// CreateTableFunction is `CREATE [TEMP] TABLE FUNCTION name(...) AS SELECT ...`.
type CreateTableFunction struct {
	Position
	Name   names.Q
	Temp   bool
	Params []Param
	Query  *Select
}

func (c *CreateTableFunction) Kind() Kind    { return KindCreateTableFunction }
func (c *CreateTableFunction) Pos() Position { return c.Position }

// CreateProcedure is `CREATE [TEMP] PROCEDURE name(...) BEGIN ... END`.
type CreateProcedure struct {
	Position
	Name     names.Q
	Temp     bool
	Params   []Param
	Body     *BeginEnd
	BodyText string
}

func (c *CreateProcedure) Kind() Kind    { return KindCreateProcedure }
func (c *CreateProcedure) Pos() Position { return c.Position }

// DropTable is `DROP TABLE [IF EXISTS] name`.
type DropTable struct {
	Position
	Name     names.Q
	IfExists bool
}

func (d *DropTable) Kind() Kind    { return KindDropTable }
func (d *DropTable) Pos() Position { return d.Position }

// DropFunction is `DROP FUNCTION [IF EXISTS] name`.
type DropFunction struct {
	Position
	Name     names.Q
	IfExists bool
}

func (d *DropFunction) Kind() Kind    { return KindDropFunction }
func (d *DropFunction) Pos() Position { return d.Position }

// Insert is `INSERT INTO target (...) SELECT ... | VALUES (...)`.
type Insert struct {
	Position
	Target names.Q
	Source *Select
	Values [][]Expr
}

func (i *Insert) Kind() Kind    { return KindInsert }
func (i *Insert) Pos() Position { return i.Position }

// Update is `UPDATE target SET ... [FROM ...] [WHERE ...]`.
type Update struct {
	Position
	Target names.Q
	From   []TableExpr
	Where  Expr
}

func (u *Update) Kind() Kind    { return KindUpdate }
func (u *Update) Pos() Position { return u.Position }

// Delete is `DELETE FROM target WHERE ...`.
type Delete struct {
	Position
	Target names.Q
	Where  Expr
}

func (d *Delete) Kind() Kind    { return KindDelete }
func (d *Delete) Pos() Position { return d.Position }

// Merge is `MERGE INTO target USING source ...`. The parser records the
// single USING table name in Sources and skips the ON/WHEN clauses.
type Merge struct {
	Position
	Target  names.Q
	Sources []names.Q
}

func (m *Merge) Kind() Kind    { return KindMerge }
func (m *Merge) Pos() Position { return m.Position }

// Call is `CALL name(args)`.
type Call struct {
	Position
	Name names.Q
	Args []Expr
}

func (c *Call) Kind() Kind    { return KindCall }
func (c *Call) Pos() Position { return c.Position }

// BeginEnd is a `BEGIN ... END` block, optionally followed by one or more
// `EXCEPTION WHEN ERROR THEN ...` handler bodies.
type BeginEnd struct {
	Position
	Body     []Statement
	Handlers [][]Statement
}

func (b *BeginEnd) Kind() Kind    { return KindBeginEnd }
func (b *BeginEnd) Pos() Position { return b.Position }
