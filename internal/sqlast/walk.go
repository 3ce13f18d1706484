package sqlast

// Visit is called once per node during Walk. Returning false prunes that
// node's children (Walk will not recurse into them); Walk itself always
// visits n's children unless the node kind has none.
type Visit func(n Node) bool

// Walk traverses n and its descendants, calling visit on each node. Each
// node kind's case in the switch walks that kind's children (leaf kinds
// have empty cases); there is no separate Accept method per node type, by
// design (see the package doc).
func Walk(n Node, visit Visit) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	switch v := n.(type) {
	case *Select:
		for _, c := range v.Columns {
			Walk(c.Expr, visit)
		}
		for _, f := range v.From {
			Walk(f, visit)
		}
		Walk(v.Where, visit)
	case *TableRef:
		// leaf
	case *Subquery:
		Walk(v.Select, visit)
	case *TVFCall:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *Join:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
		Walk(v.On, visit)
	case *ColumnRef:
		// leaf
	case *FunctionCall:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *BinaryExpr:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *UnaryExpr:
		Walk(v.X, visit)
	case *Literal:
		// leaf
	case *Star:
		// leaf
	case *CreateTable:
		if v.AsSelect != nil {
			Walk(v.AsSelect, visit)
		}
	case *CreateFunction:
		Walk(v.Body, visit)
	case *CreateTableFunction:
		if v.Query != nil {
			Walk(v.Query, visit)
		}
	case *CreateProcedure:
		Walk(v.Body, visit)
	case *DropTable:
		// leaf
	case *DropFunction:
		// leaf
	case *Insert:
		if v.Source != nil {
			Walk(v.Source, visit)
		}
		for _, row := range v.Values {
			for _, e := range row {
				Walk(e, visit)
			}
		}
	case *Update:
		for _, f := range v.From {
			Walk(f, visit)
		}
		Walk(v.Where, visit)
	case *Delete:
		Walk(v.Where, visit)
	case *Merge:
		// leaf (sources are plain table refs, no nested expressions)
	case *Call:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *BeginEnd:
		for _, s := range v.Body {
			Walk(s, visit)
		}
		for _, h := range v.Handlers {
			for _, s := range h {
				Walk(s, visit)
			}
		}
	}
}
