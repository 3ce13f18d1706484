package sqlparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Matts966/alphasql-go/internal/errs"
	"github.com/Matts966/alphasql-go/internal/names"
	"github.com/Matts966/alphasql-go/internal/sqlast"
)

// ParseScript parses a whole script (one or more `;`-terminated
// statements) into a list of top-level sqlast.Statement values.
func ParseScript(file string, src string) ([]sqlast.Statement, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, &errs.ParseError{File: file, Message: err.Error(), Err: err}
	}
	p := &parser{file: file, toks: toks}
	var stmts []sqlast.Statement
	for !p.atEOF() {
		for p.atPunct(";") {
			p.advance()
		}
		if p.atEOF() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		for p.atPunct(";") {
			p.advance()
		}
	}
	return stmts, nil
}

type parser struct {
	file string
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) pos2() sqlast.Position {
	t := p.cur()
	return sqlast.Position{Line: t.line, Col: t.col}
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) atPunct(s string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return p.errorf("expected %q, got %q", kw, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return p.errorf("expected %q, got %q", s, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.cur()
	return &errs.ParseError{File: p.file, Line: t.line, Col: t.col, Message: fmt.Sprintf(format, args...)}
}

// parseStatement dispatches on the leading keyword, mirroring the
// tagged-sum design of internal/sqlast: one function per statement kind,
// default-recurse handled inside each by calling parseExpr/parseSelect.
func (p *parser) parseStatement() (sqlast.Statement, error) {
	switch {
	case p.atKeyword("CREATE"):
		return p.parseCreate()
	case p.atKeyword("DROP"):
		return p.parseDrop()
	case p.atKeyword("INSERT"):
		return p.parseInsert()
	case p.atKeyword("UPDATE"):
		return p.parseUpdate()
	case p.atKeyword("DELETE"):
		return p.parseDelete()
	case p.atKeyword("MERGE"):
		return p.parseMerge()
	case p.atKeyword("CALL"):
		return p.parseCall()
	case p.atKeyword("BEGIN"):
		return p.parseBeginEnd()
	case p.atKeyword("SELECT"):
		return p.parseSelect()
	case p.atKeyword("WITH"):
		return p.parseSelect()
	default:
		return nil, p.errorf("unrecognized statement starting with %q", p.cur().text)
	}
}

func (p *parser) parseQualifiedName() (names.Q, error) {
	if p.cur().kind != tokIdent {
		return nil, p.errorf("expected identifier, got %q", p.cur().text)
	}
	parts := []string{p.advance().text}
	for p.atPunct(".") {
		p.advance()
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected identifier after '.'")
		}
		parts = append(parts, p.advance().text)
	}
	return names.NewQ(parts...), nil
}

func (p *parser) parseCreate() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // CREATE
	temp := false
	if p.atKeyword("TEMP") || p.atKeyword("TEMPORARY") {
		temp = true
		p.advance()
	}
	switch {
	case p.atKeyword("TABLE"):
		p.advance()
		if p.atKeyword("FUNCTION") {
			p.advance()
			return p.parseCreateTableFunctionRest(pos, temp)
		}
		return p.parseCreateTableRest(pos, temp)
	case p.atKeyword("FUNCTION"):
		p.advance()
		return p.parseCreateFunctionRest(pos, temp)
	case p.atKeyword("PROCEDURE"):
		p.advance()
		return p.parseCreateProcedureRest(pos, temp)
	default:
		return nil, p.errorf("unsupported CREATE statement (expected TABLE, FUNCTION or PROCEDURE)")
	}
}

func (p *parser) parseIfNotExists() bool {
	if p.atKeyword("IF") {
		save := p.pos
		p.advance()
		if p.atKeyword("NOT") {
			p.advance()
			if p.atKeyword("EXISTS") {
				p.advance()
				return true
			}
		}
		p.pos = save
	}
	return false
}

func (p *parser) parseIfExists() bool {
	if p.atKeyword("IF") {
		save := p.pos
		p.advance()
		if p.atKeyword("EXISTS") {
			p.advance()
			return true
		}
		p.pos = save
	}
	return false
}

func (p *parser) parseCreateTableRest(pos sqlast.Position, temp bool) (sqlast.Statement, error) {
	ifNotExists := p.parseIfNotExists()
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ct := &sqlast.CreateTable{Position: pos, Name: name, Temp: temp, IfNotExists: ifNotExists}
	if p.atPunct("(") {
		cols, err := p.parseColumnDefs()
		if err != nil {
			return nil, err
		}
		ct.Columns = cols
	}
	if p.atKeyword("AS") {
		p.advance()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		ct.AsSelect = sel.(*sqlast.Select)
	}
	return ct, nil
}

func (p *parser) parseColumnDefs() ([]sqlast.ColumnDef, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var cols []sqlast.ColumnDef
	for !p.atPunct(")") {
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected column name")
		}
		name := p.advance().text
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		cols = append(cols, sqlast.ColumnDef{Name: name, Type: typ})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return cols, nil
}

// parseTypeName consumes a (possibly multi-word, possibly parameterized)
// BigQuery type spelling, e.g. `INT64`, `STRING(10)`, `ARRAY<INT64>`.
func (p *parser) parseTypeName() (string, error) {
	if p.cur().kind != tokIdent {
		return "", p.errorf("expected type name")
	}
	var sb strings.Builder
	sb.WriteString(p.advance().text)
	if p.atPunct("(") {
		sb.WriteString("(")
		p.advance()
		for !p.atPunct(")") {
			sb.WriteString(p.advance().text)
		}
		p.advance()
		sb.WriteString(")")
	}
	if p.atPunct("<") {
		sb.WriteString("<")
		p.advance()
		inner, err := p.parseTypeName()
		if err != nil {
			return "", err
		}
		sb.WriteString(inner)
		if err := p.expectPunct(">"); err != nil {
			return "", err
		}
		sb.WriteString(">")
	}
	return sb.String(), nil
}

func (p *parser) parseParams() ([]sqlast.Param, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []sqlast.Param
	for !p.atPunct(")") {
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected parameter name")
		}
		name := p.advance().text
		var typ string
		if p.atKeyword("ANY") {
			p.advance()
			if err := p.expectKeyword("TYPE"); err != nil {
				return nil, err
			}
			typ = "ANY TYPE"
		} else {
			t, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			typ = t
		}
		params = append(params, sqlast.Param{Name: name, Type: typ})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseCreateFunctionRest(pos sqlast.Position, temp bool) (sqlast.Statement, error) {
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	cf := &sqlast.CreateFunction{Position: pos, Name: name, Temp: temp, Params: params}
	if p.atKeyword("RETURNS") {
		p.advance()
		rt, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		cf.ReturnType = rt
	}
	if p.atKeyword("AS") {
		p.advance()
		start := p.pos
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		cf.Body = body
		cf.BodyText = p.rawBetween(start, p.pos)
	}
	return cf, nil
}

func (p *parser) parseCreateTableFunctionRest(pos sqlast.Position, temp bool) (sqlast.Statement, error) {
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	ctf := &sqlast.CreateTableFunction{Position: pos, Name: name, Temp: temp, Params: params}
	if p.atKeyword("RETURNS") {
		p.advance()
		if _, err := p.parseTypeName(); err != nil {
			return nil, err
		}
	}
	if p.atKeyword("AS") {
		p.advance()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		ctf.Query = sel.(*sqlast.Select)
	}
	return ctf, nil
}

func (p *parser) parseCreateProcedureRest(pos sqlast.Position, temp bool) (sqlast.Statement, error) {
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	start := p.pos
	body, err := p.parseBeginEnd()
	if err != nil {
		return nil, err
	}
	bodyText := p.rawBetween(start, p.pos)
	return &sqlast.CreateProcedure{
		Position: pos, Name: name, Temp: temp, Params: params,
		Body: body.(*sqlast.BeginEnd), BodyText: bodyText,
	}, nil
}

// rawBetween reconstructs an approximate source slice spanning tokens
// [from,to) — used only to cache a procedure/function body's text
// (BodyText); CALL re-entry uses the parsed body, not this text, and the
// text is not byte-exact (whitespace/comments are not preserved).
func (p *parser) rawBetween(from, to int) string {
	var sb strings.Builder
	for i := from; i < to && i < len(p.toks); i++ {
		if i > from {
			sb.WriteString(" ")
		}
		sb.WriteString(p.toks[i].text)
	}
	return sb.String()
}

func (p *parser) parseDrop() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // DROP
	switch {
	case p.atKeyword("TABLE"):
		p.advance()
		ifExists := p.parseIfExists()
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		return &sqlast.DropTable{Position: pos, Name: name, IfExists: ifExists}, nil
	case p.atKeyword("FUNCTION"):
		p.advance()
		ifExists := p.parseIfExists()
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		return &sqlast.DropFunction{Position: pos, Name: name, IfExists: ifExists}, nil
	default:
		return nil, p.errorf("unsupported DROP statement (expected TABLE or FUNCTION)")
	}
}

func (p *parser) parseInsert() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // INSERT
	if p.atKeyword("INTO") {
		p.advance()
	}
	target, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ins := &sqlast.Insert{Position: pos, Target: target}
	if p.atPunct("(") {
		// explicit column list — skip it, extraction only needs the target
		depth := 0
		for {
			if p.atPunct("(") {
				depth++
			} else if p.atPunct(")") {
				depth--
			}
			p.advance()
			if depth == 0 {
				break
			}
		}
	}
	if p.atKeyword("VALUES") {
		p.advance()
		for {
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			var row []sqlast.Expr
			for !p.atPunct(")") {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				row = append(row, e)
				if p.atPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, row)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		return ins, nil
	}
	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	ins.Source = sel.(*sqlast.Select)
	return ins, nil
}

func (p *parser) parseUpdate() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // UPDATE
	target, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	// SET assignments carry no table references the grapher/extractor
	// needs; skip to FROM/WHERE/end-of-statement.
	for !p.atKeyword("FROM") && !p.atKeyword("WHERE") && !p.atPunct(";") && !p.atEOF() {
		p.advance()
	}
	upd := &sqlast.Update{Position: pos, Target: target}
	if p.atKeyword("FROM") {
		p.advance()
		srcs, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		upd.From = srcs
	}
	if p.atKeyword("WHERE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Where = e
	}
	return upd, nil
}

func (p *parser) parseDelete() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // DELETE
	if p.atKeyword("FROM") {
		p.advance()
	}
	target, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	del := &sqlast.Delete{Position: pos, Target: target}
	if p.atKeyword("WHERE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = e
	}
	return del, nil
}

func (p *parser) parseMerge() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // MERGE
	if p.atKeyword("INTO") {
		p.advance()
	}
	target, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("USING"); err != nil {
		return nil, err
	}
	var sources []names.Q
	src, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	sources = append(sources, src)
	// consume the remainder of the MERGE statement (ON/WHEN clauses) up
	// to the terminating ';' — their targets are all `target`, already
	// recorded, and WHEN-clause expressions carry no extra table refs.
	for !p.atPunct(";") && !p.atEOF() {
		p.advance()
	}
	return &sqlast.Merge{Position: pos, Target: target, Sources: sources}, nil
}

func (p *parser) parseCall() (sqlast.Statement, error) {
	pos := p.pos2()
	p.advance() // CALL
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	call := &sqlast.Call{Position: pos, Name: name}
	if p.atPunct("(") {
		p.advance()
		for !p.atPunct(")") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, e)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return call, nil
}

func (p *parser) parseBeginEnd() (sqlast.Statement, error) {
	pos := p.pos2()
	if err := p.expectKeyword("BEGIN"); err != nil {
		return nil, err
	}
	be := &sqlast.BeginEnd{Position: pos}
	body, err := p.parseStatementListUntil("EXCEPTION", "END")
	if err != nil {
		return nil, err
	}
	be.Body = body
	for p.atKeyword("EXCEPTION") {
		p.advance()
		if err := p.expectKeyword("WHEN"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("ERROR"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		handler, err := p.parseStatementListUntil("EXCEPTION", "END")
		if err != nil {
			return nil, err
		}
		be.Handlers = append(be.Handlers, handler)
	}
	if err := p.expectKeyword("END"); err != nil {
		return nil, err
	}
	return be, nil
}

// parseStatementListUntil parses `;`-separated statements until one of the
// given keywords is seen at statement-start position.
func (p *parser) parseStatementListUntil(stopKeywords ...string) ([]sqlast.Statement, error) {
	var stmts []sqlast.Statement
	for {
		for p.atPunct(";") {
			p.advance()
		}
		stop := false
		for _, kw := range stopKeywords {
			if p.atKeyword(kw) {
				stop = true
			}
		}
		if stop || p.atEOF() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseFromList() ([]sqlast.TableExpr, error) {
	var list []sqlast.TableExpr
	for {
		te, err := p.parseTableExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, te)
		for p.atKeyword("JOIN") || p.atKeyword("INNER") || p.atKeyword("LEFT") ||
			p.atKeyword("RIGHT") || p.atKeyword("FULL") || p.atKeyword("CROSS") {
			joinPos := p.pos2()
			for !p.atKeyword("JOIN") {
				p.advance()
			}
			p.advance() // JOIN
			right, err := p.parseTableExpr()
			if err != nil {
				return nil, err
			}
			var on sqlast.Expr
			if p.atKeyword("ON") {
				p.advance()
				on, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
			left := list[len(list)-1]
			list[len(list)-1] = &sqlast.Join{Position: joinPos, Left: left, Right: right, On: on}
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return list, nil
}

func (p *parser) parseTableExpr() (sqlast.TableExpr, error) {
	pos := p.pos2()
	if p.atPunct("(") {
		p.advance()
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		alias := p.parseOptionalAlias()
		return &sqlast.Subquery{Position: pos, Select: sel.(*sqlast.Select), Alias: alias}, nil
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if p.atPunct("(") {
		p.advance()
		var args []sqlast.Expr
		for !p.atPunct(")") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		alias := p.parseOptionalAlias()
		return &sqlast.TVFCall{Position: pos, Name: name, Args: args, Alias: alias}, nil
	}
	ref := &sqlast.TableRef{Position: pos, Name: name}
	_ = p.parseOptionalAlias()
	return ref, nil
}

func (p *parser) parseOptionalAlias() string {
	if p.atKeyword("AS") {
		p.advance()
		if p.cur().kind == tokIdent {
			return p.advance().text
		}
		return ""
	}
	if p.cur().kind == tokIdent && !isReservedFollowWord(p.cur().text) {
		return p.advance().text
	}
	return ""
}

// isReservedFollowWord reports whether an identifier-shaped token that
// follows a table/subquery expression is actually a clause keyword rather
// than an alias.
func isReservedFollowWord(s string) bool {
	switch strings.ToUpper(s) {
	case "FROM", "WHERE", "GROUP", "ORDER", "LIMIT", "JOIN", "INNER", "LEFT", "RIGHT",
		"FULL", "CROSS", "ON", "SET", "VALUES", "EXCEPTION", "END", "WHEN",
		"THEN", "USING", "UNION", "EXCEPT", "INTERSECT":
		return true
	}
	return false
}

func (p *parser) parseSelect() (sqlast.Statement, error) {
	pos := p.pos2()
	var ctes []sqlast.TableExpr
	if p.atKeyword("WITH") {
		// CTEs: each `name AS (select)` binding is kept as an aliased
		// Subquery appended to the FROM list, so its body still
		// contributes table references.
		p.advance()
		for {
			if p.cur().kind != tokIdent {
				return nil, p.errorf("expected CTE name")
			}
			ctePos := p.pos2()
			cteName := p.advance().text
			if err := p.expectKeyword("AS"); err != nil {
				return nil, err
			}
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			body, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			ctes = append(ctes, &sqlast.Subquery{Position: ctePos, Select: body.(*sqlast.Select), Alias: cteName})
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	sel := &sqlast.Select{Position: pos}
	if p.atPunct("*") {
		p.advance()
		sel.Star = true
	} else {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			col := sqlast.SelectColumn{Expr: e}
			if p.atKeyword("AS") {
				p.advance()
				col.Alias = p.advance().text
			} else if p.cur().kind == tokIdent && !isReservedFollowWord(p.cur().text) {
				col.Alias = p.advance().text
			}
			sel.Columns = append(sel.Columns, col)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if p.atKeyword("FROM") {
		p.advance()
		list, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		sel.From = list
	}
	sel.From = append(sel.From, ctes...)
	if p.atKeyword("WHERE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = e
	}
	// GROUP BY / ORDER BY / LIMIT carry no additional table references;
	// skip to statement end or an enclosing ')'.
	depth := 0
	for !p.atEOF() {
		if p.atPunct("(") {
			depth++
		} else if p.atPunct(")") {
			if depth == 0 {
				break
			}
			depth--
		} else if p.atPunct(";") && depth == 0 {
			break
		} else if depth == 0 && (p.atKeyword("UNION") || p.atKeyword("EXCEPT") || p.atKeyword("INTERSECT")) {
			break
		}
		if depth == 0 && (p.atKeyword("GROUP") || p.atKeyword("ORDER") || p.atKeyword("LIMIT")) {
			p.advance()
			continue
		}
		if depth == 0 {
			break
		}
		p.advance()
	}
	if p.atKeyword("UNION") || p.atKeyword("EXCEPT") || p.atKeyword("INTERSECT") {
		p.advance()
		if p.atKeyword("ALL") || p.atKeyword("DISTINCT") {
			p.advance()
		}
		rhs, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		rs := rhs.(*sqlast.Select)
		sel.From = append(sel.From, rs.From...)
		if sel.Where == nil {
			sel.Where = rs.Where
		}
	}
	return sel, nil
}

// parseExpr parses a binary-operator precedence chain down to primaries.
// Precedence, loosest to tightest: OR, AND, comparison, additive,
// multiplicative, unary.
func (p *parser) parseExpr() (sqlast.Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (sqlast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		pos := p.pos2()
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Position: pos, Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (sqlast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		pos := p.pos2()
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Position: pos, Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[string]bool{
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true, "!=": true,
}

func (p *parser) parseComparison() (sqlast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokPunct && comparisonOps[p.cur().text] {
		pos := p.pos2()
		op := p.advance().text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &sqlast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (sqlast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		pos := p.pos2()
		op := p.advance().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (sqlast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") {
		pos := p.pos2()
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (sqlast.Expr, error) {
	if p.atPunct("-") || p.atKeyword("NOT") {
		pos := p.pos2()
		op := p.advance().text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &sqlast.UnaryExpr{Position: pos, Op: op, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (sqlast.Expr, error) {
	pos := p.pos2()
	switch {
	case p.atPunct("("):
		p.advance()
		if p.atKeyword("SELECT") || p.atKeyword("WITH") {
			sel, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &sqlast.Subquery{Position: pos, Select: sel.(*sqlast.Select)}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	case p.atPunct("*"):
		p.advance()
		return &sqlast.Star{Position: pos}, nil
	case p.cur().kind == tokNumber:
		text := p.advance().text
		kind := sqlast.LitInt
		if strings.Contains(text, ".") {
			kind = sqlast.LitFloat
		}
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return nil, p.errorf("malformed numeric literal %q", text)
		}
		return &sqlast.Literal{Position: pos, LitKind: kind, Value: text}, nil
	case p.cur().kind == tokString:
		text := p.advance().text
		return &sqlast.Literal{Position: pos, LitKind: sqlast.LitString, Value: text}, nil
	case p.atKeyword("TRUE") || p.atKeyword("FALSE"):
		text := p.advance().text
		return &sqlast.Literal{Position: pos, LitKind: sqlast.LitBool, Value: text}, nil
	case p.atKeyword("NULL"):
		p.advance()
		return &sqlast.Literal{Position: pos, LitKind: sqlast.LitNull, Value: "NULL"}, nil
	case p.cur().kind == tokIdent:
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if p.atPunct("(") {
			p.advance()
			var args []sqlast.Expr
			for !p.atPunct(")") {
				if p.atPunct("*") {
					p.advance()
					break
				}
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.atPunct(",") {
					p.advance()
					continue
				}
				break
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &sqlast.FunctionCall{Position: pos, Name: name, Args: args}, nil
		}
		return &sqlast.ColumnRef{Position: pos, Path: name}, nil
	default:
		return nil, p.errorf("unexpected token %q in expression", p.cur().text)
	}
}
