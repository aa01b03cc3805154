package syntax

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/lexer"
)

// parseStatementBlock parses "{" Statements "}", used for proc bodies,
// if-branches, and loop bodies alike.
func (p *Parser) parseStatementBlock(ctx string) (*StatementList, error) {
	if _, err := p.expect(lexer.Punct, "{", ctx); err != nil {
		return nil, err
	}

	list, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Punct, "}", ctx); err != nil {
		return nil, err
	}

	return list, nil
}

// parseStatements parses "( Statement ';' )* Statement?" — the
// idiomatic-Go rendering of the Nil/Statement(s)/Then(head,tail)
// cons-list: Trailing records whether the final statement was left
// without its semicolon, which is what lets the enclosing block be
// used as an expression.
func (p *Parser) parseStatements() (*StatementList, error) {
	start := p.idx

	var stmts []Stmt

	trailing := false
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if stmt == nil {
			break
		}

		stmts = append(stmts, stmt)

		if p.eat(lexer.Punct, ";") {
			trailing = false

			continue
		}

		trailing = true

		break
	}

	return &StatementList{Node: p.node(start), Statements: stmts, Trailing: trailing}, nil
}

// parseStatement dispatches in the order the tie-break rule fixes:
// let-mut before let (the #mut discriminator lies after #let), then
// the remaining keyword-led forms, then field-assign before assign
// (both start with a proc term), finally falling back to a bare proc
// term statement.
func (p *Parser) parseStatement() (Stmt, error) {
	if s, ok, err := p.tryStmtLetMut(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtLet(); err != nil || ok {
		return s, err
	}

	if p.at(lexer.Keyword, "if") {
		t, err := p.parseProcTermIf()
		if err != nil {
			return nil, err
		}

		return t.(*ProcTermIf), nil
	}

	if s, ok, err := p.tryStmtLoop(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtBreak(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtContinue(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtReturn(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtCallPtx(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtFieldAssign(); err != nil || ok {
		return s, err
	}

	if s, ok, err := p.tryStmtAssign(); err != nil || ok {
		return s, err
	}

	start := p.idx

	expr, err := p.parseProcTerm()
	if err != nil {
		return nil, err
	}

	if expr == nil {
		return nil, nil
	}

	return &StmtExpr{Node: p.node(start), Expr: expr}, nil
}

func (p *Parser) tryStmtLetMut() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "let") {
		return nil, false, nil
	}

	if !p.eat(lexer.Keyword, "mut") {
		p.idx = start

		return nil, false, nil
	}

	name, err := p.expectIdent("let mut name")
	if err != nil {
		return nil, true, err
	}

	var addr *Ident
	if p.eat(lexer.Operator, "@") {
		addr, err = p.expectIdent("let mut address alias")
		if err != nil {
			return nil, true, err
		}
	}

	if _, err := p.expect(lexer.Operator, "=", "let mut"); err != nil {
		return nil, true, err
	}

	value, err := p.parseProcTerm()
	if err != nil {
		return nil, true, err
	}

	if value == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "let mut: expected value expression")
	}

	return &StmtLet{Node: p.node(start), Mut: true, Name: name, Addr: addr, Value: value}, true, nil
}

func (p *Parser) tryStmtLet() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "let") {
		return nil, false, nil
	}

	name, err := p.expectIdent("let name")
	if err != nil {
		return nil, true, err
	}

	var value ProcTerm
	if p.eat(lexer.Operator, "=") {
		value, err = p.parseProcTerm()
		if err != nil {
			return nil, true, err
		}

		if value == nil {
			return nil, true, diag.New(diag.KindParse, p.cur(), "let: expected value expression after '='")
		}
	}

	return &StmtLet{Node: p.node(start), Mut: false, Name: name, Value: value}, true, nil
}

func (p *Parser) tryStmtLoop() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "loop") {
		return nil, false, nil
	}

	body, err := p.parseStatementBlock("loop body")
	if err != nil {
		return nil, true, err
	}

	return &StmtLoop{Node: p.node(start), Body: body}, true, nil
}

func (p *Parser) tryStmtBreak() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "break") {
		return nil, false, nil
	}

	return &StmtBreak{Node: p.node(start)}, true, nil
}

func (p *Parser) tryStmtContinue() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "continue") {
		return nil, false, nil
	}

	return &StmtContinue{Node: p.node(start)}, true, nil
}

func (p *Parser) tryStmtReturn() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "return") {
		return nil, false, nil
	}

	if p.at(lexer.Punct, ";") {
		return &StmtReturn{Node: p.node(start)}, true, nil
	}

	value, err := p.parseProcTerm()
	if err != nil {
		return nil, true, err
	}

	return &StmtReturn{Node: p.node(start), Value: value}, true, nil
}

// tryStmtCallPtx parses "#call_ptx name [arg] gx gy gz bx by bz",
// the six trailing numbers being the CUDA grid/block dimensions.
func (p *Parser) tryStmtCallPtx() (Stmt, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "call_ptx") {
		return nil, false, nil
	}

	name, err := p.expectIdent("call_ptx function name")
	if err != nil {
		return nil, true, err
	}

	var args []ProcTerm
	if argStart := p.idx; p.cur().Kind == lexer.Ident {
		id, _ := p.parseIdent()
		args = append(args, &ProcTermVariable{Node: p.node(argStart), Name: id})
	}

	var dims [6]*NumberLit
	for i := range dims {
		lit, ok := p.parseNumber()
		if !ok {
			return nil, true, diag.New(diag.KindParse, p.cur(), "call_ptx: expected six grid/block dimensions")
		}

		dims[i] = lit
	}

	stmt := &StmtCallPtx{
		Node: p.node(start),
		Name: name,
		Args: args,
		Grid: [3]*NumberLit{dims[0], dims[1], dims[2]},
		Block: [3]*NumberLit{dims[3], dims[4], dims[5]},
	}

	return stmt, true, nil
}

// tryStmtFieldAssign parses "object.field [index] <- value".
func (p *Parser) tryStmtFieldAssign() (Stmt, bool, error) {
	start := p.idx

	access, ok, err := p.tryProcTermFieldAccess()
	if err != nil {
		return nil, true, err
	}

	if !ok {
		p.idx = start

		return nil, false, nil
	}

	fa := access.(*ProcTermFieldAccess)

	if !p.eat(lexer.Operator, "<-") {
		p.idx = start

		return nil, false, nil
	}

	value, err := p.parseProcTerm()
	if err != nil {
		return nil, true, err
	}

	if value == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "field assign: expected value expression")
	}

	return &StmtFieldAssign{Node: p.node(start), Object: fa.Object, Field: fa.Field, Index: fa.Index, Value: value}, true, nil
}

// tryStmtAssign parses "target = value", where target is a bare
// variable or a dereference of one ("r.* = value"). Assign and
// field-assign (to a field via "<-") use distinct operators so the
// two never compete once field access has been ruled out.
func (p *Parser) tryStmtAssign() (Stmt, bool, error) {
	start := p.idx

	id, ok := p.parseIdent()
	if !ok {
		return nil, false, nil
	}

	var target ProcTerm = &ProcTermVariable{Node: p.node(start), Name: id}

	if p.eat(lexer.Operator, ".*") {
		target = &ProcTermDereference{Node: p.node(start), Object: target}
	}

	if !p.eat(lexer.Operator, "=") {
		p.idx = start

		return nil, false, nil
	}

	value, err := p.parseProcTerm()
	if err != nil {
		return nil, true, err
	}

	if value == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "assign: expected value expression")
	}

	return &StmtAssign{Node: p.node(start), Target: target, Value: value}, true, nil
}
