package syntax

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/lexer"
)

// parseProcTerm dispatches in the order the grammar's tie-break rule
// fixes: if, constructor-call, field-access, apply, struct-literal,
// variable, number, unit, parenthesized.
func (p *Parser) parseProcTerm() (ProcTerm, error) {
	if p.at(lexer.Keyword, "if") {
		return p.parseProcTermIf()
	}

	if t, ok, err := p.tryProcTermConstructorCall(); err != nil || ok {
		return t, err
	}

	if t, ok, err := p.tryProcTermFieldAccess(); err != nil {
		return nil, err
	} else if ok {
		return p.maybeDereference(t)
	}

	if t, ok, err := p.tryProcTermApply(); err != nil || ok {
		return t, err
	}

	if t, ok, err := p.tryProcTermStructValue(); err != nil || ok {
		return t, err
	}

	start := p.idx

	switch {
	case p.cur().Kind == lexer.Ident:
		id, _ := p.parseIdent()

		return p.maybeDereference(&ProcTermVariable{Node: p.node(start), Name: id})
	case p.cur().Kind == lexer.Number:
		lit, _ := p.parseNumber()

		return &ProcTermNumber{Node: p.node(start), Lit: lit}, nil
	case p.cur().Kind == lexer.String:
		lit := p.parseStringLit()

		return &ProcTermString{Node: p.node(start), Lit: lit}, nil
	case p.at(lexer.Punct, "("):
		return p.parseProcTermParenOrUnit(start)
	default:
		return nil, nil
	}
}

func (p *Parser) parseStringLit() *StringLit {
	start := p.idx
	tok := p.cur()
	p.idx++

	return &StringLit{Node: p.node(start), Value: tok.Text}
}

// maybeDereference wraps a successfully parsed ProcTerm atom in a
// ProcTermDereference for each trailing ".*" postfix operator, which
// binds tighter than everything but is itself a postfix so it is
// applied after the atom it modifies is known.
func (p *Parser) maybeDereference(t ProcTerm) (ProcTerm, error) {
	if t == nil {
		return nil, nil
	}

	start := p.idx
	for p.eat(lexer.Operator, ".*") {
		t = &ProcTermDereference{Node: p.node(start), Object: t}
	}

	return t, nil
}

// parseProcTermAtomForApply parses the restricted set of proc-term
// forms that may appear as either the head or an argument of an apply
// chain: parenthesized, unit, field access (tried before bare
// variable, since it is the more specific production), variable,
// number.
func (p *Parser) parseProcTermAtomForApply() (ProcTerm, error) {
	start := p.idx

	if p.at(lexer.Punct, "(") {
		return p.parseProcTermParenOrUnit(start)
	}

	if t, ok, err := p.tryProcTermFieldAccess(); err != nil || ok {
		return t, err
	}

	switch {
	case p.cur().Kind == lexer.Ident:
		id, _ := p.parseIdent()

		return &ProcTermVariable{Node: p.node(start), Name: id}, nil
	case p.cur().Kind == lexer.Number:
		lit, _ := p.parseNumber()

		return &ProcTermNumber{Node: p.node(start), Lit: lit}, nil
	case p.cur().Kind == lexer.String:
		lit := p.parseStringLit()

		return &ProcTermString{Node: p.node(start), Lit: lit}, nil
	default:
		return nil, nil
	}
}

func (p *Parser) parseProcTermParenOrUnit(start int) (ProcTerm, error) {
	p.idx++ // '('

	if p.eat(lexer.Punct, ")") {
		return &ProcTermUnit{Node: p.node(start)}, nil
	}

	inner, err := p.parseProcTerm()
	if err != nil {
		return nil, err
	}

	if inner == nil {
		return nil, diag.New(diag.KindParse, p.cur(), "parenthesized proc term: expected inner term")
	}

	if _, err := p.expect(lexer.Punct, ")", "parenthesized proc term"); err != nil {
		return nil, err
	}

	return &ProcTermParen{Node: p.node(start), Inner: inner}, nil
}

// tryProcTermApply parses a left-associative application "f a1 a2 …"
// requiring at least one argument, per ProcTermForApplyElem in the
// reference grammar — a bare head with zero arguments is simply that
// head, handled by its own dispatch arm instead.
func (p *Parser) tryProcTermApply() (ProcTerm, bool, error) {
	start := p.idx

	fn, err := p.parseProcTermAtomForApply()
	if err != nil {
		return nil, true, err
	}

	if fn == nil {
		p.idx = start

		return nil, false, nil
	}

	var args []ProcTerm

	for {
		argStart := p.idx

		arg, err := p.parseProcTermAtomForApply()
		if err != nil {
			return nil, true, err
		}

		if arg == nil {
			p.idx = argStart

			break
		}

		args = append(args, arg)
	}

	if len(args) == 0 {
		p.idx = start

		return nil, false, nil
	}

	return &ProcTermApply{Node: p.node(start), Fn: fn, Args: args}, true, nil
}

// tryProcTermFieldAccess parses "object.field" or, for array items,
// "object.field index", where object is restricted to a variable or a
// parenthesized term to avoid left-recursion.
func (p *Parser) tryProcTermFieldAccess() (ProcTerm, bool, error) {
	start := p.idx

	var object ProcTerm

	switch {
	case p.at(lexer.Punct, "("):
		obj, err := p.parseProcTermParenOrUnit(p.idx)
		if err != nil {
			return nil, true, err
		}

		object = obj
	case p.cur().Kind == lexer.Ident:
		id, _ := p.parseIdent()
		object = &ProcTermVariable{Node: p.node(start), Name: id}
	default:
		return nil, false, nil
	}

	if !p.eat(lexer.Operator, ".") {
		p.idx = start

		return nil, false, nil
	}

	field, err := p.expectIdent("field access")
	if err != nil {
		return nil, true, err
	}

	var index ProcTerm
	if idxStart := p.idx; p.cur().Kind == lexer.Ident || p.cur().Kind == lexer.Number {
		idx, err := p.parseProcTermAtomForApply()
		if err != nil {
			return nil, true, err
		}

		if idx != nil {
			index = idx
		} else {
			p.idx = idxStart
		}
	}

	return &ProcTermFieldAccess{Node: p.node(start), Object: object, Field: field, Index: index}, true, nil
}

// tryProcTermConstructorCall parses "Type::method arg1 arg2 …". The
// double-colon discriminator means a failure past it is committed.
func (p *Parser) tryProcTermConstructorCall() (ProcTerm, bool, error) {
	start := p.idx

	if p.cur().Kind != lexer.Ident {
		return nil, false, nil
	}

	typeName, _ := p.parseIdent()

	if !p.eat(lexer.Operator, "::") {
		p.idx = start

		return nil, false, nil
	}

	method, err := p.expectIdent("constructor call method")
	if err != nil {
		return nil, true, err
	}

	var args []ProcTerm
	for {
		argStart := p.idx

		arg, err := p.parseProcTermAtomForApply()
		if err != nil {
			return nil, true, err
		}

		if arg == nil {
			p.idx = argStart

			break
		}

		args = append(args, arg)
	}

	return &ProcTermConstructorCall{Node: p.node(start), Type: typeName, Method: method, Args: args}, true, nil
}

// tryProcTermStructValue parses "Name { field: value, ... }".
func (p *Parser) tryProcTermStructValue() (ProcTerm, bool, error) {
	start := p.idx

	name, ok := p.parseIdent()
	if !ok {
		return nil, false, nil
	}

	if !p.at(lexer.Punct, "{") {
		p.idx = start

		return nil, false, nil
	}

	p.idx++ // '{'

	var fields []*ProcTermStructFieldValue
	for {
		fstart := p.idx

		fname, ok := p.parseIdent()
		if !ok {
			break
		}

		if _, err := p.expect(lexer.Punct, ":", "struct literal field"); err != nil {
			return nil, true, err
		}

		val, err := p.parseProcTerm()
		if err != nil {
			return nil, true, err
		}

		if val == nil {
			return nil, true, diag.New(diag.KindParse, p.cur(), "struct literal field: expected value")
		}

		p.eat(lexer.Punct, ",")

		fields = append(fields, &ProcTermStructFieldValue{Node: p.node(fstart), Name: fname, Value: val})
	}

	if _, err := p.expect(lexer.Punct, "}", "struct literal"); err != nil {
		return nil, true, err
	}

	return &ProcTermStructValue{Node: p.node(start), Name: name, Fields: fields}, true, nil
}

func (p *Parser) parseProcTermIf() (ProcTerm, error) {
	start := p.idx
	p.idx++ // '#if'

	cond, err := p.parseProcTerm()
	if err != nil {
		return nil, err
	}

	if cond == nil {
		return nil, diag.New(diag.KindParse, p.cur(), "if: expected condition")
	}

	then, err := p.parseStatementBlock("if-then block")
	if err != nil {
		return nil, err
	}

	var els *StatementList
	if p.eat(lexer.Keyword, "else") {
		els, err = p.parseStatementBlock("if-else block")
		if err != nil {
			return nil, err
		}
	}

	return &ProcTermIf{Node: p.node(start), Cond: cond, Then: then, Else: els}, nil
}
