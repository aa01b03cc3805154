package syntax

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/lexer"
	"github.com/golangee/feic/internal/source"
)

// Parser turns a token vector into a File. It holds a single shared
// token index; every production either advances that index and
// returns its node, or leaves the index untouched and reports no
// match, or — past a discriminating prefix that can only mean one
// production — returns a committed parse error.
type Parser struct {
	toks []lexer.Token
	idx  int
	gen  Gen
}

// New creates a Parser over a token vector already produced by lexer.Lex.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes the whole token vector and returns the parsed File.
// Per the universal invariant that a successful parse uses every
// token, the final index must land exactly on the trailing EOF token.
func Parse(toks []lexer.Token) (*File, error) {
	p := New(toks)

	f, err := p.parseFile()
	if err != nil {
		return nil, err
	}

	if !p.atEOF() {
		return nil, diag.New(diag.KindParse, p.cur(), "unexpected trailing input after file")
	}

	return f, nil
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.idx]
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == lexer.EOF
}

func (p *Parser) span(start int) source.Position {
	begin := p.toks[start].Pos.BeginPos
	end := p.toks[p.idx-1].Pos.EndPos

	return source.Position{BeginPos: begin, EndPos: end}
}

func (p *Parser) node(start int) Node {
	return Node{ID: p.gen.Next(), Pos: p.span(start)}
}

// at reports whether the current token matches without consuming it.
func (p *Parser) at(kind lexer.Kind, text string) bool {
	return p.cur().Is(kind, text)
}

// eat consumes the current token if it matches and reports whether it did.
func (p *Parser) eat(kind lexer.Kind, text string) bool {
	if !p.at(kind, text) {
		return false
	}

	p.idx++

	return true
}

// expect consumes the current token if it matches, otherwise returns a
// committed parse error tagged with ctx.
func (p *Parser) expect(kind lexer.Kind, text, ctx string) (lexer.Token, error) {
	if !p.at(kind, text) {
		return lexer.Token{}, diag.Newf(diag.KindParse, p.cur(),
			"%s: expected %s %q, found %s %q", ctx, kind, text, p.cur().Kind, p.cur().Text)
	}

	tok := p.cur()
	p.idx++

	return tok, nil
}

func (p *Parser) parseIdent() (*Ident, bool) {
	if p.cur().Kind != lexer.Ident {
		return nil, false
	}

	start := p.idx
	tok := p.cur()
	p.idx++

	return &Ident{Node: p.node(start), Name: tok.Text}, true
}

func (p *Parser) expectIdent(ctx string) (*Ident, error) {
	id, ok := p.parseIdent()
	if !ok {
		return nil, diag.Newf(diag.KindParse, p.cur(), "%s: expected identifier, found %q", ctx, p.cur().Text)
	}

	return id, nil
}

func (p *Parser) parseNumber() (*NumberLit, bool) {
	if p.cur().Kind != lexer.Number {
		return nil, false
	}

	start := p.idx
	tok := p.cur()
	p.idx++

	return &NumberLit{Node: p.node(start), Text: tok.Text}, true
}

// ---- File & Items ----------------------------------------------------

func (p *Parser) parseFile() (*File, error) {
	start := p.idx

	var items []Item
	for !p.atEOF() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}

		if item == nil {
			return nil, diag.Newf(diag.KindParse, p.cur(), "expected item, found %s %q", p.cur().Kind, p.cur().Text)
		}

		items = append(items, item)
	}

	return &File{Node: p.node(start), Items: items}, nil
}

func (p *Parser) parseItem() (Item, error) {
	// #ptx #proc is tried before bare #proc per the optional-prefix rule.
	if item, ok, err := p.parseItemProc(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemEntrypoint(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemUseBuiltin(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemTypeDef(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemInductive(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemTheorem(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemArray(); err != nil || ok {
		return item, err
	}

	if item, ok, err := p.parseItemStruct(); err != nil || ok {
		return item, err
	}

	return nil, nil
}

func (p *Parser) parseItemProc() (Item, bool, error) {
	start := p.idx

	ptx := p.eat(lexer.Keyword, "ptx")

	if !p.eat(lexer.Keyword, "proc") {
		p.idx = start

		return nil, false, nil
	}

	name, err := p.expectIdent("proc name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ":", "proc signature"); err != nil {
		return nil, true, err
	}

	sig, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if sig == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "proc: expected signature term")
	}

	body, err := p.parseStatementBlock("proc body")
	if err != nil {
		return nil, true, err
	}

	return &ItemProc{Node: p.node(start), Ptx: ptx, Name: name, Sig: sig, Body: body}, true, nil
}

func (p *Parser) parseItemEntrypoint() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "entrypoint") {
		return nil, false, nil
	}

	name, err := p.expectIdent("entrypoint name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ";", "entrypoint"); err != nil {
		return nil, true, err
	}

	return &ItemEntrypoint{Node: p.node(start), Name: name}, true, nil
}

func (p *Parser) parseItemUseBuiltin() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "use_builtin") {
		return nil, false, nil
	}

	if p.cur().Kind != lexer.String {
		return nil, true, diag.New(diag.KindParse, p.cur(), "use_builtin: expected builtin name string")
	}

	builtin := p.cur().Text
	p.idx++

	if !p.eat(lexer.Keyword, "as") {
		return nil, true, diag.New(diag.KindParse, p.cur(), "use_builtin: expected '#as'")
	}

	alias, err := p.expectIdent("use_builtin alias")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ";", "use_builtin"); err != nil {
		return nil, true, err
	}

	return &ItemUseBuiltin{Node: p.node(start), Builtin: builtin, Alias: alias}, true, nil
}

func (p *Parser) parseItemTypeDef() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "type_def") {
		return nil, false, nil
	}

	name, err := p.expectIdent("type_def name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ":", "type_def"); err != nil {
		return nil, true, err
	}

	ty, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if ty == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "type_def: expected type term")
	}

	if _, err := p.expect(lexer.Punct, ";", "type_def"); err != nil {
		return nil, true, err
	}

	return &ItemTypeDef{Node: p.node(start), Name: name, Type: ty}, true, nil
}

func (p *Parser) parseItemInductive() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "inductive") {
		return nil, false, nil
	}

	name, err := p.expectIdent("inductive name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ":", "inductive"); err != nil {
		return nil, true, err
	}

	ty, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if ty == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "inductive: expected kind term")
	}

	if _, err := p.expect(lexer.Punct, "{", "inductive body"); err != nil {
		return nil, true, err
	}

	var branches []*ItemInductiveBranch
	for {
		bstart := p.idx

		bname, ok := p.parseIdent()
		if !ok {
			break
		}

		if _, err := p.expect(lexer.Punct, ":", "inductive branch"); err != nil {
			return nil, true, err
		}

		bty, err := p.parseTerm()
		if err != nil {
			return nil, true, err
		}

		if bty == nil {
			return nil, true, diag.New(diag.KindParse, p.cur(), "inductive branch: expected type term")
		}

		p.eat(lexer.Punct, ",")

		branches = append(branches, &ItemInductiveBranch{Node: p.node(bstart), Name: bname, Type: bty})
	}

	if _, err := p.expect(lexer.Punct, "}", "inductive body"); err != nil {
		return nil, true, err
	}

	return &ItemInductive{Node: p.node(start), Name: name, Type: ty, Branches: branches}, true, nil
}

func (p *Parser) parseItemTheorem() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "theorem") {
		return nil, false, nil
	}

	name, err := p.expectIdent("theorem name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, ":", "theorem"); err != nil {
		return nil, true, err
	}

	ty, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if ty == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "theorem: expected type term")
	}

	if _, err := p.expect(lexer.Punct, "{", "theorem body"); err != nil {
		return nil, true, err
	}

	body, err := p.parseProcTerm()
	if err != nil {
		return nil, true, err
	}

	if body == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "theorem: expected proof term")
	}

	if _, err := p.expect(lexer.Punct, "}", "theorem body"); err != nil {
		return nil, true, err
	}

	return &ItemTheorem{Node: p.node(start), Name: name, Type: ty, Body: body}, true, nil
}

func (p *Parser) parseItemArray() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "array") {
		return nil, false, nil
	}

	name, err := p.expectIdent("array name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, "{", "array body"); err != nil {
		return nil, true, err
	}

	arr := &ItemArray{Node: p.node(start), Name: name}

	for {
		if p.eat(lexer.Keyword, "item") {
			if _, err := p.expect(lexer.Punct, ":", "array #item"); err != nil {
				return nil, true, err
			}

			ty, err := p.parseTerm()
			if err != nil {
				return nil, true, err
			}

			if ty == nil {
				return nil, true, diag.New(diag.KindParse, p.cur(), "array #item: expected type term")
			}

			arr.Item = ty
			p.eat(lexer.Punct, ",")

			continue
		}

		if p.eat(lexer.Keyword, "dimension") {
			if _, err := p.expect(lexer.Punct, ":", "array #dimension"); err != nil {
				return nil, true, err
			}

			dim, ok := p.parseNumber()
			if !ok {
				return nil, true, diag.New(diag.KindParse, p.cur(), "array #dimension: expected number literal")
			}

			arr.Dimension = dim
			p.eat(lexer.Punct, ",")

			continue
		}

		break
	}

	if _, err := p.expect(lexer.Punct, "}", "array body"); err != nil {
		return nil, true, err
	}

	return arr, true, nil
}

func (p *Parser) parseItemStruct() (Item, bool, error) {
	start := p.idx

	if !p.eat(lexer.Keyword, "struct") {
		return nil, false, nil
	}

	name, err := p.expectIdent("struct name")
	if err != nil {
		return nil, true, err
	}

	if _, err := p.expect(lexer.Punct, "{", "struct body"); err != nil {
		return nil, true, err
	}

	var fields []*ItemStructField
	for {
		fstart := p.idx

		fname, ok := p.parseIdent()
		if !ok {
			break
		}

		if _, err := p.expect(lexer.Punct, ":", "struct field"); err != nil {
			return nil, true, err
		}

		fty, err := p.parseTerm()
		if err != nil {
			return nil, true, err
		}

		if fty == nil {
			return nil, true, diag.New(diag.KindParse, p.cur(), "struct field: expected type term")
		}

		p.eat(lexer.Punct, ",")

		fields = append(fields, &ItemStructField{Node: p.node(fstart), Name: fname, Type: fty})
	}

	if _, err := p.expect(lexer.Punct, "}", "struct body"); err != nil {
		return nil, true, err
	}

	return &ItemStruct{Node: p.node(start), Name: name, Fields: fields}, true, nil
}

// ---- Terms (type level) ----------------------------------------------

// parseTerm parses the lowest-precedence production: a right-
// associative arrow, either dependent "(x : A) -> B" or non-dependent
// "A -> B", falling back to a bare application/atom when no arrow
// follows.
func (p *Parser) parseTerm() (Term, error) {
	start := p.idx

	if t, ok, err := p.tryTermArrowDep(); err != nil || ok {
		return t, err
	}

	lhs, err := p.parseTermApply()
	if err != nil || lhs == nil {
		return lhs, err
	}

	if p.eat(lexer.Operator, "->") {
		to, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		if to == nil {
			return nil, diag.New(diag.KindParse, p.cur(), "arrow type: expected result term")
		}

		return &TermArrowNoDep{Node: p.node(start), From: lhs, To: to}, nil
	}

	return lhs, nil
}

func (p *Parser) tryTermArrowDep() (Term, bool, error) {
	start := p.idx

	if !p.eat(lexer.Punct, "(") {
		return nil, false, nil
	}

	param, ok := p.parseIdent()
	if !ok {
		p.idx = start

		return nil, false, nil
	}

	if !p.eat(lexer.Punct, ":") {
		p.idx = start

		return nil, false, nil
	}

	from, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if from == nil {
		p.idx = start

		return nil, false, nil
	}

	if !p.eat(lexer.Punct, ")") {
		p.idx = start

		return nil, false, nil
	}

	if !p.eat(lexer.Operator, "->") {
		p.idx = start

		return nil, false, nil
	}

	to, err := p.parseTerm()
	if err != nil {
		return nil, true, err
	}

	if to == nil {
		return nil, true, diag.New(diag.KindParse, p.cur(), "dependent arrow: expected result term")
	}

	return &TermArrowDep{Node: p.node(start), Param: param, From: from, To: to}, true, nil
}

// parseTermApply parses left-associative juxtaposition application
// over term atoms, binding tighter than arrow.
func (p *Parser) parseTermApply() (Term, error) {
	start := p.idx

	fn, err := p.parseTermAtom()
	if err != nil || fn == nil {
		return fn, err
	}

	for {
		argStart := p.idx

		arg, err := p.parseTermAtom()
		if err != nil {
			return nil, err
		}

		if arg == nil {
			p.idx = argStart

			break
		}

		fn = &TermApply{Node: p.node(start), Fn: fn, Arg: arg}
	}

	return fn, nil
}

func (p *Parser) parseTermAtom() (Term, error) {
	start := p.idx

	switch {
	case p.at(lexer.Keyword, "struct"):
		return p.parseTermStruct()
	case p.at(lexer.Keyword, "match"):
		return p.parseTermMatch()
	case p.at(lexer.Punct, "("):
		return p.parseTermParenOrUnit(start)
	case p.cur().Kind == lexer.Ident:
		id, _ := p.parseIdent()

		return &TermVariable{Node: p.node(start), Name: id}, nil
	case p.cur().Kind == lexer.Number:
		lit, _ := p.parseNumber()

		return &TermNumber{Node: p.node(start), Lit: lit}, nil
	default:
		return nil, nil
	}
}

func (p *Parser) parseTermParenOrUnit(start int) (Term, error) {
	p.idx++ // '('

	if p.eat(lexer.Punct, ")") {
		return &TermUnit{Node: p.node(start)}, nil
	}

	inner, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if inner == nil {
		return nil, diag.New(diag.KindParse, p.cur(), "parenthesized term: expected inner term")
	}

	if _, err := p.expect(lexer.Punct, ")", "parenthesized term"); err != nil {
		return nil, err
	}

	return &TermParen{Node: p.node(start), Inner: inner}, nil
}

func (p *Parser) parseTermStruct() (Term, error) {
	start := p.idx
	p.idx++ // '#struct'

	if _, err := p.expect(lexer.Punct, "{", "struct type literal"); err != nil {
		return nil, err
	}

	var fields []*TermStructFieldValue
	for {
		fstart := p.idx

		fname, ok := p.parseIdent()
		if !ok {
			break
		}

		if _, err := p.expect(lexer.Punct, ":", "struct type field"); err != nil {
			return nil, err
		}

		val, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		if val == nil {
			return nil, diag.New(diag.KindParse, p.cur(), "struct type field: expected term")
		}

		p.eat(lexer.Punct, ",")

		fields = append(fields, &TermStructFieldValue{Node: p.node(fstart), Name: fname, Value: val})
	}

	if _, err := p.expect(lexer.Punct, "}", "struct type literal"); err != nil {
		return nil, err
	}

	return &TermStruct{Node: p.node(start), Fields: fields}, nil
}

func (p *Parser) parseTermMatch() (Term, error) {
	start := p.idx
	p.idx++ // '#match'

	scrutinee, err := p.parseTermApply()
	if err != nil {
		return nil, err
	}

	if scrutinee == nil {
		return nil, diag.New(diag.KindParse, p.cur(), "match: expected scrutinee term")
	}

	if _, err := p.expect(lexer.Punct, "{", "match"); err != nil {
		return nil, err
	}

	var arms []*TermMatchArm
	for {
		astart := p.idx

		pat, ok := p.parseIdent()
		if !ok {
			break
		}

		if _, err := p.expect(lexer.Operator, "=>", "match arm"); err != nil {
			return nil, err
		}

		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		if body == nil {
			return nil, diag.New(diag.KindParse, p.cur(), "match arm: expected body term")
		}

		p.eat(lexer.Punct, ",")

		arms = append(arms, &TermMatchArm{Node: p.node(astart), Pattern: pat, Body: body})
	}

	if _, err := p.expect(lexer.Punct, "}", "match"); err != nil {
		return nil, err
	}

	return &TermMatch{Node: p.node(start), Scrutinee: scrutinee, Arms: arms}, nil
}
