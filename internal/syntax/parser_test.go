package syntax

import (
	"testing"

	"github.com/golangee/feic/internal/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()

	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)

	f, err := Parse(toks)
	require.NoError(t, err)

	return f
}

func TestParseHelloWorld(t *testing.T) {
	src := `
#use_builtin "write_to_stdout" #as write_to_stdout;
#use_builtin "exit" #as exit;
#proc main : () -> () {
	write_to_stdout "Hello, world!\n";
	exit 0;
}
#entrypoint main;
`
	f := mustParse(t, src)
	require.Len(t, f.Items, 4)

	_, ok := f.Items[0].(*ItemUseBuiltin)
	require.True(t, ok)

	proc, ok := f.Items[2].(*ItemProc)
	require.True(t, ok)
	require.Equal(t, "main", proc.Name.Name)
	require.Len(t, proc.Body.Statements, 2)

	_, ok = f.Items[3].(*ItemEntrypoint)
	require.True(t, ok)
}

func TestParseArrowTypes(t *testing.T) {
	f := mustParse(t, `#proc f : I64 -> I64 -> I64 { #return 0; }`)

	proc := f.Items[0].(*ItemProc)
	outer, ok := proc.Sig.(*TermArrowNoDep)
	require.True(t, ok)

	_, ok = outer.From.(*TermVariable)
	require.True(t, ok)

	_, ok = outer.To.(*TermArrowNoDep)
	require.True(t, ok, "arrow must be right-associative")
}

func TestParseDependentArrow(t *testing.T) {
	f := mustParse(t, `#proc f : (x : I64) -> I64 { #return x; }`)

	proc := f.Items[0].(*ItemProc)
	dep, ok := proc.Sig.(*TermArrowDep)
	require.True(t, ok)
	require.Equal(t, "x", dep.Param.Name)
}

func TestParseLetMutBeforeLet(t *testing.T) {
	f := mustParse(t, `#proc f : () -> () {
		#let #mut x @ r = 1;
		#let y = 2;
		#let z;
	}`)

	proc := f.Items[0].(*ItemProc)
	require.Len(t, proc.Body.Statements, 3)

	lm, ok := proc.Body.Statements[0].(*StmtLet)
	require.True(t, ok)
	require.True(t, lm.Mut)

	l, ok := proc.Body.Statements[1].(*StmtLet)
	require.True(t, ok)
	require.False(t, l.Mut)

	bare, ok := proc.Body.Statements[2].(*StmtLet)
	require.True(t, ok)
	require.Nil(t, bare.Value)
}

func TestParseIfLoopBreakContinue(t *testing.T) {
	f := mustParse(t, `#proc f : () -> () {
		#loop {
			#if u64_eq i 10 {
				#break;
			} #else {
				#continue;
			}
		}
	}`)

	proc := f.Items[0].(*ItemProc)
	loop, ok := proc.Body.Statements[0].(*StmtLoop)
	require.True(t, ok)

	ifStmt, ok := loop.Body.Statements[0].(*ProcTermIf)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)

	_, ok = ifStmt.Then.Statements[0].(*StmtBreak)
	require.True(t, ok)
	_, ok = ifStmt.Else.Statements[0].(*StmtContinue)
	require.True(t, ok)
}

func TestParseConstructorCallAndFieldAccess(t *testing.T) {
	f := mustParse(t, `#proc f : () -> () {
		#let buf = Buffer::new_with_size 16u64;
		buf.item 0 <- 1u64;
		#let v = buf.item 0;
	}`)

	proc := f.Items[0].(*ItemProc)

	letBuf := proc.Body.Statements[0].(*StmtLet)
	call, ok := letBuf.Value.(*ProcTermConstructorCall)
	require.True(t, ok)
	require.Equal(t, "Buffer", call.Type.Name)
	require.Equal(t, "new_with_size", call.Method.Name)
	require.Len(t, call.Args, 1)

	assign, ok := proc.Body.Statements[1].(*StmtFieldAssign)
	require.True(t, ok)
	require.Equal(t, "item", assign.Field.Name)
	require.NotNil(t, assign.Index)

	letV := proc.Body.Statements[2].(*StmtLet)
	access, ok := letV.Value.(*ProcTermFieldAccess)
	require.True(t, ok)
	require.Equal(t, "item", access.Field.Name)
}

func TestParseDereference(t *testing.T) {
	f := mustParse(t, `#proc f : () -> () {
		#let #mut x @ r = 1;
		r.* = 2;
	}`)

	proc := f.Items[0].(*ItemProc)
	assign, ok := proc.Body.Statements[1].(*StmtAssign)
	require.True(t, ok)

	deref, ok := assign.Target.(*ProcTermDereference)
	require.True(t, ok)

	v, ok := deref.Object.(*ProcTermVariable)
	require.True(t, ok)
	require.Equal(t, "r", v.Name.Name)
}

func TestParseArrayItem(t *testing.T) {
	f := mustParse(t, `#array Points {
		#item: f32,
		#dimension: 1,
	}`)

	arr, ok := f.Items[0].(*ItemArray)
	require.True(t, ok)
	require.Equal(t, "Points", arr.Name.Name)
	require.NotNil(t, arr.Item)
	require.Equal(t, "1", arr.Dimension.Text)
}

func TestParseStructItem(t *testing.T) {
	f := mustParse(t, `#struct Point {
		x : f32,
		y : f32,
	}`)

	st, ok := f.Items[0].(*ItemStruct)
	require.True(t, ok)
	require.Equal(t, "Point", st.Name.Name)
	require.Len(t, st.Fields, 2)
}

func TestParseInductive(t *testing.T) {
	f := mustParse(t, `#inductive Bool : Type {
		true_ : Bool,
		false_ : Bool,
	}`)

	ind, ok := f.Items[0].(*ItemInductive)
	require.True(t, ok)
	require.Equal(t, "Bool", ind.Name.Name)
	require.Len(t, ind.Branches, 2)
}

func TestParseStructValueLiteral(t *testing.T) {
	f := mustParse(t, `#proc f : () -> () {
		#let p = Point { x: 1, y: 2 };
	}`)

	proc := f.Items[0].(*ItemProc)
	let := proc.Body.Statements[0].(*StmtLet)
	val, ok := let.Value.(*ProcTermStructValue)
	require.True(t, ok)
	require.Equal(t, "Point", val.Name.Name)
	require.Len(t, val.Fields, 2)
}

func TestParseRejectsUnexpectedTrailingInput(t *testing.T) {
	toks, err := lexer.Lex(0, `#proc f : () -> () { } garbage`)
	require.NoError(t, err)

	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseErrorOnMalformedInput(t *testing.T) {
	toks, err := lexer.Lex(0, `#proc : () -> () { }`)
	require.NoError(t, err)

	_, err = Parse(toks)
	require.Error(t, err)
}

func TestParseRejectsUnrecognizedKeywordAsParseError(t *testing.T) {
	toks, err := lexer.Lex(0, "#frobnicate main;")
	require.NoError(t, err, "any #-identifier lexes fine; the parser is what rejects an unknown one")

	_, err = Parse(toks)
	require.Error(t, err)
}

func TestPrintParseRoundTrip(t *testing.T) {
	src := `
#use_builtin "exit" #as exit;
#proc main : () -> () {
	#let x = 1;
	#let #mut y @ ry = 2;
	#if u64_eq x y {
		exit 1;
	} #else {
		exit 0;
	}
}
#entrypoint main;
`
	f1 := mustParse(t, src)
	printed := Print(f1)

	toks2, err := lexer.Lex(0, printed)
	require.NoError(t, err)

	f2, err := Parse(toks2)
	require.NoError(t, err, "re-parsing printed output: %s", printed)

	// Node carries a NodeID and source position, assigned fresh by every
	// parse — the "extension fields" the round-trip property erases.
	// Everything else must match exactly between the original tree and
	// the reparsed one.
	diff := cmp.Diff(f1, f2, cmp.Comparer(func(a, b Node) bool { return true }))
	require.Empty(t, diff, "tree changed across print/reparse (up to Node erasure)")
}
