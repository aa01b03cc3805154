package types

import (
	"testing"

	"github.com/golangee/feic/internal/lexer"
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/syntax"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseAndResolve(t *testing.T, src string) (*syntax.File, *resolve.Ctx) {
	t.Helper()

	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)

	f, err := syntax.Parse(toks)
	require.NoError(t, err)

	ctx, err := resolve.Run(f)
	require.NoError(t, err)

	return f, ctx
}

func TestCheckHelloWorld(t *testing.T) {
	f, ctx := parseAndResolve(t, `
#use_builtin "write_to_stdout" #as write_to_stdout;
#use_builtin "exit" #as exit;
#proc main : () -> () {
	write_to_stdout "Hello, world!\n";
	exit 0;
}
#entrypoint main;
`)

	_, err := Check(ctx, f)
	require.NoError(t, err)
}

func TestCheckNumberLiteralIsI64(t *testing.T) {
	f, ctx := parseAndResolve(t, `
#use_builtin "exit" #as exit;
#proc main : () -> () {
	#let x = 42;
	exit x;
}
#entrypoint main;
`)

	c, err := Check(ctx, f)
	require.NoError(t, err)

	proc := f.Items[1].(*syntax.ItemProc)
	letStmt := proc.Body.Statements[0].(*syntax.StmtLet)

	ty, ok := c.TypeOf(letStmt.Value.(*syntax.ProcTermNumber).Node.ID)
	require.True(t, ok)
	require.Equal(t, Base{TyI64}, ty)
}

func TestCheckStringLiteralIsStr(t *testing.T) {
	f, ctx := parseAndResolve(t, `
#use_builtin "write_to_stdout" #as write_to_stdout;
#proc main : () -> () {
	write_to_stdout "hi";
}
#entrypoint main;
`)

	c, err := Check(ctx, f)
	require.NoError(t, err)

	proc := f.Items[1].(*syntax.ItemProc)
	call := proc.Body.Statements[0].(*syntax.StmtExpr).Expr.(*syntax.ProcTermApply)
	arg := call.Args[0].(*syntax.ProcTermString)

	ty, ok := c.TypeOf(arg.Node.ID)
	require.True(t, ok)
	require.Equal(t, Base{TyStr}, ty)
}

func TestCheckRejectsBuiltinArgumentTypeMismatch(t *testing.T) {
	f, ctx := parseAndResolve(t, `
#use_builtin "exit" #as exit;
#proc main : () -> () {
	exit "not a number";
}
#entrypoint main;
`)

	_, err := Check(ctx, f)
	require.Error(t, err)
}

func TestCheckSnapshotOfInferredLiteralTypes(t *testing.T) {
	f, ctx := parseAndResolve(t, `
#use_builtin "exit" #as exit;
#proc main : () -> () {
	#let n = 42;
	#let s = "hi";
	exit n;
}
#entrypoint main;
`)

	c, err := Check(ctx, f)
	require.NoError(t, err)

	proc := f.Items[1].(*syntax.ItemProc)
	nLet := proc.Body.Statements[0].(*syntax.StmtLet)
	sLet := proc.Body.Statements[1].(*syntax.StmtLet)

	got := map[string]Term{}

	if ty, ok := c.TypeOf(nLet.Value.(*syntax.ProcTermNumber).Node.ID); ok {
		got["n"] = ty
	}

	if ty, ok := c.TypeOf(sLet.Value.(*syntax.ProcTermString).Node.ID); ok {
		got["s"] = ty
	}

	want := map[string]Term{
		"n": Base{TyI64},
		"s": Base{TyStr},
	}

	require.Empty(t, cmp.Diff(want, got))
}

func TestOccursCheckReportsInfiniteTypeDistinctlyFromMismatch(t *testing.T) {
	c := NewChecker(resolve.NewCtx())

	v := c.freshVar()
	self := Arrow{Var{v}, Base{TyI64}}

	err := c.occursCheck(v, self)
	require.Error(t, err)
	require.Contains(t, err.Error(), "infinite type")
	require.NotContains(t, err.Error(), "type mismatch")
}

func TestCheckEqI64IsNotBool(t *testing.T) {
	// __eq_i64 : I64 -> I64 -> I64, not I64 -> I64 -> Bool — a
	// deliberately preserved quirk, not a bug to fix here.
	f, ctx := parseAndResolve(t, `#proc f : () -> () {
		#let x = 1;
		#if u64_eq x x {
			#let y = 1;
		} #else {
			#let y = 2;
		}
	}`)

	c, err := Check(ctx, f)
	require.NoError(t, err)

	for def, name := range ctx.Names {
		if name != "__eq_i64" {
			continue
		}

		ty, ok := c.get(c.varOf(def))
		require.True(t, ok)
		require.Equal(t, Arrow{Base{TyI64}, Arrow{Base{TyI64}, Base{TyI64}}}, c.expand(ty))
	}
}
