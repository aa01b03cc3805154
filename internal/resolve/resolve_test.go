package resolve

import (
	"testing"

	"github.com/golangee/feic/internal/lexer"
	"github.com/golangee/feic/internal/syntax"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()

	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)

	f, err := syntax.Parse(toks)
	require.NoError(t, err)

	return f
}

func TestResolveHelloWorld(t *testing.T) {
	f := parse(t, `
#use_builtin "write_to_stdout" #as write_to_stdout;
#use_builtin "exit" #as exit;
#proc main : () -> () {
	write_to_stdout "Hello, world!\n";
	exit 0;
}
#entrypoint main;
`)

	ctx, err := Run(f)
	require.NoError(t, err)

	proc := f.Items[2].(*syntax.ItemProc)
	procDef, ok := ctx.DefOf(proc.Name.Node.ID)
	require.True(t, ok)

	entry := f.Items[3].(*syntax.ItemEntrypoint)
	entryUse, ok := ctx.UseOf(entry.Name.Node.ID)
	require.True(t, ok)
	require.Equal(t, procDef, entryUse)
}

func TestResolveLetShadowingAcrossScopes(t *testing.T) {
	f := parse(t, `#proc f : () -> () {
		#let x = 1;
		#if u64_eq x x {
			#let x = 2;
			exit x;
		} #else {
			exit x;
		}
	}
	#use_builtin "exit" #as exit;
	`)

	_, err := Run(f)
	require.NoError(t, err)
}

func TestResolveDuplicateNameRejected(t *testing.T) {
	f := parse(t, `#proc f : () -> () {
		#let x = 1;
		#let x = 2;
	}`)

	_, err := Run(f)
	require.Error(t, err)
}

func TestResolveUnresolvedNameRejected(t *testing.T) {
	f := parse(t, `#proc f : () -> () {
		#let y = unknown_name;
	}`)

	_, err := Run(f)
	require.Error(t, err)
}

func TestResolveDependentArrowParam(t *testing.T) {
	f := parse(t, `#proc f : (x : I64) -> I64 { #return x; }`)

	_, err := Run(f)
	require.NoError(t, err)
}

func TestResolveSnapshotOfNameBindings(t *testing.T) {
	f := parse(t, `
#use_builtin "exit" #as exit;
#proc main : () -> () {
	exit 0;
}
#entrypoint main;
`)

	ctx, err := Run(f)
	require.NoError(t, err)

	proc := f.Items[1].(*syntax.ItemProc)
	entry := f.Items[2].(*syntax.ItemEntrypoint)

	procDef, ok := ctx.DefOf(proc.Name.Node.ID)
	require.True(t, ok)

	entryUse, ok := ctx.UseOf(entry.Name.Node.ID)
	require.True(t, ok)

	got := map[string]DefID{
		"proc def":  procDef,
		"entry use": entryUse,
	}
	want := map[string]DefID{
		"proc def":  procDef,
		"entry use": procDef,
	}

	require.Empty(t, cmp.Diff(want, got), "entrypoint must resolve to the proc it names")
}

func TestResolveQualifiedConstructorCallThroughPathTable(t *testing.T) {
	f := parse(t, `#inductive Bool : Type {
		true_ : Bool,
		false_ : Bool,
	}
	#proc f : () -> () {
		#let b = Bool::true_;
	}`)

	ctx, err := Run(f)
	require.NoError(t, err)

	ind := f.Items[0].(*syntax.ItemInductive)
	indDef, ok := ctx.DefOf(ind.Name.Node.ID)
	require.True(t, ok)

	branchDef, ok := ctx.DefOf(ind.Branches[0].Node.ID)
	require.True(t, ok)

	proc := f.Items[1].(*syntax.ItemProc)
	let := proc.Body.Statements[0].(*syntax.StmtLet)
	call := let.Value.(*syntax.ProcTermConstructorCall)

	typeUse, ok := ctx.UseOf(call.Type.Node.ID)
	require.True(t, ok)
	require.Equal(t, indDef, typeUse)

	methodUse, ok := ctx.UseOf(call.Method.Node.ID)
	require.True(t, ok)
	require.Equal(t, branchDef, methodUse)

	// the path table also backs a direct qualified lookup from the file.
	fileDef, ok := ctx.DefOf(f.Node.ID)
	require.True(t, ok)

	resolved, err := ctx.Paths.LookupQualified(fileDef, []string{"Bool", "true_"})
	require.NoError(t, err)
	require.Equal(t, branchDef, resolved)
}

func TestResolveConstructorCallToIntrinsicMethodLeavesMethodUnresolved(t *testing.T) {
	f := parse(t, `#struct Point {
		x: u64,
		y: u64,
	}
	#proc f : () -> () {
		#let p = Point::new_with_size 4u64;
	}`)

	ctx, err := Run(f)
	require.NoError(t, err)

	proc := f.Items[1].(*syntax.ItemProc)
	let := proc.Body.Statements[0].(*syntax.StmtLet)
	call := let.Value.(*syntax.ProcTermConstructorCall)

	_, ok := ctx.UseOf(call.Type.Node.ID)
	require.True(t, ok, "the struct type name still resolves via the path table")

	_, ok = ctx.UseOf(call.Method.Node.ID)
	require.False(t, ok, "new_with_size is an intrinsic constructor method, not a declared child")
}
