package codegen

import (
	"strings"
	"testing"

	"github.com/golangee/feic/internal/lexer"
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/syntax"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string, opts Options) (string, error) {
	t.Helper()

	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)

	f, err := syntax.Parse(toks)
	require.NoError(t, err)

	ctx, err := resolve.Run(f)
	require.NoError(t, err)

	return Generate(ctx, f, opts)
}

func TestGenerateHelloWorld(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	syscall 1 1 "Hello, world!\n" 14 0 0;
	syscall 60 0 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, ".globl _start")
	require.Contains(t, asm, "main:")
	require.Contains(t, asm, "_start:")
	require.Contains(t, asm, "call main")
	require.Contains(t, asm, "syscall")
}

func TestGenerateExit42(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	syscall 60 42 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, "mov rax, 60")
	require.Contains(t, asm, "mov rdi, 42")
}

func TestGenerateTwoLetsReserveTwoStackSlots(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let x = 40;
	#let y = 2;
	syscall 60 y 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, "sub rsp, 16")
}

func TestGenerateStatementIf(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let x = 1;
	#if u64_eq x x {
		syscall 60 42 0 0 0 0;
	} #else {
		syscall 60 0 0 0 0 0;
	}
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, "cmp rax, rbx")
	require.Contains(t, asm, "jne .Lif_else0")
}

func TestGenerateLoopBreakContinue(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let total = 0;
	#loop {
		#if u64_eq total total {
			#break;
		};
		#continue;
	};
	syscall 60 55 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, ".Lloop_start0:")
	require.Contains(t, asm, "jmp .Lloop_end0")
	require.Contains(t, asm, "jmp .Lloop_start0")
}

func TestGenerateRejectsBreakOutsideLoop(t *testing.T) {
	_, err := compile(t, `
#proc main : () -> () {
	#break;
}
#entrypoint main;
`, Options{})
	require.Error(t, err)
}

func TestGenerateRejectsSyscallWithWrongArgCount(t *testing.T) {
	_, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	syscall 60 0;
}
#entrypoint main;
`, Options{})
	require.Error(t, err)
}

func TestGenerateRejectsMissingEntrypoint(t *testing.T) {
	_, err := compile(t, `
#proc main : () -> () {
}
`, Options{})
	require.Error(t, err)
}

func TestGenerateLetWithoutInitializerZeroInits(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let x;
	syscall 60 x 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, "mov qword ptr [rbp-8], 0")
}

func TestGenerateArrayOfStructsFieldAccess(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#struct Point {
	x: u64,
	y: u64,
}
#proc main : () -> () {
	#let pts = Point::new_with_size 4u64;
	pts.x 0 <- 7;
	syscall 60 0 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)
	require.Contains(t, asm, ".section .bss")
	require.Contains(t, asm, ".skip 32")
}

func TestGenerateFieldAssignSavesAddressAcrossIndexedValue(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#struct Point {
	x: u64,
	y: u64,
}
#proc main : () -> () {
	#let pts = Point::new_with_size 4u64;
	#let idx = 0;
	pts.x idx <- pts.y idx;
	syscall 60 0 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)

	// The target address is computed into rbx before the value (itself
	// an indexed field access that recomputes into rbx) is compiled, so
	// it must be saved across that call and restored before the store.
	addrComputed := strings.Index(asm, "mov rbx, rax")
	save := strings.Index(asm, "push rbx")
	restore := strings.LastIndex(asm, "pop rbx")
	store := strings.LastIndex(asm, "mov [rbx], rax")

	require.GreaterOrEqual(t, save, addrComputed)
	require.Greater(t, restore, save)
	require.Greater(t, store, restore)
}

func TestGenerateLetMutAddressAlias(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let #mut x @ r = 1;
	r.* = 2;
	syscall 60 x 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)

	// x lives at [rbp-8]; the alias setup takes its address and stores
	// it into r's own slot at [rbp-16].
	require.Contains(t, asm, "lea rax, [rbp-8]")
	require.Contains(t, asm, "mov [rbp-16], rax")

	// "r.* = 2" must dereference through r's value (the pointer &x),
	// not re-take r's own address — loading r's slot, not lea-ing it —
	// or the store clobbers r instead of x.
	aliasSetup := strings.Index(asm, "mov [rbp-16], rax")
	loadPointer := strings.Index(asm, "mov rax, [rbp-16]")
	store := strings.Index(asm, "mov [rax], rbx")
	require.Greater(t, loadPointer, aliasSetup, "dereference assignment must load r's value")
	require.Greater(t, store, loadPointer)
	require.NotContains(t, asm, "lea rax, [rbp-16]", "dereference assignment must not take r's own address")

	// the syscall argument reads x back from its own slot.
	require.Contains(t, asm, "mov rax, [rbp-8]")
}

func TestGenerateDereferenceReadLoadsPointerThenTarget(t *testing.T) {
	asm, err := compile(t, `
#use_builtin "syscall" #as syscall;
#proc main : () -> () {
	#let #mut x @ r = 5;
	#let y = r.*;
	syscall 60 y 0 0 0 0;
}
#entrypoint main;
`, Options{})
	require.NoError(t, err)

	// y := r.* must first load r's own value (&x) and only then
	// dereference it, not take the address of r itself.
	require.Contains(t, asm, "mov rax, [rbp-16]")
	require.Contains(t, asm, "mov rax, [rax]")
	require.NotContains(t, asm, "lea rax, [rbp-16]")
}
