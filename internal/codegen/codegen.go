// Package codegen lowers a resolved syntax tree to Linux x86-64
// Intel-syntax assembly text. It targets the bare System V syscall
// ABI, not libc: the only external symbol the emitted text defines is
// _start, and the only way a program does I/O or exits is through the
// single "syscall" builtin tag.
package codegen

import (
	"fmt"
	"strings"

	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/syntax"
)

// Options configures the generator for a single compile.
type Options struct {
	// Ptx allows a #ptx proc's call_ptx statements to lower instead of
	// being rejected; the toolchain driver is responsible for linking
	// the resulting object against a CUDA stub when this is set.
	Ptx bool
}

// gen carries all per-compile mutable state: the output buffer, the
// loop/label counters, the rodata and bss pools, and the builtin
// alias table. A fresh gen is created per Generate call, never reused
// or shared across compiles, so nested or repeated invocations (tests)
// never interfere with each other.
type gen struct {
	opts Options
	ctx  *resolve.Ctx

	buf strings.Builder

	ifCounter   int
	loopCounter int
	loopStack   []string // end-labels, innermost last
	loopStarts []string // start-labels, innermost last, for continue

	rodata       []rodataEntry
	bssCounter   int
	bss          []bssEntry
	arrayFields  map[string]map[string]*arrayField // varName -> fieldName -> field
	structFields map[string][]*syntax.ItemStructField // struct type name -> fields

	builtinOf map[resolve.DefID]string // use_builtin alias DefID -> builtin tag

	vars       map[string]int // current proc's variable name -> rbp offset
	nextSlot   int
	frameBytes int

	// pendingArray* carries a constructor call's field layout from
	// compileConstructorCall to the enclosing let-binding, which is
	// the only place the bound variable's name is known.
	pendingArrayType   string
	pendingArrayFields []*syntax.ItemStructField
	pendingArrayLen    int
}

type rodataEntry struct {
	Label string
	Value string
}

type bssEntry struct {
	Label string
	Bytes int
}

type arrayField struct {
	Label    string
	ElemSize int
}

// Generate lowers f (already name-resolved via ctx) to assembly text.
func Generate(ctx *resolve.Ctx, f *syntax.File, opts Options) (string, error) {
	g := &gen{
		opts:         opts,
		ctx:          ctx,
		arrayFields:  make(map[string]map[string]*arrayField),
		structFields: make(map[string][]*syntax.ItemStructField),
		builtinOf:    make(map[resolve.DefID]string),
	}

	for _, item := range f.Items {
		if it, ok := item.(*syntax.ItemUseBuiltin); ok {
			if def, ok := ctx.DefOf(it.Alias.Node.ID); ok {
				g.builtinOf[def] = it.Builtin
			}
		}

		if it, ok := item.(*syntax.ItemStruct); ok {
			g.structFields[it.Name.Name] = it.Fields
		}
	}

	var entry *syntax.ItemEntrypoint

	for _, item := range f.Items {
		if it, ok := item.(*syntax.ItemEntrypoint); ok {
			entry = it

			break
		}
	}

	if entry == nil {
		return "", diag.New(diag.KindCodegen, f.Node, "missing entrypoint")
	}

	entryDef, ok := ctx.UseOf(entry.Name.Node.ID)
	if !ok {
		return "", diag.New(diag.KindCodegen, entry.Node, "entrypoint does not resolve to a proc")
	}

	g.buf.WriteString(".intel_syntax noprefix\n")
	g.buf.WriteString(".section .text\n")
	g.buf.WriteString(".globl _start\n")

	for _, item := range f.Items {
		proc, ok := item.(*syntax.ItemProc)
		if !ok {
			continue
		}

		if proc.Ptx && !g.opts.Ptx {
			// A #ptx proc is accepted structurally, but without the Ptx
			// option its body is not lowered at all: no label and no
			// code are emitted for it.
			continue
		}

		if err := g.compileProc(proc); err != nil {
			return "", err
		}
	}

	procDef, ok := g.procNameByDef(entryDef, f)
	if !ok {
		return "", diag.New(diag.KindCodegen, entry.Node, "entrypoint proc body not found")
	}

	g.buf.WriteString("_start:\n")
	g.buf.WriteString(fmt.Sprintf("\tcall %s\n", procDef))
	g.buf.WriteString("\tmov rax, 60\n")
	g.buf.WriteString("\txor rdi, rdi\n")
	g.buf.WriteString("\tsyscall\n")

	g.emitRodata()
	g.emitBss()

	return g.buf.String(), nil
}

// procNameByDef resolves a DefID back to its proc's assembly label by
// re-scanning the file's items; small files make this cheap enough
// that a dedicated reverse index isn't worth the bookkeeping.
func (g *gen) procNameByDef(def resolve.DefID, f *syntax.File) (string, bool) {
	for _, item := range f.Items {
		proc, ok := item.(*syntax.ItemProc)
		if !ok {
			continue
		}

		if d, ok := g.ctx.DefOf(proc.Name.Node.ID); ok && d == def {
			return proc.Name.Name, true
		}
	}

	return "", false
}

func (g *gen) emitRodata() {
	if len(g.rodata) == 0 {
		return
	}

	g.buf.WriteString(".section .rodata\n")

	for _, r := range g.rodata {
		g.buf.WriteString(fmt.Sprintf("%s:\n\t.ascii %q\n", r.Label, r.Value))
	}
}

func (g *gen) emitBss() {
	if len(g.bss) == 0 {
		return
	}

	g.buf.WriteString(".section .bss\n")

	for _, b := range g.bss {
		g.buf.WriteString(fmt.Sprintf("%s:\n\t.skip %d\n", b.Label, b.Bytes))
	}
}

func (g *gen) newRodataLabel(value string) string {
	label := fmt.Sprintf(".Lstr%d", len(g.rodata))
	g.rodata = append(g.rodata, rodataEntry{Label: label, Value: value})

	return label
}

func (g *gen) newIfLabels() (elseLabel, endLabel string) {
	n := g.ifCounter
	g.ifCounter++

	return fmt.Sprintf(".Lif_else%d", n), fmt.Sprintf(".Lif_end%d", n)
}

func (g *gen) newLoopLabels() (start, end string) {
	n := g.loopCounter
	g.loopCounter++

	return fmt.Sprintf(".Lloop_start%d", n), fmt.Sprintf(".Lloop_end%d", n)
}
