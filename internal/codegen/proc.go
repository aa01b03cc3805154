package codegen

import (
	"fmt"

	"github.com/golangee/feic/internal/syntax"
)

// compileProc emits one proc's label, optional stack frame, body, and
// epilogue, per the fixed five-step layout: label, conditional prologue,
// body, conditional epilogue, ret.
func (g *gen) compileProc(proc *syntax.ItemProc) error {
	g.vars = make(map[string]int)
	g.nextSlot = 0
	g.frameBytes = 0
	g.loopStack = nil

	slots := 0
	if proc.Body != nil {
		slots = countSlots(proc.Body)
	}

	g.buf.WriteString(fmt.Sprintf("%s:\n", proc.Name.Name))

	hasFrame := slots > 0
	if hasFrame {
		g.frameBytes = slots * 8
		g.buf.WriteString("\tpush rbp\n")
		g.buf.WriteString("\tmov rbp, rsp\n")
		g.buf.WriteString(fmt.Sprintf("\tsub rsp, %d\n", g.frameBytes))
	}

	if proc.Body != nil {
		if err := g.compileStatements(proc.Body); err != nil {
			return err
		}
	}

	if hasFrame {
		g.buf.WriteString("\tmov rsp, rbp\n")
		g.buf.WriteString("\tpop rbp\n")
	}

	g.buf.WriteString("\tret\n")

	return nil
}

// countSlots scans a body (recursing into nested if/loop blocks) and
// sums the stack slots every let consumes: 1 for a plain let, 2 for a
// let-mut (value slot plus address slot), counted even when the
// address alias is never actually read — the conservative scan the
// specification calls for, not a liveness-aware one.
func countSlots(list *syntax.StatementList) int {
	n := 0

	for _, stmt := range list.Statements {
		n += countSlotsStmt(stmt)
	}

	return n
}

func countSlotsStmt(stmt syntax.Stmt) int {
	switch st := stmt.(type) {
	case *syntax.StmtLet:
		if st.Mut {
			return 2
		}

		return 1
	case *syntax.StmtLoop:
		return countSlots(st.Body)
	case *syntax.ProcTermIf:
		n := countSlots(st.Then)
		if st.Else != nil {
			n += countSlots(st.Else)
		}

		return n
	default:
		return 0
	}
}

// allocSlot reserves the next 8-byte slot for name and returns its
// positive rbp-relative offset. Re-binding an already-allocated name
// (shadowing in a nested scope) still consumes a fresh slot, matching
// the conservative frame-size scan in countSlots.
func (g *gen) allocSlot(name string) int {
	g.nextSlot++
	off := g.nextSlot * 8
	g.vars[name] = off

	return off
}
