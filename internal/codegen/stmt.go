package codegen

import (
	"fmt"

	"github.com/golangee/feic/internal/syntax"
)

func (g *gen) compileStatements(list *syntax.StatementList) error {
	for _, stmt := range list.Statements {
		if err := g.compileStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (g *gen) compileStatement(stmt syntax.Stmt) error {
	switch st := stmt.(type) {
	case *syntax.StmtLet:
		return g.compileLet(st)
	case *syntax.StmtAssign:
		return g.compileAssign(st)
	case *syntax.StmtFieldAssign:
		return g.compileFieldAssign(st)
	case *syntax.StmtExpr:
		return g.compileProcTerm(st.Expr)
	case *syntax.StmtLoop:
		return g.compileLoop(st)
	case *syntax.StmtBreak:
		if len(g.loopStack) == 0 {
			return errBreakOutsideLoop(st.Node)
		}

		g.buf.WriteString(fmt.Sprintf("\tjmp %s\n", g.loopStack[len(g.loopStack)-1]))

		return nil
	case *syntax.StmtContinue:
		if len(g.loopStarts) == 0 {
			return errContinueOutsideLoop(st.Node)
		}

		g.buf.WriteString(fmt.Sprintf("\tjmp %s\n", g.loopStarts[len(g.loopStarts)-1]))

		return nil
	case *syntax.StmtReturn:
		if st.Value != nil {
			if err := g.compileProcTerm(st.Value); err != nil {
				return err
			}
		}

		if g.frameBytes > 0 {
			g.buf.WriteString("\tmov rsp, rbp\n")
			g.buf.WriteString("\tpop rbp\n")
		}

		g.buf.WriteString("\tret\n")

		return nil
	case *syntax.StmtCallPtx:
		return g.compileCallPtx(st)
	case *syntax.ProcTermIf:
		return g.compileIfStatement(st)
	default:
		return errUnsupported(stmt, "statement")
	}
}

func (g *gen) compileLet(st *syntax.StmtLet) error {
	off := g.allocSlot(st.Name.Name)

	if st.Value != nil {
		if err := g.compileProcTerm(st.Value); err != nil {
			return err
		}

		g.buf.WriteString(fmt.Sprintf("\tmov [rbp-%d], rax\n", off))

		if _, ok := st.Value.(*syntax.ProcTermConstructorCall); ok {
			if err := g.bindArrayVar(st.Name.Name); err != nil {
				return err
			}
		}
	} else {
		// Zero-initialized: the sub-rsp prologue already leaves the
		// slot's bytes undefined, so an explicit store is required.
		g.buf.WriteString(fmt.Sprintf("\tmov qword ptr [rbp-%d], 0\n", off))
	}

	if st.Addr != nil {
		addrOff := g.allocSlot(st.Addr.Name)
		g.buf.WriteString(fmt.Sprintf("\tlea rax, [rbp-%d]\n", off))
		g.buf.WriteString(fmt.Sprintf("\tmov [rbp-%d], rax\n", addrOff))
	}

	return nil
}

func (g *gen) compileAssign(st *syntax.StmtAssign) error {
	if err := g.compileProcTerm(st.Value); err != nil {
		return err
	}

	g.buf.WriteString("\tpush rax\n")

	if deref, ok := st.Target.(*syntax.ProcTermDereference); ok {
		// deref.Object is the pointer (e.g. "r"); load its value — the
		// address it holds — rather than taking r's own address, or
		// the store below clobbers r instead of what it points to.
		if err := g.compileProcTerm(deref.Object); err != nil {
			return err
		}

		g.buf.WriteString("\tpop rbx\n")
		g.buf.WriteString("\tmov [rax], rbx\n")

		return nil
	}

	v, ok := st.Target.(*syntax.ProcTermVariable)
	if !ok {
		return errUnsupported(st.Node, "assignment target")
	}

	off, ok := g.vars[v.Name.Name]
	if !ok {
		return errUnsupported(st.Node, "assignment to undeclared variable")
	}

	g.buf.WriteString("\tpop rax\n")
	g.buf.WriteString(fmt.Sprintf("\tmov [rbp-%d], rax\n", off))

	return nil
}

func (g *gen) compileFieldAssign(st *syntax.StmtFieldAssign) error {
	addr, err := g.arrayElementAddress(st.Object, st.Field, st.Index)
	if err != nil {
		return err
	}

	// An indexed address is left in rbx by arrayElementAddress; save it
	// across compiling the value, which is free to clobber rax/rbx
	// itself (e.g. a nested indexed field access).
	if addr == "rbx" {
		g.buf.WriteString("\tpush rbx\n")
	}

	if err := g.compileProcTerm(st.Value); err != nil {
		return err
	}

	if addr == "rbx" {
		g.buf.WriteString("\tpop rbx\n")
	}

	g.buf.WriteString(fmt.Sprintf("\tmov [%s], rax\n", addr))

	return nil
}

func (g *gen) compileLoop(st *syntax.StmtLoop) error {
	start, end := g.newLoopLabels()

	g.loopStack = append(g.loopStack, end)
	g.loopStarts = append(g.loopStarts, start)

	defer func() {
		g.loopStack = g.loopStack[:len(g.loopStack)-1]
		g.loopStarts = g.loopStarts[:len(g.loopStarts)-1]
	}()

	g.buf.WriteString(fmt.Sprintf("%s:\n", start))

	if err := g.compileStatements(st.Body); err != nil {
		return err
	}

	g.buf.WriteString(fmt.Sprintf("\tjmp %s\n", start))
	g.buf.WriteString(fmt.Sprintf("%s:\n", end))

	return nil
}

// compileIfStatement compiles a ProcTermIf used as a statement: the
// branch values, if any, are evaluated for effect and discarded.
func (g *gen) compileIfStatement(st *syntax.ProcTermIf) error {
	_, err := g.compileIf(st)

	return err
}

// compileIf emits the condition test and both branches, leaving
// whichever branch's trailing expression value (if any) in rax — so
// the same routine serves both statement and expression positions.
func (g *gen) compileIf(it *syntax.ProcTermIf) (bool, error) {
	if err := g.compileCondition(it.Cond); err != nil {
		return false, err
	}

	elseLabel, endLabel := g.newIfLabels()

	target := elseLabel
	if it.Else == nil {
		target = endLabel
	}

	g.buf.WriteString(fmt.Sprintf("\tjne %s\n", target))

	if err := g.compileStatements(it.Then); err != nil {
		return false, err
	}

	if it.Else != nil {
		g.buf.WriteString(fmt.Sprintf("\tjmp %s\n", endLabel))
		g.buf.WriteString(fmt.Sprintf("%s:\n", elseLabel))

		if err := g.compileStatements(it.Else); err != nil {
			return false, err
		}
	}

	g.buf.WriteString(fmt.Sprintf("%s:\n", endLabel))

	return true, nil
}

// compileCondition lowers the only supported if-condition shape: an
// application of the builtin "u64_eq" to exactly two operands.
func (g *gen) compileCondition(cond syntax.ProcTerm) error {
	apply, ok := cond.(*syntax.ProcTermApply)
	if !ok || len(apply.Args) != 2 {
		return errUnsupported(cond, "if-condition (only u64_eq a b is supported)")
	}

	fnVar, ok := apply.Fn.(*syntax.ProcTermVariable)
	if !ok || fnVar.Name.Name != "u64_eq" {
		return errUnsupported(cond, "if-condition (only u64_eq a b is supported)")
	}

	if err := g.compileProcTerm(apply.Args[0]); err != nil {
		return err
	}

	g.buf.WriteString("\tpush rax\n")

	if err := g.compileProcTerm(apply.Args[1]); err != nil {
		return err
	}

	g.buf.WriteString("\tmov rbx, rax\n")
	g.buf.WriteString("\tpop rax\n")
	g.buf.WriteString("\tcmp rax, rbx\n")

	return nil
}

func (g *gen) compileCallPtx(st *syntax.StmtCallPtx) error {
	if !g.opts.Ptx {
		return errUnsupported(st.Node, "call_ptx (compiler was not invoked with --ptx)")
	}

	// Device-kernel launch sequencing is the external CUDA runtime's
	// job; this compiler only validates shape and leaves a call to the
	// kernel's host-side launch stub for the linked-in CUDA glue to
	// provide, per the split documented in the toolchain driver.
	g.buf.WriteString(fmt.Sprintf("\tcall %s_launch\n", st.Name.Name))

	return nil
}
