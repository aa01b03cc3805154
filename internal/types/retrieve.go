package types

import (
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/syntax"
)

// retrieveFile walks every proc/theorem body, emitting one fresh
// variable per term/proc-term node and the constraints relating it to
// its subterms. It never fails on its own: constraint violations only
// surface once the solver runs them to a fixpoint.
func (c *Checker) retrieveFile(ctx *resolve.Ctx, f *syntax.File) error {
	types := builtinTypes()

	for _, item := range f.Items {
		switch it := item.(type) {
		case *syntax.ItemUseBuiltin:
			if def, ok := ctx.DefOf(it.Alias.Node.ID); ok {
				if t, ok := types[it.Builtin]; ok {
					c.set(c.varOf(def), t)
				}
			}
		case *syntax.ItemProc:
			if it.Body != nil {
				c.retrieveStatements(ctx, it.Body)
			}
		case *syntax.ItemTheorem:
			c.retrieveProcTerm(ctx, it.Body)
		}
	}

	return nil
}

// retrieveProcTerm assigns pt's node a fresh variable (or reuses the
// resolved def's variable for an identifier occurrence), emits the
// constraints the retrieval rule for its shape calls for, and returns
// that variable as a term so callers folding applications/lets can
// reference it directly.
func (c *Checker) retrieveProcTerm(ctx *resolve.Ctx, pt syntax.ProcTerm) Term {
	switch t := pt.(type) {
	case *syntax.ProcTermNumber:
		v := c.varOfTypeNode(t.Node.ID)
		c.emitAt(t.Node, Var{v}, Base{TyI64})

		return Var{v}

	case *syntax.ProcTermString:
		v := c.varOfTypeNode(t.Node.ID)
		c.emitAt(t.Node, Var{v}, Base{TyStr})

		return Var{v}

	case *syntax.ProcTermUnit:
		v := c.varOfTypeNode(t.Node.ID)
		c.emitAt(t.Node, Var{v}, Base{TyUnit})

		return Var{v}

	case *syntax.ProcTermVariable:
		def, ok := ctx.UseOf(t.Name.Node.ID)
		if !ok {
			// Unresolved names are rejected during name resolution,
			// which always runs before type checking; this path only
			// fires if a caller skips that step.
			v := c.varOfTypeNode(t.Node.ID)

			return Var{v}
		}

		dv := c.varOf(def)
		c.varOfNode[t.Node.ID] = dv

		return Var{dv}

	case *syntax.ProcTermParen:
		inner := c.retrieveProcTerm(ctx, t.Inner)
		c.varOfNode[t.Node.ID] = c.termVar(inner)

		return inner

	case *syntax.ProcTermApply:
		fn := c.retrieveProcTerm(ctx, t.Fn)

		result := fn
		for _, arg := range t.Args {
			argTerm := c.retrieveProcTerm(ctx, arg)

			rv := c.freshVar() // fresh, unkeyed result slot per application step
			c.emitAt(t.Node, result, Arrow{argTerm, Var{rv}})
			result = Var{rv}
		}

		c.varOfNode[t.Node.ID] = c.termVar(result)

		return result

	case *syntax.ProcTermIf:
		return c.retrieveProcTermIf(ctx, t)

	case *syntax.ProcTermFieldAccess:
		c.retrieveProcTerm(ctx, t.Object)

		if t.Index != nil {
			c.retrieveProcTerm(ctx, t.Index)
		}

		v := c.varOfTypeNode(t.Node.ID)

		return Var{v}

	case *syntax.ProcTermDereference:
		inner := c.retrieveProcTerm(ctx, t.Object)
		c.varOfNode[t.Node.ID] = c.termVar(inner)

		return inner

	case *syntax.ProcTermConstructorCall:
		for _, a := range t.Args {
			c.retrieveProcTerm(ctx, a)
		}

		v := c.varOfTypeNode(t.Node.ID)

		return Var{v}

	case *syntax.ProcTermStructValue:
		for _, fld := range t.Fields {
			c.retrieveProcTerm(ctx, fld.Value)
		}

		v := c.varOfTypeNode(t.Node.ID)

		return Var{v}
	}

	return Unknown{}
}

func (c *Checker) retrieveProcTermIf(ctx *resolve.Ctx, it *syntax.ProcTermIf) Term {
	c.retrieveProcTerm(ctx, it.Cond)

	c.retrieveStatements(ctx, it.Then)

	if it.Else != nil {
		c.retrieveStatements(ctx, it.Else)
	}

	v := c.varOfTypeNode(it.Node.ID)

	return Var{v}
}

// termVar returns t's VarID if it already is one, or allocates a fresh
// one and binds it to t so both shapes can be looked up uniformly.
func (c *Checker) termVar(t Term) VarID {
	if v, ok := t.(Var); ok {
		return v.ID
	}

	v := c.nextVar
	c.nextVar++
	c.set(v, t)

	return v
}

func (c *Checker) retrieveStatements(ctx *resolve.Ctx, list *syntax.StatementList) {
	for _, stmt := range list.Statements {
		c.retrieveStatement(ctx, stmt)
	}
}

func (c *Checker) retrieveStatement(ctx *resolve.Ctx, stmt syntax.Stmt) {
	switch st := stmt.(type) {
	case *syntax.StmtLet:
		def, ok := ctx.DefOf(st.Name.Node.ID)
		if !ok {
			return
		}

		dv := c.varOf(def)

		if st.Value != nil {
			val := c.retrieveProcTerm(ctx, st.Value)
			c.emitAt(st.Node, Var{dv}, val)
		}

		if st.Addr != nil {
			if adef, ok := ctx.DefOf(st.Addr.Node.ID); ok {
				c.set(c.varOf(adef), Var{dv})
			}
		}

	case *syntax.StmtAssign:
		target := c.retrieveProcTerm(ctx, st.Target)
		val := c.retrieveProcTerm(ctx, st.Value)
		c.emitAt(st.Node, target, val)

	case *syntax.StmtFieldAssign:
		c.retrieveProcTerm(ctx, st.Object)

		if st.Index != nil {
			c.retrieveProcTerm(ctx, st.Index)
		}

		c.retrieveProcTerm(ctx, st.Value)

	case *syntax.StmtExpr:
		c.retrieveProcTerm(ctx, st.Expr)

	case *syntax.StmtLoop:
		c.retrieveStatements(ctx, st.Body)

	case *syntax.StmtReturn:
		if st.Value != nil {
			c.retrieveProcTerm(ctx, st.Value)
		}

	case *syntax.StmtCallPtx:
		for _, a := range st.Args {
			c.retrieveProcTerm(ctx, a)
		}

	case *syntax.ProcTermIf:
		c.retrieveProcTermIf(ctx, st)
	}
}
