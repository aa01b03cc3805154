package resolve

import "github.com/golangee/feic/internal/syntax"

// useFile is pass 2: walks the defined tree with a scope stack,
// resolving each identifier occurrence to the DefID of its binder and
// attaching the result to ctx.Uses, keyed by the use node's NodeID.
// scope already holds the prelude bindings in its outermost frame
// before this is called.
func useFile(ctx *Ctx, scope *scopeStack, f *syntax.File) error {
	scope.push()
	defer scope.pop()

	for name, id := range ctx.Paths.Children(ctx.fileDef) {
		scope.declareOrShadow(name, id)
	}

	for _, item := range f.Items {
		if err := useItem(ctx, scope, item); err != nil {
			return err
		}
	}

	return nil
}

func useItem(ctx *Ctx, scope *scopeStack, item syntax.Item) error {
	switch it := item.(type) {
	case *syntax.ItemEntrypoint:
		return useIdent(ctx, scope, it.Name)
	case *syntax.ItemProc:
		return useItemProc(ctx, scope, it)
	case *syntax.ItemTheorem:
		scope.push()
		defer scope.pop()

		bindArrowParams(ctx, scope, it.Type)

		return useProcTerm(ctx, scope, it.Body)
	case *syntax.ItemTypeDef:
		return useTerm(ctx, scope, it.Type)
	case *syntax.ItemInductive:
		return useTerm(ctx, scope, it.Type)
	case *syntax.ItemArray:
		if it.Item != nil {
			return useTerm(ctx, scope, it.Item)
		}
	}

	return nil
}

func useItemProc(ctx *Ctx, scope *scopeStack, it *syntax.ItemProc) error {
	if err := useTerm(ctx, scope, it.Sig); err != nil {
		return err
	}

	scope.push()
	defer scope.pop()

	bindArrowParams(ctx, scope, it.Sig)

	if it.Body == nil {
		return nil
	}

	return useStatements(ctx, scope, it.Body)
}

func bindArrowParams(ctx *Ctx, scope *scopeStack, t syntax.Term) {
	for {
		dep, ok := t.(*syntax.TermArrowDep)
		if !ok {
			return
		}

		if id, ok := ctx.DefOf(dep.Param.Node.ID); ok {
			scope.declareOrShadow(dep.Param.Name, id)
		}

		t = dep.To
	}
}

func useIdent(ctx *Ctx, scope *scopeStack, id *syntax.Ident) error {
	def, ok := scope.lookup(id.Name)
	if !ok {
		return errUnresolved(id.Node, id.Name)
	}

	ctx.Uses[id.Node.ID] = def

	return nil
}

func useTerm(ctx *Ctx, scope *scopeStack, t syntax.Term) error {
	switch tt := t.(type) {
	case *syntax.TermVariable:
		return useIdent(ctx, scope, tt.Name)
	case *syntax.TermParen:
		return useTerm(ctx, scope, tt.Inner)
	case *syntax.TermApply:
		if err := useTerm(ctx, scope, tt.Fn); err != nil {
			return err
		}

		return useTerm(ctx, scope, tt.Arg)
	case *syntax.TermArrowNoDep:
		if err := useTerm(ctx, scope, tt.From); err != nil {
			return err
		}

		return useTerm(ctx, scope, tt.To)
	case *syntax.TermArrowDep:
		if err := useTerm(ctx, scope, tt.From); err != nil {
			return err
		}

		scope.push()
		defer scope.pop()

		if id, ok := ctx.DefOf(tt.Param.Node.ID); ok {
			scope.declareOrShadow(tt.Param.Name, id)
		}

		return useTerm(ctx, scope, tt.To)
	case *syntax.TermStruct:
		for _, fld := range tt.Fields {
			if err := useTerm(ctx, scope, fld.Value); err != nil {
				return err
			}
		}
	case *syntax.TermMatch:
		if err := useTerm(ctx, scope, tt.Scrutinee); err != nil {
			return err
		}

		for _, arm := range tt.Arms {
			if err := useTerm(ctx, scope, arm.Body); err != nil {
				return err
			}
		}
	}

	return nil
}

func useStatements(ctx *Ctx, scope *scopeStack, list *syntax.StatementList) error {
	scope.push()
	defer scope.pop()

	for _, stmt := range list.Statements {
		if err := useStatement(ctx, scope, stmt); err != nil {
			return err
		}
	}

	return nil
}

func useStatement(ctx *Ctx, scope *scopeStack, stmt syntax.Stmt) error {
	switch st := stmt.(type) {
	case *syntax.StmtLet:
		if st.Value != nil {
			if err := useProcTerm(ctx, scope, st.Value); err != nil {
				return err
			}
		}

		if id, ok := ctx.DefOf(st.Name.Node.ID); ok {
			scope.declareOrShadow(st.Name.Name, id)
		}

		if st.Addr != nil {
			if id, ok := ctx.DefOf(st.Addr.Node.ID); ok {
				scope.declareOrShadow(st.Addr.Name, id)
			}
		}
	case *syntax.StmtAssign:
		if err := useProcTerm(ctx, scope, st.Target); err != nil {
			return err
		}

		return useProcTerm(ctx, scope, st.Value)
	case *syntax.StmtFieldAssign:
		if err := useProcTerm(ctx, scope, st.Object); err != nil {
			return err
		}

		if st.Index != nil {
			if err := useProcTerm(ctx, scope, st.Index); err != nil {
				return err
			}
		}

		return useProcTerm(ctx, scope, st.Value)
	case *syntax.StmtExpr:
		return useProcTerm(ctx, scope, st.Expr)
	case *syntax.StmtLoop:
		return useStatements(ctx, scope, st.Body)
	case *syntax.StmtReturn:
		if st.Value != nil {
			return useProcTerm(ctx, scope, st.Value)
		}
	case *syntax.StmtCallPtx:
		if err := useIdent(ctx, scope, st.Name); err != nil {
			return err
		}

		for _, a := range st.Args {
			if err := useProcTerm(ctx, scope, a); err != nil {
				return err
			}
		}
	case *syntax.ProcTermIf:
		return useProcTermIf(ctx, scope, st)
	}

	return nil
}

func useProcTermIf(ctx *Ctx, scope *scopeStack, it *syntax.ProcTermIf) error {
	if err := useProcTerm(ctx, scope, it.Cond); err != nil {
		return err
	}

	if err := useStatements(ctx, scope, it.Then); err != nil {
		return err
	}

	if it.Else != nil {
		return useStatements(ctx, scope, it.Else)
	}

	return nil
}

func useProcTerm(ctx *Ctx, scope *scopeStack, t syntax.ProcTerm) error {
	switch pt := t.(type) {
	case *syntax.ProcTermVariable:
		return useIdent(ctx, scope, pt.Name)
	case *syntax.ProcTermParen:
		return useProcTerm(ctx, scope, pt.Inner)
	case *syntax.ProcTermApply:
		if err := useProcTerm(ctx, scope, pt.Fn); err != nil {
			return err
		}

		for _, a := range pt.Args {
			if err := useProcTerm(ctx, scope, a); err != nil {
				return err
			}
		}
	case *syntax.ProcTermFieldAccess:
		if err := useProcTerm(ctx, scope, pt.Object); err != nil {
			return err
		}

		if pt.Index != nil {
			return useProcTerm(ctx, scope, pt.Index)
		}
	case *syntax.ProcTermDereference:
		return useProcTerm(ctx, scope, pt.Object)
	case *syntax.ProcTermConstructorCall:
		// pt.Type and pt.Method are a qualified "A::b" path, resolved
		// through the path table rather than the lexical scope stack.
		// pt.Method only resolves when it names a declared child (an
		// inductive branch); an intrinsic constructor method such as
		// "new_with_size" has no path-table entry and is left for the
		// code generator to recognize by name.
		if typeID, ok := ctx.Paths.Lookup(ctx.fileDef, pt.Type.Name); ok {
			ctx.Uses[pt.Type.Node.ID] = typeID

			if methodID, err := ctx.Paths.LookupQualified(ctx.fileDef, []string{pt.Type.Name, pt.Method.Name}); err == nil {
				ctx.Uses[pt.Method.Node.ID] = methodID
			}
		}

		for _, a := range pt.Args {
			if err := useProcTerm(ctx, scope, a); err != nil {
				return err
			}
		}
	case *syntax.ProcTermStructValue:
		for _, fld := range pt.Fields {
			if err := useProcTerm(ctx, scope, fld.Value); err != nil {
				return err
			}
		}
	case *syntax.ProcTermIf:
		return useProcTermIf(ctx, scope, pt)
	}

	return nil
}
