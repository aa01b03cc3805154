package resolve

import "github.com/golangee/feic/internal/syntax"

// defineFile is pass 1: a deterministic pre-order walk allocating a
// fresh DefID for every binding site and attaching it to the ctx.Defs
// table, keyed by the binder node's NodeID.
func defineFile(ctx *Ctx, f *syntax.File) error {
	ctx.fileDef = ctx.alloc(f.Node, "<file>")

	seen := map[string]bool{}

	for _, item := range f.Items {
		name, node, isBinder := itemBinderName(item)
		if !isBinder {
			continue
		}

		if seen[name] {
			return errDuplicate(node, name)
		}

		seen[name] = true
		id := ctx.alloc(node, name)
		ctx.Paths.Add(ctx.fileDef, name, id)

		if err := defineItemChildren(ctx, id, item); err != nil {
			return err
		}
	}

	return nil
}

// itemBinderName reports the name an item introduces at file scope,
// if any. ItemEntrypoint introduces no new name (it references an
// existing proc); every other item variant does.
func itemBinderName(item syntax.Item) (string, syntax.Node, bool) {
	switch it := item.(type) {
	case *syntax.ItemProc:
		return it.Name.Name, it.Name.Node, true
	case *syntax.ItemUseBuiltin:
		return it.Alias.Name, it.Alias.Node, true
	case *syntax.ItemTypeDef:
		return it.Name.Name, it.Name.Node, true
	case *syntax.ItemInductive:
		return it.Name.Name, it.Name.Node, true
	case *syntax.ItemTheorem:
		return it.Name.Name, it.Name.Node, true
	case *syntax.ItemArray:
		return it.Name.Name, it.Name.Node, true
	case *syntax.ItemStruct:
		return it.Name.Name, it.Name.Node, true
	default:
		return "", syntax.Node{}, false
	}
}

// defineItemChildren allocates DefIDs for the binding sites nested
// inside one item: an inductive's branches, a proc's dependent-arrow
// parameters, and everything inside a proc body. owner is the DefID
// just allocated for item itself, the path table entry point for any
// of its own exported children.
func defineItemChildren(ctx *Ctx, owner DefID, item syntax.Item) error {
	switch it := item.(type) {
	case *syntax.ItemInductive:
		seen := map[string]bool{}

		for _, b := range it.Branches {
			if seen[b.Name.Name] {
				return errDuplicate(b.Node, b.Name.Name)
			}

			seen[b.Name.Name] = true
			bid := ctx.alloc(b.Node, b.Name.Name)
			ctx.Paths.Add(owner, b.Name.Name, bid)
		}
	case *syntax.ItemProc:
		defineArrowParams(ctx, it.Sig)

		if it.Body != nil {
			return defineStatements(ctx, it.Body)
		}
	case *syntax.ItemTheorem:
		defineArrowParams(ctx, it.Type)
	}

	return nil
}

// defineArrowParams allocates a DefID for each dependent-arrow
// parameter along the right spine of a signature term — the "typed
// argument of a proc or theorem" binding site.
func defineArrowParams(ctx *Ctx, t syntax.Term) {
	for {
		dep, ok := t.(*syntax.TermArrowDep)
		if !ok {
			return
		}

		ctx.alloc(dep.Param.Node, dep.Param.Name)
		t = dep.To
	}
}

func defineStatements(ctx *Ctx, list *syntax.StatementList) error {
	seen := map[string]bool{}

	for _, stmt := range list.Statements {
		if err := defineStatement(ctx, stmt, seen); err != nil {
			return err
		}
	}

	return nil
}

func defineStatement(ctx *Ctx, stmt syntax.Stmt, seen map[string]bool) error {
	switch st := stmt.(type) {
	case *syntax.StmtLet:
		if seen[st.Name.Name] {
			return errDuplicate(st.Name.Node, st.Name.Name)
		}

		seen[st.Name.Name] = true
		ctx.alloc(st.Name.Node, st.Name.Name)

		if st.Addr != nil {
			if seen[st.Addr.Name] {
				return errDuplicate(st.Addr.Node, st.Addr.Name)
			}

			seen[st.Addr.Name] = true
			ctx.alloc(st.Addr.Node, st.Addr.Name)
		}
	case *syntax.StmtLoop:
		return defineStatements(ctx, st.Body)
	case *syntax.ProcTermIf:
		if err := defineStatements(ctx, st.Then); err != nil {
			return err
		}

		if st.Else != nil {
			return defineStatements(ctx, st.Else)
		}
	}

	return nil
}
