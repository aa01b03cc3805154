package syntax

import (
	"fmt"
	"strings"
)

// Print renders f back into source text accepted by Parse. It exists
// only to exercise the parse∘print∘parse round-trip property; it is
// not used by the compiler pipeline and makes no effort to reproduce
// the original formatting, only an equivalent parse.
func Print(f *File) string {
	var sb strings.Builder

	for _, item := range f.Items {
		printItem(&sb, item)
		sb.WriteString("\n")
	}

	return sb.String()
}

func printItem(sb *strings.Builder, item Item) {
	switch it := item.(type) {
	case *ItemProc:
		if it.Ptx {
			sb.WriteString("#ptx ")
		}

		fmt.Fprintf(sb, "#proc %s : ", it.Name.Name)
		printTerm(sb, it.Sig)
		sb.WriteString(" ")
		printStatementBlock(sb, it.Body)
	case *ItemEntrypoint:
		fmt.Fprintf(sb, "#entrypoint %s;", it.Name.Name)
	case *ItemUseBuiltin:
		fmt.Fprintf(sb, "#use_builtin %q #as %s;", it.Builtin, it.Alias.Name)
	case *ItemTypeDef:
		fmt.Fprintf(sb, "#type_def %s : ", it.Name.Name)
		printTerm(sb, it.Type)
		sb.WriteString(";")
	case *ItemInductive:
		fmt.Fprintf(sb, "#inductive %s : ", it.Name.Name)
		printTerm(sb, it.Type)
		sb.WriteString(" {")

		for _, b := range it.Branches {
			fmt.Fprintf(sb, "%s : ", b.Name.Name)
			printTerm(sb, b.Type)
			sb.WriteString(", ")
		}

		sb.WriteString("}")
	case *ItemTheorem:
		fmt.Fprintf(sb, "#theorem %s : ", it.Name.Name)
		printTerm(sb, it.Type)
		sb.WriteString(" { ")
		printProcTerm(sb, it.Body)
		sb.WriteString(" }")
	case *ItemArray:
		fmt.Fprintf(sb, "#array %s {", it.Name.Name)

		if it.Item != nil {
			sb.WriteString("#item: ")
			printTerm(sb, it.Item)
			sb.WriteString(", ")
		}

		if it.Dimension != nil {
			fmt.Fprintf(sb, "#dimension: %s, ", it.Dimension.Text)
		}

		sb.WriteString("}")
	case *ItemStruct:
		fmt.Fprintf(sb, "#struct %s {", it.Name.Name)

		for _, fld := range it.Fields {
			fmt.Fprintf(sb, "%s : ", fld.Name.Name)
			printTerm(sb, fld.Type)
			sb.WriteString(", ")
		}

		sb.WriteString("}")
	}
}

func printTerm(sb *strings.Builder, t Term) {
	switch tt := t.(type) {
	case *TermVariable:
		sb.WriteString(tt.Name.Name)
	case *TermNumber:
		sb.WriteString(tt.Lit.Text)
	case *TermUnit:
		sb.WriteString("()")
	case *TermParen:
		sb.WriteString("(")
		printTerm(sb, tt.Inner)
		sb.WriteString(")")
	case *TermApply:
		printTerm(sb, tt.Fn)
		sb.WriteString(" ")
		printTerm(sb, tt.Arg)
	case *TermArrowNoDep:
		printTerm(sb, tt.From)
		sb.WriteString(" -> ")
		printTerm(sb, tt.To)
	case *TermArrowDep:
		fmt.Fprintf(sb, "(%s : ", tt.Param.Name)
		printTerm(sb, tt.From)
		sb.WriteString(") -> ")
		printTerm(sb, tt.To)
	case *TermStruct:
		sb.WriteString("#struct {")

		for _, fld := range tt.Fields {
			fmt.Fprintf(sb, "%s: ", fld.Name.Name)
			printTerm(sb, fld.Value)
			sb.WriteString(", ")
		}

		sb.WriteString("}")
	case *TermMatch:
		sb.WriteString("#match ")
		printTerm(sb, tt.Scrutinee)
		sb.WriteString(" {")

		for _, arm := range tt.Arms {
			fmt.Fprintf(sb, "%s => ", arm.Pattern.Name)
			printTerm(sb, arm.Body)
			sb.WriteString(", ")
		}

		sb.WriteString("}")
	}
}

func printProcTerm(sb *strings.Builder, t ProcTerm) {
	switch pt := t.(type) {
	case *ProcTermVariable:
		sb.WriteString(pt.Name.Name)
	case *ProcTermNumber:
		sb.WriteString(pt.Lit.Text)
	case *ProcTermString:
		fmt.Fprintf(sb, "%q", pt.Lit.Value)
	case *ProcTermUnit:
		sb.WriteString("()")
	case *ProcTermParen:
		sb.WriteString("(")
		printProcTerm(sb, pt.Inner)
		sb.WriteString(")")
	case *ProcTermApply:
		printProcTerm(sb, pt.Fn)

		for _, a := range pt.Args {
			sb.WriteString(" ")
			printProcTerm(sb, a)
		}
	case *ProcTermFieldAccess:
		printProcTerm(sb, pt.Object)
		fmt.Fprintf(sb, ".%s", pt.Field.Name)

		if pt.Index != nil {
			sb.WriteString(" ")
			printProcTerm(sb, pt.Index)
		}
	case *ProcTermDereference:
		printProcTerm(sb, pt.Object)
		sb.WriteString(".*")
	case *ProcTermConstructorCall:
		fmt.Fprintf(sb, "%s::%s", pt.Type.Name, pt.Method.Name)

		for _, a := range pt.Args {
			sb.WriteString(" ")
			printProcTerm(sb, a)
		}
	case *ProcTermStructValue:
		fmt.Fprintf(sb, "%s {", pt.Name.Name)

		for _, fld := range pt.Fields {
			fmt.Fprintf(sb, "%s: ", fld.Name.Name)
			printProcTerm(sb, fld.Value)
			sb.WriteString(", ")
		}

		sb.WriteString("}")
	case *ProcTermIf:
		sb.WriteString("#if ")
		printProcTerm(sb, pt.Cond)
		sb.WriteString(" ")
		printStatementBlock(sb, pt.Then)

		if pt.Else != nil {
			sb.WriteString(" #else ")
			printStatementBlock(sb, pt.Else)
		}
	}
}

func printStatementBlock(sb *strings.Builder, list *StatementList) {
	sb.WriteString("{ ")
	printStatements(sb, list)
	sb.WriteString(" }")
}

func printStatements(sb *strings.Builder, list *StatementList) {
	for i, stmt := range list.Statements {
		printStmt(sb, stmt)

		if i < len(list.Statements)-1 || !list.Trailing {
			sb.WriteString("; ")
		}
	}
}

func printStmt(sb *strings.Builder, stmt Stmt) {
	switch st := stmt.(type) {
	case *StmtLet:
		if st.Mut {
			fmt.Fprintf(sb, "#let #mut %s", st.Name.Name)

			if st.Addr != nil {
				fmt.Fprintf(sb, " @ %s", st.Addr.Name)
			}

			sb.WriteString(" = ")
			printProcTerm(sb, st.Value)
		} else {
			fmt.Fprintf(sb, "#let %s", st.Name.Name)

			if st.Value != nil {
				sb.WriteString(" = ")
				printProcTerm(sb, st.Value)
			}
		}
	case *StmtAssign:
		printProcTerm(sb, st.Target)
		sb.WriteString(" = ")
		printProcTerm(sb, st.Value)
	case *StmtFieldAssign:
		printProcTerm(sb, st.Object)
		fmt.Fprintf(sb, ".%s", st.Field.Name)

		if st.Index != nil {
			sb.WriteString(" ")
			printProcTerm(sb, st.Index)
		}

		sb.WriteString(" <- ")
		printProcTerm(sb, st.Value)
	case *StmtExpr:
		printProcTerm(sb, st.Expr)
	case *StmtLoop:
		sb.WriteString("#loop ")
		printStatementBlock(sb, st.Body)
	case *StmtBreak:
		sb.WriteString("#break")
	case *StmtContinue:
		sb.WriteString("#continue")
	case *StmtReturn:
		sb.WriteString("#return")

		if st.Value != nil {
			sb.WriteString(" ")
			printProcTerm(sb, st.Value)
		}
	case *StmtCallPtx:
		fmt.Fprintf(sb, "#call_ptx %s", st.Name.Name)

		for _, a := range st.Args {
			sb.WriteString(" ")
			printProcTerm(sb, a)
		}

		for _, d := range st.Grid {
			fmt.Fprintf(sb, " %s", d.Text)
		}

		for _, d := range st.Block {
			fmt.Fprintf(sb, " %s", d.Text)
		}
	case *ProcTermIf:
		printProcTerm(sb, st)
	}
}
