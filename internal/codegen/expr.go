package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golangee/feic/internal/syntax"
)

// compileProcTerm lowers pt, leaving its value in rax.
func (g *gen) compileProcTerm(pt syntax.ProcTerm) error {
	switch t := pt.(type) {
	case *syntax.ProcTermNumber:
		n, err := numberLiteralValue(t.Lit.Text)
		if err != nil {
			return errUnsupported(t.Node, err.Error())
		}

		g.buf.WriteString(fmt.Sprintf("\tmov rax, %d\n", n))

		return nil

	case *syntax.ProcTermString:
		label := g.newRodataLabel(t.Lit.Value)
		g.buf.WriteString(fmt.Sprintf("\tlea rax, %s\n", label))

		return nil

	case *syntax.ProcTermUnit:
		g.buf.WriteString("\txor rax, rax\n")

		return nil

	case *syntax.ProcTermVariable:
		off, ok := g.vars[t.Name.Name]
		if !ok {
			return errUnsupported(t.Node, fmt.Sprintf("reference to unknown variable %q", t.Name.Name))
		}

		g.buf.WriteString(fmt.Sprintf("\tmov rax, [rbp-%d]\n", off))

		return nil

	case *syntax.ProcTermParen:
		return g.compileProcTerm(t.Inner)

	case *syntax.ProcTermDereference:
		// t.Object is the pointer itself (e.g. "r", bound to "&x" by a
		// "@ r" alias), so its value, not its address, is what gets
		// dereferenced.
		if err := g.compileProcTerm(t.Object); err != nil {
			return err
		}

		g.buf.WriteString("\tmov rax, [rax]\n")

		return nil

	case *syntax.ProcTermApply:
		return g.compileApply(t)

	case *syntax.ProcTermFieldAccess:
		addr, err := g.arrayElementAddress(t.Object, t.Field, t.Index)
		if err != nil {
			return err
		}

		g.buf.WriteString(fmt.Sprintf("\tmov rax, [%s]\n", addr))

		return nil

	case *syntax.ProcTermConstructorCall:
		return g.compileConstructorCall(t)

	case *syntax.ProcTermStructValue:
		return errUnsupported(t.Node, "struct value literal (no codegen lowering)")

	case *syntax.ProcTermIf:
		_, err := g.compileIf(t)

		return err
	}

	return errUnsupported(pt, "proc term")
}

// numberLiteralValue strips a trailing "u64" (or "f32") type suffix,
// per the generator's documented literal handling, and parses the
// remaining digits.
func numberLiteralValue(text string) (int64, error) {
	digits := strings.TrimSuffix(text, "u64")
	digits = strings.TrimSuffix(digits, "f32")

	return strconv.ParseInt(digits, 10, 64)
}

// compileApply lowers an application whose head is a builtin alias.
// The only builtin tag with a lowering rule is "syscall"; any other
// alias is a CodegenError naming its tag if actually called.
func (g *gen) compileApply(t *syntax.ProcTermApply) error {
	fnVar, ok := t.Fn.(*syntax.ProcTermVariable)
	if !ok {
		return errUnsupported(t.Node, "indirect call (only direct builtin calls are supported)")
	}

	def, ok := g.ctx.UseOf(fnVar.Name.Node.ID)
	if !ok {
		return errUnsupported(t.Node, "call to unresolved name")
	}

	tag, ok := g.builtinOf[def]
	if !ok {
		return errUnsupported(t.Node, fmt.Sprintf("call to non-builtin %q", fnVar.Name.Name))
	}

	if tag != "syscall" {
		return errUnknownBuiltin(t.Node, tag)
	}

	if len(t.Args) != 6 {
		return errInvalidSyscall(t.Node, len(t.Args))
	}

	regs := []string{"rax", "rdi", "rsi", "rdx", "r10", "r8"}

	// Compile every non-literal argument left to right, pushing each
	// result, then pop them into their registers. Number literals are
	// loaded afterwards with a direct "mov reg, n", which touches no
	// other register.
	for _, arg := range t.Args {
		if _, lit := arg.(*syntax.ProcTermNumber); lit {
			continue
		}

		if err := g.compileProcTerm(arg); err != nil {
			return err
		}

		g.buf.WriteString("\tpush rax\n")
	}

	for i := len(regs) - 1; i >= 0; i-- {
		if _, lit := t.Args[i].(*syntax.ProcTermNumber); !lit {
			g.buf.WriteString(fmt.Sprintf("\tpop %s\n", regs[i]))
		}
	}

	for i, arg := range t.Args {
		if num, lit := arg.(*syntax.ProcTermNumber); lit {
			n, err := numberLiteralValue(num.Lit.Text)
			if err != nil {
				return errUnsupported(num.Node, err.Error())
			}

			g.buf.WriteString(fmt.Sprintf("\tmov %s, %d\n", regs[i], n))
		}
	}

	g.buf.WriteString("\tsyscall\n")

	return nil
}
