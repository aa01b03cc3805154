package codegen

import (
	"fmt"

	"github.com/golangee/feic/internal/syntax"
)

// sizeofFieldType gives the byte width of the only two base field types the
// array-item grammar supports; anything else is an unsupported
// construct caught by the caller.
func sizeofFieldType(name string) (int, bool) {
	switch name {
	case "u64":
		return 8, true
	case "f32":
		return 4, true
	default:
		return 0, false
	}
}

// compileConstructorCall lowers "Type::new_with_size(n)": for each
// field of Type, a .bss region sized n*sizeof(field) is carved out of
// a bump counter and remembered under (variable-name, field-name), so
// a later "v.f i" access can address into it directly. n must be a
// literal at this bootstrap compiler's level of sophistication; a
// computed size would need a dynamic allocator this target has no
// syscall wired for.
func (g *gen) compileConstructorCall(t *syntax.ProcTermConstructorCall) error {
	if t.Method.Name != "new_with_size" {
		return errUnsupported(t.Node, fmt.Sprintf("constructor method %q", t.Method.Name))
	}

	if len(t.Args) != 1 {
		return errUnsupported(t.Node, "new_with_size expects exactly one argument")
	}

	sizeArg, ok := t.Args[0].(*syntax.ProcTermNumber)
	if !ok {
		return errUnsupported(t.Node, "new_with_size argument must be a number literal")
	}

	n, err := numberLiteralValue(sizeArg.Lit.Text)
	if err != nil {
		return errUnsupported(t.Node, err.Error())
	}

	fields, ok := g.structFields[t.Type.Name]
	if !ok {
		return errUnsupported(t.Node, fmt.Sprintf("unknown struct type %q", t.Type.Name))
	}

	return g.allocateArrayFields(t.Type.Name, int(n), fields)
}

// allocateArrayFields is invoked when a "#let v = T::new_with_size(n);"
// binds v: the fields computed here are keyed by v's name once the
// caller records it, via bindArrayVar.
func (g *gen) allocateArrayFields(typeName string, n int, fields []*syntax.ItemStructField) error {
	g.pendingArrayType = typeName
	g.pendingArrayFields = fields
	g.pendingArrayLen = n

	return nil
}

// bindArrayVar finishes wiring a constructor call's pending field
// allocation to the let-binding's variable name, once it is known.
func (g *gen) bindArrayVar(varName string) error {
	if g.pendingArrayFields == nil {
		return nil
	}

	byField := make(map[string]*arrayField, len(g.pendingArrayFields))

	for _, fld := range g.pendingArrayFields {
		tv, ok := fld.Type.(*syntax.TermVariable)
		if !ok {
			return errUnsupported(fld.Node, fmt.Sprintf("array field %q type", fld.Name.Name))
		}

		elemSize, ok := sizeofFieldType(tv.Name.Name)
		if !ok {
			return errUnsupported(fld.Node, fmt.Sprintf("array field base type %q", tv.Name.Name))
		}

		label := fmt.Sprintf(".Larr%d_%s_%s", g.bssCounter, varName, fld.Name.Name)
		g.bssCounter++

		g.bss = append(g.bss, bssEntry{Label: label, Bytes: g.pendingArrayLen * elemSize})
		byField[fld.Name.Name] = &arrayField{Label: label, ElemSize: elemSize}
	}

	g.arrayFields[varName] = byField

	g.pendingArrayFields = nil
	g.pendingArrayType = ""
	g.pendingArrayLen = 0

	return nil
}

// arrayElementAddress computes the operand string addressing "v.f i",
// or "v.f" with index 0 if no index was supplied (a bare field access
// on a non-array struct, which this generator does not otherwise
// support).
func (g *gen) arrayElementAddress(obj syntax.ProcTerm, field *syntax.Ident, index syntax.ProcTerm) (string, error) {
	v, ok := obj.(*syntax.ProcTermVariable)
	if !ok {
		return "", errUnsupported(obj, "field access target (only array variables are supported)")
	}

	fields, ok := g.arrayFields[v.Name.Name]
	if !ok {
		return "", errUnsupported(obj, fmt.Sprintf("%q is not an array-item variable", v.Name.Name))
	}

	af, ok := fields[field.Name]
	if !ok {
		return "", errUnsupported(field.Node, fmt.Sprintf("unknown array field %q", field.Name))
	}

	if index == nil {
		return af.Label, nil
	}

	if err := g.compileProcTerm(index); err != nil {
		return "", err
	}

	g.buf.WriteString(fmt.Sprintf("\timul rax, %d\n", af.ElemSize))
	g.buf.WriteString(fmt.Sprintf("\tlea rax, %s[rax]\n", af.Label))
	g.buf.WriteString("\tmov rbx, rax\n")

	return "rbx", nil
}
