package codegen

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/source"
)

func errUnsupported(node source.Node, what string) error {
	return diag.Newf(diag.KindCodegen, node, "unsupported construct: %s", what)
}

func errInvalidSyscall(node source.Node, got int) error {
	return diag.Newf(diag.KindCodegen, node, "syscall expects exactly 6 arguments, got %d", got)
}

func errBreakOutsideLoop(node source.Node) error {
	return diag.New(diag.KindCodegen, node, "break outside of any loop")
}

func errContinueOutsideLoop(node source.Node) error {
	return diag.New(diag.KindCodegen, node, "continue outside of any loop")
}

func errUnknownBuiltin(node source.Node, tag string) error {
	return diag.Newf(diag.KindCodegen, node, "unknown builtin tag %q", tag)
}
