// Package diag holds the compiler's shared error and logging types.
// Every pipeline stage reports failures through a Kind-classified
// *PosError so the CLI can map any of them to a single exit code
// without caring which stage produced it.
package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golangee/feic/internal/source"
)

// Kind classifies which stage produced an error, per the five kinds the
// specification lists: lex, parse, resolve, type, codegen.
type Kind string

const (
	KindLex     Kind = "lex"
	KindParse   Kind = "parse"
	KindResolve Kind = "resolve"
	KindType    Kind = "type"
	KindCodegen Kind = "codegen"
)

// Detail attaches a human-readable message to a source node.
type Detail struct {
	Node    source.Node
	Message string
}

// PosError is a fatal, positional compiler error. It is never locally
// recovered: every stage that can fail returns one and the caller above
// it aborts the whole pipeline.
type PosError struct {
	Kind    Kind
	Details []Detail
	Cause   error
	Hint    string
}

// New creates a PosError of the given kind, anchored at node.
func New(kind Kind, node source.Node, msg string) *PosError {
	return &PosError{
		Kind:    kind,
		Details: []Detail{{Node: node, Message: msg}},
	}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, node source.Node, format string, args ...any) *PosError {
	return New(kind, node, fmt.Sprintf(format, args...))
}

func (e *PosError) WithCause(cause error) *PosError {
	e.Cause = cause
	return e
}

func (e *PosError) WithHint(hint string) *PosError {
	e.Hint = hint
	return e
}

func (e *PosError) WithDetail(node source.Node, msg string) *PosError {
	e.Details = append(e.Details, Detail{Node: node, Message: msg})
	return e
}

func (e *PosError) firstDetail() Detail {
	if len(e.Details) > 0 {
		return e.Details[0]
	}

	return Detail{}
}

func (e *PosError) Error() string {
	msg := string(e.Kind) + ": " + e.firstDetail().Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *PosError) Unwrap() error {
	return e.Cause
}

// Is reports whether err is a PosError of the given kind. It lets
// callers write `diag.Is(err, diag.KindCodegen)` instead of type
// asserting and checking the field by hand.
func Is(err error, kind Kind) bool {
	var pe *PosError
	if !errors.As(err, &pe) {
		return false
	}

	return pe.Kind == kind
}

// Explain renders a multi-line, human-facing rendition of err. Non
// PosError values fall back to their plain Error() text.
func Explain(err error, files *source.Set) string {
	var pe *PosError
	if !errors.As(err, &pe) {
		return err.Error()
	}

	sb := &strings.Builder{}
	sb.WriteString("error: ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	indent := 0
	for _, d := range pe.Details {
		if l := len(strconv.Itoa(d.Node.Begin().Line)); l > indent {
			indent = l
		}
	}

	for i, d := range pe.Details {
		if i == 0 || d.Node.Begin().File != pe.Details[i-1].Node.Begin().File {
			sb.WriteString(files.String(d.Node.Begin()))
			sb.WriteString("\n")
		}

		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}

	if pe.Hint != "" {
		sb.WriteString("hint: ")
		sb.WriteString(pe.Hint)
		sb.WriteString("\n")
	}

	return sb.String()
}
