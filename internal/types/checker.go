package types

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/resolve"
	"github.com/golangee/feic/internal/syntax"
)

// eqPair is an unordered equality constraint between two terms, stored
// in a set keyed by the string forms of its two sides; emit skips a
// pair already present in either orientation, so duplicates collapse.
type eqPair struct{ A, B Term }

// Checker owns the registry, the per-DefID variable table, the
// constraint set, and the NodeID -> VarID table the retrieve pass
// builds. It is a plain value, not a hidden singleton: a fresh Checker
// is created per compile (and per test).
type Checker struct {
	Reg *Registry

	varOfDef map[resolve.DefID]VarID
	varOfNode map[syntax.NodeID]VarID
	values   map[VarID]Term // concrete assignment, absent means Unknown

	constraints map[string]eqPair
	anchors     map[string]syntax.Node

	nextVar VarID
}

// builtinTypes gives the signature of every resolve.Prelude entry
// (by its un-prefixed name, which is also the string an #use_builtin
// item names) per the retrieval rules: __write_to_stdout : Str ->
// Unit, __exit : I64 -> Unit, __add_i64 : I64 -> I64 -> I64, __eq_i64 :
// I64 -> I64 -> I64 — the last one intentionally not ending in Bool,
// preserving a discrepancy observed in the reference implementation
// rather than silently "fixing" it.
func builtinTypes() map[string]Term {
	unit := Base{TyUnit}
	i64 := Base{TyI64}
	str := Base{TyStr}

	return map[string]Term{
		"write_to_stdout": Arrow{str, unit},
		"exit":            Arrow{i64, unit},
		"add_i64":         Arrow{i64, Arrow{i64, i64}},
		"eq_i64":          Arrow{i64, Arrow{i64, i64}},
		// u64_eq is seeded under its bare name too: it is the one
		// builtin the condition-lowering grammar lets source call
		// directly without a #use_builtin alias.
		"u64_eq": Arrow{i64, Arrow{i64, i64}},
	}
}

// NewChecker creates a Checker with its tables initialized; the
// prelude bindings in ctx.Names (double-underscore prefixed, seeded by
// resolve.Run) get their builtinTypes signature immediately.
func NewChecker(ctx *resolve.Ctx) *Checker {
	c := &Checker{
		Reg:         NewRegistry(),
		varOfDef:    make(map[resolve.DefID]VarID),
		varOfNode:   make(map[syntax.NodeID]VarID),
		values:      make(map[VarID]Term),
		constraints: make(map[string]eqPair),
		anchors:     make(map[string]syntax.Node),
	}

	types := builtinTypes()

	for def, name := range ctx.Names {
		key := name
		if len(name) > 2 && name[:2] == "__" {
			key = name[2:]
		}

		if t, ok := types[key]; ok {
			c.set(c.varOf(def), t)
		}
	}

	return c
}

func (c *Checker) varOf(def resolve.DefID) VarID {
	if v, ok := c.varOfDef[def]; ok {
		return v
	}

	v := c.nextVar
	c.nextVar++
	c.varOfDef[def] = v

	return v
}

// freshVar allocates a VarID not tied to any node, used for the
// intermediate result slots an application chain needs between
// arguments.
func (c *Checker) freshVar() VarID {
	v := c.nextVar
	c.nextVar++

	return v
}

func (c *Checker) varOfTypeNode(n syntax.NodeID) VarID {
	if v, ok := c.varOfNode[n]; ok {
		return v
	}

	v := c.nextVar
	c.nextVar++
	c.varOfNode[n] = v

	return v
}

func (c *Checker) set(v VarID, t Term) {
	c.values[v] = t
}

func (c *Checker) get(v VarID) (Term, bool) {
	t, ok := c.values[v]

	return t, ok
}

func (c *Checker) emit(a, b Term) {
	key := a.String() + "\x00" + b.String()
	if _, ok := c.constraints[key]; ok {
		return
	}

	rkey := b.String() + "\x00" + a.String()
	if _, ok := c.constraints[rkey]; ok {
		return
	}

	c.constraints[key] = eqPair{a, b}
}

// emitAt emits a ≡ b and remembers n as the node that raised it, for
// later error reporting.
func (c *Checker) emitAt(n syntax.Node, a, b Term) {
	c.emit(a, b)
	c.anchor(n, a, b)
}

// anchor remembers, for a handful of constraints, which node raised
// them — enough to point a type-mismatch error somewhere useful
// without threading a node through every constraint in the set.
func (c *Checker) anchor(n syntax.Node, a, b Term) {
	key := a.String() + "\x00" + b.String()
	c.anchors[key] = n
	c.anchors[b.String()+"\x00"+a.String()] = n
}

// Check runs retrieve and solve over f using the resolved names/uses
// in ctx. It returns the Checker (callers read solved types per node
// via TypeOf, which expands them on demand) or the first type error
// encountered.
func Check(ctx *resolve.Ctx, f *syntax.File) (*Checker, error) {
	c := NewChecker(ctx)

	if err := c.retrieveFile(ctx, f); err != nil {
		return nil, err
	}

	if err := c.solve(); err != nil {
		return nil, err
	}

	return c, nil
}

// TypeOf expands the term bound to a node's inferred variable, or
// reports ok=false if the node was never given one.
func (c *Checker) TypeOf(n syntax.NodeID) (Term, bool) {
	v, ok := c.varOfNode[n]
	if !ok {
		return nil, false
	}

	t, ok := c.get(v)
	if !ok {
		return Unknown{}, true
	}

	return c.expand(t), true
}

// expand recursively substitutes every Var with its current
// assignment, leaving unresolved ones as Var (so occurs-check and
// final-Unknown detection both see through partial solutions).
func (c *Checker) expand(t Term) Term {
	switch tt := t.(type) {
	case Var:
		if v, ok := c.get(tt.ID); ok {
			return c.expand(v)
		}

		return tt
	case App:
		return App{c.expand(tt.Fn), c.expand(tt.Arg)}
	case Arrow:
		return Arrow{c.expand(tt.From), c.expand(tt.To)}
	default:
		return t
	}
}

func (c *Checker) errTypeMismatch(a, b Term) error {
	n := c.anchorFor(a, b)

	return diag.Newf(diag.KindType, n, "type mismatch: %s vs %s", a, b)
}

// errInfiniteType reports the occurs-check failure distinctly from a
// plain type mismatch: v would have to equal a term that already
// mentions v, which no finite substitution solves.
func (c *Checker) errInfiniteType(v VarID, t Term) error {
	n := c.anchorFor(Var{v}, t)

	return diag.Newf(diag.KindType, n, "infinite type: %s occurs in %s", Var{v}, t)
}

func (c *Checker) anchorFor(a, b Term) syntax.Node {
	if n, ok := c.anchors[a.String()+"\x00"+b.String()]; ok {
		return n
	}

	if n, ok := c.anchors[b.String()+"\x00"+a.String()]; ok {
		return n
	}

	return syntax.Node{}
}
