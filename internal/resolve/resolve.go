// Package resolve runs the two sequential passes over a parsed File
// that assign definition identities to every binder and link every
// name use back to the binder it refers to: first "rename-defs" (pass
// 1, defining), then "rename-uses" (pass 2, using). The two passes are
// kept as separate top-level functions, mirroring the source
// compiler's own two-pass rename design, rather than fused into one
// walk, so each can be tested and reasoned about independently.
package resolve

import (
	"github.com/golangee/feic/internal/diag"
	"github.com/golangee/feic/internal/pathtable"
	"github.com/golangee/feic/internal/syntax"
)

// DefID is a globally unique, monotonically allocated binding-site
// identity. Every binder in a File receives exactly one; every
// resolved use site carries the DefID of the binder it names. It is an
// alias for pathtable.DefID so the path table the define pass
// populates can be handed straight to later stages without a
// conversion.
type DefID = pathtable.DefID

// Prelude lists the builtin names seeded into the outermost scope
// before pass 2 walks the tree, per the resolver's prelude contract.
// The four double-underscore names back the type signatures used-builtin
// aliases inherit; "u64_eq" is additionally seeded under its bare name
// since the code generator recognizes it directly as the only
// supported if-condition builtin, with no #use_builtin declaration
// required at the call site.
var Prelude = []string{"__write_to_stdout", "__exit", "__add_i64", "__eq_i64", "u64_eq"}

// Ctx is the rename context threaded through both passes: it owns the
// DefID counter and the side tables later stages read from. It is a
// plain value object, not a hidden singleton, so independent compiles
// (and tests) never share state.
type Ctx struct {
	next DefID

	// Defs maps a binder's syntax.NodeID to its allocated DefID.
	Defs map[syntax.NodeID]DefID

	// Uses maps a use site's syntax.NodeID to the DefID it resolved to.
	Uses map[syntax.NodeID]DefID

	// Names records the declared name for each DefID, for diagnostics.
	Names map[DefID]string

	// Paths indexes every item's exported children (a file's top-level
	// items, an inductive's branches) for qualified "A::b" lookup. The
	// define pass populates it as it allocates each binder's DefID.
	Paths *pathtable.Table

	// fileDef is the DefID of the single file being compiled, the root
	// every qualified lookup starts from.
	fileDef DefID
}

// NewCtx creates an empty rename context.
func NewCtx() *Ctx {
	return &Ctx{
		Defs:  make(map[syntax.NodeID]DefID),
		Uses:  make(map[syntax.NodeID]DefID),
		Names: make(map[DefID]string),
		Paths: pathtable.New(),
	}
}

func (c *Ctx) alloc(node syntax.Node, name string) DefID {
	id := c.allocBare(name)
	c.Defs[node.ID] = id

	return id
}

// allocBare allocates a DefID with no associated tree node, used for
// the prelude builtins that have no binding site in the parsed File.
func (c *Ctx) allocBare(name string) DefID {
	id := c.next
	c.next++

	c.Names[id] = name

	return id
}

// DefOf returns the DefID allocated to a binder's node, if any.
func (c *Ctx) DefOf(id syntax.NodeID) (DefID, bool) {
	d, ok := c.Defs[id]

	return d, ok
}

// UseOf returns the DefID a use site resolved to, if any.
func (c *Ctx) UseOf(id syntax.NodeID) (DefID, bool) {
	d, ok := c.Uses[id]

	return d, ok
}

// Run executes both passes over f and returns the populated Ctx.
func Run(f *syntax.File) (*Ctx, error) {
	ctx := NewCtx()

	if err := defineFile(ctx, f); err != nil {
		return nil, err
	}

	scope := newScopeStack()
	scope.push()

	for _, name := range Prelude {
		scope.declareOrShadow(name, ctx.allocBare(name))
	}

	if err := useFile(ctx, scope, f); err != nil {
		return nil, err
	}

	return ctx, nil
}

func errDuplicate(node syntax.Node, name string) error {
	return diag.Newf(diag.KindResolve, node, "duplicate name %q in the same scope", name)
}

func errUnresolved(node syntax.Node, name string) error {
	return diag.Newf(diag.KindResolve, node, "unresolved name %q", name)
}
