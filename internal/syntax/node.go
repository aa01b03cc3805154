// Package syntax parses a token vector into a decorated syntax tree.
//
// The tree is not parameterized by a type-level phase tag the way the
// source compiler's is; instead every node carries a stable NodeID
// (assigned once, at parse time, by a Gen) and later pipeline stages
// attach their own annotations in side tables keyed by that ID — the
// same pattern go/types uses for *ast.Node. A pass never needs to
// rebuild the tree to add information; it only ever adds an entry to
// its own map.
package syntax

import "github.com/golangee/feic/internal/source"

// NodeID uniquely and stably identifies one syntax tree node within a
// single parse. IDs are assigned in a deterministic order during
// parsing: a node takes its ID when its production completes, so
// children are numbered before their parent. Every later pass relies
// on that determinism for reproducibility.
type NodeID int

// Gen allocates NodeIDs in increasing order.
type Gen struct{ next NodeID }

func (g *Gen) Next() NodeID {
	id := g.next
	g.next++

	return id
}

// Node is the common header embedded in every tree node: its identity
// and its source span.
type Node struct {
	ID  NodeID
	Pos source.Position
}

func (n Node) Begin() source.Pos { return n.Pos.BeginPos }
func (n Node) End() source.Pos   { return n.Pos.EndPos }

// Ident is a bare name occurrence — a binder or a use, disambiguated by
// which tree position it occupies, not by its own type.
type Ident struct {
	Node
	Name string
}
