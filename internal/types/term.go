// Package types implements the Hindley-Milner-flavored checker: a
// retrieve pass that walks the resolved tree emitting equality
// constraints, and a solver that runs those constraints to a fixpoint
// over four rewrite rules. Solved terms are read back per
// syntax.NodeID through Checker.TypeOf; no separate pass writes them
// into the tree.
package types

import "fmt"

// TypeID names a declared base type.
type TypeID int

// VarID names a unification variable.
type VarID int

// Term is the tagged type-term variant: Base, Var, App, Arrow, Star,
// Candidates, or Unknown.
type Term interface {
	isTerm()
	String() string
}

type Base struct{ ID TypeID }

type Var struct{ ID VarID }

type App struct{ Fn, Arg Term }

type Arrow struct{ From, To Term }

// Star is the universe at level n (value:0, type:1, kind:2, …).
type Star struct{ Level int }

// Candidates holds several possible terms for a not-yet-disambiguated
// slot; the reference design names it but the checker below never
// actually produces one, since every retrieval rule yields a single
// concrete shape.
type Candidates struct{ Options []Term }

// Unknown is the sentinel for a variable not yet solved.
type Unknown struct{}

func (Base) isTerm()       {}
func (Var) isTerm()        {}
func (App) isTerm()        {}
func (Arrow) isTerm()      {}
func (Star) isTerm()       {}
func (Candidates) isTerm() {}
func (Unknown) isTerm()    {}

func (b Base) String() string  { return fmt.Sprintf("#%d", b.ID) }
func (v Var) String() string   { return fmt.Sprintf("v%d", v.ID) }
func (a App) String() string   { return fmt.Sprintf("(%s %s)", a.Fn, a.Arg) }
func (a Arrow) String() string { return fmt.Sprintf("(%s -> %s)", a.From, a.To) }
func (s Star) String() string  { return fmt.Sprintf("Star(%d)", s.Level) }
func (Unknown) String() string { return "?" }

func (c Candidates) String() string {
	return fmt.Sprintf("Candidates(%v)", c.Options)
}

// Registry assigns and names base TypeIDs. Every checker run starts
// from a fresh Registry seeded with the built-in base types.
type Registry struct {
	names []string
}

// Built-in base types, registered once per Registry in this fixed order.
const (
	TyUnit TypeID = iota
	TyI64
	TyStr
)

// NewRegistry creates a Registry pre-seeded with the built-in base
// types; further user-declared types are appended by Declare.
func NewRegistry() *Registry {
	return &Registry{names: []string{"unit", "i64", "str"}}
}

// Declare registers a new base type and returns its TypeID.
func (r *Registry) Declare(name string) TypeID {
	id := TypeID(len(r.names))
	r.names = append(r.names, name)

	return id
}

func (r *Registry) Name(id TypeID) string {
	if int(id) < 0 || int(id) >= len(r.names) {
		return "<unknown type>"
	}

	return r.names[id]
}
