// Package pathtable is the nested-definition index a resolved tree
// exposes for qualified lookup: a file indexes its top-level items, and
// an inductive item indexes its branches. Qualified names "A::b" walk
// the dotted path left to right, returning ErrNotFound on the first
// missing component.
//
// The table holds no file-walking logic of its own: the resolver's
// define pass populates it via Add as it allocates each binder's DefID,
// since it is already walking the same items and already owns their
// names.
package pathtable

import "errors"

// ErrNotFound is returned by Lookup/LookupQualified when a path
// component has no entry.
var ErrNotFound = errors.New("pathtable: not found")

// DefID identifies a binding site. It is defined here, rather than in
// the resolver, so the resolver can depend on the table instead of the
// other way around; the resolver re-exports it as resolve.DefID.
type DefID int

// Table is a two-level map: an owner DefID (a file or an inductive
// item) to its exported name -> DefID children.
type Table struct {
	children map[DefID]map[string]DefID
}

// New creates an empty Table.
func New() *Table {
	return &Table{children: make(map[DefID]map[string]DefID)}
}

// Add records that owner exports name as id.
func (t *Table) Add(owner DefID, name string, id DefID) {
	m, ok := t.children[owner]
	if !ok {
		m = make(map[string]DefID)
		t.children[owner] = m
	}

	m[name] = id
}

// Lookup finds a single unqualified child of owner.
func (t *Table) Lookup(owner DefID, name string) (DefID, bool) {
	id, ok := t.children[owner][name]

	return id, ok
}

// Children returns every name owner exports, for priming a scope.
func (t *Table) Children(owner DefID) map[string]DefID {
	return t.children[owner]
}

// LookupQualified walks a dotted path "A::b::c" starting from the
// file-level table rooted at fileDef, returning ErrNotFound on the
// first missing component.
func (t *Table) LookupQualified(fileDef DefID, path []string) (DefID, error) {
	owner := fileDef

	var cur DefID

	for i, name := range path {
		id, ok := t.Lookup(owner, name)
		if !ok {
			return 0, ErrNotFound
		}

		cur = id
		if i < len(path)-1 {
			owner = id
		}
	}

	return cur, nil
}
