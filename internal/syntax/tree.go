package syntax

import "github.com/golangee/feic/internal/source"

// File is the root of one parsed translation unit.
type File struct {
	Node
	Items []Item
}

// Item is a top-level declaration. The concrete variants below mirror
// the item grammar: procedures, the program entrypoint marker, builtin
// imports, bare type declarations, inductive families, theorems (types
// with a single canonical proof term, accepted structurally), array
// item declarations, and struct declarations.
type Item interface {
	source.Node
	isItem()
}

type ItemProc struct {
	Node
	Ptx  bool // declared with "#ptx proc" — codegen skips its body unless --ptx
	Name *Ident
	Sig  Term // the proc's arrow-typed signature
	Body *StatementList
}

type ItemEntrypoint struct {
	Node
	Name *Ident // the proc designated as the program's entry
}

type ItemUseBuiltin struct {
	Node
	Builtin string // the builtin's compiler-known name, e.g. "write_to_stdout"
	Alias   *Ident // the local name it is bound to
}

// ItemTypeDef declares a bare named type without giving it constructors.
// It is accepted and resolved but, like ItemInductive and ItemStruct,
// has no codegen lowering: nothing in the surface grammar can construct
// a value of it.
type ItemTypeDef struct {
	Node
	Name *Ident
	Type Term
}

type ItemInductiveBranch struct {
	Node
	Name *Ident
	Type Term
}

type ItemInductive struct {
	Node
	Name     *Ident
	Type     Term
	Branches []*ItemInductiveBranch
}

type ItemTheorem struct {
	Node
	Name *Ident
	Type Term
	Body ProcTerm
}

type ItemArrayField struct {
	Node
	Name *Ident
	Type Term
}

// ItemArray declares a structure-of-arrays record: #item gives the
// element type and #dimension the rank. It is parsed and resolved, but
// codegen has no lowering for it: "Name::new_with_size" is lowered only
// when Name is a #struct item.
type ItemArray struct {
	Node
	Name      *Ident
	Item      Term
	Dimension *NumberLit
}

type ItemStructField struct {
	Node
	Name *Ident
	Type Term
}

type ItemStruct struct {
	Node
	Name   *Ident
	Fields []*ItemStructField
}

func (*ItemProc) isItem()        {}
func (*ItemEntrypoint) isItem()  {}
func (*ItemUseBuiltin) isItem()  {}
func (*ItemTypeDef) isItem()     {}
func (*ItemInductive) isItem()   {}
func (*ItemTheorem) isItem()     {}
func (*ItemArray) isItem()       {}
func (*ItemStruct) isItem()      {}

// Term is a type-level expression: the language the type checker
// assigns to proc signatures, let bindings, and struct fields.
type Term interface {
	source.Node
	isTerm()
}

type TermVariable struct {
	Node
	Name *Ident
}

type NumberLit struct {
	Node
	Text string // the literal digits plus any verbatim u64/f32 suffix
}

type TermNumber struct {
	Node
	Lit *NumberLit
}

// TermUnit is the nullary type/value "()".
type TermUnit struct {
	Node
}

type TermParen struct {
	Node
	Inner Term
}

// TermApply is juxtaposition application: "Fn arg".
type TermApply struct {
	Node
	Fn  Term
	Arg Term
}

// TermArrowNoDep is a non-dependent function type "A -> B".
type TermArrowNoDep struct {
	Node
	From Term
	To   Term
}

// TermArrowDep is a dependent function type "(x : A) -> B", where B may
// refer to x.
type TermArrowDep struct {
	Node
	Param *Ident
	From  Term
	To    Term
}

type TermStructFieldValue struct {
	Node
	Name  *Ident
	Value Term
}

// TermStruct is the anonymous type-level struct literal "#struct {
// field: Term, ... }" used as an #array item type or a #struct item
// field's type.
type TermStruct struct {
	Node
	Fields []*TermStructFieldValue
}

type TermMatchArm struct {
	Node
	Pattern *Ident
	Body    Term
}

type TermMatch struct {
	Node
	Scrutinee Term
	Arms      []*TermMatchArm
}

func (*TermVariable) isTerm()    {}
func (*TermNumber) isTerm()      {}
func (*TermUnit) isTerm()        {}
func (*TermParen) isTerm()       {}
func (*TermApply) isTerm()       {}
func (*TermArrowNoDep) isTerm()  {}
func (*TermArrowDep) isTerm()    {}
func (*TermStruct) isTerm()      {}
func (*TermMatch) isTerm()       {}

// ProcTerm is a value-level expression evaluated inside a proc body.
type ProcTerm interface {
	source.Node
	isProcTerm()
}

type ProcTermVariable struct {
	Node
	Name *Ident
}

type ProcTermNumber struct {
	Node
	Lit *NumberLit
}

// StringLit is a decoded string literal value.
type StringLit struct {
	Node
	Value string
}

// ProcTermString is a string literal used as a value, e.g. the
// argument to a "write_to_stdout" builtin call. The type checker's
// retrieval rules treat it the same way as a number literal — seeding
// a fresh variable equal to the string base type — even though it
// isn't named as its own case in the design-level node-shape table.
type ProcTermString struct {
	Node
	Lit *StringLit
}

type ProcTermUnit struct {
	Node
}

type ProcTermParen struct {
	Node
	Inner ProcTerm
}

type ProcTermApply struct {
	Node
	Fn   ProcTerm
	Args []ProcTerm
}

// ProcTermFieldAccess is "object.field" or, for array items,
// "object.field index".
type ProcTermFieldAccess struct {
	Node
	Object ProcTerm
	Field  *Ident
	Index  ProcTerm // nil unless an array-item index was supplied
}

// ProcTermDereference is the postfix ".*" operator.
type ProcTermDereference struct {
	Node
	Object ProcTerm
}

// ProcTermConstructorCall is "Type::method arg1 arg2 ...", e.g.
// "Buffer::new_with_size 16u64".
type ProcTermConstructorCall struct {
	Node
	Type   *Ident
	Method *Ident
	Args   []ProcTerm
}

type ProcTermStructFieldValue struct {
	Node
	Name  *Ident
	Value ProcTerm
}

// ProcTermStructValue is a value-level struct literal, "Name { field:
// value, ... }".
type ProcTermStructValue struct {
	Node
	Name   *Ident
	Fields []*ProcTermStructFieldValue
}

// ProcTermIf is "#if cond { then... } #else { else... }". It doubles
// as both a Statement (evaluated and discarded) and a ProcTerm (its
// value is the taken branch's trailing expression, if any) — the same
// shape the grammar lists once under each category.
type ProcTermIf struct {
	Node
	Cond ProcTerm
	Then *StatementList
	Else *StatementList
}

func (*ProcTermVariable) isProcTerm()        {}
func (*ProcTermNumber) isProcTerm()          {}
func (*ProcTermString) isProcTerm()          {}
func (*ProcTermUnit) isProcTerm()            {}
func (*ProcTermParen) isProcTerm()           {}
func (*ProcTermApply) isProcTerm()           {}
func (*ProcTermFieldAccess) isProcTerm()     {}
func (*ProcTermDereference) isProcTerm()     {}
func (*ProcTermConstructorCall) isProcTerm() {}
func (*ProcTermStructValue) isProcTerm()     {}
func (*ProcTermIf) isProcTerm()              {}

// Stmt is one statement inside a StatementList.
type Stmt interface {
	source.Node
	isStmt()
}

// StmtLet is both "#let x = e;" / "#let x;" and, when Mut is set,
// "#let #mut x @ r = e;": the mutable form additionally binds Addr (if
// given) to the address of x, so that "r.*" dereferences it.
type StmtLet struct {
	Node
	Mut   bool
	Name  *Ident
	Addr  *Ident // non-nil only for a mut binding with an explicit "@ r" alias
	Value ProcTerm
}

// StmtAssign is "target = value", where target is a bare variable or a
// dereference of one ("r.* = value", through a let-mut address alias).
type StmtAssign struct {
	Node
	Target ProcTerm
	Value  ProcTerm
}

// StmtFieldAssign is "object.field [index] <- value", the array/struct
// in-place mutation form.
type StmtFieldAssign struct {
	Node
	Object ProcTerm
	Field  *Ident
	Index  ProcTerm // nil unless indexing an array item
	Value  ProcTerm
}

// StmtExpr is a bare proc term evaluated for its side effect and
// discarded.
type StmtExpr struct {
	Node
	Expr ProcTerm
}

type StmtLoop struct {
	Node
	Body *StatementList
}

type StmtBreak struct {
	Node
}

type StmtContinue struct {
	Node
}

type StmtReturn struct {
	Node
	Value ProcTerm // nil for a bare "#return;"
}

// StmtCallPtx launches a #ptx-declared proc as a device kernel; only
// meaningful with the compiler's --ptx backend enabled. The six
// trailing numbers are the CUDA grid/block dimensions, in the fixed
// order (gridX, gridY, gridZ, blockX, blockY, blockZ).
type StmtCallPtx struct {
	Node
	Name *Ident
	Args []ProcTerm
	Grid [3]*NumberLit
	Block [3]*NumberLit
}

func (*StmtLet) isStmt()         {}
func (*StmtAssign) isStmt()      {}
func (*StmtFieldAssign) isStmt() {}
func (*StmtExpr) isStmt()        {}
func (*StmtLoop) isStmt()        {}
func (*StmtBreak) isStmt()       {}
func (*StmtContinue) isStmt()    {}
func (*StmtReturn) isStmt()      {}
func (*StmtCallPtx) isStmt()     {}

// a ProcTermIf is also usable directly as a statement (an if evaluated
// for effect); it already implements isProcTerm, so give it isStmt too.
func (*ProcTermIf) isStmt() {}

// StatementList is a semicolon-separated sequence of statements. It is
// the idiomatic-Go rendering of the source language's Statements
// cons-list (Nil / Statement(s) / Then(head, tail)): an ordered slice
// plus whether the final entry was left without a trailing semicolon,
// which is what lets a StatementList double as an expression (its
// value is that final statement's, when Trailing is true and it is a
// StmtExpr or ProcTermIf).
type StatementList struct {
	Node
	Statements []Stmt
	Trailing   bool
}
