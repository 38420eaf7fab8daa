package model

// ExprKind classifies the expression shapes the analyzer understands.
// Anything else is ExprOpaque and makes the surrounding chain unresolvable.
type ExprKind int

// Available ExprKind values.
const (
	ExprOpaque ExprKind = iota
	ExprIdentifier
	ExprDotIndex
	ExprBracketIndex
	ExprCall
)

// Expr is a minimal expression tree extracted from the Luau syntax tree.
// It is extracted eagerly at parse time so no parser handles outlive the
// parse call. Byte offsets index into the originating file's source.
type Expr struct {
	Kind ExprKind

	// Name holds the identifier name, the literal field name of an index
	// expression, or the callee name of a call. Empty when the field or
	// callee is not a static literal.
	Name string

	// Base is the receiver of an index expression; nil otherwise.
	Base *Expr

	// Args are the call arguments; nil for non-calls.
	Args []*Expr

	// Text is the exact source text of the expression.
	Text string

	Start int
	End   int
}

// LocalBinding is a top-level `local NAME = <expr>` statement.
type LocalBinding struct {
	Name  string
	Value *Expr
	Start int
	End   int
}

// ReturnStmt is the chunk's trailing return statement.
type ReturnStmt struct {
	Exprs []*Expr
	Start int
	End   int
}

// Thunk is the parsed form of a link file: its source bytes, any top-level
// local bindings, and the mandatory trailing return. It is reconstructed
// by parsing each file on demand, never stored.
type Thunk struct {
	Source []byte
	Locals []LocalBinding
	Return ReturnStmt
}

// Local returns the top-level binding with the given name, or nil.
func (t *Thunk) Local(name string) *LocalBinding {
	for i := range t.Locals {
		if t.Locals[i].Name == name {
			return &t.Locals[i]
		}
	}

	return nil
}

// TypeExport is an exported Luau type declaration of a target module.
type TypeExport struct {
	Name string

	// Params is the raw generic parameter list as declared, without the
	// surrounding angle brackets ("T, U = string, V..."). Empty for
	// non-generic types.
	Params string
}
