package lang

// Document is the parsed form of one source file: three ordered
// namespaces plus the file's import directives. Nothing is resolved at
// this stage; bindings hold expressions, not values.
type Document struct {
	Path     string
	Imports  []ImportDirective
	Metadata []MetaBinding
	Globals  []Binding
	Items    []Binding
}

// ImportDirective is one gather statement. Alias is never empty: when
// the source omits "as", the parser fills in the imported file's stem.
type ImportDirective struct {
	Path  string
	Alias string
	Line  int
}

// MetaBinding is one @key "value" annotation.
type MetaBinding struct {
	Key   string
	Value string
	Line  int
}

// Binding is one key bound to an expression.
type Binding struct {
	Key   string
	Value *Expr
	Line  int
}

// ExprKind tags the variant held by an Expr.
type ExprKind int

const (
	// ExprLiteral holds a scalar literal (string, number, bool, null).
	ExprLiteral ExprKind = iota

	// ExprRawString holds unexpanded regex pattern text.
	ExprRawString

	// ExprRef holds an identifier or dotted reference path.
	ExprRef

	// ExprEnv holds an environment variable name ($env.NAME).
	ExprEnv

	// ExprSys holds a system property key ($sys.KEY).
	ExprSys

	// ExprArray holds element expressions.
	ExprArray

	// ExprCond holds an inline conditional.
	ExprCond

	// ExprObject holds a block of entries (name: ... end).
	ExprObject
)

// Expr is a value expression, tagged by Kind. Only the fields relevant
// to the kind are populated.
type Expr struct {
	Kind   ExprKind
	Line   int
	Column int

	Lit     Value      // ExprLiteral
	Raw     string     // ExprRawString
	Path    []string   // ExprRef, one segment per dotted component
	Name    string     // ExprEnv, ExprSys
	Elems   []*Expr    // ExprArray
	Cond    *Condition // ExprCond
	Then    *Expr      // ExprCond
	Else    *Expr      // ExprCond; nil means null
	Entries []Entry    // ExprObject
}

// Entry is one member of an object block: either a binding or a block
// conditional. Exactly one field is non-nil.
type Entry struct {
	Binding *Binding
	If      *IfBlock
}

// IfBlock is a block conditional inside an object:
//
//	if <cond>:
//	  ...entries...
//	else:
//	  ...entries...
//	endif
type IfBlock struct {
	Cond *Condition
	Then []Entry
	Else []Entry
	Line int
}

// Condition is an equality test between two scalar operands.
type Condition struct {
	Left  *Expr
	Right *Expr
	Line  int
}
