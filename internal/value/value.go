// Package value gives spec.md's Eval/Destructure/QQuote/QQuoteDestr walk
// modes a concrete Elt to operate over: a minimal runtime Value sum, just
// rich enough to demonstrate the walker driving evaluation and pattern
// destructuring over the same Form records the type comparator uses,
// without this repository growing into a general-purpose interpreter
// (explicitly out of scope — spec.md treats built-in forms' runtime
// behavior as implementation detail beyond their name/arity).
package value

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
)

// Value is the sum every eval/destructure/quasiquote walk produces or
// consumes. Int and Bool are the two primitive runtime values this core's
// demonstration builtins need; Quoted carries a syntax-quotation result (or,
// during QQuoteDestr, the scrutinee a quoted pattern is matched against) —
// this is the "Elt has an AST case" property walk.Form's doc comment on
// LiteralLike requires of both Ty and Value.
type Value interface {
	isValue()
}

// Int is a runtime integer value.
type Int int64

func (Int) isValue() {}

// Bool is a runtime boolean value.
type Bool bool

func (Bool) isValue() {}

// Quoted wraps an AST fragment produced by (or matched against, in
// QQuoteDestr) a syntax quotation.
type Quoted struct {
	AST ast.AST
}

func (Quoted) isValue() {}

// Struct is a runtime record value: parallel component-name and
// component-value slices, mirroring the types package's structural Struct
// type one level down (a value of this shape is what a struct_expr
// evaluates to, and what a struct_pat destructures against).
type Struct struct {
	Names []name.Name
	Vals  []Value
}

func (Struct) isValue() {}
