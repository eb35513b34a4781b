package value

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/walk"
)

// evalMode is spec.md's Eval: a positive walk of an expression, producing
// the Value it reduces to.
type evalMode struct{}

// Eval is the walk.Mode[Value] singleton driving expression evaluation.
var Eval walk.Mode[Value] = evalMode{}

func (evalMode) Dir() walk.Dir { return walk.Positive }
func (evalMode) GetWalkRule(f *walk.Form) walk.BiDi[Value] {
	return walk.AsBiDi[Value](f.Eval, "Eval")
}
func (evalMode) AutomaticallyExtendEnv() bool { return true }
func (evalMode) Underspecified() Value {
	panic("ICE: Eval has no underspecified placeholder (that is a type-walk concept)")
}
func (evalMode) MismatchError(got, expd Value) error { return MismatchError{Got: got, Expected: expd} }
func (evalMode) Lift(a ast.AST) Value                { return Quoted{AST: a} }
func (evalMode) Lower(v Value) (ast.AST, bool) {
	q, ok := v.(Quoted)
	if !ok {
		return nil, false
	}
	return q.AST, true
}
func (evalMode) QuasiSwitch() walk.Mode[Value] { return QQuote }

// destructureMode is spec.md's Destructure: a negative walk of a pattern
// against a scrutinee Value, producing the environment of bindings the
// pattern introduces.
type destructureMode struct{}

// Destructure is the walk.Mode[Value] singleton driving pattern matching.
var Destructure walk.Mode[Value] = destructureMode{}

func (destructureMode) Dir() walk.Dir { return walk.Negative }
func (destructureMode) GetWalkRule(f *walk.Form) walk.BiDi[Value] {
	return walk.AsBiDi[Value](f.Eval, "Eval")
}
func (destructureMode) AutomaticallyExtendEnv() bool { return true }
func (destructureMode) Underspecified() Value {
	panic("ICE: Destructure has no underspecified placeholder (that is a type-walk concept)")
}
func (destructureMode) MismatchError(got, expd Value) error {
	return MismatchError{Got: got, Expected: expd}
}
func (destructureMode) Lift(a ast.AST) Value { return Quoted{AST: a} }
func (destructureMode) Lower(v Value) (ast.AST, bool) {
	q, ok := v.(Quoted)
	if !ok {
		return nil, false
	}
	return q.AST, true
}
func (destructureMode) QuasiSwitch() walk.Mode[Value] { return QQuoteDestr }

// qquoteMode is spec.md's QQuote: a positive walk of a syntax quotation's
// body, producing the AST fragment (wrapped as a Quoted Value) the
// quotation denotes, with unquote holes evaluated and spliced in.
type qquoteMode struct{}

// QQuote is the walk.Mode[Value] singleton Eval switches to on crossing a
// QuoteMore boundary.
var QQuote walk.Mode[Value] = qquoteMode{}

func (qquoteMode) Dir() walk.Dir { return walk.Positive }
func (qquoteMode) GetWalkRule(f *walk.Form) walk.BiDi[Value] {
	return walk.AsBiDi[Value](f.Quasiquote, "Quasiquote")
}
func (qquoteMode) AutomaticallyExtendEnv() bool { return true }
func (qquoteMode) Underspecified() Value {
	panic("ICE: QQuote has no underspecified placeholder (that is a type-walk concept)")
}
func (qquoteMode) MismatchError(got, expd Value) error { return MismatchError{Got: got, Expected: expd} }
func (qquoteMode) Lift(a ast.AST) Value                { return Quoted{AST: a} }
func (qquoteMode) Lower(v Value) (ast.AST, bool) {
	q, ok := v.(Quoted)
	if !ok {
		return nil, false
	}
	return q.AST, true
}
func (qquoteMode) QuasiSwitch() walk.Mode[Value] { return Eval }

// qquoteDestrMode is QQuote's negative counterpart: matching a quoted
// pattern's body against a concrete scrutinee AST, harvesting the bindings
// unquote holes deposit.
type qquoteDestrMode struct{}

// QQuoteDestr is the walk.Mode[Value] singleton Destructure switches to on
// crossing a QuoteMore boundary.
var QQuoteDestr walk.Mode[Value] = qquoteDestrMode{}

func (qquoteDestrMode) Dir() walk.Dir { return walk.Negative }
func (qquoteDestrMode) GetWalkRule(f *walk.Form) walk.BiDi[Value] {
	return walk.AsBiDi[Value](f.Quasiquote, "Quasiquote")
}
func (qquoteDestrMode) AutomaticallyExtendEnv() bool { return true }
func (qquoteDestrMode) Underspecified() Value {
	panic("ICE: QQuoteDestr has no underspecified placeholder (that is a type-walk concept)")
}
func (qquoteDestrMode) MismatchError(got, expd Value) error {
	return MismatchError{Got: got, Expected: expd}
}
func (qquoteDestrMode) Lift(a ast.AST) Value { return Quoted{AST: a} }
func (qquoteDestrMode) Lower(v Value) (ast.AST, bool) {
	q, ok := v.(Quoted)
	if !ok {
		return nil, false
	}
	return q.AST, true
}
func (qquoteDestrMode) QuasiSwitch() walk.Mode[Value] { return Destructure }
