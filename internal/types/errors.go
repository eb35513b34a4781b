package types

import (
	"fmt"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/walk"
)

// TyErr is the sum of everything that can go wrong during type comparison,
// mirroring spec.md §7's TyErr enum. Every variant below both satisfies
// error and isTyErr, so a function that wants to accept "any TyErr" can take
// the interface, and one that wants a specific failure can type-assert.
type TyErr interface {
	error
	isTyErr()
}

// MismatchError is TyErr::Mismatch(got, expected): the two sides of a
// subtype/equality check are structurally incompatible.
type MismatchError struct {
	Got, Expected Ty
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}
func (MismatchError) isTyErr() {}

// UnboundNameError is TyErr::UnboundName(n). It embeds the walker's generic
// UnboundNameError rather than duplicating its shape, giving it a
// TyErr-flavored name. The walker itself returns the unwrapped
// walk.UnboundNameError for an Atom/VarRef lookup miss, and nothing in this
// package converts that into this type.
type UnboundNameError struct {
	walk.UnboundNameError
}

func (UnboundNameError) isTyErr() {}

// NeedsAnnotationError is TyErr::NeedsAnnotation: a positive (synthesis)
// walk reached a position whose type can't be inferred without a hint.
// internal/quote's quoteSynthPos raises it for a quotation of a negative
// nonterminal (Pat).
type NeedsAnnotationError struct {
	At ast.AST
}

func (e NeedsAnnotationError) Error() string {
	return fmt.Sprintf("cannot synthesize a type for %s without an annotation", printAST(e.At))
}
func (NeedsAnnotationError) isTyErr() {}

// BadQuotationDepthError is TyErr::BadQuotationDepth: an unquote form
// appeared with no enclosing quotation to unquote out of, or nested deeper
// than the enclosing quotation supports. Wraps the walker's generic version
// the same way UnboundNameError does.
type BadQuotationDepthError struct {
	walk.BadQuotationDepthError
}

func (BadQuotationDepthError) isTyErr() {}

// NotAQuotationHeadError is TyErr::NotAQuotationHead: less_quoted_ty was
// asked to peel a phase-annotation wrapper (type_apply applied to the
// expected nonterminal's abstract parametric type) off a Ty that isn't
// shaped that way at all, or names the wrong nonterminal.
type NotAQuotationHeadError struct {
	Want name.Name
	Got  Ty
}

func (e NotAQuotationHeadError) Error() string {
	return fmt.Sprintf("expected a %s<[...]< quotation type, got %s", e.Want, e.Got)
}
func (NotAQuotationHeadError) isTyErr() {}
