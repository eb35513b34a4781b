package types

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/walk"
)

// ntPolarity records which side of a quotation's ⊢ relation each built-in
// nonterminal sits on: Expr and Type synthesize (positive, leaf-to-root);
// Pat destructures (negative, root-to-leaf). Stmt behaves like Expr. This is
// the same distinction spec.md §4.1 describes generically via WalkMode's own
// Pos/Neg split, specialized here to the concrete nonterminal set this
// repository's demonstration grammar recognises.
var ntPolarity = map[string]bool{
	"Expr": true,
	"Type": true,
	"Stmt": true,
	"Pat":  false,
}

// NtIsPositive reports whether nt is a synthesizing (as opposed to
// destructuring) nonterminal — the core_type_forms::nt_is_positive
// collaborator spec.md §4.3's unquote rules consult to decide which walk
// direction an unquote hole's body should run in.
func NtIsPositive(nt name.Name) bool {
	positive, ok := ntPolarity[nt.String()]
	if !ok {
		panic("ICE: NtIsPositive asked about an unregistered nonterminal: " + nt.String())
	}
	return positive
}

// GetAbstractParametricType returns the form every `nt<[...]<` quotation
// type annotation is built from — core_type_forms::get__abstract_parametric_type
// in the original.
func GetAbstractParametricType() *walk.Form { return formAbstractParametricType }

// NtToType builds the type denoting "a quoted nt", e.g. NtToType("Expr")
// names the type a quoted expression carries before it's wrapped in a
// type_apply alongside its interpolation-hole argument types.
func NtToType(nt name.Name) Ty {
	parts := ast.NewParts().WithLeaf(slotName, ast.Atom{Name: nt})
	return NewTy(ast.Node{Form: formAbstractParametricType, Parts: parts})
}

// MoreQuotedTy wraps t one quotation phase deeper for nonterminal nt: the
// inverse of LessQuotedTy, applied when a quotation's body type needs an
// extra `nt<[...]<` layer (e.g. typing the quotation form itself, one level
// up from typing what's inside it).
func MoreQuotedTy(t Ty, nt name.Name) Ty {
	return TypeApply(NtToType(nt), []Ty{t})
}

// LessQuotedTy peels one `nt<[...]<` layer off t, returning the type
// underneath. If wantNt is non-nil, the layer's nonterminal must match it
// exactly; errAt is only used to build the NotAQuotationHeadError should
// this fail. This is core_type_forms::less_quoted_ty, the operation
// unquote()'s typing rule uses to check that what an interpolation hole sits
// inside actually is a quotation of the nonterminal it claims.
func LessQuotedTy(t Ty, wantNt *name.Name, errAt ast.AST) (Ty, error) {
	node, ok := t.root.(ast.Node)
	if !ok || !sameForm(node, formTypeApply) {
		return Ty{}, notAQuotationHead(wantNt, t)
	}
	args, ok := node.Parts.GetSeq(slotArg)
	if !ok || len(args) != 1 {
		panic("ICE: type_apply node has a malformed \"arg\" slot")
	}
	ratorLeaf := node.Parts.GetLeafOrPanic(slotTypeRator)
	ratorNode, ok := ratorLeaf.(ast.Node)
	if !ok || !sameForm(ratorNode, formAbstractParametricType) {
		return Ty{}, notAQuotationHead(wantNt, t)
	}
	if wantNt != nil {
		got := nameOf(ratorNode.Parts.GetLeafOrPanic(slotName))
		if got != *wantNt {
			return Ty{}, notAQuotationHead(wantNt, t)
		}
	}
	return NewTy(args[0]), nil
}

func notAQuotationHead(wantNt *name.Name, got Ty) error {
	var want name.Name
	if wantNt != nil {
		want = *wantNt
	}
	return NotAQuotationHeadError{Want: want, Got: got}
}
