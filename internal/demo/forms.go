// Package demo supplies the handful of built-in expression and pattern
// forms this repository needs so the quotation core (internal/quote) has
// something concrete to quote over, and so the walker can be exercised
// end-to-end through Eval/Destructure. Per coreforms' package doc, a
// built-in form's runtime behavior beyond its name and arity is out of
// scope — these are the minimal bodies behind struct_expr/struct_pat and
// the two literal forms, not a language.
package demo

import (
	"strconv"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/coreforms"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/types"
	"github.com/riffle-lang/riffle/internal/value"
	"github.com/riffle-lang/riffle/internal/walk"
)

var (
	slotValue         = name.New("value")
	slotComponentName = name.New("component_name")
	slotComponent     = name.New("component")
)

var (
	formIntLit = &walk.Form{
		Name: name.New("int_lit"),
		Eval: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: intLitEvalPos},
			Neg: walk.NegRule[value.Value]{Kind: walk.NotWalked},
		},
		// A literal quotes to itself: no sub-positions to recurse into, but
		// its "value" slot is a label (a bare numeral), not a variable
		// reference or subexpression, so LiteralLike is wrong here — its
		// generic rebuild walks every leaf through WalkPos, whose ast.Atom
		// case does an environment lookup. Custom rules read the label raw.
		Quasiquote: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: literalQQuotePos},
			Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: literalQQuoteDestrNeg},
		},
		SynthType: walk.BiDi[types.Ty]{
			Pos: walk.PosRule[types.Ty]{Kind: walk.Custom, Fn: intLitSynthPos},
			Neg: walk.NegRule[types.Ty]{Kind: walk.NotWalked},
		},
	}

	formBoolLit = &walk.Form{
		Name: name.New("bool_lit"),
		Eval: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: boolLitEvalPos},
			Neg: walk.NegRule[value.Value]{Kind: walk.NotWalked},
		},
		Quasiquote: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: literalQQuotePos},
			Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: literalQQuoteDestrNeg},
		},
		SynthType: walk.BiDi[types.Ty]{
			Pos: walk.PosRule[types.Ty]{Kind: walk.Custom, Fn: boolLitSynthPos},
			Neg: walk.NegRule[types.Ty]{Kind: walk.NotWalked},
		},
	}

	formStructExpr = &walk.Form{
		Name: name.New("struct_expr"),
		Eval: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: structExprEvalPos},
			Neg: walk.NegRule[value.Value]{Kind: walk.NotWalked},
		},
		// Like the literals above, component_name is a label sequence (bare
		// field names) that must stay raw; only component is a genuine
		// subtree sequence worth recursing into under the same mode.
		Quasiquote: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: structQQuotePos},
			Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: structQQuoteDestrNeg},
		},
		SynthType: walk.BiDi[types.Ty]{
			Pos: walk.PosRule[types.Ty]{Kind: walk.Custom, Fn: structExprSynthPos},
			Neg: walk.NegRule[types.Ty]{Kind: walk.NotWalked},
		},
	}

	formStructPat = &walk.Form{
		Name: name.New("struct_pat"),
		Eval: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.NotWalked},
			Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: structPatDestructureNeg},
		},
		Quasiquote: walk.BiDi[value.Value]{
			Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: structQQuotePos},
			Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: structQQuoteDestrNeg},
		},
		SynthType: walk.BiDi[types.Ty]{
			Pos: walk.PosRule[types.Ty]{Kind: walk.NotWalked},
			Neg: walk.NegRule[types.Ty]{Kind: walk.Custom, Fn: structPatSynthNeg},
		},
	}
)

func init() {
	coreforms.RegisterForm("expr", formIntLit)
	coreforms.RegisterForm("expr", formBoolLit)
	coreforms.RegisterForm("expr", formStructExpr)
	coreforms.RegisterForm("pat", formStructPat)
}

// IntLit builds an int_lit expression AST node for the literal v.
func IntLit(v int64) ast.AST {
	parts := ast.NewParts().WithLeaf(slotValue, ast.Atom{Name: name.New(strconv.FormatInt(v, 10))})
	return ast.Node{Form: formIntLit, Parts: parts}
}

// BoolLit builds a bool_lit expression AST node for the literal v.
func BoolLit(v bool) ast.AST {
	parts := ast.NewParts().WithLeaf(slotValue, ast.Atom{Name: name.New(strconv.FormatBool(v))})
	return ast.Node{Form: formBoolLit, Parts: parts}
}

// StructExpr builds a struct_expr node constructing a record with the given
// component names, each initialised from the parallel exprs slice.
func StructExpr(names []name.Name, exprs []ast.AST) ast.AST {
	nameSeq := make([]ast.AST, len(names))
	for i, n := range names {
		nameSeq[i] = ast.Atom{Name: n}
	}
	parts := ast.NewParts().WithSeq(slotComponentName, nameSeq).WithSeq(slotComponent, exprs)
	return ast.Node{Form: formStructExpr, Parts: parts}
}

// StructPat builds a struct_pat node matching a record with the given
// component names, each destructured into the parallel pats slice.
func StructPat(names []name.Name, pats []ast.AST) ast.AST {
	nameSeq := make([]ast.AST, len(names))
	for i, n := range names {
		nameSeq[i] = ast.Atom{Name: n}
	}
	parts := ast.NewParts().WithSeq(slotComponentName, nameSeq).WithSeq(slotComponent, pats)
	return ast.Node{Form: formStructPat, Parts: parts}
}

func intLitEvalPos(ctx *walk.LazyWalkReses[value.Value], _ walk.Mode[value.Value]) (value.Value, error) {
	leaf := ctx.GetTerm(slotValue)
	n, err := ast.ToName(leaf)
	if err != nil {
		panic("ICE: int_lit's \"value\" slot is not an Atom: " + err.Error())
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		panic("ICE: int_lit's \"value\" slot is not a valid integer literal: " + err.Error())
	}
	return value.Int(v), nil
}

func boolLitEvalPos(ctx *walk.LazyWalkReses[value.Value], _ walk.Mode[value.Value]) (value.Value, error) {
	leaf := ctx.GetTerm(slotValue)
	n, err := ast.ToName(leaf)
	if err != nil {
		panic("ICE: bool_lit's \"value\" slot is not an Atom: " + err.Error())
	}
	v, err := strconv.ParseBool(n.String())
	if err != nil {
		panic("ICE: bool_lit's \"value\" slot is not a valid boolean literal: " + err.Error())
	}
	return value.Bool(v), nil
}

func structLabelsOf[Elt any](ctx *walk.LazyWalkReses[Elt]) []name.Name {
	labels := ctx.GetTermSeq(slotComponentName)
	out := make([]name.Name, len(labels))
	for i, l := range labels {
		n, err := ast.ToName(l)
		if err != nil {
			panic("ICE: struct component_name is not a bare name: " + err.Error())
		}
		out[i] = n
	}
	return out
}

func structExprEvalPos(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (value.Value, error) {
	names := structLabelsOf(ctx)
	vals, err := walk.GetSeqRes(ctx, mode, slotComponent)
	if err != nil {
		return nil, err
	}
	return value.Struct{Names: names, Vals: vals}, nil
}

func structPatDestructureNeg(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (*env.Env[value.Value], error) {
	scrut, ok := ctx.ContextElt().(value.Struct)
	if !ok {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: value.Struct{Names: structLabelsOf(ctx)}}
	}
	supNames := structLabelsOf(ctx)
	if len(supNames) != len(scrut.Names) {
		return nil, value.MismatchError{Got: scrut, Expected: value.Struct{Names: supNames}}
	}
	for i := range supNames {
		if supNames[i] != scrut.Names[i] {
			return nil, value.MismatchError{Got: scrut, Expected: value.Struct{Names: supNames}}
		}
	}
	bindings, ok, err := walk.GetNegSeqRes(ctx, mode, slotComponent, scrut.Vals)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, value.MismatchError{Got: scrut, Expected: value.Struct{Names: supNames}}
	}
	return bindings, nil
}

func nameOf(a ast.AST) name.Name {
	n, err := ast.ToName(a)
	if err != nil {
		panic("ICE: expected a bare name: " + err.Error())
	}
	return n
}

// literalQQuotePos implements int_lit/bool_lit's Quasiquote.Pos: a literal
// is already its own quotation, so there is nothing to recurse into —
// ctx.This is the int_lit/bool_lit node itself, reproduced verbatim.
func literalQQuotePos(ctx *walk.LazyWalkReses[value.Value], _ walk.Mode[value.Value]) (value.Value, error) {
	return value.Quoted{AST: ctx.This}, nil
}

// literalQQuoteDestrNeg implements int_lit/bool_lit's Quasiquote.Neg:
// matching a quoted literal pattern against a quoted scrutinee succeeds
// only when the scrutinee is the same form carrying the same raw value.
// This compares the "value" leaf directly rather than walking it, since it
// is a label (a bare numeral), not a variable reference.
func literalQQuoteDestrNeg(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (*env.Env[value.Value], error) {
	n := ctx.This.(ast.Node)
	scrutAST, ok := mode.Lower(ctx.ContextElt())
	if !ok {
		panic("ICE: Quasiquote rule applied to a mode whose Elt cannot represent an AST")
	}
	scrut, ok := scrutAST.(ast.Node)
	if !ok || scrut.Form != n.Form {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
	}
	leaf, _ := n.Parts.GetLeaf(slotValue)
	scrutLeaf, _ := scrut.Parts.GetLeaf(slotValue)
	if nameOf(leaf) != nameOf(scrutLeaf) {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
	}
	return env.New[value.Value](), nil
}

// structQQuotePos implements struct_expr/struct_pat's Quasiquote.Pos:
// component_name stays raw (it's a label sequence, not subexpressions), but
// component is a genuine subtree sequence, recursed into under the same
// mode the rule itself received (a plain ast.Node recursion, not a phase
// crossing, so QuasiSwitch doesn't apply here) and rebuilt into a fresh node
// of the same form.
func structQQuotePos(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (value.Value, error) {
	n := ctx.This.(ast.Node)
	vals, err := walk.GetSeqRes(ctx, mode, slotComponent)
	if err != nil {
		return nil, err
	}
	comps := make([]ast.AST, len(vals))
	for i, v := range vals {
		a, ok := mode.Lower(v)
		if !ok {
			panic("ICE: struct component's quasiquote result cannot be lowered to an AST")
		}
		comps[i] = a
	}
	nameSeq, _ := n.Parts.GetSeq(slotComponentName)
	parts := ast.NewParts().WithSeq(slotComponentName, nameSeq).WithSeq(slotComponent, comps)
	return mode.Lift(ast.Node{Form: n.Form, Parts: parts}), nil
}

// structQQuoteDestrNeg is structQQuotePos's negative counterpart: match
// component_name pointwise against the scrutinee's own label sequence (raw,
// not walked), then destructure each component position in turn.
func structQQuoteDestrNeg(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (*env.Env[value.Value], error) {
	n := ctx.This.(ast.Node)
	scrutAST, ok := mode.Lower(ctx.ContextElt())
	if !ok {
		panic("ICE: Quasiquote rule applied to a mode whose Elt cannot represent an AST")
	}
	scrut, ok := scrutAST.(ast.Node)
	if !ok || scrut.Form != n.Form {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
	}
	supNames, _ := n.Parts.GetSeq(slotComponentName)
	subNames, _ := scrut.Parts.GetSeq(slotComponentName)
	if len(supNames) != len(subNames) {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
	}
	for i := range supNames {
		if nameOf(supNames[i]) != nameOf(subNames[i]) {
			return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
		}
	}
	subComps, _ := scrut.Parts.GetSeq(slotComponent)
	expected := make([]value.Value, len(subComps))
	for i, a := range subComps {
		expected[i] = mode.Lift(a)
	}
	bindings, ok, err := walk.GetNegSeqRes(ctx, mode, slotComponent, expected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, value.MismatchError{Got: ctx.ContextElt(), Expected: mode.Lift(n)}
	}
	return bindings, nil
}

func intLitSynthPos(ctx *walk.LazyWalkReses[types.Ty], _ walk.Mode[types.Ty]) (types.Ty, error) {
	return types.Int(), nil
}

func boolLitSynthPos(ctx *walk.LazyWalkReses[types.Ty], _ walk.Mode[types.Ty]) (types.Ty, error) {
	return types.Bool(), nil
}

// structExprSynthPos synthesizes a struct_expr's Ty by synthesizing each
// component expression in turn and pairing the results with the node's own
// (raw) component_name labels — the SynthType counterpart of
// structExprEvalPos.
func structExprSynthPos(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (types.Ty, error) {
	names := structLabelsOf(ctx)
	comps, err := walk.GetSeqRes(ctx, mode, slotComponent)
	if err != nil {
		return types.Ty{}, err
	}
	return types.Struct(names, comps), nil
}

// structPatSynthNeg checks a struct_pat against the expected record Ty in
// ctx.ContextElt(), matching component names the same way
// structPatDestructureNeg matches component values, then unpacking each
// field pattern against its corresponding component type.
func structPatSynthNeg(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (*env.Env[types.Ty], error) {
	supNames := structLabelsOf(ctx)
	scrutNames, compTys, ok := types.StructComponents(ctx.ContextElt())
	mismatch := func() (*env.Env[types.Ty], error) {
		return nil, types.MismatchError{Got: ctx.ContextElt(), Expected: types.NewTy(ctx.This)}
	}
	if !ok || len(supNames) != len(scrutNames) {
		return mismatch()
	}
	for i := range supNames {
		if supNames[i] != scrutNames[i] {
			return mismatch()
		}
	}
	bindings, ok, err := walk.GetNegSeqRes(ctx, mode, slotComponent, compTys)
	if err != nil {
		return nil, err
	}
	if !ok {
		return mismatch()
	}
	return bindings, nil
}
