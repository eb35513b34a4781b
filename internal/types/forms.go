package types

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/coreforms"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/session"
	"github.com/riffle-lang/riffle/internal/walk"
)

// The nine privileged type forms. int/nat/bool/float are nullary and
// structural (LiteralLike suffices both directions, now that negLiteralLike
// also checks form identity rather than shape alone). fn needs a Custom
// negative rule to flip variance on its params; struct, forall_type,
// type_by_name and abstract_parametric_type all carry label-only slots
// (component names, bound parameter names, the name itself) that must never
// be walked as if they were subtrees, so all four get Custom rules in both
// directions.
var (
	formInt   = &walk.Form{Name: name.New("int"), TypeCompare: walk.BiDi[Ty]{Pos: litPos, Neg: litNeg}}
	formNat   = &walk.Form{Name: name.New("nat"), TypeCompare: walk.BiDi[Ty]{Pos: litPos, Neg: litNeg}}
	formBool  = &walk.Form{Name: name.New("bool"), TypeCompare: walk.BiDi[Ty]{Pos: litPos, Neg: litNeg}}
	formFloat = &walk.Form{Name: name.New("float"), TypeCompare: walk.BiDi[Ty]{Pos: litPos, Neg: litNeg}}

	formFn = &walk.Form{
		Name: name.New("fn"),
		TypeCompare: walk.BiDi[Ty]{
			Pos: litPos,
			Neg: walk.NegRule[Ty]{Kind: walk.Custom, Fn: fnSubtypeNeg},
		},
	}

	formTypeApply = &walk.Form{Name: name.New("type_apply"), TypeCompare: walk.BiDi[Ty]{Pos: litPos, Neg: litNeg}}

	formStruct = &walk.Form{
		Name: name.New("struct"),
		TypeCompare: walk.BiDi[Ty]{
			Pos: walk.PosRule[Ty]{Kind: walk.Custom, Fn: structCanonPos},
			Neg: walk.NegRule[Ty]{Kind: walk.Custom, Fn: structSubtypeNeg},
		},
	}

	formForallType = &walk.Form{
		Name: name.New("forall_type"),
		TypeCompare: walk.BiDi[Ty]{
			Pos: walk.PosRule[Ty]{Kind: walk.Custom, Fn: forallCanonPos},
			Neg: walk.NegRule[Ty]{Kind: walk.Custom, Fn: forallSubtypeNeg},
		},
	}

	formTypeByName = &walk.Form{
		Name: name.New("type_by_name"),
		TypeCompare: walk.BiDi[Ty]{
			Pos: walk.PosRule[Ty]{Kind: walk.Custom, Fn: typeByNameCanonPos},
			Neg: walk.NegRule[Ty]{Kind: walk.Custom, Fn: typeByNameSubtypeNeg},
		},
	}

	formAbstractParametricType = &walk.Form{
		Name: name.New("abstract_parametric_type"),
		TypeCompare: walk.BiDi[Ty]{
			Pos: walk.PosRule[Ty]{Kind: walk.Custom, Fn: abstractParamTypeCanonPos},
			Neg: walk.NegRule[Ty]{Kind: walk.Custom, Fn: abstractParamTypeSubtypeNeg},
		},
	}

	litPos = walk.PosRule[Ty]{Kind: walk.LiteralLike}
	litNeg = walk.NegRule[Ty]{Kind: walk.LiteralLike}
)

func init() {
	for _, f := range []*walk.Form{
		formInt, formNat, formBool, formFloat, formFn, formTypeApply,
		formStruct, formForallType, formTypeByName, formAbstractParametricType,
	} {
		coreforms.RegisterForm("type", f)
	}
}

func sameForm(n ast.Node, f *walk.Form) bool {
	nf, ok := n.Form.(*walk.Form)
	return ok && nf == f
}

func mismatchHere(ctx *walk.LazyWalkReses[Ty]) error {
	return MismatchError{Got: ctx.ContextElt(), Expected: NewTy(ctx.This)}
}

func nameOf(a ast.AST) name.Name {
	n, err := ast.ToName(a)
	if err != nil {
		panic("ICE: expected a bare name, got " + err.Error())
	}
	return n
}

// structCanonPos canonicalizes each component type in place; component_name
// is a sequence of plain labels and passes through unchanged.
func structCanonPos(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (Ty, error) {
	comps, err := walk.GetSeqRes(ctx, mode, slotComponent)
	if err != nil {
		return Ty{}, err
	}
	labels := ctx.GetTermSeq(slotComponentName)
	names := make([]name.Name, len(labels))
	for i, l := range labels {
		names[i] = nameOf(l)
	}
	return Struct(names, comps), nil
}

// structSubtypeNeg requires the context (sub) to be a struct with exactly
// the same component names in the same order, then compares each component
// type pointwise (covariantly).
func structSubtypeNeg(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (*env.Env[Ty], error) {
	subAST, ok := mode.Lower(ctx.ContextElt())
	subNode, ok2 := subAST.(ast.Node)
	if !ok || !ok2 || !sameForm(subNode, formStruct) {
		return nil, mismatchHere(ctx)
	}
	supLabels := ctx.GetTermSeq(slotComponentName)
	subLabels, _ := subNode.Parts.GetSeq(slotComponentName)
	if len(supLabels) != len(subLabels) {
		return nil, mismatchHere(ctx)
	}
	for i := range supLabels {
		if nameOf(supLabels[i]) != nameOf(subLabels[i]) {
			return nil, mismatchHere(ctx)
		}
	}
	subComps, _ := subNode.Parts.GetSeq(slotComponent)
	expected := make([]Ty, len(subComps))
	for i, c := range subComps {
		expected[i] = NewTy(c)
	}
	bindings, ok3, err := walk.GetNegSeqRes(ctx, mode, slotComponent, expected)
	if err != nil {
		return nil, err
	}
	if !ok3 {
		return nil, mismatchHere(ctx)
	}
	return bindings, nil
}

// forallCanonPos eliminates ∀ by substituting each bound parameter with a
// fresh unification slot before recursing into the body (spec.md §4.4's
// ∀-elimination rule).
func forallCanonPos(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (Ty, error) {
	cm, ok := mode.(*canonicalizeMode)
	if !ok {
		panic("ICE: forall_type's Canonicalize rule invoked under a non-Canonicalize mode")
	}
	newEnv := ctx.Env
	for _, p := range ctx.GetTermSeq(slotParam) {
		fresh := cm.sess.Fresh()
		cm.sess.Declare(fresh)
		newEnv = newEnv.Extend(nameOf(p), TypeByName(fresh))
	}
	body := ctx.GetTerm(slotBody)
	base := *ctx
	base.Env = newEnv
	return walk.WalkPos(body, &base, mode)
}

// forallSubtypeNeg freshens sup's own bound parameters into fresh slots in
// the same session, then negatively walks the body against the same
// context element (which, for a ∀-headed sub, was already eliminated by
// MustSubtype canonicalizing sub before this walk started).
func forallSubtypeNeg(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (*env.Env[Ty], error) {
	sm, ok := mode.(*subtypeMode)
	if !ok {
		panic("ICE: forall_type's Subtype rule invoked under a non-Subtype mode")
	}
	newEnv := ctx.Env
	for _, p := range ctx.GetTermSeq(slotParam) {
		fresh := sm.sess.Fresh()
		sm.sess.Declare(fresh)
		newEnv = newEnv.Extend(nameOf(p), TypeByName(fresh))
	}
	body := ctx.GetTerm(slotBody)
	base := *ctx
	base.Env = newEnv
	withCtx := base.WithContext(ctx.ContextElt())
	return walk.WalkNeg(body, withCtx, mode)
}

// typeByNameCanonPos substitutes through an environment binding (how a
// forall_type's freshened parameter is resolved when the body references
// it) or a previously-bound unification slot; a name that is neither just
// canonicalizes to itself, representing a still-abstract reference.
func typeByNameCanonPos(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (Ty, error) {
	cm, ok := mode.(*canonicalizeMode)
	if !ok {
		panic("ICE: type_by_name's Canonicalize rule invoked under a non-Canonicalize mode")
	}
	n := nameOf(ctx.GetTerm(slotName))
	if v, ok := ctx.Env.Find(n); ok {
		return walk.WalkPos(v.AST(), ctx, mode)
	}
	if v, isSlot, hasVal := session.Lookup[Ty](cm.sess, n); isSlot && hasVal {
		return walk.WalkPos(v.AST(), ctx, mode)
	}
	return TypeByName(n), nil
}

// typeByNameSubtypeNeg is where unification actually happens: an unbound
// slot is bound to whatever the context (sub) side is; a bound slot (or an
// env-bound name, e.g. a forall_type parameter already resolved to one) is
// re-dispatched so its own form's rule compares it against the same context;
// a free name with no binding at all requires the two sides to name the
// same otherwise-unresolved type variable.
func typeByNameSubtypeNeg(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (*env.Env[Ty], error) {
	sm, ok := mode.(*subtypeMode)
	if !ok {
		panic("ICE: type_by_name's Subtype rule invoked under a non-Subtype mode")
	}
	n := nameOf(ctx.GetTerm(slotName))
	subTy := ctx.ContextElt()

	if v, ok := ctx.Env.Find(n); ok {
		return walk.WalkNeg(v.AST(), ctx, mode)
	}
	if sm.sess.IsSlot(n) {
		bound, _, hasVal := session.Lookup[Ty](sm.sess, n)
		if !hasVal {
			session.Bind(sm.sess, n, subTy)
			return env.New[Ty](), nil
		}
		return walk.WalkNeg(bound.AST(), ctx, mode)
	}
	if otherN, ok := IsTypeByName(subTy); ok && otherN == n {
		return env.New[Ty](), nil
	}
	return nil, mismatchHere(ctx)
}

func abstractParamTypeCanonPos(ctx *walk.LazyWalkReses[Ty], _ walk.Mode[Ty]) (Ty, error) {
	return NewTy(ast.Node{Form: formAbstractParametricType, Parts: ctx.Parts}), nil
}

func abstractParamTypeSubtypeNeg(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (*env.Env[Ty], error) {
	subAST, ok := mode.Lower(ctx.ContextElt())
	subNode, ok2 := subAST.(ast.Node)
	if !ok || !ok2 || !sameForm(subNode, formAbstractParametricType) {
		return nil, mismatchHere(ctx)
	}
	if nameOf(ctx.GetTerm(slotName)) != nameOf(subNode.Parts.GetLeafOrPanic(slotName)) {
		return nil, mismatchHere(ctx)
	}
	return env.New[Ty](), nil
}

// fnSubtypeNeg implements function subtyping with the variance flip spec.md
// §4.4 calls for: parameters are compared with sides swapped (a sup param is
// first canonicalized to a concrete type, which is then required to be a
// subtype of the sub param — contravariance), while the return type is compared
// the same way as everything else (covariance).
func fnSubtypeNeg(ctx *walk.LazyWalkReses[Ty], mode walk.Mode[Ty]) (*env.Env[Ty], error) {
	sm, ok := mode.(*subtypeMode)
	if !ok {
		panic("ICE: fn's Subtype rule invoked under a non-Subtype mode")
	}
	subAST, ok := mode.Lower(ctx.ContextElt())
	subNode, ok2 := subAST.(ast.Node)
	if !ok || !ok2 || !sameForm(subNode, formFn) {
		return nil, mismatchHere(ctx)
	}
	subParams, _ := subNode.Parts.GetSeq(slotParam)
	subRet, _ := subNode.Parts.GetLeaf(slotRet)
	supParams := ctx.GetTermSeq(slotParam)
	if len(supParams) != len(subParams) {
		return nil, mismatchHere(ctx)
	}

	// Contravariance: must_subtype(sub, sup) requires sup's param <: sub's
	// param for each position (the flip), not the other way around. So each
	// sup param is canonicalized to a concrete type and used as the
	// *context* (the sub-role value), while the corresponding sub param AST
	// is what actually gets negatively walked (the sup-role term).
	cm := &canonicalizeMode{sess: sm.sess}
	bindings := env.New[Ty]()
	base := *ctx
	for i, supParamTerm := range supParams {
		posBase := base
		supParamTy, err := walk.WalkPos(supParamTerm, &posBase, cm)
		if err != nil {
			return nil, err
		}
		negBase := base
		negCtx := negBase.WithContext(supParamTy)
		sub, err := walk.WalkNeg(subParams[i], negCtx, mode)
		if err != nil {
			return nil, err
		}
		bindings = bindings.Combine(sub)
	}

	retCtx := base
	retNegCtx := retCtx.WithContext(NewTy(subRet))
	retBindings, err := walk.WalkNeg(ctx.GetTerm(slotRet), retNegCtx, mode)
	if err != nil {
		return nil, err
	}
	return bindings.Combine(retBindings), nil
}
