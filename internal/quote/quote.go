// Package quote implements spec.md's syntax quotation and unquotation
// forms: quote (the `'[NT | body]'` form, usable in both expression and
// pattern position) and unquote (the `,[NT | body],` escape, usable only
// inside a quotation's body). Both are ordinary walk.Forms; the phase
// bookkeeping itself — pushing/popping the quotation stack, switching
// between ordinary and quasiquote walk modes — is the generic machinery
// internal/walk already provides through LazyWalkReses.QuoteMore/QuoteLess
// and Mode.QuasiSwitch.
//
// This core only ever opens one quotation level at a time (quote forms
// nested inside another quote's body are not supported — dispatching one
// there hits NotWalked); within that single level, unquote can only escape
// by exactly one phase (ast.QuoteLess.Depth == 1), matching
// ast.ValidateQuotationDepth's documented invariant.
package quote

import (
	"fmt"
	"strings"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/coreforms"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/grammar"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/types"
	"github.com/riffle-lang/riffle/internal/value"
	"github.com/riffle-lang/riffle/internal/walk"
)

var (
	slotNt   = name.New("nt")
	slotBody = name.New("body")
)

var formQuote = &walk.Form{
	Name: name.New("quote"),
	Eval: walk.BiDi[value.Value]{
		Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: quoteEvalPos},
		Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: quoteDestructureNeg},
	},
	Quasiquote: walk.BiDi[value.Value]{
		Pos: walk.PosRule[value.Value]{Kind: walk.NotWalked},
		Neg: walk.NegRule[value.Value]{Kind: walk.NotWalked},
	},
	SynthType: walk.BiDi[types.Ty]{
		Pos: walk.PosRule[types.Ty]{Kind: walk.Custom, Fn: quoteSynthPos},
		Neg: walk.NegRule[types.Ty]{Kind: walk.Custom, Fn: quoteSynthNeg},
	},
}

var formUnquote = &walk.Form{
	Name: name.New("unquote"),
	Eval: walk.BiDi[value.Value]{
		Pos: walk.PosRule[value.Value]{Kind: walk.NotWalked},
		Neg: walk.NegRule[value.Value]{Kind: walk.NotWalked},
	},
	Quasiquote: walk.BiDi[value.Value]{
		Pos: walk.PosRule[value.Value]{Kind: walk.Custom, Fn: unquoteQQuotePos},
		Neg: walk.NegRule[value.Value]{Kind: walk.Custom, Fn: unquoteQQuoteDestrNeg},
	},
	SynthType: walk.BiDi[types.Ty]{
		Pos: walk.PosRule[types.Ty]{Kind: walk.Custom, Fn: unquoteSynthPos},
		Neg: walk.NegRule[types.Ty]{Kind: walk.Custom, Fn: unquoteSynthNeg},
	},
}

func init() {
	coreforms.RegisterForm("expr", formQuote)
	coreforms.RegisterForm("pat", formQuote)
	coreforms.RegisterForm("type", formQuote)
	coreforms.RegisterForm("expr", formUnquote)
	coreforms.RegisterForm("pat", formUnquote)
	coreforms.RegisterForm("type", formUnquote)
}

func readNt(ctx *walk.LazyWalkReses[types.Ty]) name.Name {
	leaf := ctx.GetTerm(slotNt)
	nt, err := ast.ToName(leaf)
	if err != nil {
		panic("ICE: quote/unquote's \"nt\" slot is not an Atom: " + err.Error())
	}
	return nt
}

// Quote builds a quotation of body as nonterminal nt: `'[nt | body]'`. body
// is stored bare, not pre-wrapped in ast.QuoteMore: quoteEvalPos/
// quoteDestructureNeg below do the phase shift themselves, via the explicit
// ctx.QuoteMore(startAccumulator) call (needed so a pattern quotation gets
// an accumulator to collect into) — wrapping body in ast.QuoteMore too would
// make WalkPos's own generic QuoteMore case shift the phase a second time.
func Quote(nt name.Name, body ast.AST) ast.AST {
	parts := ast.NewParts().
		WithLeaf(slotNt, ast.Atom{Name: nt}).
		WithLeaf(slotBody, body)
	return ast.Node{Form: formQuote, Parts: parts}
}

// Unquote builds a one-phase escape out of a quotation: `,[nt | body],`. nt
// is the nonterminal the escaped body is expected to produce (used by
// less_quoted_ty to check the hole's type, and for diagnostics).
func Unquote(nt name.Name, body ast.AST) ast.AST {
	parts := ast.NewParts().
		WithLeaf(slotNt, ast.Atom{Name: nt}).
		WithLeaf(slotBody, ast.NewQuoteLess1(body))
	return ast.Node{Form: formUnquote, Parts: parts}
}

func quoteEvalPos(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (value.Value, error) {
	bodyTerm := ctx.GetTerm(slotBody)
	sub := ctx.QuoteMore(false)
	return walk.WalkPos(bodyTerm, sub, mode.QuasiSwitch())
}

func quoteDestructureNeg(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (*env.Env[value.Value], error) {
	bodyTerm := ctx.GetTerm(slotBody)
	sub := ctx.QuoteMore(true)
	subCtx := sub.WithContext(ctx.ContextElt())
	if _, err := walk.WalkNeg(bodyTerm, subCtx, mode.QuasiSwitch()); err != nil {
		return nil, err
	}
	return sub.AccumulatedBindings(), nil
}

// unquoteQQuotePos evaluates the escaped body one phase down (WalkPos's own
// ast.QuoteLess case does the phase pop and the Eval<->QQuote mode toggle)
// and requires the result to itself be a previously-quoted fragment — this
// core only supports splicing quoted syntax back in, not reifying arbitrary
// runtime values as new AST.
func unquoteQQuotePos(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (value.Value, error) {
	bodyTerm := ctx.GetTerm(slotBody)
	v, err := walk.WalkPos(bodyTerm, ctx, mode)
	if err != nil {
		return nil, err
	}
	q, ok := v.(value.Quoted)
	if !ok {
		return nil, fmt.Errorf("unquote must splice a previously-quoted fragment, got %T", v)
	}
	return q, nil
}

// unquoteQQuoteDestrNeg destructures the escaped sub-pattern against the
// scrutinee one phase down (WalkNeg's ast.QuoteLess case carries
// ctx.ContextElt() through unchanged, since it's the same scrutinee
// position, just now examined at ordinary Destructure), then deposits
// whatever bindings it produced into the enclosing quotation's accumulator
// rather than returning them directly — a pattern quotation's own Eval.Neg
// rule (quoteDestructureNeg) is what actually surfaces them, after the whole
// body has been walked.
func unquoteQQuoteDestrNeg(ctx *walk.LazyWalkReses[value.Value], mode walk.Mode[value.Value]) (*env.Env[value.Value], error) {
	bodyTerm := ctx.GetTerm(slotBody)
	bindings, err := walk.WalkNeg(bodyTerm, ctx, mode)
	if err != nil {
		return nil, err
	}
	for _, n := range bindings.Names() {
		v, _ := bindings.Find(n)
		ctx.AddBinding(n, v)
	}
	return env.New[value.Value](), nil
}

// quoteSynthPos synthesizes a `'[nt | body]'` quotation's own type: nt must
// be one of the positive nonterminals (Expr, Type, Stmt — see
// core_type_forms' ntPolarity), since only those can appear where a
// synthesized type is expected at all, and the body itself is typed one
// phase up, via TypeSynth rather than mode, the same phase shift
// quoteEvalPos performs for value.Eval.
func quoteSynthPos(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (types.Ty, error) {
	nt := readNt(ctx)
	if !types.NtIsPositive(nt) {
		return types.Ty{}, types.NeedsAnnotationError{At: ctx.This}
	}
	bodyTerm := ctx.GetTerm(slotBody)
	sub := ctx.QuoteMore(false)
	bodyTy, err := walk.WalkPos(bodyTerm, sub, types.TypeSynth)
	if err != nil {
		return types.Ty{}, err
	}
	return TypeOfQuote(nt, bodyTy), nil
}

// quoteSynthNeg checks a `'[nt | body]'` quotation pattern against the
// expected Ty in ctx.ContextElt(). Unlike quoteDestructureNeg's value-domain
// counterpart, SynthType has no separate quasiquote family to hand bindings
// off to (TypeSynth/TypeUnpack already are that family — see QuasiSwitch on
// both), so body's bindings flow back out structurally through the ordinary
// return value, not an accumulator: when nt is positive the body is typed
// via TypeSynth one phase up (a quoted Expr/Type/Stmt pattern has no
// "expected shape" of its own to check body against beyond what nt already
// pins down, so no bindings result); when nt is negative (Pat) the expected
// Ty is peeled one layer via TypeOfUnquote and body is checked against it
// with TypeUnpack, and whatever bindings that walk produces (accumulated
// through nested struct_pat fields and unquote escapes via ordinary
// walk.GetNegSeqRes union) are returned as-is.
func quoteSynthNeg(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (*env.Env[types.Ty], error) {
	nt := readNt(ctx)
	bodyTerm := ctx.GetTerm(slotBody)
	sub := ctx.QuoteMore(false)
	if types.NtIsPositive(nt) {
		if _, err := walk.WalkPos(bodyTerm, sub, types.TypeSynth); err != nil {
			return nil, err
		}
		return env.New[types.Ty](), nil
	}
	newCtxTy, err := TypeOfUnquote(nt, ctx.ContextElt(), ctx.This)
	if err != nil {
		return nil, err
	}
	subCtx := sub.WithContext(newCtxTy)
	return walk.WalkNeg(bodyTerm, subCtx, types.TypeUnpack)
}

// unquoteSynthPos types an escape's hole: the body is synthesized one phase
// down (as in unquoteQQuotePos, WalkPos's generic ast.QuoteLess case does
// the phase pop on the ast.NewQuoteLess1-wrapped body slot; TypeSynth's
// QuasiSwitch returns TypeSynth itself, so the mode is unchanged) and its
// type is peeled one `nt<[...]<` layer via TypeOfUnquote. This treats every
// unquote it reaches as sitting in a positive quotation (pos_quot == true
// in the original's terms); an unquote inside quoteSynthNeg's positive-nt
// branch is also walked by TypeSynth and so also reaches this rule, and is
// typed the same way, since mode.Dir() alone can't distinguish the two
// cases.
func unquoteSynthPos(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (types.Ty, error) {
	nt := readNt(ctx)
	if !types.NtIsPositive(nt) {
		return types.Ty{}, fmt.Errorf("unquote of nonterminal %q cannot synthesize a type without an annotation", nt)
	}
	bodyTerm := ctx.GetTerm(slotBody)
	bodyTy, err := walk.WalkPos(bodyTerm, ctx, mode)
	if err != nil {
		return types.Ty{}, err
	}
	return TypeOfUnquote(nt, bodyTy, ctx.This)
}

// unquoteSynthNeg checks an escape's hole in negative position: this side is
// unambiguous (it's only ever reached through quoteSynthNeg's nt-negative
// branch, which corresponds exactly to the original's pos_quot == false). The
// hole's body is bound to "a quotation of nt carrying ctx.ContextElt()", not
// to ctx.ContextElt() directly — that's the whole point of escaping out of a
// Pat quotation: the name a `,[Pat | foo],` hole introduces is meant to be
// used back in the macro-writer's scope as a quoted Pat fragment, so its
// type is the re-quoted one. Its bindings are returned directly (no
// accumulator hand-off, per quoteSynthNeg's doc comment above).
func unquoteSynthNeg(ctx *walk.LazyWalkReses[types.Ty], mode walk.Mode[types.Ty]) (*env.Env[types.Ty], error) {
	nt := readNt(ctx)
	if types.NtIsPositive(nt) {
		return nil, fmt.Errorf("unquote of nonterminal %q cannot be checked in this position", nt)
	}
	bodyTerm := ctx.GetTerm(slotBody)
	newCtxTy := TypeOfQuote(nt, ctx.ContextElt())
	sub := ctx.WithContext(newCtxTy)
	return walk.WalkNeg(bodyTerm, sub, mode)
}

// StartererEligible reports whether quote()'s grammar rewrite is allowed to
// install an unquote alternative into nt's grammar production — the
// {Expr, Pat, Type} restriction spec.md §9 documents as a HACK in the
// original, kept here as the grammar package's config-driven
// StartererEligible rather than a literal tuple.
func StartererEligible(nt name.Name) bool { return grammar.StartererEligible(nt) }

// RewriteGrammarForUnquote returns se with nt's production replaced by an
// alternative that also accepts an unquote, unless nt is not
// starterer-eligible or se already has one (AlreadyHasUnquote) — spec.md
// §4.2's grammar-rewrite step. The unquote form installed is resolved via
// coreforms.FindForm against nt's own category, rather than assumed to be
// this package's formUnquote directly, so a grammar rewritten for, say, Type
// picks up whatever unquote form is actually registered to produce a Type
// (today still this package's, but the lookup is the thing that's supposed
// to vary, not the Form literal).
func RewriteGrammarForUnquote(se grammar.SynEnv, nt name.Name) grammar.SynEnv {
	if !StartererEligible(nt) {
		return se
	}
	existing := se[nt]
	if grammar.AlreadyHasUnquote(existing, formUnquote.Name) {
		return se
	}
	category := strings.ToLower(nt.String())
	unquoteForm := coreforms.FindForm(category, formUnquote.Name)
	out := se.Clone()
	unquoteAlt := grammar.Scope(unquoteForm.Name)
	if existing == nil {
		out[nt] = unquoteAlt
		return out
	}
	out[nt] = grammar.Biased(unquoteAlt, existing)
	return out
}

// TypeOfQuote returns the type a `'[nt | _]'` quotation synthesizes:
// nt's abstract parametric type applied to bodyTy, the hole's own type —
// core_type_forms::nt_to_type composed with more_quoted_ty.
func TypeOfQuote(nt name.Name, bodyTy types.Ty) types.Ty {
	return types.MoreQuotedTy(bodyTy, nt)
}

// TypeOfUnquote checks that quotedTy really is a quotation of nt and
// returns the type underneath — core_type_forms::less_quoted_ty, which
// unquote()'s own typing rule calls to validate and strip a `nt<[...]<`
// annotation.
func TypeOfUnquote(nt name.Name, quotedTy types.Ty, errAt ast.AST) (types.Ty, error) {
	return types.LessQuotedTy(quotedTy, &nt, errAt)
}
