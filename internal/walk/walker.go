package walk

import (
	"fmt"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
)

// Dir is the direction a WalkMode drives the walker in.
type Dir int

const (
	// Positive: leaf-to-root synthesis, producing one Elt per node.
	Positive Dir = iota
	// Negative: root-to-leaf unpacking; the node receives an expected Elt
	// as context and produces an environment of bindings harvested from
	// sub-positions.
	Negative
)

// Mode is a WalkMode: it chooses which of a Form's four BiDi rule families
// applies, which direction to drive the dispatcher in, and the handful of
// mode-specific behaviors (Elt-as-AST round-tripping for LiteralLike,
// unification-friendly placeholders, mismatch errors).
type Mode[Elt any] interface {
	Dir() Dir
	GetWalkRule(f *Form) BiDi[Elt]
	AutomaticallyExtendEnv() bool
	Underspecified() Elt
	MismatchError(got, expd Elt) error
	// Lift/Lower round-trip Elt through ast.AST; every mode whose Elt can
	// represent "the same syntax tree again" (Ty and Value both can)
	// implements these for real; a mode that can't should simply never be
	// asked to run a LiteralLike rule (Form construction is this
	// repository's responsibility, so that would be a bug, not user
	// input — Lower returning false drives the walker to panic as an ICE).
	Lift(a ast.AST) Elt
	Lower(e Elt) (ast.AST, bool)
	// QuasiSwitch returns the mode this walk should continue under once it
	// crosses a quotation-phase boundary (QuoteMore or QuoteLess — both
	// directions call it the same way, so it must be an involution: Eval
	// and QQuote map to each other, as do Destructure and QQuoteDestr).
	// Modes with no distinct quasiquote counterpart (the type-comparison
	// modes) return themselves unchanged.
	QuasiSwitch() Mode[Elt]
}

// accumulator is the shared mutable cell a pattern-quotation threads into
// its body walk so that unquote holes at the immediately-less-quoted phase
// can deposit bindings into it, without those bindings flowing back through
// ordinary return values. It is a plain Go pointer cell — safe without a
// mutex under this core's single-thread-per-compilation model (§5).
type accumulator[Elt any] struct {
	env *env.Env[Elt]
}

func newAccumulator[Elt any]() *accumulator[Elt] { return &accumulator[Elt]{} }

func (a *accumulator[Elt]) add(n name.Name, v Elt) {
	if a == nil {
		return
	}
	a.env = a.env.Extend(n, v)
}

func (a *accumulator[Elt]) snapshot() *env.Env[Elt] {
	if a == nil {
		return env.New[Elt]()
	}
	return a.env
}

// LazyWalkReses is the per-node walk context threaded through every rule
// invocation: the node being walked, the current environment, the
// quotation-phase stacks, the expected element for negative walks, and the
// (optional) interpolation accumulator a pattern quotation is collecting
// into.
type LazyWalkReses[Elt any] struct {
	This  ast.AST
	Env   *env.Env[Elt]
	Parts *ast.Parts

	// returnTo/nextPhase implement the quotation stack: returnTo's length
	// is the current quotation depth. QuoteMore pushes Env onto returnTo
	// and pops the head of nextPhase into Env; QuoteLess is the inverse.
	returnTo  []*env.Env[Elt]
	nextPhase []*env.Env[Elt]

	ctxElt *Elt
	accum  *accumulator[Elt]

	posCache map[name.Name]Elt
	negCache map[name.Name]*env.Env[Elt]
}

// NewWrapper builds a root context for a single top-level walk, with no
// higher-phase environments available (so any QuoteMore encountered opens
// an empty environment at that phase — only free/global names resolve).
func NewWrapper[Elt any](e *env.Env[Elt]) *LazyWalkReses[Elt] {
	return &LazyWalkReses[Elt]{Env: e}
}

// NewMQWrapper builds a root context carrying one environment per
// quotation phase above 0, nearest phase first — mirroring how a test
// harness supplies "what's bound one phase up" without actually running a
// nested compilation.
func NewMQWrapper[Elt any](e *env.Env[Elt], outer []*env.Env[Elt]) *LazyWalkReses[Elt] {
	return &LazyWalkReses[Elt]{Env: e, nextPhase: outer}
}

// WithContext returns a copy of ctx with the expected element for a
// negative walk set to c.
func (ctx *LazyWalkReses[Elt]) WithContext(c Elt) *LazyWalkReses[Elt] {
	cp := *ctx
	cp.ctxElt = &c
	return &cp
}

// ContextElt returns the expected element a negative walk rule was invoked
// with. Calling it from a positive rule, or before WithContext was ever
// called, is an ICE.
func (ctx *LazyWalkReses[Elt]) ContextElt() Elt {
	if ctx.ctxElt == nil {
		panic("ICE: no context element set for a negative walk")
	}
	return *ctx.ctxElt
}

// withAccumulator returns a copy of ctx whose interpolation accumulator is
// replaced. Passing nil suppresses accumulation (the default, outside a
// pattern quotation).
func (ctx *LazyWalkReses[Elt]) withAccumulator(acc *accumulator[Elt]) *LazyWalkReses[Elt] {
	cp := *ctx
	cp.accum = acc
	return &cp
}

// AddBinding deposits a binding into the active interpolation accumulator,
// if one is active; otherwise it is a no-op. This is what an unquote hole
// inside a pattern quotation calls to contribute to the quotation's output
// environment (§4.2/§4.3).
func (ctx *LazyWalkReses[Elt]) AddBinding(n name.Name, v Elt) { ctx.accum.add(n, v) }

// BadQuotationDepthError is returned when a QuoteLess node is walked with
// no matching QuoteMore above it — an unquote used outside any quotation.
type BadQuotationDepthError struct{}

func (BadQuotationDepthError) Error() string {
	return "unquote used where no quotation is open (bad quotation depth)"
}

func (ctx *LazyWalkReses[Elt]) quoteMoreCtx(acc *accumulator[Elt]) *LazyWalkReses[Elt] {
	cp := *ctx
	cp.returnTo = append(append([]*env.Env[Elt]{}, ctx.returnTo...), ctx.Env)
	if len(ctx.nextPhase) > 0 {
		cp.Env = ctx.nextPhase[0]
		cp.nextPhase = ctx.nextPhase[1:]
	} else {
		cp.Env = env.New[Elt]()
		cp.nextPhase = nil
	}
	if acc != nil {
		cp.accum = acc
	}
	return &cp
}

func (ctx *LazyWalkReses[Elt]) quoteLessCtx() (*LazyWalkReses[Elt], error) {
	if len(ctx.returnTo) == 0 {
		return nil, BadQuotationDepthError{}
	}
	cp := *ctx
	n := len(ctx.returnTo)
	cp.Env = ctx.returnTo[n-1]
	cp.returnTo = ctx.returnTo[:n-1]
	cp.nextPhase = append([]*env.Env[Elt]{ctx.Env}, ctx.nextPhase...)
	return &cp, nil
}

// QuoteMore is the method quote()'s own synth_type/eval rules call to shift
// into the quoted body's phase before recursing, optionally installing a
// fresh interpolation accumulator (pattern quotations do; expression
// quotations pass nil). It is exported because the quote form lives in a
// different package from walk.
func (ctx *LazyWalkReses[Elt]) QuoteMore(startAccumulator bool) *LazyWalkReses[Elt] {
	var acc *accumulator[Elt]
	if startAccumulator {
		acc = newAccumulator[Elt]()
	}
	return ctx.quoteMoreCtx(acc)
}

// QuoteLess is unquote()'s counterpart to QuoteMore: it drops back one
// quotation phase, restoring the environment that was active before the
// matching QuoteMore. Returns BadQuotationDepthError if no quotation is
// currently open (an unquote with nothing to unquote out of).
func (ctx *LazyWalkReses[Elt]) QuoteLess() (*LazyWalkReses[Elt], error) {
	return ctx.quoteLessCtx()
}

// AccumulatedBindings returns what the active interpolation accumulator has
// collected so far. Called by quote()'s pattern-quotation rule after
// walking its body to completion.
func (ctx *LazyWalkReses[Elt]) AccumulatedBindings() *env.Env[Elt] { return ctx.accum.snapshot() }

func (ctx *LazyWalkReses[Elt]) descend(a ast.AST) *LazyWalkReses[Elt] {
	cp := *ctx
	cp.This = a
	if n, ok := a.(ast.Node); ok {
		cp.Parts = n.Parts
	} else {
		cp.Parts = nil
	}
	cp.posCache = nil
	cp.negCache = nil
	return &cp
}

// GetTerm returns the unwalked AST bound to a named part of the node
// currently being walked.
func (ctx *LazyWalkReses[Elt]) GetTerm(n name.Name) ast.AST {
	return ctx.Parts.GetLeafOrPanic(n)
}

// GetTermSeq returns the unwalked sequence bound to a named part, for slots
// that hold plain labels (e.g. a struct's component names) rather than
// subtrees meant to be interpreted in the current mode.
func (ctx *LazyWalkReses[Elt]) GetTermSeq(n name.Name) []ast.AST {
	seq, ok := ctx.Parts.GetSeq(n)
	if !ok {
		panic("ICE: Parts slot " + n.String() + " is not a present sequence")
	}
	return seq
}

// GetRes walks (in the current mode/direction) the named leaf part and
// memoizes the result so that re-requesting the same name within the same
// node returns the identical result, as required by §5's ordering
// guarantee. GetRes is only meaningful from within a Custom rule, which is
// always invoked with mode available in its closure; callers pass it
// explicitly since Go has no implicit "current mode" to close over
// generically.
func GetRes[Elt any](ctx *LazyWalkReses[Elt], mode Mode[Elt], n name.Name) (Elt, error) {
	if ctx.posCache == nil {
		ctx.posCache = make(map[name.Name]Elt)
	}
	if v, ok := ctx.posCache[n]; ok {
		return v, nil
	}
	term := ctx.GetTerm(n)
	v, err := WalkPos(term, ctx.descend(term).inheritNonLocal(ctx), mode)
	if err != nil {
		var zero Elt
		return zero, err
	}
	ctx.posCache[n] = v
	return v, nil
}

// GetNegRes is GetRes's negative-direction counterpart: it walks the named
// part expecting expected as context, returning the bindings harvested.
func GetNegRes[Elt any](ctx *LazyWalkReses[Elt], mode Mode[Elt], n name.Name, expected Elt) (*env.Env[Elt], error) {
	if ctx.negCache == nil {
		ctx.negCache = make(map[name.Name]*env.Env[Elt])
	}
	if v, ok := ctx.negCache[n]; ok {
		return v, nil
	}
	term := ctx.GetTerm(n)
	sub := ctx.descend(term).inheritNonLocal(ctx).WithContext(expected)
	v, err := WalkNeg(term, sub, mode)
	if err != nil {
		return nil, err
	}
	ctx.negCache[n] = v
	return v, nil
}

// GetSeqRes is GetRes's counterpart for sequence slots: it walks each
// element of the named sequence in order and returns the results, for
// Custom rules whose grammar has a repeated subtree part (e.g. a struct's
// component types, a function's parameter types).
func GetSeqRes[Elt any](ctx *LazyWalkReses[Elt], mode Mode[Elt], n name.Name) ([]Elt, error) {
	seq := ctx.GetTermSeq(n)
	out := make([]Elt, len(seq))
	for i, term := range seq {
		v, err := WalkPos(term, ctx.descend(term).inheritNonLocal(ctx), mode)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// GetNegSeqRes is GetSeqRes's negative-direction counterpart: expected must
// have the same length as the named sequence (an arity mismatch is a
// TyErr-flavored Mismatch, raised by the caller, since this helper has no
// mode.MismatchError to construct one with generically).
func GetNegSeqRes[Elt any](ctx *LazyWalkReses[Elt], mode Mode[Elt], n name.Name, expected []Elt) (*env.Env[Elt], bool, error) {
	seq := ctx.GetTermSeq(n)
	if len(seq) != len(expected) {
		return nil, false, nil
	}
	bindings := env.New[Elt]()
	for i, term := range seq {
		sub, err := WalkNeg(term, ctx.descend(term).inheritNonLocal(ctx).WithContext(expected[i]), mode)
		if err != nil {
			return nil, true, err
		}
		bindings = bindings.Combine(sub)
	}
	return bindings, true, nil
}

func (cp *LazyWalkReses[Elt]) inheritNonLocal(parent *LazyWalkReses[Elt]) *LazyWalkReses[Elt] {
	cp.Env = parent.Env
	cp.returnTo = parent.returnTo
	cp.nextPhase = parent.nextPhase
	cp.accum = parent.accum
	return cp
}

// notWalkedError is returned when a form's rule for the active direction is
// NotWalked: a user-visible "this form is not valid here", not an ICE.
func notWalkedError(f name.Name) error {
	return fmt.Errorf("form %q is not valid in this position", f)
}

// WalkPos runs a positive (leaf-to-root synthesizing) walk of a over ctx in
// mode, producing one Elt.
func WalkPos[Elt any](a ast.AST, ctx *LazyWalkReses[Elt], mode Mode[Elt]) (Elt, error) {
	var zero Elt
	switch n := a.(type) {
	case ast.QuoteMore:
		sub := ctx.quoteMoreCtx(nil)
		return WalkPos(n.Inner, sub, mode.QuasiSwitch())
	case ast.QuoteLess:
		if !ast.ValidateQuotationDepth(n) {
			return zero, fmt.Errorf("malformed quotation depth (expected 1, got %d)", n.Depth)
		}
		sub, err := ctx.quoteLessCtx()
		if err != nil {
			return zero, err
		}
		return WalkPos(n.Inner, sub, mode.QuasiSwitch())
	case ast.Atom:
		return lookupName[Elt](ctx, n.Name)
	case ast.VarRef:
		return lookupName[Elt](ctx, n.Name)
	case ast.IncompleteNode:
		panic("ICE: walker reached an IncompleteNode (parser left it without a Form)")
	case ast.Node:
		bidi := mode.GetWalkRule(formOf(n))
		sub := ctx.descend(a)
		switch bidi.Pos.Kind {
		case NotWalked:
			return zero, notWalkedError(formOf(n).Name)
		case Custom:
			return bidi.Pos.Fn(sub, mode)
		case LiteralLike:
			rebuilt, err := n.Parts.MapLeaves(func(leaf ast.AST) (ast.AST, error) {
				v, err := WalkPos(leaf, ctx.descend(leaf).inheritNonLocal(ctx), mode)
				if err != nil {
					return nil, err
				}
				lowered, ok := mode.Lower(v)
				if !ok {
					panic("ICE: LiteralLike rule applied to a mode whose Elt cannot represent an AST")
				}
				return lowered, nil
			})
			if err != nil {
				return zero, err
			}
			return mode.Lift(ast.Node{Form: n.Form, Parts: rebuilt, Export: n.Export}), nil
		}
	}
	panic(fmt.Sprintf("ICE: unrecognized AST case %T", a))
}

// WalkNeg runs a negative (root-to-leaf unpacking) walk of a over ctx
// (which must already carry a context element via WithContext) in mode,
// producing the environment of bindings harvested from sub-positions.
func WalkNeg[Elt any](a ast.AST, ctx *LazyWalkReses[Elt], mode Mode[Elt]) (*env.Env[Elt], error) {
	switch n := a.(type) {
	case ast.QuoteMore:
		sub := ctx.quoteMoreCtx(nil)
		return WalkNeg(n.Inner, sub, mode.QuasiSwitch())
	case ast.QuoteLess:
		if !ast.ValidateQuotationDepth(n) {
			return nil, fmt.Errorf("malformed quotation depth (expected 1, got %d)", n.Depth)
		}
		sub, err := ctx.quoteLessCtx()
		if err != nil {
			return nil, err
		}
		sub = sub.WithContext(ctx.ContextElt())
		return WalkNeg(n.Inner, sub, mode.QuasiSwitch())
	case ast.Atom:
		return singletonEnv(n.Name, ctx.ContextElt()), nil
	case ast.VarRef:
		return singletonEnv(n.Name, ctx.ContextElt()), nil
	case ast.IncompleteNode:
		panic("ICE: walker reached an IncompleteNode (parser left it without a Form)")
	case ast.Node:
		bidi := mode.GetWalkRule(formOf(n))
		sub := ctx.descend(a).WithContext(ctx.ContextElt())
		switch bidi.Neg.Kind {
		case NotWalked:
			return nil, notWalkedError(formOf(n).Name)
		case Custom:
			return bidi.Neg.Fn(sub, mode)
		case LiteralLike:
			return negLiteralLike(n, sub, mode)
		}
	}
	panic(fmt.Sprintf("ICE: unrecognized AST case %T", a))
}

func lookupName[Elt any](ctx *LazyWalkReses[Elt], n name.Name) (Elt, error) {
	var zero Elt
	v, ok := ctx.Env.Find(n)
	if !ok {
		return zero, UnboundNameError{Name: n}
	}
	return v, nil
}

func singletonEnv[Elt any](n name.Name, v Elt) *env.Env[Elt] {
	return env.New[Elt]().Extend(n, v)
}

// UnboundNameError is the walker's generic "no such name in this
// environment" failure; the types package re-exports it under the
// TyErr-flavored name spec.md uses (UnboundName), and the value package may
// do likewise, rather than inventing a second copy of the same shape.
type UnboundNameError struct {
	Name name.Name
}

func (e UnboundNameError) Error() string {
	return fmt.Sprintf("unbound name: %s", e.Name)
}

// negLiteralLike implements LiteralLike for a negative walk: it requires
// the context element to itself lower to a Node of the same shape as the
// one being walked (this is exactly how QQuoteDestr pairs a quoted pattern
// against a concrete scrutinee AST, per §4.2), and merges the bindings
// harvested from each part.
func negLiteralLike[Elt any](n ast.Node, ctx *LazyWalkReses[Elt], mode Mode[Elt]) (*env.Env[Elt], error) {
	scrutAST, ok := mode.Lower(ctx.ContextElt())
	if !ok {
		panic("ICE: LiteralLike rule applied to a mode whose Elt cannot represent an AST")
	}
	scrut, ok := scrutAST.(ast.Node)
	if !ok || scrut.Form != n.Form || !scrut.Parts.SameShape(n.Parts) {
		return nil, mode.MismatchError(mode.Lift(scrutAST), mode.Lift(n))
	}
	bindings := env.New[Elt]()
	for _, slotName := range n.Parts.Names() {
		if leaf, ok := n.Parts.GetLeaf(slotName); ok {
			scrutLeaf, _ := scrut.Parts.GetLeaf(slotName)
			sub, err := WalkNeg(leaf, ctx.descend(leaf).inheritNonLocal(ctx).WithContext(mode.Lift(scrutLeaf)), mode)
			if err != nil {
				return nil, err
			}
			bindings = bindings.Combine(sub)
			continue
		}
		if seq, ok := n.Parts.GetSeq(slotName); ok {
			scrutSeq, _ := scrut.Parts.GetSeq(slotName)
			if len(seq) != len(scrutSeq) {
				return nil, mode.MismatchError(mode.Lift(scrutAST), mode.Lift(n))
			}
			for i, elem := range seq {
				sub, err := WalkNeg(elem, ctx.descend(elem).inheritNonLocal(ctx).WithContext(mode.Lift(scrutSeq[i])), mode)
				if err != nil {
					return nil, err
				}
				bindings = bindings.Combine(sub)
			}
			continue
		}
	}
	return bindings, nil
}

func formOf(n ast.Node) *Form {
	f, ok := n.Form.(*Form)
	if !ok {
		panic("ICE: ast.Node.Form is not a *walk.Form")
	}
	return f
}
