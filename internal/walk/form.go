// Package walk implements the bidirectional AST walker core: the per-form
// rule records (Form, BiDi, WalkRule) and the generic WalkPos/WalkNeg
// dispatchers that drive them. It knows nothing about Ty or Value, the two concrete
// element types the rest of the tree instantiates it with — that asymmetry
// (walk is a leaf package, but Form must still carry four families of
// per-mode rules over two different element types) is resolved by storing
// each BiDi pair behind `any` and recovering it with AsBiDi in the
// mode-specific package that defines the concrete Elt.
package walk

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
)

// RuleKind is the tag of a single WalkRule.
type RuleKind int

const (
	// NotWalked means this form cannot legally be walked in this mode/
	// direction at all; dispatching to it is a user-visible error ("this
	// form is not valid here"), not an ICE.
	NotWalked RuleKind = iota
	// LiteralLike recurses into every part, rebuilding a same-shaped node
	// from the sub-results, without interpreting the form at all. Only
	// meaningful when Elt can represent "the same AST again" (Ty and
	// Value both can: Ty wraps an AST directly, and Value has an AST
	// case).
	LiteralLike
	// Custom invokes an explicit per-form rule function.
	Custom
)

// PosRule is one half of a BiDi pair: the positive-direction rule, which
// produces an Elt from a node's children (leaf-to-root synthesis). Fn
// receives the active Mode explicitly (Go has no implicit "current mode" a
// closure could capture once and reuse safely across re-entrant walks run
// under different Mode instances, e.g. two Subtype walks in different
// sessions) so it can call GetRes/GetNegRes to recurse.
type PosRule[Elt any] struct {
	Kind RuleKind
	Fn   func(ctx *LazyWalkReses[Elt], mode Mode[Elt]) (Elt, error)
}

// NegRule is the negative-direction half: given an expected Elt as context,
// it produces the environment of bindings harvested from sub-positions
// (root-to-leaf unpacking).
type NegRule[Elt any] struct {
	Kind RuleKind
	Fn   func(ctx *LazyWalkReses[Elt], mode Mode[Elt]) (*env.Env[Elt], error)
}

// BiDi bundles the positive and negative rule for one walk-rule family
// (type_compare, synth_type, eval, or quasiquote).
type BiDi[Elt any] struct {
	Pos PosRule[Elt]
	Neg NegRule[Elt]
}

// Form is a record of eight walk rules (as four BiDi families) per
// syntactic construct, plus the piece the parser collaborator needs
// (Grammar). Which parts' bindings a node exports is recorded per node in
// ast.Node.Export, not here.
type Form struct {
	Name    name.Name
	Grammar any // opaque to the walker; a *grammar.FormPat in this repo

	// TypeCompare backs Canonicalize (Pos) / Subtype (Neg); stored as
	// BiDi[T] for whatever T the `types` package's Ty is.
	TypeCompare any
	// SynthType backs TypeSynth (Pos) / TypeUnpack (Neg); also BiDi[T].
	SynthType any
	// Eval backs Eval (Pos) / Destructure (Neg); BiDi[V] for the value
	// package's Value.
	Eval any
	// Quasiquote backs QQuote (Pos) / QQuoteDestr (Neg); also BiDi[V].
	Quasiquote any
}

// FormName implements ast.FormRef.
func (f *Form) FormName() name.Name { return f.Name }

// AsBiDi recovers a concrete BiDi[Elt] from one of Form's four `any`
// slots. A mismatch means a mode was applied to the wrong field (e.g.
// something asked for BiDi[Value] out of TypeCompare) — always a
// programming error in this repository, never user input, so it panics as
// an ICE rather than returning an error.
func AsBiDi[Elt any](slot any, field string) BiDi[Elt] {
	bd, ok := slot.(BiDi[Elt])
	if !ok {
		panic("ICE: walk.Form field " + field + " does not hold the expected element type")
	}
	return bd
}

var (
	_ ast.FormRef = (*Form)(nil)
)
