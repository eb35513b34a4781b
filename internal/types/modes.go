package types

import (
	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/session"
	"github.com/riffle-lang/riffle/internal/walk"
)

// canonicalizeMode is spec.md §4.4's Canonicalize: a positive walk that
// eliminates ∀ by substituting fresh unification slots for bound
// parameters, minted from and recorded in sess.
type canonicalizeMode struct {
	sess *session.Session
}

// NewCanonicalizeMode returns a Canonicalize walk.Mode[Ty] backed by sess.
func NewCanonicalizeMode(sess *session.Session) walk.Mode[Ty] { return &canonicalizeMode{sess: sess} }

func (m *canonicalizeMode) Dir() walk.Dir { return walk.Positive }

func (m *canonicalizeMode) GetWalkRule(f *walk.Form) walk.BiDi[Ty] {
	return walk.AsBiDi[Ty](f.TypeCompare, "TypeCompare")
}

func (m *canonicalizeMode) AutomaticallyExtendEnv() bool { return true }

func (m *canonicalizeMode) Underspecified() Ty {
	fresh := m.sess.Fresh()
	m.sess.Declare(fresh)
	return TypeByName(fresh)
}

func (m *canonicalizeMode) MismatchError(got, expd Ty) error {
	return MismatchError{Got: got, Expected: expd}
}

func (m *canonicalizeMode) Lift(a ast.AST) Ty { return NewTy(a) }

func (m *canonicalizeMode) Lower(t Ty) (ast.AST, bool) { return t.root, true }

func (m *canonicalizeMode) QuasiSwitch() walk.Mode[Ty] { return m }

// subtypeMode is spec.md §4.4's Subtype: a negative walk checking the node
// being walked (sup) against the context element (sub), consulting and
// extending sess's unification table for any type_by_name it resolves.
type subtypeMode struct {
	sess *session.Session
}

// NewSubtypeMode returns a Subtype walk.Mode[Ty] backed by sess.
func NewSubtypeMode(sess *session.Session) walk.Mode[Ty] { return &subtypeMode{sess: sess} }

func (m *subtypeMode) Dir() walk.Dir { return walk.Negative }

func (m *subtypeMode) GetWalkRule(f *walk.Form) walk.BiDi[Ty] {
	return walk.AsBiDi[Ty](f.TypeCompare, "TypeCompare")
}

func (m *subtypeMode) AutomaticallyExtendEnv() bool { return true }

func (m *subtypeMode) Underspecified() Ty {
	fresh := m.sess.Fresh()
	m.sess.Declare(fresh)
	return TypeByName(fresh)
}

func (m *subtypeMode) MismatchError(got, expd Ty) error {
	return MismatchError{Got: got, Expected: expd}
}

func (m *subtypeMode) Lift(a ast.AST) Ty { return NewTy(a) }

func (m *subtypeMode) Lower(t Ty) (ast.AST, bool) { return t.root, true }

func (m *subtypeMode) QuasiSwitch() walk.Mode[Ty] { return m }

// typeSynthMode is spec.md §4.1's TypeSynth: a positive walk of an
// expression or pattern AST node, producing the Ty it synthesizes. Unlike
// Canonicalize it dispatches through a form's SynthType family rather than
// TypeCompare, so it runs over internal/demo's and internal/quote's forms
// instead of this package's own type forms.
type typeSynthMode struct{}

// TypeSynth is the walk.Mode[Ty] singleton driving type synthesis — the
// Ty-domain counterpart to value.Eval. It needs no session: synthesis never
// mints a fresh unification slot, it only reads what each form's SynthType
// rule already knows how to produce.
var TypeSynth walk.Mode[Ty] = typeSynthMode{}

func (typeSynthMode) Dir() walk.Dir { return walk.Positive }

func (typeSynthMode) GetWalkRule(f *walk.Form) walk.BiDi[Ty] {
	return walk.AsBiDi[Ty](f.SynthType, "SynthType")
}

func (typeSynthMode) AutomaticallyExtendEnv() bool { return true }

func (typeSynthMode) Underspecified() Ty {
	panic("ICE: TypeSynth has no underspecified placeholder (that is a Canonicalize-only concept)")
}

func (typeSynthMode) MismatchError(got, expd Ty) error {
	return MismatchError{Got: got, Expected: expd}
}

func (typeSynthMode) Lift(a ast.AST) Ty          { return NewTy(a) }
func (typeSynthMode) Lower(t Ty) (ast.AST, bool) { return t.root, true }
func (typeSynthMode) QuasiSwitch() walk.Mode[Ty] { return TypeSynth }

// typeUnpackMode is spec.md §4.1's TypeUnpack: a negative walk, checking an
// expression or pattern AST node against an expected Ty and producing the
// environment of name-to-Ty bindings it introduces (e.g. what a struct
// pattern's fields resolve to). The Ty-domain counterpart to
// value.Destructure.
type typeUnpackMode struct{}

// TypeUnpack is the walk.Mode[Ty] singleton driving SynthType's negative
// direction.
var TypeUnpack walk.Mode[Ty] = typeUnpackMode{}

func (typeUnpackMode) Dir() walk.Dir { return walk.Negative }

func (typeUnpackMode) GetWalkRule(f *walk.Form) walk.BiDi[Ty] {
	return walk.AsBiDi[Ty](f.SynthType, "SynthType")
}

func (typeUnpackMode) AutomaticallyExtendEnv() bool { return true }

func (typeUnpackMode) Underspecified() Ty {
	panic("ICE: TypeUnpack has no underspecified placeholder (that is a Canonicalize-only concept)")
}

func (typeUnpackMode) MismatchError(got, expd Ty) error {
	return MismatchError{Got: got, Expected: expd}
}

func (typeUnpackMode) Lift(a ast.AST) Ty          { return NewTy(a) }
func (typeUnpackMode) Lower(t Ty) (ast.AST, bool) { return t.root, true }
func (typeUnpackMode) QuasiSwitch() walk.Mode[Ty] { return TypeUnpack }
