package types

import (
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/session"
	"github.com/riffle-lang/riffle/internal/walk"
)

// Canonicalize runs a positive walk of t under Canonicalize: every
// forall_type it contains has its bound parameters replaced with fresh
// unification slots registered in sess, and every type_by_name already
// bound in typeEnv or resolvable through sess is substituted through.
func Canonicalize(t Ty, sess *session.Session, typeEnv *env.Env[Ty]) (Ty, error) {
	ctx := walk.NewWrapper(typeEnv)
	mode := NewCanonicalizeMode(sess)
	return walk.WalkPos(t.AST(), ctx, mode)
}

// MustSubtype reports (via a non-nil TyErr) whether sub fails to be a
// subtype of sup, consulting and extending sess's unification table for any
// type_by_name slot either side's forall_type introduces.
//
// sub is canonicalized before the comparison runs: a ∀ on the sub side is
// eliminated the same way a ∀ on the sup side is eliminated by Subtype's own
// forall_type rule. Doing both closes a gap the original implementation
// leaves as an explicit TODO — comparing two still-quantified types without
// instantiating either first makes ∀-headed subtyping underspecified.
func MustSubtype(sub, sup Ty, sess *session.Session, typeEnv *env.Env[Ty]) error {
	canonSub, err := Canonicalize(sub, sess, typeEnv)
	if err != nil {
		return err
	}
	ctx := walk.NewWrapper(typeEnv).WithContext(canonSub)
	mode := NewSubtypeMode(sess)
	_, err = walk.WalkNeg(sup.AST(), ctx, mode)
	return err
}

// MustEqual derives type equality from subtyping in both directions (a <: b,
// then b <: a, both in sess) rather than canonicalizing each side and
// comparing the results structurally, so two ∀ types that differ only in
// their bound parameters' names compare equal.
func MustEqual(a, b Ty, sess *session.Session, typeEnv *env.Env[Ty]) error {
	if err := MustSubtype(a, b, sess, typeEnv); err != nil {
		return err
	}
	return MustSubtype(b, a, sess, typeEnv)
}
