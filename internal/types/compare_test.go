package types

import (
	"testing"

	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/session"
)

func mustSubtype(t *testing.T, sub, sup Ty) error {
	t.Helper()
	return MustSubtype(sub, sup, session.New(), env.New[Ty]())
}

func TestMustSubtype_Primitives(t *testing.T) {
	tests := []struct {
		name    string
		sub     Ty
		sup     Ty
		wantErr bool
	}{
		{"int <: int", Int(), Int(), false},
		{"nat <: nat", Nat(), Nat(), false},
		{"bool <: bool", Bool(), Bool(), false},
		{"int <: bool mismatch", Int(), Bool(), true},
		{"bool <: float mismatch", Bool(), Float(), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := mustSubtype(t, tc.sub, tc.sup)
			if (err != nil) != tc.wantErr {
				t.Errorf("MustSubtype(%s, %s) error = %v, wantErr %v", tc.sub, tc.sup, err, tc.wantErr)
			}
		})
	}
}

func TestMustSubtype_Struct(t *testing.T) {
	a := name.New("x")
	b := name.New("y")

	wide := Struct([]name.Name{a, b}, []Ty{Int(), Bool()})
	same := Struct([]name.Name{a, b}, []Ty{Int(), Bool()})
	wrongComp := Struct([]name.Name{a, b}, []Ty{Int(), Int()})
	wrongName := Struct([]name.Name{a, name.New("z")}, []Ty{Int(), Bool()})

	if err := mustSubtype(t, same, wide); err != nil {
		t.Errorf("identical struct types should be subtypes, got %v", err)
	}
	if err := mustSubtype(t, wrongComp, wide); err == nil {
		t.Errorf("mismatched component type should fail")
	}
	if err := mustSubtype(t, wrongName, wide); err == nil {
		t.Errorf("mismatched component name should fail")
	}
}

func TestMustSubtype_Fn_ParamPositionIsChecked(t *testing.T) {
	// This core has no subtype hierarchy below structural equality for
	// concrete (non-∀) types, so the contravariant flip fnSubtypeNeg applies
	// isn't observable as a success/failure asymmetry here — it only matters
	// once a param position is itself a unification slot (exercised via
	// TestCanonicalize_ForallEliminatesParams / TestMustEqual_ForallAlphaEquivalence).
	// What's directly testable at this level is that each param position (and
	// the return) is actually compared, not skipped.
	sub := Fn([]Ty{Int(), Bool()}, Int())
	sup := Fn([]Ty{Int(), Bool()}, Int())
	if err := mustSubtype(t, sub, sup); err != nil {
		t.Errorf("identical fn types should be subtypes, got %v", err)
	}

	wrongParam := Fn([]Ty{Int(), Int()}, Int())
	if err := mustSubtype(t, wrongParam, sup); err == nil {
		t.Errorf("expected a mismatch in the second param position to fail")
	}

	wrongArity := Fn([]Ty{Int()}, Int())
	if err := mustSubtype(t, wrongArity, sup); err == nil {
		t.Errorf("expected mismatched arity to fail")
	}
}

func TestMustSubtype_Fn_ReturnChecked(t *testing.T) {
	sub := Fn([]Ty{Int()}, Int())
	sup := Fn([]Ty{Int()}, Int())
	if err := mustSubtype(t, sub, sup); err != nil {
		t.Errorf("matching return types should compare successfully, got %v", err)
	}

	mismatched := Fn([]Ty{Int()}, Bool())
	if err := mustSubtype(t, mismatched, sup); err == nil {
		t.Errorf("expected return type mismatch to fail")
	}
}

func TestCanonicalize_ForallEliminatesParams(t *testing.T) {
	a := name.New("a")
	identityTy := ForallType([]name.Name{a}, Fn([]Ty{TypeByName(a)}, TypeByName(a)))

	sess := session.New()
	canon, err := Canonicalize(identityTy, sess, env.New[Ty]())
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	f, _, ok := formOfTy(canon)
	if !ok || f != formFn {
		t.Fatalf("expected canonicalized type to be a fn node, got %s", canon)
	}
}

func TestMustEqual_ForallAlphaEquivalence(t *testing.T) {
	a := name.New("a")
	b := name.New("b")
	idA := ForallType([]name.Name{a}, Fn([]Ty{TypeByName(a)}, TypeByName(a)))
	idB := ForallType([]name.Name{b}, Fn([]Ty{TypeByName(b)}, TypeByName(b)))

	if err := MustEqual(idA, idB, session.New(), env.New[Ty]()); err != nil {
		t.Errorf("alpha-equivalent forall types should be equal, got %v", err)
	}
}

func TestMoreQuotedTy_LessQuotedTy_RoundTrip(t *testing.T) {
	nt := name.New("expr")
	inner := Int()
	quoted := MoreQuotedTy(inner, nt)

	unwrapped, err := LessQuotedTy(quoted, &nt, quoted.AST())
	if err != nil {
		t.Fatalf("LessQuotedTy: %v", err)
	}
	if err := MustEqual(unwrapped, inner, session.New(), env.New[Ty]()); err != nil {
		t.Errorf("round-tripped type should equal the original inner type, got %v", err)
	}
}

func TestLessQuotedTy_WrongNonterminal(t *testing.T) {
	nt := name.New("expr")
	wantNt := name.New("pat")
	quoted := MoreQuotedTy(Int(), nt)

	if _, err := LessQuotedTy(quoted, &wantNt, quoted.AST()); err == nil {
		t.Errorf("expected NotAQuotationHeadError for mismatched nonterminal")
	}
}
