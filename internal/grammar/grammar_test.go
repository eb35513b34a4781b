package grammar

import (
	"testing"

	"github.com/riffle-lang/riffle/internal/name"
)

func TestStartererEligible(t *testing.T) {
	tests := []struct {
		nt   string
		want bool
	}{
		{"Expr", true},
		{"Pat", true},
		{"Type", true},
		{"Stmt", false},
		{"NotARealNonterminal", false},
	}
	for _, tc := range tests {
		if got := StartererEligible(name.New(tc.nt)); got != tc.want {
			t.Errorf("StartererEligible(%s) = %v, want %v", tc.nt, got, tc.want)
		}
	}
}

func TestDefaultNonterminals(t *testing.T) {
	got := DefaultNonterminals()
	if len(got) != 4 {
		t.Fatalf("expected 4 nonterminals, got %d: %v", len(got), got)
	}
}

func TestAlreadyHasUnquote(t *testing.T) {
	unquote := name.New("unquote")
	other := name.New("other_form")

	if AlreadyHasUnquote(nil, unquote) {
		t.Errorf("nil FormPat should never already have an unquote")
	}

	opaque := Opaque("literal")
	if AlreadyHasUnquote(opaque, unquote) {
		t.Errorf("an opaque leaf should never already have an unquote")
	}

	direct := Scope(unquote)
	if !AlreadyHasUnquote(direct, unquote) {
		t.Errorf("a direct Scope naming unquote should be detected")
	}

	viaAlt := Alt(Scope(other), Scope(unquote))
	if !AlreadyHasUnquote(viaAlt, unquote) {
		t.Errorf("an Alt containing the unquote Scope should be detected")
	}

	viaBiased := Biased(Scope(other), Scope(unquote))
	if !AlreadyHasUnquote(viaBiased, unquote) {
		t.Errorf("a Biased containing the unquote Scope should be detected")
	}

	noUnquote := Alt(Scope(other), Opaque("x"))
	if AlreadyHasUnquote(noUnquote, unquote) {
		t.Errorf("an Alt with no unquote Scope should not be detected")
	}

	// AlreadyHasUnquote does not recurse through a Scope's own sub-grammar
	// (it only checks whether fp itself names "unquote") — a Scope naming
	// some other form is opaque to the check even if that form's grammar
	// would, if inspected, contain an unquote somewhere inside it.
	shallow := Scope(other)
	if AlreadyHasUnquote(shallow, unquote) {
		t.Errorf("a Scope naming a different form should not be mistaken for unquote")
	}
}

func TestSynEnvClone(t *testing.T) {
	expr := name.New("Expr")
	se := SynEnv{expr: Opaque("x")}
	cloned := se.Clone()

	cloned[name.New("Pat")] = Opaque("y")
	if _, ok := se[name.New("Pat")]; ok {
		t.Errorf("mutating the clone should not affect the original SynEnv")
	}
	if cloned[expr] != se[expr] {
		t.Errorf("Clone should share *FormPat pointers for existing entries")
	}
}
