package quote_test

// Type-synthesis tests: these drive types.TypeSynth/types.TypeUnpack
// through quote/unquote, the BiDi[types.Ty] family quoteSynthPos/
// quoteSynthNeg/unquoteSynthPos/unquoteSynthNeg implement on top of
// internal/demo's int_lit/bool_lit/struct_expr/struct_pat SynthType rules.

import (
	"testing"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/demo"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/quote"
	"github.com/riffle-lang/riffle/internal/types"
	"github.com/riffle-lang/riffle/internal/walk"
)

// TestQuoteSynth_StructQuotationType synthesizes the type of
// `'[Expr | { x: qn, y: qn }]'` with qn bound to Nat in the environment one
// phase up: quoteSynthPos's ctx.QuoteMore(false) swaps that next-phase
// environment in, so the ordinary VarRef lookup inside the quote's body
// resolves qn directly, no unquote required. Expect
// Expr<[struct{x:Nat, y:Nat}]<.
func TestQuoteSynth_StructQuotationType(t *testing.T) {
	exprNt := name.New("Expr")
	xName, yName, qnName := name.New("x"), name.New("y"), name.New("qn")

	body := demo.StructExpr(
		[]name.Name{xName, yName},
		[]ast.AST{ast.VarRef{Name: qnName}, ast.VarRef{Name: qnName}},
	)
	q := quote.Quote(exprNt, body)

	tyEnv := env.New[types.Ty]().Extend(qnName, types.Nat())
	ctx := walk.NewMQWrapper(env.New[types.Ty](), []*env.Env[types.Ty]{tyEnv})
	got, err := walk.WalkPos(q, ctx, types.TypeSynth)
	if err != nil {
		t.Fatalf("WalkPos: %v", err)
	}

	want := quote.TypeOfQuote(exprNt, types.Struct([]name.Name{xName, yName}, []types.Ty{types.Nat(), types.Nat()}))
	if got.String() != want.String() {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestQuoteSynth_PatternQuoteUnpacksUnquoteBindings unpacks
// `'[Pat | { x: ,[Pat | foo],, y: ,[Pat | bar],, z: ,[Pat | baz], }]'`
// against the quotation type Pat<[struct{x:Nat, y:Float, z:Nat}]<, the
// nt-negative branch of quoteSynthNeg: TypeOfUnquote peels the struct type
// out of the context, and each unquote hole rebinds its name to the
// re-quoted Pat<[component]< type, mirroring spec.md's S5 scenario.
func TestQuoteSynth_PatternQuoteUnpacksUnquoteBindings(t *testing.T) {
	patNt := name.New("Pat")
	xName, yName, zName := name.New("x"), name.New("y"), name.New("z")
	fooName, barName, bazName := name.New("foo"), name.New("bar"), name.New("baz")

	patBody := demo.StructPat(
		[]name.Name{xName, yName, zName},
		[]ast.AST{
			quote.Unquote(patNt, ast.VarRef{Name: fooName}),
			quote.Unquote(patNt, ast.VarRef{Name: barName}),
			quote.Unquote(patNt, ast.VarRef{Name: bazName}),
		},
	)
	q := quote.Quote(patNt, patBody)

	componentTys := []types.Ty{types.Nat(), types.Float(), types.Nat()}
	structTy := types.Struct([]name.Name{xName, yName, zName}, componentTys)
	expectedTy := quote.TypeOfQuote(patNt, structTy)

	ctx := walk.NewWrapper(env.New[types.Ty]()).WithContext(expectedTy)
	bindings, err := walk.WalkNeg(q, ctx, types.TypeUnpack)
	if err != nil {
		t.Fatalf("WalkNeg: %v", err)
	}

	wantFoo := quote.TypeOfQuote(patNt, types.Nat())
	wantBar := quote.TypeOfQuote(patNt, types.Float())
	wantBaz := quote.TypeOfQuote(patNt, types.Nat())

	for _, c := range []struct {
		n    name.Name
		want types.Ty
	}{{fooName, wantFoo}, {barName, wantBar}, {bazName, wantBaz}} {
		got, ok := bindings.Find(c.n)
		if !ok {
			t.Fatalf("expected %q to be bound", c.n)
		}
		if got.String() != c.want.String() {
			t.Errorf("%q: got %s, want %s", c.n, got, c.want)
		}
	}
}

// TestQuoteSynth_UnquoteSplicesHoleType exercises unquoteSynthPos directly:
// a `,[Expr | qn],` hole only splices in a fragment that's already a
// quotation of Expr, the same requirement unquoteQQuotePos places on values
// (splicing, not reifying). The hole is walked from inside an open
// quotation (ctx.QuoteMore), since its body is one phase down; with qn
// bound to Expr<[Nat]< at that lower phase, the hole's own synthesized type
// is that quotation peeled one layer: Nat.
func TestQuoteSynth_UnquoteSplicesHoleType(t *testing.T) {
	exprNt := name.New("Expr")
	qnName := name.New("qn")

	hole := quote.Unquote(exprNt, ast.VarRef{Name: qnName})
	tyEnv := env.New[types.Ty]().Extend(qnName, quote.TypeOfQuote(exprNt, types.Nat()))
	ctx := walk.NewWrapper(tyEnv).QuoteMore(false)

	got, err := walk.WalkPos(hole, ctx, types.TypeSynth)
	if err != nil {
		t.Fatalf("WalkPos: %v", err)
	}
	want := types.Nat()
	if got.String() != want.String() {
		t.Errorf("got %s, want %s", got, want)
	}
}
