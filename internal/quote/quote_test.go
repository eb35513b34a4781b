package quote_test

// External test package (not package quote): demo imports quote for its
// ParseExpr s-expression reader, so a test importing both demo and quote
// from inside package quote itself would be a real import cycle.

import (
	"testing"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/demo"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/grammar"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/quote"
	"github.com/riffle-lang/riffle/internal/value"
	"github.com/riffle-lang/riffle/internal/walk"
)

// deepEqualAST compares two AST values structurally. ast.Node's Parts field
// is a pointer, so two independently-built nodes with identical content are
// never == — this walks both sides' named slots instead.
func deepEqualAST(a, b ast.AST) bool {
	switch na := a.(type) {
	case ast.Atom:
		nb, ok := b.(ast.Atom)
		return ok && na.Name == nb.Name
	case ast.VarRef:
		nb, ok := b.(ast.VarRef)
		return ok && na.Name == nb.Name
	case ast.QuoteMore:
		nb, ok := b.(ast.QuoteMore)
		return ok && deepEqualAST(na.Inner, nb.Inner)
	case ast.QuoteLess:
		nb, ok := b.(ast.QuoteLess)
		return ok && na.Depth == nb.Depth && deepEqualAST(na.Inner, nb.Inner)
	case ast.Node:
		nb, ok := b.(ast.Node)
		if !ok || na.Form != nb.Form {
			return false
		}
		names := na.Parts.Names()
		if len(names) != len(nb.Parts.Names()) {
			return false
		}
		for _, n := range names {
			if leafA, ok := na.Parts.GetLeaf(n); ok {
				leafB, ok2 := nb.Parts.GetLeaf(n)
				if !ok2 || !deepEqualAST(leafA, leafB) {
					return false
				}
				continue
			}
			if seqA, ok := na.Parts.GetSeq(n); ok {
				seqB, ok2 := nb.Parts.GetSeq(n)
				if !ok2 || len(seqA) != len(seqB) {
					return false
				}
				for i := range seqA {
					if !deepEqualAST(seqA[i], seqB[i]) {
						return false
					}
				}
				continue
			}
		}
		return true
	default:
		return false
	}
}

func TestQuote_LiteralQuotesToItself(t *testing.T) {
	exprNt := name.New("expr")
	body := demo.IntLit(5)
	q := quote.Quote(exprNt, body)

	ctx := walk.NewWrapper(env.New[value.Value]())
	v, err := walk.WalkPos(q, ctx, value.Eval)
	if err != nil {
		t.Fatalf("WalkPos: %v", err)
	}
	got, ok := v.(value.Quoted)
	if !ok {
		t.Fatalf("expected value.Quoted, got %T", v)
	}
	if !deepEqualAST(got.AST, body) {
		t.Errorf("quoted literal should reproduce its body verbatim, got %#v", got.AST)
	}
}

func TestQuote_UnquoteSplicesBoundFragment(t *testing.T) {
	exprNt := name.New("expr")
	fieldName := name.New("a")
	xName := name.New("x")

	spliced := demo.IntLit(42)
	outerEnv := env.New[value.Value]().Extend(xName, value.Quoted{AST: spliced})

	body := demo.StructExpr([]name.Name{fieldName}, []ast.AST{
		quote.Unquote(exprNt, ast.VarRef{Name: xName}),
	})
	q := quote.Quote(exprNt, body)

	ctx := walk.NewWrapper(outerEnv)
	v, err := walk.WalkPos(q, ctx, value.Eval)
	if err != nil {
		t.Fatalf("WalkPos: %v", err)
	}
	got, ok := v.(value.Quoted)
	if !ok {
		t.Fatalf("expected value.Quoted, got %T", v)
	}

	want := demo.StructExpr([]name.Name{fieldName}, []ast.AST{spliced})
	if !deepEqualAST(got.AST, want) {
		t.Errorf("unquote should splice the bound fragment into the rebuilt struct_expr,\n got  %#v\n want %#v", got.AST, want)
	}
}

func TestQuote_UnquoteOutsideQuotationIsAnError(t *testing.T) {
	exprNt := name.New("expr")
	// An unquote whose body is walked with no enclosing quotation open
	// (QuoteLess's quotation stack is empty) must fail, not panic.
	bare := quote.Unquote(exprNt, demo.IntLit(1))

	ctx := walk.NewWrapper(env.New[value.Value]())
	if _, err := walk.WalkPos(bare, ctx, value.QQuote); err == nil {
		t.Errorf("expected an error walking unquote with no open quotation")
	}
}

func TestQuote_NestedQuoteIsNotWalked(t *testing.T) {
	exprNt := name.New("expr")
	inner := quote.Quote(exprNt, demo.IntLit(1))
	outer := quote.Quote(exprNt, inner)

	ctx := walk.NewWrapper(env.New[value.Value]())
	if _, err := walk.WalkPos(outer, ctx, value.Eval); err == nil {
		t.Errorf("expected an error walking a quote nested inside another quote's body")
	}
}

func TestQuote_StructPatQuotedDestructure(t *testing.T) {
	exprNt := name.New("expr")
	patNt := name.New("pat")
	fieldName := name.New("a")
	xName := name.New("x")

	// '[pat | struct_pat{a: ,[expr | x],}]' destructured against a quoted
	// struct_pat{a: int_lit(7)} scrutinee: x should be bound to the
	// quoted fragment at the unquote hole's position.
	patBody := demo.StructPat([]name.Name{fieldName}, []ast.AST{
		quote.Unquote(exprNt, ast.VarRef{Name: xName}),
	})
	q := quote.Quote(patNt, patBody)

	scrutinee := value.Quoted{AST: demo.StructPat([]name.Name{fieldName}, []ast.AST{demo.IntLit(7)})}

	ctx := walk.NewWrapper(env.New[value.Value]()).WithContext(scrutinee)
	bindings, err := walk.WalkNeg(q, ctx, value.Destructure)
	if err != nil {
		t.Fatalf("WalkNeg: %v", err)
	}
	bound, ok := bindings.Find(xName)
	if !ok {
		t.Fatalf("expected %q to be bound", xName)
	}
	got, ok := bound.(value.Quoted)
	if !ok {
		t.Fatalf("expected a value.Quoted binding, got %T", bound)
	}
	if !deepEqualAST(got.AST, demo.IntLit(7)) {
		t.Errorf("x should be bound to the spliced fragment, got %#v", got.AST)
	}
}

func TestRewriteGrammarForUnquote(t *testing.T) {
	exprNt := name.New("Expr")
	stmtNt := name.New("Stmt") // not starterer-eligible

	se := grammar.SynEnv{}
	rewritten := quote.RewriteGrammarForUnquote(se, exprNt)
	if len(rewritten) == 0 {
		t.Fatalf("expected an entry to be installed for a starterer-eligible nonterminal")
	}
	if len(se) != 0 {
		t.Errorf("RewriteGrammarForUnquote should not mutate se in place, got %d entries in the original", len(se))
	}

	again := quote.RewriteGrammarForUnquote(rewritten, exprNt)
	if len(again) != len(rewritten) {
		t.Errorf("rewriting an already-rewritten entry should be a no-op, got %d entries want %d", len(again), len(rewritten))
	}

	unchanged := quote.RewriteGrammarForUnquote(se, stmtNt)
	if len(unchanged) != 0 {
		t.Errorf("a non-starterer-eligible nonterminal should not get an unquote alternative")
	}
}
