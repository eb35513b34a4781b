package demo

import (
	"reflect"
	"testing"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
)

func TestParseExpr_Literals(t *testing.T) {
	got, err := ParseExpr("(int 5)")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if !reflect.DeepEqual(got, IntLit(5)) {
		t.Errorf("ParseExpr(int 5) = %#v, want %#v", got, IntLit(5))
	}

	got, err = ParseExpr("(bool true)")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if !reflect.DeepEqual(got, BoolLit(true)) {
		t.Errorf("ParseExpr(bool true) = %#v, want %#v", got, BoolLit(true))
	}
}

func TestParseExpr_Struct(t *testing.T) {
	got, err := ParseExpr("(struct (a (int 1)) (b (bool false)))")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	want := StructExpr(
		[]name.Name{name.New("a"), name.New("b")},
		[]ast.AST{IntLit(1), BoolLit(false)},
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseExpr(struct ...) = %#v, want %#v", got, want)
	}
}

func TestParseExpr_QuoteUnquote(t *testing.T) {
	got, err := ParseExpr("(quote expr (struct (a (unquote expr (int 1)))))")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	node, ok := got.(ast.Node)
	if !ok {
		t.Fatalf("expected an ast.Node, got %T", got)
	}
	if node.Form.FormName() != name.New("quote") {
		t.Errorf("expected a quote node, got form %v", node.Form)
	}
}

func TestParseExpr_TrailingInputIsAnError(t *testing.T) {
	if _, err := ParseExpr("(int 1) (int 2)"); err == nil {
		t.Errorf("expected an error for trailing input after the expression")
	}
}

func TestParseExpr_UnterminatedStructIsAnError(t *testing.T) {
	if _, err := ParseExpr("(struct (a (int 1))"); err == nil {
		t.Errorf("expected an error for an unterminated struct")
	}
}
