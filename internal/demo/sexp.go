package demo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/quote"
)

// ParseExpr reads a tiny s-expression encoding of this package's literal and
// structural forms, plus quote()/unquote(), out of src. It lets tests (such
// as internal/quote's golden fixtures) build the demonstration AST from text
// rather than by hand in Go; it is not a parser for any surface syntax
// spec.md describes.
//
// Grammar:
//
//	expr    := "(" "int" INT ")"
//	         | "(" "bool" ("true"|"false") ")"
//	         | "(" "struct" field* ")"
//	         | "(" "quote" NT expr ")"
//	         | "(" "unquote" NT expr ")"
//	field   := "(" NAME expr ")"
func ParseExpr(src string) (ast.AST, error) {
	p := &sexpParser{toks: tokenize(src)}
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("trailing input after expression: %q", strings.Join(p.toks[p.pos:], " "))
	}
	return a, nil
}

func tokenize(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	return strings.Fields(src)
}

type sexpParser struct {
	toks []string
	pos  int
}

func (p *sexpParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *sexpParser) next() (string, error) {
	t, ok := p.peek()
	if !ok {
		return "", fmt.Errorf("unexpected end of input")
	}
	p.pos++
	return t, nil
}

func (p *sexpParser) expect(tok string) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t != tok {
		return fmt.Errorf("expected %q, got %q", tok, t)
	}
	return nil
}

func (p *sexpParser) parseExpr() (ast.AST, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	head, err := p.next()
	if err != nil {
		return nil, err
	}
	var result ast.AST
	switch head {
	case "int":
		lit, err := p.next()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int literal %q: %w", lit, err)
		}
		result = IntLit(v)
	case "bool":
		lit, err := p.next()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseBool(lit)
		if err != nil {
			return nil, fmt.Errorf("bad bool literal %q: %w", lit, err)
		}
		result = BoolLit(v)
	case "struct":
		var names []name.Name
		var exprs []ast.AST
		for {
			t, ok := p.peek()
			if !ok {
				return nil, fmt.Errorf("unterminated struct")
			}
			if t == ")" {
				break
			}
			if err := p.expect("("); err != nil {
				return nil, err
			}
			fieldName, err := p.next()
			if err != nil {
				return nil, err
			}
			fieldExpr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			names = append(names, name.New(fieldName))
			exprs = append(exprs, fieldExpr)
		}
		result = StructExpr(names, exprs)
	case "quote":
		nt, err := p.next()
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = quote.Quote(name.New(nt), body)
	case "unquote":
		nt, err := p.next()
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = quote.Unquote(name.New(nt), body)
	default:
		return nil, fmt.Errorf("unrecognized form head %q", head)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return result, nil
}
