package types

import (
	"fmt"
	"strings"

	"github.com/riffle-lang/riffle/internal/name"
)

// ParseTy reads a tiny s-expression encoding of the nine privileged type
// forms out of src, for cmd/riffle's check subcommand to load a
// demonstration document from disk rather than this repository's tests
// building every Ty by hand with the Go constructors above.
//
// Grammar:
//
//	ty := "int" | "nat" | "bool" | "float"
//	    | "(" "fn" "(" ty* ")" ty ")"
//	    | "(" "struct" "(" NAME ty ")"* ")"
//	    | "(" "tyvar" NAME ")"
//	    | "(" "forall" "(" NAME* ")" ty ")"
//	    | "(" "apply" ty "(" ty* ")" ")"
//	    | "(" "quoted" NT ty ")"          -- MoreQuotedTy(ty, NT)
func ParseTy(src string) (Ty, error) {
	p := &tySexpParser{toks: tokenize(src)}
	t, err := p.parseTy()
	if err != nil {
		return Ty{}, err
	}
	if p.pos != len(p.toks) {
		return Ty{}, fmt.Errorf("trailing input after type: %q", strings.Join(p.toks[p.pos:], " "))
	}
	return t, nil
}

func tokenize(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	return strings.Fields(src)
}

type tySexpParser struct {
	toks []string
	pos  int
}

func (p *tySexpParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *tySexpParser) next() (string, error) {
	t, ok := p.peek()
	if !ok {
		return "", fmt.Errorf("unexpected end of input")
	}
	p.pos++
	return t, nil
}

func (p *tySexpParser) expect(tok string) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t != tok {
		return fmt.Errorf("expected %q, got %q", tok, t)
	}
	return nil
}

func (p *tySexpParser) parseNameList() ([]name.Name, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var names []name.Name
	for {
		t, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated name list")
		}
		if t == ")" {
			break
		}
		n, err := p.next()
		if err != nil {
			return nil, err
		}
		names = append(names, name.New(n))
	}
	return names, p.expect(")")
}

func (p *tySexpParser) parseTyList() ([]Ty, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var tys []Ty
	for {
		t, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated type list")
		}
		if t == ")" {
			break
		}
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		tys = append(tys, ty)
	}
	return tys, p.expect(")")
}

func (p *tySexpParser) parseTy() (Ty, error) {
	t, err := p.next()
	if err != nil {
		return Ty{}, err
	}
	switch t {
	case "int":
		return Int(), nil
	case "nat":
		return Nat(), nil
	case "bool":
		return Bool(), nil
	case "float":
		return Float(), nil
	case "(":
		head, err := p.next()
		if err != nil {
			return Ty{}, err
		}
		var result Ty
		switch head {
		case "fn":
			params, err := p.parseTyList()
			if err != nil {
				return Ty{}, err
			}
			ret, err := p.parseTy()
			if err != nil {
				return Ty{}, err
			}
			result = Fn(params, ret)
		case "struct":
			var names []name.Name
			var comps []Ty
			for {
				tok, ok := p.peek()
				if !ok {
					return Ty{}, fmt.Errorf("unterminated struct type")
				}
				if tok == ")" {
					break
				}
				if err := p.expect("("); err != nil {
					return Ty{}, err
				}
				fieldName, err := p.next()
				if err != nil {
					return Ty{}, err
				}
				fieldTy, err := p.parseTy()
				if err != nil {
					return Ty{}, err
				}
				if err := p.expect(")"); err != nil {
					return Ty{}, err
				}
				names = append(names, name.New(fieldName))
				comps = append(comps, fieldTy)
			}
			result = Struct(names, comps)
		case "tyvar":
			n, err := p.next()
			if err != nil {
				return Ty{}, err
			}
			result = TypeByName(name.New(n))
		case "forall":
			params, err := p.parseNameList()
			if err != nil {
				return Ty{}, err
			}
			body, err := p.parseTy()
			if err != nil {
				return Ty{}, err
			}
			result = ForallType(params, body)
		case "apply":
			rator, err := p.parseTy()
			if err != nil {
				return Ty{}, err
			}
			args, err := p.parseTyList()
			if err != nil {
				return Ty{}, err
			}
			result = TypeApply(rator, args)
		case "quoted":
			nt, err := p.next()
			if err != nil {
				return Ty{}, err
			}
			inner, err := p.parseTy()
			if err != nil {
				return Ty{}, err
			}
			result = MoreQuotedTy(inner, name.New(nt))
		default:
			return Ty{}, fmt.Errorf("unrecognized type form %q", head)
		}
		if err := p.expect(")"); err != nil {
			return Ty{}, err
		}
		return result, nil
	default:
		return Ty{}, fmt.Errorf("unrecognized type token %q", t)
	}
}
