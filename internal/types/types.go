// Package types implements spec.md's bidirectional type comparator: the
// Canonicalize (positive) and Subtype (negative) walk modes, the privileged
// type forms they dispatch over, and the handful of core_type_forms
// collaborator functions the quotation core (internal/quote) needs to type
// its own unquote holes.
package types

import (
	"fmt"

	"github.com/riffle-lang/riffle/internal/ast"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/walk"
)

// Ty is a thin newtype over an AST: "a type" is just a tree built from the
// forms this package (and whatever else registers into the "type" category)
// defines, the same way the original treats types as ordinary syntax with a
// privileged interpretation.
type Ty struct {
	root ast.AST
}

// NewTy wraps an arbitrary AST as a Ty. Callers are responsible for a being
// built from type-category forms; nothing here checks that, the same way the
// original's Ty newtype is a zero-cost wrapper with no validation on
// construction.
func NewTy(a ast.AST) Ty { return Ty{root: a} }

// AST unwraps t back to the underlying syntax tree.
func (t Ty) AST() ast.AST { return t.root }

// String renders t for diagnostics. It is not a parser round-trip format.
func (t Ty) String() string {
	return printAST(t.root)
}

func printAST(a ast.AST) string {
	switch n := a.(type) {
	case ast.Atom:
		return n.Name.String()
	case ast.VarRef:
		return n.Name.String()
	case ast.Node:
		f, ok := n.Form.(*walk.Form)
		if !ok {
			return "<node>"
		}
		names := n.Parts.Names()
		if len(names) == 0 {
			return f.Name.String()
		}
		s := f.Name.String() + "("
		for i, part := range names {
			if i > 0 {
				s += ", "
			}
			if leaf, ok := n.Parts.GetLeaf(part); ok {
				s += printAST(leaf)
				continue
			}
			if seq, ok := n.Parts.GetSeq(part); ok {
				s += "["
				for j, e := range seq {
					if j > 0 {
						s += " "
					}
					s += printAST(e)
				}
				s += "]"
			}
		}
		return s + ")"
	case ast.QuoteMore:
		return "'" + printAST(n.Inner) + "'"
	case ast.QuoteLess:
		return "," + printAST(n.Inner) + ","
	default:
		return fmt.Sprintf("%v", a)
	}
}

// Name slots shared by more than one form.
var (
	slotParam         = name.New("param")
	slotRet           = name.New("ret")
	slotComponentName = name.New("component_name")
	slotComponent     = name.New("component")
	slotName          = name.New("name")
	slotTypeRator     = name.New("type_rator")
	slotArg           = name.New("arg")
	slotBody          = name.New("body")
)

func nullary(f *walk.Form) Ty { return NewTy(ast.Node{Form: f, Parts: ast.NewParts()}) }

// Int is the built-in arbitrary-precision (for this core's purposes, opaque)
// integer type.
func Int() Ty { return nullary(formInt) }

// Nat is the non-negative-integer type, distinguished from Int the same way
// the original keeps them as separate privileged forms rather than a single
// annotated Int.
func Nat() Ty { return nullary(formNat) }

// Bool is the boolean type.
func Bool() Ty { return nullary(formBool) }

// Float is the floating-point type.
func Float() Ty { return nullary(formFloat) }

// Fn builds a function type from its parameter types and return type.
func Fn(params []Ty, ret Ty) Ty {
	seq := make([]ast.AST, len(params))
	for i, p := range params {
		seq[i] = p.root
	}
	parts := ast.NewParts().WithSeq(slotParam, seq).WithLeaf(slotRet, ret.root)
	return NewTy(ast.Node{Form: formFn, Parts: parts})
}

// Struct builds a structural record type from parallel component-name and
// component-type slices (must be the same length).
func Struct(names []name.Name, comps []Ty) Ty {
	if len(names) != len(comps) {
		panic("ICE: types.Struct called with mismatched names/comps lengths")
	}
	nameSeq := make([]ast.AST, len(names))
	for i, n := range names {
		nameSeq[i] = ast.Atom{Name: n}
	}
	compSeq := make([]ast.AST, len(comps))
	for i, c := range comps {
		compSeq[i] = c.root
	}
	parts := ast.NewParts().WithSeq(slotComponentName, nameSeq).WithSeq(slotComponent, compSeq)
	return NewTy(ast.Node{Form: formStruct, Parts: parts})
}

// TypeByName builds a bare type variable / nominal reference. This is also
// the shape a unification slot takes: session.Session.Fresh mints a Name,
// and TypeByName(thatName) is the Ty the rest of this package manipulates.
func TypeByName(n name.Name) Ty {
	parts := ast.NewParts().WithLeaf(slotName, ast.Atom{Name: n})
	return NewTy(ast.Node{Form: formTypeByName, Parts: parts})
}

// ForallType builds a universally-quantified type over params, per spec.md
// §4.4's ∀-elimination rule.
func ForallType(params []name.Name, body Ty) Ty {
	seq := make([]ast.AST, len(params))
	for i, p := range params {
		seq[i] = ast.Atom{Name: p}
	}
	parts := ast.NewParts().WithSeq(slotParam, seq).WithLeaf(slotBody, body.root)
	return NewTy(ast.Node{Form: formForallType, Parts: parts})
}

// TypeApply builds a type application, e.g. the `Expr<[T]<` shape
// less_quoted_ty/more_quoted_ty thread a phase-polarity annotation through.
func TypeApply(rator Ty, args []Ty) Ty {
	seq := make([]ast.AST, len(args))
	for i, a := range args {
		seq[i] = a.root
	}
	parts := ast.NewParts().WithLeaf(slotTypeRator, rator.root).WithSeq(slotArg, seq)
	return NewTy(ast.Node{Form: formTypeApply, Parts: parts})
}

func formOfTy(t Ty) (*walk.Form, ast.Node, bool) {
	n, ok := t.root.(ast.Node)
	if !ok {
		return nil, ast.Node{}, false
	}
	f, ok := n.Form.(*walk.Form)
	if !ok {
		return nil, ast.Node{}, false
	}
	return f, n, true
}

// IsTypeByName reports whether t is a bare type_by_name node, returning the
// name it holds.
func IsTypeByName(t Ty) (name.Name, bool) {
	f, n, ok := formOfTy(t)
	if !ok || f != formTypeByName {
		return name.Name{}, false
	}
	leaf := n.Parts.GetLeafOrPanic(slotName)
	nm, err := ast.ToName(leaf)
	if err != nil {
		panic("ICE: type_by_name node's \"name\" slot is not an Atom: " + err.Error())
	}
	return nm, true
}

// StructComponents decomposes t into its component names and types,
// reporting false if t is not a struct type at all — the accessor a
// struct_expr/struct_pat form's SynthType rule uses to check an expression's
// synthesized record shape against, or a pattern's expected shape against.
func StructComponents(t Ty) (names []name.Name, comps []Ty, ok bool) {
	f, n, ok2 := formOfTy(t)
	if !ok2 || f != formStruct {
		return nil, nil, false
	}
	labelSeq, _ := n.Parts.GetSeq(slotComponentName)
	names = make([]name.Name, len(labelSeq))
	for i, l := range labelSeq {
		nm, err := ast.ToName(l)
		if err != nil {
			panic("ICE: struct type's component_name slot is not an Atom: " + err.Error())
		}
		names[i] = nm
	}
	compSeq, _ := n.Parts.GetSeq(slotComponent)
	comps = make([]Ty, len(compSeq))
	for i, c := range compSeq {
		comps[i] = NewTy(c)
	}
	return names, comps, true
}
