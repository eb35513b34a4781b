package ast

import (
	"fmt"

	"github.com/riffle-lang/riffle/internal/name"
)

// ToName extracts the Name carried by a, which must be an Atom — the shape a
// grammar slot holds when it is a bare label (a struct component name, a
// quotation's declared nonterminal) rather than something meant to be
// walked. Returns an error, not a panic: a malformed quotation can put
// something other than an Atom in one of these slots, and that is user input,
// not a programming error.
func ToName(a AST) (name.Name, error) {
	atom, ok := a.(Atom)
	if !ok {
		return name.Name{}, fmt.Errorf("expected a bare name, got %T", a)
	}
	return atom.Name, nil
}
