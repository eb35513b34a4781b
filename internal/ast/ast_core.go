// Package ast defines the tagged AST node sum the walker operates over:
// leaves (Atom, VarRef), the interior Node keyed by a Form, IncompleteNode
// fragments produced mid-parse, and the two quotation-phase markers
// QuoteMore/QuoteLess.
package ast

import "github.com/riffle-lang/riffle/internal/name"

// AST is the sealed sum every walker mode recurses over. The concrete cases
// are Atom, VarRef, Node, IncompleteNode, QuoteMore, and QuoteLess; there is
// no other implementation outside this package.
type AST interface {
	astNode()
}

// FormRef is the sliver of walk.Form that ast needs to know about: just
// enough to name the form a Node is tagged with, without ast importing the
// walk package (which in turn depends on ast.AST as its element type).
type FormRef interface {
	FormName() name.Name
}

// Atom is a literal identifier: the body of a syntax quotation is built of
// these wherever the source text was just a bare name, not a reference
// expected to resolve against an environment.
type Atom struct {
	Name name.Name
}

func (Atom) astNode() {}

// VarRef is a reference expected to resolve in whatever environment the
// current walk mode carries (the type environment for type-synthesis walks,
// the value environment for evaluation walks).
type VarRef struct {
	Name name.Name
}

func (VarRef) astNode() {}

// Node is the interior AST node: a Form together with the Parts (MBE) that
// the form's grammar produced, and an ExportBeta describing which of those
// parts' bindings (if any) the walker should fold into the environment it
// passes to later siblings.
//
// Invariant: Parts' named slots must exactly match what Form's grammar
// would produce (every named slot present, sequence arities consistent). A
// Node violating this is malformed input from the parser collaborator, not
// a user error, and custom walk rules that detect it should panic (an ICE)
// rather than return a TyErr.
type Node struct {
	Form   FormRef
	Parts  *Parts
	Export ExportBeta
}

func (Node) astNode() {}

// IncompleteNode is what the parser collaborator produces mid-parse: a bag
// of named leaves accumulated so far with no Form assigned yet (the
// "starterer_nt" production inside quote() builds one of these for the
// quotation's nt/ty_annot/body trio before the real Form is known).
type IncompleteNode struct {
	Parts *Parts
}

func (IncompleteNode) astNode() {}
