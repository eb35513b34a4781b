package ast

import "github.com/riffle-lang/riffle/internal/name"

// QuoteMore marks that the enclosed AST is one quotation phase higher than
// its surroundings. Nt records the nonterminal that opened the quotation,
// when known (the starterer nonterminal), so that error messages and
// less_quoted_ty checks can report it; it is nil where that information
// isn't available (e.g. wrapping the outer environment frame pushed for a
// nested quasiquote walk rather than the user-written quotation node
// itself).
type QuoteMore struct {
	Inner AST
	Nt    *name.Name
}

func (QuoteMore) astNode() {}

// QuoteLess is the dual: the enclosed AST is Depth phases lower. This core
// only ever constructs QuoteLess with Depth == 1 — deeper unquote forms
// (",,[...]," etc.) are modeled as nested QuoteLess wrappers, one per
// comma, not as a single node with a larger Depth, so that popping the
// quotation stack one frame at a time (per walk.WalkPos/WalkNeg's dispatch rule) stays
// uniform regardless of how deep the unquote was.
type QuoteLess struct {
	Inner AST
	Depth uint8
}

func (QuoteLess) astNode() {}

// NewQuoteLess1 builds the only QuoteLess shape this core's walker actually
// dispatches on.
func NewQuoteLess1(inner AST) QuoteLess { return QuoteLess{Inner: inner, Depth: 1} }

// ValidateQuotationDepth checks the one quotation-nesting invariant that can
// be verified without walker context: a QuoteLess node must decrement by
// exactly one phase. Whether that phase existed in the first place (a
// QuoteLess at quotation depth 0) is a dynamic property of the walk, caught
// by walk.WalkPos/WalkNeg as walk.BadQuotationDepthError, not by this static
// check.
func ValidateQuotationDepth(a AST) bool {
	ql, ok := a.(QuoteLess)
	if !ok {
		return true
	}
	return ql.Depth == 1
}
