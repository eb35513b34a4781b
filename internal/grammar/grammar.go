// Package grammar gives spec.md's "parser::SynEnv" collaborator a concrete,
// minimal shape: enough structure for quote()'s grammar-rewrite step (§4.2)
// to run and be tested, without building an actual parser. Nothing in this
// package consumes source text or produces tokens — that stays out of
// scope, per spec.md §1.
package grammar

import "github.com/riffle-lang/riffle/internal/name"

// FormPatKind tags the shape of a FormPat node.
type FormPatKind int

const (
	// KindOpaque is a leaf the grammar-rewrite walk never needs to look
	// inside (a literal delimiter, a call to another nonterminal, etc.)
	// It carries only a diagnostic Label.
	KindOpaque FormPatKind = iota
	KindAlt
	KindBiased
	KindScope
)

// FormPat is the grammar-pattern tree spec.md's quote() rewrites: Alt (any
// of several alternatives), Biased (try the first, fall back to the
// second), Scope (this alternative names a Form, and introduces bindings
// per its ExportBeta), and opaque leaves.
type FormPat struct {
	Kind FormPatKind

	Alt []*FormPat // KindAlt

	BiasedFirst  *FormPat // KindBiased
	BiasedSecond *FormPat

	ScopeFormName name.Name // KindScope: the name of the Form this alternative parses into

	Label string // diagnostic only, meaningful for KindOpaque
}

// Opaque builds a leaf FormPat the rewrite doesn't recurse into.
func Opaque(label string) *FormPat { return &FormPat{Kind: KindOpaque, Label: label} }

// Alt builds an Alt FormPat.
func Alt(alts ...*FormPat) *FormPat { return &FormPat{Kind: KindAlt, Alt: alts} }

// Biased builds a Biased FormPat: try a, then b.
func Biased(a, b *FormPat) *FormPat { return &FormPat{Kind: KindBiased, BiasedFirst: a, BiasedSecond: b} }

// Scope builds a FormPat naming the form that would be produced.
func Scope(formName name.Name) *FormPat { return &FormPat{Kind: KindScope, ScopeFormName: formName} }

// SynEnv is the grammar table quote()'s rewrite step edits: a map from
// nonterminal name to the FormPat that recognises it.
type SynEnv map[name.Name]*FormPat

// Clone returns a shallow copy of se (new top-level map, same *FormPat
// pointers) so callers can install rewritten entries without mutating the
// caller's table — mirroring the original's keyed_map_borrow_f, which
// produces a new SynEnv rather than editing in place.
func (se SynEnv) Clone() SynEnv {
	out := make(SynEnv, len(se))
	for k, v := range se {
		out[k] = v
	}
	return out
}

// AlreadyHasUnquote reports whether fp (or anything reachable through its
// Alt/Biased structure) is a Scope naming the form "unquote". It does not
// recurse through Scope itself — a Scope's sub-grammar isn't inspected,
// matching the original's intentionally shallow check.
func AlreadyHasUnquote(fp *FormPat, unquoteFormName name.Name) bool {
	if fp == nil {
		return false
	}
	switch fp.Kind {
	case KindAlt:
		for _, sub := range fp.Alt {
			if AlreadyHasUnquote(sub, unquoteFormName) {
				return true
			}
		}
		return false
	case KindBiased:
		return AlreadyHasUnquote(fp.BiasedFirst, unquoteFormName) ||
			AlreadyHasUnquote(fp.BiasedSecond, unquoteFormName)
	case KindScope:
		return fp.ScopeFormName == unquoteFormName
	default:
		return false
	}
}
