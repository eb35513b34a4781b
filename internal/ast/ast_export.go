package ast

import "github.com/riffle-lang/riffle/internal/name"

// ExportBetaKind is the shape of a Node's ExportBeta: does walking this
// node's parts contribute bindings to the environment later siblings see,
// and if so, which ones.
type ExportBetaKind int

const (
	// ExportNothing: this form never extends the environment (most forms).
	ExportNothing ExportBetaKind = iota
	// ExportAll: fold every binding the part(s) produced into the outgoing
	// environment, unfiltered. Used by forms like a quotation's own
	// top-level binder set, where everything the body bound is visible
	// afterwards.
	ExportAll
	// ExportOnly: fold in only the bindings under the named parts, e.g. a
	// `let`-like form that binds its "pattern" part but not its "value"
	// part's internal structure.
	ExportOnly
)

// ExportBeta records, per Node, which of that node's parts' bindings the
// form exports. walk.WalkPos/WalkNeg do not read it: a LiteralLike rebuild
// copies it onto the rebuilt node unchanged, and neither walker extends the
// environment from it, whatever the active mode's AutomaticallyExtendEnv()
// reports.
type ExportBeta struct {
	Kind  ExportBetaKind
	Parts []name.Name // meaningful only when Kind == ExportOnly
}
