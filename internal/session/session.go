// Package session owns the per-compilation state the type comparator needs
// to stay re-entrant: the unification table and fresh-variable counter that
// spec.md §5/§9 says should be threaded explicitly through LazyWalkReses
// rather than held as a mutable package-wide singleton.
//
// This is the decision recorded for spec.md's open question on the
// unification table's lifetime (§5, §9): rather than a thread-local/global
// table reset between queries, each compilation gets its own Session, so
// two independent must_subtype/must_equal calls can run without any shared
// mutable state, even concurrently.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/riffle-lang/riffle/internal/name"
)

// Session is the owner of one compilation's unification table and
// fresh-name counter. The zero value is not usable; construct with New.
type Session struct {
	ID uuid.UUID

	table   map[name.Name]*unificationSlot
	counter uint64
}

type unificationSlot struct {
	bound   bool
	boundTo any // a types.Ty, stored as `any` so this leaf package doesn't
	// need to import the types package (which will in turn import
	// session for exactly this table).
}

// New opens a fresh session, identified by a random UUID for logging and
// diagnostics. The UUID plays no role in unification itself — it exists so
// a session can be named without leaking the process-wide gensym counter's
// raw integers into user-visible output.
func New() *Session {
	return &Session{
		ID:    uuid.New(),
		table: make(map[name.Name]*unificationSlot),
	}
}

// Fresh mints a new Name for a unification slot and returns it; it does not
// register the slot (see Declare).
// The name carries the session id's first 8 hex characters so that two
// unrelated sessions' generated names never collide even if compared by
// string rather than by Session identity.
func (s *Session) Fresh() name.Name {
	s.counter++
	return name.Gensym(fmt.Sprintf("%s·", s.ID.String()[:8]))
}

// IsSlot reports whether n was minted by this session's Fresh.
func (s *Session) IsSlot(n name.Name) bool {
	_, ok := s.table[n]
	return ok
}

// Declare registers n as an unbound slot without minting a new name for it
// (used right after Fresh, since Fresh itself doesn't touch the table — the
// caller controls exactly when a freshly-named type_by_name becomes a real
// unification slot vs. stays a free name).
func (s *Session) Declare(n name.Name) {
	if _, exists := s.table[n]; !exists {
		s.table[n] = &unificationSlot{}
	}
}

// Lookup returns the value bound to n's slot, if any, and whether n is a
// slot at all (a type_by_name whose name was never Declared is a normal,
// non-generated type variable, not a unification slot).
func Lookup[Ty any](s *Session, n name.Name) (Ty, bool, bool) {
	var zero Ty
	slot, ok := s.table[n]
	if !ok {
		return zero, false, false
	}
	if !slot.bound {
		return zero, true, false
	}
	return slot.boundTo.(Ty), true, true
}

// Bind sets n's slot to t. Calling Bind on a name that was never Declared
// is an ICE (the caller is responsible for knowing which names are slots).
func Bind[Ty any](s *Session, n name.Name, t Ty) {
	slot, ok := s.table[n]
	if !ok {
		panic("ICE: Bind called on a name that is not a unification slot: " + n.String())
	}
	slot.bound = true
	slot.boundTo = t
}
