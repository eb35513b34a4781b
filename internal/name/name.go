// Package name implements globally interned identifiers.
//
// Two Names are equal iff they denote the same interned string, so Name is
// comparable and safe to use as a map key or struct field without any extra
// hashing machinery.
package name

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Name is a cheap, comparable handle to an interned string.
type Name struct {
	sym *symbol
}

type symbol struct {
	text string
}

var (
	internMu sync.Mutex
	interned = make(map[string]*symbol)

	gensymCounter uint64
)

// New interns s and returns the Name that denotes it. Calling New twice with
// the same string returns Names that compare equal.
func New(s string) Name {
	internMu.Lock()
	defer internMu.Unlock()
	if sym, ok := interned[s]; ok {
		return Name{sym: sym}
	}
	sym := &symbol{text: s}
	interned[s] = sym
	return Name{sym: sym}
}

// String returns the underlying text. The zero Name prints as "<nil-name>"
// rather than panicking, since that only ever happens if a Name was never
// assigned through New.
func (n Name) String() string {
	if n.sym == nil {
		return "<nil-name>"
	}
	return n.sym.text
}

// IsZero reports whether n was never assigned a value.
func (n Name) IsZero() bool { return n.sym == nil }

// Gensym mints a fresh Name guaranteed not to collide with any name a user
// could type, by prefixing it with a sigil no source-level identifier can
// contain. The counter is process-wide and monotonic; packages that need a
// scoped source of fresh names (e.g. the type comparator's unification
// table) should embed their own instance id in prefix instead of relying on
// global uniqueness across unrelated compilations.
func Gensym(prefix string) Name {
	id := atomic.AddUint64(&gensymCounter, 1)
	return New(fmt.Sprintf("☁%s%d", prefix, id))
}

// IsGenerated reports whether n was produced by Gensym (as opposed to having
// been interned from source text, which can never contain the sigil).
func IsGenerated(n Name) bool {
	if n.sym == nil || len(n.sym.text) == 0 {
		return false
	}
	r := []rune(n.sym.text)
	return len(r) > 0 && r[0] == '☁'
}
