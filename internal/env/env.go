// Package env implements the immutable association lists used throughout the
// core as both the type environment and the value environment.
package env

import "github.com/riffle-lang/riffle/internal/name"

// Env is a persistent association from name.Name to V. Extending an Env
// never mutates it; it produces a new Env sharing the tail of the old one,
// so a reference to an outer environment taken before an extension remains
// valid and unchanged afterwards.
type Env[V any] struct {
	head name.Name
	val  V
	rest *Env[V]
}

// New returns the empty environment.
func New[V any]() *Env[V] { return nil }

// Extend returns a new environment that maps n to v and falls back to e for
// every other name.
func (e *Env[V]) Extend(n name.Name, v V) *Env[V] {
	return &Env[V]{head: n, val: v, rest: e}
}

// Find looks n up, returning the bound value and true, or the zero value and
// false if n is unbound. The most recent Extend wins on shadowing.
func (e *Env[V]) Find(n name.Name) (V, bool) {
	for cur := e; cur != nil; cur = cur.rest {
		if cur.head == n {
			return cur.val, true
		}
	}
	var zero V
	return zero, false
}

// IsEmpty reports whether e binds no names.
func (e *Env[V]) IsEmpty() bool { return e == nil }

// Combine extends e with every binding in other, most-recent-in-other wins.
// Used to merge the bindings harvested from several unquote holes within one
// pattern quotation.
func (e *Env[V]) Combine(other *Env[V]) *Env[V] {
	if other == nil {
		return e
	}
	entries := other.entries()
	res := e
	for i := len(entries) - 1; i >= 0; i-- {
		res = res.Extend(entries[i].name, entries[i].val)
	}
	return res
}

type entry[V any] struct {
	name name.Name
	val  V
}

func (e *Env[V]) entries() []entry[V] {
	var out []entry[V]
	for cur := e; cur != nil; cur = cur.rest {
		out = append(out, entry[V]{cur.head, cur.val})
	}
	return out
}

// Names returns the bound names in most-recently-extended-first order, with
// shadowed names appearing only once (their innermost binding).
func (e *Env[V]) Names() []name.Name {
	seen := make(map[name.Name]bool)
	var out []name.Name
	for cur := e; cur != nil; cur = cur.rest {
		if !seen[cur.head] {
			seen[cur.head] = true
			out = append(out, cur.head)
		}
	}
	return out
}

// Equal reports structural equality: same set of bindings, compared with eq.
func (e *Env[V]) Equal(other *Env[V], eq func(a, b V) bool) bool {
	an, bn := e.Names(), other.Names()
	if len(an) != len(bn) {
		return false
	}
	for _, n := range an {
		av, _ := e.Find(n)
		bv, ok := other.Find(n)
		if !ok || !eq(av, bv) {
			return false
		}
	}
	return true
}
