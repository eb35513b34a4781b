// Package coreforms is the collaborator spec.md names as
// "core_forms::find_core_form(category, name) → Form": a small registry of
// built-in Form values, keyed by category (e.g. "expr", "pat", "type") and
// name, populated by each defining package's init(). The handful of
// built-in expression/pattern forms the quotation core quotes over live in
// internal/demo and register themselves here (spec.md explicitly treats
// built-in forms' shapes as out of scope beyond their names/arity — those
// are the minimal bodies behind the names, not a language).
package coreforms

import (
	"fmt"
	"sync"

	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/walk"
)

var (
	mu       sync.Mutex
	registry = map[string]map[name.Name]*walk.Form{}
)

// RegisterForm installs f under (category, f.Name). Called from init()
// functions in the packages that define forms (quote, types, demo); panics
// on a duplicate registration, which can only be a
// programming error (two forms fighting over the same name), never
// something user input could trigger.
func RegisterForm(category string, f *walk.Form) {
	mu.Lock()
	defer mu.Unlock()
	cat, ok := registry[category]
	if !ok {
		cat = make(map[name.Name]*walk.Form)
		registry[category] = cat
	}
	if _, exists := cat[f.Name]; exists {
		panic(fmt.Sprintf("ICE: form %q already registered in category %q", f.Name, category))
	}
	cat[f.Name] = f
}

// FindForm looks up a previously-registered form. A miss here means the
// grammar named a form no package ever defined — an ICE (all form names
// this repository's grammar tables mention are wired up at init time), not
// a user-facing error.
func FindForm(category string, n name.Name) *walk.Form {
	mu.Lock()
	defer mu.Unlock()
	f, ok := registry[category][n]
	if !ok {
		panic(fmt.Sprintf("ICE: no form registered for %q in category %q", n, category))
	}
	return f
}
