package grammar

import (
	_ "embed"
	"fmt"

	"github.com/riffle-lang/riffle/internal/name"
	"gopkg.in/yaml.v3"
)

//go:embed nonterminals.yaml
var nonterminalsYAML []byte

// nonterminalConfig mirrors nonterminals.yaml: the set of nonterminal
// categories the demonstration grammar recognises, and which of them are
// "starterer-eligible" — i.e. which ones quote()'s grammar rewrite is
// allowed to install an unquote alternative into (spec.md §4.2/§9: a HACK
// in the original restricts this to exactly {Expr, Pat, Type}; this config
// makes the restriction data instead of a hardcoded literal tuple, without
// changing its effect).
type nonterminalConfig struct {
	Nonterminals []string `yaml:"nonterminals"`
	Starterer    []string `yaml:"starterer_eligible"`
}

// DefaultNonterminals returns the nonterminal names this repository's
// demonstration grammar recognises, loaded from the embedded
// nonterminals.yaml asset rather than hardcoded, so that adding a
// nonterminal category is a config change, not a recompile of the rewrite
// logic.
func DefaultNonterminals() []name.Name {
	cfg := mustLoadConfig()
	out := make([]name.Name, len(cfg.Nonterminals))
	for i, n := range cfg.Nonterminals {
		out[i] = name.New(n)
	}
	return out
}

// StartererEligible reports whether nt is one of the nonterminals quote()'s
// grammar rewrite is allowed to install an unquote alternative into.
func StartererEligible(nt name.Name) bool {
	cfg := mustLoadConfig()
	for _, n := range cfg.Starterer {
		if name.New(n) == nt {
			return true
		}
	}
	return false
}

func mustLoadConfig() nonterminalConfig {
	var cfg nonterminalConfig
	if err := yaml.Unmarshal(nonterminalsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("ICE: embedded nonterminals.yaml is malformed: %v", err))
	}
	return cfg
}
