package quote_test

// Golden fixture tests: each testdata/*.txtar archive holds a quotation
// scenario as plain demo s-expression text (a "nt" section, a "body"
// section, and a "want" section), in the style of the Go toolchain's own
// compiler test suites, which keep large test inputs out of the .go file
// and data-driven.

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/riffle-lang/riffle/internal/demo"
	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/name"
	"github.com/riffle-lang/riffle/internal/quote"
	"github.com/riffle-lang/riffle/internal/value"
	"github.com/riffle-lang/riffle/internal/walk"
)

func readGoldenSections(t *testing.T, path string) map[string]string {
	t.Helper()
	a, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("txtar.ParseFile(%s): %v", path, err)
	}
	sections := make(map[string]string, len(a.Files))
	for _, f := range a.Files {
		sections[f.Name] = strings.TrimSpace(string(f.Data))
	}
	return sections
}

func TestQuoteGolden(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden fixtures found under testdata/")
	}

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			sections := readGoldenSections(t, path)
			for _, key := range []string{"nt", "body", "want"} {
				if _, ok := sections[key]; !ok {
					t.Fatalf("fixture is missing a %q section", key)
				}
			}

			bodyAST, err := demo.ParseExpr(sections["body"])
			if err != nil {
				t.Fatalf("parsing body: %v", err)
			}
			wantAST, err := demo.ParseExpr(sections["want"])
			if err != nil {
				t.Fatalf("parsing want: %v", err)
			}

			q := quote.Quote(name.New(sections["nt"]), bodyAST)
			ctx := walk.NewWrapper(env.New[value.Value]())
			v, err := walk.WalkPos(q, ctx, value.Eval)
			if err != nil {
				t.Fatalf("WalkPos: %v", err)
			}
			got, ok := v.(value.Quoted)
			if !ok {
				t.Fatalf("expected value.Quoted, got %T", v)
			}
			if !deepEqualAST(got.AST, wantAST) {
				t.Errorf("got %#v, want %#v", got.AST, wantAST)
			}
		})
	}
}
