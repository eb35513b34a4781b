package types

// Golden fixture tests: each testdata/*.txtar archive holds one
// subtype/equal query as plain ParseTy s-expression text (an "op" section
// naming "subtype" or "equal", "a"/"b" type sections, and a "result"
// section of "ok" or "err"), in the style of the Go toolchain's own
// compiler test suites.

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/session"
)

func TestCompareGolden(t *testing.T) {
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
			a, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("txtar.ParseFile(%s): %v", path, err)
			}
			sections := make(map[string]string, len(a.Files))
			for _, f := range a.Files {
				sections[f.Name] = strings.TrimSpace(string(f.Data))
			}
			for _, key := range []string{"op", "a", "b", "result"} {
				if _, ok := sections[key]; !ok {
					t.Fatalf("fixture is missing a %q section", key)
				}
			}

			aTy, err := ParseTy(sections["a"])
			if err != nil {
				t.Fatalf("parsing a: %v", err)
			}
			bTy, err := ParseTy(sections["b"])
			if err != nil {
				t.Fatalf("parsing b: %v", err)
			}

			var cmpErr error
			switch sections["op"] {
			case "subtype":
				cmpErr = MustSubtype(aTy, bTy, session.New(), env.New[Ty]())
			case "equal":
				cmpErr = MustEqual(aTy, bTy, session.New(), env.New[Ty]())
			default:
				t.Fatalf("unrecognized op %q", sections["op"])
			}

			wantOk := sections["result"] == "ok"
			if (cmpErr == nil) != wantOk {
				t.Errorf("%s(%s, %s) = %v, want result %q", sections["op"], aTy, bTy, cmpErr, sections["result"])
			}
		})
	}
}
