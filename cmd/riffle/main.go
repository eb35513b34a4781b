// Command riffle is the demonstration driver for this repository's walker
// core: a check subcommand that loads a fixed document of privileged type
// forms (internal/types.ParseTy's tiny s-expression encoding) and runs it
// through Canonicalize, and a repl subcommand that reads subtype/equal
// queries over the same encoding from stdin, one query per line.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/riffle-lang/riffle/internal/env"
	"github.com/riffle-lang/riffle/internal/session"
	"github.com/riffle-lang/riffle/internal/types"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("internal error: %v", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		runCheck(os.Args[2])
	case "repl":
		runRepl()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s check <file> | %s repl\n", os.Args[0], os.Args[0])
}

// runCheck parses path as a single Ty document, canonicalizes it, and
// prints the result (or the TyErr that stopped it).
func runCheck(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %s\n", path, err)
		os.Exit(1)
	}

	ty, err := types.ParseTy(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %s\n", err)
		os.Exit(1)
	}

	sess := session.New()
	canon, err := types.Canonicalize(ty, sess, env.New[types.Ty]())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	fmt.Println(canon.String())
}

// runRepl reads must_subtype/must_equal queries from stdin, one per line:
//
//	subtype <sub-ty> <= <sup-ty>
//	equal <a-ty> == <b-ty>
//
// and prints "Ok" or the TyErr for each. Each line opens its own Session, per
// SPEC_FULL.md §5: two queries never share generated unification variables.
func runRepl() {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("riffle> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runQuery(line); err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println("Ok")
	}
	if err := scanner.Err(); err != nil {
		log.Printf("reading stdin: %v", err)
	}
}

func runQuery(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("empty query")
	}

	switch fields[0] {
	case "subtype":
		rest := strings.Join(fields[1:], " ")
		sub, sup, err := splitOn(rest, "<=")
		if err != nil {
			return err
		}
		subTy, err := types.ParseTy(sub)
		if err != nil {
			return fmt.Errorf("sub: %w", err)
		}
		supTy, err := types.ParseTy(sup)
		if err != nil {
			return fmt.Errorf("sup: %w", err)
		}
		return types.MustSubtype(subTy, supTy, session.New(), env.New[types.Ty]())
	case "equal":
		rest := strings.Join(fields[1:], " ")
		a, b, err := splitOn(rest, "==")
		if err != nil {
			return err
		}
		aTy, err := types.ParseTy(a)
		if err != nil {
			return fmt.Errorf("a: %w", err)
		}
		bTy, err := types.ParseTy(b)
		if err != nil {
			return fmt.Errorf("b: %w", err)
		}
		return types.MustEqual(aTy, bTy, session.New(), env.New[types.Ty]())
	default:
		return fmt.Errorf("unrecognized query %q (want \"subtype\" or \"equal\")", fields[0])
	}
}

func splitOn(s, sep string) (string, string, error) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", fmt.Errorf("expected %q in query", sep)
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):]), nil
}
