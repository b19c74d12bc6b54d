// Package grammar carries the EBNF description of XTAL syntax and a matcher
// for its lexical productions.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the production every XTAL compilation unit derives from.
const Start = "Toplevel"

//go:embed xtal.ebnf
var source []byte

// Source returns the text of the built-in grammar.
func Source() []byte {
	return source
}

// Load parses and verifies the built-in grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("xtal.ebnf", bytes.NewReader(source), Start)
}

// Parse reads a grammar from r. When start is not empty the grammar is also
// verified: every production must be defined and reachable from start.
func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start != "" {
		if err := ebnf.Verify(g, start); err != nil {
			return nil, fmt.Errorf("verify grammar: %w", err)
		}
	}
	return g, nil
}

// IsLexical reports whether a production name denotes a lexical production.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// Productions returns the production names of g in sorted order.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Terminals returns the literal tokens used by the syntactic productions of
// g, that is the keywords and punctuators of the language, sorted.
func Terminals(g ebnf.Grammar) []string {
	seen := make(map[string]bool)
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch x := expr.(type) {
		case ebnf.Alternative:
			for _, e := range x {
				walk(e)
			}
		case ebnf.Sequence:
			for _, e := range x {
				walk(e)
			}
		case *ebnf.Group:
			walk(x.Body)
		case *ebnf.Option:
			walk(x.Body)
		case *ebnf.Repetition:
			walk(x.Body)
		case *ebnf.Token:
			seen[x.String] = true
		}
	}
	for name, prod := range g {
		if !IsLexical(name) {
			walk(prod.Expr)
		}
	}

	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
