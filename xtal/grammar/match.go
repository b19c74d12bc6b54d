package grammar

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

const noMatch = -1

type memoKey struct {
	name   string
	offset int
}

// Matcher matches lexical productions against raw input. Alternatives pick
// the longest match and repetitions are greedy; there is no backtracking
// into a repetition, which is enough for token-level productions.
type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match returns the length of the longest prefix of input derived from the
// named production, or -1 when none is.
func (m *Matcher) Match(production string, input []byte) (int, error) {
	prod, ok := m.grammar[production]
	if !ok {
		return noMatch, fmt.Errorf("no production %s", production)
	}
	if !IsLexical(production) {
		return noMatch, fmt.Errorf("%s is not a lexical production", production)
	}
	m.input = input
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.match(prod.Expr, 0), nil
}

// Longest tries every lexical production named in candidates and returns
// the one matching the longest prefix of input.
func (m *Matcher) Longest(input []byte, candidates ...string) (name string, n int, err error) {
	n = noMatch
	for _, c := range candidates {
		got, err := m.Match(c, input)
		if err != nil {
			return "", noMatch, err
		}
		if got > n {
			name, n = c, got
		}
	}
	return name, n, nil
}

func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		s := e.String
		if offset+len(s) > len(m.input) || string(m.input[offset:offset+len(s)]) != s {
			return noMatch
		}
		return len(s)

	case *ebnf.Range:
		if offset >= len(m.input) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return noMatch
		}
		ch := m.input[offset]
		if ch < e.Begin.String[0] || ch > e.End.String[0] {
			return noMatch
		}
		return 1

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		if n := m.match(e.Body, offset); n != noMatch {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return noMatch
}

// matchName memoizes per offset and breaks left recursion by failing a
// production that is already being matched at the same offset.
func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.visiting[key] {
		return noMatch
	}
	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = noMatch
		return noMatch
	}

	m.visiting[key] = true
	n := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = n
	return n
}
