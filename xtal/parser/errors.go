package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Code identifies a diagnostic independently of its rendered message.
type Code string

const (
	CodeSyntax              Code = "XCE1001"
	CodeExpected            Code = "XCE1002"
	CodeAssignTarget        Code = "XCE1003"
	CodeInvalidParam        Code = "XCE1004"
	CodeNamedArgOrder       Code = "XCE1005"
	CodeBreakOutsideLoop    Code = "XCE1006"
	CodeMultipleAssign      Code = "XCE1008"
	CodeNumberSuffix        Code = "XCE1010"
	CodeUnterminatedString  Code = "XCE1011"
	CodeUnterminatedComment Code = "XCE1013"
	CodeFloatExponent       Code = "XCE1014"
	CodeInvalidDigit        Code = "XCE1015"
	CodeIntOverflow         Code = "XCE1016"
	CodePercentDelimiter    Code = "XCE1017"
	CodeUnexpectedChar      Code = "XCE1018"
	CodeDuplicateDefault    Code = "XCE1019"
	CodeExpectedExpr        Code = "XCE1020"
	CodeClassMember         Code = "XCE1021"
	CodePriority            Code = "XCE1028"
)

var messages = map[Code]string{
	CodeSyntax:              "syntax error near '{char}'",
	CodeExpected:            "expected '{required}', got '{char}'",
	CodeAssignTarget:        "invalid left-hand side in assignment",
	CodeInvalidParam:        "invalid function parameter",
	CodeNamedArgOrder:       "positional argument after named argument",
	CodeBreakOutsideLoop:    "invalid {name} statement",
	CodeMultipleAssign:      "invalid multiple assignment",
	CodeNumberSuffix:        "invalid suffix '{char}' on numeric literal",
	CodeUnterminatedString:  "unterminated string literal",
	CodeUnterminatedComment: "unterminated comment",
	CodeFloatExponent:       "malformed float exponent",
	CodeInvalidDigit:        "invalid digit '{char}' for base {n}",
	CodeIntOverflow:         "integer literal out of range",
	CodePercentDelimiter:    "invalid percent-literal delimiter '{char}'",
	CodeUnexpectedChar:      "unexpected character '{char}'",
	CodeDuplicateDefault:    "duplicate default clause in switch",
	CodeExpectedExpr:        "expected expression, got '{char}'",
	CodeClassMember:         "invalid class member near '{char}'",
	CodePriority:            "operator '{char}' has spacing that contradicts its priority",
}

// Args are the named substitution parameters of a diagnostic.
type Args map[string]any

// Error is a single parse diagnostic.
type Error struct {
	Code    Code
	Message string
	Args    Args
	Pos     Position
	// AtEOF reports that the failure was caused by running out of input.
	AtEOF bool
}

func newError(pos Position, code Code, args Args) *Error {
	return &Error{
		Code:    code,
		Message: render(code, args),
		Args:    args,
		Pos:     pos,
	}
}

func render(code Code, args Args) string {
	tmpl, ok := messages[code]
	if !ok {
		tmpl = string(code)
	}
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
}

// ErrorList collects the diagnostics of one parse.
type ErrorList []*Error

func (l *ErrorList) Add(e *Error) {
	*l = append(*l, e)
}

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.File != b.File {
		return a.File < b.File
	}
	return a.Offset < b.Offset
}

func (l ErrorList) Sort() {
	sort.Sort(l)
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list, so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Incomplete reports whether every error was caused by running out of input,
// which is how the REPL decides to keep reading.
func (l ErrorList) Incomplete() bool {
	if len(l) == 0 {
		return false
	}
	for _, e := range l {
		if !e.AtEOF {
			return false
		}
	}
	return true
}
