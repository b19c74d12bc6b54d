package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return toks
}

func firstCode(err error) Code {
	var list ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Code
	}
	return ""
}

func TestTokenizerPosition(t *testing.T) {
	toks, err := Tokenize([]byte("a\n  bc"), WithFile("test.xtal"))
	if err != nil {
		t.Fatal(err)
	}
	b := toks[1]
	if b.Span.Start.File != "test.xtal" {
		t.Errorf("File = %q, want %q", b.Span.Start.File, "test.xtal")
	}
	if b.Span.Start.Line != 2 || b.Span.Start.Column != 3 || b.Span.Start.Offset != 4 {
		t.Errorf("Start = %+v, want line 2 column 3 offset 4", b.Span.Start)
	}
	if b.Span.End.Offset != 6 {
		t.Errorf("End offset = %d, want 6", b.Span.End.Offset)
	}
}

func TestTokenizerKeywords(t *testing.T) {
	for word, kind := range keywords {
		t.Run(word, func(t *testing.T) {
			toks := tokenize(t, word)
			if toks[0].Kind != kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, kind)
			}
			if toks[0].Kind.Category() != CategoryKeyword {
				t.Errorf("Category = %v, want Keyword", toks[0].Kind.Category())
			}
		})
	}
}

func TestTokenizerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_ivar",
		"camelCase",
		"with123Numbers",
		"iffy",
		"ünïcode",
	}

	for _, ident := range tests {
		t.Run(ident, func(t *testing.T) {
			toks := tokenize(t, ident)
			if toks[0].Kind != TokenIdent {
				t.Fatalf("Kind = %v, want identifier", toks[0].Kind)
			}
			if toks[0].Text != ident {
				t.Errorf("Text = %q, want %q", toks[0].Text, ident)
			}
		})
	}
}

func TestTokenizerOperators(t *testing.T) {
	tests := []struct {
		input string
		kinds []TokenKind
	}{
		{"<<=", []TokenKind{TokenShlAssign}},
		{"<..<", []TokenKind{TokenRangeOpen}},
		{"<..", []TokenKind{TokenRangeLeft}},
		{"..<", []TokenKind{TokenRangeRight}},
		{"..", []TokenKind{TokenRange}},
		{"...", []TokenKind{TokenEllipsis}},
		{">>>=", []TokenKind{TokenUShrAssign}},
		{">>>", []TokenKind{TokenUShr}},
		{">>=", []TokenKind{TokenShrAssign}},
		{"===", []TokenKind{TokenRawEQ}},
		{"!==", []TokenKind{TokenRawNE}},
		{"!=", []TokenKind{TokenNE}},
		{"!is", []TokenKind{TokenNotIs}},
		{"!in", []TokenKind{TokenNotIn}},
		{"!isx", []TokenKind{TokenNot, TokenIdent}},
		{"::?", []TokenKind{TokenColonColonQ}},
		{"::", []TokenKind{TokenColonColon}},
		{".?", []TokenKind{TokenDotQ}},
		{"++", []TokenKind{TokenIncrement}},
		{"+=", []TokenKind{TokenPlusAssign}},
		{"---", []TokenKind{TokenDecrement, TokenMinus}},
		{"&&=", []TokenKind{TokenAndAnd, TokenAssign}},
		{"||", []TokenKind{TokenOrOr}},
		{"|=", []TokenKind{TokenOrAssign}},
		{"~=", []TokenKind{TokenTildeAssign}},
		{"a%=b", []TokenKind{TokenIdent, TokenPercentAssign, TokenIdent}},
		{"a % b", []TokenKind{TokenIdent, TokenPercent, TokenIdent}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if len(toks) != len(tt.kinds)+1 {
				t.Fatalf("got %d tokens, want %d", len(toks)-1, len(tt.kinds))
			}
			for i, kind := range tt.kinds {
				if toks[i].Kind != kind {
					t.Errorf("token %d: Kind = %v, want %v", i, toks[i].Kind, kind)
				}
			}
			if last := toks[len(toks)-1]; last.Kind != TokenEOF {
				t.Errorf("last token = %v, want EOF", last.Kind)
			}
		})
	}
}

func TestTokenizerSpacing(t *testing.T) {
	toks := tokenize(t, "a+ b\n/* c */c// d")

	tests := []struct {
		kind    TokenKind
		left    bool
		right   bool
		newline bool
	}{
		{TokenIdent, false, false, false},
		{TokenPlus, false, true, false},
		{TokenIdent, true, true, false},
		{TokenIdent, true, true, true},
		{TokenEOF, true, true, false},
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(tests))
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Kind != tt.kind {
			t.Errorf("token %d: Kind = %v, want %v", i, tok.Kind, tt.kind)
		}
		if tok.LeftSpace != tt.left {
			t.Errorf("token %d: LeftSpace = %v, want %v", i, tok.LeftSpace, tt.left)
		}
		if tok.RightSpace != tt.right {
			t.Errorf("token %d: RightSpace = %v, want %v", i, tok.RightSpace, tt.right)
		}
		if tok.Newline != tt.newline {
			t.Errorf("token %d: Newline = %v, want %v", i, tok.Newline, tt.newline)
		}
	}
}

func TestTokenizerShebang(t *testing.T) {
	toks := tokenize(t, "#!/usr/bin/env xtal\nx")
	if toks[0].Kind != TokenIdent || toks[0].Text != "x" {
		t.Fatalf("first token = %v %q, want identifier x", toks[0].Kind, toks[0].Text)
	}
	if !toks[0].LeftSpace {
		t.Error("LeftSpace = false after shebang line")
	}
}

func TestTokenizerIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"255", 255},
		{"0x1F", 31},
		{"0XfF", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"0B11", 3},
		{"9223372036854775807", math.MaxInt64},
		{"0xFFFFFFFFFFFFFFFF", -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if toks[0].Kind != TokenInt {
				t.Fatalf("Kind = %v, want Int", toks[0].Kind)
			}
			if toks[0].Int != tt.want {
				t.Errorf("Int = %d, want %d", toks[0].Int, tt.want)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

// Digit group separators never change the value of an integer literal.
func TestTokenizerUnderscoreInvariance(t *testing.T) {
	literals := []string{"0xFF", "0o17", "0b101", "255", "0x1234abcd", "1000000"}

	for _, lit := range literals {
		want := tokenize(t, lit)[0].Int
		digits := 0
		if len(lit) > 2 && lit[0] == '0' && !isDigit(rune(lit[1])) {
			digits = 2
		}
		for i := digits + 1; i < len(lit); i++ {
			for _, variant := range []string{
				lit[:i] + "_" + lit[i:],
				lit[:i] + "__" + lit[i:],
				lit + "_",
			} {
				t.Run(variant, func(t *testing.T) {
					toks := tokenize(t, variant)
					if toks[0].Kind != TokenInt || toks[0].Int != want {
						t.Errorf("%s = %v %d, want Int %d", variant, toks[0].Kind, toks[0].Int, want)
					}
				})
			}
		}
	}
}

func TestTokenizerFloats(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.5", 1.5},
		{"0.25", 0.25},
		{"1f", 1},
		{"2F", 2},
		{"1_000.5", 1000.5},
		{"1.5e3", 1500},
		{"1.5E+3", 1500},
		{"2.5e-2", 0.025},
		{"3.0f", 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if toks[0].Kind != TokenFloat {
				t.Fatalf("Kind = %v, want Float", toks[0].Kind)
			}
			if toks[0].Float != tt.want {
				t.Errorf("Float = %v, want %v", toks[0].Float, tt.want)
			}
		})
	}
}

// Printing a float and lexing the printed form again gives the same value.
func TestTokenizerFloatReparse(t *testing.T) {
	inputs := []string{"3.14159", "1.0e10", "6.02e+23", "1.6e-19", "0.1", "123456.789"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := tokenize(t, in)[0].Float
			printed := strconv.FormatFloat(first, 'f', -1, 64)
			if !strings.Contains(printed, ".") {
				printed += ".0"
			}
			second := tokenize(t, printed)[0].Float
			if first != second {
				t.Errorf("%s: %v reparsed from %q as %v", in, first, printed, second)
			}
		})
	}
}

func TestTokenizerRangeAfterInt(t *testing.T) {
	toks := tokenize(t, "1..10")
	want := []TokenKind{TokenInt, TokenRange, TokenInt, TokenEOF}
	for i, kind := range want {
		if toks[i].Kind != kind {
			t.Errorf("token %d: Kind = %v, want %v", i, toks[i].Kind, kind)
		}
	}
}

func TestTokenizerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
		tag   StringTag
	}{
		{`"hello"`, "hello", StringPlain},
		{`"a\nb"`, "a\nb", StringPlain},
		{`"tab\there"`, "tab\there", StringPlain},
		{`"q\"q\\"`, `q"q\`, StringPlain},
		{`"\r\f\b"`, "\r\f\b", StringPlain},
		{`"\q"`, `\q`, StringPlain},
		{"\"line\\\nnext\"", "line\r\nnext", StringPlain},
		{"\"line\\\r\nnext\"", "line\r\nnext", StringPlain},
		{`%(a(b)c)`, "a(b)c", StringPlain},
		{`%[x]`, "x", StringPlain},
		{`%{ {} }`, " {} ", StringPlain},
		{`%<<>>`, "<>", StringPlain},
		{`%|pipe|`, "pipe", StringPlain},
		{`%f(v=%d)`, "v=%d", StringFormat},
		{`%t<text>`, "text", StringText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if toks[0].Kind != TokenString {
				t.Fatalf("Kind = %v, want String", toks[0].Kind)
			}
			if toks[0].Text != tt.want {
				t.Errorf("Text = %q, want %q", toks[0].Text, tt.want)
			}
			if toks[0].Tag != tt.tag {
				t.Errorf("Tag = %v, want %v", toks[0].Tag, tt.tag)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  Code
	}{
		{"unterminated string", `"abc`, CodeUnterminatedString},
		{"unterminated percent", `%(abc`, CodeUnterminatedString},
		{"unterminated comment", "a /* b", CodeUnterminatedComment},
		{"binary digit", "0b102", CodeInvalidDigit},
		{"octal digit", "0o8", CodeInvalidDigit},
		{"empty hex", "0x", CodeInvalidDigit},
		{"suffix", "10abc", CodeNumberSuffix},
		{"exponent without float", "1e5", CodeNumberSuffix},
		{"missing exponent", "1.5e", CodeFloatExponent},
		{"overflow", "9223372036854775808", CodeIntOverflow},
		{"hex overflow", "0x1FFFFFFFFFFFFFFFF", CodeIntOverflow},
		{"percent delimiter", "%a", CodePercentDelimiter},
		{"unexpected", "a $ b", CodeUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.input))
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want %s", tt.input, tt.code)
			}
			if got := firstCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestTokenizerInvalidDigitMessage(t *testing.T) {
	_, err := Tokenize([]byte("0b12"))
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("err = %v, want ErrorList", err)
	}
	if want := "invalid digit '2' for base 2"; list[0].Message != want {
		t.Errorf("Message = %q, want %q", list[0].Message, want)
	}
	if list[0].Args["n"] != 2 {
		t.Errorf("Args[n] = %v, want 2", list[0].Args["n"])
	}
}

func TestTokenizerUnterminatedCommentStopsTokens(t *testing.T) {
	toks, err := Tokenize([]byte("a /* never closed"))
	if firstCode(err) != CodeUnterminatedComment {
		t.Fatalf("err = %v, want %s", err, CodeUnterminatedComment)
	}
	if len(toks) != 1 || toks[0].Text != "a" {
		t.Errorf("tokens = %v, want only a", toks)
	}
	var list ErrorList
	errors.As(err, &list)
	if !list[0].AtEOF {
		t.Error("AtEOF = false for unterminated comment")
	}
}

func TestTokenizerRewind(t *testing.T) {
	tz := NewTokenizer(NewSource([]byte("a b c d"), ""))
	start := tz.Offset()
	first := []string{tz.Read().Text, tz.Read().Text, tz.Read().Text}
	tz.Rewind(start)
	second := []string{tz.Read().Text, tz.Read().Text, tz.Read().Text}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d after rewind = %q, want %q", i, second[i], first[i])
		}
	}
	if got := tz.Peek(0).Text; got != "d" {
		t.Errorf("Peek(0) = %q, want d", got)
	}
}

func TestTokenizerPeekDoesNotConsume(t *testing.T) {
	tz := NewTokenizer(NewSource([]byte("x y"), ""))
	if tz.Peek(1).Text != "y" {
		t.Fatalf("Peek(1) = %q, want y", tz.Peek(1).Text)
	}
	if tz.Read().Text != "x" {
		t.Error("Read after Peek(1) did not return the first token")
	}
	if tz.Read().Text != "y" {
		t.Error("second Read did not return y")
	}
	if tz.Read().Kind != TokenEOF {
		t.Error("third Read did not return EOF")
	}
}
