package parser

import (
	"math"
	"strconv"
	"strings"
)

// ringSize bounds both lookahead and how far a checkpoint may lie behind
// the newest produced token. It must be a power of two.
const (
	ringSize = 256
	ringMask = ringSize - 1
)

// Tokenizer lazily turns a CharSource into tokens. Produced tokens are kept
// in a ring buffer so the parser can rewind to an earlier position without
// lexing the same characters twice.
type Tokenizer struct {
	src CharSource

	ring     [ringSize]Token
	produced int
	pos      int

	prev    TokenKind
	start   Position
	lit     strings.Builder
	space   bool
	newline bool
}

func NewTokenizer(src CharSource) *Tokenizer {
	return &Tokenizer{src: src, prev: TokenEOF}
}

// Peek returns the token n positions after the read position.
func (t *Tokenizer) Peek(n int) Token {
	for t.produced <= t.pos+n {
		t.produce()
	}
	return t.ring[(t.pos+n)&ringMask]
}

// Read consumes and returns the token at the read position.
func (t *Tokenizer) Read() Token {
	tok := t.Peek(0)
	t.pos++
	return tok
}

// Offset is the read position, usable with Rewind.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// Rewind moves the read position back to an offset returned by Offset.
func (t *Tokenizer) Rewind(offset int) {
	if offset > t.produced || t.produced-offset > ringSize {
		panic("parser: rewind outside the token window")
	}
	t.pos = offset
}

func (t *Tokenizer) produce() {
	for {
		t.skipBlank()
		t.lit.Reset()
		t.start = t.src.Position()
		tok, ok := t.scan()
		if !ok {
			continue
		}
		tok.LeftSpace = t.space
		tok.Newline = t.newline
		tok.RightSpace = t.spaceFollows()
		t.space, t.newline = false, false

		t.ring[t.produced&ringMask] = tok
		t.produced++
		t.prev = tok.Kind
		return
	}
}

// skipBlank consumes whitespace, comments and shebang lines. None of them
// produce a token; they only mark the next token as preceded by space.
func (t *Tokenizer) skipBlank() {
	for {
		c := t.src.Peek(0)
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			t.src.Skip()
			t.space = true
		case c == '\n':
			t.src.Skip()
			t.space = true
			t.newline = true
		case c == '/' && t.src.Peek(1) == '/', c == '#' && t.src.Peek(1) == '!':
			for c := t.src.Peek(0); c != '\n' && c != EOF; c = t.src.Peek(0) {
				t.src.Skip()
			}
			t.space = true
		case c == '/' && t.src.Peek(1) == '*':
			t.skipBlockComment()
			t.space = true
		default:
			return
		}
	}
}

func (t *Tokenizer) skipBlockComment() {
	t.src.Skip()
	t.src.Skip()
	for {
		switch t.src.Peek(0) {
		case EOF:
			t.src.Error(t.src.Position(), CodeUnterminatedComment, nil)
			return
		case '*':
			if t.src.Peek(1) == '/' {
				t.src.Skip()
				t.src.Skip()
				return
			}
		case '\n':
			t.newline = true
		}
		t.src.Skip()
	}
}

func (t *Tokenizer) spaceFollows() bool {
	switch t.src.Peek(0) {
	case EOF, ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	case '/':
		next := t.src.Peek(1)
		return next == '/' || next == '*'
	}
	return false
}

func (t *Tokenizer) next() rune {
	c := t.src.Read()
	if c != EOF {
		t.lit.WriteByte(byte(c))
	}
	return c
}

func (t *Tokenizer) token(kind TokenKind) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: t.start, End: t.src.Position()},
		Literal: t.lit.String(),
	}
}

func (t *Tokenizer) errorAt(code Code, args Args) {
	t.src.Error(t.src.Position(), code, args)
}

func (t *Tokenizer) scan() (Token, bool) {
	c := t.src.Peek(0)
	switch {
	case c == EOF:
		return t.token(TokenEOF), true
	case isIdentStart(c):
		return t.scanIdent(), true
	case isDigit(c):
		if t.isFloatAhead() {
			return t.scanFloat(), true
		}
		return t.scanInt(), true
	case c == '"':
		t.next()
		return t.scanString('"', '"', StringPlain), true
	}
	return t.scanOperator()
}

func (t *Tokenizer) scanIdent() Token {
	for isIdentChar(t.src.Peek(0)) {
		t.next()
	}
	name := t.lit.String()
	tok := t.token(LookupKeyword(name))
	tok.Text = name
	return tok
}

// isFloatAhead decides between integer and float without consuming input:
// a run of digits and underscores followed by an f/F suffix, or by a dot
// and a digit, is a float.
func (t *Tokenizer) isFloatAhead() bool {
	i := 0
	for c := t.src.Peek(i); isDigit(c) || c == '_'; c = t.src.Peek(i) {
		i++
	}
	switch c := t.src.Peek(i); {
	case c == 'f' || c == 'F':
		return true
	case c == '.':
		return isDigit(t.src.Peek(i + 1))
	}
	return false
}

func (t *Tokenizer) scanInt() Token {
	base := 10
	if t.src.Peek(0) == '0' {
		switch t.src.Peek(1) {
		case 'x', 'X':
			base = 16
		case 'o':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			t.next()
			t.next()
		}
	}

	var value uint64
	digits := 0
	overflow := false
	for {
		c := t.src.Peek(0)
		if c == '_' {
			t.next()
			continue
		}
		d := digitValue(c)
		if d < 0 || (d >= 10 && base != 16) {
			break
		}
		if d >= base {
			t.errorAt(CodeInvalidDigit, Args{"char": charName(c), "n": base})
			t.next()
			continue
		}
		t.next()
		if value > (math.MaxUint64-uint64(d))/uint64(base) {
			overflow = true
		}
		value = value*uint64(base) + uint64(d)
		digits++
	}
	if digits == 0 {
		t.errorAt(CodeInvalidDigit, Args{"char": charName(t.src.Peek(0)), "n": base})
	}
	// Based literals may use all 64 bits as a bit pattern; decimal ones must
	// fit a signed integer.
	if overflow || (base == 10 && value > math.MaxInt64) {
		t.errorAt(CodeIntOverflow, nil)
	}
	t.checkSuffix()

	tok := t.token(TokenInt)
	tok.Int = int64(value)
	return tok
}

func (t *Tokenizer) scanFloat() Token {
	var text strings.Builder
	digits := func() {
		for c := t.src.Peek(0); isDigit(c) || c == '_'; c = t.src.Peek(0) {
			if c != '_' {
				text.WriteByte(byte(c))
			}
			t.next()
		}
	}

	digits()
	if t.src.Peek(0) == '.' && isDigit(t.src.Peek(1)) {
		text.WriteByte('.')
		t.next()
		digits()
	}
	malformed := false
	if c := t.src.Peek(0); c == 'e' || c == 'E' {
		text.WriteByte('e')
		t.next()
		if c := t.src.Peek(0); c == '+' || c == '-' {
			text.WriteByte(byte(c))
			t.next()
		}
		if !isDigit(t.src.Peek(0)) {
			t.errorAt(CodeFloatExponent, nil)
			malformed = true
		}
		digits()
	}
	if c := t.src.Peek(0); c == 'f' || c == 'F' {
		t.next()
	}
	t.checkSuffix()

	tok := t.token(TokenFloat)
	if !malformed {
		// ErrRange still yields the correctly rounded ±Inf or 0.
		tok.Float, _ = strconv.ParseFloat(text.String(), 64)
	}
	return tok
}

// checkSuffix rejects a numeric literal running straight into an
// identifier, as in 10abc.
func (t *Tokenizer) checkSuffix() {
	if c := t.src.Peek(0); isIdentStart(c) {
		t.errorAt(CodeNumberSuffix, Args{"char": charName(c)})
		for isIdentChar(t.src.Peek(0)) {
			t.next()
		}
	}
}

// scanString reads a literal whose opening delimiter was already consumed.
// Distinct open and close delimiters nest.
func (t *Tokenizer) scanString(open, close rune, tag StringTag) Token {
	var value strings.Builder
	depth := 1
loop:
	for {
		c := t.src.Peek(0)
		switch {
		case c == EOF:
			t.errorAt(CodeUnterminatedString, nil)
			break loop
		case c == '\\':
			t.next()
			t.scanEscape(&value)
		case c == close:
			t.next()
			depth--
			if depth == 0 {
				break loop
			}
			value.WriteByte(byte(c))
		case c == open:
			t.next()
			depth++
			value.WriteByte(byte(c))
		default:
			t.next()
			value.WriteByte(byte(c))
		}
	}
	tok := t.token(TokenString)
	tok.Text = value.String()
	tok.Tag = tag
	return tok
}

func (t *Tokenizer) scanEscape(value *strings.Builder) {
	c := t.src.Peek(0)
	switch c {
	case EOF:
		return
	case 'n':
		value.WriteByte('\n')
	case 'r':
		value.WriteByte('\r')
	case 't':
		value.WriteByte('\t')
	case 'f':
		value.WriteByte('\f')
	case 'b':
		value.WriteByte('\b')
	case '\\', '"':
		value.WriteByte(byte(c))
	case '\r':
		t.next()
		if t.src.Peek(0) == '\n' {
			t.next()
		}
		value.WriteString("\r\n")
		return
	case '\n':
		value.WriteString("\r\n")
	default:
		value.WriteByte('\\')
		value.WriteByte(byte(c))
	}
	t.next()
}

// scanPercent reads %(...), %f<...>, %t{...} and friends. The leading % has
// not been consumed yet.
func (t *Tokenizer) scanPercent() Token {
	t.next()
	tag := StringPlain
	if c := t.src.Peek(0); (c == 'f' || c == 't') && isPercentDelimiter(t.src.Peek(1)) {
		if c == 'f' {
			tag = StringFormat
		} else {
			tag = StringText
		}
		t.next()
	}
	open := t.src.Peek(0)
	if !isPercentDelimiter(open) {
		t.errorAt(CodePercentDelimiter, Args{"char": charName(open)})
		return t.token(TokenPercent)
	}
	t.next()
	return t.scanString(open, closingDelimiter(open), tag)
}

func (t *Tokenizer) either(ch rune, yes, no TokenKind) TokenKind {
	if t.src.Peek(0) == ch {
		t.next()
		return yes
	}
	return no
}

func (t *Tokenizer) scanOperator() (Token, bool) {
	c := t.src.Peek(0)
	if c == '%' && !isOperandEnd(t.prev) {
		return t.scanPercent(), true
	}

	t.next()
	var kind TokenKind
	switch c {
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case '[':
		kind = TokenLBracket
	case ']':
		kind = TokenRBracket
	case ';':
		kind = TokenSemicolon
	case ',':
		kind = TokenComma
	case '?':
		kind = TokenQuestion
	case '#':
		kind = TokenHash
	case '@':
		kind = TokenAt

	case '.':
		switch t.src.Peek(0) {
		case '.':
			t.next()
			if t.src.Peek(0) == '.' {
				t.next()
				kind = TokenEllipsis
			} else {
				kind = t.either('<', TokenRangeRight, TokenRange)
			}
		case '?':
			t.next()
			kind = TokenDotQ
		default:
			kind = TokenDot
		}

	case ':':
		if t.src.Peek(0) == ':' {
			t.next()
			kind = t.either('?', TokenColonColonQ, TokenColonColon)
		} else {
			kind = TokenColon
		}

	case '=':
		if t.src.Peek(0) == '=' {
			t.next()
			kind = t.either('=', TokenRawEQ, TokenEQ)
		} else {
			kind = TokenAssign
		}

	case '!':
		switch {
		case t.src.Peek(0) == '=':
			t.next()
			kind = t.either('=', TokenRawNE, TokenNE)
		case t.src.Peek(0) == 'i' && t.src.Peek(1) == 's' && !isIdentChar(t.src.Peek(2)):
			t.next()
			t.next()
			kind = TokenNotIs
		case t.src.Peek(0) == 'i' && t.src.Peek(1) == 'n' && !isIdentChar(t.src.Peek(2)):
			t.next()
			t.next()
			kind = TokenNotIn
		default:
			kind = TokenNot
		}

	case '<':
		switch {
		case t.src.Peek(0) == '<':
			t.next()
			kind = t.either('=', TokenShlAssign, TokenShl)
		case t.src.Peek(0) == '=':
			t.next()
			kind = TokenLE
		case t.src.Peek(0) == '.' && t.src.Peek(1) == '.':
			t.next()
			t.next()
			kind = t.either('<', TokenRangeOpen, TokenRangeLeft)
		default:
			kind = TokenLT
		}

	case '>':
		switch t.src.Peek(0) {
		case '>':
			t.next()
			if t.src.Peek(0) == '>' {
				t.next()
				kind = t.either('=', TokenUShrAssign, TokenUShr)
			} else {
				kind = t.either('=', TokenShrAssign, TokenShr)
			}
		case '=':
			t.next()
			kind = TokenGE
		default:
			kind = TokenGT
		}

	case '+':
		if kind = t.either('+', TokenIncrement, TokenPlus); kind == TokenPlus {
			kind = t.either('=', TokenPlusAssign, TokenPlus)
		}
	case '-':
		if kind = t.either('-', TokenDecrement, TokenMinus); kind == TokenMinus {
			kind = t.either('=', TokenMinusAssign, TokenMinus)
		}
	case '&':
		if kind = t.either('&', TokenAndAnd, TokenBitAnd); kind == TokenBitAnd {
			kind = t.either('=', TokenAndAssign, TokenBitAnd)
		}
	case '|':
		if kind = t.either('|', TokenOrOr, TokenBitOr); kind == TokenBitOr {
			kind = t.either('=', TokenOrAssign, TokenBitOr)
		}
	case '*':
		kind = t.either('=', TokenStarAssign, TokenStar)
	case '/':
		kind = t.either('=', TokenSlashAssign, TokenSlash)
	case '%':
		kind = t.either('=', TokenPercentAssign, TokenPercent)
	case '^':
		kind = t.either('=', TokenXorAssign, TokenBitXor)
	case '~':
		kind = t.either('=', TokenTildeAssign, TokenTilde)

	default:
		t.src.Error(t.start, CodeUnexpectedChar, Args{"char": charName(c)})
		return Token{}, false
	}
	return t.token(kind), true
}

// isOperandEnd reports whether a token of this kind can end an operand, in
// which case a following % is the modulo operator.
func isOperandEnd(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenInt, TokenFloat, TokenString,
		TokenRParen, TokenRBracket,
		TokenThis, TokenNull, TokenUndefined, TokenTrue, TokenFalse, TokenCallee:
		return true
	}
	return false
}

func isPercentDelimiter(c rune) bool {
	return c > ' ' && c < 0x7f && c != '\\' && !isIdentChar(c)
}

func closingDelimiter(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return open
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func charName(c rune) string {
	if c == EOF {
		return "end of file"
	}
	return string(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
