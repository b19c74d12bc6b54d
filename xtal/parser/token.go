package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenInt
	TokenFloat
	TokenString

	// Keywords
	TokenIf
	TokenFor
	TokenElse
	TokenFun
	TokenMethod
	TokenDo
	TokenWhile
	TokenContinue
	TokenBreak
	TokenFiber
	TokenYield
	TokenOnce
	TokenStatic
	TokenSwitch
	TokenCase
	TokenDefault
	TokenNull
	TokenUndefined
	TokenFalse
	TokenTrue
	TokenTry
	TokenCatch
	TokenFinally
	TokenThrow
	TokenClass
	TokenCallee
	TokenThis
	TokenDofun
	TokenIs
	TokenIn
	TokenAssert
	TokenNobreak
	TokenPublic
	TokenProtected
	TokenPrivate
	TokenSingleton
	TokenReturn

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenColon
	TokenColonColon
	TokenColonColonQ
	TokenDot
	TokenDotQ
	TokenEllipsis
	TokenQuestion
	TokenHash
	TokenAt

	// Ranges
	TokenRange      // ..
	TokenRangeRight // ..<
	TokenRangeLeft  // <..
	TokenRangeOpen  // <..<

	// Operators
	TokenAssign
	TokenEQ
	TokenRawEQ
	TokenNot
	TokenNE
	TokenRawNE
	TokenNotIs
	TokenNotIn
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenTilde
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenAndAnd
	TokenOrOr
	TokenIncrement
	TokenDecrement

	// Compound assignment
	TokenPlusAssign
	TokenMinusAssign
	TokenTildeAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenIdent:         "Identifier",
	TokenInt:           "IntLiteral",
	TokenFloat:         "FloatLiteral",
	TokenString:        "StringLiteral",
	TokenIf:            "if",
	TokenFor:           "for",
	TokenElse:          "else",
	TokenFun:           "fun",
	TokenMethod:        "method",
	TokenDo:            "do",
	TokenWhile:         "while",
	TokenContinue:      "continue",
	TokenBreak:         "break",
	TokenFiber:         "fiber",
	TokenYield:         "yield",
	TokenOnce:          "once",
	TokenStatic:        "static",
	TokenSwitch:        "switch",
	TokenCase:          "case",
	TokenDefault:       "default",
	TokenNull:          "null",
	TokenUndefined:     "undefined",
	TokenFalse:         "false",
	TokenTrue:          "true",
	TokenTry:           "try",
	TokenCatch:         "catch",
	TokenFinally:       "finally",
	TokenThrow:         "throw",
	TokenClass:         "class",
	TokenCallee:        "callee",
	TokenThis:          "this",
	TokenDofun:         "dofun",
	TokenIs:            "is",
	TokenIn:            "in",
	TokenAssert:        "assert",
	TokenNobreak:       "nobreak",
	TokenPublic:        "public",
	TokenProtected:     "protected",
	TokenPrivate:       "private",
	TokenSingleton:     "singleton",
	TokenReturn:        "return",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenColon:         ":",
	TokenColonColon:    "::",
	TokenColonColonQ:   "::?",
	TokenDot:           ".",
	TokenDotQ:          ".?",
	TokenEllipsis:      "...",
	TokenQuestion:      "?",
	TokenHash:          "#",
	TokenAt:            "@",
	TokenRange:         "..",
	TokenRangeRight:    "..<",
	TokenRangeLeft:     "<..",
	TokenRangeOpen:     "<..<",
	TokenAssign:        "=",
	TokenEQ:            "==",
	TokenRawEQ:         "===",
	TokenNot:           "!",
	TokenNE:            "!=",
	TokenRawNE:         "!==",
	TokenNotIs:         "!is",
	TokenNotIn:         "!in",
	TokenLT:            "<",
	TokenLE:            "<=",
	TokenGT:            ">",
	TokenGE:            ">=",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenUShr:          ">>>",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenTilde:         "~",
	TokenBitAnd:        "&",
	TokenBitOr:         "|",
	TokenBitXor:        "^",
	TokenAndAnd:        "&&",
	TokenOrOr:          "||",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenTildeAssign:   "~=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenUShrAssign:    ">>>=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Category is the coarse classification of a token kind.
type Category int

const (
	CategoryEndOfStream Category = iota
	CategoryPunctuator
	CategoryIntLiteral
	CategoryFloatLiteral
	CategoryStringLiteral
	CategoryIdentifier
	CategoryKeyword
)

var categoryNames = [...]string{
	CategoryEndOfStream:   "EndOfStream",
	CategoryPunctuator:    "Punctuator",
	CategoryIntLiteral:    "IntLiteral",
	CategoryFloatLiteral:  "FloatLiteral",
	CategoryStringLiteral: "StringLiteral",
	CategoryIdentifier:    "Identifier",
	CategoryKeyword:       "Keyword",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

func (k TokenKind) Category() Category {
	switch {
	case k == TokenEOF:
		return CategoryEndOfStream
	case k == TokenIdent:
		return CategoryIdentifier
	case k == TokenInt:
		return CategoryIntLiteral
	case k == TokenFloat:
		return CategoryFloatLiteral
	case k == TokenString:
		return CategoryStringLiteral
	case k.IsKeyword():
		return CategoryKeyword
	default:
		return CategoryPunctuator
	}
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenIf && k <= TokenReturn
}

// StringTag distinguishes plain string literals from the tagged percent
// forms %f(...) and %t(...).
type StringTag int

const (
	StringPlain StringTag = iota
	StringFormat
	StringText
)

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string

	Int   int64
	Float float64
	Text  string // identifier name or decoded string value
	Tag   StringTag

	LeftSpace  bool
	RightSpace bool
	Newline    bool
}

// Describe renders the token the way error messages quote it.
func (t Token) Describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenString:
		return "string literal"
	}
	if t.Literal != "" {
		return t.Literal
	}
	return t.Kind.String()
}

var keywords = map[string]TokenKind{
	"if":        TokenIf,
	"for":       TokenFor,
	"else":      TokenElse,
	"fun":       TokenFun,
	"method":    TokenMethod,
	"do":        TokenDo,
	"while":     TokenWhile,
	"continue":  TokenContinue,
	"break":     TokenBreak,
	"fiber":     TokenFiber,
	"yield":     TokenYield,
	"once":      TokenOnce,
	"static":    TokenStatic,
	"switch":    TokenSwitch,
	"case":      TokenCase,
	"default":   TokenDefault,
	"null":      TokenNull,
	"undefined": TokenUndefined,
	"false":     TokenFalse,
	"true":      TokenTrue,
	"try":       TokenTry,
	"catch":     TokenCatch,
	"finally":   TokenFinally,
	"throw":     TokenThrow,
	"class":     TokenClass,
	"callee":    TokenCallee,
	"this":      TokenThis,
	"dofun":     TokenDofun,
	"is":        TokenIs,
	"in":        TokenIn,
	"assert":    TokenAssert,
	"nobreak":   TokenNobreak,
	"public":    TokenPublic,
	"protected": TokenProtected,
	"private":   TokenPrivate,
	"singleton": TokenSingleton,
	"return":    TokenReturn,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
