package parser

import "testing"

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenIdent, "Identifier"},
		{TokenIf, "if"},
		{TokenSemicolon, ";"},
		{TokenRangeOpen, "<..<"},
		{TokenUShrAssign, ">>>="},
		{TokenKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestTokenKindCategory(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want Category
	}{
		{TokenEOF, CategoryEndOfStream},
		{TokenIdent, CategoryIdentifier},
		{TokenInt, CategoryIntLiteral},
		{TokenFloat, CategoryFloatLiteral},
		{TokenString, CategoryStringLiteral},
		{TokenIf, CategoryKeyword},
		{TokenReturn, CategoryKeyword},
		{TokenLParen, CategoryPunctuator},
		{TokenNotIn, CategoryPunctuator},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	if got := LookupKeyword("singleton"); got != TokenSingleton {
		t.Errorf("LookupKeyword(singleton) = %v", got)
	}
	if got := LookupKeyword("Singleton"); got != TokenIdent {
		t.Errorf("LookupKeyword(Singleton) = %v, want identifier", got)
	}
	for word, kind := range keywords {
		if kind.String() != word {
			t.Errorf("keyword %q has name %q", word, kind.String())
		}
		if !kind.IsKeyword() {
			t.Errorf("%v.IsKeyword() = false", kind)
		}
	}
}

func TestTokenDescribe(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenEOF}, "end of file"},
		{Token{Kind: TokenString, Literal: `"x"`}, "string literal"},
		{Token{Kind: TokenIdent, Literal: "foo"}, "foo"},
		{Token{Kind: TokenRBrace}, "}"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tok.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "a.xtal", Line: 3, Column: 7}
	if got := p.String(); got != "a.xtal:3:7" {
		t.Errorf("String() = %q", got)
	}
	p.File = ""
	if got := p.String(); got != "3:7" {
		t.Errorf("String() = %q", got)
	}
}
