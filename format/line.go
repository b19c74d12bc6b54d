package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/xtal/xtal/parser"
)

// TokenLineEncoder writes one tab separated line per token:
//
//	line:col	category	kind	literal	flags
//
// flags is a string of L (space on the left), R (space on the right) and
// N (first token on its line), or "-".
type TokenLineEncoder struct {
	w io.Writer
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(tokens []parser.Token) error {
	text, err := e.MarshalText(tokens)
	return write(e.w, text, err)
}

func (e *TokenLineEncoder) MarshalText(tokens []parser.Token) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\t%s\t%s\n",
			tok.Span.Start.Line,
			tok.Span.Start.Column,
			tok.Kind.Category(),
			tok.Kind,
			tokenValue(tok),
			spaceFlags(tok),
		)
	}
	return []byte(sb.String()), nil
}

func tokenValue(tok parser.Token) string {
	switch tok.Kind {
	case parser.TokenInt:
		return strconv.FormatInt(tok.Int, 10)
	case parser.TokenFloat:
		return strconv.FormatFloat(tok.Float, 'g', -1, 64)
	case parser.TokenString:
		return strconv.Quote(tok.Text)
	case parser.TokenEOF:
		return "-"
	}
	return tok.Literal
}

func spaceFlags(tok parser.Token) string {
	var flags []byte
	if tok.LeftSpace {
		flags = append(flags, 'L')
	}
	if tok.RightSpace {
		flags = append(flags, 'R')
	}
	if tok.Newline {
		flags = append(flags, 'N')
	}
	if len(flags) == 0 {
		return "-"
	}
	return string(flags)
}
