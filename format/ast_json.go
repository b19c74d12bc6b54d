package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/xtal/xtal/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	text, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
