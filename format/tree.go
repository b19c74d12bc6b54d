package format

import (
	"io"

	"github.com/dhamidi/xtal/xtal/parser"
)

// TreeEncoder writes the indented tree dump, optionally with spans.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if e.positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}

// CompactEncoder writes one line per tree, e.g. Add(Number(1), Ident(x)).
type CompactEncoder struct {
	w io.Writer
}

func NewCompactEncoder(w io.Writer) *CompactEncoder {
	return &CompactEncoder{w: w}
}

func (e *CompactEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *CompactEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return []byte(node.Compact() + "\n"), nil
}
