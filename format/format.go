package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/xtal/xtal/parser"
)

// Encoder writes a syntax tree to its underlying writer.
type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

var encoders = map[string]func(io.Writer) Encoder{
	"json":    func(w io.Writer) Encoder { return NewASTJSONEncoder(w) },
	"yaml":    func(w io.Writer) Encoder { return NewASTYAMLEncoder(w) },
	"tree":    func(w io.Writer) Encoder { return NewTreeEncoder(w, false) },
	"spans":   func(w io.Writer) Encoder { return NewTreeEncoder(w, true) },
	"compact": func(w io.Writer) Encoder { return NewCompactEncoder(w) },
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (expected one of %v)", name, Names())
	}
	return newEncoder(w), nil
}

// Names lists the registered encoder names in sorted order.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
