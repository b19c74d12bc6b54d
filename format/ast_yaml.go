package format

import (
	"io"

	"github.com/dhamidi/xtal/xtal/parser"
	"gopkg.in/yaml.v3"
)

type ASTYAMLEncoder struct {
	w io.Writer
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	return write(e.w, text, err)
}

func (e *ASTYAMLEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return yaml.Marshal(nodeToYAML(node))
}

type astYAMLNode struct {
	Kind     string         `yaml:"kind"`
	Value    string         `yaml:"value,omitempty"`
	Name     string         `yaml:"name,omitempty"`
	Flags    int            `yaml:"flags,omitempty"`
	Line     int            `yaml:"line,omitempty"`
	Column   int            `yaml:"column,omitempty"`
	Error    string         `yaml:"error,omitempty"`
	Children []*astYAMLNode `yaml:"children,omitempty"`
}

// nodeToYAML mirrors the JSON shape. Empty child slots become null entries
// so slot positions survive the encoding.
func nodeToYAML(n *parser.Node) *astYAMLNode {
	if n == nil {
		return nil
	}
	yn := &astYAMLNode{
		Kind:   n.Kind.String(),
		Value:  n.Value(),
		Flags:  n.Flags,
		Line:   n.Span.Start.Line,
		Column: n.Span.Start.Column,
	}
	if yn.Value != n.Name {
		yn.Name = n.Name
	}
	if n.Error != nil {
		yn.Error = string(n.Error.Code) + ": " + n.Error.Message
	}
	for _, child := range n.Children {
		yn.Children = append(yn.Children, nodeToYAML(child))
	}
	return yn
}
