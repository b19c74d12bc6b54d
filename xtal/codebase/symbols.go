package codebase

import "github.com/dhamidi/xtal/xtal/parser"

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolClass
	SymbolField
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolClass:
		return "class"
	case SymbolField:
		return "field"
	}
	return "variable"
}

// Symbol is a named definition found in a file, with its nested members.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     parser.Span // the whole definition
	NameSpan parser.Span
	Children []Symbol
}

// Symbols lists the top-level definitions of a unit: "name: value" and
// multi-definitions, with class members nested below their class.
func Symbols(unit *parser.Node) []Symbol {
	if unit == nil {
		return nil
	}
	var syms []Symbol
	for _, stmt := range unit.Children {
		syms = append(syms, definitions(stmt)...)
	}
	return syms
}

func definitions(stmt *parser.Node) []Symbol {
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case parser.KindDefine:
		target, value := stmt.Child(0), stmt.Child(1)
		if target == nil || target.Kind != parser.KindIdent {
			return nil
		}
		return []Symbol{valueSymbol(target.Name, stmt.Span, target.Span, value)}

	case parser.KindMultiDefine:
		var syms []Symbol
		for _, target := range stmt.Child(0).ChildrenOfKind(parser.KindIdent) {
			syms = append(syms, Symbol{
				Name:     target.Name,
				Kind:     SymbolVariable,
				Span:     stmt.Span,
				NameSpan: target.Span,
			})
		}
		return syms
	}
	return nil
}

func valueSymbol(name string, span, nameSpan parser.Span, value *parser.Node) Symbol {
	sym := Symbol{Name: name, Kind: SymbolVariable, Span: span, NameSpan: nameSpan}
	if value == nil {
		return sym
	}
	switch value.Kind {
	case parser.KindFun:
		sym.Kind = SymbolFunction
		if value.Flags&0xff == parser.FunMethod {
			sym.Kind = SymbolMethod
		}
	case parser.KindClass:
		sym.Kind = SymbolClass
		sym.Children = classMembers(value)
	}
	return sym
}

func classMembers(class *parser.Node) []Symbol {
	var syms []Symbol
	for _, decl := range class.Child(1).ChildrenOfKind(parser.KindIVarDecl) {
		syms = append(syms, Symbol{
			Name:     "_" + decl.Name,
			Kind:     SymbolField,
			Span:     decl.Span,
			NameSpan: decl.Span,
		})
	}
	for _, m := range class.Child(2).ChildrenOfKind(parser.KindMember) {
		sym := valueSymbol(m.Name, m.Span, m.Span, m.Child(1))
		if sym.Kind == SymbolFunction {
			sym.Kind = SymbolMethod
		}
		syms = append(syms, sym)
	}
	return syms
}
