package parser

import (
	"strconv"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	// Units and blocks
	KindToplevel
	KindScope
	KindList

	// Leaves
	KindNull
	KindUndefined
	KindTrue
	KindFalse
	KindCallee
	KindThis
	KindNumber
	KindFloat
	KindString
	KindIdent
	KindIVar
	KindName

	// Compound literals
	KindArray
	KindMap
	KindPair
	KindValues
	KindFun
	KindParam
	KindClass
	KindMember
	KindIVarDecl

	// Unary
	KindPos
	KindNeg
	KindCom
	KindNot
	KindOnce
	KindYield

	// Binary
	KindAdd
	KindSub
	KindCat
	KindMul
	KindDiv
	KindMod
	KindAnd
	KindOr
	KindXor
	KindShl
	KindShr
	KindUShr
	KindEq
	KindNe
	KindRawEq
	KindRawNe
	KindLt
	KindLe
	KindGt
	KindGe
	KindIs
	KindNotIs
	KindIn
	KindNotIn
	KindRange
	KindAndAnd
	KindOrOr

	// Postfix
	KindTernary
	KindCatch
	KindCall
	KindNamedArg
	KindSend
	KindProperty
	KindIndex

	// Assignment
	KindDefine
	KindAssign
	KindMultiDefine
	KindMultiAssign
	KindAddAssign
	KindSubAssign
	KindCatAssign
	KindMulAssign
	KindDivAssign
	KindModAssign
	KindAndAssign
	KindOrAssign
	KindXorAssign
	KindShlAssign
	KindShrAssign
	KindUShrAssign
	KindInc
	KindDec

	// Statements
	KindIf
	KindFor
	KindSwitch
	KindCase
	KindTry
	KindThrow
	KindAssert
	KindReturn
	KindBreak
	KindContinue
)

var nodeKindNames = map[NodeKind]string{
	KindError:       "Error",
	KindToplevel:    "Toplevel",
	KindScope:       "Scope",
	KindList:        "List",
	KindNull:        "Null",
	KindUndefined:   "Undefined",
	KindTrue:        "True",
	KindFalse:       "False",
	KindCallee:      "Callee",
	KindThis:        "This",
	KindNumber:      "Number",
	KindFloat:       "Float",
	KindString:      "String",
	KindIdent:       "Ident",
	KindIVar:        "IVar",
	KindName:        "Name",
	KindArray:       "Array",
	KindMap:         "Map",
	KindPair:        "Pair",
	KindValues:      "Values",
	KindFun:         "Fun",
	KindParam:       "Param",
	KindClass:       "Class",
	KindMember:      "Member",
	KindIVarDecl:    "IVarDecl",
	KindPos:         "Pos",
	KindNeg:         "Neg",
	KindCom:         "Com",
	KindNot:         "Not",
	KindOnce:        "Once",
	KindYield:       "Yield",
	KindAdd:         "Add",
	KindSub:         "Sub",
	KindCat:         "Cat",
	KindMul:         "Mul",
	KindDiv:         "Div",
	KindMod:         "Mod",
	KindAnd:         "And",
	KindOr:          "Or",
	KindXor:         "Xor",
	KindShl:         "Shl",
	KindShr:         "Shr",
	KindUShr:        "UShr",
	KindEq:          "Eq",
	KindNe:          "Ne",
	KindRawEq:       "RawEq",
	KindRawNe:       "RawNe",
	KindLt:          "Lt",
	KindLe:          "Le",
	KindGt:          "Gt",
	KindGe:          "Ge",
	KindIs:          "Is",
	KindNotIs:       "NotIs",
	KindIn:          "In",
	KindNotIn:       "NotIn",
	KindRange:       "Range",
	KindAndAnd:      "AndAnd",
	KindOrOr:        "OrOr",
	KindTernary:     "Ternary",
	KindCatch:       "Catch",
	KindCall:        "Call",
	KindNamedArg:    "NamedArg",
	KindSend:        "Send",
	KindProperty:    "Property",
	KindIndex:       "Index",
	KindDefine:      "Define",
	KindAssign:      "Assign",
	KindMultiDefine: "MultiDefine",
	KindMultiAssign: "MultiAssign",
	KindAddAssign:   "AddAssign",
	KindSubAssign:   "SubAssign",
	KindCatAssign:   "CatAssign",
	KindMulAssign:   "MulAssign",
	KindDivAssign:   "DivAssign",
	KindModAssign:   "ModAssign",
	KindAndAssign:   "AndAssign",
	KindOrAssign:    "OrAssign",
	KindXorAssign:   "XorAssign",
	KindShlAssign:   "ShlAssign",
	KindShrAssign:   "ShrAssign",
	KindUShrAssign:  "UShrAssign",
	KindInc:         "Inc",
	KindDec:         "Dec",
	KindIf:          "If",
	KindFor:         "For",
	KindSwitch:      "Switch",
	KindCase:        "Case",
	KindTry:         "Try",
	KindThrow:       "Throw",
	KindAssert:      "Assert",
	KindReturn:      "Return",
	KindBreak:       "Break",
	KindContinue:    "Continue",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// variadic marks kinds whose child count is not fixed.
const variadic = -1

// kindArity is the number of child slots of each kind. Optional slots hold
// nil. Kinds missing from the table are leaves.
var kindArity = map[NodeKind]int{
	KindToplevel: variadic,
	KindScope:    variadic,
	KindList:     variadic,
	KindArray:    variadic,
	KindMap:      variadic,
	KindValues:   variadic,

	KindPair:     2, // key, value
	KindFun:      2, // params, body
	KindParam:    1, // default
	KindClass:    3, // bases, ivars, members
	KindMember:   2, // secondary key, value
	KindIVarDecl: 1, // initializer

	KindPos:   1,
	KindNeg:   1,
	KindCom:   1,
	KindNot:   1,
	KindOnce:  1,
	KindYield: 1, // values

	KindTernary:  3, // cond, then, else
	KindCatch:    3, // expr, var, fallback
	KindCall:     4, // target, positional, named, spread
	KindNamedArg: 1,
	KindSend:     3, // target, name, secondary key
	KindProperty: 3, // target, name, secondary key
	KindIndex:    2,

	KindDefine:      2,
	KindAssign:      2,
	KindMultiDefine: 2, // targets, values
	KindMultiAssign: 2,
	KindInc:         1,
	KindDec:         1,

	KindIf:       3, // cond, then, else
	KindFor:      7, // init, cond, step, body, else, nobreak, label
	KindSwitch:   3, // subject, cases, default
	KindCase:     2, // values, body
	KindTry:      4, // body, catch var, catch body, finally
	KindThrow:    1,
	KindAssert:   2, // cond, message
	KindReturn:   1, // values
	KindBreak:    0,
	KindContinue: 0,
}

func init() {
	for k := KindAdd; k <= KindOrOr; k++ {
		kindArity[k] = 2
	}
	for k := KindAddAssign; k <= KindUShrAssign; k++ {
		kindArity[k] = 2
	}
}

// Arity returns the fixed child count of a kind, or -1 for list kinds.
func (k NodeKind) Arity() int {
	return kindArity[k]
}

// Flag values carried by Fun, Class, Member, Send/Property and Range nodes.
const (
	FunPlain = iota
	FunMethod
	FunFiber
	FunLambda
)

const (
	ClassPlain = iota
	ClassSingleton
)

const (
	AccessPublic = iota
	AccessProtected
	AccessPrivate
)

const (
	RangeClosed    = iota // ..
	RangeRightOpen        // ..<
	RangeLeftOpen         // <..
	RangeOpen             // <..<
)

// FlagSafe marks .? and ::? accesses.
const FlagSafe = 1

// FlagExtendable marks a function taking extra arguments through "...".
const FlagExtendable = 1 << 8

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Name     string
	Flags    int
	Error    *Error
}

// NewNode builds a node and enforces the arity of its kind.
func NewNode(kind NodeKind, span Span, children ...*Node) *Node {
	if want := kind.Arity(); want != variadic && want != len(children) {
		panic("parser: " + kind.String() + " takes " + strconv.Itoa(want) + " children, got " + strconv.Itoa(len(children)))
	}
	return &Node{Kind: kind, Span: span, Children: children}
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// Child returns the i-th child slot, or nil when it is empty or out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Walk visits n and its descendants depth-first, skipping empty slots.
// Returning false from fn prunes the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Equal reports whether two trees have the same shape and payloads,
// ignoring source positions.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Name != b.Name || a.Flags != b.Flags || len(a.Children) != len(b.Children) {
		return false
	}
	if a.Value() != b.Value() {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Value renders the literal payload of a leaf.
func (n *Node) Value() string {
	switch n.Kind {
	case KindNumber:
		if n.Token != nil {
			return strconv.FormatInt(n.Token.Int, 10)
		}
	case KindFloat:
		if n.Token != nil {
			return strconv.FormatFloat(n.Token.Float, 'g', -1, 64)
		}
	case KindString:
		if n.Token != nil {
			return strconv.Quote(n.Token.Text)
		}
		return strconv.Quote(n.Name)
	case KindIdent, KindIVar, KindName, KindBreak, KindContinue:
		return n.Name
	}
	return ""
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := strings.Repeat("  ", indent)
	if n == nil {
		return prefix + "-\n"
	}

	result := prefix + n.Kind.String()
	if showPositions {
		result += " [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]"
	}
	if v := n.Value(); v != "" {
		result += " " + v
	} else if n.Name != "" {
		result += " " + n.Name
	}
	if n.Error != nil {
		result += " ERROR: " + n.Error.Message
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}

// Compact renders the tree on one line, e.g. Add(Number(1), Ident(x)).
// Empty slots print as "_".
func (n *Node) Compact() string {
	var b strings.Builder
	n.compact(&b)
	return b.String()
}

func (n *Node) compact(b *strings.Builder) {
	if n == nil {
		b.WriteString("_")
		return
	}
	b.WriteString(n.Kind.String())
	v := n.Value()
	if v == "" && n.Name != "" {
		v = n.Name
	}
	if v == "" && len(n.Children) == 0 && n.Kind.Arity() != variadic {
		return
	}
	b.WriteByte('(')
	sep := ""
	if v != "" {
		b.WriteString(v)
		sep = ", "
	}
	for _, child := range n.Children {
		b.WriteString(sep)
		child.compact(b)
		sep = ", "
	}
	b.WriteByte(')')
}
