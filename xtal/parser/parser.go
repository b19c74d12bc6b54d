package parser

import "strings"

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithErrorLimit sets how many diagnostics are collected before parsing
// stops. The default of 1 stops at the first error; n < 1 never stops early.
func WithErrorLimit(n int) Option {
	return func(p *Parser) {
		p.errorLimit = n
	}
}

type Parser struct {
	file       string
	startLine  int
	errorLimit int

	src  *Source
	tok  *Tokenizer
	last Token

	// labels of the enclosing loops, innermost last; "" for unlabeled ones
	loops []string
}

// checkpoint is a saved parser position for speculative parsing.
type checkpoint struct {
	offset int
	last   Token
}

func New(input []byte, opts ...Option) *Parser {
	p := &Parser{
		startLine:  1,
		errorLimit: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset(input)
	return p
}

// Reset discards all state and prepares the parser for new input.
func (p *Parser) Reset(input []byte) {
	p.src = NewSource(input, p.file)
	p.src.SetStartLine(p.startLine)
	p.src.SetErrorLimit(p.errorLimit)
	p.tok = NewTokenizer(p.src)
	p.last = Token{}
	p.loops = nil
}

// ParseFile parses a whole compilation unit into a Toplevel node.
func ParseFile(input []byte, opts ...Option) (*Node, error) {
	return New(input, opts...).ParseFile()
}

// ParseStatement parses the first statement of input into a Toplevel node
// holding at most one statement.
func ParseStatement(input []byte, opts ...Option) (*Node, error) {
	return New(input, opts...).ParseStatement()
}

// ParseExpr parses input as a single expression.
func ParseExpr(input []byte, opts ...Option) (*Node, error) {
	return New(input, opts...).ParseExpr()
}

// Tokenize returns every token of input up to and including EOF.
func Tokenize(input []byte, opts ...Option) ([]Token, error) {
	p := New(input, opts...)
	var tokens []Token
	_, err := p.run(func() *Node {
		for {
			tok := p.tok.Read()
			tokens = append(tokens, tok)
			if tok.Kind == TokenEOF {
				return nil
			}
		}
	})
	return tokens, err
}

func (p *Parser) ParseFile() (*Node, error) {
	return p.run(func() *Node {
		start := p.peek().Span.Start
		stmts := p.parseStmtList(TokenEOF)
		return NewNode(KindToplevel, p.span(start), stmts...)
	})
}

// ParseStatement parses the next statement. Successive calls walk through
// the input one statement at a time; at end of input the result has no
// children.
func (p *Parser) ParseStatement() (*Node, error) {
	return p.run(func() *Node {
		for p.eat(TokenSemicolon) {
		}
		start := p.peek().Span.Start
		unit := NewNode(KindToplevel, Span{Start: start, End: start})
		if p.check(TokenEOF) {
			return unit
		}
		unit.AddChild(p.parseStmt())
		unit.Span = p.span(start)
		return unit
	})
}

func (p *Parser) ParseExpr() (*Node, error) {
	return p.run(func() *Node {
		expr := p.parseExpr()
		p.expect(TokenEOF)
		return expr
	})
}

// Errors returns the diagnostics reported so far.
func (p *Parser) Errors() ErrorList {
	return p.src.Errors()
}

func (p *Parser) run(entry func() *Node) (node *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			node = nil
		}
		if errs := p.src.Errors(); len(errs) > 0 {
			err = errs
		}
	}()
	return entry(), nil
}

func (p *Parser) peek() Token {
	return p.tok.Peek(0)
}

func (p *Parser) peekN(n int) Token {
	return p.tok.Peek(n)
}

func (p *Parser) advance() Token {
	tok := p.tok.Read()
	p.last = tok
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) eat(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) bool {
	if p.eat(kind) {
		return true
	}
	p.errorExpected(kind.String())
	return false
}

func (p *Parser) mark() checkpoint {
	return checkpoint{offset: p.tok.Offset(), last: p.last}
}

func (p *Parser) reset(cp checkpoint) {
	p.tok.Rewind(cp.offset)
	p.last = cp.last
}

func (p *Parser) span(start Position) Span {
	end := p.last.Span.End
	if end.Offset < start.Offset {
		end = start
	}
	return Span{Start: start, End: end}
}

func (p *Parser) errorAt(tok Token, code Code, args Args) {
	p.src.Error(tok.Span.Start, code, args)
}

func (p *Parser) errorExpected(required string) {
	tok := p.peek()
	p.errorAt(tok, CodeExpected, Args{"required": required, "char": tok.Describe()})
}

// placeholder stands in for a construct that failed to parse, so the tree
// stays complete when parsing continues past an error.
func (p *Parser) placeholder(tok Token) *Node {
	n := &Node{Kind: KindError, Span: tok.Span}
	if errs := p.src.Errors(); len(errs) > 0 {
		n.Error = errs[len(errs)-1]
	}
	return n
}

func (p *Parser) leaf(kind NodeKind, tok Token) *Node {
	n := NewNode(kind, tok.Span)
	n.Token = &tok
	return n
}

func (p *Parser) ident(tok Token) *Node {
	if strings.HasPrefix(tok.Text, "_") && len(tok.Text) > 1 {
		n := p.leaf(KindIVar, tok)
		n.Name = tok.Text[1:]
		return n
	}
	n := p.leaf(KindIdent, tok)
	n.Name = tok.Text
	return n
}

func (p *Parser) name(tok Token) *Node {
	n := p.leaf(KindName, tok)
	n.Name = tok.Literal
	return n
}

func (p *Parser) list(start Position, items ...*Node) *Node {
	return NewNode(KindList, p.span(start), items...)
}

// cmpPri applies comparePriority to the operator tok and reports spacing
// that contradicts the priorities.
func (p *Parser) cmpPri(pri, op, space Priority, tok Token) bool {
	binds, consistent := comparePriority(pri, op, space, spacing(tok.LeftSpace))
	if !consistent {
		p.errorAt(tok, CodePriority, Args{"char": tok.Literal})
	}
	return binds
}

func (p *Parser) parseExpr() *Node {
	return p.parseExprPri(PriLowest, PriMax)
}

// parseExprPri parses an operand at band pri; space is the spacing to the
// right of the operator that introduced it.
func (p *Parser) parseExprPri(pri, space Priority) *Node {
	left := p.parseTerm()
	if left == nil {
		tok := p.peek()
		p.errorAt(tok, CodeExpectedExpr, Args{"char": tok.Describe()})
		return p.placeholder(tok)
	}
	return p.parsePost(left, pri, space)
}

// parseValues parses the optional comma separated operands of return and
// yield. The list is empty when the statement ends right away.
func (p *Parser) parseValues() *Node {
	start := p.peek().Span.Start
	if p.atStmtEnd() || p.check(TokenRParen) {
		return NewNode(KindList, Span{Start: start, End: start})
	}
	items := []*Node{p.parseExpr()}
	for p.eat(TokenComma) {
		items = append(items, p.parseExpr())
	}
	return p.list(start, items...)
}

func (p *Parser) parsePost(left *Node, pri, space Priority) *Node {
	for {
		next := p.parsePostStep(left, pri, space)
		if next == nil {
			return left
		}
		left = next
	}
}

// parsePostStep extends left by one infix or postfix operator, or returns
// nil when the next token does not continue the expression at band pri.
func (p *Parser) parsePostStep(left *Node, pri, space Priority) *Node {
	tok := p.peek()
	start := left.Span.Start
	rSpace := spacing(tok.RightSpace)

	if op, ok := binaryOps[tok.Kind]; ok {
		_, prefix := prefixOps[tok.Kind]
		if prefix && tok.Newline {
			// a line starting with + - ~ begins a new statement
			return nil
		}
		if !p.cmpPri(pri, op.pri, space, tok) {
			return nil
		}
		if prefix && tok.LeftSpace && !tok.RightSpace {
			// "a -1" reads as a prefix minus applied to 1
			p.errorAt(tok, CodePriority, Args{"char": tok.Literal})
		}
		p.advance()
		right := p.parseExprPri(op.pri, rSpace)
		n := NewNode(op.kind, p.span(start), left, right)
		n.Flags = op.flags
		return n
	}

	switch tok.Kind {
	case TokenQuestion:
		if !p.cmpPri(pri, PriTernary, space, tok) {
			return nil
		}
		p.advance()
		then := p.parseExpr()
		colon := p.peek()
		p.expect(TokenColon)
		els := p.parseExprPri(PriLowest, spacing(colon.RightSpace))
		return NewNode(KindTernary, p.span(start), left, then, els)

	case TokenCatch:
		if !p.cmpPri(pri, PriTernary, space, tok) {
			return nil
		}
		p.advance()
		p.expect(TokenLParen)
		var param *Node
		if p.check(TokenIdent) {
			param = p.ident(p.advance())
		} else {
			p.errorExpected("identifier")
		}
		rparen := p.peek()
		p.expect(TokenRParen)
		fallback := p.parseExprPri(PriTernary, spacing(rparen.RightSpace))
		return NewNode(KindCatch, p.span(start), left, param, fallback)

	case TokenLParen, TokenLBracket:
		if tok.Newline {
			// a line starting with ( or [ begins a new statement
			return nil
		}
		if !p.cmpPri(pri, PriCall, space, tok) {
			return nil
		}
		if tok.Kind == TokenLParen {
			return p.parseCall(left)
		}
		p.advance()
		index := p.parseExpr()
		p.expect(TokenRBracket)
		return NewNode(KindIndex, p.span(start), left, index)

	case TokenDot, TokenDotQ, TokenColonColon, TokenColonColonQ:
		if !p.cmpPri(pri, PriMember, space, tok) {
			return nil
		}
		p.advance()
		return p.parseMember(left, tok)
	}
	return nil
}

// parseMember parses the right side of . .? :: ::? once the operator has
// been consumed.
func (p *Parser) parseMember(left *Node, op Token) *Node {
	start := left.Span.Start
	var name *Node
	switch tok := p.peek(); {
	case tok.Kind == TokenIdent || tok.Kind.IsKeyword():
		name = p.name(p.advance())
	case tok.Kind == TokenLParen:
		p.advance()
		name = p.parseExpr()
		p.expect(TokenRParen)
	default:
		p.errorExpected("identifier")
		name = p.placeholder(tok)
	}

	var secondary *Node
	if hash := p.peek(); hash.Kind == TokenHash && !hash.LeftSpace {
		p.advance()
		secondary = p.parseExprPri(PriMember, spacing(hash.RightSpace))
	}

	kind := KindSend
	if op.Kind == TokenColonColon || op.Kind == TokenColonColonQ {
		kind = KindProperty
	}
	n := NewNode(kind, p.span(start), left, name, secondary)
	if op.Kind == TokenDotQ || op.Kind == TokenColonColonQ {
		n.Flags = FlagSafe
	}
	return n
}

// parseCall parses an argument list: positional arguments, then name: value
// arguments, then at most one trailing ...spread.
func (p *Parser) parseCall(target *Node) *Node {
	start := target.Span.Start
	argsStart := p.peek().Span.Start
	p.expect(TokenLParen)

	var ordered, named []*Node
	var spread *Node
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		if p.eat(TokenEllipsis) {
			spread = p.parseExpr()
			break
		}
		if p.check(TokenIdent) && p.peekN(1).Kind == TokenColon {
			nameTok := p.advance()
			p.advance()
			arg := NewNode(KindNamedArg, Span{}, p.parseExpr())
			arg.Name = nameTok.Text
			arg.Span = p.span(nameTok.Span.Start)
			named = append(named, arg)
		} else {
			if len(named) > 0 {
				p.errorAt(p.peek(), CodeNamedArgOrder, nil)
			}
			ordered = append(ordered, p.parseExpr())
		}
		if !p.eat(TokenComma) {
			break
		}
	}
	p.expect(TokenRParen)

	return NewNode(KindCall, p.span(start),
		target,
		NewNode(KindList, Span{Start: argsStart, End: p.last.Span.End}, ordered...),
		NewNode(KindList, Span{Start: argsStart, End: p.last.Span.End}, named...),
		spread)
}

// parseTerm parses a primary expression, a prefix operator application or a
// compound literal. It returns nil without consuming anything when no term
// starts at the current token.
func (p *Parser) parseTerm() *Node {
	tok := p.peek()
	start := tok.Span.Start

	switch tok.Kind {
	case TokenInt:
		return p.leaf(KindNumber, p.advance())
	case TokenFloat:
		return p.leaf(KindFloat, p.advance())
	case TokenString:
		n := p.leaf(KindString, p.advance())
		n.Flags = int(tok.Tag)
		return n
	case TokenIdent:
		return p.ident(p.advance())
	case TokenNull:
		return p.leaf(KindNull, p.advance())
	case TokenUndefined:
		return p.leaf(KindUndefined, p.advance())
	case TokenTrue:
		return p.leaf(KindTrue, p.advance())
	case TokenFalse:
		return p.leaf(KindFalse, p.advance())
	case TokenThis:
		return p.leaf(KindThis, p.advance())
	case TokenCallee:
		return p.leaf(KindCallee, p.advance())

	case TokenLParen:
		return p.parseParen()
	case TokenLBracket:
		return p.parseArrayOrMap()
	case TokenBitOr, TokenOrOr:
		return p.parseLambda()

	case TokenPlus, TokenMinus, TokenTilde, TokenNot:
		p.advance()
		operand := p.parseExprPri(PriUnary, spacing(tok.RightSpace))
		return NewNode(prefixOps[tok.Kind], p.span(start), operand)

	case TokenOnce:
		p.advance()
		operand := p.parseExprPri(PriUnary, spacing(tok.RightSpace))
		return NewNode(KindOnce, p.span(start), operand)

	case TokenYield:
		p.advance()
		return NewNode(KindYield, p.span(start), p.parseValues())

	case TokenDofun:
		p.advance()
		body := p.parseFunBody()
		fun := NewNode(KindFun, p.span(start), p.list(start), body)
		empty := p.list(p.last.Span.End)
		return NewNode(KindCall, p.span(start), fun, empty, p.list(p.last.Span.End), nil)

	case TokenFun, TokenMethod, TokenFiber:
		p.advance()
		name := ""
		if p.check(TokenIdent) {
			name = p.advance().Text
		}
		return p.parseFunRest(start, funKind(tok.Kind), name)

	case TokenClass, TokenSingleton:
		p.advance()
		name := ""
		if p.check(TokenIdent) {
			name = p.advance().Text
		}
		return p.parseClassRest(start, classKind(tok.Kind), name)
	}
	return nil
}

// parseParen parses (expr) as expr and (a, b) or () as a Values node.
func (p *Parser) parseParen() *Node {
	start := p.advance().Span.Start
	if p.eat(TokenRParen) {
		return NewNode(KindValues, p.span(start))
	}
	first := p.parseExpr()
	if !p.check(TokenComma) {
		p.expect(TokenRParen)
		return first
	}
	items := []*Node{first}
	for p.eat(TokenComma) {
		if p.check(TokenRParen) {
			break
		}
		items = append(items, p.parseExpr())
	}
	p.expect(TokenRParen)
	return NewNode(KindValues, p.span(start), items...)
}

// parseArrayOrMap parses [a, b], [k: v, ...], [] and [:].
func (p *Parser) parseArrayOrMap() *Node {
	start := p.advance().Span.Start
	if p.eat(TokenColon) {
		p.expect(TokenRBracket)
		return NewNode(KindMap, p.span(start))
	}
	if p.eat(TokenRBracket) {
		return NewNode(KindArray, p.span(start))
	}

	first := p.parseExpr()
	if !p.check(TokenColon) {
		items := []*Node{first}
		for p.eat(TokenComma) {
			if p.check(TokenRBracket) {
				break
			}
			items = append(items, p.parseExpr())
		}
		p.expect(TokenRBracket)
		return NewNode(KindArray, p.span(start), items...)
	}

	var pairs []*Node
	key := first
	for {
		p.expect(TokenColon)
		value := p.parseExpr()
		pairs = append(pairs, NewNode(KindPair, p.span(key.Span.Start), key, value))
		if !p.eat(TokenComma) || p.check(TokenRBracket) {
			break
		}
		key = p.parseExpr()
	}
	p.expect(TokenRBracket)
	return NewNode(KindMap, p.span(start), pairs...)
}

// parseLambda parses |a, b| body and ||body.
func (p *Parser) parseLambda() *Node {
	open := p.advance()
	start := open.Span.Start
	var params []*Node
	extendable := false
	if open.Kind == TokenBitOr {
		params, extendable = p.parseParamList(TokenBitOr)
		p.expect(TokenBitOr)
	}
	body := p.parseFunBody()
	fun := NewNode(KindFun, p.span(start), p.list(start, params...), body)
	fun.Flags = FunLambda
	if extendable {
		fun.Flags |= FlagExtendable
	}
	return fun
}
