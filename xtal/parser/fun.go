package parser

func funKind(kind TokenKind) int {
	switch kind {
	case TokenMethod:
		return FunMethod
	case TokenFiber:
		return FunFiber
	}
	return FunPlain
}

func classKind(kind TokenKind) int {
	if kind == TokenSingleton {
		return ClassSingleton
	}
	return ClassPlain
}

// parseFunRest parses the parameter list and body of fun, method and fiber
// once the keyword and optional name have been consumed.
func (p *Parser) parseFunRest(start Position, kind int, name string) *Node {
	paramsStart := p.peek().Span.Start
	var params []*Node
	extendable := false
	if p.eat(TokenLParen) {
		params, extendable = p.parseParamList(TokenRParen)
		p.expect(TokenRParen)
	}
	paramList := p.list(paramsStart, params...)
	body := p.parseFunBody()

	fun := NewNode(KindFun, p.span(start), paramList, body)
	fun.Name = name
	fun.Flags = kind
	if extendable {
		fun.Flags |= FlagExtendable
	}
	return fun
}

// parseParamList parses "a, b: default, ..." up to but not including close.
// Lambda parameters, closed by |, take no defaults.
func (p *Parser) parseParamList(close TokenKind) (params []*Node, extendable bool) {
	for !p.check(close) && !p.check(TokenEOF) {
		if p.eat(TokenEllipsis) {
			extendable = true
			break
		}
		tok := p.peek()
		if tok.Kind != TokenIdent {
			p.errorAt(tok, CodeInvalidParam, nil)
			return params, extendable
		}
		p.advance()

		var def *Node
		if p.check(TokenColon) {
			if close == TokenBitOr {
				p.errorAt(p.peek(), CodeInvalidParam, nil)
				return params, extendable
			}
			p.advance()
			def = p.parseExpr()
		}
		param := NewNode(KindParam, p.span(tok.Span.Start), def)
		param.Name = tok.Text
		param.Token = &tok
		params = append(params, param)

		if !p.eat(TokenComma) {
			break
		}
	}
	return params, extendable
}

// parseFunBody parses a block, or a single expression that becomes the
// function's return value. Loop labels do not reach into the body.
func (p *Parser) parseFunBody() *Node {
	saved := p.loops
	p.loops = nil
	defer func() { p.loops = saved }()

	if p.check(TokenLBrace) {
		return p.parseScope()
	}
	start := p.peek().Span.Start
	value := p.parseExpr()
	values := p.list(start, value)
	return NewNode(KindReturn, p.span(start), values)
}

// parseClassRest parses "[(bases)] { members }" after class or singleton and
// the optional name.
func (p *Parser) parseClassRest(start Position, kind int, name string) *Node {
	basesStart := p.peek().Span.Start
	var bases []*Node
	if p.eat(TokenLParen) {
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			bases = append(bases, p.parseExpr())
			if !p.eat(TokenComma) {
				break
			}
		}
		p.expect(TokenRParen)
	}
	baseList := p.list(basesStart, bases...)

	bodyStart := p.peek().Span.Start
	p.expect(TokenLBrace)
	var ivars, members []*Node
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		if p.eat(TokenSemicolon) {
			continue
		}
		before := p.tok.Offset()
		m := p.parseClassMember()
		switch {
		case m == nil:
		case m.Kind == KindIVarDecl:
			ivars = append(ivars, m)
		default:
			members = append(members, m)
		}
		if p.tok.Offset() == before {
			p.advance()
		}
	}
	p.expect(TokenRBrace)

	class := NewNode(KindClass, p.span(start),
		baseList,
		p.list(bodyStart, ivars...),
		p.list(bodyStart, members...))
	class.Name = name
	class.Flags = kind
	return class
}

// parseClassMember parses one class member with its optional accessibility
// marker: a nested definition, "name [#key] (: expr | (params) body)", or
// an instance variable "_name [: expr]".
func (p *Parser) parseClassMember() *Node {
	start := p.peek().Span.Start
	access := AccessPublic
	switch p.peek().Kind {
	case TokenHash, TokenProtected:
		access = AccessProtected
		p.advance()
	case TokenMinus, TokenPrivate:
		access = AccessPrivate
		p.advance()
	case TokenPlus, TokenPublic:
		p.advance()
	}

	tok := p.peek()
	switch tok.Kind {
	case TokenFun, TokenMethod, TokenFiber, TokenClass, TokenSingleton:
		nameTok := p.peekN(1)
		if nameTok.Kind != TokenIdent {
			break
		}
		p.advance()
		p.advance()
		var value *Node
		if tok.Kind == TokenClass || tok.Kind == TokenSingleton {
			value = p.parseClassRest(tok.Span.Start, classKind(tok.Kind), nameTok.Text)
		} else {
			value = p.parseFunRest(tok.Span.Start, funKind(tok.Kind), nameTok.Text)
		}
		m := NewNode(KindMember, p.span(start), nil, value)
		m.Name = nameTok.Text
		m.Flags = access
		return m

	case TokenIdent:
		p.advance()
		if len(tok.Text) > 1 && tok.Text[0] == '_' {
			var init *Node
			if p.eat(TokenColon) {
				init = p.parseExpr()
			}
			decl := NewNode(KindIVarDecl, p.span(start), init)
			decl.Name = tok.Text[1:]
			decl.Flags = access
			p.expectStmtEnd()
			return decl
		}

		var secondary *Node
		if hash := p.peek(); hash.Kind == TokenHash && !hash.LeftSpace {
			p.advance()
			secondary = p.parseExprPri(PriMember, spacing(hash.RightSpace))
		}

		var value *Node
		switch {
		case p.eat(TokenColon):
			value = p.parseExpr()
			p.expectStmtEnd()
		case p.check(TokenLParen):
			value = p.parseFunRest(tok.Span.Start, FunMethod, tok.Text)
		default:
			p.errorExpected(":")
			value = p.placeholder(p.peek())
		}
		m := NewNode(KindMember, p.span(start), secondary, value)
		m.Name = tok.Text
		m.Flags = access
		return m
	}

	p.errorAt(tok, CodeClassMember, Args{"char": tok.Describe()})
	return nil
}
