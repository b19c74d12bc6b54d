package parser

// Names used by the for-each rewrite. The hidden iterator name cannot be
// written as an identifier, so it never clashes with user variables.
const (
	iterVar        = "#iter"
	iterFirst      = "block_first"
	iterNext       = "block_next"
	iterBreak      = "block_break"
	defaultLoopVar = "it"
)

// parseStmtList parses statements until end (or end of input) without
// consuming end.
func (p *Parser) parseStmtList(end TokenKind) []*Node {
	var stmts []*Node
	for !p.check(end) && !p.check(TokenEOF) {
		if p.eat(TokenSemicolon) {
			continue
		}
		before := p.tok.Offset()
		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.tok.Offset() == before {
			// only reachable when errors are collected instead of aborting
			p.advance()
		}
	}
	return stmts
}

// atStmtEnd reports whether the current statement may end before the next
// token: a terminator, a closing brace, a clause keyword of the enclosing
// statement, or a line break.
func (p *Parser) atStmtEnd() bool {
	tok := p.peek()
	switch tok.Kind {
	case TokenSemicolon, TokenRBrace, TokenEOF,
		TokenElse, TokenNobreak, TokenFinally, TokenCase, TokenDefault:
		return true
	}
	return tok.Newline
}

func (p *Parser) expectStmtEnd() {
	if p.eat(TokenSemicolon) || p.atStmtEnd() || p.last.Kind == TokenRBrace {
		return
	}
	p.errorExpected(";")
}

func (p *Parser) parseStmt() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenLBrace:
		return p.parseScope()
	case TokenSemicolon:
		p.advance()
		return nil
	case TokenFor:
		return p.parseFor(nil)
	case TokenWhile:
		return p.parseWhile(nil)
	case TokenIf:
		return p.parseIf()
	case TokenSwitch:
		return p.parseSwitch()
	case TokenTry:
		return p.parseTry()
	case TokenThrow:
		p.advance()
		n := NewNode(KindThrow, Span{}, p.parseExpr())
		n.Span = p.span(tok.Span.Start)
		p.expectStmtEnd()
		return n
	case TokenAssert:
		return p.parseAssert()
	case TokenReturn:
		p.advance()
		n := NewNode(KindReturn, Span{}, p.parseValues())
		n.Span = p.span(tok.Span.Start)
		p.expectStmtEnd()
		return n
	case TokenBreak, TokenContinue:
		return p.parseJump()
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeled()
		}
	}
	return p.parseAssignStmt()
}

// parseBody parses the body of a control statement: a block or a single
// statement.
func (p *Parser) parseBody() *Node {
	tok := p.peek()
	if tok.Kind == TokenLBrace {
		return p.parseScope()
	}
	stmt := p.parseStmt()
	if stmt == nil {
		return NewNode(KindScope, tok.Span)
	}
	return stmt
}

func (p *Parser) parseScope() *Node {
	start := p.peek().Span.Start
	p.expect(TokenLBrace)
	stmts := p.parseStmtList(TokenRBrace)
	p.expect(TokenRBrace)
	return NewNode(KindScope, p.span(start), stmts...)
}

// parseLabeled handles statements starting with "ident :". A loop keyword
// after the colon makes the identifier a loop label; otherwise the parser
// rewinds and reads the statement as a definition, which may still turn out
// to be a labeled for-each.
func (p *Parser) parseLabeled() *Node {
	cp := p.mark()
	labelTok := p.advance()
	p.advance()
	switch p.peek().Kind {
	case TokenFor:
		return p.parseFor(p.labelNode(labelTok))
	case TokenWhile:
		return p.parseWhile(p.labelNode(labelTok))
	}
	p.reset(cp)
	return p.parseAssignStmt()
}

func (p *Parser) labelNode(tok Token) *Node {
	return p.name(tok)
}

func (p *Parser) parseAssignStmt() *Node {
	n := p.parseSimpleStmt(true)
	p.expectStmtEnd()
	return n
}

// parseSimpleStmt parses an expression statement, a definition or an
// assignment form. It is also used for the init and step clauses of for.
func (p *Parser) parseSimpleStmt(allowEach bool) *Node {
	tok := p.peek()
	start := tok.Span.Start

	switch tok.Kind {
	case TokenIncrement, TokenDecrement:
		p.advance()
		target := p.parseExprPri(PriUnary, spacing(tok.RightSpace))
		p.checkTarget(target)
		kind := KindInc
		if tok.Kind == TokenDecrement {
			kind = KindDec
		}
		return NewNode(kind, p.span(start), target)

	case TokenFun, TokenMethod, TokenFiber, TokenClass, TokenSingleton:
		if nameTok := p.peekN(1); nameTok.Kind == TokenIdent {
			p.advance()
			p.advance()
			var value *Node
			if tok.Kind == TokenClass || tok.Kind == TokenSingleton {
				value = p.parseClassRest(start, classKind(tok.Kind), nameTok.Text)
			} else {
				value = p.parseFunRest(start, funKind(tok.Kind), nameTok.Text)
			}
			return NewNode(KindDefine, p.span(start), p.ident(nameTok), value)
		}
	}

	expr := p.parseExpr()
	next := p.peek()

	switch next.Kind {
	case TokenComma:
		return p.parseMultiAssign(expr)

	case TokenAssign:
		p.advance()
		p.checkTarget(expr)
		return NewNode(KindAssign, p.span(start), expr, p.parseExpr())

	case TokenColon:
		p.advance()
		p.checkDefineTarget(expr)
		value := p.parseExpr()
		if allowEach && expr.Kind == KindIdent && p.check(TokenLBrace) && !p.peek().Newline {
			label := &Node{Kind: KindName, Span: expr.Span, Token: expr.Token, Name: expr.Name}
			return p.parseForEach(start, value, label)
		}
		return NewNode(KindDefine, p.span(start), expr, value)

	case TokenIncrement, TokenDecrement:
		p.advance()
		p.checkTarget(expr)
		kind := KindInc
		if next.Kind == TokenDecrement {
			kind = KindDec
		}
		return NewNode(kind, p.span(start), expr)

	case TokenLBrace:
		if allowEach && !next.Newline {
			return p.parseForEach(start, expr, nil)
		}
	}

	if kind, ok := compoundAssignOps[next.Kind]; ok {
		p.advance()
		p.checkTarget(expr)
		return NewNode(kind, p.span(start), expr, p.parseExpr())
	}
	return expr
}

// parseMultiAssign parses "a, b = x, y" and "a, b: x, y" after the first
// target.
func (p *Parser) parseMultiAssign(first *Node) *Node {
	start := first.Span.Start
	targets := []*Node{first}
	for p.eat(TokenComma) {
		targets = append(targets, p.parseExpr())
	}
	targetList := p.list(start, targets...)

	kind := KindMultiAssign
	switch {
	case p.eat(TokenAssign):
		for _, t := range targets {
			p.checkTarget(t)
		}
	case p.eat(TokenColon):
		kind = KindMultiDefine
		for _, t := range targets {
			p.checkDefineTarget(t)
		}
	default:
		p.errorAt(p.peek(), CodeMultipleAssign, nil)
		return targetList
	}

	valuesStart := p.peek().Span.Start
	values := []*Node{p.parseExpr()}
	for p.eat(TokenComma) {
		values = append(values, p.parseExpr())
	}
	return NewNode(kind, p.span(start), targetList, p.list(valuesStart, values...))
}

func (p *Parser) checkTarget(n *Node) {
	switch n.Kind {
	case KindIdent, KindIVar, KindSend, KindProperty, KindIndex, KindError:
		return
	}
	p.src.Error(n.Span.Start, CodeAssignTarget, nil)
}

func (p *Parser) checkDefineTarget(n *Node) {
	switch n.Kind {
	case KindIdent, KindIVar, KindSend, KindProperty, KindError:
		return
	}
	p.src.Error(n.Span.Start, CodeAssignTarget, nil)
}

// loop runs body with label pushed on the loop stack.
func (p *Parser) loop(label *Node, body func() *Node) *Node {
	name := ""
	if label != nil {
		name = label.Name
	}
	p.loops = append(p.loops, name)
	defer func() { p.loops = p.loops[:len(p.loops)-1] }()
	return body()
}

// parseLoopTail parses the optional else and nobreak clauses of a loop.
func (p *Parser) parseLoopTail() (els, nobreak *Node) {
	if p.eat(TokenElse) {
		els = p.parseBody()
	}
	if p.eat(TokenNobreak) {
		nobreak = p.parseBody()
	}
	return els, nobreak
}

func (p *Parser) parseFor(label *Node) *Node {
	start := p.peek().Span.Start
	if label != nil {
		start = label.Span.Start
	}
	p.expect(TokenFor)
	p.expect(TokenLParen)

	var init, cond, step *Node
	if !p.check(TokenSemicolon) {
		init = p.parseSimpleStmt(false)
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		cond = p.parseExpr()
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenRParen) {
		step = p.parseSimpleStmt(false)
	}
	p.expect(TokenRParen)

	body := p.loop(label, p.parseBody)
	els, nobreak := p.parseLoopTail()
	return NewNode(KindFor, p.span(start), init, cond, step, body, els, nobreak, label)
}

// parseWhile builds a For node with empty init and step clauses.
func (p *Parser) parseWhile(label *Node) *Node {
	start := p.peek().Span.Start
	if label != nil {
		start = label.Span.Start
	}
	p.expect(TokenWhile)
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)

	body := p.loop(label, p.parseBody)
	els, nobreak := p.parseLoopTail()
	return NewNode(KindFor, p.span(start), nil, cond, nil, body, els, nobreak, label)
}

// parseForEach parses the block of "iterable { |a, b| body }" and rewrites
// the loop onto the iterator protocol:
//
//	{
//	    #iter, a, b: iterable.block_first()
//	    try {
//	        for (; #iter; #iter, a, b = #iter.block_next()) body
//	    } finally {
//	        if (#iter) #iter.?block_break()
//	    }
//	}
func (p *Parser) parseForEach(start Position, iterable, label *Node) *Node {
	blockStart := p.peek().Span.Start
	p.expect(TokenLBrace)

	var params []Token
	switch {
	case p.eat(TokenOrOr):
	case p.eat(TokenBitOr):
		for !p.check(TokenBitOr) && !p.check(TokenEOF) {
			if p.check(TokenIdent) {
				params = append(params, p.advance())
			} else {
				p.errorAt(p.peek(), CodeInvalidParam, nil)
				break
			}
			if !p.eat(TokenComma) {
				break
			}
		}
		p.expect(TokenBitOr)
	default:
		params = []Token{{Kind: TokenIdent, Literal: defaultLoopVar, Text: defaultLoopVar, Span: Span{Start: blockStart, End: blockStart}}}
	}

	body := p.loop(label, func() *Node {
		stmts := p.parseStmtList(TokenRBrace)
		p.expect(TokenRBrace)
		return NewNode(KindScope, p.span(blockStart), stmts...)
	})
	els, nobreak := p.parseLoopTail()
	sp := p.span(start)

	hidden := func() *Node {
		return &Node{Kind: KindIdent, Span: sp, Name: iterVar}
	}
	targets := func() *Node {
		items := []*Node{hidden()}
		for _, tok := range params {
			items = append(items, p.ident(tok))
		}
		return NewNode(KindList, sp, items...)
	}
	send := func(target *Node, method string, flags int) *Node {
		s := NewNode(KindSend, sp, target, &Node{Kind: KindName, Span: sp, Name: method}, nil)
		s.Flags = flags
		return NewNode(KindCall, sp, s, NewNode(KindList, sp), NewNode(KindList, sp), nil)
	}

	init := NewNode(KindMultiDefine, sp, targets(), NewNode(KindList, sp, send(iterable, iterFirst, 0)))
	step := NewNode(KindMultiAssign, sp, targets(), NewNode(KindList, sp, send(hidden(), iterNext, 0)))
	loop := NewNode(KindFor, sp, nil, hidden(), step, body, els, nobreak, label)
	cleanup := NewNode(KindIf, sp, hidden(), send(hidden(), iterBreak, FlagSafe), nil)
	guard := NewNode(KindTry, sp, loop, nil, nil, cleanup)
	return NewNode(KindScope, sp, init, guard)
}

func (p *Parser) parseIf() *Node {
	start := p.advance().Span.Start
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	then := p.parseBody()
	var els *Node
	if p.eat(TokenElse) {
		els = p.parseBody()
	}
	return NewNode(KindIf, p.span(start), cond, then, els)
}

// parseSwitch parses switch (x) { case (a, b) body ... default body }.
func (p *Parser) parseSwitch() *Node {
	start := p.advance().Span.Start
	p.expect(TokenLParen)
	subject := p.parseExpr()
	p.expect(TokenRParen)

	casesStart := p.peek().Span.Start
	p.expect(TokenLBrace)
	var cases []*Node
	var def *Node
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		tok := p.peek()
		switch tok.Kind {
		case TokenCase:
			p.advance()
			valuesStart := p.peek().Span.Start
			p.expect(TokenLParen)
			values := []*Node{p.parseExpr()}
			for p.eat(TokenComma) {
				values = append(values, p.parseExpr())
			}
			p.expect(TokenRParen)
			valueList := p.list(valuesStart, values...)
			cases = append(cases, NewNode(KindCase, Span{}, valueList, p.parseBody()))
			cases[len(cases)-1].Span = p.span(tok.Span.Start)
		case TokenDefault:
			p.advance()
			if def != nil {
				p.errorAt(tok, CodeDuplicateDefault, nil)
			}
			def = p.parseBody()
		case TokenSemicolon:
			p.advance()
		default:
			p.errorExpected("case")
			p.advance()
		}
	}
	p.expect(TokenRBrace)
	return NewNode(KindSwitch, p.span(start), subject, p.list(casesStart, cases...), def)
}

func (p *Parser) parseTry() *Node {
	start := p.advance().Span.Start
	body := p.parseBody()
	var catchVar, catchBody, finally *Node
	if p.eat(TokenCatch) {
		p.expect(TokenLParen)
		if p.check(TokenIdent) {
			catchVar = p.ident(p.advance())
		} else {
			p.errorExpected("identifier")
		}
		p.expect(TokenRParen)
		catchBody = p.parseBody()
	}
	if p.eat(TokenFinally) {
		finally = p.parseBody()
	}
	if catchBody == nil && finally == nil {
		p.errorExpected("catch")
	}
	return NewNode(KindTry, p.span(start), body, catchVar, catchBody, finally)
}

func (p *Parser) parseAssert() *Node {
	start := p.advance().Span.Start
	cond := p.parseExpr()
	var message *Node
	if p.eat(TokenComma) {
		message = p.parseExpr()
	}
	n := NewNode(KindAssert, p.span(start), cond, message)
	p.expectStmtEnd()
	return n
}

// parseJump parses break and continue with an optional label on the same
// line. Both must appear inside a loop of the current function, and a label
// must name one of the enclosing loops.
func (p *Parser) parseJump() *Node {
	tok := p.advance()
	kind := KindBreak
	if tok.Kind == TokenContinue {
		kind = KindContinue
	}
	n := NewNode(kind, tok.Span)
	if next := p.peek(); next.Kind == TokenIdent && !next.Newline {
		n.Name = p.advance().Text
		n.Span = p.span(tok.Span.Start)
	}
	if !p.inLoop(n.Name) {
		p.errorAt(tok, CodeBreakOutsideLoop, Args{"name": tok.Literal})
	}
	p.expectStmtEnd()
	return n
}

func (p *Parser) inLoop(label string) bool {
	if label == "" {
		return len(p.loops) > 0
	}
	for _, l := range p.loops {
		if l == label {
			return true
		}
	}
	return false
}
