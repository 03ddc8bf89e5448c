package parser

import (
	"strconv"

	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/pkg/token"
)

// parseExpression parses a full (possibly comma-separated) expression.
func (p *Parser) parseExpression() ast.Expression {
	first := p.parseAssignmentExpression()
	if !p.curIs(token.Comma) {
		return first
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{first}}
	for p.curIs(token.Comma) {
		p.next()
		seq.Expressions = append(seq.Expressions, p.parseAssignmentExpression())
	}
	return seq
}

// parseAssignmentExpression handles arrow-function lookahead, then
// right-associative assignment, then falls through to the conditional chain.
func (p *Parser) parseAssignmentExpression() ast.Expression {
	if p.curIs(token.Yield) && p.inGenerator {
		return p.parseYieldExpression()
	}
	if arrow := p.tryParseArrowFunction(); arrow != nil {
		return arrow
	}

	left := p.parseConditionalExpression()

	if assignOps[p.cur.Type] {
		op := p.cur.Literal
		tok := p.cur
		p.next()
		right := p.parseAssignmentExpression()
		return &ast.AssignmentExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: op, Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseYieldExpression() ast.Expression {
	tok := p.cur
	p.next()
	delegate := false
	if p.curIs(token.Star) {
		delegate = true
		p.next()
	}
	expr := &ast.YieldExpression{BaseNode: ast.BaseNode{Token: tok}, Delegate: delegate}
	if !p.curIs(token.Semicolon) && !p.curIs(token.RBrace) && !p.curIs(token.RParen) &&
		!p.curIs(token.RBracket) && !p.curIs(token.Comma) && !p.curIs(token.EOF) && !p.cur.NewlineBefore {
		expr.Argument = p.parseAssignmentExpression()
	}
	return expr
}

// tryParseArrowFunction implements the restricted lookahead from spec.md
// §4.2: a parenthesised parameter list followed by `=>`, or a single
// identifier followed by `=>`. Returns nil (consuming nothing observable by
// the caller) if the lookahead doesn't confirm an arrow function; Go can't
// backtrack a shared lexer cheaply, so this speculatively parses into a
// checkpoint and rewinds on mismatch.
func (p *Parser) tryParseArrowFunction() ast.Expression {
	isAsync := false
	if p.curIs(token.Async) && !p.peek.NewlineBefore && (p.peekIs(token.LParen) || p.peekIs(token.Ident)) {
		// Only consume `async` once we've confirmed an arrow follows below;
		// peek further using a checkpoint.
		isAsync = true
	}

	startTok := p.cur
	if p.curIs(token.Ident) && p.peekIs(token.Arrow) {
		param := p.parseIdentifier()
		p.expect(token.Arrow)
		return p.finishArrowBody([]*ast.Parameter{{Pattern: param}}, startTok, false)
	}

	if isAsync {
		checkpoint := p.snapshot()
		p.next() // consume `async`
		if fn := p.tryParseArrowAfterAsync(startTok); fn != nil {
			return fn
		}
		p.restore(checkpoint)
		return nil
	}

	if p.curIs(token.LParen) {
		checkpoint := p.snapshot()
		params, ok := p.tryParseParenParamList()
		if ok && p.curIs(token.Arrow) {
			p.next()
			return p.finishArrowBody(params, startTok, false)
		}
		p.restore(checkpoint)
	}
	return nil
}

func (p *Parser) tryParseArrowAfterAsync(startTok token.Token) ast.Expression {
	if p.curIs(token.Ident) && p.peekIs(token.Arrow) {
		param := p.parseIdentifier()
		p.expect(token.Arrow)
		return p.finishArrowBody([]*ast.Parameter{{Pattern: param}}, startTok, true)
	}
	if p.curIs(token.LParen) {
		params, ok := p.tryParseParenParamList()
		if ok && p.curIs(token.Arrow) {
			p.next()
			return p.finishArrowBody(params, startTok, true)
		}
	}
	return nil
}

// tryParseParenParamList speculatively parses `(params)` as an arrow
// parameter list. Since every binding target is also a valid expression
// grammar prefix, a straightforward parameter-list parse is used directly;
// the caller checks for a following `=>` and rewinds otherwise.
func (p *Parser) tryParseParenParamList() (params []*ast.Parameter, ok bool) {
	errCountBefore := len(p.errors)
	result := p.parseParameterList()
	if len(p.errors) > errCountBefore {
		p.errors = p.errors[:errCountBefore]
		return nil, false
	}
	return result, true
}

func (p *Parser) finishArrowBody(params []*ast.Parameter, startTok token.Token, isAsync bool) *ast.FunctionLiteral {
	fn := &ast.FunctionLiteral{BaseNode: ast.BaseNode{Token: startTok}, Params: params, IsArrow: true, IsAsync: isAsync}
	savedAsync := p.inAsync
	p.inAsync = isAsync
	if p.curIs(token.LBrace) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ExprBody = p.parseAssignmentExpression()
	}
	p.inAsync = savedAsync
	return fn
}

// parserSnapshot captures enough state to rewind a speculative parse.
type parserSnapshot struct {
	lexState any
	cur, peek token.Token
	errCount  int
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lexState: p.lex.Snapshot(), cur: p.cur, peek: p.peek, errCount: len(p.errors)}
}

func (p *Parser) restore(s parserSnapshot) {
	p.lex.Restore(s.lexState)
	p.cur, p.peek = s.cur, s.peek
	if len(p.errors) > s.errCount {
		p.errors = p.errors[:s.errCount]
	}
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	test := p.parseNullishExpression()
	if p.curIs(token.Question) {
		tok := p.cur
		p.next()
		cons := p.parseAssignmentExpression()
		p.expect(token.Colon)
		alt := p.parseAssignmentExpression()
		return &ast.ConditionalExpression{BaseNode: ast.BaseNode{Token: tok}, Test: test, Consequent: cons, Alternate: alt}
	}
	return test
}

// parseNullishExpression parses `??`, rejecting unparenthesised mixing with
// `||`/`&&` per spec.md §4.2.
func (p *Parser) parseNullishExpression() ast.Expression {
	left := p.parseLogicalOr()
	if p.curIs(token.Nullish) {
		tok := p.cur
		p.next()
		right := p.parseLogicalOr()
		if isLogicalExpr(left) || isLogicalExpr(right) {
			p.errorf(tok.Start, "cannot mix ?? with || or && without parentheses")
		}
		return &ast.LogicalExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: "??", Left: left, Right: right}
	}
	return left
}

func isLogicalExpr(e ast.Expression) bool {
	l, ok := e.(*ast.LogicalExpression)
	return ok && (l.Operator == "||" || l.Operator == "&&")
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.curIs(token.LogicalOr) {
		tok := p.cur
		p.next()
		right := p.parseLogicalAnd()
		left = &ast.LogicalExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseBinaryExpr(precBitOr)
	for p.curIs(token.LogicalAnd) {
		tok := p.cur
		p.next()
		right := p.parseBinaryExpr(precBitOr)
		left = &ast.LogicalExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: "&&", Left: left, Right: right}
	}
	return left
}

// parseBinaryExpr climbs precedence from minPrec up through exponentiation.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expression {
	left := p.parseUnaryExpression()
	for {
		prec, ok := binPrecedence[p.cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur.Literal
		tok := p.cur
		rightAssoc := p.cur.Type == token.StarStar
		p.next()
		var right ast.Expression
		if rightAssoc {
			right = p.parseBinaryExpr(prec)
		} else {
			right = p.parseBinaryExpr(prec + 1)
		}
		left = &ast.BinaryExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: op, Left: left, Right: right}
	}
}

var prefixUnaryOps = map[token.Type]string{
	token.Delete: "delete", token.Typeof: "typeof", token.Void: "void",
	token.LogicalNot: "!", token.BitNot: "~", token.Plus: "+", token.Minus: "-",
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	if p.curIs(token.Await) && p.inAsync {
		tok := p.cur
		p.next()
		return &ast.AwaitExpression{BaseNode: ast.BaseNode{Token: tok}, Argument: p.parseUnaryExpression()}
	}
	if op, ok := prefixUnaryOps[p.cur.Type]; ok {
		tok := p.cur
		p.next()
		arg := p.parseUnaryExpression()
		return &ast.UnaryExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: op, Argument: arg, Prefix: true}
	}
	if p.curIs(token.Increment) || p.curIs(token.Decrement) {
		tok := p.cur
		op := p.cur.Literal
		p.next()
		arg := p.parseUnaryExpression()
		return &ast.UpdateExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: op, Argument: arg, Prefix: true}
	}
	return p.parseUpdateExpression()
}

func (p *Parser) parseUpdateExpression() ast.Expression {
	expr := p.parseCallOrMemberExpression()
	if (p.curIs(token.Increment) || p.curIs(token.Decrement)) && !p.cur.NewlineBefore {
		tok := p.cur
		op := p.cur.Literal
		p.next()
		return &ast.UpdateExpression{BaseNode: ast.BaseNode{Token: tok}, Operator: op, Argument: expr, Prefix: false}
	}
	return expr
}

func (p *Parser) parseCallOrMemberExpression() ast.Expression {
	var expr ast.Expression
	if p.curIs(token.New) {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimaryExpression()
	}
	return p.parseCallMemberTail(expr)
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.cur
	p.next()
	callee := p.parseMemberExpressionOnly(p.parsePrimaryExpression())
	var args []ast.Expression
	if p.curIs(token.LParen) {
		args = p.parseArguments()
	}
	return &ast.NewExpression{BaseNode: ast.BaseNode{Token: tok}, Callee: callee, Arguments: args}
}

// parseMemberExpressionOnly parses `.`/`[]` tails but not calls, used for the
// callee of `new` so `new a.b.c(...)` binds correctly.
func (p *Parser) parseMemberExpressionOnly(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.curIs(token.Dot):
			tok := p.cur
			p.next()
			prop := p.parseIdentifier()
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: prop}
		case p.curIs(token.LBracket):
			tok := p.cur
			p.next()
			idx := p.parseExpression()
			p.expect(token.RBracket)
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: idx, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallMemberTail(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.curIs(token.Dot):
			tok := p.cur
			p.next()
			prop := p.parseIdentifier()
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: prop}
		case p.curIs(token.QuestionDot):
			tok := p.cur
			p.next()
			if p.curIs(token.LParen) {
				args := p.parseArguments()
				expr = &ast.CallExpression{BaseNode: ast.BaseNode{Token: tok}, Callee: expr, Arguments: args, Optional: true}
				continue
			}
			if p.curIs(token.LBracket) {
				p.next()
				idx := p.parseExpression()
				p.expect(token.RBracket)
				expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: idx, Computed: true, Optional: true}
				continue
			}
			prop := p.parseIdentifier()
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: prop, Optional: true}
		case p.curIs(token.LBracket):
			tok := p.cur
			p.next()
			idx := p.parseExpression()
			p.expect(token.RBracket)
			expr = &ast.MemberExpression{BaseNode: ast.BaseNode{Token: tok}, Object: expr, Property: idx, Computed: true}
		case p.curIs(token.LParen):
			tok := p.cur
			args := p.parseArguments()
			expr = &ast.CallExpression{BaseNode: ast.BaseNode{Token: tok}, Callee: expr, Arguments: args}
		case p.curIs(token.TemplateString) || p.curIs(token.TemplateHead):
			quasi := p.parseTemplateLiteral()
			expr = &ast.TaggedTemplateExpression{Tag: expr, Quasi: quasi}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LParen)
	var args []ast.Expression
	for !p.curIs(token.RParen) && !p.curIs(token.EOF) {
		if p.curIs(token.DotDotDot) {
			tok := p.cur
			p.next()
			args = append(args, &ast.SpreadElement{BaseNode: ast.BaseNode{Token: tok}, Argument: p.parseAssignmentExpression()})
		} else {
			args = append(args, p.parseAssignmentExpression())
		}
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RParen)
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	switch p.cur.Type {
	case token.Number:
		return p.parseNumberLiteral()
	case token.String:
		tok := p.cur
		p.next()
		return &ast.StringLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: tok.Cooked}
	case token.TemplateString, token.TemplateHead:
		return p.parseTemplateLiteral()
	case token.Regex:
		return p.parseRegexLiteral()
	case token.True, token.False:
		tok := p.cur
		p.next()
		return &ast.BooleanLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: tok.Type == token.True}
	case token.Null:
		tok := p.cur
		p.next()
		return &ast.NullLiteral{BaseNode: ast.BaseNode{Token: tok}}
	case token.Undefined:
		tok := p.cur
		p.next()
		return &ast.UndefinedLiteral{BaseNode: ast.BaseNode{Token: tok}}
	case token.Ident, token.Async, token.Of, token.From, token.Get, token.Set, token.Static, token.Yield, token.Await:
		return p.parseIdentifierAsExpr()
	case token.This:
		tok := p.cur
		p.next()
		return &ast.ThisExpression{BaseNode: ast.BaseNode{Token: tok}}
	case token.Super:
		tok := p.cur
		p.next()
		return &ast.SuperExpression{BaseNode: ast.BaseNode{Token: tok}}
	case token.LParen:
		p.next()
		expr := p.parseExpression()
		p.expect(token.RParen)
		return expr
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.Function:
		return p.parseFunctionLiteral(true)
	case token.Class:
		return p.parseClassLiteral()
	default:
		tok := p.cur
		p.errorf(tok.Start, "unexpected token %s in expression", tok.Type)
		p.next()
		return &ast.UndefinedLiteral{BaseNode: ast.BaseNode{Token: tok}}
	}
}

// parseIdentifierAsExpr allows contextual keywords (async, of, from, get,
// set, static, yield, await) to be used as plain identifiers outside their
// special syntactic positions.
func (p *Parser) parseIdentifierAsExpr() *ast.Identifier {
	tok := p.cur
	p.next()
	return &ast.Identifier{BaseNode: ast.BaseNode{Token: tok}, Name: tok.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur
	p.next()
	if tok.IsBigInt {
		return &ast.BigIntLiteral{BaseNode: ast.BaseNode{Token: tok}, Raw: tok.Literal}
	}
	return &ast.NumberLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: tok.NumValue}
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	tok := p.cur
	p.next()
	pattern, flags := splitRegexLiteral(tok.Literal)
	return &ast.RegexLiteral{BaseNode: ast.BaseNode{Token: tok}, Pattern: pattern, Flags: flags}
}

func splitRegexLiteral(lit string) (pattern, flags string) {
	last := len(lit) - 1
	for last > 0 && lit[last] != '/' {
		last--
	}
	return lit[1:last], lit[last+1:]
}

// parseTemplateLiteral consumes a TemplateString (no substitutions) or a
// TemplateHead/Middle/Tail chain, resuming lexing after each embedded
// expression via Lexer.ResumeTemplate.
func (p *Parser) parseTemplateLiteral() *ast.TemplateLiteral {
	tok := p.cur
	lit := &ast.TemplateLiteral{BaseNode: ast.BaseNode{Token: tok}}
	if p.curIs(token.TemplateString) {
		lit.Quasis = append(lit.Quasis, tok.Cooked)
		lit.Raw = append(lit.Raw, tok.Raw)
		p.next()
		return lit
	}
	lit.Quasis = append(lit.Quasis, tok.Cooked)
	lit.Raw = append(lit.Raw, tok.Raw)
	p.next()
	for {
		expr := p.parseExpression()
		lit.Expressions = append(lit.Expressions, expr)
		if !p.curIs(token.RBrace) {
			p.errorf(p.cur.Start, "expected '}' to close template substitution")
		}
		next := p.lex.ResumeTemplate()
		p.cur = next
		p.peek = p.lex.Next()
		lit.Quasis = append(lit.Quasis, p.cur.Cooked)
		lit.Raw = append(lit.Raw, p.cur.Raw)
		if p.cur.Type == token.TemplateTail {
			p.next()
			return lit
		}
		p.next()
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	p.expect(token.LBracket)
	lit := &ast.ArrayLiteral{BaseNode: ast.BaseNode{Token: tok}}
	for !p.curIs(token.RBracket) && !p.curIs(token.EOF) {
		if p.curIs(token.Comma) {
			lit.Elements = append(lit.Elements, nil)
			p.next()
			continue
		}
		if p.curIs(token.DotDotDot) {
			spreadTok := p.cur
			p.next()
			lit.Elements = append(lit.Elements, &ast.SpreadElement{BaseNode: ast.BaseNode{Token: spreadTok}, Argument: p.parseAssignmentExpression()})
		} else {
			lit.Elements = append(lit.Elements, p.parseAssignmentExpression())
		}
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RBracket)
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.cur
	p.expect(token.LBrace)
	lit := &ast.ObjectLiteral{BaseNode: ast.BaseNode{Token: tok}}
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		if p.curIs(token.DotDotDot) {
			p.next()
			lit.Properties = append(lit.Properties, &ast.Property{Kind: ast.PropSpread, Value: p.parseAssignmentExpression()})
			if p.curIs(token.Comma) {
				p.next()
			}
			continue
		}
		lit.Properties = append(lit.Properties, p.parseObjectProperty())
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RBrace)
	return lit
}

func (p *Parser) parseObjectProperty() *ast.Property {
	prop := &ast.Property{}

	if (p.curIs(token.Get) || p.curIs(token.Set)) && !p.peekIs(token.Colon) && !p.peekIs(token.Comma) && !p.peekIs(token.RBrace) && !p.peekIs(token.LParen) {
		isGetter := p.curIs(token.Get)
		p.next()
		prop.Key = p.parsePropertyKey(&prop.Computed)
		fn := &ast.FunctionLiteral{Params: p.parseParameterList()}
		fn.Body = p.parseBlockStatement()
		prop.Value = fn
		if isGetter {
			prop.Kind = ast.PropGet
		} else {
			prop.Kind = ast.PropSet
		}
		return prop
	}

	prop.Key = p.parsePropertyKey(&prop.Computed)

	if p.curIs(token.LParen) {
		fn := &ast.FunctionLiteral{Params: p.parseParameterList()}
		fn.Body = p.parseBlockStatement()
		prop.Value = fn
		prop.Kind = ast.PropMethod
		return prop
	}
	if p.curIs(token.Colon) {
		p.next()
		prop.Value = p.parseAssignmentExpression()
		prop.Kind = ast.PropInit
		return prop
	}
	// Shorthand { x } or { x = default } (only valid in pattern context,
	// tolerated here as sugar for { x: x }).
	prop.Shorthand = true
	if id, ok := prop.Key.(*ast.Identifier); ok {
		prop.Value = id
	}
	if p.curIs(token.Assign) {
		p.next()
		def := p.parseAssignmentExpression()
		prop.Value = &ast.AssignmentExpression{Operator: "=", Target: prop.Value, Value: def}
	}
	prop.Kind = ast.PropInit
	return prop
}

func (p *Parser) parsePropertyKey(computed *bool) ast.Expression {
	if p.curIs(token.LBracket) {
		*computed = true
		p.next()
		key := p.parseAssignmentExpression()
		p.expect(token.RBracket)
		return key
	}
	if p.curIs(token.String) {
		tok := p.cur
		p.next()
		return &ast.StringLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: tok.Cooked}
	}
	if p.curIs(token.Number) {
		tok := p.cur
		p.next()
		return &ast.StringLiteral{BaseNode: ast.BaseNode{Token: tok}, Value: strconv.FormatFloat(tok.NumValue, 'g', -1, 64)}
	}
	tok := p.cur
	name := p.cur.Literal
	p.next()
	return &ast.Identifier{BaseNode: ast.BaseNode{Token: tok}, Name: name}
}

func (p *Parser) parseClassLiteral() *ast.ClassLiteral {
	tok := p.cur
	p.expect(token.Class)
	cls := &ast.ClassLiteral{BaseNode: ast.BaseNode{Token: tok}}
	if p.curIs(token.Ident) {
		cls.Name = p.parseIdentifier()
	}
	if p.curIs(token.Extends) {
		p.next()
		cls.SuperClass = p.parseCallOrMemberExpression()
	}
	p.expect(token.LBrace)
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		if p.curIs(token.Semicolon) {
			p.next()
			continue
		}
		cls.Members = append(cls.Members, p.parseClassMember())
	}
	p.expect(token.RBrace)
	return cls
}

func (p *Parser) parseClassMember() *ast.ClassMember {
	member := &ast.ClassMember{}
	if p.curIs(token.Static) && !p.peekIs(token.LParen) && !p.peekIs(token.Assign) {
		member.Static = true
		p.next()
	}
	kind := ast.ClassMethod
	if (p.curIs(token.Get) || p.curIs(token.Set)) && !p.peekIs(token.LParen) && !p.peekIs(token.Assign) && !p.peekIs(token.Semicolon) {
		if p.curIs(token.Get) {
			kind = ast.ClassGetter
		} else {
			kind = ast.ClassSetter
		}
		p.next()
	}
	isGenerator := false
	if p.curIs(token.Star) {
		isGenerator = true
		p.next()
	}
	member.Key = p.parsePropertyKey(&member.Computed)
	if p.curIs(token.LParen) {
		fn := &ast.FunctionLiteral{IsGenerator: isGenerator, Params: p.parseParameterList()}
		fn.Body = p.parseBlockStatement()
		member.Kind = kind
		member.Value = fn
		return member
	}
	// Class field, with optional initializer.
	member.Kind = ast.ClassField
	if p.curIs(token.Assign) {
		p.next()
		member.Value = p.parseAssignmentExpression()
	}
	p.consumeSemicolon()
	return member
}
