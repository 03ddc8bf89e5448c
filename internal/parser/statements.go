package parser

import (
	"github.com/ecmago/ecmago/internal/ast"
	"github.com/ecmago/ecmago/pkg/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LBrace:
		return p.parseBlockStatement()
	case token.Var, token.Let, token.Const:
		return p.parseVariableDeclaration()
	case token.Function:
		return p.parseFunctionDeclaration()
	case token.Class:
		return p.parseClassLiteral()
	case token.If:
		return p.parseIfStatement()
	case token.For:
		return p.parseForStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Semicolon:
		tok := p.cur
		p.next()
		return &ast.EmptyStatement{BaseNode: ast.BaseNode{Token: tok}}
	default:
		if p.curIs(token.Ident) && p.peekIs(token.Colon) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.cur
	p.expect(token.LBrace)
	block := &ast.BlockStatement{BaseNode: ast.BaseNode{Token: tok}}
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		stmt := p.parseStatementRecovering()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(token.RBrace)
	return block
}

func declKindOf(t token.Type) ast.DeclarationKind {
	switch t {
	case token.Let:
		return ast.DeclLet
	case token.Const:
		return ast.DeclConst
	default:
		return ast.DeclVar
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	tok := p.cur
	kind := declKindOf(p.cur.Type)
	p.next()
	decl := &ast.VariableDeclaration{BaseNode: ast.BaseNode{Token: tok}, Kind: kind}
	for {
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.curIs(token.Assign) {
			p.next()
			init = p.parseAssignmentExpression()
		} else if kind == ast.DeclConst {
			p.errorf(tok.Start, "missing initializer in const declaration")
		}
		decl.Declarators = append(decl.Declarators, &ast.VariableDeclarator{Target: target, Init: init})
		if p.curIs(token.Comma) {
			p.next()
			continue
		}
		break
	}
	p.consumeSemicolon()
	return decl
}

// parseBindingTarget parses an identifier or a destructuring pattern used as
// a declaration/parameter target.
func (p *Parser) parseBindingTarget() ast.Expression {
	switch p.cur.Type {
	case token.LBracket:
		return p.parseArrayPattern()
	case token.LBrace:
		return p.parseObjectPattern()
	default:
		return p.parseIdentifier()
	}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.cur
	name := p.cur.Literal
	if !p.curIs(token.Ident) {
		p.errorf(p.cur.Start, "expected identifier, got %s", p.cur.Type)
	} else {
		p.next()
	}
	return &ast.Identifier{BaseNode: ast.BaseNode{Token: tok}, Name: name}
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	tok := p.cur
	p.expect(token.LBracket)
	pat := &ast.ArrayPattern{BaseNode: ast.BaseNode{Token: tok}}
	for !p.curIs(token.RBracket) && !p.curIs(token.EOF) {
		if p.curIs(token.Comma) {
			pat.Elements = append(pat.Elements, nil)
			p.next()
			continue
		}
		param := &ast.Parameter{}
		if p.curIs(token.DotDotDot) {
			p.next()
			param.Rest = true
		}
		param.Pattern = p.parseBindingTarget()
		if p.curIs(token.Assign) {
			p.next()
			param.Default = p.parseAssignmentExpression()
		}
		pat.Elements = append(pat.Elements, param)
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RBracket)
	return pat
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	tok := p.cur
	p.expect(token.LBrace)
	pat := &ast.ObjectPattern{BaseNode: ast.BaseNode{Token: tok}}
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		prop := &ast.ObjectPatternProperty{}
		if p.curIs(token.DotDotDot) {
			p.next()
			prop.Rest = true
			prop.Value = p.parseIdentifier()
			pat.Properties = append(pat.Properties, prop)
			if p.curIs(token.Comma) {
				p.next()
			}
			continue
		}
		if p.curIs(token.LBracket) {
			p.next()
			prop.Computed = true
			prop.Key = p.parseAssignmentExpression()
			p.expect(token.RBracket)
		} else {
			prop.Key = p.parseIdentifier()
		}
		if p.curIs(token.Colon) {
			p.next()
			prop.Value = p.parseBindingTarget()
		} else {
			prop.Value = prop.Key
		}
		if p.curIs(token.Assign) {
			p.next()
			def := p.parseAssignmentExpression()
			prop.Value = &ast.AssignmentExpression{Operator: "=", Target: prop.Value, Value: def}
		}
		pat.Properties = append(pat.Properties, prop)
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RBrace)
	return pat
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	fn := p.parseFunctionLiteral(false)
	return fn
}

func (p *Parser) parseFunctionLiteral(isExpr bool) *ast.FunctionLiteral {
	tok := p.cur
	p.expect(token.Function)
	isGen := false
	if p.curIs(token.Star) {
		isGen = true
		p.next()
	}
	fn := &ast.FunctionLiteral{BaseNode: ast.BaseNode{Token: tok}, IsGenerator: isGen}
	if p.curIs(token.Ident) {
		fn.Name = p.parseIdentifier()
	} else if !isExpr {
		p.errorf(p.cur.Start, "function declaration requires a name")
	}
	fn.Params = p.parseParameterList()
	savedGen, savedAsync := p.inGenerator, p.inAsync
	p.inGenerator, p.inAsync = isGen, fn.IsAsync
	fn.Body = p.parseBlockStatement()
	p.inGenerator, p.inAsync = savedGen, savedAsync
	return fn
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	p.expect(token.LParen)
	var params []*ast.Parameter
	for !p.curIs(token.RParen) && !p.curIs(token.EOF) {
		param := &ast.Parameter{}
		if p.curIs(token.DotDotDot) {
			p.next()
			param.Rest = true
		}
		param.Pattern = p.parseBindingTarget()
		if p.curIs(token.Assign) {
			p.next()
			param.Default = p.parseAssignmentExpression()
		}
		params = append(params, param)
		if p.curIs(token.Comma) {
			p.next()
		}
	}
	p.expect(token.RParen)
	return params
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.cur
	p.expect(token.If)
	p.expect(token.LParen)
	test := p.parseExpression()
	p.expect(token.RParen)
	cons := p.parseStatement()
	stmt := &ast.IfStatement{BaseNode: ast.BaseNode{Token: tok}, Test: test, Consequent: cons}
	if p.curIs(token.Else) {
		p.next()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.cur
	p.expect(token.While)
	p.expect(token.LParen)
	test := p.parseExpression()
	p.expect(token.RParen)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return &ast.WhileStatement{BaseNode: ast.BaseNode{Token: tok}, Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	tok := p.cur
	p.expect(token.Do)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	p.expect(token.While)
	p.expect(token.LParen)
	test := p.parseExpression()
	p.expect(token.RParen)
	p.consumeSemicolon()
	return &ast.DoWhileStatement{BaseNode: ast.BaseNode{Token: tok}, Body: body, Test: test}
}

// parseForStatement parses `for`, `for-in`, and `for-of` by parsing the init
// clause and then looking ahead for `in`/`of`.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	p.expect(token.For)
	p.expect(token.LParen)

	var declKeyword token.Type = token.Illegal
	var decl *ast.VariableDeclaration
	var initExpr ast.Expression

	if p.curIs(token.Var) || p.curIs(token.Let) || p.curIs(token.Const) {
		declKeyword = p.cur.Type
		declTok := p.cur
		kind := declKindOf(declKeyword)
		p.next()
		target := p.parseBindingTarget()
		if p.curIs(token.In) || p.curIs(token.Of) {
			isOf := p.curIs(token.Of)
			p.next()
			right := p.parseAssignmentExpression()
			p.expect(token.RParen)
			p.loopDepth++
			body := p.parseStatement()
			p.loopDepth--
			d := &ast.VariableDeclaration{BaseNode: ast.BaseNode{Token: declTok}, Kind: kind,
				Declarators: []*ast.VariableDeclarator{{Target: target}}}
			return &ast.ForInStatement{BaseNode: ast.BaseNode{Token: tok}, Decl: d, Right: right, Body: body, IsOf: isOf}
		}
		var init ast.Expression
		if p.curIs(token.Assign) {
			p.next()
			init = p.parseAssignmentExpression()
		}
		decl = &ast.VariableDeclaration{BaseNode: ast.BaseNode{Token: declTok}, Kind: kind,
			Declarators: []*ast.VariableDeclarator{{Target: target, Init: init}}}
		for p.curIs(token.Comma) {
			p.next()
			t2 := p.parseBindingTarget()
			var i2 ast.Expression
			if p.curIs(token.Assign) {
				p.next()
				i2 = p.parseAssignmentExpression()
			}
			decl.Declarators = append(decl.Declarators, &ast.VariableDeclarator{Target: t2, Init: i2})
		}
	} else if !p.curIs(token.Semicolon) {
		initExpr = p.parseExpression()
		if p.curIs(token.In) || p.curIs(token.Of) {
			isOf := p.curIs(token.Of)
			p.next()
			right := p.parseAssignmentExpression()
			p.expect(token.RParen)
			p.loopDepth++
			body := p.parseStatement()
			p.loopDepth--
			return &ast.ForInStatement{BaseNode: ast.BaseNode{Token: tok}, Left: initExpr, Right: right, Body: body, IsOf: isOf}
		}
	}

	p.expect(token.Semicolon)
	var test ast.Expression
	if !p.curIs(token.Semicolon) {
		test = p.parseExpression()
	}
	p.expect(token.Semicolon)
	var update ast.Expression
	if !p.curIs(token.RParen) {
		update = p.parseExpression()
	}
	p.expect(token.RParen)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--

	var initNode ast.Node
	if decl != nil {
		initNode = decl
	} else if initExpr != nil {
		initNode = initExpr
	}
	return &ast.ForStatement{BaseNode: ast.BaseNode{Token: tok}, Init: initNode, Test: test, Update: update, Body: body}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.cur
	p.next()
	stmt := &ast.ReturnStatement{BaseNode: ast.BaseNode{Token: tok}}
	if !p.curIs(token.Semicolon) && !p.curIs(token.RBrace) && !p.curIs(token.EOF) && !p.cur.NewlineBefore {
		stmt.Argument = p.parseExpression()
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	tok := p.cur
	p.next()
	stmt := &ast.BreakStatement{BaseNode: ast.BaseNode{Token: tok}}
	if p.curIs(token.Ident) && !p.cur.NewlineBefore {
		stmt.Label = p.parseIdentifier()
	} else if p.loopDepth == 0 && p.switchDepth == 0 {
		p.errorf(tok.Start, "illegal break statement")
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	tok := p.cur
	p.next()
	stmt := &ast.ContinueStatement{BaseNode: ast.BaseNode{Token: tok}}
	if p.curIs(token.Ident) && !p.cur.NewlineBefore {
		stmt.Label = p.parseIdentifier()
	} else if p.loopDepth == 0 {
		p.errorf(tok.Start, "illegal continue statement")
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	label := p.parseIdentifier()
	p.expect(token.Colon)
	p.labels[label.Name] = true
	body := p.parseStatement()
	delete(p.labels, label.Name)
	return &ast.LabeledStatement{BaseNode: ast.BaseNode{Token: label.Token}, Label: label, Body: body}
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	tok := p.cur
	p.expect(token.Switch)
	p.expect(token.LParen)
	disc := p.parseExpression()
	p.expect(token.RParen)
	p.expect(token.LBrace)
	p.switchDepth++
	stmt := &ast.SwitchStatement{BaseNode: ast.BaseNode{Token: tok}, Discriminant: disc}
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		c := &ast.SwitchCase{}
		if p.curIs(token.Case) {
			p.next()
			c.Test = p.parseExpression()
		} else {
			p.expect(token.Default)
		}
		p.expect(token.Colon)
		for !p.curIs(token.Case) && !p.curIs(token.Default) && !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
			s := p.parseStatementRecovering()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.switchDepth--
	p.expect(token.RBrace)
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	tok := p.cur
	p.expect(token.Try)
	stmt := &ast.TryStatement{BaseNode: ast.BaseNode{Token: tok}, Block: p.parseBlockStatement()}
	if p.curIs(token.Catch) {
		p.next()
		clause := &ast.CatchClause{}
		if p.curIs(token.LParen) {
			p.next()
			clause.Param = p.parseIdentifier()
			p.expect(token.RParen)
		}
		clause.Body = p.parseBlockStatement()
		stmt.Handler = clause
	}
	if p.curIs(token.Finally) {
		p.next()
		stmt.Finally = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finally == nil {
		p.errorf(tok.Start, "missing catch or finally after try")
	}
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	tok := p.cur
	p.next()
	if p.cur.NewlineBefore {
		p.errorf(tok.Start, "illegal newline after throw")
	}
	arg := p.parseExpression()
	p.consumeSemicolon()
	return &ast.ThrowStatement{BaseNode: ast.BaseNode{Token: tok}, Argument: arg}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	tok := p.cur
	expr := p.parseExpression()
	p.consumeSemicolon()
	return &ast.ExpressionStatement{BaseNode: ast.BaseNode{Token: tok}, Expr: expr}
}
